// Command smoke sends a short scripted conversation to a running server and prints the
// replies.
package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

type exchange struct {
	label string
	body  map[string]any
}

var (
	baseURL string
	token   string
)

var rootCmd = &cobra.Command{
	Use:          "smoke",
	Short:        "Run a scripted conversation against a running chat server",
	Args:         cobra.NoArgs,
	SilenceUsage: true,
	RunE:         runSmoke,
}

func init() {
	rootCmd.Flags().StringVar(&baseURL, "url", "http://localhost:8080", "server base URL")
	rootCmd.Flags().StringVar(&token, "token", "", "bearer token when auth is enabled")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runSmoke(_ *cobra.Command, _ []string) error {
	sessionID := uuid.NewString()
	user := map[string]any{"name": "An", "birth_date": "10/10/1995", "birth_time": "09:15", "gender": "nữ"}
	partner := map[string]any{"name": "Bình", "birth_date": "1992-11-29"}

	script := []exchange{
		{"chit-chat", map[string]any{"data": map[string]any{"sessionId": sessionID, "question": "Hi"}}},
		{"profile", map[string]any{"user_context": user, "data": map[string]any{"sessionId": sessionID, "question": "Tử vi năm nay của tôi thế nào?"}}},
		{"explicit date", map[string]any{"user_context": user, "data": map[string]any{"sessionId": sessionID, "question": "Ngày 20/11/2026 có hợp để khai trương không?"}}},
		{"partner", map[string]any{"user_context": user, "partner_context": partner, "data": map[string]any{"sessionId": sessionID, "question": "Chúng tôi có hợp nhau không?"}}},
		{"tarot", map[string]any{"data": map[string]any{"sessionId": sessionID, "tarot_cards": []string{"The Tower", "The Star", "Ten of Cups"}}}},
		{"missing session", map[string]any{"data": map[string]any{"question": "Số chủ đạo của tôi?"}}},
	}

	client := &http.Client{Timeout: 60 * time.Second}
	failed := false
	for _, ex := range script {
		status, body, err := post(client, baseURL+"/api/v1/chat", token, ex.body)
		if err != nil {
			fmt.Printf("[%s] request failed: %v\n", ex.label, err)
			failed = true
			continue
		}
		fmt.Printf("[%s] %d\n%s\n\n", ex.label, status, body)
	}
	if failed {
		return fmt.Errorf("some requests failed")
	}
	return nil
}

func post(client *http.Client, url, token string, payload any) (int, string, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return 0, "", err
	}
	req, err := http.NewRequest(http.MethodPost, url, bytes.NewReader(data))
	if err != nil {
		return 0, "", err
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := client.Do(req)
	if err != nil {
		return 0, "", err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, "", err
	}
	return resp.StatusCode, string(body), nil
}
