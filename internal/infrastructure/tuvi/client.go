// Package tuvi calls an external Tử Vi chart service over HTTP.
package tuvi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sorcererxstreme/chatbot/internal/divination"
	"github.com/sorcererxstreme/chatbot/internal/model"
)

// Client implements divination.HoroscopeLookup against POST {baseURL}/chart.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// chartResponse mirrors the service payload: bản mệnh, cục, cung an mệnh and the
// primary stars sitting in it.
type chartResponse struct {
	BanMenh     string   `json:"ban_menh"`
	Cuc         string   `json:"cuc"`
	MenhTaiCung string   `json:"menh_tai_cung"`
	ChinhTinh   []string `json:"chinh_tinh"`
	Error       string   `json:"error,omitempty"`
}

func (c *Client) Lookup(ctx context.Context, q divination.HoroscopeQuery) (*model.ChartReading, error) {
	body, err := json.Marshal(q)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chart", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("tuvi request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("read tuvi response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("tuvi service error: status %d, body: %s", resp.StatusCode, string(raw))
	}

	var chart chartResponse
	if err := json.Unmarshal(raw, &chart); err != nil {
		return nil, fmt.Errorf("decode tuvi response: %w", err)
	}
	if chart.Error != "" {
		return nil, fmt.Errorf("tuvi service error: %s", chart.Error)
	}

	return &model.ChartReading{
		Element:      chart.BanMenh,
		Structure:    chart.Cuc,
		LifePalace:   chart.MenhTaiCung,
		PrimaryStars: chart.ChinhTinh,
	}, nil
}
