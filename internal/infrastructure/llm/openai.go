package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sashabaranov/go-openai"
)

// ErrEmptyCompletion is returned when the model answered with no usable text.
var ErrEmptyCompletion = errors.New("llm returned an empty completion")

// ChatClient talks to any OpenAI compatible chat completion endpoint (DeepSeek, OpenAI,
// a local gateway).
type ChatClient struct {
	modelName   string
	temperature float32
	maxTokens   int
	client      *openai.Client
}

func NewChatClient(apiKey, baseURL, modelName string, temperature float32, maxTokens int) *ChatClient {
	config := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		config.BaseURL = baseURL
	}

	return &ChatClient{
		modelName:   modelName,
		temperature: temperature,
		maxTokens:   maxTokens,
		client:      openai.NewClientWithConfig(config),
	}
}

func (c *ChatClient) Generate(ctx context.Context, systemInstruction, userInstruction string) (string, error) {
	req := openai.ChatCompletionRequest{
		Model: c.modelName,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemInstruction},
			{Role: openai.ChatMessageRoleUser, Content: userInstruction},
		},
		Temperature: c.temperature,
		MaxTokens:   c.maxTokens,
	}

	resp, err := c.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", ErrEmptyCompletion
	}

	text := strings.TrimSpace(resp.Choices[0].Message.Content)
	if text == "" {
		return "", ErrEmptyCompletion
	}
	return text, nil
}
