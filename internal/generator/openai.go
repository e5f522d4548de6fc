package generator

import (
	"context"
	"errors"
	"fmt"
	"math"

	openai "github.com/sashabaranov/go-openai"
)

// OpenAIChatModel completes prompts through an OpenAI-compatible chat endpoint.
type OpenAIChatModel struct {
	client      *openai.Client
	model       string
	temperature float32
}

// NewOpenAIChatModel creates a client. An API key is required unless baseURL points at
// a self-hosted compatible server.
func NewOpenAIChatModel(apiKey, baseURL, model string, temperature float64) (*OpenAIChatModel, error) {
	if apiKey == "" && baseURL == "" {
		return nil, errors.New("openai chat model: API key is not set")
	}
	if model == "" {
		model = openai.GPT4oMini
	}
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	return &OpenAIChatModel{
		client:      openai.NewClientWithConfig(cfg),
		model:       model,
		temperature: float32(temperature),
	}, nil
}

// Complete sends prompt as a single user message and returns the first choice.
func (m *OpenAIChatModel) Complete(ctx context.Context, prompt string) (string, error) {
	temp := m.temperature
	if temp == 0 {
		// The request field is omitempty; a zero would fall back to the server default.
		temp = math.SmallestNonzeroFloat32
	}
	resp, err := m.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       m.model,
		Temperature: temp,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	})
	if err != nil {
		return "", fmt.Errorf("openai chat: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("openai chat: no choices: %w", ErrMalformedResponse)
	}
	return resp.Choices[0].Message.Content, nil
}

// ModelID returns "openai:" plus the model name.
func (m *OpenAIChatModel) ModelID() string {
	return "openai:" + m.model
}
