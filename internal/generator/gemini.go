package generator

import (
	"context"
	"errors"
	"fmt"

	"google.golang.org/genai"
)

// GeminiChatModel completes prompts with a Gemini model.
type GeminiChatModel struct {
	client      *genai.Client
	model       string
	temperature float32
}

// NewGeminiChatModel creates a Gemini API client. apiKey is required.
func NewGeminiChatModel(ctx context.Context, apiKey, baseURL, model string, temperature float64) (*GeminiChatModel, error) {
	if apiKey == "" {
		return nil, errors.New("gemini chat model: API key is not set")
	}
	cc := &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	}
	if baseURL != "" {
		cc.HTTPOptions.BaseURL = baseURL
	}
	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("gemini chat model: create client: %w", err)
	}
	return &GeminiChatModel{client: client, model: model, temperature: float32(temperature)}, nil
}

// Complete sends prompt as a single user message.
func (m *GeminiChatModel) Complete(ctx context.Context, prompt string) (string, error) {
	resp, err := m.client.Models.GenerateContent(ctx, m.model, genai.Text(prompt), &genai.GenerateContentConfig{
		Temperature: genai.Ptr(m.temperature),
	})
	if err != nil {
		return "", fmt.Errorf("gemini generate: %w", err)
	}
	return resp.Text(), nil
}

// ModelID returns "gemini:" plus the model name.
func (m *GeminiChatModel) ModelID() string {
	return "gemini:" + m.model
}
