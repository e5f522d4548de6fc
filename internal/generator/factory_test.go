package generator

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/hyperjump/veritas/internal/config"
	"github.com/hyperjump/veritas/internal/models"
	"go.uber.org/zap"
)

func TestNew_extractive(t *testing.T) {
	gen, model, err := New(context.Background(), &config.LLMConfig{Provider: "extractive"}, zap.NewNop())
	if err != nil {
		t.Fatal(err)
	}
	if model != nil {
		t.Error("extractive provider should not return a chat model")
	}
	if _, ok := gen.(*ExtractiveGenerator); !ok {
		t.Errorf("got %T", gen)
	}
}

func TestNew_missingKey(t *testing.T) {
	t.Setenv("VERITAS_TEST_LLM_KEY", "")
	for _, provider := range []string{"gemini", "openai"} {
		t.Run(provider, func(t *testing.T) {
			_, _, err := New(context.Background(), &config.LLMConfig{Provider: provider, APIKeyEnv: "VERITAS_TEST_LLM_KEY"}, nil)
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), "VERITAS_TEST_LLM_KEY") {
				t.Errorf("error should name the env var: %v", err)
			}
		})
	}
}

func TestNew_unknownProvider(t *testing.T) {
	if _, _, err := New(context.Background(), &config.LLMConfig{Provider: "parrot"}, nil); err == nil {
		t.Error("expected error")
	}
}

func TestOpenAIChatModel_viaFactory(t *testing.T) {
	var gotReq struct {
		Model       string  `json:"model"`
		Temperature float64 `json:"temperature"`
		Messages    []struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"messages"`
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/chat/completions") {
			http.NotFound(w, r)
			return
		}
		if err := json.NewDecoder(r.Body).Decode(&gotReq); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"id":     "chatcmpl-1",
			"object": "chat.completion",
			"model":  gotReq.Model,
			"choices": []map[string]any{{
				"index":         0,
				"finish_reason": "stop",
				"message":       map[string]any{"role": "assistant", "content": "Within 30 days."},
			}},
		})
	}))
	defer srv.Close()

	t.Setenv("VERITAS_TEST_LLM_KEY", "test-key")
	temp := 0.5
	cfg := &config.LLMConfig{
		Provider:    "openai",
		Model:       "gpt-4o-mini",
		Temperature: &temp,
		APIKeyEnv:   "VERITAS_TEST_LLM_KEY",
		BaseURL:     srv.URL + "/v1",
		Preamble:    "Use the context.",
	}
	gen, model, err := New(context.Background(), cfg, zap.NewNop())
	if err != nil {
		t.Fatal(err)
	}
	if model.ModelID() != "openai:gpt-4o-mini" {
		t.Errorf("ModelID = %s", model.ModelID())
	}
	chunks := []*models.Chunk{{Text: "Refunds are available within 30 days of purchase."}}
	answer, err := gen.Generate(context.Background(), "refund window?", chunks, nil)
	if err != nil {
		t.Fatal(err)
	}
	if answer != "Within 30 days." {
		t.Errorf("answer = %q", answer)
	}
	if gotReq.Temperature != 0.5 {
		t.Errorf("temperature = %g", gotReq.Temperature)
	}
	if len(gotReq.Messages) != 1 || gotReq.Messages[0].Role != "user" {
		t.Fatalf("messages = %+v", gotReq.Messages)
	}
	if !strings.Contains(gotReq.Messages[0].Content, "within 30 days of purchase") {
		t.Errorf("prompt missing context: %s", gotReq.Messages[0].Content)
	}
}
