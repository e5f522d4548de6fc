package embedding

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func newEmbeddingServer(t *testing.T, dims int, requests *int) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/embeddings") {
			http.NotFound(w, r)
			return
		}
		*requests++
		var req struct {
			Input []string `json:"input"`
			Model string   `json:"model"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		data := make([]map[string]any, len(req.Input))
		// Reverse order to check that Index is honoured.
		for i := range req.Input {
			idx := len(req.Input) - 1 - i
			vec := make([]float32, dims)
			vec[0] = float32(len(req.Input[idx]))
			data[i] = map[string]any{"object": "embedding", "index": idx, "embedding": vec}
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{"object": "list", "model": req.Model, "data": data})
	}))
}

func TestOpenAIEmbedder_EmbedBatch(t *testing.T) {
	var requests int
	srv := newEmbeddingServer(t, 4, &requests)
	defer srv.Close()

	e, err := NewOpenAIEmbedder(OpenAIOptions{APIKey: "test", BaseURL: srv.URL + "/v1", Dimensions: 4, BatchSize: 2})
	if err != nil {
		t.Fatal(err)
	}
	vecs, err := e.EmbedBatch(context.Background(), []string{"a", "bb", "ccc"})
	if err != nil {
		t.Fatal(err)
	}
	if requests != 2 {
		t.Errorf("requests = %d, want 2 batches", requests)
	}
	if len(vecs) != 3 {
		t.Fatalf("got %d vectors", len(vecs))
	}
	for i, want := range []float32{1, 2, 3} {
		if vecs[i][0] != want {
			t.Errorf("vector %d = %v, want first value %v", i, vecs[i], want)
		}
	}
	if e.ModelID() != "openai:text-embedding-3-small" {
		t.Errorf("ModelID() = %q", e.ModelID())
	}
}

func TestOpenAIEmbedder_dimensionMismatch(t *testing.T) {
	var requests int
	srv := newEmbeddingServer(t, 3, &requests)
	defer srv.Close()

	e, err := NewOpenAIEmbedder(OpenAIOptions{APIKey: "test", BaseURL: srv.URL + "/v1", Dimensions: 4})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := e.Embed(context.Background(), "x"); err == nil {
		t.Error("expected dimension mismatch error")
	}
}

func TestOpenAIEmbedder_serverError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error":{"message":"quota exceeded","type":"rate_limit"}}`))
	}))
	defer srv.Close()

	e, err := NewOpenAIEmbedder(OpenAIOptions{APIKey: "test", BaseURL: srv.URL + "/v1"})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := e.Embed(context.Background(), "x"); err == nil {
		t.Error("expected error from 429 response")
	}
}

func TestNewOpenAIEmbedder_requiresKey(t *testing.T) {
	if _, err := NewOpenAIEmbedder(OpenAIOptions{}); err == nil {
		t.Error("expected error without key or base URL")
	}
}

func TestNewGeminiEmbedder_requiresKey(t *testing.T) {
	if _, err := NewGeminiEmbedder(context.Background(), GeminiOptions{}); err == nil {
		t.Error("expected error without API key")
	}
}
