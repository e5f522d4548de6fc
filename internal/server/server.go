// Package server provides the HTTP chat API for Veritas.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/hyperjump/veritas/internal/config"
	"github.com/hyperjump/veritas/internal/rag"
	"github.com/hyperjump/veritas/internal/session"
	"github.com/hyperjump/veritas/internal/storage"
	"github.com/hyperjump/veritas/pkg/utils"
	"go.uber.org/zap"
)

// BuildInfo describes the corpus and models the server was started with.
type BuildInfo struct {
	CorpusPath     string
	Documents      int
	Chunks         int
	Failures       int
	Skipped        int
	EmbeddingModel string
	LLMModel       string
	BuildDuration  time.Duration
}

// Server is the HTTP server for the chat API.
type Server struct {
	pipeline    *rag.Pipeline
	sessions    *session.Manager
	transcripts storage.TranscriptStore
	info        BuildInfo
	config      *config.ServerConfig
	logger      *zap.Logger
	server      *http.Server
}

// NewServer creates a server with the given dependencies. transcripts may be nil.
func NewServer(
	pipeline *rag.Pipeline,
	sessions *session.Manager,
	transcripts storage.TranscriptStore,
	info BuildInfo,
	cfg *config.ServerConfig,
	logger *zap.Logger,
) *Server {
	if transcripts == nil {
		transcripts = storage.NopStore{}
	}
	return &Server{
		pipeline:    pipeline,
		sessions:    sessions,
		transcripts: transcripts,
		info:        info,
		config:      cfg,
		logger:      utils.LoggerOrNop(logger),
	}
}

// Handler returns the router with all routes mounted.
func (s *Server) Handler() http.Handler {
	timeout := time.Duration(s.config.RequestTimeoutSecs) * time.Second
	if timeout <= 0 {
		timeout = 120 * time.Second
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(timeout))
	r.Use(middleware.Compress(5))

	r.Get("/health", s.handleHealth)
	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/status", s.handleStatus)
		r.Post("/chat", s.handleChat)
		r.Post("/sessions", s.handleCreateSession)
		r.Get("/sessions/{id}/history", s.handleSessionHistory)
		r.Get("/sessions/{id}/transcript", s.handleSessionTranscript)
		r.Delete("/sessions/{id}", s.handleDeleteSession)
	})
	return r
}

// Start starts the HTTP server and blocks until it stops.
func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)
	s.server = &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	s.logger.Info("Starting server", zap.String("addr", addr))
	return s.server.ListenAndServe()
}

// Stop gracefully shuts down the server.
func (s *Server) Stop(ctx context.Context) error {
	if s.server != nil {
		return s.server.Shutdown(ctx)
	}
	return nil
}
