package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/hyperjump/veritas/internal/embedding"
	"github.com/hyperjump/veritas/internal/models"
	"github.com/hyperjump/veritas/internal/storage"
	"go.uber.org/zap"
)

// maxChatBodyBytes bounds a chat request, display history included.
const maxChatBodyBytes = 1 << 20

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxChatBodyBytes)
	var req models.ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			s.respondError(w, http.StatusRequestEntityTooLarge, "request body too large")
			return
		}
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		s.respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	sess := s.sessions.GetOrCreate(req.SessionID)
	s.logger.Debug("chat request",
		zap.String("session", sess.ID()),
		zap.Int("display_history", len(req.History)),
	)
	// A failed turn still returns 200: the body carries the fallback answer and the error text.
	s.respondJSON(w, http.StatusOK, sess.Submit(r.Context(), req))
}

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	sess := s.sessions.Create()
	s.logger.Debug("session created", zap.String("session", sess.ID()))
	s.respondJSON(w, http.StatusCreated, map[string]string{"session_id": sess.ID()})
}

func (s *Server) handleSessionHistory(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	sess, ok := s.sessions.Get(id)
	if !ok {
		s.respondError(w, http.StatusNotFound, "session not found")
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]interface{}{
		"session_id": sess.ID(),
		"history":    sess.History(),
	})
}

// handleSessionTranscript returns the archived turns of a session, which outlive
// its in-memory history.
func (s *Server) handleSessionTranscript(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	records, err := s.transcripts.Transcript(r.Context(), id)
	if err != nil {
		s.logger.Error("transcript lookup failed", zap.String("session", id), zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, "transcript unavailable")
		return
	}
	if len(records) == 0 {
		s.respondError(w, http.StatusNotFound, "no archived turns for session")
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]interface{}{
		"session_id": id,
		"turns":      records,
	})
}

func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if !s.sessions.Delete(id) {
		s.respondError(w, http.StatusNotFound, "session not found")
		return
	}
	s.logger.Debug("session deleted", zap.String("session", id))
	s.respondJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	archived, err := s.transcripts.CountTurns(ctx)
	if err != nil {
		s.logger.Error("status: count archived turns failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	archivedSessions, err := s.transcripts.CountSessions(ctx)
	if err != nil {
		s.logger.Error("status: count archived sessions failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	idx := s.pipeline.Index()
	resp := map[string]interface{}{
		"documents":         s.info.Documents,
		"chunks":            s.info.Chunks,
		"failed_files":      s.info.Failures,
		"skipped_files":     s.info.Skipped,
		"index_size":        idx.Size(),
		"sessions":          s.sessions.Len(),
		"archived_turns":    archived,
		"archived_sessions": archivedSessions,
		"build_ms":          s.info.BuildDuration.Milliseconds(),
	}
	if cached, ok := s.pipeline.Embedder().(*embedding.CachedEmbedder); ok {
		hits, misses := cached.Cache().Stats()
		resp["embedding_cache"] = map[string]interface{}{
			"entries": cached.Cache().Len(),
			"hits":    hits,
			"misses":  misses,
		}
	}
	if corpusBytes, err := storage.DiskUsageBytes(s.info.CorpusPath); err == nil {
		resp["corpus_bytes"] = corpusBytes
	}
	resp["config"] = map[string]interface{}{
		"corpus_path":     s.info.CorpusPath,
		"embedding_model": s.info.EmbeddingModel,
		"llm_model":       s.info.LLMModel,
		"dimensions":      idx.Dimensions(),
		"metric":          idx.Metric(),
		"k":               s.pipeline.K(),
	}
	s.respondJSON(w, http.StatusOK, resp)
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func (s *Server) respondError(w http.ResponseWriter, status int, message string) {
	s.respondJSON(w, status, map[string]string{"error": message})
}
