package rag

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/hyperjump/veritas/internal/memory"
	"github.com/hyperjump/veritas/internal/models"
	"go.uber.org/zap"
)

// Session is one conversation. Turns within a session run one at a time;
// separate sessions share only the pipeline's read-only index.
type Session struct {
	id       string
	pipeline *Pipeline
	mu       sync.Mutex
	memory   *memory.Memory
}

// NewSession starts a conversation with empty memory.
func (p *Pipeline) NewSession(id string) *Session {
	return &Session{id: id, pipeline: p, memory: memory.New()}
}

// ID returns the session identifier.
func (s *Session) ID() string {
	return s.id
}

// History returns a snapshot of completed turns, oldest first.
func (s *Session) History() []models.Turn {
	return s.memory.History()
}

// Turns returns the number of completed turns.
func (s *Session) Turns() int {
	return s.memory.Len()
}

// Ask answers question using retrieved context and this session's history, then records the turn.
// On error, memory is left unchanged and the session stays usable.
func (s *Session) Ask(ctx context.Context, question string) (*models.Answer, error) {
	q, err := normalizeQuestion(question)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	ans, err := s.pipeline.answer(ctx, s.id, q, s.memory.History())
	if err != nil {
		return nil, err
	}
	s.memory.Append(ans.Question, ans.Text)

	seq := s.memory.Len()
	turn := models.Turn{Question: ans.Question, Answer: ans.Text}
	if err := s.pipeline.transcripts.AppendTurn(context.WithoutCancel(ctx), s.id, seq, turn); err != nil {
		s.pipeline.logger.Warn("failed to archive turn",
			zap.String("session", s.id), zap.Int("seq", seq), zap.Error(err))
	}
	return ans, nil
}

// Submit is the chat boundary: it answers req.Question and returns the display history
// with the new exchange appended and an empty input. A failed turn shows the fallback
// message in the display history but is not added to memory.
func (s *Session) Submit(ctx context.Context, req models.ChatRequest) models.ChatResponse {
	display := make([]models.Turn, len(req.History), len(req.History)+1)
	copy(display, req.History)
	resp := models.ChatResponse{SessionID: s.id, History: display}

	ans, err := s.Ask(ctx, req.Question)
	switch {
	case errors.Is(err, ErrEmptyQuestion):
		resp.Error = err.Error()
		return resp
	case err != nil:
		s.pipeline.logger.Warn("turn failed",
			zap.String("session", s.id),
			zap.Bool("retriable", isRetriable(err)),
			zap.Error(err),
		)
		resp.Error = err.Error()
		resp.History = append(resp.History, models.Turn{Question: strings.TrimSpace(req.Question), Answer: s.pipeline.fallback})
		return resp
	}
	resp.History = append(resp.History, models.Turn{Question: ans.Question, Answer: ans.Text})
	return resp
}

func isRetriable(err error) bool {
	var te *TurnError
	return errors.As(err, &te) && te.Retriable()
}
