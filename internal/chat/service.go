package chat

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"budget-backend/internal/analytics"
	"budget-backend/internal/dashboard"
	"budget-backend/internal/insight"
	"budget-backend/internal/shared/telemetry"
)

const defaultHistoryLimit = 10

// ErrFileNotFound is returned when an attached file reference cannot be
// resolved for the requesting user.
var ErrFileNotFound = errors.New("file not found")

// MetricsSource resolves the computed analytics of an uploaded file.
type MetricsSource interface {
	FileMetrics(ctx context.Context, userID, fileID string) (analytics.MetricsResult, string, error)
}

// Service handles conversational turns.
type Service struct {
	Repo         Repo
	Files        MetricsSource
	Insight      *insight.Orchestrator
	HistoryLimit int
}

// Send persists the user's message, produces the assistant reply through
// the two-stage pipeline, persists and returns it. When a file is attached
// the reply is grounded in its computed metrics and carries the dashboard
// payload; the payload always comes from the stored MetricsResult, never
// from generated text.
func (s *Service) Send(ctx context.Context, userID, text, fileID string) (Message, error) {
	if strings.TrimSpace(text) == "" {
		return Message{}, errors.New("message is required")
	}

	var metricsCtx *analytics.MetricsResult
	if fileID != "" {
		if s.Files == nil {
			return Message{}, ErrFileNotFound
		}
		m, _, err := s.Files.FileMetrics(ctx, userID, fileID)
		if err != nil {
			return Message{}, ErrFileNotFound
		}
		metricsCtx = &m
	}

	// History is read before the new turn is appended so the prompt does
	// not repeat the current message.
	history, err := s.history(ctx, userID)
	if err != nil {
		telemetry.Error("chat.history_load_failed", map[string]any{
			"user_id": userID,
			"err":     err.Error(),
		})
		history = nil
	}

	userMsg := Message{
		ID:        uuid.NewString(),
		UserID:    userID,
		Role:      RoleUser,
		Content:   text,
		FileID:    fileID,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.Repo.Append(ctx, userMsg); err != nil {
		return Message{}, err
	}

	reply := s.Insight.ChatReply(ctx, text, history, metricsCtx)
	content := reply
	if metricsCtx != nil {
		content = dashboard.Embed(reply, *metricsCtx)
	}

	assistantMsg := Message{
		ID:        uuid.NewString(),
		UserID:    userID,
		Role:      RoleAssistant,
		Content:   content,
		FileID:    fileID,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.Repo.Append(ctx, assistantMsg); err != nil {
		return Message{}, err
	}
	return assistantMsg, nil
}

// History returns the user's transcript, oldest first.
func (s *Service) History(ctx context.Context, userID string, limit int) ([]Message, error) {
	return s.Repo.ListByUser(ctx, userID, limit)
}

// Clear removes the user's full transcript.
func (s *Service) Clear(ctx context.Context, userID string) error {
	return s.Repo.ClearByUser(ctx, userID)
}

// history loads recent turns for prompting, with dashboard payload blocks
// stripped so the model sees prose only.
func (s *Service) history(ctx context.Context, userID string) ([]insight.Turn, error) {
	limit := s.HistoryLimit
	if limit <= 0 {
		limit = defaultHistoryLimit
	}
	msgs, err := s.Repo.ListByUser(ctx, userID, limit)
	if err != nil {
		return nil, err
	}
	turns := make([]insight.Turn, 0, len(msgs))
	for _, msg := range msgs {
		narrative, _ := dashboard.Extract(msg.Content)
		turns = append(turns, insight.Turn{Role: msg.Role, Content: narrative})
	}
	return turns, nil
}
