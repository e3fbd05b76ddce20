package files

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"

	"budget-backend/internal/analytics"
	"budget-backend/internal/chat"
	"budget-backend/internal/ingest"
	"budget-backend/internal/insight"
	"budget-backend/internal/shared/metrics"
	"budget-backend/internal/shared/storage/object"
	"budget-backend/internal/shared/telemetry"
)

// Service contains business logic for uploads. An upload runs the full
// pipeline synchronously: parse, classify, compute, narrate, then the
// auto-insight lands in the user's transcript alongside the file record.
type Service struct {
	Repo     Repo
	Messages chat.Repo
	Store    object.ObjectStore
	Insight  *insight.Orchestrator
}

// Upload ingests a CSV payload, computes its analytics, stores the raw
// bytes and the file record, and appends the upload + auto-insight turn to
// the user's transcript. A SchemaError or parse failure surfaces to the
// caller; generative outage degrades inside the orchestrator.
func (s *Service) Upload(ctx context.Context, userID, fileName string, r io.Reader) (File, chat.Message, error) {
	started := time.Now().UTC()
	metrics.IncInsightStarted()

	data, err := io.ReadAll(r)
	if err != nil {
		metrics.IncInsightFailed()
		return File{}, chat.Message{}, fmt.Errorf("read upload: %w", err)
	}

	table, err := ingest.ParseCSV(fileName, data)
	if err != nil {
		metrics.IncInsightFailed()
		return File{}, chat.Message{}, err
	}

	ins, err := s.Insight.Run(ctx, table)
	if err != nil {
		metrics.IncInsightFailed()
		return File{}, chat.Message{}, err
	}

	storageKey, size, _, err := s.Store.Save(ctx, userID, fileName, bytes.NewReader(data))
	if err != nil {
		metrics.IncInsightFailed()
		return File{}, chat.Message{}, fmt.Errorf("store upload: %w", err)
	}

	file := File{
		ID:         uuid.NewString(),
		UserID:     userID,
		FileName:   fileName,
		StorageKey: storageKey,
		SizeBytes:  size,
		RowCount:   table.RowCount(),
		Metrics:    ins.Metrics,
		CreatedAt:  time.Now().UTC(),
	}
	if err := s.Repo.Create(ctx, file); err != nil {
		metrics.IncInsightFailed()
		return File{}, chat.Message{}, fmt.Errorf("create file record: %w", err)
	}

	uploadMsg := chat.Message{
		ID:        uuid.NewString(),
		UserID:    userID,
		Role:      chat.RoleUser,
		Content:   "Uploaded file: " + fileName,
		FileID:    file.ID,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.Messages.Append(ctx, uploadMsg); err != nil {
		metrics.IncInsightFailed()
		return File{}, chat.Message{}, fmt.Errorf("append upload message: %w", err)
	}

	insightMsg := chat.Message{
		ID:        uuid.NewString(),
		UserID:    userID,
		Role:      chat.RoleAssistant,
		Content:   ins.Content,
		FileID:    file.ID,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.Messages.Append(ctx, insightMsg); err != nil {
		metrics.IncInsightFailed()
		return File{}, chat.Message{}, fmt.Errorf("append insight message: %w", err)
	}

	metrics.IncInsightCompleted()
	metrics.ObserveInsightDurationMs(float64(time.Since(started).Microseconds()) / 1000.0)
	telemetry.Info("files.uploaded", map[string]any{
		"user_id":        userID,
		"file_id":        file.ID,
		"file_name":      fileName,
		"rows":           file.RowCount,
		"is_financial":   ins.Metrics.IsFinancial(),
		"last_generated": string(ins.LastGenerated),
	})

	return file, insightMsg, nil
}

// Get returns a file by ID for a user.
func (s *Service) Get(ctx context.Context, userID, fileID string) (File, error) {
	if fileID == "" {
		return File{}, ErrNotFound
	}
	return s.Repo.GetByID(ctx, userID, fileID)
}

// List returns a user's files, newest first.
func (s *Service) List(ctx context.Context, userID string, limit, offset int) ([]File, error) {
	return s.Repo.ListByUser(ctx, userID, limit, offset)
}

// FileMetrics resolves a file's computed analytics for chat context.
func (s *Service) FileMetrics(ctx context.Context, userID, fileID string) (analytics.MetricsResult, string, error) {
	file, err := s.Get(ctx, userID, fileID)
	if err != nil {
		return analytics.MetricsResult{}, "", err
	}
	return file.Metrics, file.FileName, nil
}
