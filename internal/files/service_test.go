package files

import (
	"context"
	"errors"
	"strings"
	"testing"

	"budget-backend/internal/analytics"
	"budget-backend/internal/chat"
	"budget-backend/internal/dashboard"
	"budget-backend/internal/ingest"
	"budget-backend/internal/insight"
	"budget-backend/internal/llm"
	localstore "budget-backend/internal/shared/storage/object/local"
)

const sampleCSV = "date,category,amount,type\n2024-01-01,Rent,1200,expense\n2024-01-02,Salary,5000,income\n"

func newTestUploadService(t *testing.T) (*Service, *chat.MemoryRepo) {
	t.Helper()
	messages := chat.NewMemoryRepo()
	svc := &Service{
		Repo:     NewMemoryRepo(),
		Messages: messages,
		Store:    localstore.New(t.TempDir()),
		Insight:  insight.New(llm.Disabled{}, llm.Disabled{}, analytics.DefaultOptions()),
	}
	return svc, messages
}

func TestUploadHappyPath(t *testing.T) {
	svc, messages := newTestUploadService(t)

	file, msg, err := svc.Upload(context.Background(), "user-1", "expenses.csv", strings.NewReader(sampleCSV))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if file.ID == "" || file.StorageKey == "" {
		t.Fatalf("incomplete file record: %+v", file)
	}
	if file.RowCount != 2 {
		t.Fatalf("row count = %d", file.RowCount)
	}
	if file.Metrics.Financial == nil {
		t.Fatal("expected financial metrics on record")
	}
	if file.Metrics.Financial.NetSurplus != 3800 {
		t.Fatalf("net surplus = %v", file.Metrics.Financial.NetSurplus)
	}

	// The auto-insight lands in the transcript with the dashboard payload.
	if msg.Role != chat.RoleAssistant {
		t.Fatalf("message role = %q", msg.Role)
	}
	if msg.FileID != file.ID {
		t.Fatalf("message file id = %q, want %q", msg.FileID, file.ID)
	}
	_, payload := dashboard.Extract(msg.Content)
	if payload == nil || payload.Financial == nil {
		t.Fatal("expected embedded payload in auto-insight")
	}

	transcript, err := messages.ListByUser(context.Background(), "user-1", 0)
	if err != nil {
		t.Fatalf("list transcript: %v", err)
	}
	if len(transcript) != 2 {
		t.Fatalf("expected upload + insight message, got %d", len(transcript))
	}
	if transcript[0].Content != "Uploaded file: expenses.csv" {
		t.Fatalf("upload message = %q", transcript[0].Content)
	}

	// The stored record is retrievable by its owner.
	got, err := svc.Get(context.Background(), "user-1", file.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.FileName != "expenses.csv" {
		t.Fatalf("file name = %q", got.FileName)
	}
}

func TestUploadEmptyFile(t *testing.T) {
	svc, _ := newTestUploadService(t)

	_, _, err := svc.Upload(context.Background(), "user-1", "empty.csv", strings.NewReader(""))
	if !errors.Is(err, ingest.ErrEmptyFile) {
		t.Fatalf("expected ErrEmptyFile, got %v", err)
	}
}

func TestUploadGenericDataset(t *testing.T) {
	svc, _ := newTestUploadService(t)

	csv := "id,notes\n1,alpha\n2,beta\n3,gamma\n"
	file, _, err := svc.Upload(context.Background(), "user-1", "notes.csv", strings.NewReader(csv))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if file.Metrics.Generic == nil {
		t.Fatal("expected generic metrics")
	}
	if file.Metrics.Generic.TotalRows != 3 {
		t.Fatalf("total rows = %d", file.Metrics.Generic.TotalRows)
	}
}

func TestGetIsolatedPerUser(t *testing.T) {
	svc, _ := newTestUploadService(t)

	file, _, err := svc.Upload(context.Background(), "user-1", "expenses.csv", strings.NewReader(sampleCSV))
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	if _, err := svc.Get(context.Background(), "user-2", file.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for other user, got %v", err)
	}
}

func TestListNewestFirst(t *testing.T) {
	svc, _ := newTestUploadService(t)

	first, _, err := svc.Upload(context.Background(), "user-1", "one.csv", strings.NewReader(sampleCSV))
	if err != nil {
		t.Fatalf("upload one: %v", err)
	}
	second, _, err := svc.Upload(context.Background(), "user-1", "two.csv", strings.NewReader(sampleCSV))
	if err != nil {
		t.Fatalf("upload two: %v", err)
	}

	out, err := svc.List(context.Background(), "user-1", 10, 0)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(out) != 2 {
		t.Fatalf("expected 2 files, got %d", len(out))
	}
	if out[0].ID != second.ID || out[1].ID != first.ID {
		t.Fatalf("expected newest first, got %v then %v", out[0].FileName, out[1].FileName)
	}
}

func TestFileMetricsResolvesForChat(t *testing.T) {
	svc, _ := newTestUploadService(t)

	file, _, err := svc.Upload(context.Background(), "user-1", "expenses.csv", strings.NewReader(sampleCSV))
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	m, name, err := svc.FileMetrics(context.Background(), "user-1", file.ID)
	if err != nil {
		t.Fatalf("file metrics: %v", err)
	}
	if name != "expenses.csv" {
		t.Fatalf("name = %q", name)
	}
	if m.Financial == nil || m.Financial.TotalIncome != 5000 {
		t.Fatalf("metrics = %+v", m)
	}
}
