package chat

import (
	"context"
	"errors"
	"strings"
	"testing"

	"budget-backend/internal/analytics"
	"budget-backend/internal/dashboard"
	"budget-backend/internal/insight"
	"budget-backend/internal/llm"
)

type stubClient struct {
	reply string
	err   error
	last  string
}

func (s *stubClient) Generate(ctx context.Context, prompt, instruction string) (string, error) {
	s.last = prompt
	if s.err != nil {
		return "", s.err
	}
	return s.reply, nil
}

type stubMetricsSource struct {
	metrics  analytics.MetricsResult
	fileName string
	err      error
}

func (s *stubMetricsSource) FileMetrics(ctx context.Context, userID, fileID string) (analytics.MetricsResult, string, error) {
	if s.err != nil {
		return analytics.MetricsResult{}, "", s.err
	}
	return s.metrics, s.fileName, nil
}

func newTestService(files MetricsSource, reasoner, polisher llm.Client) *Service {
	return &Service{
		Repo:    NewMemoryRepo(),
		Files:   files,
		Insight: insight.New(reasoner, polisher, analytics.DefaultOptions()),
	}
}

func financialMetrics() analytics.MetricsResult {
	return analytics.MetricsResult{
		Financial: &analytics.FinancialMetrics{
			TotalIncome:       5000,
			TotalExpenses:     1200,
			NetSurplus:        3800,
			SavingsRate:       76,
			ExpenseByCategory: map[string]float64{"Rent": 1200},
			OverspendingFlags: []analytics.OverspendFlag{},
		},
	}
}

func TestSendPlainTurn(t *testing.T) {
	svc := newTestService(nil, &stubClient{reply: "draft"}, &stubClient{reply: "final answer"})

	msg, err := svc.Send(context.Background(), "user-1", "hello", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if msg.Role != RoleAssistant {
		t.Fatalf("role = %q", msg.Role)
	}
	if msg.Content != "final answer" {
		t.Fatalf("content = %q", msg.Content)
	}

	history, err := svc.History(context.Background(), "user-1", 0)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if len(history) != 2 {
		t.Fatalf("expected user + assistant message, got %d", len(history))
	}
	if history[0].Role != RoleUser || history[0].Content != "hello" {
		t.Fatalf("first message = %+v", history[0])
	}
}

func TestSendWithFileEmbedsPayload(t *testing.T) {
	files := &stubMetricsSource{metrics: financialMetrics(), fileName: "expenses.csv"}
	reasoner := &stubClient{reply: "grounded"}
	svc := newTestService(files, reasoner, &stubClient{reply: "polished"})

	msg, err := svc.Send(context.Background(), "user-1", "how are my finances?", "file-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	narrative, payload := dashboard.Extract(msg.Content)
	if narrative != "polished" {
		t.Fatalf("narrative = %q", narrative)
	}
	if payload == nil || payload.Financial == nil || payload.Financial.NetSurplus != 3800 {
		t.Fatalf("payload = %+v", payload)
	}
	if !strings.Contains(reasoner.last, `"total_income":5000`) {
		t.Fatalf("prompt not grounded in metrics: %q", reasoner.last)
	}
}

func TestSendUnknownFile(t *testing.T) {
	files := &stubMetricsSource{err: errors.New("not found")}
	svc := newTestService(files, &stubClient{reply: "r"}, &stubClient{reply: "p"})

	if _, err := svc.Send(context.Background(), "user-1", "hi", "missing"); !errors.Is(err, ErrFileNotFound) {
		t.Fatalf("expected ErrFileNotFound, got %v", err)
	}
}

func TestSendEmptyMessage(t *testing.T) {
	svc := newTestService(nil, &stubClient{reply: "r"}, &stubClient{reply: "p"})
	if _, err := svc.Send(context.Background(), "user-1", "   ", ""); err == nil {
		t.Fatal("expected error for empty message")
	}
}

func TestSendHistoryExcludesCurrentTurnAndStripsPayloads(t *testing.T) {
	files := &stubMetricsSource{metrics: financialMetrics(), fileName: "expenses.csv"}
	reasoner := &stubClient{reply: "first reply"}
	svc := newTestService(files, reasoner, &stubClient{err: &llm.ModelError{Provider: "stub", Err: errors.New("down")}})

	if _, err := svc.Send(context.Background(), "user-1", "first question", "file-1"); err != nil {
		t.Fatalf("first send: %v", err)
	}
	if _, err := svc.Send(context.Background(), "user-1", "second question", ""); err != nil {
		t.Fatalf("second send: %v", err)
	}

	// The prompt for the second turn carries the first exchange but not
	// the second question twice, and no raw dashboard block.
	if strings.Count(reasoner.last, "second question") != 1 {
		t.Fatalf("current turn repeated in prompt: %q", reasoner.last)
	}
	if !strings.Contains(reasoner.last, "User: first question") {
		t.Fatalf("prior turn missing from prompt: %q", reasoner.last)
	}
	if strings.Contains(reasoner.last, "[DASHBOARD_DATA]") {
		t.Fatalf("dashboard block leaked into prompt: %q", reasoner.last)
	}
}

func TestClearRemovesTranscript(t *testing.T) {
	svc := newTestService(nil, &stubClient{reply: "r"}, &stubClient{reply: "p"})

	if _, err := svc.Send(context.Background(), "user-1", "hello", ""); err != nil {
		t.Fatalf("send: %v", err)
	}
	if err := svc.Clear(context.Background(), "user-1"); err != nil {
		t.Fatalf("clear: %v", err)
	}
	history, err := svc.History(context.Background(), "user-1", 0)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if len(history) != 0 {
		t.Fatalf("expected empty transcript, got %d messages", len(history))
	}
}

func TestMemoryRepoLimitReturnsTail(t *testing.T) {
	repo := NewMemoryRepo()
	for _, content := range []string{"a", "b", "c", "d"} {
		if err := repo.Append(context.Background(), Message{ID: content, UserID: "u", Role: RoleUser, Content: content}); err != nil {
			t.Fatalf("append: %v", err)
		}
	}
	msgs, err := repo.ListByUser(context.Background(), "u", 2)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(msgs) != 2 || msgs[0].Content != "c" || msgs[1].Content != "d" {
		t.Fatalf("expected most recent tail oldest-first, got %+v", msgs)
	}
}
