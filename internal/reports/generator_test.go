package reports

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"budget-backend/internal/analytics"
	"budget-backend/internal/dashboard"
	"budget-backend/internal/llm"
)

type stubSource struct {
	files map[string]SourceFile
	block chan struct{} // when set, ReportSource waits until closed
}

func (s *stubSource) ReportSource(ctx context.Context, userID, fileID string) (SourceFile, error) {
	if s.block != nil {
		<-s.block
	}
	file, ok := s.files[fileID]
	if !ok {
		return SourceFile{}, ErrFileNotFound
	}
	return file, nil
}

type stubClient struct {
	reply string
	err   error
	calls int
}

func (s *stubClient) Generate(ctx context.Context, prompt, instruction string) (string, error) {
	s.calls++
	if s.err != nil {
		return "", s.err
	}
	return s.reply, nil
}

func failingClient() *stubClient {
	return &stubClient{err: &llm.ModelError{Provider: "stub", Err: errors.New("down")}}
}

func financialSource() SourceFile {
	return SourceFile{
		ID:       "file-1",
		FileName: "expenses.csv",
		RowCount: 2,
		Metrics: analytics.MetricsResult{
			Financial: &analytics.FinancialMetrics{
				TotalIncome:       5000,
				TotalExpenses:     1200,
				NetSurplus:        3800,
				SavingsRate:       76,
				ExpenseByCategory: map[string]float64{"Rent": 1200},
				OverspendingFlags: []analytics.OverspendFlag{
					{Category: "Rent", Amount: 1200, Percentage: 100},
				},
			},
		},
	}
}

func newTestGenerator(src SourceFile, reasoner, polisher llm.Client) *Generator {
	return NewGenerator(&stubSource{files: map[string]SourceFile{src.ID: src}}, reasoner, polisher)
}

func TestGenerateSuccess(t *testing.T) {
	gen := newTestGenerator(financialSource(), &stubClient{reply: "reasoned report"}, &stubClient{reply: "polished report"})

	report, err := gen.Generate(context.Background(), "user-1", "file-1", "risk_assessment")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if report.Type != TypeRiskAssessment {
		t.Fatalf("type = %q", report.Type)
	}
	if report.Title != "Risk Assessment Report" {
		t.Fatalf("title = %q", report.Title)
	}
	if report.FileName != "expenses.csv" {
		t.Fatalf("file name = %q", report.FileName)
	}
	narrative, payload := dashboard.Extract(report.Content)
	if narrative != "polished report" {
		t.Fatalf("narrative = %q", narrative)
	}
	if payload == nil || payload.Financial == nil || payload.Financial.NetSurplus != 3800 {
		t.Fatalf("embedded payload = %+v", payload)
	}
}

func TestGenerateUnknownType(t *testing.T) {
	gen := newTestGenerator(financialSource(), &stubClient{reply: "x"}, &stubClient{reply: "y"})

	report, err := gen.Generate(context.Background(), "user-1", "file-1", "unknown_type")
	if err == nil {
		t.Fatal("expected error")
	}
	var unknownType *UnknownTypeError
	if !errors.As(err, &unknownType) {
		t.Fatalf("expected UnknownTypeError, got %T", err)
	}
	if report.Content != "" {
		t.Fatalf("no partial report text may be returned, got %q", report.Content)
	}
}

func TestGenerateNoData(t *testing.T) {
	src := financialSource()
	src.RowCount = 0
	gen := newTestGenerator(src, &stubClient{reply: "x"}, &stubClient{reply: "y"})

	if _, err := gen.Generate(context.Background(), "user-1", "file-1", "cost_optimization"); !errors.Is(err, ErrNoData) {
		t.Fatalf("expected ErrNoData, got %v", err)
	}
}

func TestGenerateFileNotFound(t *testing.T) {
	gen := newTestGenerator(financialSource(), &stubClient{reply: "x"}, &stubClient{reply: "y"})

	if _, err := gen.Generate(context.Background(), "user-1", "missing", "cost_optimization"); !errors.Is(err, ErrFileNotFound) {
		t.Fatalf("expected ErrFileNotFound, got %v", err)
	}
}

func TestGenerateReasonerFailureFallsBack(t *testing.T) {
	gen := newTestGenerator(financialSource(), failingClient(), &stubClient{reply: "never used"})

	report, err := gen.Generate(context.Background(), "user-1", "file-1", "performance_analytics")
	if err != nil {
		t.Fatalf("fallback must not fail the request: %v", err)
	}
	narrative, _ := dashboard.Extract(report.Content)
	if !strings.Contains(narrative, "# Performance Analytics Report") {
		t.Fatalf("fallback report missing title: %q", narrative)
	}
	if !strings.Contains(narrative, "Total Income: $5000.00") {
		t.Fatalf("fallback report missing figures: %q", narrative)
	}
	if !strings.Contains(narrative, "Rent: 100.0% of expenses ($1200.00)") {
		t.Fatalf("fallback report missing overspending: %q", narrative)
	}
}

func TestGeneratePolisherFailureKeepsReasoned(t *testing.T) {
	gen := newTestGenerator(financialSource(), &stubClient{reply: "reasoned report"}, failingClient())

	report, err := gen.Generate(context.Background(), "user-1", "file-1", "strategic_recommendations")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	narrative, _ := dashboard.Extract(report.Content)
	if narrative != "reasoned report" {
		t.Fatalf("narrative = %q", narrative)
	}
}

func TestGenerateConcurrentSameSessionBusy(t *testing.T) {
	block := make(chan struct{})
	src := &stubSource{files: map[string]SourceFile{"file-1": financialSource()}, block: block}
	gen := NewGenerator(src, &stubClient{reply: "r"}, &stubClient{reply: "p"})

	var wg sync.WaitGroup
	wg.Add(1)
	firstDone := make(chan error, 1)
	go func() {
		defer wg.Done()
		_, err := gen.Generate(context.Background(), "user-1", "file-1", "risk_assessment")
		firstDone <- err
	}()

	// Wait until the first request holds the session slot.
	for !gen.busy("user-1") {
		time.Sleep(time.Millisecond)
	}

	_, err := gen.Generate(context.Background(), "user-1", "file-1", "risk_assessment")
	if !errors.Is(err, ErrBusy) {
		t.Fatalf("expected ErrBusy, got %v", err)
	}

	close(block)
	wg.Wait()
	if err := <-firstDone; err != nil {
		t.Fatalf("first request failed: %v", err)
	}

	// The slot is released; a new request proceeds.
	if _, err := gen.Generate(context.Background(), "user-1", "file-1", "risk_assessment"); err != nil {
		t.Fatalf("post-release request failed: %v", err)
	}
}

func TestGenerateDifferentSessionsRunInParallel(t *testing.T) {
	block := make(chan struct{})
	src := &stubSource{files: map[string]SourceFile{"file-1": financialSource()}, block: block}
	gen := NewGenerator(src, &stubClient{reply: "r"}, &stubClient{reply: "p"})

	done := make(chan error, 1)
	go func() {
		_, err := gen.Generate(context.Background(), "user-1", "file-1", "risk_assessment")
		done <- err
	}()
	for !gen.busy("user-1") {
		time.Sleep(time.Millisecond)
	}
	if gen.busy("user-2") {
		t.Fatal("another session must not be blocked")
	}
	close(block)
	if err := <-done; err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestParseTypeCoversAllFive(t *testing.T) {
	for _, raw := range []string{"risk_assessment", "cost_optimization", "strategic_recommendations", "performance_analytics", "investment_portfolio"} {
		parsed, err := ParseType(raw)
		if err != nil {
			t.Fatalf("ParseType(%q): %v", raw, err)
		}
		if parsed.Title() == "" {
			t.Fatalf("missing title for %q", raw)
		}
	}
	if _, err := ParseType(""); err == nil {
		t.Fatal("empty type must be rejected")
	}
}
