package reports

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"budget-backend/internal/analytics"
	"budget-backend/internal/dashboard"
	"budget-backend/internal/llm"
	"budget-backend/internal/shared/metrics"
	"budget-backend/internal/shared/telemetry"
)

// SourceFile is the slice of an uploaded file a report needs.
type SourceFile struct {
	ID       string
	FileName string
	RowCount int
	Metrics  analytics.MetricsResult
}

// FileSource resolves uploaded files for report generation.
type FileSource interface {
	ReportSource(ctx context.Context, userID, fileID string) (SourceFile, error)
}

// Generator produces long-form reports over a file's computed analytics.
// At most one generation may be in flight per session; concurrent requests
// for the same session fail fast with ErrBusy instead of queuing.
type Generator struct {
	Files    FileSource
	Reasoner llm.Client
	Polisher llm.Client

	mu       sync.Mutex
	inflight map[string]struct{}
}

// NewGenerator constructs a Generator.
func NewGenerator(files FileSource, reasoner, polisher llm.Client) *Generator {
	return &Generator{
		Files:    files,
		Reasoner: reasoner,
		Polisher: polisher,
		inflight: make(map[string]struct{}),
	}
}

// Generate builds a report of the given type for one of the user's files.
// The report type is validated before any session state is touched, so an
// unknown type never occupies the session slot.
func (g *Generator) Generate(ctx context.Context, userID, fileID, rawType string) (Report, error) {
	reportType, err := ParseType(rawType)
	if err != nil {
		return Report{}, err
	}

	if !g.acquire(userID) {
		metrics.IncReportBusy()
		return Report{}, ErrBusy
	}
	defer g.release(userID)

	started := time.Now().UTC()
	metrics.IncReportStarted()

	src, err := g.Files.ReportSource(ctx, userID, fileID)
	if err != nil {
		return Report{}, err
	}
	if src.RowCount == 0 {
		return Report{}, ErrNoData
	}

	content := g.narrate(ctx, reportType, src)

	metrics.IncReportCompleted()
	metrics.ObserveReportDurationMs(float64(time.Since(started).Microseconds()) / 1000.0)

	return Report{
		Type:        reportType,
		Title:       reportType.Title(),
		FileID:      src.ID,
		FileName:    src.FileName,
		Content:     dashboard.Embed(content, src.Metrics),
		GeneratedAt: time.Now().UTC(),
	}, nil
}

// narrate runs the two-stage pipeline with the report blueprint. Reasoning
// failure falls back to a deterministic report; polishing failure keeps the
// reasoned text. The embedded payload always comes from the computed
// metrics, never from generated text.
func (g *Generator) narrate(ctx context.Context, reportType Type, src SourceFile) string {
	prompt := buildPrompt(reportType, src)

	reasoned, err := g.Reasoner.Generate(ctx, prompt, reportPreamble)
	if err != nil {
		logReportFallback("reason", reportType, err)
		return FallbackReport(reportType, src)
	}

	polished, err := g.Polisher.Generate(ctx, reasoned, reportPolishInstruction)
	if err != nil {
		logReportFallback("polish", reportType, err)
		return reasoned
	}
	return polished
}

func buildPrompt(reportType Type, src SourceFile) string {
	payload, err := json.MarshalIndent(src.Metrics, "", "  ")
	if err != nil {
		payload = []byte("{}")
	}
	return fmt.Sprintf("%s\n\n**Analytics Data:**\n```json\n%s\n```\n\nFilename: %s\nTotal rows: %d",
		blueprints[reportType], payload, src.FileName, src.RowCount)
}

func (g *Generator) acquire(userID string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if _, busy := g.inflight[userID]; busy {
		return false
	}
	g.inflight[userID] = struct{}{}
	return true
}

func (g *Generator) busy(userID string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	_, ok := g.inflight[userID]
	return ok
}

func (g *Generator) release(userID string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.inflight, userID)
}

func logReportFallback(stage string, reportType Type, err error) {
	metrics.IncStageFallback()
	telemetry.Error("reports.stage_fallback", map[string]any{
		"stage":       stage,
		"report_type": string(reportType),
		"error":       err.Error(),
	})
}
