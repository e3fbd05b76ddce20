// Package insight sequences the analytics pipeline: classification, metric
// computation, two-stage narration, and payload embedding.
package insight

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"budget-backend/internal/analytics"
	"budget-backend/internal/dashboard"
	"budget-backend/internal/dataset"
	"budget-backend/internal/llm"
	"budget-backend/internal/shared/metrics"
	"budget-backend/internal/shared/telemetry"
)

// Stage names the states of one orchestration run. A run always ends at
// StageEmbedded; a generative failure moves there via the fallback edge
// instead of aborting.
type Stage string

const (
	StageClassified      Stage = "classified"
	StageMetricsComputed Stage = "metrics_computed"
	StageReasoned        Stage = "reasoned"
	StagePolished        Stage = "polished"
	StageEmbedded        Stage = "embedded"
)

// Turn is one prior exchange of a conversation, oldest first.
type Turn struct {
	Role    string
	Content string
}

// Insight is the result of a full pipeline run over an uploaded dataset.
type Insight struct {
	Classification analytics.Classification
	Metrics        analytics.MetricsResult
	// Narrative is the prose only; Content is the wire form with the
	// dashboard payload embedded after it.
	Narrative string
	Content   string
	// LastGenerated records how far the generative stages got before the
	// run reached StageEmbedded.
	LastGenerated Stage
}

// Orchestrator runs the deterministic layer and mediates the two
// generative stages. Construction-time configuration replaces any
// process-wide model state.
type Orchestrator struct {
	Reasoner llm.Client
	Polisher llm.Client
	Options  analytics.Options
}

// New constructs an Orchestrator with the given stage clients.
func New(reasoner, polisher llm.Client, opts analytics.Options) *Orchestrator {
	return &Orchestrator{Reasoner: reasoner, Polisher: polisher, Options: opts}
}

// Run executes the full pipeline for an uploaded dataset. A SchemaError
// from classification is the only error it returns; generative failures
// degrade to the deterministic narrative.
func (o *Orchestrator) Run(ctx context.Context, t dataset.Table) (Insight, error) {
	classification, err := analytics.Classify(t)
	if err != nil {
		return Insight{}, err
	}

	result := analytics.Compute(t, classification, o.Options)

	narrative, reached := o.NarrateMetrics(ctx, result)
	heading := ""
	if t.SourceName != "" {
		heading = fmt.Sprintf("**Analysis for %s:**\n\n", t.SourceName)
	}

	return Insight{
		Classification: classification,
		Metrics:        result,
		Narrative:      heading + narrative,
		Content:        dashboard.Embed(heading+narrative, result),
		LastGenerated:  reached,
	}, nil
}

// NarrateMetrics runs reasoning then polish over a computed result. The
// stages are strictly sequential; either failure takes the fallback edge.
// The returned stage is the furthest generative state reached.
func (o *Orchestrator) NarrateMetrics(ctx context.Context, m analytics.MetricsResult) (string, Stage) {
	payload, err := json.Marshal(m)
	if err != nil {
		return FallbackNarrative(m), StageMetricsComputed
	}

	prompt := "Computed metrics:\n" + string(payload) +
		"\n\nProvide a brief, professional summary of this data and highlight 2-3 key takeaway insights."

	reasoned, err := o.Reasoner.Generate(ctx, prompt, reasonInstruction)
	if err != nil {
		o.logStageFallback("reason", err)
		return FallbackNarrative(m), StageMetricsComputed
	}

	polished, err := o.Polisher.Generate(ctx, reasoned, polishInstruction)
	if err != nil {
		o.logStageFallback("polish", err)
		return reasoned, StageReasoned
	}
	return polished, StagePolished
}

// ChatReply answers a conversational turn. When metrics context is present
// the reply is grounded in it and the fallback is the deterministic
// narration; without context the fallback is a plain welcome.
func (o *Orchestrator) ChatReply(ctx context.Context, userText string, history []Turn, m *analytics.MetricsResult) string {
	var b strings.Builder
	if m != nil {
		if payload, err := json.Marshal(*m); err == nil {
			b.WriteString("User's financial analytics (computed from their uploaded file):\n")
			b.Write(payload)
			b.WriteString("\n\n")
		}
	}
	b.WriteString("Conversation:\n")
	for _, turn := range history {
		label := "User"
		if turn.Role == "assistant" {
			label = "BudgetX AI"
		}
		fmt.Fprintf(&b, "%s: %s\n", label, turn.Content)
	}
	fmt.Fprintf(&b, "User: %s\nBudgetX AI:", userText)

	reasoned, err := o.Reasoner.Generate(ctx, b.String(), chatInstruction)
	if err != nil {
		o.logStageFallback("reason", err)
		if m != nil {
			return FallbackNarrative(*m)
		}
		return welcomeReply
	}

	polished, err := o.Polisher.Generate(ctx, reasoned, polishInstruction)
	if err != nil {
		o.logStageFallback("polish", err)
		return reasoned
	}
	return polished
}

func (o *Orchestrator) logStageFallback(stage string, err error) {
	metrics.IncStageFallback()
	telemetry.Error("insight.stage_fallback", map[string]any{
		"stage": stage,
		"err":   err.Error(),
	})
}
