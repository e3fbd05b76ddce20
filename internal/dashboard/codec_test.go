package dashboard

import (
	"reflect"
	"strings"
	"testing"

	"budget-backend/internal/analytics"
)

func sampleMetrics() analytics.MetricsResult {
	return analytics.MetricsResult{
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
	}
}

func TestEmbedExtractRoundTrip(t *testing.T) {
	metrics := sampleMetrics()
	content := Embed("Here is your analysis.", metrics)

	narrative, got := Extract(content)
	if narrative != "Here is your analysis." {
		t.Fatalf("narrative = %q", narrative)
	}
	if got == nil {
		t.Fatal("expected payload")
	}
	if !reflect.DeepEqual(*got, metrics) {
		t.Fatalf("round trip mismatch: %+v vs %+v", *got, metrics)
	}
}

func TestEmbedWireFormat(t *testing.T) {
	content := Embed("Narrative.", sampleMetrics())
	if !strings.Contains(content, "Narrative.\n\n[DASHBOARD_DATA]") {
		t.Fatalf("unexpected wire form: %q", content)
	}
	if !strings.HasSuffix(content, "[/DASHBOARD_DATA]") {
		t.Fatalf("missing end marker: %q", content)
	}
	if !strings.Contains(content, `"is_financial":true`) {
		t.Fatalf("missing discriminator: %q", content)
	}
}

func TestExtractToleratesCodeFences(t *testing.T) {
	metrics := sampleMetrics()
	plain := Embed("Fenced.", metrics)
	start := strings.Index(plain, "[DASHBOARD_DATA]") + len("[DASHBOARD_DATA]")
	end := strings.Index(plain, "[/DASHBOARD_DATA]")
	fenced := plain[:start] + "```json\n" + plain[start:end] + "\n```" + plain[end:]

	narrative, got := Extract(fenced)
	if narrative != "Fenced." {
		t.Fatalf("narrative = %q", narrative)
	}
	if got == nil {
		t.Fatal("expected payload despite fences")
	}
	if !reflect.DeepEqual(*got, metrics) {
		t.Fatal("fenced payload mismatch")
	}
}

func TestExtractWithoutBlock(t *testing.T) {
	narrative, got := Extract("  just text  ")
	if narrative != "just text" {
		t.Fatalf("narrative = %q", narrative)
	}
	if got != nil {
		t.Fatal("expected nil payload")
	}
}

func TestExtractMalformedJSONDegrades(t *testing.T) {
	content := "Prose.\n\n[DASHBOARD_DATA]{not json[/DASHBOARD_DATA]"
	narrative, got := Extract(content)
	if narrative != "Prose." {
		t.Fatalf("narrative = %q", narrative)
	}
	if got != nil {
		t.Fatal("malformed payload must be absent, not an error")
	}
}

func TestExtractUnterminatedBlock(t *testing.T) {
	narrative, got := Extract("Prose.\n\n[DASHBOARD_DATA]{\"is_financial\":true")
	if narrative != "Prose." {
		t.Fatalf("narrative = %q", narrative)
	}
	if got != nil {
		t.Fatal("unterminated block must yield no payload")
	}
}

func TestLatestScansBackward(t *testing.T) {
	older := Embed("Older analysis.", sampleMetrics())
	generic := analytics.MetricsResult{
		Generic: &analytics.GenericMetrics{TotalRows: 7, Columns: []string{"id"}},
	}
	newer := Embed("Newer analysis.", generic)

	got := Latest([]string{older, "plain chat", newer, "trailing chat"})
	if got == nil {
		t.Fatal("expected payload")
	}
	if got.Generic == nil || got.Generic.TotalRows != 7 {
		t.Fatalf("expected most recent payload, got %+v", got)
	}
}

func TestLatestEmptyTranscript(t *testing.T) {
	if got := Latest([]string{"hi", "hello"}); got != nil {
		t.Fatalf("expected nil, got %+v", got)
	}
}
