package insight

import (
	"fmt"
	"sort"
	"strings"

	"budget-backend/internal/analytics"
)

// FallbackNarrative renders a deterministic, templated narration of a
// metrics result. It is the degradation path when a generative stage fails:
// structurally the reply looks like any other, just with plainer prose.
func FallbackNarrative(m analytics.MetricsResult) string {
	if m.Financial != nil {
		return financialNarrative(m.Financial)
	}
	if m.Generic != nil {
		return genericNarrative(m.Generic)
	}
	return "No analysis is available for this dataset."
}

func financialNarrative(f *analytics.FinancialMetrics) string {
	var b strings.Builder
	b.WriteString("Based on your financial data:\n")
	fmt.Fprintf(&b, "- Total Income: $%.2f\n", f.TotalIncome)
	fmt.Fprintf(&b, "- Total Expenses: $%.2f\n", f.TotalExpenses)
	fmt.Fprintf(&b, "- Net Surplus: $%.2f\n", f.NetSurplus)
	fmt.Fprintf(&b, "- Savings Rate: %.1f%%", f.SavingsRate)

	if len(f.OverspendingFlags) > 0 {
		b.WriteString("\n\nOverspending detected in:")
		for _, flag := range f.OverspendingFlags {
			fmt.Fprintf(&b, "\n- %s: %.1f%% of expenses ($%.2f)", flag.Category, flag.Percentage, flag.Amount)
		}
	}
	return b.String()
}

func genericNarrative(g *analytics.GenericMetrics) string {
	var b strings.Builder
	fmt.Fprintf(&b, "This dataset has %d rows across %d columns (%s).",
		g.TotalRows, len(g.Columns), strings.Join(g.Columns, ", "))

	if len(g.NumericSummary) > 0 {
		b.WriteString("\n\nNumeric columns:")
		names := make([]string, 0, len(g.NumericSummary))
		for name := range g.NumericSummary {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			s := g.NumericSummary[name]
			fmt.Fprintf(&b, "\n- %s: min %.2f, max %.2f, mean %.2f", name, s.Min, s.Max, s.Mean)
		}
	}
	return b.String()
}
