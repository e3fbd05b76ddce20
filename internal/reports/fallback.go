package reports

import (
	"fmt"
	"sort"
	"strings"

	"budget-backend/internal/analytics"
)

// FallbackReport assembles a report purely from computed metrics. It is the
// degradation path when the reasoning stage fails: every figure in it comes
// straight from the metrics result, so the report stays numerically correct
// even under total model outage.
func FallbackReport(reportType Type, src SourceFile) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", reportType.Title())
	fmt.Fprintf(&b, "Automated summary for %s (%d rows). Detailed commentary is temporarily unavailable; the figures below are computed directly from your data.\n", src.FileName, src.RowCount)

	if f := src.Metrics.Financial; f != nil {
		writeFinancialSections(&b, f)
	} else if g := src.Metrics.Generic; g != nil {
		writeGenericSections(&b, g)
	}
	return strings.TrimRight(b.String(), "\n")
}

func writeFinancialSections(b *strings.Builder, f *analytics.FinancialMetrics) {
	b.WriteString("\n## Key Figures\n")
	fmt.Fprintf(b, "- Total Income: $%.2f\n", f.TotalIncome)
	fmt.Fprintf(b, "- Total Expenses: $%.2f\n", f.TotalExpenses)
	fmt.Fprintf(b, "- Net Surplus: $%.2f\n", f.NetSurplus)
	fmt.Fprintf(b, "- Savings Rate: %.1f%%\n", f.SavingsRate)

	if len(f.ExpenseByCategory) > 0 {
		b.WriteString("\n## Expense Breakdown\n")
		type entry struct {
			category string
			amount   float64
		}
		entries := make([]entry, 0, len(f.ExpenseByCategory))
		for category, amount := range f.ExpenseByCategory {
			entries = append(entries, entry{category, amount})
		}
		sort.Slice(entries, func(i, j int) bool {
			if entries[i].amount != entries[j].amount {
				return entries[i].amount > entries[j].amount
			}
			return entries[i].category < entries[j].category
		})
		for _, e := range entries {
			fmt.Fprintf(b, "- %s: $%.2f\n", e.category, e.amount)
		}
	}

	b.WriteString("\n## Overspending Alerts\n")
	if len(f.OverspendingFlags) == 0 {
		b.WriteString("No category exceeds the overspending threshold.\n")
	} else {
		for _, flag := range f.OverspendingFlags {
			fmt.Fprintf(b, "- %s: %.1f%% of expenses ($%.2f)\n", flag.Category, flag.Percentage, flag.Amount)
		}
	}
}

func writeGenericSections(b *strings.Builder, g *analytics.GenericMetrics) {
	b.WriteString("\n## Dataset Profile\n")
	fmt.Fprintf(b, "- Rows: %d\n", g.TotalRows)
	fmt.Fprintf(b, "- Columns: %s\n", strings.Join(g.Columns, ", "))

	if len(g.NumericSummary) > 0 {
		b.WriteString("\n## Numeric Summary\n")
		names := make([]string, 0, len(g.NumericSummary))
		for name := range g.NumericSummary {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			s := g.NumericSummary[name]
			fmt.Fprintf(b, "- %s: min %.2f, max %.2f, mean %.2f\n", name, s.Min, s.Max, s.Mean)
		}
	}
}
