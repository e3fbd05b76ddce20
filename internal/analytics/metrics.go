package analytics

import (
	"math"
	"sort"
	"strings"

	"budget-backend/internal/dataset"
)

// DefaultOverspendThresholdPct is the expense share above which a category
// is flagged.
const DefaultOverspendThresholdPct = 20.0

const uncategorizedLabel = "Uncategorized"

// Options tunes metric computation.
type Options struct {
	// OverspendThresholdPct flags categories whose share of total expenses
	// exceeds this percentage.
	OverspendThresholdPct float64
}

// DefaultOptions returns the standard engine options.
func DefaultOptions() Options {
	return Options{OverspendThresholdPct: DefaultOverspendThresholdPct}
}

// Compute derives a MetricsResult from a classified dataset. It is a pure
// function of its inputs: the same table and classification always produce
// an identical result. Internal arithmetic runs at full float64 precision;
// rounding happens once, when result fields are populated.
func Compute(t dataset.Table, c Classification, opts Options) MetricsResult {
	if opts.OverspendThresholdPct <= 0 {
		opts.OverspendThresholdPct = DefaultOverspendThresholdPct
	}
	if !c.IsFinancial {
		return MetricsResult{Generic: computeGeneric(t, c)}
	}
	return MetricsResult{Financial: computeFinancial(t, c, opts)}
}

func computeFinancial(t dataset.Table, c Classification, opts Options) *FinancialMetrics {
	amountIdx := t.ColumnIndex(c.Roles.Amount)
	typeIdx := -1
	if c.Roles.Type != "" {
		typeIdx = t.ColumnIndex(c.Roles.Type)
	}
	categoryIdx := -1
	if c.Roles.Category != "" {
		categoryIdx = t.ColumnIndex(c.Roles.Category)
	}

	var incomeRaw, expenseRaw float64
	categoryRaw := make(map[string]float64)

	addExpense := func(row int, amount float64) {
		amount = math.Abs(amount)
		expenseRaw += amount
		if categoryIdx >= 0 {
			label := strings.TrimSpace(t.Cell(row, categoryIdx))
			if label == "" {
				label = uncategorizedLabel
			}
			categoryRaw[label] += amount
		}
	}

	// Partition by the type vocabulary when a type column is present and at
	// least one of its values is recognized; otherwise fall back to the
	// sign convention: negative amounts are expenses.
	useVocab := typeIdx >= 0 && columnOverlapsTypeVocab(t.ColumnValues(c.Roles.Type))
	for row := 0; row < t.RowCount(); row++ {
		amount, ok := parseNumber(t.Cell(row, amountIdx))
		if !ok {
			continue
		}
		if useVocab {
			typeValue := strings.ToLower(strings.TrimSpace(t.Cell(row, typeIdx)))
			if _, isIncome := incomeTypeValues[typeValue]; isIncome {
				incomeRaw += math.Abs(amount)
				continue
			}
			if _, isExpense := expenseTypeValues[typeValue]; isExpense {
				addExpense(row, amount)
			}
			continue
		}
		if amount < 0 {
			addExpense(row, amount)
		} else {
			incomeRaw += amount
		}
	}

	metrics := &FinancialMetrics{
		TotalIncome:       round2(incomeRaw),
		TotalExpenses:     round2(expenseRaw),
		ExpenseByCategory: make(map[string]float64, len(categoryRaw)),
		OverspendingFlags: make([]OverspendFlag, 0),
	}
	// Surplus from the rounded totals so the identity
	// net_surplus == total_income - total_expenses holds exactly.
	metrics.NetSurplus = metrics.TotalIncome - metrics.TotalExpenses
	if incomeRaw > 0 {
		metrics.SavingsRate = round2((incomeRaw - expenseRaw) / incomeRaw * 100)
	}

	for label, amount := range categoryRaw {
		metrics.ExpenseByCategory[label] = round2(amount)
	}

	if expenseRaw > 0 {
		for label, amount := range categoryRaw {
			pct := round2(amount / expenseRaw * 100)
			if pct > opts.OverspendThresholdPct {
				metrics.OverspendingFlags = append(metrics.OverspendingFlags, OverspendFlag{
					Category:   label,
					Amount:     round2(amount),
					Percentage: pct,
				})
			}
		}
	}
	sort.Slice(metrics.OverspendingFlags, func(i, j int) bool {
		a, b := metrics.OverspendingFlags[i], metrics.OverspendingFlags[j]
		if a.Percentage != b.Percentage {
			return a.Percentage > b.Percentage
		}
		return a.Category < b.Category
	})

	return metrics
}

func computeGeneric(t dataset.Table, c Classification) *GenericMetrics {
	metrics := &GenericMetrics{
		TotalRows: c.TotalRows,
		Columns:   append([]string(nil), c.Columns...),
		DataTypes: c.DataTypes,
	}

	summary := make(map[string]ColumnSummary)
	for _, col := range t.Columns {
		if c.DataTypes[col] != ColumnNumeric {
			continue
		}
		var (
			count    int
			sum      float64
			min, max float64
		)
		for _, v := range t.ColumnValues(col) {
			f, ok := parseNumber(v)
			if !ok {
				continue
			}
			if count == 0 || f < min {
				min = f
			}
			if count == 0 || f > max {
				max = f
			}
			sum += f
			count++
		}
		// Columns without a single numeric value are omitted, not
		// zero-filled.
		if count == 0 {
			continue
		}
		summary[col] = ColumnSummary{
			Min:  round2(min),
			Max:  round2(max),
			Mean: round2(sum / float64(count)),
		}
	}
	if len(summary) > 0 {
		metrics.NumericSummary = summary
	}
	return metrics
}

func round2(f float64) float64 {
	return math.Round(f*100) / 100
}
