package analytics

import (
	"strconv"
	"strings"
	"time"

	"budget-backend/internal/dataset"
)

// Fraction of non-empty values that must parse for a column to be typed
// numeric or date.
const typeInferenceRatio = 0.95

// Column-name synonyms for role resolution, checked in order. Names are
// compared after normalization (lowercase, trimmed, spaces to underscores).
var (
	amountSynonyms   = []string{"amount", "total", "value", "revenue", "price", "cost", "total_price"}
	categorySynonyms = []string{"category", "product", "item", "department", "expense_category", "merchant"}
	typeSynonyms     = []string{"type", "transaction_type", "status", "payment_type"}
	dateSynonyms     = []string{"date", "transaction_date", "posting_date", "posted", "timestamp"}
)

// Type vocabularies for the income/expense partition.
var (
	incomeTypeValues  = map[string]struct{}{"income": {}, "credit": {}, "deposit": {}, "earn": {}, "earning": {}, "revenue": {}}
	expenseTypeValues = map[string]struct{}{"expense": {}, "debit": {}, "withdrawal": {}, "payment": {}, "buy": {}, "purchase": {}}
)

var dateLayouts = []string{
	"2006-01-02",
	"2006/01/02",
	"01/02/2006",
	"02-01-2006",
	"2006-01-02 15:04:05",
	time.RFC3339,
}

// Classify inspects column names and values and decides whether the dataset
// is financial. It fails only on a dataset with zero columns; every
// ambiguous input resolves to the generic classification.
func Classify(t dataset.Table) (Classification, error) {
	if t.ColumnCount() == 0 {
		return Classification{}, &SchemaError{Reason: "dataset has no columns"}
	}

	types := make(map[string]ColumnType, t.ColumnCount())
	for _, col := range t.Columns {
		types[col] = inferColumnType(t.ColumnValues(col))
	}

	roles := resolveRoles(t, types)
	isFinancial := roles.Amount != "" && (roles.Category != "" || roles.Type != "")
	if !isFinancial {
		// Financial-only roles are dropped entirely for generic datasets.
		roles = Roles{}
	}

	return Classification{
		IsFinancial: isFinancial,
		TotalRows:   t.RowCount(),
		Columns:     append([]string(nil), t.Columns...),
		DataTypes:   types,
		Roles:       roles,
	}, nil
}

func resolveRoles(t dataset.Table, types map[string]ColumnType) Roles {
	used := make(map[string]struct{})
	var roles Roles

	// Amount first: it anchors the financial classification and must be a
	// numeric column.
	roles.Amount = matchColumn(t.Columns, amountSynonyms, used, func(col string) bool {
		return types[col] == ColumnNumeric
	})

	roles.Type = matchColumn(t.Columns, typeSynonyms, used, func(col string) bool {
		return columnOverlapsTypeVocab(t.ColumnValues(col))
	})

	roles.Category = matchColumn(t.Columns, categorySynonyms, used, nil)

	roles.Date = matchColumn(t.Columns, dateSynonyms, used, nil)
	if roles.Date == "" {
		for _, col := range t.Columns {
			if _, taken := used[col]; taken {
				continue
			}
			if types[col] == ColumnDate {
				roles.Date = col
				used[col] = struct{}{}
				break
			}
		}
	}

	return roles
}

func matchColumn(columns []string, synonyms []string, used map[string]struct{}, accept func(string) bool) string {
	for _, syn := range synonyms {
		for _, col := range columns {
			if _, taken := used[col]; taken {
				continue
			}
			if normalizeName(col) != syn {
				continue
			}
			if accept != nil && !accept(col) {
				continue
			}
			used[col] = struct{}{}
			return col
		}
	}
	return ""
}

func columnOverlapsTypeVocab(values []string) bool {
	for _, v := range values {
		norm := strings.ToLower(strings.TrimSpace(v))
		if _, ok := incomeTypeValues[norm]; ok {
			return true
		}
		if _, ok := expenseTypeValues[norm]; ok {
			return true
		}
	}
	return false
}

func inferColumnType(values []string) ColumnType {
	nonEmpty := 0
	numeric := 0
	dates := 0
	distinct := make(map[string]struct{})

	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		nonEmpty++
		distinct[v] = struct{}{}
		if _, ok := parseNumber(v); ok {
			numeric++
		}
		if parsesAsDate(v) {
			dates++
		}
	}

	if nonEmpty == 0 {
		return ColumnText
	}
	ratio := func(n int) float64 { return float64(n) / float64(nonEmpty) }
	if ratio(numeric) >= typeInferenceRatio {
		return ColumnNumeric
	}
	if ratio(dates) >= typeInferenceRatio {
		return ColumnDate
	}
	// Repeating values suggest an enumeration; mostly-unique values are
	// free text.
	if len(distinct)*2 <= nonEmpty {
		return ColumnCategorical
	}
	return ColumnText
}

func parsesAsDate(v string) bool {
	for _, layout := range dateLayouts {
		if _, err := time.Parse(layout, v); err == nil {
			return true
		}
	}
	return false
}

// parseNumber accepts plain decimals plus the currency clutter a spreadsheet
// export tends to carry (thousands separators, a leading $).
func parseNumber(v string) (float64, bool) {
	v = strings.TrimSpace(v)
	v = strings.ReplaceAll(v, ",", "")
	neg := strings.HasPrefix(v, "-")
	if neg {
		v = v[1:]
	}
	v = strings.TrimPrefix(v, "$")
	if v == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, false
	}
	if neg {
		f = -f
	}
	return f, true
}

func normalizeName(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	return strings.ReplaceAll(name, " ", "_")
}
