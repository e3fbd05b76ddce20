// Package analytics holds the deterministic layer: schema classification
// and metric computation over tabular datasets. Nothing in this package
// performs I/O and every function is a pure transform of its inputs.
package analytics

import (
	"encoding/json"
	"errors"
)

// ColumnType is the inferred semantic type of a column.
type ColumnType string

const (
	ColumnNumeric     ColumnType = "numeric"
	ColumnDate        ColumnType = "date"
	ColumnCategorical ColumnType = "categorical"
	ColumnText        ColumnType = "text"
)

// Roles maps resolved semantic roles to column names. An empty string means
// the role could not be resolved.
type Roles struct {
	Date     string `json:"date,omitempty"`
	Category string `json:"category,omitempty"`
	Amount   string `json:"amount,omitempty"`
	Type     string `json:"type,omitempty"`
}

// Classification is the outcome of schema inspection.
type Classification struct {
	IsFinancial bool                  `json:"is_financial"`
	TotalRows   int                   `json:"total_rows"`
	Columns     []string              `json:"columns"`
	DataTypes   map[string]ColumnType `json:"data_types"`
	Roles       Roles                 `json:"detected_roles"`
}

// OverspendFlag marks a category whose share of total expenses exceeds the
// configured threshold.
type OverspendFlag struct {
	Category   string  `json:"category"`
	Amount     float64 `json:"amount"`
	Percentage float64 `json:"percentage"`
}

// FinancialMetrics is the financial variant of a metrics result.
type FinancialMetrics struct {
	TotalIncome       float64            `json:"total_income"`
	TotalExpenses     float64            `json:"total_expenses"`
	NetSurplus        float64            `json:"net_surplus"`
	SavingsRate       float64            `json:"savings_rate"`
	ExpenseByCategory map[string]float64 `json:"expense_by_category"`
	OverspendingFlags []OverspendFlag    `json:"overspending_flags"`
}

// ColumnSummary holds min/max/mean over the non-null values of a numeric
// column.
type ColumnSummary struct {
	Min  float64 `json:"min"`
	Max  float64 `json:"max"`
	Mean float64 `json:"mean"`
}

// GenericMetrics is the non-financial variant of a metrics result.
type GenericMetrics struct {
	TotalRows      int                      `json:"total_rows"`
	Columns        []string                 `json:"columns"`
	DataTypes      map[string]ColumnType    `json:"data_types"`
	NumericSummary map[string]ColumnSummary `json:"numeric_summary,omitempty"`
}

// MetricsResult is a tagged union discriminated by IsFinancial: exactly one
// of Financial or Generic is set. A zero value is invalid. Financial fields
// are never zero-filled into the generic variant or vice versa, so a zero
// amount stays distinguishable from "not applicable".
type MetricsResult struct {
	Financial *FinancialMetrics
	Generic   *GenericMetrics
}

// IsFinancial reports which variant the result carries.
func (m MetricsResult) IsFinancial() bool {
	return m.Financial != nil
}

var errEmptyResult = errors.New("metrics result has no variant")

// MarshalJSON flattens the active variant with an is_financial discriminator.
func (m MetricsResult) MarshalJSON() ([]byte, error) {
	switch {
	case m.Financial != nil:
		return json.Marshal(struct {
			IsFinancial bool `json:"is_financial"`
			*FinancialMetrics
		}{true, m.Financial})
	case m.Generic != nil:
		return json.Marshal(struct {
			IsFinancial bool `json:"is_financial"`
			*GenericMetrics
		}{false, m.Generic})
	default:
		return nil, errEmptyResult
	}
}

// UnmarshalJSON decodes into the variant named by is_financial.
func (m *MetricsResult) UnmarshalJSON(data []byte) error {
	var probe struct {
		IsFinancial bool `json:"is_financial"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return err
	}
	if probe.IsFinancial {
		var fin FinancialMetrics
		if err := json.Unmarshal(data, &fin); err != nil {
			return err
		}
		m.Financial, m.Generic = &fin, nil
		return nil
	}
	var gen GenericMetrics
	if err := json.Unmarshal(data, &gen); err != nil {
		return err
	}
	m.Financial, m.Generic = nil, &gen
	return nil
}
