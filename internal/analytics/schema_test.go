package analytics

import (
	"testing"

	"budget-backend/internal/dataset"
)

func financialTable() dataset.Table {
	return dataset.Table{
		SourceName: "expenses.csv",
		Columns:    []string{"date", "category", "amount", "type"},
		Rows: [][]string{
			{"2024-01-01", "Rent", "1200", "expense"},
			{"2024-01-02", "Salary", "5000", "income"},
		},
	}
}

func TestClassifyFinancial(t *testing.T) {
	c, err := Classify(financialTable())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !c.IsFinancial {
		t.Fatal("expected financial classification")
	}
	if c.Roles.Amount != "amount" {
		t.Fatalf("amount role = %q", c.Roles.Amount)
	}
	if c.Roles.Category != "category" {
		t.Fatalf("category role = %q", c.Roles.Category)
	}
	if c.Roles.Type != "type" {
		t.Fatalf("type role = %q", c.Roles.Type)
	}
	if c.Roles.Date != "date" {
		t.Fatalf("date role = %q", c.Roles.Date)
	}
	if c.TotalRows != 2 {
		t.Fatalf("total rows = %d", c.TotalRows)
	}
}

func TestClassifySynonymColumns(t *testing.T) {
	table := dataset.Table{
		SourceName: "sales.csv",
		Columns:    []string{"transaction_date", "product", "total", "transaction_type"},
		Rows: [][]string{
			{"2024-03-01", "Widget", "99.50", "income"},
			{"2024-03-02", "Office Rent", "800", "expense"},
		},
	}
	c, err := Classify(table)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !c.IsFinancial {
		t.Fatal("expected financial classification via synonyms")
	}
	if c.Roles.Amount != "total" {
		t.Fatalf("amount role = %q", c.Roles.Amount)
	}
	if c.Roles.Category != "product" {
		t.Fatalf("category role = %q", c.Roles.Category)
	}
}

func TestClassifyGenericWithoutAmount(t *testing.T) {
	table := dataset.Table{
		SourceName: "notes.csv",
		Columns:    []string{"id", "notes"},
		Rows: [][]string{
			{"1", "first note"},
			{"2", "second note"},
			{"3", "third note"},
		},
	}
	c, err := Classify(table)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.IsFinancial {
		t.Fatal("expected generic classification without an amount column")
	}
	if c.Roles != (Roles{}) {
		t.Fatalf("generic classification should carry no roles, got %+v", c.Roles)
	}
	if c.DataTypes["notes"] != ColumnText {
		t.Fatalf("notes type = %q", c.DataTypes["notes"])
	}
	if c.DataTypes["id"] != ColumnNumeric {
		t.Fatalf("id type = %q", c.DataTypes["id"])
	}
}

func TestClassifyAmountAloneIsGeneric(t *testing.T) {
	table := dataset.Table{
		Columns: []string{"amount"},
		Rows:    [][]string{{"10"}, {"20"}},
	}
	c, err := Classify(table)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.IsFinancial {
		t.Fatal("amount without category or type should stay generic")
	}
}

func TestClassifyNonNumericAmountIsGeneric(t *testing.T) {
	table := dataset.Table{
		Columns: []string{"amount", "category"},
		Rows: [][]string{
			{"lots", "Rent"},
			{"some", "Food"},
		},
	}
	c, err := Classify(table)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.IsFinancial {
		t.Fatal("non-numeric amount column must not classify as financial")
	}
}

func TestClassifyEmptyTableFails(t *testing.T) {
	_, err := Classify(dataset.Table{})
	if err == nil {
		t.Fatal("expected SchemaError for zero columns")
	}
	if !IsSchemaError(err) {
		t.Fatalf("expected SchemaError, got %T", err)
	}
}

func TestClassifyZeroRowsWithColumnsSucceeds(t *testing.T) {
	table := dataset.Table{Columns: []string{"amount", "category"}}
	c, err := Classify(table)
	if err != nil {
		t.Fatalf("columns without rows must classify, got %v", err)
	}
	if c.TotalRows != 0 {
		t.Fatalf("total rows = %d", c.TotalRows)
	}
}

func TestClassifyCurrencyFormattedAmounts(t *testing.T) {
	table := dataset.Table{
		Columns: []string{"amount", "category"},
		Rows: [][]string{
			{"$1,200.00", "Rent"},
			{"-$45.50", "Refunds"},
		},
	}
	c, err := Classify(table)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !c.IsFinancial {
		t.Fatal("currency-formatted amounts should still parse as numeric")
	}
}
