package report

import (
	"fmt"
	"testing"

	"github.com/shopspring/decimal"

	"taxledger/internal/core"
)

func TestCalculateTotals(t *testing.T) {
	txs := []core.Transaction{
		{Type: core.Income, Amount: money("5000.00"), TaxAmount: money("650.00")},
		{Type: core.Income, Amount: money("1234.56")},
		{Type: core.Expense, Amount: money("2000.00"), TaxAmount: money("100.00")},
	}

	totals := CalculateTotals(txs)

	if totals.Income.StringFixed(2) != "6234.56" {
		t.Errorf("income = %s, want 6234.56", totals.Income)
	}
	if totals.Expenses.StringFixed(2) != "2000.00" {
		t.Errorf("expenses = %s, want 2000.00", totals.Expenses)
	}
	if totals.Net.StringFixed(2) != "4234.56" {
		t.Errorf("net = %s, want 4234.56", totals.Net)
	}
	if totals.IncomeCount != 2 || totals.ExpenseCount != 1 {
		t.Errorf("counts = %d/%d, want 2/1", totals.IncomeCount, totals.ExpenseCount)
	}

	// Net must be an exact decimal identity, not a float approximation.
	if !totals.Net.Equal(totals.Income.Sub(totals.Expenses)) {
		t.Error("net != income - expenses exactly")
	}
}

func TestCalculateTotalsEmpty(t *testing.T) {
	totals := CalculateTotals(nil)
	if !totals.Net.IsZero() || totals.IncomeCount != 0 || totals.ExpenseCount != 0 {
		t.Errorf("empty input should produce zero totals, got %+v", totals)
	}
}

func TestGroupByCategory(t *testing.T) {
	txs := []core.Transaction{
		{Type: core.Expense, Category: "Travel", Amount: money("250.00"), TaxAmount: money("12.50")},
		{Type: core.Expense, Category: "Travel", Amount: money("50.00")},
		{Type: core.Expense, Category: "Office expenses", Amount: money("100.00"), TaxAmount: money("13.00")},
		{Type: core.Income, Category: "Sales", Amount: money("900.00")},
	}

	groups := GroupByCategory(txs, core.Expense)

	if len(groups) != 2 {
		t.Fatalf("got %d categories, want 2 (income filtered out)", len(groups))
	}

	travel := groups["Travel"]
	if travel.Total.StringFixed(2) != "300.00" || travel.TaxTotal.StringFixed(2) != "12.50" {
		t.Errorf("Travel = %s/%s, want 300.00/12.50", travel.Total, travel.TaxTotal)
	}
	if travel.CashTotal.StringFixed(2) != "312.50" {
		t.Errorf("Travel cash = %s, want 312.50", travel.CashTotal)
	}
	if travel.Count != 2 {
		t.Errorf("Travel count = %d, want 2", travel.Count)
	}
	if travel.Percentage.StringFixed(2) != "75.00" {
		t.Errorf("Travel percentage = %s, want 75.00", travel.Percentage)
	}
	if groups["Office expenses"].Percentage.StringFixed(2) != "25.00" {
		t.Errorf("Office percentage = %s, want 25.00", groups["Office expenses"].Percentage)
	}
}

func TestGroupByCategoryPercentagesSumToHundred(t *testing.T) {
	// Repeating-fraction shares: 3 categories of 1/3 each.
	var txs []core.Transaction
	for i := 0; i < 3; i++ {
		txs = append(txs, core.Transaction{
			Type:     core.Expense,
			Category: fmt.Sprintf("Category %d", i),
			Amount:   money("33.33"),
		})
	}

	groups := GroupByCategory(txs, "")
	sum := decimal.Zero
	for _, g := range groups {
		sum = sum.Add(g.Percentage)
	}

	// Within rounding tolerance of 0.01 per category.
	tolerance := decimal.RequireFromString("0.03")
	if sum.Sub(decimal.NewFromInt(100)).Abs().GreaterThan(tolerance) {
		t.Errorf("percentages sum to %s, want 100.00 +/- %s", sum, tolerance)
	}
}

func TestGroupByCategoryZeroGrandTotal(t *testing.T) {
	txs := []core.Transaction{
		{Type: core.Expense, Category: "Travel", Amount: money("0.00")},
		{Type: core.Expense, Category: "Office expenses", Amount: money("0.00"), TaxAmount: money("5.00")},
	}

	groups := GroupByCategory(txs, "")
	for category, g := range groups {
		if g.Percentage.StringFixed(2) != "0.00" {
			t.Errorf("%s percentage = %s, want 0.00 when grand total is zero", category, g.Percentage)
		}
	}
}

func TestCategoryKeysAlphabetical(t *testing.T) {
	groups := map[string]CategoryBreakdown{
		"Travel":          {},
		"Advertising":     {},
		"Office expenses": {},
	}
	keys := CategoryKeys(groups)
	want := []string{"Advertising", "Office expenses", "Travel"}
	for i, k := range want {
		if keys[i] != k {
			t.Fatalf("keys = %v, want %v", keys, want)
		}
	}
}
