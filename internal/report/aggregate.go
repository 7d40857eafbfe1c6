package report

import (
	"sort"

	"github.com/shopspring/decimal"

	"taxledger/internal/core"
)

// Totals holds the pre-tax sums of a transaction set.
type Totals struct {
	Income       decimal.Decimal
	Expenses     decimal.Decimal
	Net          decimal.Decimal
	IncomeCount  int
	ExpenseCount int
}

// CategoryBreakdown aggregates one category of a transaction set.
// CashTotal is Total plus TaxTotal; Percentage is this category's share of
// the pre-tax grand total across all categories, in percent at two decimals.
type CategoryBreakdown struct {
	Total      decimal.Decimal
	TaxTotal   decimal.Decimal
	CashTotal  decimal.Decimal
	Count      int
	Percentage decimal.Decimal
}

// CalculateTotals sums pre-tax amounts per type. Tax amounts are excluded;
// use GroupByCategory for cash-basis figures.
func CalculateTotals(txs []core.Transaction) Totals {
	t := Totals{
		Income:   decimal.Zero,
		Expenses: decimal.Zero,
	}
	for _, tx := range txs {
		switch tx.Type {
		case core.Income:
			t.Income = t.Income.Add(tx.Amount)
			t.IncomeCount++
		case core.Expense:
			t.Expenses = t.Expenses.Add(tx.Amount)
			t.ExpenseCount++
		}
	}
	t.Net = t.Income.Sub(t.Expenses)
	return t
}

// GroupByCategory aggregates txs per category, optionally restricted to one
// type. Percentages are computed against the pre-tax grand total and are
// 0.00 for every category when that total is zero.
func GroupByCategory(txs []core.Transaction, txType core.TransactionType) map[string]CategoryBreakdown {
	groups := make(map[string]CategoryBreakdown)
	grand := decimal.Zero

	for _, tx := range txs {
		if txType != "" && tx.Type != txType {
			continue
		}
		g := groups[tx.Category]
		g.Total = g.Total.Add(tx.Amount)
		g.TaxTotal = g.TaxTotal.Add(tx.TaxAmount)
		g.Count++
		groups[tx.Category] = g
		grand = grand.Add(tx.Amount)
	}

	hundred := decimal.NewFromInt(100)
	for category, g := range groups {
		g.CashTotal = g.Total.Add(g.TaxTotal)
		if grand.IsZero() {
			g.Percentage = decimal.Zero.Round(2)
		} else {
			g.Percentage = g.Total.Mul(hundred).DivRound(grand, 2)
		}
		groups[category] = g
	}
	return groups
}

// side aggregates one side (revenue or expenses) of an income statement.
type side struct {
	total decimal.Decimal
	tax   decimal.Decimal
}

func (s side) cash() decimal.Decimal {
	return s.total.Add(s.tax)
}

func sideTotals(txs []core.Transaction) side {
	s := side{}
	for _, tx := range txs {
		s.total = s.total.Add(tx.Amount)
		s.tax = s.tax.Add(tx.TaxAmount)
	}
	return s
}

func sideSummary(s side, count int) map[string]any {
	return map[string]any{
		"total":      s.total.StringFixed(2),
		"tax_total":  s.tax.StringFixed(2),
		"cash_total": s.cash().StringFixed(2),
		"count":      count,
	}
}

// CategoryKeys returns the category names in alphabetical order, the
// deterministic iteration order for report output.
func CategoryKeys(groups map[string]CategoryBreakdown) []string {
	keys := make([]string, 0, len(groups))
	for k := range groups {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
