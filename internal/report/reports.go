package report

import (
	"context"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"taxledger/internal/core"
)

// Report is the map contract consumed by exporters: top-level "metadata",
// "summary" and a per-report breakdown under "categories" or "details".
// Every monetary value is a two-decimal string; percentages are rendered at
// one decimal place for display.
type Report map[string]any

// GenerateMetadata builds the metadata block shared by all reports.
// fiscal_year is present only when the range falls within one calendar year.
func (e *Engine) GenerateMetadata(start, end string, count int) map[string]any {
	md := map[string]any{
		"generated_at":      time.Now().UTC().Format(time.RFC3339),
		"start_date":        start,
		"end_date":          end,
		"transaction_count": count,
		"jurisdiction":      string(e.jurisdiction),
		"currency":          e.currency,
	}
	startDate, err1 := core.ParseDate(start)
	endDate, err2 := core.ParseDate(end)
	if err1 == nil && err2 == nil && startDate.Year() == endDate.Year() {
		// Both supported jurisdictions use the calendar year.
		md["fiscal_year"] = "FY" + startDate.Format("2006")
	}
	return md
}

// GenerateIncomeStatement builds an income statement over [start, end] with
// three explicit net-income views: pretax, cash (tax inclusive) and the tax
// position itself. Profitability is judged on the cash view.
func (e *Engine) GenerateIncomeStatement(ctx context.Context, start, end string) (Report, error) {
	txs, err := e.FilterByDateRange(ctx, start, end, "")
	if err != nil {
		return nil, err
	}

	var income, expenses []core.Transaction
	for _, tx := range txs {
		switch tx.Type {
		case core.Income:
			income = append(income, tx)
		case core.Expense:
			expenses = append(expenses, tx)
		}
	}

	revenue := sideTotals(income)
	costs := sideTotals(expenses)

	pretax := revenue.total.Sub(costs.total)
	taxPosition := revenue.tax.Sub(costs.tax)
	cash := revenue.cash().Sub(costs.cash())
	isProfit := !cash.IsNegative()

	rep := Report{
		"metadata": e.GenerateMetadata(start, end, len(txs)),
		"summary": map[string]any{
			"revenue":  sideSummary(revenue, len(income)),
			"expenses": sideSummary(costs, len(expenses)),
			"net_income": map[string]any{
				"pretax_amount": pretax.StringFixed(2),
				"tax_position":  taxPosition.StringFixed(2),
				"cash_amount":   cash.StringFixed(2),
				"is_profit":     isProfit,
			},
		},
		"categories": map[string]any{
			"revenue":  e.categoriesSection(GroupByCategory(income, ""), false),
			"expenses": e.categoriesSection(GroupByCategory(expenses, ""), false),
		},
	}

	slog.InfoContext(ctx, "Income statement generated",
		"start_date", start,
		"end_date", end,
		"transactions", len(txs),
		"is_profit", isProfit)

	return rep, nil
}

// GenerateExpenseReport builds an expense-only report over [start, end],
// with each category annotated with its jurisdiction tax code.
func (e *Engine) GenerateExpenseReport(ctx context.Context, start, end string) (Report, error) {
	txs, err := e.FilterByDateRange(ctx, start, end, core.Expense)
	if err != nil {
		return nil, err
	}

	totals := sideTotals(txs)

	rep := Report{
		"metadata": e.GenerateMetadata(start, end, len(txs)),
		"summary": map[string]any{
			"total_expenses":    totals.total.StringFixed(2),
			"total_tax":         totals.tax.StringFixed(2),
			"total_cash":        totals.cash().StringFixed(2),
			"transaction_count": len(txs),
		},
		"categories": e.categoriesSection(GroupByCategory(txs, core.Expense), true),
	}

	slog.InfoContext(ctx, "Expense report generated",
		"start_date", start,
		"end_date", end,
		"transactions", len(txs),
		"jurisdiction", e.jurisdiction)

	return rep, nil
}

// GenerateTaxSummary itemizes tax collected on income against tax paid on
// expenses over [start, end]. Transactions without a tax amount are skipped.
func (e *Engine) GenerateTaxSummary(ctx context.Context, start, end string) (Report, error) {
	txs, err := e.FilterByDateRange(ctx, start, end, "")
	if err != nil {
		return nil, err
	}

	collected := make([]map[string]any, 0)
	paid := make([]map[string]any, 0)
	collectedTotal := decimal.Zero
	paidTotal := decimal.Zero

	for _, tx := range txs {
		if tx.TaxAmount.IsZero() {
			continue
		}
		item := map[string]any{
			"id":         tx.ID,
			"date":       tx.Date,
			"category":   tx.Category,
			"vendor":     tx.VendorCustomer,
			"amount":     tx.Amount.StringFixed(2),
			"tax_amount": tx.TaxAmount.StringFixed(2),
		}
		switch tx.Type {
		case core.Income:
			collected = append(collected, item)
			collectedTotal = collectedTotal.Add(tx.TaxAmount)
		case core.Expense:
			paid = append(paid, item)
			paidTotal = paidTotal.Add(tx.TaxAmount)
		}
	}

	netPosition := collectedTotal.Sub(paidTotal)

	rep := Report{
		"metadata": e.GenerateMetadata(start, end, len(txs)),
		"summary": map[string]any{
			"tax_collected": collectedTotal.StringFixed(2),
			"tax_paid":      paidTotal.StringFixed(2),
			"net_position":  netPosition.StringFixed(2),
			"payable":       netPosition.IsPositive(),
		},
		"details": map[string]any{
			"collected": collected,
			"paid":      paid,
		},
	}

	slog.InfoContext(ctx, "Tax summary generated",
		"start_date", start,
		"end_date", end,
		"tax_collected", collectedTotal.StringFixed(2),
		"tax_paid", paidTotal.StringFixed(2))

	return rep, nil
}

// categoriesSection renders a category breakdown into the exporter map
// shape. Percentages are displayed at one decimal; tax codes are attached
// for expense reports only.
func (e *Engine) categoriesSection(groups map[string]CategoryBreakdown, withTaxCodes bool) map[string]any {
	section := make(map[string]any, len(groups))
	for _, category := range CategoryKeys(groups) {
		g := groups[category]
		entry := map[string]any{
			"total":      g.Total.StringFixed(2),
			"tax_total":  g.TaxTotal.StringFixed(2),
			"cash_total": g.CashTotal.StringFixed(2),
			"count":      g.Count,
			"percentage": g.Percentage.StringFixed(1),
		}
		if withTaxCodes {
			entry["tax_code"] = TaxCode(e.jurisdiction, category)
		}
		section[category] = entry
	}
	return section
}
