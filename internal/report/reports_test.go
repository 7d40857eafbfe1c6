package report

import (
	"context"
	"testing"

	"taxledger/internal/core"
)

func summarySection(t *testing.T, rep Report, keys ...string) map[string]any {
	t.Helper()
	section, ok := rep["summary"].(map[string]any)
	if !ok {
		t.Fatal("report missing summary section")
	}
	for _, key := range keys {
		nested, ok := section[key].(map[string]any)
		if !ok {
			t.Fatalf("summary missing %q section", key)
		}
		section = nested
	}
	return section
}

func TestGenerateIncomeStatement(t *testing.T) {
	store := &fakeStore{txs: testTransactions()}
	engine := NewEngine(store, Config{Jurisdiction: JurisdictionCA, Currency: "$"})

	rep, err := engine.GenerateIncomeStatement(context.Background(), "2025-01-01", "2025-01-31")
	if err != nil {
		t.Fatalf("GenerateIncomeStatement() = %v", err)
	}

	revenue := summarySection(t, rep, "revenue")
	if revenue["total"] != "5000.00" {
		t.Errorf("revenue.total = %v, want 5000.00", revenue["total"])
	}
	expenses := summarySection(t, rep, "expenses")
	if expenses["total"] != "2000.00" {
		t.Errorf("expenses.total = %v, want 2000.00", expenses["total"])
	}

	net := summarySection(t, rep, "net_income")
	if net["pretax_amount"] != "3000.00" {
		t.Errorf("pretax_amount = %v, want 3000.00", net["pretax_amount"])
	}
	if net["tax_position"] != "550.00" {
		t.Errorf("tax_position = %v, want 550.00", net["tax_position"])
	}
	if net["cash_amount"] != "3450.00" {
		t.Errorf("cash_amount = %v, want 3450.00", net["cash_amount"])
	}
	if net["is_profit"] != true {
		t.Errorf("is_profit = %v, want true", net["is_profit"])
	}

	categories, ok := rep["categories"].(map[string]any)
	if !ok {
		t.Fatal("report missing categories section")
	}
	revCats, ok := categories["revenue"].(map[string]any)
	if !ok {
		t.Fatal("categories missing revenue breakdown")
	}
	if _, ok := revCats["Sales"]; !ok {
		t.Error("revenue breakdown missing Sales category")
	}

	md, ok := rep["metadata"].(map[string]any)
	if !ok {
		t.Fatal("report missing metadata section")
	}
	if md["fiscal_year"] != "FY2025" {
		t.Errorf("fiscal_year = %v, want FY2025", md["fiscal_year"])
	}
	if md["transaction_count"] != 2 {
		t.Errorf("transaction_count = %v, want 2", md["transaction_count"])
	}
}

func TestGenerateIncomeStatementLoss(t *testing.T) {
	store := &fakeStore{txs: []core.Transaction{
		{ID: 1, Date: "2025-01-10", Type: core.Income, Category: "Sales", Amount: money("100.00")},
		{ID: 2, Date: "2025-01-20", Type: core.Expense, Category: "Rent", Amount: money("900.00"), TaxAmount: money("45.00")},
	}}
	engine := NewEngine(store, Config{})

	rep, err := engine.GenerateIncomeStatement(context.Background(), "2025-01-01", "2025-01-31")
	if err != nil {
		t.Fatalf("GenerateIncomeStatement() = %v", err)
	}

	net := summarySection(t, rep, "net_income")
	if net["pretax_amount"] != "-800.00" {
		t.Errorf("pretax_amount = %v, want -800.00", net["pretax_amount"])
	}
	if net["cash_amount"] != "-845.00" {
		t.Errorf("cash_amount = %v, want -845.00", net["cash_amount"])
	}
	if net["is_profit"] != false {
		t.Errorf("is_profit = %v, want false", net["is_profit"])
	}
}

func TestGenerateExpenseReport(t *testing.T) {
	store := &fakeStore{txs: []core.Transaction{
		{ID: 1, Date: "2025-01-10", Type: core.Expense, Category: "Office expenses", Amount: money("100.00"), TaxAmount: money("13.00")},
		{ID: 2, Date: "2025-01-12", Type: core.Expense, Category: "Homemade rocket parts", Amount: money("50.00")},
		{ID: 3, Date: "2025-01-15", Type: core.Income, Category: "Sales", Amount: money("1000.00")},
	}}
	engine := NewEngine(store, Config{Jurisdiction: JurisdictionCA})

	rep, err := engine.GenerateExpenseReport(context.Background(), "2025-01-01", "2025-01-31")
	if err != nil {
		t.Fatalf("GenerateExpenseReport() = %v", err)
	}

	summary := summarySection(t, rep)
	if summary["total_expenses"] != "150.00" {
		t.Errorf("total_expenses = %v, want 150.00", summary["total_expenses"])
	}
	if summary["total_tax"] != "13.00" {
		t.Errorf("total_tax = %v, want 13.00", summary["total_tax"])
	}
	if summary["total_cash"] != "163.00" {
		t.Errorf("total_cash = %v, want 163.00", summary["total_cash"])
	}
	if summary["transaction_count"] != 2 {
		t.Errorf("transaction_count = %v, want 2 (income excluded)", summary["transaction_count"])
	}

	categories, ok := rep["categories"].(map[string]any)
	if !ok {
		t.Fatal("report missing categories section")
	}
	office, ok := categories["Office expenses"].(map[string]any)
	if !ok {
		t.Fatal("categories missing Office expenses")
	}
	if office["tax_code"] != "8810" {
		t.Errorf("Office expenses tax_code = %v, want 8810 (CRA T2125)", office["tax_code"])
	}
	unknown, ok := categories["Homemade rocket parts"].(map[string]any)
	if !ok {
		t.Fatal("categories missing unknown category")
	}
	if unknown["tax_code"] != TaxCodeOther {
		t.Errorf("unknown category tax_code = %v, want %s", unknown["tax_code"], TaxCodeOther)
	}
}

func TestGenerateTaxSummary(t *testing.T) {
	store := &fakeStore{txs: []core.Transaction{
		{ID: 1, Date: "2025-01-10", Type: core.Income, Category: "Sales", Amount: money("5000.00"), TaxAmount: money("650.00")},
		{ID: 2, Date: "2025-01-20", Type: core.Expense, Category: "Office expenses", Amount: money("2000.00"), TaxAmount: money("100.00")},
		{ID: 3, Date: "2025-01-25", Type: core.Expense, Category: "Travel", Amount: money("300.00")}, // no tax, skipped
	}}
	engine := NewEngine(store, Config{})
	ctx := context.Background()

	rep, err := engine.GenerateTaxSummary(ctx, "2025-01-01", "2025-01-31")
	if err != nil {
		t.Fatalf("GenerateTaxSummary() = %v", err)
	}

	summary := summarySection(t, rep)
	if summary["tax_collected"] != "650.00" {
		t.Errorf("tax_collected = %v, want 650.00", summary["tax_collected"])
	}
	if summary["tax_paid"] != "100.00" {
		t.Errorf("tax_paid = %v, want 100.00", summary["tax_paid"])
	}
	if summary["net_position"] != "550.00" {
		t.Errorf("net_position = %v, want 550.00", summary["net_position"])
	}
	if summary["payable"] != true {
		t.Errorf("payable = %v, want true", summary["payable"])
	}

	details, ok := rep["details"].(map[string]any)
	if !ok {
		t.Fatal("report missing details section")
	}
	collected, ok := details["collected"].([]map[string]any)
	if !ok || len(collected) != 1 {
		t.Fatalf("collected = %v, want one item", details["collected"])
	}
	paid, ok := details["paid"].([]map[string]any)
	if !ok || len(paid) != 1 {
		t.Fatalf("paid = %v, want one item (zero-tax expense skipped)", details["paid"])
	}
	if paid[0]["tax_amount"] != "100.00" {
		t.Errorf("paid tax_amount = %v, want 100.00", paid[0]["tax_amount"])
	}

	t.Run("refund position", func(t *testing.T) {
		refundStore := &fakeStore{txs: []core.Transaction{
			{ID: 1, Date: "2025-01-10", Type: core.Expense, Category: "Supplies", Amount: money("500.00"), TaxAmount: money("65.00")},
		}}
		rep, err := NewEngine(refundStore, Config{}).GenerateTaxSummary(ctx, "2025-01-01", "2025-01-31")
		if err != nil {
			t.Fatalf("GenerateTaxSummary() = %v", err)
		}
		summary := summarySection(t, rep)
		if summary["net_position"] != "-65.00" {
			t.Errorf("net_position = %v, want -65.00", summary["net_position"])
		}
		if summary["payable"] != false {
			t.Errorf("payable = %v, want false for a refund position", summary["payable"])
		}
	})
}

func TestGenerateMetadataFiscalYear(t *testing.T) {
	engine := NewEngine(&fakeStore{}, Config{Jurisdiction: JurisdictionUS, Currency: "$"})

	t.Run("same calendar year", func(t *testing.T) {
		md := engine.GenerateMetadata("2024-01-01", "2024-12-31", 0)
		if md["fiscal_year"] != "FY2024" {
			t.Errorf("fiscal_year = %v, want FY2024", md["fiscal_year"])
		}
	})

	t.Run("range spanning years omits fiscal year", func(t *testing.T) {
		md := engine.GenerateMetadata("2024-07-01", "2025-06-30", 0)
		if _, ok := md["fiscal_year"]; ok {
			t.Errorf("fiscal_year should be absent, got %v", md["fiscal_year"])
		}
	})

	t.Run("carries jurisdiction and currency", func(t *testing.T) {
		md := engine.GenerateMetadata("2024-01-01", "2024-12-31", 5)
		if md["jurisdiction"] != "US" || md["currency"] != "$" || md["transaction_count"] != 5 {
			t.Errorf("metadata = %v", md)
		}
	})
}
