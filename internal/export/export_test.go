package export

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"taxledger/internal/report"
)

func sampleReport() report.Report {
	return report.Report{
		"metadata": map[string]any{
			"start_date": "2024-01-01",
			"end_date":   "2024-12-31",
		},
		"summary": map[string]any{
			"total_expenses": "500.00",
			"net_income": map[string]any{
				"cash_amount": "3450.00",
				"is_profit":   true,
			},
		},
		"details": map[string]any{
			"paid": []map[string]any{
				{"date": "2024-02-05", "tax_amount": "54.60"},
			},
		},
	}
}

func TestRowsOrderAndFlattening(t *testing.T) {
	rows := Rows(sampleReport())

	got := make([]string, len(rows))
	for i, row := range rows {
		got[i] = row[0]
	}
	want := []string{
		"metadata.end_date",
		"metadata.start_date",
		"summary.net_income.cash_amount",
		"summary.net_income.is_profit",
		"summary.total_expenses",
		"details.paid[0].date",
		"details.paid[0].tax_amount",
	}
	if len(got) != len(want) {
		t.Fatalf("rows = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("row %d = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestRowsValues(t *testing.T) {
	rows := Rows(sampleReport())

	byKey := make(map[string]string, len(rows))
	for _, row := range rows {
		byKey[row[0]] = row[1]
	}
	if byKey["summary.net_income.cash_amount"] != "3450.00" {
		t.Errorf("cash_amount = %q, want 3450.00", byKey["summary.net_income.cash_amount"])
	}
	if byKey["summary.net_income.is_profit"] != "true" {
		t.Errorf("is_profit = %q, want true", byKey["summary.net_income.is_profit"])
	}
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, sampleReport()); err != nil {
		t.Fatalf("WriteCSV: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if lines[0] != "field,value" {
		t.Errorf("header = %q, want field,value", lines[0])
	}
	if len(lines) != 8 {
		t.Errorf("line count = %d, want 8", len(lines))
	}
	if !strings.Contains(buf.String(), "summary.total_expenses,500.00") {
		t.Errorf("missing total_expenses row in:\n%s", buf.String())
	}
}

func TestWriteJSONRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteJSON(&buf, sampleReport()); err != nil {
		t.Fatalf("WriteJSON: %v", err)
	}

	var decoded map[string]any
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("decode: %v", err)
	}
	summary := decoded["summary"].(map[string]any)
	if summary["total_expenses"] != "500.00" {
		t.Errorf("total_expenses = %v, want 500.00", summary["total_expenses"])
	}
}
