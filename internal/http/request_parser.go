package http

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/shopspring/decimal"

	"taxledger/internal/core"
)

// transactionPayload is the JSON body of create/update requests. Monetary
// values arrive as strings so they survive the trip without float damage.
type transactionPayload struct {
	Date             string `json:"date"`
	Type             string `json:"type"`
	Category         string `json:"category"`
	VendorCustomer   string `json:"vendor_customer"`
	Description      string `json:"description"`
	Amount           string `json:"amount"`
	TaxAmount        string `json:"tax_amount"`
	DocumentFilename string `json:"document_filename"`
}

func parseTransactionBody(r *http.Request) (core.Transaction, error) {
	var payload transactionPayload
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&payload); err != nil {
		return core.Transaction{}, &core.ValidationError{Field: "body", Reason: "malformed JSON: " + err.Error()}
	}

	tx := core.Transaction{
		Date:             payload.Date,
		Type:             core.TransactionType(payload.Type),
		Category:         payload.Category,
		VendorCustomer:   payload.VendorCustomer,
		Description:      payload.Description,
		DocumentFilename: payload.DocumentFilename,
	}

	var err error
	if payload.Amount != "" {
		if tx.Amount, err = core.ParseAmount(payload.Amount); err != nil {
			return core.Transaction{}, err
		}
	}
	if payload.TaxAmount != "" {
		if tx.TaxAmount, err = decimalField(payload.TaxAmount, "tax_amount"); err != nil {
			return core.Transaction{}, err
		}
	}
	return tx, nil
}

func decimalField(s, field string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, &core.ValidationError{Field: field, Reason: "not a decimal number"}
	}
	if d.IsNegative() {
		return decimal.Zero, &core.ValidationError{Field: field, Reason: "cannot be negative"}
	}
	return core.RoundMoney(d), nil
}

// parseFilter maps query parameters onto a ledger filter. Unknown
// parameters are ignored; malformed values are a validation error.
func parseFilter(values url.Values) (core.TransactionFilter, error) {
	f := core.TransactionFilter{
		StartDate:      values.Get("start_date"),
		EndDate:        values.Get("end_date"),
		Type:           core.TransactionType(values.Get("type")),
		Category:       values.Get("category"),
		VendorContains: values.Get("vendor"),
	}

	if f.Type != "" && !f.Type.Valid() {
		return f, &core.ValidationError{Field: "type", Reason: "must be income or expense"}
	}

	for _, bound := range []struct {
		param string
		dest  **decimal.Decimal
	}{
		{"min_amount", &f.MinAmount},
		{"max_amount", &f.MaxAmount},
	} {
		if raw := values.Get(bound.param); raw != "" {
			d, err := decimalField(raw, bound.param)
			if err != nil {
				return f, err
			}
			*bound.dest = &d
		}
	}

	var err error
	if f.Limit, err = intParam(values, "limit"); err != nil {
		return f, err
	}
	if f.Offset, err = intParam(values, "offset"); err != nil {
		return f, err
	}
	if values.Get("order") == "asc" {
		f.OrderBy = core.OrderDateAsc
	}
	return f, nil
}

func intParam(values url.Values, param string) (int, error) {
	raw := values.Get(param)
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, &core.ValidationError{Field: param, Reason: "must be a non-negative integer"}
	}
	return n, nil
}

func pathID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id < 1 {
		return 0, &core.ValidationError{Field: "id", Reason: "must be a positive integer"}
	}
	return id, nil
}

// dateRangeParams pulls the mandatory start/end parameters of report and
// statistics endpoints.
func dateRangeParams(values url.Values) (string, string, error) {
	start := values.Get("start_date")
	end := values.Get("end_date")
	if start == "" || end == "" {
		return "", "", &core.ValidationError{
			Field:  "start_date",
			Reason: fmt.Sprintf("start_date and end_date are required (got %q, %q)", start, end),
		}
	}
	return start, end, nil
}
