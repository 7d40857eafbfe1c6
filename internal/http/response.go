package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"taxledger/internal/core"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}

// writeError maps the ledger error taxonomy onto HTTP statuses. Unclassified
// errors are logged and hidden behind a 500.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	var validationErr *core.ValidationError
	var rangeErr *core.InvalidRangeError

	switch {
	case errors.As(err, &validationErr), errors.As(err, &rangeErr):
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
	case errors.Is(err, core.ErrNotFound):
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "transaction not found"})
	default:
		slog.ErrorContext(r.Context(), "Request failed",
			"method", r.Method,
			"path", r.URL.Path,
			"error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
	}
}

// transactionView is the wire shape of a ledger entry. Monetary values are
// rendered as fixed two-decimal strings.
type transactionView struct {
	ID               int64  `json:"id"`
	Date             string `json:"date"`
	Type             string `json:"type"`
	Category         string `json:"category"`
	VendorCustomer   string `json:"vendor_customer"`
	Description      string `json:"description"`
	Amount           string `json:"amount"`
	TaxAmount        string `json:"tax_amount"`
	CashAmount       string `json:"cash_amount"`
	DocumentFilename string `json:"document_filename,omitempty"`
	CreatedAt        string `json:"created_at"`
	ModifiedAt       string `json:"modified_at"`
}

func toView(tx core.Transaction) transactionView {
	return transactionView{
		ID:               tx.ID,
		Date:             tx.Date,
		Type:             string(tx.Type),
		Category:         tx.Category,
		VendorCustomer:   tx.VendorCustomer,
		Description:      tx.Description,
		Amount:           tx.Amount.StringFixed(2),
		TaxAmount:        tx.TaxAmount.StringFixed(2),
		CashAmount:       tx.CashAmount().StringFixed(2),
		DocumentFilename: tx.DocumentFilename,
		CreatedAt:        tx.CreatedAt.UTC().Format(time.RFC3339),
		ModifiedAt:       tx.ModifiedAt.UTC().Format(time.RFC3339),
	}
}

func toViews(txs []core.Transaction) []transactionView {
	views := make([]transactionView, 0, len(txs))
	for _, tx := range txs {
		views = append(views, toView(tx))
	}
	return views
}
