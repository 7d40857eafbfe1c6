package core

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const (
	Income  TransactionType = "income"
	Expense TransactionType = "expense"
)

// DateLayout is the wire and storage format for ledger dates.
const DateLayout = "2006-01-02"

type (
	TransactionType string

	// Transaction is the atomic ledger entry. ID is zero until the store
	// assigns one on insert; Amount and TaxAmount are pre-tax and tax
	// portions respectively, always normalized to two decimal places.
	Transaction struct {
		ID               int64
		Date             string // ISO YYYY-MM-DD
		Type             TransactionType
		Category         string
		VendorCustomer   string
		Description      string
		Amount           decimal.Decimal
		TaxAmount        decimal.Decimal
		DocumentFilename string
		CreatedAt        time.Time
		ModifiedAt       time.Time
	}
)

// Valid reports whether t is one of the two known transaction types.
func (t TransactionType) Valid() bool {
	return t == Income || t == Expense
}

// ParseDate parses an ISO YYYY-MM-DD string into a calendar date.
func ParseDate(s string) (time.Time, error) {
	return time.Parse(DateLayout, s)
}

// Validate checks the entity invariants and normalizes monetary fields to
// two decimal places with half-up rounding. It must be called before any
// persistence operation.
func (tx *Transaction) Validate() error {
	if _, err := ParseDate(tx.Date); err != nil {
		return &ValidationError{Field: "date", Reason: "must be a valid YYYY-MM-DD date"}
	}
	if !tx.Type.Valid() {
		return &ValidationError{Field: "type", Reason: "must be income or expense"}
	}
	if strings.TrimSpace(tx.Category) == "" {
		return &ValidationError{Field: "category", Reason: "cannot be empty"}
	}
	if tx.Amount.IsNegative() {
		return &ValidationError{Field: "amount", Reason: "cannot be negative"}
	}
	if tx.TaxAmount.IsNegative() {
		return &ValidationError{Field: "tax_amount", Reason: "cannot be negative"}
	}
	tx.Amount = RoundMoney(tx.Amount)
	tx.TaxAmount = RoundMoney(tx.TaxAmount)
	return nil
}

// CashAmount returns the cash-basis value of the transaction, i.e. the
// pre-tax amount plus its tax portion.
func (tx Transaction) CashAmount() decimal.Decimal {
	return tx.Amount.Add(tx.TaxAmount)
}
