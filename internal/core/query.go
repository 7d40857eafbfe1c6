package core

import "github.com/shopspring/decimal"

// Sort orders accepted by the ledger query surface.
const (
	OrderDateDesc = "date DESC"
	OrderDateAsc  = "date ASC"
)

// TransactionFilter describes the independently combinable constraints of a
// ledger query. Zero values mean "no constraint"; date bounds are inclusive.
type TransactionFilter struct {
	StartDate      string
	EndDate        string
	Type           TransactionType
	Category       string
	VendorContains string // case-sensitive substring
	MinAmount      *decimal.Decimal
	MaxAmount      *decimal.Decimal
	Limit          int
	Offset         int
	OrderBy        string // OrderDateDesc when empty
}

// TypeStatistics aggregates one transaction type over a period.
type TypeStatistics struct {
	Count int64
	Total decimal.Decimal
	Avg   decimal.Decimal
	Min   decimal.Decimal
	Max   decimal.Decimal
}

// Statistics is the result of a single aggregate pass over the ledger,
// grouped by type. Net is income total minus expense total.
type Statistics struct {
	Income  TypeStatistics
	Expense TypeStatistics
	Net     decimal.Decimal
}

// CategoryTotal is one row of a category summary, ordered by Total
// descending.
type CategoryTotal struct {
	Category string
	Total    decimal.Decimal
}
