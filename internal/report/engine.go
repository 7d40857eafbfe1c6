// Package report turns time-boxed subsets of the ledger into financial
// report maps: income statements, expense reports and tax summaries. All
// monetary arithmetic is decimal; results are deterministic for a given
// ledger state.
package report

import (
	"context"
	"log/slog"
	"strings"

	"taxledger/internal/cache"
	"taxledger/internal/core"
)

const defaultCacheSize = 100

// Store is the read-only slice of the ledger the engine depends on. The
// engine never mutates transactions.
type Store interface {
	Query(ctx context.Context, f core.TransactionFilter) ([]core.Transaction, error)
}

// Config carries the report engine settings.
type Config struct {
	Jurisdiction Jurisdiction
	Currency     string // symbol, e.g. "$"
	CacheSize    int
}

// Engine generates reports over a ledger store, memoizing date-range queries
// in a bounded FIFO cache. Mutating collaborators must invalidate the cache
// through ClearCache (the services layer does this on every write).
type Engine struct {
	store        Store
	cache        *cache.FIFOCache[[]core.Transaction]
	jurisdiction Jurisdiction
	currency     string
}

func NewEngine(store Store, cfg Config) *Engine {
	if cfg.CacheSize <= 0 {
		cfg.CacheSize = defaultCacheSize
	}
	if cfg.Jurisdiction == "" {
		cfg.Jurisdiction = JurisdictionCA
	}
	if cfg.Currency == "" {
		cfg.Currency = "$"
	}
	return &Engine{
		store:        store,
		cache:        cache.NewFIFOCache[[]core.Transaction](cfg.CacheSize),
		jurisdiction: cfg.Jurisdiction,
		currency:     cfg.Currency,
	}
}

// FilterByDateRange returns the transactions dated within [start, end],
// optionally restricted to one type, ordered by date ascending. Results are
// served from the cache when present; the ledger is only queried on a miss.
func (e *Engine) FilterByDateRange(ctx context.Context, start, end string, txType core.TransactionType) ([]core.Transaction, error) {
	startDate, err := core.ParseDate(start)
	if err != nil {
		return nil, &core.ValidationError{Field: "start_date", Reason: "must be a valid YYYY-MM-DD date"}
	}
	endDate, err := core.ParseDate(end)
	if err != nil {
		return nil, &core.ValidationError{Field: "end_date", Reason: "must be a valid YYYY-MM-DD date"}
	}
	if startDate.After(endDate) {
		return nil, &core.InvalidRangeError{Start: start, End: end}
	}

	key := cacheKey(start, end, txType)
	if txs, ok := e.cache.Get(key); ok {
		slog.DebugContext(ctx, "Report query served from cache", "key", key, "rows", len(txs))
		return txs, nil
	}

	txs, err := e.store.Query(ctx, core.TransactionFilter{
		StartDate: start,
		EndDate:   end,
		Type:      txType,
		OrderBy:   core.OrderDateAsc,
	})
	if err != nil {
		// Store errors pass through untouched so callers see the root cause.
		return nil, err
	}

	e.cache.Set(key, txs)
	return txs, nil
}

// ClearCache empties the query cache. Must be called after any ledger
// mutation; stale entries are never expired on their own.
func (e *Engine) ClearCache() {
	e.cache.Clear()
}

// CacheSize returns the number of cached date-range queries.
func (e *Engine) CacheSize() int {
	return e.cache.Size()
}

// Jurisdiction returns the tax regime the engine reports under.
func (e *Engine) Jurisdiction() Jurisdiction {
	return e.jurisdiction
}

func cacheKey(start, end string, txType core.TransactionType) string {
	t := "all"
	if txType != "" {
		t = string(txType)
	}
	return strings.Join([]string{start, end, t}, "|")
}
