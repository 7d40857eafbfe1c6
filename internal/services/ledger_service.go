// Package services orchestrates ledger writes: every mutation path goes
// through LedgerService, which invalidates the report engine cache and
// publishes a change event. Callers never have to remember either step.
package services

import (
	"context"
	"fmt"
	"log/slog"

	"taxledger/internal/core"
)

// DuplicateWindowDays is the default date window for duplicate detection.
const DuplicateWindowDays = 7

// Store is the ledger persistence surface the service depends on.
type Store interface {
	Create(ctx context.Context, tx *core.Transaction) (int64, error)
	Get(ctx context.Context, id int64) (core.Transaction, error)
	Update(ctx context.Context, tx *core.Transaction) error
	Delete(ctx context.Context, id int64) error
	Query(ctx context.Context, f core.TransactionFilter) ([]core.Transaction, error)
	Search(ctx context.Context, term string) ([]core.Transaction, error)
	Statistics(ctx context.Context, startDate, endDate string) (core.Statistics, error)
	CategorySummary(ctx context.Context, startDate, endDate string, txType core.TransactionType) ([]core.CategoryTotal, error)
	DetectDuplicates(ctx context.Context, tx core.Transaction, windowDays int) ([]core.Transaction, error)
}

// CacheInvalidator is the slice of the report engine the service needs.
type CacheInvalidator interface {
	ClearCache()
}

// Notifier publishes ledger change events for out-of-process subscribers.
type Notifier interface {
	PublishLedgerEvent(ctx context.Context, op string, id int64) error
}

// LedgerService coordinates the store, the report engine cache and the
// change feed. The notifier is optional; a nil notifier disables events.
type LedgerService struct {
	store    Store
	engine   CacheInvalidator
	notifier Notifier
}

func NewLedgerService(store Store, engine CacheInvalidator, notifier Notifier) *LedgerService {
	return &LedgerService{
		store:    store,
		engine:   engine,
		notifier: notifier,
	}
}

// CreateTransaction validates and persists tx, then invalidates the report
// cache and publishes a change event. Likely duplicates are logged as a
// warning but never block the insert.
func (s *LedgerService) CreateTransaction(ctx context.Context, tx *core.Transaction) (int64, error) {
	duplicates, err := s.store.DetectDuplicates(ctx, *tx, DuplicateWindowDays)
	if err == nil && len(duplicates) > 0 {
		slog.WarnContext(ctx, "Possible duplicate transaction",
			"date", tx.Date,
			"amount", tx.Amount.StringFixed(2),
			"matches", len(duplicates))
	}

	id, err := s.store.Create(ctx, tx)
	if err != nil {
		return 0, fmt.Errorf("create transaction: %w", err)
	}

	s.invalidate(ctx, "create", id)
	return id, nil
}

// UpdateTransaction persists changes to an existing transaction and
// invalidates downstream state.
func (s *LedgerService) UpdateTransaction(ctx context.Context, tx *core.Transaction) error {
	if err := s.store.Update(ctx, tx); err != nil {
		return fmt.Errorf("update transaction: %w", err)
	}

	s.invalidate(ctx, "update", tx.ID)
	return nil
}

// DeleteTransaction permanently removes a transaction and invalidates
// downstream state.
func (s *LedgerService) DeleteTransaction(ctx context.Context, id int64) error {
	if err := s.store.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}

	s.invalidate(ctx, "delete", id)
	return nil
}

// GetTransaction is a pass-through point lookup.
func (s *LedgerService) GetTransaction(ctx context.Context, id int64) (core.Transaction, error) {
	return s.store.Get(ctx, id)
}

// QueryTransactions is a pass-through filtered query.
func (s *LedgerService) QueryTransactions(ctx context.Context, f core.TransactionFilter) ([]core.Transaction, error) {
	return s.store.Query(ctx, f)
}

// SearchTransactions is a pass-through text search.
func (s *LedgerService) SearchTransactions(ctx context.Context, term string) ([]core.Transaction, error) {
	return s.store.Search(ctx, term)
}

// Statistics is a pass-through aggregate.
func (s *LedgerService) Statistics(ctx context.Context, startDate, endDate string) (core.Statistics, error) {
	return s.store.Statistics(ctx, startDate, endDate)
}

// CategorySummary is a pass-through aggregate.
func (s *LedgerService) CategorySummary(ctx context.Context, startDate, endDate string, txType core.TransactionType) ([]core.CategoryTotal, error) {
	return s.store.CategorySummary(ctx, startDate, endDate, txType)
}

// DetectDuplicates exposes the advisory duplicate heuristic.
func (s *LedgerService) DetectDuplicates(ctx context.Context, tx core.Transaction, windowDays int) ([]core.Transaction, error) {
	if windowDays <= 0 {
		windowDays = DuplicateWindowDays
	}
	return s.store.DetectDuplicates(ctx, tx, windowDays)
}

func (s *LedgerService) invalidate(ctx context.Context, op string, id int64) {
	if s.engine != nil {
		s.engine.ClearCache()
	}
	if s.notifier == nil {
		return
	}
	if err := s.notifier.PublishLedgerEvent(ctx, op, id); err != nil {
		// The write already succeeded; the event feed is best effort.
		slog.ErrorContext(ctx, "Failed to publish ledger event",
			"op", op, "id", id, "error", err)
	}
}
