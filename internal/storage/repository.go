// Package storage implements the SQLite-backed ledger store: transaction
// CRUD, filtered queries, aggregate statistics and the duplicate-detection
// heuristic.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"taxledger/internal/core"

	_ "modernc.org/sqlite"
)

const timestampLayout = time.RFC3339Nano

type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if dir := filepath.Dir(dbPath); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create db directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

const transactionColumns = `id, date, type, category, vendor_customer, description,
	amount_cents, tax_cents, document_filename, created_at, modified_at`

// Create validates tx, persists it and assigns its identity and timestamps.
func (r *SQLiteRepository) Create(ctx context.Context, tx *core.Transaction) (int64, error) {
	if err := tx.Validate(); err != nil {
		return 0, err
	}

	now := time.Now().UTC()
	tx.CreatedAt = now
	tx.ModifiedAt = now

	res, err := r.db.ExecContext(ctx, `
		INSERT INTO transactions (date, type, category, vendor_customer, description,
			amount_cents, tax_cents, document_filename, created_at, modified_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		tx.Date, string(tx.Type), tx.Category, tx.VendorCustomer, tx.Description,
		core.Cents(tx.Amount), core.Cents(tx.TaxAmount), tx.DocumentFilename,
		now.Format(timestampLayout), now.Format(timestampLayout))
	if err != nil {
		return 0, &core.PersistenceError{Op: "create transaction", Err: err}
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, &core.PersistenceError{Op: "read inserted id", Err: err}
	}
	tx.ID = id

	slog.InfoContext(ctx, "Transaction saved",
		"id", id,
		"type", tx.Type,
		"category", tx.Category,
		"amount_cents", core.Cents(tx.Amount))

	return id, nil
}

// Get returns the transaction with the given id, or core.ErrNotFound.
func (r *SQLiteRepository) Get(ctx context.Context, id int64) (core.Transaction, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+transactionColumns+` FROM transactions WHERE id = ?`, id)

	tx, err := scanTransaction(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Transaction{}, core.ErrNotFound
	}
	if err != nil {
		return core.Transaction{}, &core.PersistenceError{Op: "get transaction", Err: err}
	}
	return tx, nil
}

// Update re-validates tx and persists it by id, refreshing modified_at.
// Returns core.ErrNotFound when the id does not exist; never upserts.
func (r *SQLiteRepository) Update(ctx context.Context, tx *core.Transaction) error {
	if err := tx.Validate(); err != nil {
		return err
	}

	now := time.Now().UTC()
	res, err := r.db.ExecContext(ctx, `
		UPDATE transactions
		SET date = ?, type = ?, category = ?, vendor_customer = ?, description = ?,
			amount_cents = ?, tax_cents = ?, document_filename = ?, modified_at = ?
		WHERE id = ?`,
		tx.Date, string(tx.Type), tx.Category, tx.VendorCustomer, tx.Description,
		core.Cents(tx.Amount), core.Cents(tx.TaxAmount), tx.DocumentFilename,
		now.Format(timestampLayout), tx.ID)
	if err != nil {
		return &core.PersistenceError{Op: "update transaction", Err: err}
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return &core.PersistenceError{Op: "update transaction", Err: err}
	}
	if affected == 0 {
		return core.ErrNotFound
	}

	tx.ModifiedAt = now
	slog.InfoContext(ctx, "Transaction updated", "id", tx.ID)
	return nil
}

// Delete permanently removes the transaction with the given id.
func (r *SQLiteRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM transactions WHERE id = ?`, id)
	if err != nil {
		return &core.PersistenceError{Op: "delete transaction", Err: err}
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return &core.PersistenceError{Op: "delete transaction", Err: err}
	}
	if affected == 0 {
		return core.ErrNotFound
	}

	slog.InfoContext(ctx, "Transaction deleted", "id", id)
	return nil
}

// Query returns the transactions matching every constraint in f. An empty
// filter returns the whole ledger ordered by date descending.
func (r *SQLiteRepository) Query(ctx context.Context, f core.TransactionFilter) ([]core.Transaction, error) {
	var (
		conds []string
		args  []any
	)

	if f.StartDate != "" {
		conds = append(conds, "date >= ?")
		args = append(args, f.StartDate)
	}
	if f.EndDate != "" {
		conds = append(conds, "date <= ?")
		args = append(args, f.EndDate)
	}
	if f.Type != "" {
		conds = append(conds, "type = ?")
		args = append(args, string(f.Type))
	}
	if f.Category != "" {
		conds = append(conds, "category = ?")
		args = append(args, f.Category)
	}
	if f.VendorContains != "" {
		// instr is case-sensitive, unlike LIKE.
		conds = append(conds, "instr(vendor_customer, ?) > 0")
		args = append(args, f.VendorContains)
	}
	if f.MinAmount != nil {
		conds = append(conds, "amount_cents >= ?")
		args = append(args, core.Cents(*f.MinAmount))
	}
	if f.MaxAmount != nil {
		conds = append(conds, "amount_cents <= ?")
		args = append(args, core.Cents(*f.MaxAmount))
	}

	query := `SELECT ` + transactionColumns + ` FROM transactions`
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY " + orderClause(f.OrderBy)

	if f.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, f.Limit)
	} else if f.Offset > 0 {
		// SQLite requires a LIMIT clause before OFFSET.
		query += " LIMIT -1"
	}
	if f.Offset > 0 {
		query += " OFFSET ?"
		args = append(args, f.Offset)
	}

	return r.queryTransactions(ctx, "query transactions", query, args...)
}

// Search returns transactions whose description or vendor contains term,
// case-insensitively, ordered by date descending.
func (r *SQLiteRepository) Search(ctx context.Context, term string) ([]core.Transaction, error) {
	pattern := "%" + escapeLike(strings.ToLower(term)) + "%"
	query := `SELECT ` + transactionColumns + ` FROM transactions
		WHERE lower(description) LIKE ? ESCAPE '\' OR lower(vendor_customer) LIKE ? ESCAPE '\'
		ORDER BY date DESC, id DESC`
	return r.queryTransactions(ctx, "search transactions", query, pattern, pattern)
}

// Statistics aggregates the optionally date-bounded ledger in a single pass
// grouped by type. Averages are computed in decimal space and rounded to two
// places.
func (r *SQLiteRepository) Statistics(ctx context.Context, startDate, endDate string) (core.Statistics, error) {
	var (
		conds []string
		args  []any
	)
	if startDate != "" {
		conds = append(conds, "date >= ?")
		args = append(args, startDate)
	}
	if endDate != "" {
		conds = append(conds, "date <= ?")
		args = append(args, endDate)
	}

	query := `SELECT type, COUNT(*), COALESCE(SUM(amount_cents), 0),
		COALESCE(MIN(amount_cents), 0), COALESCE(MAX(amount_cents), 0)
		FROM transactions`
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " GROUP BY type"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return core.Statistics{}, &core.PersistenceError{Op: "aggregate statistics", Err: err}
	}
	defer rows.Close()

	stats := core.Statistics{
		Income:  zeroTypeStatistics(),
		Expense: zeroTypeStatistics(),
	}
	for rows.Next() {
		var (
			txType                     string
			count, sum, minVal, maxVal int64
		)
		if err := rows.Scan(&txType, &count, &sum, &minVal, &maxVal); err != nil {
			return core.Statistics{}, &core.PersistenceError{Op: "scan statistics row", Err: err}
		}
		ts := core.TypeStatistics{
			Count: count,
			Total: core.FromCents(sum),
			Min:   core.FromCents(minVal),
			Max:   core.FromCents(maxVal),
		}
		if count > 0 {
			ts.Avg = core.RoundMoney(ts.Total.Div(decimal.NewFromInt(count)))
		} else {
			ts.Avg = decimal.Zero.Round(2)
		}
		switch core.TransactionType(txType) {
		case core.Income:
			stats.Income = ts
		case core.Expense:
			stats.Expense = ts
		}
	}
	if err := rows.Err(); err != nil {
		return core.Statistics{}, &core.PersistenceError{Op: "aggregate statistics", Err: err}
	}

	stats.Net = stats.Income.Total.Sub(stats.Expense.Total)
	return stats, nil
}

// CategorySummary sums amounts per category over the optionally bounded
// period, sorted by total descending.
func (r *SQLiteRepository) CategorySummary(ctx context.Context, startDate, endDate string, txType core.TransactionType) ([]core.CategoryTotal, error) {
	var (
		conds []string
		args  []any
	)
	if startDate != "" {
		conds = append(conds, "date >= ?")
		args = append(args, startDate)
	}
	if endDate != "" {
		conds = append(conds, "date <= ?")
		args = append(args, endDate)
	}
	if txType != "" {
		conds = append(conds, "type = ?")
		args = append(args, string(txType))
	}

	query := `SELECT category, COALESCE(SUM(amount_cents), 0) AS total FROM transactions`
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " GROUP BY category ORDER BY total DESC, category ASC"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, &core.PersistenceError{Op: "category summary", Err: err}
	}
	defer rows.Close()

	var summary []core.CategoryTotal
	for rows.Next() {
		var (
			category string
			total    int64
		)
		if err := rows.Scan(&category, &total); err != nil {
			return nil, &core.PersistenceError{Op: "scan category row", Err: err}
		}
		summary = append(summary, core.CategoryTotal{
			Category: category,
			Total:    core.FromCents(total),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, &core.PersistenceError{Op: "category summary", Err: err}
	}
	return summary, nil
}

// DetectDuplicates returns likely duplicates of tx: same type, dated within
// windowDays either side, amount within 5%, and then either an exact amount
// match (difference under one cent) together with an exact vendor or
// description match. Advisory only; the store never refuses an insert.
func (r *SQLiteRepository) DetectDuplicates(ctx context.Context, tx core.Transaction, windowDays int) ([]core.Transaction, error) {
	date, err := core.ParseDate(tx.Date)
	if err != nil {
		return nil, &core.ValidationError{Field: "date", Reason: "must be a valid YYYY-MM-DD date"}
	}

	windowStart := date.AddDate(0, 0, -windowDays).Format(core.DateLayout)
	windowEnd := date.AddDate(0, 0, windowDays).Format(core.DateLayout)

	five := decimal.RequireFromString("0.05")
	loCents := core.Cents(tx.Amount.Mul(decimal.NewFromInt(1).Sub(five)))
	hiCents := core.Cents(tx.Amount.Mul(decimal.NewFromInt(1).Add(five)))

	candidates, err := r.queryTransactions(ctx, "detect duplicates",
		`SELECT `+transactionColumns+` FROM transactions
		WHERE type = ? AND date >= ? AND date <= ?
			AND amount_cents >= ? AND amount_cents <= ? AND id != ?
		ORDER BY date DESC, id DESC`,
		string(tx.Type), windowStart, windowEnd, loCents, hiCents, tx.ID)
	if err != nil {
		return nil, err
	}

	cent := decimal.RequireFromString("0.01")
	var duplicates []core.Transaction
	for _, c := range candidates {
		if c.Amount.Sub(tx.Amount).Abs().GreaterThanOrEqual(cent) {
			continue
		}
		if c.VendorCustomer == tx.VendorCustomer || c.Description == tx.Description {
			duplicates = append(duplicates, c)
		}
	}
	return duplicates, nil
}

func (r *SQLiteRepository) queryTransactions(ctx context.Context, op, query string, args ...any) ([]core.Transaction, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, &core.PersistenceError{Op: op, Err: err}
	}
	defer rows.Close()

	var txs []core.Transaction
	for rows.Next() {
		tx, err := scanTransaction(rows)
		if err != nil {
			return nil, &core.PersistenceError{Op: op, Err: err}
		}
		txs = append(txs, tx)
	}
	if err := rows.Err(); err != nil {
		return nil, &core.PersistenceError{Op: op, Err: err}
	}
	return txs, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTransaction(row rowScanner) (core.Transaction, error) {
	var (
		tx                  core.Transaction
		txType              string
		amountCents         int64
		taxCents            int64
		createdAt, modified string
	)
	err := row.Scan(&tx.ID, &tx.Date, &txType, &tx.Category, &tx.VendorCustomer,
		&tx.Description, &amountCents, &taxCents, &tx.DocumentFilename,
		&createdAt, &modified)
	if err != nil {
		return core.Transaction{}, err
	}

	tx.Type = core.TransactionType(txType)
	tx.Amount = core.FromCents(amountCents)
	tx.TaxAmount = core.FromCents(taxCents)
	if tx.CreatedAt, err = time.Parse(timestampLayout, createdAt); err != nil {
		return core.Transaction{}, fmt.Errorf("parse created_at: %w", err)
	}
	if tx.ModifiedAt, err = time.Parse(timestampLayout, modified); err != nil {
		return core.Transaction{}, fmt.Errorf("parse modified_at: %w", err)
	}
	return tx, nil
}

func orderClause(orderBy string) string {
	switch orderBy {
	case core.OrderDateAsc:
		return "date ASC, id ASC"
	default:
		return "date DESC, id DESC"
	}
}

func escapeLike(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, "%", `\%`)
	return strings.ReplaceAll(s, "_", `\_`)
}

func zeroTypeStatistics() core.TypeStatistics {
	zero := decimal.Zero.Round(2)
	return core.TypeStatistics{Total: zero, Avg: zero, Min: zero, Max: zero}
}
