// Package http exposes the ledger and report engine over a thin JSON API.
// It is a collaborator surface: all writes go through the ledger service so
// cache invalidation and change events happen on every mutation.
package http

import (
	"context"
	"net/http"
	"time"

	"taxledger/internal/middleware/ratelimit"
	"taxledger/internal/middleware/trace"
	"taxledger/internal/report"
	"taxledger/internal/services"
)

const requestsPerMinute = 120

// Server wires the ledger service and report engine into an http.Server.
type Server struct {
	*http.Server
	ledger  *services.LedgerService
	engine  *report.Engine
	limiter *ratelimit.Limiter
}

func NewServer(addr string, ledger *services.LedgerService, engine *report.Engine) *Server {
	s := &Server{
		ledger:  ledger,
		engine:  engine,
		limiter: ratelimit.NewLimiter(requestsPerMinute),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", s.handleHealth)

	mux.HandleFunc("POST /api/transactions", s.handleCreateTransaction)
	mux.HandleFunc("GET /api/transactions", s.handleQueryTransactions)
	mux.HandleFunc("GET /api/transactions/search", s.handleSearchTransactions)
	mux.HandleFunc("POST /api/transactions/duplicates", s.handleDetectDuplicates)
	mux.HandleFunc("GET /api/transactions/{id}", s.handleGetTransaction)
	mux.HandleFunc("PUT /api/transactions/{id}", s.handleUpdateTransaction)
	mux.HandleFunc("DELETE /api/transactions/{id}", s.handleDeleteTransaction)

	mux.HandleFunc("GET /api/statistics", s.handleStatistics)
	mux.HandleFunc("GET /api/categories/summary", s.handleCategorySummary)

	mux.HandleFunc("GET /api/reports/income-statement", s.handleIncomeStatement)
	mux.HandleFunc("GET /api/reports/expense-report", s.handleExpenseReport)
	mux.HandleFunc("GET /api/reports/tax-summary", s.handleTaxSummary)

	s.Server = &http.Server{
		Addr:           addr,
		Handler:        trace.Middleware(s.limiter.Middleware(mux)),
		ReadTimeout:    10 * time.Second,
		WriteTimeout:   30 * time.Second,
		IdleTimeout:    60 * time.Second,
		MaxHeaderBytes: 1 << 16, // 64KB
	}

	return s
}

// Shutdown stops the limiter's background cleanup before draining requests.
func (s *Server) Shutdown(ctx context.Context) error {
	s.limiter.Stop()
	return s.Server.Shutdown(ctx)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
