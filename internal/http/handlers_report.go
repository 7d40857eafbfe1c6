package http

import (
	"context"
	"net/http"

	"taxledger/internal/report"
)

func (s *Server) handleIncomeStatement(w http.ResponseWriter, r *http.Request) {
	s.serveReport(w, r, s.engine.GenerateIncomeStatement)
}

func (s *Server) handleExpenseReport(w http.ResponseWriter, r *http.Request) {
	s.serveReport(w, r, s.engine.GenerateExpenseReport)
}

func (s *Server) handleTaxSummary(w http.ResponseWriter, r *http.Request) {
	s.serveReport(w, r, s.engine.GenerateTaxSummary)
}

func (s *Server) serveReport(w http.ResponseWriter, r *http.Request, generate func(context.Context, string, string) (report.Report, error)) {
	start, end, err := dateRangeParams(r.URL.Query())
	if err != nil {
		writeError(w, r, err)
		return
	}

	rep, err := generate(r.Context(), start, end)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rep)
}
