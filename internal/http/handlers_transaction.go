package http

import (
	"net/http"

	"taxledger/internal/core"
	"taxledger/internal/services"
)

func (s *Server) handleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	tx, err := parseTransactionBody(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	id, err := s.ledger.CreateTransaction(r.Context(), &tx)
	if err != nil {
		writeError(w, r, err)
		return
	}

	created, err := s.ledger.GetTransaction(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toView(created))
}

func (s *Server) handleGetTransaction(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	tx, err := s.ledger.GetTransaction(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toView(tx))
}

func (s *Server) handleUpdateTransaction(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	tx, err := parseTransactionBody(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	tx.ID = id

	if err := s.ledger.UpdateTransaction(r.Context(), &tx); err != nil {
		writeError(w, r, err)
		return
	}

	updated, err := s.ledger.GetTransaction(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toView(updated))
}

func (s *Server) handleDeleteTransaction(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	if err := s.ledger.DeleteTransaction(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleQueryTransactions(w http.ResponseWriter, r *http.Request) {
	filter, err := parseFilter(r.URL.Query())
	if err != nil {
		writeError(w, r, err)
		return
	}

	txs, err := s.ledger.QueryTransactions(r.Context(), filter)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"transactions": toViews(txs),
		"count":        len(txs),
	})
}

func (s *Server) handleSearchTransactions(w http.ResponseWriter, r *http.Request) {
	term := r.URL.Query().Get("q")
	if term == "" {
		writeError(w, r, &core.ValidationError{Field: "q", Reason: "search term is required"})
		return
	}

	txs, err := s.ledger.SearchTransactions(r.Context(), term)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"transactions": toViews(txs),
		"count":        len(txs),
	})
}

func (s *Server) handleDetectDuplicates(w http.ResponseWriter, r *http.Request) {
	tx, err := parseTransactionBody(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	windowDays, err := intParam(r.URL.Query(), "window_days")
	if err != nil {
		writeError(w, r, err)
		return
	}
	if windowDays == 0 {
		windowDays = services.DuplicateWindowDays
	}

	duplicates, err := s.ledger.DetectDuplicates(r.Context(), tx, windowDays)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"duplicates":  toViews(duplicates),
		"count":       len(duplicates),
		"window_days": windowDays,
	})
}

func (s *Server) handleStatistics(w http.ResponseWriter, r *http.Request) {
	// Date bounds are optional; an open bound means "from the beginning"
	// or "until the end" of the ledger.
	start := r.URL.Query().Get("start_date")
	end := r.URL.Query().Get("end_date")

	stats, err := s.ledger.Statistics(r.Context(), start, end)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"start_date": start,
		"end_date":   end,
		"income":     typeStatsView(stats.Income),
		"expense":    typeStatsView(stats.Expense),
		"net":        stats.Net.StringFixed(2),
	})
}

func typeStatsView(ts core.TypeStatistics) map[string]any {
	return map[string]any{
		"count": ts.Count,
		"total": ts.Total.StringFixed(2),
		"avg":   ts.Avg.StringFixed(2),
		"min":   ts.Min.StringFixed(2),
		"max":   ts.Max.StringFixed(2),
	}
}

func (s *Server) handleCategorySummary(w http.ResponseWriter, r *http.Request) {
	start := r.URL.Query().Get("start_date")
	end := r.URL.Query().Get("end_date")

	txType := core.TransactionType(r.URL.Query().Get("type"))
	if txType != "" && !txType.Valid() {
		writeError(w, r, &core.ValidationError{Field: "type", Reason: "must be income or expense"})
		return
	}

	totals, err := s.ledger.CategorySummary(r.Context(), start, end, txType)
	if err != nil {
		writeError(w, r, err)
		return
	}

	rows := make([]map[string]any, 0, len(totals))
	for _, ct := range totals {
		rows = append(rows, map[string]any{
			"category": ct.Category,
			"total":    ct.Total.StringFixed(2),
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"start_date": start,
		"end_date":   end,
		"categories": rows,
	})
}
