package server

import (
	"net/http"

	"github.com/bobmcallan/tickerscope/internal/models"
)

// handleAnalysis handles GET /api/analysis/{symbol}?period=&interval=
func (s *Server) handleAnalysis(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	symbol := models.NormalizeSymbol(PathParam(r, "/api/analysis/", ""))
	if symbol == "" {
		WriteError(w, http.StatusBadRequest, "symbol is required")
		return
	}

	q := r.URL.Query()
	analysis, err := s.app.AnalysisService.Analyze(r.Context(), symbol, q.Get("period"), q.Get("interval"))
	if err != nil {
		writeServiceError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, analysis)
}
