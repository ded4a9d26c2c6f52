package server

import (
	"net/http"
	"strings"

	"github.com/bobmcallan/tickerscope/internal/common"
)

// registerRoutes sets up all REST API routes on the mux.
func (s *Server) registerRoutes(mux *http.ServeMux) {
	// System
	mux.HandleFunc("/api/health", s.handleHealth)
	mux.HandleFunc("/api/version", s.handleVersion)

	// Analysis
	mux.HandleFunc("/api/analysis/", s.handleAnalysis)

	// Scanning
	mux.HandleFunc("/api/scan", s.handleScanState)
	mux.HandleFunc("/api/scan/categories", s.handleScanCategories)
	mux.HandleFunc("/api/scan/config", s.handleScanConfig)
	mux.HandleFunc("/api/scan/start", s.handleScanStart)
	mux.HandleFunc("/api/scan/pause", s.handleScanPause)
	mux.HandleFunc("/api/scan/continue", s.handleScanContinue)
	mux.HandleFunc("/api/scan/reset", s.handleScanReset)

	// Watchlist
	mux.HandleFunc("/api/watchlist", s.handleWatchlist)
	mux.HandleFunc("/api/watchlist/", s.routeWatchlistItem)

	// Batch
	mux.HandleFunc("/api/batch", s.handleBatchState)
	mux.HandleFunc("/api/batch/start", s.handleBatchStart)
	mux.HandleFunc("/api/batch/abort", s.handleBatchAbort)

	// Live events
	if s.app.Hub != nil {
		mux.HandleFunc("/ws", s.app.Hub.ServeWS)
	}
}

// routeWatchlistItem dispatches /api/watchlist/{symbol}[/up|/down|/quote]
func (s *Server) routeWatchlistItem(w http.ResponseWriter, r *http.Request) {
	rest := strings.Trim(strings.TrimPrefix(r.URL.Path, "/api/watchlist/"), "/")
	parts := strings.Split(rest, "/")
	if rest == "" || len(parts) > 2 {
		WriteError(w, http.StatusNotFound, "Not found")
		return
	}

	symbol := parts[0]
	if len(parts) == 1 {
		s.handleWatchlistRemove(w, r, symbol)
		return
	}

	switch parts[1] {
	case "up":
		s.handleWatchlistMove(w, r, symbol, -1)
	case "down":
		s.handleWatchlistMove(w, r, symbol, 1)
	case "quote":
		s.handleWatchlistQuote(w, r, symbol)
	default:
		WriteError(w, http.StatusNotFound, "Not found")
	}
}

// handleHealth handles GET /api/health
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet, http.MethodHead) {
		return
	}
	WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleVersion handles GET /api/version
func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet, http.MethodHead) {
		return
	}
	WriteJSON(w, http.StatusOK, common.GetVersionInfo())
}
