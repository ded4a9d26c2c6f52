package server

import (
	"net/http"

	"github.com/bobmcallan/tickerscope/internal/models"
)

// handleScanState handles GET /api/scan
func (s *Server) handleScanState(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}
	WriteJSON(w, http.StatusOK, s.app.ScanService.State())
}

// handleScanCategories handles GET /api/scan/categories
func (s *Server) handleScanCategories(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}
	WriteJSON(w, http.StatusOK, s.app.ScanService.Categories())
}

// handleScanConfig handles POST /api/scan/config
func (s *Server) handleScanConfig(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	var cfg models.ScanConfig
	if !DecodeJSON(w, r, &cfg) {
		return
	}

	state, err := s.app.ScanService.Configure(cfg)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, state)
}

// handleScanStart handles POST /api/scan/start
func (s *Server) handleScanStart(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}
	if err := s.app.ScanService.Start(); err != nil {
		writeServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusAccepted, s.app.ScanService.State())
}

// handleScanPause handles POST /api/scan/pause
func (s *Server) handleScanPause(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}
	WriteJSON(w, http.StatusOK, s.app.ScanService.Pause())
}

// handleScanContinue handles POST /api/scan/continue
func (s *Server) handleScanContinue(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}
	if err := s.app.ScanService.Continue(); err != nil {
		writeServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusAccepted, s.app.ScanService.State())
}

// handleScanReset handles POST /api/scan/reset
func (s *Server) handleScanReset(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}
	WriteJSON(w, http.StatusOK, s.app.ScanService.Reset())
}
