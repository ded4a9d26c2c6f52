package server

import (
	"context"
	"net/http"
)

type batchStartRequest struct {
	Symbols []string `json:"symbols,omitempty"`
}

// handleBatchState handles GET /api/batch
func (s *Server) handleBatchState(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}
	WriteJSON(w, http.StatusOK, s.app.BatchService.State())
}

// handleBatchStart handles POST /api/batch/start. Without symbols the
// saved watchlist is analysed.
func (s *Server) handleBatchStart(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	var req batchStartRequest
	if !DecodeOptionalJSON(w, r, &req) {
		return
	}

	start := func(context.Context) error {
		_, err := s.app.BatchService.Start(req.Symbols)
		return err
	}
	if len(req.Symbols) == 0 {
		start = func(ctx context.Context) error {
			_, err := s.app.BatchService.StartWatchlist(ctx)
			return err
		}
	}

	if err := start(r.Context()); err != nil {
		writeServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusAccepted, s.app.BatchService.State())
}

// handleBatchAbort handles POST /api/batch/abort
func (s *Server) handleBatchAbort(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}
	WriteJSON(w, http.StatusOK, s.app.BatchService.Abort())
}
