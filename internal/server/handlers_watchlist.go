package server

import (
	"net/http"
)

type watchlistAddRequest struct {
	Symbol string `json:"symbol"`
	Name   string `json:"name,omitempty"`
}

// handleWatchlist handles GET|POST|DELETE /api/watchlist
func (s *Server) handleWatchlist(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		wl, err := s.app.WatchlistService.Get(r.Context())
		if err != nil {
			writeServiceError(w, err)
			return
		}
		WriteJSON(w, http.StatusOK, wl)

	case http.MethodPost:
		var req watchlistAddRequest
		if !DecodeJSON(w, r, &req) {
			return
		}
		wl, err := s.app.WatchlistService.Add(r.Context(), req.Symbol, req.Name)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		WriteJSON(w, http.StatusOK, wl)

	case http.MethodDelete:
		wl, err := s.app.WatchlistService.Clear(r.Context())
		if err != nil {
			writeServiceError(w, err)
			return
		}
		WriteJSON(w, http.StatusOK, wl)

	default:
		RequireMethod(w, r, http.MethodGet, http.MethodPost, http.MethodDelete)
	}
}

// handleWatchlistRemove handles DELETE /api/watchlist/{symbol}
func (s *Server) handleWatchlistRemove(w http.ResponseWriter, r *http.Request, symbol string) {
	if !RequireMethod(w, r, http.MethodDelete) {
		return
	}
	wl, err := s.app.WatchlistService.Remove(r.Context(), symbol)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, wl)
}

// handleWatchlistMove handles POST /api/watchlist/{symbol}/up and /down
func (s *Server) handleWatchlistMove(w http.ResponseWriter, r *http.Request, symbol string, delta int) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	move := s.app.WatchlistService.MoveDown
	if delta < 0 {
		move = s.app.WatchlistService.MoveUp
	}
	wl, err := move(r.Context(), symbol)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, wl)
}

// handleWatchlistQuote handles GET /api/watchlist/{symbol}/quote
func (s *Server) handleWatchlistQuote(w http.ResponseWriter, r *http.Request, symbol string) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}
	quote, err := s.app.WatchlistService.Quote(r.Context(), symbol)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, quote)
}
