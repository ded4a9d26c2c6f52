package interfaces

import (
	"context"

	"github.com/bobmcallan/tickerscope/internal/models"
)

// WatchlistStore persists the watchlist
type WatchlistStore interface {
	// GetWatchlist returns an empty watchlist when none is saved
	GetWatchlist(ctx context.Context) (*models.Watchlist, error)
	SaveWatchlist(ctx context.Context, wl *models.Watchlist) error
}

// ScanStore persists the scan checkpoint so progress survives restarts
type ScanStore interface {
	// GetScanState returns nil, nil when no checkpoint exists
	GetScanState(ctx context.Context) (*models.ScanState, error)
	SaveScanState(ctx context.Context, state *models.ScanState) error
}

// StorageManager owns the persistence backend
type StorageManager interface {
	WatchlistStore() WatchlistStore
	ScanStore() ScanStore
	Close() error
}
