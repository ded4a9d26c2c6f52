package interfaces

import (
	"context"

	"github.com/bobmcallan/tickerscope/internal/models"
)

// AnalysisService runs the full single-symbol pipeline
type AnalysisService interface {
	// Analyze fetches, computes indicators and patterns, and scores a verdict.
	// Returns *models.ProviderError or *models.InsufficientHistoryError.
	Analyze(ctx context.Context, symbol, period, interval string) (*models.Analysis, error)
}

// ScanService drives the resumable universe scan
type ScanService interface {
	Configure(cfg models.ScanConfig) (models.ScanState, error)
	Start() error
	Pause() models.ScanState
	Continue() error
	Reset() models.ScanState
	State() models.ScanState
	Categories() []models.ScanCategory
	Shutdown()
}

// BatchService drives watchlist batch analysis
type BatchService interface {
	Start(symbols []string) (models.BatchState, error)
	// StartWatchlist runs the batch over the saved watchlist
	StartWatchlist(ctx context.Context) (models.BatchState, error)
	Abort() models.BatchState
	State() models.BatchState
	Running() bool
	Shutdown()
}

// WatchlistService manages the saved symbol list
type WatchlistService interface {
	Get(ctx context.Context) (*models.Watchlist, error)
	Add(ctx context.Context, symbol, name string) (*models.Watchlist, error)
	Remove(ctx context.Context, symbol string) (*models.Watchlist, error)
	MoveUp(ctx context.Context, symbol string) (*models.Watchlist, error)
	MoveDown(ctx context.Context, symbol string) (*models.Watchlist, error)
	Clear(ctx context.Context) (*models.Watchlist, error)
	Quote(ctx context.Context, symbol string) (*models.WatchlistQuote, error)
}

// EventPublisher receives state snapshots from the scan and batch loops
type EventPublisher interface {
	Publish(eventType string, payload interface{})
}
