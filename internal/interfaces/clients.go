// Package interfaces defines service contracts for Tickerscope
package interfaces

import (
	"context"

	"github.com/bobmcallan/tickerscope/internal/models"
)

// DataProvider turns a symbol, period and interval into a price series.
// Failures are *models.ProviderError.
type DataProvider interface {
	FetchSeries(ctx context.Context, symbol, period, interval string) (*models.SeriesResponse, error)
}

// FundamentalsProvider returns valuation metrics for a symbol.
// Failures are *models.ProviderError; callers treat them as absent metrics.
type FundamentalsProvider interface {
	FetchFundamentals(ctx context.Context, symbol string) (*models.FundamentalMetrics, error)
}

// MarketDataProvider serves both series and fundamentals
type MarketDataProvider interface {
	DataProvider
	FundamentalsProvider
}
