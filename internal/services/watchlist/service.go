// Package watchlist provides watchlist management and row quotes
package watchlist

import (
	"context"
	"fmt"
	"time"

	"github.com/bobmcallan/tickerscope/internal/common"
	"github.com/bobmcallan/tickerscope/internal/interfaces"
	"github.com/bobmcallan/tickerscope/internal/models"
)

// Compile-time interface check
var _ interfaces.WatchlistService = (*Service)(nil)

// quoteLookback is the bar count behind the week change
const quoteLookback = 5

// Service implements WatchlistService
type Service struct {
	store        interfaces.WatchlistStore
	data         interfaces.DataProvider
	fundamentals interfaces.FundamentalsProvider
	logger       *common.Logger
	now          func() time.Time
}

// NewService creates a new watchlist service. fundamentals may be nil.
func NewService(store interfaces.WatchlistStore, data interfaces.DataProvider, fundamentals interfaces.FundamentalsProvider, logger *common.Logger) *Service {
	if logger == nil {
		logger = common.NewSilentLogger()
	}
	return &Service{
		store:        store,
		data:         data,
		fundamentals: fundamentals,
		logger:       logger,
		now:          time.Now,
	}
}

// Get returns the watchlist in display order
func (s *Service) Get(ctx context.Context) (*models.Watchlist, error) {
	wl, err := s.store.GetWatchlist(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get watchlist: %w", err)
	}
	if wl.Items == nil {
		wl.Items = []models.WatchlistItem{}
	}
	return wl, nil
}

// Add appends a symbol. Adding a symbol already present is a no-op.
func (s *Service) Add(ctx context.Context, symbol, name string) (*models.Watchlist, error) {
	symbol = models.NormalizeSymbol(symbol)
	if symbol == "" {
		return nil, models.ErrEmptySymbol
	}

	wl, err := s.Get(ctx)
	if err != nil {
		return nil, err
	}
	if wl.IndexOf(symbol) >= 0 {
		return wl, nil
	}

	wl.Items = append(wl.Items, models.WatchlistItem{
		Symbol:  symbol,
		Name:    name,
		AddedAt: s.now(),
	})
	if err := s.save(ctx, wl); err != nil {
		return nil, err
	}

	s.logger.Info().Str("symbol", symbol).Msg("Watchlist item added")
	return wl, nil
}

// Remove deletes a symbol from the watchlist
func (s *Service) Remove(ctx context.Context, symbol string) (*models.Watchlist, error) {
	wl, idx, err := s.find(ctx, symbol)
	if err != nil {
		return nil, err
	}

	wl.Items = append(wl.Items[:idx], wl.Items[idx+1:]...)
	if err := s.save(ctx, wl); err != nil {
		return nil, err
	}

	s.logger.Info().Str("symbol", models.NormalizeSymbol(symbol)).Msg("Watchlist item removed")
	return wl, nil
}

// MoveUp swaps a symbol with its predecessor. The first item stays put.
func (s *Service) MoveUp(ctx context.Context, symbol string) (*models.Watchlist, error) {
	return s.move(ctx, symbol, -1)
}

// MoveDown swaps a symbol with its successor. The last item stays put.
func (s *Service) MoveDown(ctx context.Context, symbol string) (*models.Watchlist, error) {
	return s.move(ctx, symbol, 1)
}

func (s *Service) move(ctx context.Context, symbol string, delta int) (*models.Watchlist, error) {
	wl, idx, err := s.find(ctx, symbol)
	if err != nil {
		return nil, err
	}

	target := idx + delta
	if target < 0 || target >= len(wl.Items) {
		return wl, nil
	}

	wl.Items[idx], wl.Items[target] = wl.Items[target], wl.Items[idx]
	if err := s.save(ctx, wl); err != nil {
		return nil, err
	}
	return wl, nil
}

// Clear removes every item
func (s *Service) Clear(ctx context.Context) (*models.Watchlist, error) {
	wl := &models.Watchlist{Items: []models.WatchlistItem{}}
	if err := s.save(ctx, wl); err != nil {
		return nil, err
	}
	s.logger.Info().Msg("Watchlist cleared")
	return wl, nil
}

// Quote builds the display row for a symbol from a one-month daily series
// and, when available, fundamentals
func (s *Service) Quote(ctx context.Context, symbol string) (*models.WatchlistQuote, error) {
	symbol = models.NormalizeSymbol(symbol)
	if symbol == "" {
		return nil, models.ErrEmptySymbol
	}

	resp, err := s.data.FetchSeries(ctx, symbol, models.Period1M, models.Interval1D)
	if err != nil {
		return nil, err
	}
	n := len(resp.Data)
	if n == 0 {
		return nil, &models.InsufficientHistoryError{Symbol: symbol, Points: 0, Required: 1}
	}

	last := resp.Data[n-1].Close
	q := &models.WatchlistQuote{
		Symbol:    symbol,
		Price:     last,
		Currency:  resp.Currency,
		Exchange:  resp.Exchange,
		UpdatedAt: s.now(),
	}
	if n > 1 {
		q.Change = percentChange(resp.Data[n-2].Close, last)
	}
	if n > quoteLookback {
		if prev := resp.Data[n-1-quoteLookback].Close; prev != 0 {
			q.WeekChange = models.Float64Ptr(percentChange(prev, last))
		}
	}

	if s.fundamentals != nil {
		f, err := s.fundamentals.FetchFundamentals(ctx, symbol)
		if err != nil {
			s.logger.Debug().Err(err).Str("symbol", symbol).Msg("Quote without fundamentals")
		} else if f != nil {
			q.MarketCap = f.MarketCap
			q.PERatio = f.PERatio
			q.Week52High = f.Week52High
			q.Week52Low = f.Week52Low
		}
	}
	return q, nil
}

func (s *Service) find(ctx context.Context, symbol string) (*models.Watchlist, int, error) {
	symbol = models.NormalizeSymbol(symbol)
	wl, err := s.Get(ctx)
	if err != nil {
		return nil, -1, err
	}
	idx := wl.IndexOf(symbol)
	if idx < 0 {
		return nil, -1, fmt.Errorf("%w: %s", models.ErrWatchlistItemNotFound, symbol)
	}
	return wl, idx, nil
}

func (s *Service) save(ctx context.Context, wl *models.Watchlist) error {
	wl.UpdatedAt = s.now()
	if err := s.store.SaveWatchlist(ctx, wl); err != nil {
		return fmt.Errorf("failed to save watchlist: %w", err)
	}
	return nil
}

func percentChange(from, to float64) float64 {
	if from == 0 {
		return 0
	}
	return (to - from) / from * 100
}
