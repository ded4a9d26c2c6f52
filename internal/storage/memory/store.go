// Package memory is a process-local storage backend used when no database
// address is configured
package memory

import (
	"context"
	"sync"

	"github.com/bobmcallan/tickerscope/internal/interfaces"
	"github.com/bobmcallan/tickerscope/internal/models"
)

// Manager implements interfaces.StorageManager in memory
type Manager struct {
	watchlist *WatchlistStore
	scan      *ScanStore
}

// NewManager creates an empty in-memory backend
func NewManager() *Manager {
	return &Manager{
		watchlist: &WatchlistStore{},
		scan:      &ScanStore{},
	}
}

func (m *Manager) WatchlistStore() interfaces.WatchlistStore { return m.watchlist }
func (m *Manager) ScanStore() interfaces.ScanStore           { return m.scan }
func (m *Manager) Close() error                              { return nil }

// WatchlistStore keeps a copy of the last saved watchlist
type WatchlistStore struct {
	mu sync.RWMutex
	wl *models.Watchlist
}

func (s *WatchlistStore) GetWatchlist(ctx context.Context) (*models.Watchlist, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.wl == nil {
		return &models.Watchlist{Items: []models.WatchlistItem{}}, nil
	}
	return copyWatchlist(s.wl), nil
}

func (s *WatchlistStore) SaveWatchlist(ctx context.Context, wl *models.Watchlist) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.wl = copyWatchlist(wl)
	return nil
}

func copyWatchlist(wl *models.Watchlist) *models.Watchlist {
	out := &models.Watchlist{
		Items:     make([]models.WatchlistItem, len(wl.Items)),
		UpdatedAt: wl.UpdatedAt,
	}
	copy(out.Items, wl.Items)
	return out
}

// ScanStore keeps a copy of the last saved checkpoint
type ScanStore struct {
	mu    sync.RWMutex
	state *models.ScanState
}

func (s *ScanStore) GetScanState(ctx context.Context) (*models.ScanState, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.state == nil {
		return nil, nil
	}
	st := s.state.Clone()
	return &st, nil
}

func (s *ScanStore) SaveScanState(ctx context.Context, state *models.ScanState) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := state.Clone()
	s.state = &st
	return nil
}

var (
	_ interfaces.StorageManager = (*Manager)(nil)
	_ interfaces.WatchlistStore = (*WatchlistStore)(nil)
	_ interfaces.ScanStore      = (*ScanStore)(nil)
)
