package surrealdb

import (
	"context"
	"fmt"
	"time"

	"github.com/surrealdb/surrealdb.go"
	surrealmodels "github.com/surrealdb/surrealdb.go/pkg/models"

	"github.com/bobmcallan/tickerscope/internal/common"
	"github.com/bobmcallan/tickerscope/internal/interfaces"
	"github.com/bobmcallan/tickerscope/internal/models"
)

// watchlistRecordID is the single watchlist record
const watchlistRecordID = "default"

type watchlistRecord struct {
	Items     []models.WatchlistItem `json:"items"`
	UpdatedAt time.Time              `json:"updated_at"`
}

// WatchlistStore persists the watchlist as one record
type WatchlistStore struct {
	db     *surrealdb.DB
	logger *common.Logger
}

func NewWatchlistStore(db *surrealdb.DB, logger *common.Logger) *WatchlistStore {
	return &WatchlistStore{db: db, logger: logger}
}

func (s *WatchlistStore) GetWatchlist(ctx context.Context) (*models.Watchlist, error) {
	rec, err := surrealdb.Select[watchlistRecord](ctx, s.db, surrealmodels.NewRecordID(tableWatchlist, watchlistRecordID))
	if err != nil && !isNotFoundError(err) {
		return nil, fmt.Errorf("failed to select watchlist: %w", err)
	}
	if rec == nil {
		return &models.Watchlist{Items: []models.WatchlistItem{}}, nil
	}

	items := rec.Items
	if items == nil {
		items = []models.WatchlistItem{}
	}
	return &models.Watchlist{Items: items, UpdatedAt: rec.UpdatedAt}, nil
}

func (s *WatchlistStore) SaveWatchlist(ctx context.Context, wl *models.Watchlist) error {
	rec := watchlistRecord{Items: wl.Items, UpdatedAt: wl.UpdatedAt}
	if rec.Items == nil {
		rec.Items = []models.WatchlistItem{}
	}
	if err := upsert(ctx, s.db, tableWatchlist, watchlistRecordID, rec); err != nil {
		return err
	}
	s.logger.Debug().Int("items", len(rec.Items)).Msg("Watchlist persisted")
	return nil
}

var _ interfaces.WatchlistStore = (*WatchlistStore)(nil)
