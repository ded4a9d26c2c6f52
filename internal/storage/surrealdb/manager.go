// Package surrealdb implements the storage interfaces on SurrealDB
package surrealdb

import (
	"context"
	"fmt"
	"strings"

	"github.com/surrealdb/surrealdb.go"

	"github.com/bobmcallan/tickerscope/internal/common"
	"github.com/bobmcallan/tickerscope/internal/interfaces"
)

const (
	tableWatchlist      = "watchlist"
	tableScanCheckpoint = "scan_checkpoint"
)

// Manager implements interfaces.StorageManager using SurrealDB.
type Manager struct {
	db     *surrealdb.DB
	logger *common.Logger

	watchlistStore *WatchlistStore
	scanStore      *ScanStore
}

// NewManager creates a new StorageManager connected to SurrealDB.
func NewManager(logger *common.Logger, config *common.Config) (*Manager, error) {
	ctx := context.Background()

	db, err := surrealdb.New(config.Storage.Address)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to SurrealDB: %w", err)
	}

	if _, err := db.SignIn(ctx, map[string]interface{}{
		"user": config.Storage.Username,
		"pass": config.Storage.Password,
	}); err != nil {
		db.Close(ctx)
		return nil, fmt.Errorf("failed to sign in to SurrealDB: %w", err)
	}

	if err := db.Use(ctx, config.Storage.Namespace, config.Storage.Database); err != nil {
		db.Close(ctx)
		return nil, fmt.Errorf("failed to select namespace/database: %w", err)
	}

	if err := defineTables(ctx, db); err != nil {
		db.Close(ctx)
		return nil, err
	}

	m := newManager(db, logger)

	logger.Info().
		Str("address", config.Storage.Address).
		Str("namespace", config.Storage.Namespace).
		Str("database", config.Storage.Database).
		Msg("SurrealDB storage manager initialized")

	return m, nil
}

func newManager(db *surrealdb.DB, logger *common.Logger) *Manager {
	return &Manager{
		db:             db,
		logger:         logger,
		watchlistStore: NewWatchlistStore(db, logger),
		scanStore:      NewScanStore(db, logger),
	}
}

// defineTables creates the tables up front; SurrealDB v3 errors when
// querying a table that does not exist
func defineTables(ctx context.Context, db *surrealdb.DB) error {
	for _, table := range []string{tableWatchlist, tableScanCheckpoint} {
		sql := fmt.Sprintf("DEFINE TABLE IF NOT EXISTS %s SCHEMALESS", table)
		if _, err := surrealdb.Query[any](ctx, db, sql, nil); err != nil {
			return fmt.Errorf("failed to define table %s: %w", table, err)
		}
	}
	return nil
}

func (m *Manager) WatchlistStore() interfaces.WatchlistStore {
	return m.watchlistStore
}

func (m *Manager) ScanStore() interfaces.ScanStore {
	return m.scanStore
}

func (m *Manager) Close() error {
	m.db.Close(context.Background())
	return nil
}

// isNotFoundError reports whether err means the record does not exist
func isNotFoundError(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "not found") || strings.Contains(msg, "does not exist")
}

// upsert writes content to table:id, retrying transient failures
func upsert[T any](ctx context.Context, db *surrealdb.DB, table, id string, content T) error {
	sql := fmt.Sprintf("UPSERT type::record('%s', $id) CONTENT $record", table)
	vars := map[string]any{"id": id, "record": content}

	var err error
	for attempt := 1; attempt <= 3; attempt++ {
		if _, err = surrealdb.Query[[]T](ctx, db, sql, vars); err == nil {
			return nil
		}
	}
	return fmt.Errorf("failed to upsert %s:%s after retries: %w", table, id, err)
}

// Compile-time check
var _ interfaces.StorageManager = (*Manager)(nil)
