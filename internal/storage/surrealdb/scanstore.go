package surrealdb

import (
	"context"
	"fmt"

	"github.com/surrealdb/surrealdb.go"
	surrealmodels "github.com/surrealdb/surrealdb.go/pkg/models"

	"github.com/bobmcallan/tickerscope/internal/common"
	"github.com/bobmcallan/tickerscope/internal/interfaces"
	"github.com/bobmcallan/tickerscope/internal/models"
)

// scanRecordID is the single checkpoint record
const scanRecordID = "current"

// ScanStore persists the scan checkpoint
type ScanStore struct {
	db     *surrealdb.DB
	logger *common.Logger
}

func NewScanStore(db *surrealdb.DB, logger *common.Logger) *ScanStore {
	return &ScanStore{db: db, logger: logger}
}

func (s *ScanStore) GetScanState(ctx context.Context) (*models.ScanState, error) {
	state, err := surrealdb.Select[models.ScanState](ctx, s.db, surrealmodels.NewRecordID(tableScanCheckpoint, scanRecordID))
	if err != nil {
		if isNotFoundError(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to select scan checkpoint: %w", err)
	}
	if state == nil || state.Status == "" {
		return nil, nil
	}
	return state, nil
}

func (s *ScanStore) SaveScanState(ctx context.Context, state *models.ScanState) error {
	if err := upsert(ctx, s.db, tableScanCheckpoint, scanRecordID, state); err != nil {
		return err
	}
	s.logger.Debug().
		Str("status", string(state.Status)).
		Int("cursor", state.Cursor).
		Msg("Scan checkpoint persisted")
	return nil
}

var _ interfaces.ScanStore = (*ScanStore)(nil)
