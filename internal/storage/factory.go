// Package storage selects the persistence backend
package storage

import (
	"fmt"

	"github.com/bobmcallan/tickerscope/internal/common"
	"github.com/bobmcallan/tickerscope/internal/interfaces"
	"github.com/bobmcallan/tickerscope/internal/storage/memory"
	"github.com/bobmcallan/tickerscope/internal/storage/surrealdb"
)

// Backend names reported at startup
const (
	BackendSurrealDB = "surrealdb"
	BackendMemory    = "memory"
)

// Backend returns the backend the configuration selects
func Backend(config *common.Config) string {
	if config.Storage.Address != "" {
		return BackendSurrealDB
	}
	return BackendMemory
}

// NewStorageManager creates the storage manager for the configuration.
// SurrealDB is used when an address is configured, otherwise state lives in
// memory and is lost on restart.
func NewStorageManager(logger *common.Logger, config *common.Config) (interfaces.StorageManager, error) {
	switch Backend(config) {
	case BackendSurrealDB:
		m, err := surrealdb.NewManager(logger, config)
		if err != nil {
			return nil, fmt.Errorf("failed to initialise surrealdb storage: %w", err)
		}
		return m, nil
	default:
		logger.Warn().Msg("No storage address configured, using in-memory storage")
		return memory.NewManager(), nil
	}
}
