package models

import (
	"errors"
	"fmt"
)

// Sentinel errors shared across services
var (
	ErrInsufficientHistory   = errors.New("insufficient price history")
	ErrUnknownPeriod         = errors.New("unknown period")
	ErrUnknownInterval       = errors.New("unknown interval")
	ErrUnknownCategory       = errors.New("unknown scan category")
	ErrInvalidThreshold      = errors.New("threshold must be between 1 and 100")
	ErrScanInProgress        = errors.New("scan already in progress")
	ErrBatchInProgress       = errors.New("batch already in progress")
	ErrWatchlistItemNotFound = errors.New("watchlist item not found")
	ErrEmptySymbol           = errors.New("symbol is required")
)

// ProviderErrorKind classifies data provider failures
type ProviderErrorKind string

const (
	ProviderNetwork        ProviderErrorKind = "network"
	ProviderHTTP           ProviderErrorKind = "http"
	ProviderParse          ProviderErrorKind = "parse"
	ProviderSymbolNotFound ProviderErrorKind = "symbol-not-found"
)

// ProviderError is returned by data and fundamentals providers
type ProviderError struct {
	Kind       ProviderErrorKind
	Symbol     string
	StatusCode int
	Err        error
}

func (e *ProviderError) Error() string {
	switch {
	case e.StatusCode != 0 && e.Err != nil:
		return fmt.Sprintf("provider %s error for %s (status %d): %v", e.Kind, e.Symbol, e.StatusCode, e.Err)
	case e.StatusCode != 0:
		return fmt.Sprintf("provider %s error for %s (status %d)", e.Kind, e.Symbol, e.StatusCode)
	case e.Err != nil:
		return fmt.Sprintf("provider %s error for %s: %v", e.Kind, e.Symbol, e.Err)
	default:
		return fmt.Sprintf("provider %s error for %s", e.Kind, e.Symbol)
	}
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

// IsProviderError reports whether err carries a ProviderError of the given kind
func IsProviderError(err error, kind ProviderErrorKind) bool {
	var pe *ProviderError
	return errors.As(err, &pe) && pe.Kind == kind
}

// InsufficientHistoryError reports a series too short to analyse
type InsufficientHistoryError struct {
	Symbol   string
	Points   int
	Required int
}

func (e *InsufficientHistoryError) Error() string {
	return fmt.Sprintf("insufficient price history for %s: %d points, need %d", e.Symbol, e.Points, e.Required)
}

// Is matches ErrInsufficientHistory
func (e *InsufficientHistoryError) Is(target error) bool {
	return target == ErrInsufficientHistory
}
