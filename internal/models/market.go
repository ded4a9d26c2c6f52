// Package models defines data structures for Tickerscope
package models

import (
	"fmt"
	"strings"
	"time"
)

// PricePoint is a single OHLCV bar
type PricePoint struct {
	Timestamp time.Time `json:"timestamp"`
	Open      float64   `json:"open"`
	High      float64   `json:"high"`
	Low       float64   `json:"low"`
	Close     float64   `json:"close"`
	Volume    int64     `json:"volume"`
}

// PriceSeries is a chronologically ascending sequence of bars.
// Missing bars are absent, never gap-filled.
type PriceSeries []PricePoint

// Closes returns the close prices in series order
func (s PriceSeries) Closes() []float64 {
	out := make([]float64, len(s))
	for i, p := range s {
		out[i] = p.Close
	}
	return out
}

// Last returns the most recent bar. The series must not be empty.
func (s PriceSeries) Last() PricePoint {
	return s[len(s)-1]
}

// Tail returns at most the last n bars
func (s PriceSeries) Tail(n int) PriceSeries {
	if n <= 0 || n >= len(s) {
		return s
	}
	return s[len(s)-n:]
}

// SeriesResponse is what a data provider returns for one symbol
type SeriesResponse struct {
	Symbol   string      `json:"symbol"`
	Currency string      `json:"currency,omitempty"`
	Exchange string      `json:"exchange,omitempty"`
	Data     PriceSeries `json:"data"`
}

// MinHistoryPoints is the shortest series that can be analysed
const MinHistoryPoints = 20

// Lookback periods understood by the data provider
const (
	Period1M = "1M"
	Period3M = "3M"
	Period6M = "6M"
	Period1Y = "1Y"
	Period2Y = "2Y"
	Period5Y = "5Y"
)

// Bar intervals understood by the data provider
const (
	Interval1D  = "1d"
	Interval1H  = "1h"
	Interval15M = "15m"
)

var periodDays = map[string]int{
	Period1M: 30,
	Period3M: 90,
	Period6M: 180,
	Period1Y: 365,
	Period2Y: 730,
	Period5Y: 1825,
}

// Periods lists the supported lookback periods, shortest first
var Periods = []string{Period1M, Period3M, Period6M, Period1Y, Period2Y, Period5Y}

// PeriodDuration resolves a period code such as "6M" to its lookback window
func PeriodDuration(period string) (time.Duration, error) {
	days, ok := periodDays[strings.ToUpper(strings.TrimSpace(period))]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownPeriod, period)
	}
	return time.Duration(days) * 24 * time.Hour, nil
}

// NormalizePeriod upper-cases a period code and validates it
func NormalizePeriod(period string) (string, error) {
	p := strings.ToUpper(strings.TrimSpace(period))
	if _, ok := periodDays[p]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownPeriod, period)
	}
	return p, nil
}

// ValidInterval reports whether the bar interval is supported
func ValidInterval(interval string) bool {
	switch interval {
	case Interval1D, Interval1H, Interval15M:
		return true
	}
	return false
}

// NormalizeSymbol trims and upper-cases a ticker symbol
func NormalizeSymbol(symbol string) string {
	return strings.ToUpper(strings.TrimSpace(symbol))
}
