package models

import "time"

// ScanStatus is the scan state machine position
type ScanStatus string

const (
	ScanIdle      ScanStatus = "idle"
	ScanScanning  ScanStatus = "scanning"
	ScanPaused    ScanStatus = "paused"
	ScanFound     ScanStatus = "found"
	ScanCompleted ScanStatus = "completed"
)

// ScanHistoryLimit bounds the scan history, newest first
const ScanHistoryLimit = 100

// ScanConfig selects the universe and match criteria. Any change resets
// scan progress.
type ScanConfig struct {
	Categories []string `json:"categories"`
	Period     string   `json:"period"`
	Threshold  int      `json:"threshold"` // minimum bullish percent for a match
}

// Equal reports whether two configurations select the same scan
func (c ScanConfig) Equal(o ScanConfig) bool {
	if c.Period != o.Period || c.Threshold != o.Threshold || len(c.Categories) != len(o.Categories) {
		return false
	}
	for i := range c.Categories {
		if c.Categories[i] != o.Categories[i] {
			return false
		}
	}
	return true
}

// ScanResult is the compact per-symbol record kept in history
type ScanResult struct {
	Symbol         string      `json:"symbol"`
	Price          float64     `json:"price"`
	PriceChange    float64     `json:"price_change"`
	BullishPercent int         `json:"bullish_percent"`
	BearishPercent int         `json:"bearish_percent"`
	Verdict        string      `json:"verdict"`
	VerdictType    VerdictType `json:"verdict_type"`
	Timestamp      time.Time   `json:"timestamp"`
}

// ScanState is the published scan snapshot
type ScanState struct {
	Status        ScanStatus   `json:"status"`
	Config        ScanConfig   `json:"config"`
	UniverseSize  int          `json:"universe_size"`
	Cursor        int          `json:"cursor"`
	CurrentSymbol string       `json:"current_symbol,omitempty"`
	Scanned       int          `json:"scanned"`
	Skipped       int          `json:"skipped"`
	Progress      int          `json:"progress"` // percent of the universe behind the cursor
	History       []ScanResult `json:"history"`
	FoundMatch    *ScanResult  `json:"found_match,omitempty"`
	UpdatedAt     time.Time    `json:"updated_at"`
}

// Clone returns a deep copy safe to hand to readers
func (s ScanState) Clone() ScanState {
	out := s
	out.Config.Categories = append([]string(nil), s.Config.Categories...)
	out.History = make([]ScanResult, len(s.History))
	copy(out.History, s.History)
	if s.FoundMatch != nil {
		m := *s.FoundMatch
		out.FoundMatch = &m
	}
	return out
}

// ScanCategory is a named slice of the scan universe
type ScanCategory struct {
	Key     string   `json:"key"`
	Label   string   `json:"label"`
	Symbols []string `json:"symbols"`
}
