package models

import "time"

// BatchStatus is the watchlist batch lifecycle position
type BatchStatus string

const (
	BatchIdle      BatchStatus = "idle"
	BatchRunning   BatchStatus = "running"
	BatchAborted   BatchStatus = "aborted"
	BatchCompleted BatchStatus = "completed"
)

// BatchResult is one analysed watchlist symbol
type BatchResult struct {
	ScanResult
	Currency         string  `json:"currency,omitempty"`
	Exchange         string  `json:"exchange,omitempty"`
	TechnicalScore   float64 `json:"technical_score"`
	FundamentalScore float64 `json:"fundamental_score"`
	HasFundamentals  bool    `json:"has_fundamentals"`
}

// BatchState is the published batch snapshot
type BatchState struct {
	RunID         string                 `json:"run_id,omitempty"`
	Status        BatchStatus            `json:"status"`
	Period        string                 `json:"period"`
	Total         int                    `json:"total"`
	Processed     int                    `json:"processed"`
	Progress      int                    `json:"progress"`
	CurrentSymbol string                 `json:"current_symbol,omitempty"`
	Results       map[string]BatchResult `json:"results"`
	Errors        map[string]string      `json:"errors,omitempty"`
	StartedAt     time.Time              `json:"started_at,omitempty"`
	FinishedAt    time.Time              `json:"finished_at,omitempty"`
}

// Clone returns a deep copy safe to hand to readers
func (s BatchState) Clone() BatchState {
	out := s
	out.Results = make(map[string]BatchResult, len(s.Results))
	for k, v := range s.Results {
		out.Results[k] = v
	}
	if s.Errors != nil {
		out.Errors = make(map[string]string, len(s.Errors))
		for k, v := range s.Errors {
			out.Errors[k] = v
		}
	}
	return out
}
