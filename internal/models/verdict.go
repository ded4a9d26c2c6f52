package models

import "time"

// SignalType is the polarity of a signal
type SignalType string

const (
	SignalBullish SignalType = "bullish"
	SignalBearish SignalType = "bearish"
	SignalNeutral SignalType = "neutral"
)

// Signal categories
const (
	CategoryTechnical   = "technical"
	CategoryFundamental = "fundamental"
)

// Signal is one weighted observation feeding the verdict
type Signal struct {
	Type     SignalType `json:"type"`
	Weight   float64    `json:"weight"`
	Text     string     `json:"text"`
	Category string     `json:"category"`
}

// VerdictType is the machine-readable verdict class
type VerdictType string

const (
	VerdictStrongBullish VerdictType = "strong-bullish"
	VerdictBullish       VerdictType = "bullish"
	VerdictNeutral       VerdictType = "neutral"
	VerdictBearish       VerdictType = "bearish"
	VerdictStrongBearish VerdictType = "strong-bearish"
)

// Verdict is the aggregate of all fired signals. It is a pure function of
// its inputs.
type Verdict struct {
	Label            string      `json:"label"`
	Type             VerdictType `json:"verdict_type"`
	Recommendation   string      `json:"recommendation"`
	BullishPercent   int         `json:"bullish_percent"`
	BearishPercent   int         `json:"bearish_percent"`
	BullishTotal     float64     `json:"bullish_total"`
	BearishTotal     float64     `json:"bearish_total"`
	NeutralTotal     float64     `json:"neutral_total"`
	TechnicalScore   float64     `json:"technical_score"`
	FundamentalScore float64     `json:"fundamental_score"`
	Signals          []Signal    `json:"signals"`
}

// Analysis is the full single-symbol result
type Analysis struct {
	Symbol            string              `json:"symbol"`
	Period            string              `json:"period"`
	Interval          string              `json:"interval"`
	Currency          string              `json:"currency,omitempty"`
	Exchange          string              `json:"exchange,omitempty"`
	Series            PriceSeries         `json:"series"`
	Snapshot          *IndicatorSnapshot  `json:"snapshot"`
	Summary           IndicatorSummary    `json:"summary"`
	Fibonacci         FibonacciLevels     `json:"fibonacci"`
	SupportResistance SupportResistance   `json:"support_resistance"`
	Fundamentals      *FundamentalMetrics `json:"fundamentals,omitempty"`
	Verdict           Verdict             `json:"verdict"`
	GeneratedAt       time.Time           `json:"generated_at"`
}
