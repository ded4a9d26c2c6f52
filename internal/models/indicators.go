package models

import (
	"encoding/json"
)

// IndicatorSnapshot holds every indicator computed over a series.
// Each Series has the same length as the input and shares its indexing.
type IndicatorSnapshot struct {
	SMA20      Series `json:"sma20"`
	SMA50      Series `json:"sma50"`
	RSI        Series `json:"rsi"`
	MACDLine   Series `json:"macd_line"`
	SignalLine Series `json:"signal_line"`
	Histogram  Series `json:"histogram"`
	BBUpper    Series `json:"bb_upper"`
	BBMiddle   Series `json:"bb_middle"`
	BBLower    Series `json:"bb_lower"`
	ATR        Series `json:"atr"`
	StochK     Series `json:"stoch_k"`
	StochD     Series `json:"stoch_d"`
	ADX        Series `json:"adx"`
	PlusDI     Series `json:"plus_di"`
	MinusDI    Series `json:"minus_di"`
	OBV        Series `json:"obv"`
}

// Len returns the aligned length of the snapshot
func (s *IndicatorSnapshot) Len() int {
	return len(s.SMA20)
}

// Trend and oscillator classifications
const (
	TrendBullish = "bullish"
	TrendBearish = "bearish"

	RSIOverbought = "overbought"
	RSIOversold   = "oversold"
	RSINeutral    = "neutral"

	BandUpper  = "upper"
	BandMiddle = "middle"
	BandLower  = "lower"

	DirectionUp   = "up"
	DirectionDown = "down"
	DirectionFlat = "flat"

	OBVRising  = "rising"
	OBVFalling = "falling"
	OBVFlat    = "flat"
)

// IndicatorSummary is the latest-bar view of a snapshot that drives scoring.
// Values that were undefined at the last bar are NaN.
type IndicatorSummary struct {
	LastPrice   float64        `json:"last_price"`
	PriceChange float64        `json:"price_change"` // percent vs previous close
	SMA20       float64        `json:"sma20"`
	SMA50       float64        `json:"sma50"`
	RSI         float64        `json:"rsi"`
	MACD        float64        `json:"macd"`
	Signal      float64        `json:"signal"`
	Histogram   float64        `json:"histogram"`
	BBUpper     float64        `json:"bb_upper"`
	BBMiddle    float64        `json:"bb_middle"`
	BBLower     float64        `json:"bb_lower"`
	ATR         float64        `json:"atr"`
	StochK      float64        `json:"stoch_k"`
	StochD      float64        `json:"stoch_d"`
	ADX         float64        `json:"adx"`
	ShortTrend  string         `json:"short_trend"`
	RSISignal   string         `json:"rsi_signal"`
	MACDSignal  string         `json:"macd_signal"`
	BBPosition  string         `json:"bb_position"`
	Volume      *VolumeContext `json:"volume,omitempty"`
}

// MarshalJSON writes undefined indicator values as null
func (s IndicatorSummary) MarshalJSON() ([]byte, error) {
	type alias IndicatorSummary
	return json.Marshal(struct {
		alias
		LastPrice   *float64 `json:"last_price"`
		PriceChange *float64 `json:"price_change"`
		SMA20       *float64 `json:"sma20"`
		SMA50       *float64 `json:"sma50"`
		RSI         *float64 `json:"rsi"`
		MACD        *float64 `json:"macd"`
		Signal      *float64 `json:"signal"`
		Histogram   *float64 `json:"histogram"`
		BBUpper     *float64 `json:"bb_upper"`
		BBMiddle    *float64 `json:"bb_middle"`
		BBLower     *float64 `json:"bb_lower"`
		ATR         *float64 `json:"atr"`
		StochK      *float64 `json:"stoch_k"`
		StochD      *float64 `json:"stoch_d"`
		ADX         *float64 `json:"adx"`
	}{
		alias:       alias(s),
		LastPrice:   finite(s.LastPrice),
		PriceChange: finite(s.PriceChange),
		SMA20:       finite(s.SMA20),
		SMA50:       finite(s.SMA50),
		RSI:         finite(s.RSI),
		MACD:        finite(s.MACD),
		Signal:      finite(s.Signal),
		Histogram:   finite(s.Histogram),
		BBUpper:     finite(s.BBUpper),
		BBMiddle:    finite(s.BBMiddle),
		BBLower:     finite(s.BBLower),
		ATR:         finite(s.ATR),
		StochK:      finite(s.StochK),
		StochD:      finite(s.StochD),
		ADX:         finite(s.ADX),
	})
}

// VolumeContext summarises recent volume behaviour for the volume signal
type VolumeContext struct {
	CurrentVolume  float64 `json:"current_volume"`
	AverageVolume  float64 `json:"average_volume"` // mean of the last 20 bars
	Ratio          float64 `json:"ratio"`          // current / average, 0 when average is 0
	PriceDirection string  `json:"price_direction"`
	OBVTrend       string  `json:"obv_trend"`
	Confirmation   *bool   `json:"confirmation,omitempty"` // nil when price or OBV is flat
}
