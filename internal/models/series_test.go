package models

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeries_MarshalJSON_NaNAsNull(t *testing.T) {
	s := Series{math.NaN(), 1.5, math.NaN(), 42}

	data, err := json.Marshal(s)
	require.NoError(t, err)
	assert.JSONEq(t, `[null,1.5,null,42]`, string(data))

	var back Series
	require.NoError(t, json.Unmarshal(data, &back))
	require.Len(t, back, 4)
	assert.False(t, back.Defined(0))
	assert.True(t, back.Defined(1))
	assert.Equal(t, 42.0, back[3])
}

func TestSeries_At(t *testing.T) {
	s := NewSeries(3)
	s[2] = 7

	_, ok := s.At(0)
	assert.False(t, ok)
	_, ok = s.At(-1)
	assert.False(t, ok)
	_, ok = s.At(3)
	assert.False(t, ok)

	v, ok := s.Last()
	assert.True(t, ok)
	assert.Equal(t, 7.0, v)
}

func TestIndicatorSummary_MarshalJSON_UndefinedAsNull(t *testing.T) {
	sum := IndicatorSummary{
		LastPrice:  100,
		SMA20:      99,
		SMA50:      math.NaN(),
		RSI:        55,
		ADX:        math.NaN(),
		ShortTrend: TrendBearish,
	}

	data, err := json.Marshal(sum)
	require.NoError(t, err)

	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &out))
	assert.Equal(t, 100.0, out["last_price"])
	assert.Nil(t, out["sma50"])
	assert.Nil(t, out["adx"])
	assert.Equal(t, "bearish", out["short_trend"])
}

func TestPeriodDuration(t *testing.T) {
	d, err := PeriodDuration("6m")
	require.NoError(t, err)
	assert.Equal(t, 180*24*time.Hour, d)

	_, err = PeriodDuration("10Y")
	assert.ErrorIs(t, err, ErrUnknownPeriod)
}

func TestProviderError(t *testing.T) {
	cause := errors.New("connection refused")
	err := fmt.Errorf("fetch failed: %w", &ProviderError{Kind: ProviderNetwork, Symbol: "AAPL", Err: cause})

	assert.True(t, IsProviderError(err, ProviderNetwork))
	assert.False(t, IsProviderError(err, ProviderHTTP))
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "AAPL")
}

func TestInsufficientHistoryError_IsSentinel(t *testing.T) {
	err := fmt.Errorf("analyze: %w", &InsufficientHistoryError{Symbol: "XYZ", Points: 12, Required: MinHistoryPoints})
	assert.ErrorIs(t, err, ErrInsufficientHistory)
	assert.Contains(t, err.Error(), "12 points")
}

func TestScanConfig_Equal(t *testing.T) {
	a := ScanConfig{Categories: []string{"sp500", "etfs"}, Period: "6M", Threshold: 90}
	b := ScanConfig{Categories: []string{"sp500", "etfs"}, Period: "6M", Threshold: 90}
	assert.True(t, a.Equal(b))

	b.Categories = []string{"etfs", "sp500"}
	assert.False(t, a.Equal(b))
}

func TestScanState_CloneIsIndependent(t *testing.T) {
	st := ScanState{
		History:    []ScanResult{{Symbol: "AAPL"}},
		FoundMatch: &ScanResult{Symbol: "AAPL"},
		Config:     ScanConfig{Categories: []string{"sp500"}},
	}
	c := st.Clone()
	c.History[0].Symbol = "MSFT"
	c.FoundMatch.Symbol = "MSFT"
	c.Config.Categories[0] = "etfs"

	assert.Equal(t, "AAPL", st.History[0].Symbol)
	assert.Equal(t, "AAPL", st.FoundMatch.Symbol)
	assert.Equal(t, "sp500", st.Config.Categories[0])
}
