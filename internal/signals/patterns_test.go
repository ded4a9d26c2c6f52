package signals

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bobmcallan/tickerscope/internal/models"
)

func TestFibonacci_LevelsDescend(t *testing.T) {
	fib := Fibonacci(wavySeries(90), DefaultFibonacciLookback)

	require.Len(t, fib.Levels, 7)
	assert.Greater(t, fib.High, fib.Low)
	assert.Equal(t, fib.High, fib.Levels[0].Price)
	assert.InDelta(t, fib.Low, fib.Levels[6].Price, 1e-9)
	assert.Equal(t, "0% (High)", fib.Levels[0].Label)
	assert.Equal(t, "100% (Low)", fib.Levels[6].Label)

	for i := 1; i < len(fib.Levels); i++ {
		assert.Greater(t, fib.Levels[i].Ratio, fib.Levels[i-1].Ratio)
		assert.Less(t, fib.Levels[i].Price, fib.Levels[i-1].Price)
	}
}

func TestFibonacci_UsesTrailingWindow(t *testing.T) {
	closes := make([]float64, 100)
	for i := range closes {
		closes[i] = 100
	}
	closes[10] = 500 // outside the last 60 bars
	fib := Fibonacci(seriesFromCloses(closes, 1), 60)

	assert.Equal(t, 101.0, fib.High)
	assert.Equal(t, 99.0, fib.Low)
}

func TestNearestFibLevel(t *testing.T) {
	levels := []models.FibonacciLevel{
		{Ratio: 0, Price: 200},
		{Ratio: 0.5, Price: 150},
		{Ratio: 1, Price: 100},
	}

	l, ok := NearestFibLevel(levels, 160)
	require.True(t, ok)
	assert.Equal(t, 0.5, l.Ratio)

	// equidistant from 200 and 150: the earlier level wins
	l, _ = NearestFibLevel(levels, 175)
	assert.Equal(t, 0.0, l.Ratio)

	_, ok = NearestFibLevel(nil, 100)
	assert.False(t, ok)
}

func TestSupportResistance_TooShort(t *testing.T) {
	sr := SupportResistance(seriesFromCloses([]float64{1, 2, 3, 4}, 0.1))
	assert.Empty(t, sr.Support)
	assert.Empty(t, sr.Resistance)
}

func TestSupportResistance_MonotonicSeriesHasNoPivots(t *testing.T) {
	sr := SupportResistance(risingSeries(60))
	assert.Empty(t, sr.Resistance)
	assert.Empty(t, sr.Support)
}

func TestSupportResistance_ShortSeriesSingleTouch(t *testing.T) {
	// w=1 below 40 bars: every strict local extreme is a pivot
	closes := []float64{100, 105, 100, 95, 100, 105.5, 100, 95.5, 100, 104.8, 100, 80, 100}
	sr := SupportResistance(seriesFromCloses(closes, 0.5))

	require.NotEmpty(t, sr.Resistance)
	assert.Equal(t, models.LevelResistance, sr.Resistance[0].Type)
	assert.Equal(t, 3, sr.Resistance[0].TouchCount)

	require.Len(t, sr.Support, 2)
	assert.Equal(t, 2, sr.Support[0].TouchCount)
	assert.Equal(t, 1, sr.Support[1].TouchCount)
	assert.InDelta(t, 79.5, sr.Support[1].Price, 1e-9)
}

func TestSupportResistance_AtMostThreePerSide(t *testing.T) {
	// distinct peaks far apart never merge
	var closes []float64
	for _, peak := range []float64{110, 130, 150, 170, 190} {
		closes = append(closes, 100, peak, 100)
	}
	sr := SupportResistance(seriesFromCloses(closes, 0.5))
	assert.Len(t, sr.Resistance, 3)
}

func TestClusterPivots_SequentialMidpointMerge(t *testing.T) {
	params := pivotParams{window: 1, tolerance: 0.03, minTouches: 1}
	clusters := clusterPivots([]float64{100, 102, 104}, models.LevelSupport, params)

	require.Len(t, clusters, 1)
	assert.Equal(t, 3, clusters[0].TouchCount)
	// (100+102)/2 = 101, then (101+104)/2 = 102.5
	assert.InDelta(t, 102.5, clusters[0].Price, 1e-9)
}

func TestClusterPivots_MinTouchesAndRanking(t *testing.T) {
	params := pivotParams{window: 2, tolerance: 0.02, minTouches: 2}
	clusters := clusterPivots([]float64{50, 100, 100.5, 50.2, 100.2, 200}, models.LevelResistance, params)

	require.Len(t, clusters, 2)
	assert.Equal(t, 3, clusters[0].TouchCount)
	assert.Equal(t, 2, clusters[1].TouchCount)
}

func TestNearbyLevel(t *testing.T) {
	levels := []models.LevelCluster{{Price: 90}, {Price: 101}, {Price: 102}}

	l, ok := NearbyLevel(levels, 100, NearbyLevelTolerance)
	require.True(t, ok)
	assert.Equal(t, 101.0, l.Price)

	_, ok = NearbyLevel(levels, 150, NearbyLevelTolerance)
	assert.False(t, ok)

	_, ok = NearbyLevel(levels, 0, NearbyLevelTolerance)
	assert.False(t, ok)
}
