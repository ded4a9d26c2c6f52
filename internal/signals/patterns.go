package signals

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"

	"github.com/bobmcallan/tickerscope/internal/models"
)

// DefaultFibonacciLookback is the trailing window used for retracements
const DefaultFibonacciLookback = 60

// NearbyLevelTolerance is the relative distance at which a price counts as
// touching a support or resistance cluster
const NearbyLevelTolerance = 0.03

var fibonacciRatios = []struct {
	ratio float64
	label string
}{
	{0, "0% (High)"},
	{0.236, "23.6%"},
	{0.382, "38.2%"},
	{0.5, "50%"},
	{0.618, "61.8%"},
	{0.786, "78.6%"},
	{1, "100% (Low)"},
}

// Fibonacci computes retracement levels over the last lookback bars
func Fibonacci(series models.PriceSeries, lookback int) models.FibonacciLevels {
	recent := series.Tail(lookback)
	if len(recent) == 0 {
		return models.FibonacciLevels{}
	}

	highs := make([]float64, len(recent))
	lows := make([]float64, len(recent))
	for i, p := range recent {
		highs[i] = p.High
		lows[i] = p.Low
	}
	high := floats.Max(highs)
	low := floats.Min(lows)
	diff := high - low

	levels := make([]models.FibonacciLevel, len(fibonacciRatios))
	for i, r := range fibonacciRatios {
		levels[i] = models.FibonacciLevel{
			Ratio: r.ratio,
			Price: high - diff*r.ratio,
			Label: r.label,
		}
	}
	return models.FibonacciLevels{High: high, Low: low, Levels: levels}
}

// NearestFibLevel returns the level closest to price. Ties keep the earlier
// level. ok is false when there are no levels.
func NearestFibLevel(levels []models.FibonacciLevel, price float64) (models.FibonacciLevel, bool) {
	if len(levels) == 0 {
		return models.FibonacciLevel{}, false
	}
	nearest := levels[0]
	for _, l := range levels[1:] {
		if math.Abs(l.Price-price) < math.Abs(nearest.Price-price) {
			nearest = l
		}
	}
	return nearest, true
}

type pivotParams struct {
	window     int
	tolerance  float64
	minTouches int
}

const (
	maxLevelsPerSide = 3
	minPivotSeries   = 5
)

// pivotParamsFor widens the tolerance and relaxes touches on short series
func pivotParamsFor(n int) pivotParams {
	switch {
	case n < 40:
		return pivotParams{window: 1, tolerance: 0.03, minTouches: 1}
	case n < 100:
		return pivotParams{window: 2, tolerance: 0.025, minTouches: 2}
	default:
		return pivotParams{window: 2, tolerance: 0.02, minTouches: 2}
	}
}

// SupportResistance detects pivot highs and lows and merges them into at
// most three clusters per side, ranked by touch count.
//
// A pivot joins the first existing cluster within tolerance of the
// cluster's current price, which then moves to the midpoint of the two.
// Merging is therefore order dependent.
func SupportResistance(series models.PriceSeries) models.SupportResistance {
	sr := models.SupportResistance{
		Support:    []models.LevelCluster{},
		Resistance: []models.LevelCluster{},
	}
	if len(series) < minPivotSeries {
		return sr
	}

	params := pivotParamsFor(len(series))
	var highs, lows []float64
	for i := params.window; i < len(series)-params.window; i++ {
		if isPivotHigh(series, i, params.window) {
			highs = append(highs, series[i].High)
		}
		if isPivotLow(series, i, params.window) {
			lows = append(lows, series[i].Low)
		}
	}

	sr.Support = clusterPivots(lows, models.LevelSupport, params)
	sr.Resistance = clusterPivots(highs, models.LevelResistance, params)
	return sr
}

func isPivotHigh(series models.PriceSeries, i, w int) bool {
	h := series[i].High
	for k := 1; k <= w; k++ {
		if h <= series[i-k].High || h <= series[i+k].High {
			return false
		}
	}
	return true
}

func isPivotLow(series models.PriceSeries, i, w int) bool {
	l := series[i].Low
	for k := 1; k <= w; k++ {
		if l >= series[i-k].Low || l >= series[i+k].Low {
			return false
		}
	}
	return true
}

func clusterPivots(prices []float64, levelType string, params pivotParams) []models.LevelCluster {
	var clusters []models.LevelCluster
	for _, p := range prices {
		merged := false
		for i := range clusters {
			c := &clusters[i]
			if math.Abs(c.Price-p)/c.Price < params.tolerance {
				c.TouchCount++
				c.Price = (c.Price + p) / 2
				merged = true
				break
			}
		}
		if !merged {
			clusters = append(clusters, models.LevelCluster{Price: p, TouchCount: 1, Type: levelType})
		}
	}

	out := make([]models.LevelCluster, 0, len(clusters))
	for _, c := range clusters {
		if c.TouchCount >= params.minTouches {
			out = append(out, c)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].TouchCount > out[j].TouchCount
	})
	if len(out) > maxLevelsPerSide {
		out = out[:maxLevelsPerSide]
	}
	return out
}

// NearbyLevel returns the first cluster within tolerance of price
func NearbyLevel(levels []models.LevelCluster, price, tolerance float64) (models.LevelCluster, bool) {
	if price == 0 {
		return models.LevelCluster{}, false
	}
	for _, l := range levels {
		if math.Abs(l.Price-price)/price < tolerance {
			return l, true
		}
	}
	return models.LevelCluster{}, false
}
