// Package signals provides technical indicator calculations, chart pattern
// detection and verdict scoring over price series.
//
// Every indicator returns series aligned with its input. Warm-up positions
// are undefined (NaN) and no function panics on a well-formed series.
package signals

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/bobmcallan/tickerscope/internal/models"
)

// Default indicator periods
const (
	DefaultRSIPeriod         = 14
	DefaultBollingerPeriod   = 20
	DefaultBollingerK        = 2.0
	DefaultATRPeriod         = 14
	DefaultStochasticKPeriod = 14
	DefaultStochasticDPeriod = 3
	DefaultADXPeriod         = 14

	MACDFastPeriod = 12
	MACDSlowPeriod = 26
	// MACD signal smoothing uses 2/(9+1) seeded with the first MACD value
	// rather than a 9-bar warm-up average.
	MACDSignalPeriod = 9
)

// SMA calculates the simple moving average of closes.
// Undefined for indices below period-1.
func SMA(series models.PriceSeries, period int) models.Series {
	return smaOf(series.Closes(), period)
}

func smaOf(values []float64, period int) models.Series {
	out := models.NewSeries(len(values))
	if period <= 0 {
		return out
	}
	for i := period - 1; i < len(values); i++ {
		out[i] = stat.Mean(values[i-period+1:i+1], nil)
	}
	return out
}

// EMA calculates the exponential moving average of closes, seeded with the
// first close. It has no warm-up.
func EMA(series models.PriceSeries, period int) models.Series {
	return emaOf(series.Closes(), period)
}

func emaOf(values []float64, period int) models.Series {
	out := models.NewSeries(len(values))
	if period <= 0 || len(values) == 0 {
		return out
	}
	multiplier := 2.0 / float64(period+1)
	out[0] = values[0]
	for i := 1; i < len(values); i++ {
		out[i] = values[i]*multiplier + out[i-1]*(1-multiplier)
	}
	return out
}

// RSI calculates the Relative Strength Index. The first period changes are
// averaged, then Wilder smoothing applies. Undefined for indices below period.
func RSI(series models.PriceSeries, period int) models.Series {
	n := len(series)
	out := models.NewSeries(n)
	if period <= 0 {
		return out
	}

	var avgGain, avgLoss float64
	for i := 1; i < n; i++ {
		change := series[i].Close - series[i-1].Close
		gain := math.Max(change, 0)
		loss := math.Max(-change, 0)

		switch {
		case i < period:
			avgGain += gain
			avgLoss += loss
			continue
		case i == period:
			avgGain = (avgGain + gain) / float64(period)
			avgLoss = (avgLoss + loss) / float64(period)
		default:
			avgGain = (avgGain*float64(period-1) + gain) / float64(period)
			avgLoss = (avgLoss*float64(period-1) + loss) / float64(period)
		}

		rs := 100.0
		if avgLoss != 0 {
			rs = avgGain / avgLoss
		}
		out[i] = 100 - 100/(1+rs)
	}
	return out
}

// MACDResult holds the three aligned MACD series
type MACDResult struct {
	Line      models.Series
	Signal    models.Series
	Histogram models.Series
}

// MACD calculates EMA(12) - EMA(26), its signal line and histogram
func MACD(series models.PriceSeries) MACDResult {
	n := len(series)
	fast := EMA(series, MACDFastPeriod)
	slow := EMA(series, MACDSlowPeriod)

	line := models.NewSeries(n)
	for i := 0; i < n; i++ {
		line[i] = fast[i] - slow[i]
	}

	signal := emaOf(line, MACDSignalPeriod)

	hist := models.NewSeries(n)
	for i := 0; i < n; i++ {
		hist[i] = line[i] - signal[i]
	}

	return MACDResult{Line: line, Signal: signal, Histogram: hist}
}

// BollingerBands holds the three aligned band series
type BollingerBands struct {
	Upper  models.Series
	Middle models.Series
	Lower  models.Series
}

// Bollinger calculates SMA(period) ± k population standard deviations
func Bollinger(series models.PriceSeries, period int, k float64) BollingerBands {
	n := len(series)
	bands := BollingerBands{
		Upper:  models.NewSeries(n),
		Middle: models.NewSeries(n),
		Lower:  models.NewSeries(n),
	}
	if period <= 0 {
		return bands
	}

	closes := series.Closes()
	for i := period - 1; i < n; i++ {
		window := closes[i-period+1 : i+1]
		mean, variance := stat.PopMeanVariance(window, nil)
		std := math.Sqrt(variance)
		bands.Middle[i] = mean
		bands.Upper[i] = mean + k*std
		bands.Lower[i] = mean - k*std
	}
	return bands
}

// TrueRange returns the true range of bar i. Bar 0 has no previous close and
// uses its own high-low spread.
func TrueRange(series models.PriceSeries, i int) float64 {
	bar := series[i]
	if i == 0 {
		return bar.High - bar.Low
	}
	prevClose := series[i-1].Close
	return math.Max(bar.High-bar.Low, math.Max(math.Abs(bar.High-prevClose), math.Abs(bar.Low-prevClose)))
}

// ATR calculates the Average True Range. The first value at index period is
// the mean of the preceding true ranges; Wilder smoothing follows.
func ATR(series models.PriceSeries, period int) models.Series {
	n := len(series)
	out := models.NewSeries(n)
	if period <= 0 {
		return out
	}

	var atr float64
	for i := 1; i < n; i++ {
		tr := TrueRange(series, i)
		switch {
		case i < period:
			atr += tr
		case i == period:
			atr = (atr + tr) / float64(period)
			out[i] = atr
		default:
			atr = (atr*float64(period-1) + tr) / float64(period)
			out[i] = atr
		}
	}
	return out
}

// StochasticResult holds %K and %D
type StochasticResult struct {
	K models.Series
	D models.Series
}

// Stochastic calculates the stochastic oscillator. %K is 50 when the window
// high equals the window low. %D is the mean of the last dPeriod %K values.
func Stochastic(series models.PriceSeries, kPeriod, dPeriod int) StochasticResult {
	n := len(series)
	res := StochasticResult{K: models.NewSeries(n), D: models.NewSeries(n)}
	if kPeriod <= 0 || dPeriod <= 0 {
		return res
	}

	highs := make([]float64, n)
	lows := make([]float64, n)
	for i, p := range series {
		highs[i] = p.High
		lows[i] = p.Low
	}

	for i := kPeriod - 1; i < n; i++ {
		high := floats.Max(highs[i-kPeriod+1 : i+1])
		low := floats.Min(lows[i-kPeriod+1 : i+1])

		k := 50.0
		if high != low {
			k = (series[i].Close - low) / (high - low) * 100
		}
		res.K[i] = k

		if i >= kPeriod+dPeriod-2 {
			res.D[i] = stat.Mean(res.K[i-dPeriod+1:i+1], nil)
		}
	}
	return res
}

// ADXResult holds ADX and the two directional indicators
type ADXResult struct {
	ADX     models.Series
	PlusDI  models.Series
	MinusDI models.Series
}

// ADX calculates the Average Directional Index. The directional indicators
// are defined from index period, ADX from index 2*period-1.
func ADX(series models.PriceSeries, period int) ADXResult {
	n := len(series)
	res := ADXResult{
		ADX:     models.NewSeries(n),
		PlusDI:  models.NewSeries(n),
		MinusDI: models.NewSeries(n),
	}
	if period <= 0 {
		return res
	}

	plusDM := make([]float64, n)
	minusDM := make([]float64, n)
	tr := make([]float64, n)
	for i := 1; i < n; i++ {
		highDiff := series[i].High - series[i-1].High
		lowDiff := series[i-1].Low - series[i].Low
		if highDiff > lowDiff && highDiff > 0 {
			plusDM[i] = highDiff
		}
		if lowDiff > highDiff && lowDiff > 0 {
			minusDM[i] = lowDiff
		}
		tr[i] = TrueRange(series, i)
	}

	p := float64(period)
	dx := make([]float64, n)
	var smoothPlus, smoothMinus, smoothTR, dxSum float64
	for i := 0; i < n; i++ {
		if i < period {
			smoothPlus += plusDM[i]
			smoothMinus += minusDM[i]
			smoothTR += tr[i]
			continue
		}

		smoothPlus = smoothPlus - smoothPlus/p + plusDM[i]
		smoothMinus = smoothMinus - smoothMinus/p + minusDM[i]
		smoothTR = smoothTR - smoothTR/p + tr[i]

		var pdi, mdi float64
		if smoothTR != 0 {
			pdi = smoothPlus / smoothTR * 100
			mdi = smoothMinus / smoothTR * 100
		}
		res.PlusDI[i] = pdi
		res.MinusDI[i] = mdi

		if pdi+mdi != 0 {
			dx[i] = math.Abs(pdi-mdi) / (pdi + mdi) * 100
		}

		switch {
		case i < 2*period-1:
			dxSum += dx[i]
		case i == 2*period-1:
			res.ADX[i] = (dxSum + dx[i]) / p
		default:
			res.ADX[i] = (res.ADX[i-1]*(p-1) + dx[i]) / p
		}
	}
	return res
}

// OBV calculates On-Balance Volume starting from 0 at the first bar
func OBV(series models.PriceSeries) models.Series {
	out := models.NewSeries(len(series))
	if len(series) == 0 {
		return out
	}
	out[0] = 0
	for i := 1; i < len(series); i++ {
		switch {
		case series[i].Close > series[i-1].Close:
			out[i] = out[i-1] + float64(series[i].Volume)
		case series[i].Close < series[i-1].Close:
			out[i] = out[i-1] - float64(series[i].Volume)
		default:
			out[i] = out[i-1]
		}
	}
	return out
}
