package signals

import (
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/bobmcallan/tickerscope/internal/models"
)

const (
	volumeAveragePeriod = 20
	obvTrendBars        = 5
	bandProximity       = 0.2
)

// ComputeSnapshot runs every indicator over the series with default periods
func ComputeSnapshot(series models.PriceSeries) *models.IndicatorSnapshot {
	macd := MACD(series)
	bb := Bollinger(series, DefaultBollingerPeriod, DefaultBollingerK)
	stoch := Stochastic(series, DefaultStochasticKPeriod, DefaultStochasticDPeriod)
	adx := ADX(series, DefaultADXPeriod)

	return &models.IndicatorSnapshot{
		SMA20:      SMA(series, 20),
		SMA50:      SMA(series, 50),
		RSI:        RSI(series, DefaultRSIPeriod),
		MACDLine:   macd.Line,
		SignalLine: macd.Signal,
		Histogram:  macd.Histogram,
		BBUpper:    bb.Upper,
		BBMiddle:   bb.Middle,
		BBLower:    bb.Lower,
		ATR:        ATR(series, DefaultATRPeriod),
		StochK:     stoch.K,
		StochD:     stoch.D,
		ADX:        adx.ADX,
		PlusDI:     adx.PlusDI,
		MinusDI:    adx.MinusDI,
		OBV:        OBV(series),
	}
}

// Summarize extracts the latest-bar view used for scoring. withVolume adds
// the volume context.
func Summarize(series models.PriceSeries, snap *models.IndicatorSnapshot, withVolume bool) models.IndicatorSummary {
	n := len(series)
	if n == 0 || snap == nil {
		return models.IndicatorSummary{
			LastPrice: math.NaN(), PriceChange: math.NaN(), SMA20: math.NaN(), SMA50: math.NaN(),
			RSI: math.NaN(), MACD: math.NaN(), Signal: math.NaN(), Histogram: math.NaN(),
			BBUpper: math.NaN(), BBMiddle: math.NaN(), BBLower: math.NaN(), ATR: math.NaN(),
			StochK: math.NaN(), StochD: math.NaN(), ADX: math.NaN(),
			ShortTrend: models.TrendBearish, RSISignal: models.RSINeutral,
			MACDSignal: models.TrendBearish, BBPosition: models.BandMiddle,
		}
	}

	last := n - 1
	sum := models.IndicatorSummary{
		LastPrice: series[last].Close,
		SMA20:     snap.SMA20[last],
		SMA50:     snap.SMA50[last],
		RSI:       snap.RSI[last],
		MACD:      snap.MACDLine[last],
		Signal:    snap.SignalLine[last],
		Histogram: snap.Histogram[last],
		BBUpper:   snap.BBUpper[last],
		BBMiddle:  snap.BBMiddle[last],
		BBLower:   snap.BBLower[last],
		ATR:       snap.ATR[last],
		StochK:    snap.StochK[last],
		StochD:    snap.StochD[last],
		ADX:       snap.ADX[last],
	}

	sum.PriceChange = 0
	if n > 1 && series[last-1].Close != 0 {
		prev := series[last-1].Close
		sum.PriceChange = (sum.LastPrice - prev) / prev * 100
	}

	// NaN comparisons are false, so an undefined SMA50 reads as bearish
	sum.ShortTrend = models.TrendBearish
	if sum.SMA20 > sum.SMA50 {
		sum.ShortTrend = models.TrendBullish
	}

	sum.RSISignal = ClassifyRSI(sum.RSI)

	sum.MACDSignal = models.TrendBearish
	if sum.Histogram > 0 {
		sum.MACDSignal = models.TrendBullish
	}

	sum.BBPosition = BandPosition(sum.LastPrice, sum.BBUpper, sum.BBMiddle, sum.BBLower)

	if withVolume {
		sum.Volume = VolumeAnalysis(series, snap.OBV)
	}
	return sum
}

// ClassifyRSI maps an RSI value to overbought, oversold or neutral
func ClassifyRSI(rsi float64) string {
	switch {
	case rsi > 70:
		return models.RSIOverbought
	case rsi < 30:
		return models.RSIOversold
	default:
		return models.RSINeutral
	}
}

// BandPosition reports whether price sits in the outer fifth of the
// Bollinger envelope on either side
func BandPosition(price, upper, middle, lower float64) string {
	switch {
	case price > upper-(upper-middle)*bandProximity:
		return models.BandUpper
	case price < lower+(middle-lower)*bandProximity:
		return models.BandLower
	default:
		return models.BandMiddle
	}
}

// VolumeAnalysis compares the last bar's volume with its 20-bar average and
// reads the direction of price and OBV. Returns nil for series shorter than
// two bars.
func VolumeAnalysis(series models.PriceSeries, obv models.Series) *models.VolumeContext {
	n := len(series)
	if n < 2 || len(obv) != n {
		return nil
	}
	last := n - 1

	window := series.Tail(volumeAveragePeriod)
	vols := make([]float64, len(window))
	for i, p := range window {
		vols[i] = float64(p.Volume)
	}

	ctx := &models.VolumeContext{
		CurrentVolume:  float64(series[last].Volume),
		AverageVolume:  stat.Mean(vols, nil),
		PriceDirection: direction(series[last].Close - series[last-1].Close),
	}
	if ctx.AverageVolume > 0 {
		ctx.Ratio = ctx.CurrentVolume / ctx.AverageVolume
	}

	back := last - obvTrendBars
	if back < 0 {
		back = 0
	}
	switch obvDelta := obv[last] - obv[back]; {
	case obvDelta > 0:
		ctx.OBVTrend = models.OBVRising
	case obvDelta < 0:
		ctx.OBVTrend = models.OBVFalling
	default:
		ctx.OBVTrend = models.OBVFlat
	}

	trend := direction(series[last].Close - series[back].Close)
	if trend != models.DirectionFlat && ctx.OBVTrend != models.OBVFlat {
		confirmed := (trend == models.DirectionUp) == (ctx.OBVTrend == models.OBVRising)
		ctx.Confirmation = &confirmed
	}
	return ctx
}

func direction(delta float64) string {
	switch {
	case delta > 0:
		return models.DirectionUp
	case delta < 0:
		return models.DirectionDown
	default:
		return models.DirectionFlat
	}
}
