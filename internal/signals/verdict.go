package signals

import (
	"fmt"
	"math"
	"strings"

	"github.com/bobmcallan/tickerscope/internal/models"
)

// Signal weights
const (
	weightTrend      = 2.0
	weightRSIExtreme = 2.0
	weightRSIMild    = 1.0
	weightMACD       = 2.0
	weightBollinger  = 1.0
	weightFibonacci  = 1.0
	weightLevel      = 1.0
	weightVolume     = 1.5
	volumeSubVote    = 0.5
)

// Verdict thresholds on bullish minus bearish weight. Both scale by
// fundamentalThresholdScale when fundamentals contribute signals.
const (
	strongThreshold           = 3.0
	normalThreshold           = 1.0
	fundamentalThresholdScale = 1.5
)

// VerdictInput bundles everything the scoring engine reads
type VerdictInput struct {
	Summary           models.IndicatorSummary
	Fibonacci         models.FibonacciLevels
	SupportResistance models.SupportResistance
	Price             float64
	Fundamentals      *models.FundamentalMetrics
}

type tally struct {
	bullish float64
	bearish float64
	neutral float64
	signals []models.Signal
}

func (t *tally) add(sigType models.SignalType, weight float64, category, text string) {
	switch sigType {
	case models.SignalBullish:
		t.bullish += weight
	case models.SignalBearish:
		t.bearish += weight
	default:
		t.neutral += weight
	}
	t.signals = append(t.signals, models.Signal{Type: sigType, Weight: weight, Text: text, Category: category})
}

func (t *tally) score() float64 {
	return t.bullish - t.bearish
}

// GenerateVerdict scores technical and optional fundamental signals into a
// verdict. It is deterministic and never fails.
func GenerateVerdict(in VerdictInput) models.Verdict {
	tech := scoreTechnical(in)
	fund := &tally{}
	if in.Fundamentals != nil {
		fund = scoreFundamentals(in.Fundamentals, in.Price)
	}

	bullish := tech.bullish + fund.bullish
	bearish := tech.bearish + fund.bearish
	neutral := tech.neutral + fund.neutral

	v := models.Verdict{
		BullishTotal:     bullish,
		BearishTotal:     bearish,
		NeutralTotal:     neutral,
		TechnicalScore:   tech.score(),
		FundamentalScore: fund.score(),
		Signals:          append(append([]models.Signal{}, tech.signals...), fund.signals...),
	}

	if total := bullish + bearish + neutral; total > 0 {
		v.BullishPercent = int(math.Round(bullish / total * 100))
		v.BearishPercent = int(math.Round(bearish / total * 100))
	}

	v.Label, v.Type, v.Recommendation = classifyVerdict(bullish-bearish, in.Fundamentals != nil)
	return v
}

func classifyVerdict(diff float64, hasFundamentals bool) (string, models.VerdictType, string) {
	scale := 1.0
	if hasFundamentals {
		scale = fundamentalThresholdScale
	}
	strong := strongThreshold * scale
	normal := normalThreshold * scale

	switch {
	case diff > strong:
		if hasFundamentals {
			return "STRONG BULLISH", models.VerdictStrongBullish, "Technical and fundamental analysis both point to a strong buy signal. Solid fundamentals support the uptrend."
		}
		return "STRONG BULLISH", models.VerdictStrongBullish, "Technical indicators show a strong buy signal with an upward trend and positive momentum."
	case diff > normal:
		if hasFundamentals {
			return "BULLISH", models.VerdictBullish, "Mostly positive technical and fundamental signals. An entry could be considered."
		}
		return "BULLISH", models.VerdictBullish, "Mostly positive signals. An entry could be considered with a protective stop-loss."
	case diff < -strong:
		if hasFundamentals {
			return "STRONG BEARISH", models.VerdictStrongBearish, "Technical and fundamental analysis both point to significant weakness. Avoid new positions."
		}
		return "STRONG BEARISH", models.VerdictStrongBearish, "Technical indicators show a strong sell signal with a downward trend and negative momentum."
	case diff < -normal:
		if hasFundamentals {
			return "BEARISH", models.VerdictBearish, "Mostly negative technical and fundamental signals. Caution is advised."
		}
		return "BEARISH", models.VerdictBearish, "Mostly negative signals. Consider reducing exposure or waiting for a reversal."
	default:
		return "NEUTRAL", models.VerdictNeutral, "Signals are mixed. Waiting for a clearer direction is advisable."
	}
}

func scoreTechnical(in VerdictInput) *tally {
	t := &tally{}
	s := in.Summary
	cat := models.CategoryTechnical

	if s.ShortTrend == models.TrendBullish {
		t.add(models.SignalBullish, weightTrend, cat, "SMA 20 above SMA 50 (uptrend)")
	} else {
		t.add(models.SignalBearish, weightTrend, cat, "SMA 20 below SMA 50 (downtrend)")
	}

	scoreRSI(t, s.RSI)

	if s.MACDSignal == models.TrendBullish {
		t.add(models.SignalBullish, weightMACD, cat, "MACD above signal line (buy signal)")
	} else {
		t.add(models.SignalBearish, weightMACD, cat, "MACD below signal line (sell signal)")
	}

	switch s.BBPosition {
	case models.BandUpper:
		t.add(models.SignalBearish, weightBollinger, cat, "Price near upper Bollinger band")
	case models.BandLower:
		t.add(models.SignalBullish, weightBollinger, cat, "Price near lower Bollinger band")
	default:
		t.add(models.SignalNeutral, weightBollinger, cat, "Price within middle Bollinger range")
	}

	if nearest, ok := NearestFibLevel(in.Fibonacci.Levels, in.Price); ok {
		switch {
		case nearest.Ratio <= 0.382:
			t.add(models.SignalBearish, weightFibonacci, cat, fmt.Sprintf("Near Fibonacci %s (resistance)", nearest.Label))
		case nearest.Ratio >= 0.618:
			t.add(models.SignalBullish, weightFibonacci, cat, fmt.Sprintf("Near Fibonacci %s (support)", nearest.Label))
		}
	}

	if lvl, ok := NearbyLevel(in.SupportResistance.Support, in.Price, NearbyLevelTolerance); ok {
		t.add(models.SignalBullish, weightLevel, cat, fmt.Sprintf("Near support at %.2f", lvl.Price))
	}
	if lvl, ok := NearbyLevel(in.SupportResistance.Resistance, in.Price, NearbyLevelTolerance); ok {
		t.add(models.SignalBearish, weightLevel, cat, fmt.Sprintf("Near resistance at %.2f", lvl.Price))
	}

	scoreVolume(t, s.Volume)
	return t
}

func scoreRSI(t *tally, rsi float64) {
	cat := models.CategoryTechnical
	if math.IsNaN(rsi) {
		t.add(models.SignalBearish, weightRSIMild, cat, "RSI unavailable")
		return
	}
	switch {
	case rsi > 70:
		t.add(models.SignalBearish, weightRSIExtreme, cat, fmt.Sprintf("RSI %.1f - overbought", rsi))
	case rsi < 30:
		t.add(models.SignalBullish, weightRSIExtreme, cat, fmt.Sprintf("RSI %.1f - oversold", rsi))
	case rsi > 50:
		t.add(models.SignalBullish, weightRSIMild, cat, fmt.Sprintf("RSI %.1f - mildly bullish", rsi))
	default:
		t.add(models.SignalBearish, weightRSIMild, cat, fmt.Sprintf("RSI %.1f - mildly bearish", rsi))
	}
}

// scoreVolume folds the volume sub-votes into one composite signal
func scoreVolume(t *tally, v *models.VolumeContext) {
	if v == nil {
		return
	}

	var bull, bear float64
	var notes []string

	if v.AverageVolume > 0 {
		pct := v.Ratio * 100
		switch {
		case v.Ratio > 1.5 && v.PriceDirection == models.DirectionUp:
			bull += volumeSubVote
			notes = append(notes, fmt.Sprintf("volume %.0f%% of average (strong buying pressure)", pct))
		case v.Ratio > 1.5:
			// anything but an up close counts as selling pressure
			bear += volumeSubVote
			notes = append(notes, fmt.Sprintf("volume %.0f%% of average (strong selling pressure)", pct))
		case v.Ratio < 0.5:
			notes = append(notes, fmt.Sprintf("volume %.0f%% of average (weak conviction)", pct))
		}
	}

	switch v.OBVTrend {
	case models.OBVRising:
		bull += volumeSubVote
		notes = append(notes, "OBV rising (accumulation)")
	case models.OBVFalling:
		bear += volumeSubVote
		notes = append(notes, "OBV falling (distribution)")
	}

	if v.Confirmation != nil {
		if *v.Confirmation {
			bull += volumeSubVote
			notes = append(notes, "volume confirms the price trend")
		} else {
			bear += volumeSubVote
			notes = append(notes, "volume diverges from the price trend")
		}
	}

	if len(notes) == 0 {
		return
	}

	text := "Volume: " + strings.Join(notes, "; ")
	switch {
	case bull > bear:
		t.add(models.SignalBullish, weightVolume, models.CategoryTechnical, text)
	case bear > bull:
		t.add(models.SignalBearish, weightVolume, models.CategoryTechnical, text)
	default:
		t.add(models.SignalNeutral, weightVolume, models.CategoryTechnical, text)
	}
}
