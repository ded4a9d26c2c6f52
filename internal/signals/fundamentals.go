package signals

import (
	"fmt"
	"strings"

	"github.com/bobmcallan/tickerscope/internal/models"
)

const (
	weightPEG           = 2.0
	weightPE            = 1.0
	weightROE           = 1.5
	weightDebtToEquity  = 1.0
	weightCurrentRatio  = 1.0
	weightGrowth        = 1.5
	weightProfitMargin  = 1.0
	weightAnalystTarget = 1.0
)

// scoreFundamentals evaluates each present metric. Absent metrics fire no
// signal.
func scoreFundamentals(f *models.FundamentalMetrics, price float64) *tally {
	t := &tally{}
	if f == nil {
		return t
	}
	cat := models.CategoryFundamental

	if f.PEGRatio != nil {
		peg := *f.PEGRatio
		switch {
		case peg < 0:
			t.add(models.SignalBearish, weightPEG, cat, fmt.Sprintf("PEG %.2f - negative earnings growth", peg))
		case peg < 1:
			t.add(models.SignalBullish, weightPEG, cat, fmt.Sprintf("PEG %.2f - undervalued relative to growth", peg))
		case peg <= 2:
			t.add(models.SignalNeutral, weightPEG, cat, fmt.Sprintf("PEG %.2f - fairly valued", peg))
		default:
			t.add(models.SignalBearish, weightPEG, cat, fmt.Sprintf("PEG %.2f - expensive relative to growth", peg))
		}
	}

	if f.PERatio != nil {
		pe := *f.PERatio
		switch {
		case pe < 0:
			t.add(models.SignalBearish, weightPE, cat, fmt.Sprintf("P/E %.1f - company is loss-making", pe))
		case pe > 50:
			t.add(models.SignalBearish, weightPE, cat, fmt.Sprintf("P/E %.1f - very high valuation", pe))
		case f.ForwardPE != nil && *f.ForwardPE > 0 && *f.ForwardPE < pe*0.8:
			t.add(models.SignalBullish, weightPE, cat, fmt.Sprintf("P/E %.1f, forward P/E %.1f - earnings expected to grow", pe, *f.ForwardPE))
		case pe < 15:
			t.add(models.SignalBullish, weightPE, cat, fmt.Sprintf("P/E %.1f - attractive valuation", pe))
		case pe <= 25:
			t.add(models.SignalNeutral, weightPE, cat, fmt.Sprintf("P/E %.1f - moderate valuation", pe))
		default:
			t.add(models.SignalBearish, weightPE, cat, fmt.Sprintf("P/E %.1f - elevated valuation", pe))
		}
	}

	if f.ReturnOnEquity != nil {
		roe := *f.ReturnOnEquity * 100
		switch {
		case roe > 20:
			t.add(models.SignalBullish, weightROE, cat, fmt.Sprintf("ROE %.1f%% - excellent profitability", roe))
		case roe > 15:
			t.add(models.SignalBullish, weightROE, cat, fmt.Sprintf("ROE %.1f%% - good profitability", roe))
		case roe > 10:
			t.add(models.SignalNeutral, weightROE, cat, fmt.Sprintf("ROE %.1f%% - average profitability", roe))
		default:
			t.add(models.SignalBearish, weightROE, cat, fmt.Sprintf("ROE %.1f%% - weak profitability", roe))
		}
	}

	if f.DebtToEquity != nil {
		de := *f.DebtToEquity
		switch {
		case de < 0:
			t.add(models.SignalBearish, weightDebtToEquity, cat, fmt.Sprintf("Debt/Equity %.2f - negative equity", de))
		case de < 0.5:
			t.add(models.SignalBullish, weightDebtToEquity, cat, fmt.Sprintf("Debt/Equity %.2f - very low leverage", de))
		case de < 1:
			t.add(models.SignalBullish, weightDebtToEquity, cat, fmt.Sprintf("Debt/Equity %.2f - healthy leverage", de))
		case de < 2:
			t.add(models.SignalNeutral, weightDebtToEquity, cat, fmt.Sprintf("Debt/Equity %.2f - moderate leverage", de))
		default:
			t.add(models.SignalBearish, weightDebtToEquity, cat, fmt.Sprintf("Debt/Equity %.2f - high leverage", de))
		}
	}

	if f.CurrentRatio != nil {
		cr := *f.CurrentRatio
		switch {
		case cr > 2:
			t.add(models.SignalBullish, weightCurrentRatio, cat, fmt.Sprintf("Current ratio %.2f - very strong liquidity", cr))
		case cr > 1.5:
			t.add(models.SignalBullish, weightCurrentRatio, cat, fmt.Sprintf("Current ratio %.2f - good liquidity", cr))
		case cr >= 1:
			t.add(models.SignalNeutral, weightCurrentRatio, cat, fmt.Sprintf("Current ratio %.2f - adequate liquidity", cr))
		default:
			t.add(models.SignalBearish, weightCurrentRatio, cat, fmt.Sprintf("Current ratio %.2f - liquidity risk", cr))
		}
	}

	growth, label := f.EarningsGrowth, "Earnings growth"
	if growth == nil {
		growth, label = f.RevenueGrowth, "Revenue growth"
	}
	if growth != nil {
		g := *growth * 100
		switch {
		case g > 25:
			t.add(models.SignalBullish, weightGrowth, cat, fmt.Sprintf("%s %.1f%% - strong growth", label, g))
		case g > 10:
			t.add(models.SignalBullish, weightGrowth, cat, fmt.Sprintf("%s %.1f%% - solid growth", label, g))
		case g > 0:
			t.add(models.SignalNeutral, weightGrowth, cat, fmt.Sprintf("%s %.1f%% - modest growth", label, g))
		default:
			t.add(models.SignalBearish, weightGrowth, cat, fmt.Sprintf("%s %.1f%% - shrinking", label, g))
		}
	}

	if f.ProfitMargin != nil {
		pm := *f.ProfitMargin * 100
		switch {
		case pm > 20:
			t.add(models.SignalBullish, weightProfitMargin, cat, fmt.Sprintf("Profit margin %.1f%% - excellent", pm))
		case pm > 10:
			t.add(models.SignalBullish, weightProfitMargin, cat, fmt.Sprintf("Profit margin %.1f%% - good", pm))
		case pm > 5:
			t.add(models.SignalNeutral, weightProfitMargin, cat, fmt.Sprintf("Profit margin %.1f%% - average", pm))
		case pm > 0:
			t.add(models.SignalBearish, weightProfitMargin, cat, fmt.Sprintf("Profit margin %.1f%% - thin", pm))
		default:
			t.add(models.SignalBearish, weightProfitMargin, cat, fmt.Sprintf("Profit margin %.1f%% - unprofitable", pm))
		}
	}

	if f.TargetMeanPrice != nil && price > 0 {
		upside := (*f.TargetMeanPrice - price) / price * 100
		rec := ""
		if f.RecommendationKey != "" {
			rec = fmt.Sprintf(" (analysts: %s)", strings.ReplaceAll(f.RecommendationKey, "_", " "))
		}
		switch {
		case upside > 20:
			t.add(models.SignalBullish, weightAnalystTarget, cat, fmt.Sprintf("Analyst target %.2f - %.1f%% upside%s", *f.TargetMeanPrice, upside, rec))
		case upside > 10:
			t.add(models.SignalBullish, weightAnalystTarget, cat, fmt.Sprintf("Analyst target %.2f - %.1f%% upside%s", *f.TargetMeanPrice, upside, rec))
		case upside > -10:
			t.add(models.SignalNeutral, weightAnalystTarget, cat, fmt.Sprintf("Analyst target %.2f - %.1f%% from current price%s", *f.TargetMeanPrice, upside, rec))
		default:
			t.add(models.SignalBearish, weightAnalystTarget, cat, fmt.Sprintf("Analyst target %.2f - %.1f%% downside%s", *f.TargetMeanPrice, upside, rec))
		}
	}

	return t
}
