// Package analysis runs the single-symbol indicator, pattern and verdict
// pipeline
package analysis

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/bobmcallan/tickerscope/internal/common"
	"github.com/bobmcallan/tickerscope/internal/interfaces"
	"github.com/bobmcallan/tickerscope/internal/models"
	"github.com/bobmcallan/tickerscope/internal/signals"
)

// Compile-time interface check
var _ interfaces.AnalysisService = (*Service)(nil)

// Service implements AnalysisService
type Service struct {
	data         interfaces.DataProvider
	fundamentals interfaces.FundamentalsProvider
	logger       *common.Logger
	tracer       trace.Tracer
	now          func() time.Time
}

// NewService creates a new analysis service. fundamentals may be nil, in
// which case verdicts are technical only.
func NewService(data interfaces.DataProvider, fundamentals interfaces.FundamentalsProvider, logger *common.Logger) *Service {
	if logger == nil {
		logger = common.NewSilentLogger()
	}
	return &Service{
		data:         data,
		fundamentals: fundamentals,
		logger:       logger,
		tracer:       otel.Tracer("github.com/bobmcallan/tickerscope/internal/services/analysis"),
		now:          time.Now,
	}
}

// Analyze fetches the series, computes indicators and patterns, and scores
// a verdict. An empty period means 6M and an empty interval means 1d.
func (s *Service) Analyze(ctx context.Context, symbol, period, interval string) (*models.Analysis, error) {
	symbol = models.NormalizeSymbol(symbol)
	if symbol == "" {
		return nil, models.ErrEmptySymbol
	}
	if period == "" {
		period = models.Period6M
	}
	period, err := models.NormalizePeriod(period)
	if err != nil {
		return nil, err
	}
	if interval == "" {
		interval = models.Interval1D
	}

	ctx, span := s.tracer.Start(ctx, "analysis.analyze", trace.WithAttributes(
		attribute.String("symbol", symbol),
		attribute.String("period", period),
	))
	defer span.End()

	resp, err := s.data.FetchSeries(ctx, symbol, period, interval)
	if err != nil {
		return nil, err
	}
	if len(resp.Data) < models.MinHistoryPoints {
		return nil, &models.InsufficientHistoryError{Symbol: symbol, Points: len(resp.Data), Required: models.MinHistoryPoints}
	}

	series := resp.Data
	snap := signals.ComputeSnapshot(series)
	summary := signals.Summarize(series, snap, true)
	fib := signals.Fibonacci(series, signals.DefaultFibonacciLookback)
	sr := signals.SupportResistance(series)
	fundamentals := s.fetchFundamentals(ctx, symbol)

	verdict := signals.GenerateVerdict(signals.VerdictInput{
		Summary:           summary,
		Fibonacci:         fib,
		SupportResistance: sr,
		Price:             summary.LastPrice,
		Fundamentals:      fundamentals,
	})

	span.SetAttributes(
		attribute.String("verdict", string(verdict.Type)),
		attribute.Int("bullish_percent", verdict.BullishPercent),
	)
	s.logger.Debug().
		Str("symbol", symbol).
		Str("verdict", verdict.Label).
		Int("bullish", verdict.BullishPercent).
		Int("bearish", verdict.BearishPercent).
		Msg("Analysis complete")

	return &models.Analysis{
		Symbol:            symbol,
		Period:            period,
		Interval:          interval,
		Currency:          resp.Currency,
		Exchange:          resp.Exchange,
		Series:            series,
		Snapshot:          snap,
		Summary:           summary,
		Fibonacci:         fib,
		SupportResistance: sr,
		Fundamentals:      fundamentals,
		Verdict:           verdict,
		GeneratedAt:       s.now(),
	}, nil
}

// fetchFundamentals treats any provider failure as "no fundamentals"
func (s *Service) fetchFundamentals(ctx context.Context, symbol string) *models.FundamentalMetrics {
	if s.fundamentals == nil {
		return nil
	}
	f, err := s.fundamentals.FetchFundamentals(ctx, symbol)
	if err != nil {
		s.logger.Warn().Err(err).Str("symbol", symbol).Msg("Fundamentals unavailable, scoring technicals only")
		return nil
	}
	return f
}

// ScanResult builds the compact history record for an analysis
func ScanResult(a *models.Analysis) models.ScanResult {
	return models.ScanResult{
		Symbol:         a.Symbol,
		Price:          a.Summary.LastPrice,
		PriceChange:    a.Summary.PriceChange,
		BullishPercent: a.Verdict.BullishPercent,
		BearishPercent: a.Verdict.BearishPercent,
		Verdict:        a.Verdict.Label,
		VerdictType:    a.Verdict.Type,
		Timestamp:      a.GeneratedAt,
	}
}
