// Package batch analyses every watchlist symbol in order and publishes
// results as they arrive
package batch

import (
	"context"
	"fmt"
	"runtime/debug"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/bobmcallan/tickerscope/internal/common"
	"github.com/bobmcallan/tickerscope/internal/interfaces"
	"github.com/bobmcallan/tickerscope/internal/models"
	"github.com/bobmcallan/tickerscope/internal/services/analysis"
)

// EventType is the event name used for published batch snapshots
const EventType = "batch"

// Compile-time interface check
var _ interfaces.BatchService = (*Service)(nil)

// Service implements BatchService
type Service struct {
	analysis  interfaces.AnalysisService
	watchlist interfaces.WatchlistService
	publisher interfaces.EventPublisher
	logger    *common.Logger

	period string
	delay  time.Duration
	sleep  func(ctx context.Context, d time.Duration) error
	now    func() time.Time
	newID  func() string

	mu      sync.Mutex
	state   models.BatchState
	running bool
	abort   bool

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewService creates a batch service. watchlist and publisher may be nil.
func NewService(
	analysisSvc interfaces.AnalysisService,
	watchlist interfaces.WatchlistService,
	publisher interfaces.EventPublisher,
	config common.BatchConfig,
	logger *common.Logger,
) *Service {
	if logger == nil {
		logger = common.NewSilentLogger()
	}

	period, err := models.NormalizePeriod(config.Period)
	if err != nil {
		period = models.Period1Y
	}

	s := &Service{
		analysis:  analysisSvc,
		watchlist: watchlist,
		publisher: publisher,
		logger:    logger,
		period:    period,
		delay:     config.GetDelay(),
		sleep:     common.SleepContext,
		now:       time.Now,
		newID:     func() string { return uuid.New().String() },
		state: models.BatchState{
			Status:  models.BatchIdle,
			Period:  period,
			Results: map[string]models.BatchResult{},
		},
	}
	s.ctx, s.cancel = context.WithCancel(context.Background())
	return s
}

// State returns a snapshot of the batch state
func (s *Service) State() models.BatchState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Clone()
}

// Running reports whether a batch is in progress
func (s *Service) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

// Start launches a batch over symbols in the background
func (s *Service) Start(symbols []string) (models.BatchState, error) {
	symbols, snap, err := s.begin(symbols)
	if err != nil {
		return snap, err
	}
	if len(symbols) == 0 {
		return s.State(), nil
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer func() {
			if r := recover(); r != nil {
				s.logger.Error().
					Str("panic", fmt.Sprintf("%v", r)).
					Str("stack", string(debug.Stack())).
					Msg("Recovered from panic in batch loop")
				s.mu.Lock()
				s.running = false
				s.state.Status = models.BatchAborted
				s.mu.Unlock()
			}
		}()
		s.loop(s.ctx, symbols)
	}()
	return snap, nil
}

// StartWatchlist launches a batch over the current watchlist
func (s *Service) StartWatchlist(ctx context.Context) (models.BatchState, error) {
	symbols, err := s.watchlistSymbols(ctx)
	if err != nil {
		return s.State(), err
	}
	return s.Start(symbols)
}

// Run executes a batch synchronously and returns the final state
func (s *Service) Run(ctx context.Context, symbols []string) (models.BatchState, error) {
	symbols, snap, err := s.begin(symbols)
	if err != nil {
		return snap, err
	}
	if len(symbols) > 0 {
		s.loop(ctx, symbols)
	}
	return s.State(), nil
}

// RunWatchlist executes a batch over the current watchlist synchronously
func (s *Service) RunWatchlist(ctx context.Context) (models.BatchState, error) {
	symbols, err := s.watchlistSymbols(ctx)
	if err != nil {
		return s.State(), err
	}
	return s.Run(ctx, symbols)
}

// Abort requests the loop to stop after the in-flight symbol. Results
// collected so far are kept.
func (s *Service) Abort() models.BatchState {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		s.abort = true
	}
	return s.state.Clone()
}

// Shutdown stops the loop and waits for it to exit
func (s *Service) Shutdown() {
	s.Abort()
	s.cancel()
	s.wg.Wait()
}

func (s *Service) watchlistSymbols(ctx context.Context) ([]string, error) {
	if s.watchlist == nil {
		return nil, fmt.Errorf("watchlist is not configured")
	}
	wl, err := s.watchlist.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read watchlist: %w", err)
	}
	return wl.Symbols(), nil
}

// begin resets the state for a new run. An empty symbol list completes
// immediately.
func (s *Service) begin(symbols []string) ([]string, models.BatchState, error) {
	symbols = normalizeSymbols(symbols)

	s.mu.Lock()
	if s.running {
		snap := s.state.Clone()
		s.mu.Unlock()
		return nil, snap, models.ErrBatchInProgress
	}

	now := s.now()
	s.abort = false
	s.state = models.BatchState{
		RunID:     s.newID(),
		Status:    models.BatchRunning,
		Period:    s.period,
		Total:     len(symbols),
		Results:   map[string]models.BatchResult{},
		Errors:    map[string]string{},
		StartedAt: now,
	}
	if len(symbols) == 0 {
		s.state.Status = models.BatchCompleted
		s.state.Progress = 100
		s.state.FinishedAt = now
	} else {
		s.running = true
	}
	snap := s.state.Clone()
	s.mu.Unlock()

	s.logger.Info().
		Str("run_id", snap.RunID).
		Int("symbols", snap.Total).
		Str("period", snap.Period).
		Msg("Batch started")
	s.publish(snap)
	return symbols, snap, nil
}

func (s *Service) loop(ctx context.Context, symbols []string) {
	total := len(symbols)
	for i, symbol := range symbols {
		s.mu.Lock()
		if s.abort || ctx.Err() != nil {
			s.finishLocked(models.BatchAborted)
			return
		}
		s.state.CurrentSymbol = symbol
		s.state.Progress = i * 100 / total
		snap := s.state.Clone()
		s.mu.Unlock()
		s.publish(snap)

		a, err := s.analysis.Analyze(ctx, symbol, s.period, models.Interval1D)

		s.mu.Lock()
		s.state.Processed++
		s.state.Progress = (i + 1) * 100 / total
		if err != nil {
			s.state.Errors[symbol] = err.Error()
		} else {
			s.state.Results[symbol] = resultFrom(a)
		}
		snap = s.state.Clone()
		s.mu.Unlock()
		s.publish(snap)

		if err != nil {
			s.logger.Debug().Err(err).Str("symbol", symbol).Msg("Batch skipped symbol")
		}

		if i < total-1 {
			// cancellation is picked up at the top of the next iteration
			_ = s.sleep(ctx, s.delay)
		}
	}

	s.mu.Lock()
	s.finishLocked(models.BatchCompleted)
}

// finishLocked records the terminal status. Releases s.mu.
func (s *Service) finishLocked(status models.BatchStatus) {
	s.running = false
	s.abort = false
	s.state.Status = status
	s.state.CurrentSymbol = ""
	s.state.FinishedAt = s.now()
	if status == models.BatchCompleted {
		s.state.Progress = 100
	}
	snap := s.state.Clone()
	s.mu.Unlock()

	s.logger.Info().
		Str("run_id", snap.RunID).
		Str("status", string(status)).
		Int("results", len(snap.Results)).
		Int("errors", len(snap.Errors)).
		Msg("Batch finished")
	s.publish(snap)
}

func (s *Service) publish(state models.BatchState) {
	if s.publisher != nil {
		s.publisher.Publish(EventType, state)
	}
}

func resultFrom(a *models.Analysis) models.BatchResult {
	return models.BatchResult{
		ScanResult:       analysis.ScanResult(a),
		Currency:         a.Currency,
		Exchange:         a.Exchange,
		TechnicalScore:   a.Verdict.TechnicalScore,
		FundamentalScore: a.Verdict.FundamentalScore,
		HasFundamentals:  a.Fundamentals != nil,
	}
}

// normalizeSymbols upper-cases and deduplicates symbols, keeping order
func normalizeSymbols(symbols []string) []string {
	seen := make(map[string]struct{}, len(symbols))
	out := make([]string, 0, len(symbols))
	for _, sym := range symbols {
		sym = models.NormalizeSymbol(sym)
		if sym == "" {
			continue
		}
		if _, dup := seen[sym]; dup {
			continue
		}
		seen[sym] = struct{}{}
		out = append(out, sym)
	}
	return out
}
