// Package scan runs the resumable market scan that walks a symbol universe
// until a symbol meets the bullish threshold
package scan

import (
	"context"
	"fmt"
	"runtime/debug"
	"sync"
	"time"

	"github.com/bobmcallan/tickerscope/internal/common"
	"github.com/bobmcallan/tickerscope/internal/interfaces"
	"github.com/bobmcallan/tickerscope/internal/models"
	"github.com/bobmcallan/tickerscope/internal/services/analysis"
)

// EventType is the event name used for published scan snapshots
const EventType = "scan"

const checkpointTimeout = 5 * time.Second

// Compile-time interface check
var _ interfaces.ScanService = (*Service)(nil)

// Service implements ScanService. The loop is the only writer of scan
// progress; callers request transitions which the loop applies at the top
// of its next iteration.
type Service struct {
	analysis  interfaces.AnalysisService
	store     interfaces.ScanStore
	publisher interfaces.EventPublisher
	logger    *common.Logger

	interval string
	delay    time.Duration
	sleep    func(ctx context.Context, d time.Duration) error
	now      func() time.Time

	mu           sync.Mutex
	state        models.ScanState
	universe     []string
	running      bool
	abort        bool
	pendingReset bool
	pendingCfg   *models.ScanConfig

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewService creates a scan service. store and publisher may be nil.
func NewService(
	analysisSvc interfaces.AnalysisService,
	store interfaces.ScanStore,
	publisher interfaces.EventPublisher,
	config common.ScanConfig,
	logger *common.Logger,
) (*Service, error) {
	if logger == nil {
		logger = common.NewSilentLogger()
	}

	interval := config.Interval
	if interval == "" {
		interval = models.Interval1D
	}

	s := &Service{
		analysis:  analysisSvc,
		store:     store,
		publisher: publisher,
		logger:    logger,
		interval:  interval,
		delay:     config.GetDelay(),
		sleep:     common.SleepContext,
		now:       time.Now,
	}
	s.ctx, s.cancel = context.WithCancel(context.Background())

	cfg, universe, err := normalizeConfig(models.ScanConfig{
		Categories: config.DefaultCategories,
		Period:     config.DefaultPeriod,
		Threshold:  config.DefaultThreshold,
	})
	if err != nil {
		return nil, fmt.Errorf("invalid default scan config: %w", err)
	}
	s.applyReset(cfg, universe)
	return s, nil
}

// normalizeConfig validates cfg and resolves its universe
func normalizeConfig(cfg models.ScanConfig) (models.ScanConfig, []string, error) {
	if len(cfg.Categories) == 0 {
		cfg.Categories = []string{"sp500"}
	}
	if cfg.Period == "" {
		cfg.Period = models.Period6M
	}
	if cfg.Threshold == 0 {
		cfg.Threshold = 90
	}

	period, err := models.NormalizePeriod(cfg.Period)
	if err != nil {
		return cfg, nil, err
	}
	cfg.Period = period

	if cfg.Threshold < 1 || cfg.Threshold > 100 {
		return cfg, nil, fmt.Errorf("%w: %d", models.ErrInvalidThreshold, cfg.Threshold)
	}

	universe, err := Universe(cfg.Categories)
	if err != nil {
		return cfg, nil, err
	}
	cfg.Categories = append([]string(nil), cfg.Categories...)
	return cfg, universe, nil
}

// Restore loads the saved checkpoint. A checkpoint left mid-scan resumes as
// paused. Must be called before Start.
func (s *Service) Restore(ctx context.Context) error {
	if s.store == nil {
		return nil
	}
	saved, err := s.store.GetScanState(ctx)
	if err != nil {
		return fmt.Errorf("failed to load scan checkpoint: %w", err)
	}
	if saved == nil {
		return nil
	}

	cfg, universe, err := normalizeConfig(saved.Config)
	if err != nil {
		s.logger.Warn().Err(err).Msg("Discarding scan checkpoint with invalid config")
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	state := saved.Clone()
	state.Config = cfg
	state.UniverseSize = len(universe)
	state.CurrentSymbol = ""
	if state.Cursor < 0 || state.Cursor >= len(universe) {
		state.Cursor = 0
	}
	if state.Status == models.ScanScanning {
		state.Status = models.ScanPaused
	}
	if len(state.History) > models.ScanHistoryLimit {
		state.History = state.History[:models.ScanHistoryLimit]
	}
	state.Progress = progress(state.Cursor, len(universe))

	s.state = state
	s.universe = universe

	s.logger.Info().
		Str("status", string(state.Status)).
		Int("cursor", state.Cursor).
		Int("universe", len(universe)).
		Msg("Scan checkpoint restored")
	return nil
}

// Categories returns the universe catalogue
func (s *Service) Categories() []models.ScanCategory {
	return Categories()
}

// State returns a snapshot of the scan state
func (s *Service) State() models.ScanState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Clone()
}

// Configure changes the scan selection. A changed config resets progress;
// while scanning the reset is applied at the next checkpoint.
func (s *Service) Configure(cfg models.ScanConfig) (models.ScanState, error) {
	cfg, universe, err := normalizeConfig(cfg)
	if err != nil {
		return s.State(), err
	}

	s.mu.Lock()
	if cfg.Equal(s.state.Config) && s.pendingCfg == nil {
		snap := s.state.Clone()
		s.mu.Unlock()
		return snap, nil
	}

	if s.running {
		s.abort = true
		s.pendingReset = true
		s.pendingCfg = &cfg
		snap := s.state.Clone()
		s.mu.Unlock()
		s.logger.Info().Strs("categories", cfg.Categories).Msg("Scan reconfiguration requested")
		return snap, nil
	}

	s.applyReset(cfg, universe)
	snap := s.state.Clone()
	s.mu.Unlock()

	s.logger.Info().
		Strs("categories", cfg.Categories).
		Str("period", cfg.Period).
		Int("threshold", cfg.Threshold).
		Int("universe", len(universe)).
		Msg("Scan configured")
	s.checkpoint(snap)
	s.publish(snap)
	return snap, nil
}

// Start launches the scan loop in the background from the current cursor
func (s *Service) Start() error {
	if err := s.begin(); err != nil {
		return err
	}
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer func() {
			if r := recover(); r != nil {
				s.logger.Error().
					Str("panic", fmt.Sprintf("%v", r)).
					Str("stack", string(debug.Stack())).
					Msg("Recovered from panic in scan loop")
				s.mu.Lock()
				s.running = false
				s.state.Status = models.ScanPaused
				s.mu.Unlock()
			}
		}()
		s.loop(s.ctx)
	}()
	return nil
}

// Continue resumes a paused scan or searches past a found match
func (s *Service) Continue() error {
	return s.Start()
}

// Run executes the scan loop synchronously until it pauses, finds a match
// or completes
func (s *Service) Run(ctx context.Context) error {
	if err := s.begin(); err != nil {
		return err
	}
	s.loop(ctx)
	return nil
}

// Pause requests the loop to stop after the in-flight symbol
func (s *Service) Pause() models.ScanState {
	s.mu.Lock()
	if s.running {
		s.abort = true
	}
	snap := s.state.Clone()
	s.mu.Unlock()
	return snap
}

// Reset clears progress and history. While scanning the reset is applied
// after the in-flight symbol.
func (s *Service) Reset() models.ScanState {
	s.mu.Lock()
	if s.running {
		s.abort = true
		s.pendingReset = true
		snap := s.state.Clone()
		s.mu.Unlock()
		return snap
	}
	s.applyReset(s.state.Config, s.universe)
	snap := s.state.Clone()
	s.mu.Unlock()

	s.logger.Info().Msg("Scan reset")
	s.checkpoint(snap)
	s.publish(snap)
	return snap
}

// Shutdown stops the loop and waits for it to exit
func (s *Service) Shutdown() {
	s.mu.Lock()
	if s.running {
		s.abort = true
	}
	s.mu.Unlock()
	s.cancel()
	s.wg.Wait()
}

// begin marks the loop as running and moves the state to scanning
func (s *Service) begin() error {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return models.ErrScanInProgress
	}

	// a finished pass starts a fresh one over the same universe
	if s.state.Status == models.ScanCompleted {
		s.state.Cursor = 0
		s.state.Scanned = 0
		s.state.Skipped = 0
	}

	s.running = true
	s.abort = false
	s.state.Status = models.ScanScanning
	s.state.FoundMatch = nil
	s.state.UpdatedAt = s.now()
	snap := s.state.Clone()
	s.mu.Unlock()

	s.logger.Info().
		Int("cursor", snap.Cursor).
		Int("universe", snap.UniverseSize).
		Int("threshold", snap.Config.Threshold).
		Msg("Scan started")
	s.publish(snap)
	return nil
}

func (s *Service) loop(ctx context.Context) {
	s.mu.Lock()
	start := s.state.Cursor
	s.mu.Unlock()

	for i := start; ; i++ {
		s.mu.Lock()
		if s.abort || ctx.Err() != nil {
			s.stopLocked()
			return
		}
		if i >= len(s.universe) {
			s.finishLocked(models.ScanCompleted)
			return
		}

		s.state.Cursor = i
		symbol := s.universe[i]
		s.state.CurrentSymbol = symbol
		s.state.Progress = progress(i, len(s.universe))
		s.state.UpdatedAt = s.now()
		period := s.state.Config.Period
		threshold := s.state.Config.Threshold
		last := i == len(s.universe)-1
		snap := s.state.Clone()
		s.mu.Unlock()
		s.publish(snap)

		a, err := s.analysis.Analyze(ctx, symbol, period, s.interval)

		s.mu.Lock()
		if err != nil && ctx.Err() != nil {
			// fetch cut short by cancellation; the symbol is retried on resume
			s.stopLocked()
			return
		}
		if err != nil {
			s.state.Skipped++
			s.mu.Unlock()
			s.logger.Debug().Err(err).Str("symbol", symbol).Msg("Scan skipped symbol")
		} else {
			result := analysis.ScanResult(a)
			s.state.History = prependResult(s.state.History, result)
			s.state.Scanned++
			s.state.Cursor = i + 1

			if s.pendingReset {
				// a reset or reconfigure requested mid-fetch discards the result
				s.stopLocked()
				return
			}
			if result.BullishPercent >= threshold {
				s.state.FoundMatch = &result
				s.finishLocked(models.ScanFound)
				s.logger.Info().
					Str("symbol", symbol).
					Int("bullish", result.BullishPercent).
					Msg("Scan found a match")
				return
			}
			s.mu.Unlock()
		}

		if !last {
			// cancellation is picked up at the top of the next iteration
			_ = s.sleep(ctx, s.delay)
		}
	}
}

// stopLocked handles an abort at the loop checkpoint: a pending reset
// returns to idle, otherwise the scan pauses with the cursor unchanged.
// Releases s.mu.
func (s *Service) stopLocked() {
	if s.pendingReset {
		cfg := s.state.Config
		universe := s.universe
		if s.pendingCfg != nil {
			// validated when requested
			cfg = *s.pendingCfg
			universe, _ = Universe(cfg.Categories)
		}
		s.applyReset(cfg, universe)
		s.running = false
		snap := s.state.Clone()
		s.mu.Unlock()

		s.logger.Info().Msg("Scan reset")
		s.checkpoint(snap)
		s.publish(snap)
		return
	}

	s.abort = false
	s.running = false
	s.state.Status = models.ScanPaused
	s.state.CurrentSymbol = ""
	s.state.Progress = progress(s.state.Cursor, len(s.universe))
	s.state.UpdatedAt = s.now()
	snap := s.state.Clone()
	s.mu.Unlock()

	s.logger.Info().Int("cursor", snap.Cursor).Msg("Scan paused")
	s.checkpoint(snap)
	s.publish(snap)
}

// finishLocked moves to found or completed. Releases s.mu.
func (s *Service) finishLocked(status models.ScanStatus) {
	s.running = false
	s.abort = false
	s.pendingReset = false
	s.pendingCfg = nil
	s.state.Status = status
	s.state.CurrentSymbol = ""
	if status == models.ScanCompleted {
		s.state.Cursor = 0
		s.state.Progress = 100
	} else {
		s.state.Progress = progress(s.state.Cursor, len(s.universe))
	}
	s.state.UpdatedAt = s.now()
	snap := s.state.Clone()
	s.mu.Unlock()

	if status == models.ScanCompleted {
		s.logger.Info().
			Int("scanned", snap.Scanned).
			Int("skipped", snap.Skipped).
			Msg("Scan completed without a match")
	}
	s.checkpoint(snap)
	s.publish(snap)
}

// applyReset replaces the config and clears progress. Caller holds s.mu or
// owns s exclusively.
func (s *Service) applyReset(cfg models.ScanConfig, universe []string) {
	s.universe = universe
	s.abort = false
	s.pendingReset = false
	s.pendingCfg = nil
	s.state = models.ScanState{
		Status:       models.ScanIdle,
		Config:       cfg,
		UniverseSize: len(universe),
		History:      []models.ScanResult{},
		UpdatedAt:    s.now(),
	}
}

func (s *Service) checkpoint(state models.ScanState) {
	if s.store == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), checkpointTimeout)
	defer cancel()
	if err := s.store.SaveScanState(ctx, &state); err != nil {
		s.logger.Warn().Err(err).Msg("Failed to save scan checkpoint")
	}
}

func (s *Service) publish(state models.ScanState) {
	if s.publisher != nil {
		s.publisher.Publish(EventType, state)
	}
}

// prependResult adds r as the newest history entry, keeping at most
// ScanHistoryLimit entries
func prependResult(history []models.ScanResult, r models.ScanResult) []models.ScanResult {
	n := len(history) + 1
	if n > models.ScanHistoryLimit {
		n = models.ScanHistoryLimit
	}
	out := make([]models.ScanResult, n)
	out[0] = r
	copy(out[1:], history)
	return out
}

func progress(cursor, total int) int {
	if total == 0 {
		return 0
	}
	return cursor * 100 / total
}
