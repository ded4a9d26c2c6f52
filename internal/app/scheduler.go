package app

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/bobmcallan/tickerscope/internal/common"
	"github.com/bobmcallan/tickerscope/internal/models"
)

// watchlistBatchRunner is the part of the batch service the scheduler drives
type watchlistBatchRunner interface {
	Running() bool
	RunWatchlist(ctx context.Context) (models.BatchState, error)
}

// Scheduler runs the watchlist batch on a cron schedule. The schedule
// includes a seconds field, e.g. "0 30 16 * * MON-FRI".
type Scheduler struct {
	cron   *cron.Cron
	batch  watchlistBatchRunner
	logger *common.Logger

	ctx    context.Context
	cancel context.CancelFunc
	once   sync.Once
}

// NewScheduler parses the cron schedule and registers the batch job
func NewScheduler(schedule string, batch watchlistBatchRunner, logger *common.Logger) (*Scheduler, error) {
	cl := cronLogger{logger: logger}
	s := &Scheduler{
		cron: cron.New(
			cron.WithSeconds(),
			cron.WithLogger(cl),
			cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)),
		),
		batch:  batch,
		logger: logger,
	}
	s.ctx, s.cancel = context.WithCancel(context.Background())

	if _, err := s.cron.AddFunc(schedule, s.runOnce); err != nil {
		s.cancel()
		return nil, fmt.Errorf("invalid batch schedule %q: %w", schedule, err)
	}
	return s, nil
}

// Start begins firing scheduled runs
func (s *Scheduler) Start() {
	s.logger.Info().Msg("Batch scheduler: started")
	s.cron.Start()
}

// Stop cancels any in-flight run and waits for the job to return
func (s *Scheduler) Stop() {
	s.once.Do(func() {
		s.cancel()
		<-s.cron.Stop().Done()
		s.logger.Info().Msg("Batch scheduler: stopped")
	})
}

// runOnce analyses the watchlist unless a batch is already running
func (s *Scheduler) runOnce() {
	if s.batch.Running() {
		s.logger.Info().Msg("Batch scheduler: batch already running, skipping")
		return
	}

	start := time.Now()
	state, err := s.batch.RunWatchlist(s.ctx)
	if err != nil {
		if errors.Is(err, models.ErrBatchInProgress) {
			s.logger.Info().Msg("Batch scheduler: batch already running, skipping")
			return
		}
		s.logger.Warn().Err(err).Msg("Batch scheduler: run failed")
		return
	}

	s.logger.Info().
		Str("run_id", state.RunID).
		Str("status", string(state.Status)).
		Int("symbols", state.Total).
		Int("errors", len(state.Errors)).
		Dur("elapsed", time.Since(start)).
		Msg("Batch scheduler: run complete")
}

// cronLogger adapts the application logger to cron.Logger
type cronLogger struct {
	logger *common.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.logger.Debug().Fields(keysAndValues).Msg("cron: " + msg)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.logger.Error().Err(err).Fields(keysAndValues).Msg("cron: " + msg)
}
