// Package app wires configuration, storage, providers and services into a
// running application.
package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/bobmcallan/tickerscope/internal/clients/cache"
	"github.com/bobmcallan/tickerscope/internal/clients/yahoo"
	"github.com/bobmcallan/tickerscope/internal/common"
	"github.com/bobmcallan/tickerscope/internal/interfaces"
	"github.com/bobmcallan/tickerscope/internal/services/analysis"
	"github.com/bobmcallan/tickerscope/internal/services/batch"
	"github.com/bobmcallan/tickerscope/internal/services/events"
	"github.com/bobmcallan/tickerscope/internal/services/scan"
	"github.com/bobmcallan/tickerscope/internal/services/watchlist"
	"github.com/bobmcallan/tickerscope/internal/storage"
)

// App holds all initialized services, clients, and storage.
type App struct {
	Config           *common.Config
	Logger           *common.Logger
	Storage          interfaces.StorageManager
	Provider         interfaces.MarketDataProvider
	AnalysisService  interfaces.AnalysisService
	ScanService      interfaces.ScanService
	BatchService     interfaces.BatchService
	WatchlistService interfaces.WatchlistService
	Hub              *events.Hub
	StartupTime      time.Time

	redis     *redis.Client
	scheduler *Scheduler
}

// getBinaryDir returns the directory containing the executable.
func getBinaryDir() string {
	exe, err := os.Executable()
	if err != nil {
		return "."
	}
	return filepath.Dir(exe)
}

// NewApp loads configuration and initializes the application.
// configPath may be empty, in which case TICKERSCOPE_CONFIG, the binary
// directory and config/tickerscope.toml are tried in turn.
func NewApp(configPath string) (*App, error) {
	common.LoadVersionFromFile()

	binDir := getBinaryDir()

	if configPath == "" {
		configPath = os.Getenv("TICKERSCOPE_CONFIG")
	}
	if configPath == "" {
		configPath = filepath.Join(binDir, "tickerscope.toml")
		if _, err := os.Stat(configPath); os.IsNotExist(err) {
			configPath = "config/tickerscope.toml" // fallback for development
		}
	}

	config, err := common.LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	// Resolve relative log file path to binary directory
	if config.Logging.FilePath != "" && !filepath.IsAbs(config.Logging.FilePath) {
		config.Logging.FilePath = filepath.Join(binDir, config.Logging.FilePath)
	}

	return NewAppWithConfig(config, common.NewLoggerFromConfig(config.Logging))
}

// NewAppWithConfig initializes the application from an already loaded
// configuration.
func NewAppWithConfig(config *common.Config, logger *common.Logger) (*App, error) {
	startupStart := time.Now()
	ctx := context.Background()

	storageManager, err := storage.NewStorageManager(logger, config)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	a := &App{
		Config:      config,
		Logger:      logger,
		Storage:     storageManager,
		StartupTime: startupStart,
	}

	var provider interfaces.MarketDataProvider = yahoo.NewClientFromConfig(config.Provider, logger)
	if config.Cache.Enabled() {
		client, err := cache.NewRedisClient(ctx, config.Cache.RedisURL)
		if err != nil {
			logger.Warn().Err(err).Msg("Redis unavailable, continuing without provider cache")
		} else {
			a.redis = client
			provider = cache.NewCachedProvider(provider, client, config.Cache.GetTTL(), logger)
		}
	}
	a.Provider = provider

	a.Hub = events.NewHub(logger)

	analysisService := analysis.NewService(provider, provider, logger)
	watchlistService := watchlist.NewService(storageManager.WatchlistStore(), provider, provider, logger)

	scanService, err := scan.NewService(analysisService, storageManager.ScanStore(), a.Hub, config.Scan, logger)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("failed to initialize scan service: %w", err)
	}
	if err := scanService.Restore(ctx); err != nil {
		logger.Warn().Err(err).Msg("Failed to restore scan checkpoint, starting fresh")
	}

	batchService := batch.NewService(analysisService, watchlistService, a.Hub, config.Batch, logger)

	a.AnalysisService = analysisService
	a.WatchlistService = watchlistService
	a.ScanService = scanService
	a.BatchService = batchService

	if config.Batch.Schedule != "" {
		a.scheduler, err = NewScheduler(config.Batch.Schedule, batchService, logger)
		if err != nil {
			a.Close()
			return nil, fmt.Errorf("failed to initialize batch scheduler: %w", err)
		}
	}

	logger.Info().
		Str("storage", storage.Backend(config)).
		Bool("cache", a.redis != nil).
		Bool("scheduler", a.scheduler != nil).
		Dur("startup", time.Since(startupStart)).
		Msg("App initialized")

	return a, nil
}

// Start launches the background goroutines: the event hub and, when
// configured, the batch scheduler.
func (a *App) Start() {
	go a.Hub.Run()
	if a.scheduler != nil {
		a.scheduler.Start()
	}
}

// Close releases all resources held by the App.
// Shutdown order: stop scheduler, stop scan and batch loops, stop hub, close cache and storage.
func (a *App) Close() {
	if a.scheduler != nil {
		a.scheduler.Stop()
		a.scheduler = nil
	}
	if a.ScanService != nil {
		a.ScanService.Shutdown()
	}
	if a.BatchService != nil {
		a.BatchService.Shutdown()
	}
	if a.Hub != nil {
		a.Hub.Stop()
	}
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			a.Logger.Warn().Err(err).Msg("Failed to close redis client")
		}
		a.redis = nil
	}
	if a.Storage != nil {
		if err := a.Storage.Close(); err != nil {
			a.Logger.Warn().Err(err).Msg("Failed to close storage")
		}
		a.Storage = nil
	}
}
