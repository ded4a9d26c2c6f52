package server

import (
	"context"
	"testing"

	"github.com/bobmcallan/tickerscope/internal/app"
	"github.com/bobmcallan/tickerscope/internal/common"
	"github.com/bobmcallan/tickerscope/internal/models"
)

type mockAnalysisService struct {
	err        error
	lastSymbol string
	lastPeriod string
}

func (m *mockAnalysisService) Analyze(ctx context.Context, symbol, period, interval string) (*models.Analysis, error) {
	m.lastSymbol = symbol
	m.lastPeriod = period
	if m.err != nil {
		return nil, m.err
	}
	return &models.Analysis{
		Symbol:   symbol,
		Period:   period,
		Interval: interval,
		Verdict:  models.Verdict{Label: "BULLISH", Type: models.VerdictBullish},
	}, nil
}

type mockScanService struct {
	state       models.ScanState
	startErr    error
	configErr   error
	startCalls  int
	resetCalls  int
	pauseCalls  int
	lastConfig  models.ScanConfig
	categories  []models.ScanCategory
	continueErr error
}

func (m *mockScanService) Configure(cfg models.ScanConfig) (models.ScanState, error) {
	m.lastConfig = cfg
	if m.configErr != nil {
		return m.state, m.configErr
	}
	m.state.Config = cfg
	return m.state, nil
}

func (m *mockScanService) Start() error {
	m.startCalls++
	if m.startErr != nil {
		return m.startErr
	}
	m.state.Status = models.ScanScanning
	return nil
}

func (m *mockScanService) Pause() models.ScanState {
	m.pauseCalls++
	m.state.Status = models.ScanPaused
	return m.state
}

func (m *mockScanService) Continue() error {
	if m.continueErr != nil {
		return m.continueErr
	}
	return m.Start()
}

func (m *mockScanService) Reset() models.ScanState {
	m.resetCalls++
	m.state = models.ScanState{Status: models.ScanIdle}
	return m.state
}

func (m *mockScanService) State() models.ScanState           { return m.state }
func (m *mockScanService) Categories() []models.ScanCategory { return m.categories }
func (m *mockScanService) Shutdown()                         {}

type mockBatchService struct {
	state          models.BatchState
	err            error
	startSymbols   []string
	startCalls     int
	watchlistCalls int
	abortCalls     int
}

func (m *mockBatchService) Start(symbols []string) (models.BatchState, error) {
	m.startCalls++
	m.startSymbols = symbols
	if m.err != nil {
		return m.state, m.err
	}
	m.state.Status = models.BatchRunning
	m.state.Total = len(symbols)
	return m.state, nil
}

func (m *mockBatchService) StartWatchlist(ctx context.Context) (models.BatchState, error) {
	m.watchlistCalls++
	if m.err != nil {
		return m.state, m.err
	}
	m.state.Status = models.BatchRunning
	return m.state, nil
}

func (m *mockBatchService) Abort() models.BatchState {
	m.abortCalls++
	m.state.Status = models.BatchAborted
	return m.state
}

func (m *mockBatchService) State() models.BatchState { return m.state }
func (m *mockBatchService) Running() bool            { return m.state.Status == models.BatchRunning }
func (m *mockBatchService) Shutdown()                {}

type mockWatchlistService struct {
	wl       models.Watchlist
	err      error
	lastCall string
	quoteErr error
}

func (m *mockWatchlistService) result(call string) (*models.Watchlist, error) {
	m.lastCall = call
	if m.err != nil {
		return nil, m.err
	}
	wl := m.wl
	return &wl, nil
}

func (m *mockWatchlistService) Get(ctx context.Context) (*models.Watchlist, error) {
	return m.result("get")
}

func (m *mockWatchlistService) Add(ctx context.Context, symbol, name string) (*models.Watchlist, error) {
	if m.err == nil {
		m.wl.Items = append(m.wl.Items, models.WatchlistItem{Symbol: symbol, Name: name})
	}
	return m.result("add:" + symbol)
}

func (m *mockWatchlistService) Remove(ctx context.Context, symbol string) (*models.Watchlist, error) {
	return m.result("remove:" + symbol)
}

func (m *mockWatchlistService) MoveUp(ctx context.Context, symbol string) (*models.Watchlist, error) {
	return m.result("up:" + symbol)
}

func (m *mockWatchlistService) MoveDown(ctx context.Context, symbol string) (*models.Watchlist, error) {
	return m.result("down:" + symbol)
}

func (m *mockWatchlistService) Clear(ctx context.Context) (*models.Watchlist, error) {
	m.wl.Items = nil
	return m.result("clear")
}

func (m *mockWatchlistService) Quote(ctx context.Context, symbol string) (*models.WatchlistQuote, error) {
	m.lastCall = "quote:" + symbol
	if m.quoteErr != nil {
		return nil, m.quoteErr
	}
	return &models.WatchlistQuote{Symbol: symbol, Price: 101.5, Change: 1.5}, nil
}

type testServer struct {
	*Server
	analysis  *mockAnalysisService
	scan      *mockScanService
	batch     *mockBatchService
	watchlist *mockWatchlistService
}

func newTestServer(t *testing.T, configure ...func(*common.Config)) *testServer {
	t.Helper()

	cfg := common.NewDefaultConfig()
	for _, fn := range configure {
		fn(cfg)
	}

	ts := &testServer{
		analysis:  &mockAnalysisService{},
		scan:      &mockScanService{state: models.ScanState{Status: models.ScanIdle}},
		batch:     &mockBatchService{state: models.BatchState{Status: models.BatchIdle}},
		watchlist: &mockWatchlistService{},
	}

	a := &app.App{
		Config:           cfg,
		Logger:           common.NewSilentLogger(),
		AnalysisService:  ts.analysis,
		ScanService:      ts.scan,
		BatchService:     ts.batch,
		WatchlistService: ts.watchlist,
	}
	ts.Server = NewServer(a)
	return ts
}
