// Package yahoo provides a client for the Yahoo Finance chart and
// quoteSummary endpoints
package yahoo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/time/rate"

	"github.com/bobmcallan/tickerscope/internal/common"
	"github.com/bobmcallan/tickerscope/internal/interfaces"
	"github.com/bobmcallan/tickerscope/internal/models"
)

const (
	DefaultChartURL   = "https://query1.finance.yahoo.com/v8/finance/chart"
	DefaultSummaryURL = "https://query1.finance.yahoo.com/v10/finance/quoteSummary"
	DefaultCookieURL  = "https://fc.yahoo.com"
	DefaultCrumbURL   = "https://query1.finance.yahoo.com/v1/test/getcrumb"
	DefaultTimeout    = 30 * time.Second
	DefaultRateLimit  = 5 // requests per second
	DefaultSessionTTL = time.Hour

	summaryModules   = "defaultKeyStatistics,financialData,summaryDetail"
	defaultUserAgent = "Mozilla/5.0 (compatible; tickerscope)"
	maxBodyBytes     = 8 << 20
)

var _ interfaces.MarketDataProvider = (*Client)(nil)

// Client implements DataProvider and FundamentalsProvider against Yahoo
type Client struct {
	chartURL   string
	summaryURL string
	httpClient *http.Client
	limiter    *rate.Limiter
	logger     *common.Logger
	tracer     trace.Tracer
	sessions   *SessionManager
	now        func() time.Time
}

// ClientOption configures the client
type ClientOption func(*Client)

// WithChartURL sets the chart endpoint base URL
func WithChartURL(u string) ClientOption {
	return func(c *Client) {
		c.chartURL = strings.TrimRight(u, "/")
	}
}

// WithSummaryURL sets the quoteSummary endpoint base URL
func WithSummaryURL(u string) ClientOption {
	return func(c *Client) {
		c.summaryURL = strings.TrimRight(u, "/")
	}
}

// WithSessionManager injects the crumb session owner
func WithSessionManager(m *SessionManager) ClientOption {
	return func(c *Client) {
		c.sessions = m
	}
}

// WithHTTPClient replaces the HTTP client
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithTimeout sets the HTTP timeout
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		c.httpClient.Timeout = timeout
	}
}

// WithRateLimit sets the rate limit
func WithRateLimit(requestsPerSecond int) ClientOption {
	return func(c *Client) {
		if requestsPerSecond <= 0 {
			c.limiter = rate.NewLimiter(rate.Inf, 1)
			return
		}
		c.limiter = rate.NewLimiter(rate.Limit(requestsPerSecond), requestsPerSecond)
	}
}

// WithLogger sets the logger
func WithLogger(logger *common.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithTracer sets the tracer used for provider spans
func WithTracer(tracer trace.Tracer) ClientOption {
	return func(c *Client) {
		c.tracer = tracer
	}
}

// NewClient creates a new Yahoo client
func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		chartURL:   DefaultChartURL,
		summaryURL: DefaultSummaryURL,
		httpClient: &http.Client{Timeout: DefaultTimeout},
		limiter:    rate.NewLimiter(rate.Limit(DefaultRateLimit), DefaultRateLimit),
		logger:     common.NewSilentLogger(),
		tracer:     otel.Tracer("github.com/bobmcallan/tickerscope/internal/clients/yahoo"),
		now:        time.Now,
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.sessions == nil {
		c.sessions = NewSessionManager(DefaultCookieURL, DefaultCrumbURL, DefaultSessionTTL, c.httpClient)
	}

	return c
}

// NewClientFromConfig builds a client from the [provider] section
func NewClientFromConfig(cfg common.ProviderConfig, logger *common.Logger) *Client {
	hc := &http.Client{Timeout: cfg.GetTimeout()}
	return NewClient(
		WithHTTPClient(hc),
		WithChartURL(cfg.ChartURL),
		WithSummaryURL(cfg.SummaryURL),
		WithRateLimit(cfg.RateLimit),
		WithLogger(logger),
		WithSessionManager(NewSessionManager(cfg.CookieURL, cfg.CrumbURL, cfg.GetSessionTTL(), hc)),
	)
}

// get performs a rate-limited GET and classifies failures
func (c *Client) get(ctx context.Context, symbol, reqURL string, cookies []*http.Cookie) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, &models.ProviderError{Kind: models.ProviderNetwork, Symbol: symbol, Err: fmt.Errorf("rate limit wait: %w", err)}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, &models.ProviderError{Kind: models.ProviderNetwork, Symbol: symbol, Err: fmt.Errorf("failed to create request: %w", err)}
	}
	req.Header.Set("User-Agent", defaultUserAgent)
	req.Header.Set("Accept", "application/json")
	for _, ck := range cookies {
		req.AddCookie(ck)
	}

	c.logger.Debug().Str("symbol", symbol).Str("url", redactCrumb(reqURL)).Msg("Yahoo API request")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &models.ProviderError{Kind: models.ProviderNetwork, Symbol: symbol, Err: fmt.Errorf("failed to execute request: %w", err)}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, &models.ProviderError{Kind: models.ProviderNetwork, Symbol: symbol, Err: fmt.Errorf("failed to read response: %w", err)}
	}

	switch {
	case resp.StatusCode == http.StatusOK:
		return body, nil
	case resp.StatusCode == http.StatusNotFound:
		return nil, &models.ProviderError{Kind: models.ProviderSymbolNotFound, Symbol: symbol, StatusCode: resp.StatusCode}
	default:
		return nil, &models.ProviderError{Kind: models.ProviderHTTP, Symbol: symbol, StatusCode: resp.StatusCode, Err: errors.New(snippet(body))}
	}
}

type chartResponse struct {
	Chart struct {
		Result []struct {
			Meta struct {
				Currency     string `json:"currency"`
				ExchangeName string `json:"exchangeName"`
				Symbol       string `json:"symbol"`
			} `json:"meta"`
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Open   []*float64 `json:"open"`
					High   []*float64 `json:"high"`
					Low    []*float64 `json:"low"`
					Close  []*float64 `json:"close"`
					Volume []*float64 `json:"volume"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error *apiError `json:"error"`
	} `json:"chart"`
}

type apiError struct {
	Code        string `json:"code"`
	Description string `json:"description"`
}

// FetchSeries retrieves OHLCV bars for the lookback period. Bars without a
// close are dropped. The result may be shorter than models.MinHistoryPoints;
// callers decide whether that is enough.
func (c *Client) FetchSeries(ctx context.Context, symbol, period, interval string) (*models.SeriesResponse, error) {
	symbol = models.NormalizeSymbol(symbol)
	if symbol == "" {
		return nil, models.ErrEmptySymbol
	}
	lookback, err := models.PeriodDuration(period)
	if err != nil {
		return nil, err
	}
	if !models.ValidInterval(interval) {
		return nil, fmt.Errorf("%w: %q", models.ErrUnknownInterval, interval)
	}

	ctx, span := c.tracer.Start(ctx, "yahoo.fetch-series", trace.WithAttributes(
		attribute.String("symbol", symbol),
		attribute.String("period", period),
		attribute.String("interval", interval),
	))
	defer span.End()

	end := c.now()
	params := url.Values{}
	params.Set("period1", strconv.FormatInt(end.Add(-lookback).Unix(), 10))
	params.Set("period2", strconv.FormatInt(end.Unix(), 10))
	params.Set("interval", interval)
	params.Set("includePrePost", "false")
	reqURL := fmt.Sprintf("%s/%s?%s", c.chartURL, url.PathEscape(symbol), params.Encode())

	body, err := c.get(ctx, symbol, reqURL, nil)
	if err != nil {
		recordError(span, err)
		return nil, err
	}

	resp, err := parseChart(symbol, body)
	if err != nil {
		recordError(span, err)
		return nil, err
	}

	span.SetAttributes(attribute.Int("points", len(resp.Data)))
	c.logger.Debug().Str("symbol", symbol).Int("points", len(resp.Data)).Msg("Series fetched")
	return resp, nil
}

func parseChart(symbol string, body []byte) (*models.SeriesResponse, error) {
	var chart chartResponse
	if err := json.Unmarshal(body, &chart); err != nil {
		return nil, &models.ProviderError{Kind: models.ProviderParse, Symbol: symbol, Err: fmt.Errorf("failed to decode chart: %w", err)}
	}
	if e := chart.Chart.Error; e != nil {
		kind := models.ProviderHTTP
		if strings.EqualFold(e.Code, "Not Found") {
			kind = models.ProviderSymbolNotFound
		}
		return nil, &models.ProviderError{Kind: kind, Symbol: symbol, Err: errors.New(e.Description)}
	}
	if len(chart.Chart.Result) == 0 || len(chart.Chart.Result[0].Timestamp) == 0 {
		return nil, &models.ProviderError{Kind: models.ProviderSymbolNotFound, Symbol: symbol, Err: errors.New("no data returned")}
	}

	result := chart.Chart.Result[0]
	if len(result.Indicators.Quote) == 0 {
		return nil, &models.ProviderError{Kind: models.ProviderParse, Symbol: symbol, Err: errors.New("chart has no quote block")}
	}
	q := result.Indicators.Quote[0]

	data := make(models.PriceSeries, 0, len(result.Timestamp))
	for i, ts := range result.Timestamp {
		closePx := at(q.Close, i)
		if closePx == nil {
			continue
		}
		p := models.PricePoint{
			Timestamp: time.Unix(ts, 0).UTC(),
			Close:     *closePx,
			Open:      valueOr(at(q.Open, i), *closePx),
			High:      valueOr(at(q.High, i), *closePx),
			Low:       valueOr(at(q.Low, i), *closePx),
		}
		if v := at(q.Volume, i); v != nil {
			p.Volume = int64(*v)
		}
		data = append(data, p)
	}
	sort.SliceStable(data, func(i, j int) bool {
		return data[i].Timestamp.Before(data[j].Timestamp)
	})

	return &models.SeriesResponse{
		Symbol:   symbol,
		Currency: result.Meta.Currency,
		Exchange: result.Meta.ExchangeName,
		Data:     data,
	}, nil
}

type rawValue struct {
	Raw *float64 `json:"raw"`
}

type summaryResponse struct {
	QuoteSummary struct {
		Result []struct {
			DefaultKeyStatistics struct {
				TrailingPE  rawValue `json:"trailingPE"`
				ForwardPE   rawValue `json:"forwardPE"`
				PEGRatio    rawValue `json:"pegRatio"`
				PriceToBook rawValue `json:"priceToBook"`
				TrailingEps rawValue `json:"trailingEps"`
				ForwardEps  rawValue `json:"forwardEps"`
				Beta        rawValue `json:"beta"`
			} `json:"defaultKeyStatistics"`
			SummaryDetail struct {
				TrailingPE       rawValue `json:"trailingPE"`
				PriceToSales     rawValue `json:"priceToSalesTrailing12Months"`
				MarketCap        rawValue `json:"marketCap"`
				FiftyTwoWeekHigh rawValue `json:"fiftyTwoWeekHigh"`
				FiftyTwoWeekLow  rawValue `json:"fiftyTwoWeekLow"`
				DividendYield    rawValue `json:"dividendYield"`
				Beta             rawValue `json:"beta"`
			} `json:"summaryDetail"`
			FinancialData struct {
				ProfitMargins           rawValue `json:"profitMargins"`
				OperatingMargins        rawValue `json:"operatingMargins"`
				GrossMargins            rawValue `json:"grossMargins"`
				ReturnOnEquity          rawValue `json:"returnOnEquity"`
				ReturnOnAssets          rawValue `json:"returnOnAssets"`
				EarningsGrowth          rawValue `json:"earningsGrowth"`
				RevenueGrowth           rawValue `json:"revenueGrowth"`
				DebtToEquity            rawValue `json:"debtToEquity"`
				CurrentRatio            rawValue `json:"currentRatio"`
				QuickRatio              rawValue `json:"quickRatio"`
				TotalCash               rawValue `json:"totalCash"`
				TotalDebt               rawValue `json:"totalDebt"`
				FreeCashflow            rawValue `json:"freeCashflow"`
				TargetMeanPrice         rawValue `json:"targetMeanPrice"`
				TargetHighPrice         rawValue `json:"targetHighPrice"`
				TargetLowPrice          rawValue `json:"targetLowPrice"`
				RecommendationKey       string   `json:"recommendationKey"`
				NumberOfAnalystOpinions rawValue `json:"numberOfAnalystOpinions"`
			} `json:"financialData"`
		} `json:"result"`
		Error *apiError `json:"error"`
	} `json:"quoteSummary"`
}

// FetchFundamentals retrieves valuation metrics. A 401 refreshes the crumb
// session and retries once.
func (c *Client) FetchFundamentals(ctx context.Context, symbol string) (*models.FundamentalMetrics, error) {
	symbol = models.NormalizeSymbol(symbol)
	if symbol == "" {
		return nil, models.ErrEmptySymbol
	}

	ctx, span := c.tracer.Start(ctx, "yahoo.fetch-fundamentals", trace.WithAttributes(
		attribute.String("symbol", symbol),
	))
	defer span.End()

	var body []byte
	for attempt := 0; attempt < 2; attempt++ {
		session, err := c.sessions.Get(ctx)
		if err != nil {
			perr := &models.ProviderError{Kind: models.ProviderHTTP, Symbol: symbol, Err: fmt.Errorf("failed to acquire session: %w", err)}
			recordError(span, perr)
			return nil, perr
		}

		params := url.Values{}
		params.Set("modules", summaryModules)
		params.Set("crumb", session.Crumb)
		reqURL := fmt.Sprintf("%s/%s?%s", c.summaryURL, url.PathEscape(symbol), params.Encode())

		body, err = c.get(ctx, symbol, reqURL, session.Cookies)
		if err == nil {
			break
		}

		var perr *models.ProviderError
		if attempt == 0 && errors.As(err, &perr) && perr.StatusCode == http.StatusUnauthorized {
			c.logger.Debug().Str("symbol", symbol).Msg("Crumb rejected, refreshing session")
			c.sessions.Invalidate()
			continue
		}
		recordError(span, err)
		return nil, err
	}

	metrics, err := parseSummary(symbol, body)
	if err != nil {
		recordError(span, err)
		return nil, err
	}
	return metrics, nil
}

func parseSummary(symbol string, body []byte) (*models.FundamentalMetrics, error) {
	var summary summaryResponse
	if err := json.Unmarshal(body, &summary); err != nil {
		return nil, &models.ProviderError{Kind: models.ProviderParse, Symbol: symbol, Err: fmt.Errorf("failed to decode quoteSummary: %w", err)}
	}
	if e := summary.QuoteSummary.Error; e != nil {
		kind := models.ProviderHTTP
		if strings.EqualFold(e.Code, "Not Found") {
			kind = models.ProviderSymbolNotFound
		}
		return nil, &models.ProviderError{Kind: kind, Symbol: symbol, Err: errors.New(e.Description)}
	}
	if len(summary.QuoteSummary.Result) == 0 {
		return nil, &models.ProviderError{Kind: models.ProviderSymbolNotFound, Symbol: symbol, Err: errors.New("no fundamentals returned")}
	}

	r := summary.QuoteSummary.Result[0]
	ks, sd, fd := r.DefaultKeyStatistics, r.SummaryDetail, r.FinancialData

	m := &models.FundamentalMetrics{
		PERatio:           firstOf(ks.TrailingPE.Raw, sd.TrailingPE.Raw),
		ForwardPE:         ks.ForwardPE.Raw,
		PEGRatio:          ks.PEGRatio.Raw,
		PriceToBook:       ks.PriceToBook.Raw,
		PriceToSales:      sd.PriceToSales.Raw,
		MarketCap:         sd.MarketCap.Raw,
		EPS:               ks.TrailingEps.Raw,
		ForwardEPS:        ks.ForwardEps.Raw,
		Beta:              firstOf(ks.Beta.Raw, sd.Beta.Raw),
		DividendYield:     sd.DividendYield.Raw,
		Week52High:        sd.FiftyTwoWeekHigh.Raw,
		Week52Low:         sd.FiftyTwoWeekLow.Raw,
		ProfitMargin:      fd.ProfitMargins.Raw,
		OperatingMargin:   fd.OperatingMargins.Raw,
		GrossMargin:       fd.GrossMargins.Raw,
		ReturnOnEquity:    fd.ReturnOnEquity.Raw,
		ReturnOnAssets:    fd.ReturnOnAssets.Raw,
		RevenueGrowth:     fd.RevenueGrowth.Raw,
		EarningsGrowth:    fd.EarningsGrowth.Raw,
		CurrentRatio:      fd.CurrentRatio.Raw,
		QuickRatio:        fd.QuickRatio.Raw,
		FreeCashflow:      fd.FreeCashflow.Raw,
		TotalCash:         fd.TotalCash.Raw,
		TotalDebt:         fd.TotalDebt.Raw,
		TargetMeanPrice:   fd.TargetMeanPrice.Raw,
		TargetHighPrice:   fd.TargetHighPrice.Raw,
		TargetLowPrice:    fd.TargetLowPrice.Raw,
		RecommendationKey: fd.RecommendationKey,
	}

	// Yahoo reports debt/equity as a percentage
	if de := fd.DebtToEquity.Raw; de != nil {
		m.DebtToEquity = models.Float64Ptr(*de / 100)
	}
	if n := fd.NumberOfAnalystOpinions.Raw; n != nil {
		count := int(*n)
		m.AnalystCount = &count
	}
	return m, nil
}

func at(values []*float64, i int) *float64 {
	if i < len(values) {
		return values[i]
	}
	return nil
}

func valueOr(v *float64, fallback float64) float64 {
	if v == nil {
		return fallback
	}
	return *v
}

func firstOf(values ...*float64) *float64 {
	for _, v := range values {
		if v != nil {
			return v
		}
	}
	return nil
}

func snippet(body []byte) string {
	s := strings.TrimSpace(string(body))
	if len(s) > 200 {
		s = s[:200]
	}
	return s
}

func redactCrumb(u string) string {
	parsed, err := url.Parse(u)
	if err != nil {
		return u
	}
	q := parsed.Query()
	if q.Has("crumb") {
		q.Set("crumb", "redacted")
		parsed.RawQuery = q.Encode()
	}
	return parsed.String()
}

func recordError(span trace.Span, err error) {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}
