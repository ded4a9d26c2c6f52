package yahoo

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/bobmcallan/tickerscope/internal/models"
)

const chartFixture = `{
  "chart": {
    "result": [{
      "meta": {"currency": "USD", "exchangeName": "NMS", "symbol": "AAPL"},
      "timestamp": [1700172800, 1700000000, 1700086400],
      "indicators": {"quote": [{
        "open":   [103.0, 100.0, null],
        "high":   [104.0, 101.5, null],
        "low":    [102.0, 99.5,  null],
        "close":  [103.5, 101.0, null],
        "volume": [3000,  1000,  null]
      }]}
    }],
    "error": null
  }
}`

const summaryFixture = `{
  "quoteSummary": {
    "result": [{
      "defaultKeyStatistics": {"trailingPE": {}, "forwardPE": {"raw": 18.5}, "pegRatio": {"raw": 0.9}, "beta": {"raw": 1.2}},
      "summaryDetail": {"trailingPE": {"raw": 22.0}, "marketCap": {"raw": 2500000000}, "dividendYield": {"raw": 0}},
      "financialData": {
        "returnOnEquity": {"raw": 0.22},
        "debtToEquity": {"raw": 45.0},
        "recommendationKey": "buy",
        "numberOfAnalystOpinions": {"raw": 31}
      }
    }],
    "error": null
  }
}`

func newTestClient(srv *httptest.Server) *Client {
	sessions := NewSessionManager(srv.URL+"/cookie", srv.URL+"/crumb", time.Hour, srv.Client())
	return NewClient(
		WithHTTPClient(srv.Client()),
		WithChartURL(srv.URL+"/chart"),
		WithSummaryURL(srv.URL+"/summary"),
		WithSessionManager(sessions),
		WithRateLimit(0),
	)
}

func TestFetchSeries_ParsesAndSorts(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chart/AAPL" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		q := r.URL.Query()
		if q.Get("interval") != "1d" {
			t.Errorf("expected interval 1d, got %q", q.Get("interval"))
		}
		if q.Get("includePrePost") != "false" {
			t.Errorf("expected includePrePost=false, got %q", q.Get("includePrePost"))
		}
		if q.Get("period1") == "" || q.Get("period2") == "" {
			t.Error("expected period1 and period2")
		}
		fmt.Fprint(w, chartFixture)
	}))
	defer srv.Close()

	resp, err := newTestClient(srv).FetchSeries(context.Background(), "aapl", models.Period6M, "1d")
	if err != nil {
		t.Fatalf("FetchSeries failed: %v", err)
	}
	if resp.Currency != "USD" || resp.Exchange != "NMS" {
		t.Errorf("unexpected meta: %s %s", resp.Currency, resp.Exchange)
	}
	if len(resp.Data) != 2 {
		t.Fatalf("expected null close dropped, got %d points", len(resp.Data))
	}
	if !resp.Data[0].Timestamp.Before(resp.Data[1].Timestamp) {
		t.Error("expected ascending timestamps")
	}
	if resp.Data[0].Close != 101.0 || resp.Data[1].Close != 103.5 {
		t.Errorf("unexpected closes: %v, %v", resp.Data[0].Close, resp.Data[1].Close)
	}
	if resp.Data[1].Volume != 3000 {
		t.Errorf("expected volume 3000, got %d", resp.Data[1].Volume)
	}
}

func TestFetchSeries_Errors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		kind   models.ProviderErrorKind
	}{
		{"not found status", http.StatusNotFound, `{}`, models.ProviderSymbolNotFound},
		{"chart error", http.StatusOK, `{"chart":{"result":null,"error":{"code":"Not Found","description":"No data found"}}}`, models.ProviderSymbolNotFound},
		{"empty result", http.StatusOK, `{"chart":{"result":[],"error":null}}`, models.ProviderSymbolNotFound},
		{"server error", http.StatusInternalServerError, `oops`, models.ProviderHTTP},
		{"malformed", http.StatusOK, `{not json`, models.ProviderParse},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				fmt.Fprint(w, tt.body)
			}))
			defer srv.Close()

			_, err := newTestClient(srv).FetchSeries(context.Background(), "ZZZZ", models.Period1M, "1d")
			if !models.IsProviderError(err, tt.kind) {
				t.Fatalf("expected %s provider error, got %v", tt.kind, err)
			}
		})
	}
}

func TestFetchSeries_NetworkError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	c := newTestClient(srv)
	srv.Close()

	_, err := c.FetchSeries(context.Background(), "AAPL", models.Period1M, "1d")
	if !models.IsProviderError(err, models.ProviderNetwork) {
		t.Fatalf("expected network error, got %v", err)
	}
}

func TestFetchSeries_RejectsBadInput(t *testing.T) {
	c := NewClient(WithRateLimit(0))

	if _, err := c.FetchSeries(context.Background(), "  ", models.Period1M, "1d"); !errors.Is(err, models.ErrEmptySymbol) {
		t.Errorf("expected ErrEmptySymbol, got %v", err)
	}
	if _, err := c.FetchSeries(context.Background(), "AAPL", "7Y", "1d"); !errors.Is(err, models.ErrUnknownPeriod) {
		t.Errorf("expected ErrUnknownPeriod, got %v", err)
	}
	if _, err := c.FetchSeries(context.Background(), "AAPL", models.Period1M, "3w"); !errors.Is(err, models.ErrUnknownInterval) {
		t.Errorf("expected ErrUnknownInterval, got %v", err)
	}
}

func TestFetchFundamentals_MapsFields(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/cookie":
			http.SetCookie(w, &http.Cookie{Name: "A3", Value: "session"})
			w.WriteHeader(http.StatusNotFound)
		case "/crumb":
			if _, err := r.Cookie("A3"); err != nil {
				t.Error("expected session cookie on crumb request")
			}
			fmt.Fprint(w, "abc123")
		case "/summary/MSFT":
			if r.URL.Query().Get("crumb") != "abc123" {
				t.Errorf("expected crumb abc123, got %q", r.URL.Query().Get("crumb"))
			}
			if !strings.Contains(r.URL.Query().Get("modules"), "financialData") {
				t.Error("expected financialData module")
			}
			fmt.Fprint(w, summaryFixture)
		default:
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
	}))
	defer srv.Close()

	m, err := newTestClient(srv).FetchFundamentals(context.Background(), "MSFT")
	if err != nil {
		t.Fatalf("FetchFundamentals failed: %v", err)
	}

	if m.PERatio == nil || *m.PERatio != 22.0 {
		t.Errorf("expected PE fallback to summaryDetail 22, got %v", m.PERatio)
	}
	if m.PEGRatio == nil || *m.PEGRatio != 0.9 {
		t.Errorf("expected PEG 0.9, got %v", m.PEGRatio)
	}
	if m.DebtToEquity == nil || *m.DebtToEquity != 0.45 {
		t.Errorf("expected D/E 0.45, got %v", m.DebtToEquity)
	}
	if m.DividendYield == nil || *m.DividendYield != 0 {
		t.Errorf("expected present zero dividend yield, got %v", m.DividendYield)
	}
	if m.ProfitMargin != nil {
		t.Errorf("expected absent profit margin, got %v", *m.ProfitMargin)
	}
	if m.RecommendationKey != "buy" {
		t.Errorf("expected recommendation buy, got %q", m.RecommendationKey)
	}
	if m.AnalystCount == nil || *m.AnalystCount != 31 {
		t.Errorf("expected 31 analysts, got %v", m.AnalystCount)
	}
}

func TestFetchFundamentals_RetriesOnceAfterUnauthorized(t *testing.T) {
	var crumbCalls, summaryCalls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/cookie":
			w.WriteHeader(http.StatusOK)
		case "/crumb":
			n := atomic.AddInt32(&crumbCalls, 1)
			fmt.Fprintf(w, "crumb-%d", n)
		case "/summary/MSFT":
			atomic.AddInt32(&summaryCalls, 1)
			if r.URL.Query().Get("crumb") == "crumb-1" {
				w.WriteHeader(http.StatusUnauthorized)
				return
			}
			fmt.Fprint(w, summaryFixture)
		}
	}))
	defer srv.Close()

	if _, err := newTestClient(srv).FetchFundamentals(context.Background(), "MSFT"); err != nil {
		t.Fatalf("expected retry to succeed, got %v", err)
	}
	if crumbCalls != 2 {
		t.Errorf("expected 2 crumb fetches, got %d", crumbCalls)
	}
	if summaryCalls != 2 {
		t.Errorf("expected 2 summary calls, got %d", summaryCalls)
	}
}

func TestFetchFundamentals_GivesUpAfterSecondUnauthorized(t *testing.T) {
	var summaryCalls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/crumb":
			fmt.Fprint(w, "crumb")
		case "/summary/MSFT":
			atomic.AddInt32(&summaryCalls, 1)
			w.WriteHeader(http.StatusUnauthorized)
		}
	}))
	defer srv.Close()

	_, err := newTestClient(srv).FetchFundamentals(context.Background(), "MSFT")
	if !models.IsProviderError(err, models.ProviderHTTP) {
		t.Fatalf("expected http provider error, got %v", err)
	}
	if summaryCalls != 2 {
		t.Errorf("expected exactly 2 attempts, got %d", summaryCalls)
	}
}

func TestSessionManager_CachesUntilExpiry(t *testing.T) {
	var crumbCalls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/crumb" {
			atomic.AddInt32(&crumbCalls, 1)
			fmt.Fprint(w, "crumb")
		}
	}))
	defer srv.Close()

	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	m := NewSessionManager(srv.URL+"/cookie", srv.URL+"/crumb", time.Hour, srv.Client())
	m.now = func() time.Time { return now }

	for i := 0; i < 3; i++ {
		if _, err := m.Get(context.Background()); err != nil {
			t.Fatalf("Get failed: %v", err)
		}
	}
	if crumbCalls != 1 {
		t.Errorf("expected 1 crumb fetch, got %d", crumbCalls)
	}

	now = now.Add(61 * time.Minute)
	if _, err := m.Get(context.Background()); err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if crumbCalls != 2 {
		t.Errorf("expected refresh after ttl, got %d fetches", crumbCalls)
	}

	m.Invalidate()
	if _, err := m.Get(context.Background()); err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if crumbCalls != 3 {
		t.Errorf("expected refresh after invalidate, got %d fetches", crumbCalls)
	}
}

func TestSessionManager_RejectsHTMLCrumb(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "<!DOCTYPE html><html></html>")
	}))
	defer srv.Close()

	m := NewSessionManager(srv.URL+"/cookie", srv.URL+"/crumb", time.Hour, srv.Client())
	if _, err := m.Get(context.Background()); !errors.Is(err, errInvalidCrumb) {
		t.Fatalf("expected errInvalidCrumb, got %v", err)
	}
}

func TestRedactCrumb(t *testing.T) {
	got := redactCrumb("https://example.com/summary/MSFT?crumb=secret&modules=x")
	if strings.Contains(got, "secret") {
		t.Errorf("crumb not redacted: %s", got)
	}
}
