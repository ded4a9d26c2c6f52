package server

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/bobmcallan/tickerscope/internal/common"
)

const testSecret = "test-secret"

func signTestToken(t *testing.T, secret string, exp time.Time) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "tester",
		"iat": time.Now().Unix(),
		"exp": exp.Unix(),
	})
	s, err := token.SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("failed to sign token: %v", err)
	}
	return s
}

func withAuth(cfg *common.Config) {
	cfg.Auth.JWTSecret = testSecret
}

func TestBearerAuth_PublicPathsOpen(t *testing.T) {
	ts := newTestServer(t, withAuth)

	for _, path := range []string{"/api/health", "/api/version"} {
		rr := doRequest(ts, http.MethodGet, path, "")
		if rr.Code != http.StatusOK {
			t.Errorf("%s: expected 200 without token, got %d", path, rr.Code)
		}
	}
}

func TestBearerAuth_RequiresToken(t *testing.T) {
	ts := newTestServer(t, withAuth)

	rr := doRequest(ts, http.MethodGet, "/api/scan", "")
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rr.Code)
	}
	if rr.Header().Get("WWW-Authenticate") == "" {
		t.Error("expected WWW-Authenticate header")
	}
}

func TestBearerAuth_ValidToken(t *testing.T) {
	ts := newTestServer(t, withAuth)

	req := httptest.NewRequest(http.MethodGet, "/api/scan", nil)
	req.Header.Set("Authorization", "Bearer "+signTestToken(t, testSecret, time.Now().Add(time.Hour)))
	rr := httptest.NewRecorder()
	ts.Handler().ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Errorf("expected 200 with valid token, got %d", rr.Code)
	}
}

func TestBearerAuth_RejectsBadTokens(t *testing.T) {
	ts := newTestServer(t, withAuth)

	tokens := map[string]string{
		"wrong secret": signTestToken(t, "other-secret", time.Now().Add(time.Hour)),
		"expired":      signTestToken(t, testSecret, time.Now().Add(-time.Hour)),
		"garbage":      "not.a.token",
	}

	for name, tok := range tokens {
		req := httptest.NewRequest(http.MethodGet, "/api/batch", nil)
		req.Header.Set("Authorization", "Bearer "+tok)
		rr := httptest.NewRecorder()
		ts.Handler().ServeHTTP(rr, req)
		if rr.Code != http.StatusUnauthorized {
			t.Errorf("%s: expected 401, got %d", name, rr.Code)
		}
	}
}

func TestBearerAuth_WebSocketQueryToken(t *testing.T) {
	handler := bearerTokenMiddleware(&common.Config{Auth: common.AuthConfig{JWTSecret: testSecret}})(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		}))

	tok := signTestToken(t, testSecret, time.Now().Add(time.Hour))

	req := httptest.NewRequest(http.MethodGet, "/ws?access_token="+tok, nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Errorf("/ws with query token: expected 200, got %d", rr.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/scan?access_token="+tok, nil)
	rr = httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	if rr.Code != http.StatusUnauthorized {
		t.Errorf("query token outside /ws: expected 401, got %d", rr.Code)
	}
}

func TestAuthDisabledWithoutSecret(t *testing.T) {
	ts := newTestServer(t)
	rr := doRequest(ts, http.MethodGet, "/api/scan", "")
	if rr.Code != http.StatusOK {
		t.Errorf("expected 200 with auth disabled, got %d", rr.Code)
	}
}

func TestCorrelationIDMiddleware(t *testing.T) {
	ts := newTestServer(t)

	rr := doRequest(ts, http.MethodGet, "/api/health", "")
	if got := rr.Header().Get("X-Correlation-ID"); len(got) != 8 {
		t.Errorf("expected generated 8 char correlation id, got %q", got)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	req.Header.Set("X-Request-ID", "req-123")
	rr = httptest.NewRecorder()
	ts.Handler().ServeHTTP(rr, req)
	if got := rr.Header().Get("X-Correlation-ID"); got != "req-123" {
		t.Errorf("expected propagated id req-123, got %q", got)
	}
}

func TestCORSPreflight(t *testing.T) {
	ts := newTestServer(t, withAuth)

	rr := doRequest(ts, http.MethodOptions, "/api/scan/start", "")
	if rr.Code != http.StatusNoContent {
		t.Errorf("expected 204 for preflight, got %d", rr.Code)
	}
	if rr.Header().Get("Access-Control-Allow-Origin") != "*" {
		t.Error("expected CORS origin header")
	}
}

func TestRecoveryMiddleware(t *testing.T) {
	handler := recoveryMiddleware(common.NewSilentLogger())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/scan", nil))
	if rr.Code != http.StatusInternalServerError {
		t.Errorf("expected 500, got %d", rr.Code)
	}
}
