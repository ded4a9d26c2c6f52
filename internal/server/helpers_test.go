package server

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestPathParam(t *testing.T) {
	tests := []struct {
		path, prefix, suffix, want string
	}{
		{"/api/analysis/AAPL", "/api/analysis/", "", "AAPL"},
		{"/api/analysis/AAPL/extra", "/api/analysis/", "", "AAPL"},
		{"/api/watchlist/MSFT/quote", "/api/watchlist/", "/quote", "MSFT"},
		{"/api/other/MSFT", "/api/watchlist/", "", ""},
	}

	for _, tt := range tests {
		req := httptest.NewRequest(http.MethodGet, tt.path, nil)
		if got := PathParam(req, tt.prefix, tt.suffix); got != tt.want {
			t.Errorf("PathParam(%q, %q, %q) = %q, want %q", tt.path, tt.prefix, tt.suffix, got, tt.want)
		}
	}
}

func TestDecodeJSON_Invalid(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader("{"))
	rr := httptest.NewRecorder()
	var v map[string]interface{}
	if DecodeJSON(rr, req, &v) {
		t.Fatal("expected decode failure")
	}
	if rr.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rr.Code)
	}
}

func TestDecodeOptionalJSON(t *testing.T) {
	var v struct {
		Symbols []string `json:"symbols"`
	}

	req := httptest.NewRequest(http.MethodPost, "/", nil)
	if !DecodeOptionalJSON(httptest.NewRecorder(), req, &v) {
		t.Error("empty body should be accepted")
	}

	req = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"symbols":["A"]}`))
	if !DecodeOptionalJSON(httptest.NewRecorder(), req, &v) || len(v.Symbols) != 1 {
		t.Errorf("expected one symbol, got %v", v.Symbols)
	}

	rr := httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`[`))
	if DecodeOptionalJSON(rr, req, &v) {
		t.Error("expected decode failure")
	}
	if rr.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rr.Code)
	}
}
