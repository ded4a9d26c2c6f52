package yahoo

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"
)

// Session is the cookie and crumb pair required by quoteSummary
type Session struct {
	Crumb     string
	Cookies   []*http.Cookie
	ExpiresAt time.Time
}

// Valid reports whether the session can still be used at now
func (s *Session) Valid(now time.Time) bool {
	return s != nil && s.Crumb != "" && now.Before(s.ExpiresAt)
}

var errInvalidCrumb = errors.New("crumb endpoint returned an invalid crumb")

// SessionManager acquires and caches a crumb session. It is safe for
// concurrent use and refreshes the session after ttl or on Invalidate.
type SessionManager struct {
	mu         sync.Mutex
	httpClient *http.Client
	cookieURL  string
	crumbURL   string
	userAgent  string
	ttl        time.Duration
	now        func() time.Time
	session    *Session
}

// NewSessionManager creates a session manager for the given endpoints
func NewSessionManager(cookieURL, crumbURL string, ttl time.Duration, httpClient *http.Client) *SessionManager {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: DefaultTimeout}
	}
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	return &SessionManager{
		httpClient: httpClient,
		cookieURL:  cookieURL,
		crumbURL:   crumbURL,
		userAgent:  defaultUserAgent,
		ttl:        ttl,
		now:        time.Now,
	}
}

// Get returns the cached session or acquires a new one
func (m *SessionManager) Get(ctx context.Context) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.session.Valid(m.now()) {
		return m.session, nil
	}

	s, err := m.acquire(ctx)
	if err != nil {
		return nil, err
	}
	m.session = s
	return s, nil
}

// Invalidate drops the cached session
func (m *SessionManager) Invalidate() {
	m.mu.Lock()
	m.session = nil
	m.mu.Unlock()
}

func (m *SessionManager) acquire(ctx context.Context) (*Session, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, m.cookieURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create cookie request: %w", err)
	}
	req.Header.Set("User-Agent", m.userAgent)

	resp, err := m.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch session cookies: %w", err)
	}
	// the cookie endpoint answers 404 but still sets the cookie
	io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
	cookies := resp.Cookies()

	req, err = http.NewRequestWithContext(ctx, http.MethodGet, m.crumbURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create crumb request: %w", err)
	}
	req.Header.Set("User-Agent", m.userAgent)
	for _, c := range cookies {
		req.AddCookie(c)
	}

	resp, err = m.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch crumb: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 4096))
	if err != nil {
		return nil, fmt.Errorf("failed to read crumb: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("crumb request failed with status %d", resp.StatusCode)
	}

	crumb := strings.TrimSpace(string(body))
	lower := strings.ToLower(crumb)
	if crumb == "" || strings.Contains(lower, "<!doctype") || strings.Contains(lower, "<html") {
		return nil, errInvalidCrumb
	}

	return &Session{
		Crumb:     crumb,
		Cookies:   cookies,
		ExpiresAt: m.now().Add(m.ttl),
	}, nil
}
