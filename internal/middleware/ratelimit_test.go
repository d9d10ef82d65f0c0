package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/DukeRupert/schooldash/internal/domain"
)

// =============================================================================
// RateLimiter Tests
// =============================================================================

// newTestRateLimiter returns a limiter on a controllable clock.
func newTestRateLimiter(t *testing.T, max int, window time.Duration) (*RateLimiter, *time.Time) {
	t.Helper()
	rl := NewRateLimiter(max, window)
	t.Cleanup(rl.Stop)

	now := time.Date(2026, 10, 15, 9, 0, 0, 0, time.UTC)
	rl.now = func() time.Time { return now }
	return rl, &now
}

func TestRateLimiter_Allow(t *testing.T) {
	rl, _ := newTestRateLimiter(t, 3, time.Minute)

	for i := 0; i < 3; i++ {
		if !rl.Allow("ip:192.168.1.1") {
			t.Fatalf("request %d should be allowed", i+1)
		}
	}
	if rl.Allow("ip:192.168.1.1") {
		t.Error("4th request should be denied")
	}
	if !rl.Allow("ip:192.168.1.2") {
		t.Error("a different key should have its own budget")
	}
}

func TestRateLimiter_WindowExpiry(t *testing.T) {
	rl, now := newTestRateLimiter(t, 1, time.Minute)

	rl.Allow("k")
	if rl.Allow("k") {
		t.Fatal("second request in the window should be denied")
	}

	*now = now.Add(40 * time.Second)
	if got := rl.TimeUntilReset("k"); got != 20*time.Second {
		t.Errorf("TimeUntilReset = %v, want 20s", got)
	}

	*now = now.Add(21 * time.Second)
	if !rl.Allow("k") {
		t.Error("request after the window should be allowed")
	}
}

func TestRateLimiter_TimeUntilReset_UnknownKey(t *testing.T) {
	rl, _ := newTestRateLimiter(t, 1, time.Minute)
	if got := rl.TimeUntilReset("nobody"); got != 0 {
		t.Errorf("TimeUntilReset = %v, want 0", got)
	}
}

// =============================================================================
// RateLimitMiddleware Tests
// =============================================================================

func TestRateLimitMiddleware_BlocksAfterLimit(t *testing.T) {
	rl, _ := newTestRateLimiter(t, 2, time.Minute)
	wrapped := NewRateLimitMiddleware(rl, discardLogger()).Limit(statusHandler(http.StatusOK))

	var last *httptest.ResponseRecorder
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest("POST", "/api/grades", nil)
		req.RemoteAddr = "192.168.1.1:12345"
		last = httptest.NewRecorder()
		wrapped.ServeHTTP(last, req)
	}

	if last.Code != http.StatusTooManyRequests {
		t.Fatalf("status = %d, want %d", last.Code, http.StatusTooManyRequests)
	}
	if got := last.Header().Get("Retry-After"); got != "60" {
		t.Errorf("Retry-After = %q, want %q", got, "60")
	}

	var body struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	if err := json.NewDecoder(last.Body).Decode(&body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body.Error.Code != domain.ERATELIMIT {
		t.Errorf("error code = %q, want %q", body.Error.Code, domain.ERATELIMIT)
	}
}

func TestRateLimitMiddleware_KeysByIdentity(t *testing.T) {
	rl, _ := newTestRateLimiter(t, 1, time.Minute)
	wrapped := NewRateLimitMiddleware(rl, discardLogger()).Limit(statusHandler(http.StatusOK))

	// Two users behind the same IP each get their own budget.
	for _, id := range []*domain.Identity{adminID, teacherID} {
		req := withIdentity(httptest.NewRequest("POST", "/api/grades", nil), id)
		req.RemoteAddr = "10.0.0.1:1"
		rec := httptest.NewRecorder()
		wrapped.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Errorf("%s: status = %d, want 200", id.UserID, rec.Code)
		}
	}
}

func TestGetClientIP(t *testing.T) {
	tests := []struct {
		name    string
		remote  string
		headers map[string]string
		want    string
	}{
		{"remote addr", "192.168.1.1:12345", nil, "192.168.1.1"},
		{"remote addr without port", "192.168.1.1", nil, "192.168.1.1"},
		{"forwarded for", "10.0.0.1:1", map[string]string{"X-Forwarded-For": "203.0.113.7, 10.0.0.1"}, "203.0.113.7"},
		{"real ip", "10.0.0.1:1", map[string]string{"X-Real-IP": " 198.51.100.4 "}, "198.51.100.4"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/", nil)
			req.RemoteAddr = tt.remote
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}
			if got := getClientIP(req); got != tt.want {
				t.Errorf("getClientIP() = %q, want %q", got, tt.want)
			}
		})
	}
}
