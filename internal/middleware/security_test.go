package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

// =============================================================================
// Security Headers Middleware Tests
// =============================================================================

func serveWithSecurityHeaders(isSecure bool, authOrigin string) *httptest.ResponseRecorder {
	mw := NewSecurityHeadersMiddleware(isSecure, authOrigin)
	rec := httptest.NewRecorder()
	mw.Handler(statusHandler(http.StatusOK)).ServeHTTP(rec, httptest.NewRequest("GET", "/admin", nil))
	return rec
}

func TestSecurityHeadersMiddleware_SetsAllHeaders(t *testing.T) {
	rec := serveWithSecurityHeaders(false, "")

	expected := map[string]string{
		"X-Frame-Options":        "DENY",
		"X-Content-Type-Options": "nosniff",
		"Referrer-Policy":        "strict-origin-when-cross-origin",
		"Permissions-Policy":     "geolocation=(), microphone=(), camera=()",
	}
	for header, want := range expected {
		if got := rec.Header().Get(header); got != want {
			t.Errorf("%s = %q, want %q", header, got, want)
		}
	}
	if rec.Header().Get("Content-Security-Policy") == "" {
		t.Error("Content-Security-Policy should be set")
	}
}

func TestSecurityHeadersMiddleware_HSTSOnlyWhenSecure(t *testing.T) {
	if got := serveWithSecurityHeaders(true, "").Header().Get("Strict-Transport-Security"); !strings.Contains(got, "max-age=31536000") {
		t.Errorf("HSTS = %q, want max-age=31536000", got)
	}
	if got := serveWithSecurityHeaders(false, "").Header().Get("Strict-Transport-Security"); got != "" {
		t.Errorf("HSTS should not be set in development, got %q", got)
	}
}

func TestSecurityHeadersMiddleware_CSPAllowsChartWidgets(t *testing.T) {
	csp := serveWithSecurityHeaders(false, "").Header().Get("Content-Security-Policy")

	for _, want := range []string{
		"default-src 'self'",
		"script-src 'self' https://unpkg.com https://cdn.jsdelivr.net",
		"img-src 'self' data: https:",
		"frame-ancestors 'none'",
		"frame-src 'none'",
	} {
		if !strings.Contains(csp, want) {
			t.Errorf("CSP should contain %q, got: %s", want, csp)
		}
	}
}

func TestSecurityHeadersMiddleware_CSPAllowsIdentityProvider(t *testing.T) {
	origin := "https://accounts.school.test"
	csp := serveWithSecurityHeaders(false, origin).Header().Get("Content-Security-Policy")

	for _, want := range []string{
		"connect-src 'self' " + origin,
		"frame-src " + origin,
	} {
		if !strings.Contains(csp, want) {
			t.Errorf("CSP should contain %q, got: %s", want, csp)
		}
	}
	if !strings.Contains(csp, "script-src") || !strings.Contains(csp, origin+";") {
		t.Errorf("script-src should allow %s, got: %s", origin, csp)
	}
}

func TestSecurityHeadersMiddleware_PassesThroughRequests(t *testing.T) {
	called := false
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		w.WriteHeader(http.StatusAccepted)
	})

	rec := httptest.NewRecorder()
	NewSecurityHeadersMiddleware(false, "").Handler(next).ServeHTTP(rec, httptest.NewRequest("POST", "/api/grades", nil))

	if !called {
		t.Error("handler should be called")
	}
	if rec.Code != http.StatusAccepted {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusAccepted)
	}
}
