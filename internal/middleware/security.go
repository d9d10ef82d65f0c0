package middleware

import (
	"net/http"
	"strings"
)

// SecurityHeadersMiddleware adds HTTP security headers to all responses.
type SecurityHeadersMiddleware struct {
	isSecure bool
	csp      string
}

// NewSecurityHeadersMiddleware creates a new security headers middleware.
// Set isSecure in production to enable HSTS. authOrigin is the identity
// provider's origin (e.g. https://accounts.school.example); its scripts and
// frames are allowed when set.
func NewSecurityHeadersMiddleware(isSecure bool, authOrigin string) *SecurityHeadersMiddleware {
	return &SecurityHeadersMiddleware{
		isSecure: isSecure,
		csp:      buildCSP(authOrigin),
	}
}

// Handler returns middleware that sets security headers on all responses.
func (m *SecurityHeadersMiddleware) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("X-Frame-Options", "DENY")
		h.Set("X-Content-Type-Options", "nosniff")
		h.Set("Referrer-Policy", "strict-origin-when-cross-origin")

		if m.isSecure {
			// 1 year
			h.Set("Strict-Transport-Security", "max-age=31536000; includeSubDomains")
		}

		h.Set("Content-Security-Policy", m.csp)
		h.Set("Permissions-Policy", "geolocation=(), microphone=(), camera=()")

		next.ServeHTTP(w, r)
	})
}

// chartCDN serves the chart and calendar widgets.
const chartCDN = "https://cdn.jsdelivr.net"

func buildCSP(authOrigin string) string {
	scripts := []string{"'self'", "https://unpkg.com", chartCDN, "'unsafe-inline'"}
	connect := []string{"'self'"}
	frames := []string{"'none'"}
	if authOrigin != "" {
		scripts = append(scripts, authOrigin)
		connect = append(connect, authOrigin)
		frames = []string{authOrigin}
	}

	directives := []string{
		"default-src 'self'",
		"script-src " + strings.Join(scripts, " "),
		"style-src 'self' 'unsafe-inline' " + chartCDN,
		// Profile photos come from object storage over HTTPS.
		"img-src 'self' data: https:",
		"font-src 'self'",
		"connect-src " + strings.Join(connect, " "),
		"frame-src " + strings.Join(frames, " "),
		"frame-ancestors 'none'",
		"base-uri 'self'",
		"form-action 'self'",
	}
	return strings.Join(directives, "; ")
}
