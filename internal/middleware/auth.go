// Package middleware contains HTTP middleware for the school dashboard.
//
// Middleware functions follow the standard Go pattern of wrapping http.Handler
// and are composed with Stack.
package middleware

import (
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/DukeRupert/schooldash/internal/auth"
	"github.com/DukeRupert/schooldash/internal/domain"
	"github.com/DukeRupert/schooldash/internal/handler"
	"github.com/DukeRupert/schooldash/internal/metrics"
	"github.com/DukeRupert/schooldash/internal/session"
)

// SessionVerifier turns a session token into the identity it asserts.
// *auth.Verifier implements it.
type SessionVerifier interface {
	Verify(token string) (*domain.Identity, error)
}

// AuthMiddleware provides identity and role checks.
//
// Create one instance and use its methods as middleware.
type AuthMiddleware struct {
	verifier  SessionVerifier
	signInURL string
	logger    *slog.Logger
}

// NewAuthMiddleware creates a new AuthMiddleware. Unauthenticated browsers
// are sent to signInURL, the identity provider's hosted sign-in page.
func NewAuthMiddleware(verifier SessionVerifier, signInURL string, logger *slog.Logger) *AuthMiddleware {
	return &AuthMiddleware{
		verifier:  verifier,
		signInURL: signInURL,
		logger:    logger,
	}
}

// WithIdentity verifies the session token from the __session cookie or a
// Bearer Authorization header and stores the identity in the request context.
// It always calls next; an absent or invalid session just leaves the context
// without an identity.
//
// The identity can be retrieved in handlers using:
//
//	id := auth.GetIdentity(r.Context())
func (m *AuthMiddleware) WithIdentity(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := sessionToken(r)
		if token == "" {
			next.ServeHTTP(w, r)
			return
		}

		id, err := m.verifier.Verify(token)
		if err != nil {
			m.logger.Debug("session rejected", "error", err, "path", r.URL.Path)
			metrics.SessionRejected()
			next.ServeHTTP(w, r)
			return
		}

		next.ServeHTTP(w, r.WithContext(auth.SetIdentity(r.Context(), id)))
	})
}

// RequireIdentity requires an authenticated caller.
//
// IMPORTANT: This middleware must be used AFTER WithIdentity in the chain.
//
// Unauthenticated API requests get 401; browsers are redirected to the
// sign-in page with a redirect_url back to where they were going.
func (m *AuthMiddleware) RequireIdentity(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if auth.GetIdentity(r.Context()) == nil {
			m.unauthenticated(w, r)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireRoles allows only callers whose role is one of roles.
//
// IMPORTANT: Use this AFTER WithIdentity. A missing identity is handled like
// RequireIdentity. Other roles get 403 (API) or are sent to their own
// dashboard (HTML).
func (m *AuthMiddleware) RequireRoles(roles ...domain.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := auth.GetIdentity(r.Context())
			if id == nil {
				m.unauthenticated(w, r)
				return
			}
			if !id.Role.In(roles...) {
				m.forbidden(w, r, id)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireAccess applies the route access map to every request: paths with a
// rule need an identity holding one of the rule's roles, other paths pass.
func (m *AuthMiddleware) RequireAccess(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		roles, ok := AllowedRoles(r.URL.Path)
		if !ok {
			next.ServeHTTP(w, r)
			return
		}

		id := auth.GetIdentity(r.Context())
		if id == nil {
			m.unauthenticated(w, r)
			return
		}
		if !id.Role.In(roles...) {
			m.forbidden(w, r, id)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (m *AuthMiddleware) unauthenticated(w http.ResponseWriter, r *http.Request) {
	if isAPIRequest(r) {
		handler.UnauthorizedResponse(w, r, m.logger)
		return
	}
	http.Redirect(w, r, m.signInRedirect(r), http.StatusSeeOther)
}

func (m *AuthMiddleware) forbidden(w http.ResponseWriter, r *http.Request, id *domain.Identity) {
	m.logger.Info("role denied",
		"user_id", id.UserID,
		"role", id.Role,
		"path", r.URL.Path,
	)
	if isAPIRequest(r) {
		handler.ForbiddenResponse(w, r, m.logger)
		return
	}
	http.Redirect(w, r, id.Role.HomePath(), http.StatusSeeOther)
}

// signInRedirect builds the sign-in URL carrying the current path.
func (m *AuthMiddleware) signInRedirect(r *http.Request) string {
	back := r.URL.Path
	if r.URL.RawQuery != "" {
		back += "?" + r.URL.RawQuery
	}

	u, err := url.Parse(m.signInURL)
	if err != nil {
		return m.signInURL
	}
	q := u.Query()
	q.Set("redirect_url", back)
	u.RawQuery = q.Encode()
	return u.String()
}

// sessionToken reads the session JWT, preferring the cookie.
func sessionToken(r *http.Request) string {
	if c, err := r.Cookie(session.CookieName); err == nil && c.Value != "" {
		return c.Value
	}
	if h := r.Header.Get("Authorization"); strings.HasPrefix(h, session.BearerPrefix) {
		return strings.TrimSpace(strings.TrimPrefix(h, session.BearerPrefix))
	}
	return ""
}

// isAPIRequest determines if the request expects a JSON response.
//
// Checks:
// 1. Accept header contains application/json
// 2. Content-Type is application/json
// 3. URL path starts with /api/
// 4. HX-Request header is NOT present (htmx wants HTML)
func isAPIRequest(r *http.Request) bool {
	if r.Header.Get("HX-Request") == "true" {
		return false
	}
	if strings.Contains(r.Header.Get("Accept"), "application/json") {
		return true
	}
	if strings.Contains(r.Header.Get("Content-Type"), "application/json") {
		return true
	}
	return strings.HasPrefix(r.URL.Path, "/api/")
}

// Stack composes multiple middleware functions into a single middleware.
//
// Middleware is applied in the order provided, meaning the first middleware
// in the slice is the outermost (runs first on request, last on response).
//
// Example:
//
//	stack := Stack(loggingMw, authMw.WithIdentity, authMw.RequireIdentity)
//	mux.Handle("GET /admin", stack(adminHandler))
func Stack(middlewares ...func(http.Handler) http.Handler) func(http.Handler) http.Handler {
	return func(final http.Handler) http.Handler {
		for i := len(middlewares) - 1; i >= 0; i-- {
			final = middlewares[i](final)
		}
		return final
	}
}

var (
	_ func(http.Handler) http.Handler = (&AuthMiddleware{}).WithIdentity
	_ func(http.Handler) http.Handler = (&AuthMiddleware{}).RequireIdentity
	_ func(http.Handler) http.Handler = (&AuthMiddleware{}).RequireAccess
	_ SessionVerifier                 = (*auth.Verifier)(nil)
)
