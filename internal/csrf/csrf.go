// Package csrf protects the dashboard's HTML forms with the double-submit
// cookie pattern: a random token is set in a cookie and echoed in a hidden
// form field (or the X-CSRF-Token header for htmx), and unsafe requests are
// accepted only when both match. The session cookie belongs to the identity
// provider, so the token cannot be tied to it.
package csrf

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"net/http"
)

const (
	CookieName    = "csrf_token"
	FormFieldName = "csrf_token"
	HeaderName    = "X-CSRF-Token"

	// TokenLength is the number of random bytes (256 bits).
	TokenLength = 32

	// CookieMaxAge is one hour; forms older than that must be reloaded.
	CookieMaxAge = 3600
)

// GenerateToken returns 32 random bytes, base64 URL-encoded (43 chars).
func GenerateToken() (string, error) {
	b := make([]byte, TokenLength)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("csrf: generate token: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

// ValidateToken compares the tokens in constant time. Empty tokens never match.
func ValidateToken(cookieToken, submitted string) bool {
	if cookieToken == "" || submitted == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(cookieToken), []byte(submitted)) == 1
}

// ValidateRequest checks the submitted token against the cookie. The header
// is consulted first; otherwise the form field is read, so multipart bodies
// must already be parsed (or size-limited) by the caller.
func ValidateRequest(r *http.Request) bool {
	cookie, err := r.Cookie(CookieName)
	if err != nil {
		return false
	}
	submitted := r.Header.Get(HeaderName)
	if submitted == "" {
		submitted = r.FormValue(FormFieldName)
	}
	return ValidateToken(cookie.Value, submitted)
}

// SetCookie sets the token cookie. It is not HttpOnly so htmx can copy it
// into the request header.
func SetCookie(w http.ResponseWriter, token string, isSecure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   CookieMaxAge,
		HttpOnly: false,
		Secure:   isSecure,
		SameSite: http.SameSiteStrictMode,
	})
}

// EnsureToken returns the request's token, issuing a new cookie when there
// is none. Handlers call it when rendering a form.
func EnsureToken(w http.ResponseWriter, r *http.Request, isSecure bool) (string, error) {
	if c, err := r.Cookie(CookieName); err == nil && c.Value != "" {
		return c.Value, nil
	}
	return RefreshToken(w, isSecure)
}

// RefreshToken rotates the token after a successful submission.
func RefreshToken(w http.ResponseWriter, isSecure bool) (string, error) {
	token, err := GenerateToken()
	if err != nil {
		return "", err
	}
	SetCookie(w, token, isSecure)
	return token, nil
}
