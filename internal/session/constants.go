// Package session holds the identity provider's cookie constants shared by
// the handler and middleware packages.
package session

const (
	// CookieName is the cookie the identity provider sets with the session JWT.
	CookieName = "__session"

	// BearerPrefix precedes the session token in Authorization headers.
	BearerPrefix = "Bearer "
)
