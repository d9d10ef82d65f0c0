// Package auth verifies identity-provider sessions and carries the caller's
// identity through request contexts.
//
// It is imported by both middleware and handler packages, so it must not
// import either.
package auth

import (
	"context"
	"net/http"

	"github.com/DukeRupert/schooldash/internal/domain"
)

// contextKey is a custom type for context keys to avoid collisions.
type contextKey string

const identityContextKey contextKey = "identity"

// GetIdentity retrieves the authenticated caller from the context.
//
// Returns nil if the request carried no valid session.
func GetIdentity(ctx context.Context) *domain.Identity {
	id, ok := ctx.Value(identityContextKey).(*domain.Identity)
	if !ok {
		return nil
	}
	return id
}

// GetIdentityFromRequest is GetIdentity for a request.
func GetIdentityFromRequest(r *http.Request) *domain.Identity {
	return GetIdentity(r.Context())
}

// SetIdentity stores the caller in the context.
func SetIdentity(ctx context.Context, id *domain.Identity) context.Context {
	return context.WithValue(ctx, identityContextKey, id)
}
