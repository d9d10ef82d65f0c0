package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/DukeRupert/schooldash/internal/domain"
)

var (
	ErrTokenEmpty   = errors.New("auth: empty session token")
	ErrTokenInvalid = errors.New("auth: invalid session token")
	ErrUnknownRole  = errors.New("auth: session has no known role")
)

// clockSkew is tolerated on exp/nbf/iat between us and the provider.
const clockSkew = 5 * time.Second

// VerifierConfig selects how session tokens are checked. Exactly one of
// Secret (HS256) or PublicKeyPEM (RS256) must be set.
type VerifierConfig struct {
	Secret       string
	PublicKeyPEM string
	Issuer       string // optional expected "iss"
}

// Verifier checks the identity provider's session JWTs.
type Verifier struct {
	key    any
	parser *jwt.Parser
}

// sessionClaims is the provider's session payload. The dashboard role lives
// in the user's public metadata.
type sessionClaims struct {
	jwt.RegisteredClaims
	Metadata struct {
		Role string `json:"role"`
	} `json:"metadata"`
}

// NewVerifier builds a Verifier from cfg.
func NewVerifier(cfg VerifierConfig) (*Verifier, error) {
	opts := []jwt.ParserOption{
		jwt.WithExpirationRequired(),
		jwt.WithLeeway(clockSkew),
	}
	if cfg.Issuer != "" {
		opts = append(opts, jwt.WithIssuer(cfg.Issuer))
	}

	v := &Verifier{}
	switch {
	case cfg.PublicKeyPEM != "":
		key, err := jwt.ParseRSAPublicKeyFromPEM([]byte(cfg.PublicKeyPEM))
		if err != nil {
			return nil, fmt.Errorf("parse session public key: %w", err)
		}
		v.key = key
		opts = append(opts, jwt.WithValidMethods([]string{jwt.SigningMethodRS256.Alg()}))
	case cfg.Secret != "":
		v.key = []byte(cfg.Secret)
		opts = append(opts, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	default:
		return nil, errors.New("auth: a session secret or public key is required")
	}
	v.parser = jwt.NewParser(opts...)
	return v, nil
}

// Verify validates token and returns the identity it asserts.
func (v *Verifier) Verify(token string) (*domain.Identity, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, ErrTokenEmpty
	}

	claims := &sessionClaims{}
	parsed, err := v.parser.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		return v.key, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTokenInvalid, err)
	}
	if !parsed.Valid {
		return nil, ErrTokenInvalid
	}

	if claims.Subject == "" {
		return nil, fmt.Errorf("%w: missing sub", ErrTokenInvalid)
	}
	role, ok := domain.ParseRole(claims.Metadata.Role)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownRole, claims.Metadata.Role)
	}

	return &domain.Identity{UserID: claims.Subject, Role: role}, nil
}
