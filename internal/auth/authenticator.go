package auth

import (
	"errors"
	"strings"
)

var (
	ErrMissingToken   = errors.New("missing authorization token")
	ErrMalformedToken = errors.New("invalid authorization header format")
	ErrInvalidToken   = errors.New("invalid or expired token")
	ErrNotConfigured  = errors.New("authentication not configured")
)

// Identity is the caller resolved from a bearer token
type Identity struct {
	UserID string
	Email  string
	Name   string
}

// Authenticator resolves bearer tokens, trying the JWKS verifier first and the
// legacy HMAC secret second.
type Authenticator struct {
	verifier  TokenVerifier
	jwtSecret string
}

// NewAuthenticator accepts a nil verifier or an empty secret, but not both
// if requests are expected to pass.
func NewAuthenticator(verifier TokenVerifier, jwtSecret string) *Authenticator {
	return &Authenticator{
		verifier:  verifier,
		jwtSecret: jwtSecret,
	}
}

// Enabled reports whether any token source is configured
func (a *Authenticator) Enabled() bool {
	return a.verifier != nil || a.jwtSecret != ""
}

// BearerToken extracts the token from an "Authorization: Bearer <token>" value
func BearerToken(header string) (string, error) {
	if header == "" {
		return "", ErrMissingToken
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") || strings.TrimSpace(parts[1]) == "" {
		return "", ErrMalformedToken
	}
	return strings.TrimSpace(parts[1]), nil
}

// Authenticate validates a raw token
func (a *Authenticator) Authenticate(token string) (*Identity, error) {
	if token == "" {
		return nil, ErrMissingToken
	}

	if a.verifier != nil {
		claims, err := a.verifier.Validate(token)
		if err == nil {
			return &Identity{UserID: claims.UserID, Email: claims.Email, Name: claims.Name}, nil
		}
		if a.jwtSecret == "" {
			return nil, ErrInvalidToken
		}
	}

	if a.jwtSecret != "" {
		claims, err := ValidateLegacyToken(token, a.jwtSecret)
		if err != nil {
			return nil, ErrInvalidToken
		}
		return &Identity{UserID: claims.UserID, Email: claims.Email}, nil
	}

	return nil, ErrNotConfigured
}
