package auth

import (
	"errors"
	"log/slog"

	"aichat/internal/config"
)

// TokenVerifier resolves a bearer token to an authenticated user id.
// Token issuance (registration, login) belongs to an external collaborator;
// this service only verifies.
type TokenVerifier interface {
	VerifyToken(tokenString string) (string, error)
	Close() error
}

// NewVerifier selects a verifier from configuration: a JWKS endpoint when
// AUTH_JWKS_URL is set, otherwise an HS256 shared secret.
func NewVerifier(cfg *config.Config, logger *slog.Logger) (TokenVerifier, error) {
	if cfg.AuthJWKSURL != "" {
		return NewJWKSVerifier(cfg.AuthJWKSURL, logger)
	}
	if cfg.AuthJWTSecret != "" {
		return NewHMACVerifier(cfg.AuthJWTSecret, logger), nil
	}
	return nil, errors.New("either AUTH_JWKS_URL or AUTH_JWT_SECRET must be configured")
}
