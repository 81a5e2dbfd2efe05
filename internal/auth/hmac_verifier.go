package auth

import (
	"fmt"
	"log/slog"

	"github.com/golang-jwt/jwt/v5"

	"aichat/internal/domain"
)

// HMACVerifier validates HS256 tokens signed with a shared secret.
type HMACVerifier struct {
	secret []byte
	logger *slog.Logger
}

// NewHMACVerifier creates a shared-secret verifier.
func NewHMACVerifier(secret string, logger *slog.Logger) *HMACVerifier {
	logger.Info("token verifier initialized", "mode", "hmac")
	return &HMACVerifier{
		secret: []byte(secret),
		logger: logger,
	}
}

// VerifyToken validates a JWT and returns its subject as the user id.
func (v *HMACVerifier) VerifyToken(tokenString string) (string, error) {
	token, err := jwt.ParseWithClaims(tokenString, &jwt.RegisteredClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return v.secret, nil
	})
	if err != nil || !token.Valid {
		return "", domain.ErrUnauthorized
	}

	claims, ok := token.Claims.(*jwt.RegisteredClaims)
	if !ok || claims.Subject == "" {
		return "", domain.ErrUnauthorized
	}

	return claims.Subject, nil
}

// Close implements TokenVerifier.
func (v *HMACVerifier) Close() error {
	return nil
}
