// Package auth issues and verifies admin session tokens.
package auth

import (
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const sessionTTL = 24 * time.Hour

// TokenManager handles admin session JWTs, signed HS256 with the shared
// secret.
type TokenManager struct {
	secret []byte
}

// NewTokenManager creates a token manager from the configured secret.
func NewTokenManager(secret string) *TokenManager {
	return &TokenManager{secret: []byte(secret)}
}

// Issue returns a signed session token for the admin role.
func (m *TokenManager) Issue() (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "admin",
		"iat": now.Unix(),
		"exp": now.Add(sessionTTL).Unix(),
	})

	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// Verify checks a token string (with or without the Bearer prefix) and
// returns an error for anything but a live admin session.
func (m *TokenManager) Verify(tokenString string) error {
	tokenString = strings.TrimPrefix(tokenString, "Bearer ")

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return m.secret, nil
	})
	if err != nil {
		return fmt.Errorf("failed to verify token: %w", err)
	}
	if !token.Valid {
		return fmt.Errorf("token is not valid")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return fmt.Errorf("invalid token claims")
	}
	if sub, _ := claims["sub"].(string); sub != "admin" {
		return fmt.Errorf("unexpected subject")
	}
	return nil
}
