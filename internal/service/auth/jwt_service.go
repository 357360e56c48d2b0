// Package auth issues and validates the signed identity tokens handed out at
// registration and login, and verifies passwords against stored hashes.
package auth

import (
	"context"
	"time"
)

// TokenLifetime is the fixed validity window of every issued token.
const TokenLifetime = 30 * 24 * time.Hour

// JWTService defines operations for managing JWT authentication tokens.
type JWTService interface {
	// GenerateToken creates a signed token identifying the account userID.
	// Returns the token string or an error if token generation fails.
	GenerateToken(ctx context.Context, userID string) (string, error)

	// ValidateToken validates the provided token string and extracts the claims.
	// Returns ErrExpiredToken for expired tokens and ErrInvalidToken for
	// anything else that does not verify.
	ValidateToken(ctx context.Context, tokenString string) (*Claims, error)
}

// Claims represents the verified content of a token.
type Claims struct {
	// UserID is the identifier of the account the token was issued for.
	UserID string

	// Standard registered JWT claims
	Subject   string
	IssuedAt  time.Time
	ExpiresAt time.Time
	ID        string
}
