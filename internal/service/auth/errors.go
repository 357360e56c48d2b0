package auth

import "github.com/phrazzld/account-api/internal/domain"

// Common authentication service errors
var (
	// ErrInvalidToken indicates the token format is invalid or signature doesn't match
	ErrInvalidToken = domain.NewError(domain.KindTokenInvalid, "Invalid token")

	// ErrExpiredToken indicates the token has expired
	ErrExpiredToken = domain.NewError(domain.KindTokenExpired, "Token expired")

	// ErrMissingToken indicates a token was expected but not provided
	ErrMissingToken = domain.NewError(domain.KindTokenInvalid, "Invalid token")
)
