package service

import "github.com/phrazzld/account-api/internal/domain"

// Service errors. They are classified domain errors, so the API layer maps
// them without knowing about this package; callers match them with errors.Is.
var (
	// ErrEmailTaken is returned by Register when the email belongs to an existing account,
	// whether found up front or rejected by the store's unique index.
	ErrEmailTaken = domain.NewError(domain.KindDuplicate, "User already exists with this email")

	// ErrMissingCredentials is returned by Login when email or password is absent.
	ErrMissingCredentials = domain.NewError(domain.KindBadRequest, "Please provide email and password")

	// ErrInvalidCredentials is returned by Login for an unknown email and for a
	// wrong password alike, so callers cannot probe which accounts exist.
	ErrInvalidCredentials = domain.NewError(domain.KindAuth, "Invalid credentials")

	// ErrUserNotFound is returned when the addressed account does not exist.
	ErrUserNotFound = domain.NewError(domain.KindNotFound, "User not found")
)
