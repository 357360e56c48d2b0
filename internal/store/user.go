package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/phrazzld/account-api/internal/domain"
	"golang.org/x/crypto/bcrypt"
)

// DefaultBcryptCost is the hashing cost used when none is configured.
const DefaultBcryptCost = 10

// UserStore defines the interface for account persistence.
type UserStore interface {
	// Create normalizes, validates and saves a new user. The plaintext
	// Password is replaced by its hash before anything is written, and the
	// store assigns ID and CreatedAt.
	// Returns a *domain.ValidationError listing every violated field.
	// Returns ErrEmailExists if the email is already taken.
	Create(ctx context.Context, user *domain.User) error

	// GetByID retrieves a user by their ID, without the password hash.
	// Returns ErrUserNotFound if the user does not exist and ErrMalformedID
	// if id is not in the backend's identifier format.
	GetByID(ctx context.Context, id string) (*domain.User, error)

	// GetByEmail retrieves a user by email, without the password hash.
	// Returns ErrUserNotFound if the user does not exist.
	GetByEmail(ctx context.Context, email string) (*domain.User, error)

	// GetByEmailWithPassword is GetByEmail with HashedPassword populated.
	// Only credential verification should call it.
	GetByEmailWithPassword(ctx context.Context, email string) (*domain.User, error)

	// List returns every user, newest first, without password hashes.
	List(ctx context.Context) ([]*domain.User, error)

	// Update applies name/email changes to an existing user, re-validates
	// and persists it. Password hash and role are never modified.
	// Returns ErrUserNotFound, ErrMalformedID, ErrEmailExists or a
	// *domain.ValidationError.
	Update(ctx context.Context, id string, changes domain.UserChanges) (*domain.User, error)

	// Delete permanently removes a user and reports whether one existed.
	// Returns ErrMalformedID if id is not in the backend's identifier format.
	Delete(ctx context.Context, id string) (bool, error)
}

// PrepareNewUser runs the pre-persist steps shared by all backends:
// normalization, full validation, password hashing and creation stamp.
// The plaintext password is cleared once hashed.
func PrepareNewUser(user *domain.User, cost int, now time.Time) error {
	if user == nil {
		return errors.New("user cannot be nil")
	}

	user.Normalize()
	if err := user.Validate(); err != nil {
		return err
	}

	if user.Password != "" {
		hash, err := HashPassword(user.Password, cost)
		if err != nil {
			return err
		}
		user.HashedPassword = hash
		user.Password = ""
	}

	user.CreatedAt = now.UTC()
	return nil
}

// PrepareUserUpdate applies changes to a stored user and re-validates it.
// The stored hash is kept as is.
func PrepareUserUpdate(user *domain.User, changes domain.UserChanges) error {
	changes.Apply(user)
	user.Password = ""
	return user.ValidateProfile()
}

// HashPassword hashes a plaintext password with bcrypt.
func HashPassword(password string, cost int) (string, error) {
	if cost == 0 {
		cost = DefaultBcryptCost
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}
