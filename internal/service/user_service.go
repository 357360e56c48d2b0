package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	pkgerrors "github.com/pkg/errors"

	"github.com/phrazzld/account-api/internal/domain"
	"github.com/phrazzld/account-api/internal/redact"
	"github.com/phrazzld/account-api/internal/service/auth"
	"github.com/phrazzld/account-api/internal/store"
)

// AuthResult is what Register and Login hand back: the public account view
// and a freshly issued token.
type AuthResult struct {
	User  *domain.User
	Token string
}

// UserService provides the account lifecycle operations.
type UserService interface {
	// Register creates an account and issues a token for it.
	Register(ctx context.Context, name, email, password string) (*AuthResult, error)

	// Login verifies credentials and issues a token.
	Login(ctx context.Context, email, password string) (*AuthResult, error)

	// ListUsers returns every account, newest first.
	ListUsers(ctx context.Context) ([]*domain.User, error)

	// GetUser retrieves an account by id.
	GetUser(ctx context.Context, id string) (*domain.User, error)

	// UpdateUser changes an account's name and/or email.
	UpdateUser(ctx context.Context, id string, changes domain.UserChanges) (*domain.User, error)

	// DeleteUser permanently removes an account.
	DeleteUser(ctx context.Context, id string) error

	// Profile returns the account of an authenticated caller.
	Profile(ctx context.Context, id string) (*domain.User, error)
}

// UserServiceImpl implements the UserService interface
type UserServiceImpl struct {
	userStore store.UserStore
	tokens    auth.JWTService
	verifier  auth.PasswordVerifier
	logger    *slog.Logger
}

var _ UserService = (*UserServiceImpl)(nil)

// NewUserService creates a new UserService
func NewUserService(
	userStore store.UserStore,
	tokens auth.JWTService,
	verifier auth.PasswordVerifier,
	logger *slog.Logger,
) *UserServiceImpl {
	if logger == nil {
		logger = slog.Default()
	}
	return &UserServiceImpl{
		userStore: userStore,
		tokens:    tokens,
		verifier:  verifier,
		logger:    logger.With(slog.String("component", "user_service")),
	}
}

// Register creates an account and issues a token for it.
//
// A taken email is reported as ErrEmailTaken both when found before the
// insert and when the store's unique index rejects the insert, so of two
// concurrent registrations for one address exactly one succeeds.
func (s *UserServiceImpl) Register(
	ctx context.Context,
	name, email, password string,
) (*AuthResult, error) {
	if normalized := domain.NormalizeEmail(email); normalized != "" {
		_, err := s.userStore.GetByEmail(ctx, normalized)
		switch {
		case err == nil:
			s.logger.Debug("registration rejected: email already exists")
			return nil, pkgerrors.WithStack(ErrEmailTaken)
		case !errors.Is(err, store.ErrUserNotFound):
			return nil, s.unexpected("failed to check for existing user", err)
		}
	}

	user, err := domain.NewUser(name, email, password)
	if err != nil {
		s.logger.Debug("registration rejected: invalid input", slog.String("error", err.Error()))
		return nil, pkgerrors.WithStack(err)
	}

	if err := s.userStore.Create(ctx, user); err != nil {
		if store.IsDuplicateError(err) {
			s.logger.Debug("registration rejected: email taken during insert")
			return nil, pkgerrors.WithStack(domain.WrapError(domain.KindDuplicate, ErrEmailTaken.Message, err))
		}
		var vErr *domain.ValidationError
		if errors.As(err, &vErr) {
			return nil, pkgerrors.WithStack(err)
		}
		return nil, s.unexpected("failed to create user", err)
	}

	token, err := s.tokens.GenerateToken(ctx, user.ID)
	if err != nil {
		return nil, s.unexpected("failed to generate token", err)
	}

	s.logger.Info("user registered", slog.String("user_id", user.ID))
	return &AuthResult{User: user.Public(), Token: token}, nil
}

// Login verifies credentials and issues a token.
func (s *UserServiceImpl) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	if strings.TrimSpace(email) == "" || password == "" {
		return nil, pkgerrors.WithStack(ErrMissingCredentials)
	}

	user, err := s.userStore.GetByEmailWithPassword(ctx, domain.NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			s.logger.Debug("login rejected: unknown email")
			return nil, pkgerrors.WithStack(ErrInvalidCredentials)
		}
		return nil, s.unexpected("failed to look up user", err)
	}

	if !s.verifier.Verify(password, user.HashedPassword) {
		s.logger.Debug("login rejected: password mismatch", slog.String("user_id", user.ID))
		return nil, pkgerrors.WithStack(ErrInvalidCredentials)
	}

	token, err := s.tokens.GenerateToken(ctx, user.ID)
	if err != nil {
		return nil, s.unexpected("failed to generate token", err)
	}

	s.logger.Info("user logged in", slog.String("user_id", user.ID))
	return &AuthResult{User: user.Public(), Token: token}, nil
}

// ListUsers returns every account, newest first. An empty store yields an
// empty, non-nil slice.
func (s *UserServiceImpl) ListUsers(ctx context.Context) ([]*domain.User, error) {
	users, err := s.userStore.List(ctx)
	if err != nil {
		return nil, s.unexpected("failed to list users", err)
	}
	if users == nil {
		users = []*domain.User{}
	}
	for i, u := range users {
		users[i] = u.Public()
	}
	return users, nil
}

// GetUser retrieves an account by id.
func (s *UserServiceImpl) GetUser(ctx context.Context, id string) (*domain.User, error) {
	user, err := s.userStore.GetByID(ctx, id)
	if err != nil {
		return nil, s.lookupError("failed to retrieve user", id, err)
	}
	return user.Public(), nil
}

// UpdateUser changes an account's name and/or email. Empty values are
// treated as not provided.
func (s *UserServiceImpl) UpdateUser(
	ctx context.Context,
	id string,
	changes domain.UserChanges,
) (*domain.User, error) {
	user, err := s.userStore.Update(ctx, id, changes)
	if err != nil {
		var vErr *domain.ValidationError
		switch {
		case errors.As(err, &vErr), store.IsDuplicateError(err):
			s.logger.Debug("update rejected", slog.String("user_id", id), slog.String("error", redact.Error(err)))
			return nil, pkgerrors.WithStack(err)
		default:
			return nil, s.lookupError("failed to update user", id, err)
		}
	}

	s.logger.Info("user updated", slog.String("user_id", id))
	return user.Public(), nil
}

// DeleteUser permanently removes an account.
func (s *UserServiceImpl) DeleteUser(ctx context.Context, id string) error {
	existed, err := s.userStore.Delete(ctx, id)
	if err != nil {
		return s.lookupError("failed to delete user", id, err)
	}
	if !existed {
		return pkgerrors.WithStack(ErrUserNotFound)
	}

	s.logger.Info("user deleted", slog.String("user_id", id))
	return nil
}

// Profile returns the account of an authenticated caller.
func (s *UserServiceImpl) Profile(ctx context.Context, id string) (*domain.User, error) {
	return s.GetUser(ctx, id)
}

// lookupError classifies errors from id-addressed store calls.
func (s *UserServiceImpl) lookupError(msg, id string, err error) error {
	switch domain.KindOf(err) {
	case domain.KindNotFound:
		s.logger.Debug("user not found", slog.String("user_id", id))
		return pkgerrors.WithStack(ErrUserNotFound)
	case domain.KindMalformedID:
		s.logger.Debug("malformed user id", slog.String("user_id", id))
		return pkgerrors.WithStack(err)
	default:
		return s.unexpected(msg, err)
	}
}

// unexpected logs and wraps a failure outside the expected taxonomy.
func (s *UserServiceImpl) unexpected(msg string, err error) error {
	s.logger.Error(msg, slog.String("error", redact.Error(err)))
	return pkgerrors.WithStack(fmt.Errorf("%s: %w", msg, err))
}
