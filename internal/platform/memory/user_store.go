// Package memory provides an in-process implementation of store.UserStore.
// It backs tests and local demos; data lives only as long as the process.
package memory

import (
	"context"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/account-api/internal/domain"
	"github.com/phrazzld/account-api/internal/store"
)

// UserStore keeps accounts in maps guarded by a single mutex. The email
// index is checked and written under the same lock, so uniqueness holds
// under concurrent writers.
type UserStore struct {
	mu         sync.RWMutex
	users      map[uuid.UUID]*domain.User
	byEmail    map[string]uuid.UUID
	bcryptCost int
	logger     *slog.Logger
	now        func() time.Time
}

var _ store.UserStore = (*UserStore)(nil)

// NewUserStore creates an empty in-memory store.
// A bcryptCost of 0 uses store.DefaultBcryptCost.
func NewUserStore(bcryptCost int, logger *slog.Logger) *UserStore {
	if logger == nil {
		logger = slog.Default()
	}
	if bcryptCost == 0 {
		bcryptCost = store.DefaultBcryptCost
	}
	return &UserStore{
		users:      make(map[uuid.UUID]*domain.User),
		byEmail:    make(map[string]uuid.UUID),
		bcryptCost: bcryptCost,
		logger:     logger.With(slog.String("component", "user_store"), slog.String("backend", "memory")),
		now:        time.Now,
	}
}

// Create implements store.UserStore.
func (s *UserStore) Create(ctx context.Context, user *domain.User) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	// Hash outside the lock; bcrypt is slow
	if err := store.PrepareNewUser(user, s.bcryptCost, s.now()); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, taken := s.byEmail[user.Email]; taken {
		s.logger.Debug("email already exists")
		return store.ErrEmailExists
	}

	id := uuid.New()
	user.ID = id.String()

	stored := *user
	s.users[id] = &stored
	s.byEmail[user.Email] = id

	s.logger.Debug("user created", slog.String("user_id", user.ID))
	return nil
}

// GetByID implements store.UserStore.
func (s *UserStore) GetByID(ctx context.Context, id string) (*domain.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, store.ErrMalformedID
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[uid]
	if !ok {
		return nil, store.ErrUserNotFound
	}
	return u.Public(), nil
}

// GetByEmail implements store.UserStore.
func (s *UserStore) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	u, err := s.getByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	return u.Public(), nil
}

// GetByEmailWithPassword implements store.UserStore.
func (s *UserStore) GetByEmailWithPassword(ctx context.Context, email string) (*domain.User, error) {
	u, err := s.getByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	cp := *u
	return &cp, nil
}

func (s *UserStore) getByEmail(ctx context.Context, email string) (*domain.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.byEmail[domain.NormalizeEmail(email)]
	if !ok {
		return nil, store.ErrUserNotFound
	}
	return s.users[id], nil
}

// List implements store.UserStore.
func (s *UserStore) List(ctx context.Context) ([]*domain.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	users := make([]*domain.User, 0, len(s.users))
	for _, u := range s.users {
		users = append(users, u.Public())
	}
	s.mu.RUnlock()

	sort.SliceStable(users, func(i, j int) bool {
		if users[i].CreatedAt.Equal(users[j].CreatedAt) {
			return users[i].ID > users[j].ID
		}
		return users[i].CreatedAt.After(users[j].CreatedAt)
	})
	return users, nil
}

// Update implements store.UserStore.
func (s *UserStore) Update(
	ctx context.Context,
	id string,
	changes domain.UserChanges,
) (*domain.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, store.ErrMalformedID
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.users[uid]
	if !ok {
		return nil, store.ErrUserNotFound
	}

	updated := *existing
	if err := store.PrepareUserUpdate(&updated, changes); err != nil {
		return nil, err
	}

	if updated.Email != existing.Email {
		if owner, taken := s.byEmail[updated.Email]; taken && owner != uid {
			return nil, store.ErrEmailExists
		}
		delete(s.byEmail, existing.Email)
		s.byEmail[updated.Email] = uid
	}
	s.users[uid] = &updated

	s.logger.Debug("user updated", slog.String("user_id", id))
	return updated.Public(), nil
}

// Delete implements store.UserStore.
func (s *UserStore) Delete(ctx context.Context, id string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	uid, err := uuid.Parse(id)
	if err != nil {
		return false, store.ErrMalformedID
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[uid]
	if !ok {
		return false, nil
	}
	delete(s.byEmail, u.Email)
	delete(s.users, uid)

	s.logger.Debug("user deleted", slog.String("user_id", id))
	return true, nil
}

// Close is a no-op so the memory store can stand in wherever a backend is closed.
func (s *UserStore) Close(context.Context) error {
	return nil
}
