package memory

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/account-api/internal/domain"
	"github.com/phrazzld/account-api/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newTestStore() *UserStore {
	return NewUserStore(bcrypt.MinCost, nil)
}

func createUser(t *testing.T, s *UserStore, name, email string) *domain.User {
	t.Helper()
	u := &domain.User{Name: name, Email: email, Password: "password123"}
	require.NoError(t, s.Create(context.Background(), u))
	return u
}

func TestUserStoreCreate(t *testing.T) {
	t.Parallel()
	s := newTestStore()
	ctx := context.Background()

	u := &domain.User{Name: "John Doe", Email: "John@Example.com", Password: "password123"}
	require.NoError(t, s.Create(ctx, u))

	_, err := uuid.Parse(u.ID)
	assert.NoError(t, err)
	assert.Equal(t, "john@example.com", u.Email)
	assert.Empty(t, u.Password)
	assert.False(t, u.CreatedAt.IsZero())

	withHash, err := s.GetByEmailWithPassword(ctx, "JOHN@example.com")
	require.NoError(t, err)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(withHash.HashedPassword), []byte("password123")))

	fetched, err := s.GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Empty(t, fetched.HashedPassword, "hash is not materialized on ordinary reads")
	assert.Equal(t, domain.RoleUser, fetched.Role)
}

func TestUserStoreCreateDuplicate(t *testing.T) {
	t.Parallel()
	s := newTestStore()
	createUser(t, s, "John Doe", "john@example.com")

	err := s.Create(context.Background(),
		&domain.User{Name: "Other", Email: " JOHN@example.com ", Password: "password123"})
	assert.ErrorIs(t, err, store.ErrEmailExists)
}

func TestUserStoreCreateValidation(t *testing.T) {
	t.Parallel()
	s := newTestStore()

	err := s.Create(context.Background(), &domain.User{Name: "A", Email: "bad", Password: "1"})
	var vErr *domain.ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Len(t, vErr.Fields, 3)

	users, err := s.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, users)
}

func TestUserStoreConcurrentRegistration(t *testing.T) {
	t.Parallel()
	s := newTestStore()

	const workers = 8
	var (
		wg        sync.WaitGroup
		successes atomic.Int32
		dupes     atomic.Int32
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			err := s.Create(context.Background(), &domain.User{
				Name:     fmt.Sprintf("User %d", i),
				Email:    "race@example.com",
				Password: "password123",
			})
			switch {
			case err == nil:
				successes.Add(1)
			case store.IsDuplicateError(err):
				dupes.Add(1)
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, int32(1), successes.Load())
	assert.Equal(t, int32(workers-1), dupes.Load())
}

func TestUserStoreGetByID(t *testing.T) {
	t.Parallel()
	s := newTestStore()
	ctx := context.Background()

	_, err := s.GetByID(ctx, uuid.NewString())
	assert.ErrorIs(t, err, store.ErrUserNotFound)

	_, err = s.GetByID(ctx, "not-a-uuid")
	assert.ErrorIs(t, err, store.ErrMalformedID)
}

func TestUserStoreGetByEmailNotFound(t *testing.T) {
	t.Parallel()
	s := newTestStore()

	_, err := s.GetByEmail(context.Background(), "nobody@example.com")
	assert.ErrorIs(t, err, store.ErrUserNotFound)
	_, err = s.GetByEmailWithPassword(context.Background(), "nobody@example.com")
	assert.ErrorIs(t, err, store.ErrUserNotFound)
}

func TestUserStoreListNewestFirst(t *testing.T) {
	t.Parallel()
	s := newTestStore()
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	var tick int
	s.now = func() time.Time {
		tick++
		return base.Add(time.Duration(tick) * time.Minute)
	}

	createUser(t, s, "First", "first@example.com")
	createUser(t, s, "Second", "second@example.com")
	createUser(t, s, "Third", "third@example.com")

	users, err := s.List(context.Background())
	require.NoError(t, err)
	require.Len(t, users, 3)
	assert.Equal(t, "Third", users[0].Name)
	assert.Equal(t, "First", users[2].Name)
	for _, u := range users {
		assert.Empty(t, u.HashedPassword)
	}
}

func TestUserStoreUpdate(t *testing.T) {
	t.Parallel()
	s := newTestStore()
	ctx := context.Background()
	u := createUser(t, s, "John Doe", "john@example.com")
	other := createUser(t, s, "Jane Doe", "jane@example.com")
	before, err := s.GetByEmailWithPassword(ctx, "john@example.com")
	require.NoError(t, err)

	str := func(v string) *string { return &v }

	t.Run("changes name and email", func(t *testing.T) {
		updated, err := s.Update(ctx, u.ID, domain.UserChanges{Name: str("Johnny"), Email: str("JOHNNY@example.com")})
		require.NoError(t, err)
		assert.Equal(t, "Johnny", updated.Name)
		assert.Equal(t, "johnny@example.com", updated.Email)
		assert.Empty(t, updated.HashedPassword)

		after, err := s.GetByEmailWithPassword(ctx, "johnny@example.com")
		require.NoError(t, err)
		assert.Equal(t, before.HashedPassword, after.HashedPassword, "hash untouched")
		assert.Equal(t, before.CreatedAt, after.CreatedAt)

		_, err = s.GetByEmail(ctx, "john@example.com")
		assert.ErrorIs(t, err, store.ErrUserNotFound, "old email is released")
	})

	t.Run("email collision", func(t *testing.T) {
		_, err := s.Update(ctx, u.ID, domain.UserChanges{Email: str(other.Email)})
		assert.ErrorIs(t, err, store.ErrEmailExists)
	})

	t.Run("same email is not a collision", func(t *testing.T) {
		_, err := s.Update(ctx, other.ID, domain.UserChanges{Email: str("Jane@Example.com")})
		assert.NoError(t, err)
	})

	t.Run("invalid values", func(t *testing.T) {
		_, err := s.Update(ctx, u.ID, domain.UserChanges{Name: str("J")})
		var vErr *domain.ValidationError
		assert.ErrorAs(t, err, &vErr)

		current, err := s.GetByID(ctx, u.ID)
		require.NoError(t, err)
		assert.Equal(t, "Johnny", current.Name, "failed update leaves the record untouched")
	})

	t.Run("unknown and malformed ids", func(t *testing.T) {
		_, err := s.Update(ctx, uuid.NewString(), domain.UserChanges{Name: str("Nobody")})
		assert.ErrorIs(t, err, store.ErrUserNotFound)
		_, err = s.Update(ctx, "123", domain.UserChanges{Name: str("Nobody")})
		assert.ErrorIs(t, err, store.ErrMalformedID)
	})
}

func TestUserStoreDelete(t *testing.T) {
	t.Parallel()
	s := newTestStore()
	ctx := context.Background()
	u := createUser(t, s, "John Doe", "john@example.com")

	existed, err := s.Delete(ctx, u.ID)
	require.NoError(t, err)
	assert.True(t, existed)

	existed, err = s.Delete(ctx, u.ID)
	require.NoError(t, err)
	assert.False(t, existed)

	_, err = s.Delete(ctx, "nope")
	assert.ErrorIs(t, err, store.ErrMalformedID)

	// the email can be registered again
	createUser(t, s, "John Again", "john@example.com")
}

func TestUserStoreCanceledContext(t *testing.T) {
	t.Parallel()
	s := newTestStore()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.List(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
