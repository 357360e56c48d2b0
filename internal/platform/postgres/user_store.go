package postgres

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/account-api/internal/domain"
	"github.com/phrazzld/account-api/internal/store"
)

const userColumns = "id, name, email, role, created_at"

// PostgresUserStore implements the store.UserStore interface
// using a PostgreSQL database as the storage backend.
type PostgresUserStore struct {
	db         *sql.DB
	bcryptCost int
	logger     *slog.Logger
	now        func() time.Time
}

// Ensure PostgresUserStore implements store.UserStore interface
var _ store.UserStore = (*PostgresUserStore)(nil)

// NewPostgresUserStore creates a new PostgreSQL implementation of the UserStore interface.
// It accepts a database connection that should be initialized and managed by the caller.
// A bcryptCost of 0 uses store.DefaultBcryptCost.
func NewPostgresUserStore(db *sql.DB, bcryptCost int, logger *slog.Logger) *PostgresUserStore {
	if logger == nil {
		logger = slog.Default()
	}
	if bcryptCost == 0 {
		bcryptCost = store.DefaultBcryptCost
	}
	return &PostgresUserStore{
		db:         db,
		bcryptCost: bcryptCost,
		logger:     logger.With(slog.String("component", "user_store"), slog.String("backend", "postgres")),
		now:        time.Now,
	}
}

// Create implements store.UserStore.Create. The unique index on email
// rejects concurrent registrations of the same address.
func (s *PostgresUserStore) Create(ctx context.Context, user *domain.User) error {
	// TIMESTAMPTZ stores microseconds
	if err := store.PrepareNewUser(user, s.bcryptCost, s.now().Truncate(time.Microsecond)); err != nil {
		return err
	}

	id := uuid.New()
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO users (id, name, email, hashed_password, role, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		id, user.Name, user.Email, user.HashedPassword, string(user.Role), user.CreatedAt,
	)
	if err != nil {
		return MapError(err, "create")
	}

	user.ID = id.String()
	s.logger.Debug("user created", slog.String("user_id", user.ID))
	return nil
}

// GetByID implements store.UserStore.GetByID.
func (s *PostgresUserStore) GetByID(ctx context.Context, id string) (*domain.User, error) {
	uid, err := parseID(id)
	if err != nil {
		return nil, err
	}
	return getUser(ctx, s.db, `SELECT `+userColumns+` FROM users WHERE id = $1`, uid)
}

// GetByEmail implements store.UserStore.GetByEmail.
func (s *PostgresUserStore) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return getUser(ctx, s.db,
		`SELECT `+userColumns+` FROM users WHERE email = $1`,
		domain.NormalizeEmail(email))
}

// GetByEmailWithPassword implements store.UserStore.GetByEmailWithPassword.
func (s *PostgresUserStore) GetByEmailWithPassword(ctx context.Context, email string) (*domain.User, error) {
	var u domain.User
	var id uuid.UUID
	var role string
	err := s.db.QueryRowContext(ctx,
		`SELECT `+userColumns+`, hashed_password FROM users WHERE email = $1`,
		domain.NormalizeEmail(email),
	).Scan(&id, &u.Name, &u.Email, &role, &u.CreatedAt, &u.HashedPassword)
	if err != nil {
		return nil, MapError(err, "get")
	}

	u.ID = id.String()
	u.Role = domain.Role(role)
	u.CreatedAt = u.CreatedAt.UTC()
	return &u, nil
}

// List implements store.UserStore.List.
func (s *PostgresUserStore) List(ctx context.Context) ([]*domain.User, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+userColumns+` FROM users ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, MapError(err, "list")
	}
	defer func() { _ = rows.Close() }()

	users := []*domain.User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, MapError(err, "list")
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, MapError(err, "list")
	}
	return users, nil
}

// Update implements store.UserStore.Update. The row is locked for the
// duration of the read-validate-write cycle.
func (s *PostgresUserStore) Update(
	ctx context.Context,
	id string,
	changes domain.UserChanges,
) (*domain.User, error) {
	uid, err := parseID(id)
	if err != nil {
		return nil, err
	}

	var updated *domain.User
	err = store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		user, err := getUser(ctx, tx,
			`SELECT `+userColumns+` FROM users WHERE id = $1 FOR UPDATE`, uid)
		if err != nil {
			return err
		}

		if err := store.PrepareUserUpdate(user, changes); err != nil {
			return err
		}

		result, err := tx.ExecContext(ctx,
			`UPDATE users SET name = $1, email = $2 WHERE id = $3`,
			user.Name, user.Email, uid)
		if err != nil {
			return MapError(err, "update")
		}
		if ok, err := rowsAffected(result); err != nil {
			return MapError(err, "update")
		} else if !ok {
			return store.ErrUserNotFound
		}

		updated = user
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Debug("user updated", slog.String("user_id", id))
	return updated, nil
}

// Delete implements store.UserStore.Delete.
func (s *PostgresUserStore) Delete(ctx context.Context, id string) (bool, error) {
	uid, err := parseID(id)
	if err != nil {
		return false, err
	}

	result, err := s.db.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, uid)
	if err != nil {
		return false, MapError(err, "delete")
	}

	existed, err := rowsAffected(result)
	if err != nil {
		return false, MapError(err, "delete")
	}

	s.logger.Debug("user delete", slog.String("user_id", id), slog.Bool("existed", existed))
	return existed, nil
}

// Close releases the connection pool.
func (s *PostgresUserStore) Close(context.Context) error {
	return s.db.Close()
}

// Ping reports whether the database is reachable.
func (s *PostgresUserStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (*domain.User, error) {
	var u domain.User
	var id uuid.UUID
	var role string
	if err := row.Scan(&id, &u.Name, &u.Email, &role, &u.CreatedAt); err != nil {
		return nil, err
	}
	u.ID = id.String()
	u.Role = domain.Role(role)
	u.CreatedAt = u.CreatedAt.UTC()
	return &u, nil
}

func getUser(ctx context.Context, db store.DBTX, query string, args ...any) (*domain.User, error) {
	u, err := scanUser(db.QueryRowContext(ctx, query, args...))
	if err != nil {
		return nil, MapError(err, "get")
	}
	return u, nil
}

func parseID(id string) (uuid.UUID, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return uuid.Nil, store.ErrMalformedID
	}
	return uid, nil
}
