package postgres

import (
	"database/sql"
	"errors"
	"fmt"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/phrazzld/account-api/internal/domain"
	"github.com/phrazzld/account-api/internal/store"
	"github.com/stretchr/testify/assert"
)

// newPgError builds a server error with the given SQLSTATE code.
func newPgError(code string) *pgconn.PgError {
	return &pgconn.PgError{
		Code:           code,
		Message:        "error message",
		SchemaName:     "public",
		TableName:      "users",
		ConstraintName: "users_email_key",
	}
}

func TestMapError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		err      error
		wantIs   error
		wantKind domain.ErrorKind
	}{
		{"no rows", sql.ErrNoRows, store.ErrUserNotFound, domain.KindNotFound},
		{"wrapped no rows", fmt.Errorf("scan: %w", sql.ErrNoRows), store.ErrUserNotFound, domain.KindNotFound},
		{"unique violation", newPgError(uniqueViolationCode), store.ErrEmailExists, domain.KindDuplicate},
		{"invalid text representation", newPgError(invalidTextRepresentationCode), store.ErrMalformedID, domain.KindMalformedID},
		{"check violation", newPgError(checkViolationCode), nil, domain.KindUnclassified},
		{"generic", errors.New("connection refused"), nil, domain.KindUnclassified},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := MapError(tt.err, "get")
			if tt.wantIs != nil {
				assert.ErrorIs(t, got, tt.wantIs)
			} else {
				assert.True(t, store.IsStoreError(got))
				assert.ErrorIs(t, got, tt.err, "original error is preserved")
			}
			assert.Equal(t, tt.wantKind, domain.KindOf(got))
		})
	}

	assert.NoError(t, MapError(nil, "get"))
}

func TestIsUniqueViolation(t *testing.T) {
	t.Parallel()

	assert.True(t, IsUniqueViolation(newPgError(uniqueViolationCode)))
	assert.True(t, IsUniqueViolation(fmt.Errorf("insert: %w", newPgError(uniqueViolationCode))))
	assert.False(t, IsUniqueViolation(newPgError(checkViolationCode)))
	assert.False(t, IsUniqueViolation(errors.New("23505")))
	assert.False(t, IsUniqueViolation(nil))
}

func TestRowsAffected(t *testing.T) {
	t.Parallel()

	ok, err := rowsAffected(sqlmock.NewResult(0, 1))
	assert.NoError(t, err)
	assert.True(t, ok)

	ok, err = rowsAffected(sqlmock.NewResult(0, 0))
	assert.NoError(t, err)
	assert.False(t, ok)

	_, err = rowsAffected(sqlmock.NewErrorResult(errors.New("driver")))
	assert.Error(t, err)

	_, err = rowsAffected(nil)
	assert.Error(t, err)
}
