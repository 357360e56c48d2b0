package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindOf(t *testing.T) {
	t.Parallel()

	notFound := NewError(KindNotFound, "User not found")

	tests := []struct {
		name string
		err  error
		want ErrorKind
	}{
		{"nil", nil, ""},
		{"plain error", errors.New("boom"), KindUnclassified},
		{"classified", notFound, KindNotFound},
		{"wrapped classified", fmt.Errorf("lookup: %w", notFound), KindNotFound},
		{"validation", &ValidationError{Fields: []FieldError{{Field: "name", Message: "x"}}}, KindValidation},
		{"wrapped validation", fmt.Errorf("create: %w", &ValidationError{}), KindValidation},
		{"classified around plain", WrapError(KindDuplicate, "", errors.New("E11000")), KindDuplicate},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, KindOf(tt.err))
		})
	}
}

func TestErrorString(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "User not found", NewError(KindNotFound, "User not found").Error())
	assert.Equal(t, "duplicate", NewError(KindDuplicate, "").Error())

	cause := errors.New("E11000 duplicate key")
	wrapped := WrapError(KindDuplicate, "email taken", cause)
	assert.Equal(t, "email taken: E11000 duplicate key", wrapped.Error())
	assert.ErrorIs(t, wrapped, cause)
}

func TestAsError(t *testing.T) {
	t.Parallel()

	_, ok := AsError(errors.New("plain"))
	assert.False(t, ok)

	src := &Error{Kind: KindUnclassified, Message: "teapot", Status: 418}
	got, ok := AsError(fmt.Errorf("outer: %w", src))
	assert.True(t, ok)
	assert.Same(t, src, got)
}
