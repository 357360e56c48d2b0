package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestRunHashesArguments(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	require.NoError(t, run(&out, strings.NewReader(""), []string{"password123", "тест123"}, bcrypt.MinCost))

	hashes := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, hashes, 2)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(hashes[0]), []byte("password123")))
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(hashes[1]), []byte("тест123")))

	cost, err := bcrypt.Cost([]byte(hashes[0]))
	require.NoError(t, err)
	assert.Equal(t, bcrypt.MinCost, cost)
}

func TestRunReadsStdin(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	require.NoError(t, run(&out, strings.NewReader("first\r\n\nsecond\n"), nil, bcrypt.MinCost))

	hashes := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, hashes, 2)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(hashes[1]), []byte("second")))
}

func TestRunRejectsBadInput(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	assert.ErrorContains(t, run(&out, nil, []string{"x"}, 2), "cost must be between")
	assert.ErrorContains(t, run(&out, nil, []string{strings.Repeat("a", 73)}, bcrypt.MinCost), "exceeds 72 bytes")
	assert.Empty(t, out.String())
}
