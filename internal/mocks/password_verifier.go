package mocks

import "github.com/phrazzld/account-api/internal/service/auth"

// MockPasswordVerifier implements auth.PasswordVerifier for testing
type MockPasswordVerifier struct {
	// ShouldSucceed determines whether the password comparison should succeed
	ShouldSucceed bool

	// VerifyFn allows for custom comparison logic in tests
	VerifyFn func(password, hashedPassword string) bool

	// VerifyCalledWith stores the arguments passed to Verify for verification
	VerifyCalledWith struct {
		Password       string
		HashedPassword string
	}

	// VerifyCallCount tracks how many times Verify was called
	VerifyCallCount int
}

var _ auth.PasswordVerifier = (*MockPasswordVerifier)(nil)

// Verify implements the auth.PasswordVerifier interface
func (m *MockPasswordVerifier) Verify(password, hashedPassword string) bool {
	m.VerifyCalledWith.Password = password
	m.VerifyCalledWith.HashedPassword = hashedPassword
	m.VerifyCallCount++

	if m.VerifyFn != nil {
		return m.VerifyFn(password, hashedPassword)
	}
	return m.ShouldSucceed
}
