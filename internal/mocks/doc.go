// Package mocks provides centralized mock implementations for testing.
//
// Usage:
//
//	tokens := &mocks.MockJWTService{Token: "mocked-token"}
//	users := new(mocks.TestifyMockUserStore)
//	users.On("GetByEmail", mock.Anything, "john@example.com").Return(nil, store.ErrUserNotFound)
//
// When adding a new mock to this package, name the file after the interface
// being mocked.
package mocks
