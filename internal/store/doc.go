// Package store defines the account persistence contract and the logic every
// backend shares: field normalization, validation and password hashing.
// Concrete backends live under internal/platform.
package store
