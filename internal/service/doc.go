// Package service implements the account lifecycle on top of a store.UserStore:
// registration, login, listing, lookup, update, deletion and the profile of
// the authenticated caller. Every returned error is classified (see
// internal/domain) and carries a stack trace for non-production responses.
package service
