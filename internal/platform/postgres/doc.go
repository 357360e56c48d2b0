// Package postgres implements store.UserStore on PostgreSQL through
// database/sql and the pgx stdlib driver. The schema is managed by goose
// migrations embedded in the binary (see the migrations subpackage).
package postgres
