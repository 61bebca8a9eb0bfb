// Package postgres provides PostgreSQL implementations of the interfaces in
// internal/store, built on sqlx over the pgx stdlib driver, together with
// the embedded goose schema migrations.
package postgres
