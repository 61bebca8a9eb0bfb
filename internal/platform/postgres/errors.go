package postgres

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/phrazzld/grammar-api/internal/store"
)

// PostgreSQL error codes
const (
	uniqueViolationCode     = "23505"
	foreignKeyViolationCode = "23503"
	checkViolationCode      = "23514"
	notNullViolationCode    = "23502"
)

// Constraint names from the schema migrations that map to specific store
// errors.
const (
	constraintUserEmail     = "users_email_key"
	constraintThemeName     = "themes_name_parent_key"
	constraintThemeParent   = "themes_parent_theme_id_fkey"
	constraintSentenceOrder = "sentences_theme_order_key"
	constraintSentenceTheme = "sentences_theme_id_fkey"
)

// constraintErrors maps a violated constraint to the store error callers
// check for.
var constraintErrors = map[string]error{
	constraintUserEmail:     store.ErrEmailExists,
	constraintThemeName:     store.ErrThemeExists,
	constraintThemeParent:   store.ErrThemeNotFound,
	constraintSentenceOrder: store.ErrSentenceOrderTaken,
	constraintSentenceTheme: store.ErrThemeNotFound,
}

// MapError maps a database error to a store error. Known constraints map to
// their entity-specific errors; other violations map to the generic
// ErrDuplicate or ErrInvalidEntity. The driver error is not wrapped so its
// detail cannot leak past the store through errors.As.
func MapError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, sql.ErrNoRows) {
		return store.ErrNotFound
	}

	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}

	if mapped, ok := constraintErrors[pgErr.ConstraintName]; ok {
		return mapped
	}

	switch pgErr.Code {
	case uniqueViolationCode:
		return fmt.Errorf("%w: constraint %s", store.ErrDuplicate, pgErr.ConstraintName)
	case foreignKeyViolationCode:
		return fmt.Errorf("%w: foreign key violation (%s)", store.ErrInvalidEntity, pgErr.ConstraintName)
	case checkViolationCode:
		return fmt.Errorf("%w: check constraint violation (%s)", store.ErrInvalidEntity, pgErr.ConstraintName)
	case notNullViolationCode:
		return fmt.Errorf("%w: not null violation (%s)", store.ErrInvalidEntity, pgErr.ColumnName)
	}

	return err
}

// IsUniqueViolation reports whether err is a PostgreSQL unique constraint violation.
func IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode
}

// IsForeignKeyViolation reports whether err is a PostgreSQL foreign key violation.
func IsForeignKeyViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == foreignKeyViolationCode
}

// IsCheckConstraintViolation reports whether err is a PostgreSQL check constraint violation.
func IsCheckConstraintViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == checkViolationCode
}

// IsNotNullViolation reports whether err is a PostgreSQL not null violation.
func IsNotNullViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == notNullViolationCode
}

// wrap turns a driver error into a StoreError around its mapped store error.
// notFound replaces the generic ErrNotFound for no-row results.
func wrap(entity, operation string, err error, notFound error) error {
	mapped := MapError(err)
	if mapped == store.ErrNotFound && notFound != nil {
		mapped = notFound
	}
	return store.NewStoreError(entity, operation, "database operation failed", mapped)
}
