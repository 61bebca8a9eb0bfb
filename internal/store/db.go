package store

import (
	"context"

	"github.com/jmoiron/sqlx"
)

// DBTX is implemented by both *sqlx.DB and *sqlx.Tx, so store code runs
// unchanged inside or outside a transaction.
type DBTX interface {
	sqlx.ExtContext
	GetContext(ctx context.Context, dest any, query string, args ...any) error
	SelectContext(ctx context.Context, dest any, query string, args ...any) error
}

var (
	_ DBTX = (*sqlx.DB)(nil)
	_ DBTX = (*sqlx.Tx)(nil)
)
