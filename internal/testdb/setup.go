//go:build integration

package testdb

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // pgx driver
	"github.com/jmoiron/sqlx"
	"github.com/phrazzld/grammar-api/internal/platform/postgres"
)

// Open connects to the test database and migrates it to the latest schema.
// Callers own the returned handle and should close it in TestMain.
func Open() (*sqlx.DB, error) {
	dbURL := GetTestDatabaseURL()
	if dbURL == "" {
		return nil, fmt.Errorf("no test database URL set")
	}

	db, err := sqlx.Open("pgx", dbURL)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", maskDatabaseURL(dbURL), err)
	}
	db.SetMaxOpenConns(5)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping %s: %w", maskDatabaseURL(dbURL), err)
	}

	if err := postgres.RunMigrations(ctx, db, "up", slog.Default()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}
