package postgres

import (
	"context"
	"embed"
	"fmt"
	"log/slog"
	"slices"

	"github.com/jmoiron/sqlx"
	"github.com/pressly/goose/v3"
)

//go:embed migrations/*.sql
var migrationFS embed.FS

// MigrationsDir is the directory of the embedded migration files.
const MigrationsDir = "migrations"

// MigrationCommands lists the goose commands RunMigrations accepts.
var MigrationCommands = []string{"up", "down", "reset", "status", "version"}

// RunMigrations runs a goose command against db using the migrations
// embedded in the binary.
func RunMigrations(ctx context.Context, db *sqlx.DB, command string, logger *slog.Logger) error {
	if !slices.Contains(MigrationCommands, command) {
		return fmt.Errorf("unknown migration command %q", command)
	}

	goose.SetBaseFS(migrationFS)
	defer goose.SetBaseFS(nil)
	goose.SetLogger(&gooseLogger{logger: logger})

	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("failed to set migration dialect: %w", err)
	}

	logger.Info("running migrations", "command", command)
	if err := goose.RunContext(ctx, command, db.DB, MigrationsDir); err != nil {
		return fmt.Errorf("migration %s failed: %w", command, err)
	}
	return nil
}

// gooseLogger routes goose output through slog.
type gooseLogger struct {
	logger *slog.Logger
}

func (l *gooseLogger) Printf(format string, v ...any) {
	l.logger.Info(fmt.Sprintf(format, v...), "component", "migrations")
}

func (l *gooseLogger) Fatalf(format string, v ...any) {
	l.logger.Error(fmt.Sprintf(format, v...), "component", "migrations")
}
