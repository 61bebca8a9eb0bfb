// Package main implements the entry point for the grammar API server, which
// serves themed Polish fill-in-the-blank exercises and tracks each learner's
// progress through them.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/phrazzld/grammar-api/internal/config"
	"github.com/phrazzld/grammar-api/internal/platform/logger"
	"github.com/phrazzld/grammar-api/internal/platform/postgres"
)

func main() {
	migrateCmd := flag.String("migrate", "",
		"run a migration command and exit ("+strings.Join(postgres.MigrationCommands, ", ")+")")
	configDir := flag.String("config", "", "directory containing config.yaml")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, *configDir, *migrateCmd); err != nil {
		log.Fatalf("grammar-api: %v", err)
	}
}

// run loads configuration, connects to the database and either executes a
// migration command or serves HTTP until ctx is canceled.
func run(ctx context.Context, configDir, migrateCmd string) error {
	cfg, err := loadAppConfig(configDir)
	if err != nil {
		return err
	}

	l, err := logger.Setup(cfg.Server)
	if err != nil {
		return fmt.Errorf("failed to set up logger: %w", err)
	}
	l.Info("server configuration loaded",
		slog.Int("port", cfg.Server.Port),
		slog.String("log_level", cfg.Server.LogLevel),
		slog.Bool("enforce_order", cfg.Progress.EnforceOrder))

	db, err := postgres.Connect(ctx, cfg.Database, l)
	if err != nil {
		return err
	}

	if migrateCmd != "" {
		defer func() { _ = db.Close() }()
		return postgres.RunMigrations(ctx, db, migrateCmd, l)
	}

	app, err := newApplication(cfg, l, db)
	if err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to initialize application: %w", err)
	}
	return app.Run(ctx)
}

func loadAppConfig(configDir string) (*config.Config, error) {
	opts := config.Options{}
	if configDir != "" {
		opts.ConfigPaths = []string{configDir}
	}
	cfg, err := config.LoadWithOptions(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	return cfg, nil
}
