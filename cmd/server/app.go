package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jmoiron/sqlx"
	"github.com/phrazzld/grammar-api/internal/api"
	"github.com/phrazzld/grammar-api/internal/config"
	"github.com/phrazzld/grammar-api/internal/platform/postgres"
	"github.com/phrazzld/grammar-api/internal/service"
	"github.com/phrazzld/grammar-api/internal/service/auth"
	"github.com/phrazzld/grammar-api/internal/service/progress"
	"github.com/phrazzld/grammar-api/internal/service/sequencer"
	"github.com/phrazzld/grammar-api/internal/store"
)

// stores groups the persistence dependencies of the application.
type stores struct {
	users     store.UserStore
	themes    store.ThemeStore
	sentences store.SentenceStore
	progress  store.ProgressStore
	tx        store.Transactor
	db        api.Pinger
}

func postgresStores(db *sqlx.DB, logger *slog.Logger) stores {
	return stores{
		users:     postgres.NewPostgresUserStore(db, logger),
		themes:    postgres.NewPostgresThemeStore(db, logger),
		sentences: postgres.NewPostgresSentenceStore(db, logger),
		progress:  postgres.NewPostgresProgressStore(db, logger),
		tx:        store.NewTransactor(db),
		db:        db,
	}
}

// application holds the shared dependencies and ensures they are released
// on shutdown.
type application struct {
	config *config.Config
	logger *slog.Logger
	db     *sqlx.DB
	stores stores

	jwtService      auth.JWTService
	userService     service.UserService
	themeService    service.ThemeService
	sentenceService service.SentenceService
	sequencer       sequencer.Service
	tracker         progress.Tracker
}

// newApplication wires the Postgres-backed application.
func newApplication(cfg *config.Config, logger *slog.Logger, db *sqlx.DB) (*application, error) {
	app, err := assemble(cfg, logger, postgresStores(db, logger))
	if err != nil {
		return nil, err
	}
	app.db = db
	return app, nil
}

// assemble builds the services on top of s.
func assemble(cfg *config.Config, logger *slog.Logger, s stores) (*application, error) {
	app := &application{
		config: cfg,
		logger: logger,
		stores: s,
	}

	var err error
	app.jwtService, err = auth.NewJWTService(cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize JWT service: %w", err)
	}
	logger.Info("JWT authentication service initialized",
		"token_lifetime_minutes", cfg.Auth.TokenLifetimeMinutes)

	hasher := auth.NewBcryptHasher(cfg.Auth.BCryptCost)
	app.userService = service.NewUserService(s.users, hasher, hasher, s.tx, logger)
	app.themeService = service.NewThemeService(s.themes, s.progress, s.tx, logger)
	app.sentenceService = service.NewSentenceService(s.themes, s.sentences, s.tx, logger)
	app.sequencer = sequencer.NewService(s.themes, s.sentences, s.progress, logger)
	app.tracker = progress.NewTracker(s.themes, s.sentences, s.progress, s.tx, logger,
		progress.WithEnforceOrder(cfg.Progress.EnforceOrder))

	logger.Info("application initialized", "enforce_order", cfg.Progress.EnforceOrder)
	return app, nil
}

// Run serves HTTP until ctx is canceled, then shuts down gracefully.
func (app *application) Run(ctx context.Context) error {
	defer app.cleanup()
	if err := app.startHTTPServer(ctx, app.setupRouter()); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// cleanup releases application resources.
func (app *application) cleanup() {
	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("error closing database connection", "error", err)
		}
	}
	app.logger.Info("application shutdown completed")
}
