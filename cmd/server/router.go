package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/phrazzld/grammar-api/internal/api"
	apiMiddleware "github.com/phrazzld/grammar-api/internal/api/middleware"
)

// setupRouter creates the router with all routes and middleware.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(apiMiddleware.TraceMiddleware(app.logger))

	authHandler := api.NewAuthHandler(app.userService, app.jwtService, &app.config.Auth, app.logger)
	themeHandler := api.NewThemeHandler(app.themeService, app.sequencer, app.tracker, app.logger)
	sentenceHandler := api.NewSentenceHandler(app.sentenceService, app.sequencer, app.logger)
	progressHandler := api.NewProgressHandler(app.tracker, app.logger)
	healthHandler := api.NewHealthHandler(app.stores.db, app.logger)
	authMiddleware := apiMiddleware.NewAuthMiddleware(app.jwtService, app.stores.users)

	r.Route("/api", func(r chi.Router) {
		// Public endpoints
		r.Post("/auth/register", authHandler.Register)
		r.Post("/auth/login", authHandler.Login)
		r.Post("/auth/refresh", authHandler.RefreshToken)
		r.Get("/sentences/random", sentenceHandler.Random)
		r.Post("/sentences/verify", sentenceHandler.Verify)

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.Authenticate)

			r.Post("/sentences", sentenceHandler.Create)

			r.Get("/themes", themeHandler.ListRootThemes)
			r.Post("/themes", themeHandler.CreateTheme)
			r.Get("/themes/{id}/subthemes", themeHandler.ListSubthemes)
			r.Get("/themes/{id}/sentences", themeHandler.ListSentences)
			r.Get("/themes/{id}/next-sentence", themeHandler.NextSentence)
			r.Get("/themes/{id}/progress", themeHandler.GetProgress)
			r.Post("/themes/{id}/progress/reset", themeHandler.ResetProgress)

			r.Get("/progress", progressHandler.ListProgress)
			r.Post("/progress", progressHandler.RecordCompletion)
		})
	})

	r.Get("/health", healthHandler.Check)

	return r
}
