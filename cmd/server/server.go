package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
)

// startHTTPServer listens on the configured port and serves router until ctx
// is canceled.
func (app *application) startHTTPServer(ctx context.Context, router http.Handler) error {
	srv := app.newHTTPServer(router)
	ln, err := net.Listen("tcp", srv.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", srv.Addr, err)
	}
	return app.serve(ctx, srv, ln)
}

func (app *application) newHTTPServer(router http.Handler) *http.Server {
	cfg := app.config.Server
	return &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}
}

// serve runs srv on ln and shuts it down gracefully once ctx is done. A
// listener failure is returned immediately.
func (app *application) serve(ctx context.Context, srv *http.Server, ln net.Listener) error {
	errCh := make(chan error, 1)
	go func() {
		app.logger.Info("starting server", "addr", ln.Addr().String())
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
		app.logger.Info("shutting down server")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), app.config.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	<-errCh

	app.logger.Info("server shutdown completed")
	return nil
}
