// Package httpd implements the httpd command: the HTTP server exposing the
// generation API to the web front end.
package httpd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/jonesrussell/contentagent/internal/api"
	"github.com/jonesrussell/contentagent/internal/app"
	"github.com/jonesrussell/contentagent/internal/logger"
)

// shutdownTimeout is how long in-flight requests get to finish on shutdown.
const shutdownTimeout = 10 * time.Second

// Command returns the httpd command.
func Command() *cobra.Command {
	return &cobra.Command{
		Use:   "httpd",
		Short: "Start the content agent HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return Start()
		},
	}
}

// Start assembles the app and runs the HTTP server until interrupted.
func Start() error {
	a, err := app.New()
	if err != nil {
		return err
	}
	defer a.Close()

	var hist api.HistoryLister
	if a.History != nil {
		hist = a.History
	}

	handlers := api.NewHandlers(a.Service, hist, a.Log, app.Version)
	router := api.NewRouter(handlers, a.Log)

	srv := &http.Server{
		Addr:         a.Config.Server.Address,
		Handler:      router,
		ReadTimeout:  a.Config.Server.ReadTimeout,
		WriteTimeout: a.Config.Server.WriteTimeout,
		IdleTimeout:  a.Config.Server.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		a.Log.Info("HTTP server listening", logger.String("address", srv.Addr))
		if serveErr := srv.ListenAndServe(); serveErr != nil && !errors.Is(serveErr, http.ErrServerClosed) {
			errCh <- serveErr
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return fmt.Errorf("http server failed: %w", err)
	case sig := <-quit:
		a.Log.Info("Shutting down", logger.String("signal", sig.String()))
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("http server shutdown: %w", err)
	}
	return nil
}
