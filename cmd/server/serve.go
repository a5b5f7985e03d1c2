package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/dfryer1193/catalog/catalog/application"
	"github.com/dfryer1193/catalog/catalog/persistence"
	"github.com/dfryer1193/catalog/internal/rest"
	"github.com/dfryer1193/catalog/shared/db/sqlite"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP server",
	Long: `Open the database, apply pending migrations and serve the catalog.

The server stops gracefully on SIGINT or SIGTERM, waiting up to
http.shutdown_timeout for in-flight requests.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	database := sqlite.NewSQLiteDB(sqlite.NewSQLiteConfig(cfg.SQLite.Path))
	if err := database.Connect(); err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer func() {
		if err := database.Close(); err != nil {
			log.Error().Err(err).Msg("Failed to close database")
		}
	}()

	products := application.NewProductService(
		persistence.NewProductRepository(database.DB()),
		persistence.NewFileImageStore(cfg.Assets.Dir),
	)
	handler := rest.NewProductHandler(
		products,
		application.NewDetailsRenderer(cfg.Assets.URLPrefix),
		rest.NewFlashes(cfg.Session.Secret),
		cfg.Assets.URLPrefix,
	)

	router, err := rest.NewRouter(handler, rest.AssetConfig{
		Dir:       cfg.Assets.Dir,
		URLPrefix: cfg.Assets.URLPrefix,
	})
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:    cfg.HTTP.Addr,
		Handler: router,
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	serveErr := make(chan error, 1)
	go func() {
		log.Info().Str("addr", cfg.HTTP.Addr).Str("assets", cfg.Assets.Dir).Msg("Starting server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		if err != nil {
			return fmt.Errorf("failed to start server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info().Msg("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shutdown server: %w", err)
	}

	log.Info().Msg("Server stopped")
	return nil
}
