package cli

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/manuelbieri/shelegia-motta-2021/internal/api"
	"github.com/manuelbieri/shelegia-motta-2021/internal/config"
	"github.com/manuelbieri/shelegia-motta-2021/internal/store"
)

var serveAddr string

// serveCmd runs the HTTP API server
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the model API over HTTP",
	Long: `Starts the HTTP server exposing model evaluation, grid sweeps and SVG
plots. Sweep runs are persisted to the configured SQLite database.

Configuration comes from the environment:
  KILLZONE_ADDR       listen address (default :8080)
  KILLZONE_DB         SQLite database path (default killzone.db)
  KILLZONE_LOG_LEVEL  log level (default info)`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		if serveAddr != "" {
			cfg.Addr = serveAddr
		}

		db, err := store.NewSQLiteDB(cfg.DBPath)
		if err != nil {
			return err
		}
		defer db.Close()
		if err := db.Migrate(); err != nil {
			return err
		}

		server := api.NewServer(db, logger)
		httpServer := &http.Server{
			Addr:         cfg.Addr,
			Handler:      server.Routes(),
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 90 * time.Second,
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		errCh := make(chan error, 1)
		go func() {
			logger.Info("server_started",
				zap.String("addr", cfg.Addr),
				zap.String("db", cfg.DBPath),
				zap.String("engine_version", api.EngineVersion),
			)
			errCh <- httpServer.ListenAndServe()
		}()

		select {
		case err := <-errCh:
			if err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
		case <-ctx.Done():
			logger.Info("server_stopping")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := httpServer.Shutdown(shutdownCtx); err != nil {
				return err
			}
		}

		logger.Info("server_stopped")
		return nil
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (overrides KILLZONE_ADDR)")
}
