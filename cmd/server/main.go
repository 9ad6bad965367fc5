package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/yourname/sleepdiary/internal"
	"github.com/yourname/sleepdiary/internal/api"
	"github.com/yourname/sleepdiary/internal/auth"
	"github.com/yourname/sleepdiary/internal/config"
	"github.com/yourname/sleepdiary/internal/entry"
	"github.com/yourname/sleepdiary/internal/metrics"
	"github.com/yourname/sleepdiary/internal/service"
	"github.com/yourname/sleepdiary/internal/storage"
	"github.com/yourname/sleepdiary/internal/timefmt"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "server: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger, err := internal.NewLogger(cfg.LogLevel, cfg.Env)
	if err != nil {
		return err
	}
	defer logger.Sync()

	if cfg.Env != "development" {
		gin.SetMode(gin.ReleaseMode)
	}

	store, err := storage.NewKeyValueStore(cfg, logger)
	if err != nil {
		return fmt.Errorf("init key-value store: %w", err)
	}
	defer func() {
		if err := store.Close(); err != nil {
			logger.Errorf("close key-value store: %v", err)
		}
	}()

	db, err := storage.NewDatabase(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("init database: %w", err)
	}
	defer db.Close()

	m := metrics.New()
	deps := service.EntryDeps{
		Loader:  entry.NewLoader(store, logger, m),
		Dates:   timefmt.NewDates(timefmt.SystemClock{}),
		Logger:  logger,
		Metrics: m,
	}
	app := api.NewApplication(logger, deps, db, m)
	provider := auth.NewProvider(cfg, logger)

	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: api.NewRouter(app, provider, cfg.Env),
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Infof("server running on %s (storage=%s, database=%s)", cfg.HTTPAddr, cfg.StorageBackend, cfg.DatabaseBackend)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Infof("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
