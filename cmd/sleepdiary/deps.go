package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/yourname/sleepdiary/internal"
	"github.com/yourname/sleepdiary/internal/config"
	"github.com/yourname/sleepdiary/internal/entry"
	"github.com/yourname/sleepdiary/internal/metrics"
	"github.com/yourname/sleepdiary/internal/service"
	"github.com/yourname/sleepdiary/internal/storage"
	"github.com/yourname/sleepdiary/internal/timefmt"
)

// deps is what the commands share. Metrics are recorded but not exposed.
type deps struct {
	cfg     *config.Config
	logger  internal.Logger
	metrics *metrics.Metrics
}

func loadDeps() (*deps, func(), error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("loading config: %w", err)
	}
	logger, err := internal.NewLogger(cfg.LogLevel, cfg.Env)
	if err != nil {
		return nil, nil, err
	}
	return &deps{cfg: cfg, logger: logger, metrics: metrics.New()}, func() { _ = logger.Sync() }, nil
}

// withEntryDeps opens the configured key-value store for the duration of fn.
func withEntryDeps(fn func(service.EntryDeps) error) error {
	d, done, err := loadDeps()
	if err != nil {
		return err
	}
	defer done()

	store, err := storage.NewKeyValueStore(d.cfg, d.logger)
	if err != nil {
		return fmt.Errorf("opening key-value store: %w", err)
	}
	defer func() {
		if err := store.Close(); err != nil {
			d.logger.Errorf("closing key-value store: %v", err)
		}
	}()

	return fn(service.EntryDeps{
		Loader:  entry.NewLoader(store, d.logger, d.metrics),
		Dates:   timefmt.NewDates(timefmt.SystemClock{}),
		Logger:  d.logger,
		Metrics: d.metrics,
	})
}

var errVolatileDatabase = errors.New("the memory database does not outlive the command; set DATABASE_BACKEND=postgres")

// withDatabase opens the configured realtime database for the duration of fn.
// The memory backend is refused.
func withDatabase(ctx context.Context, fn func(*deps, storage.Database) error) error {
	d, done, err := loadDeps()
	if err != nil {
		return err
	}
	defer done()

	if d.cfg.DatabaseBackend == "memory" {
		return errVolatileDatabase
	}

	db, err := storage.NewDatabase(ctx, d.cfg, d.logger)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer db.Close()

	return fn(d, db)
}

func readEntryFile(path string) (*internal.SleepEntry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading entry: %w", err)
	}
	var e internal.SleepEntry
	if err := json.Unmarshal(data, &e); err != nil {
		return nil, fmt.Errorf("decoding entry %s: %w", path, err)
	}
	return &e, nil
}
