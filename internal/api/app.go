package api

import (
	"github.com/yourname/sleepdiary/internal"
	"github.com/yourname/sleepdiary/internal/metrics"
	"github.com/yourname/sleepdiary/internal/seed"
	"github.com/yourname/sleepdiary/internal/service"
	"github.com/yourname/sleepdiary/internal/storage"
)

type App interface {
	Logger() internal.Logger
	Entries() service.EntryDeps
	Database() storage.Database
	Seeder() *seed.Seeder
	Metrics() *metrics.Metrics
}

// Application is the App the server wires from config.
type Application struct {
	logger  internal.Logger
	entries service.EntryDeps
	db      storage.Database
	seeder  *seed.Seeder
	metrics *metrics.Metrics
}

func NewApplication(logger internal.Logger, entries service.EntryDeps, db storage.Database, m *metrics.Metrics) *Application {
	return &Application{
		logger:  logger,
		entries: entries,
		db:      db,
		seeder:  seed.New(db, logger, m),
		metrics: m,
	}
}

func (a *Application) Logger() internal.Logger    { return a.logger }
func (a *Application) Entries() service.EntryDeps { return a.entries }
func (a *Application) Database() storage.Database { return a.db }
func (a *Application) Seeder() *seed.Seeder       { return a.seeder }
func (a *Application) Metrics() *metrics.Metrics  { return a.metrics }
