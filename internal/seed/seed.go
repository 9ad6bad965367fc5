// Package seed writes the sleep-factor catalog and a user profile into the
// realtime database. It is an administrative one-off: every run pushes the
// whole catalog again, so running it twice leaves two copies of each factor.
package seed

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/yourname/sleepdiary/internal"
	"github.com/yourname/sleepdiary/internal/metrics"
	"github.com/yourname/sleepdiary/internal/storage"
)

const (
	FactorsPath = "sleepFactors"
	UsersPath   = "users"
)

var validate = validator.New()

// DefaultFactors is the stock factor catalog.
var DefaultFactors = []internal.SleepFactor{
	{Name: "caffeine", Category: internal.CategoryChemical},
	{Name: "alcohol", Category: internal.CategoryChemical},
	{Name: "CBD", Category: internal.CategoryChemical},
	{Name: "melatonin", Category: internal.CategoryChemical},
	{Name: "meditated", Category: internal.CategoryPractice},
	{Name: "worked out", Category: internal.CategoryPractice},
	{Name: "ate late", Category: internal.CategoryPractice},
	{Name: "napped", Category: internal.CategoryPractice},
	{Name: "no screens", Category: internal.CategoryPractice},
	{Name: "sleep podcast", Category: internal.CategoryPractice},
	{Name: "stressful day", Category: internal.CategoryEnvironment},
}

type Options struct {
	UserID  string                 `validate:"required,excludesall=/"`
	Factors []internal.SleepFactor `validate:"dive"`
	Profile internal.UserProfile
}

// Result reports what one run wrote.
type Result struct {
	FactorIDs   []string
	UserFactors map[string]internal.SleepFactor
	Profile     internal.UserProfile
}

type Seeder struct {
	db      storage.Database
	logger  internal.Logger
	metrics *metrics.Metrics
}

func New(db storage.Database, logger internal.Logger, m *metrics.Metrics) *Seeder {
	return &Seeder{db: db, logger: logger, metrics: m}
}

// Run pushes the factors, reads back the full catalog and stores the profile
// at users/{UserID} with that catalog as its userFactors. Store errors are
// returned as they happen; nothing is retried.
func (s *Seeder) Run(ctx context.Context, opts Options) (*Result, error) {
	if opts.Factors == nil {
		opts.Factors = DefaultFactors
	}
	if err := validate.Struct(opts); err != nil {
		return nil, fmt.Errorf("seed: invalid options: %w", err)
	}

	res := &Result{}
	for _, f := range opts.Factors {
		id, err := s.db.Push(ctx, FactorsPath, f)
		if err != nil {
			return nil, fmt.Errorf("seed: push %q: %w", f.Name, err)
		}
		s.metrics.FactorPushed()
		res.FactorIDs = append(res.FactorIDs, id)
	}
	s.logger.Infof("seed: pushed %d factors to %s", len(res.FactorIDs), FactorsPath)

	catalog, err := s.firstSnapshot(ctx)
	if err != nil {
		return nil, err
	}
	s.logger.Infof("seed: fetched %d factors from %s", len(catalog), FactorsPath)

	profile := opts.Profile
	profile.UserFactors = catalog
	if err := s.db.Set(ctx, UsersPath+"/"+opts.UserID, profile); err != nil {
		return nil, fmt.Errorf("seed: set profile %s: %w", opts.UserID, err)
	}
	s.logger.Infof("seed: wrote profile %s/%s", UsersPath, opts.UserID)

	res.UserFactors = catalog
	res.Profile = profile
	return res, nil
}

func (s *Seeder) firstSnapshot(ctx context.Context) (map[string]internal.SleepFactor, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	ch, err := s.db.Subscribe(ctx, FactorsPath)
	if err != nil {
		return nil, fmt.Errorf("seed: subscribe %s: %w", FactorsPath, err)
	}
	select {
	case snap, ok := <-ch:
		if !ok {
			return nil, fmt.Errorf("seed: subscription to %s closed", FactorsPath)
		}
		return DecodeFactors(snap.Children)
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Watch forwards every catalog snapshot to fn until ctx is done.
func (s *Seeder) Watch(ctx context.Context, fn func(map[string]internal.SleepFactor)) error {
	ch, err := s.db.Subscribe(ctx, FactorsPath)
	if err != nil {
		return fmt.Errorf("seed: subscribe %s: %w", FactorsPath, err)
	}
	for snap := range ch {
		factors, err := DecodeFactors(snap.Children)
		if err != nil {
			s.logger.Warnf("seed: skipping snapshot: %v", err)
			continue
		}
		fn(factors)
	}
	return ctx.Err()
}

func DecodeFactors(children map[string]json.RawMessage) (map[string]internal.SleepFactor, error) {
	out := make(map[string]internal.SleepFactor, len(children))
	for id, raw := range children {
		var f internal.SleepFactor
		if err := json.Unmarshal(raw, &f); err != nil {
			return nil, fmt.Errorf("seed: decode factor %s: %w", id, err)
		}
		out[id] = f
	}
	return out, nil
}
