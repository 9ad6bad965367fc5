package entry

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/yourname/sleepdiary/internal"
	"github.com/yourname/sleepdiary/internal/metrics"
	"github.com/yourname/sleepdiary/internal/storage"
)

// YesterdaysEntryKey is where the client caches the most recent entry.
const YesterdaysEntryKey = "yesterdaysEntry"

// Resolved is the outcome of loading a source. Entry is nil when the fallback
// lookup found nothing usable.
type Resolved struct {
	Entry        *internal.SleepEntry
	FromFallback bool
}

type Loader struct {
	store   storage.KeyValueStore
	logger  internal.Logger
	metrics *metrics.Metrics
}

func NewLoader(store storage.KeyValueStore, logger internal.Logger, m *metrics.Metrics) *Loader {
	return &Loader{store: store, logger: logger, metrics: m}
}

// Load never fails: storage and decoding problems are logged and surface as
// a nil entry, which the presenter renders as blank fields.
func (l *Loader) Load(ctx context.Context, src EntrySource) Resolved {
	if e, ok := src.Entry(); ok {
		l.metrics.EntryLoaded(Provided.String(), "found")
		return Resolved{Entry: &e}
	}

	res := Resolved{FromFallback: true}
	raw, found, err := l.store.GetItem(ctx, YesterdaysEntryKey)
	switch {
	case err != nil:
		l.logger.Warnf("entry: reading %s: %v", YesterdaysEntryKey, err)
		l.metrics.EntryLoaded(FallbackLookup.String(), "error")
		return res
	case !found:
		l.logger.Infof("entry: nothing cached under %s", YesterdaysEntryKey)
		l.metrics.EntryLoaded(FallbackLookup.String(), "missing")
		return res
	}

	var e *internal.SleepEntry
	if err := json.Unmarshal([]byte(raw), &e); err != nil {
		l.logger.Warnf("entry: decoding %s: %v", YesterdaysEntryKey, err)
		l.metrics.EntryLoaded(FallbackLookup.String(), "corrupt")
		return res
	}
	if e == nil {
		l.metrics.EntryLoaded(FallbackLookup.String(), "missing")
		return res
	}
	l.metrics.EntryLoaded(FallbackLookup.String(), "found")
	res.Entry = e
	return res
}

// CacheYesterdaysEntry stores e where the fallback lookup will find it.
func (l *Loader) CacheYesterdaysEntry(ctx context.Context, e internal.SleepEntry) error {
	raw, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("entry: encode: %w", err)
	}
	if err := l.store.SetItem(ctx, YesterdaysEntryKey, string(raw)); err != nil {
		return fmt.Errorf("entry: cache %s: %w", YesterdaysEntryKey, err)
	}
	return nil
}
