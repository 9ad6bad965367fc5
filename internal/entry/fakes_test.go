package entry

import (
	"context"
	"sync"
	"time"

	"github.com/yourname/sleepdiary/internal"
	"github.com/yourname/sleepdiary/internal/timefmt"
)

// fakeStore counts reads and can hold them until release is closed.
type fakeStore struct {
	mu       sync.Mutex
	items    map[string]string
	getErr   error
	release  chan struct{}
	getCalls int
}

func newFakeStore() *fakeStore {
	return &fakeStore{items: make(map[string]string)}
}

func (f *fakeStore) GetItem(ctx context.Context, key string) (string, bool, error) {
	f.mu.Lock()
	f.getCalls++
	release := f.release
	f.mu.Unlock()

	if release != nil {
		<-release
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getErr != nil {
		return "", false, f.getErr
	}
	v, ok := f.items[key]
	return v, ok, nil
}

func (f *fakeStore) SetItem(ctx context.Context, key, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.items[key] = value
	return nil
}

func (f *fakeStore) RemoveItem(ctx context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.items, key)
	return nil
}

func (f *fakeStore) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.getCalls
}

type fakeNavigator struct {
	calls []*internal.SleepEntry
	err   error
}

func (n *fakeNavigator) RequestEdit(ctx context.Context, e *internal.SleepEntry) error {
	n.calls = append(n.calls, e)
	return n.err
}

// today is 2026-10-17, so yesterday is 2026-10-16
func testDates() *timefmt.Dates {
	return timefmt.NewDates(timefmt.FixedClock{T: time.Date(2026, 10, 17, 9, 0, 0, 0, time.UTC)})
}

func sampleEntry(date string) internal.SleepEntry {
	return internal.SleepEntry{
		Date:      date,
		StartTime: "2300",
		EndTime:   "0630",
		Quality:   85,
		EntryFactors: map[string]internal.SleepFactor{
			"-Nb2": {Name: "meditated", Category: internal.CategoryPractice},
			"-Na1": {Name: "caffeine", Category: internal.CategoryChemical},
		},
		Notes: "woke up once",
	}
}
