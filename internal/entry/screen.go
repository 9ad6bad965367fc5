package entry

import (
	"context"
	"errors"
	"sync"

	"github.com/yourname/sleepdiary/internal"
	"github.com/yourname/sleepdiary/internal/metrics"
	"github.com/yourname/sleepdiary/internal/timefmt"
)

var (
	ErrScreenOpened = errors.New("entry: screen already opened")
	ErrScreenClosed = errors.New("entry: screen closed")
)

// Screen is one instance of the single-entry screen. It owns the active
// entry and re-derives its view every time that entry changes.
type Screen struct {
	loader  *Loader
	dates   timefmt.DateUtil
	nav     Navigator
	logger  internal.Logger
	metrics *metrics.Metrics

	mu           sync.Mutex
	entry        *internal.SleepEntry
	fromFallback bool
	view         ViewModel
	listeners    []func(ViewModel)
	opened       bool
	closed       bool
	cancel       context.CancelFunc
	done         chan struct{}
}

func NewScreen(loader *Loader, dates timefmt.DateUtil, nav Navigator, logger internal.Logger, m *metrics.Metrics) *Screen {
	s := &Screen{
		loader:  loader,
		dates:   dates,
		nav:     nav,
		logger:  logger,
		metrics: m,
		cancel:  func() {},
		done:    make(chan struct{}),
	}
	s.view = Derive(nil, false, dates)
	return s
}

// OnChange registers fn to be called with the new view after every change.
func (s *Screen) OnChange(fn func(ViewModel)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, fn)
}

// Open resolves src. A provided entry is applied before Open returns; the
// fallback lookup runs in the background and is dropped if the screen is
// closed first. Use Wait to block until it settles.
func (s *Screen) Open(ctx context.Context, src EntrySource) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrScreenClosed
	}
	if s.opened {
		s.mu.Unlock()
		return ErrScreenOpened
	}
	s.opened = true

	if src.Kind() == Provided {
		s.mu.Unlock()
		s.apply(s.loader.Load(ctx, src))
		close(s.done)
		return nil
	}

	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.mu.Unlock()

	go func() {
		defer close(s.done)
		defer cancel()
		s.apply(s.loader.Load(ctx, src))
	}()
	return nil
}

// Wait blocks until the load started by Open has settled or ctx is done.
func (s *Screen) Wait(ctx context.Context) error {
	select {
	case <-s.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close tears the screen down. Results arriving afterwards are discarded.
func (s *Screen) Close() {
	s.mu.Lock()
	s.closed = true
	if !s.opened {
		s.opened = true
		close(s.done)
	}
	cancel := s.cancel
	s.mu.Unlock()
	cancel()
}

func (s *Screen) apply(res Resolved) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		s.logger.Debugf("entry: screen closed, dropping loaded entry")
		return
	}
	if res.FromFallback {
		s.fromFallback = true
	}
	s.mu.Unlock()
	s.SetEntry(res.Entry)
}

// SetEntry replaces the active entry and notifies listeners with the new view.
// The fallback flag set at load time survives entry changes.
func (s *Screen) SetEntry(e *internal.SleepEntry) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.entry = e
	s.view = Derive(e, s.fromFallback, s.dates)
	view := s.view
	listeners := append([]func(ViewModel){}, s.listeners...)
	s.mu.Unlock()

	for _, fn := range listeners {
		fn(view)
	}
}

func (s *Screen) View() ViewModel {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.view
}

func (s *Screen) Entry() *internal.SleepEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.entry
}

// Edit asks the navigator to open the editor for the active entry.
func (s *Screen) Edit(ctx context.Context) error {
	s.mu.Lock()
	canEdit := s.view.CanEdit
	e := s.entry
	s.mu.Unlock()

	if !canEdit {
		s.metrics.EditRequested("denied")
		return ErrEditUnavailable
	}
	if err := s.nav.RequestEdit(ctx, e); err != nil {
		s.metrics.EditRequested("error")
		return err
	}
	s.metrics.EditRequested("allowed")
	return nil
}
