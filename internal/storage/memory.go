package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/google/uuid"
)

type MemoryStore struct {
	mu    sync.RWMutex
	items map[string]string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{items: make(map[string]string)}
}

func (s *MemoryStore) GetItem(ctx context.Context, key string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.items[key]
	return v, ok, nil
}

func (s *MemoryStore) SetItem(ctx context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[key] = value
	return nil
}

func (s *MemoryStore) RemoveItem(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.items, key)
	return nil
}

func (s *MemoryStore) Close() error { return nil }

// MemoryDatabase is an in-process realtime tree. Subscribers that fall behind
// skip intermediate snapshots rather than block writers.
type MemoryDatabase struct {
	mu     sync.Mutex
	nodes  map[string]map[string]json.RawMessage // parent -> key -> value
	subs   map[string]map[*memorySub]struct{}
	newID  func() string
	closed bool
}

type memorySub struct {
	ch chan Snapshot
}

func NewMemoryDatabase() *MemoryDatabase {
	return &MemoryDatabase{
		nodes: make(map[string]map[string]json.RawMessage),
		subs:  make(map[string]map[*memorySub]struct{}),
		newID: uuid.NewString,
	}
}

func (d *MemoryDatabase) Push(ctx context.Context, path string, value any) (string, error) {
	id := d.newID()
	if err := d.Set(ctx, cleanPath(path)+"/"+id, value); err != nil {
		return "", err
	}
	return id, nil
}

func (d *MemoryDatabase) Set(ctx context.Context, path string, value any) error {
	parent, key, err := splitPath(path)
	if err != nil {
		return err
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("storage: encode %s: %w", path, err)
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return fmt.Errorf("storage: database closed")
	}
	if d.nodes[parent] == nil {
		d.nodes[parent] = make(map[string]json.RawMessage)
	}
	d.nodes[parent][key] = raw
	d.publishLocked(parent)
	return nil
}

func (d *MemoryDatabase) Get(ctx context.Context, path string) (map[string]json.RawMessage, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.childrenLocked(cleanPath(path)), nil
}

func (d *MemoryDatabase) Subscribe(ctx context.Context, path string) (<-chan Snapshot, error) {
	path = cleanPath(path)
	sub := &memorySub{ch: make(chan Snapshot, 1)}

	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return nil, fmt.Errorf("storage: database closed")
	}
	if d.subs[path] == nil {
		d.subs[path] = make(map[*memorySub]struct{})
	}
	d.subs[path][sub] = struct{}{}
	sub.ch <- Snapshot{Path: path, Children: d.childrenLocked(path)}
	d.mu.Unlock()

	go func() {
		<-ctx.Done()
		d.mu.Lock()
		defer d.mu.Unlock()
		if _, ok := d.subs[path][sub]; ok {
			delete(d.subs[path], sub)
			close(sub.ch)
		}
	}()

	return sub.ch, nil
}

func (d *MemoryDatabase) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return nil
	}
	d.closed = true
	for path, set := range d.subs {
		for sub := range set {
			close(sub.ch)
		}
		delete(d.subs, path)
	}
	return nil
}

func (d *MemoryDatabase) childrenLocked(parent string) map[string]json.RawMessage {
	out := make(map[string]json.RawMessage, len(d.nodes[parent]))
	for k, v := range d.nodes[parent] {
		out[k] = v
	}
	return out
}

func (d *MemoryDatabase) publishLocked(parent string) {
	if len(d.subs[parent]) == 0 {
		return
	}
	snap := Snapshot{Path: parent, Children: d.childrenLocked(parent)}
	for sub := range d.subs[parent] {
		// drop the stale snapshot so the newest one always gets through
		select {
		case <-sub.ch:
		default:
		}
		sub.ch <- snap
	}
}

var (
	_ KeyValueStore = (*MemoryStore)(nil)
	_ Database      = (*MemoryDatabase)(nil)
)
