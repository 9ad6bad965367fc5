package storage

import (
	"context"
	"encoding/json"
	"errors"
)

var ErrNotFound = errors.New("storage: not found")

// KeyValueStore is the device-local string store the diary caches entries in.
type KeyValueStore interface {
	GetItem(ctx context.Context, key string) (value string, found bool, err error)
	SetItem(ctx context.Context, key, value string) error
	RemoveItem(ctx context.Context, key string) error
}

// Snapshot is the full set of children under a path at one point in time.
type Snapshot struct {
	Path     string                     `json:"path"`
	Children map[string]json.RawMessage `json:"children"`
}

// Database is the hosted realtime tree. Paths are slash separated, e.g.
// "sleepFactors" or "users/u1".
type Database interface {
	// Push stores value under a new generated child id of path.
	Push(ctx context.Context, path string, value any) (string, error)
	// Set replaces the value stored at path.
	Set(ctx context.Context, path string, value any) error
	// Get returns the children of path. A path with no children yields an empty map.
	Get(ctx context.Context, path string) (map[string]json.RawMessage, error)
	// Subscribe emits the current children of path and then a fresh snapshot
	// after each change until ctx is done, at which point the channel is closed.
	// A slow reader may only see the latest of several changes.
	Subscribe(ctx context.Context, path string) (<-chan Snapshot, error)
	Close() error
}
