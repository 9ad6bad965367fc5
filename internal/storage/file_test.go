package storage

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yourname/sleepdiary/internal"
)

func TestFileStore_SetGetRemove(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "kv.json")

	store, err := NewFileStore(path, internal.NewNopLogger())
	require.NoError(t, err)
	defer store.Close()

	_, found, err := store.GetItem(ctx, "yesterdaysEntry")
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, store.SetItem(ctx, "yesterdaysEntry", `{"date":"2026-10-16"}`))
	v, found, err := store.GetItem(ctx, "yesterdaysEntry")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, `{"date":"2026-10-16"}`, v)

	require.NoError(t, store.RemoveItem(ctx, "yesterdaysEntry"))
	_, found, _ = store.GetItem(ctx, "yesterdaysEntry")
	assert.False(t, found)
}

func TestFileStore_PersistsAcrossReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "kv.json")

	store, err := NewFileStore(path, internal.NewNopLogger())
	require.NoError(t, err)
	require.NoError(t, store.SetItem(ctx, "a", "1"))
	require.NoError(t, store.Close())
	// second close is a no-op
	require.NoError(t, store.Close())

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	var onDisk map[string]string
	require.NoError(t, json.Unmarshal(raw, &onDisk))
	assert.Equal(t, map[string]string{"a": "1"}, onDisk)

	reopened, err := NewFileStore(path, internal.NewNopLogger())
	require.NoError(t, err)
	defer reopened.Close()
	v, found, err := reopened.GetItem(ctx, "a")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "1", v)
}

func TestFileStore_EmptyFileLoads(t *testing.T) {
	path := filepath.Join(t.TempDir(), "kv.json")
	require.NoError(t, os.WriteFile(path, nil, 0o644))

	store, err := NewFileStore(path, internal.NewNopLogger())
	require.NoError(t, err)
	defer store.Close()
}

func TestFileStore_CorruptFileFails(t *testing.T) {
	path := filepath.Join(t.TempDir(), "kv.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	_, err := NewFileStore(path, internal.NewNopLogger())
	assert.Error(t, err)
}
