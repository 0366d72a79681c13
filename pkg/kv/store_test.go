package kv

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	_, err := store.Get(ctx, "missing")
	require.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, store.Set(ctx, "k", "v"))
	value, err := store.Get(ctx, "k")
	require.NoError(t, err)
	require.Equal(t, "v", value)

	require.NoError(t, store.Del(ctx, "k"))
	_, err = store.Get(ctx, "k")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestFileStoreSurvivesReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "state", "markers.json")

	store, err := NewFileStore(path)
	require.NoError(t, err)
	require.NoError(t, store.Set(ctx, "group1", "message9"))
	require.NoError(t, store.Set(ctx, "group2", "message3"))
	require.NoError(t, store.Del(ctx, "group2"))

	reopened, err := NewFileStore(path)
	require.NoError(t, err)

	value, err := reopened.Get(ctx, "group1")
	require.NoError(t, err)
	require.Equal(t, "message9", value)

	_, err = reopened.Get(ctx, "group2")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestFileStoreCorruptFileStartsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "markers.json")
	require.NoError(t, os.WriteFile(path, []byte("not-json"), 0o644))

	store, err := NewFileStore(path)
	require.NoError(t, err)

	_, err = store.Get(context.Background(), "anything")
	require.ErrorIs(t, err, ErrNotFound)
}
