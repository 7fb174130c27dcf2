package kvstore

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFile(t *testing.T) {
	store, err := NewFile("file://" + t.TempDir())
	require.NoError(t, err)

	exerciseStore(t, store)
	exerciseConcurrentWrites(t, store)
}

func TestFile_PersistsAcrossInstances(t *testing.T) {
	root := t.TempDir()
	ctx := context.Background()

	first, err := NewFile(root)
	require.NoError(t, err)
	require.NoError(t, first.Set(ctx, "ai-workflows", `[]`))

	second, err := NewFile(root)
	require.NoError(t, err)

	value, err := second.Get(ctx, "ai-workflows")
	require.NoError(t, err)
	assert.Equal(t, `[]`, value)
}

func TestFile_EscapesKeys(t *testing.T) {
	root := t.TempDir()
	ctx := context.Background()

	store, err := NewFile(root)
	require.NoError(t, err)
	require.NoError(t, store.Set(ctx, "../outside", "x"))

	_, err = os.Stat(filepath.Join(root, "outside.json"))
	assert.True(t, os.IsNotExist(err))

	value, err := store.Get(ctx, "../outside")
	require.NoError(t, err)
	assert.Equal(t, "x", value)
}

func TestFile_CorruptEntry(t *testing.T) {
	root := t.TempDir()

	store, err := NewFile(root)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(root, "kv", "broken.json"), []byte("{"), 0o600))

	_, err = store.Get(context.Background(), "broken")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotFound)
}

func TestFile_HealthCheck(t *testing.T) {
	root := t.TempDir()

	store, err := NewFile(root)
	require.NoError(t, err)
	require.NoError(t, os.RemoveAll(filepath.Join(root, "kv")))

	assert.Error(t, store.HealthCheck(context.Background()))
}

func TestNewFile_EmptyRoot(t *testing.T) {
	_, err := NewFile("file://")
	assert.Error(t, err)
}
