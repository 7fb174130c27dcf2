package kvstore

import (
	"context"
	"log/slog"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRedis(t *testing.T) (*Redis, *miniredis.Miniredis) {
	t.Helper()

	server := miniredis.RunT(t)

	store, err := NewRedis(context.Background(), slog.Default(), "redis://"+server.Addr())
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	return store, server
}

func TestRedis(t *testing.T) {
	store, _ := newTestRedis(t)

	exerciseStore(t, store)
	exerciseConcurrentWrites(t, store)
}

func TestRedis_UsesPrefix(t *testing.T) {
	store, server := newTestRedis(t)

	require.NoError(t, store.Set(context.Background(), KeyAPIKey, "sk"))

	value, err := server.Get("scribe:ai-api-key")
	require.NoError(t, err)
	assert.Equal(t, "sk", value)
}

func TestRedis_ServerDown(t *testing.T) {
	store, server := newTestRedis(t)
	server.Close()

	_, err := store.Get(context.Background(), "k")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotFound)
	assert.Error(t, store.HealthCheck(context.Background()))
}

func TestNewRedis_BadURL(t *testing.T) {
	_, err := NewRedis(context.Background(), slog.Default(), "http://nope")
	assert.Error(t, err)
}
