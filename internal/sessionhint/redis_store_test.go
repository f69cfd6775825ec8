package sessionhint

import (
	"context"
	"testing"
	"time"

	"gamehub_backend/internal/config"
	platformredis "gamehub_backend/internal/platform/redis"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newRedisStore(t *testing.T) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisStore(client, "session_hint:", time.Hour), mr
}

func TestRedisStore_ReadMissingKeyIsAbsent(t *testing.T) {
	store, _ := newRedisStore(t)

	val, ok, err := store.Read(context.Background(), "sess-1", "gamerId")

	require.NoError(t, err)
	assert.False(t, ok)
	assert.Empty(t, val)
}

func TestRedisStore_WriteThenRead(t *testing.T) {
	ctx := context.Background()
	store, mr := newRedisStore(t)

	require.NoError(t, store.Write(ctx, "sess-1", "gamerId", "gamer-42"))

	stored, err := mr.Get("session_hint:sess-1:gamerId")
	require.NoError(t, err)
	assert.Equal(t, "gamer-42", stored)
	assert.Equal(t, time.Hour, mr.TTL("session_hint:sess-1:gamerId"))

	val, ok, err := store.Read(ctx, "sess-1", "gamerId")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "gamer-42", val)

	_, ok, err = store.Read(ctx, "sess-2", "gamerId")
	require.NoError(t, err)
	assert.False(t, ok, "hints are scoped to their session")
}

func TestRedisStore_EmptyValueIsAbsent(t *testing.T) {
	ctx := context.Background()
	store, _ := newRedisStore(t)
	require.NoError(t, store.Write(ctx, "sess-1", "gamerId", ""))

	_, ok, err := store.Read(ctx, "sess-1", "gamerId")

	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRedisStore_WriteRefreshesTTL(t *testing.T) {
	ctx := context.Background()
	store, mr := newRedisStore(t)
	key := "session_hint:sess-1:gamerId"

	require.NoError(t, store.Write(ctx, "sess-1", "gamerId", "gamer-1"))
	mr.FastForward(40 * time.Minute)
	assert.Equal(t, 20*time.Minute, mr.TTL(key))

	require.NoError(t, store.Write(ctx, "sess-1", "gamerId", "gamer-2"))
	assert.Equal(t, time.Hour, mr.TTL(key))

	mr.FastForward(61 * time.Minute)
	_, ok, err := store.Read(ctx, "sess-1", "gamerId")
	require.NoError(t, err)
	assert.False(t, ok, "expired hint reads as absent")
}

func TestRedisStore_EmptySession(t *testing.T) {
	ctx := context.Background()
	store, mr := newRedisStore(t)

	assert.ErrorIs(t, store.Write(ctx, "", "gamerId", "x"), ErrSessionRequired)
	_, ok, err := store.Read(ctx, "", "gamerId")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Empty(t, mr.Keys())
}

func TestRedisStore_ServerErrorsAreReturned(t *testing.T) {
	ctx := context.Background()
	store, mr := newRedisStore(t)
	// Warm the pool so the failure hits the command, not the handshake.
	require.NoError(t, store.Write(ctx, "sess-1", "gamerId", "gamer-1"))
	mr.SetError("ERR simulated outage")

	_, ok, err := store.Read(ctx, "sess-1", "gamerId")
	require.Error(t, err)
	assert.False(t, ok)
	assert.Contains(t, err.Error(), "read session hint")

	err = store.Write(ctx, "sess-1", "gamerId", "gamer-42")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "write session hint")
}

func TestNewStore_UsesRedisWhenConfigured(t *testing.T) {
	mr := miniredis.RunT(t)
	cfg := &config.Config{RedisURL: "redis://" + mr.Addr(), SessionHintKeyPrefix: "hint:", SessionHintTTL: time.Hour}
	client, cleanup, err := platformredis.New(cfg, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(cleanup)
	require.NoError(t, client.Health(context.Background()))

	store := NewStore(client, cfg, zap.NewNop())
	require.IsType(t, &RedisStore{}, store)

	require.NoError(t, store.Write(context.Background(), "sess-1", "gamerId", "gamer-42"))
	assert.True(t, mr.Exists("hint:sess-1:gamerId"))
}
