package sessionhint

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"gamehub_backend/internal/common"
	"gamehub_backend/internal/config"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestMemoryStore_ReadWrite(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(time.Hour)
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }

	_, ok, err := store.Read(ctx, "sess-1", "gamerId")
	require.NoError(t, err)
	assert.False(t, ok, "nothing stored yet")

	require.NoError(t, store.Write(ctx, "sess-1", "gamerId", "gamer-42"))

	val, ok, err := store.Read(ctx, "sess-1", "gamerId")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "gamer-42", val)

	_, ok, _ = store.Read(ctx, "sess-2", "gamerId")
	assert.False(t, ok, "hints are scoped to their session")

	now = now.Add(2 * time.Hour)
	_, ok, _ = store.Read(ctx, "sess-1", "gamerId")
	assert.False(t, ok, "expired hint reads as absent")
}

func TestMemoryStore_EmptySession(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(0)

	assert.ErrorIs(t, store.Write(ctx, "", "gamerId", "x"), ErrSessionRequired)

	_, ok, err := store.Read(ctx, "", "gamerId")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMemoryStore_EmptyValueIsAbsent(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(0)
	require.NoError(t, store.Write(ctx, "sess-1", "gamerId", ""))

	_, ok, err := store.Read(ctx, "sess-1", "gamerId")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMemoryStore_EvictsExpiredEntries(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(time.Hour)
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }

	require.NoError(t, store.Write(ctx, "sess-1", "gamerId", "gamer-1"))
	require.NoError(t, store.Write(ctx, "sess-2", "gamerId", "gamer-2"))
	require.Len(t, store.entries, 2)

	now = now.Add(2 * time.Hour)
	_, ok, err := store.Read(ctx, "sess-1", "gamerId")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Len(t, store.entries, 1, "an expired entry is dropped when read")

	require.NoError(t, store.Write(ctx, "sess-3", "gamerId", "gamer-3"))
	assert.Len(t, store.entries, 1, "writes sweep entries nobody read again")
	_, stillThere := store.entries["sess-2:gamerId"]
	assert.False(t, stillThere)
}

func TestMemoryStore_RewrittenEntrySurvivesRead(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(time.Hour)
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }

	require.NoError(t, store.Write(ctx, "sess-1", "gamerId", "old"))
	now = now.Add(2 * time.Hour)
	require.NoError(t, store.Write(ctx, "sess-1", "gamerId", "new"))

	val, ok, err := store.Read(ctx, "sess-1", "gamerId")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "new", val)
}

func TestNewStore_FallsBackToMemory(t *testing.T) {
	store := NewStore(nil, &config.Config{SessionHintTTL: time.Hour}, zap.NewNop())
	_, isMemory := store.(*MemoryStore)
	assert.True(t, isMemory)
}

func TestRedisStore_Key(t *testing.T) {
	s := NewRedisStore(nil, "session_hint:", time.Hour)
	assert.Equal(t, "session_hint:sess-1:gamerId", s.key("sess-1", "gamerId"))

	// An empty session short-circuits before touching the client.
	_, ok, err := s.Read(context.Background(), "", "gamerId")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestHandler_PutHint(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name       string
		key        string
		sessionID  string
		body       string
		wantStatus int
		wantStored bool
	}{
		{name: "stores gamer id", key: "gamerId", sessionID: "sess-1", body: `{"value":"gamer-42"}`, wantStatus: http.StatusNoContent, wantStored: true},
		{name: "unknown key", key: "isAdmin", sessionID: "sess-1", body: `{"value":"true"}`, wantStatus: http.StatusNotFound},
		{name: "missing session header", key: "gamerId", body: `{"value":"gamer-42"}`, wantStatus: http.StatusBadRequest},
		{name: "missing value", key: "gamerId", sessionID: "sess-1", body: `{}`, wantStatus: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := NewMemoryStore(time.Hour)
			router := gin.New()
			NewHandler(store, zap.NewNop()).RegisterRoutes(router.Group("/api/v1"))

			req := httptest.NewRequest(http.MethodPut, "/api/v1/session/hints/"+tt.key, bytes.NewBufferString(tt.body))
			req.Header.Set("Content-Type", "application/json")
			if tt.sessionID != "" {
				req.Header.Set(common.SessionIDHeader, tt.sessionID)
			}
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
			val, ok, err := store.Read(context.Background(), "sess-1", tt.key)
			require.NoError(t, err)
			assert.Equal(t, tt.wantStored, ok)
			if tt.wantStored {
				assert.Equal(t, "gamer-42", val)
			}
		})
	}
}
