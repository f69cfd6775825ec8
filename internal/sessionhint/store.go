// Package sessionhint stores small per-session values that a client cached in an
// earlier flow, such as the gamer id of an interrupted onboarding.
package sessionhint

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"gamehub_backend/internal/config"
	platformredis "gamehub_backend/internal/platform/redis"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// ErrSessionRequired is returned by Write when no session id is supplied.
var ErrSessionRequired = errors.New("session id is required")

// Store reads and writes session hints.
type Store interface {
	Read(ctx context.Context, sessionID, key string) (string, bool, error)
	Write(ctx context.Context, sessionID, key, value string) error
}

// NewStore returns a Redis backed store when a Redis client is configured, and
// an in-process store otherwise.
func NewStore(client *platformredis.Client, cfg *config.Config, logger *zap.Logger) Store {
	if client == nil {
		logger.Warn("Session hints are kept in memory; they will not survive restarts or span instances")
		return NewMemoryStore(cfg.SessionHintTTL)
	}
	return NewRedisStore(client.Client, cfg.SessionHintKeyPrefix, cfg.SessionHintTTL)
}

// RedisStore keeps hints under "<prefix><sessionID>:<key>" with a TTL.
type RedisStore struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// NewRedisStore constructs a Redis backed hint store.
func NewRedisStore(client *redis.Client, prefix string, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, prefix: prefix, ttl: ttl}
}

func (s *RedisStore) key(sessionID, key string) string {
	return s.prefix + sessionID + ":" + key
}

// Read returns the stored hint. A missing session id always reads as absent.
func (s *RedisStore) Read(ctx context.Context, sessionID, key string) (string, bool, error) {
	if sessionID == "" {
		return "", false, nil
	}
	val, err := s.client.Get(ctx, s.key(sessionID, key)).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("read session hint %q: %w", key, err)
	}
	return val, val != "", nil
}

// Write stores a hint, refreshing its TTL.
func (s *RedisStore) Write(ctx context.Context, sessionID, key, value string) error {
	if sessionID == "" {
		return ErrSessionRequired
	}
	if err := s.client.Set(ctx, s.key(sessionID, key), value, s.ttl).Err(); err != nil {
		return fmt.Errorf("write session hint %q: %w", key, err)
	}
	return nil
}

type memoryEntry struct {
	value     string
	expiresAt time.Time
}

// MemoryStore is an in-process Store for development and tests. Expired entries
// are dropped when read and swept on write at most once per TTL.
type MemoryStore struct {
	mu        sync.RWMutex
	entries   map[string]memoryEntry
	ttl       time.Duration
	lastSweep time.Time
	now       func() time.Time
}

// NewMemoryStore creates an empty in-memory store. A zero ttl never expires.
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{entries: make(map[string]memoryEntry), ttl: ttl, now: time.Now}
}

func (e memoryEntry) expired(now time.Time) bool {
	return !e.expiresAt.IsZero() && now.After(e.expiresAt)
}

// Read returns the stored hint if present and not expired.
func (s *MemoryStore) Read(_ context.Context, sessionID, key string) (string, bool, error) {
	if sessionID == "" {
		return "", false, nil
	}
	k := sessionID + ":" + key
	s.mu.RLock()
	entry, ok := s.entries[k]
	s.mu.RUnlock()
	if !ok {
		return "", false, nil
	}
	if now := s.now(); entry.expired(now) {
		s.mu.Lock()
		// A concurrent Write may have replaced the entry in between.
		if current, ok := s.entries[k]; ok && current.expired(now) {
			delete(s.entries, k)
		}
		s.mu.Unlock()
		return "", false, nil
	}
	return entry.value, entry.value != "", nil
}

// Write stores a hint.
func (s *MemoryStore) Write(_ context.Context, sessionID, key, value string) error {
	if sessionID == "" {
		return ErrSessionRequired
	}
	now := s.now()
	entry := memoryEntry{value: value}
	if s.ttl > 0 {
		entry.expiresAt = now.Add(s.ttl)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ttl > 0 && now.Sub(s.lastSweep) >= s.ttl {
		for k, e := range s.entries {
			if e.expired(now) {
				delete(s.entries, k)
			}
		}
		s.lastSweep = now
	}
	s.entries[sessionID+":"+key] = entry
	return nil
}

