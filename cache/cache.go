// Package cache persists the last-known UserProfile in client-local storage.
//
// The cache is advisory only: absence means logged out, presence is a
// best-effort mirror of the controller's in-memory state, and the identity
// provider session - never the cache - is the source of truth.
package cache

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/go-redis/redis/v8"

	"github.com/twiller-app/authkit"
)

// A Store holds at most one serialized UserProfile under the fixed
// [authkit.CacheKey] namespace.
//
// Implementations are best effort: a Store ought to report a miss rather
// than an error when its backend misbehaves.
type Store interface {
	Get(ctx context.Context) (authkit.UserProfile, bool)
	Set(ctx context.Context, profile authkit.UserProfile)
	Clear(ctx context.Context)
}

var (
	memLock sync.Mutex

	_ Store = (*MemStore)(nil)
	_ Store = RedisStore{}
)

// A MemStore keeps the cached profile in process memory.
//
// Restarts reset it; use it for tests and stubbed-service environments.
type MemStore struct {
	val *authkit.UserProfile
}

// NewMemStore initializes a MemStore for use as a session cache.
func NewMemStore() *MemStore { return new(MemStore) }

// Get retrieves the cached profile, reporting whether one is held.
func (m *MemStore) Get(ctx context.Context) (authkit.UserProfile, bool) {
	select {
	case <-ctx.Done():
		return authkit.UserProfile{}, false
	default:
		memLock.Lock()
		defer memLock.Unlock()

		if m.val == nil {
			return authkit.UserProfile{}, false
		}
		return *m.val, true
	}
}

// Set overwrites the cached profile.
func (m *MemStore) Set(ctx context.Context, profile authkit.UserProfile) {
	select {
	case <-ctx.Done():
		return
	default:
		memLock.Lock()
		defer memLock.Unlock()
		m.val = &profile
	}
}

// Clear drops the cached profile.
func (m *MemStore) Clear(ctx context.Context) {
	select {
	case <-ctx.Done():
		return
	default:
		memLock.Lock()
		defer memLock.Unlock()
		m.val = nil
	}
}

// A RedisStore connects to a Redis backend for deployments
// sharing the advisory cache across processes.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore constructs a RedisStore with the options passed in.
func NewRedisStore(opts *redis.Options) RedisStore {
	return RedisStore{client: redis.NewClient(opts)}
}

// Get retrieves the profile stored under [authkit.CacheKey] from the connected Redis backend.
func (rs RedisStore) Get(ctx context.Context) (authkit.UserProfile, bool) {
	select {
	case <-ctx.Done():
		return authkit.UserProfile{}, false
	default:
		b, err := rs.client.Get(ctx, authkit.CacheKey).Bytes()
		if err != nil {
			return authkit.UserProfile{}, false
		}

		var profile authkit.UserProfile
		if err := json.Unmarshal(b, &profile); err != nil {
			return authkit.UserProfile{}, false
		}

		return profile, true
	}
}

// Set saves the profile under [authkit.CacheKey] in the Redis backend.
func (rs RedisStore) Set(ctx context.Context, profile authkit.UserProfile) {
	select {
	case <-ctx.Done():
		return
	default:
		b, err := json.Marshal(profile)
		if err != nil {
			return
		}
		rs.client.Set(ctx, authkit.CacheKey, b, 0)
	}
}

// Clear drops the profile from the Redis backend.
func (rs RedisStore) Clear(ctx context.Context) {
	select {
	case <-ctx.Done():
		return
	default:
		rs.client.Del(ctx, authkit.CacheKey)
	}
}
