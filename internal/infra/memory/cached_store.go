package memory

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"quizgenius/internal/app"
	"golang.org/x/sync/singleflight"
)

// CachedStore caches reads of a slower backing store (Redis, Postgres) with a TTL.
// Concurrent misses for one key share a single backend read.
type CachedStore struct {
	backend app.Store
	ttl     time.Duration
	clock   func() time.Time
	sf      singleflight.Group
	rnd     *rand.Rand
	rndMu   sync.Mutex

	mu    sync.RWMutex
	cache map[string]cachedValue
}

type cachedValue struct {
	value     []byte
	found     bool
	expiresAt time.Time
}

type readResult struct {
	value []byte
	found bool
}

func NewCachedStore(backend app.Store, ttl time.Duration) *CachedStore {
	return &CachedStore{
		backend: backend,
		ttl:     ttl,
		clock:   time.Now,
		rnd:     rand.New(rand.NewSource(time.Now().UnixNano())),
		cache:   make(map[string]cachedValue),
	}
}

func (c *CachedStore) Read(ctx context.Context, key string) ([]byte, bool, error) {
	if entry, ok := c.lookup(key); ok {
		return append([]byte(nil), entry.value...), entry.found, nil
	}

	result, err, _ := c.sf.Do(key, func() (interface{}, error) {
		if entry, ok := c.lookup(key); ok {
			return readResult{value: entry.value, found: entry.found}, nil
		}

		value, found, err := c.backend.Read(ctx, key)
		if err != nil {
			return readResult{}, err
		}
		c.put(key, value, found)
		return readResult{value: value, found: found}, nil
	})
	if err != nil {
		return nil, false, err
	}
	rr := result.(readResult)
	return append([]byte(nil), rr.value...), rr.found, nil
}

// ReadFresh reads the backend directly and refreshes the cached entry. Repositories use it
// before rewriting a collection so a stale entry never overwrites a newer backend value.
func (c *CachedStore) ReadFresh(ctx context.Context, key string) ([]byte, bool, error) {
	value, found, err := c.backend.Read(ctx, key)
	if err != nil {
		return nil, false, err
	}
	c.put(key, append([]byte(nil), value...), found)
	return value, found, nil
}

// Write goes to the backend first; the cache only changes once the backend accepted the value.
func (c *CachedStore) Write(ctx context.Context, key string, value []byte) error {
	if err := c.backend.Write(ctx, key, value); err != nil {
		c.mu.Lock()
		delete(c.cache, key)
		c.mu.Unlock()
		return err
	}
	c.put(key, append([]byte(nil), value...), true)
	return nil
}

func (c *CachedStore) lookup(key string) (cachedValue, bool) {
	now := c.clock()
	c.mu.RLock()
	defer c.mu.RUnlock()
	entry, ok := c.cache[key]
	if !ok || !entry.expiresAt.After(now) {
		return cachedValue{}, false
	}
	return entry, true
}

func (c *CachedStore) put(key string, value []byte, found bool) {
	ttl := c.ttlWithJitter()
	if ttl <= 0 {
		return
	}
	c.mu.Lock()
	c.cache[key] = cachedValue{
		value:     value,
		found:     found,
		expiresAt: c.clock().Add(ttl),
	}
	c.mu.Unlock()
}

func (c *CachedStore) ttlWithJitter() time.Duration {
	if c.ttl <= 0 {
		return 0
	}
	// add up to 10% jitter to spread expirations
	jitterMax := int64(c.ttl) / 10
	c.rndMu.Lock()
	defer c.rndMu.Unlock()
	return c.ttl + time.Duration(c.rnd.Int63n(jitterMax+1))
}
