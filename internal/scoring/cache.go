package scoring

import (
	"context"
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// Cache keeps scoring results in memory (L1) and optionally in Redis (L2).
// L1 is lost on restart; L2 is shared between instances.
type Cache struct {
	mu      sync.RWMutex
	entries map[string]*cacheEntry
	rdb     *redis.Client // nil when Redis is not configured
	ttl     time.Duration
	now     func() time.Time
}

type cacheEntry struct {
	result    Result
	expiresAt time.Time
}

// NewCache creates a cache. redisURL may be empty to disable L2; an
// unreachable Redis is logged and skipped.
func NewCache(redisURL string, ttl time.Duration) *Cache {
	c := &Cache{
		entries: make(map[string]*cacheEntry),
		ttl:     ttl,
		now:     time.Now,
	}
	if redisURL == "" {
		return c
	}

	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		log.Printf("[ScoreCache] invalid REDIS_URL, L2 disabled: %v", err)
		return c
	}
	rdb := redis.NewClient(opts)
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Printf("[ScoreCache] redis unreachable, L2 disabled: %v", err)
		rdb.Close()
		return c
	}
	c.rdb = rdb
	log.Printf("[ScoreCache] L2 redis connected (%s)", opts.Addr)
	return c
}

// Key builds a deterministic cache key for a request.
func Key(req Request) string {
	data, _ := json.Marshal(req)
	hash := sha256.Sum256(data)
	return fmt.Sprintf("score:%x", hash[:16])
}

// Get tries L1, then L2. An L2 hit repopulates L1.
func (c *Cache) Get(ctx context.Context, key string) (*Result, bool) {
	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()
	if ok {
		if c.now().Before(entry.expiresAt) {
			res := entry.result
			return &res, true
		}
		c.mu.Lock()
		delete(c.entries, key)
		c.mu.Unlock()
	}

	if c.rdb == nil {
		return nil, false
	}
	data, err := c.rdb.Get(ctx, key).Bytes()
	if err != nil {
		if err != redis.Nil {
			log.Printf("[ScoreCache] L2 get failed: %v", err)
		}
		return nil, false
	}
	var res Result
	if err := json.Unmarshal(data, &res); err != nil {
		return nil, false
	}
	c.store(key, res)
	return &res, true
}

// Set stores the result in both tiers.
func (c *Cache) Set(ctx context.Context, key string, res *Result) {
	if res == nil {
		return
	}
	c.store(key, *res)

	if c.rdb == nil {
		return
	}
	data, err := json.Marshal(res)
	if err != nil {
		return
	}
	if err := c.rdb.Set(ctx, key, data, c.ttl).Err(); err != nil {
		log.Printf("[ScoreCache] L2 set failed: %v", err)
	}
}

func (c *Cache) store(key string, res Result) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = &cacheEntry{result: res, expiresAt: c.now().Add(c.ttl)}
}

// CleanExpired removes expired L1 entries.
func (c *Cache) CleanExpired() {
	c.mu.Lock()
	defer c.mu.Unlock()
	now := c.now()
	for key, entry := range c.entries {
		if !now.Before(entry.expiresAt) {
			delete(c.entries, key)
		}
	}
}

// Size returns the number of L1 entries.
func (c *Cache) Size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// StartCleanup runs CleanExpired every interval until ctx is done.
func (c *Cache) StartCleanup(ctx context.Context, interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				c.CleanExpired()
			}
		}
	}()
}

func (c *Cache) Close() error {
	if c.rdb != nil {
		return c.rdb.Close()
	}
	return nil
}

// CachingScorer serves repeated identical requests from the cache.
type CachingScorer struct {
	next  Scorer
	cache *Cache
}

func NewCachingScorer(next Scorer, cache *Cache) *CachingScorer {
	return &CachingScorer{next: next, cache: cache}
}

func (s *CachingScorer) Score(ctx context.Context, req Request) (*Result, error) {
	key := Key(req)
	if res, ok := s.cache.Get(ctx, key); ok {
		return res, nil
	}
	res, err := s.next.Score(ctx, req)
	if err != nil {
		return nil, err
	}
	s.cache.Set(ctx, key, res)
	return res, nil
}

// Refresh always calls the wrapped scorer and overwrites the cached entry.
func (s *CachingScorer) Refresh(ctx context.Context, req Request) (*Result, error) {
	res, err := s.next.Score(ctx, req)
	if err != nil {
		return nil, err
	}
	s.cache.Set(ctx, Key(req), res)
	return res, nil
}

type refreshingScorer struct{ *CachingScorer }

func (s refreshingScorer) Score(ctx context.Context, req Request) (*Result, error) {
	return s.Refresh(ctx, req)
}

// Uncached returns a Scorer that never answers from the cache. Results still
// refresh the cache when s is a *CachingScorer; other scorers are returned
// unchanged.
func Uncached(s Scorer) Scorer {
	if cs, ok := s.(*CachingScorer); ok {
		return refreshingScorer{cs}
	}
	return s
}
