// Package cache maps source URLs to previously resolved media URLs, so a
// repeat acquisition can skip the strategy search. Entries are persisted as a
// single JSON blob under one key of the configuration store.
package cache

import (
	"encoding/json"
	"sync"
	"time"

	"go.uber.org/zap"

	"subclip/store"
)

const (
	// DefaultTTL is how long a resolved URL is trusted. CDN URLs routinely
	// expire server-side well before this; download failure evicts early.
	DefaultTTL = 24 * time.Hour

	DefaultKey = "resolved_urls"
)

type entry struct {
	MediaURL string    `json:"media_url"`
	StoredAt time.Time `json:"stored_at"`
}

// Cache is safe for concurrent use; all KV access is single-key
// read-modify-write under one mutex.
type Cache struct {
	mu  sync.Mutex
	kv  store.KV
	key string
	ttl time.Duration
	now func() time.Time
	log *zap.SugaredLogger
}

type Option func(*Cache)

func WithTTL(ttl time.Duration) Option {
	return func(c *Cache) { c.ttl = ttl }
}

func WithKey(key string) Option {
	return func(c *Cache) { c.key = key }
}

// WithClock overrides the time source, for tests.
func WithClock(now func() time.Time) Option {
	return func(c *Cache) { c.now = now }
}

func New(kv store.KV, opts ...Option) *Cache {
	c := &Cache{
		kv:  kv,
		key: DefaultKey,
		ttl: DefaultTTL,
		now: time.Now,
		log: zap.S().Named("cache"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Get returns the cached media URL for sourceURL. An entry older than the TTL
// is treated as absent; it is not purged here, only on the next write.
func (c *Cache) Get(sourceURL string) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	entries := c.load()
	e, found := entries[sourceURL]
	if !found || c.stale(e) {
		return "", false
	}
	return e.MediaURL, true
}

// Put stores a resolved URL, purging any stale entries while it holds the blob.
func (c *Cache) Put(sourceURL, mediaURL string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	entries := c.load()
	for key, e := range entries {
		if c.stale(e) {
			delete(entries, key)
		}
	}
	entries[sourceURL] = entry{MediaURL: mediaURL, StoredAt: c.now()}
	return c.save(entries)
}

// Evict removes an entry, e.g. after the resolved URL failed to download.
func (c *Cache) Evict(sourceURL string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	entries := c.load()
	if _, found := entries[sourceURL]; !found {
		return nil
	}
	delete(entries, sourceURL)
	return c.save(entries)
}

// Len reports the number of entries, fresh or stale. Mostly for tests.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.load())
}

func (c *Cache) stale(e entry) bool {
	return c.now().Sub(e.StoredAt) >= c.ttl
}

// load never fails: a missing or unreadable blob just means an empty cache.
func (c *Cache) load() map[string]entry {
	entries := make(map[string]entry)
	blob, found, err := c.kv.Get(c.key)
	if err != nil {
		c.log.Warnw("failed to read cache blob", "err", err)
		return entries
	}
	if !found {
		return entries
	}
	if err := json.Unmarshal(blob, &entries); err != nil {
		c.log.Warnw("discarding corrupt cache blob", "err", err)
		return make(map[string]entry)
	}
	return entries
}

func (c *Cache) save(entries map[string]entry) error {
	blob, err := json.Marshal(entries)
	if err != nil {
		return err
	}
	return c.kv.Put(c.key, blob)
}
