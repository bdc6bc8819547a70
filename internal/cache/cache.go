// Package cache persists API responses in flat JSON files so repeated
// invocations within the TTL window skip the network entirely.
package cache

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sort"
	"time"

	"go.uber.org/zap"
)

// ErrCacheRead marks a cache file that could not be read or parsed.
// It is never fatal: callers degrade to a full cache miss.
var ErrCacheRead = errors.New("cache read failed")

// Entry is a single cached API response. FetchedAt decides freshness;
// entries are never deleted on read, only replaced or culled on save.
type Entry struct {
	Payload   json.RawMessage `json:"payload"`
	FetchedAt time.Time       `json:"fetched_at"`
}

// FileCache is a TTL-bound, size-bound cache backed by one JSON file.
// Single-process use only; there is no file locking.
type FileCache struct {
	path       string
	ttl        time.Duration
	maxEntries int
	logger     *zap.Logger

	entries map[string]Entry
	loaded  bool
}

func New(path string, ttl time.Duration, maxEntries int, logger *zap.Logger) *FileCache {
	return &FileCache{
		path:       path,
		ttl:        ttl,
		maxEntries: maxEntries,
		logger:     logger,
		entries:    make(map[string]Entry),
	}
}

// Get returns the cached payload for key if present and younger than the
// TTL. Anything else, including an unreadable cache file, is a miss.
func (c *FileCache) Get(key string) (json.RawMessage, bool) {
	c.ensureLoaded()

	entry, ok := c.entries[key]
	if !ok {
		return nil, false
	}

	if time.Since(entry.FetchedAt) > c.ttl {
		c.logger.Debug("cache entry expired",
			zap.String("key", key),
			zap.Time("fetched_at", entry.FetchedAt),
			zap.Duration("ttl", c.ttl))
		return nil, false
	}

	return entry.Payload, true
}

// Put stores payload under key with the current timestamp, overwriting any
// previous entry, then persists the cache file. Expired entries are purged
// and the oldest entries culled to the size bound before writing.
func (c *FileCache) Put(key string, payload json.RawMessage) error {
	c.ensureLoaded()

	c.entries[key] = Entry{
		Payload:   payload,
		FetchedAt: time.Now().UTC(),
	}

	c.purgeExpired()
	c.cullToSize()

	return c.save()
}

// Len reports the number of entries currently held, fresh or not.
func (c *FileCache) Len() int {
	c.ensureLoaded()
	return len(c.entries)
}

func (c *FileCache) ensureLoaded() {
	if c.loaded {
		return
	}
	c.loaded = true

	if err := c.load(); err != nil {
		c.logger.Warn("treating cache as empty",
			zap.String("path", c.path),
			zap.Error(err))
		c.entries = make(map[string]Entry)
	}
}

func (c *FileCache) load() error {
	data, err := os.ReadFile(c.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return errors.Join(ErrCacheRead, err)
	}

	if len(data) == 0 {
		return nil
	}

	var entries map[string]Entry
	if err := json.Unmarshal(data, &entries); err != nil {
		return errors.Join(ErrCacheRead, err)
	}

	c.entries = entries
	return nil
}

func (c *FileCache) save() error {
	if err := os.MkdirAll(filepath.Dir(c.path), 0o755); err != nil {
		return err
	}

	data, err := json.Marshal(c.entries)
	if err != nil {
		return err
	}

	return os.WriteFile(c.path, data, 0o644)
}

func (c *FileCache) purgeExpired() {
	for key, entry := range c.entries {
		if time.Since(entry.FetchedAt) > c.ttl {
			delete(c.entries, key)
		}
	}
}

func (c *FileCache) cullToSize() {
	if c.maxEntries <= 0 || len(c.entries) <= c.maxEntries {
		return
	}

	type aged struct {
		key       string
		fetchedAt time.Time
	}
	all := make([]aged, 0, len(c.entries))
	for key, entry := range c.entries {
		all = append(all, aged{key, entry.FetchedAt})
	}
	sort.Slice(all, func(i, j int) bool {
		return all[i].fetchedAt.Before(all[j].fetchedAt)
	})

	for _, a := range all[:len(all)-c.maxEntries] {
		delete(c.entries, a.key)
	}
}
