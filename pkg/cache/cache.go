// Package cache keeps slow-to-fetch data in JSON files, with a process
// memory layer in front of them.
package cache

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

const DefaultExpiry = 24 * time.Hour

const memCacheExpiry = 5 * time.Minute

var globalMemCache = newMemCache()

type memCache struct {
	sync.Mutex
	entries map[string]memEntry
}

type memEntry struct {
	updatedAt time.Time
	data      []byte
}

func newMemCache() *memCache {
	return &memCache{
		entries: make(map[string]memEntry),
	}
}

func (c *memCache) IsOutdated(key string, expiry time.Duration) bool {
	c.Lock()
	defer c.Unlock()

	entry, ok := c.entries[key]
	return !ok || time.Since(entry.updatedAt) > expiry
}

func (c *memCache) Set(key string, data []byte) {
	c.Lock()
	defer c.Unlock()

	c.entries[key] = memEntry{
		updatedAt: time.Now(),
		data:      data,
	}
}

func (c *memCache) Get(key string) ([]byte, bool) {
	c.Lock()
	defer c.Unlock()

	entry, ok := c.entries[key]
	if !ok {
		return nil, false
	}

	return entry.data, true
}

func (c *memCache) Delete(key string) {
	c.Lock()
	defer c.Unlock()
	delete(c.entries, key)
}

// Cache stores the entries as <Dir>/<key>.json, an empty Dir keeps them in memory only.
type Cache struct {
	Dir    string
	Expiry time.Duration
}

func New(dir string, expiry time.Duration) *Cache {
	if expiry <= 0 {
		expiry = DefaultExpiry
	}

	return &Cache{Dir: dir, Expiry: expiry}
}

// Dir returns the default cache directory, BARFEED_CACHE_DIR overrides it.
func Dir() string {
	if dir, ok := os.LookupEnv("BARFEED_CACHE_DIR"); ok && dir != "" {
		return dir
	}

	dir, err := os.UserCacheDir()
	if err != nil {
		dir = os.TempDir()
	}

	return filepath.Join(dir, "barfeed")
}

func (c *Cache) path(key string) string {
	return filepath.Join(c.Dir, key+".json")
}

func (c *Cache) expiry() time.Duration {
	if c.Expiry <= 0 {
		return DefaultExpiry
	}
	return c.Expiry
}

func (c *Cache) read(key string) ([]byte, bool, error) {
	if c.Dir == "" {
		if globalMemCache.IsOutdated(key, min(c.expiry(), memCacheExpiry)) {
			return nil, false, nil
		}

		data, ok := globalMemCache.Get(key)
		return data, ok, nil
	}

	cacheFile := c.path(key)
	stat, err := os.Stat(cacheFile)
	if os.IsNotExist(err) || (stat != nil && time.Since(stat.ModTime()) > c.expiry()) {
		return nil, false, nil
	} else if err != nil {
		return nil, false, err
	}

	data, err := os.ReadFile(cacheFile)
	if err != nil {
		return nil, false, err
	}

	return data, true, nil
}

func (c *Cache) write(key string, data []byte) error {
	if c.Dir == "" {
		globalMemCache.Set(key, data)
		return nil
	}

	if err := os.MkdirAll(c.Dir, 0755); err != nil {
		return err
	}

	return os.WriteFile(c.path(key), data, 0666)
}

// Invalidate drops the entry of the key.
func (c *Cache) Invalidate(key string) error {
	if c.Dir == "" {
		globalMemCache.Delete(key)
		return nil
	}

	err := os.Remove(c.path(key))
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

// WithCache let you use the cache with the given cache key, variable reference and your data fetcher,
// The key must be an unique ID.
// obj is the pointer of your local variable
// fetcher is the closure that will fetch your remote data or some slow operation.
func WithCache[T any](c *Cache, key string, obj *T, fetcher func() (T, error)) error {
	if obj == nil {
		return errors.New("can not set cache object value")
	}

	data, found, err := c.read(key)
	if err != nil {
		return errors.Wrapf(err, "cache %s", key)
	}

	if found {
		log.Debugf("cache %s found", key)
		if err := json.Unmarshal(data, obj); err != nil {
			return errors.Wrapf(err, "cache %s", key)
		}
		return nil
	}

	log.Debugf("cache %s not found or cache expired, executing fetcher callback to get the data", key)

	val, err := fetcher()
	if err != nil {
		return err
	}

	out, err := json.Marshal(val)
	if err != nil {
		return err
	}

	if err := c.write(key, out); err != nil {
		return errors.Wrapf(err, "cache %s", key)
	}

	*obj = val
	return nil
}
