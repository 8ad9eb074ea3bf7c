package update

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/xanderwp/termutils/internal/log"
)

// FileCacheStore persists the release cache as a small JSON file beside the
// installation. Every write is a full overwrite and every read tolerates a
// missing or malformed file, so concurrent processes need no locking.
type FileCacheStore struct {
	path string
}

// NewFileCacheStore creates a cache store rooted at the install directory.
func NewFileCacheStore(installDir string) *FileCacheStore {
	return &FileCacheStore{path: filepath.Join(installDir, CacheFileName)}
}

// Load reads the persisted cache entry.
// A missing or unreadable cache is an empty cache, never an error.
func (s *FileCacheStore) Load() (*CacheEntry, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, nil
	}

	var entry CacheEntry
	if err := json.Unmarshal(data, &entry); err != nil {
		log.Debug().Str("path", s.path).Err(err).Msg("discarding malformed update cache")
		return nil, nil
	}
	return &entry, nil
}

// Save overwrites the persisted cache entry.
func (s *FileCacheStore) Save(entry *CacheEntry) error {
	data, err := json.Marshal(entry)
	if err != nil {
		return err
	}
	return os.WriteFile(s.path, data, 0644)
}

// Remove deletes the cache file. Removing an absent cache is not an error.
func (s *FileCacheStore) Remove() error {
	err := os.Remove(s.path)
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// ReleaseCache memoizes the remote "latest release" lookup across process
// invocations. A cached answer is trusted for CacheTTL; after that the next
// caller re-fetches and overwrites the cache.
type ReleaseCache struct {
	store   CacheStore
	checker Checker
	ttl     time.Duration
	now     func() time.Time
}

// NewReleaseCache creates a cache with the default TTL.
func NewReleaseCache(store CacheStore, checker Checker) *ReleaseCache {
	return &ReleaseCache{
		store:   store,
		checker: checker,
		ttl:     CacheTTL,
		now:     time.Now,
	}
}

// Latest returns the latest release tag, consulting the persisted cache
// before the network. A fetch failure is returned as-is and never cached;
// a cache write failure is swallowed because the cache is an optimization,
// not a correctness requirement.
func (c *ReleaseCache) Latest(ctx context.Context) (string, error) {
	now := c.now()

	entry, _ := c.store.Load()
	if entry != nil && entry.Latest != "" {
		age := now.Unix() - entry.LastChecked
		if age >= 0 && time.Duration(age)*time.Second < c.ttl {
			log.Debug().Str("tag", entry.Latest).Int64("age_s", age).Msg("release cache hit")
			return entry.Latest, nil
		}
	}

	release, err := c.checker.LatestRelease(ctx)
	if err != nil {
		return "", err
	}

	fresh := &CacheEntry{LastChecked: now.Unix(), Latest: release.Tag}
	if err := c.store.Save(fresh); err != nil {
		log.Debug().Err(err).Msg("failed to write update cache")
	}

	return release.Tag, nil
}
