package update

import (
	"context"
	"errors"
	"time"
)

// Release identity for the tool's own published releases.
const (
	DefaultOwner = "xanderwp"
	DefaultRepo  = "termutils"
)

// Persisted state files, co-located with the installation. Their schema is
// an implementation detail; nothing outside this package reads them.
const (
	CacheFileName = ".update_cache.json"
	FlagFileName  = ".update_available.json"
	LockFileName  = ".update.lock"
)

// CacheTTL is how long a cached "latest release" answer is trusted.
const CacheTTL = 300 * time.Second

var (
	// ErrCheckFailed wraps transient failures reaching the release service.
	ErrCheckFailed = errors.New("could not reach the release service")
	// ErrNoReleases means the release lookup succeeded but no release exists.
	ErrNoReleases = errors.New("no published releases")
	// ErrLockHeld means another update is applying against this installation.
	ErrLockHeld = errors.New("another update is already in progress")
)

// Release describes the newest published release.
type Release struct {
	Tag        string // Release tag, e.g. "v1.5.0"
	ZipballURL string // Source archive download location for the tag
	HTMLURL    string // Release page for display
}

// Checker resolves the newest published release.
type Checker interface {
	LatestRelease(ctx context.Context) (*Release, error)
}

// CacheEntry is the persisted result of the last release lookup.
type CacheEntry struct {
	LastChecked int64  `json:"last_checked"` // Unix seconds, wall clock
	Latest      string `json:"latest"`
}

// Flag is the persisted update-available marker read by sibling processes.
// Its presence is the signal; the fields exist for display only.
type Flag struct {
	Latest    string `json:"latest"`
	Local     string `json:"local"`
	Timestamp int64  `json:"timestamp"`
}

// CacheStore persists the release cache across process invocations.
// Load returns (nil, nil) for a missing or unreadable cache.
type CacheStore interface {
	Load() (*CacheEntry, error)
	Save(entry *CacheEntry) error
	Remove() error
}

// FlagStore persists the update-available flag.
// Load returns (nil, nil) for a missing or unreadable flag.
type FlagStore interface {
	Load() (*Flag, error)
	Save(flag *Flag) error
	Remove() error
}
