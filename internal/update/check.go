package update

import (
	"context"

	"github.com/xanderwp/termutils/internal/log"
)

// Outcome classifies the result of a version check.
type Outcome int

const (
	// OutcomeUpdateAvailable means the remote release is strictly newer.
	OutcomeUpdateAvailable Outcome = iota
	// OutcomeUpToDate means local and remote versions are equal.
	OutcomeUpToDate
	// OutcomeLocalNewer means the local version exceeds the latest release.
	OutcomeLocalNewer
	// OutcomeNoReleases means the lookup succeeded but returned no tag.
	OutcomeNoReleases
)

// String returns the outcome's wire name.
func (o Outcome) String() string {
	switch o {
	case OutcomeUpdateAvailable:
		return "update-available"
	case OutcomeUpToDate:
		return "up-to-date"
	case OutcomeLocalNewer:
		return "local-newer"
	case OutcomeNoReleases:
		return "no-releases"
	default:
		return "unknown"
	}
}

// MarshalText makes outcomes render as names in structured output.
func (o Outcome) MarshalText() ([]byte, error) {
	return []byte(o.String()), nil
}

// Status is the result of a check, rendered by the command layer.
type Status struct {
	Outcome Outcome `json:"outcome"`
	Latest  string  `json:"latest,omitempty"`
	Local   string  `json:"local"`
}

// LocalVersionFunc resolves the installed version from the manifest.
type LocalVersionFunc func() (string, error)

// Service ties the release cache, the availability signal and the local
// manifest together into the check operation shared by every entry point.
type Service struct {
	cache        *ReleaseCache
	signal       *Signal
	localVersion LocalVersionFunc
}

// NewService creates a check service persisting state in installDir.
func NewService(installDir string, checker Checker, localVersion LocalVersionFunc) *Service {
	return &Service{
		cache:        NewReleaseCache(NewFileCacheStore(installDir), checker),
		signal:       NewSignal(NewFileFlagStore(installDir)),
		localVersion: localVersion,
	}
}

// NewServiceWith wires a service from its parts (for testing).
func NewServiceWith(cache *ReleaseCache, signal *Signal, localVersion LocalVersionFunc) *Service {
	return &Service{cache: cache, signal: signal, localVersion: localVersion}
}

// Check performs the cache-aware lookup and reconciles the availability
// flag with the comparison result. The local version is read first: without
// it there is nothing to compare against, and no cache or flag state is
// written. Errors are returned for the caller to reduce to a message; this
// method never writes state on a failed lookup.
func (s *Service) Check(ctx context.Context) (*Status, error) {
	local, err := s.localVersion()
	if err != nil {
		return nil, err
	}

	latest, err := s.cache.Latest(ctx)
	if err != nil {
		return nil, err
	}

	if latest == "" {
		// The flag must track the last comparison; with no release to
		// compare against, any previous flag is stale.
		_ = s.signal.Clear()
		return &Status{Outcome: OutcomeNoReleases, Local: local}, nil
	}

	if err := s.signal.Update(local, latest); err != nil {
		log.Debug().Err(err).Msg("failed to persist update flag")
	}

	status := &Status{Latest: NormalizeVersion(latest), Local: local}
	switch cmp := CompareVersions(latest, local); {
	case cmp > 0:
		status.Outcome = OutcomeUpdateAvailable
	case cmp == 0:
		status.Outcome = OutcomeUpToDate
	default:
		status.Outcome = OutcomeLocalNewer
	}
	return status, nil
}

// Peek returns the persisted flag without network activity, or nil.
func (s *Service) Peek() *Flag {
	return s.signal.Peek()
}

// ClearState removes the persisted cache and flag, used after a successful
// apply so the next check starts fresh against the new installation.
func (s *Service) ClearState() {
	if err := s.cache.store.Remove(); err != nil {
		log.Debug().Err(err).Msg("failed to remove update cache")
	}
	if err := s.signal.Clear(); err != nil {
		log.Debug().Err(err).Msg("failed to remove update flag")
	}
}
