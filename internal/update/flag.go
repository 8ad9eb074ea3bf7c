package update

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/xanderwp/termutils/internal/log"
)

// FileFlagStore persists the update-available flag beside the installation.
type FileFlagStore struct {
	path string
}

// NewFileFlagStore creates a flag store rooted at the install directory.
func NewFileFlagStore(installDir string) *FileFlagStore {
	return &FileFlagStore{path: filepath.Join(installDir, FlagFileName)}
}

// Load reads the persisted flag.
// A missing or corrupted flag file is treated as "no flag".
func (s *FileFlagStore) Load() (*Flag, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, nil
	}

	var flag Flag
	if err := json.Unmarshal(data, &flag); err != nil {
		log.Debug().Str("path", s.path).Err(err).Msg("discarding malformed update flag")
		return nil, nil
	}
	return &flag, nil
}

// Save overwrites the persisted flag.
func (s *FileFlagStore) Save(flag *Flag) error {
	data, err := json.Marshal(flag)
	if err != nil {
		return err
	}
	return os.WriteFile(s.path, data, 0644)
}

// Remove deletes the flag file. Removing an absent flag is not an error.
func (s *FileFlagStore) Remove() error {
	err := os.Remove(s.path)
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// Signal lets any process declare "a newer release exists" to sibling
// processes without those processes re-running the network check.
type Signal struct {
	store FlagStore
	now   func() time.Time
}

// NewSignal creates a signal backed by the given store.
func NewSignal(store FlagStore) *Signal {
	return &Signal{store: store, now: time.Now}
}

// Update reconciles the flag with the latest comparison: the flag exists
// afterwards if and only if latest is strictly newer than local.
func (s *Signal) Update(local, latest string) error {
	if CompareVersions(latest, local) > 0 {
		return s.store.Save(&Flag{
			Latest:    latest,
			Local:     local,
			Timestamp: s.now().Unix(),
		})
	}
	return s.store.Remove()
}

// Peek returns the current flag without any network activity.
// Returns nil when no update is signalled.
func (s *Signal) Peek() *Flag {
	flag, _ := s.store.Load()
	return flag
}

// Clear removes the flag, used after a successful apply.
func (s *Signal) Clear() error {
	return s.store.Remove()
}
