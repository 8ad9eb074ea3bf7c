package update

import (
	"encoding/json"
	"os"
	"path/filepath"
	"syscall"
	"time"
)

// lockStaleAfter bounds how long a lock from a crashed process can block
// future applies.
const lockStaleAfter = 15 * time.Minute

type lockFile struct {
	PID       int   `json:"pid"`
	CreatedAt int64 `json:"created_at"`
}

// acquireLock takes the advisory apply lock for the installation.
// A lock held by a live process yields ErrLockHeld. A stale lock (dead
// owner, expired, or unreadable) is broken and re-acquired once.
func acquireLock(installDir string) (func(), error) {
	path := filepath.Join(installDir, LockFileName)

	for attempt := 0; attempt < 2; attempt++ {
		f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
		if err == nil {
			data, _ := json.Marshal(lockFile{PID: os.Getpid(), CreatedAt: time.Now().Unix()})
			_, werr := f.Write(data)
			if cerr := f.Close(); werr == nil {
				werr = cerr
			}
			if werr != nil {
				_ = os.Remove(path)
				return nil, werr
			}
			return func() { _ = os.Remove(path) }, nil
		}
		if !os.IsExist(err) {
			return nil, err
		}
		if !lockIsStale(path) {
			return nil, ErrLockHeld
		}
		_ = os.Remove(path)
	}
	return nil, ErrLockHeld
}

// lockIsStale reports whether an existing lock can safely be broken.
func lockIsStale(path string) bool {
	data, err := os.ReadFile(path)
	if err != nil {
		return true
	}
	var lf lockFile
	if json.Unmarshal(data, &lf) != nil {
		return true
	}
	if time.Since(time.Unix(lf.CreatedAt, 0)) > lockStaleAfter {
		return true
	}
	return !processAlive(lf.PID)
}

// processAlive probes a PID with signal 0.
func processAlive(pid int) bool {
	if pid <= 0 {
		return false
	}
	proc, err := os.FindProcess(pid)
	if err != nil {
		return false
	}
	return proc.Signal(syscall.Signal(0)) == nil
}
