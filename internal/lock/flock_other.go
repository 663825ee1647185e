//go:build !unix

package lock

import (
	"os"
	"path/filepath"
	"sync"
)

// Without flock, locks only exclude each other within this process.
var (
	heldMu sync.Mutex
	held   = make(map[string]struct{})
)

func lockKey(f *os.File) string {
	if abs, err := filepath.Abs(f.Name()); err == nil {
		return abs
	}
	return f.Name()
}

func tryLockFile(f *os.File) error {
	heldMu.Lock()
	defer heldMu.Unlock()

	key := lockKey(f)
	if _, ok := held[key]; ok {
		return ErrHeld
	}
	held[key] = struct{}{}
	return nil
}

func unlockFile(f *os.File) error {
	heldMu.Lock()
	defer heldMu.Unlock()

	delete(held, lockKey(f))
	return nil
}
