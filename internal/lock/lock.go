package lock

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"time"
)

// ErrHeld is returned by TryLock when another holder owns the lock.
var ErrHeld = errors.New("lock: held by another process")

// DefaultPollInterval is how often Lock retries a held lock.
const DefaultPollInterval = 50 * time.Millisecond

// FileLock is an exclusive advisory lock on a file.
// Locks taken through separate FileLock values exclude each other even
// within one process. On unix the lock is flock(2) and also excludes other
// processes; elsewhere only holders in this process are excluded.
type FileLock struct {
	path string
	poll time.Duration

	mu sync.Mutex
	f  *os.File
}

// New returns an unlocked FileLock for path. The file is created on first use.
func New(path string) *FileLock {
	return &FileLock{path: path, poll: DefaultPollInterval}
}

// Path returns the lock file path.
func (l *FileLock) Path() string { return l.path }

// TryLock takes the lock without waiting. It returns ErrHeld if the lock is
// owned elsewhere.
func (l *FileLock) TryLock() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.f != nil {
		return fmt.Errorf("lock %s: already locked", l.path)
	}

	f, err := os.OpenFile(l.path, os.O_CREATE|os.O_RDWR, 0o644)
	if err != nil {
		return fmt.Errorf("lock %s: %w", l.path, err)
	}
	if err := tryLockFile(f); err != nil {
		_ = f.Close()
		if errors.Is(err, ErrHeld) {
			return ErrHeld
		}
		return fmt.Errorf("lock %s: %w", l.path, err)
	}
	l.f = f
	return nil
}

// Lock waits until the lock is taken or ctx is done.
func (l *FileLock) Lock(ctx context.Context) error {
	ticker := time.NewTicker(l.poll)
	defer ticker.Stop()

	for {
		err := l.TryLock()
		if !errors.Is(err, ErrHeld) {
			return err
		}
		select {
		case <-ctx.Done():
			return fmt.Errorf("lock %s: %w", l.path, ctx.Err())
		case <-ticker.C:
		}
	}
}

// Unlock releases the lock. Unlocking an unlocked FileLock is a no-op.
func (l *FileLock) Unlock(context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.f == nil {
		return nil
	}
	err := unlockFile(l.f)
	if cerr := l.f.Close(); err == nil {
		err = cerr
	}
	l.f = nil
	return err
}
