// Package lineagelock serializes mutating stages on one video lineage.
//
// A lock is held in two layers: an in-process keyed mutex so goroutines of
// one process queue fairly, and a flock(2) file under the lock directory so
// separate shortsmith processes working on the same video also wait for
// each other. Different keys never contend.
package lineagelock

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/gofrs/flock"
)

// retryDelay is how often a blocked file lock is re-attempted.
const retryDelay = 50 * time.Millisecond

// Locker hands out per-key exclusive locks.
type Locker struct {
	dir string

	mu    sync.Mutex
	slots map[string]*slot
}

type slot struct {
	token chan struct{}
	refs  int
}

// New returns a Locker that keeps lock files in dir.
func New(dir string) *Locker {
	return &Locker{dir: dir, slots: make(map[string]*slot)}
}

// Key formats the lock key for a video id.
func Key(videoID int64) string {
	return fmt.Sprintf("video-%d", videoID)
}

// Acquire blocks until key is held or ctx is done. The returned release
// function must be called exactly once. key doubles as the lock file name.
func (l *Locker) Acquire(ctx context.Context, key string) (func(), error) {
	if key == "" || key == "." || key == ".." || strings.ContainsAny(key, `/\`) {
		return nil, fmt.Errorf("invalid lineage lock key %q", key)
	}
	s := l.ref(key)

	select {
	case s.token <- struct{}{}:
	case <-ctx.Done():
		l.unref(key)
		return nil, fmt.Errorf("acquire lineage lock %s: %w", key, ctx.Err())
	}

	fileLock, err := l.lockFile(ctx, key)
	if err != nil {
		<-s.token
		l.unref(key)
		return nil, err
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			if fileLock != nil {
				_ = fileLock.Unlock()
			}
			<-s.token
			l.unref(key)
		})
	}, nil
}

func (l *Locker) lockFile(ctx context.Context, key string) (*flock.Flock, error) {
	if l.dir == "" {
		return nil, nil
	}
	if err := os.MkdirAll(l.dir, 0o755); err != nil {
		return nil, fmt.Errorf("ensure lock directory: %w", err)
	}
	fileLock := flock.New(filepath.Join(l.dir, key+".lock"))
	ok, err := fileLock.TryLockContext(ctx, retryDelay)
	if err != nil {
		return nil, fmt.Errorf("acquire lineage lock %s: %w", key, err)
	}
	if !ok {
		return nil, fmt.Errorf("acquire lineage lock %s: not acquired", key)
	}
	return fileLock, nil
}

func (l *Locker) ref(key string) *slot {
	l.mu.Lock()
	defer l.mu.Unlock()
	s, ok := l.slots[key]
	if !ok {
		s = &slot{token: make(chan struct{}, 1)}
		l.slots[key] = s
	}
	s.refs++
	return s
}

func (l *Locker) unref(key string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	s, ok := l.slots[key]
	if !ok {
		return
	}
	s.refs--
	if s.refs == 0 {
		delete(l.slots, key)
	}
}
