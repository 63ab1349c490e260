package lock

import (
	"context"
	"errors"
	"sync"
	"time"

	"golang.org/x/sync/semaphore"
)

type keyLock struct {
	sem  *semaphore.Weighted
	refs int
}

// LocalLocker is an in-process Locker with one weighted semaphore per key. Entries are dropped
// once nobody holds or waits for them.
type LocalLocker struct {
	mu    sync.Mutex
	locks map[string]*keyLock
	wait  time.Duration
}

func NewLocalLocker(wait time.Duration) *LocalLocker {
	return &LocalLocker{
		locks: make(map[string]*keyLock),
		wait:  wait,
	}
}

func (l *LocalLocker) Lock(ctx context.Context, key string) (Unlock, error) {
	kl := l.acquireRef(key)

	waitCtx, cancel := context.WithTimeout(ctx, l.wait)
	defer cancel()

	if err := kl.sem.Acquire(waitCtx, 1); err != nil {
		l.releaseRef(key, kl)
		if ctx.Err() == nil && errors.Is(err, context.DeadlineExceeded) {
			return nil, ErrTimeout
		}
		return nil, err
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			kl.sem.Release(1)
			l.releaseRef(key, kl)
		})
	}, nil
}

func (l *LocalLocker) acquireRef(key string) *keyLock {
	l.mu.Lock()
	defer l.mu.Unlock()

	kl, ok := l.locks[key]
	if !ok {
		kl = &keyLock{sem: semaphore.NewWeighted(1)}
		l.locks[key] = kl
	}
	kl.refs++
	return kl
}

func (l *LocalLocker) releaseRef(key string, kl *keyLock) {
	l.mu.Lock()
	defer l.mu.Unlock()

	kl.refs--
	if kl.refs == 0 {
		delete(l.locks, key)
	}
}

func (l *LocalLocker) size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.locks)
}
