package memory

import (
	"context"
	"sync"

	"github.com/synapse/server/internal/port/outbound"
)

// keyLocker implements outbound.KeyLockerPort within one process.
// Entries are reference counted and dropped once no caller holds or waits on them.
type keyLocker struct {
	mu   sync.Mutex
	keys map[string]*keyEntry
}

type keyEntry struct {
	sem  chan struct{}
	refs int
}

// NewKeyLocker creates an in-process key locker.
func NewKeyLocker() outbound.KeyLockerPort {
	return &keyLocker{keys: make(map[string]*keyEntry)}
}

func (l *keyLocker) Lock(ctx context.Context, key string) (func(), error) {
	l.mu.Lock()
	e, ok := l.keys[key]
	if !ok {
		e = &keyEntry{sem: make(chan struct{}, 1)}
		l.keys[key] = e
	}
	e.refs++
	l.mu.Unlock()

	select {
	case e.sem <- struct{}{}:
	case <-ctx.Done():
		l.release(key, e)
		return nil, ctx.Err()
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			<-e.sem
			l.release(key, e)
		})
	}, nil
}

func (l *keyLocker) release(key string, e *keyEntry) {
	l.mu.Lock()
	defer l.mu.Unlock()
	e.refs--
	if e.refs == 0 {
		delete(l.keys, key)
	}
}

// size returns the number of live entries.
func (l *keyLocker) size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.keys)
}

// Compile-time check
var _ outbound.KeyLockerPort = (*keyLocker)(nil)
