package store

import "sync"

// Locker hands out one mutex per key. Entries are dropped once nobody holds them.
// Key locks are taken under a shared tree lock, so LockTree excludes every
// key writer at once (used by deletes that remove a whole subtree).
type Locker struct {
	tree  sync.RWMutex
	mu    sync.Mutex
	locks map[string]*keyLock
}

type keyLock struct {
	mu   sync.Mutex
	refs int
}

// NewLocker creates an empty Locker
func NewLocker() *Locker {
	return &Locker{locks: make(map[string]*keyLock)}
}

// Lock blocks until key is free and returns the matching unlock function.
// Holders must not take a second lock before releasing the first.
func (l *Locker) Lock(key string) func() {
	l.tree.RLock()

	l.mu.Lock()
	kl, ok := l.locks[key]
	if !ok {
		kl = &keyLock{}
		l.locks[key] = kl
	}
	kl.refs++
	l.mu.Unlock()

	kl.mu.Lock()
	return func() {
		kl.mu.Unlock()

		l.mu.Lock()
		kl.refs--
		if kl.refs == 0 {
			delete(l.locks, key)
		}
		l.mu.Unlock()

		l.tree.RUnlock()
	}
}

// LockTree waits for every key lock to be released and blocks new ones
// until the returned function is called.
func (l *Locker) LockTree() func() {
	l.tree.Lock()
	return l.tree.Unlock
}
