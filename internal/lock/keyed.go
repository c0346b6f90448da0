// Package lock provides a mutex keyed by string
package lock

import "sync"

// Keyed hands out one mutex per key. Entries are dropped once no goroutine
// holds or waits for them, so the map only grows with concurrent keys.
type Keyed struct {
	mutex sync.Mutex
	locks map[string]*entry
}

type entry struct {
	mu   sync.Mutex
	refs int
}

// NewKeyed creates an empty keyed mutex
func NewKeyed() *Keyed {
	return &Keyed{locks: make(map[string]*entry)}
}

// Lock blocks until key is free and returns the function releasing it
func (k *Keyed) Lock(key string) func() {
	e := k.acquire(key)
	e.mu.Lock()
	return func() { k.release(key, e) }
}

// TryLock takes key if it is free. ok is false when another holder has it.
func (k *Keyed) TryLock(key string) (unlock func(), ok bool) {
	e := k.acquire(key)
	if !e.mu.TryLock() {
		k.drop(key, e)
		return nil, false
	}
	return func() { k.release(key, e) }, true
}

// Len returns the number of keys currently held or waited on
func (k *Keyed) Len() int {
	k.mutex.Lock()
	defer k.mutex.Unlock()
	return len(k.locks)
}

func (k *Keyed) acquire(key string) *entry {
	k.mutex.Lock()
	defer k.mutex.Unlock()

	e, ok := k.locks[key]
	if !ok {
		e = &entry{}
		k.locks[key] = e
	}
	e.refs++
	return e
}

func (k *Keyed) release(key string, e *entry) {
	e.mu.Unlock()
	k.drop(key, e)
}

func (k *Keyed) drop(key string, e *entry) {
	k.mutex.Lock()
	defer k.mutex.Unlock()

	e.refs--
	if e.refs == 0 {
		delete(k.locks, key)
	}
}
