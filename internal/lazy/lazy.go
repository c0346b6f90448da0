// Package lazy provides lazy loading utilities
package lazy

import (
	"context"
	"sync"
)

// Loader function signature for lazy loading
type Loader[T any] func(ctx context.Context) (T, error)

// Lazy represents a lazy-loaded value. A failed load is not remembered;
// the next Get tries again.
type Lazy[T any] struct {
	loader Loader[T]
	value  T
	loaded bool
	mutex  sync.Mutex
}

// New creates a new lazy value with a loader function
func New[T any](loader Loader[T]) *Lazy[T] {
	return &Lazy[T]{
		loader: loader,
	}
}

// Of returns a Lazy that is already loaded with value
func Of[T any](value T) *Lazy[T] {
	return &Lazy[T]{value: value, loaded: true}
}

// Get returns the value, loading it if necessary
func (l *Lazy[T]) Get(ctx context.Context) (T, error) {
	l.mutex.Lock()
	defer l.mutex.Unlock()

	if l.loaded {
		return l.value, nil
	}

	value, err := l.loader(ctx)
	if err != nil {
		var zero T
		return zero, err
	}

	l.value = value
	l.loaded = true
	return l.value, nil
}

// IsLoaded returns true if the value has been loaded
func (l *Lazy[T]) IsLoaded() bool {
	l.mutex.Lock()
	defer l.mutex.Unlock()
	return l.loaded
}

// Reset clears the cached value, forcing reload on next Get
func (l *Lazy[T]) Reset() {
	l.mutex.Lock()
	defer l.mutex.Unlock()

	var zero T
	l.value = zero
	l.loaded = false
}
