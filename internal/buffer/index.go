package buffer

import (
	"sync"

	"nested/internal/port"
)

// IndexBuffer owns a sparse key-value mapping and publishes it through an
// Index view, emitting one IndexMsg per Insert/Remove.
type IndexBuffer[K comparable, T any] struct {
	mu    sync.RWMutex
	data  map[K]T
	inner port.Inner[port.IndexMsg[K]]
}

// NewIndexBuffer creates an empty buffer wired to p.
func NewIndexBuffer[K comparable, T any](p *port.Port[port.IndexMsg[K]]) *IndexBuffer[K, T] {
	b := &IndexBuffer[K, T]{data: make(map[K]T), inner: p.Inner()}
	b.inner.SetView(b)
	return b
}

// Get returns the value at k, if present.
func (b *IndexBuffer[K, T]) Get(k K) (T, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	v, ok := b.data[k]
	return v, ok
}

// Keys returns the current key set, order unspecified.
func (b *IndexBuffer[K, T]) Keys() []K {
	b.mu.RLock()
	defer b.mu.RUnlock()
	keys := make([]K, 0, len(b.data))
	for k := range b.data {
		keys = append(keys, k)
	}
	return keys
}

// Insert sets k to v, creating or overwriting.
func (b *IndexBuffer[K, T]) Insert(k K, v T) {
	b.mu.Lock()
	b.data[k] = v
	b.mu.Unlock()
	b.inner.Notify(port.KeyChanged(k))
}

// Remove deletes k, if present.
func (b *IndexBuffer[K, T]) Remove(k K) {
	b.mu.Lock()
	_, existed := b.data[k]
	delete(b.data, k)
	b.mu.Unlock()
	if existed {
		b.inner.Notify(port.KeyChanged(k))
	}
}

// Clear empties the map, notifying a full-area change.
func (b *IndexBuffer[K, T]) Clear() {
	b.mu.Lock()
	b.data = make(map[K]T)
	b.mu.Unlock()
	b.inner.Notify(port.AreaChanged(port.FullArea[K]()))
}
