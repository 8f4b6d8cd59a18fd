package state

import (
	"sync"

	"github.com/pocketlist/pocketlist/internal/models"
)

// List owns the in-memory copy of all fetched to-do items.
//
// Order is fetch order followed by optimistic appends. There is no
// deduplication: an optimistic entry and its server copy are unrelated
// until the next ReplaceAll drops the optimistic one.
type List struct {
	mu      sync.RWMutex
	items   []models.Item
	loaded  bool
	version uint64
}

// NewList returns an empty list holder.
func NewList() *List {
	return &List{}
}

// ReplaceAll overwrites the list wholesale.
func (l *List) ReplaceAll(items []models.Item) {
	cp := make([]models.Item, len(items))
	copy(cp, items)

	l.mu.Lock()
	defer l.mu.Unlock()
	l.items = cp
	l.loaded = true
	l.version++
}

// Append adds one item at the end.
func (l *List) Append(item models.Item) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.items = append(l.items, item)
	l.version++
}

// Update replaces the items with fn(current) under the holder's lock.
// fn must not call back into the holder.
func (l *List) Update(fn func([]models.Item) []models.Item) {
	l.mu.Lock()
	defer l.mu.Unlock()
	cp := make([]models.Item, len(l.items))
	copy(cp, l.items)
	l.items = fn(cp)
	l.version++
}

// Items returns a copy of the current items.
func (l *List) Items() []models.Item {
	l.mu.RLock()
	defer l.mu.RUnlock()
	cp := make([]models.Item, len(l.items))
	copy(cp, l.items)
	return cp
}

// Len returns the number of items.
func (l *List) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.items)
}

// Loaded reports whether a fetch has ever been published.
func (l *List) Loaded() bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.loaded
}

// Version returns a counter incremented on every change.
func (l *List) Version() uint64 {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.version
}
