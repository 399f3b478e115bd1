package featmap

import (
	"bytes"
	"slices"
	"sync"
	"sync/atomic"
)

// Entry is a recorded feature.
type Entry struct {
	Hash uint64
	Data []byte
}

// Map is a concurrency-safe hash table from feature hash to feature string.
type Map struct {
	mu         sync.RWMutex
	entries    map[uint64][]byte
	collisions atomic.Uint64
}

// New returns an empty map.
func New() *Map {
	return &Map{entries: make(map[uint64][]byte)}
}

// Put records feat for h. The first string stored for a hash wins; storing a
// different string for a known hash counts as a collision.
func (m *Map) Put(h uint64, feat []byte) {
	m.mu.RLock()
	old, ok := m.entries[h]
	m.mu.RUnlock()
	if ok {
		if !bytes.Equal(old, feat) {
			m.collisions.Add(1)
		}
		return
	}

	data := bytes.Clone(feat)
	if data == nil {
		data = []byte{}
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if old, ok := m.entries[h]; ok {
		if !bytes.Equal(old, feat) {
			m.collisions.Add(1)
		}
		return
	}
	m.entries[h] = data
}

// Get returns the entry for h.
func (m *Map) Get(h uint64) (Entry, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	data, ok := m.entries[h]
	if !ok {
		return Entry{}, false
	}
	return Entry{Hash: h, Data: data}, true
}

// Len returns the number of entries.
func (m *Map) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}

// Collisions returns how often a second string was stored for a known hash.
func (m *Map) Collisions() uint64 {
	return m.collisions.Load()
}

// Reset removes all entries and clears the collision counter.
func (m *Map) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	clear(m.entries)
	m.collisions.Store(0)
}

// Entries returns all entries in ascending hash order.
func (m *Map) Entries() []Entry {
	m.mu.RLock()
	out := make([]Entry, 0, len(m.entries))
	for h, data := range m.entries {
		out = append(out, Entry{Hash: h, Data: data})
	}
	m.mu.RUnlock()

	slices.SortFunc(out, func(a, b Entry) int {
		switch {
		case a.Hash < b.Hash:
			return -1
		case a.Hash > b.Hash:
			return 1
		}
		return 0
	})
	return out
}
