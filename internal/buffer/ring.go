package buffer

import (
	"sync"

	"github.com/nitr-himanshu/adb-util/internal/model"
)

// DefaultCapacity matches the original tool's maximum log buffer size.
const DefaultCapacity = 10000

// Ring is a fixed-capacity circular store of log entries. When full, an
// append evicts the single oldest entry. Appends come from the session
// pump; snapshots come from control operations, so every method locks.
// Snapshots copy the contents out; callers never see internal storage.
type Ring struct {
	mu      sync.Mutex
	entries []model.LogEntry
	head    int // index of the oldest entry
	size    int
}

// New creates a ring with the given capacity. Non-positive capacities
// fall back to DefaultCapacity.
func New(capacity int) *Ring {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Ring{entries: make([]model.LogEntry, capacity)}
}

// Append inserts an entry, evicting the oldest when full. O(1).
func (r *Ring) Append(entry model.LogEntry) {
	r.mu.Lock()
	defer r.mu.Unlock()

	tail := (r.head + r.size) % len(r.entries)
	r.entries[tail] = entry
	if r.size < len(r.entries) {
		r.size++
	} else {
		r.head = (r.head + 1) % len(r.entries)
	}
}

// Len returns the number of buffered entries.
func (r *Ring) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.size
}

// Cap returns the fixed capacity.
func (r *Ring) Cap() int {
	return len(r.entries)
}

// Clear empties the ring.
func (r *Ring) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.head = 0
	r.size = 0
}

// Snapshot returns a copy of the buffered entries in arrival order. The
// lock is held only for the copy, so the pump can keep appending while
// the caller works with the result.
func (r *Ring) Snapshot() []model.LogEntry {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]model.LogEntry, r.size)
	for i := 0; i < r.size; i++ {
		out[i] = r.entries[(r.head+i)%len(r.entries)]
	}
	return out
}
