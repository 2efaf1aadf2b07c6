// Package logring provides the bounded trailing log backing the overlay
// panel: a fixed-capacity, insertion-ordered ring of display lines that
// evicts the oldest line on overflow.
package logring

import "sync"

// DefaultCapacity is the number of visible entries retained when no
// explicit capacity is configured.
const DefaultCapacity = 5

// Ring is a bounded ring of log lines. It is safe for concurrent use.
type Ring struct {
	lines []string
	cap   int
	mu    sync.RWMutex
}

// New creates a Ring that retains at most capacity entries.
// If capacity <= 0 it defaults to DefaultCapacity.
func New(capacity int) *Ring {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Ring{
		lines: make([]string, 0, capacity),
		cap:   capacity,
	}
}

// Append adds a line, dropping the oldest if the ring is full.
func (r *Ring) Append(line string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lines = append(r.lines, line)
	for len(r.lines) > r.cap {
		r.lines = r.lines[1:]
	}
}

// Snapshot returns a copy of all retained lines, oldest first.
func (r *Ring) Snapshot() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, len(r.lines))
	copy(out, r.lines)
	return out
}

// Len returns the number of retained lines.
func (r *Ring) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.lines)
}

// Cap returns the maximum number of retained lines.
func (r *Ring) Cap() int {
	return r.cap
}

// Clear empties the ring.
func (r *Ring) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lines = r.lines[:0]
}
