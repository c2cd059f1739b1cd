package utils

import (
	"sync"
	"time"
)

type entry struct {
	at    time.Time
	value string
}

// Tracker keeps per-key sequences of timestamped entries. Entries older than
// the window passed by the caller are evicted lazily whenever the key is
// touched, never on a background timer. State is in-memory only and a process
// restart resets it.
type Tracker struct {
	mu      sync.Mutex
	entries map[string][]entry
}

func NewTracker() *Tracker {
	return &Tracker{entries: make(map[string][]entry)}
}

// Record appends an entry for key and returns the number of entries still
// inside the window, the new one included.
func (t *Tracker) Record(key, value string, window time.Duration, now time.Time) int {
	t.mu.Lock()
	defer t.mu.Unlock()

	kept := t.evictLocked(key, window, now)
	kept = append(kept, entry{at: now, value: value})
	t.entries[key] = kept
	return len(kept)
}

// CountIn returns how many entries for key fall inside the window.
func (t *Tracker) CountIn(key string, window time.Duration, now time.Time) int {
	t.mu.Lock()
	defer t.mu.Unlock()

	kept := t.evictLocked(key, window, now)
	if len(kept) == 0 {
		delete(t.entries, key)
		return 0
	}
	t.entries[key] = kept
	return len(kept)
}

// ValuesIn returns the values recorded for key inside the window, oldest first.
func (t *Tracker) ValuesIn(key string, window time.Duration, now time.Time) []string {
	t.mu.Lock()
	defer t.mu.Unlock()

	kept := t.evictLocked(key, window, now)
	if len(kept) == 0 {
		delete(t.entries, key)
		return nil
	}
	t.entries[key] = kept

	values := make([]string, len(kept))
	for i, e := range kept {
		values[i] = e.value
	}
	return values
}

// Drop removes all state for key.
func (t *Tracker) Drop(key string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.entries, key)
}

func (t *Tracker) evictLocked(key string, window time.Duration, now time.Time) []entry {
	cutoff := now.Add(-window)
	kept := t.entries[key]
	idx := 0
	for _, e := range kept {
		if e.at.After(cutoff) {
			break
		}
		idx++
	}
	return kept[idx:]
}

// Ring keeps the last N values per key, oldest first. Used for duplicate
// detection where recency is counted in messages, not time.
type Ring struct {
	mu     sync.Mutex
	size   int
	values map[string][]string
}

func NewRing(size int) *Ring {
	return &Ring{size: size, values: make(map[string][]string)}
}

// Push appends a value for key, trims to the ring size, and returns the
// retained values oldest first.
func (r *Ring) Push(key, value string) []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	kept := append(r.values[key], value)
	if len(kept) > r.size {
		kept = kept[len(kept)-r.size:]
	}
	r.values[key] = kept

	out := make([]string, len(kept))
	copy(out, kept)
	return out
}

// Drop removes all state for key.
func (r *Ring) Drop(key string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.values, key)
}
