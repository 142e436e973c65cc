package dashboard

import (
	"sync"
	"sync/atomic"
)

// Fence hands out request ids in increasing order.
type Fence struct {
	seq atomic.Uint64
}

// Next returns a fresh id, greater than every id returned before.
func (f *Fence) Next() uint64 {
	return f.seq.Add(1)
}

// Latest returns the most recently issued id, or 0.
func (f *Fence) Latest() uint64 {
	return f.seq.Load()
}

// IsCurrent reports whether id is the latest issued id.
func (f *Fence) IsCurrent(id uint64) bool {
	return id != 0 && id == f.seq.Load()
}

// View keeps the newest accepted snapshot. A snapshot older than the one
// already shown is rejected.
type View struct {
	mu      sync.Mutex
	current Snapshot
	has     bool
}

// Accept stores s unless a snapshot with the same or a later id was
// accepted already. It reports whether s was stored.
func (v *View) Accept(s Snapshot) bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.has && s.ID <= v.current.ID {
		return false
	}
	v.current, v.has = s, true
	return true
}

// Current returns the last accepted snapshot.
func (v *View) Current() (Snapshot, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.current, v.has
}
