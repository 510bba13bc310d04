package scene

import "sync"

// Snapshot is one coherent capture of the scene's lighting inputs.
type Snapshot struct {
	Lights   []LightSource
	Blockers []Blocker
}

// Holder publishes the latest snapshot to the render loop. Writers replace
// the snapshot whole, so readers never observe a half-updated capture.
type Holder struct {
	mu   sync.RWMutex
	snap Snapshot
}

// NewHolder creates an empty snapshot holder.
func NewHolder() *Holder {
	return &Holder{}
}

// Set replaces the published snapshot.
func (h *Holder) Set(snap Snapshot) {
	h.mu.Lock()
	h.snap = snap
	h.mu.Unlock()
}

// Current returns the most recently published snapshot.
func (h *Holder) Current() Snapshot {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.snap
}
