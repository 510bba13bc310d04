package pattern

import (
	"context"
	"log"
	"sync"
	"time"

	"chosenoffset.com/gloam/internal/world/scene"
)

// Repository caches tile obstacle patterns in memory and persists them
// through an injectable Store. Authoring writes are synchronous in-memory
// mutations; persistence happens on a debounced background cycle.
//
// Resolution order for a tile instance: its override if present (an empty
// override means explicitly no obstacles), else its type's default, else
// nothing. Overrides and defaults never merge.
type Repository struct {
	mu        sync.RWMutex
	defaults  map[string]TilePattern
	overrides map[string][]scene.Blocker
	store     Store
	dirty     bool
}

// New creates an empty repository over the given store. Call Load to pull
// previously persisted patterns.
func New(store Store) *Repository {
	return &Repository{
		defaults:  make(map[string]TilePattern),
		overrides: make(map[string][]scene.Blocker),
		store:     store,
	}
}

// Load replaces the in-memory cache with the store's contents. Every rect is
// normalized on the way in, so malformed authoring data never reaches the
// renderer.
func (r *Repository) Load() error {
	data, err := r.store.Load()
	if err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.defaults = make(map[string]TilePattern, len(data.Defaults))
	for typeID, p := range data.Defaults {
		r.defaults[typeID] = TilePattern{
			Rects:      normalizeRects(p.Rects),
			ApplyAfter: p.ApplyAfter,
		}
	}
	r.overrides = make(map[string][]scene.Blocker, len(data.Overrides))
	for instanceID, rects := range data.Overrides {
		r.overrides[instanceID] = normalizeRects(rects)
	}
	r.dirty = false
	return nil
}

// SetDefault records the obstacle layout for a tile type.
func (r *Repository) SetDefault(typeID string, rects []scene.Blocker, applyAfter int64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.defaults[typeID] = TilePattern{Rects: normalizeRects(rects), ApplyAfter: applyAfter}
	r.dirty = true
}

// SetOverride records a per-instance layout. An empty (non-nil) rects slice
// is meaningful: it suppresses the type default for that instance.
func (r *Repository) SetOverride(instanceID string, rects []scene.Blocker) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.overrides[instanceID] = normalizeRects(rects)
	r.dirty = true
}

// ClearOverride removes a per-instance layout, letting the type default
// apply again.
func (r *Repository) ClearOverride(instanceID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.overrides[instanceID]; ok {
		delete(r.overrides, instanceID)
		r.dirty = true
	}
}

// Default returns the stored default pattern for a tile type.
func (r *Repository) Default(typeID string) (TilePattern, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.defaults[typeID]
	if !ok {
		return TilePattern{}, false
	}
	return TilePattern{Rects: append([]scene.Blocker(nil), p.Rects...), ApplyAfter: p.ApplyAfter}, true
}

// Override returns the stored per-instance layout, if any. The second return
// distinguishes "no override" from an explicitly empty one.
func (r *Repository) Override(instanceID string) ([]scene.Blocker, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	rects, ok := r.overrides[instanceID]
	if !ok {
		return nil, false
	}
	return append([]scene.Blocker{}, rects...), true
}

// ResolveEffectivePattern returns the obstacle layout for one tile instance.
// The returned slice is a copy; callers may keep or modify it freely.
func (r *Repository) ResolveEffectivePattern(instanceID, typeID string) []scene.Blocker {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if rects, ok := r.overrides[instanceID]; ok {
		return append([]scene.Blocker{}, rects...)
	}
	if p, ok := r.defaults[typeID]; ok {
		return append([]scene.Blocker{}, p.Rects...)
	}
	return []scene.Blocker{}
}

// Snapshot returns a deep copy of the repository contents in serialized
// form.
func (r *Repository) Snapshot() Data {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.snapshotLocked()
}

func (r *Repository) snapshotLocked() Data {
	data := Data{
		Defaults:  make(map[string]TilePattern, len(r.defaults)),
		Overrides: make(map[string][]scene.Blocker, len(r.overrides)),
	}
	for typeID, p := range r.defaults {
		data.Defaults[typeID] = TilePattern{
			Rects:      append([]scene.Blocker(nil), p.Rects...),
			ApplyAfter: p.ApplyAfter,
		}
	}
	for instanceID, rects := range r.overrides {
		data.Overrides[instanceID] = append([]scene.Blocker(nil), rects...)
	}
	return data
}

// Flush saves immediately if there are unsaved changes.
func (r *Repository) Flush() error {
	r.mu.Lock()
	if !r.dirty {
		r.mu.Unlock()
		return nil
	}
	data := r.snapshotLocked()
	r.dirty = false
	r.mu.Unlock()

	if err := r.store.Save(data); err != nil {
		r.mu.Lock()
		r.dirty = true
		r.mu.Unlock()
		return err
	}
	return nil
}

// StartAutosave persists dirty state every interval until ctx is cancelled,
// flushing one last time on the way out. Save failures are logged and
// retried on the next cycle.
func (r *Repository) StartAutosave(ctx context.Context, interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				if err := r.Flush(); err != nil {
					log.Printf("Pattern autosave (final): %v", err)
				}
				return
			case <-ticker.C:
				if err := r.Flush(); err != nil {
					log.Printf("Pattern autosave: %v", err)
				}
			}
		}
	}()
}

func normalizeRects(rects []scene.Blocker) []scene.Blocker {
	out := make([]scene.Blocker, len(rects))
	for i, rect := range rects {
		out[i] = rect.Normalized()
	}
	return out
}
