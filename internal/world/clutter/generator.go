// Package clutter places decorative obstacle fields procedurally. Placement
// is a pure function of an integer seed, so fields regenerate identically on
// every run without per-instance persistence.
package clutter

import (
	"chosenoffset.com/gloam/internal/core/shadows"
	"chosenoffset.com/gloam/internal/world/scene"
)

// rng is a small deterministic 32-bit mix-and-scramble generator. Placement
// must reproduce bit-exactly across runs and platforms, which the standard
// library generators do not promise across versions.
type rng struct {
	state uint32
}

func newRNG(seed uint32) *rng {
	return &rng{state: seed}
}

func (r *rng) next() uint32 {
	r.state += 0x6d2b79f5
	z := r.state
	z = (z ^ (z >> 15)) * (z | 1)
	z ^= z + (z^(z>>7))*(z|61)
	return z ^ (z >> 14)
}

// intn returns a value in [0, n). n must be positive.
func (r *rng) intn(n int) int {
	return int(r.next() % uint32(n))
}

// rangeInt returns a value in [lo, hi], bounds included.
func (r *rng) rangeInt(lo, hi int) int {
	return lo + r.intn(hi-lo+1)
}

// Rects keep this margin from the cell edges.
const inset = 4

// SeedFor derives a stable seed from tile grid coordinates.
func SeedFor(col, row int) uint32 {
	return uint32(col)*73856093 ^ uint32(row)*19349663
}

// Generate produces the decorative obstacle field for one cell: five to
// seven narrow rects with randomized sizes and inset positions. Calling it
// twice with the same seed and cell yields an identical ordered list.
func Generate(seed uint32, cell shadows.Rect) []scene.Blocker {
	r := newRNG(seed)
	count := 5 + r.intn(3)

	blockers := make([]scene.Blocker, 0, count)
	for i := 0; i < count; i++ {
		w := r.rangeInt(8, 18)
		h := r.rangeInt(14, 36)

		innerW := int(cell.W) - 2*inset - w
		if innerW < 1 {
			innerW = 1
		}
		innerH := int(cell.H) - 2*inset - h
		if innerH < 1 {
			innerH = 1
		}

		x := cell.X + float64(inset+r.intn(innerW))
		y := cell.Y + float64(inset+r.intn(innerH))

		castHeight := float64(r.rangeInt(2, 5))
		softness := float64(r.rangeInt(3, 7))
		blockers = append(blockers, scene.NewBlocker(x, y, float64(w), float64(h), castHeight, softness))
	}
	return blockers
}
