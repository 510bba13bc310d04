package scene

import (
	"math"

	"chosenoffset.com/gloam/internal/core/shadows"
)

// Fallbacks for absent or invalid authoring parameters.
const (
	DefaultCastHeight = 9
	DefaultSoftness   = 5
)

// Blocker is an axis-aligned rectangle that interrupts light and casts a
// shadow. CastHeight controls shadow length and Softness the feather alpha,
// both integers in [1, 9] once normalized.
type Blocker struct {
	X          float64 `json:"x"`
	Y          float64 `json:"y"`
	W          float64 `json:"width"`
	H          float64 `json:"height"`
	CastHeight float64 `json:"castHeight,omitempty"`
	Softness   float64 `json:"softness,omitempty"`
}

// NewBlocker builds a normalized blocker from raw authoring input.
func NewBlocker(x, y, w, h, castHeight, softness float64) Blocker {
	return Blocker{
		X:          x,
		Y:          y,
		W:          w,
		H:          h,
		CastHeight: castHeight,
		Softness:   softness,
	}.Normalized()
}

// Normalized returns a copy with sanitized bounds and in-range authoring
// parameters. Malformed positions collapse to zero, negative sizes to empty,
// and castHeight/softness to their fallbacks. It never fails.
func (b Blocker) Normalized() Blocker {
	return Blocker{
		X:          sanitize(b.X),
		Y:          sanitize(b.Y),
		W:          math.Max(0, sanitize(b.W)),
		H:          math.Max(0, sanitize(b.H)),
		CastHeight: float64(Clamp1to9(b.CastHeight, DefaultCastHeight)),
		Softness:   float64(Clamp1to9(b.Softness, DefaultSoftness)),
	}
}

// Bounds returns the blocker's rectangle for geometry queries.
func (b Blocker) Bounds() shadows.Rect {
	return shadows.Rect{X: b.X, Y: b.Y, W: b.W, H: b.H}
}

// ContainsPoint reports whether the world point (x, y) lies inside the
// blocker's bounds, boundary included.
func (b Blocker) ContainsPoint(x, y float64) bool {
	return x >= b.X && x <= b.X+b.W && y >= b.Y && y <= b.Y+b.H
}

// Clamp1to9 normalizes an authoring parameter to an integer in [1, 9].
// Values that are not finite numbers in range substitute the fallback;
// in-range values round to the nearest integer. It never errors.
func Clamp1to9(value float64, fallback int) int {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return fallback
	}
	if value < 1 || value > 9 {
		return fallback
	}
	return int(math.Round(value))
}

func sanitize(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}
