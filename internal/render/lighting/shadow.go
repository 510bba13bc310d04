package lighting

import (
	"math"

	"chosenoffset.com/gloam/internal/core/shadows"
	"chosenoffset.com/gloam/internal/world/scene"
)

const (
	// Shadow length factors at the castHeight extremes. A blocker with
	// castHeight 1 throws a quarter tile of shadow, castHeight 9 throws
	// three tiles.
	minLengthFactor = 0.25
	maxLengthFactor = 3.0

	// Far-corner jitter amplitude in pixels and rate in radians per second.
	jitterAmp  = 1.5
	jitterRate = 7.0
)

// Quad is a single projected shadow for one (light, blocker) pair. Near
// holds the two blocker corners on the edge facing the light, Far holds the
// opposite corners pushed away from the light by the shadow length.
type Quad struct {
	Near      [2]shadows.Point
	Far       [2]shadows.Point
	NearAlpha float64
}

// AlphaAt returns the gradient alpha at fraction t along the quad, where
// t=0 is the near edge and t=1 is the far edge.
func (q Quad) AlphaAt(t float64) float64 {
	if t < 0 {
		t = 0
	} else if t > 1 {
		t = 1
	}
	return q.NearAlpha * (1 - t)
}

// ShadowLength returns how far a blocker's shadow extends, in pixels.
// castHeight is expected to already be in [1,9].
func ShadowLength(tileScreenSize, castHeight float64) float64 {
	return tileScreenSize * (minLengthFactor + ((castHeight-1)/8)*(maxLengthFactor-minLengthFactor))
}

// Strength returns the shadow darkness factor for a blocker lit at the given
// intensity under the given ambient darkness. softness is expected to
// already be in [1,9].
func Strength(softness, lightIntensity, darkness float64) float64 {
	return (softness / 9) * math.Max(0.25, lightIntensity) * (0.6 + darkness*0.8)
}

// ComputeQuad projects the shadow of b away from a light at the given
// position and effective intensity. The second return is false when the
// light sits inside the blocker's bounds, which casts no shadow.
func ComputeQuad(light shadows.Point, intensity float64, b scene.Blocker, tileScreenSize, darkness, elapsed float64) (Quad, bool) {
	if b.ContainsPoint(light.X, light.Y) {
		return Quad{}, false
	}

	cx := b.X + b.W/2
	cy := b.Y + b.H/2
	dx := cx - light.X
	dy := cy - light.Y

	var near, far [2]shadows.Point
	if math.Abs(dx) >= math.Abs(dy) {
		// Horizontal offset dominates: the facing edge is a vertical side.
		if dx >= 0 {
			near[0] = shadows.Point{X: b.X, Y: b.Y}
			near[1] = shadows.Point{X: b.X, Y: b.Y + b.H}
			far[0] = shadows.Point{X: b.X + b.W, Y: b.Y}
			far[1] = shadows.Point{X: b.X + b.W, Y: b.Y + b.H}
		} else {
			near[0] = shadows.Point{X: b.X + b.W, Y: b.Y}
			near[1] = shadows.Point{X: b.X + b.W, Y: b.Y + b.H}
			far[0] = shadows.Point{X: b.X, Y: b.Y}
			far[1] = shadows.Point{X: b.X, Y: b.Y + b.H}
		}
	} else {
		if dy >= 0 {
			near[0] = shadows.Point{X: b.X, Y: b.Y}
			near[1] = shadows.Point{X: b.X + b.W, Y: b.Y}
			far[0] = shadows.Point{X: b.X, Y: b.Y + b.H}
			far[1] = shadows.Point{X: b.X + b.W, Y: b.Y + b.H}
		} else {
			near[0] = shadows.Point{X: b.X, Y: b.Y + b.H}
			near[1] = shadows.Point{X: b.X + b.W, Y: b.Y + b.H}
			far[0] = shadows.Point{X: b.X, Y: b.Y}
			far[1] = shadows.Point{X: b.X + b.W, Y: b.Y}
		}
	}

	length := ShadowLength(tileScreenSize, b.CastHeight)
	for i := range far {
		far[i] = extrude(light, far[i], length)
		far[i].X += jitter(elapsed, i*2)
		far[i].Y += jitter(elapsed, i*2+1)
	}

	return Quad{
		Near:      near,
		Far:       far,
		NearAlpha: 0.12 + Strength(b.Softness, intensity, darkness)*0.55,
	}, true
}

// extrude pushes corner directly away from the light by length.
func extrude(light, corner shadows.Point, length float64) shadows.Point {
	dx := corner.X - light.X
	dy := corner.Y - light.Y
	dist := math.Hypot(dx, dy)
	if dist < 1e-9 {
		return corner
	}
	return shadows.Point{
		X: corner.X + dx/dist*length,
		Y: corner.Y + dy/dist*length,
	}
}

// jitter returns a small time-varying offset. Seeding by time rather than by
// corner identity makes the shadow fringe shimmer between evaluations.
func jitter(elapsed float64, phase int) float64 {
	return jitterAmp * math.Sin(elapsed*jitterRate+float64(phase)*2.399)
}
