package scene

import (
	"image/color"
	"math"
)

// Flicker describes time-varying modulation of a light's intensity.
// A zero value means no flicker.
type Flicker struct {
	Enabled bool
	Speed   float64
	Amount  float64
}

// LightSource is one point light. Lights are recomputed every evaluation
// from game state and never persisted.
type LightSource struct {
	X, Y      float64
	Radius    float64
	Intensity float64
	Color     color.NRGBA
	Flicker   Flicker
}

// Falloff returns the contribution of a light of the given radius and
// intensity at distance dist. Cosine shaped: full at the center, exactly
// zero at and beyond the radius, continuous in between.
func Falloff(dist, radius, intensity float64) float64 {
	if radius <= 0 || dist >= radius {
		return 0
	}
	return intensity * math.Cos(math.Min(dist/radius, 1)*math.Pi/2)
}

// FlickeredIntensity modulates base by fl at the given elapsed time and
// clamps the result to [0, 1]. A disabled flicker leaves base unchanged
// apart from the clamp.
func FlickeredIntensity(base float64, fl Flicker, elapsed float64) float64 {
	v := base
	if fl.Enabled {
		v = base * (1 + fl.Amount*math.Sin(elapsed*fl.Speed*10))
	}
	return clamp01(v)
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
