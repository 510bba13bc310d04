package scene

import "image/color"

// GameState is the slice of game state the light projection reads each
// evaluation: positions and sizes only, no game rules.
type GameState struct {
	PlayerX, PlayerY float64
	GrowthLevel      int
	TorchLit         bool
	Embers           []Ember
	Drag             *DragPreview
}

// Ember is a small drifting glow source.
type Ember struct {
	X, Y   float64
	Warmth float64 // 0..1, scales radius and intensity
}

// DragPreview marks an in-flight placement that carries a ghost light.
type DragPreview struct {
	X, Y float64
}

const (
	torchBaseRadius  = 150.0
	torchGrowthStep  = 25.0
	torchIntensity   = 0.95
	emberBaseRadius  = 45.0
	emberIntensity   = 0.5
	previewRadius    = 90.0
	previewIntensity = 0.4
)

// DeriveLights projects game state into the per-evaluation light list.
// It is a pure function: equal states produce equal lists.
func DeriveLights(s GameState) []LightSource {
	var lights []LightSource

	if s.TorchLit {
		lights = append(lights, LightSource{
			X:         s.PlayerX,
			Y:         s.PlayerY,
			Radius:    torchBaseRadius + float64(s.GrowthLevel)*torchGrowthStep,
			Intensity: torchIntensity,
			Color:     color.NRGBA{R: 255, G: 196, B: 112, A: 255},
			Flicker:   Flicker{Enabled: true, Speed: 1.0, Amount: 0.08},
		})
	}

	for i, e := range s.Embers {
		w := clamp01(e.Warmth)
		lights = append(lights, LightSource{
			X:         e.X,
			Y:         e.Y,
			Radius:    emberBaseRadius * (0.6 + 0.4*w),
			Intensity: emberIntensity * (0.5 + 0.5*w),
			Color:     color.NRGBA{R: 255, G: 120, B: 60, A: 255},
			Flicker:   Flicker{Enabled: true, Speed: 1.4 + 0.2*float64(i%3), Amount: 0.25},
		})
	}

	if s.Drag != nil {
		lights = append(lights, LightSource{
			X:         s.Drag.X,
			Y:         s.Drag.Y,
			Radius:    previewRadius,
			Intensity: previewIntensity,
			Color:     color.NRGBA{R: 180, G: 210, B: 255, A: 255},
		})
	}

	return lights
}
