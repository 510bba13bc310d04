package game

// Ember is a tossed glow source with simple motion and a cooling clock.
type Ember struct {
	X, Y   float64
	VX, VY float64
	Warmth float64 // 1 fresh, 0 cold
}

// Message represents an on-screen message that fades over time.
type Message struct {
	Text     string
	TimeLeft float64 // Seconds remaining
	MaxTime  float64 // Initial duration
}

// Tile kinds for the generated cavern layout.
const (
	tileFloor = iota
	tilePillar
	tileRubble
)
