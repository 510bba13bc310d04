package lighting

import (
	"math"
	"testing"
)

func TestEraseProfileStops(t *testing.T) {
	tests := []struct {
		name string
		d    float64
		want float64
	}{
		{"center", 0, 1},
		{"mid stop", 0.45, midAlpha},
		{"far stop", 0.75, farAlpha},
		{"rim", 1, 0},
		{"beyond rim", 2, 0},
		{"negative distance", -0.5, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := eraseProfile(tt.d, 0.45, 0.75); math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("eraseProfile(%v) = %v, expected %v", tt.d, got, tt.want)
			}
		})
	}
}

func TestEraseProfileMonotonic(t *testing.T) {
	prev := eraseProfile(0, 0.45, 0.75)
	for d := 0.01; d <= 1.0; d += 0.01 {
		cur := eraseProfile(d, 0.45, 0.75)
		if cur > prev {
			t.Fatalf("eraseProfile increased at d=%v: %v > %v", d, cur, prev)
		}
		prev = cur
	}
}

func TestEraseProfileContinuousAtStops(t *testing.T) {
	for _, stop := range []float64{0.45, 0.75} {
		below := eraseProfile(stop-1e-9, 0.45, 0.75)
		at := eraseProfile(stop, 0.45, 0.75)
		if math.Abs(below-at) > 1e-6 {
			t.Errorf("Discontinuity at stop %v: %v vs %v", stop, below, at)
		}
	}
}

func TestSpritePixels(t *testing.T) {
	const radius = 8
	pix := spritePixels(radius, 0.45, 0.75)

	size := radius * 2
	if len(pix) != size*size*4 {
		t.Fatalf("Expected %d bytes, got %d", size*size*4, len(pix))
	}

	// Premultiplied white: all four channels match per pixel.
	for i := 0; i < len(pix); i += 4 {
		if pix[i] != pix[i+1] || pix[i] != pix[i+2] || pix[i] != pix[i+3] {
			t.Fatalf("Pixel %d: expected equal channels, got %v %v %v %v",
				i/4, pix[i], pix[i+1], pix[i+2], pix[i+3])
		}
	}

	// Near the center the erasure is nearly full, at the corner it is zero.
	centerOff := (radius*size + radius) * 4
	if pix[centerOff+3] < 200 {
		t.Errorf("Expected near-opaque center, got alpha %d", pix[centerOff+3])
	}
	if pix[3] != 0 {
		t.Errorf("Expected transparent corner, got alpha %d", pix[3])
	}
}

func TestNewCompositorOptionFallbacks(t *testing.T) {
	c := NewCompositor(nil, Options{Darkness: 0.05})
	if c.opts.Darkness != 0.2 {
		t.Errorf("Expected darkness clamped to 0.2, got %v", c.opts.Darkness)
	}
	if c.opts.MidStop != 0.45 || c.opts.FarStop != 0.75 {
		t.Errorf("Expected default stops 0.45/0.75, got %v/%v", c.opts.MidStop, c.opts.FarStop)
	}
	if c.opts.EvalsPerSecond != 30 {
		t.Errorf("Expected default 30 evaluations per second, got %v", c.opts.EvalsPerSecond)
	}

	c = NewCompositor(nil, Options{Darkness: 1.7})
	if c.opts.Darkness != 1 {
		t.Errorf("Expected darkness clamped to 1, got %v", c.opts.Darkness)
	}
}
