package clutter

import (
	"reflect"
	"testing"

	"chosenoffset.com/gloam/internal/core/shadows"
)

func TestGenerateDeterministic(t *testing.T) {
	cell := shadows.Rect{X: 128, Y: 64, W: 64, H: 64}

	for _, seed := range []uint32{0, 1, 42, 0xdeadbeef} {
		first := Generate(seed, cell)
		second := Generate(seed, cell)
		if !reflect.DeepEqual(first, second) {
			t.Errorf("Seed %d: expected identical rect lists across calls", seed)
		}
	}
}

func TestGenerateSeedsDiffer(t *testing.T) {
	cell := shadows.Rect{W: 64, H: 64}
	a := Generate(1, cell)
	b := Generate(2, cell)
	if reflect.DeepEqual(a, b) {
		t.Error("Expected different seeds to produce different fields")
	}
}

func TestGenerateShape(t *testing.T) {
	cell := shadows.Rect{X: 256, Y: 192, W: 64, H: 64}
	blockers := Generate(7, cell)

	if len(blockers) < 5 || len(blockers) > 7 {
		t.Fatalf("Expected 5 to 7 rects, got %d", len(blockers))
	}

	for i, b := range blockers {
		if b.W < 8 || b.W > 18 {
			t.Errorf("Rect %d: width %v outside [8, 18]", i, b.W)
		}
		if b.H < 14 || b.H > 36 {
			t.Errorf("Rect %d: height %v outside [14, 36]", i, b.H)
		}
		if b.X < cell.X+inset || b.X+b.W > cell.X+cell.W-inset+1 {
			t.Errorf("Rect %d: x range [%v, %v] escapes the inset cell", i, b.X, b.X+b.W)
		}
		if b.Y < cell.Y+inset || b.Y+b.H > cell.Y+cell.H-inset+1 {
			t.Errorf("Rect %d: y range [%v, %v] escapes the inset cell", i, b.Y, b.Y+b.H)
		}
		if b.CastHeight < 1 || b.CastHeight > 9 || b.Softness < 1 || b.Softness > 9 {
			t.Errorf("Rect %d: authoring parameters out of range", i)
		}
	}
}

func TestSeedForIsStable(t *testing.T) {
	if SeedFor(3, 5) != SeedFor(3, 5) {
		t.Error("Expected identical seeds for identical coordinates")
	}
	if SeedFor(0, 0) == SeedFor(1, 0) || SeedFor(0, 0) == SeedFor(0, 1) {
		t.Error("Expected neighboring cells to derive different seeds")
	}
}
