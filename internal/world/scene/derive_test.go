package scene

import (
	"reflect"
	"testing"
)

func TestDeriveLightsPure(t *testing.T) {
	state := GameState{
		PlayerX:     320,
		PlayerY:     240,
		GrowthLevel: 2,
		TorchLit:    true,
		Embers: []Ember{
			{X: 100, Y: 100, Warmth: 0.8},
			{X: 500, Y: 140, Warmth: 0.3},
		},
		Drag: &DragPreview{X: 50, Y: 60},
	}

	first := DeriveLights(state)
	second := DeriveLights(state)
	if !reflect.DeepEqual(first, second) {
		t.Error("Expected identical light lists for identical state")
	}
	if len(first) != 4 {
		t.Errorf("Expected 4 lights (torch, 2 embers, preview), got %d", len(first))
	}
}

func TestDeriveLightsTorchGrowth(t *testing.T) {
	small := DeriveLights(GameState{TorchLit: true, GrowthLevel: 0})
	grown := DeriveLights(GameState{TorchLit: true, GrowthLevel: 2})

	if len(small) != 1 || len(grown) != 1 {
		t.Fatalf("Expected single torch light, got %d and %d", len(small), len(grown))
	}
	want := small[0].Radius + 2*torchGrowthStep
	if grown[0].Radius != want {
		t.Errorf("Expected grown radius %v, got %v", want, grown[0].Radius)
	}
}

func TestDeriveLightsEmptyState(t *testing.T) {
	lights := DeriveLights(GameState{})
	if len(lights) != 0 {
		t.Errorf("Expected no lights for an empty state, got %d", len(lights))
	}
}

func TestDeriveLightsDragPreview(t *testing.T) {
	lights := DeriveLights(GameState{Drag: &DragPreview{X: 10, Y: 20}})
	if len(lights) != 1 {
		t.Fatalf("Expected preview light only, got %d lights", len(lights))
	}
	if lights[0].Flicker.Enabled {
		t.Error("Expected the preview light to carry no flicker")
	}
}

func TestHolderPublishesLatest(t *testing.T) {
	h := NewHolder()
	if snap := h.Current(); len(snap.Lights) != 0 || len(snap.Blockers) != 0 {
		t.Error("Expected an empty initial snapshot")
	}

	want := Snapshot{
		Lights:   DeriveLights(GameState{TorchLit: true}),
		Blockers: []Blocker{NewBlocker(1, 2, 3, 4, 9, 5)},
	}
	h.Set(want)
	if got := h.Current(); !reflect.DeepEqual(got, want) {
		t.Error("Expected the holder to return the snapshot that was set")
	}
}
