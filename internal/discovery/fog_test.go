package discovery

import "testing"

func TestFogMonotonicUnion(t *testing.T) {
	fog := NewFog(5, 5)

	fog.Apply(Response{Visible: []string{"1,1", "2,2"}})
	if !fog.Discovered(1, 1) || !fog.Discovered(2, 2) {
		t.Fatal("Expected applied cells to be discovered")
	}

	fog.Apply(Response{Visible: []string{"3,3"}})

	// Earlier discoveries survive later responses.
	if !fog.Discovered(1, 1) || !fog.Discovered(2, 2) {
		t.Error("Expected previously discovered cells to stay discovered")
	}
	if fog.At(1, 1) != Explored {
		t.Errorf("Expected no-longer-lit cell to be Explored, got %v", fog.At(1, 1))
	}
	if fog.At(3, 3) != Visible {
		t.Errorf("Expected currently lit cell to be Visible, got %v", fog.At(3, 3))
	}
	if fog.DiscoveredCount() != 3 {
		t.Errorf("Expected 3 discovered cells, got %d", fog.DiscoveredCount())
	}
}

func TestFogIgnoresMalformedKeys(t *testing.T) {
	fog := NewFog(5, 5)
	fog.Apply(Response{Visible: []string{"x,y", "5,5", "-1,2", "3", "2,2"}})

	if fog.DiscoveredCount() != 1 {
		t.Errorf("Expected only the well-formed in-range key to apply, got %d cells", fog.DiscoveredCount())
	}
	if !fog.Discovered(2, 2) {
		t.Error("Expected cell (2,2) to be discovered")
	}
}

func TestFogWithoutPersistence(t *testing.T) {
	fog := NewFog(5, 5)
	fog.SetPersistence(false)

	fog.Apply(Response{Visible: []string{"1,1"}})
	fog.Apply(Response{Visible: []string{"2,2"}})

	if fog.Discovered(1, 1) {
		t.Error("Expected cell to fall back to shroud without persistence")
	}
	if !fog.Discovered(2, 2) {
		t.Error("Expected currently lit cell to be visible")
	}
}

func TestFogOutOfRangeReadsAsShroud(t *testing.T) {
	fog := NewFog(3, 3)
	if fog.At(-1, 0) != Shroud || fog.At(0, 7) != Shroud {
		t.Error("Expected out-of-range reads to return Shroud")
	}
	if fog.Discovered(9, 9) {
		t.Error("Expected out-of-range cell to read as undiscovered")
	}
}
