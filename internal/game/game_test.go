package game

import (
	"reflect"
	"testing"

	"chosenoffset.com/gloam/internal/config"
	"chosenoffset.com/gloam/internal/world/pattern"
	"chosenoffset.com/gloam/internal/world/scene"
)

func newTestGame(t *testing.T) *Game {
	t.Helper()
	config.MustInit("")
	repo := pattern.New(pattern.NewMemoryStore())
	if err := repo.Load(); err != nil {
		t.Fatalf("Failed to load pattern repository: %v", err)
	}
	return &Game{Patterns: repo, blockersDirty: true}
}

func TestTileKindAtIsStable(t *testing.T) {
	tests := []struct {
		name     string
		col, row int
		want     int
	}{
		{"pillar", 3, 2, tilePillar},
		{"second pillar", 9, 7, tilePillar},
		{"rubble origin", 0, 0, tileRubble},
		{"plain floor", 1, 1, tileFloor},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tileKindAt(tt.col, tt.row); got != tt.want {
				t.Errorf("Expected kind %d at (%d,%d), got %d", tt.want, tt.col, tt.row, got)
			}
		})
	}
}

func TestRebuildBlockersPlacesPillarPattern(t *testing.T) {
	g := newTestGame(t)
	g.Patterns.SetDefault("pillar", []scene.Blocker{
		scene.NewBlocker(20, 12, 24, 40, 9, 4),
	}, 0)

	g.rebuildBlockers()

	// Tile (3,2) is a pillar; its pattern rect lands at the tile origin plus
	// the local offset.
	wantX, wantY := 3.0*64+20, 2.0*64+12
	found := false
	for _, b := range g.Blockers {
		if b.X == wantX && b.Y == wantY && b.W == 24 && b.H == 40 {
			found = true
			break
		}
	}
	if !found {
		t.Errorf("Expected pillar rect at (%v,%v), not found among %d blockers", wantX, wantY, len(g.Blockers))
	}
	if g.blockersDirty {
		t.Error("Expected dirty flag cleared after rebuild")
	}
}

func TestRebuildBlockersHonorsEmptyOverride(t *testing.T) {
	g := newTestGame(t)
	g.Patterns.SetDefault("pillar", []scene.Blocker{
		scene.NewBlocker(20, 12, 24, 40, 9, 4),
	}, 0)
	g.Patterns.SetOverride(pillarID(3, 2), []scene.Blocker{})

	g.rebuildBlockers()

	wantX, wantY := 3.0*64+20, 2.0*64+12
	for _, b := range g.Blockers {
		if b.X == wantX && b.Y == wantY {
			t.Fatalf("Expected hollowed pillar at (3,2) to contribute no rects, found one at (%v,%v)", b.X, b.Y)
		}
	}
}

func TestRebuildBlockersIsDeterministic(t *testing.T) {
	g1 := newTestGame(t)
	g2 := newTestGame(t)
	g1.rebuildBlockers()
	g2.rebuildBlockers()

	if !reflect.DeepEqual(g1.Blockers, g2.Blockers) {
		t.Error("Expected identical blocker lists for identical seeds")
	}

	g2.seedSalt++
	g2.rebuildBlockers()
	if reflect.DeepEqual(g1.Blockers, g2.Blockers) {
		t.Error("Expected a salt change to reshuffle the rubble")
	}
}

func TestDropEmberCapsCount(t *testing.T) {
	g := newTestGame(t)
	for i := 0; i < maxEmbers+5; i++ {
		g.dropEmber(float64(i), 0, float64(i)+10, 0)
	}

	if len(g.Embers) != maxEmbers {
		t.Errorf("Expected %d embers after overflow, got %d", maxEmbers, len(g.Embers))
	}
	// The oldest tosses are the ones dropped
	if g.Embers[0].X != 5 {
		t.Errorf("Expected oldest surviving ember at x=5, got %v", g.Embers[0].X)
	}
}

func TestUpdateEmbersCoolsAndClamps(t *testing.T) {
	g := newTestGame(t)
	g.Embers = []Ember{
		{X: 100, Y: 100, Warmth: 1},
		{X: -50, Y: 5000, Warmth: 0.5},
		{X: 200, Y: 200, Warmth: emberMinWarmth},
	}

	g.updateEmbers(1.0 / 60.0)

	if len(g.Embers) != 2 {
		t.Fatalf("Expected cold ember removed, got %d embers", len(g.Embers))
	}
	if g.Embers[0].Warmth >= 1 {
		t.Errorf("Expected warmth to decay below 1, got %v", g.Embers[0].Warmth)
	}
	if g.Embers[1].X != 0 {
		t.Errorf("Expected ember clamped to left edge, got x=%v", g.Embers[1].X)
	}
	if g.Embers[1].Y != config.Cfg().Derived.WorldH {
		t.Errorf("Expected ember clamped to bottom edge, got y=%v", g.Embers[1].Y)
	}
}

func TestDeriveStateCarriesDragPreview(t *testing.T) {
	g := newTestGame(t)
	g.TorchX, g.TorchY = 300, 200
	g.TorchLit = true
	g.Embers = []Ember{{X: 10, Y: 20, Warmth: 0.8}}

	s := g.deriveState()
	if s.Drag != nil {
		t.Error("Expected no drag preview while idle")
	}
	if len(s.Embers) != 1 || s.Embers[0].Warmth != 0.8 {
		t.Errorf("Expected one projected ember with warmth 0.8, got %+v", s.Embers)
	}

	g.dragging = true
	g.dragX, g.dragY = 55, 66
	s = g.deriveState()
	if s.Drag == nil || s.Drag.X != 55 || s.Drag.Y != 66 {
		t.Errorf("Expected drag preview at (55,66), got %+v", s.Drag)
	}
}

func TestUpdateMessagesExpires(t *testing.T) {
	g := newTestGame(t)
	g.Messages = []Message{
		{Text: "stays", TimeLeft: 2, MaxTime: 3},
		{Text: "goes", TimeLeft: 0.01, MaxTime: 3},
	}

	g.updateMessages(1.0 / 60.0)

	if len(g.Messages) != 1 {
		t.Fatalf("Expected one message to survive, got %d", len(g.Messages))
	}
	if g.Messages[0].Text != "stays" {
		t.Errorf("Expected 'stays' to survive, got %q", g.Messages[0].Text)
	}
}
