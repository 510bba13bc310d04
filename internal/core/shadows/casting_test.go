package shadows

import (
	"math"
	"testing"
)

func TestVisibilityPolygonEmptyWorld(t *testing.T) {
	origin := Point{X: 100, Y: 80}
	polygon := VisibilityPolygon(origin, 200, 160, nil)

	if len(polygon) != 4 {
		t.Fatalf("Expected 4 boundary points for an empty world, got %d", len(polygon))
	}

	// Corners ordered by angle from the origin, ascending in [0, 2pi).
	expected := []Point{
		{X: 200, Y: 160},
		{X: 0, Y: 160},
		{X: 0, Y: 0},
		{X: 200, Y: 0},
	}
	for i, want := range expected {
		got := polygon[i]
		if math.Abs(got.X-want.X) > 1e-6 || math.Abs(got.Y-want.Y) > 1e-6 {
			t.Errorf("Corner %d: expected (%v, %v), got (%v, %v)", i, want.X, want.Y, got.X, got.Y)
		}
	}
}

func TestVisibilityPolygonOcclusion(t *testing.T) {
	origin := Point{X: 100, Y: 100}
	blocker := Rect{X: 150, Y: 90, W: 20, H: 20}
	polygon := VisibilityPolygon(origin, 400, 300, []Rect{blocker})

	if len(polygon) < 4 {
		t.Fatalf("Expected a polygon with at least 4 points, got %d", len(polygon))
	}

	// Directly behind the blocker relative to the light.
	if PointInPolygon(Point{X: 300, Y: 100}, polygon) {
		t.Error("Expected point behind the blocker to be occluded")
	}

	// Between light and blocker.
	if !PointInPolygon(Point{X: 130, Y: 100}, polygon) {
		t.Error("Expected point in front of the blocker to be visible")
	}

	// Off to the side, unobstructed.
	if !PointInPolygon(Point{X: 100, Y: 250}, polygon) {
		t.Error("Expected unobstructed point to be visible")
	}
}

func TestVisibilityPolygonOriginOnBlockerEdge(t *testing.T) {
	// A light sitting exactly on a blocker edge must not panic; the jittered
	// rays keep every cast well defined.
	origin := Point{X: 150, Y: 100}
	blocker := Rect{X: 150, Y: 90, W: 20, H: 20}
	polygon := VisibilityPolygon(origin, 400, 300, []Rect{blocker})

	if len(polygon) == 0 {
		t.Error("Expected a non-empty polygon for a light on a blocker edge")
	}
}

func TestVisibilityPolygonOriginOutsideBounds(t *testing.T) {
	// Rays that escape every segment are discarded rather than defaulted.
	origin := Point{X: -50, Y: -50}
	polygon := VisibilityPolygon(origin, 100, 100, nil)

	if len(polygon) == 0 {
		t.Fatal("Expected some hits for an origin outside the bounds")
	}
	for i, p := range polygon {
		if p.X < -1 || p.X > 101 || p.Y < -1 || p.Y > 101 {
			t.Errorf("Point %d (%v, %v) lies off every segment", i, p.X, p.Y)
		}
	}
}

func TestRaySegmentIntersection(t *testing.T) {
	tests := []struct {
		name     string
		origin   Point
		dx, dy   float64
		seg      Segment
		wantHit  bool
		wantDist float64
	}{
		{
			name:     "perpendicular hit",
			origin:   Point{X: 0, Y: 0},
			dx:       1, dy: 0,
			seg:      Segment{A: Point{X: 5, Y: -1}, B: Point{X: 5, Y: 1}},
			wantHit:  true,
			wantDist: 5,
		},
		{
			name:    "parallel miss",
			origin:  Point{X: 0, Y: 0},
			dx:      1, dy: 0,
			seg:     Segment{A: Point{X: 1, Y: 1}, B: Point{X: 5, Y: 1}},
			wantHit: false,
		},
		{
			name:    "segment behind origin",
			origin:  Point{X: 0, Y: 0},
			dx:      1, dy: 0,
			seg:     Segment{A: Point{X: -5, Y: -1}, B: Point{X: -5, Y: 1}},
			wantHit: false,
		},
		{
			name:    "ray passes beside segment",
			origin:  Point{X: 0, Y: 0},
			dx:      1, dy: 0,
			seg:     Segment{A: Point{X: 5, Y: 1}, B: Point{X: 5, Y: 3}},
			wantHit: false,
		},
		{
			name:     "diagonal hit",
			origin:   Point{X: 1, Y: 1},
			dx:       0.6, dy: 0.8,
			seg:      Segment{A: Point{X: 4, Y: 1}, B: Point{X: 4, Y: 9}},
			wantHit:  true,
			wantDist: 5,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hit, dist, _ := raySegmentIntersection(tt.origin, tt.dx, tt.dy, tt.seg)
			if hit != tt.wantHit {
				t.Fatalf("Expected hit=%v, got %v", tt.wantHit, hit)
			}
			if hit && math.Abs(dist-tt.wantDist) > 1e-9 {
				t.Errorf("Expected distance %v, got %v", tt.wantDist, dist)
			}
		})
	}
}

func TestBuildSegments(t *testing.T) {
	segments := BuildSegments(640, 480, nil)
	if len(segments) != 4 {
		t.Errorf("Expected 4 segments for empty world, got %d", len(segments))
	}

	blockers := []Rect{
		{X: 10, Y: 10, W: 20, H: 20},
		{X: 100, Y: 50, W: 30, H: 10},
	}
	segments = BuildSegments(640, 480, blockers)
	if len(segments) != 12 {
		t.Errorf("Expected 12 segments for two blockers, got %d", len(segments))
	}
}

func TestPointInPolygon(t *testing.T) {
	square := []Point{
		{X: 0, Y: 0},
		{X: 10, Y: 0},
		{X: 10, Y: 10},
		{X: 0, Y: 10},
	}

	if !PointInPolygon(Point{X: 5, Y: 5}, square) {
		t.Error("Expected center point inside square")
	}
	if PointInPolygon(Point{X: 15, Y: 5}, square) {
		t.Error("Expected outside point not in square")
	}
	if PointInPolygon(Point{X: -1, Y: -1}, square) {
		t.Error("Expected negative point not in square")
	}
}
