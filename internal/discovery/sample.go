// Package discovery decides, off the interactive thread, which grid cells
// receive enough light to count as seen, and accumulates those cells into a
// persistent fog-of-war record.
package discovery

import (
	"fmt"
	"math"

	"github.com/remeh/sizedwaitgroup"

	"chosenoffset.com/gloam/internal/world/scene"
)

// Light carries the sampling-relevant slice of a light source. Color and
// flicker are rendering concerns and never cross the worker boundary.
type Light struct {
	X, Y      float64
	Radius    float64
	Intensity float64
}

// Blocker is the sampling-relevant slice of an obstacle.
type Blocker struct {
	X, Y, W, H float64
}

// Request is one immutable sampling job.
type Request struct {
	Lights             []Light
	Blockers           []Blocker
	Rows, Cols         int
	CellSize           float64
	WorldWidth         float64
	WorldHeight        float64
	IntensityThreshold float64
}

// Response lists the currently visible cells as "col,row" keys.
type Response struct {
	Visible []string
}

// NewRequest strips a scene snapshot down to its sampling inputs.
func NewRequest(snap scene.Snapshot, rows, cols int, cellSize, worldWidth, worldHeight, threshold float64) Request {
	lights := make([]Light, len(snap.Lights))
	for i, l := range snap.Lights {
		lights[i] = Light{X: l.X, Y: l.Y, Radius: l.Radius, Intensity: l.Intensity}
	}
	blockers := make([]Blocker, len(snap.Blockers))
	for i, b := range snap.Blockers {
		blockers[i] = Blocker{X: b.X, Y: b.Y, W: b.W, H: b.H}
	}
	return Request{
		Lights:             lights,
		Blockers:           blockers,
		Rows:               rows,
		Cols:               cols,
		CellSize:           cellSize,
		WorldWidth:         worldWidth,
		WorldHeight:        worldHeight,
		IntensityThreshold: threshold,
	}
}

// CellKey formats a grid coordinate the way responses carry it.
func CellKey(col, row int) string {
	return fmt.Sprintf("%d,%d", col, row)
}

// Sample evaluates one request, testing each cell at its center. Rows are
// sampled in parallel, bounded by workers; the visible list stays in
// row-major order regardless.
func Sample(req Request, ambient, blockerOpacity float64, workers int) Response {
	if req.Rows <= 0 || req.Cols <= 0 || req.CellSize <= 0 {
		return Response{Visible: []string{}}
	}
	if workers < 1 {
		workers = 1
	}

	rowHits := make([][]string, req.Rows)
	swg := sizedwaitgroup.New(workers)
	for row := 0; row < req.Rows; row++ {
		swg.Add()
		go func(row int) {
			defer swg.Done()
			rowHits[row] = sampleRow(req, row, ambient, blockerOpacity)
		}(row)
	}
	swg.Wait()

	visible := []string{}
	for _, hits := range rowHits {
		visible = append(visible, hits...)
	}
	return Response{Visible: visible}
}

func sampleRow(req Request, row int, ambient, blockerOpacity float64) []string {
	var hits []string
	cy := (float64(row) + 0.5) * req.CellSize
	if req.WorldHeight > 0 && cy > req.WorldHeight {
		return nil
	}
	for col := 0; col < req.Cols; col++ {
		cx := (float64(col) + 0.5) * req.CellSize
		if req.WorldWidth > 0 && cx > req.WorldWidth {
			break
		}
		if lightLevelAt(req, cx, cy, ambient, blockerOpacity) >= req.IntensityThreshold {
			hits = append(hits, CellKey(col, row))
		}
	}
	return hits
}

// lightLevelAt accumulates the light reaching one world point. A point
// inside any blocker only sees attenuated ambient light; this containment
// shadow stands in for exact occlusion at grid resolution.
func lightLevelAt(req Request, x, y float64, ambient, blockerOpacity float64) float64 {
	for _, b := range req.Blockers {
		if x >= b.X && x <= b.X+b.W && y >= b.Y && y <= b.Y+b.H {
			return ambient * (1 - blockerOpacity)
		}
	}

	level := ambient
	for _, l := range req.Lights {
		d := math.Hypot(x-l.X, y-l.Y)
		level += scene.Falloff(d, l.Radius, l.Intensity)
	}
	return math.Min(level, 1)
}
