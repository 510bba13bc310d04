package game

import (
	"fmt"
	"image/color"
	"time"

	"chosenoffset.com/gloam/internal/config"
	"chosenoffset.com/gloam/internal/core/shadows"
	"chosenoffset.com/gloam/internal/discovery"
	"chosenoffset.com/gloam/internal/placeholders"
	"chosenoffset.com/gloam/internal/render"
	"chosenoffset.com/gloam/internal/render/lighting"
)

var (
	obstacleFill = placeholders.Darken(placeholders.ColorPalette.Rock, 0.6)
	hudText      = color.RGBA{180, 180, 190, 255}
	coldMarker   = color.RGBA{110, 110, 120, 255}
)

// Draw renders the demo to the screen.
func (g *Game) Draw(screen render.Image) {
	g.Perf.RecordFrame()
	elapsed := time.Since(g.startTime).Seconds()

	// Step 1: the unlit scene
	g.drawScene(screen)

	// Step 2: darkness layer and glow halos over it
	g.Compositor.Draw(screen, g.Holder.Current(), lighting.View{Scale: 1}, elapsed)

	// Step 3: optional overlays
	if g.ShowSight {
		g.drawSight(screen)
	}
	if g.ShowFog {
		g.drawFog(screen)
	}

	// Step 4: UI elements on top, unaffected by lighting
	g.drawUI(screen)
	g.drawHUD(screen)
}

func (g *Game) drawScene(screen render.Image) {
	cfg := config.Cfg()
	tile := cfg.World.TileSize
	cols := (int(cfg.Derived.WorldW) + tile - 1) / tile
	rows := (int(cfg.Derived.WorldH) + tile - 1) / tile

	for row := 0; row < rows; row++ {
		for col := 0; col < cols; col++ {
			var img render.Image
			switch tileKindAt(col, row) {
			case tilePillar:
				img = g.Tiles[placeholders.TileObstacle]
			case tileRubble:
				img = g.Tiles[placeholders.TileAccent]
			default:
				if (col+row)%2 == 0 {
					img = g.Tiles[placeholders.TileFloorA]
				} else {
					img = g.Tiles[placeholders.TileFloorB]
				}
			}

			opts := &render.DrawImageOptions{}
			opts.GeoM = render.NewGeoM()
			opts.GeoM.Translate(float64(col*tile), float64(row*tile))
			screen.DrawImage(img, opts)
		}
	}

	// Obstacle rects over the tile art, so shadow geometry matches what the
	// player sees
	for _, b := range g.Blockers {
		g.fillRect(screen, b.X, b.Y, b.W, b.H, obstacleFill)
	}

	for _, e := range g.Embers {
		radius := float32(3 + 3*e.Warmth)
		g.Renderer.FillCircle(screen, float32(e.X), float32(e.Y), radius, emberColor(e.Warmth))
	}

	if g.TorchLit {
		g.Renderer.FillCircle(screen, float32(g.TorchX), float32(g.TorchY), 5, placeholders.ColorPalette.Torch)
		g.Renderer.StrokeCircle(screen, float32(g.TorchX), float32(g.TorchY), 9, 1, placeholders.Darken(placeholders.ColorPalette.Torch, 0.6))
	} else {
		g.Renderer.StrokeCircle(screen, float32(g.TorchX), float32(g.TorchY), 5, 1, coldMarker)
	}

	if g.dragging {
		g.Renderer.StrokeCircle(screen, float32(g.dragX), float32(g.dragY), 10, 2, placeholders.ColorPalette.Preview)
	}
}

func emberColor(warmth float64) color.RGBA {
	return placeholders.Darken(placeholders.ColorPalette.Ember, 0.4+0.6*warmth)
}

// drawSight overlays the torch's direct line of sight as a faint wash.
func (g *Game) drawSight(screen render.Image) {
	if !g.TorchLit {
		return
	}

	cfg := config.Cfg()
	rects := make([]shadows.Rect, len(g.Blockers))
	for i, b := range g.Blockers {
		rects[i] = b.Bounds()
	}
	origin := shadows.Point{X: g.TorchX, Y: g.TorchY}
	poly := shadows.VisibilityPolygon(origin, cfg.Derived.WorldW, cfg.Derived.WorldH, rects)
	if len(poly) < 3 {
		return
	}

	// Triangle fan from the origin; the visibility polygon is star shaped
	// around it
	const alpha = 0.07
	vertices := make([]render.Vertex, 0, len(poly)+1)
	vertices = append(vertices, sightVertex(origin, alpha))
	for _, p := range poly {
		vertices = append(vertices, sightVertex(p, alpha))
	}
	indices := make([]uint16, 0, len(poly)*3)
	for i := 1; i <= len(poly); i++ {
		next := i + 1
		if next > len(poly) {
			next = 1
		}
		indices = append(indices, 0, uint16(i), uint16(next))
	}
	screen.DrawTriangles(vertices, indices, g.whiteSource(), &render.DrawTrianglesOptions{AntiAlias: true})
}

func sightVertex(p shadows.Point, alpha float32) render.Vertex {
	return render.Vertex{
		DstX:   float32(p.X),
		DstY:   float32(p.Y),
		SrcX:   1.5,
		SrcY:   1.5,
		ColorR: 1,
		ColorG: 1,
		ColorB: 1,
		ColorA: alpha,
	}
}

// drawFog shades undiscovered and explored cells. Runs of same-state cells
// merge into one rect per row to keep the draw count down.
func (g *Game) drawFog(screen render.Image) {
	cell := float64(config.Cfg().Discovery.CellSize)

	for row := 0; row < g.Fog.Rows; row++ {
		col := 0
		for col < g.Fog.Cols {
			state := g.Fog.At(col, row)
			run := 1
			for col+run < g.Fog.Cols && g.Fog.At(col+run, row) == state {
				run++
			}
			if clr, shaded := fogColor(state); shaded {
				g.fillRect(screen, float64(col)*cell, float64(row)*cell, float64(run)*cell, cell, clr)
			}
			col += run
		}
	}
}

func fogColor(s discovery.State) (color.RGBA, bool) {
	switch s {
	case discovery.Shroud:
		return placeholders.ColorPalette.Shroud, true
	case discovery.Explored:
		return placeholders.ColorPalette.Explored, true
	default:
		return color.RGBA{}, false
	}
}

func (g *Game) drawUI(screen render.Image) {
	// Draw on-screen messages
	y := 50.0
	for _, msg := range g.Messages {
		alpha := uint8(255 * (msg.TimeLeft / msg.MaxTime))
		g.Renderer.DrawText(screen, msg.Text, 20, int(y), color.RGBA{255, 255, 255, alpha}, 1.0)
		y += 20
	}
}

func (g *Game) drawHUD(screen render.Image) {
	controls := "L torch  G grow  drag: toss ember  right-click: hollow pillar  F fog  V sight  R reseed  Space clear  Esc quit"
	g.Renderer.DrawText(screen, controls, 20, g.ScreenHeight-24, hudText, 1.0)

	discovered := g.Fog.DiscoveredCount()
	total := g.Fog.Cols * g.Fog.Rows
	pct := 0.0
	if total > 0 {
		pct = float64(discovered) / float64(total) * 100
	}
	line := fmt.Sprintf("discovered %d/%d (%.0f%%)", discovered, total, pct)
	w, _ := g.Renderer.MeasureText(line, 1.0)
	g.Renderer.DrawText(screen, line, g.ScreenWidth-w-20, g.ScreenHeight-24, hudText, 1.0)
}

func (g *Game) whiteSource() render.Image {
	if g.WhiteImg == nil {
		g.WhiteImg = g.Renderer.NewImage(3, 3)
		g.WhiteImg.Fill(color.White)
	}
	return g.WhiteImg
}

// fillRect stretches a tiny white image over the rectangle. The color scale
// carries premultiplied components.
func (g *Game) fillRect(dst render.Image, x, y, w, h float64, clr color.RGBA) {
	opts := &render.DrawImageOptions{}
	opts.GeoM = render.NewGeoM()
	opts.GeoM.Scale(w/3, h/3)
	opts.GeoM.Translate(x, y)
	a := float32(clr.A) / 255
	opts.ColorScale.Scale(float32(clr.R)/255*a, float32(clr.G)/255*a, float32(clr.B)/255*a, a)
	dst.DrawImage(g.whiteSource(), opts)
}
