// Package game runs the interactive cavern demo: a cursor torch, tossed
// embers, and editable obstacle layouts feeding the lighting and discovery
// subsystems.
package game

import (
	"fmt"
	"log"
	"log/slog"
	"math"
	"reflect"
	"time"

	"chosenoffset.com/gloam/internal/config"
	"chosenoffset.com/gloam/internal/core/shadows"
	"chosenoffset.com/gloam/internal/discovery"
	"chosenoffset.com/gloam/internal/placeholders"
	"chosenoffset.com/gloam/internal/render"
	"chosenoffset.com/gloam/internal/render/lighting"
	"chosenoffset.com/gloam/internal/telemetry"
	"chosenoffset.com/gloam/internal/world/clutter"
	"chosenoffset.com/gloam/internal/world/pattern"
	"chosenoffset.com/gloam/internal/world/scene"
)

const (
	maxGrowth       = 6   // Torch growth levels cycle 0..maxGrowth-1
	maxEmbers       = 10  // Oldest embers drop off beyond this
	emberFlickScale = 2.0 // Drag vector to launch velocity
	emberDrag       = 0.92
	emberCooling    = 0.05 // Warmth lost per second
	emberMinWarmth  = 0.05
)

// Game holds all demo state and logic.
type Game struct {
	ScreenWidth  int
	ScreenHeight int

	Renderer render.Renderer
	InputMgr render.InputManager

	// World composition
	Patterns      *pattern.Repository
	Blockers      []scene.Blocker
	blockersDirty bool
	seedSalt      uint32

	// Player torch
	TorchX, TorchY float64
	TorchLit       bool
	Growth         int

	// Tossed embers
	Embers []Ember

	// Drag state for ember tosses
	dragging     bool
	dragX, dragY float64

	// Lighting
	Holder     *scene.Holder
	Compositor *lighting.Compositor

	// Discovery
	Discovery   *discovery.Engine
	Fog         *discovery.Fog
	lastRequest discovery.Request
	ShowFog     bool
	ShowSight   bool

	// Art
	Tiles    []render.Image
	WhiteImg render.Image

	// Telemetry
	Perf             *telemetry.PerfCollector
	Output           *telemetry.OutputManager
	updateCount      int64
	lastStatsLog     time.Time
	responsesApplied int
	lastVisible      int

	startTime time.Time

	// UI state
	Messages []Message
}

// NewGame wires the demo together from already-initialized subsystems.
func NewGame(r render.Renderer, input render.InputManager, loader render.ResourceLoader, patterns *pattern.Repository, eng *discovery.Engine, output *telemetry.OutputManager) *Game {
	cfg := config.Cfg()

	g := &Game{
		ScreenWidth:   cfg.Screen.Width,
		ScreenHeight:  cfg.Screen.Height,
		Renderer:      r,
		InputMgr:      input,
		Patterns:      patterns,
		blockersDirty: true,
		TorchX:        cfg.Derived.WorldW / 2,
		TorchY:        cfg.Derived.WorldH / 2,
		TorchLit:      true,
		Holder:        scene.NewHolder(),
		Discovery:     eng,
		Fog:           discovery.NewFog(cfg.Derived.Cols, cfg.Derived.Rows),
		Tiles:         loadTiles(r, loader),
		Perf:          telemetry.NewPerfCollector(cfg.Telemetry.PerfWindow),
		Output:        output,
		startTime:     time.Now(),
	}

	g.Compositor = lighting.NewCompositor(r, lighting.Options{
		Darkness:       cfg.Lighting.AmbientDarkness,
		MidStop:        cfg.Lighting.FalloffMidStop,
		FarStop:        cfg.Lighting.FalloffFarStop,
		GlowRadius:     cfg.Lighting.GlowRadius,
		GlowAlpha:      cfg.Lighting.GlowAlpha,
		TileSize:       float64(cfg.World.TileSize),
		EvalsPerSecond: cfg.Lighting.EvalsPerSecond,
		Flicker: scene.Flicker{
			Enabled: true,
			Speed:   cfg.Lighting.Flicker.Speed,
			Amount:  cfg.Lighting.Flicker.Amount,
		},
	})

	g.ShowMessage("Torch lit. Click and drag to toss embers.")
	return g
}

// loadTiles loads the tile atlas from disk, falling back to generated
// placeholder art when the file is absent.
func loadTiles(r render.Renderer, loader render.ResourceLoader) []render.Image {
	tiles := make([]render.Image, placeholders.TileCount)

	atlas, err := loader.LoadImage("assets/tiles.png")
	if err == nil {
		for i := range tiles {
			tiles[i] = atlas.SubImage(placeholders.AtlasRect(i))
		}
		return tiles
	}

	log.Printf("Warning: Failed to load tile atlas: %v, generating placeholder art", err)
	for i, src := range placeholders.BuildTiles() {
		img := r.NewImage(placeholders.TileSize, placeholders.TileSize)
		img.WritePixels(src.Pix)
		tiles[i] = img
	}
	return tiles
}

// Update handles game logic updates.
func (g *Game) Update() error {
	// Fixed timestep; the engine ticks at the configured rate
	dt := 1.0 / float64(config.Cfg().Screen.TargetFPS)

	g.Perf.StartUpdate()

	g.Perf.StartPhase(telemetry.PhaseInput)
	if err := g.handleInput(); err != nil {
		return err
	}
	g.updateMessages(dt)
	g.updateEmbers(dt)

	g.Perf.StartPhase(telemetry.PhaseDerive)
	if g.blockersDirty {
		g.rebuildBlockers()
	}
	snap := scene.Snapshot{
		Lights:   scene.DeriveLights(g.deriveState()),
		Blockers: g.Blockers,
	}
	g.Holder.Set(snap)

	g.Perf.StartPhase(telemetry.PhaseDiscovery)
	g.submitDiscovery(snap)

	g.Perf.StartPhase(telemetry.PhaseFog)
	g.drainResponses()

	g.Perf.EndUpdate()
	g.updateCount++
	g.maybeLogStats()

	return nil
}

// Layout returns the game's logical screen size.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return g.ScreenWidth, g.ScreenHeight
}

// SetSeed salts the rubble field seeds. Zero keeps the canonical layout.
func (g *Game) SetSeed(salt uint32) {
	g.seedSalt = salt
	g.blockersDirty = true
}

// Close releases renderer-side resources.
func (g *Game) Close() {
	if g.Compositor != nil {
		g.Compositor.Close()
	}
}

func (g *Game) handleInput() error {
	if g.InputMgr.IsKeyJustPressed(render.KeyEscape) {
		return render.Termination
	}

	if g.InputMgr.IsKeyJustPressed(render.KeyL) {
		g.TorchLit = !g.TorchLit
		if g.TorchLit {
			g.ShowMessage("Torch lit")
		} else {
			g.ShowMessage("Torch snuffed")
		}
	}

	if g.InputMgr.IsKeyJustPressed(render.KeyG) {
		g.Growth = (g.Growth + 1) % maxGrowth
		g.ShowMessage(fmt.Sprintf("Torch growth %d", g.Growth))
	}

	if g.InputMgr.IsKeyJustPressed(render.KeyF) {
		g.ShowFog = !g.ShowFog
		if g.ShowFog {
			g.ShowMessage("Fog overlay on")
		} else {
			g.ShowMessage("Fog overlay off")
		}
	}

	if g.InputMgr.IsKeyJustPressed(render.KeyV) {
		g.ShowSight = !g.ShowSight
	}

	if g.InputMgr.IsKeyJustPressed(render.KeyR) {
		g.seedSalt++
		g.blockersDirty = true
		g.ShowMessage("Rubble reseeded")
	}

	if g.InputMgr.IsKeyJustPressed(render.KeySpace) {
		g.Embers = nil
		g.ShowMessage("Embers scattered")
	}

	// The torch follows the cursor
	mx, my := g.InputMgr.GetCursorPosition()
	g.TorchX, g.TorchY = float64(mx), float64(my)

	// Left drag tosses an ember: press anchors it, the drag vector becomes
	// its launch velocity
	if g.InputMgr.IsMouseButtonJustPressed(render.MouseButtonLeft) {
		g.dragging = true
		g.dragX, g.dragY = float64(mx), float64(my)
	}
	if g.dragging && g.InputMgr.IsMouseButtonJustReleased(render.MouseButtonLeft) {
		g.dragging = false
		g.dropEmber(g.dragX, g.dragY, float64(mx), float64(my))
	}

	// Right click toggles the obstacle layout override on a pillar tile
	if g.InputMgr.IsMouseButtonJustPressed(render.MouseButtonRight) {
		g.togglePillarOverride(mx, my)
	}

	return nil
}

func (g *Game) dropEmber(atX, atY, towardX, towardY float64) {
	g.Embers = append(g.Embers, Ember{
		X:      atX,
		Y:      atY,
		VX:     (towardX - atX) * emberFlickScale,
		VY:     (towardY - atY) * emberFlickScale,
		Warmth: 1,
	})
	if len(g.Embers) > maxEmbers {
		g.Embers = g.Embers[len(g.Embers)-maxEmbers:]
	}
}

func (g *Game) updateEmbers(dt float64) {
	cfg := config.Cfg()
	alive := g.Embers[:0]
	for _, e := range g.Embers {
		e.X += e.VX * dt
		e.Y += e.VY * dt
		e.VX *= emberDrag
		e.VY *= emberDrag
		e.Warmth -= emberCooling * dt

		if e.X < 0 {
			e.X = 0
		}
		if e.Y < 0 {
			e.Y = 0
		}
		if e.X > cfg.Derived.WorldW {
			e.X = cfg.Derived.WorldW
		}
		if e.Y > cfg.Derived.WorldH {
			e.Y = cfg.Derived.WorldH
		}

		if e.Warmth > emberMinWarmth {
			alive = append(alive, e)
		}
	}
	g.Embers = alive
}

// deriveState projects the demo state into the pure lighting inputs.
func (g *Game) deriveState() scene.GameState {
	s := scene.GameState{
		PlayerX:     g.TorchX,
		PlayerY:     g.TorchY,
		GrowthLevel: g.Growth,
		TorchLit:    g.TorchLit,
	}
	for _, e := range g.Embers {
		s.Embers = append(s.Embers, scene.Ember{X: e.X, Y: e.Y, Warmth: e.Warmth})
	}
	if g.dragging {
		s.Drag = &scene.DragPreview{X: g.dragX, Y: g.dragY}
	}
	return s
}

// tileKindAt decides what occupies a tile. The layout is a fixed function of
// the grid coordinate, so every run presents the same cavern.
func tileKindAt(col, row int) int {
	if col%6 == 3 && row%5 == 2 {
		return tilePillar
	}
	if (col*7+row*13)%19 == 0 {
		return tileRubble
	}
	return tileFloor
}

func pillarID(col, row int) string {
	return fmt.Sprintf("pillar:%d,%d", col, row)
}

// rebuildBlockers collects the world obstacle list: pillar tiles resolve
// their layout through the pattern repository, rubble tiles generate theirs
// from a per-tile seed.
func (g *Game) rebuildBlockers() {
	cfg := config.Cfg()
	tile := float64(cfg.World.TileSize)
	cols := int(math.Ceil(cfg.Derived.WorldW / tile))
	rows := int(math.Ceil(cfg.Derived.WorldH / tile))

	var blockers []scene.Blocker
	for row := 0; row < rows; row++ {
		for col := 0; col < cols; col++ {
			ox := float64(col) * tile
			oy := float64(row) * tile

			switch tileKindAt(col, row) {
			case tilePillar:
				// Pattern rects are tile-local
				for _, r := range g.Patterns.ResolveEffectivePattern(pillarID(col, row), "pillar") {
					blockers = append(blockers, scene.NewBlocker(
						ox+r.X, oy+r.Y, r.W, r.H, r.CastHeight, r.Softness))
				}
			case tileRubble:
				cell := shadows.Rect{X: ox, Y: oy, W: tile, H: tile}
				blockers = append(blockers, clutter.Generate(clutter.SeedFor(col, row)^g.seedSalt, cell)...)
			}
		}
	}

	g.Blockers = blockers
	g.blockersDirty = false
}

// togglePillarOverride swaps a pillar tile between its type default and an
// explicitly empty per-instance layout.
func (g *Game) togglePillarOverride(mx, my int) {
	tile := config.Cfg().World.TileSize
	col, row := mx/tile, my/tile
	if mx < 0 || my < 0 || tileKindAt(col, row) != tilePillar {
		return
	}

	id := pillarID(col, row)
	if _, ok := g.Patterns.Override(id); ok {
		g.Patterns.ClearOverride(id)
		g.ShowMessage("Pillar restored")
	} else {
		g.Patterns.SetOverride(id, []scene.Blocker{})
		g.ShowMessage("Pillar hollowed out")
	}
	g.blockersDirty = true
}

// submitDiscovery hands the current sampling inputs to the discovery engine.
// Unchanged inputs are not resubmitted, so a still scene costs nothing.
func (g *Game) submitDiscovery(snap scene.Snapshot) {
	cfg := config.Cfg()
	req := discovery.NewRequest(snap, cfg.Derived.Rows, cfg.Derived.Cols,
		float64(cfg.Discovery.CellSize), cfg.Derived.WorldW, cfg.Derived.WorldH,
		cfg.Discovery.IntensityThreshold)

	if reflect.DeepEqual(req, g.lastRequest) {
		return
	}
	g.lastRequest = req
	g.Discovery.Submit(req)
}

// drainResponses applies every queued sampling response. Application order
// does not matter for the discovered set, so the frame simply ends on the
// newest visibility.
func (g *Game) drainResponses() {
	for {
		select {
		case resp := <-g.Discovery.Responses():
			g.Fog.Apply(resp)
			g.responsesApplied++
			g.lastVisible = len(resp.Visible)
		default:
			return
		}
	}
}

func (g *Game) maybeLogStats() {
	cfg := config.Cfg()
	if cfg.Telemetry.LogIntervalSec <= 0 {
		return
	}

	now := time.Now()
	if g.lastStatsLog.IsZero() {
		g.lastStatsLog = now
		return
	}
	if now.Sub(g.lastStatsLog) < time.Duration(cfg.Telemetry.LogIntervalSec*float64(time.Second)) {
		return
	}
	g.lastStatsLog = now

	stats := g.Perf.Stats()
	stats.LogStats()

	if err := g.Output.WritePerf(stats, g.updateCount); err != nil {
		slog.Warn("perf csv write failed", "error", err)
	}

	discovered := g.Fog.DiscoveredCount()
	total := g.Fog.Cols * g.Fog.Rows
	rec := telemetry.DiscoveryRecord{
		WindowEnd:       g.updateCount,
		VisibleCells:    g.lastVisible,
		DiscoveredCells: discovered,
		Responses:       g.responsesApplied,
	}
	if total > 0 {
		rec.DiscoveredPct = float64(discovered) / float64(total) * 100
	}
	if err := g.Output.WriteDiscovery(rec); err != nil {
		slog.Warn("discovery csv write failed", "error", err)
	}
}

func (g *Game) updateMessages(dt float64) {
	var active []Message
	for _, msg := range g.Messages {
		msg.TimeLeft -= dt
		if msg.TimeLeft > 0 {
			active = append(active, msg)
		}
	}
	g.Messages = active
}

// ShowMessage adds a new message to be displayed on screen.
func (g *Game) ShowMessage(text string) {
	g.Messages = append(g.Messages, Message{
		Text:     text,
		TimeLeft: 3.0,
		MaxTime:  3.0,
	})

	log.Printf("Message: %s", text)
}
