// Package lighting composites the screen-space darkness layer: an ambient
// fill, radial erasures for each light, projected shadow quads, and glow
// halos drawn above the layer.
package lighting

import (
	"image/color"
	"math"

	"golang.org/x/time/rate"

	"chosenoffset.com/gloam/internal/core/shadows"
	"chosenoffset.com/gloam/internal/render"
	"chosenoffset.com/gloam/internal/world/scene"
)

// Erase gradient stop alphas. The profile falls from full erasure at the
// light center through these two stops to nothing at the rim.
const (
	midAlpha = 0.55
	farAlpha = 0.22
)

// View maps world coordinates onto the raster surface.
type View struct {
	Scale   float64
	OffsetX float64
	OffsetY float64
}

func (v View) point(x, y float64) (float64, float64) {
	return x*v.Scale + v.OffsetX, y*v.Scale + v.OffsetY
}

// Options configures a Compositor.
type Options struct {
	Darkness       float64       // ambient darkness level, clamped to [0.2, 1]
	MidStop        float64       // first erase gradient stop, as a fraction of the radius
	FarStop        float64       // second erase gradient stop
	GlowRadius     float64       // halo radius in screen pixels
	GlowAlpha      float64       // halo opacity
	TileSize       float64       // tile edge length in world units
	EvalsPerSecond float64       // light layer re-render rate
	Flicker        scene.Flicker // fallback flicker for lights without their own
}

// Compositor renders the darkness layer for a viewport. The layer is an
// offscreen texture re-rendered at a throttled rate and composited over the
// scene every frame.
type Compositor struct {
	renderer render.Renderer
	opts     Options

	layer          render.Image
	layerW, layerH int
	stale          bool

	limiter *rate.Limiter

	sprites map[int]render.Image // radial erase sprites keyed by quantized radius
	white   render.Image
}

// NewCompositor creates a compositor. Out-of-range options fall back to the
// defaults (stops 0.45/0.75, 30 evaluations per second, 64 px tiles).
func NewCompositor(renderer render.Renderer, opts Options) *Compositor {
	if opts.Darkness < 0.2 {
		opts.Darkness = 0.2
	} else if opts.Darkness > 1 {
		opts.Darkness = 1
	}
	if opts.MidStop <= 0 || opts.MidStop >= 1 {
		opts.MidStop = 0.45
	}
	if opts.FarStop <= opts.MidStop || opts.FarStop >= 1 {
		opts.FarStop = 0.75
	}
	if opts.EvalsPerSecond <= 0 {
		opts.EvalsPerSecond = 30
	}
	if opts.TileSize <= 0 {
		opts.TileSize = 64
	}
	return &Compositor{
		renderer: renderer,
		opts:     opts,
		limiter:  rate.NewLimiter(rate.Limit(opts.EvalsPerSecond), 1),
		sprites:  make(map[int]render.Image),
	}
}

// Draw composites the light layer onto dst. The layer itself is re-rendered
// at most EvalsPerSecond times per second; between evaluations the cached
// layer is reused. Halos are drawn directly on dst every frame.
func (c *Compositor) Draw(dst render.Image, snap scene.Snapshot, view View, elapsed float64) {
	if view.Scale <= 0 {
		view.Scale = 1
	}
	w, h := dst.Size()
	if w <= 0 || h <= 0 {
		return
	}
	c.ensureLayer(w, h)

	if c.stale || c.limiter.Allow() {
		c.redrawLayer(snap, view, elapsed)
		c.stale = false
	}

	dst.DrawImage(c.layer, nil)
	c.drawHalos(dst, snap, view)
}

// ensureLayer reallocates the offscreen layer when the viewport changes size.
func (c *Compositor) ensureLayer(w, h int) {
	if c.layer != nil && c.layerW == w && c.layerH == h {
		return
	}
	if c.layer != nil {
		c.layer.Dispose()
	}
	c.layer = c.renderer.NewImage(w, h)
	c.layerW, c.layerH = w, h
	c.stale = true
}

func (c *Compositor) redrawLayer(snap scene.Snapshot, view View, elapsed float64) {
	layer := c.layer
	layer.Clear()
	layer.Fill(color.NRGBA{A: uint8(c.opts.Darkness * 255)})

	// Effective per-light intensities for this evaluation, flicker applied.
	eff := make([]float64, len(snap.Lights))
	for i, l := range snap.Lights {
		eff[i] = c.effectiveIntensity(l, elapsed)
	}

	for i, l := range snap.Lights {
		if l.Radius <= 0 || eff[i] <= 0 {
			continue
		}
		c.eraseLight(layer, l, eff[i], view)
	}

	// Shadow quads go on top of the erasures so occluded regions darken
	// again even where another light has punched through.
	tileScreen := c.opts.TileSize * view.Scale
	for i, l := range snap.Lights {
		if l.Radius <= 0 || eff[i] <= 0 {
			continue
		}
		lx, ly := view.point(l.X, l.Y)
		origin := shadows.Point{X: lx, Y: ly}
		for _, b := range snap.Blockers {
			q, ok := ComputeQuad(origin, eff[i], screenBlocker(b, view), tileScreen, c.opts.Darkness, elapsed)
			if !ok {
				continue
			}
			c.fillQuad(layer, q)
		}
	}
}

// eraseLight punches a radial hole in the darkness, then tints it additively
// with the light's color.
func (c *Compositor) eraseLight(layer render.Image, l scene.LightSource, intensity float64, view View) {
	sx, sy := view.point(l.X, l.Y)
	sr := l.Radius * view.Scale
	sprite := c.gradientSprite(sr)
	sw, _ := sprite.Size()

	op := &render.DrawImageOptions{GeoM: render.NewGeoM()}
	op.GeoM.Scale(sr*2/float64(sw), sr*2/float64(sw))
	op.GeoM.Translate(sx-sr, sy-sr)
	op.ColorScale.Scale(float32(intensity), float32(intensity), float32(intensity), float32(intensity))
	op.Blend = render.BlendErase
	layer.DrawImage(sprite, op)

	tint := l.Color
	if tint.R == 0 && tint.G == 0 && tint.B == 0 {
		return
	}
	op = &render.DrawImageOptions{GeoM: render.NewGeoM()}
	op.GeoM.Scale(sr*2/float64(sw), sr*2/float64(sw))
	op.GeoM.Translate(sx-sr, sy-sr)
	ta := float32(intensity * 0.3)
	op.ColorScale.Scale(float32(tint.R)/255*ta, float32(tint.G)/255*ta, float32(tint.B)/255*ta, ta)
	op.Blend = render.BlendAdd
	layer.DrawImage(sprite, op)
}

// fillQuad draws one shadow quad as two triangles with a per-vertex alpha
// gradient, near edge dark and far edge transparent.
func (c *Compositor) fillQuad(layer render.Image, q Quad) {
	na := float32(q.NearAlpha)
	vertices := []render.Vertex{
		{DstX: float32(q.Near[0].X), DstY: float32(q.Near[0].Y), SrcX: 1.5, SrcY: 1.5, ColorA: na},
		{DstX: float32(q.Near[1].X), DstY: float32(q.Near[1].Y), SrcX: 1.5, SrcY: 1.5, ColorA: na},
		{DstX: float32(q.Far[1].X), DstY: float32(q.Far[1].Y), SrcX: 1.5, SrcY: 1.5},
		{DstX: float32(q.Far[0].X), DstY: float32(q.Far[0].Y), SrcX: 1.5, SrcY: 1.5},
	}
	indices := []uint16{0, 1, 2, 0, 2, 3}
	layer.DrawTriangles(vertices, indices, c.whiteSource(), &render.DrawTrianglesOptions{AntiAlias: true})
}

// drawHalos draws the fixed-size self-glow for each light directly on dst.
// Halos sit above the darkness layer and ignore blockers.
func (c *Compositor) drawHalos(dst render.Image, snap scene.Snapshot, view View) {
	if c.opts.GlowRadius <= 0 || c.opts.GlowAlpha <= 0 {
		return
	}
	gr := c.opts.GlowRadius
	sprite := c.gradientSprite(gr)
	sw, _ := sprite.Size()
	for _, l := range snap.Lights {
		sx, sy := view.point(l.X, l.Y)
		op := &render.DrawImageOptions{GeoM: render.NewGeoM()}
		op.GeoM.Scale(gr*2/float64(sw), gr*2/float64(sw))
		op.GeoM.Translate(sx-gr, sy-gr)
		ga := float32(c.opts.GlowAlpha)
		op.ColorScale.Scale(float32(l.Color.R)/255*ga, float32(l.Color.G)/255*ga, float32(l.Color.B)/255*ga, ga)
		op.Blend = render.BlendAdd
		dst.DrawImage(sprite, op)
	}
}

func (c *Compositor) effectiveIntensity(l scene.LightSource, elapsed float64) float64 {
	fl := l.Flicker
	if !fl.Enabled {
		fl = c.opts.Flicker
	}
	return scene.FlickeredIntensity(l.Intensity, fl, elapsed)
}

// gradientSprite returns a cached radial erase sprite for the given screen
// radius, quantized to the nearest integer so nearby radii share a texture.
func (c *Compositor) gradientSprite(radius float64) render.Image {
	key := int(math.Ceil(radius))
	if key < 1 {
		key = 1
	}
	if img, ok := c.sprites[key]; ok {
		return img
	}
	img := c.renderer.NewImage(key*2, key*2)
	img.WritePixels(spritePixels(key, c.opts.MidStop, c.opts.FarStop))
	c.sprites[key] = img
	return img
}

func (c *Compositor) whiteSource() render.Image {
	if c.white == nil {
		c.white = c.renderer.NewImage(3, 3)
		c.white.Fill(color.White)
	}
	return c.white
}

// Close releases the layer and all cached textures.
func (c *Compositor) Close() {
	if c.layer != nil {
		c.layer.Dispose()
		c.layer = nil
	}
	for _, img := range c.sprites {
		img.Dispose()
	}
	c.sprites = make(map[int]render.Image)
	if c.white != nil {
		c.white.Dispose()
		c.white = nil
	}
}

// screenBlocker maps a blocker's bounds into screen space. Cast parameters
// carry over unchanged.
func screenBlocker(b scene.Blocker, view View) scene.Blocker {
	x, y := view.point(b.X, b.Y)
	return scene.Blocker{
		X:          x,
		Y:          y,
		W:          b.W * view.Scale,
		H:          b.H * view.Scale,
		CastHeight: b.CastHeight,
		Softness:   b.Softness,
	}
}

// eraseProfile returns the erase alpha at normalized distance d from the
// light center: full erasure at the center, midAlpha at midStop, farAlpha at
// farStop, zero at the rim, linear between stops.
func eraseProfile(d, midStop, farStop float64) float64 {
	switch {
	case d <= 0:
		return 1
	case d >= 1:
		return 0
	case d < midStop:
		return 1 - (1-midAlpha)*(d/midStop)
	case d < farStop:
		return midAlpha - (midAlpha-farAlpha)*((d-midStop)/(farStop-midStop))
	default:
		return farAlpha * (1 - (d-farStop)/(1-farStop))
	}
}

// spritePixels renders the erase profile as a premultiplied radial gradient
// into an RGBA buffer sized (radius*2) square.
func spritePixels(radius int, midStop, farStop float64) []byte {
	size := radius * 2
	pix := make([]byte, size*size*4)
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			dx := float64(x) + 0.5 - float64(radius)
			dy := float64(y) + 0.5 - float64(radius)
			d := math.Hypot(dx, dy) / float64(radius)
			v := uint8(eraseProfile(d, midStop, farStop) * 255)
			off := (y*size + x) * 4
			pix[off+0] = v
			pix[off+1] = v
			pix[off+2] = v
			pix[off+3] = v
		}
	}
	return pix
}
