package render

import (
	"errors"
	"image"
	"image/color"
)

// Termination is returned from Game.Update to end the game loop cleanly.
// The engine treats it as a regular quit, not an error.
var Termination = errors.New("termination requested")

// Renderer is the main rendering interface that abstracts the underlying
// graphics engine. This allows swapping rendering backends without changing
// the lighting or demo logic.
type Renderer interface {
	// Image operations
	NewImage(width, height int) Image

	// Vector operations (for drawing shapes)
	FillCircle(dst Image, x, y, radius float32, clr color.Color)
	StrokeCircle(dst Image, x, y, radius float32, strokeWidth float32, clr color.Color)

	// Text operations
	DrawText(dst Image, text string, x, y int, clr color.Color, scale float64)
	MeasureText(text string, scale float64) (width, height int)
}

// Image represents a renderable image surface that can be drawn to or drawn
// from. It abstracts the underlying image implementation.
type Image interface {
	// Properties
	Bounds() image.Rectangle
	Size() (width, height int)

	// Sub-image extraction
	SubImage(r image.Rectangle) Image

	// Fill operations
	Fill(clr color.Color)
	Clear()

	// Pixel upload (for procedurally generated sprites)
	WritePixels(pix []byte)

	// Drawing operations
	DrawImage(src Image, opts *DrawImageOptions)
	DrawTriangles(vertices []Vertex, indices []uint16, img Image, opts *DrawTrianglesOptions)

	// Resource management
	Dispose()
}

// Blend selects how a draw combines with the destination. The zero value is
// standard alpha compositing.
type Blend int

const (
	// BlendSourceOver composites the source over the destination.
	BlendSourceOver Blend = iota
	// BlendErase removes destination alpha where the source has alpha.
	BlendErase
	// BlendAdd sums the source into the destination.
	BlendAdd
)

// ColorScale multiplies the colors of a draw. The zero value is the
// identity scale.
type ColorScale struct {
	r, g, b, a float32
	set        bool
}

// Scale multiplies the current scale by the given factors.
func (c *ColorScale) Scale(r, g, b, a float32) {
	if !c.set {
		c.r, c.g, c.b, c.a = 1, 1, 1, 1
		c.set = true
	}
	c.r *= r
	c.g *= g
	c.b *= b
	c.a *= a
}

// Values returns the effective multipliers.
func (c ColorScale) Values() (r, g, b, a float32) {
	if !c.set {
		return 1, 1, 1, 1
	}
	return c.r, c.g, c.b, c.a
}

// DrawImageOptions contains options for drawing an image.
type DrawImageOptions struct {
	GeoM       GeoM
	ColorScale ColorScale
	Blend      Blend
}

// GeoM represents a geometric transformation matrix.
type GeoM interface {
	// Translate shifts the image by (tx, ty).
	Translate(tx, ty float64)

	// Scale scales the image by (sx, sy).
	Scale(sx, sy float64)
}

// NewGeoM creates a new geometric transformation matrix.
// This is implemented by the specific renderer backend.
var NewGeoM func() GeoM

// DrawTrianglesOptions contains options for drawing triangles.
type DrawTrianglesOptions struct {
	AntiAlias bool
}

// Vertex represents a vertex for triangle rendering.
type Vertex struct {
	DstX   float32
	DstY   float32
	SrcX   float32
	SrcY   float32
	ColorR float32
	ColorG float32
	ColorB float32
	ColorA float32
}

// InputManager handles input from the user (keyboard, mouse, etc).
type InputManager interface {
	IsKeyPressed(key Key) bool
	IsKeyJustPressed(key Key) bool
	GetCursorPosition() (x, y int)
	IsMouseButtonPressed(button MouseButton) bool
	IsMouseButtonJustPressed(button MouseButton) bool
	IsMouseButtonJustReleased(button MouseButton) bool
}

// Key represents a keyboard key.
type Key int

// Key constants for the demo controls
const (
	KeyL Key = iota // Torch toggle key
	KeyG            // Torch growth key
	KeyF            // Fog overlay toggle key
	KeyR            // Clutter reseed key
	KeyV            // Sight polygon overlay key
	KeySpace
	KeyEscape
)

// MouseButton represents a mouse button.
type MouseButton int

// Mouse button constants
const (
	MouseButtonLeft MouseButton = iota
	MouseButtonRight
	MouseButtonMiddle
)

// ResourceLoader handles loading resources like images from disk.
type ResourceLoader interface {
	LoadImage(path string) (Image, error)
}

// Game represents the game interface that the engine will call.
// This is typically implemented by the main game struct.
type Game interface {
	// Update updates the game logic. It is called every tick (typically 60 times per second).
	Update() error

	// Draw draws the game screen. It is called every frame.
	Draw(screen Image)

	// Layout accepts the outside size (e.g., window size) and returns the logical screen size.
	// The logical screen size is used for rendering and input coordinates.
	Layout(outsideWidth, outsideHeight int) (screenWidth, screenHeight int)
}

// Engine represents the game engine that manages the game loop and window.
type Engine interface {
	// SetWindowSize sets the window size in pixels.
	SetWindowSize(width, height int)

	// SetWindowTitle sets the window title.
	SetWindowTitle(title string)

	// SetWindowResizable enables or disables window resizing.
	SetWindowResizable(resizable bool)

	// SetTicksPerSecond sets the logic update rate.
	SetTicksPerSecond(tps int)

	// RunGame runs the game loop with the provided game.
	// This is a blocking call that runs until the game ends.
	RunGame(game Game) error
}
