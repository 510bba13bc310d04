// Package placeholders generates simple procedural tile art for the demo so
// it runs without any asset files on disk.
package placeholders

import (
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"os"
)

// TileSize is the standard edge length for generated tiles.
const TileSize = 64

// Atlas slot indices. The generated atlas lays tiles out row-major with
// AtlasColumns per row.
const (
	TileFloorA = iota
	TileFloorB
	TileObstacle
	TileAccent
	TileCount
)

// AtlasColumns is the number of tiles per atlas row.
const AtlasColumns = 2

// ColorPalette defines colors for the cavern theme.
var ColorPalette = struct {
	// Base tiles
	FloorDark  color.RGBA
	FloorLight color.RGBA
	FloorSpeck color.RGBA
	Rock       color.RGBA
	RockEdge   color.RGBA
	Accent     color.RGBA

	// Lights
	Torch   color.RGBA
	Ember   color.RGBA
	Preview color.RGBA

	// Fog overlay
	Shroud   color.RGBA
	Explored color.RGBA

	// UI
	Border     color.RGBA
	Background color.RGBA
}{
	// Base tiles - dark cavern floor with lighter speckles
	FloorDark:  color.RGBA{48, 44, 52, 255},
	FloorLight: color.RGBA{56, 52, 60, 255},
	FloorSpeck: color.RGBA{70, 66, 76, 255},
	Rock:       color.RGBA{96, 88, 84, 255},
	RockEdge:   color.RGBA{64, 58, 56, 255},
	Accent:     color.RGBA{80, 90, 104, 255},

	// Lights - warm torch and ember tones, cool preview
	Torch:   color.RGBA{255, 196, 112, 255},
	Ember:   color.RGBA{255, 120, 60, 255},
	Preview: color.RGBA{180, 210, 255, 255},

	// Fog overlay
	Shroud:   color.RGBA{8, 8, 12, 238},
	Explored: color.RGBA{8, 8, 12, 130},

	// UI
	Border:     color.RGBA{200, 200, 200, 255},
	Background: color.RGBA{20, 18, 24, 255},
}

// BuildTiles renders every atlas slot as a standalone image, indexed by the
// Tile constants.
func BuildTiles() []*image.RGBA {
	tiles := make([]*image.RGBA, TileCount)
	tiles[TileFloorA] = CreatePatternedTile(ColorPalette.FloorDark, ColorPalette.FloorSpeck, "dots")
	tiles[TileFloorB] = CreatePatternedTile(ColorPalette.FloorLight, ColorPalette.FloorSpeck, "dots")
	tiles[TileObstacle] = CreateBorderedTile(ColorPalette.Rock, ColorPalette.RockEdge, 2)
	tiles[TileAccent] = CreatePatternedTile(ColorPalette.Accent, ColorPalette.FloorSpeck, "diagonal")
	return tiles
}

// AtlasRect returns the pixel rectangle of an atlas slot.
func AtlasRect(index int) image.Rectangle {
	col := index % AtlasColumns
	row := index / AtlasColumns
	x := col * TileSize
	y := row * TileSize
	return image.Rect(x, y, x+TileSize, y+TileSize)
}

// CreateSolidTile creates a simple solid-colored tile.
func CreateSolidTile(col color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, TileSize, TileSize))
	draw.Draw(img, img.Bounds(), &image.Uniform{col}, image.Point{}, draw.Src)
	return img
}

// CreateBorderedTile creates a tile with a border.
func CreateBorderedTile(fillColor, borderColor color.RGBA, borderWidth int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, TileSize, TileSize))

	// Fill background
	draw.Draw(img, img.Bounds(), &image.Uniform{fillColor}, image.Point{}, draw.Src)

	// Draw borders
	for i := 0; i < borderWidth; i++ {
		// Top and bottom borders
		for x := 0; x < TileSize; x++ {
			img.Set(x, i, borderColor)
			img.Set(x, TileSize-1-i, borderColor)
		}
		// Left and right borders
		for y := 0; y < TileSize; y++ {
			img.Set(i, y, borderColor)
			img.Set(TileSize-1-i, y, borderColor)
		}
	}

	return img
}

// CreatePatternedTile creates a tile with a simple pattern.
func CreatePatternedTile(baseColor, patternColor color.RGBA, pattern string) *image.RGBA {
	img := CreateSolidTile(baseColor)

	switch pattern {
	case "grid":
		// Draw a grid pattern
		for i := 0; i < TileSize; i += 8 {
			for x := 0; x < TileSize; x++ {
				img.Set(x, i, patternColor)
				img.Set(i, x, patternColor)
			}
		}
	case "dots":
		// Sparse speckles on a fixed lattice
		for y := 6; y < TileSize; y += 14 {
			for x := 6; x < TileSize; x += 14 {
				offset := ((x*31 + y*17) % 5) - 2
				px := x + offset
				py := y - offset
				for dy := 0; dy < 2; dy++ {
					for dx := 0; dx < 2; dx++ {
						img.Set(px+dx, py+dy, patternColor)
					}
				}
			}
		}
	case "diagonal":
		// Draw diagonal lines
		for i := 0; i < TileSize; i++ {
			img.Set(i, i, patternColor)
			img.Set(i, TileSize-1-i, patternColor)
		}
	}

	return img
}

// CreateAtlas creates a sprite atlas from multiple tiles.
func CreateAtlas(tiles []*image.RGBA, columns int) *image.RGBA {
	tileCount := len(tiles)
	rows := (tileCount + columns - 1) / columns

	width := columns * TileSize
	height := rows * TileSize

	atlas := image.NewRGBA(image.Rect(0, 0, width, height))

	// Fill with transparent background
	draw.Draw(atlas, atlas.Bounds(), &image.Uniform{color.RGBA{0, 0, 0, 0}}, image.Point{}, draw.Src)

	// Copy each tile into the atlas
	for i, tile := range tiles {
		if tile == nil {
			continue
		}

		col := i % columns
		row := i / columns

		x := col * TileSize
		y := row * TileSize

		destRect := image.Rect(x, y, x+TileSize, y+TileSize)
		draw.Draw(atlas, destRect, tile, image.Point{}, draw.Src)
	}

	return atlas
}

// SavePNG saves an image to a PNG file.
func SavePNG(img image.Image, filepath string) error {
	file, err := os.Create(filepath)
	if err != nil {
		return err
	}
	defer file.Close()

	return png.Encode(file, img)
}

// Darken returns a darker version of a color.
func Darken(c color.RGBA, factor float64) color.RGBA {
	return color.RGBA{
		R: uint8(float64(c.R) * factor),
		G: uint8(float64(c.G) * factor),
		B: uint8(float64(c.B) * factor),
		A: c.A,
	}
}

// Lighten returns a lighter version of a color.
func Lighten(c color.RGBA, factor float64) color.RGBA {
	return color.RGBA{
		R: uint8(float64(c.R) + (255-float64(c.R))*factor),
		G: uint8(float64(c.G) + (255-float64(c.G))*factor),
		B: uint8(float64(c.B) + (255-float64(c.B))*factor),
		A: c.A,
	}
}
