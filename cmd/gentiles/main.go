package main

import (
	"fmt"
	"os"
	"path/filepath"

	"chosenoffset.com/gloam/internal/placeholders"
)

func main() {
	fmt.Println("Gloam Tile Atlas Generator")
	fmt.Println("==========================")
	fmt.Println()

	if err := generate(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Println()
	fmt.Println("Done! The demo picks up assets/tiles.png on next start.")
}

func generate() error {
	if err := os.MkdirAll("assets", 0755); err != nil {
		return fmt.Errorf("failed to create assets directory: %w", err)
	}

	atlas := placeholders.CreateAtlas(placeholders.BuildTiles(), placeholders.AtlasColumns)
	path := filepath.Join("assets", "tiles.png")
	if err := placeholders.SavePNG(atlas, path); err != nil {
		return fmt.Errorf("failed to save %s: %w", path, err)
	}

	fmt.Printf("Wrote %s (%d tiles)\n", path, placeholders.TileCount)
	return nil
}
