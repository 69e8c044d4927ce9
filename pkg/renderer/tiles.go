package renderer

import (
	"image"
	"math/rand"
)

// Tile is a rectangular unit of work. Each tile owns its random generator so
// the result does not depend on which worker renders it.
type Tile struct {
	ID     int             // Unique tile identifier, row-major from the top left
	Bounds image.Rectangle // Pixel bounds in raster coordinates (y = 0 is the top row)
	Random *rand.Rand      // Tile-specific random generator
}

// NewTile creates a new tile with a generator derived from the render seed
func NewTile(id int, bounds image.Rectangle, seed int64) *Tile {
	return &Tile{
		ID:     id,
		Bounds: bounds,
		Random: rand.New(rand.NewSource(tileSeed(seed, id))),
	}
}

// tileSeed mixes the render seed with the tile ID. The +42 offset keeps tile 0
// of seed 0 away from the zero seed.
func tileSeed(seed int64, id int) int64 {
	return seed*1_000_003 + int64(id) + 42
}

// NewTileGrid creates a grid of tiles covering the entire image
func NewTileGrid(width, height, tileSize int, seed int64) []*Tile {
	var tiles []*Tile
	tileID := 0

	tilesX := (width + tileSize - 1) / tileSize // Ceiling division
	tilesY := (height + tileSize - 1) / tileSize

	for tileY := 0; tileY < tilesY; tileY++ {
		for tileX := 0; tileX < tilesX; tileX++ {
			x0 := tileX * tileSize
			y0 := tileY * tileSize
			x1 := min(x0+tileSize, width) // Don't exceed image bounds
			y1 := min(y0+tileSize, height)

			tiles = append(tiles, NewTile(tileID, image.Rect(x0, y0, x1, y1), seed))
			tileID++
		}
	}

	return tiles
}
