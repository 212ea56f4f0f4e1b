// Package parallel spreads per-cell work over goroutines.
//
// The grid is cut into square tiles (16x16 by default) and every tile is
// handed to exactly one worker. A pass returns only after every tile is done,
// so consecutive passes never overlap.
package parallel

// DefaultTileSize is the edge length of a tile in cells.
const DefaultTileSize = 16

// Tile is a rectangular block of cells. Edge tiles are clipped to the grid,
// so Width and Height may be smaller than the tile size.
type Tile struct {
	// X0 and Y0 are the cell coordinates of the top-left corner.
	X0, Y0 int

	Width  int
	Height int
}

// Tiles covers a dim x dim grid with tiles of the given size, row-major.
// A non-positive size falls back to DefaultTileSize.
func Tiles(dim, size int) []Tile {
	if dim <= 0 {
		return nil
	}
	if size <= 0 {
		size = DefaultTileSize
	}

	n := (dim + size - 1) / size
	tiles := make([]Tile, 0, n*n)
	for ty := 0; ty < n; ty++ {
		for tx := 0; tx < n; tx++ {
			t := Tile{X0: tx * size, Y0: ty * size, Width: size, Height: size}
			// Right and bottom edges
			if t.X0+t.Width > dim {
				t.Width = dim - t.X0
			}
			if t.Y0+t.Height > dim {
				t.Height = dim - t.Y0
			}
			tiles = append(tiles, t)
		}
	}
	return tiles
}

// Cells returns the number of cells in the tile.
func (t Tile) Cells() int {
	return t.Width * t.Height
}
