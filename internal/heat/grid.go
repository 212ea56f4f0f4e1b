// Package heat is the simulation core: two temperature grids used in
// ping-pong fashion, a static heater map, and the heater and stencil passes
// that move heat between them.
package heat

// Grid is a square array of temperatures stored row-major, index x + y*dim.
//
// Writes go straight to the grid. Reads go through a View, which is the
// only read path the passes use. Indices outside [0, dim*dim) panic.
type Grid struct {
	dim   int
	cells []float32
}

func newGrid(dim int) *Grid {
	return &Grid{dim: dim, cells: make([]float32, dim*dim)}
}

// Dim returns the edge length.
func (g *Grid) Dim() int { return g.dim }

// Len returns the number of cells, or 0 after release.
func (g *Grid) Len() int { return len(g.cells) }

// Write sets one cell.
func (g *Grid) Write(idx int, v float32) {
	g.cells[idx] = v
}

// Fill sets every cell to v.
func (g *Grid) Fill(v float32) {
	for i := range g.cells {
		g.cells[i] = v
	}
}

// Snapshot returns a copy of the cells.
func (g *Grid) Snapshot() []float32 {
	out := make([]float32, len(g.cells))
	copy(out, g.cells)
	return out
}

func (g *Grid) released() bool {
	return g.cells == nil
}
