package heat

import (
	"fmt"
	"log/slog"
)

// View is a read-only path over one grid at a time.
//
// A view is bound explicitly and may be rebound to another grid of the same
// size. Every rebind bumps the generation, and Fetch handles taken before
// the rebind stop working: reading through one panics.
type View struct {
	name string
	dim  int
	grid *Grid
	gen  uint64
}

// NewView creates an unbound view for dim x dim grids.
func NewView(name string, dim int) *View {
	return &View{name: name, dim: dim}
}

// Bind points the view at g. Binding the grid that is already bound keeps
// the current generation.
func (v *View) Bind(g *Grid) error {
	if g == nil || g.released() {
		return fmt.Errorf("bind %s view: %w", v.name, ErrReleased)
	}
	if g.dim != v.dim {
		return fmt.Errorf("bind %s view (%d) to grid (%d): %w", v.name, v.dim, g.dim, ErrSizeMismatch)
	}
	if v.grid == g {
		return nil
	}
	v.grid = g
	v.gen++
	Logger().Debug("view bound", slog.String("view", v.name), slog.Uint64("generation", v.gen))
	return nil
}

// Unbind detaches the view. Outstanding Fetch handles are invalidated.
func (v *View) Unbind() {
	if v.grid == nil {
		return
	}
	v.grid = nil
	v.gen++
}

// Bound reports whether the view currently points at a grid.
func (v *View) Bound() bool { return v.grid != nil }

// BoundTo reports whether the view currently points at g.
func (v *View) BoundTo(g *Grid) bool { return v.grid != nil && v.grid == g }

// Dim returns the edge length the view accepts.
func (v *View) Dim() int { return v.dim }

// Generation counts binds and unbinds.
func (v *View) Generation() uint64 { return v.gen }

// At reads one cell of the bound grid. It panics if the view is unbound.
func (v *View) At(idx int) float32 {
	if v.grid == nil {
		panic("heat: read through unbound " + v.name + " view")
	}
	return v.grid.cells[idx]
}

// Fetch returns a read handle tied to the current binding. It panics if
// the view is unbound; passes check Bound first.
func (v *View) Fetch() Fetch {
	if v.grid == nil {
		panic("heat: fetch from unbound " + v.name + " view")
	}
	return Fetch{view: v, gen: v.gen, cells: v.grid.cells}
}

// Fetch reads cells through a view as it was bound when the handle was
// taken. It is what the per-cell workers hold during a pass.
type Fetch struct {
	view  *View
	gen   uint64
	cells []float32
}

// At reads one cell. It panics if the view was rebound since the handle
// was taken.
func (f Fetch) At(idx int) float32 {
	if f.view.gen != f.gen {
		panic("heat: read through stale " + f.view.name + " view")
	}
	return f.cells[idx]
}

// Len returns the number of cells visible through the handle.
func (f Fetch) Len() int { return len(f.cells) }
