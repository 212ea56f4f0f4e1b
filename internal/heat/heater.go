package heat

import (
	"fmt"
	"log/slog"
)

// Stamp forces a half-open rectangle [X0,X1) x [Y0,Y1) to Value.
// Parts that fall outside the grid are skipped.
type Stamp struct {
	X0, Y0 int
	X1, Y1 int
	Value  float32
}

func point(x, y int, v float32) Stamp {
	return Stamp{X0: x, Y0: y, X1: x + 1, Y1: y + 1, Value: v}
}

func (s Stamp) apply(dim int, cells []float32) {
	x0, y0 := max(s.X0, 0), max(s.Y0, 0)
	x1, y1 := min(s.X1, dim), min(s.Y1, dim)
	for y := y0; y < y1; y++ {
		for x := x0; x < x1; x++ {
			cells[x+y*dim] = s.Value
		}
	}
}

// Layout describes where the heaters go. Base is uploaded first, Override
// is stamped on top of it and uploaded as a second transfer. Later stamps
// win where they overlap.
type Layout struct {
	Base     []Stamp
	Override []Stamp
}

// EmptyLayout has no heaters at all.
func EmptyLayout() Layout { return Layout{} }

// DefaultLayout is the stock heater arrangement for a 1024 grid: a hot
// block in the middle, three cold points and a half-way point, a cold
// block near the bottom, and a hot strip in the bottom-left corner.
func DefaultLayout(dim int, maxT, minT float32) Layout {
	return Layout{
		Base: []Stamp{
			{X0: 301, Y0: 311, X1: 600, Y1: 601, Value: maxT},
			point(100, 100, (minT+maxT)/2),
			point(100, 700, minT),
			point(300, 300, minT),
			point(700, 200, minT),
			{X0: 400, Y0: 800, X1: 500, Y1: 900, Value: minT},
		},
		Override: []Stamp{
			{X0: 0, Y0: 800, X1: 200, Y1: dim, Value: maxT},
		},
	}
}

// Render returns the host-side cells after the base stamps and after the
// override stamps.
func (l Layout) Render(dim int) (base, final []float32) {
	base = make([]float32, dim*dim)
	for _, s := range l.Base {
		s.apply(dim, base)
	}
	final = make([]float32, len(base))
	copy(final, base)
	for _, s := range l.Override {
		s.apply(dim, final)
	}
	return base, final
}

// HeaterMap holds the forced temperature of every cell. Zero means the cell
// is not a heater, so a heater can never be set to exactly 0.
// The map is not changed after NewHeaterMap returns.
type HeaterMap struct {
	grid *Grid
}

// NewHeaterMap reserves the heater buffer on dev and fills it from layout.
func NewHeaterMap(dev Device, dim int, layout Layout) (*HeaterMap, error) {
	g, err := dev.Alloc(dim)
	if err != nil {
		return nil, fmt.Errorf("heater map: %w", err)
	}

	base, final := layout.Render(dim)
	if err := dev.Upload(g, base); err != nil {
		dev.Release(g)
		return nil, fmt.Errorf("heater map base upload: %w", err)
	}
	if len(layout.Override) > 0 {
		if err := dev.Upload(g, final); err != nil {
			dev.Release(g)
			return nil, fmt.Errorf("heater map override upload: %w", err)
		}
	}

	h := &HeaterMap{grid: g}
	Logger().Info("heater map built", slog.Int("dim", dim), slog.Int("heaters", h.Count()))
	return h, nil
}

// Bind points v at the heater buffer. Views are the only way to read the
// map; nothing outside this package can write it.
func (h *HeaterMap) Bind(v *View) error {
	return v.Bind(h.grid)
}

// BoundTo reports whether v currently reads the heater buffer.
func (h *HeaterMap) BoundTo(v *View) bool {
	return v.BoundTo(h.grid)
}

// Count returns the number of heater cells.
func (h *HeaterMap) Count() int {
	n := 0
	for _, v := range h.grid.cells {
		if v != 0 {
			n++
		}
	}
	return n
}
