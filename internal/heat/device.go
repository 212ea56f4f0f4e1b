package heat

import (
	"fmt"
	"log/slog"
	"sync"
)

// Device reserves and releases grid buffers and copies host data into them.
type Device interface {
	Alloc(dim int) (*Grid, error)
	Upload(dst *Grid, src []float32) error
	Release(g *Grid)
}

// HostDevice keeps buffers in ordinary memory. A non-zero budget caps the
// number of cells that may be reserved at once.
type HostDevice struct {
	mu     sync.Mutex
	budget int
	inUse  int
}

// NewHostDevice creates a device limited to budget cells. Zero means no limit.
func NewHostDevice(budget int) *HostDevice {
	return &HostDevice{budget: budget}
}

// Alloc reserves a zeroed dim x dim grid.
func (d *HostDevice) Alloc(dim int) (*Grid, error) {
	if dim <= 0 {
		return nil, fmt.Errorf("alloc %dx%d: %w", dim, dim, ErrSizeMismatch)
	}
	n := dim * dim

	d.mu.Lock()
	defer d.mu.Unlock()
	if d.budget > 0 && d.inUse+n > d.budget {
		return nil, fmt.Errorf("alloc %d cells (%d of %d in use): %w", n, d.inUse, d.budget, ErrOutOfMemory)
	}
	d.inUse += n

	Logger().Debug("grid allocated", slog.Int("dim", dim), slog.Int("in_use", d.inUse))
	return newGrid(dim), nil
}

// Upload copies src into dst. Lengths must match exactly.
func (d *HostDevice) Upload(dst *Grid, src []float32) error {
	if dst.released() {
		return ErrReleased
	}
	if len(src) != len(dst.cells) {
		return fmt.Errorf("upload %d cells into %d: %w", len(src), len(dst.cells), ErrSizeMismatch)
	}
	copy(dst.cells, src)
	return nil
}

// Release frees the grid. Releasing twice is a no-op.
func (d *HostDevice) Release(g *Grid) {
	if g == nil || g.released() {
		return
	}

	d.mu.Lock()
	d.inUse -= len(g.cells)
	d.mu.Unlock()

	g.cells = nil
}

// InUse returns the number of reserved cells.
func (d *HostDevice) InUse() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.inUse
}
