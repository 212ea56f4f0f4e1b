package parallel

import (
	"context"
	"errors"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// ErrWorkerPanic is returned when a cell function panics during a pass.
var ErrWorkerPanic = errors.New("parallel: worker panicked")

// Dispatcher runs a function once for every cell of a square grid.
//
// Workers take tiles in a strided pattern (worker i gets tiles i, i+n, ...)
// and never talk to each other. ForEachCell is a full barrier: it returns
// once every worker has finished.
//
// A Dispatcher is safe for concurrent use but passes are meant to be issued
// one after another.
type Dispatcher struct {
	dim     int
	workers int
	tiles   []Tile
}

// NewDispatcher creates a dispatcher for a dim x dim grid.
// If workers is 0 or negative, GOMAXPROCS is used.
func NewDispatcher(dim, tileSize, workers int) *Dispatcher {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	tiles := Tiles(dim, tileSize)
	// More workers than tiles would just idle
	if workers > len(tiles) && len(tiles) > 0 {
		workers = len(tiles)
	}
	return &Dispatcher{dim: dim, workers: workers, tiles: tiles}
}

// Dim returns the grid edge length.
func (d *Dispatcher) Dim() int { return d.dim }

// Workers returns the number of goroutines used per pass.
func (d *Dispatcher) Workers() int { return d.workers }

// Tiles returns the tile layout. The slice must not be modified.
func (d *Dispatcher) Tiles() []Tile { return d.tiles }

// ForEachCell calls fn(x, y) for every cell exactly once.
//
// If any call panics the remaining workers stop at their next tile and the
// pass reports ErrWorkerPanic. The grid is then in an unspecified state.
func (d *Dispatcher) ForEachCell(fn func(x, y int)) error {
	if len(d.tiles) == 0 {
		return nil
	}

	g, ctx := errgroup.WithContext(context.Background())
	for w := 0; w < d.workers; w++ {
		w := w
		g.Go(func() error {
			return d.runWorker(ctx, w, fn)
		})
	}
	return g.Wait()
}

func (d *Dispatcher) runWorker(ctx context.Context, offset int, fn func(x, y int)) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", ErrWorkerPanic, r)
		}
	}()

	for i := offset; i < len(d.tiles); i += d.workers {
		if ctx.Err() != nil {
			return nil
		}
		t := d.tiles[i]
		for y := t.Y0; y < t.Y0+t.Height; y++ {
			for x := t.X0; x < t.X0+t.Width; x++ {
				fn(x, y)
			}
		}
	}
	return nil
}
