package heat

import "fmt"

// Dispatcher runs fn once for every cell of the grid and returns after all
// calls finished. *parallel.Dispatcher implements it.
type Dispatcher interface {
	Dim() int
	ForEachCell(fn func(x, y int)) error
}

// StabilityLimit is the largest speed for which the explicit 5-point update
// stays bounded. Nothing checks it at runtime; larger values diverge.
const StabilityLimit = 0.25

// ApplyHeaters copies every non-zero heater value into dst. Other cells of
// dst keep their value, so applying twice is the same as applying once.
func ApplyHeaters(d Dispatcher, heaters *View, dst *Grid) error {
	if !heaters.Bound() {
		return fmt.Errorf("apply heaters: %w", ErrUnbound)
	}
	if heaters.Dim() != dst.Dim() || dst.Dim() != d.Dim() {
		return fmt.Errorf("apply heaters: %w", ErrSizeMismatch)
	}

	src := heaters.Fetch()
	dim := d.Dim()
	return d.ForEachCell(func(x, y int) {
		idx := x + y*dim
		if h := src.At(idx); h != 0 {
			dst.Write(idx, h)
		}
	})
}

// UpdateStencil writes one diffusion step of the grid bound to in into out:
//
//	next = c + speed*(left + right + top + bottom - 4c)
//
// The input grid is never written.
func UpdateStencil(d Dispatcher, in *View, out *Grid, speed float32) error {
	if !in.Bound() {
		return fmt.Errorf("update stencil: %w", ErrUnbound)
	}
	if in.BoundTo(out) {
		return fmt.Errorf("update stencil: %w", ErrAliased)
	}
	if in.Dim() != out.Dim() || out.Dim() != d.Dim() {
		return fmt.Errorf("update stencil: %w", ErrSizeMismatch)
	}

	src := in.Fetch()
	dim := d.Dim()
	return d.ForEachCell(func(x, y int) {
		idx := x + y*dim
		left, right, top, bottom := neighbors(x, y, idx, dim)

		c := src.At(idx)
		grad := src.At(left) + src.At(right) + src.At(top) + src.At(bottom) - 4*c
		out.Write(idx, c+speed*grad)
	})
}

// neighbors returns the indices of the four stencil neighbors. On an edge
// the missing neighbor is adjusted back by one step, which lands on the
// cell itself.
func neighbors(x, y, idx, dim int) (left, right, top, bottom int) {
	left = idx - 1
	right = idx + 1
	if x == 0 {
		left++
	}
	if x == dim-1 {
		right--
	}

	top = idx - dim
	bottom = idx + dim
	if y == 0 {
		top += dim
	}
	if y == dim-1 {
		bottom -= dim
	}
	return left, right, top, bottom
}
