// Package palette turns temperatures into RGBA pixels.
package palette

import (
	"github.com/crazy3lf/colorconv"
)

// DefaultSize is the number of precomputed colors.
const DefaultSize = 1000

// Field is a read-only run of temperatures.
type Field interface {
	Len() int
	At(i int) float32
}

type rgb struct {
	r, g, b uint8
}

// Palette maps [lo, hi] onto a hue sweep from blue (cold) to red (hot).
// HSV conversion is slow, so the colors are precomputed once.
type Palette struct {
	table  []rgb
	lo, hi float32
}

// New builds a palette of size colors for temperatures in [lo, hi].
func New(size int, lo, hi float32) *Palette {
	if size < 2 {
		size = DefaultSize
	}
	p := &Palette{table: make([]rgb, size), lo: lo, hi: hi}
	for i := range p.table {
		t := float64(i) / float64(size-1)
		hue := (1 - t) * 240
		r, g, b, _ := colorconv.HSVToRGB(hue, 1, 1)
		p.table[i] = rgb{r, g, b}
	}
	return p
}

// Color returns the color for one temperature. Values outside [lo, hi]
// are clamped.
func (p *Palette) Color(v float32) (r, g, b uint8) {
	t := (v - p.lo) / (p.hi - p.lo)
	// NaN fails both comparisons and lands on the cold end
	if !(t > 0) {
		t = 0
	}
	if t > 1 {
		t = 1
	}
	c := p.table[int(t*float32(len(p.table)-1))]
	return c.r, c.g, c.b
}

// Fill writes one opaque RGBA pixel per cell into dst, which must hold at
// least 4*f.Len() bytes.
func (p *Palette) Fill(dst []byte, f Field) {
	n := f.Len()
	for i := 0; i < n; i++ {
		r, g, b := p.Color(f.At(i))
		dst[i*4] = r
		dst[i*4+1] = g
		dst[i*4+2] = b
		dst[i*4+3] = 255
	}
}
