package heat

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultLayout_Cells(t *testing.T) {
	const dim = DefaultDim
	maxT, minT := float32(DefaultMaxTemperature), float32(DefaultMinTemperature)
	_, cells := DefaultLayout(dim, maxT, minT).Render(dim)
	at := func(x, y int) float32 { return cells[x+y*dim] }

	tests := []struct {
		name string
		x, y int
		want float32
	}{
		{"hot block interior", 450, 450, maxT},
		{"hot block first column", 301, 311, maxT},
		{"hot block last cell", 599, 600, maxT},
		{"left of hot block", 300, 450, 0},
		{"above hot block", 450, 310, 0},
		{"below hot block", 450, 601, 0},
		{"mid point", 100, 100, (minT + maxT) / 2},
		{"cold point 1", 100, 700, minT},
		{"cold point 2", 300, 300, minT},
		{"cold point 3", 700, 200, minT},
		{"cold block", 450, 850, minT},
		{"cold block excluded edge", 500, 850, 0},
		{"hot corner strip", 100, 900, maxT},
		{"hot corner strip last row", 199, dim - 1, maxT},
		{"right of corner strip", 200, 900, 0},
		{"origin", 0, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, at(tt.x, tt.y))
		})
	}
}

func TestLayout_OverrideWins(t *testing.T) {
	l := Layout{
		Base:     []Stamp{{X0: 0, Y0: 0, X1: 4, Y1: 4, Value: 0.5}},
		Override: []Stamp{{X0: 0, Y0: 2, X1: 4, Y1: 4, Value: 1}},
	}

	base, final := l.Render(4)

	assert.Equal(t, float32(0.5), base[0+3*4])
	assert.Equal(t, float32(0.5), final[0+1*4])
	assert.Equal(t, float32(1), final[0+3*4])
}

func TestLayout_ClipsToSmallGrid(t *testing.T) {
	base, final := DefaultLayout(64, 1, 0.0001).Render(64)

	for i := range final {
		require.Zero(t, base[i])
		require.Zero(t, final[i])
	}
}

type countingDevice struct {
	*HostDevice
	uploads int
	failAt  int
}

func (d *countingDevice) Upload(dst *Grid, src []float32) error {
	d.uploads++
	if d.uploads == d.failAt {
		return errors.New("dma fault")
	}
	return d.HostDevice.Upload(dst, src)
}

func TestNewHeaterMap_TwoTransfers(t *testing.T) {
	dev := &countingDevice{HostDevice: NewHostDevice(0)}

	h, err := NewHeaterMap(dev, DefaultDim, DefaultLayout(DefaultDim, 1, 0.0001))
	require.NoError(t, err)

	assert.Equal(t, 2, dev.uploads)
	// 299*290 hot block, 4 points, 100*100 cold block, 200*224 corner strip
	assert.Equal(t, 299*290+4+100*100+200*224, h.Count())
}

func TestNewHeaterMap_EmptyLayoutSingleTransfer(t *testing.T) {
	dev := &countingDevice{HostDevice: NewHostDevice(0)}

	h, err := NewHeaterMap(dev, 8, EmptyLayout())
	require.NoError(t, err)

	assert.Equal(t, 1, dev.uploads)
	assert.Zero(t, h.Count())
}

func TestNewHeaterMap_UploadFailureReleases(t *testing.T) {
	dev := &countingDevice{HostDevice: NewHostDevice(0), failAt: 2}

	_, err := NewHeaterMap(dev, 16, DefaultLayout(16, 1, 0.0001))

	require.Error(t, err)
	assert.Equal(t, 0, dev.InUse())
}

func TestNewHeaterMap_OutOfMemory(t *testing.T) {
	_, err := NewHeaterMap(NewHostDevice(10), 4, EmptyLayout())

	assert.ErrorIs(t, err, ErrOutOfMemory)
}

func TestHeaterMap_BindReadsHeaters(t *testing.T) {
	dev := NewHostDevice(0)
	l := Layout{Base: []Stamp{point(1, 2, 0.75)}}
	h, err := NewHeaterMap(dev, 4, l)
	require.NoError(t, err)

	v := NewView("heaters", 4)
	require.NoError(t, h.Bind(v))
	assert.True(t, h.BoundTo(v))

	f := v.Fetch()
	require.Equal(t, 16, f.Len())
	assert.Equal(t, float32(0.75), f.At(1+2*4))
	assert.Zero(t, f.At(0))

	other := NewView("other", 8)
	assert.ErrorIs(t, h.Bind(other), ErrSizeMismatch)
	assert.False(t, h.BoundTo(other))
}
