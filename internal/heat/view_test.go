package heat

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHostDevice_Budget(t *testing.T) {
	dev := NewHostDevice(2 * 16)

	a, err := dev.Alloc(4)
	require.NoError(t, err)
	_, err = dev.Alloc(4)
	require.NoError(t, err)

	_, err = dev.Alloc(4)
	require.ErrorIs(t, err, ErrOutOfMemory)
	assert.True(t, IsResourceError(err))

	dev.Release(a)
	assert.Equal(t, 16, dev.InUse())
	_, err = dev.Alloc(4)
	assert.NoError(t, err)
}

func TestHostDevice_ReleaseTwice(t *testing.T) {
	dev := NewHostDevice(0)
	g, err := dev.Alloc(8)
	require.NoError(t, err)

	dev.Release(g)
	dev.Release(g)

	assert.Equal(t, 0, dev.InUse())
	assert.Equal(t, 0, g.Len())
}

func TestHostDevice_Upload(t *testing.T) {
	dev := NewHostDevice(0)
	g, err := dev.Alloc(2)
	require.NoError(t, err)

	require.NoError(t, dev.Upload(g, []float32{1, 2, 3, 4}))
	assert.Equal(t, []float32{1, 2, 3, 4}, g.Snapshot())

	err = dev.Upload(g, []float32{1, 2, 3})
	assert.ErrorIs(t, err, ErrSizeMismatch)

	dev.Release(g)
	assert.ErrorIs(t, dev.Upload(g, []float32{1, 2, 3, 4}), ErrReleased)
}

func TestHostDevice_BadDim(t *testing.T) {
	_, err := NewHostDevice(0).Alloc(0)
	assert.ErrorIs(t, err, ErrSizeMismatch)
}

func TestView_BindAndRead(t *testing.T) {
	g := newGrid(2)
	g.Write(3, 0.5)

	v := NewView("input", 2)
	assert.False(t, v.Bound())
	require.NoError(t, v.Bind(g))

	assert.True(t, v.BoundTo(g))
	assert.Equal(t, float32(0.5), v.At(3))
	assert.Equal(t, float32(0.5), v.Fetch().At(3))
	assert.Equal(t, 4, v.Fetch().Len())
}

func TestView_SizeMismatch(t *testing.T) {
	v := NewView("input", 4)

	err := v.Bind(newGrid(8))

	require.ErrorIs(t, err, ErrSizeMismatch)
	assert.False(t, v.Bound())
}

func TestView_BindReleasedGrid(t *testing.T) {
	dev := NewHostDevice(0)
	g, err := dev.Alloc(4)
	require.NoError(t, err)
	dev.Release(g)

	assert.ErrorIs(t, NewView("input", 4).Bind(g), ErrReleased)
	assert.ErrorIs(t, NewView("input", 4).Bind(nil), ErrReleased)
}

func TestView_UnboundReadPanics(t *testing.T) {
	v := NewView("heaters", 2)

	assert.Panics(t, func() { v.At(0) })
	assert.Panics(t, func() { v.Fetch() })
}

func TestView_RebindInvalidatesFetch(t *testing.T) {
	a, b := newGrid(2), newGrid(2)
	v := NewView("input", 2)
	require.NoError(t, v.Bind(a))

	f := v.Fetch()
	require.NoError(t, v.Bind(b))

	assert.Panics(t, func() { f.At(0) })
	assert.NotPanics(t, func() { v.Fetch().At(0) })
}

func TestView_UnbindInvalidatesFetch(t *testing.T) {
	v := NewView("input", 2)
	require.NoError(t, v.Bind(newGrid(2)))
	f := v.Fetch()

	v.Unbind()

	assert.False(t, v.Bound())
	assert.Panics(t, func() { f.At(0) })
}

func TestView_BindSameGridKeepsGeneration(t *testing.T) {
	g := newGrid(2)
	v := NewView("input", 2)
	require.NoError(t, v.Bind(g))
	gen := v.Generation()

	require.NoError(t, v.Bind(g))

	assert.Equal(t, gen, v.Generation())
}
