package rtree

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rect(xmin, xmax, ymin, ymax float64) MBR[float64] {
	return NewMBR(Bounds[float64]{Min: xmin, Max: xmax}, Bounds[float64]{Min: ymin, Max: ymax})
}

func TestMBRVolume(t *testing.T) {
	m := rect(0, 10, 0, 5)
	assert.Equal(t, 50.0, m.Volume())
}

func TestUndefinedMBR(t *testing.T) {
	u := UndefinedMBR[float64]()
	assert.True(t, u.IsUndefined())
	assert.Equal(t, 0, u.Dimension())
	assert.Equal(t, 0.0, u.Volume())
}

func TestMBRBoundsPanicsOnUndefined(t *testing.T) {
	u := UndefinedMBR[float64]()
	assert.Panics(t, func() { u.Bounds(0) })
}

func TestMBRBoundsPanicsOutOfRange(t *testing.T) {
	m := rect(0, 1, 0, 1)
	assert.Panics(t, func() { m.Bounds(5) })
}

func Test1DIntersects(t *testing.T) {
	a := NewMBR(Bounds[int]{Min: 0, Max: 10})
	b := NewMBR(Bounds[int]{Min: 5, Max: 15})
	c := NewMBR(Bounds[int]{Min: 11, Max: 20})
	assert.True(t, Intersects(a, b))
	assert.False(t, Intersects(a, c))
}

func TestTouchingEdgesIntersect(t *testing.T) {
	a := NewMBR(Bounds[int]{Min: 0, Max: 10})
	b := NewMBR(Bounds[int]{Min: 10, Max: 20})
	assert.True(t, Intersects(a, b))
}

func TestMultidimensionalIntersects(t *testing.T) {
	a := rect(0, 10, 0, 10)
	b := rect(5, 15, -5, 5)
	c := rect(20, 30, 20, 30)
	assert.True(t, Intersects(a, b))
	assert.False(t, Intersects(a, c))
}

func TestUndefinedIntersectsEverything(t *testing.T) {
	u := UndefinedMBR[float64]()
	m := rect(100, 200, 100, 200)
	assert.True(t, Intersects(u, m))
	assert.True(t, Intersects(m, u))
	assert.True(t, Intersects(u, u))
}

func TestMismatchedDimensionIntersectsPanics(t *testing.T) {
	a := rect(0, 1, 0, 1)
	b := NewMBR(Bounds[float64]{Min: 0, Max: 1})
	assert.Panics(t, func() { Intersects(a, b) })
}

func TestCommonMBR(t *testing.T) {
	a := rect(0, 10, 0, 10)
	b := rect(5, 20, -5, 5)
	c := CommonMBR(a, b)
	require.Equal(t, 2, c.Dimension())
	assert.Equal(t, Bounds[float64]{Min: 0, Max: 20}, c.Bounds(0))
	assert.Equal(t, Bounds[float64]{Min: -5, Max: 10}, c.Bounds(1))
}

func TestCommonMBRWithUndefinedIsIdentity(t *testing.T) {
	u := UndefinedMBR[float64]()
	m := rect(0, 10, 0, 10)
	assert.Equal(t, m, CommonMBR(u, m))
	assert.Equal(t, m, CommonMBR(m, u))
	assert.True(t, CommonMBR(u, u).IsUndefined())
}

func TestCommonMBRFromIter(t *testing.T) {
	mbrs := []MBR[float64]{rect(0, 1, 0, 1), rect(5, 6, 5, 6), rect(-2, -1, -2, -1)}
	c := commonMBRAll(mbrs)
	assert.Equal(t, Bounds[float64]{Min: -2, Max: 6}, c.Bounds(0))
}

func TestDelta(t *testing.T) {
	src := rect(0, 10, 0, 10)
	add := rect(10, 20, 0, 10)
	assert.Equal(t, 100.0, Delta(src, add))

	noGrowth := rect(1, 2, 1, 2)
	assert.Equal(t, 0.0, Delta(src, noGrowth))
}
