package geometry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/spatial/r3"
)

func notchPolygon() []r2.Vec {
	return []r2.Vec{{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 10, Y: 5}, {X: 5, Y: 5}, {X: 5, Y: 10}, {X: 0, Y: 10}}
}

func TestBoxModelTopology(t *testing.T) {
	m, err := NewBoxModel(r3.Vec{X: -5, Y: -5, Z: -5}, r3.Vec{X: 5, Y: 5, Z: 5})
	require.NoError(t, err)
	assert.Len(t, m.Points(), 8)
	assert.Len(t, m.Curves(), 12)
	assert.Len(t, m.Surfaces(), 6)
	assert.Len(t, m.Volumes(), 1)

	bb := m.BoundingBox()
	assert.Equal(t, r3.Vec{X: -5, Y: -5, Z: -5}, bb.Min)
	assert.Equal(t, r3.Vec{X: 5, Y: 5, Z: 5}, bb.Max)

	for _, c := range m.Curves() {
		assert.Len(t, c.Points(), 2)
	}
	for _, s := range m.Surfaces() {
		assert.Len(t, s.Points(), 4)
		require.Len(t, s.Loops(), 1)
		assert.Len(t, s.Loops()[0], 4)
	}
	assert.Nil(t, m.Point(8))
	assert.Nil(t, m.Curve(-1))
	assert.Nil(t, m.Volume(1))
}

func TestNotchModelTopology(t *testing.T) {
	m, err := NewExtrudedModel(notchPolygon(), 0, 10)
	require.NoError(t, err)
	assert.Len(t, m.Points(), 12)
	assert.Len(t, m.Curves(), 18)
	assert.Len(t, m.Surfaces(), 8)

	// Every curve end point belongs to the surfaces using the curve
	for _, s := range m.Surfaces() {
		ids := map[int]bool{}
		for _, p := range s.Points() {
			ids[p.ID()] = true
		}
		for _, c := range s.Curves() {
			for _, p := range c.Points() {
				assert.True(t, ids[p.ID()], "surface %d curve %d", s.ID(), c.ID())
			}
		}
	}
}

func TestExtrudedModelErrors(t *testing.T) {
	_, err := NewExtrudedModel([]r2.Vec{{X: 0, Y: 0}, {X: 1, Y: 0}}, 0, 1)
	assert.Error(t, err)
	_, err = NewExtrudedModel(notchPolygon(), 1, 1)
	assert.Error(t, err)
	_, err = NewExtrudedModel([]r2.Vec{{X: 0, Y: 0}, {X: 0, Y: 0}, {X: 1, Y: 1}}, 0, 1)
	assert.Error(t, err)
}

func TestCurveProjectionAndTangent(t *testing.T) {
	m, err := NewBoxModel(r3.Vec{}, r3.Vec{X: 10, Y: 10, Z: 10})
	require.NoError(t, err)
	c := m.Curve(0) // (0,0,0) -> (10,0,0)
	assert.Equal(t, r3.Vec{X: 4}, c.Project(r3.Vec{X: 4, Y: 3, Z: -2}))
	assert.Equal(t, r3.Vec{X: 10}, c.ClosestPoint(r3.Vec{X: 14, Y: 1}))
	assert.Equal(t, r3.Vec{X: 1}, c.Tangent(0))
	assert.Equal(t, r3.Vec{X: -1}, c.Tangent(1))
}

func TestSurfaceClosestPoint(t *testing.T) {
	m, err := NewExtrudedModel(notchPolygon(), 0, 10)
	require.NoError(t, err)
	bottom := m.Surface(0)
	// Inside the outline the projection drops onto the plane
	assert.InDeltaSlice(t, []float64{2, 8, 0}, vec(bottom.ClosestPoint(r3.Vec{X: 2, Y: 8, Z: 3})), 1.e-12)
	// Inside the notch the closest point lies on the outline
	assert.InDeltaSlice(t, []float64{7, 5, 0}, vec(bottom.ClosestPoint(r3.Vec{X: 7, Y: 6, Z: 1})), 1.e-12)
	side := m.Surface(2) // y = 0
	assert.InDeltaSlice(t, []float64{3, 0, 4}, vec(side.Project(r3.Vec{X: 3, Y: -2, Z: 4})), 1.e-12)
}

func TestVolumeIsIn(t *testing.T) {
	m, err := NewExtrudedModel(notchPolygon(), 0, 10)
	require.NoError(t, err)
	vol := m.Volume(0)
	assert.True(t, vol.IsIn(r3.Vec{X: 2.5, Y: 2.5, Z: 5}))
	assert.True(t, vol.IsIn(r3.Vec{X: 2.5, Y: 7.5, Z: 5}))
	assert.False(t, vol.IsIn(r3.Vec{X: 7.5, Y: 7.5, Z: 5}))
	assert.False(t, vol.IsIn(r3.Vec{X: 2.5, Y: 2.5, Z: 11}))
	assert.Len(t, vol.Surfaces(), 8)
}

func vec(p r3.Vec) []float64 { return []float64{p.X, p.Y, p.Z} }

func TestSurfaceClosestPointNearOutline(t *testing.T) {
	m, err := NewExtrudedModel(notchPolygon(), 0, 10)
	require.NoError(t, err)
	bottom, top := m.Surface(0), m.Surface(1)
	for _, tc := range []struct {
		p, want r3.Vec
	}{
		{r3.Vec{X: 5, Y: 7, Z: 2}, r3.Vec{X: 5, Y: 7}},         // on the notch edge
		{r3.Vec{X: 4.999, Y: 7, Z: 2}, r3.Vec{X: 4.999, Y: 7}}, // just inside
		{r3.Vec{X: 5.001, Y: 7, Z: 2}, r3.Vec{X: 5, Y: 7}},     // just outside
		{r3.Vec{X: 5, Y: 5, Z: 3}, r3.Vec{X: 5, Y: 5}},         // re-entrant corner
		{r3.Vec{Z: -1}, r3.Vec{}},
	} {
		assert.InDeltaSlice(t, vec(tc.want), vec(bottom.ClosestPoint(tc.p)), 1.e-12, "%v", tc.p)
		up := r3.Add(tc.want, r3.Vec{Z: 10})
		assert.InDeltaSlice(t, vec(up), vec(top.ClosestPoint(tc.p)), 1.e-12, "%v", tc.p)
	}
}
