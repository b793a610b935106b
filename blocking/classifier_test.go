package blocking

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/notargets/goblock/geometry"
)

func classify(t *testing.T, b *Blocking, reset bool) (CaptureReport, ClassificationErrors) {
	t.Helper()
	c := NewClassifier(b)
	if reset {
		c.ClearClassification()
	}
	rep, err := c.Classify()
	require.NoError(t, err)
	return rep, c.DetectClassificationErrors()
}

func TestClassifyBox(t *testing.T) {
	b := NewFromBoundingBox(boxModel(t, 1))
	rep, ce := classify(t, b, true)
	assert.Equal(t, CaptureReport{
		CurvesCaptured: 12, NumCurves: 12,
		SurfacesCaptured: 6, NumSurfaces: 6,
		VolumeCaptured: true,
	}, rep)
	assert.True(t, ce.Empty(), ce.String())
	assert.Equal(t, 0., ce.Score())

	for _, n := range b.NodeIDs() {
		assert.Equal(t, Point, b.Node(n).Link.Dim)
	}
	for _, e := range b.EdgeIDs() {
		assert.Equal(t, Curve, b.Edge(e).Link.Dim)
	}
	surfaces := make(map[int]bool)
	for _, f := range b.FaceIDs() {
		l := b.Face(f).Link
		assert.Equal(t, Surface, l.Dim)
		surfaces[l.ID] = true
	}
	assert.Len(t, surfaces, 6)
	assert.Equal(t, Link{Dim: Volume, ID: 0}, b.Region(0).Link)

	// a second pass over a classified structure changes nothing
	c := b.Copy()
	_, ce = classify(t, b, false)
	assert.True(t, ce.Empty(), ce.String())
	for _, f := range b.FaceIDs() {
		assert.Equal(t, c.Face(f).Link, b.Face(f).Link)
	}
}

func TestClassifyAfterCut(t *testing.T) {
	for _, reset := range []bool{true, false} {
		b := NewFromBoundingBox(boxModel(t, 1))
		classify(t, b, true)
		require.NoError(t, b.CutSheet(8))
		require.NoError(t, b.CutSheetByPoint(edgeAcross(b, 0, 0.3), r3.Vec{X: 0.3}))

		_, ce := classify(t, b, reset)
		assert.True(t, ce.Empty(), "reset %v: %s", reset, ce)
		for _, r := range b.RegionIDs() {
			assert.Equal(t, Link{Dim: Volume, ID: 0}, b.Region(r).Link, "reset %v", reset)
		}
	}
}

func TestClassifyCurvePath(t *testing.T) {
	m := boxModel(t, 1)
	b := NewFromBoundingBox(m)
	for _, v := range []float64{0.25, 0.5, 0.75} {
		require.NoError(t, b.CutSheetByPoint(edgeAcross(b, 0, v), r3.Vec{X: v}))
	}
	rep, ce := classify(t, b, true)
	assert.Equal(t, 12, rep.CurvesCaptured)
	assert.True(t, ce.Empty(), ce.String())

	// the four edges along curve 0 carry it, each interior node too
	var edges, nodes int
	for _, e := range b.EdgeIDs() {
		if b.Edge(e).Link == (Link{Dim: Curve, ID: 0}) {
			edges++
		}
	}
	for _, n := range b.NodeIDs() {
		if b.Node(n).Link == (Link{Dim: Curve, ID: 0}) {
			nodes++
			p := b.Node(n).Location
			assert.InDelta(t, 0, p.Y, 1e-12)
			assert.InDelta(t, 0, p.Z, 1e-12)
		}
	}
	assert.Equal(t, 4, edges)
	assert.Equal(t, 3, nodes)
}

func TestClassifyNotch(t *testing.T) {
	m := notchModel(t)
	b := NewFromBoundingBox(m)
	require.NoError(t, b.CutSheetByPoint(edgeAcross(b, 0, 5), r3.Vec{X: 5}))
	require.NoError(t, b.CutSheetByPoint(edgeAcross(b, 1, 5), r3.Vec{Y: 5}))

	// the full box does not match the notched solid
	_, ce := classify(t, b, true)
	assert.False(t, ce.Empty())
	assert.Greater(t, ce.Score(), 0.)

	for _, r := range b.BlocksOutside(m.Volume(0)) {
		require.NoError(t, b.RemoveBlock(r))
	}
	rep, ce := classify(t, b, true)
	assert.True(t, ce.Empty(), ce.String())
	assert.Equal(t, 18, rep.NumCurves)
	assert.Equal(t, 8, rep.SurfacesCaptured)
	assert.True(t, rep.VolumeCaptured)

	var onCurve int
	for _, n := range b.NodeIDs() {
		if b.Node(n).Link.Dim == Curve {
			onCurve++
		}
	}
	assert.Equal(t, 4, onCurve)
}

func TestDetectErrorsUnclassified(t *testing.T) {
	b := NewFromBoundingBox(boxModel(t, 1))
	ce := NewClassifier(b).DetectClassificationErrors()
	assert.Len(t, ce.NonCapturedPoints, 8)
	assert.Len(t, ce.NonCapturedCurves, 12)
	assert.Len(t, ce.NonCapturedSurfaces, 6)
	assert.Len(t, ce.NonClassifiedNodes, 8)
	assert.Len(t, ce.NonClassifiedEdges, 12)
	assert.Len(t, ce.NonClassifiedFaces, 6)
	assert.False(t, ce.Empty())
	assert.Equal(t, 107206., ce.Score())
}

func TestDetectErrorsBrokenCurve(t *testing.T) {
	b := NewFromBoundingBox(boxModel(t, 1))
	require.NoError(t, b.CutSheet(8))
	classify(t, b, true)

	// unlink one half of a vertical curve
	for _, e := range b.EdgeIDs() {
		edge := b.Edge(e)
		if edge.Link.Dim == Curve && b.Node(edge.Nodes[0]).Location.X == 0 &&
			b.Node(edge.Nodes[1]).Location.X == 0 && edge.Link == b.Node(edge.Other(edge.Nodes[0])).Link {
			edge.Link = Link{}
			break
		}
	}
	ce := NewClassifier(b).DetectClassificationErrors()
	assert.Len(t, ce.NonCapturedCurves, 1)
	assert.Len(t, ce.NonClassifiedEdges, 1)
	assert.Len(t, ce.NonCapturedSurfaces, 6)
	assert.Empty(t, ce.NonCapturedPoints)
}

func TestDetectErrorsCurveSpur(t *testing.T) {
	b := NewFromBoundingBox(boxModel(t, 1))
	require.NoError(t, b.CutSheet(8))
	_, ce := classify(t, b, true)
	require.True(t, ce.Empty(), ce.String())

	// a third edge at a mid height node joins its vertical curve
	var spur Link
	for _, n := range b.NodeIDs() {
		node := b.Node(n)
		if node.Link.Dim != Curve {
			continue
		}
		for _, e := range node.Edges() {
			if b.Edge(e).Link.Dim == Surface {
				b.Edge(e).Link = node.Link
				spur = node.Link
				break
			}
		}
		if spur.Dim == Curve {
			break
		}
	}
	require.Equal(t, Curve, spur.Dim)

	ce = NewClassifier(b).DetectClassificationErrors()
	assert.Equal(t, []int{spur.ID}, ce.NonCapturedCurves)
	assert.Len(t, ce.NonCapturedSurfaces, 6)
	assert.Empty(t, ce.NonCapturedPoints)
	assert.Empty(t, ce.NonClassifiedEdges)
}

func TestDetectErrorsSurfaceMissingLoopCurve(t *testing.T) {
	b := NewFromBoundingBox(boxModel(t, 1))
	require.NoError(t, b.CutSheetByPoint(edgeAcross(b, 0, 0.5), r3.Vec{X: 0.5}))
	require.NoError(t, b.CutSheetByPoint(edgeAcross(b, 1, 0.5), r3.Vec{Y: 0.5}))
	_, ce := classify(t, b, true)
	require.True(t, ce.Empty(), ce.String())

	// the vertical curve at the origin borders one face of each side surface
	var along []int
	for _, e := range b.EdgeIDs() {
		edge := b.Edge(e)
		p, q := b.Node(edge.Nodes[0]).Location, b.Node(edge.Nodes[1]).Location
		if edge.Link.Dim == Curve && p.X == 0 && p.Y == 0 && q.X == 0 && q.Y == 0 {
			along = append(along, edge.Faces()...)
		}
	}
	require.Len(t, along, 2)
	from, to := b.Face(along[0]).Link, b.Face(along[1]).Link
	require.Equal(t, Surface, from.Dim)
	require.NotEqual(t, from, to)

	// the other face keeps the surface found, without the curve in its loop
	b.Face(along[0]).Link = to
	ce = NewClassifier(b).DetectClassificationErrors()
	assert.Equal(t, []int{from.ID}, ce.NonCapturedSurfaces)
	assert.Empty(t, ce.NonCapturedCurves)
	assert.Empty(t, ce.NonCapturedPoints)
	assert.Empty(t, ce.NonClassifiedFaces)
}

func TestTryAndClassifyNodes(t *testing.T) {
	b := New(boxModel(t, 10))
	var (
		onPoint   = b.CreateNode(r3.Vec{X: -0.003, Y: -0.003, Z: -0.003})
		onCurve   = b.CreateNode(r3.Vec{X: 5, Y: -0.003, Z: -0.004})
		onSurface = b.CreateNode(r3.Vec{X: 5, Y: 5, Z: 0.002})
		inside    = b.CreateNode(r3.Vec{X: 5, Y: 5, Z: 5})
		fixed     = b.CreateNode(r3.Vec{X: 1, Y: 1, Z: 1})
	)
	b.Node(fixed).Link = Link{Dim: Point, ID: 6}
	c := NewClassifier(b)
	n := c.TryAndClassifyNodes([]int{onPoint, onCurve, onSurface, inside, fixed}, c.Tolerance)
	assert.Equal(t, 1, n)

	assert.Equal(t, Link{Dim: Point, ID: 0}, b.Node(onPoint).Link)
	assert.Equal(t, r3.Vec{}, b.Node(onPoint).Location)
	assert.Equal(t, Link{Dim: Curve, ID: 0}, b.Node(onCurve).Link)
	assert.InDelta(t, 0, r3.Norm(r3.Sub(r3.Vec{X: 5}, b.Node(onCurve).Location)), 1e-12)
	assert.Equal(t, Link{Dim: Surface, ID: 0}, b.Node(onSurface).Link)
	assert.InDelta(t, 0, b.Node(onSurface).Location.Z, 1e-12)
	assert.True(t, b.Node(inside).Link.IsNone())
	assert.Equal(t, r3.Vec{X: 5, Y: 5, Z: 5}, b.Node(inside).Location)
	assert.Equal(t, r3.Vec{X: 1, Y: 1, Z: 1}, b.Node(fixed).Location)

	// a wider tolerance reaches the interior node
	assert.Equal(t, 0, c.TryAndClassifyNodes([]int{inside}, 6))
	assert.Equal(t, Surface, b.Node(inside).Link.Dim)
}

// oneEndedModel reports curve 0 as a loop with a single end point
type oneEndedModel struct {
	*geometry.ExtrudedModel
}

type loopCurve struct {
	geometry.Curve
}

func (l loopCurve) Points() []geometry.Point { return l.Curve.Points()[:1] }

func (m oneEndedModel) Curves() []geometry.Curve {
	curves := m.ExtrudedModel.Curves()
	curves[0] = loopCurve{curves[0]}
	return curves
}

func TestClassifyUnsupportedCurve(t *testing.T) {
	b := NewFromBoundingBox(oneEndedModel{boxModel(t, 1)})
	c := NewClassifier(b)
	_, err := c.Classify()
	assert.True(t, errors.Is(err, ErrUnsupportedCurve))

	ce := c.DetectClassificationErrors()
	assert.Contains(t, ce.NonCapturedCurves, 0)
}

func TestClassifyWithoutModel(t *testing.T) {
	_, err := NewClassifier(New(nil)).Classify()
	assert.True(t, errors.Is(err, ErrInvalidParameter))
}

func TestCaptureCurvesKeepsOtherCurve(t *testing.T) {
	b := NewFromBoundingBox(boxModel(t, 1))
	c := NewClassifier(b)
	nodes, edges, _ := b.ExtractBoundary()
	assert.Equal(t, 0, c.TryAndClassifyNodes(nodes, c.Tolerance))

	// edge 0 runs along bottom curve 3, claim it for top curve 5
	b.Edge(0).Link = Link{Dim: Curve, ID: 5}
	captured, err := c.captureCurves(nodes, edges)
	require.NoError(t, err)
	assert.False(t, captured[3])
	assert.True(t, captured[0])
	assert.True(t, captured[5])
	assert.Len(t, captured, 11)
	assert.Equal(t, Link{Dim: Curve, ID: 5}, b.Edge(0).Link)
}
