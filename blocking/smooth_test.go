package blocking

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/notargets/goblock/mesh"
)

// classifiedGrid returns the box of side 10 split in 2x2x2 blocks, classified
func classifiedGrid(t *testing.T) *Blocking {
	t.Helper()
	b := NewFromBoundingBox(boxModel(t, 10))
	for axis := 0; axis < 3; axis++ {
		require.NoError(t, b.CutSheet(edgeAcross(b, axis, 5)))
	}
	_, err := NewClassifier(b).Classify()
	require.NoError(t, err)
	return b
}

func centerNode(t *testing.T, b *Blocking) int {
	t.Helper()
	for _, n := range b.NodeIDs() {
		if r3.Norm(r3.Sub(b.Node(n).Location, r3.Vec{X: 5, Y: 5, Z: 5})) < 1e-9 {
			return n
		}
	}
	t.Fatal("no node at the centre")
	return -1
}

func TestSmoothRelaxesInteriorNode(t *testing.T) {
	b := classifiedGrid(t)
	c := centerNode(t, b)
	assert.Equal(t, Link{Dim: Volume, ID: 0}, b.Node(c).Link)
	require.NoError(t, b.MoveNode(c, r3.Vec{X: 6, Y: 5, Z: 5}))

	before := make(map[int]r3.Vec)
	for _, n := range b.NodeIDs() {
		before[n] = b.Node(n).Location
	}
	require.NoError(t, b.Smooth(1))
	assert.InDelta(t, 5.5, b.Node(c).Location.X, 1e-12)
	for _, n := range b.NodeIDs() {
		if n != c {
			assert.InDelta(t, 0, r3.Norm(r3.Sub(before[n], b.Node(n).Location)), 1e-9, "node %d", n)
		}
	}

	require.NoError(t, b.Smooth(40))
	assert.InDelta(t, 5, b.Node(c).Location.X, 1e-9)
}

func TestSmoothKeepsNodesOnTheirEntity(t *testing.T) {
	b := classifiedGrid(t)
	for _, n := range b.NodeIDs() {
		if b.Node(n).Link.Dim == Surface {
			// drag surface nodes off their face
			b.Node(n).Location = r3.Add(b.Node(n).Location, r3.Vec{X: .3, Y: .3, Z: .3})
		}
	}
	require.NoError(t, b.Smooth(3))
	for _, n := range b.NodeIDs() {
		p := b.Node(n).Location
		if b.Node(n).Link.Dim != Surface {
			continue
		}
		onBoundary := false
		for _, v := range []float64{p.X, p.Y, p.Z} {
			if v < 1e-9 || v > 10-1e-9 {
				onBoundary = true
			}
		}
		assert.True(t, onBoundary, "node %d at %v", n, p)
	}
}

func TestSmoothNoop(t *testing.T) {
	assert.NoError(t, New(nil).Smooth(5))
	b := NewFromBoundingBox(boxModel(t, 1))
	require.NoError(t, b.Smooth(0))
	assert.Equal(t, r3.Vec{X: 1, Y: 1, Z: 1}, b.Node(6).Location)
}

func TestWriteVTKRoundTrip(t *testing.T) {
	b := NewFromBoundingBox(boxModel(t, 1))
	require.NoError(t, b.CutSheet(8))

	var buf bytes.Buffer
	require.NoError(t, b.WriteVTK(&buf, VTKBlocks))
	assert.Contains(t, buf.String(), "SCALARS GEOM_DIM int 1")
	msh, err := mesh.ParseVTK(&buf)
	require.NoError(t, err)
	assert.Equal(t, 2, msh.NumElements)
	assert.Equal(t, 12, msh.NumVertices)
	assert.Equal(t, 1, msh.NumFaces-msh.NumBoundaryFaces())

	c, err := NewFromMesh(nil, msh)
	require.NoError(t, err)
	assertCounts(t, c, 12, 20, 11, 2)
	for _, r := range c.RegionIDs() {
		assert.InDelta(t, 0.5, c.RegionVolume(r), 1e-12)
	}

	buf.Reset()
	require.NoError(t, b.WriteVTK(&buf, VTKFaces))
	msh, err = mesh.ParseVTK(&buf)
	require.NoError(t, err)
	assert.Equal(t, 11, msh.NumElements)
	assert.Equal(t, mesh.Quad, msh.ElementTypes[0])

	buf.Reset()
	require.NoError(t, b.WriteVTK(&buf, VTKEdges))
	msh, err = mesh.ParseVTK(&buf)
	require.NoError(t, err)
	assert.Equal(t, 20, msh.NumElements)

	assert.Error(t, b.WriteVTK(&buf, VTKKind(7)))
}

func TestWriteVTKFiles(t *testing.T) {
	b := classifiedGrid(t)
	prefix := filepath.Join(t.TempDir(), "grid")
	files, err := b.WriteVTKFiles(prefix)
	require.NoError(t, err)
	require.Len(t, files, 3)
	for _, f := range files {
		data, err := os.ReadFile(f)
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(string(data), "# vtk DataFile Version 2.0"))
	}
	assert.Equal(t, prefix+"_block.vtk", files[0])
}
