package blocking

import (
	"sort"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/traverse"
	"gonum.org/v1/gonum/spatial/r3"
)

// EqualityTolerance is the squared distance under which two nodes match in Equal
const EqualityTolerance = 1.e-3

func sortedKeys(set map[int]bool) (ids []int) {
	ids = make([]int, 0, len(set))
	for id := range set {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return
}

// ExtractBoundary returns the faces bounding a single block, and the edges and
// nodes of those faces
func (b *Blocking) ExtractBoundary() (nodes, edges, faces []int) {
	nodeSet, edgeSet := make(map[int]bool), make(map[int]bool)
	for id, f := range b.faces {
		if f == nil || len(f.regions) != 1 {
			continue
		}
		faces = append(faces, id)
		for i := range f.Nodes {
			nodeSet[f.Nodes[i]] = true
			edgeSet[f.Edges[i]] = true
		}
	}
	return sortedKeys(nodeSet), sortedKeys(edgeSet), faces
}

// MoveNode relocates node n toward target, respecting its classification: a
// node on a point snaps to the point, a node on a curve or surface is
// projected on it, any other node moves to target
func (b *Blocking) MoveNode(n int, target r3.Vec) error {
	node := b.Node(n)
	if node == nil {
		return errors.Wrapf(ErrUnknownCell, "node %d", n)
	}
	loc, err := b.projectOnLink(node.Link, target)
	if err != nil {
		return errors.Wrapf(err, "moving node %d", n)
	}
	node.Location = loc
	return nil
}

func (b *Blocking) projectOnLink(l Link, p r3.Vec) (r3.Vec, error) {
	if l.IsNone() || l.Dim == Volume {
		return p, nil
	}
	if b.model == nil {
		return p, errors.Errorf("no geometric model for %v", l)
	}
	switch l.Dim {
	case Point:
		if pt := b.model.Point(l.ID); pt != nil {
			return pt.Location(), nil
		}
	case Curve:
		if c := b.model.Curve(l.ID); c != nil {
			return c.Project(p), nil
		}
	case Surface:
		if s := b.model.Surface(l.ID); s != nil {
			return s.Project(p), nil
		}
	default:
		return p, errors.Wrapf(ErrUnknownDimension, "%d", int(l.Dim))
	}
	return p, errors.Errorf("model has no entity %v", l)
}

// regionGraph connects blocks sharing a face
func (b *Blocking) regionGraph() *simple.UndirectedGraph {
	g := simple.NewUndirectedGraph()
	for id, r := range b.regions {
		if r != nil {
			g.AddNode(simple.Node(id))
		}
	}
	for _, f := range b.faces {
		if f != nil && len(f.regions) == 2 {
			g.SetEdge(g.NewEdge(simple.Node(f.regions[0]), simple.Node(f.regions[1])))
		}
	}
	return g
}

// IsValidConnected reports whether every block can be reached from any other
// through shared faces. An empty structure is connected.
func (b *Blocking) IsValidConnected() bool {
	ids := b.RegionIDs()
	if len(ids) == 0 {
		return true
	}
	var (
		g       = b.regionGraph()
		visited int
		bf      = traverse.BreadthFirst{Visit: func(graph.Node) { visited++ }}
	)
	bf.Walk(g, simple.Node(ids[0]), nil)
	return visited == len(ids)
}

// Equal is an approximate comparison used to discard duplicate states: the
// cell counts must agree and every node must have a node of other within
// EqualityTolerance squared distance. Topology is not compared.
func (b *Blocking) Equal(other *Blocking) bool {
	if b.NumNodes() != other.NumNodes() || b.NumEdges() != other.NumEdges() ||
		b.NumFaces() != other.NumFaces() || b.NumRegions() != other.NumRegions() {
		return false
	}
	for _, n := range b.nodes {
		if n == nil {
			continue
		}
		found := false
		for _, m := range other.nodes {
			if m != nil && r3.Norm2(r3.Sub(n.Location, m.Location)) < EqualityTolerance {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}
