package blocking

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/notargets/goblock/geometry"
)

type closestEntity struct {
	dist float64
	id   int
	loc  r3.Vec
}

// closestOf returns the entity of ents nearest to p, with an infinite
// distance when ents is empty
func closestOf[T interface{ ID() int }](p r3.Vec, ents []T, closest func(T, r3.Vec) r3.Vec) (ce closestEntity) {
	ce = closestEntity{dist: math.Inf(1), id: -1}
	for _, e := range ents {
		q := closest(e, p)
		if d := r3.Norm(r3.Sub(p, q)); d < ce.dist {
			ce = closestEntity{dist: d, id: e.ID(), loc: q}
		}
	}
	return
}

// TryAndClassifyNodes links each node not already on a point to the nearest
// point, curve or surface within tolerance and moves it there. Entities closer
// than Epsilon in distance are resolved toward the lower dimension. It returns
// the number of nodes left unclassified.
func (c *Classifier) TryAndClassifyNodes(nodes []int, tolerance float64) (unclassified int) {
	var (
		points   = c.model.Points()
		curves   = c.model.Curves()
		surfaces = c.model.Surfaces()
		eps      = c.Epsilon
	)
	for _, id := range nodes {
		node := c.b.Node(id)
		if node == nil || node.Link.Dim == Point {
			continue
		}
		p := node.Location
		cp := closestOf(p, points, func(g geometry.Point, p r3.Vec) r3.Vec { return g.Location() })
		cc := closestOf(p, curves, func(g geometry.Curve, p r3.Vec) r3.Vec { return g.ClosestPoint(p) })
		cs := closestOf(p, surfaces, func(g geometry.Surface, p r3.Vec) r3.Vec { return g.ClosestPoint(p) })
		switch {
		case cp.dist-cc.dist <= eps && cp.dist-cs.dist <= eps && cp.dist <= tolerance:
			node.Link, node.Location = Link{Dim: Point, ID: cp.id}, cp.loc
		case cc.dist-cp.dist < eps && cc.dist-cs.dist <= eps && cc.dist <= tolerance:
			node.Link, node.Location = Link{Dim: Curve, ID: cc.id}, cc.loc
		case cs.dist-cp.dist < eps && cs.dist-cc.dist < eps && cs.dist <= tolerance:
			node.Link, node.Location = Link{Dim: Surface, ID: cs.id}, cs.loc
		default:
			node.Link = Link{}
			unclassified++
		}
	}
	return
}
