package blocking

import (
	"sort"

	"github.com/golang/glog"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/notargets/goblock/geometry"
	"github.com/notargets/goblock/utils"
)

// curvePath is a shortest path candidate joining the far ends of the two
// edges anchored on the end points of a curve
type curvePath struct {
	curve  geometry.Curve
	anchor [2]int
	nodes  []int
}

// nodeOnPoint returns the node of ids linked to geometric point pt
func (c *Classifier) nodeOnPoint(pt int, ids []int) (int, bool) {
	l := Link{Dim: Point, ID: pt}
	for _, n := range ids {
		if node := c.b.Node(n); node != nil && node.Link == l {
			return n, true
		}
	}
	return -1, false
}

// findAlignedEdge returns the first edge leaving a node on pt whose direction
// is aligned with tangent
func (c *Classifier) findAlignedEdge(pt geometry.Point, tangent r3.Vec, edges []int) (int, bool) {
	l := Link{Dim: Point, ID: pt.ID()}
	for _, e := range edges {
		edge := c.b.Edge(e)
		if edge == nil {
			continue
		}
		var from, to int
		switch {
		case c.b.nodes[edge.Nodes[0]].Link == l:
			from, to = edge.Nodes[0], edge.Nodes[1]
		case c.b.nodes[edge.Nodes[1]].Link == l:
			from, to = edge.Nodes[1], edge.Nodes[0]
		default:
			continue
		}
		dir := r3.Sub(c.b.nodes[to].Location, c.b.nodes[from].Location)
		if r3.Norm2(dir) == 0 {
			continue
		}
		if r3.Dot(r3.Unit(dir), tangent) > c.AlignmentThreshold {
			return e, true
		}
	}
	return -1, false
}

func commonNode(a, b *Edge) (int, bool) {
	for _, n := range a.Nodes {
		if n == b.Nodes[0] || n == b.Nodes[1] {
			return n, true
		}
	}
	return -1, false
}

// linkNodeOnCurve classifies node n on curve cv and projects it there
func (c *Classifier) linkNodeOnCurve(n int, cv geometry.Curve) {
	node := c.b.nodes[n]
	node.Link = Link{Dim: Curve, ID: cv.ID()}
	node.Location = cv.Project(node.Location)
}

// captureCurves classifies chains of boundary edges on the model curves. For
// each curve the edges leaving its two end point nodes along the tangents are
// looked up: a single edge, two edges meeting at a node, or two edges joined
// by a shortest path over the boundary skeleton. Paths are applied shortest
// first and never across an edge already on a curve.
func (c *Classifier) captureCurves(nodes, edges []int) (captured map[int]bool, err error) {
	var (
		g     = utils.NewGraph(nodes)
		paths []curvePath
	)
	captured = make(map[int]bool)
	for _, e := range edges {
		if edge := c.b.Edge(e); edge != nil {
			g.AddEdge(edge.Nodes[0], edge.Nodes[1], 1)
		}
	}
	for _, cv := range c.model.Curves() {
		ends := cv.Points()
		if len(ends) != 2 {
			return nil, errors.Wrapf(ErrUnsupportedCurve, "curve %d has %d end points", cv.ID(), len(ends))
		}
		n0, ok0 := c.nodeOnPoint(ends[0].ID(), nodes)
		n1, ok1 := c.nodeOnPoint(ends[1].ID(), nodes)
		if !ok0 || !ok1 {
			continue
		}
		e0, ok0 := c.findAlignedEdge(ends[0], cv.Tangent(0), edges)
		e1, ok1 := c.findAlignedEdge(ends[1], cv.Tangent(1), edges)
		if !ok0 || !ok1 {
			continue
		}
		var (
			onCurve = Link{Dim: Curve, ID: cv.ID()}
			first   = c.b.edges[e0]
			second  = c.b.edges[e1]
		)
		if first.Link == onCurve || second.Link == onCurve {
			captured[cv.ID()] = true
			continue
		}
		// an anchor already carrying another curve is left alone
		if first.Link.Dim == Curve || second.Link.Dim == Curve {
			glog.Warningf("curve %d: anchor edges %d %d already on %v %v", cv.ID(), e0, e1, first.Link, second.Link)
			continue
		}
		if e0 == e1 {
			first.Link = onCurve
			captured[cv.ID()] = true
			continue
		}
		if m, ok := commonNode(first, second); ok {
			if _, err := Merge(c.b.nodes[m].Link, onCurve); err != nil {
				glog.Warningf("curve %d: corner node %d: %v", cv.ID(), m, err)
				continue
			}
			c.linkNodeOnCurve(m, cv)
			first.Link, second.Link = onCurve, onCurve
			captured[cv.ID()] = true
			continue
		}
		src, dst := first.Other(n0), second.Other(n1)
		path, w, ok := g.ShortestPath(src, dst)
		if ok && w/float64(len(path)) < c.PathWeightThreshold {
			paths = append(paths, curvePath{curve: cv, anchor: [2]int{e0, e1}, nodes: path})
		}
	}
	sort.SliceStable(paths, func(i, j int) bool { return len(paths[i].nodes) < len(paths[j].nodes) })
	for _, p := range paths {
		if c.b.edges[p.anchor[0]].Link.Dim == Curve || c.b.edges[p.anchor[1]].Link.Dim == Curve {
			glog.Warningf("curve %d: anchor edges taken by an earlier path", p.curve.ID())
			continue
		}
		onCurve, err := c.pathOnCurve(p.nodes)
		if err != nil {
			return nil, err
		}
		if onCurve {
			continue
		}
		if err = c.applyCurvePath(p); err != nil {
			return nil, err
		}
		captured[p.curve.ID()] = true
	}
	return
}

// pathOnCurve reports whether an edge of the node path is already on a curve
func (c *Classifier) pathOnCurve(path []int) (bool, error) {
	for i := 1; i < len(path); i++ {
		e, err := c.b.GetEdge(path[i-1], path[i])
		if err != nil {
			return false, err
		}
		if c.b.edges[e].Link.Dim == Curve {
			return true, nil
		}
	}
	return false, nil
}

func (c *Classifier) applyCurvePath(p curvePath) error {
	onCurve := Link{Dim: Curve, ID: p.curve.ID()}
	for _, e := range p.anchor {
		c.b.edges[e].Link = onCurve
	}
	for i, n := range p.nodes {
		c.linkNodeOnCurve(n, p.curve)
		if i == 0 {
			continue
		}
		e, err := c.b.GetEdge(p.nodes[i-1], n)
		if err != nil {
			return err
		}
		c.b.edges[e].Link = onCurve
	}
	return nil
}
