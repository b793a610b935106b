package blocking

import (
	"sort"

	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/topo"
)

// colorFaces groups the given faces into components of faces sharing an edge
// that is not on a curve. Colors start at 1 and follow the smallest face id of
// each component.
func (c *Classifier) colorFaces(faces []int) map[int]int {
	var (
		g     = simple.NewUndirectedGraph()
		inSet = make(map[int]bool, len(faces))
	)
	for _, f := range faces {
		if c.b.Face(f) != nil {
			inSet[f] = true
			g.AddNode(simple.Node(f))
		}
	}
	for _, f := range faces {
		if !inSet[f] {
			continue
		}
		for _, e := range c.b.faces[f].Edges {
			edge := c.b.edges[e]
			if edge.Link.Dim == Curve {
				continue
			}
			for _, o := range edge.faces {
				if o != f && inSet[o] && !g.HasEdgeBetween(int64(f), int64(o)) {
					g.SetEdge(g.NewEdge(simple.Node(f), simple.Node(o)))
				}
			}
		}
	}
	var comps [][]int
	for _, comp := range topo.ConnectedComponents(g) {
		ids := make([]int, len(comp))
		for i, n := range comp {
			ids[i] = int(n.ID())
		}
		sort.Ints(ids)
		comps = append(comps, ids)
	}
	sort.Slice(comps, func(i, j int) bool { return comps[i][0] < comps[j][0] })
	colors := make(map[int]int, len(inSet))
	for i, comp := range comps {
		for _, f := range comp {
			colors[f] = i + 1
		}
	}
	return colors
}

// captureSurfaces classifies the colored components of the boundary faces.
// A surface takes the component of the first face having a node on one of its
// points and two edges on its curves. Components bounded by no curve edge are
// left unclassified.
func (c *Classifier) captureSurfaces(faces []int) (captured map[int]bool) {
	captured = make(map[int]bool)
	colors := c.colorFaces(faces)
	ids := make([]int, 0, len(colors))
	for f := range colors {
		ids = append(ids, f)
	}
	sort.Ints(ids)

	touchesCurve := make(map[int]bool)
	for _, f := range ids {
		for _, e := range c.b.faces[f].Edges {
			if c.b.edges[e].Link.Dim == Curve {
				touchesCurve[colors[f]] = true
			}
		}
	}
	for _, f := range ids {
		if !touchesCurve[colors[f]] {
			c.b.faces[f].Link = Link{}
		}
	}

	for _, s := range c.model.Surfaces() {
		var (
			points = make(map[int]bool)
			curves = make(map[int]bool)
			color  = -1
		)
		for _, p := range s.Points() {
			points[p.ID()] = true
		}
		for _, cv := range s.Curves() {
			curves[cv.ID()] = true
		}
		for _, f := range ids {
			var onPoint, onCurve int
			face := c.b.faces[f]
			for i := range face.Nodes {
				if l := c.b.nodes[face.Nodes[i]].Link; l.Dim == Point && points[l.ID] {
					onPoint++
				}
				if l := c.b.edges[face.Edges[i]].Link; l.Dim == Curve && curves[l.ID] {
					onCurve++
				}
			}
			if onPoint >= 1 && onCurve >= 2 {
				color = colors[f]
				break
			}
		}
		if color < 0 {
			continue
		}
		onSurface := Link{Dim: Surface, ID: s.ID()}
		for _, f := range ids {
			if colors[f] != color {
				continue
			}
			face := c.b.faces[f]
			face.Link = onSurface
			for i := range face.Nodes {
				if node := c.b.nodes[face.Nodes[i]]; node.Link.IsNone() {
					node.Link = onSurface
					node.Location = s.Project(node.Location)
				}
				if edge := c.b.edges[face.Edges[i]]; edge.Link.IsNone() || edge.Link.Dim == Volume {
					edge.Link = onSurface
				}
			}
		}
		captured[s.ID()] = true
	}
	return
}
