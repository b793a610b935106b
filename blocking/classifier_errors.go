package blocking

import (
	"fmt"

	"github.com/notargets/goblock/geometry"
)

// ClassificationErrors lists what the current classification misses
type ClassificationErrors struct {
	NonCapturedPoints   []int
	NonCapturedCurves   []int
	NonCapturedSurfaces []int
	NonClassifiedNodes  []int
	NonClassifiedEdges  []int
	NonClassifiedFaces  []int
}

func (ce ClassificationErrors) Empty() bool {
	return len(ce.NonCapturedPoints) == 0 && len(ce.NonCapturedCurves) == 0 &&
		len(ce.NonCapturedSurfaces) == 0 && len(ce.NonClassifiedNodes) == 0 &&
		len(ce.NonClassifiedEdges) == 0 && len(ce.NonClassifiedFaces) == 0
}

// Score weighs the errors, lower is better and 0 is a fully captured model
func (ce ClassificationErrors) Score() float64 {
	uncaptured := len(ce.NonCapturedPoints) + len(ce.NonCapturedCurves) + len(ce.NonCapturedSurfaces)
	return 10000*float64(len(ce.NonClassifiedNodes)) +
		100*float64(len(ce.NonClassifiedEdges)) +
		float64(len(ce.NonClassifiedFaces)) +
		1000*float64(uncaptured)
}

func (ce ClassificationErrors) String() string {
	return fmt.Sprintf("points %v, curves %v, surfaces %v not captured; nodes %v, edges %v, faces %v not classified",
		ce.NonCapturedPoints, ce.NonCapturedCurves, ce.NonCapturedSurfaces,
		ce.NonClassifiedNodes, ce.NonClassifiedEdges, ce.NonClassifiedFaces)
}

// DetectClassificationErrors reports the model entities not captured and the
// cells left unclassified. Nothing is modified. Curves without two end points
// are reported as not captured.
func (c *Classifier) DetectClassificationErrors() (ce ClassificationErrors) {
	var (
		nodesOnCurve = make(map[int][]int)
		edgesOnCurve = make(map[int][]int)
	)
	for id, n := range c.b.nodes {
		if n == nil {
			continue
		}
		switch n.Link.Dim {
		case None:
			ce.NonClassifiedNodes = append(ce.NonClassifiedNodes, id)
		case Curve:
			nodesOnCurve[n.Link.ID] = append(nodesOnCurve[n.Link.ID], id)
		}
	}
	for id, e := range c.b.edges {
		if e == nil {
			continue
		}
		switch e.Link.Dim {
		case None:
			ce.NonClassifiedEdges = append(ce.NonClassifiedEdges, id)
		case Curve:
			edgesOnCurve[e.Link.ID] = append(edgesOnCurve[e.Link.ID], id)
		}
	}
	for id, f := range c.b.faces {
		if f != nil && f.Link.IsNone() {
			ce.NonClassifiedFaces = append(ce.NonClassifiedFaces, id)
		}
	}
	if c.model == nil {
		return
	}

	for _, p := range c.model.Points() {
		if _, ok := c.nodeOnPoint(p.ID(), c.b.NodeIDs()); !ok {
			ce.NonCapturedPoints = append(ce.NonCapturedPoints, p.ID())
		}
	}
	for _, cv := range c.model.Curves() {
		if !c.curveCaptured(cv.Points(), nodesOnCurve[cv.ID()], edgesOnCurve[cv.ID()]) {
			ce.NonCapturedCurves = append(ce.NonCapturedCurves, cv.ID())
		}
	}
	surfaces := c.model.Surfaces()
	if len(ce.NonCapturedPoints) > 0 || len(ce.NonCapturedCurves) > 0 {
		for _, s := range surfaces {
			ce.NonCapturedSurfaces = append(ce.NonCapturedSurfaces, s.ID())
		}
		return
	}
	for _, s := range surfaces {
		var (
			onSurface = Link{Dim: Surface, ID: s.ID()}
			found     bool
			curves    = make(map[int]bool)
		)
		for _, f := range c.b.faces {
			if f == nil || f.Link != onSurface {
				continue
			}
			found = true
			for _, e := range f.Edges {
				if l := c.b.edges[e].Link; l.Dim == Curve {
					curves[l.ID] = true
				}
			}
		}
		complete := found
		for _, loop := range s.Loops() {
			for _, cv := range loop {
				if !curves[cv.ID()] {
					complete = false
				}
			}
		}
		if !complete {
			ce.NonCapturedSurfaces = append(ce.NonCapturedSurfaces, s.ID())
		}
	}
	return
}

// curveCaptured checks that the edges on a curve reach both its end points
// and chain through every node on the curve
func (c *Classifier) curveCaptured(ends []geometry.Point, nodes, edges []int) bool {
	if len(ends) != 2 {
		return false
	}
	var (
		p0, p1 = Link{Dim: Point, ID: ends[0].ID()}, Link{Dim: Point, ID: ends[1].ID()}
		found0 bool
		found1 bool
		degree = make(map[int]int)
	)
	for _, e := range edges {
		for _, n := range c.b.edges[e].Nodes {
			switch c.b.nodes[n].Link {
			case p0:
				found0 = true
			case p1:
				found1 = true
			}
			degree[n]++
		}
	}
	if !found0 || !found1 {
		return false
	}
	for _, n := range nodes {
		if degree[n] != 2 {
			return false
		}
	}
	return true
}
