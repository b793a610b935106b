package geometry

import (
	"math"

	"github.com/deadsy/sdfx/sdf"
	v2 "github.com/deadsy/sdfx/vec/v2"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/spatial/r3"
)

// segment is a straight curve between two points
type segment struct {
	id   int
	ends [2]*vertex
}

func newSegment(id int, a, b *vertex) *segment {
	return &segment{id: id, ends: [2]*vertex{a, b}}
}

func (s *segment) ID() int { return s.id }

func (s *segment) Points() []Point { return []Point{s.ends[0], s.ends[1]} }

func (s *segment) ClosestPoint(p r3.Vec) r3.Vec {
	return closestOnSegment(s.ends[0].loc, s.ends[1].loc, p)
}

func (s *segment) Project(p r3.Vec) r3.Vec { return s.ClosestPoint(p) }

func (s *segment) Tangent(endIndex int) r3.Vec {
	a, b := s.ends[0].loc, s.ends[1].loc
	if endIndex == 1 {
		a, b = b, a
	}
	return r3.Unit(r3.Sub(b, a))
}

func (s *segment) BoundingBox() r3.Box { return BoxOf(s.ends[0].loc, s.ends[1].loc) }

func closestOnSegment(a, b, p r3.Vec) r3.Vec {
	ab := r3.Sub(b, a)
	l2 := r3.Norm2(ab)
	if l2 == 0 {
		return a
	}
	t := r3.Dot(r3.Sub(p, a), ab) / l2
	t = math.Max(0, math.Min(1, t))
	return r3.Add(a, r3.Scale(t, ab))
}

// planarFace is a flat polygonal surface bounded by a single loop
type planarFace struct {
	id      int
	corners []*vertex
	curves  []*segment
	origin  r3.Vec
	normal  r3.Vec
	u, v    r3.Vec   // in-plane orthonormal basis
	outline sdf.SDF2 // corners in the (u,v) frame
}

func newPlanarFace(id int, corners []*vertex, curves []*segment) (f *planarFace, err error) {
	f = &planarFace{id: id, corners: corners, curves: curves, origin: corners[0].loc}
	// Newell's normal is robust to non convex outlines
	var n r3.Vec
	for i, c := range corners {
		n = r3.Add(n, r3.Cross(c.loc, corners[(i+1)%len(corners)].loc))
	}
	f.normal = r3.Unit(n)
	f.u = r3.Unit(r3.Sub(corners[1].loc, corners[0].loc))
	f.v = r3.Cross(f.normal, f.u)
	outline := make([]v2.Vec, len(corners))
	for i, c := range corners {
		q := f.local(c.loc)
		outline[i] = v2.Vec{X: q.X, Y: q.Y}
	}
	if f.outline, err = sdf.Polygon2D(outline); err != nil {
		return nil, errors.Wrapf(err, "outline of surface %d", id)
	}
	return
}

// inside reports whether the in-plane point q lies in the outline, the
// outline itself included
func (f *planarFace) inside(q r3.Vec) bool {
	l := f.local(q)
	return f.outline.Evaluate(v2.Vec{X: l.X, Y: l.Y}) <= insideTolerance
}

func (f *planarFace) local(p r3.Vec) r2.Vec {
	d := r3.Sub(p, f.origin)
	return r2.Vec{X: r3.Dot(d, f.u), Y: r3.Dot(d, f.v)}
}

func (f *planarFace) ID() int { return f.id }

func (f *planarFace) Points() (pts []Point) {
	pts = make([]Point, len(f.corners))
	for i, c := range f.corners {
		pts[i] = c
	}
	return
}

func (f *planarFace) Curves() (crvs []Curve) {
	crvs = make([]Curve, len(f.curves))
	for i, c := range f.curves {
		crvs[i] = c
	}
	return
}

func (f *planarFace) Loops() [][]Curve { return [][]Curve{f.Curves()} }

func (f *planarFace) ClosestPoint(p r3.Vec) r3.Vec {
	q := r3.Sub(p, r3.Scale(r3.Dot(r3.Sub(p, f.origin), f.normal), f.normal))
	if f.inside(q) {
		return q
	}
	var (
		best  r3.Vec
		bestD = math.Inf(1)
	)
	for _, c := range f.curves {
		cp := c.ClosestPoint(p)
		if d := r3.Norm2(r3.Sub(cp, p)); d < bestD {
			best, bestD = cp, d
		}
	}
	return best
}

func (f *planarFace) Project(p r3.Vec) r3.Vec { return f.ClosestPoint(p) }

func (f *planarFace) BoundingBox() r3.Box {
	pts := make([]r3.Vec, len(f.corners))
	for i, c := range f.corners {
		pts[i] = c.loc
	}
	return BoxOf(pts...)
}
