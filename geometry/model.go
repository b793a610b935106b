package geometry

import (
	"gonum.org/v1/gonum/spatial/r3"
)

// Point is a geometric vertex of a boundary represented model
type Point interface {
	ID() int
	Location() r3.Vec
}

// Curve is a geometric edge bounded by zero, one or two points
type Curve interface {
	ID() int
	Points() []Point
	ClosestPoint(p r3.Vec) r3.Vec
	Project(p r3.Vec) r3.Vec
	// Tangent returns the unit vector leaving end point endIndex into the curve
	Tangent(endIndex int) r3.Vec
	BoundingBox() r3.Box
}

// Surface is a geometric face bounded by one or more loops of curves
type Surface interface {
	ID() int
	Points() []Point
	Curves() []Curve
	Loops() [][]Curve
	ClosestPoint(p r3.Vec) r3.Vec
	Project(p r3.Vec) r3.Vec
	BoundingBox() r3.Box
}

// Volume is a geometric region bounded by surfaces
type Volume interface {
	ID() int
	Surfaces() []Surface
	IsIn(p r3.Vec) bool
	BoundingBox() r3.Box
}

// Model is the collaborator queried by the block structure and the classifier.
// Entity ids are stable and scoped per dimension. The id lookups return nil
// for unknown ids.
type Model interface {
	Points() []Point
	Curves() []Curve
	Surfaces() []Surface
	Volumes() []Volume
	Point(id int) Point
	Curve(id int) Curve
	Surface(id int) Surface
	Volume(id int) Volume
	BoundingBox() r3.Box
}

// BoxOf returns the bounding box of a set of locations
func BoxOf(pts ...r3.Vec) (bb r3.Box) {
	if len(pts) == 0 {
		return
	}
	bb.Min, bb.Max = pts[0], pts[0]
	for _, p := range pts[1:] {
		bb.Min.X = min(bb.Min.X, p.X)
		bb.Min.Y = min(bb.Min.Y, p.Y)
		bb.Min.Z = min(bb.Min.Z, p.Z)
		bb.Max.X = max(bb.Max.X, p.X)
		bb.Max.Y = max(bb.Max.Y, p.Y)
		bb.Max.Z = max(bb.Max.Z, p.Z)
	}
	return
}
