package geometry

import (
	"github.com/deadsy/sdfx/sdf"
	v2 "github.com/deadsy/sdfx/vec/v2"
	v3 "github.com/deadsy/sdfx/vec/v3"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/spatial/r3"
)

// insideTolerance absorbs the round off of the signed distance on the boundary
const insideTolerance = 1.e-9

// ExtrudedModel is a faceted solid obtained by sweeping a simple polygon
// along Z. For a polygon with n vertices the entities are numbered:
//
//	points   : bottom i -> i, top i -> n+i
//	curves   : bottom (i,i+1) -> i, top (i,i+1) -> n+i, vertical at i -> 2n+i
//	surfaces : bottom -> 0, top -> 1, side (i,i+1) -> 2+i
//	volumes  : 0
type ExtrudedModel struct {
	points   []*vertex
	curves   []*segment
	surfaces []*planarFace
	volume   *extrudedVolume
}

type vertex struct {
	id  int
	loc r3.Vec
}

func (v *vertex) ID() int          { return v.id }
func (v *vertex) Location() r3.Vec { return v.loc }

// NewExtrudedModel builds the solid swept by polygon between zMin and zMax
func NewExtrudedModel(polygon []r2.Vec, zMin, zMax float64) (m *ExtrudedModel, err error) {
	n := len(polygon)
	if n < 3 {
		err = errors.Errorf("extruded polygon needs at least 3 vertices, got %d", n)
		return
	}
	if zMax <= zMin {
		err = errors.Errorf("extrusion range is empty: [%g, %g]", zMin, zMax)
		return
	}
	for i := range polygon {
		if r2.Norm(r2.Sub(polygon[(i+1)%n], polygon[i])) == 0 {
			err = errors.Errorf("polygon vertices %d and %d coincide", i, (i+1)%n)
			return
		}
	}
	m = &ExtrudedModel{}
	for _, z := range []float64{zMin, zMax} {
		for _, p := range polygon {
			m.points = append(m.points, &vertex{id: len(m.points), loc: r3.Vec{X: p.X, Y: p.Y, Z: z}})
		}
	}
	bottom, top := m.points[:n], m.points[n:]
	for _, layer := range [][]*vertex{bottom, top} {
		for i := range layer {
			m.curves = append(m.curves, newSegment(len(m.curves), layer[i], layer[(i+1)%n]))
		}
	}
	for i := 0; i < n; i++ {
		m.curves = append(m.curves, newSegment(len(m.curves), bottom[i], top[i]))
	}
	bottomCurves, topCurves, vertical := m.curves[:n], m.curves[n:2*n], m.curves[2*n:]
	var bottomFace, topFace *planarFace
	if bottomFace, err = newPlanarFace(0, bottom, bottomCurves); err != nil {
		return nil, err
	}
	if topFace, err = newPlanarFace(1, top, topCurves); err != nil {
		return nil, err
	}
	m.surfaces = append(m.surfaces, bottomFace, topFace)
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		var side *planarFace
		if side, err = newPlanarFace(2+i,
			[]*vertex{bottom[i], bottom[j], top[j], top[i]},
			[]*segment{bottomCurves[i], vertical[j], topCurves[i], vertical[i]}); err != nil {
			return nil, err
		}
		m.surfaces = append(m.surfaces, side)
	}
	if m.volume, err = newExtrudedVolume(polygon, zMin, zMax, m.surfaces); err != nil {
		return nil, err
	}
	return
}

// NewBoxModel returns the axis aligned box between lo and hi
func NewBoxModel(lo, hi r3.Vec) (*ExtrudedModel, error) {
	return NewExtrudedModel([]r2.Vec{
		{X: lo.X, Y: lo.Y}, {X: hi.X, Y: lo.Y}, {X: hi.X, Y: hi.Y}, {X: lo.X, Y: hi.Y},
	}, lo.Z, hi.Z)
}

func (m *ExtrudedModel) Points() (pts []Point) {
	pts = make([]Point, len(m.points))
	for i, p := range m.points {
		pts[i] = p
	}
	return
}

func (m *ExtrudedModel) Curves() (crvs []Curve) {
	crvs = make([]Curve, len(m.curves))
	for i, c := range m.curves {
		crvs[i] = c
	}
	return
}

func (m *ExtrudedModel) Surfaces() (srfs []Surface) {
	srfs = make([]Surface, len(m.surfaces))
	for i, s := range m.surfaces {
		srfs[i] = s
	}
	return
}

func (m *ExtrudedModel) Volumes() []Volume { return []Volume{m.volume} }

func (m *ExtrudedModel) Point(id int) Point {
	if id < 0 || id >= len(m.points) {
		return nil
	}
	return m.points[id]
}

func (m *ExtrudedModel) Curve(id int) Curve {
	if id < 0 || id >= len(m.curves) {
		return nil
	}
	return m.curves[id]
}

func (m *ExtrudedModel) Surface(id int) Surface {
	if id < 0 || id >= len(m.surfaces) {
		return nil
	}
	return m.surfaces[id]
}

func (m *ExtrudedModel) Volume(id int) Volume {
	if id != 0 {
		return nil
	}
	return m.volume
}

func (m *ExtrudedModel) BoundingBox() r3.Box { return m.volume.bb }

type extrudedVolume struct {
	solid    sdf.SDF3
	surfaces []*planarFace
	bb       r3.Box
}

func newExtrudedVolume(polygon []r2.Vec, zMin, zMax float64, faces []*planarFace) (vol *extrudedVolume, err error) {
	var (
		verts = make([]v2.Vec, len(polygon))
		pts   = make([]r3.Vec, 0, 2*len(polygon))
		s2    sdf.SDF2
	)
	for i, p := range polygon {
		verts[i] = v2.Vec{X: p.X, Y: p.Y}
		pts = append(pts, r3.Vec{X: p.X, Y: p.Y, Z: zMin}, r3.Vec{X: p.X, Y: p.Y, Z: zMax})
	}
	if s2, err = sdf.Polygon2D(verts); err != nil {
		return nil, errors.Wrap(err, "building extrusion profile")
	}
	// Extrude3D is centred on z = 0
	solid := sdf.Transform3D(sdf.Extrude3D(s2, zMax-zMin), sdf.Translate3d(v3.Vec{Z: 0.5 * (zMin + zMax)}))
	vol = &extrudedVolume{
		solid:    solid,
		surfaces: faces,
		bb:       BoxOf(pts...),
	}
	return
}

func (v *extrudedVolume) ID() int { return 0 }

func (v *extrudedVolume) Surfaces() (srfs []Surface) {
	srfs = make([]Surface, len(v.surfaces))
	for i, s := range v.surfaces {
		srfs[i] = s
	}
	return
}

func (v *extrudedVolume) IsIn(p r3.Vec) bool {
	return v.solid.Evaluate(v3.Vec{X: p.X, Y: p.Y, Z: p.Z}) <= insideTolerance
}

func (v *extrudedVolume) BoundingBox() r3.Box { return v.bb }
