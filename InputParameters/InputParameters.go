package InputParameters

import (
	"fmt"
	"sort"

	"github.com/ghodss/yaml"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/spatial/r3"
)

// Geometry is a polygon in the XY plane extruded between ZMin and ZMax
type Geometry struct {
	Polygon [][2]float64 `json:"Polygon"`
	ZMin    float64      `json:"ZMin"`
	ZMax    float64      `json:"ZMax"`
}

// Cut describes one sheet cut. Either Edge (with optional Node and Param),
// Point or PointID selects where the sheet is split.
type Cut struct {
	Edge    *int      `json:"Edge,omitempty"`
	Node    *int      `json:"Node,omitempty"`
	Param   float64   `json:"Param,omitempty"`
	Point   []float64 `json:"Point,omitempty"`
	PointID *int      `json:"PointID,omitempty"`
}

// Parameters obtained from the YAML input file
type BlockingParameters struct {
	Title               string   `json:"Title"`
	Geometry            Geometry `json:"Geometry"`
	BlockFile           string   `json:"BlockFile,omitempty"` // Gambit .neu or legacy .vtk hexahedra, replaces the bounding box
	Tolerance           float64  `json:"Tolerance,omitempty"`
	AlignmentThreshold  float64  `json:"AlignmentThreshold,omitempty"`
	PathWeightThreshold float64  `json:"PathWeightThreshold,omitempty"`
	SmoothIterations    int      `json:"SmoothIterations,omitempty"`
	Cuts                []Cut    `json:"Cuts,omitempty"`
	RemoveBlocks        []int    `json:"RemoveBlocks,omitempty"`
	RemoveOutside       bool     `json:"RemoveOutside,omitempty"`
	ResetClassification bool     `json:"ResetClassification,omitempty"`
}

func (bp *BlockingParameters) Parse(data []byte) error {
	if err := yaml.Unmarshal(data, bp); err != nil {
		return err
	}
	return bp.Validate()
}

// Validate checks the fields that can not be defaulted
func (bp *BlockingParameters) Validate() error {
	if len(bp.Geometry.Polygon) < 3 {
		return errors.Errorf("geometry polygon needs at least 3 vertices, have %d", len(bp.Geometry.Polygon))
	}
	if bp.Geometry.ZMax <= bp.Geometry.ZMin {
		return errors.Errorf("geometry ZMax %g must be above ZMin %g", bp.Geometry.ZMax, bp.Geometry.ZMin)
	}
	for i, c := range bp.Cuts {
		var n int
		if c.Edge != nil {
			n++
		}
		if c.PointID != nil {
			n++
		}
		if c.Point != nil {
			if len(c.Point) != 3 {
				return errors.Errorf("cut %d: point needs 3 coordinates, have %d", i, len(c.Point))
			}
			n++
		}
		if n != 1 {
			return errors.Errorf("cut %d: exactly one of Edge, Point or PointID is required", i)
		}
		if c.Param < 0 || c.Param >= 1 {
			return errors.Errorf("cut %d: Param %g outside [0,1)", i, c.Param)
		}
	}
	return nil
}

// PolygonVertices returns the geometry polygon as planar vectors
func (bp *BlockingParameters) PolygonVertices() (poly []r2.Vec) {
	poly = make([]r2.Vec, len(bp.Geometry.Polygon))
	for i, v := range bp.Geometry.Polygon {
		poly[i] = r2.Vec{X: v[0], Y: v[1]}
	}
	return
}

// Location returns the cut point, valid when Point is set
func (c Cut) Location() r3.Vec {
	return r3.Vec{X: c.Point[0], Y: c.Point[1], Z: c.Point[2]}
}

func (c Cut) String() string {
	switch {
	case c.Edge != nil:
		if c.Param == 0 {
			return fmt.Sprintf("edge %d at mid point", *c.Edge)
		}
		return fmt.Sprintf("edge %d at %g", *c.Edge, c.Param)
	case c.PointID != nil:
		return fmt.Sprintf("model point %d", *c.PointID)
	default:
		return fmt.Sprintf("point %v", c.Point)
	}
}

func (bp *BlockingParameters) Print() {
	fmt.Printf("\"%s\"\t\t= Title\n", bp.Title)
	fmt.Printf("%v\t= Polygon\n", bp.Geometry.Polygon)
	fmt.Printf("[%8.5f,%8.5f]\t= Z Range\n", bp.Geometry.ZMin, bp.Geometry.ZMax)
	if bp.BlockFile != "" {
		fmt.Printf("[%s]\t\t= Block File\n", bp.BlockFile)
	}
	fmt.Printf("%8.5f\t\t= Tolerance\n", bp.Tolerance)
	fmt.Printf("[%d]\t\t\t\t= Smooth Iterations\n", bp.SmoothIterations)
	for i, c := range bp.Cuts {
		fmt.Printf("Cuts[%d] = %s\n", i, c)
	}
	removed := append([]int(nil), bp.RemoveBlocks...)
	sort.Ints(removed)
	fmt.Printf("%v\t\t\t= Removed Blocks\n", removed)
	fmt.Printf("[%v]\t\t\t= Remove Outside\n", bp.RemoveOutside)
}
