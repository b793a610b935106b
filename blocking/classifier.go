package blocking

import (
	"github.com/golang/glog"
	"github.com/pkg/errors"

	"github.com/notargets/goblock/geometry"
)

// Classifier matches a block structure against its geometric model. Capture
// runs in four phases, points then curves then surfaces then the volume, each
// phase only when the previous one captured everything.
type Classifier struct {
	// Tolerance is the largest distance at which a node is snapped on the model
	Tolerance float64
	// AlignmentThreshold is the minimum cosine between an edge leaving a curve
	// end point and the curve tangent there
	AlignmentThreshold float64
	// PathWeightThreshold bounds the average edge weight of an accepted curve path
	PathWeightThreshold float64
	// Epsilon is the distance under which two entities are equally close
	Epsilon float64

	b     *Blocking
	model geometry.Model
}

func NewClassifier(b *Blocking) *Classifier {
	return &Classifier{
		Tolerance:           0.01,
		AlignmentThreshold:  0.7,
		PathWeightThreshold: 1000,
		Epsilon:             1e-4,
		b:                   b,
		model:               b.Model(),
	}
}

// CaptureReport summarizes one capture pass
type CaptureReport struct {
	UnclassifiedNodes int
	CurvesCaptured    int
	NumCurves         int
	SurfacesCaptured  int
	NumSurfaces       int
	VolumeCaptured    bool
}

func (c *Classifier) ClearClassification() { c.b.ResetClassification() }

// Classify captures the model on the boundary of the block structure
func (c *Classifier) Classify() (CaptureReport, error) {
	nodes, edges, faces := c.b.ExtractBoundary()
	return c.TryAndCapture(nodes, edges, faces)
}

// TryAndCapture classifies the given boundary nodes, then captures curves
// with the given edges, surfaces with the given faces and finally the volume.
// Existing classifications are kept where they agree with the capture.
func (c *Classifier) TryAndCapture(nodes, edges, faces []int) (rep CaptureReport, err error) {
	if c.model == nil {
		return rep, errors.Wrap(ErrInvalidParameter, "classification needs a geometric model")
	}
	rep.UnclassifiedNodes = c.TryAndClassifyNodes(nodes, c.Tolerance)

	curves := c.model.Curves()
	rep.NumCurves = len(curves)
	capturedCurves, err := c.captureCurves(nodes, edges)
	if err != nil {
		return rep, err
	}
	rep.CurvesCaptured = len(capturedCurves)

	surfaces := c.model.Surfaces()
	rep.NumSurfaces = len(surfaces)
	if rep.CurvesCaptured == rep.NumCurves {
		rep.SurfacesCaptured = len(c.captureSurfaces(faces))
	}
	if rep.SurfacesCaptured == rep.NumSurfaces {
		rep.VolumeCaptured = c.captureVolume()
	}
	glog.V(1).Infof("capture: %d unclassified nodes, curves %d/%d, surfaces %d/%d, volume %v",
		rep.UnclassifiedNodes, rep.CurvesCaptured, rep.NumCurves,
		rep.SurfacesCaptured, rep.NumSurfaces, rep.VolumeCaptured)
	return
}

// captureVolume assigns every unclassified cell to the single volume of a
// connected block structure
func (c *Classifier) captureVolume() bool {
	vols := c.model.Volumes()
	if len(vols) != 1 || !c.b.IsValidConnected() {
		return false
	}
	l := Link{Dim: Volume, ID: vols[0].ID()}
	for _, n := range c.b.nodes {
		if n != nil && n.Link.IsNone() {
			n.Link = l
		}
	}
	for _, e := range c.b.edges {
		if e != nil && e.Link.IsNone() {
			e.Link = l
		}
	}
	for _, f := range c.b.faces {
		if f != nil && f.Link.IsNone() {
			f.Link = l
		}
	}
	for _, r := range c.b.regions {
		if r != nil && r.Link.IsNone() {
			r.Link = l
		}
	}
	return true
}
