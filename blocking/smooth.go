package blocking

import (
	"github.com/golang/glog"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/notargets/goblock/utils"
)

// SmoothingWeight blends a node with the average of its neighbours
const SmoothingWeight = 0.5

// Smooth applies Laplacian relaxation, each node averaging over the edges
// classified like itself: curve nodes along their curve, surface nodes on their
// surface, volume and unclassified nodes over every incident edge. Point nodes
// are fixed. Moved nodes are projected back on their entity.
func (b *Blocking) Smooth(iterations int) error {
	var (
		ids   = b.NodeIDs()
		index = make(map[int]int, len(ids))
		nbrs  = make([][]int, len(ids))
	)
	if len(ids) == 0 || iterations <= 0 {
		return nil
	}
	for i, n := range ids {
		index[n] = i
	}
	for i, n := range ids {
		node := b.nodes[n]
		if node.Link.Dim == Point {
			continue
		}
		for _, e := range node.edges {
			edge := b.edges[e]
			switch node.Link.Dim {
			case Curve, Surface:
				if edge.Link != node.Link {
					continue
				}
			}
			nbrs[i] = append(nbrs[i], index[edge.Other(n)])
		}
	}
	R := utils.AveragingOperator(len(ids), nbrs, SmoothingWeight)
	X := mat.NewDense(len(ids), 3, nil)
	for it := 0; it < iterations; it++ {
		for i, n := range ids {
			p := b.nodes[n].Location
			X.SetRow(i, []float64{p.X, p.Y, p.Z})
		}
		Y := R.MulDense(X)
		for i, n := range ids {
			if len(nbrs[i]) == 0 {
				continue
			}
			if err := b.MoveNode(n, r3.Vec{X: Y.At(i, 0), Y: Y.At(i, 1), Z: Y.At(i, 2)}); err != nil {
				return errors.Wrapf(err, "smoothing iteration %d", it)
			}
		}
	}
	glog.V(1).Infof("smoothed %d nodes over %d iterations", len(ids), iterations)
	return nil
}
