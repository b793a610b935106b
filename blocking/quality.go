package blocking

import (
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/notargets/goblock/quality"
	"github.com/notargets/goblock/utils"
)

// vtkCorners returns the corner locations of block r in VTK order
func (b *Blocking) vtkCorners(r int) (p [8]r3.Vec) {
	nodes := b.regions[r].Nodes
	for i, j := range vtkOrder {
		p[i] = b.nodes[nodes[j]].Location
	}
	return
}

// RegionVolume returns the volume of block r
func (b *Blocking) RegionVolume(r int) float64 {
	return quality.HexVolume(b.vtkCorners(r))
}

// RegionScaledJacobian returns the scaled Jacobian of block r
func (b *Blocking) RegionScaledJacobian(r int) float64 {
	return quality.HexScaledJacobian(b.vtkCorners(r))
}

// MinScaledJacobian returns the worst scaled Jacobian over all blocks and the
// block it occurs on. Blocks are evaluated in parallel, ties go to the lowest id.
func (b *Blocking) MinScaledJacobian() (sj float64, worst int) {
	var (
		pm     = utils.NewCPUPartitionMap(len(b.regions))
		bucket = make([]struct {
			sj    float64
			worst int
		}, pm.ParallelDegree)
	)
	pm.Run(func(bn, kMin, kMax int) {
		bucket[bn].worst = -1
		for id := kMin; id < kMax; id++ {
			if b.regions[id] == nil {
				continue
			}
			if q := b.RegionScaledJacobian(id); bucket[bn].worst < 0 || q < bucket[bn].sj {
				bucket[bn].sj, bucket[bn].worst = q, id
			}
		}
	})
	sj, worst = 1, -1
	for _, bk := range bucket {
		if bk.worst >= 0 && (worst < 0 || bk.sj < sj) {
			sj, worst = bk.sj, bk.worst
		}
	}
	return
}
