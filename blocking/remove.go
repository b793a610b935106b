package blocking

import (
	"github.com/golang/glog"
	"github.com/pkg/errors"

	"github.com/notargets/goblock/geometry"
)

// RemoveBlock deletes block r together with the faces, edges and nodes that
// no remaining block uses. Cells shared with surviving blocks are kept.
func (b *Blocking) RemoveBlock(r int) error {
	region := b.Region(r)
	if region == nil {
		return errors.Wrapf(ErrUnknownCell, "block %d", r)
	}
	b.deleteRegion(r)
	for _, f := range region.Faces {
		face := b.faces[f]
		if len(face.regions) > 0 {
			continue
		}
		b.deleteFace(f)
		for _, e := range face.Edges {
			if b.edges[e] != nil && len(b.edges[e].faces) == 0 {
				b.deleteEdge(e)
			}
		}
	}
	// A corner with no edge left is used by no block
	for _, n := range region.Nodes {
		if b.nodes[n] != nil && len(b.nodes[n].edges) == 0 {
			b.deleteNode(n)
		}
	}
	glog.V(1).Infof("removed block %d, %d blocks left", r, b.NumRegions())
	return nil
}

// BlocksOutside returns the blocks whose centre is not inside vol
func (b *Blocking) BlocksOutside(vol geometry.Volume) (ids []int) {
	for id, r := range b.regions {
		if r != nil && !vol.IsIn(b.RegionCenter(id)) {
			ids = append(ids, id)
		}
	}
	return
}
