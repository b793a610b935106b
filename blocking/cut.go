package blocking

import (
	"math"
	"sort"

	"github.com/golang/glog"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/spatial/r3"
)

// CutInfo locates a cut: parameter Param along Edge, measured from its first
// node, lies Distance away from the target point
type CutInfo struct {
	Edge     int
	Param    float64
	Distance float64
}

// cutBlock records how one block of the sheet is split
type cutBlock struct {
	region  int
	link    Link
	corners [8]int
	near    [4]int // local corners on the first side, in face order
	far     [4]int // local corners reached from near through the sheet edges
}

type cutPlan struct {
	blocks      []cutBlock
	second      map[int]int // first node -> second node
	sheetEdge   map[int]int // first node -> sheet edge
	insideFaces map[[2]int]int
}

func sameSet(a, b [4]int) bool {
	sa, sb := a, b
	sort.Ints(sa[:])
	sort.Ints(sb[:])
	return sa == sb
}

// planCut checks that every block of the sheet is crossed by exactly four
// parallel sheet edges and gathers what the cut replaces. Nothing is mutated.
func (b *Blocking) planCut(sh *Sheet) (plan *cutPlan, err error) {
	plan = &cutPlan{
		second:      make(map[int]int),
		sheetEdge:   make(map[int]int),
		insideFaces: make(map[[2]int]int),
	}
	seconds := make(map[int]bool)
	for _, e := range sh.Edges {
		o := sh.Orient[e]
		seconds[o[1]] = true
		if s, ok := plan.second[o[0]]; ok && s != o[1] {
			return nil, errors.Wrapf(ErrUnsupportedCut, "node %d starts two sheet edges", o[0])
		}
		plan.second[o[0]] = o[1]
		plan.sheetEdge[o[0]] = e
	}
	for f := range plan.second {
		if seconds[f] {
			return nil, errors.Wrapf(ErrUnsupportedCut, "node %d is on both sides of the sheet", f)
		}
	}
	for _, r := range sh.Regions {
		region := b.regions[r]
		cb := cutBlock{region: r, link: region.Link, corners: region.Nodes}
		var (
			pairs    [][2]int
			nearSet  [4]int
			farSet   [4]int
			nearFace = -1
			farFace  = -1
		)
		for _, e := range region.Edges {
			if o, ok := sh.Orient[e]; ok {
				pairs = append(pairs, [2]int{localIndex(region.Nodes, o[0]), localIndex(region.Nodes, o[1])})
			}
		}
		if len(pairs) != 4 {
			return nil, errors.Wrapf(ErrUnsupportedCut, "block %d has %d sheet edges", r, len(pairs))
		}
		for i, p := range pairs {
			nearSet[i], farSet[i] = p[0], p[1]
		}
		for i, lf := range hexFaces {
			switch {
			case sameSet(lf, nearSet):
				nearFace = i
			case sameSet(lf, farSet):
				farFace = i
			}
		}
		if nearFace < 0 || farFace < 0 {
			return nil, errors.Wrapf(ErrUnsupportedCut, "sheet edges of block %d are not parallel", r)
		}
		cb.near = hexFaces[nearFace]
		for i, c := range cb.near {
			for _, p := range pairs {
				if p[0] == c {
					cb.far[i] = p[1]
				}
			}
		}
		for i, f := range region.Faces {
			if i == nearFace || i == farFace {
				continue
			}
			var onNear []int
			for _, n := range b.faces[f].Nodes {
				if _, ok := plan.second[n]; ok {
					onNear = append(onNear, n)
				}
			}
			if len(onNear) != 2 {
				return nil, errors.Wrapf(ErrUnsupportedCut, "face %d of block %d crosses the sheet", f, r)
			}
			plan.insideFaces[edgeKey(onNear[0], onNear[1])] = f
		}
		plan.blocks = append(plan.blocks, cb)
	}
	return plan, nil
}

// CutSheet inserts a layer of blocks half way along the sheet of edge e
func (b *Blocking) CutSheet(e int) error {
	edge := b.Edge(e)
	if edge == nil {
		return errors.Wrapf(ErrUnknownCell, "edge %d", e)
	}
	return b.CutSheetAt(e, edge.Nodes[0], 0.5)
}

// CutSheetByPoint cuts the sheet of edge e where p projects orthogonally on e
func (b *Blocking) CutSheetByPoint(e int, p r3.Vec) error {
	edge := b.Edge(e)
	if edge == nil {
		return errors.Wrapf(ErrUnknownCell, "edge %d", e)
	}
	p0, p1 := b.nodes[edge.Nodes[0]].Location, b.nodes[edge.Nodes[1]].Location
	v := r3.Sub(p1, p0)
	t := r3.Dot(r3.Sub(p, p0), v) / r3.Norm2(v)
	return b.CutSheetAt(e, edge.Nodes[0], t)
}

// CutSheetAt inserts a layer of blocks at parameter t in (0,1) along every edge
// of the sheet of e, t being measured from node start on e. Each block of the
// sheet is replaced by two blocks. The structure is left untouched on error.
func (b *Blocking) CutSheetAt(e, start int, t float64) error {
	if !(t > 0 && t < 1) {
		return errors.Wrapf(ErrInvalidParameter, "cut parameter %g outside (0,1)", t)
	}
	sh, err := b.GetSheet(e, start)
	if err != nil {
		return err
	}
	plan, err := b.planCut(sh)
	if err != nil {
		return err
	}
	if err := b.applyCut(sh, plan, t); err != nil {
		return errors.Wrapf(err, "cutting sheet of edge %d", e)
	}
	glog.V(1).Infof("cut sheet of edge %d at %g: %d blocks split", e, t, len(plan.blocks))
	return nil
}

// applyCut builds the cells around the new nodes. Reused cells only merge
// with None, an error means the structure was already inconsistent.
func (b *Blocking) applyCut(sh *Sheet, plan *cutPlan, t float64) (err error) {
	var (
		edgeLink = make(map[int]Link, len(plan.second))
		faceLink = make(map[[2]int]Link, len(plan.insideFaces))
		firsts   = make([]int, 0, len(plan.second))
		mid      = make(map[int]int, len(plan.second))
	)
	for f, e := range plan.sheetEdge {
		edgeLink[f] = b.edges[e].Link
		firsts = append(firsts, f)
	}
	sort.Ints(firsts)
	for k, f := range plan.insideFaces {
		faceLink[k] = b.faces[f].Link
	}

	for _, cb := range plan.blocks {
		b.deleteRegion(cb.region)
	}
	for _, f := range plan.insideFaces {
		b.deleteFace(f)
	}
	for _, e := range sh.Edges {
		b.deleteEdge(e)
	}

	// One new node and two half edges per sheet edge
	for _, f := range firsts {
		s := plan.second[f]
		p := r3.Add(r3.Scale(1-t, b.nodes[f].Location), r3.Scale(t, b.nodes[s].Location))
		m := b.createNode(p, edgeLink[f])
		if err := b.MoveNode(m, p); err != nil {
			glog.Warningf("cut node %d kept unprojected: %v", m, err)
		}
		mid[f] = m
		l1, l2 := Split(edgeLink[f])
		if _, err = b.ensureEdge(f, m, l1); err != nil {
			return
		}
		if _, err = b.ensureEdge(m, s, l2); err != nil {
			return
		}
	}

	// One cross edge and two half faces per inside face
	keys := make([][2]int, 0, len(plan.insideFaces))
	for k := range plan.insideFaces {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		return keys[i][0] < keys[j][0] || (keys[i][0] == keys[j][0] && keys[i][1] < keys[j][1])
	})
	for _, k := range keys {
		i, j := k[0], k[1]
		l := faceLink[k]
		if _, err = b.ensureEdge(mid[i], mid[j], l); err != nil {
			return
		}
		l1, l2 := Split(l)
		if _, err = b.ensureFace([4]int{i, j, mid[j], mid[i]}, l1); err != nil {
			return
		}
		if _, err = b.ensureFace([4]int{mid[i], mid[j], plan.second[j], plan.second[i]}, l2); err != nil {
			return
		}
	}

	// Two blocks per old block, separated by the new middle face
	for _, cb := range plan.blocks {
		var quad [4]int
		nearHex, farHex := cb.corners, cb.corners
		for i, c := range cb.near {
			m := mid[cb.corners[c]]
			quad[i] = m
			nearHex[cb.far[i]] = m
			farHex[c] = m
		}
		if _, err = b.ensureFace(quad, cb.link); err != nil {
			return
		}
		l1, l2 := Split(cb.link)
		if _, err = b.createBlock(nearHex, BlockLinks{Region: l1}); err != nil {
			return
		}
		if _, err = b.createBlock(farHex, BlockLinks{Region: l2}); err != nil {
			return
		}
	}
	return nil
}

// ProjectOnEdge returns the distance from p to edge e and the parameter of
// the closest point, clamped to [0,1]
func (b *Blocking) ProjectOnEdge(p r3.Vec, e int) (dist, coord float64) {
	edge := b.edges[e]
	p0, p1 := b.nodes[edge.Nodes[0]].Location, b.nodes[edge.Nodes[1]].Location
	v1, v2 := r3.Sub(p1, p0), r3.Sub(p, p0)
	a, l2 := r3.Dot(v1, v2), r3.Norm2(v1)
	switch {
	case a <= 0:
		return r3.Norm(v2), 0
	case a >= l2:
		return r3.Norm(r3.Sub(p, p1)), 1
	}
	coord = a / l2
	return r3.Norm(r3.Sub(p, r3.Add(p0, r3.Scale(coord, v1)))), coord
}

// GetCutInfo returns the closest interior projection of p among edges.
// ok is false when p projects on none of them strictly between their ends.
func (b *Blocking) GetCutInfo(p r3.Vec, edges []int) (ci CutInfo, ok bool) {
	ci = CutInfo{Edge: -1, Distance: math.Inf(1)}
	for _, e := range edges {
		if b.Edge(e) == nil {
			continue
		}
		dist, coord := b.ProjectOnEdge(p, e)
		if coord > 0 && coord < 1 && dist < ci.Distance {
			ci = CutInfo{Edge: e, Param: coord, Distance: dist}
			ok = true
		}
	}
	return
}

// GetCutInfoForPoint is GetCutInfo for the location of a geometric point
func (b *Blocking) GetCutInfoForPoint(pointID int, edges []int) (CutInfo, bool) {
	if b.model == nil {
		return CutInfo{Edge: -1}, false
	}
	pt := b.model.Point(pointID)
	if pt == nil {
		return CutInfo{Edge: -1}, false
	}
	return b.GetCutInfo(pt.Location(), edges)
}
