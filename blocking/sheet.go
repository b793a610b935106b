package blocking

import (
	"github.com/pkg/errors"
)

// Sheet is a layer of blocks crossed by a maximal set of topologically
// parallel edges
type Sheet struct {
	Edges   []int          // in discovery order
	Orient  map[int][2]int // edge -> (first, second) node, consistent across the sheet
	Regions []int          // in discovery order
}

type directedEdge struct {
	edge, first int
}

// GetSheet propagates from edge e, oriented from node start, through every
// block the parallel edges cross. A negative start uses the first node of e.
func (b *Blocking) GetSheet(e, start int) (*Sheet, error) {
	edge := b.Edge(e)
	if edge == nil {
		return nil, errors.Wrapf(ErrUnknownCell, "edge %d", e)
	}
	if start < 0 {
		start = edge.Nodes[0]
	}
	if start != edge.Nodes[0] && start != edge.Nodes[1] {
		return nil, errors.Wrapf(ErrInvalidParameter, "node %d is not an end of edge %d", start, e)
	}
	var (
		sh = &Sheet{
			Edges:  []int{e},
			Orient: map[int][2]int{e: {start, edge.Other(start)}},
		}
		seenRegions = make(map[int]bool)
		front       = []directedEdge{{e, start}}
	)
	for len(front) > 0 {
		cur := front[0]
		front = front[1:]
		n0, n1 := sh.Orient[cur.edge][0], sh.Orient[cur.edge][1]
		for _, f := range b.edges[cur.edge].faces {
			for _, r := range b.faces[f].regions {
				if seenRegions[r] {
					continue
				}
				seenRegions[r] = true
				sh.Regions = append(sh.Regions, r)
				corners := b.regions[r].Nodes
				par, err := ParallelEdges(localIndex(corners, n0), localIndex(corners, n1))
				if err != nil {
					return nil, errors.Wrapf(err, "block %d", r)
				}
				for _, p := range par {
					s, t := corners[p[0]], corners[p[1]]
					pe, err := b.GetEdge(s, t)
					if err != nil {
						return nil, errors.Wrapf(err, "block %d", r)
					}
					if _, seen := sh.Orient[pe]; seen {
						continue
					}
					sh.Orient[pe] = [2]int{s, t}
					sh.Edges = append(sh.Edges, pe)
					front = append(front, directedEdge{pe, s})
				}
			}
		}
	}
	return sh, nil
}

// GetAllSheetEdges returns the edges of the sheet containing edge e
func (b *Blocking) GetAllSheetEdges(e int) ([]int, error) {
	sh, err := b.GetSheet(e, -1)
	if err != nil {
		return nil, err
	}
	return sh.Edges, nil
}

// GetAllSheetEdgeSets partitions every edge of the structure into sheets
func (b *Blocking) GetAllSheetEdgeSets() (sets [][]int, err error) {
	assigned := make(map[int]bool)
	for id, e := range b.edges {
		if e == nil || assigned[id] {
			continue
		}
		var edges []int
		if edges, err = b.GetAllSheetEdges(id); err != nil {
			return nil, err
		}
		for _, s := range edges {
			assigned[s] = true
		}
		sets = append(sets, edges)
	}
	return
}
