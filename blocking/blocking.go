// Package blocking maintains a block structure: a conforming decomposition of
// a 3-D domain into hexahedral blocks, with every node, edge, face and block
// classified on the entity of a geometric model it lies on.
//
// Cells live in per-dimension arenas and refer to each other by integer id.
// Ids are stable for the life of a cell and are never reused. All operations
// are synchronous and a Blocking must not be mutated concurrently.
package blocking

import (
	"sort"

	"github.com/golang/glog"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/notargets/goblock/geometry"
	"github.com/notargets/goblock/mesh"
)

type Node struct {
	ID       int
	Location r3.Vec
	Link     Link
	edges    []int
}

// Edges returns the ids of the edges incident to the node
func (n *Node) Edges() []int { return append([]int(nil), n.edges...) }

type Edge struct {
	ID    int
	Nodes [2]int
	Link  Link
	faces []int
}

// Faces returns the ids of the faces incident to the edge
func (e *Edge) Faces() []int { return append([]int(nil), e.faces...) }

// Other returns the end of the edge opposite to node n
func (e *Edge) Other(n int) int {
	if e.Nodes[0] == n {
		return e.Nodes[1]
	}
	return e.Nodes[0]
}

type Face struct {
	ID      int
	Nodes   [4]int // cyclic order
	Edges   [4]int // Edges[i] joins Nodes[i] and Nodes[i+1]
	Link    Link
	regions []int
}

// Regions returns the ids of the blocks incident to the face
func (f *Face) Regions() []int { return append([]int(nil), f.regions...) }

// Region is a hexahedral block, corners in the local numbering of hexFaces
type Region struct {
	ID    int
	Nodes [8]int
	Edges [12]int
	Faces [6]int
	Link  Link
}

type Blocking struct {
	model     geometry.Model
	nodes     []*Node
	edges     []*Edge
	faces     []*Face
	regions   []*Region
	edgeIndex map[[2]int]int
	faceIndex map[[4]int]int
}

// New returns an empty block structure bound to model, which may be nil
func New(model geometry.Model) *Blocking {
	return &Blocking{
		model:     model,
		edgeIndex: make(map[[2]int]int),
		faceIndex: make(map[[4]int]int),
	}
}

// NewFromBoundingBox returns a single block covering the bounding box of the model
func NewFromBoundingBox(model geometry.Model) *Blocking {
	var (
		b      = New(model)
		bb     = model.BoundingBox()
		lo, hi = bb.Min, bb.Max
		nodes  [8]int
	)
	for i, p := range []r3.Vec{
		{X: lo.X, Y: lo.Y, Z: lo.Z}, {X: lo.X, Y: hi.Y, Z: lo.Z},
		{X: hi.X, Y: hi.Y, Z: lo.Z}, {X: hi.X, Y: lo.Y, Z: lo.Z},
		{X: lo.X, Y: lo.Y, Z: hi.Z}, {X: lo.X, Y: hi.Y, Z: hi.Z},
		{X: hi.X, Y: hi.Y, Z: hi.Z}, {X: hi.X, Y: lo.Y, Z: hi.Z},
	} {
		nodes[i] = b.CreateNode(p)
	}
	if _, err := b.CreateBlock(nodes); err != nil {
		// Eight fresh distinct nodes always form a block
		panic(err)
	}
	return b
}

// NewFromMesh copies the hexahedra of an imported mesh one to one. Any other
// element type is rejected.
func NewFromMesh(model geometry.Model, m *mesh.Mesh) (*Blocking, error) {
	b := New(model)
	vertexNode := make(map[int]int)
	for elem, verts := range m.EtoV {
		if m.ElementTypes[elem] != mesh.Hex || len(verts) != 8 {
			return nil, errors.Wrapf(ErrMalformedInput, "element %d is a %s with %d vertices",
				elem, m.ElementTypes[elem], len(verts))
		}
		var corners [8]int
		for i := range corners {
			v := verts[vtkOrder[i]]
			id, ok := vertexNode[v]
			if !ok {
				x := m.Vertices[v]
				id = b.CreateNode(r3.Vec{X: x[0], Y: x[1], Z: x[2]})
				vertexNode[v] = id
			}
			corners[i] = id
		}
		if _, err := b.CreateBlock(corners); err != nil {
			return nil, errors.Wrapf(err, "element %d", elem)
		}
	}
	glog.V(1).Infof("imported %d blocks, %d nodes", b.NumRegions(), b.NumNodes())
	return b, nil
}

func (b *Blocking) Model() geometry.Model { return b.model }

// Node returns the node with the given id, or nil if there is none
func (b *Blocking) Node(id int) *Node {
	if id < 0 || id >= len(b.nodes) {
		return nil
	}
	return b.nodes[id]
}

func (b *Blocking) Edge(id int) *Edge {
	if id < 0 || id >= len(b.edges) {
		return nil
	}
	return b.edges[id]
}

func (b *Blocking) Face(id int) *Face {
	if id < 0 || id >= len(b.faces) {
		return nil
	}
	return b.faces[id]
}

func (b *Blocking) Region(id int) *Region {
	if id < 0 || id >= len(b.regions) {
		return nil
	}
	return b.regions[id]
}

func liveIDs[T any](cells []*T) (ids []int) {
	for id, c := range cells {
		if c != nil {
			ids = append(ids, id)
		}
	}
	return
}

func (b *Blocking) NodeIDs() []int   { return liveIDs(b.nodes) }
func (b *Blocking) EdgeIDs() []int   { return liveIDs(b.edges) }
func (b *Blocking) FaceIDs() []int   { return liveIDs(b.faces) }
func (b *Blocking) RegionIDs() []int { return liveIDs(b.regions) }

func (b *Blocking) NumNodes() int   { return len(liveIDs(b.nodes)) }
func (b *Blocking) NumEdges() int   { return len(liveIDs(b.edges)) }
func (b *Blocking) NumFaces() int   { return len(liveIDs(b.faces)) }
func (b *Blocking) NumRegions() int { return len(liveIDs(b.regions)) }

func edgeKey(a, b int) [2]int {
	if a > b {
		a, b = b, a
	}
	return [2]int{a, b}
}

func faceKey(nodes [4]int) [4]int {
	k := nodes
	sort.Ints(k[:])
	return k
}

// CreateNode adds an unclassified node at p
func (b *Blocking) CreateNode(p r3.Vec) int {
	return b.createNode(p, Link{})
}

func (b *Blocking) createNode(p r3.Vec, l Link) int {
	id := len(b.nodes)
	b.nodes = append(b.nodes, &Node{ID: id, Location: p, Link: l})
	return id
}

// GetEdge returns the edge joining nodes n1 and n2
func (b *Blocking) GetEdge(n1, n2 int) (int, error) {
	if id, ok := b.edgeIndex[edgeKey(n1, n2)]; ok {
		return id, nil
	}
	return -1, errors.Wrapf(ErrEdgeNotFound, "between nodes %d and %d", n1, n2)
}

// findFace returns the face on exactly these four nodes
func (b *Blocking) findFace(nodes [4]int) (int, bool) {
	id, ok := b.faceIndex[faceKey(nodes)]
	return id, ok
}

// edgeLink returns the link of the edge on n1 n2, None when there is no such edge
func (b *Blocking) edgeLink(n1, n2 int) Link {
	if id, ok := b.edgeIndex[edgeKey(n1, n2)]; ok {
		return b.edges[id].Link
	}
	return Link{}
}

func (b *Blocking) faceLink(nodes [4]int) Link {
	if id, ok := b.findFace(nodes); ok {
		return b.faces[id].Link
	}
	return Link{}
}

// ensureEdge returns the edge on n1 n2, creating it with link l when missing.
// An existing edge takes the merge of its link and l.
func (b *Blocking) ensureEdge(n1, n2 int, l Link) (id int, err error) {
	if id, ok := b.edgeIndex[edgeKey(n1, n2)]; ok {
		merged, err := Merge(b.edges[id].Link, l)
		if err != nil {
			return id, errors.Wrapf(err, "edge %d", id)
		}
		b.edges[id].Link = merged
		return id, nil
	}
	id = len(b.edges)
	b.edges = append(b.edges, &Edge{ID: id, Nodes: [2]int{n1, n2}, Link: l})
	b.edgeIndex[edgeKey(n1, n2)] = id
	b.nodes[n1].edges = append(b.nodes[n1].edges, id)
	b.nodes[n2].edges = append(b.nodes[n2].edges, id)
	return
}

// ensureFace is ensureEdge for the face on nodes. Missing boundary edges are
// created unclassified.
func (b *Blocking) ensureFace(nodes [4]int, l Link) (id int, err error) {
	if id, ok := b.findFace(nodes); ok {
		merged, err := Merge(b.faces[id].Link, l)
		if err != nil {
			return id, errors.Wrapf(err, "face %d", id)
		}
		b.faces[id].Link = merged
		return id, nil
	}
	id = len(b.faces)
	f := &Face{ID: id, Nodes: nodes, Link: l}
	for i := range nodes {
		var e int
		if e, err = b.ensureEdge(nodes[i], nodes[(i+1)%4], Link{}); err != nil {
			return -1, err
		}
		f.Edges[i] = e
		b.edges[e].faces = append(b.edges[e].faces, id)
	}
	b.faces = append(b.faces, f)
	b.faceIndex[faceKey(nodes)] = id
	return
}

// BlockLinks classifies a block and its cells, edges and faces in the local
// numbering of hexEdges and hexFaces
type BlockLinks struct {
	Region Link
	Edges  [12]Link
	Faces  [6]Link
}

// CreateBlock adds an unclassified block on eight existing nodes given in the
// local corner numbering. Existing edges and faces on the same nodes are
// reused, missing ones are created unclassified.
func (b *Blocking) CreateBlock(nodes [8]int) (int, error) {
	return b.CreateLinkedBlock(nodes, BlockLinks{})
}

// CreateLinkedBlock is CreateBlock with classified cells. A reused edge or face
// takes the merge of its link and the given one. A merge conflict is reported
// before anything is created.
func (b *Blocking) CreateLinkedBlock(nodes [8]int, links BlockLinks) (int, error) {
	seen := make(map[int]bool, 8)
	for _, n := range nodes {
		if b.Node(n) == nil {
			return -1, errors.Wrapf(ErrUnknownCell, "node %d", n)
		}
		if seen[n] {
			return -1, errors.Wrapf(ErrMalformedInput, "node %d repeated in block %v", n, nodes)
		}
		seen[n] = true
	}
	if _, err := Merge(Link{}, links.Region); err != nil {
		return -1, err
	}
	for i, le := range hexEdges {
		if _, err := Merge(b.edgeLink(nodes[le[0]], nodes[le[1]]), links.Edges[i]); err != nil {
			return -1, errors.Wrapf(err, "block edge %d", i)
		}
	}
	for i, lf := range hexFaces {
		fn := [4]int{nodes[lf[0]], nodes[lf[1]], nodes[lf[2]], nodes[lf[3]]}
		if id, ok := b.findFace(fn); ok && len(b.faces[id].regions) >= 2 {
			return -1, errors.Wrapf(ErrMalformedInput, "face %d already bounds two blocks", id)
		}
		if _, err := Merge(b.faceLink(fn), links.Faces[i]); err != nil {
			return -1, errors.Wrapf(err, "block face %d", i)
		}
	}
	return b.createBlock(nodes, links)
}

func (b *Blocking) createBlock(nodes [8]int, links BlockLinks) (id int, err error) {
	id = len(b.regions)
	r := &Region{ID: id, Nodes: nodes, Link: links.Region}
	for i, le := range hexEdges {
		if r.Edges[i], err = b.ensureEdge(nodes[le[0]], nodes[le[1]], links.Edges[i]); err != nil {
			return -1, err
		}
	}
	for i, lf := range hexFaces {
		var f int
		if f, err = b.ensureFace([4]int{nodes[lf[0]], nodes[lf[1]], nodes[lf[2]], nodes[lf[3]]}, links.Faces[i]); err != nil {
			return -1, err
		}
		r.Faces[i] = f
		b.faces[f].regions = append(b.faces[f].regions, id)
	}
	b.regions = append(b.regions, r)
	return
}

func removeID(ids []int, id int) []int {
	for i, v := range ids {
		if v == id {
			return append(ids[:i], ids[i+1:]...)
		}
	}
	return ids
}

func (b *Blocking) deleteRegion(id int) {
	for _, f := range b.regions[id].Faces {
		b.faces[f].regions = removeID(b.faces[f].regions, id)
	}
	b.regions[id] = nil
}

func (b *Blocking) deleteFace(id int) {
	f := b.faces[id]
	for _, e := range f.Edges {
		b.edges[e].faces = removeID(b.edges[e].faces, id)
	}
	delete(b.faceIndex, faceKey(f.Nodes))
	b.faces[id] = nil
}

func (b *Blocking) deleteEdge(id int) {
	e := b.edges[id]
	for _, n := range e.Nodes {
		b.nodes[n].edges = removeID(b.nodes[n].edges, id)
	}
	delete(b.edgeIndex, edgeKey(e.Nodes[0], e.Nodes[1]))
	b.edges[id] = nil
}

func (b *Blocking) deleteNode(id int) { b.nodes[id] = nil }

// NodeRegions returns the blocks having node n as a corner
func (b *Blocking) NodeRegions(n int) (ids []int) {
	seen := make(map[int]bool)
	for _, e := range b.nodes[n].edges {
		for _, f := range b.edges[e].faces {
			for _, r := range b.faces[f].regions {
				if !seen[r] {
					seen[r] = true
					ids = append(ids, r)
				}
			}
		}
	}
	sort.Ints(ids)
	return
}

// RegionCenter returns the average of the corners of block r
func (b *Blocking) RegionCenter(r int) (c r3.Vec) {
	for _, n := range b.regions[r].Nodes {
		c = r3.Add(c, b.nodes[n].Location)
	}
	return r3.Scale(1./8, c)
}

// Copy returns a deep copy sharing only the geometric model
func (b *Blocking) Copy() *Blocking {
	c := New(b.model)
	c.nodes = make([]*Node, len(b.nodes))
	for i, n := range b.nodes {
		if n != nil {
			cn := *n
			cn.edges = append([]int(nil), n.edges...)
			c.nodes[i] = &cn
		}
	}
	c.edges = make([]*Edge, len(b.edges))
	for i, e := range b.edges {
		if e != nil {
			ce := *e
			ce.faces = append([]int(nil), e.faces...)
			c.edges[i] = &ce
		}
	}
	c.faces = make([]*Face, len(b.faces))
	for i, f := range b.faces {
		if f != nil {
			cf := *f
			cf.regions = append([]int(nil), f.regions...)
			c.faces[i] = &cf
		}
	}
	c.regions = make([]*Region, len(b.regions))
	for i, r := range b.regions {
		if r != nil {
			cr := *r
			c.regions[i] = &cr
		}
	}
	for k, v := range b.edgeIndex {
		c.edgeIndex[k] = v
	}
	for k, v := range b.faceIndex {
		c.faceIndex[k] = v
	}
	return c
}

// ResetClassification unlinks every cell
func (b *Blocking) ResetClassification() {
	for _, n := range b.nodes {
		if n != nil {
			n.Link = Link{}
		}
	}
	for _, e := range b.edges {
		if e != nil {
			e.Link = Link{}
		}
	}
	for _, f := range b.faces {
		if f != nil {
			f.Link = Link{}
		}
	}
	for _, r := range b.regions {
		if r != nil {
			r.Link = Link{}
		}
	}
}
