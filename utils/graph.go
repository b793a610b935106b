package utils

import (
	"math"

	"gonum.org/v1/gonum/graph/path"
	"gonum.org/v1/gonum/graph/simple"
)

// Graph is a weighted undirected graph over integer vertex ids, used to find
// shortest paths along the skeleton of a block structure
type Graph struct {
	g *simple.WeightedUndirectedGraph
}

// NewGraph creates a graph holding the given vertices and no edges
func NewGraph(ids []int) (G *Graph) {
	G = &Graph{g: simple.NewWeightedUndirectedGraph(0, math.Inf(1))}
	for _, id := range ids {
		G.addVertex(id)
	}
	return
}

func (G *Graph) addVertex(id int) {
	if G.g.Node(int64(id)) == nil {
		G.g.AddNode(simple.Node(id))
	}
}

// AddEdge connects a and b with weight w, adding missing vertices. Self loops are ignored.
func (G *Graph) AddEdge(a, b int, w float64) {
	if a == b {
		return
	}
	G.addVertex(a)
	G.addVertex(b)
	G.g.SetWeightedEdge(G.g.NewWeightedEdge(simple.Node(a), simple.Node(b), w))
}

// NumVertices returns the number of vertices
func (G *Graph) NumVertices() int { return G.g.Nodes().Len() }

// ShortestPath returns the vertex sequence from -> to and its total weight.
// ok is false when either vertex is unknown or to is unreachable.
func (G *Graph) ShortestPath(from, to int) (verts []int, weight float64, ok bool) {
	if G.g.Node(int64(from)) == nil || G.g.Node(int64(to)) == nil {
		return nil, math.Inf(1), false
	}
	sp := path.DijkstraFrom(simple.Node(from), G.g)
	nodes, w := sp.To(int64(to))
	if len(nodes) == 0 {
		return nil, math.Inf(1), false
	}
	verts = make([]int, len(nodes))
	for i, n := range nodes {
		verts[i] = int(n.ID())
	}
	return verts, w, true
}
