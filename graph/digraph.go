// Package graph implements a growable directed multigraph over densely
// indexed nodes, the container the contraction engine and both Dijkstra
// variants operate on.
package graph

import "github.com/lintang-b-s/chx/chlen"

// Node is a dense node index in [0, N()).
type Node int32

// Head is the destination half of an edge: where it goes and how long it
// is. Edges are stored as a Head hanging off the source node's adjacency
// slice, matching the out_neighb[src] = []head shape of the reference
// digraph.
type Head struct {
	To  Node
	Len chlen.Length
}

// Edge is a Head together with its source.
type Edge struct {
	From Node
	Head
}

// Digraph is a directed multigraph: it can only grow (new nodes, new
// edges), duplicate parallel edges are allowed, and adjacency is a dense
// per-node slice of Heads.
type Digraph struct {
	out [][]Head
	m   int
}

// New returns an empty graph.
func New() *Digraph { return &Digraph{} }

// NewWithNodes returns a graph with n nodes (0..n-1) and no edges.
func NewWithNodes(n int) *Digraph {
	g := &Digraph{out: make([][]Head, n)}
	return g
}

// N returns the number of nodes.
func (g *Digraph) N() int { return len(g.out) }

// M returns the number of edges.
func (g *Digraph) M() int { return g.m }

// OutDegree returns the number of out-edges of u.
func (g *Digraph) OutDegree(u Node) int { return len(g.out[u]) }

// AddNode grows the graph so that node u exists, if it doesn't already.
func (g *Digraph) AddNode(u Node) {
	if int(u) >= len(g.out) {
		grown := make([][]Head, int(u)+1)
		copy(grown, g.out)
		g.out = grown
	}
}

// AddEdge appends an edge src->hd.To of length hd.Len. Parallel edges and
// self loops are both permitted; no deduplication is performed.
func (g *Digraph) AddEdge(src Node, hd Head) {
	g.AddNode(src)
	g.AddNode(hd.To)
	g.out[src] = append(g.out[src], hd)
	g.m++
}

// AddEdgeLen is a convenience wrapper around AddEdge.
func (g *Digraph) AddEdgeLen(src, dst Node, l chlen.Length) {
	g.AddEdge(src, Head{To: dst, Len: l})
}

// UpdateEdge looks for an edge src->dst. If found, it lowers the edge's
// length to l when l is smaller than the stored length, and reports false
// (the edge already existed). If no such edge exists, UpdateEdge appends a
// new one and reports true (an edge was added). The scan is linear in
// out-degree of src.
func (g *Digraph) UpdateEdge(src, dst Node, l chlen.Length) bool {
	for i := range g.out[src] {
		if g.out[src][i].To == dst {
			if l < g.out[src][i].Len {
				g.out[src][i].Len = l
			}
			return false
		}
	}
	g.AddEdgeLen(src, dst, l)
	return true
}

// OutNeighbors returns the out-heads of u. The returned slice aliases
// internal storage and must not be mutated by the caller.
func (g *Digraph) OutNeighbors(u Node) []Head { return g.out[u] }

// Reverse returns a new graph with every edge's direction flipped.
func (g *Digraph) Reverse() *Digraph {
	r := NewWithNodes(g.N())
	for u := 0; u < g.N(); u++ {
		for _, hd := range g.out[u] {
			r.AddEdgeLen(hd.To, Node(u), hd.Len)
		}
	}
	return r
}

// NoLoop returns a copy of g with self loops (edges u->u) removed.
func (g *Digraph) NoLoop() *Digraph {
	r := NewWithNodes(g.N())
	for u := 0; u < g.N(); u++ {
		for _, hd := range g.out[u] {
			if hd.To == Node(u) {
				continue
			}
			r.AddEdge(Node(u), hd)
		}
	}
	return r
}

// ToEdges flattens the graph into an edge list.
func (g *Digraph) ToEdges() []Edge {
	edges := make([]Edge, 0, g.m)
	for u := 0; u < g.N(); u++ {
		for _, hd := range g.out[u] {
			edges = append(edges, Edge{From: Node(u), Head: hd})
		}
	}
	return edges
}

// Subgraph builds the induced subgraph over the nodes for which keep
// returns true. Kept nodes are densely re-indexed in their original
// relative order; edges with either endpoint dropped are omitted. It
// returns the new graph and, for every new node index, the original node
// it corresponds to.
func (g *Digraph) Subgraph(keep func(Node) bool) (*Digraph, []Node) {
	newIdx := make([]int32, g.N())
	origOf := make([]Node, 0, g.N())
	for u := 0; u < g.N(); u++ {
		if keep(Node(u)) {
			newIdx[u] = int32(len(origOf))
			origOf = append(origOf, Node(u))
		} else {
			newIdx[u] = -1
		}
	}
	sg := NewWithNodes(len(origOf))
	for u := 0; u < g.N(); u++ {
		if newIdx[u] < 0 {
			continue
		}
		for _, hd := range g.out[u] {
			if newIdx[hd.To] < 0 {
				continue
			}
			sg.AddEdgeLen(Node(newIdx[u]), Node(newIdx[hd.To]), hd.Len)
		}
	}
	return sg, origOf
}
