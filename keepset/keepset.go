// Package keepset builds a distance-preserver keep-set by snapping a list
// of query coordinates to their nearest node in an imported road graph. It
// is a host-layer convenience for the distance-preserver output mode: the
// core never reasons about coordinates, it only ever sees the resulting
// set of node indices to never contract.
package keepset

import (
	"github.com/dhconnelly/rtreego"

	"github.com/lintang-b-s/chx/geoimport"
	"github.com/lintang-b-s/chx/graph"
)

const tol = 0.0001

// nodeLeaf is the rtree spatial index entry for one graph node: a point
// bounded by a small fixed-size rectangle, the same convention the
// reference street index uses for its own point entries.
type nodeLeaf struct {
	point rtreego.Point
	node  graph.Node
}

func (l *nodeLeaf) Bounds() rtreego.Rect {
	return l.point.ToRect(tol)
}

// Index is an R-tree over a graph's node coordinates, answering
// nearest-node queries for arbitrary latitude/longitude pairs.
type Index struct {
	tree *rtreego.Rtree
}

// Build indexes every coordinate in coords, whose length must match the
// node count of the graph the coordinates were produced alongside.
func Build(coords *geoimport.Coords) *Index {
	tree := rtreego.NewTree(2, 25, 50)
	for u := range coords.Lat {
		leaf := &nodeLeaf{
			point: rtreego.Point{coords.Lat[u], coords.Lon[u]},
			node:  graph.Node(u),
		}
		tree.Insert(leaf)
	}
	return &Index{tree: tree}
}

// Nearest returns the node whose indexed coordinate is closest to
// (lat, lon), and false if the index is empty.
func (idx *Index) Nearest(lat, lon float64) (graph.Node, bool) {
	q := rtreego.Point{lat, lon}
	results := idx.tree.NearestNeighbors(1, q)
	if len(results) == 0 {
		return 0, false
	}
	return results[0].(*nodeLeaf).node, true
}

// KeepSet snaps each query coordinate to its nearest node and returns the
// set of resulting node indices, ready to hand to contractor.New as the
// set of nodes that must never be contracted.
func KeepSet(coords *geoimport.Coords, queries [][2]float64) map[graph.Node]bool {
	idx := Build(coords)
	keep := make(map[graph.Node]bool, len(queries))
	for _, q := range queries {
		if u, ok := idx.Nearest(q[0], q[1]); ok {
			keep[u] = true
		}
	}
	return keep
}
