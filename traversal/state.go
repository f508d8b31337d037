// Package traversal implements the Dijkstra and pruned bidirectional
// Dijkstra traversals the contraction engine and the post-contraction
// distance query are built on, backed by a reusable, sparsely-resettable
// traversal state.
package traversal

import (
	"container/heap"

	"github.com/lintang-b-s/chx/chlen"
	"github.com/lintang-b-s/chx/graph"
)

type nodeDist struct {
	node graph.Node
	dist chlen.Length
}

// nodeDistHeap is a lazy-deletion binary min-heap over (node, dist) pairs:
// stale entries (a node already popped with a shorter distance) are simply
// skipped when encountered rather than removed eagerly, the same scheme
// the reference traversal's std::priority_queue uses.
type nodeDistHeap []nodeDist

func (h nodeDistHeap) Len() int            { return len(h) }
func (h nodeDistHeap) Less(i, j int) bool  { return h[i].dist < h[j].dist }
func (h nodeDistHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *nodeDistHeap) Push(x interface{}) { *h = append(*h, x.(nodeDist)) }
func (h *nodeDistHeap) Pop() interface{} {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}

// State holds one side of a traversal: tentative distances, which nodes
// have been settled, and the frontier heap. It is reused across many
// queries via Init, which resets only what the previous query actually
// touched whenever that is cheaper than a full linear reset.
type State struct {
	distances []chlen.Length
	visited   []bool
	touched   []graph.Node
	queue     nodeDistHeap
	capacity  int
}

// NewState returns an empty traversal state.
func NewState() *State { return &State{} }

// Distance returns the current tentative (or final, once settled)
// distance to u.
func (s *State) Distance(u graph.Node) chlen.Length { return s.distances[u] }

// Visited reports whether u has been settled in the current query.
func (s *State) Visited(u graph.Node) bool { return s.visited[u] }

// Init prepares the state for a fresh query over n nodes, choosing between
// a full dense reset and a sparse reset of only the previously touched
// nodes and queue entries, matching the reference heuristic: dense reset
// when the work of a sparse reset would itself exceed roughly a tenth of
// the graph's size.
func (s *State) Init(n int) {
	lastTouch := len(s.touched) + 2*len(s.queue)
	if lastTouch > s.capacity/10 {
		for i := range s.distances {
			s.distances[i] = chlen.Infinity
		}
		for i := range s.visited {
			s.visited[i] = false
		}
		s.queue = s.queue[:0]
	} else {
		for _, u := range s.touched {
			s.distances[u] = chlen.Infinity
			s.visited[u] = false
		}
		for _, nd := range s.queue {
			s.distances[nd.node] = chlen.Infinity
			s.visited[nd.node] = false
		}
		s.queue = s.queue[:0]
	}
	s.touched = s.touched[:0]

	if n > len(s.distances) {
		grownD := make([]chlen.Length, n)
		copy(grownD, s.distances)
		for i := len(s.distances); i < n; i++ {
			grownD[i] = chlen.Infinity
		}
		s.distances = grownD

		grownV := make([]bool, n)
		copy(grownV, s.visited)
		s.visited = grownV
	}
	s.capacity = n
}

func (s *State) push(u graph.Node, d chlen.Length) {
	heap.Push(&s.queue, nodeDist{node: u, dist: d})
}

// popMin returns the next unsettled node and its distance, skipping stale
// (already-visited) entries. ok is false when the frontier is empty.
func (s *State) popMin() (nd nodeDist, ok bool) {
	for s.queue.Len() > 0 {
		nd = heap.Pop(&s.queue).(nodeDist)
		if !s.visited[nd.node] {
			return nd, true
		}
	}
	return nodeDist{}, false
}

func (s *State) settle(u graph.Node) {
	s.visited[u] = true
	s.touched = append(s.touched, u)
}
