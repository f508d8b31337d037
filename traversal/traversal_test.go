package traversal_test

import (
	"testing"

	"github.com/lintang-b-s/chx/chlen"
	"github.com/lintang-b-s/chx/graph"
	"github.com/lintang-b-s/chx/traversal"
	"github.com/stretchr/testify/assert"
)

func smallGraph() *graph.Digraph {
	g := graph.New()
	edges := [][3]int32{
		{0, 1, 1}, {1, 2, 1}, {2, 3, 1}, {3, 4, 1},
		{0, 4, 10}, {2, 5, 10}, {5, 6, 1}, {6, 3, 1},
		{4, 0, 3}, {5, 1, 1}, {3, 3, 2}, {4, 7, 10},
		{7, 8, 5}, {8, 9, 2}, {9, 7, 1}, {6, 9, 1}, {10, 10, 1},
	}
	for _, e := range edges {
		g.AddEdgeLen(graph.Node(e[0]), graph.Node(e[1]), chlen.Length(e[2]))
	}
	return g
}

func TestDijkstraCorrectness(t *testing.T) {
	g := smallGraph()
	s := traversal.NewState()

	t.Run("distances from node 0", func(t *testing.T) {
		s.Dijkstra(g, 0, nil)
		assert.Equal(t, chlen.Length(0), s.Distance(0))
		assert.Equal(t, chlen.Length(1), s.Distance(1))
		assert.Equal(t, chlen.Length(2), s.Distance(2))
		assert.Equal(t, chlen.Length(3), s.Distance(3))
		assert.Equal(t, chlen.Length(4), s.Distance(4))
		assert.Equal(t, chlen.Length(14), s.Distance(7))
		assert.False(t, s.Visited(10))
	})

	t.Run("unreachable node stays at infinity", func(t *testing.T) {
		s.Dijkstra(g, 10, nil)
		assert.Equal(t, chlen.Infinity, s.Distance(0))
	})

	t.Run("filter excludes a node from being relaxed through", func(t *testing.T) {
		// node 2's only in-edge comes from node 1; rejecting node 1 makes
		// node 2 unreachable from anywhere.
		s.Dijkstra(g, 0, func(v graph.Node, d chlen.Length) bool { return v != 1 })
		assert.Equal(t, chlen.Infinity, s.Distance(1))
		assert.Equal(t, chlen.Infinity, s.Distance(2))
	})

	t.Run("reuse after Init resets stale state", func(t *testing.T) {
		s.Dijkstra(g, 0, nil)
		first := s.Distance(4)
		s.Dijkstra(g, 6, nil)
		assert.NotEqual(t, first, s.Distance(4)) // state fully refreshed for new source
	})
}

func TestBidirEquivalence(t *testing.T) {
	g := smallGraph()
	rev := g.Reverse()

	for src := graph.Node(0); src < graph.Node(g.N()); src++ {
		dij := traversal.NewState()
		dij.Dijkstra(g, src, nil)

		for dst := graph.Node(0); dst < graph.Node(g.N()); dst++ {
			fwdState := traversal.NewState()
			bwdState := traversal.NewState()
			got := traversal.Bidir(g, rev, fwdState, bwdState, src, dst, chlen.Infinity, false, nil)
			assert.Equalf(t, dij.Distance(dst), got, "src=%d dst=%d", src, dst)
		}
	}
}

func TestBidirDistinctStatesRequired(t *testing.T) {
	g := smallGraph()
	s := traversal.NewState()
	assert.Panics(t, func() {
		traversal.Bidir(g, g.Reverse(), s, s, 0, 1, chlen.Infinity, false, nil)
	})
}

func TestBidirPrunedRespectsLimit(t *testing.T) {
	g := smallGraph()
	rev := g.Reverse()
	fwdState := traversal.NewState()
	bwdState := traversal.NewState()

	// True distance 0->7 is 14, which is not below the limit of 5, so the
	// search may return any value at or above the limit.
	got := traversal.Bidir(g, rev, fwdState, bwdState, 0, 7, 5, true, nil)
	assert.GreaterOrEqual(t, got, chlen.Length(5))
}
