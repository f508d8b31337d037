package graph_test

import (
	"testing"

	"github.com/lintang-b-s/chx/chlen"
	"github.com/lintang-b-s/chx/graph"
	"github.com/stretchr/testify/assert"
)

func buildSmall() *graph.Digraph {
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

func TestDigraphBasics(t *testing.T) {
	g := buildSmall()

	t.Run("node and edge counts", func(t *testing.T) {
		assert.Equal(t, 11, g.N())
		assert.Equal(t, 17, g.M())
	})

	t.Run("out neighbors", func(t *testing.T) {
		out := g.OutNeighbors(0)
		assert.ElementsMatch(t, []graph.Head{{To: 1, Len: 1}, {To: 4, Len: 10}}, out)
	})
}

func TestUpdateEdge(t *testing.T) {
	t.Run("appends when absent, reports true", func(t *testing.T) {
		g := graph.NewWithNodes(3)
		added := g.UpdateEdge(0, 2, 5)
		assert.True(t, added)
		assert.Equal(t, 1, g.M())
		assert.Equal(t, []graph.Head{{To: 2, Len: 5}}, g.OutNeighbors(0))
	})

	t.Run("lowers existing edge length, reports false", func(t *testing.T) {
		g := graph.NewWithNodes(3)
		g.AddEdgeLen(0, 2, 5)
		added := g.UpdateEdge(0, 2, 2)
		assert.False(t, added)
		assert.Equal(t, 1, g.M())
		assert.Equal(t, chlen.Length(2), g.OutNeighbors(0)[0].Len)
	})

	t.Run("does not raise an existing shorter edge", func(t *testing.T) {
		g := graph.NewWithNodes(3)
		g.AddEdgeLen(0, 2, 2)
		added := g.UpdateEdge(0, 2, 9)
		assert.False(t, added)
		assert.Equal(t, chlen.Length(2), g.OutNeighbors(0)[0].Len)
	})
}

func TestReverseInvolution(t *testing.T) {
	g := buildSmall()
	back := g.Reverse().Reverse()
	assert.ElementsMatch(t, g.ToEdges(), back.ToEdges())
}

func TestNoLoop(t *testing.T) {
	g := buildSmall()
	nl := g.NoLoop()
	for u := 0; u < nl.N(); u++ {
		for _, hd := range nl.OutNeighbors(graph.Node(u)) {
			assert.NotEqual(t, graph.Node(u), hd.To)
		}
	}
	assert.Equal(t, g.M()-2, nl.M()) // drops (3,3,2) and (10,10,1)
}

func TestSubgraph(t *testing.T) {
	g := graph.NewWithNodes(4)
	g.AddEdgeLen(0, 1, 1)
	g.AddEdgeLen(1, 2, 1)
	g.AddEdgeLen(2, 3, 1)

	sub, origOf := g.Subgraph(func(u graph.Node) bool { return u != 1 })

	assert.Equal(t, 3, sub.N())
	assert.Equal(t, []graph.Node{0, 2, 3}, origOf)
	assert.Equal(t, 1, sub.M()) // only the 2->3 edge survives
}
