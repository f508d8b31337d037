package traversal

import (
	"github.com/lintang-b-s/chx/chlen"
	"github.com/lintang-b-s/chx/graph"
)

// Filter is evaluated before an edge relaxation is accepted: a node v
// reachable at tentative distance d is only ever enqueued if filter(v, d)
// returns true. A nil filter accepts every relaxation.
type Filter func(v graph.Node, d chlen.Length) bool

// Dijkstra runs a single-source shortest-path search from src over g,
// settling nodes in increasing distance order except for those filter
// rejects, which are never relaxed at all. After it returns, s.Distance
// reports each settled node's distance and s.Visited reports which nodes
// were settled.
func (s *State) Dijkstra(g *graph.Digraph, src graph.Node, filter Filter) {
	s.Init(g.N())
	s.distances[src] = 0
	s.push(src, 0)

	for {
		ud, ok := s.popMin()
		if !ok {
			return
		}
		u := ud.node
		du := ud.dist
		s.settle(u)
		for _, hd := range g.OutNeighbors(u) {
			v := hd.To
			dv := chlen.Add(du, hd.Len)
			if dv < s.distances[v] && (filter == nil || filter(v, dv)) {
				s.distances[v] = dv
				s.push(v, dv)
			}
		}
	}
}
