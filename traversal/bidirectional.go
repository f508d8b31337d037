package traversal

import (
	"github.com/lintang-b-s/chx/chlen"
	"github.com/lintang-b-s/chx/graph"
)

// BidirFilter is evaluated before an edge relaxation is accepted during a
// bidirectional search, with the predecessor node made available so a
// filter can express a rank-based up/down criterion (as contraction
// hierarchy queries need: only relax edges that go from a lower-ranked to
// a higher-ranked node). A nil filter accepts every relaxation.
type BidirFilter func(v graph.Node, d chlen.Length, par graph.Node) bool

// Bidir computes the distance from src to dst by alternating steps of a
// forward search over fwd (rooted at src, using s as its state) and a
// backward search over bwd (rooted at dst, using bwdState), stopping as
// soon as neither side can possibly improve on the best meeting distance
// found so far.
//
// limit bounds the search: the caller asserts dist(src,dst) < limit, and
// if that assertion is false the value returned is merely some value
// >= limit, not an exact distance.
//
// When pruned is false, the standard bidirectional termination check
// (fwdRadius+bwdRadius >= best) is used, which assumes both sides settle
// nodes in non-decreasing distance order. When the filter removes nodes
// out of distance order — as contraction hierarchy queries must, since
// they only ever relax edges toward higher-ranked nodes — that assumption
// doesn't hold and pruned must be set to true, disabling the early-exit
// test and relying only on the best>=... test inside each step plus the
// limit.
func Bidir(fwd, bwd *graph.Digraph, s, bwdState *State, src, dst graph.Node, limit chlen.Length, pruned bool, filter BidirFilter) chlen.Length {
	if s == bwdState {
		panic("traversal: forward and backward states must be distinct")
	}
	if fwd.N() != bwd.N() {
		panic("traversal: fwd and bwd graphs have different node counts")
	}
	if fwd.M() != bwd.M() {
		panic("traversal: fwd and bwd graphs have different edge counts")
	}

	s.Init(fwd.N())
	bwdState.Init(fwd.N())

	s.distances[src] = 0
	s.push(src, 0)
	bwdState.distances[dst] = 0
	bwdState.push(dst, 0)

	best := chlen.Infinity
	var fwdRadius, bwdRadius chlen.Length

	for s.queue.Len() > 0 || bwdState.queue.Len() > 0 {
		othRadius := bwdRadius
		if pruned {
			othRadius = 0
		}
		fwdRadius, best = step(fwd, s, best, limit, bwdState, dst, othRadius, filter)
		if fwdRadius == chlen.Infinity && !pruned {
			break
		}

		othRadius = fwdRadius
		if pruned {
			othRadius = 0
		}
		bwdRadius, best = step(bwd, bwdState, best, limit, s, src, othRadius, filter)
		if bwdRadius == chlen.Infinity && !pruned {
			break
		}

		if !pruned && chlen.Add(fwdRadius, bwdRadius) >= best {
			break
		}
	}

	return best
}

// step advances one side of a bidirectional search by a single node,
// returning that node's distance from its own root (its "radius") and the
// possibly-improved best meeting distance. It returns chlen.Infinity for
// the radius once this side's frontier is exhausted.
func step(g *graph.Digraph, s *State, best, limit chlen.Length, othState *State, oth graph.Node, othRadius chlen.Length, filter BidirFilter) (radius, newBest chlen.Length) {
	ud, ok := s.popMin()
	if !ok {
		return chlen.Infinity, best
	}
	u := ud.node
	du := ud.dist
	s.settle(u)

	if u == oth {
		// Unconditional, matching the reference step exactly: once this
		// side settles the other side's root, that direct distance
		// becomes the answer, even if a smaller meeting distance was
		// already recorded elsewhere. This can only ever fire once per
		// side (oth is settled at most once), and only while du is still
		// the smallest unsettled candidate on this side's own frontier.
		return du, du
	}
	if chlen.Add(du, othRadius) >= best {
		return du, best
	}

	for _, hd := range g.OutNeighbors(u) {
		v := hd.To
		dv := chlen.Add(du, hd.Len)

		if dvOth := othState.distances[v]; dvOth != chlen.Infinity {
			if meet := chlen.Add(dv, dvOth); meet < best {
				best = meet
			}
		}

		bound := best
		if limit < bound {
			bound = limit
		}
		if dv < s.distances[v] && chlen.Add(dv, othRadius) < bound && (filter == nil || filter(v, dv, u)) {
			s.distances[v] = dv
			s.push(v, dv)
		}
	}

	return du, best
}
