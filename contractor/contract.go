// Package contractor implements the contraction hierarchy preprocessor:
// fill-degree node ranking, independent-set contraction rounds, witness
// search, and the post-contraction bidirectional distance query.
package contractor

import (
	"sort"

	"github.com/lintang-b-s/chx/chlen"
	"github.com/lintang-b-s/chx/graph"
	"github.com/lintang-b-s/chx/traversal"
)

// Rank n (the total node count) stands for "not contracted yet".

// Graph owns the forward and backward copies of the working graph plus all
// bookkeeping needed to contract it and to answer distance queries
// afterwards. It is built once from an input graph and a keep-set and is
// not safe for concurrent use: the core is single-threaded by design.
type Graph struct {
	fwd, bwd *graph.Digraph

	travFwd, travBwd *traversal.State

	alive []bool
	rank  []int32 // n means "not yet contracted"

	order []graph.Node

	inDeg, outDeg []int32

	contractible map[graph.Node]bool

	n, m        int // alive node count, alive edge count
	currentRank int32
	onProgress  func(round int, nContracted, n, m int)
}

// New builds a contraction Graph from g and a keep-set. keep names nodes
// that must never be contracted (they remain fully participating in
// witness searches and as shortcut endpoints); a nil or empty keep marks
// every node contractible. g's self loops are dropped, since they can
// never lie on a shortest path between two distinct nodes.
func New(g *graph.Digraph, keep map[graph.Node]bool) *Graph {
	fwd := g.NoLoop()
	bwd := fwd.Reverse()
	n := fwd.N()

	cg := &Graph{
		fwd:     fwd,
		bwd:     bwd,
		travFwd: traversal.NewState(),
		travBwd: traversal.NewState(),
		alive:   make([]bool, n),
		rank:    make([]int32, n),
		inDeg:   make([]int32, n),
		outDeg:  make([]int32, n),
		n:       n,
	}
	for u := 0; u < n; u++ {
		cg.alive[u] = true
		cg.rank[u] = int32(n)
		cg.outDeg[u] = int32(fwd.OutDegree(graph.Node(u)))
		cg.inDeg[u] = int32(bwd.OutDegree(graph.Node(u)))
		cg.m += int(cg.outDeg[u])
	}

	cg.contractible = make(map[graph.Node]bool, n)
	if len(keep) == 0 {
		for u := 0; u < n; u++ {
			cg.contractible[graph.Node(u)] = true
		}
	} else {
		for u := 0; u < n; u++ {
			if !keep[graph.Node(u)] {
				cg.contractible[graph.Node(u)] = true
			}
		}
	}
	return cg
}

// FromPersisted rebuilds a queryable Graph from a previously contracted
// hierarchy's forward graph, reverse graph, rank array, aliveness array
// and contraction order, without rerunning Contract. It is how a host
// (such as chserver, fed from a chstore.Store) answers distance queries
// against a hierarchy compiled in an earlier process. The returned Graph
// has no contractible set, so a further Contract call is always a no-op.
func FromPersisted(fwd, bwd *graph.Digraph, rank []int32, alive []bool, order []graph.Node) *Graph {
	n := 0
	for _, a := range alive {
		if a {
			n++
		}
	}
	return &Graph{
		fwd:     fwd,
		bwd:     bwd,
		travFwd: traversal.NewState(),
		travBwd: traversal.NewState(),
		alive:   alive,
		rank:    rank,
		order:   order,
		n:       n,
	}
}

// OnProgress installs a callback invoked after every contraction round
// whose index matches the reference cadence (round 1, then whenever the
// round number reaches 1.5x the last reported round). A nil callback
// disables progress reporting.
func (cg *Graph) OnProgress(fn func(round, nContracted, n, m int)) {
	cg.onProgress = fn
}

// N returns the number of alive (not yet contracted) nodes.
func (cg *Graph) N() int { return cg.n }

// M returns the number of edges with both endpoints alive.
func (cg *Graph) M() int { return cg.m }

// Alive reports whether u has not been contracted.
func (cg *Graph) Alive(u graph.Node) bool { return cg.alive[u] }

// Rank returns u's contraction rank, or the total node count if u has not
// been contracted yet.
func (cg *Graph) Rank(u graph.Node) int32 { return cg.rank[u] }

// Order returns the nodes in the order they were contracted.
func (cg *Graph) Order() []graph.Node { return cg.order }

// Forward returns the hierarchy's forward graph (original edges plus every
// shortcut inserted during contraction).
func (cg *Graph) Forward() *graph.Digraph { return cg.fwd }

// Backward returns the hierarchy's backward graph (the reverse of Forward).
func (cg *Graph) Backward() *graph.Digraph { return cg.bwd }

// Contract repeatedly selects and contracts independent sets of nodes
// until either the average out-degree of the alive subgraph reaches
// maxAvgDeg or no contractible node remains.
func (cg *Graph) Contract(maxAvgDeg float64) {
	round, lastRound := 0, 0
	for {
		if len(cg.contractible) == 0 {
			break
		}
		if cg.n == 0 || float64(cg.m) >= maxAvgDeg*float64(cg.n) {
			break
		}
		nContracted := cg.contractRound()
		round++
		if cg.onProgress != nil && 2*round >= 3*lastRound {
			lastRound = round
			cg.onProgress(round, nContracted, cg.n, cg.m)
		}
		if nContracted == 0 {
			break
		}
	}
}

// Distance answers a post-contraction shortest-path query between two
// alive or contracted nodes, following only edges that go from a
// lower-ranked node to a higher-ranked one (the canonical CH up-down
// property). It returns chlen.Infinity if s and t are not connected.
func (cg *Graph) Distance(s, t graph.Node) chlen.Length {
	rank := cg.rank
	return traversal.Bidir(cg.fwd, cg.bwd, cg.travFwd, cg.travBwd, s, t, chlen.Infinity, true,
		func(v graph.Node, d chlen.Length, par graph.Node) bool {
			return rank[par] < rank[v]
		})
}

type vtxDeg struct {
	u    graph.Node
	prio int64
}

// fillDegree estimates how many shortcuts contracting u would introduce.
func (cg *Graph) fillDegree(u graph.Node) int64 {
	din, dout := int64(cg.inDeg[u]), int64(cg.outDeg[u])
	a, b := din, dout
	if a > b {
		a, b = b, a
	}
	switch {
	case a == 0:
		return 0
	case a == 1:
		if b > 255 {
			b = 255
		}
		return b
	default:
		return (a*b - a - b + 1) << 8
	}
}

// contractRound selects a batch of mutually non-adjacent contractible
// nodes by ascending fill-degree. The threshold that gates the 25%
// cutoff is set from the fill-degree of the last node actually selected
// while fewer than 1% of all candidates have been selected so far (not
// the candidate's position in the sorted list: a blocked candidate is
// skipped without advancing the selected count, exactly as the
// reference contraction loop only increments its counter inside the
// selection branch). It returns the number of nodes contracted.
func (cg *Graph) contractRound() int {
	candidates := make([]vtxDeg, 0, len(cg.contractible))
	for u := range cg.contractible {
		candidates = append(candidates, vtxDeg{u: u, prio: cg.fillDegree(u)})
	}
	sort.Slice(candidates, func(i, j int) bool { return candidates[i].prio < candidates[j].prio })

	nCand := len(candidates)
	blocked := make(map[graph.Node]bool, nCand)
	selected := make([]graph.Node, 0, nCand/10+1)

	var threshold int64
	selCount := 0
	for _, vd := range candidates {
		belowOnePercent := int64(selCount)*100 < int64(nCand)
		if !belowOnePercent && 4*vd.prio > 5*threshold {
			break
		}
		u := vd.u
		if blocked[u] {
			continue
		}
		if belowOnePercent {
			threshold = vd.prio
		}
		selCount++
		for _, hd := range cg.bwd.OutNeighbors(u) {
			blocked[hd.To] = true
		}
		for _, hd := range cg.fwd.OutNeighbors(u) {
			blocked[hd.To] = true
		}
		selected = append(selected, u)
	}

	for _, u := range selected {
		cg.contractNode(u)
	}
	return len(selected)
}

// contractNode removes u from the alive subgraph, inserting shortcuts
// between every pair of its alive predecessors and successors whose
// shortest connecting path (excluding u) is not already shorter than the
// path through u.
func (cg *Graph) contractNode(u graph.Node) {
	cg.alive[u] = false
	cg.rank[u] = cg.currentRank
	cg.currentRank++
	cg.order = append(cg.order, u)
	delete(cg.contractible, u)
	cg.n--
	cg.m -= int(cg.inDeg[u]) + int(cg.outDeg[u])

	preds := cg.bwd.OutNeighbors(u)
	succs := cg.fwd.OutNeighbors(u)

	for _, q := range succs {
		if cg.alive[q.To] {
			cg.inDeg[q.To]--
		}
	}
	for _, p := range preds {
		if cg.alive[p.To] {
			cg.outDeg[p.To]--
		}
	}

	for _, p := range preds {
		if !cg.alive[p.To] {
			continue
		}
		for _, q := range succs {
			if !cg.alive[q.To] || p.To == q.To {
				continue
			}
			dpq := chlen.Add(p.Len, q.Len)
			witness := traversal.Bidir(cg.fwd, cg.bwd, cg.travFwd, cg.travBwd,
				p.To, q.To, dpq, true,
				func(x graph.Node, d chlen.Length, par graph.Node) bool { return cg.alive[x] })
			if witness < dpq {
				continue // a witness path already dominates the candidate shortcut
			}
			cg.addShortcut(p.To, q.To, dpq)
		}
	}
}

// addShortcut inserts the shortcut p->q->... collapsed edge (p, q, l) into
// both fwd and bwd, asserting that both sides agree on whether this is a
// fresh insert (a programming invariant of a correctly maintained
// forward/backward pair).
func (cg *Graph) addShortcut(p, q graph.Node, l chlen.Length) {
	addedFwd := cg.fwd.UpdateEdge(p, q, l)
	addedBwd := cg.bwd.UpdateEdge(q, p, l)
	if addedFwd != addedBwd {
		panic("contractor: forward/backward shortcut insertion disagree")
	}
	if addedFwd {
		cg.m++
		cg.outDeg[p]++
		cg.inDeg[q]++
	}
}
