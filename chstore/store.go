// Package chstore persists an already-contracted hierarchy and its label
// table to disk so a long-lived query server can start without re-running
// contraction. This is a host-layer convenience built on top of the
// core's in-memory result: the contraction engine itself never touches
// disk, keeping the core's "no persistent binary format" property intact.
package chstore

import (
	"bytes"
	"encoding/gob"

	"github.com/DataDog/zstd"
	"github.com/cockroachdb/pebble"

	"github.com/lintang-b-s/chx/chlen"
	"github.com/lintang-b-s/chx/domain"
	"github.com/lintang-b-s/chx/edgelist"
	"github.com/lintang-b-s/chx/graph"
)

const hierarchyKey = "hierarchy"

// hierarchySnapshot is the gob-encoded shape of a contracted hierarchy:
// enough to reconstruct forward/backward adjacency, ranks, aliveness and
// labels without rerunning contraction.
type hierarchySnapshot struct {
	NumNodes int
	FwdEdges []snapshotEdge
	Rank     []int32
	Alive    []bool
	Order    []int32
	Labels   []string
}

type snapshotEdge struct {
	From, To int32
	Len      chlen.Length
}

// Store wraps a pebble key-value database used to cache one compiled
// hierarchy plus its label table.
type Store struct {
	db *pebble.DB
}

// Open opens (creating if absent) a pebble database at dir.
func Open(dir string) (*Store, error) {
	db, err := pebble.Open(dir, &pebble.Options{})
	if err != nil {
		return nil, domain.WrapErrorf(err, domain.ErrInternalServerError, "chstore: opening %s", dir)
	}
	return &Store{db: db}, nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error { return s.db.Close() }

// SaveHierarchy gob-encodes and zstd-compresses the forward graph, rank
// array, aliveness array, contraction order and label table, and writes
// the result under a fixed key.
func (s *Store) SaveHierarchy(fwd *graph.Digraph, rank []int32, alive []bool, order []graph.Node, labels *edgelist.Labels) error {
	snap := hierarchySnapshot{
		NumNodes: fwd.N(),
		Rank:     rank,
		Alive:    alive,
		Labels:   make([]string, labels.Len()),
	}
	for u := 0; u < fwd.N(); u++ {
		for _, hd := range fwd.OutNeighbors(graph.Node(u)) {
			snap.FwdEdges = append(snap.FwdEdges, snapshotEdge{From: int32(u), To: int32(hd.To), Len: hd.Len})
		}
	}
	for _, u := range order {
		snap.Order = append(snap.Order, int32(u))
	}
	for i := range snap.Labels {
		snap.Labels[i] = labels.Label(graph.Node(i))
	}

	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(snap); err != nil {
		return domain.WrapErrorf(err, domain.ErrInternalServerError, "chstore: encoding hierarchy")
	}
	compressed, err := zstd.Compress(nil, buf.Bytes())
	if err != nil {
		return domain.WrapErrorf(err, domain.ErrInternalServerError, "chstore: compressing hierarchy")
	}
	if err := s.db.Set([]byte(hierarchyKey), compressed, pebble.Sync); err != nil {
		return domain.WrapErrorf(err, domain.ErrInternalServerError, "chstore: writing hierarchy")
	}
	return nil
}

// LoadHierarchy reads back a hierarchy previously written by
// SaveHierarchy, returning the forward graph, its reverse, the rank and
// aliveness arrays, the contraction order and the label table. This is
// also what lets a repeated CLI run over the same input skip re-parsing
// and re-interning labels entirely: the label table comes back already
// built.
func (s *Store) LoadHierarchy() (fwd, bwd *graph.Digraph, rank []int32, alive []bool, order []graph.Node, labels *edgelist.Labels, err error) {
	val, closer, err := s.db.Get([]byte(hierarchyKey))
	if err != nil {
		return nil, nil, nil, nil, nil, nil, domain.WrapErrorf(err, domain.ErrNotFound, "chstore: no saved hierarchy")
	}
	defer closer.Close()

	raw, err := zstd.Decompress(nil, val)
	if err != nil {
		return nil, nil, nil, nil, nil, nil, domain.WrapErrorf(err, domain.ErrInternalServerError, "chstore: decompressing hierarchy")
	}

	var snap hierarchySnapshot
	if err := gob.NewDecoder(bytes.NewReader(raw)).Decode(&snap); err != nil {
		return nil, nil, nil, nil, nil, nil, domain.WrapErrorf(err, domain.ErrInternalServerError, "chstore: decoding hierarchy")
	}

	fwd = graph.NewWithNodes(snap.NumNodes)
	for _, e := range snap.FwdEdges {
		fwd.AddEdgeLen(graph.Node(e.From), graph.Node(e.To), e.Len)
	}
	bwd = fwd.Reverse()

	labels = edgelist.NewLabels()
	for _, l := range snap.Labels {
		labels.Intern(l)
	}

	order = make([]graph.Node, len(snap.Order))
	for i, u := range snap.Order {
		order[i] = graph.Node(u)
	}

	return fwd, bwd, snap.Rank, snap.Alive, order, labels, nil
}
