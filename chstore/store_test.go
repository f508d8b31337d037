package chstore_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lintang-b-s/chx/chlen"
	"github.com/lintang-b-s/chx/chstore"
	"github.com/lintang-b-s/chx/edgelist"
	"github.com/lintang-b-s/chx/graph"
)

func TestSaveAndLoadHierarchyRoundTrips(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "db")
	st, err := chstore.Open(dir)
	require.NoError(t, err)
	defer st.Close()

	fwd := graph.New()
	fwd.AddEdgeLen(0, 1, 4)
	fwd.AddEdgeLen(1, 2, 2)

	labels := edgelist.NewLabels()
	labels.Intern("a")
	labels.Intern("b")
	labels.Intern("c")

	rank := []int32{0, 1, 2}
	alive := []bool{false, false, true}
	order := []graph.Node{0, 1}

	require.NoError(t, st.SaveHierarchy(fwd, rank, alive, order, labels))

	gotFwd, gotBwd, gotRank, gotAlive, gotOrder, gotLabels, err := st.LoadHierarchy()
	require.NoError(t, err)

	assert.Equal(t, fwd.N(), gotFwd.N())
	assert.Equal(t, chlen.Length(4), gotFwd.OutNeighbors(0)[0].Len)
	assert.Equal(t, graph.Node(0), gotBwd.OutNeighbors(1)[0].To)
	assert.Equal(t, rank, gotRank)
	assert.Equal(t, alive, gotAlive)
	assert.Equal(t, order, gotOrder)
	assert.Equal(t, 3, gotLabels.Len())
	assert.Equal(t, "b", gotLabels.Label(1))
}

func TestLoadHierarchyWithoutASaveIsNotFound(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "db")
	st, err := chstore.Open(dir)
	require.NoError(t, err)
	defer st.Close()

	_, _, _, _, _, _, err = st.LoadHierarchy()
	assert.Error(t, err)
}
