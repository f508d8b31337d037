package keepset_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/lintang-b-s/chx/geoimport"
	"github.com/lintang-b-s/chx/graph"
	"github.com/lintang-b-s/chx/keepset"
)

func TestNearest(t *testing.T) {
	coords := &geoimport.Coords{
		Lat: []float64{0, 0, 10},
		Lon: []float64{0, 1, 10},
	}
	idx := keepset.Build(coords)

	u, ok := idx.Nearest(0.01, 0.01)
	assert.True(t, ok)
	assert.Equal(t, graph.Node(0), u)

	u, ok = idx.Nearest(9.9, 9.9)
	assert.True(t, ok)
	assert.Equal(t, graph.Node(2), u)
}

func TestKeepSetSnapsEachQuery(t *testing.T) {
	coords := &geoimport.Coords{
		Lat: []float64{0, 5, 10},
		Lon: []float64{0, 5, 10},
	}
	keep := keepset.KeepSet(coords, [][2]float64{{0.1, 0.1}, {9.9, 9.9}})
	assert.Len(t, keep, 2)
	assert.True(t, keep[graph.Node(0)])
	assert.True(t, keep[graph.Node(2)])
	assert.False(t, keep[graph.Node(1)])
}
