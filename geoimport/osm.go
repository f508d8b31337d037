// Package geoimport builds a graph.Digraph straight from an OpenStreetMap
// .osm.pbf extract, as an alternative to edgelist's plain-text format. It
// gives every node of a drivable way a dense index, much as edgelist.Labels
// interns string labels, and turns each run of a drivable way between two
// intersections (or a way endpoint) into one or two directed edges with
// integer lengths derived from great-circle distance.
//
// This package is, like edgelist, an external collaborator of the
// contraction core: it never sees a rank, a shortcut or a witness search,
// it only ever produces a graph.Digraph plus a coordinate table for the
// core to consume.
package geoimport

import (
	"context"
	"io"

	"github.com/golang/geo/s2"
	"github.com/paulmach/osm"
	"github.com/paulmach/osm/osmpbf"

	"github.com/lintang-b-s/chx/chlen"
	"github.com/lintang-b-s/chx/domain"
	"github.com/lintang-b-s/chx/graph"
)

// earthRadiusMeters is the mean Earth radius used to turn an s1.Angle into
// a distance, matching the haversine convention the rest of the corpus
// uses for edge lengths.
const earthRadiusMeters = 6371000.0

// ValidRoadType lists the OSM highway tag values treated as drivable.
// Anything else (footpaths, steps, construction) is skipped entirely.
var ValidRoadType = map[string]bool{
	"motorway":       true,
	"trunk":          true,
	"primary":        true,
	"secondary":      true,
	"tertiary":       true,
	"unclassified":   true,
	"residential":    true,
	"motorway_link":  true,
	"trunk_link":     true,
	"primary_link":   true,
	"secondary_link": true,
	"tertiary_link":  true,
	"living_street":  true,
}

// Coords maps interned node indices to their latitude/longitude, for
// callers (such as keepset) that need geometry the core graph itself
// does not carry.
type Coords struct {
	Lat []float64
	Lon []float64
}

func (c *Coords) add(lat, lon float64) graph.Node {
	idx := graph.Node(len(c.Lat))
	c.Lat = append(c.Lat, lat)
	c.Lon = append(c.Lon, lon)
	return idx
}

// ImportPBF reads an OpenStreetMap PBF extract from r and returns a
// directed graph with one node per node of a drivable way, along with the
// coordinates of each interned node indexed the same way as the graph's
// node IDs. Edges join only intersections and way endpoints, so a shape
// point inside a way is an isolated node of the graph.
//
// r is scanned twice: once to find which node IDs belong to a drivable
// way, once to resolve their coordinates, so r must support seeking back
// to the start.
func ImportPBF(r io.ReadSeeker) (*graph.Digraph, *Coords, error) {
	wayNodeIDs := make(map[osm.NodeID]bool)
	useCount := make(map[osm.NodeID]int)
	var ways []*osm.Way

	scanner := osmpbf.New(context.Background(), r, 3)
	for scanner.Scan() {
		o := scanner.Object()
		if o.ObjectID().Type() != osm.TypeWay {
			continue
		}
		way := o.(*osm.Way)
		if !drivable(way) {
			continue
		}
		ways = append(ways, way)
		for _, n := range way.Nodes {
			wayNodeIDs[n.ID] = true
			useCount[n.ID]++
		}
	}
	if err := scanner.Err(); err != nil {
		scanner.Close()
		return nil, nil, domain.WrapErrorf(err, domain.ErrInternalServerError, "geoimport: scanning ways")
	}
	scanner.Close()

	if _, err := r.Seek(0, io.SeekStart); err != nil {
		return nil, nil, domain.WrapErrorf(err, domain.ErrInternalServerError, "geoimport: rewinding extract")
	}

	nodeIndex := make(map[osm.NodeID]graph.Node, len(wayNodeIDs))
	coords := &Coords{}
	g := graph.New()

	scanner = osmpbf.New(context.Background(), r, 3)
	for scanner.Scan() {
		o := scanner.Object()
		if o.ObjectID().Type() != osm.TypeNode {
			continue
		}
		n := o.(*osm.Node)
		if !wayNodeIDs[n.ID] {
			continue
		}
		idx := coords.add(n.Lat, n.Lon)
		nodeIndex[n.ID] = idx
		g.AddNode(idx)
	}
	if err := scanner.Err(); err != nil {
		scanner.Close()
		return nil, nil, domain.WrapErrorf(err, domain.ErrInternalServerError, "geoimport: scanning nodes")
	}
	scanner.Close()

	for _, way := range ways {
		wireIntersectionEdges(way, useCount, nodeIndex, coords, g)
	}

	return g, coords, nil
}

// wireIntersectionEdges collapses one way down to its intersection-to-
// intersection segments: a node used by two or more ways (or a way's own
// endpoint) becomes an edge endpoint, and every run of shape points between
// two such nodes is folded into a single edge whose length is the summed
// great-circle distance along the run.
func wireIntersectionEdges(way *osm.Way, useCount map[osm.NodeID]int, nodeIndex map[osm.NodeID]graph.Node, coords *Coords, g *graph.Digraph) {
	oneWay, reversed := onewayDirection(way)

	var from graph.Node
	haveFrom := false
	var segLen float64

	for i, n := range way.Nodes {
		if i > 0 {
			prev := way.Nodes[i-1]
			segLen += haversine(coords, nodeIndex[prev.ID], nodeIndex[n.ID])
		}
		isEndpoint := i == 0 || i == len(way.Nodes)-1
		if useCount[n.ID] < 2 && !isEndpoint {
			continue
		}
		idx, ok := nodeIndex[n.ID]
		if !ok {
			continue
		}
		if !haveFrom {
			from, haveFrom, segLen = idx, true, 0
			continue
		}
		length := chlen.Length(segLen)
		switch {
		case oneWay && !reversed:
			g.AddEdgeLen(from, idx, length)
		case oneWay && reversed:
			g.AddEdgeLen(idx, from, length)
		default:
			g.AddEdgeLen(from, idx, length)
			g.AddEdgeLen(idx, from, length)
		}
		from, segLen = idx, 0
	}
}

func drivable(way *osm.Way) bool {
	hw, ok := way.TagMap()["highway"]
	return ok && ValidRoadType[hw]
}

func onewayDirection(way *osm.Way) (oneWay, reversed bool) {
	for _, tag := range way.Tags {
		if tag.Key == "oneway" && tag.Value != "no" {
			oneWay = true
			if tag.Value == "-1" {
				reversed = true
			}
		}
	}
	return oneWay, reversed
}

// haversine returns the great-circle distance in meters between two
// interned nodes.
func haversine(c *Coords, a, b graph.Node) float64 {
	p1 := s2.LatLngFromDegrees(c.Lat[a], c.Lon[a])
	p2 := s2.LatLngFromDegrees(c.Lat[b], c.Lon[b])
	return p1.Distance(p2).Radians() * earthRadiusMeters
}
