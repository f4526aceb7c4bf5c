package parser

import (
	"context"
	"fmt"
	"io"
	"os"
	"runtime"

	"github.com/paulmach/osm"
	"github.com/paulmach/osm/osmpbf"
	"github.com/ttpr0/go-accessibility/attr"
	"github.com/ttpr0/go-accessibility/comps"
	"github.com/ttpr0/go-accessibility/geo"
	"github.com/ttpr0/go-accessibility/structs"
	. "github.com/ttpr0/go-accessibility/util"
	"golang.org/x/exp/slog"
)

// Parses the road and ferry network of an osm pbf extract.
//
// Ways are split at junctions, coordinates are projected to local metres
// around the mean latitude of the network.
func ParseGraph(ctx context.Context, pbf_file string, decoder IOSMDecoder) (*comps.GraphBase, *attr.GraphAttributes, error) {
	nodes := NewList[OSMNode](10000)
	edges := NewList[OSMEdge](10000)
	index_mapping := NewDict[int64, int](10000)
	if err := _ParseOsm(ctx, pbf_file, decoder, &nodes, &edges, &index_mapping); err != nil {
		return nil, nil, err
	}
	slog.Info("parsed osm network", "nodes", nodes.Length(), "edges", edges.Length())
	base, attr := _CreateGraphBase(&nodes, &edges)
	return base, attr, nil
}

func _ParseOsm(ctx context.Context, filename string, decoder IOSMDecoder, nodes *List[OSMNode], edges *List[OSMEdge], index_mapping *Dict[int64, int]) error {
	osm_nodes := NewDict[int64, TempNode](1000)

	file, err := os.Open(filename)
	if err != nil {
		return err
	}
	defer file.Close()

	handlers := []func(*osmpbf.Scanner){
		func(scanner *osmpbf.Scanner) {
			_InitWayHandler(scanner, decoder, &osm_nodes)
		},
		func(scanner *osmpbf.Scanner) {
			_NodeHandler(scanner, &osm_nodes, nodes, index_mapping)
			_ProjectNodes(&osm_nodes, nodes)
		},
		func(scanner *osmpbf.Scanner) {
			_WayHandler(scanner, decoder, edges, &osm_nodes, index_mapping)
		},
	}
	for _, handler := range handlers {
		if _, err := file.Seek(0, io.SeekStart); err != nil {
			return err
		}
		scanner := osmpbf.New(ctx, file, runtime.GOMAXPROCS(-1))
		handler(scanner)
		err := scanner.Err()
		scanner.Close()
		if err != nil {
			return fmt.Errorf("failed to scan %v: %w", filename, err)
		}
	}
	return nil
}

func _CreateGraphBase(osmnodes *List[OSMNode], osmedges *List[OSMEdge]) (*comps.GraphBase, *attr.GraphAttributes) {
	nodes := NewArray[structs.Node](osmnodes.Length())
	edges := NewArray[structs.Edge](osmedges.Length())
	edge_attrs := NewArray[attr.EdgeAttribs](osmedges.Length())

	for i, osmedge := range *osmedges {
		edges[i] = structs.Edge{
			NodeA: int32(osmedge.NodeA),
			NodeB: int32(osmedge.NodeB),
		}
		edge_attr := osmedge.Attr
		edge_attr.Length = geo.CoordArray(osmedge.Nodes).Length()
		edge_attr.TimeWeighted = attr.TravelTime(edge_attr.Length, osmedge.Speed)
		edge_attrs[i] = edge_attr
	}
	for i, osmnode := range *osmnodes {
		nodes[i] = structs.Node{
			Loc: osmnode.Point,
		}
	}

	return comps.NewGraphBase(nodes, edges), attr.New(edge_attrs)
}

//*******************************************
// osm handler methods
//*******************************************

func _InitWayHandler(scanner *osmpbf.Scanner, decoder IOSMDecoder, osm_nodes *Dict[int64, TempNode]) {
	scanner.SkipNodes = true
	scanner.SkipRelations = true
	for scanner.Scan() {
		switch object := scanner.Object().(type) {
		case *osm.Way:
			tags := Dict[string, string](object.TagMap())
			if !decoder.IsValidWay(tags) {
				continue
			}
			nodes := object.Nodes.NodeIDs()
			l := len(nodes)
			if l < 2 {
				continue
			}
			for i := 0; i < l; i++ {
				ndref := nodes[i].FeatureID().Ref()
				node := (*osm_nodes)[ndref]
				node.Count += 1
				(*osm_nodes)[ndref] = node
			}
			// way endpoints always become graph nodes
			for _, ndref := range []int64{nodes[0].FeatureID().Ref(), nodes[l-1].FeatureID().Ref()} {
				node := (*osm_nodes)[ndref]
				node.Count += 1
				(*osm_nodes)[ndref] = node
			}
		default:
			continue
		}
	}
}

func _NodeHandler(scanner *osmpbf.Scanner, osm_nodes *Dict[int64, TempNode], nodes *List[OSMNode], index_mapping *Dict[int64, int]) {
	c := 0
	scanner.SkipWays = true
	scanner.SkipRelations = true
	for scanner.Scan() {
		switch object := scanner.Object().(type) {
		case *osm.Node:
			id := object.FeatureID().Ref()
			if !osm_nodes.ContainsKey(id) {
				continue
			}
			c += 1
			if c%100000 == 0 {
				slog.Debug(fmt.Sprintf("parsed %v nodes", c))
			}
			on := osm_nodes.Get(id)
			on.Point = geo.Coord{object.Lon, object.Lat}
			if on.Count > 1 {
				index_mapping.Set(id, nodes.Length())
				nodes.Add(OSMNode{on.Point})
			}
			osm_nodes.Set(id, on)
		default:
			continue
		}
	}
}

// Projects all node coordinates around their mean latitude.
func _ProjectNodes(osm_nodes *Dict[int64, TempNode], nodes *List[OSMNode]) {
	if nodes.Length() == 0 {
		return
	}
	mean_lat := 0.0
	for _, node := range *nodes {
		mean_lat += node.Point[1]
	}
	projector := geo.NewProjector(mean_lat / float64(nodes.Length()))
	for id, on := range *osm_nodes {
		on.Point = projector.Project(on.Point[0], on.Point[1])
		(*osm_nodes)[id] = on
	}
	for i, node := range *nodes {
		(*nodes)[i] = OSMNode{projector.Project(node.Point[0], node.Point[1])}
	}
}

func _WayHandler(scanner *osmpbf.Scanner, decoder IOSMDecoder, edges *List[OSMEdge], osm_nodes *Dict[int64, TempNode], index_mapping *Dict[int64, int]) {
	c := 0
	scanner.SkipNodes = true
	scanner.SkipRelations = true
	for scanner.Scan() {
		switch object := scanner.Object().(type) {
		case *osm.Way:
			tags := Dict[string, string](object.TagMap())
			if !decoder.IsValidWay(tags) {
				continue
			}
			nodes := object.Nodes.NodeIDs()
			l := len(nodes)
			if l < 2 {
				continue
			}
			c += 1
			if c%100000 == 0 {
				slog.Debug(fmt.Sprintf("parsed %v ways", c))
			}

			edge_att, speed := decoder.DecodeEdge(tags)
			start := nodes[0].FeatureID().Ref()
			if !index_mapping.ContainsKey(start) {
				// way references nodes missing from the extract
				continue
			}
			e := OSMEdge{}
			e.Nodes.Add(osm_nodes.Get(start).Point)
			for i := 1; i < l; i++ {
				curr := nodes[i].FeatureID().Ref()
				on := osm_nodes.Get(curr)
				e.Nodes.Add(on.Point)
				if on.Count > 1 && index_mapping.ContainsKey(curr) {
					e.NodeA = index_mapping.Get(start)
					e.NodeB = index_mapping.Get(curr)
					e.Attr = edge_att
					e.Speed = speed
					edges.Add(e)
					start = curr
					e = OSMEdge{}
					e.Nodes.Add(on.Point)
				}
			}
		default:
			continue
		}
	}
}

//*******************************************
// osm decoder
//*******************************************

type IOSMDecoder interface {
	IsValidWay(tags Dict[string, string]) bool
	DecodeEdge(tags Dict[string, string]) (attr.EdgeAttribs, float64)
}
