package attach

import (
	"fmt"

	"github.com/ttpr0/go-accessibility/attr"
	"github.com/ttpr0/go-accessibility/batched/buffered"
	"github.com/ttpr0/go-accessibility/comps"
	"github.com/ttpr0/go-accessibility/geo"
	"github.com/ttpr0/go-accessibility/structs"
	. "github.com/ttpr0/go-accessibility/util"
	"golang.org/x/exp/slog"
)

type Point struct {
	ID  int64
	Loc geo.Coord
}

// Point with its node in the network.
type Attached struct {
	ID   int64
	Loc  geo.Coord
	Node int32
}

//*******************************************
// attach points to network
//*******************************************

// Adds every point as a new node linked to its k nearest nodes of index.
//
// Links are connector edges with the planar distance as length and the time
// at speed km/h. The index should only cover network nodes, points attached
// in earlier calls are not linked to then.
func AddToGraph(base *comps.GraphBase, attributes *attr.GraphAttributes, index comps.IGraphIndex, points []Point, k int, speed float64) (*comps.GraphBase, *attr.GraphAttributes, List[Attached], error) {
	if k <= 0 {
		return nil, nil, nil, fmt.Errorf("invalid number of links %v", k)
	}
	if speed <= 0 {
		return nil, nil, nil, fmt.Errorf("invalid link speed %v", speed)
	}
	if base.NodeCount() == 0 {
		return nil, nil, nil, fmt.Errorf("can not attach points to an empty network")
	}

	node_count := int32(base.NodeCount())
	new_nodes := NewList[structs.Node](len(points))
	new_edges := NewList[structs.Edge](len(points) * k)
	new_attribs := NewList[attr.EdgeAttribs](len(points) * k)
	attached := NewList[Attached](len(points))
	for i, p := range points {
		node := node_count + int32(i)
		new_nodes.Add(structs.Node{Loc: p.Loc})
		for _, item := range index.GetKClosestNodes(p.Loc, k) {
			length := item.B
			new_edges.Add(structs.Edge{NodeA: node, NodeB: item.A})
			new_attribs.Add(attr.EdgeAttribs{
				Type:         attr.CONNECTOR,
				Length:       length,
				TimeWeighted: attr.TravelTime(length, speed),
			})
		}
		attached.Add(Attached{ID: p.ID, Loc: p.Loc, Node: node})
	}
	slog.Info(fmt.Sprintf("attached %v points to the network", len(points)), "links", new_edges.Length())

	base = comps.AddNodes(base, new_nodes)
	base = comps.AddEdges(base, new_edges)
	attributes = attributes.AddEdges(new_attribs)
	return base, attributes, attached, nil
}

// Uses the nearest network node of every point.
func SnapToGraph(g comps.IGraphIndex, points []Point) (List[Attached], error) {
	attached := NewList[Attached](len(points))
	for _, p := range points {
		node, ok := g.GetClosestNode(p.Loc)
		if !ok {
			return nil, fmt.Errorf("no network node found for point %v", p.ID)
		}
		attached.Add(Attached{ID: p.ID, Loc: p.Loc, Node: node})
	}
	return attached, nil
}

//*******************************************
// anchors
//*******************************************

// Builds queries with the k nearest targets as anchors.
//
// The seed radius is the planar distance to the farthest anchor.
func AddTopK(queries List[Attached], targets List[Attached], k int) (List[buffered.QueryPoint], error) {
	if k < 0 {
		return nil, fmt.Errorf("invalid number of anchors %v", k)
	}
	points := make([][]float64, targets.Length())
	values := make([]int32, targets.Length())
	for i, t := range targets {
		points[i] = []float64{t.Loc[0], t.Loc[1]}
		values[i] = t.Node
	}
	tree := BuildKDTree(2, points, values)

	result := NewList[buffered.QueryPoint](queries.Length())
	for _, q := range queries {
		closest := tree.GetKClosest(q.Loc[:], k)
		anchors := make([]int32, 0, closest.Length())
		radius := 0.0
		for _, item := range closest {
			anchors = append(anchors, item.A)
			radius = max(radius, item.B)
		}
		result.Add(buffered.QueryPoint{
			ID:         q.ID,
			Node:       q.Node,
			Loc:        q.Loc,
			SeedRadius: radius,
			Anchors:    anchors,
		})
	}
	return result, nil
}
