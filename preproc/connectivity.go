package preproc

import (
	"errors"
	"fmt"

	"github.com/ttpr0/go-accessibility/algorithm"
	"github.com/ttpr0/go-accessibility/attr"
	"github.com/ttpr0/go-accessibility/comps"
	"github.com/ttpr0/go-accessibility/geo"
	"github.com/ttpr0/go-accessibility/graph"
	"github.com/ttpr0/go-accessibility/structs"
	. "github.com/ttpr0/go-accessibility/util"
	"golang.org/x/exp/slog"
)

var ErrDisconnectedNetwork = errors.New("preproc: network is disconnected")

type ConnectivityOptions struct {
	// speed of connector edges in km/h
	ConnectorSpeed float64
	// maximum number of repair passes
	MaxPasses int
}

func DefaultConnectivityOptions() ConnectivityOptions {
	return ConnectivityOptions{
		ConnectorSpeed: attr.CONNECTOR_SPEED,
		MaxPasses:      5,
	}
}

//*******************************************
// connectivity repair
//*******************************************

// Connects every fragment of the network to its largest component.
//
// Every node outside the largest component gets a connector edge to its
// nearest node of the largest component. Passes are repeated until a single
// component remains. Isolated nodes count as components of their own.
func RepairConnectivity(base *comps.GraphBase, attributes *attr.GraphAttributes, opts ConnectivityOptions) (*comps.GraphBase, *attr.GraphAttributes, error) {
	if opts.ConnectorSpeed <= 0 {
		return nil, nil, fmt.Errorf("invalid connector speed %v", opts.ConnectorSpeed)
	}
	if base.EdgeCount() != attributes.EdgeCount() {
		return nil, nil, fmt.Errorf("edge count mismatch: %v edges, %v attributes", base.EdgeCount(), attributes.EdgeCount())
	}
	if base.NodeCount() == 0 {
		return base, attributes, nil
	}

	for pass := 0; ; pass++ {
		g := graph.BuildGraph(base, comps.NewEqualWeighting(), None[comps.IGraphIndex]())
		labels, sizes := algorithm.ConnectedComponents(g)
		if sizes.Length() == 1 {
			slog.Info(fmt.Sprintf("network connected after %v passes", pass), "nodes", base.NodeCount(), "edges", base.EdgeCount())
			return base, attributes, nil
		}
		if pass >= opts.MaxPasses {
			return nil, nil, fmt.Errorf("%w: %v components left after %v passes", ErrDisconnectedNetwork, sizes.Length(), pass)
		}

		giant := algorithm.LargestComponent(sizes)
		slog.Info(fmt.Sprintf("repair pass %v", pass+1), "components", sizes.Length(), "giant", sizes[giant])
		new_edges, new_attribs, err := _ConnectToGiant(base, labels, giant, opts.ConnectorSpeed)
		if err != nil {
			return nil, nil, err
		}
		base = comps.AddEdges(base, new_edges)
		attributes = attributes.AddEdges(new_attribs)
	}
}

func _ConnectToGiant(base *comps.GraphBase, labels Array[int32], giant int32, speed float64) (List[structs.Edge], List[attr.EdgeAttribs], error) {
	index := comps.NewFilteredGraphIndex(base, func(node int32) bool {
		return labels[node] == giant
	})
	new_edges := NewList[structs.Edge](100)
	new_attribs := NewList[attr.EdgeAttribs](100)
	for i := 0; i < base.NodeCount(); i++ {
		node := int32(i)
		if labels[node] == giant {
			continue
		}
		loc := base.GetNode(node).Loc
		closest, ok := index.GetClosestNode(loc)
		if !ok {
			return nil, nil, fmt.Errorf("%w: largest component is empty", ErrDisconnectedNetwork)
		}
		length := geo.Distance(loc, base.GetNode(closest).Loc)
		new_edges.Add(structs.Edge{
			NodeA: node,
			NodeB: closest,
		})
		new_attribs.Add(attr.EdgeAttribs{
			Type:         attr.CONNECTOR,
			Length:       length,
			TimeWeighted: attr.TravelTime(length, speed),
		})
	}
	slog.Debug(fmt.Sprintf("added %v connector edges", new_edges.Length()))
	return new_edges, new_attribs, nil
}

//*******************************************
// remove disconnected
//*******************************************

// Removes all nodes outside the largest component.
//
// Returns the mapping old node id -> new node id (-1 for removed nodes).
func RemoveDisconnected(base *comps.GraphBase, attributes *attr.GraphAttributes) (*comps.GraphBase, *attr.GraphAttributes, Array[int32]) {
	g := graph.BuildGraph(base, comps.NewEqualWeighting(), None[comps.IGraphIndex]())
	labels, sizes := algorithm.ConnectedComponents(g)
	giant := algorithm.LargestComponent(sizes)

	remove_nodes := NewList[int32](100)
	for i, label := range labels {
		if label != giant {
			remove_nodes.Add(int32(i))
		}
	}
	remove_edges := NewList[int32](100)
	for i := 0; i < base.EdgeCount(); i++ {
		edge := base.GetEdge(int32(i))
		if labels[edge.NodeA] != giant {
			remove_edges.Add(int32(i))
		}
	}
	slog.Info(fmt.Sprintf("removing %v disconnected nodes", remove_nodes.Length()))

	new_base, mapping := comps.RemoveNodes(base, remove_nodes)
	new_attributes := attributes.RemoveEdges(remove_edges)
	return new_base, new_attributes, mapping
}
