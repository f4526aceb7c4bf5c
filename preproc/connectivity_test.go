package preproc

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/ttpr0/go-accessibility/algorithm"
	"github.com/ttpr0/go-accessibility/attr"
	"github.com/ttpr0/go-accessibility/comps"
	"github.com/ttpr0/go-accessibility/geo"
	"github.com/ttpr0/go-accessibility/graph"
	"github.com/ttpr0/go-accessibility/structs"
	. "github.com/ttpr0/go-accessibility/util"
)

func buildNetwork(locs []geo.Coord, edges [][2]int32) (*comps.GraphBase, *attr.GraphAttributes) {
	nodes := NewArray[structs.Node](len(locs))
	for i, loc := range locs {
		nodes[i] = structs.Node{Loc: loc}
	}
	edge_arr := NewArray[structs.Edge](len(edges))
	attribs := NewArray[attr.EdgeAttribs](len(edges))
	for i, e := range edges {
		edge_arr[i] = structs.Edge{NodeA: e[0], NodeB: e[1]}
		length := geo.Distance(locs[e[0]], locs[e[1]])
		attribs[i] = attr.EdgeAttribs{Type: attr.ROAD, Length: length, TimeWeighted: attr.TravelTime(length, 50)}
	}
	return comps.NewGraphBase(nodes, edge_arr), attr.New(attribs)
}

func componentCount(base comps.IGraphBase) int {
	g := graph.BuildGraph(base, comps.NewEqualWeighting(), None[comps.IGraphIndex]())
	_, sizes := algorithm.ConnectedComponents(g)
	return sizes.Length()
}

func TestRepairLineWithIsolatedNode(t *testing.T) {
	locs := []geo.Coord{{0, 0}, {1, 0}, {2, 0}, {3, 0}, {4, 0}, {4.5, 2}}
	base, attributes := buildNetwork(locs, [][2]int32{{0, 1}, {1, 2}, {2, 3}, {3, 4}})

	new_base, new_attributes, err := RepairConnectivity(base, attributes, DefaultConnectivityOptions())
	require.NoError(t, err)

	require.Equal(t, 6, new_base.NodeCount())
	require.Equal(t, 5, new_base.EdgeCount())
	require.Equal(t, 5, new_attributes.EdgeCount())
	require.Equal(t, 1, componentCount(new_base))

	connector := new_base.GetEdge(4)
	require.Equal(t, structs.Edge{NodeA: 5, NodeB: 4}, connector)
	att := new_attributes.GetEdgeAttribs(4)
	require.Equal(t, attr.CONNECTOR, att.Type)
	require.InDelta(t, geo.Distance(locs[5], locs[4]), att.Length, 1e-9)
	require.InDelta(t, attr.TravelTime(att.Length, attr.CONNECTOR_SPEED), att.TimeWeighted, 1e-9)
}

func TestRepairConnectsFragments(t *testing.T) {
	// giant 0-1-2-3, fragment 4-5, fragment 6
	locs := []geo.Coord{{0, 0}, {10, 0}, {20, 0}, {30, 0}, {0, 10}, {0, 20}, {31, 5}}
	base, attributes := buildNetwork(locs, [][2]int32{{0, 1}, {1, 2}, {2, 3}, {4, 5}})

	new_base, _, err := RepairConnectivity(base, attributes, DefaultConnectivityOptions())
	require.NoError(t, err)

	require.Equal(t, 1, componentCount(new_base))
	// one connector per node outside the giant component
	require.Equal(t, base.EdgeCount()+3, new_base.EdgeCount())
	for i := base.EdgeCount(); i < new_base.EdgeCount(); i++ {
		edge := new_base.GetEdge(int32(i))
		require.Contains(t, []int32{0, 1, 2, 3}, edge.NodeB)
	}
}

func TestRepairWithoutEdges(t *testing.T) {
	locs := []geo.Coord{{0, 0}, {5, 0}, {0, 7}}
	base, attributes := buildNetwork(locs, nil)

	new_base, new_attributes, err := RepairConnectivity(base, attributes, DefaultConnectivityOptions())
	require.NoError(t, err)

	require.Equal(t, 1, componentCount(new_base))
	require.Equal(t, 2, new_attributes.EdgeCount())
	require.Equal(t, int32(0), new_base.GetEdge(0).NodeB)
	require.Equal(t, int32(0), new_base.GetEdge(1).NodeB)
}

func TestRepairEmptyNetwork(t *testing.T) {
	base, attributes := buildNetwork(nil, nil)

	new_base, new_attributes, err := RepairConnectivity(base, attributes, DefaultConnectivityOptions())
	require.NoError(t, err)
	require.Equal(t, 0, new_base.NodeCount())
	require.Equal(t, 0, new_attributes.EdgeCount())
}

func TestRepairPassLimit(t *testing.T) {
	locs := []geo.Coord{{0, 0}, {1, 0}, {5, 5}}
	base, attributes := buildNetwork(locs, [][2]int32{{0, 1}})

	opts := DefaultConnectivityOptions()
	opts.MaxPasses = 0
	_, _, err := RepairConnectivity(base, attributes, opts)
	require.ErrorIs(t, err, ErrDisconnectedNetwork)

	opts.ConnectorSpeed = 0
	_, _, err = RepairConnectivity(base, attributes, opts)
	require.Error(t, err)
}

func TestRemoveDisconnected(t *testing.T) {
	locs := []geo.Coord{{0, 0}, {1, 0}, {2, 0}, {9, 9}, {9, 10}, {5, 5}}
	base, attributes := buildNetwork(locs, [][2]int32{{0, 1}, {3, 4}, {1, 2}})

	new_base, new_attributes, mapping := RemoveDisconnected(base, attributes)

	require.Equal(t, 3, new_base.NodeCount())
	require.Equal(t, 2, new_base.EdgeCount())
	require.Equal(t, 2, new_attributes.EdgeCount())
	require.Equal(t, Array[int32]{0, 1, 2, -1, -1, -1}, mapping)
	require.Equal(t, 1, componentCount(new_base))
	require.InDelta(t, 1.0, new_attributes.GetEdgeAttribs(1).Length, 1e-9)
}
