package attach

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/ttpr0/go-accessibility/attr"
	"github.com/ttpr0/go-accessibility/comps"
	"github.com/ttpr0/go-accessibility/geo"
	"github.com/ttpr0/go-accessibility/structs"
	. "github.com/ttpr0/go-accessibility/util"
)

func lineNetwork() (*comps.GraphBase, *attr.GraphAttributes) {
	nodes := Array[structs.Node]{
		{Loc: geo.Coord{0, 0}},
		{Loc: geo.Coord{10, 0}},
		{Loc: geo.Coord{20, 0}},
	}
	edges := Array[structs.Edge]{{NodeA: 0, NodeB: 1}, {NodeA: 1, NodeB: 2}}
	attribs := Array[attr.EdgeAttribs]{{Length: 10}, {Length: 10}}
	return comps.NewGraphBase(nodes, edges), attr.New(attribs)
}

func TestAddToGraph(t *testing.T) {
	base, attributes := lineNetwork()
	points := []Point{{ID: 7, Loc: geo.Coord{9, 3}}, {ID: 8, Loc: geo.Coord{21, 0}}}

	new_base, new_attributes, attached, err := AddToGraph(base, attributes, comps.NewGraphIndex(base), points, 2, attr.CONNECTOR_SPEED)
	require.NoError(t, err)

	require.Equal(t, 5, new_base.NodeCount())
	require.Equal(t, 6, new_base.EdgeCount())
	require.Equal(t, 6, new_attributes.EdgeCount())
	require.Equal(t, List[Attached]{
		{ID: 7, Loc: geo.Coord{9, 3}, Node: 3},
		{ID: 8, Loc: geo.Coord{21, 0}, Node: 4},
	}, attached)

	// nearest first
	require.Equal(t, structs.Edge{NodeA: 3, NodeB: 1}, new_base.GetEdge(2))
	require.Equal(t, structs.Edge{NodeA: 4, NodeB: 2}, new_base.GetEdge(4))
	att := new_attributes.GetEdgeAttribs(4)
	require.Equal(t, attr.CONNECTOR, att.Type)
	require.InDelta(t, 1.0, att.Length, 1e-9)
	require.Equal(t, int32(2), new_base.GetNodeDegree(3))

	_, _, _, err = AddToGraph(base, attributes, comps.NewGraphIndex(base), points, 0, attr.CONNECTOR_SPEED)
	require.Error(t, err)
}

func TestSnapToGraph(t *testing.T) {
	base, _ := lineNetwork()
	index := comps.NewGraphIndex(base)

	attached, err := SnapToGraph(index, []Point{{ID: 1, Loc: geo.Coord{12, 1}}})
	require.NoError(t, err)
	require.Equal(t, int32(1), attached[0].Node)
}

func TestAddTopK(t *testing.T) {
	queries := List[Attached]{{ID: 1, Loc: geo.Coord{0, 0}, Node: 10}}
	targets := List[Attached]{
		{ID: 2, Loc: geo.Coord{3, 4}, Node: 20},
		{ID: 3, Loc: geo.Coord{1, 0}, Node: 21},
		{ID: 4, Loc: geo.Coord{100, 0}, Node: 22},
	}

	result, err := AddTopK(queries, targets, 2)
	require.NoError(t, err)
	require.Equal(t, 1, result.Length())

	q := result[0]
	require.Equal(t, int64(1), q.ID)
	require.Equal(t, int32(10), q.Node)
	require.Equal(t, []int32{21, 20}, q.Anchors)
	require.InDelta(t, 5.0, q.SeedRadius, 1e-9)
}
