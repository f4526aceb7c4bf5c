package parser

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/ttpr0/go-accessibility/attr"
	"github.com/ttpr0/go-accessibility/geo"
	. "github.com/ttpr0/go-accessibility/util"
)

func TestReadNetworkCSV(t *testing.T) {
	base, attributes, mapping, err := ReadNetworkCSV("testdata/nodes.csv", "testdata/edges.csv")
	require.NoError(t, err)

	require.Equal(t, 6, base.NodeCount())
	require.Equal(t, 4, base.EdgeCount())
	require.Equal(t, 6, mapping.Length())

	node, ok := mapping.GetNode(103)
	require.True(t, ok)
	require.Equal(t, int32(3), node)
	require.Equal(t, int64(105), mapping.GetID(5))
	require.Equal(t, geo.Coord{4.5, 2}, base.GetNode(5).Loc)
	_, ok = mapping.GetNode(999)
	require.False(t, ok)

	require.Equal(t, 0.5, attributes.GetEdgeAttribs(0).TimeWeighted)
	require.InDelta(t, attr.TravelTime(1, attr.ClassSpeed("Motorway", "Dual Carriageway")), attributes.GetEdgeAttribs(1).TimeWeighted, 1e-12)
	require.Equal(t, attr.FERRY, attributes.GetEdgeAttribs(2).Type)
	require.InDelta(t, attr.TravelTime(1, attr.FERRY_SPEED), attributes.GetEdgeAttribs(2).TimeWeighted, 1e-12)
	require.InDelta(t, 60*1/(25*attr.MPH_TO_KMH), attributes.GetEdgeAttribs(3).TimeWeighted, 1e-9)
}

func TestBuildNetworkErrors(t *testing.T) {
	nodes := List[NodeRow]{{ID: 1}, {ID: 2}}

	_, _, _, err := BuildNetwork(nodes, List[EdgeRow]{{Start: 1, End: 3, Length: 1}})
	require.Error(t, err)

	_, _, _, err = BuildNetwork(nodes, List[EdgeRow]{{Start: 1, End: 2, Length: -1}})
	require.Error(t, err)

	_, _, _, err = BuildNetwork(List[NodeRow]{{ID: 1}, {ID: 1}}, nil)
	require.Error(t, err)
}

func TestIDMapping(t *testing.T) {
	mapping, err := NewIDMapping(Array[int64]{10, 20, 30, 40})
	require.NoError(t, err)

	remapped := mapping.Remap(Array[int32]{0, -1, 1, -1})
	require.Equal(t, 2, remapped.Length())
	require.Equal(t, int64(30), remapped.GetID(1))

	path := filepath.Join(t.TempDir(), "network")
	require.NoError(t, StoreIDMapping(mapping, path))
	loaded, err := LoadIDMapping(path)
	require.NoError(t, err)
	require.Equal(t, int64(40), loaded.GetID(3))

	identity := IdentityMapping(3)
	node, ok := identity.GetNode(2)
	require.True(t, ok)
	require.Equal(t, int32(2), node)
}

func TestReadPoints(t *testing.T) {
	points, err := ReadPoints("testdata/points.csv")
	require.NoError(t, err)
	require.Equal(t, 2, points.Length())

	p := points[0]
	require.Equal(t, int64(1), p.ID)
	require.NotNil(t, p.Node)
	require.Equal(t, int64(100), *p.Node)
	require.Equal(t, 5.0, *p.Buffer)
	require.Equal(t, []int64{104, 103}, p.TopNodes)

	require.Nil(t, points[1].Node)
	require.Nil(t, points[1].Buffer)
	require.Empty(t, points[1].TopNodes)
}

func TestWriteDistances(t *testing.T) {
	file := filepath.Join(t.TempDir(), "out.csv")
	dist := 2.5
	rows := []DistanceRow{
		{ID: 1, Vertex: 100, Distance: &dist},
		{ID: 2, Vertex: 104, Distance: nil},
	}
	require.NoError(t, WriteDistances(file, rows))

	data, err := os.ReadFile(file)
	require.NoError(t, err)
	require.Equal(t, "id,vertex,distance\n1,100,2.5\n2,104,\n", string(data))
}

func TestTravelSpeeds(t *testing.T) {
	decoder := DrivingDecoder{}

	require.True(t, decoder.IsValidWay(Dict[string, string]{"highway": "primary"}))
	require.True(t, decoder.IsValidWay(Dict[string, string]{"route": "ferry"}))
	require.False(t, decoder.IsValidWay(Dict[string, string]{"highway": "footway"}))
	require.False(t, decoder.IsValidWay(Dict[string, string]{"building": "yes"}))

	att, speed := decoder.DecodeEdge(Dict[string, string]{"route": "ferry"})
	require.Equal(t, attr.FERRY, att.Type)
	require.Equal(t, attr.FERRY_SPEED, speed)

	att, speed = decoder.DecodeEdge(Dict[string, string]{"highway": "motorway"})
	require.Equal(t, attr.MOTORWAY, att.Road)
	require.Equal(t, 100.0, speed)

	_, speed = decoder.DecodeEdge(Dict[string, string]{"highway": "residential", "maxspeed": "50"})
	require.Equal(t, 45.0, speed)

	_, speed = decoder.DecodeEdge(Dict[string, string]{"highway": "track", "tracktype": "grade1", "surface": "mud"})
	require.Equal(t, 10.0, speed)

	_, speed = decoder.DecodeEdge(Dict[string, string]{"highway": "service"})
	require.Equal(t, 20.0, speed)
}
