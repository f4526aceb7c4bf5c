package attr

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	. "github.com/ttpr0/go-accessibility/util"
)

func TestAttributesModify(t *testing.T) {
	att := New(Array[EdgeAttribs]{
		{Type: ROAD, Length: 1, TimeWeighted: 0.1},
		{Type: FERRY, Length: 2, TimeWeighted: 0.2},
	})
	added := att.AddEdges(List[EdgeAttribs]{{Type: CONNECTOR, Length: 3, TimeWeighted: 0.3}})
	require.Equal(t, 2, att.EdgeCount())
	require.Equal(t, 3, added.EdgeCount())
	require.Equal(t, CONNECTOR, added.GetEdgeAttribs(2).Type)

	removed := added.RemoveEdges(List[int32]{0})
	require.Equal(t, 2, removed.EdgeCount())
	require.Equal(t, FERRY, removed.GetEdgeAttribs(0).Type)
	require.Equal(t, 3.0, removed.GetEdgeAttribs(1).Length)
}

func TestAttributesStoreLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "network")
	att := New(Array[EdgeAttribs]{
		{Type: ROAD, Road: MOTORWAY, Length: 120.5, TimeWeighted: 0.067},
		{Type: CONNECTOR, Length: 4, TimeWeighted: 0.03},
	})
	require.NoError(t, Store(att, path))

	loaded, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, att, loaded)
}

func TestEdgeTypeString(t *testing.T) {
	require.Equal(t, "ferry", FERRY.String())
	require.Equal(t, "motorway", MOTORWAY.String())
	require.Equal(t, TRACK, RoadTypeFromString("track"))
}

func TestTravelTime(t *testing.T) {
	require.InDelta(t, 1.0, TravelTime(1000, 60), 1e-9)
	require.InDelta(t, 60/(25*MPH_TO_KMH), TravelTime(1000, FERRY_SPEED), 1e-9)

	require.InDelta(t, 67*MPH_TO_KMH, ClassSpeed("Motorway", "Dual Carriageway"), 1e-9)
	require.InDelta(t, 57*MPH_TO_KMH, ClassSpeed("A Road", "Collapsed Dual Carriageway"), 1e-9)
	require.InDelta(t, 45*MPH_TO_KMH, ClassSpeed("B Road Primary", "Dual Carriageway"), 1e-9)
	require.InDelta(t, 25*MPH_TO_KMH, ClassSpeed("A Road", "Single Carriageway"), 1e-9)
	require.InDelta(t, 24*MPH_TO_KMH, ClassSpeed("Unclassified", "Single Carriageway"), 1e-9)
	require.InDelta(t, 10*MPH_TO_KMH, ClassSpeed("Local Road", "Roundabout"), 1e-9)
	require.InDelta(t, 5*MPH_TO_KMH, ClassSpeed("Local Road", "Layby"), 1e-9)
	require.InDelta(t, 10*MPH_TO_KMH, ClassSpeed("Local Road", "Single Carriageway"), 1e-9)
}
