package main

import (
	"context"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/ttpr0/go-accessibility/attach"
	"github.com/ttpr0/go-accessibility/batched/buffered"
	"github.com/ttpr0/go-accessibility/comps"
	"github.com/ttpr0/go-accessibility/geo"
	"github.com/ttpr0/go-accessibility/graph"
	"github.com/ttpr0/go-accessibility/parser"
	"github.com/ttpr0/go-accessibility/structs"
	. "github.com/ttpr0/go-accessibility/util"
)

func testConfig(t *testing.T, dir string, facilities string) Config {
	config, err := ParseConfig([]byte(fmt.Sprintf(`
network:
  nodes: testdata/nodes.csv
  edges: testdata/edges.csv
  graph: %[1]v/graph/network
points:
  file: testdata/points.csv
facilities:
  file: %[2]v
routing:
  min-buffer: 1
  max-buffer: 100
  workers: 2
checkpoint:
  file: %[1]v/run.db
  every: 1
output: %[1]v/distances.csv
`, dir, facilities)))
	require.NoError(t, err)
	return config
}

func readDistances(t *testing.T, file string) List[parser.DistanceRow] {
	rows, err := ReadCSVFromFile[parser.DistanceRow](file, ',')
	require.NoError(t, err)
	return rows
}

func requireDistance(t *testing.T, expected float64, row parser.DistanceRow) {
	require.NotNil(t, row.Distance)
	require.InDelta(t, expected, *row.Distance, 1e-9)
}

func TestRunManager(t *testing.T) {
	dir := t.TempDir()
	config := testConfig(t, dir, "testdata/facilities.csv")

	stats, err := NewRunManager(config).Run(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, stats.Count(buffered.VALIDATED))
	require.True(t, FileExists(filepath.Join(dir, "graph", "network-nodes")))

	// node 105 is linked to 104 by the repair
	linked := math.Sqrt(0.5*0.5 + 2*2)
	rows := readDistances(t, config.Output)
	require.Equal(t, 2, rows.Length())
	require.Equal(t, int64(1), rows[0].ID)
	require.Equal(t, int64(104), rows[0].Vertex)
	requireDistance(t, 4, rows[0])
	require.Equal(t, int64(2), rows[1].ID)
	require.Equal(t, int64(105), rows[1].Vertex)
	requireDistance(t, 4+linked, rows[1])

	// stored network and checkpoint are reused
	manager := NewRunManager(config)
	stats, err = manager.Run(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, stats.Count(buffered.SKIPPED))
	require.Equal(t, 0, stats.Count(buffered.VALIDATED))
	require.Equal(t, rows, readDistances(t, config.Output))

	progress := manager.Status().Progress()
	require.Equal(t, 1, progress.Done)
	require.Equal(t, 2, progress.Vertices)
}

func TestRunManagerAddedFacilities(t *testing.T) {
	dir := t.TempDir()
	config := testConfig(t, dir, "testdata/facilities_raw.csv")
	config.Checkpoint.File = ""

	_, err := NewRunManager(config).Run(context.Background())
	require.NoError(t, err)

	// facility at (0,-1) is linked to node 100
	rows := readDistances(t, config.Output)
	require.Equal(t, 2, rows.Length())
	requireDistance(t, 5, rows[0])
	requireDistance(t, 5+math.Sqrt(0.5*0.5+2*2), rows[1])
}

func TestRunManagerRejectsInvalidBuffer(t *testing.T) {
	for _, buffer := range []string{"NaN", "-1"} {
		dir := t.TempDir()
		file := filepath.Join(dir, "facilities.csv")
		data := "id,easting,northing,node_id,buffer,top_nodes\n10,0,0,100," + buffer + ",104\n"
		require.NoError(t, os.WriteFile(file, []byte(data), 0644))
		config := testConfig(t, dir, file)

		_, err := NewRunManager(config).Run(context.Background())
		require.ErrorIs(t, err, buffered.ErrInvalidConfiguration, buffer)
	}
}

func TestRunManagerCheckpointMismatch(t *testing.T) {
	dir := t.TempDir()
	config := testConfig(t, dir, "testdata/facilities.csv")
	_, err := NewRunManager(config).Run(context.Background())
	require.NoError(t, err)

	config.Routing.MaxBuffer = 200
	_, err = NewRunManager(config).Run(context.Background())
	require.Error(t, err)
}

func TestVerifyDistances(t *testing.T) {
	nodes := NewArray[structs.Node](5)
	edges := NewArray[structs.Edge](4)
	for i := range nodes {
		nodes[i] = structs.Node{Loc: geo.Coord{float64(i), 0}}
	}
	for i := range edges {
		edges[i] = structs.Edge{NodeA: int32(i), NodeB: int32(i + 1)}
	}
	base := comps.NewGraphBase(nodes, edges)
	weight := comps.NewDefaultWeighting(base)
	for i := range edges {
		weight.SetEdgeWeight(int32(i), 1)
	}
	g := graph.BuildGraph(base, weight, None[comps.IGraphIndex]())

	facilities := _PointSet{attached: List[attach.Attached]{{ID: 1, Node: 0}}}
	points := _PointSet{attached: List[attach.Attached]{{ID: 1, Node: 2}, {ID: 2, Node: 4}, {ID: 3, Node: 3}}}
	table := buffered.NewDistanceTable()
	table.Merge([]buffered.DistanceRecord{{Vertex: 2, Distance: 2}, {Vertex: 4, Distance: 5}})

	report, err := VerifyDistances(context.Background(), g, facilities, points, table, buffered.DefaultOptions())
	require.NoError(t, err)
	require.Equal(t, VerifyReport{Checked: 3, Truncated: 1, Missing: 1, MaxError: 1}, report)

	// nodes beyond the cutoff are not checked against
	opts := buffered.DefaultOptions()
	opts.Cutoff = Some(2.5)
	report, err = VerifyDistances(context.Background(), g, facilities, points, table, opts)
	require.NoError(t, err)
	require.Equal(t, 0, report.Missing)
	require.Equal(t, 0, report.Truncated)

	// full run on the test network
	config := testConfig(t, t.TempDir(), "testdata/facilities_raw.csv")
	config.Checkpoint.File = ""
	config.Verify = true
	_, err = NewRunManager(config).Run(context.Background())
	require.NoError(t, err)
}
