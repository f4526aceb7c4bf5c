package storage

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/ttpr0/go-accessibility/attr"
	"github.com/ttpr0/go-accessibility/batched/buffered"
	"github.com/ttpr0/go-accessibility/comps"
	"github.com/ttpr0/go-accessibility/geo"
	"github.com/ttpr0/go-accessibility/graph"
	"github.com/ttpr0/go-accessibility/structs"
	. "github.com/ttpr0/go-accessibility/util"
)

func TestCheckpointResume(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.db")

	checkpoint, err := NewCheckpoint(path, 2)
	require.NoError(t, err)
	require.NoError(t, checkpoint.Write(buffered.QueryResult{
		ID: 1, Outcome: buffered.VALIDATED, Radius: 4, Attempts: 3,
		Records: []buffered.DistanceRecord{{Vertex: 4, Distance: 4}, {Vertex: 5, Distance: 7}},
	}))
	require.NoError(t, checkpoint.Write(buffered.QueryResult{
		ID: 2, Outcome: buffered.VALIDATED, Radius: 2, Attempts: 2,
		Records: []buffered.DistanceRecord{{Vertex: 4, Distance: 2}},
	}))
	require.NoError(t, checkpoint.Write(buffered.QueryResult{
		ID: 3, Outcome: buffered.ABANDONED, Radius: 2, Attempts: 1,
	}))
	require.NoError(t, checkpoint.Write(buffered.QueryResult{
		ID: 4, Outcome: buffered.EMPTY, Radius: 8, Attempts: 1,
	}))
	require.NoError(t, checkpoint.Close())

	checkpoint, err = NewCheckpoint(path, 10)
	require.NoError(t, err)
	defer checkpoint.Close()

	table := buffered.NewDistanceTable()
	skip, err := checkpoint.Resume(table)
	require.NoError(t, err)

	require.True(t, skip(1))
	require.True(t, skip(2))
	require.False(t, skip(3))
	require.True(t, skip(4))
	require.False(t, skip(5))

	dist, ok := table.Get(4)
	require.True(t, ok)
	require.Equal(t, 2.0, dist)
	dist, ok = table.Get(5)
	require.True(t, ok)
	require.Equal(t, 7.0, dist)
	require.Equal(t, 2, table.Length())
}

func TestCheckpointDistanceKeepsMinimum(t *testing.T) {
	checkpoint, err := NewCheckpoint(filepath.Join(t.TempDir(), "run.db"), 1)
	require.NoError(t, err)
	defer checkpoint.Close()

	require.NoError(t, checkpoint.Write(buffered.QueryResult{ID: 1, Records: []buffered.DistanceRecord{{Vertex: 1, Distance: 3}}}))
	require.NoError(t, checkpoint.Write(buffered.QueryResult{ID: 2, Records: []buffered.DistanceRecord{{Vertex: 1, Distance: 5}}}))

	records, err := checkpoint.Distances()
	require.NoError(t, err)
	require.Equal(t, []buffered.DistanceRecord{{Vertex: 1, Distance: 3}}, []buffered.DistanceRecord(records))
}

func TestCheckpointRunKey(t *testing.T) {
	checkpoint, err := NewCheckpoint(filepath.Join(t.TempDir(), "run.db"), 1)
	require.NoError(t, err)
	defer checkpoint.Close()

	require.NoError(t, checkpoint.SetRunKey("a"))
	require.NoError(t, checkpoint.SetRunKey("a"))
	require.Error(t, checkpoint.SetRunKey("b"))
}

// size x size grid with unit edges
func gridGraph(t *testing.T, size int) *graph.Graph {
	nodes := NewList[structs.Node](size * size)
	edges := NewList[structs.Edge](2 * size * size)
	attribs := NewList[attr.EdgeAttribs](2 * size * size)
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			id := int32(y*size + x)
			nodes.Add(structs.Node{Loc: geo.Coord{float64(x), float64(y)}})
			if x > 0 {
				edges.Add(structs.Edge{NodeA: id - 1, NodeB: id})
				attribs.Add(attr.EdgeAttribs{Length: 1})
			}
			if y > 0 {
				edges.Add(structs.Edge{NodeA: id - int32(size), NodeB: id})
				attribs.Add(attr.EdgeAttribs{Length: 1})
			}
		}
	}
	weight, err := comps.BuildWeighting(attr.New(Array[attr.EdgeAttribs](attribs)), comps.LENGTH)
	require.NoError(t, err)
	base := comps.NewGraphBase(Array[structs.Node](nodes), Array[structs.Edge](edges))
	return graph.BuildGraph(base, weight, None[comps.IGraphIndex]())
}

func TestCheckpointSkipsTimedOutQuery(t *testing.T) {
	g := gridGraph(t, 40)
	far := int32(g.NodeCount() - 1)
	queries := List[buffered.QueryPoint]{{ID: 7, Node: 0, Loc: g.GetNodeGeom(0), Anchors: []int32{far}}}

	checkpoint, err := NewCheckpoint(filepath.Join(t.TempDir(), "run.db"), 1)
	require.NoError(t, err)
	defer checkpoint.Close()

	opts := buffered.DefaultOptions()
	opts.MinRadius = 1
	opts.MaxRadius = 100
	opts.Workers = 1
	opts.QueryTimeout = time.Nanosecond
	opts.Progress = buffered.ProgressFunc(func(done int, total int, result buffered.QueryResult) {})
	opts.Sink = checkpoint
	engine, err := buffered.NewEngine(g, queries, List[int32]{far}, buffered.MANY_TO_FEW, opts)
	require.NoError(t, err)

	stats, err := engine.Run(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, stats.Count(buffered.ABANDONED))

	completed, err := checkpoint.CompletedQueries()
	require.NoError(t, err)
	require.False(t, completed[7])
	records, err := checkpoint.Distances()
	require.NoError(t, err)
	require.Empty(t, records)
}
