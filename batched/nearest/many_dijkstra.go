package nearest

import (
	"context"
	"math"

	"github.com/ttpr0/go-accessibility/algorithm"
	"github.com/ttpr0/go-accessibility/graph"
	. "github.com/ttpr0/go-accessibility/util"
)

// Exact nearest source search over the full graph.
func NewManyDijkstra(g graph.IGraph, max_range float64) *ManyDijkstra {
	return &ManyDijkstra{g: g, max_range: max_range}
}

type ManyDijkstra struct {
	g         graph.IGraph
	max_range float64
}

func (self *ManyDijkstra) CreateSolver() ISolver {
	node_flags := NewFlags[_DistFlag](int32(self.g.NodeCount()), _DistFlag{math.Inf(1), -1})
	return &ManyDijkstraSolver{
		g:          self.g,
		node_flags: node_flags,
		max_range:  self.max_range,
	}
}

type _DistFlag struct {
	Dist   float64
	Source int32
}

type _PQItem struct {
	item int32
	dist float64
}

type ManyDijkstraSolver struct {
	g          graph.IGraph
	node_flags Flags[_DistFlag]
	max_range  float64
}

func (self *ManyDijkstraSolver) CalcNearestNeighbours(ctx context.Context, sources List[Array[Tuple[int32, float64]]]) error {
	self.node_flags.Reset()
	return _CalcManyDijkstra(ctx, self.g.GetGraphExplorer(), sources, &self.node_flags, self.max_range)
}

func (self *ManyDijkstraSolver) GetNeighbour(node int32) int32 {
	return self.node_flags.Get(node).Source
}
func (self *ManyDijkstraSolver) GetDistance(node int32) (float64, bool) {
	dist := self.node_flags.Get(node).Dist
	return dist, !math.IsInf(dist, 1)
}

func _CalcManyDijkstra(ctx context.Context, explorer graph.IGraphExplorer, sources List[Array[Tuple[int32, float64]]], node_flags *Flags[_DistFlag], max_range float64) error {
	heap := NewPriorityQueue[_PQItem, float64](100)

	for source_id, source := range sources {
		for _, item := range source {
			start := item.A
			dist := item.B
			if dist > max_range {
				continue
			}
			start_flag := node_flags.Get(start)
			// ties go to the lower source id
			if start_flag.Dist > dist {
				start_flag.Dist = dist
				start_flag.Source = int32(source_id)
				heap.Enqueue(_PQItem{start, dist}, dist)
			}
		}
	}

	settled := 0
	for {
		curr_item, ok := heap.Dequeue()
		if !ok {
			break
		}
		curr_id := curr_item.item
		curr_dist := curr_item.dist
		curr_flag := node_flags.Get(curr_id)
		if curr_flag.Dist < curr_dist {
			continue
		}
		settled += 1
		if settled%algorithm.CTX_CHECK_INTERVAL == 0 {
			if err := ctx.Err(); err != nil {
				return err
			}
		}
		explorer.ForAdjacentEdges(curr_id, graph.ADJACENT_EDGES, func(ref graph.EdgeRef) {
			other_id := ref.OtherID
			other_flag := node_flags.Get(other_id)
			new_length := curr_flag.Dist + explorer.GetEdgeWeight(ref)
			if new_length > max_range {
				return
			}
			if other_flag.Dist > new_length {
				other_flag.Dist = new_length
				other_flag.Source = curr_flag.Source
				heap.Enqueue(_PQItem{other_id, new_length}, new_length)
			}
		})
	}
	return nil
}
