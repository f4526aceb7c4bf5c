package algorithm

import (
	"context"
	"math"

	"github.com/ttpr0/go-accessibility/graph"
	. "github.com/ttpr0/go-accessibility/util"
)

type DistFlag struct {
	Dist float64
}

func (self *DistFlag) GetDist() float64 {
	return self.Dist
}

// Flag default for unreached nodes.
func UnreachedFlag() DistFlag {
	return DistFlag{Dist: math.Inf(1)}
}

type PQItem struct {
	item int32
	dist float64
}

// number of settled nodes between two context checks
const CTX_CHECK_INTERVAL = 1024

// Runs a one-to-many dijkstra from the starts.
//
// Nodes farther than max_range are pruned and keep the default flag.
// Pass math.Inf(1) to search without bound.
func CalcRangeDijkstra(ctx context.Context, explorer graph.IGraphExplorer, starts Array[Tuple[int32, float64]], node_flags *Flags[DistFlag], max_range float64) error {
	heap := NewPriorityQueue[PQItem, float64](100)

	for _, item := range starts {
		start := item.A
		dist := item.B
		if dist > max_range {
			continue
		}
		start_flag := node_flags.Get(start)
		if start_flag.Dist <= dist {
			continue
		}
		start_flag.Dist = dist
		heap.Enqueue(PQItem{start, dist}, dist)
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
		if settled%CTX_CHECK_INTERVAL == 0 {
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
				heap.Enqueue(PQItem{other_id, new_length}, new_length)
			}
		})
	}
	return nil
}
