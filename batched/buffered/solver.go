package buffered

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/ttpr0/go-accessibility/algorithm"
	. "github.com/ttpr0/go-accessibility/util"
)

//*******************************************
// buffered solver
//*******************************************

// Solves single queries on their buffered subgraph.
//
// not thread safe, use only one instance per goroutine
type Solver struct {
	extractor  *_Extractor
	node_flags Flags[algorithm.DistFlag]
	is_target  Array[bool]
	mode       AggregationMode
	opts       Options
}

func (self *Solver) Solve(ctx context.Context, q QueryPoint) QueryResult {
	result := QueryResult{ID: q.ID}

	if self.opts.QueryTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, self.opts.QueryTimeout)
		defer cancel()
	}

	ext, err := self.extractor.Extract(ctx, q, self.opts.MinRadius, self.opts.MaxRadius)
	result.Radius = ext.Radius
	result.Attempts = ext.Attempts
	if err != nil {
		return self._Abandon(result, err)
	}
	result.Outcome = VALIDATED
	if !ext.Validated {
		result.Err = fmt.Errorf("%w: query %v at radius %v", ErrUnreachableQuery, q.ID, ext.Radius)
		if self.opts.DropUnvalidated {
			result.Outcome = DROPPED
			return result
		}
		result.Outcome = UNVALIDATED
	}
	if !self.extractor.IsRetained(q.Node) {
		return result
	}

	self.node_flags.Reset()
	starts := Array[Tuple[int32, float64]]{MakeTuple(q.Node, 0.0)}
	err = algorithm.CalcRangeDijkstra(ctx, self.extractor.Explorer(), starts, &self.node_flags, self.opts._MaxRange())
	if err != nil {
		return self._Abandon(result, err)
	}

	result.Records = self._Collect(q)
	if len(result.Records) == 0 && result.Outcome == VALIDATED {
		result.Outcome = EMPTY
		result.Err = fmt.Errorf("%w: query %v at radius %v", ErrEmptyResult, q.ID, ext.Radius)
	}
	return result
}

func (self *Solver) _Abandon(result QueryResult, err error) QueryResult {
	result.Outcome = ABANDONED
	if errors.Is(err, context.DeadlineExceeded) {
		err = fmt.Errorf("query %v exceeded %v: %w", result.ID, self.opts.QueryTimeout, err)
	}
	result.Err = err
	result.Records = nil
	return result
}

// Collects the reached targets of the last search.
func (self *Solver) _Collect(q QueryPoint) []DistanceRecord {
	records := NewList[DistanceRecord](10)
	nearest := math.Inf(1)
	for _, node := range self.extractor.Nodes() {
		if !self.is_target[node] || !self.node_flags.IsSet(node) {
			continue
		}
		dist := self.node_flags.Get(node).Dist
		if math.IsInf(dist, 1) {
			continue
		}
		switch self.mode {
		case FEW_TO_MANY:
			records.Add(DistanceRecord{Vertex: node, Distance: dist})
		case MANY_TO_FEW:
			nearest = math.Min(nearest, dist)
		}
	}
	if self.mode == MANY_TO_FEW && !math.IsInf(nearest, 1) {
		records.Add(DistanceRecord{Vertex: q.Node, Distance: nearest})
	}
	return records
}

// Distance of a node in the last search.
func (self *Solver) GetDistance(node int32) (float64, bool) {
	if !self.node_flags.IsSet(node) {
		return math.Inf(1), false
	}
	dist := self.node_flags.Get(node).Dist
	return dist, !math.IsInf(dist, 1)
}
