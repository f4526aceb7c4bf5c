package buffered

import (
	"context"
	"fmt"
	"math"
	"sync"

	"github.com/ttpr0/go-accessibility/algorithm"
	"github.com/ttpr0/go-accessibility/graph"
	. "github.com/ttpr0/go-accessibility/util"
	"golang.org/x/exp/slog"
)

//*******************************************
// buffered engine
//*******************************************

// Nearest target distances of many queries computed on buffered subgraphs.
type Engine struct {
	g         graph.IGraph
	queries   List[QueryPoint]
	is_target Array[bool]
	mode      AggregationMode
	opts      Options
	table     *DistanceTable
}

func NewEngine(g graph.IGraph, queries List[QueryPoint], targets List[int32], mode AggregationMode, opts Options) (*Engine, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if mode != MANY_TO_FEW && mode != FEW_TO_MANY {
		return nil, fmt.Errorf("%w: unknown aggregation mode %v", ErrInvalidConfiguration, mode)
	}
	is_target := NewArray[bool](g.NodeCount())
	for _, node := range targets {
		if !g.IsNode(node) {
			return nil, fmt.Errorf("%w: target node %v not in graph", ErrInvalidConfiguration, node)
		}
		is_target[node] = true
	}
	for _, q := range queries {
		if !g.IsNode(q.Node) {
			return nil, fmt.Errorf("%w: query %v node %v not in graph", ErrInvalidConfiguration, q.ID, q.Node)
		}
		if math.IsNaN(q.SeedRadius) || q.SeedRadius < 0 {
			return nil, fmt.Errorf("%w: query %v seed radius %v", ErrInvalidConfiguration, q.ID, q.SeedRadius)
		}
		for _, anchor := range q.Anchors {
			if !g.IsNode(anchor) {
				return nil, fmt.Errorf("%w: query %v anchor %v not in graph", ErrInvalidConfiguration, q.ID, anchor)
			}
		}
	}
	if opts.Workers == 0 {
		opts.Workers = DefaultOptions().Workers
	}
	if opts.Progress == nil {
		opts.Progress = NewLogProgress(10000)
	}
	return &Engine{
		g:         g,
		queries:   queries,
		is_target: is_target,
		mode:      mode,
		opts:      opts,
		table:     NewDistanceTable(),
	}, nil
}

func (self *Engine) CreateSolver() *Solver {
	node_flags := NewFlags(int32(self.g.NodeCount()), algorithm.UnreachedFlag())
	return &Solver{
		extractor:  _NewExtractor(self.g, self.opts.Policy),
		node_flags: node_flags,
		is_target:  self.is_target,
		mode:       self.mode,
		opts:       self.opts,
	}
}

// Table the results are merged into, it can be seeded before running.
func (self *Engine) GetTable() *DistanceTable {
	return self.table
}

func (self *Engine) Mode() AggregationMode {
	return self.mode
}

type RunStats struct {
	Outcomes Dict[QueryOutcome, int]
}

func (self RunStats) Count(outcome QueryOutcome) int {
	return self.Outcomes[outcome]
}

// Processes all queries and merges their results into the table.
//
// Cancelling the context stops feeding queries, results of queries in flight
// are still merged. Returns the context error in that case.
func (self *Engine) Run(ctx context.Context) (RunStats, error) {
	total := self.queries.Length()
	slog.Info(fmt.Sprintf("running %v queries", total), "mode", self.mode.String(), "workers", self.opts.Workers,
		"min-radius", self.opts.MinRadius, "max-radius", self.opts.MaxRadius)

	query_chan := make(chan QueryPoint, self.opts.Workers*2)
	result_chan := make(chan QueryResult, self.opts.Workers*2)

	stats := RunStats{Outcomes: NewDict[QueryOutcome, int](6)}
	done := 0
	var sink_err error
	handle := func(result QueryResult) {
		done += 1
		stats.Outcomes[result.Outcome] += 1
		self.table.Merge(result.Records)
		_ObserveResult(result)
		_LogResult(result)
		if self.opts.Sink != nil && sink_err == nil && result.Outcome != SKIPPED {
			sink_err = self.opts.Sink.Write(result)
		}
		self.opts.Progress.OnQuery(done, total, result)
	}

	// feeder
	go func() {
		defer close(query_chan)
		for _, q := range self.queries {
			if ctx.Err() != nil {
				return
			}
			if self.opts.Skip != nil && self.opts.Skip(q.ID) {
				result_chan <- QueryResult{ID: q.ID, Outcome: SKIPPED}
				continue
			}
			select {
			case query_chan <- q:
			case <-ctx.Done():
				return
			}
		}
	}()

	wg := sync.WaitGroup{}
	for i := 0; i < self.opts.Workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			solver := self.CreateSolver()
			for q := range query_chan {
				result_chan <- solver.Solve(ctx, q)
			}
		}()
	}
	go func() {
		wg.Wait()
		close(result_chan)
	}()

	// single writer
	for result := range result_chan {
		handle(result)
	}
	if self.opts.Sink != nil {
		if err := self.opts.Sink.Flush(); err != nil && sink_err == nil {
			sink_err = err
		}
	}
	_SetTableSize(self.table.Length())

	if sink_err != nil {
		return stats, fmt.Errorf("failed to write results: %w", sink_err)
	}
	if err := ctx.Err(); err != nil {
		return stats, err
	}
	return stats, nil
}

func _LogResult(result QueryResult) {
	switch result.Outcome {
	case UNVALIDATED:
		slog.Warn("query not validated, using best effort subgraph", "query", result.ID, "radius", result.Radius, "attempts", result.Attempts)
	case DROPPED:
		slog.Warn("query not validated, dropped", "query", result.ID, "radius", result.Radius, "attempts", result.Attempts)
	case EMPTY:
		slog.Debug("query reached no target", "query", result.ID, "radius", result.Radius)
	case ABANDONED:
		slog.Warn("query abandoned", "query", result.ID, "radius", result.Radius, "error", result.Err)
	}
}
