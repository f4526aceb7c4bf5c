package buffered

import (
	"context"
	"math"
	"slices"
	"time"

	"github.com/ttpr0/go-accessibility/algorithm"
	"github.com/ttpr0/go-accessibility/comps"
	"github.com/ttpr0/go-accessibility/geo"
	"github.com/ttpr0/go-accessibility/graph"
	. "github.com/ttpr0/go-accessibility/util"
)

//*******************************************
// subgraph extraction
//*******************************************

const (
	_OUTSIDE  byte = 0
	_INSIDE   byte = 1
	_ENDPOINT byte = 2
)

// Extracts the buffered subgraph of a query.
//
// not thread safe, every solver owns its own extractor
type _Extractor struct {
	index    comps.IGraphIndex
	explorer graph.IGraphExplorer
	policy   SubgraphPolicy

	// selection state of the nodes (outside, inside radius, added endpoint)
	selected Flags[byte]
	labels   Flags[int32]
	nodes    List[int32]
	largest  int32

	// explorer restricted to the selected edges
	selection *graph.FilteredExplorer
	// explorer restricted to the retained component
	retained *graph.FilteredExplorer
}

func _NewExtractor(g graph.IGraph, policy SubgraphPolicy) *_Extractor {
	node_count := int32(g.NodeCount())
	self := &_Extractor{
		index:    g.GetIndex(),
		explorer: g.GetGraphExplorer(),
		policy:   policy,
		selected: NewFlags[byte](node_count, _OUTSIDE),
		labels:   NewFlags[int32](node_count, -1),
		nodes:    NewList[int32](1000),
		largest:  -1,
	}
	self.selection = graph.NewFilteredExplorer(self.explorer, func(ref graph.EdgeRef, from int32) bool {
		return self._IsSelectedEdge(from, ref.OtherID)
	})
	self.retained = graph.NewFilteredExplorer(self.explorer, func(ref graph.EdgeRef, from int32) bool {
		return self._IsSelectedEdge(from, ref.OtherID) && self.IsRetained(ref.OtherID)
	})
	return self
}

func (self *_Extractor) _IsSelectedEdge(from int32, to int32) bool {
	if !self.selected.IsSet(to) || !self.selected.IsSet(from) {
		return false
	}
	a := *self.selected.Get(from)
	b := *self.selected.Get(to)
	switch self.policy {
	case EITHER_ENDPOINT:
		return (a == _INSIDE && b != _OUTSIDE) || (b == _INSIDE && a != _OUTSIDE)
	default:
		return a == _INSIDE && b == _INSIDE
	}
}

// Reports whether the node is part of the retained component.
func (self *_Extractor) IsRetained(node int32) bool {
	if !self.labels.IsSet(node) {
		return false
	}
	label := *self.labels.Get(node)
	return label != -1 && label == self.largest
}

// Nodes of the current subgraph before connectivity filtering.
func (self *_Extractor) Nodes() List[int32] {
	return self.nodes
}

// Retained nodes of the current subgraph.
func (self *_Extractor) RetainedNodes() List[int32] {
	retained := NewList[int32](self.nodes.Length())
	for _, node := range self.nodes {
		if self.IsRetained(node) {
			retained.Add(node)
		}
	}
	return retained
}

// Explorer of the current subgraph.
func (self *_Extractor) Explorer() graph.IGraphExplorer {
	return self.retained
}

// Selects the subgraph within radius and keeps its largest component.
func (self *_Extractor) Select(loc geo.Coord, radius float64) {
	self.selected.Reset()
	self.labels.Reset()
	self.nodes.Clear()
	self.largest = -1

	self.index.ForNodesInRadius(loc, radius, func(node int32, dist float64) {
		*self.selected.Get(node) = _INSIDE
		self.nodes.Add(node)
	})
	if self.policy == EITHER_ENDPOINT {
		inside := self.nodes.Length()
		for i := 0; i < inside; i++ {
			self.explorer.ForAdjacentEdges(self.nodes[i], graph.ADJACENT_EDGES, func(ref graph.EdgeRef) {
				other := self.selected.Get(ref.OtherID)
				if *other == _OUTSIDE {
					*other = _ENDPOINT
					self.nodes.Add(ref.OtherID)
				}
			})
		}
	}
	// ties of the largest component go to the lowest node id
	slices.Sort(self.nodes)

	sizes := algorithm.LabelComponents(self.selection, self.nodes, &self.labels)
	self.largest = algorithm.LargestComponent(sizes)
}

// Reports whether the query node and all anchors are retained.
func (self *_Extractor) Validate(q QueryPoint) bool {
	if !self.IsRetained(q.Node) {
		return false
	}
	for _, anchor := range q.Anchors {
		if !self.IsRetained(anchor) {
			return false
		}
	}
	return true
}

type _Extraction struct {
	Radius    float64
	Attempts  int
	Validated bool
}

// Grows the radius by doubling until the subgraph validates or max_radius is reached.
//
// The last subgraph stays selected in the extractor. The context is checked
// before every attempt.
func (self *_Extractor) Extract(ctx context.Context, q QueryPoint, min_radius float64, max_radius float64) (_Extraction, error) {
	radius := math.Max(min_radius, q.SeedRadius)
	attempts := 0
	for {
		if err := _CheckContext(ctx); err != nil {
			return _Extraction{Radius: radius, Attempts: attempts}, err
		}
		attempts += 1
		self.Select(q.Loc, radius)
		if self.Validate(q) {
			return _Extraction{Radius: radius, Attempts: attempts, Validated: true}, nil
		}
		// also stops on a NaN radius
		if !(radius < max_radius) {
			return _Extraction{Radius: radius, Attempts: attempts, Validated: false}, nil
		}
		radius *= 2
	}
}

// Like ctx.Err but also reports a passed deadline whose timer has not fired yet.
func _CheckContext(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if deadline, ok := ctx.Deadline(); ok && !time.Now().Before(deadline) {
		return context.DeadlineExceeded
	}
	return nil
}
