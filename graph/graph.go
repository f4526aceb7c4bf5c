package graph

import (
	"sync"

	"github.com/ttpr0/go-accessibility/comps"
	"github.com/ttpr0/go-accessibility/geo"
	"github.com/ttpr0/go-accessibility/structs"
)

//*******************************************
// graph interfaces
//******************************************

type IGraph interface {
	GetGraphExplorer() IGraphExplorer
	NodeCount() int
	EdgeCount() int
	IsNode(node int32) bool
	GetNode(node int32) structs.Node
	GetEdge(edge int32) structs.Edge
	GetNodeGeom(node int32) geo.Coord
	GetIndex() comps.IGraphIndex
}

// not thread safe, use only one instance per goroutine
type IGraphExplorer interface {
	// Iterates through the adjacency of a node calling the callback for every edge.
	//
	// Edges are undirected, every edge is visited from both of its endpoints.
	ForAdjacentEdges(node int32, typ Adjacency, callback func(EdgeRef))
	GetEdgeWeight(edge EdgeRef) float64
	GetOtherNode(edge EdgeRef, node int32) int32
}

//*******************************************
// base-graph
//******************************************

var _ IGraph = &Graph{}

type Graph struct {
	base       comps.IGraphBase
	weight     comps.IWeighting
	index      comps.IGraphIndex
	index_once sync.Once
}

func (self *Graph) GetGraphExplorer() IGraphExplorer {
	return &BaseGraphExplorer{
		graph:    self,
		accessor: self.base.GetAccessor(),
		weight:   self.weight,
	}
}
func (self *Graph) NodeCount() int {
	return self.base.NodeCount()
}
func (self *Graph) EdgeCount() int {
	return self.base.EdgeCount()
}
func (self *Graph) IsNode(node int32) bool {
	return self.base.IsNode(node)
}
func (self *Graph) GetNode(node int32) structs.Node {
	return self.base.GetNode(node)
}
func (self *Graph) GetEdge(edge int32) structs.Edge {
	return self.base.GetEdge(edge)
}
func (self *Graph) GetNodeGeom(node int32) geo.Coord {
	return self.base.GetNode(node).Loc
}

// Returns the spatial index, it is built on first use.
func (self *Graph) GetIndex() comps.IGraphIndex {
	self.index_once.Do(func() {
		if self.index == nil {
			self.index = comps.NewGraphIndex(self.base)
		}
	})
	return self.index
}

//*******************************************
// base-graph explorer
//******************************************

type BaseGraphExplorer struct {
	graph    *Graph
	accessor structs.IAdjAccessor
	weight   comps.IWeighting
}

func (self *BaseGraphExplorer) ForAdjacentEdges(node int32, typ Adjacency, callback func(EdgeRef)) {
	if typ == ADJACENT_ALL || typ == ADJACENT_EDGES {
		self.accessor.SetBaseNode(node)
		for self.accessor.Next() {
			edge_id := self.accessor.GetEdgeID()
			other_id := self.accessor.GetOtherID()
			callback(EdgeRef{
				EdgeID:  edge_id,
				OtherID: other_id,
			})
		}
	} else {
		panic("Adjacency-type not implemented for this graph.")
	}
}
func (self *BaseGraphExplorer) GetEdgeWeight(edge EdgeRef) float64 {
	return self.weight.GetEdgeWeight(edge.EdgeID)
}
func (self *BaseGraphExplorer) GetOtherNode(edge EdgeRef, node int32) int32 {
	return self.graph.GetEdge(edge.EdgeID).OtherNode(node)
}

//*******************************************
// filtered explorer
//******************************************

// Explorer restricted to the edges accepted by the filter.
//
// The filter receives the edge and the node it is traversed from.
type FilteredExplorer struct {
	explorer IGraphExplorer
	filter   func(ref EdgeRef, from int32) bool
}

func NewFilteredExplorer(explorer IGraphExplorer, filter func(ref EdgeRef, from int32) bool) *FilteredExplorer {
	return &FilteredExplorer{
		explorer: explorer,
		filter:   filter,
	}
}

func (self *FilteredExplorer) ForAdjacentEdges(node int32, typ Adjacency, callback func(EdgeRef)) {
	self.explorer.ForAdjacentEdges(node, typ, func(ref EdgeRef) {
		if self.filter(ref, node) {
			callback(ref)
		}
	})
}
func (self *FilteredExplorer) GetEdgeWeight(edge EdgeRef) float64 {
	return self.explorer.GetEdgeWeight(edge)
}
func (self *FilteredExplorer) GetOtherNode(edge EdgeRef, node int32) int32 {
	return self.explorer.GetOtherNode(edge, node)
}
