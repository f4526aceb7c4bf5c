package graph

import (
	"github.com/ttpr0/go-accessibility/comps"
	. "github.com/ttpr0/go-accessibility/util"
)

//*******************************************
// build graphs
//*******************************************

// Builds a graph, if no index is given it is created on first use.
func BuildGraph(base comps.IGraphBase, weight comps.IWeighting, index Optional[comps.IGraphIndex]) *Graph {
	g := &Graph{
		base:   base,
		weight: weight,
	}
	if index.HasValue() {
		g.index = index.Value
	}
	return g
}
