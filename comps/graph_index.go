package comps

import (
	"math"

	"github.com/ttpr0/go-accessibility/geo"
	. "github.com/ttpr0/go-accessibility/util"
)

// *******************************************
// graph index interface
// *******************************************

type IGraphIndex interface {
	GetClosestNode(point geo.Coord) (int32, bool)
	GetKClosestNodes(point geo.Coord, k int) List[Tuple[int32, float64]]
	ForNodesInRadius(point geo.Coord, radius float64, callback func(node int32, dist float64))
}

//*******************************************
// graph index
//*******************************************

type BaseGraphIndex struct {
	index KDTree[int32]
}

func NewGraphIndex(base IGraphBase) IGraphIndex {
	index := _BuildKDTreeIndex(base, nil)
	return &BaseGraphIndex{
		index: index,
	}
}

// Index over the nodes accepted by filter only.
func NewFilteredGraphIndex(base IGraphBase, filter func(node int32) bool) IGraphIndex {
	index := _BuildKDTreeIndex(base, filter)
	return &BaseGraphIndex{
		index: index,
	}
}

func (self *BaseGraphIndex) GetClosestNode(point geo.Coord) (int32, bool) {
	return self.index.GetClosest(point[:], math.Inf(1))
}
func (self *BaseGraphIndex) GetKClosestNodes(point geo.Coord, k int) List[Tuple[int32, float64]] {
	return self.index.GetKClosest(point[:], k)
}
func (self *BaseGraphIndex) ForNodesInRadius(point geo.Coord, radius float64, callback func(node int32, dist float64)) {
	self.index.ForInRadius(point[:], radius, callback)
}
