package comps

import (
	"github.com/ttpr0/go-accessibility/structs"
	. "github.com/ttpr0/go-accessibility/util"
)

//*******************************************
// build graph components
//*******************************************

func _BuildTopology(nodes Array[structs.Node], edges Array[structs.Edge]) structs.AdjacencyArray {
	return structs.BuildAdjacency(nodes.Length(), edges)
}

func _BuildKDTreeIndex(base IGraphBase, filter func(int32) bool) KDTree[int32] {
	points := make([][]float64, 0, base.NodeCount())
	values := make([]int32, 0, base.NodeCount())
	for i := 0; i < base.NodeCount(); i++ {
		if filter != nil && !filter(int32(i)) {
			continue
		}
		loc := base.GetNode(int32(i)).Loc
		points = append(points, []float64{loc[0], loc[1]})
		values = append(values, int32(i))
	}
	return BuildKDTree(2, points, values)
}
