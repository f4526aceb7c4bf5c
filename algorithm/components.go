package algorithm

import (
	"github.com/ttpr0/go-accessibility/graph"
	. "github.com/ttpr0/go-accessibility/util"
)

//*******************************************
// connected components
//*******************************************

// Labels the connected components of the graph.
//
// Components are discovered by a bfs in node-id order, so component i
// contains a smaller node id than component i+1.
// Returns the label of every node and the size of every component.
func ConnectedComponents(g graph.IGraph) (Array[int32], List[int32]) {
	node_count := g.NodeCount()
	nodes := NewArray[int32](node_count)
	for i := 0; i < node_count; i++ {
		nodes[i] = int32(i)
	}
	labels := NewFlags[int32](int32(node_count), -1)
	sizes := LabelComponents(g.GetGraphExplorer(), nodes, &labels)

	components := NewArray[int32](node_count)
	for i := 0; i < node_count; i++ {
		components[i] = *labels.Get(int32(i))
	}
	return components, sizes
}

// Labels the components reachable through the explorer from the given nodes.
//
// Nodes are visited in the given order, unlabeled nodes start a new component.
// Labels are written into the flags (default -1 = unlabeled).
func LabelComponents(explorer graph.IGraphExplorer, nodes []int32, labels *Flags[int32]) List[int32] {
	sizes := NewList[int32](10)
	queue := NewList[int32](100)
	for _, start := range nodes {
		if *labels.Get(start) != -1 {
			continue
		}
		label := int32(sizes.Length())
		size := int32(0)
		queue.Clear()
		queue.Add(start)
		*labels.Get(start) = label
		for i := 0; i < queue.Length(); i++ {
			curr := queue[i]
			size += 1
			explorer.ForAdjacentEdges(curr, graph.ADJACENT_EDGES, func(ref graph.EdgeRef) {
				other_flag := labels.Get(ref.OtherID)
				if *other_flag != -1 {
					return
				}
				*other_flag = label
				queue.Add(ref.OtherID)
			})
		}
		sizes.Add(size)
	}
	return sizes
}

// Returns the label of the largest component, ties go to the lowest label.
func LargestComponent(sizes List[int32]) int32 {
	best := int32(-1)
	best_size := int32(-1)
	for i, size := range sizes {
		if size > best_size {
			best = int32(i)
			best_size = size
		}
	}
	return best
}
