package comps

import (
	"github.com/ttpr0/go-accessibility/structs"
	. "github.com/ttpr0/go-accessibility/util"
)

//*******************************************
// modification methods
//*******************************************

type IModifyable[T any] interface {
	_AddNodes(nodes List[structs.Node]) T
	_AddEdges(edges List[structs.Edge]) T
	_RemoveNodes(nodes List[int32]) (T, Array[int32])
}

// appends nodes to the nodes-list, new nodes have no edges
func AddNodes[T IModifyable[T]](comp T, nodes List[structs.Node]) T {
	return comp._AddNodes(nodes)
}

// appends edges to the edges-list, node ids are unchanged
func AddEdges[T IModifyable[T]](comp T, edges List[structs.Edge]) T {
	return comp._AddEdges(edges)
}

// removes nodes from nodes-list by id keeping order in tact
//
// also removes all edges adjacent to removed nodes,
// returns the mapping old id -> new id (-1 for removed nodes)
func RemoveNodes[T IModifyable[T]](comp T, nodes List[int32]) (T, Array[int32]) {
	return comp._RemoveNodes(nodes)
}
