package structs

import (
	. "github.com/ttpr0/go-accessibility/util"
)

//*******************************************
// adjacency array
//*******************************************

type _AdjEntry struct {
	EdgeID  int32
	OtherID int32
}

// Undirected adjacency in compressed form.
//
// Entries of node i are stored in entries[offsets[i]:offsets[i+1]], every edge
// appears once at each endpoint (twice for self-loops at the same node).
type AdjacencyArray struct {
	offsets Array[int32]
	entries Array[_AdjEntry]
}

func BuildAdjacency(node_count int, edges Array[Edge]) AdjacencyArray {
	degrees := NewArray[int32](node_count + 1)
	for _, edge := range edges {
		degrees[edge.NodeA+1] += 1
		degrees[edge.NodeB+1] += 1
	}
	for i := 1; i <= node_count; i++ {
		degrees[i] += degrees[i-1]
	}
	offsets := degrees
	fill := NewArray[int32](node_count)
	entries := NewArray[_AdjEntry](2 * len(edges))
	for id, edge := range edges {
		pos := offsets[edge.NodeA] + fill[edge.NodeA]
		entries[pos] = _AdjEntry{EdgeID: int32(id), OtherID: edge.NodeB}
		fill[edge.NodeA] += 1

		pos = offsets[edge.NodeB] + fill[edge.NodeB]
		entries[pos] = _AdjEntry{EdgeID: int32(id), OtherID: edge.NodeA}
		fill[edge.NodeB] += 1
	}
	return AdjacencyArray{
		offsets: offsets,
		entries: entries,
	}
}

func (self *AdjacencyArray) NodeCount() int {
	if len(self.offsets) == 0 {
		return 0
	}
	return len(self.offsets) - 1
}

func (self *AdjacencyArray) GetDegree(node int32) int32 {
	return self.offsets[node+1] - self.offsets[node]
}

func (self *AdjacencyArray) GetAccessor() AdjArrayAccessor {
	return AdjArrayAccessor{
		topology: self,
	}
}

//*******************************************
// adjacency accessor
//*******************************************

type IAdjAccessor interface {
	SetBaseNode(node int32)
	Next() bool
	GetEdgeID() int32
	GetOtherID() int32
}

// not thread safe, use one accessor per goroutine
type AdjArrayAccessor struct {
	topology *AdjacencyArray
	curr     int32
	end      int32
	edge_id  int32
	other_id int32
}

func (self *AdjArrayAccessor) SetBaseNode(node int32) {
	self.curr = self.topology.offsets[node]
	self.end = self.topology.offsets[node+1]
}
func (self *AdjArrayAccessor) Next() bool {
	if self.curr >= self.end {
		return false
	}
	entry := self.topology.entries[self.curr]
	self.edge_id = entry.EdgeID
	self.other_id = entry.OtherID
	self.curr += 1
	return true
}
func (self *AdjArrayAccessor) GetEdgeID() int32 {
	return self.edge_id
}
func (self *AdjArrayAccessor) GetOtherID() int32 {
	return self.other_id
}
