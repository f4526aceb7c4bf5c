package comps

import (
	"fmt"

	"github.com/ttpr0/go-accessibility/structs"
	. "github.com/ttpr0/go-accessibility/util"
)

//*******************************************
// graph base interface
//*******************************************

type IGraphBase interface {
	NodeCount() int
	EdgeCount() int
	GetNode(node int32) structs.Node
	IsNode(node int32) bool
	GetEdge(edge int32) structs.Edge
	IsEdge(edge int32) bool
	GetAccessor() structs.IAdjAccessor
	GetNodeDegree(node int32) int32
}

//*******************************************
// graph base
//*******************************************

var _ IGraphBase = &GraphBase{}

type GraphBase struct {
	nodes    Array[structs.Node]
	edges    Array[structs.Edge]
	topology structs.AdjacencyArray
}

func NewGraphBase(nodes Array[structs.Node], edges Array[structs.Edge]) *GraphBase {
	topology := _BuildTopology(nodes, edges)
	return &GraphBase{
		nodes:    nodes,
		edges:    edges,
		topology: topology,
	}
}

func (self *GraphBase) NodeCount() int {
	return len(self.nodes)
}
func (self *GraphBase) EdgeCount() int {
	return len(self.edges)
}
func (self *GraphBase) IsNode(node int32) bool {
	return node >= 0 && node < int32(len(self.nodes))
}
func (self *GraphBase) GetNode(node int32) structs.Node {
	return self.nodes[node]
}
func (self *GraphBase) IsEdge(edge int32) bool {
	return edge >= 0 && edge < int32(len(self.edges))
}
func (self *GraphBase) GetEdge(edge int32) structs.Edge {
	return self.edges[edge]
}
func (self *GraphBase) GetAccessor() structs.IAdjAccessor {
	accessor := self.topology.GetAccessor()
	return &accessor
}
func (self *GraphBase) GetNodeDegree(node int32) int32 {
	return self.topology.GetDegree(node)
}

//*******************************************
// modification methods
//*******************************************

func (self *GraphBase) _AddNodes(nodes List[structs.Node]) *GraphBase {
	new_nodes := NewArray[structs.Node](self.NodeCount() + nodes.Length())
	copy(new_nodes, self.nodes)
	copy(new_nodes[self.NodeCount():], nodes)
	return NewGraphBase(new_nodes, self.edges)
}

func (self *GraphBase) _AddEdges(edges List[structs.Edge]) *GraphBase {
	new_edges := NewArray[structs.Edge](self.EdgeCount() + edges.Length())
	copy(new_edges, self.edges)
	copy(new_edges[self.EdgeCount():], edges)
	return NewGraphBase(self.nodes, new_edges)
}

func (self *GraphBase) _RemoveNodes(nodes List[int32]) (*GraphBase, Array[int32]) {
	remove := NewArray[bool](self.NodeCount())
	for _, n := range nodes {
		remove[n] = true
	}

	new_nodes := NewList[structs.Node](self.NodeCount())
	mapping := NewArray[int32](self.NodeCount())
	id := int32(0)
	for i := 0; i < self.NodeCount(); i++ {
		if remove[i] {
			mapping[i] = -1
			continue
		}
		new_nodes.Add(self.GetNode(int32(i)))
		mapping[i] = id
		id += 1
	}
	new_edges := NewList[structs.Edge](self.EdgeCount())
	for i := 0; i < self.EdgeCount(); i++ {
		edge := self.GetEdge(int32(i))
		if remove[edge.NodeA] || remove[edge.NodeB] {
			continue
		}
		new_edges.Add(structs.Edge{
			NodeA: mapping[edge.NodeA],
			NodeB: mapping[edge.NodeB],
		})
	}

	return NewGraphBase(Array[structs.Node](new_nodes), Array[structs.Edge](new_edges)), mapping
}

//*******************************************
// load and store methods
//*******************************************

func (self *GraphBase) _Store(path string) error {
	if err := WriteArrayToFile(self.nodes, path+"-nodes"); err != nil {
		return fmt.Errorf("failed to store nodes: %w", err)
	}
	if err := WriteArrayToFile(self.edges, path+"-edges"); err != nil {
		return fmt.Errorf("failed to store edges: %w", err)
	}
	return nil
}

func (self *GraphBase) _New() *GraphBase {
	return &GraphBase{}
}
func (self *GraphBase) _Load(path string) error {
	nodes, err := ReadArrayFromFile[structs.Node](path + "-nodes")
	if err != nil {
		return fmt.Errorf("failed to load nodes: %w", err)
	}
	edges, err := ReadArrayFromFile[structs.Edge](path + "-edges")
	if err != nil {
		return fmt.Errorf("failed to load edges: %w", err)
	}
	for i, edge := range edges {
		if int(edge.NodeA) >= len(nodes) || int(edge.NodeB) >= len(nodes) || edge.NodeA < 0 || edge.NodeB < 0 {
			return fmt.Errorf("edge %v references unknown node", i)
		}
	}
	*self = *NewGraphBase(nodes, edges)
	return nil
}
