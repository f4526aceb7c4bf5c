package attr

import (
	"fmt"

	. "github.com/ttpr0/go-accessibility/util"
)

type IAttributes interface {
	EdgeCount() int
	GetEdgeAttribs(edge int32) EdgeAttribs
}

var _ IAttributes = &GraphAttributes{}

type GraphAttributes struct {
	edge_attribs Array[EdgeAttribs]
}

func New(edges Array[EdgeAttribs]) *GraphAttributes {
	return &GraphAttributes{
		edge_attribs: edges,
	}
}

func (self *GraphAttributes) EdgeCount() int {
	return self.edge_attribs.Length()
}
func (self *GraphAttributes) GetEdgeAttribs(edge int32) EdgeAttribs {
	return self.edge_attribs[edge]
}

//*******************************************
// modification methods
//*******************************************

// Returns new attributes with edges appended in order.
func (self *GraphAttributes) AddEdges(edges List[EdgeAttribs]) *GraphAttributes {
	new_edges := NewArray[EdgeAttribs](self.edge_attribs.Length() + edges.Length())
	copy(new_edges, self.edge_attribs)
	copy(new_edges[self.edge_attribs.Length():], edges)
	return &GraphAttributes{
		edge_attribs: new_edges,
	}
}

// Returns new attributes without the removed edges keeping order in tact.
func (self *GraphAttributes) RemoveEdges(edges List[int32]) *GraphAttributes {
	remove := NewArray[bool](len(self.edge_attribs))
	for _, n := range edges {
		remove[n] = true
	}

	new_edges := NewList[EdgeAttribs](len(self.edge_attribs))
	for i := 0; i < len(self.edge_attribs); i++ {
		if remove[i] {
			continue
		}
		new_edges.Add(self.edge_attribs[i])
	}
	return &GraphAttributes{
		edge_attribs: Array[EdgeAttribs](new_edges),
	}
}

//*******************************************
// load and store methods
//*******************************************

func Store(attr *GraphAttributes, path string) error {
	if err := WriteArrayToFile(attr.edge_attribs, path+"-attrib"); err != nil {
		return fmt.Errorf("failed to store edge attributes: %w", err)
	}
	return nil
}

func Load(path string) (*GraphAttributes, error) {
	edges, err := ReadArrayFromFile[EdgeAttribs](path + "-attrib")
	if err != nil {
		return nil, fmt.Errorf("failed to load edge attributes: %w", err)
	}
	return &GraphAttributes{
		edge_attribs: edges,
	}, nil
}
