package structs

import (
	"github.com/ttpr0/go-accessibility/geo"
)

//*******************************************
// graph structs
//*******************************************

type Edge struct {
	NodeA int32
	NodeB int32
}

// Returns the endpoint opposite to node (-1 if node is not an endpoint).
func (self Edge) OtherNode(node int32) int32 {
	if node == self.NodeA {
		return self.NodeB
	}
	if node == self.NodeB {
		return self.NodeA
	}
	return -1
}

type Node struct {
	Loc geo.Coord
}
