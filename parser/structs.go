package parser

import (
	"github.com/ttpr0/go-accessibility/attr"
	"github.com/ttpr0/go-accessibility/geo"
	. "github.com/ttpr0/go-accessibility/util"
)

//*******************************************
// parser structs
//*******************************************

type TempNode struct {
	Point geo.Coord
	Count int32
}
type OSMNode struct {
	Point geo.Coord
}
type OSMEdge struct {
	NodeA int
	NodeB int
	Attr  attr.EdgeAttribs
	Speed float64
	Nodes List[geo.Coord]
}
