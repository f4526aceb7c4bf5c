package parser

import (
	"fmt"
	"math"

	"github.com/ttpr0/go-accessibility/attr"
	"github.com/ttpr0/go-accessibility/comps"
	"github.com/ttpr0/go-accessibility/geo"
	"github.com/ttpr0/go-accessibility/structs"
	. "github.com/ttpr0/go-accessibility/util"
	"golang.org/x/exp/slog"
)

//*******************************************
// id mapping
//*******************************************

// Maps external node ids to dense graph node ids.
type IDMapping struct {
	ids   Array[int64]
	index Dict[int64, int32]
}

func NewIDMapping(ids Array[int64]) (IDMapping, error) {
	index := NewDict[int64, int32](ids.Length())
	for i, id := range ids {
		if index.ContainsKey(id) {
			return IDMapping{}, fmt.Errorf("duplicate node id %v", id)
		}
		index[id] = int32(i)
	}
	return IDMapping{
		ids:   ids,
		index: index,
	}, nil
}

// Returns the graph node of an external id.
func (self IDMapping) GetNode(id int64) (int32, bool) {
	node, ok := self.index[id]
	return node, ok
}

// Returns the external id of a graph node.
func (self IDMapping) GetID(node int32) int64 {
	return self.ids[node]
}

func (self IDMapping) Length() int {
	return self.ids.Length()
}

//*******************************************
// csv network tables
//*******************************************

type NodeRow struct {
	ID       int64   `csv:"node_id"`
	Easting  float64 `csv:"easting"`
	Northing float64 `csv:"northing"`
}

// Time is optional and derived from the road class if missing.
type EdgeRow struct {
	Start          int64    `csv:"start_node"`
	End            int64    `csv:"end_node"`
	Length         float64  `csv:"length"`
	TimeWeighted   *float64 `csv:"time_weighted"`
	Classification string   `csv:"road_classification"`
	FormOfWay      string   `csv:"form_of_way"`
	Type           string   `csv:"type"`
}

// Reads a network from node and edge csv tables.
//
// Node ids are remapped to dense ids in file order.
func ReadNetworkCSV(nodes_file string, edges_file string) (*comps.GraphBase, *attr.GraphAttributes, IDMapping, error) {
	node_rows, err := ReadCSVFromFile[NodeRow](nodes_file, ',')
	if err != nil {
		return nil, nil, IDMapping{}, fmt.Errorf("failed to read nodes: %w", err)
	}
	edge_rows, err := ReadCSVFromFile[EdgeRow](edges_file, ',')
	if err != nil {
		return nil, nil, IDMapping{}, fmt.Errorf("failed to read edges: %w", err)
	}
	return BuildNetwork(node_rows, edge_rows)
}

func BuildNetwork(node_rows List[NodeRow], edge_rows List[EdgeRow]) (*comps.GraphBase, *attr.GraphAttributes, IDMapping, error) {
	ids := NewArray[int64](node_rows.Length())
	nodes := NewArray[structs.Node](node_rows.Length())
	for i, row := range node_rows {
		ids[i] = row.ID
		nodes[i] = structs.Node{Loc: geo.Coord{row.Easting, row.Northing}}
	}
	mapping, err := NewIDMapping(ids)
	if err != nil {
		return nil, nil, IDMapping{}, err
	}

	edges := NewArray[structs.Edge](edge_rows.Length())
	attribs := NewArray[attr.EdgeAttribs](edge_rows.Length())
	for i, row := range edge_rows {
		node_a, ok_a := mapping.GetNode(row.Start)
		node_b, ok_b := mapping.GetNode(row.End)
		if !ok_a || !ok_b {
			return nil, nil, IDMapping{}, fmt.Errorf("edge %v-%v references unknown node", row.Start, row.End)
		}
		length := row.Length
		if length < 0 || math.IsNaN(length) || math.IsInf(length, 0) {
			return nil, nil, IDMapping{}, fmt.Errorf("%w: edge %v-%v has length %v", comps.ErrInvalidWeight, row.Start, row.End, length)
		}
		typ := attr.ROAD
		if row.Type == "ferry" {
			typ = attr.FERRY
		}
		var time float64
		switch {
		case row.TimeWeighted != nil:
			time = *row.TimeWeighted
		case typ == attr.FERRY:
			time = attr.TravelTime(length, attr.FERRY_SPEED)
		default:
			time = attr.TravelTime(length, attr.ClassSpeed(row.Classification, row.FormOfWay))
		}
		edges[i] = structs.Edge{NodeA: node_a, NodeB: node_b}
		attribs[i] = attr.EdgeAttribs{
			Type:         typ,
			Length:       length,
			TimeWeighted: time,
		}
	}
	slog.Info("read network tables", "nodes", nodes.Length(), "edges", edges.Length())

	return comps.NewGraphBase(nodes, edges), attr.New(attribs), mapping, nil
}

// Stores the external ids of the graph nodes next to the graph files.
func StoreIDMapping(mapping IDMapping, path string) error {
	return WriteArrayToFile(mapping.ids, path+"-ids")
}

func LoadIDMapping(path string) (IDMapping, error) {
	ids, err := ReadArrayFromFile[int64](path + "-ids")
	if err != nil {
		return IDMapping{}, fmt.Errorf("failed to load node ids: %w", err)
	}
	return NewIDMapping(ids)
}

// Mapping for graphs whose node ids are their external ids.
func IdentityMapping(node_count int) IDMapping {
	ids := NewArray[int64](node_count)
	for i := range ids {
		ids[i] = int64(i)
	}
	mapping, _ := NewIDMapping(ids)
	return mapping
}

// Applies a node removal (old id -> new id, -1 = removed) to the mapping.
func (self IDMapping) Remap(mapping Array[int32]) IDMapping {
	ids := NewList[int64](self.ids.Length())
	for old, node := range mapping {
		if node == -1 {
			continue
		}
		ids.Add(self.ids[old])
	}
	new_mapping, _ := NewIDMapping(Array[int64](ids))
	return new_mapping
}
