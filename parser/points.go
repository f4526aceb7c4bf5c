package parser

import (
	"fmt"

	. "github.com/ttpr0/go-accessibility/util"
)

//*******************************************
// points
//*******************************************

// Point row of a points or facilities table.
//
// Node, buffer and top nodes are only set if the points were attached
// to the network beforehand; node ids are external network ids.
type PointRow struct {
	ID       int64    `csv:"id"`
	Easting  float64  `csv:"easting"`
	Northing float64  `csv:"northing"`
	Node     *int64   `csv:"node_id"`
	Buffer   *float64 `csv:"buffer"`
	TopNodes []int64  `csv:"top_nodes"`
}

func ReadPoints(filename string) (List[PointRow], error) {
	rows, err := ReadCSVFromFile[PointRow](filename, ',')
	if err != nil {
		return nil, fmt.Errorf("failed to read points from %v: %w", filename, err)
	}
	ids := NewDict[int64, bool](rows.Length())
	for _, row := range rows {
		if ids.ContainsKey(row.ID) {
			return nil, fmt.Errorf("duplicate point id %v in %v", row.ID, filename)
		}
		ids[row.ID] = true
	}
	return rows, nil
}

//*******************************************
// output
//*******************************************

// Distance is nil for points without a discovered distance.
type DistanceRow struct {
	ID       int64    `csv:"id"`
	Vertex   int64    `csv:"vertex"`
	Distance *float64 `csv:"distance"`
}

func WriteDistances(filename string, rows []DistanceRow) error {
	if err := WriteCSVToFile(rows, filename, ','); err != nil {
		return fmt.Errorf("failed to write distances to %v: %w", filename, err)
	}
	return nil
}
