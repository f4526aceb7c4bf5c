package nearest

import (
	"context"

	. "github.com/ttpr0/go-accessibility/util"
)

type INearest interface {
	CreateSolver() ISolver
}

type ISolver interface {
	// Computes the nearest source for all nodes of the graph.
	//
	// Sources are specified using an array of (node, initial distance) tuples to account for start locations not identical to graph node locations.
	CalcNearestNeighbours(ctx context.Context, sources List[Array[Tuple[int32, float64]]]) error

	// Returns the id (in the specified source list) of the nearest source, -1 if none was reached.
	GetNeighbour(node int32) int32

	// Returns the distance to the nearest source.
	GetDistance(node int32) (float64, bool)
}
