package graph

//*******************************************
// enums
//*******************************************

type Adjacency byte

const (
	ADJACENT_EDGES Adjacency = 0
	ADJACENT_ALL   Adjacency = 2
)
