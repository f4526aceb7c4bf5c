package attr

//*******************************************
// graph attributes
//*******************************************

type EdgeAttribs struct {
	Type         EdgeType
	Road         RoadType
	Length       float64
	TimeWeighted float64
}
