package geo

import (
	"math"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
	"github.com/paulmach/orb/project"
)

//*******************************************
// coordinates
//*******************************************

// Planar coordinate (easting, northing) in metres.
type Coord [2]float64

func (self Coord) Easting() float64 {
	return self[0]
}
func (self Coord) Northing() float64 {
	return self[1]
}
func (self Coord) Point() orb.Point {
	return orb.Point(self)
}

// Euclidean distance between two planar coordinates.
func Distance(a, b Coord) float64 {
	return planar.Distance(a.Point(), b.Point())
}

type CoordArray []Coord

func (self CoordArray) Length() float64 {
	return planar.Length(orb.LineString(self.Points()))
}
func (self CoordArray) Points() []orb.Point {
	points := make([]orb.Point, len(self))
	for i, c := range self {
		points[i] = c.Point()
	}
	return points
}

//*******************************************
// projection
//*******************************************

// Projects lon/lat to local metres.
//
// Web-Mercator coordinates are scaled by cos(lat0) which keeps distances close
// to true ground distances around the reference latitude.
type Projector struct {
	scale float64
}

func NewProjector(ref_lat float64) Projector {
	return Projector{
		scale: math.Cos(ref_lat * math.Pi / 180),
	}
}

func (self Projector) Project(lon, lat float64) Coord {
	p := project.WGS84.ToMercator(orb.Point{lon, lat})
	return Coord{p[0] * self.scale, p[1] * self.scale}
}
