package parser

import (
	"github.com/ttpr0/go-accessibility/attr"
	. "github.com/ttpr0/go-accessibility/util"
)

type DrivingDecoder struct {
}

var driving_types = Dict[string, bool]{"motorway": true, "motorway_link": true, "trunk": true, "trunk_link": true,
	"primary": true, "primary_link": true, "secondary": true, "secondary_link": true, "tertiary": true, "tertiary_link": true,
	"residential": true, "living_street": true, "service": true, "track": true, "unclassified": true, "road": true}

func (self *DrivingDecoder) IsValidWay(tags Dict[string, string]) bool {
	if tags.Get("route") == "ferry" {
		return true
	}
	if !tags.ContainsKey("highway") {
		return false
	}
	if !driving_types.ContainsKey(tags.Get("highway")) {
		return false
	}
	return true
}

// Decodes the edge attributes and the travel speed in km/h.
func (self *DrivingDecoder) DecodeEdge(tags Dict[string, string]) (attr.EdgeAttribs, float64) {
	if tags.Get("route") == "ferry" {
		return attr.EdgeAttribs{Type: attr.FERRY}, attr.FERRY_SPEED
	}
	maxspeed := tags.Get("maxspeed")
	str_type := tags.Get("highway")
	track_type := tags.Get("tracktype")
	surface := tags.Get("surface")
	e := attr.EdgeAttribs{}
	e.Type = attr.ROAD
	e.Road = _GetType(str_type)
	speed := _GetORSTravelSpeed(e.Road, maxspeed, track_type, surface)
	return e, float64(speed)
}
