package parser

import (
	"strconv"

	"github.com/ttpr0/go-accessibility/attr"
	. "github.com/ttpr0/go-accessibility/util"
)

//*******************************************
// travel speeds
//*******************************************

// default speeds (km/h) if no maxspeed is tagged
var default_speeds = Dict[attr.RoadType, int32]{
	attr.MOTORWAY:       100,
	attr.TRUNK:          85,
	attr.MOTORWAY_LINK:  60,
	attr.TRUNK_LINK:     60,
	attr.PRIMARY:        65,
	attr.SECONDARY:      60,
	attr.TERTIARY:       50,
	attr.PRIMARY_LINK:   50,
	attr.SECONDARY_LINK: 50,
	attr.TERTIARY_LINK:  40,
	attr.UNCLASSIFIED:   30,
	attr.RESIDENTIAL:    30,
	attr.LIVING_STREET:  10,
	attr.GENERIC_ROAD:   20,
}

var track_speeds = Dict[string, int32]{
	"grade1": 40,
	"grade2": 30,
	"grade3": 20,
	"grade4": 15,
	"grade5": 10,
}

// speed caps (km/h) by surface
var surface_speeds = Dict[string, int32]{
	"cement": 80, "compacted": 80,
	"fine_gravel":   60,
	"paving_stones": 40, "metal": 40, "bricks": 40,
	"grass": 30, "wood": 30, "sett": 30, "grass_paver": 30, "gravel": 30, "unpaved": 30,
	"ground": 30, "dirt": 30, "pebblestone": 30, "tartan": 30,
	"cobblestone": 20, "clay": 20,
	"earth": 15, "stone": 15, "rocky": 15, "sand": 15,
	"mud": 10,
}

func _GetType(typ string) attr.RoadType {
	return attr.RoadTypeFromString(typ)
}

func _GetORSTravelSpeed(streettype attr.RoadType, maxspeed string, tracktype string, surface string) int32 {
	var speed int32

	switch {
	case maxspeed == "walk":
		speed = 10 * 9 / 10
	case maxspeed == "none":
		speed = 110 * 9 / 10
	case maxspeed != "":
		t, err := strconv.Atoi(maxspeed)
		if err != nil {
			t = 20
		}
		// 90% of the posted limit
		speed = int32(t) * 9 / 10
	case streettype == attr.TRACK:
		speed = 15
		if s, ok := track_speeds[tracktype]; ok {
			speed = s
		}
	default:
		speed = 20
		if s, ok := default_speeds[streettype]; ok {
			speed = s
		}
	}

	if limit, ok := surface_speeds[surface]; ok && speed > limit {
		speed = limit
	}
	if speed <= 0 {
		speed = 10
	}
	return speed
}
