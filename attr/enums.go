package attr

//*******************************************
// enums
//*******************************************

type EdgeType byte

const (
	ROAD      EdgeType = 0
	FERRY     EdgeType = 1
	CONNECTOR EdgeType = 2
)

func (self EdgeType) String() string {
	switch self {
	case ROAD:
		return "road"
	case FERRY:
		return "ferry"
	case CONNECTOR:
		return "connector"
	}
	return ""
}

// Highway class of osm ways, 0 = unknown.
type RoadType int8

const (
	MOTORWAY       RoadType = 1
	MOTORWAY_LINK  RoadType = 2
	TRUNK          RoadType = 3
	TRUNK_LINK     RoadType = 4
	PRIMARY        RoadType = 5
	PRIMARY_LINK   RoadType = 6
	SECONDARY      RoadType = 7
	SECONDARY_LINK RoadType = 8
	TERTIARY       RoadType = 9
	TERTIARY_LINK  RoadType = 10
	RESIDENTIAL    RoadType = 11
	LIVING_STREET  RoadType = 12
	UNCLASSIFIED   RoadType = 13
	GENERIC_ROAD   RoadType = 14
	TRACK          RoadType = 15
)

var road_type_names = [...]string{
	MOTORWAY:       "motorway",
	MOTORWAY_LINK:  "motorway_link",
	TRUNK:          "trunk",
	TRUNK_LINK:     "trunk_link",
	PRIMARY:        "primary",
	PRIMARY_LINK:   "primary_link",
	SECONDARY:      "secondary",
	SECONDARY_LINK: "secondary_link",
	TERTIARY:       "tertiary",
	TERTIARY_LINK:  "tertiary_link",
	RESIDENTIAL:    "residential",
	LIVING_STREET:  "living_street",
	UNCLASSIFIED:   "unclassified",
	GENERIC_ROAD:   "road",
	TRACK:          "track",
}

func (self RoadType) String() string {
	if self <= 0 || int(self) >= len(road_type_names) {
		return ""
	}
	return road_type_names[self]
}

func RoadTypeFromString(typ string) RoadType {
	if typ == "" {
		return 0
	}
	for i, name := range road_type_names {
		if name == typ {
			return RoadType(i)
		}
	}
	return 0
}
