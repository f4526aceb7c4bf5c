package attr

//*******************************************
// travel speeds
//*******************************************

const MPH_TO_KMH = 1.609344

// speed of ferry links in km/h
const FERRY_SPEED = 25 * MPH_TO_KMH

// speed of synthetic connector links in km/h
const CONNECTOR_SPEED = 5 * MPH_TO_KMH

// Travel time in minutes for a length in metres at speed km/h.
func TravelTime(length float64, speed float64) float64 {
	return length / 1000 / speed * 60
}

// Estimated speed (km/h) of a road link from its classification and form of way.
func ClassSpeed(classification string, form_of_way string) float64 {
	dual := form_of_way == "Dual Carriageway" || form_of_way == "Collapsed Dual Carriageway"
	a_road := classification == "A Road" || classification == "A Road Primary"
	b_road := classification == "B Road" || classification == "B Road Primary"

	var mph float64
	switch {
	case classification == "Motorway":
		mph = 67
	case dual && a_road:
		mph = 57
	case dual && b_road:
		mph = 45
	case form_of_way == "Single Carriageway" && (a_road || b_road):
		mph = 25
	case classification == "Unclassified":
		mph = 24
	case form_of_way == "Roundabout":
		mph = 10
	case form_of_way == "Track" || form_of_way == "Layby":
		mph = 5
	default:
		mph = 10
	}
	return mph * MPH_TO_KMH
}
