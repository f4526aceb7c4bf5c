package buffered

import (
	"errors"
	"fmt"

	"github.com/ttpr0/go-accessibility/geo"
	"gopkg.in/yaml.v3"
)

var (
	ErrInvalidConfiguration = errors.New("buffered: invalid configuration")
	ErrUnreachableQuery     = errors.New("buffered: query not validated within max radius")
	ErrEmptyResult          = errors.New("buffered: no target reached")
)

//*******************************************
// query point
//*******************************************

// Point attached to the network.
//
// Anchors are target nodes the query is expected to reach, they decide
// whether an extracted subgraph is large enough.
type QueryPoint struct {
	ID         int64
	Node       int32
	Loc        geo.Coord
	SeedRadius float64
	Anchors    []int32
}

//*******************************************
// enums
//*******************************************

type SubgraphPolicy byte

const (
	// edges with both endpoints inside the radius
	INDUCED SubgraphPolicy = 0
	// edges with at least one endpoint inside the radius
	EITHER_ENDPOINT SubgraphPolicy = 1
)

func (self SubgraphPolicy) String() string {
	switch self {
	case INDUCED:
		return "induced"
	case EITHER_ENDPOINT:
		return "either-endpoint"
	}
	return ""
}

func (self SubgraphPolicy) MarshalYAML() (any, error) {
	return self.String(), nil
}
func (self *SubgraphPolicy) UnmarshalYAML(value *yaml.Node) error {
	policy, err := SubgraphPolicyFromString(value.Value)
	if err != nil {
		return err
	}
	*self = policy
	return nil
}

func SubgraphPolicyFromString(s string) (SubgraphPolicy, error) {
	switch s {
	case "induced", "":
		return INDUCED, nil
	case "either-endpoint":
		return EITHER_ENDPOINT, nil
	}
	return INDUCED, fmt.Errorf("unknown subgraph policy %q", s)
}

type AggregationMode byte

const (
	// every query emits its nearest target distance for its own node
	MANY_TO_FEW AggregationMode = 0
	// every query emits the distances of all reached targets
	FEW_TO_MANY AggregationMode = 1
)

func (self AggregationMode) String() string {
	switch self {
	case MANY_TO_FEW:
		return "many-to-few"
	case FEW_TO_MANY:
		return "few-to-many"
	}
	return ""
}

// Selects the aggregation mode, the smaller point set is iterated.
//
// Sources are the facilities, destinations the points the table is keyed by.
func ChooseMode(source_count int, destination_count int) AggregationMode {
	if source_count < destination_count {
		return FEW_TO_MANY
	}
	return MANY_TO_FEW
}

type QueryOutcome byte

const (
	VALIDATED   QueryOutcome = 0
	UNVALIDATED QueryOutcome = 1
	DROPPED     QueryOutcome = 2
	EMPTY       QueryOutcome = 3
	ABANDONED   QueryOutcome = 4
	SKIPPED     QueryOutcome = 5
)

func (self QueryOutcome) String() string {
	switch self {
	case VALIDATED:
		return "validated"
	case UNVALIDATED:
		return "unvalidated"
	case DROPPED:
		return "dropped"
	case EMPTY:
		return "empty"
	case ABANDONED:
		return "abandoned"
	case SKIPPED:
		return "skipped"
	}
	return ""
}

//*******************************************
// query result
//*******************************************

type QueryResult struct {
	ID       int64
	Outcome  QueryOutcome
	Radius   float64
	Attempts int
	Records  []DistanceRecord
	Err      error
}
