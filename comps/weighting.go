package comps

import (
	"errors"
	"fmt"
	"math"

	"github.com/ttpr0/go-accessibility/attr"
	"gopkg.in/yaml.v3"
)

//*******************************************
// metric
//*******************************************

type MetricType byte

const (
	LENGTH        MetricType = 0
	TIME_WEIGHTED MetricType = 1
)

func (self MetricType) String() string {
	switch self {
	case LENGTH:
		return "length"
	case TIME_WEIGHTED:
		return "time_weighted"
	default:
		panic("unknown metric type")
	}
}

func (self MetricType) MarshalYAML() (any, error) {
	return self.String(), nil
}
func (self *MetricType) UnmarshalYAML(value *yaml.Node) error {
	typ, err := MetricTypeFromString(value.Value)
	if err != nil {
		return err
	}
	*self = typ
	return nil
}

func MetricTypeFromString(s string) (MetricType, error) {
	switch s {
	case "length":
		return LENGTH, nil
	case "time_weighted":
		return TIME_WEIGHTED, nil
	default:
		return LENGTH, fmt.Errorf("unknown metric type %q", s)
	}
}

//*******************************************
// weighting interface
//*******************************************

type IWeighting interface {
	GetEdgeWeight(edge int32) float64
}

var ErrInvalidWeight = errors.New("comps: invalid edge weight")

//*******************************************
// default weighting
//*******************************************

type DefaultWeighting struct {
	edge_weights []float64
}

func NewDefaultWeighting(base IGraphBase) *DefaultWeighting {
	return &DefaultWeighting{
		edge_weights: make([]float64, base.EdgeCount()),
	}
}

// Builds the weighting of the selected metric from the edge attributes.
//
// Fails with ErrInvalidWeight for negative or NaN weights.
func BuildWeighting(attributes attr.IAttributes, metric MetricType) (*DefaultWeighting, error) {
	weights := make([]float64, attributes.EdgeCount())
	for i := range weights {
		att := attributes.GetEdgeAttribs(int32(i))
		var w float64
		switch metric {
		case LENGTH:
			w = att.Length
		case TIME_WEIGHTED:
			w = att.TimeWeighted
		}
		if w < 0 || math.IsNaN(w) || math.IsInf(w, 0) {
			return nil, fmt.Errorf("%w: edge %v has %v %v", ErrInvalidWeight, i, metric, w)
		}
		weights[i] = w
	}
	return &DefaultWeighting{
		edge_weights: weights,
	}, nil
}

func (self *DefaultWeighting) GetEdgeWeight(edge int32) float64 {
	return self.edge_weights[edge]
}
func (self *DefaultWeighting) SetEdgeWeight(edge int32, weight float64) {
	self.edge_weights[edge] = weight
}

//*******************************************
// equal weighting
//*******************************************

type EqualWeighting struct{}

func NewEqualWeighting() *EqualWeighting {
	return &EqualWeighting{}
}

func (self *EqualWeighting) GetEdgeWeight(edge int32) float64 {
	return 1
}
