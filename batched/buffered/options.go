package buffered

import (
	"fmt"
	"math"
	"runtime"
	"time"

	. "github.com/ttpr0/go-accessibility/util"
)

type Options struct {
	// radius bounds of the extracted subgraphs
	MinRadius float64
	MaxRadius float64
	// distances beyond the cutoff are not searched
	Cutoff Optional[float64]

	Policy SubgraphPolicy
	// drop queries not validated within MaxRadius instead of using the best effort subgraph
	DropUnvalidated bool

	Workers int
	// per query time limit, zero = no limit
	QueryTimeout time.Duration

	// queries for which Skip returns true are not processed
	Skip     func(id int64) bool
	Progress IProgress
	Sink     IResultSink
}

func DefaultOptions() Options {
	return Options{
		MinRadius: 5000,
		MaxRadius: 1000000,
		Cutoff:    None[float64](),
		Policy:    INDUCED,
		Workers:   runtime.NumCPU(),
	}
}

func (self Options) Validate() error {
	if self.MinRadius <= 0 || math.IsNaN(self.MinRadius) {
		return fmt.Errorf("%w: min radius %v must be positive", ErrInvalidConfiguration, self.MinRadius)
	}
	if self.MaxRadius < self.MinRadius || math.IsInf(self.MaxRadius, 0) || math.IsNaN(self.MaxRadius) {
		return fmt.Errorf("%w: max radius %v must be finite and not smaller than min radius %v", ErrInvalidConfiguration, self.MaxRadius, self.MinRadius)
	}
	if self.Cutoff.HasValue() && (self.Cutoff.Value < 0 || math.IsNaN(self.Cutoff.Value)) {
		return fmt.Errorf("%w: cutoff %v must not be negative", ErrInvalidConfiguration, self.Cutoff.Value)
	}
	if self.Policy != INDUCED && self.Policy != EITHER_ENDPOINT {
		return fmt.Errorf("%w: unknown subgraph policy %v", ErrInvalidConfiguration, self.Policy)
	}
	if self.Workers < 0 {
		return fmt.Errorf("%w: negative worker count %v", ErrInvalidConfiguration, self.Workers)
	}
	if self.QueryTimeout < 0 {
		return fmt.Errorf("%w: negative query timeout %v", ErrInvalidConfiguration, self.QueryTimeout)
	}
	return nil
}

// Upper bound of extraction attempts per query.
func (self Options) MaxAttempts() int {
	return int(math.Ceil(math.Log2(self.MaxRadius/self.MinRadius))) + 1
}

func (self Options) _MaxRange() float64 {
	if self.Cutoff.HasValue() {
		return self.Cutoff.Value
	}
	return math.Inf(1)
}
