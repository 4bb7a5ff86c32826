package policy

import (
	"golang.org/x/exp/rand"

	"github.com/samuelfneumann/goalnav/grid"
)

// Sampling selects an action at random with probability equal to its
// value. Values are scanned cumulatively in table order against a
// single uniform draw in [0, 1).
type Sampling struct {
	rng *rand.Rand
}

// NewSampling returns a new Sampling selector
func NewSampling(seed rand.Source) *Sampling {
	return &Sampling{rng: rand.New(seed)}
}

// Select implements the Selector interface. If rounding leaves the draw
// past the last cumulative boundary, the last action is returned.
func (s *Sampling) Select(table ActionValues) grid.Action {
	if len(table) == 0 {
		return fallback(table)
	}

	u := s.rng.Float64()
	cumulative := 0.0
	for _, av := range table {
		cumulative += av.Value
		if u < cumulative {
			return av.Action
		}
	}
	return fallback(table)
}
