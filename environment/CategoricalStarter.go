package environment

import (
	"fmt"

	"golang.org/x/exp/rand"

	"github.com/samuelfneumann/goalnav/grid"
	"gonum.org/v1/gonum/stat/distuv"
)

// CategoricalStarter returns starting cells sampled uniformly from a
// fixed set of candidate cells.
type CategoricalStarter struct {
	cells []grid.Cell
	rand  distuv.Categorical
}

// NewCategoricalStarter returns a new CategoricalStarter which samples
// starting cells uniformly from cells
func NewCategoricalStarter(cells []grid.Cell, seed uint64) (*CategoricalStarter,
	error) {
	if len(cells) == 0 {
		return nil, fmt.Errorf("newCategoricalStarter: no candidate cells")
	}
	source := rand.NewSource(seed)

	// Create the weights for the uniform categorical distribution
	weights := make([]float64, len(cells))
	for i := range weights {
		weights[i] = 1.0 / float64(len(weights))
	}

	c := make([]grid.Cell, len(cells))
	copy(c, cells)

	return &CategoricalStarter{c, distuv.NewCategorical(weights, source)}, nil
}

// Start returns a starting cell
func (c *CategoricalStarter) Start() grid.Cell {
	return c.cells[int(c.rand.Rand())]
}

// SingleStart always starts episodes in the same cell
type SingleStart grid.Cell

// Start returns the starting cell
func (s SingleStart) Start() grid.Cell {
	return grid.Cell(s)
}
