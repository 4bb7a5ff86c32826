package policy

import (
	"golang.org/x/exp/rand"

	"github.com/samuelfneumann/goalnav/grid"
	"github.com/samuelfneumann/goalnav/utils/floatutils"
)

// Selector selects a single action from a table of action values
type Selector interface {
	Select(ActionValues) grid.Action
}

// Greedy selects an action of maximal value, breaking ties uniformly at
// random. NaN values are never selected.
type Greedy struct {
	rng *rand.Rand
}

// NewGreedy returns a new Greedy selector
func NewGreedy(seed rand.Source) *Greedy {
	return &Greedy{rng: rand.New(seed)}
}

// Select implements the Selector interface
func (g *Greedy) Select(table ActionValues) grid.Action {
	if len(table) == 0 {
		return fallback(table)
	}

	_, ties := floatutils.MaxSlice(table.Values())
	if len(ties) == 0 {
		return fallback(table)
	}
	if len(ties) == 1 {
		return table[ties[0]].Action
	}
	return table[ties[g.rng.Intn(len(ties))]].Action
}

// fallback returns the last action of table, or the last action of the
// action set if table is empty
func fallback(table ActionValues) grid.Action {
	if len(table) == 0 {
		actions := grid.Actions()
		return actions[len(actions)-1]
	}
	return table[len(table)-1].Action
}
