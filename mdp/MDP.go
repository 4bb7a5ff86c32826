// Package mdp implements tabular Markov Decision Processes over grid
// cells. States are indexed densely so that transition and reward
// tables can be stored as gonum matrices.
package mdp

import (
	"fmt"

	"github.com/samuelfneumann/goalnav/grid"
	"github.com/samuelfneumann/goalnav/utils/floatutils"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// SumTolerance is the largest deviation from 1 allowed in the total
// mass of a transition distribution
const SumTolerance float64 = 1e-9

// Distribution maps destination cells to their probability
type Distribution map[grid.Cell]float64

// Sum returns the total probability mass in the distribution
func (d Distribution) Sum() float64 {
	probs := make([]float64, 0, len(d))
	for _, p := range d {
		probs = append(probs, p)
	}
	return floats.Sum(probs)
}

// Transitioner returns the distribution over next cells when taking an
// action in a cell
type Transitioner interface {
	Distribution(s grid.Cell, a grid.Action) Distribution
}

// RewardFunc returns the reward for the transition s --a--> next
type RewardFunc func(s grid.Cell, a grid.Action, next grid.Cell) float64

// Grid is a bounded grid that knows which of its cells are valid
// states
type Grid interface {
	Dims() (r, c int)
	IsValid(grid.Cell) bool
}

// StateSpace is a bijection between the valid cells of a grid and the
// indices 0, 1, ..., Len()-1. Cells are enumerated row-major.
type StateSpace struct {
	r, c  int
	cells []grid.Cell
	index []int // r*c entries, -1 for cells that are not states
}

// NewStateSpace returns the StateSpace of all valid cells in g
func NewStateSpace(g Grid) *StateSpace {
	r, c := g.Dims()
	index := make([]int, r*c)
	var cells []grid.Cell

	for row := 0; row < r; row++ {
		for col := 0; col < c; col++ {
			cell := grid.Cell{Row: row, Col: col}
			if !g.IsValid(cell) {
				index[row*c+col] = -1
				continue
			}
			index[row*c+col] = len(cells)
			cells = append(cells, cell)
		}
	}

	return &StateSpace{r: r, c: c, cells: cells, index: index}
}

// Dims returns the rows and columns of the underlying grid
func (s *StateSpace) Dims() (r, c int) {
	return s.r, s.c
}

// Len returns the number of states
func (s *StateSpace) Len() int {
	return len(s.cells)
}

// Cell returns the cell of state i
func (s *StateSpace) Cell(i int) grid.Cell {
	return s.cells[i]
}

// Cells returns all states in index order
func (s *StateSpace) Cells() []grid.Cell {
	cells := make([]grid.Cell, len(s.cells))
	copy(cells, s.cells)
	return cells
}

// Index returns the index of cell c and whether c is a state at all
func (s *StateSpace) Index(c grid.Cell) (int, bool) {
	if !c.In(s.r, s.c) {
		return -1, false
	}
	i := s.index[c.Row*s.c+c.Col]
	return i, i >= 0
}

// Model is a tabulated MDP. For each action a, P[a] and R[a] are
// Len() x Len() matrices where P[a].At(s, s') is the probability of
// transitioning from s to s' and R[a].At(s, s') the reward for doing so.
type Model struct {
	States   *StateSpace
	Actions  []grid.Action
	Terminal []bool
	P        []*mat.Dense
	R        []*mat.Dense

	expected []*mat.VecDense
}

// NewModel tabulates the transition and reward functions over all
// states and actions. The terminal function marks absorbing states.
// An error is returned if any transition places probability on a cell
// outside of the state space or does not sum to 1 within SumTolerance.
func NewModel(states *StateSpace, actions []grid.Action, t Transitioner,
	reward RewardFunc, terminal func(grid.Cell) bool) (*Model, error) {
	if len(actions) == 0 {
		return nil, fmt.Errorf("newModel: no actions")
	}

	n := states.Len()
	m := &Model{
		States:   states,
		Actions:  append([]grid.Action(nil), actions...),
		Terminal: make([]bool, n),
		P:        make([]*mat.Dense, len(actions)),
		R:        make([]*mat.Dense, len(actions)),
	}

	if n == 0 {
		return m, nil
	}

	for i := 0; i < n; i++ {
		m.Terminal[i] = terminal(states.Cell(i))
	}

	for a, action := range actions {
		p := mat.NewDense(n, n, nil)
		r := mat.NewDense(n, n, nil)

		for i := 0; i < n; i++ {
			s := states.Cell(i)
			dist := t.Distribution(s, action)
			if sum := dist.Sum(); !floatutils.EqualWithin(sum, 1, SumTolerance) {
				return nil, fmt.Errorf("newModel: transition %v --%v--> has "+
					"total probability %v", s, action, sum)
			}
			for next, prob := range dist {
				j, ok := states.Index(next)
				if !ok {
					return nil, fmt.Errorf("newModel: transition %v --%v--> "+
						"%v leaves the state space", s, action, next)
				}
				p.Set(i, j, p.At(i, j)+prob)
			}

			for j := 0; j < n; j++ {
				r.Set(i, j, reward(s, action, states.Cell(j)))
			}
		}
		m.P[a] = p
		m.R[a] = r
	}

	return m, nil
}

// ExpectedRewards returns the vector of expected immediate rewards
// Σ_s' P(s'|s,a) R(s,a,s') over all states s for the action at index a
func (m *Model) ExpectedRewards(a int) *mat.VecDense {
	if m.expected == nil {
		m.expected = make([]*mat.VecDense, len(m.Actions))
	}
	if m.expected[a] != nil {
		return m.expected[a]
	}

	n := m.States.Len()
	if n == 0 {
		return &mat.VecDense{}
	}

	var pr mat.Dense
	pr.MulElem(m.P[a], m.R[a])

	r := mat.NewVecDense(n, nil)
	for i := 0; i < n; i++ {
		r.SetVec(i, floats.Sum(pr.RawRowView(i)))
	}
	m.expected[a] = r
	return r
}
