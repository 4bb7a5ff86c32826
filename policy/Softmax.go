// Package policy implements tabular policies over grid actions and the
// selectors that pick a single action from them
package policy

import (
	"fmt"
	"math"

	"github.com/samuelfneumann/goalnav/grid"
	"github.com/samuelfneumann/goalnav/mdp"
	"github.com/samuelfneumann/goalnav/utils/floatutils"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// MaxExponent caps the scaled action values before exponentiation so
// that math.Exp never overflows
const MaxExponent float64 = 700

// ActionValue pairs an action with a value, such as its probability
// under a policy
type ActionValue struct {
	Action grid.Action
	Value  float64
}

// ActionValues is an ordered table of action values
type ActionValues []ActionValue

// Values returns the values of the table in order
func (a ActionValues) Values() []float64 {
	values := make([]float64, len(a))
	for i := range a {
		values[i] = a[i].Value
	}
	return values
}

// Get returns the value of action and whether the action is in the
// table
func (a ActionValues) Get(action grid.Action) (float64, bool) {
	for _, av := range a {
		if av.Action == action {
			return av.Value, true
		}
	}
	return 0, false
}

// Softmax is a Boltzmann policy over a tabular action-value function:
//
//	π(a|s) = exp(β Q(s, a)) / Σ_a' exp(β Q(s, a'))
type Softmax struct {
	q       *mat.Dense
	states  *mdp.StateSpace
	actions []grid.Action
	beta    float64
}

// NewSoftmax returns a new Softmax policy. The rows of q are indexed by
// states and its columns by actions.
func NewSoftmax(q *mat.Dense, states *mdp.StateSpace, actions []grid.Action,
	beta float64) (*Softmax, error) {
	if q.IsEmpty() {
		if states.Len() != 0 {
			return nil, fmt.Errorf("newSoftmax: empty action values for %d "+
				"states", states.Len())
		}
	} else if r, c := q.Dims(); r != states.Len() || c != len(actions) {
		return nil, fmt.Errorf("newSoftmax: action values of shape (%d, %d) "+
			"do not match %d states and %d actions", r, c, states.Len(),
			len(actions))
	}

	return &Softmax{
		q:       q,
		states:  states,
		actions: append([]grid.Action(nil), actions...),
		beta:    beta,
	}, nil
}

// Probabilities returns the action probabilities in cell, in action
// order
func (s *Softmax) Probabilities(cell grid.Cell) (ActionValues, error) {
	i, ok := s.states.Index(cell)
	if !ok {
		return nil, fmt.Errorf("probabilities: %v is not a state", cell)
	}

	probs := SoftmaxValues(s.q.RawRowView(i), s.beta)
	table := make(ActionValues, len(s.actions))
	for a, action := range s.actions {
		table[a] = ActionValue{Action: action, Value: probs[a]}
	}
	return table, nil
}

// Beta returns the inverse temperature of the policy
func (s *Softmax) Beta() float64 {
	return s.beta
}

// SoftmaxValues returns the softmax of values with inverse temperature
// beta. Scaled values are capped at MaxExponent. If every exponential
// underflows, or the normaliser is not finite, the uniform distribution
// is returned.
func SoftmaxValues(values []float64, beta float64) []float64 {
	probs := make([]float64, len(values))
	if len(values) == 0 {
		return probs
	}

	for i, v := range values {
		probs[i] = math.Exp(floatutils.Clip(beta*v, math.Inf(-1), MaxExponent))
	}

	total := floats.Sum(probs)
	if total == 0 || math.IsInf(total, 0) || math.IsNaN(total) {
		for i := range probs {
			probs[i] = 1 / float64(len(probs))
		}
		return probs
	}

	floats.Scale(1/total, probs)
	return probs
}
