package solver

import (
	"github.com/samuelfneumann/goalnav/mdp"
	"gonum.org/v1/gonum/mat"
)

// ActionValues computes the action values of every state in m with a
// single backup of the state values:
//
//	Q(s, a) = Σ_s' P(s'|s,a) (R(s,a,s') + γ V(s'))
//
// The returned matrix has one row per state and one column per action,
// in the order of m.Actions.
func ActionValues(m *mdp.Model, values mat.Vector, discount float64) *mat.Dense {
	n := m.States.Len()
	if n == 0 {
		return &mat.Dense{}
	}

	q := mat.NewDense(n, len(m.Actions), nil)
	col := mat.NewVecDense(n, nil)
	for a := range m.Actions {
		col.MulVec(m.P[a], values)
		col.AddScaledVec(m.ExpectedRewards(a), discount, col)
		q.SetCol(a, col.RawVector().Data)
	}
	return q
}
