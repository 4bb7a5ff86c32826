// Package solver implements dynamic programming solvers for tabular
// MDPs
package solver

import (
	"fmt"
	"math"

	"github.com/samuelfneumann/goalnav/mdp"
	"gonum.org/v1/gonum/mat"
)

// Config configures a ValueIteration solver
type Config struct {
	// Discount is the discount factor γ. It is not validated, but
	// convergence is only guaranteed for γ < 1.
	Discount float64 `json:"discount" yaml:"discount"`

	// Epsilon is the convergence threshold on the largest absolute
	// change in any non-terminal state value during a sweep
	Epsilon float64 `json:"epsilon" yaml:"epsilon"`

	// MaxSweeps caps the number of sweeps
	MaxSweeps int `json:"max_sweeps" yaml:"max_sweeps"`

	// InitialValue is the starting value of non-terminal states
	InitialValue float64 `json:"initial_value" yaml:"initial_value"`
}

// DefaultConfig returns the default solver configuration
func DefaultConfig() Config {
	return Config{
		Discount:     0.9,
		Epsilon:      0.001,
		MaxSweeps:    100,
		InitialValue: 0.1,
	}
}

// Validate returns an error if the configuration is invalid
func (c Config) Validate() error {
	if c.Epsilon <= 0 {
		return fmt.Errorf("epsilon must be > 0")
	}
	if c.MaxSweeps < 1 {
		return fmt.Errorf("max_sweeps must be >= 1")
	}
	return nil
}

// Result is the outcome of running value iteration
type Result struct {
	// Values holds the value of each state, indexed as in the model's
	// StateSpace
	Values *mat.VecDense

	// Sweeps is the number of sweeps performed
	Sweeps int

	// Delta is the largest absolute change in a non-terminal state
	// value during the last sweep
	Delta float64

	// Converged is true if Delta fell below the convergence threshold
	// before the sweep budget ran out. If false, Values is a best-effort
	// approximation.
	Converged bool
}

// ValueIteration implements synchronous value iteration. Each sweep
// computes the new value of every non-terminal state from the values
// of the previous sweep only:
//
//	V'(s) = max_a Σ_s' P(s'|s,a) (R(s,a,s') + γ V(s'))
//
// Terminal states keep a value of 0.
type ValueIteration struct {
	Config
}

// NewValueIteration returns a new ValueIteration solver
func NewValueIteration(c Config) (*ValueIteration, error) {
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("newValueIteration: %w", err)
	}
	return &ValueIteration{c}, nil
}

// Solve runs value iteration on m until convergence or until the sweep
// budget is exhausted, whichever comes first
func (v *ValueIteration) Solve(m *mdp.Model) Result {
	n := m.States.Len()
	if n == 0 {
		return Result{Values: &mat.VecDense{}, Converged: true}
	}

	values := mat.NewVecDense(n, nil)
	for i := 0; i < n; i++ {
		if !m.Terminal[i] {
			values.SetVec(i, v.InitialValue)
		}
	}

	rewards := make([]*mat.VecDense, len(m.Actions))
	for a := range m.Actions {
		rewards[a] = m.ExpectedRewards(a)
	}

	next := mat.NewVecDense(n, nil)
	q := mat.NewVecDense(n, nil)
	best := make([]float64, n)

	var result Result
	for sweep := 1; sweep <= v.MaxSweeps; sweep++ {
		for i := range best {
			best[i] = math.Inf(-1)
		}

		for a := range m.Actions {
			q.MulVec(m.P[a], values)
			q.AddScaledVec(rewards[a], v.Discount, q)
			for i := 0; i < n; i++ {
				if q.AtVec(i) > best[i] {
					best[i] = q.AtVec(i)
				}
			}
		}

		delta := 0.0
		for i := 0; i < n; i++ {
			if m.Terminal[i] {
				next.SetVec(i, values.AtVec(i))
				continue
			}
			next.SetVec(i, best[i])
			delta = math.Max(delta, math.Abs(best[i]-values.AtVec(i)))
		}
		values, next = next, values

		result.Sweeps = sweep
		result.Delta = delta
		if delta < v.Epsilon {
			result.Converged = true
			break
		}
	}

	result.Values = values
	return result
}
