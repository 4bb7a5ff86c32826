// Package environment outlines the interfaces and structs needed to
// implement concrete navigation environments
package environment

import (
	"github.com/samuelfneumann/goalnav/grid"
	"github.com/samuelfneumann/goalnav/timestep"
)

// Starter implements a distribution of starting cells and samples
// starting cells for environments
type Starter interface {
	Start() grid.Cell
}

// Ender determines when episodes should be ended
type Ender interface {
	End(*timestep.TimeStep) bool
}

// Task implements the reward scheme and goal condition of an
// environment
type Task interface {
	GetReward(pos grid.Cell, a grid.Action, next grid.Cell) float64
	AtGoal(c grid.Cell) bool
}

// Environment implements a simulated navigation environment that an
// agent moves through one action at a time
type Environment interface {
	Reset() (timestep.TimeStep, error) // Resets between episodes
	Step(action grid.Action) (timestep.TimeStep, bool, error)
	CurrentTimeStep() timestep.TimeStep
}
