// Package agent defines the interface of goal navigation agents and a
// registry of their configurations
package agent

import (
	"github.com/samuelfneumann/goalnav/grid"
	"github.com/samuelfneumann/goalnav/timestep"
)

// Agent selects the next move of a player in a grid navigation task.
//
// Agents do not learn. Each call to SelectAction plans from scratch
// using only the observation it is given.
type Agent interface {
	SelectAction(o timestep.Observation) (grid.Action, error)
}
