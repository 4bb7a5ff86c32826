package trackers

import (
	"fmt"

	"github.com/samuelfneumann/goalnav/experiment/tracker"
	"github.com/samuelfneumann/goalnav/grid"
	ts "github.com/samuelfneumann/goalnav/timestep"
)

// Trajectory tracks and saves the cells visited by the agent in each
// episode, starting with the starting cell. Unlike the other Trackers,
// the trajectory of an unfinished episode is kept.
type Trajectory struct {
	trajectories [][]grid.Cell
	filename     string
}

// NewTrajectory returns a new Trajectory tracker which will save its
// data at the specified location filename
func NewTrajectory(filename string) *Trajectory {
	return &Trajectory{filename: filename}
}

// Track appends the agent's position to the trajectory of the current
// episode
func (t *Trajectory) Track(step ts.TimeStep) {
	if step.First() || len(t.trajectories) == 0 {
		t.trajectories = append(t.trajectories, nil)
	}
	last := len(t.trajectories) - 1
	t.trajectories[last] = append(t.trajectories[last],
		step.Observation.Position)
}

// Data returns the tracked trajectories
func (t *Trajectory) Data() [][]grid.Cell {
	data := make([][]grid.Cell, len(t.trajectories))
	for i, trajectory := range t.trajectories {
		data[i] = append([]grid.Cell(nil), trajectory...)
	}
	return data
}

// Save saves the data tracked by the Trajectory Tracker to disk
func (t *Trajectory) Save() error {
	if err := tracker.Save(t.filename, t.trajectories); err != nil {
		return fmt.Errorf("trajectory: %w", err)
	}
	return nil
}
