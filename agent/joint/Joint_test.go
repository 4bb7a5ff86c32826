package joint

import (
	"bytes"
	"errors"
	"testing"

	"golang.org/x/exp/rand"

	"github.com/samuelfneumann/goalnav/agent"
	"github.com/samuelfneumann/goalnav/agent/planner"
	"github.com/samuelfneumann/goalnav/grid"
	"github.com/samuelfneumann/goalnav/logging"
	"github.com/samuelfneumann/goalnav/timestep"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/floats"
	"gopkg.in/yaml.v3"
)

func newJoint(t *testing.T) *Joint {
	t.Helper()
	j, err := New(DefaultConfig(), rand.NewSource(1), nil)
	require.NoError(t, err)
	return j
}

func TestConfig(t *testing.T) {
	c := DefaultConfig()
	require.NoError(t, c.Validate())
	assert.Equal(t, 0.1, c.Temperature)
	assert.Equal(t, agent.Joint, c.Type())

	c.Temperature = 0
	assert.Error(t, c.Validate())

	c = DefaultConfig()
	c.Planner.GridSize = 0
	assert.Error(t, c.Validate())
}

func TestTypedConfig(t *testing.T) {
	data := []byte("type: joint\n" +
		"config:\n" +
		"  temperature: 0.5\n" +
		"  planner:\n" +
		"    grid_size: 10\n")

	var c agent.TypedConfig
	require.NoError(t, yaml.Unmarshal(data, &c))
	require.IsType(t, Config{}, c.Config)

	jc := c.Config.(Config)
	assert.Equal(t, 0.5, jc.Temperature)
	assert.Equal(t, 10, jc.Planner.GridSize)
	assert.Equal(t, planner.DefaultConfig().Beta, jc.Planner.Beta)
}

func TestJointGoalReached(t *testing.T) {
	j := newJoint(t)
	goal := grid.Cell{Row: 3, Col: 3}
	_, err := j.ChooseAction(goal, goal, []grid.Cell{goal})
	assert.True(t, errors.Is(err, ErrJointGoalReached))

	_, err = j.ChooseAction(goal, goal, nil)
	assert.True(t, errors.Is(err, planner.ErrNoGoals))
}

func TestProbabilitiesJointGoal(t *testing.T) {
	j := newJoint(t)
	goals := []grid.Cell{{Row: 0, Col: 2}, {Row: 10, Col: 10}}

	probs, err := j.Probabilities(grid.Cell{Row: 0, Col: 0},
		grid.Cell{Row: 0, Col: 4}, goals)
	require.NoError(t, err)
	assert.InDelta(t, 1.0, floats.Sum(probs.Values()), 1e-12)

	right, _ := probs.Get(grid.Right)
	left, _ := probs.Get(grid.Left)
	up, _ := probs.Get(grid.Up)
	down, _ := probs.Get(grid.Down)
	assert.Greater(t, right, 0.99)
	assert.InDelta(t, left, up, 1e-12, "both moves leave the grid")
	assert.Greater(t, left, down)
}

func TestProbabilitiesPartnerGoal(t *testing.T) {
	j := newJoint(t)
	goals := []grid.Cell{{Row: 0, Col: 0}, {Row: 5, Col: 5}}

	// The agent is on a goal and the partner is closer to the other one
	probs, err := j.Probabilities(grid.Cell{Row: 0, Col: 0},
		grid.Cell{Row: 5, Col: 7}, goals)
	require.NoError(t, err)

	right, _ := probs.Get(grid.Right)
	down, _ := probs.Get(grid.Down)
	assert.InDelta(t, right, down, 1e-12)
	assert.Greater(t, right, 0.49)
}

func TestProbabilitiesObstacles(t *testing.T) {
	j := newJoint(t)
	probs, err := j.Probabilities(grid.Cell{Row: 0, Col: 0},
		grid.Cell{Row: 0, Col: 4}, []grid.Cell{{Row: 0, Col: 2}},
		grid.Cell{Row: 0, Col: 1})
	require.NoError(t, err)

	right, _ := probs.Get(grid.Right)
	left, _ := probs.Get(grid.Left)
	down, _ := probs.Get(grid.Down)
	assert.InDelta(t, left, right, 1e-12, "blocked moves stay in place")
	assert.Greater(t, right, down)
}

func TestChooseAction(t *testing.T) {
	j := newJoint(t)
	goals := []grid.Cell{{Row: 0, Col: 2}, {Row: 10, Col: 10}}

	const trials = 200
	right := 0
	for i := 0; i < trials; i++ {
		action, err := j.ChooseAction(grid.Cell{Row: 0, Col: 0},
			grid.Cell{Row: 0, Col: 4}, goals)
		require.NoError(t, err)
		if action == grid.Right {
			right++
		}
	}
	assert.Greater(t, right, trials-5)
}

func TestSelectActionFallback(t *testing.T) {
	var buf bytes.Buffer
	logger, err := logging.New(logging.Config{Output: &buf})
	require.NoError(t, err)

	j, err := New(DefaultConfig(), rand.NewSource(1), logger)
	require.NoError(t, err)

	start := grid.Cell{Row: 0, Col: 0}
	goal := grid.Cell{Row: 0, Col: 6}
	action, err := j.SelectAction(timestep.Observation{
		Position: start,
		Goals:    []grid.Cell{goal},
	})
	require.NoError(t, err)
	assert.Equal(t, grid.Right, action)
	assert.Contains(t, buf.String(), "falling back to individual planner")

	action, err = j.SelectAction(timestep.Observation{
		Position:   start,
		Partner:    grid.Cell{Row: 0, Col: 8},
		HasPartner: true,
		Goals:      []grid.Cell{goal},
	})
	require.NoError(t, err)
	assert.Equal(t, grid.Right, action)
}
