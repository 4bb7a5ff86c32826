package planner

import (
	"bytes"
	"errors"
	"testing"

	"golang.org/x/exp/rand"

	"github.com/samuelfneumann/goalnav/agent"
	"github.com/samuelfneumann/goalnav/grid"
	"github.com/samuelfneumann/goalnav/logging"
	"github.com/samuelfneumann/goalnav/timestep"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/floats"
	"gopkg.in/yaml.v3"
)

func newPlanner(t *testing.T, c Config) *Planner {
	t.Helper()
	p, err := New(c, rand.NewSource(1), nil)
	require.NoError(t, err)
	return p
}

func TestConfig(t *testing.T) {
	c := DefaultConfig()
	require.NoError(t, c.Validate())
	assert.Equal(t, 15, c.GridSize)
	assert.Equal(t, 0.0, c.Noise)
	assert.Equal(t, 0.9, c.Discount)
	assert.Equal(t, 30.0, c.GoalReward)
	assert.Equal(t, 5.0, c.Beta)
	assert.Equal(t, 0.001, c.Epsilon)
	assert.Equal(t, 100, c.MaxSweeps)
	assert.InDelta(t, -1.0/30, c.StepCost(), 1e-12)
	assert.Equal(t, agent.Individual, c.Type())

	invalid := []func(*Config){
		func(c *Config) { c.GridSize = 0 },
		func(c *Config) { c.Noise = 1.5 },
		func(c *Config) { c.Epsilon = 0 },
		func(c *Config) { c.MaxSweeps = 0 },
		func(c *Config) { c.Selection = "argmax" },
	}
	for i, modify := range invalid {
		c := DefaultConfig()
		modify(&c)
		assert.Error(t, c.Validate(), "case %d", i)

		_, err := New(c, rand.NewSource(1), nil)
		assert.Error(t, err, "case %d", i)
	}
}

func TestTypedConfig(t *testing.T) {
	var c agent.TypedConfig
	data := []byte("type: individual\nconfig:\n  beta: 2\n  selection: sample\n")
	require.NoError(t, yaml.Unmarshal(data, &c))

	want := DefaultConfig()
	want.Beta = 2
	want.Selection = Sample
	assert.Equal(t, want, c.Config)

	a, err := c.CreateAgent(rand.NewSource(1), nil)
	require.NoError(t, err)
	assert.IsType(t, &Planner{}, a)
}

func TestChooseActionReducesDistance(t *testing.T) {
	p := newPlanner(t, DefaultConfig())
	start := grid.Cell{Row: 0, Col: 0}
	goal := grid.Cell{Row: 7, Col: 2}

	for i := 0; i < 20; i++ {
		action, err := p.ChooseAction(start, []grid.Cell{goal})
		require.NoError(t, err)
		assert.Less(t, grid.Manhattan(start.Add(action), goal),
			grid.Manhattan(start, goal), "action %v", action)
	}
}

func TestChooseActionWalksToGoal(t *testing.T) {
	p := newPlanner(t, DefaultConfig())
	position := grid.Cell{Row: 14, Col: 14}
	goals := []grid.Cell{{Row: 2, Col: 3}, {Row: 12, Col: 10}}

	for steps := 0; steps < 6; steps++ {
		action, err := p.ChooseAction(position, goals)
		require.NoError(t, err)
		position = position.Add(action)
	}
	assert.Equal(t, goals[1], position, "the nearest goal is 6 steps away")
}

func TestChooseActionAtGoal(t *testing.T) {
	p := newPlanner(t, DefaultConfig())
	goal := grid.Cell{Row: 3, Col: 3}

	_, err := p.ChooseAction(goal, []grid.Cell{goal})
	assert.NoError(t, err)
}

func TestChooseActionNoGoals(t *testing.T) {
	p := newPlanner(t, DefaultConfig())
	_, err := p.ChooseAction(grid.Cell{}, nil)
	assert.True(t, errors.Is(err, ErrNoGoals))
}

func TestChooseActionObstacles(t *testing.T) {
	p := newPlanner(t, DefaultConfig())
	start := grid.Cell{Row: 0, Col: 0}
	goal := grid.Cell{Row: 0, Col: 3}

	action, err := p.ChooseAction(start, []grid.Cell{goal},
		grid.Cell{Row: 0, Col: 1})
	require.NoError(t, err)
	assert.Equal(t, grid.Down, action)

	_, err = p.ChooseAction(grid.Cell{Row: 0, Col: 1}, []grid.Cell{goal},
		grid.Cell{Row: 0, Col: 1})
	assert.Error(t, err, "position on an obstacle")

	_, err = p.ChooseAction(grid.Cell{Row: 20, Col: 0}, []grid.Cell{goal})
	assert.Error(t, err, "position outside of the grid")
}

func TestChooseActionDropsOutOfGridGoals(t *testing.T) {
	var buf bytes.Buffer
	logger, err := logging.New(logging.Config{Output: &buf})
	require.NoError(t, err)

	p, err := New(DefaultConfig(), rand.NewSource(1), logger)
	require.NoError(t, err)

	goals := []grid.Cell{{Row: 20, Col: 20}, {Row: 0, Col: 3}}
	action, err := p.ChooseAction(grid.Cell{Row: 0, Col: 0}, goals)
	require.NoError(t, err)
	assert.Equal(t, grid.Right, action)
	assert.Contains(t, buf.String(), "dropping goal outside of grid")

	// Without any reachable goal the planner still answers
	_, err = p.ChooseAction(grid.Cell{}, goals[:1])
	assert.NoError(t, err)
}

func TestPlan(t *testing.T) {
	c := DefaultConfig()
	p := newPlanner(t, c)
	goal := grid.Cell{Row: 7, Col: 2}

	plan, err := p.Plan(grid.Cell{Row: 7, Col: 6}, []grid.Cell{goal})
	require.NoError(t, err)

	assert.True(t, plan.World.IsTerminal(goal))
	assert.InDelta(t, 1.0, floats.Sum(plan.Probabilities.Values()), 1e-9)

	left, ok := plan.Probabilities.Get(grid.Left)
	require.True(t, ok)
	for _, av := range plan.Probabilities {
		assert.LessOrEqual(t, av.Value, left, "%v", av.Action)
	}

	v, ok := plan.Value(goal)
	require.True(t, ok)
	assert.Equal(t, c.GoalReward, v, "goal values are pinned")

	prev := v
	for col := 3; col < c.GridSize; col++ {
		v, ok := plan.Value(grid.Cell{Row: 7, Col: col})
		require.True(t, ok)
		assert.Less(t, v, prev, "values decrease away from the goal")
		prev = v
	}

	rows, cols := plan.Q.Dims()
	assert.Equal(t, c.GridSize*c.GridSize, rows)
	assert.Equal(t, len(grid.Actions()), cols)
}

func TestPlanNoise(t *testing.T) {
	c := DefaultConfig()
	c.Noise = 0.2
	p := newPlanner(t, c)

	goal := grid.Cell{Row: 0, Col: 5}
	start := grid.Cell{Row: 0, Col: 0}
	action, err := p.ChooseAction(start, []grid.Cell{goal})
	require.NoError(t, err)
	assert.Equal(t, grid.Right, action)

	plan, err := p.Plan(start, []grid.Cell{goal})
	require.NoError(t, err)
	for i := 0; i < plan.Model.States.Len(); i++ {
		for a := range plan.Model.Actions {
			assert.InDelta(t, 1.0, floats.Sum(plan.Model.P[a].RawRowView(i)),
				1e-9)
		}
	}
}

func TestPlanNotConverged(t *testing.T) {
	var buf bytes.Buffer
	logger, err := logging.New(logging.Config{Output: &buf})
	require.NoError(t, err)

	c := DefaultConfig()
	c.MaxSweeps = 1
	p, err := New(c, rand.NewSource(1), logger)
	require.NoError(t, err)

	plan, err := p.Plan(grid.Cell{}, []grid.Cell{{Row: 5, Col: 5}})
	require.NoError(t, err)
	assert.False(t, plan.Result.Converged)
	assert.Contains(t, buf.String(), "value iteration did not converge")
}

func TestSampleSelection(t *testing.T) {
	c := DefaultConfig()
	c.Selection = Sample
	c.Beta = 0
	p := newPlanner(t, c)

	seen := make(map[grid.Action]bool)
	for i := 0; i < 200; i++ {
		action, err := p.ChooseAction(grid.Cell{Row: 7, Col: 7},
			[]grid.Cell{{Row: 0, Col: 0}})
		require.NoError(t, err)
		seen[action] = true
	}
	assert.Len(t, seen, 4, "a uniform policy samples every action")
}

func TestSelectAction(t *testing.T) {
	p := newPlanner(t, DefaultConfig())
	action, err := p.SelectAction(timestep.Observation{
		Position:  grid.Cell{Row: 4, Col: 4},
		Goals:     []grid.Cell{{Row: 4, Col: 0}},
		Obstacles: []grid.Cell{{Row: 4, Col: 3}},
	})
	require.NoError(t, err)
	assert.Contains(t, []grid.Action{grid.Up, grid.Down}, action)
}
