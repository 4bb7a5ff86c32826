// Package planner implements an agent that plans its path to the
// nearest rewarding goal of a square grid world with value iteration
// and acts with a softmax policy over the resulting action values
package planner

import (
	"errors"
	"fmt"
	"log/slog"

	"golang.org/x/exp/rand"

	"github.com/samuelfneumann/goalnav/environment/gridworld"
	"github.com/samuelfneumann/goalnav/grid"
	"github.com/samuelfneumann/goalnav/logging"
	"github.com/samuelfneumann/goalnav/mdp"
	"github.com/samuelfneumann/goalnav/policy"
	"github.com/samuelfneumann/goalnav/solver"
	"github.com/samuelfneumann/goalnav/timestep"
	"gonum.org/v1/gonum/mat"
)

// ErrNoGoals is returned when planning without any goal
var ErrNoGoals = errors.New("no goals")

// Plan is the full solution computed for a single decision
type Plan struct {
	World *gridworld.GridWorld
	Model *mdp.Model

	// Result is the raw value iteration result
	Result solver.Result

	// Values are the state values with goal states pinned to the goal
	// reward
	Values *mat.VecDense

	// Q holds the action values, one row per state
	Q *mat.Dense

	Policy *policy.Softmax

	// Probabilities is the policy at the queried position
	Probabilities policy.ActionValues
}

// Value returns the planned value of cell. The second return value is
// false if cell is not a state of the plan.
func (p *Plan) Value(cell grid.Cell) (float64, bool) {
	i, ok := p.Model.States.Index(cell)
	if !ok {
		return 0, false
	}
	return p.Values.AtVec(i), true
}

// Planner chooses actions by solving the navigation MDP from scratch
// at every decision
type Planner struct {
	config   Config
	solver   *solver.ValueIteration
	selector policy.Selector
	logger   *slog.Logger
}

// New creates a new Planner. A nil logger discards all records.
func New(c Config, seed rand.Source, logger *slog.Logger) (*Planner, error) {
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("new: %w", err)
	}

	vi, err := solver.NewValueIteration(c.Solver())
	if err != nil {
		return nil, fmt.Errorf("new: %w", err)
	}

	var selector policy.Selector
	if c.Selection == Sample {
		selector = policy.NewSampling(seed)
	} else {
		selector = policy.NewGreedy(seed)
	}

	return &Planner{
		config:   c,
		solver:   vi,
		selector: selector,
		logger:   logging.OrDiscard(logger),
	}, nil
}

// Config returns the configuration of the Planner
func (p *Planner) Config() Config {
	return p.config
}

// SelectAction implements the agent.Agent interface
func (p *Planner) SelectAction(o timestep.Observation) (grid.Action, error) {
	return p.ChooseAction(o.Position, o.Goals, o.Obstacles...)
}

// ChooseAction returns the next action to take from position toward
// the goals
func (p *Planner) ChooseAction(position grid.Cell, goals []grid.Cell,
	obstacles ...grid.Cell) (grid.Action, error) {
	plan, err := p.Plan(position, goals, obstacles...)
	if err != nil {
		return grid.Action{}, fmt.Errorf("chooseAction: %w", err)
	}

	return p.Select(plan), nil
}

// Select selects an action from the policy of plan at its queried
// position
func (p *Planner) Select(plan *Plan) grid.Action {
	action := p.selector.Select(plan.Probabilities)
	p.logger.Debug("chose action", "action", action, "sweeps",
		plan.Result.Sweeps)
	return action
}

// Plan solves the navigation MDP and evaluates the policy at position.
//
// Goals outside the grid are dropped. Goals are terminal, and their
// values are pinned to the goal reward before action values are
// computed.
func (p *Planner) Plan(position grid.Cell, goals []grid.Cell,
	obstacles ...grid.Cell) (*Plan, error) {
	if len(goals) == 0 {
		return nil, fmt.Errorf("plan: %w", ErrNoGoals)
	}

	world, err := gridworld.New("planner", p.config.GridSize,
		p.config.GridSize)
	if err != nil {
		return nil, fmt.Errorf("plan: %w", err)
	}
	world.AddObstacles(obstacles...)

	kept := make([]grid.Cell, 0, len(goals))
	for _, goal := range goals {
		if !world.InBounds(goal) {
			p.logger.Warn("dropping goal outside of grid", "goal", goal,
				"grid_size", p.config.GridSize)
			continue
		}
		kept = append(kept, goal)
	}

	stepCost := p.config.StepCost()
	reward := func(grid.Cell, grid.Action, grid.Cell) float64 {
		return stepCost
	}
	if len(kept) > 0 {
		task, err := gridworld.NewGoal(world, kept, stepCost,
			p.config.GoalReward)
		if err != nil {
			return nil, fmt.Errorf("plan: %w", err)
		}
		world.AddTerminals(kept...)
		reward = task.TransitionReward
	}

	states := mdp.NewStateSpace(world)
	actions := grid.Actions()
	transition := gridworld.NewStochasticTransition(p.config.Noise, actions,
		world)

	model, err := mdp.NewModel(states, actions, transition, reward,
		world.IsTerminal)
	if err != nil {
		return nil, fmt.Errorf("plan: %w", err)
	}

	result := p.solver.Solve(model)
	if !result.Converged {
		p.logger.Warn("value iteration did not converge", "sweeps",
			result.Sweeps, "delta", result.Delta, "epsilon", p.config.Epsilon)
	}

	values := &mat.VecDense{}
	if result.Values.Len() > 0 {
		values = mat.VecDenseCopyOf(result.Values)
	}
	for _, goal := range kept {
		if i, ok := states.Index(goal); ok {
			values.SetVec(i, p.config.GoalReward)
		}
	}

	q := solver.ActionValues(model, values, p.config.Discount)
	pi, err := policy.NewSoftmax(q, states, actions, p.config.Beta)
	if err != nil {
		return nil, fmt.Errorf("plan: %w", err)
	}

	probs, err := pi.Probabilities(position)
	if err != nil {
		return nil, fmt.Errorf("plan: %w", err)
	}

	return &Plan{
		World:         world,
		Model:         model,
		Result:        result,
		Values:        values,
		Q:             q,
		Policy:        pi,
		Probabilities: probs,
	}, nil
}
