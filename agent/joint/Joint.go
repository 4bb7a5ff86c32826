// Package joint implements a cooperative agent for the two player
// navigation task. The agent moves toward the goal that minimises the
// combined distance of itself and its partner.
package joint

import (
	"errors"
	"fmt"
	"log/slog"

	"golang.org/x/exp/rand"

	"github.com/samuelfneumann/goalnav/agent/planner"
	"github.com/samuelfneumann/goalnav/grid"
	"github.com/samuelfneumann/goalnav/logging"
	"github.com/samuelfneumann/goalnav/policy"
	"github.com/samuelfneumann/goalnav/timestep"
	"github.com/samuelfneumann/goalnav/utils/floatutils"
	"github.com/samuelfneumann/goalnav/utils/intutils"
)

// ErrJointGoalReached is returned when both players already stand on
// the same goal
var ErrJointGoalReached = errors.New("both players are on the same goal")

// Joint is a heuristic cooperative agent.
//
// For each action, the cost of the action is the smallest sum, over
// goals, of the agent's distance to the goal after moving and the
// partner's current distance to it. If the agent is on a goal and the
// partner is not, the agent instead heads for the goal nearest to the
// partner. Actions are sampled from a softmax over negative costs.
type Joint struct {
	config   Config
	sampler  *policy.Sampling
	fallback *planner.Planner
	logger   *slog.Logger
}

// New creates a new Joint agent. A nil logger discards all records.
func New(c Config, seed rand.Source, logger *slog.Logger) (*Joint, error) {
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("new: %w", err)
	}

	logger = logging.OrDiscard(logger)
	fallback, err := planner.New(c.Planner, seed, logger)
	if err != nil {
		return nil, fmt.Errorf("new: %w", err)
	}

	return &Joint{
		config:   c,
		sampler:  policy.NewSampling(seed),
		fallback: fallback,
		logger:   logger,
	}, nil
}

// SelectAction implements the agent.Agent interface. Without an
// observed partner, the individual planner chooses the action.
func (j *Joint) SelectAction(o timestep.Observation) (grid.Action, error) {
	if !o.HasPartner {
		j.logger.Warn("no partner observed, falling back to individual " +
			"planner")
		return j.fallback.ChooseAction(o.Position, o.Goals, o.Obstacles...)
	}
	return j.ChooseAction(o.Position, o.Partner, o.Goals, o.Obstacles...)
}

// ChooseAction samples the next action of the agent at position given
// its partner's position
func (j *Joint) ChooseAction(position, partner grid.Cell, goals []grid.Cell,
	obstacles ...grid.Cell) (grid.Action, error) {
	probs, err := j.Probabilities(position, partner, goals, obstacles...)
	if err != nil {
		return grid.Action{}, fmt.Errorf("chooseAction: %w", err)
	}
	return j.sampler.Select(probs), nil
}

// Probabilities returns the probability of each action
func (j *Joint) Probabilities(position, partner grid.Cell, goals []grid.Cell,
	obstacles ...grid.Cell) (policy.ActionValues, error) {
	if len(goals) == 0 {
		return nil, fmt.Errorf("probabilities: %w", planner.ErrNoGoals)
	}

	agentAtGoal := contains(goals, position)
	partnerAtGoal := contains(goals, partner)
	if agentAtGoal && partnerAtGoal && position == partner {
		return nil, fmt.Errorf("probabilities: %w", ErrJointGoalReached)
	}

	blocked := make(map[grid.Cell]struct{}, len(obstacles))
	for _, o := range obstacles {
		blocked[o] = struct{}{}
	}

	actions := grid.Actions()
	costs := make([]float64, len(actions))
	for i, a := range actions {
		next := j.move(position, a, blocked)

		if agentAtGoal && !partnerAtGoal {
			g := nearest(partner, goals)
			costs[i] = float64(grid.Manhattan(next, g) + grid.Manhattan(partner, g))
			continue
		}

		dists := make([]int, len(goals))
		for k, g := range goals {
			dists[k] = grid.Manhattan(next, g) + grid.Manhattan(partner, g)
		}
		costs[i] = float64(intutils.Min(dists...))
	}

	// Softmax is invariant to shifts; shifting by the smallest cost
	// keeps the best action's exponent at 0
	lowest := floatutils.Min(costs...)
	prefs := make([]float64, len(costs))
	for i, c := range costs {
		prefs[i] = lowest - c
	}
	probs := policy.SoftmaxValues(prefs, 1/j.config.Temperature)

	table := make(policy.ActionValues, len(actions))
	for i, a := range actions {
		table[i] = policy.ActionValue{Action: a, Value: probs[i]}
	}
	return table, nil
}

// move returns the cell reached from c with action a. Moves that leave
// the grid or enter an obstacle leave the agent in place.
func (j *Joint) move(c grid.Cell, a grid.Action,
	blocked map[grid.Cell]struct{}) grid.Cell {
	next := c.Add(a)
	size := j.config.Planner.GridSize
	if !next.In(size, size) {
		return c
	}
	if _, ok := blocked[next]; ok {
		return c
	}
	return next
}

// nearest returns the first goal of minimal distance to c
func nearest(c grid.Cell, goals []grid.Cell) grid.Cell {
	best := goals[0]
	for _, g := range goals[1:] {
		if grid.Manhattan(c, g) < grid.Manhattan(c, best) {
			best = g
		}
	}
	return best
}

func contains(cells []grid.Cell, c grid.Cell) bool {
	for _, cell := range cells {
		if cell == c {
			return true
		}
	}
	return false
}
