package gridworld

import (
	"fmt"
	"sort"

	"golang.org/x/exp/rand"

	"github.com/samuelfneumann/goalnav/environment"
	"github.com/samuelfneumann/goalnav/grid"
	ts "github.com/samuelfneumann/goalnav/timestep"
	"github.com/samuelfneumann/goalnav/utils/intutils"
	"gonum.org/v1/gonum/stat/distuv"
)

// EnvConfig configures the dynamics and rewards of an Env
type EnvConfig struct {
	Noise         float64 `json:"noise" yaml:"noise"`
	Discount      float64 `json:"discount" yaml:"discount"`
	EpisodeCutoff int     `json:"episode_cutoff" yaml:"episode_cutoff"`
	StepReward    float64 `json:"step_reward" yaml:"step_reward"`
	GoalReward    float64 `json:"goal_reward" yaml:"goal_reward"`
}

// Validate returns an error if the configuration is invalid
func (c EnvConfig) Validate() error {
	if c.Noise < 0 || c.Noise > 1 {
		return fmt.Errorf("noise must be in [0, 1]")
	}
	if c.EpisodeCutoff < 1 {
		return fmt.Errorf("episode_cutoff must be >= 1")
	}
	return nil
}

// Env is a navigation environment over a GridWorld. An agent moves
// through the world one action at a time, with next cells sampled from
// a StochasticTransition, until it reaches a goal or the episode is cut
// off.
//
// An Env may hold a partner that shares the grid with the agent. The
// partner moves one step per timestep toward the goal minimising the
// joint distance of both players, and episodes then end only once both
// players stand on the same goal.
type Env struct {
	*GridWorld
	environment.Starter
	task       *Goal
	transition *StochasticTransition
	ender      environment.Ender
	seed       rand.Source
	discount   float64

	partnerStarter environment.Starter
	position       grid.Cell
	partner        grid.Cell

	currentStep ts.TimeStep
}

// NewEnv creates a new Env on world with the given goals. The start
// Starter samples the agent's starting cell at each Reset. If partner
// is non-nil, it samples the partner's starting cell.
func NewEnv(world *GridWorld, goals []grid.Cell, start,
	partner environment.Starter, c EnvConfig, seed uint64) (*Env, ts.TimeStep,
	error) {
	if err := c.Validate(); err != nil {
		return nil, ts.TimeStep{}, fmt.Errorf("newEnv: %w", err)
	}

	task, err := NewGoal(world, goals, c.StepReward, c.GoalReward)
	if err != nil {
		return nil, ts.TimeStep{}, fmt.Errorf("newEnv: %w", err)
	}

	e := &Env{
		GridWorld:      world,
		Starter:        start,
		task:           task,
		transition:     NewStochasticTransition(c.Noise, grid.Actions(), world),
		seed:           rand.NewSource(seed),
		discount:       c.Discount,
		partnerStarter: partner,
	}

	goal := environment.NewFunctionEnder(e.atGoal, ts.TerminalStateReached)
	e.ender = environment.Enders{goal, environment.NewStepLimit(c.EpisodeCutoff)}

	step, err := e.Reset()
	if err != nil {
		return nil, ts.TimeStep{}, fmt.Errorf("newEnv: %w", err)
	}
	return e, step, nil
}

// Reset resets the environment to a new starting cell
func (e *Env) Reset() (ts.TimeStep, error) {
	e.position = e.Start()
	if !e.IsValid(e.position) {
		return ts.TimeStep{}, fmt.Errorf("reset: start %v is not a valid cell",
			e.position)
	}

	if e.partnerStarter != nil {
		e.partner = e.partnerStarter.Start()
		if !e.IsValid(e.partner) {
			return ts.TimeStep{}, fmt.Errorf("reset: partner start %v is not "+
				"a valid cell", e.partner)
		}
	}

	e.currentStep = ts.New(ts.First, 0, e.discount, e.observation(), 0)
	return e.currentStep, nil
}

// Step takes one environmental step given the agent's action. The
// returned bool is true if the episode has ended.
func (e *Env) Step(action grid.Action) (ts.TimeStep, bool, error) {
	if e.currentStep.Last() {
		return ts.TimeStep{}, true, fmt.Errorf("step: episode has ended, " +
			"call Reset")
	}

	next := e.sampleNext(e.position, action)
	reward := e.task.GetReward(e.position, action, next)
	e.position = next

	if e.partnerStarter != nil {
		e.partner = e.partnerNext(e.partner, next)
	}

	step := ts.New(ts.Mid, reward, e.discount, e.observation(),
		e.currentStep.Number+1)
	last := e.ender.End(&step)
	e.currentStep = step

	return step, last, nil
}

// CurrentTimeStep returns the last timestep produced by the environment
func (e *Env) CurrentTimeStep() ts.TimeStep {
	return e.currentStep
}

// Task returns the goal task of the environment
func (e *Env) Task() *Goal {
	return e.task
}

// Position returns the agent's current cell
func (e *Env) Position() grid.Cell {
	return e.position
}

// sampleNext samples the agent's next cell from the transition
// distribution. Destinations are ordered row-major so that a seeded
// Env is reproducible.
func (e *Env) sampleNext(s grid.Cell, a grid.Action) grid.Cell {
	dist := e.transition.Distribution(s, a)
	if len(dist) == 1 {
		for next := range dist {
			return next
		}
	}

	cells := make([]grid.Cell, 0, len(dist))
	for next := range dist {
		cells = append(cells, next)
	}
	sort.Slice(cells, func(i, j int) bool {
		if cells[i].Row != cells[j].Row {
			return cells[i].Row < cells[j].Row
		}
		return cells[i].Col < cells[j].Col
	})

	weights := make([]float64, len(cells))
	for i, cell := range cells {
		weights[i] = dist[cell]
	}

	return cells[int(distuv.NewCategorical(weights, e.seed).Rand())]
}

// partnerNext moves the partner one step toward the goal minimising
// the sum of the partner's and the agent's distance to it. Rows are
// closed before columns. Moves into invalid cells leave the partner in
// place.
func (e *Env) partnerNext(partner, agent grid.Cell) grid.Cell {
	goals := e.task.Goals()
	best := goals[0]
	bestDist := -1
	for _, g := range goals {
		d := grid.Manhattan(partner, g) + grid.Manhattan(agent, g)
		if bestDist < 0 || d < bestDist {
			best, bestDist = g, d
		}
	}

	next := partner
	if partner.Row != best.Row {
		next.Row += intutils.Sign(best.Row - partner.Row)
	} else if partner.Col != best.Col {
		next.Col += intutils.Sign(best.Col - partner.Col)
	}

	if !e.IsValid(next) {
		return partner
	}
	return next
}

// atGoal returns whether the episode has reached its terminal
// condition
func (e *Env) atGoal(o ts.Observation) bool {
	if !e.task.AtGoal(o.Position) {
		return false
	}
	return !o.HasPartner || o.Partner == o.Position
}

func (e *Env) observation() ts.Observation {
	return ts.Observation{
		Position:   e.position,
		Partner:    e.partner,
		HasPartner: e.partnerStarter != nil,
		Goals:      e.task.Goals(),
		Obstacles:  e.Obstacles(),
	}
}
