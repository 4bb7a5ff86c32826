package planner

import (
	"fmt"
	"log/slog"

	"golang.org/x/exp/rand"

	"github.com/samuelfneumann/goalnav/agent"
	"github.com/samuelfneumann/goalnav/solver"
)

func init() {
	agent.Register(agent.Individual, DefaultConfig())
}

// Selection names the rule used to pick an action from the policy
type Selection string

const (
	// Greedy picks a most probable action, breaking ties at random
	Greedy Selection = "greedy"

	// Sample draws an action from the policy
	Sample Selection = "sample"
)

// Config configures a Planner
type Config struct {
	// GridSize is the number of rows and columns of the square grid
	GridSize int `json:"grid_size" yaml:"grid_size"`

	// Noise is the probability of slipping to a neighbouring cell
	Noise float64 `json:"noise" yaml:"noise"`

	Discount   float64 `json:"discount" yaml:"discount"`
	GoalReward float64 `json:"goal_reward" yaml:"goal_reward"`

	// Beta is the inverse temperature of the softmax policy
	Beta float64 `json:"beta" yaml:"beta"`

	// Value iteration
	Epsilon      float64 `json:"epsilon" yaml:"epsilon"`
	MaxSweeps    int     `json:"max_sweeps" yaml:"max_sweeps"`
	InitialValue float64 `json:"initial_value" yaml:"initial_value"`

	// Selection defaults to Greedy when empty
	Selection Selection `json:"selection" yaml:"selection"`
}

// DefaultConfig returns the default planner configuration
func DefaultConfig() Config {
	vi := solver.DefaultConfig()
	return Config{
		GridSize:     15,
		Noise:        0,
		Discount:     vi.Discount,
		GoalReward:   30,
		Beta:         5,
		Epsilon:      vi.Epsilon,
		MaxSweeps:    vi.MaxSweeps,
		InitialValue: vi.InitialValue,
		Selection:    Greedy,
	}
}

// StepCost returns the reward of every transition
func (c Config) StepCost() float64 {
	return -1 / (2 * float64(c.GridSize))
}

// Solver returns the value iteration configuration of c
func (c Config) Solver() solver.Config {
	return solver.Config{
		Discount:     c.Discount,
		Epsilon:      c.Epsilon,
		MaxSweeps:    c.MaxSweeps,
		InitialValue: c.InitialValue,
	}
}

// Validate implements the agent.Config interface
func (c Config) Validate() error {
	if c.GridSize < 1 {
		return fmt.Errorf("grid_size must be >= 1")
	}
	if c.Noise < 0 || c.Noise > 1 {
		return fmt.Errorf("noise must be in [0, 1]")
	}
	switch c.Selection {
	case "", Greedy, Sample:
	default:
		return fmt.Errorf("unknown selection %q", c.Selection)
	}
	return c.Solver().Validate()
}

// CreateAgent implements the agent.Config interface
func (c Config) CreateAgent(seed rand.Source,
	logger *slog.Logger) (agent.Agent, error) {
	return New(c, seed, logger)
}

// Type implements the agent.Config interface
func (c Config) Type() agent.Type {
	return agent.Individual
}
