package joint

import (
	"fmt"
	"log/slog"

	"golang.org/x/exp/rand"

	"github.com/samuelfneumann/goalnav/agent"
	"github.com/samuelfneumann/goalnav/agent/planner"
)

func init() {
	agent.Register(agent.Joint, DefaultConfig())
}

// Config configures a Joint agent
type Config struct {
	// Temperature of the softmax over negative joint costs
	Temperature float64 `json:"temperature" yaml:"temperature"`

	// Planner configures the individual planner used when no partner
	// is observed. Its GridSize also bounds the joint agent's moves.
	Planner planner.Config `json:"planner" yaml:"planner"`
}

// DefaultConfig returns the default joint agent configuration
func DefaultConfig() Config {
	return Config{
		Temperature: 0.1,
		Planner:     planner.DefaultConfig(),
	}
}

// Validate implements the agent.Config interface
func (c Config) Validate() error {
	if c.Temperature <= 0 {
		return fmt.Errorf("temperature must be > 0")
	}
	if err := c.Planner.Validate(); err != nil {
		return fmt.Errorf("planner: %w", err)
	}
	return nil
}

// CreateAgent implements the agent.Config interface
func (c Config) CreateAgent(seed rand.Source,
	logger *slog.Logger) (agent.Agent, error) {
	return New(c, seed, logger)
}

// Type implements the agent.Config interface
func (c Config) Type() agent.Type {
	return agent.Joint
}
