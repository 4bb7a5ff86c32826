// Package config loads the configuration of goalnav runs from YAML or
// JSON files and GOALNAV_* environment variables
package config

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"strconv"

	"golang.org/x/exp/rand"
	"gopkg.in/yaml.v3"

	"github.com/samuelfneumann/goalnav/agent"
	"github.com/samuelfneumann/goalnav/agent/joint"
	"github.com/samuelfneumann/goalnav/agent/planner"
	"github.com/samuelfneumann/goalnav/environment"
	"github.com/samuelfneumann/goalnav/environment/gridworld"
	"github.com/samuelfneumann/goalnav/experiment"
	"github.com/samuelfneumann/goalnav/grid"
	"github.com/samuelfneumann/goalnav/logging"
)

// EnvPrefix prefixes every environment variable read by Load
const EnvPrefix = "GOALNAV_"

// Scenario is the layout of a navigation task. If Starts is not
// empty, each rollout episode starts in a cell drawn uniformly from
// Starts instead of in Start.
type Scenario struct {
	Start     grid.Cell   `json:"start" yaml:"start"`
	Starts    []grid.Cell `json:"starts,omitempty" yaml:"starts,omitempty"`
	Partner   *grid.Cell  `json:"partner,omitempty" yaml:"partner,omitempty"`
	Goals     []grid.Cell `json:"goals" yaml:"goals"`
	Obstacles []grid.Cell `json:"obstacles" yaml:"obstacles"`
}

// Config is the configuration of a goalnav run
type Config struct {
	Seed       uint64              `json:"seed" yaml:"seed"`
	Log        logging.Config      `json:"log" yaml:"log"`
	Agent      agent.TypedConfig   `json:"agent" yaml:"agent"`
	Env        gridworld.EnvConfig `json:"env" yaml:"env"`
	Experiment experiment.Config   `json:"experiment" yaml:"experiment"`
	Scenario   Scenario            `json:"scenario" yaml:"scenario"`
}

// Default returns the default configuration: an individual planner on
// a 15 x 15 grid with two goals
func Default() Config {
	return Config{
		Seed:  1,
		Log:   logging.Config{Level: "info", Format: logging.Text},
		Agent: agent.NewTypedConfig(planner.DefaultConfig()),
		Env: gridworld.EnvConfig{
			Noise:         0,
			Discount:      0.9,
			EpisodeCutoff: 100,
			StepReward:    -1,
			GoalReward:    30,
		},
		Experiment: experiment.Config{
			Type:     experiment.OnlineExp,
			MaxSteps: 10_000,
			Episodes: 10,
		},
		Scenario: Scenario{
			Start: grid.Cell{Row: 0, Col: 0},
			Goals: []grid.Cell{{Row: 7, Col: 2}, {Row: 2, Col: 12}},
		},
	}
}

// Load returns the default configuration overridden by the file at
// path, if path is not empty, and then by environment variables. The
// file is parsed as YAML, falling back to JSON.
func Load(path string) (Config, error) {
	c := Default()

	if path != "" {
		if err := loadFile(path, &c); err != nil {
			return c, fmt.Errorf("load: %w", err)
		}
	}

	if err := loadEnv(&c); err != nil {
		return c, fmt.Errorf("load: %w", err)
	}

	if err := c.Validate(); err != nil {
		return c, fmt.Errorf("load: invalid config: %w", err)
	}
	return c, nil
}

func loadFile(path string, c *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	// Try YAML first, then JSON
	if err := yaml.Unmarshal(data, c); err != nil {
		if jsonErr := json.Unmarshal(data, c); jsonErr != nil {
			return fmt.Errorf("parse config (tried YAML and JSON): YAML "+
				"error: %v, JSON error: %w", err, jsonErr)
		}
	}
	return nil
}

func loadEnv(c *Config) error {
	if v := os.Getenv(EnvPrefix + "AGENT"); v != "" {
		a, err := agent.Default(agent.Type(v))
		if err != nil {
			return fmt.Errorf("%vAGENT: %w", EnvPrefix, err)
		}
		c.Agent = agent.NewTypedConfig(a)
	}
	if v := os.Getenv(EnvPrefix + "SEED"); v != "" {
		seed, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return fmt.Errorf("%vSEED: %w", EnvPrefix, err)
		}
		c.Seed = seed
	}
	if v := os.Getenv(EnvPrefix + "LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
	if v := os.Getenv(EnvPrefix + "LOG_FORMAT"); v != "" {
		c.Log.Format = logging.Format(v)
	}
	if v := os.Getenv(EnvPrefix + "NOISE"); v != "" {
		noise, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("%vNOISE: %w", EnvPrefix, err)
		}
		c.Env.Noise = noise
	}
	if v := os.Getenv(EnvPrefix + "EPISODES"); v != "" {
		episodes, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%vEPISODES: %w", EnvPrefix, err)
		}
		c.Experiment.Episodes = episodes
	}
	if v := os.Getenv(EnvPrefix + "MAX_STEPS"); v != "" {
		steps, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%vMAX_STEPS: %w", EnvPrefix, err)
		}
		c.Experiment.MaxSteps = steps
	}
	return nil
}

// Planner returns the configuration of the value iteration planner
// used by the agent, and false if the agent does not use one
func (c Config) Planner() (planner.Config, bool) {
	switch a := c.Agent.Config.(type) {
	case planner.Config:
		return a, true
	case joint.Config:
		return a.Planner, true
	default:
		return planner.Config{}, false
	}
}

// GridSize returns the number of rows and columns of the grid the
// agent plans over
func (c Config) GridSize() int {
	p, _ := c.Planner()
	return p.GridSize
}

// Validate returns an error if the configuration is invalid
func (c Config) Validate() error {
	if err := c.Log.Validate(); err != nil {
		return fmt.Errorf("log: %w", err)
	}
	if err := c.Agent.Validate(); err != nil {
		return fmt.Errorf("agent: %w", err)
	}
	if err := c.Env.Validate(); err != nil {
		return fmt.Errorf("env: %w", err)
	}
	if err := c.Experiment.Validate(); err != nil {
		return fmt.Errorf("experiment: %w", err)
	}

	size := c.GridSize()
	if size < 1 {
		return fmt.Errorf("agent: no grid size for agent type %q", c.Agent.Type)
	}
	if len(c.Scenario.Goals) == 0 {
		return fmt.Errorf("scenario: at least one goal is required")
	}
	cells := append([]grid.Cell{c.Scenario.Start}, c.Scenario.Goals...)
	cells = append(cells, c.Scenario.Starts...)
	if c.Scenario.Partner != nil {
		cells = append(cells, *c.Scenario.Partner)
	}
	for _, cell := range cells {
		if !cell.In(size, size) {
			return fmt.Errorf("scenario: %v outside of (%d, %d) grid", cell,
				size, size)
		}
	}
	return nil
}

// Logger creates the logger described by the configuration
func (c Config) Logger() (*slog.Logger, error) {
	return logging.New(c.Log)
}

// NewAgent creates the configured agent
func (c Config) NewAgent(logger *slog.Logger) (agent.Agent, error) {
	a, err := c.Agent.CreateAgent(rand.NewSource(c.Seed), logger)
	if err != nil {
		return nil, fmt.Errorf("newAgent: %w", err)
	}
	return a, nil
}

// NewEnv creates the configured environment
func (c Config) NewEnv() (*gridworld.Env, error) {
	size := c.GridSize()
	world, err := gridworld.New("goalnav", size, size)
	if err != nil {
		return nil, fmt.Errorf("newEnv: %w", err)
	}
	world.AddObstacles(c.Scenario.Obstacles...)

	var start environment.Starter = environment.SingleStart(c.Scenario.Start)
	if len(c.Scenario.Starts) > 0 {
		start, err = environment.NewCategoricalStarter(c.Scenario.Starts,
			c.Seed)
		if err != nil {
			return nil, fmt.Errorf("newEnv: %w", err)
		}
	}

	var partner environment.Starter
	if c.Scenario.Partner != nil {
		partner = environment.SingleStart(*c.Scenario.Partner)
	}

	env, _, err := gridworld.NewEnv(world, c.Scenario.Goals, start, partner,
		c.Env, c.Seed)
	if err != nil {
		return nil, fmt.Errorf("newEnv: %w", err)
	}
	return env, nil
}
