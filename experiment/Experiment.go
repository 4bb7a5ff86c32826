// Package experiment implements functionality for running an experiment
package experiment

import (
	"fmt"
	"log/slog"

	"github.com/samuelfneumann/goalnav/agent"
	"github.com/samuelfneumann/goalnav/environment"
	"github.com/samuelfneumann/goalnav/experiment/tracker"
)

// Interface Experiment outlines structs that can run experiments.
// Experiments send each environment TimeStep to their Trackers, which
// cache the data in RAM to be later saved to disk by Save(). The Run()
// method runs episodes until the step or episode limit is reached. The
// RunEpisode() method runs a single episode.
type Experiment interface {
	Run() error

	// RunEpisode returns whether the experiment has finished
	RunEpisode() (bool, error)

	// Save all tracked data to disk
	Save() error

	// Adds a new tracker.Tracker to the (possibly already running)
	// experiment. Useful if you want to track data only after a
	// specified event.
	Register(t tracker.Tracker)
}

type Type string

const (
	OnlineExp Type = "online"
)

// Config represents a configuration of an experiment
type Config struct {
	Type     Type `json:"type" yaml:"type"`
	MaxSteps int  `json:"max_steps" yaml:"max_steps"`

	// Episodes caps the number of episodes. Zero runs episodes until
	// MaxSteps is reached.
	Episodes int `json:"episodes" yaml:"episodes"`
}

// Validate returns an error if the configuration is invalid
func (c Config) Validate() error {
	if c.Type != OnlineExp {
		return fmt.Errorf("unknown experiment type %q", c.Type)
	}
	if c.MaxSteps < 1 {
		return fmt.Errorf("max_steps must be >= 1")
	}
	if c.Episodes < 0 {
		return fmt.Errorf("episodes must be >= 0")
	}
	return nil
}

// CreateExp creates the experiment described by c
func (c Config) CreateExp(env environment.Environment, a agent.Agent,
	logger *slog.Logger, t ...tracker.Tracker) (Experiment, error) {
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("createExp: %w", err)
	}

	switch c.Type {
	case OnlineExp:
		return NewOnline(env, a, c.MaxSteps, c.Episodes, logger, t...), nil
	}
	return nil, fmt.Errorf("createExp: no such experiment type %v", c.Type)
}
