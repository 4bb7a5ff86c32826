package experiment

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/samuelfneumann/goalnav/agent"
	env "github.com/samuelfneumann/goalnav/environment"
	"github.com/samuelfneumann/goalnav/experiment/tracker"
	"github.com/samuelfneumann/goalnav/logging"
	ts "github.com/samuelfneumann/goalnav/timestep"
)

// Online is an Experiment that runs an agent online only
type Online struct {
	env.Environment
	agent.Agent
	maxSteps        int
	maxEpisodes     int
	currentSteps    int
	currentEpisodes int
	trackers        []tracker.Tracker
	onEpisode       func(episode int, last ts.TimeStep)
	logger          *slog.Logger
}

// NewOnline creates and returns a new online experiment on a given
// environment with a given agent. The steps parameter determines how
// many timesteps the experiment is run for and episodes, if positive,
// how many episodes. The t parameter is a slice of tracker.Tracker
// which determine what data is saved.
func NewOnline(e env.Environment, a agent.Agent, steps, episodes int,
	logger *slog.Logger, t ...tracker.Tracker) *Online {
	return &Online{
		Environment: e,
		Agent:       a,
		maxSteps:    steps,
		maxEpisodes: episodes,
		trackers:    t,
		logger:      logging.OrDiscard(logger),
	}
}

// Register registers a tracker.Tracker with an Experiment so that data
// generated during the experiment can be tracked and saved
func (o *Online) Register(t tracker.Tracker) {
	o.trackers = append(o.trackers, t)
}

// OnEpisode sets a function called after each finished episode with
// the number of episodes run so far and the episode's last TimeStep
func (o *Online) OnEpisode(f func(episode int, last ts.TimeStep)) {
	o.onEpisode = f
}

// Steps returns the number of timesteps run so far
func (o *Online) Steps() int {
	return o.currentSteps
}

// Episodes returns the number of episodes finished so far
func (o *Online) Episodes() int {
	return o.currentEpisodes
}

// RunEpisode runs a single episode of the experiment
func (o *Online) RunEpisode() (bool, error) {
	if o.done() {
		return true, nil
	}

	step, err := o.Environment.Reset()
	if err != nil {
		return true, fmt.Errorf("runEpisode: %w", err)
	}
	o.track(step)

	// Run the next timestep
	for !step.Last() && o.currentSteps < o.maxSteps {
		o.currentSteps++

		// Select action, step in environment
		action, err := o.Agent.SelectAction(step.Observation)
		if err != nil {
			return true, fmt.Errorf("runEpisode: %w", err)
		}
		step, _, err = o.Environment.Step(action)
		if err != nil {
			return true, fmt.Errorf("runEpisode: %w", err)
		}

		// Cache the environment step in each Tracker
		o.track(step)
	}

	if step.Last() {
		o.currentEpisodes++
		o.logger.Debug("episode finished", "episode", o.currentEpisodes,
			"length", step.Number, "end", step.EndType)
		if o.onEpisode != nil {
			o.onEpisode(o.currentEpisodes, step)
		}
	}

	// Return whether or not the max timestep limit has been reached
	return o.done(), nil
}

// Run runs the entire experiment for all timesteps
func (o *Online) Run() error {
	for {
		ended, err := o.RunEpisode()
		if err != nil {
			return fmt.Errorf("run: %w", err)
		}
		if ended {
			o.logger.Info("experiment finished", "steps", o.currentSteps,
				"episodes", o.currentEpisodes)
			return nil
		}
	}
}

// Save saves all the data cached by the Trackers to disk
func (o *Online) Save() error {
	var errs []error
	for _, t := range o.trackers {
		if err := t.Save(); err != nil {
			errs = append(errs, err)
		}
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("save: %w", err)
	}
	return nil
}

func (o *Online) done() bool {
	if o.currentSteps >= o.maxSteps {
		return true
	}
	return o.maxEpisodes > 0 && o.currentEpisodes >= o.maxEpisodes
}

// track tracks the current timestep by caching its data in each Tracker
func (o *Online) track(t ts.TimeStep) {
	for _, tr := range o.trackers {
		tr.Track(t)
	}
}
