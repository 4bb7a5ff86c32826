package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/exp/rand"

	"github.com/samuelfneumann/goalnav/agent/planner"
	"github.com/samuelfneumann/goalnav/experiment"
	"github.com/samuelfneumann/goalnav/experiment/trackers"
	"github.com/samuelfneumann/goalnav/plotting"
	"github.com/samuelfneumann/goalnav/render"
	ts "github.com/samuelfneumann/goalnav/timestep"
	"github.com/samuelfneumann/goalnav/utils/progressbar"
	"github.com/spf13/cobra"
	"gonum.org/v1/gonum/stat"
)

// RunCommand returns the command that runs episodes of the agent in
// the configured environment
func RunCommand(opts *options) *cobra.Command {
	var (
		flags    scenarioFlags
		episodes int
		out      string
		png      bool
		heatmap  bool
		chart    bool
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run episodes and save their statistics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, logger, err := opts.load(cmd)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("episodes") {
				c.Experiment.Episodes = episodes
			}
			if err := flags.apply(&c); err != nil {
				return err
			}

			if err := os.MkdirAll(out, 0o750); err != nil {
				return fmt.Errorf("run: %w", err)
			}

			env, err := c.NewEnv()
			if err != nil {
				return err
			}
			a, err := c.NewAgent(logger)
			if err != nil {
				return err
			}

			lengths := trackers.NewEpisodeLength(filepath.Join(out,
				"episode_length.bin"))
			returns := trackers.NewReturn(filepath.Join(out, "return.bin"))
			paths := trackers.NewTrajectory(filepath.Join(out,
				"trajectory.bin"))

			exp, err := c.Experiment.CreateExp(env, a, logger, lengths,
				returns, paths)
			if err != nil {
				return err
			}

			bar := progressbar.NewManualProgressBar(cmd.ErrOrStderr(), 40,
				c.Experiment.Episodes)
			if online, ok := exp.(*experiment.Online); ok {
				online.OnEpisode(func(int, ts.TimeStep) {
					bar.Increment()
					bar.Display()
				})
			}

			if err := exp.Run(); err != nil {
				return err
			}
			if err := bar.Close(); err != nil {
				return err
			}
			if err := exp.Save(); err != nil {
				return err
			}

			if png {
				for i, path := range paths.Data() {
					filename := filepath.Join(out,
						fmt.Sprintf("trajectory_%d.png", i))
					err := render.SaveTrajectory(env.GridWorld,
						c.Scenario.Goals, path, filename)
					if err != nil {
						return err
					}
				}
			}

			if heatmap {
				pc, ok := c.Planner()
				if !ok {
					return fmt.Errorf("run: agent type %q has no value table",
						c.Agent.Type)
				}
				p, err := planner.New(pc, rand.NewSource(c.Seed), logger)
				if err != nil {
					return err
				}
				plan, err := p.Plan(c.Scenario.Start, c.Scenario.Goals,
					c.Scenario.Obstacles...)
				if err != nil {
					return err
				}
				err = plotting.SaveValueHeatMap(plan.Values, plan.Model.States,
					"State values", filepath.Join(out, "values.png"))
				if err != nil {
					return err
				}
			}

			if chart {
				err := plotting.SaveEpisodeChart("Episodes", returns.Data(),
					lengths.Data(), filepath.Join(out, "episodes.html"))
				if err != nil {
					return err
				}
			}

			summary := "episodes: %d  steps: %d\n"
			fmt.Fprintf(cmd.OutOrStdout(), summary, len(lengths.Data()),
				stepsOf(exp))
			if len(returns.Data()) > 0 {
				l := make([]float64, len(lengths.Data()))
				for i, length := range lengths.Data() {
					l[i] = float64(length)
				}
				fmt.Fprintf(cmd.OutOrStdout(),
					"mean return: %.3f  mean length: %.3f\n",
					stat.Mean(returns.Data(), nil), stat.Mean(l, nil))
			}
			return nil
		},
	}
	flags.register(cmd, "start")
	cmd.Flags().IntVarP(&episodes, "episodes", "e", 0,
		"Number of episodes to run, overrides the configuration")
	cmd.Flags().StringVarP(&out, "out", "o", "results",
		"Directory for saved data")
	cmd.Flags().BoolVar(&png, "png", false,
		"Render the trajectory of each episode to a PNG")
	cmd.Flags().BoolVar(&heatmap, "heatmap", false,
		"Plot a heat map of the planned state values")
	cmd.Flags().BoolVar(&chart, "chart", false,
		"Chart the return and length of each episode as HTML")
	return cmd
}

func stepsOf(e experiment.Experiment) int {
	if online, ok := e.(*experiment.Online); ok {
		return online.Steps()
	}
	return 0
}
