// Package commands implements the goalnav command line interface
package commands

import (
	"fmt"
	"log/slog"

	"github.com/samuelfneumann/goalnav/config"
	"github.com/samuelfneumann/goalnav/grid"
	"github.com/spf13/cobra"
)

// options holds the persistent flags of the root command
type options struct {
	configPath string
	logLevel   string
}

// GetRootCommand returns the goalnav root command with all subcommands
func GetRootCommand() *cobra.Command {
	opts := &options{}

	rootCommand := &cobra.Command{
		Use:           "goalnav",
		Short:         "Plan moves through multi-goal grid worlds",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCommand.PersistentFlags().StringVarP(&opts.configPath, "config", "c",
		"", "YAML or JSON configuration file")
	rootCommand.PersistentFlags().StringVar(&opts.logLevel, "log-level", "",
		"Log level: debug, info, warn or error")

	rootCommand.AddCommand(ChooseCommand(opts))
	rootCommand.AddCommand(RunCommand(opts))
	return rootCommand
}

// load loads the configuration and creates the logger of a command.
// Logs are written to the command's error stream.
func (o *options) load(cmd *cobra.Command) (config.Config, *slog.Logger,
	error) {
	c, err := config.Load(o.configPath)
	if err != nil {
		return c, nil, err
	}

	if o.logLevel != "" {
		c.Log.Level = o.logLevel
	}
	c.Log.Output = cmd.ErrOrStderr()

	logger, err := c.Logger()
	if err != nil {
		return c, nil, err
	}
	return c, logger.With("command", cmd.Name()), nil
}

// scenarioFlags overrides the task layout of a configuration
type scenarioFlags struct {
	start     string
	partner   string
	starts    []string
	goals     []string
	obstacles []string
}

func (s *scenarioFlags) register(cmd *cobra.Command, startName string) {
	cmd.Flags().StringVar(&s.start, startName, "", "Agent cell as row,col")
	cmd.Flags().StringArrayVar(&s.starts, "starts", nil,
		"Candidate start cell as row,col, may be repeated; episodes start in "+
			"one drawn uniformly")
	cmd.Flags().StringVar(&s.partner, "partner", "",
		"Partner cell as row,col")
	cmd.Flags().StringArrayVarP(&s.goals, "goal", "g", nil,
		"Goal cell as row,col, may be repeated")
	cmd.Flags().StringArrayVar(&s.obstacles, "obstacle", nil,
		"Obstacle cell as row,col, may be repeated")
}

// apply overrides the scenario of c with the flags that were set
func (s *scenarioFlags) apply(c *config.Config) error {
	if s.start != "" {
		cell, err := grid.ParseCell(s.start)
		if err != nil {
			return err
		}
		c.Scenario.Start = cell
	}
	if s.partner != "" {
		cell, err := grid.ParseCell(s.partner)
		if err != nil {
			return err
		}
		c.Scenario.Partner = &cell
	}
	if len(s.starts) > 0 {
		starts, err := parseCells(s.starts)
		if err != nil {
			return fmt.Errorf("starts: %w", err)
		}
		c.Scenario.Starts = starts
	}
	if len(s.goals) > 0 {
		goals, err := parseCells(s.goals)
		if err != nil {
			return fmt.Errorf("goal: %w", err)
		}
		c.Scenario.Goals = goals
	}
	if len(s.obstacles) > 0 {
		obstacles, err := parseCells(s.obstacles)
		if err != nil {
			return fmt.Errorf("obstacle: %w", err)
		}
		c.Scenario.Obstacles = obstacles
	}
	return c.Validate()
}

func parseCells(values []string) ([]grid.Cell, error) {
	cells := make([]grid.Cell, len(values))
	for i, v := range values {
		cell, err := grid.ParseCell(v)
		if err != nil {
			return nil, err
		}
		cells[i] = cell
	}
	return cells, nil
}
