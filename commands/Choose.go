package commands

import (
	"fmt"
	"io"

	"github.com/samuelfneumann/goalnav/agent"
	"github.com/samuelfneumann/goalnav/agent/joint"
	"github.com/samuelfneumann/goalnav/agent/planner"
	"github.com/samuelfneumann/goalnav/policy"
	"github.com/samuelfneumann/goalnav/render"
	"github.com/samuelfneumann/goalnav/timestep"
	"github.com/spf13/cobra"
)

// ChooseCommand returns the command that chooses a single action
func ChooseCommand(opts *options) *cobra.Command {
	var (
		flags  scenarioFlags
		values bool
		colour bool
	)

	cmd := &cobra.Command{
		Use:   "choose",
		Short: "Choose the next action from a position",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, logger, err := opts.load(cmd)
			if err != nil {
				return err
			}
			if err := flags.apply(&c); err != nil {
				return err
			}

			a, err := c.NewAgent(logger)
			if err != nil {
				return err
			}

			o := timestep.Observation{
				Position:  c.Scenario.Start,
				Goals:     c.Scenario.Goals,
				Obstacles: c.Scenario.Obstacles,
			}
			if c.Scenario.Partner != nil {
				o.Partner = *c.Scenario.Partner
				o.HasPartner = true
			}

			var show *display
			if values {
				show = &display{colour: colour}
			}
			return choose(cmd.OutOrStdout(), a, o, show)
		},
	}
	flags.register(cmd, "position")
	cmd.Flags().BoolVar(&values, "values", false,
		"Print the planned value of every cell")
	cmd.Flags().BoolVar(&colour, "color", false,
		"Colour the printed values")
	return cmd
}

// display configures how value tables are printed
type display struct {
	colour bool
}

// choose writes the action chosen by a and, when available, the
// policy it was chosen from. If show is not nil, the value table of
// planners is printed first.
func choose(out io.Writer, a agent.Agent, o timestep.Observation,
	show *display) error {
	var probs policy.ActionValues
	switch a := a.(type) {
	case *planner.Planner:
		plan, err := a.Plan(o.Position, o.Goals, o.Obstacles...)
		if err != nil {
			return err
		}
		probs = plan.Probabilities
		if show != nil {
			err := render.PrintValues(out, plan.Values, plan.Model.States,
				o.Position, o.Goals, show.colour)
			if err != nil {
				return err
			}
		}
		return write(out, a.Select(plan), probs)

	case *joint.Joint:
		if o.HasPartner {
			var err error
			probs, err = a.Probabilities(o.Position, o.Partner, o.Goals,
				o.Obstacles...)
			if err != nil {
				return err
			}
		}
	}

	action, err := a.SelectAction(o)
	if err != nil {
		return err
	}
	return write(out, action, probs)
}

func write(out io.Writer, action fmt.Stringer, probs policy.ActionValues) error {
	if _, err := fmt.Fprintf(out, "action: %v\n", action); err != nil {
		return err
	}
	for _, av := range probs {
		if _, err := fmt.Fprintf(out, "  %-5v %.4f\n", av.Action,
			av.Value); err != nil {
			return err
		}
	}
	return nil
}
