package gridworld

import (
	"fmt"

	"github.com/samuelfneumann/goalnav/grid"
)

// GoalFeature is the name of the feature map holding goal rewards
const GoalFeature string = "goal"

// Goal represents the task of reaching one of several goal cells in a
// GridWorld.
//
// Goal registers a GoalFeature map holding goalReward at every goal
// with the GridWorld. Goals are not made terminal; planners that treat
// goals as absorbing must add them as terminals themselves.
type Goal struct {
	world          *GridWorld
	goals          []grid.Cell
	timeStepReward float64
	goalReward     float64
}

// NewGoal creates and returns a new goal task on world. Goals must lie
// within the grid.
func NewGoal(world *GridWorld, goals []grid.Cell, tr, gr float64) (*Goal,
	error) {
	if len(goals) == 0 {
		return nil, fmt.Errorf("newGoal: at least one goal is required")
	}

	values := make(map[grid.Cell]float64, len(goals))
	for i, goal := range goals {
		// Ensure that the goal is within the proper bounds
		if !world.InBounds(goal) {
			r, c := world.Dims()
			return nil, fmt.Errorf("newGoal: goal[%d] = %v outside of "+
				"(%d, %d) grid", i, goal, r, c)
		}
		values[goal] = gr
	}

	if err := world.AddFeatureMap(GoalFeature, values, 0); err != nil {
		return nil, fmt.Errorf("newGoal: %w", err)
	}

	return &Goal{
		world:          world,
		goals:          append([]grid.Cell(nil), goals...),
		timeStepReward: tr,
		goalReward:     gr,
	}, nil
}

// Goals returns the goal cells
func (g *Goal) Goals() []grid.Cell {
	return append([]grid.Cell(nil), g.goals...)
}

// AtGoal returns whether cell is one of the goals
func (g *Goal) AtGoal(cell grid.Cell) bool {
	for _, goal := range g.goals {
		if goal == cell {
			return true
		}
	}
	return false
}

// TransitionReward is the reward used when planning in the GridWorld.
//
// Every transition costs timeStepReward. A transition that ends in a
// goal additionally earns the world's feature reward at that goal;
// any other transition earns the feature reward of the cell it starts
// from.
func (g *Goal) TransitionReward(s grid.Cell, a grid.Action,
	next grid.Cell) float64 {
	if g.AtGoal(next) {
		return g.timeStepReward + g.world.Reward(next, a, next, nil)
	}
	return g.timeStepReward + g.world.Reward(s, a, s, nil)
}

// GetReward returns the reward seen by an agent moving from pos to
// next in the environment: goalReward when next is a goal and
// timeStepReward otherwise.
func (g *Goal) GetReward(_ grid.Cell, _ grid.Action, next grid.Cell) float64 {
	if g.AtGoal(next) {
		return g.goalReward
	}
	return g.timeStepReward
}

// GoalReward returns the reward for reaching a goal
func (g *Goal) GoalReward() float64 {
	return g.goalReward
}

// String returns the Goal as a string
func (g *Goal) String() string {
	return fmt.Sprintf("Goals: %v", g.goals)
}
