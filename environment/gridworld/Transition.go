package gridworld

import (
	"github.com/samuelfneumann/goalnav/grid"
	"github.com/samuelfneumann/goalnav/mdp"
)

// StochasticTransition models directional actuator noise in a
// GridWorld. With probability 1 - noise the agent moves in the
// intended direction and the remaining probability is split uniformly
// over the other valid cells reachable with the noise actions.
//
// Terminal cells are absorbing, and an action whose intended
// destination is invalid leaves the agent where it is with certainty.
type StochasticTransition struct {
	noise        float64
	noiseActions []grid.Action
	world        *GridWorld
}

// NewStochasticTransition returns a new StochasticTransition over the
// cells of world
func NewStochasticTransition(noise float64, noiseActions []grid.Action,
	world *GridWorld) *StochasticTransition {
	return &StochasticTransition{
		noise:        noise,
		noiseActions: append([]grid.Action(nil), noiseActions...),
		world:        world,
	}
}

// Distribution returns the probability distribution over next cells
// when taking action a in cell s
func (t *StochasticTransition) Distribution(s grid.Cell,
	a grid.Action) mdp.Distribution {
	if t.world.IsTerminal(s) {
		return mdp.Distribution{s: 1.0}
	}

	intended := s.Add(a)
	if !t.world.IsValid(intended) {
		return mdp.Distribution{s: 1.0}
	}

	var others []grid.Cell
	for _, noiseAction := range t.noiseActions {
		next := s.Add(noiseAction)
		if next != intended && t.world.IsValid(next) {
			others = append(others, next)
		}
	}

	if len(others) == 0 || t.noise == 0 {
		return mdp.Distribution{intended: 1.0}
	}

	dist := mdp.Distribution{intended: 1.0 - t.noise}
	noiseProb := t.noise / float64(len(others))
	for _, next := range others {
		dist[next] += noiseProb
	}
	return dist
}
