// Package gridworld implements 2D gridworld environments with
// obstacles, terminal goal cells, and named feature maps over cells
package gridworld

import (
	"fmt"
	"strings"

	"github.com/samuelfneumann/goalnav/grid"
	"gonum.org/v1/gonum/mat"
)

// GridWorld represents a gridworld of r rows and c columns.
//
// Each feature map is stored as an r x c matrix whose (row, col) entry
// is the value of the feature in cell (row, col).
type GridWorld struct {
	name string
	r, c int

	obstacles map[grid.Cell]struct{}
	terminals []grid.Cell
	terminal  map[grid.Cell]struct{}

	featureNames []string // registration order
	features     map[string]*mat.Dense
}

// New creates a new empty gridworld with r rows and c columns
func New(name string, r, c int) (*GridWorld, error) {
	if r <= 0 || c <= 0 {
		return nil, fmt.Errorf("new: gridworld dimensions must be positive, "+
			"got (%d, %d)", r, c)
	}

	return &GridWorld{
		name:      name,
		r:         r,
		c:         c,
		obstacles: make(map[grid.Cell]struct{}),
		terminal:  make(map[grid.Cell]struct{}),
		features:  make(map[string]*mat.Dense),
	}, nil
}

// Name returns the name of the gridworld
func (g *GridWorld) Name() string {
	return g.name
}

// Dims gets the rows and columns of the GridWorld
func (g *GridWorld) Dims() (r, c int) {
	return g.r, g.c
}

// AddTerminals marks cells as terminal (absorbing)
func (g *GridWorld) AddTerminals(cells ...grid.Cell) {
	for _, cell := range cells {
		if _, ok := g.terminal[cell]; ok {
			continue
		}
		g.terminal[cell] = struct{}{}
		g.terminals = append(g.terminals, cell)
	}
}

// AddObstacles marks cells as obstacles, which the agent cannot enter
func (g *GridWorld) AddObstacles(cells ...grid.Cell) {
	for _, cell := range cells {
		g.obstacles[cell] = struct{}{}
	}
}

// Terminals returns the terminal cells in the order they were added
func (g *GridWorld) Terminals() []grid.Cell {
	return append([]grid.Cell(nil), g.terminals...)
}

// Obstacles returns the obstacle cells in row-major order
func (g *GridWorld) Obstacles() []grid.Cell {
	var cells []grid.Cell
	for row := 0; row < g.r; row++ {
		for col := 0; col < g.c; col++ {
			cell := grid.Cell{Row: row, Col: col}
			if g.IsObstacle(cell) {
				cells = append(cells, cell)
			}
		}
	}
	return cells
}

// AddFeatureMap registers a scalar feature over all cells of the
// gridworld. Every cell is set to defaultValue and then the cells in
// values are overwritten. Registering an existing name replaces it.
func (g *GridWorld) AddFeatureMap(name string, values map[grid.Cell]float64,
	defaultValue float64) error {
	feature := mat.NewDense(g.r, g.c, nil)
	for row := 0; row < g.r; row++ {
		for col := 0; col < g.c; col++ {
			feature.Set(row, col, defaultValue)
		}
	}

	for cell, value := range values {
		if !g.InBounds(cell) {
			return fmt.Errorf("addFeatureMap: feature %q cell %v outside "+
				"of (%d, %d) grid", name, cell, g.r, g.c)
		}
		feature.Set(cell.Row, cell.Col, value)
	}

	if _, ok := g.features[name]; !ok {
		g.featureNames = append(g.featureNames, name)
	}
	g.features[name] = feature
	return nil
}

// Feature returns the value of the named feature at cell. The second
// return value is false if the feature does not exist or the cell is
// outside the grid.
func (g *GridWorld) Feature(name string, cell grid.Cell) (float64, bool) {
	feature, ok := g.features[name]
	if !ok || !g.InBounds(cell) {
		return 0, false
	}
	return feature.At(cell.Row, cell.Col), true
}

// InBounds returns whether cell lies within the grid
func (g *GridWorld) InBounds(cell grid.Cell) bool {
	return cell.In(g.r, g.c)
}

// IsObstacle returns whether cell is an obstacle
func (g *GridWorld) IsObstacle(cell grid.Cell) bool {
	_, ok := g.obstacles[cell]
	return ok
}

// IsValid returns whether the agent may occupy cell; that is, whether
// the cell is in bounds and not an obstacle
func (g *GridWorld) IsValid(cell grid.Cell) bool {
	return g.InBounds(cell) && !g.IsObstacle(cell)
}

// IsTerminal returns whether cell is a terminal cell
func (g *GridWorld) IsTerminal(cell grid.Cell) bool {
	_, ok := g.terminal[cell]
	return ok
}

// Cells returns all valid cells in row-major order
func (g *GridWorld) Cells() []grid.Cell {
	var cells []grid.Cell
	for row := 0; row < g.r; row++ {
		for col := 0; col < g.c; col++ {
			cell := grid.Cell{Row: row, Col: col}
			if g.IsValid(cell) {
				cells = append(cells, cell)
			}
		}
	}
	return cells
}

// Reward returns the reward for the transition s --a--> next. Without
// weights, the reward is the sum of all features at next. With weights,
// the reward is the weighted sum of the weighted features at next;
// features without a weight are ignored. The action does not change
// the reward.
func (g *GridWorld) Reward(s grid.Cell, a grid.Action, next grid.Cell,
	weights map[string]float64) float64 {
	if !g.InBounds(next) {
		return 0
	}

	reward := 0.0
	for _, name := range g.featureNames {
		value := g.features[name].At(next.Row, next.Col)
		if weights == nil {
			reward += value
		} else if w, ok := weights[name]; ok {
			reward += w * value
		}
	}
	return reward
}

func (g *GridWorld) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "GridWorld %q | Bounds: (%d, %d) | Goals: %v\n", g.name,
		g.r, g.c, g.terminals)

	for row := 0; row < g.r; row++ {
		for col := 0; col < g.c; col++ {
			cell := grid.Cell{Row: row, Col: col}
			switch {
			case g.IsObstacle(cell):
				b.WriteByte('#')
			case g.IsTerminal(cell):
				b.WriteByte('G')
			default:
				b.WriteByte('.')
			}
		}
		b.WriteByte('\n')
	}
	return b.String()
}
