// Package grid defines the cells and moves of 2D grid worlds
package grid

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/samuelfneumann/goalnav/utils/intutils"
)

// Cell is a (row, col) position in a grid. Cells are comparable and
// can be used directly as map keys.
type Cell struct {
	Row, Col int
}

// Add returns the cell reached by applying the offset of a to c. The
// returned cell may lie outside of any grid.
func (c Cell) Add(a Action) Cell {
	return Cell{c.Row + a.DRow, c.Col + a.DCol}
}

// In returns whether c lies within a grid of r rows and cols columns
func (c Cell) In(r, cols int) bool {
	return c.Row >= 0 && c.Row < r && c.Col >= 0 && c.Col < cols
}

func (c Cell) String() string {
	return fmt.Sprintf("(%d, %d)", c.Row, c.Col)
}

// ParseCell parses a cell written as "row,col"
func ParseCell(s string) (Cell, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 2 {
		return Cell{}, fmt.Errorf("parseCell: %q is not of the form row,col", s)
	}

	row, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return Cell{}, fmt.Errorf("parseCell: row: %w", err)
	}
	col, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return Cell{}, fmt.Errorf("parseCell: col: %w", err)
	}
	return Cell{Row: row, Col: col}, nil
}

// Manhattan returns the L1 distance between two cells
func Manhattan(a, b Cell) int {
	return intutils.Abs(a.Row-b.Row) + intutils.Abs(a.Col-b.Col)
}

// Action is a unit move (dRow, dCol) in a grid
type Action struct {
	DRow, DCol int
}

// The closed set of actions
var (
	Left  = Action{0, -1}
	Right = Action{0, 1}
	Up    = Action{-1, 0}
	Down  = Action{1, 0}
)

func (a Action) String() string {
	switch a {
	case Left:
		return "left"
	case Right:
		return "right"
	case Up:
		return "up"
	case Down:
		return "down"
	default:
		return fmt.Sprintf("[%d, %d]", a.DRow, a.DCol)
	}
}

// Actions returns the action set in enumeration order. A new slice is
// returned on each call so that callers may modify it.
func Actions() []Action {
	return []Action{Left, Right, Up, Down}
}

// ParseAction returns the action with offset (dRow, dCol)
func ParseAction(dRow, dCol int) (Action, error) {
	a := Action{dRow, dCol}
	for _, valid := range Actions() {
		if a == valid {
			return a, nil
		}
	}
	return Action{}, fmt.Errorf("parseAction: no action with offset [%d, %d]",
		dRow, dCol)
}
