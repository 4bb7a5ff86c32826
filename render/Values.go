package render

import (
	"fmt"
	"io"

	"github.com/logrusorgru/aurora"
	"github.com/samuelfneumann/goalnav/grid"
	"github.com/samuelfneumann/goalnav/mdp"
	"gonum.org/v1/gonum/mat"
)

// ObstacleCell is printed in place of the value of an obstacle
const ObstacleCell = "   ###"

// PrintValues prints a value table as a grid of cells, one grid row
// per line. Goals are printed in green, the position in red and every
// other state in blue. Colours are only written if colour is true.
func PrintValues(out io.Writer, values mat.Vector, states *mdp.StateSpace,
	position grid.Cell, goals []grid.Cell, colour bool) error {
	if values.Len() != states.Len() {
		return fmt.Errorf("printValues: %d values for %d states",
			values.Len(), states.Len())
	}

	au := aurora.NewAurora(colour)
	isGoal := make(map[grid.Cell]bool, len(goals))
	for _, g := range goals {
		isGoal[g] = true
	}

	r, c := states.Dims()
	for row := 0; row < r; row++ {
		for col := 0; col < c; col++ {
			cell := grid.Cell{Row: row, Col: col}
			i, ok := states.Index(cell)

			var v aurora.Value
			switch {
			case !ok:
				v = au.White(ObstacleCell)
			case cell == position:
				v = au.Red(formatValue(values.AtVec(i)))
			case isGoal[cell]:
				v = au.Green(formatValue(values.AtVec(i)))
			default:
				v = au.Blue(formatValue(values.AtVec(i)))
			}
			if _, err := fmt.Fprintf(out, "%v%v", v, au.White("|")); err != nil {
				return err
			}
		}
		if _, err := fmt.Fprintln(out); err != nil {
			return err
		}
	}
	return nil
}

func formatValue(x float64) string {
	return fmt.Sprintf("%6.2f", x)
}
