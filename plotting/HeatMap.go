// Package plotting plots the value tables computed by planners
package plotting

import (
	"fmt"

	"github.com/samuelfneumann/goalnav/grid"
	"github.com/samuelfneumann/goalnav/mdp"
	"github.com/samuelfneumann/goalnav/utils/floatutils"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// ValueGrid lays out a value table over the cells of its grid. Cells
// that are not states take the smallest value of the table.
type ValueGrid struct {
	values   mat.Vector
	states   *mdp.StateSpace
	min, max float64
}

var _ plotter.GridXYZ = &ValueGrid{}

// NewValueGrid returns a new ValueGrid
func NewValueGrid(values mat.Vector, states *mdp.StateSpace) (*ValueGrid,
	error) {
	if values.Len() != states.Len() {
		return nil, fmt.Errorf("newValueGrid: %d values for %d states",
			values.Len(), states.Len())
	}
	if states.Len() == 0 {
		return nil, fmt.Errorf("newValueGrid: no states")
	}

	raw := make([]float64, values.Len())
	for i := range raw {
		raw[i] = values.AtVec(i)
	}
	return &ValueGrid{
		values: values,
		states: states,
		min:    floatutils.Min(raw...),
		max:    floatutils.Max(raw...),
	}, nil
}

// Dims implements the plotter.GridXYZ interface
func (g *ValueGrid) Dims() (c, r int) {
	rows, cols := g.states.Dims()
	return cols, rows
}

// Z implements the plotter.GridXYZ interface
func (g *ValueGrid) Z(c, r int) float64 {
	i, ok := g.states.Index(grid.Cell{Row: r, Col: c})
	if !ok {
		return g.min
	}
	return g.values.AtVec(i)
}

// X implements the plotter.GridXYZ interface
func (g *ValueGrid) X(c int) float64 {
	return float64(c)
}

// Y implements the plotter.GridXYZ interface. Row 0 is drawn at the
// top of the plot.
func (g *ValueGrid) Y(r int) float64 {
	rows, _ := g.states.Dims()
	return float64(rows - 1 - r)
}

// Min returns the smallest value
func (g *ValueGrid) Min() float64 {
	return g.min
}

// Max returns the largest value
func (g *ValueGrid) Max() float64 {
	return g.max
}

// SaveValueHeatMap saves a heat map of a value table to filename. The
// image format is taken from the file extension.
func SaveValueHeatMap(values mat.Vector, states *mdp.StateSpace, title,
	filename string) error {
	g, err := NewValueGrid(values, states)
	if err != nil {
		return fmt.Errorf("saveValueHeatMap: %w", err)
	}

	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "column"
	p.Y.Label.Text = "row"

	h := plotter.NewHeatMap(g, palette.Heat(20, 1))
	if g.min == g.max {
		h.Min, h.Max = g.min-0.5, g.max+0.5
	}
	p.Add(h)

	if err := p.Save(6*vg.Inch, 6*vg.Inch, filename); err != nil {
		return fmt.Errorf("saveValueHeatMap: %w", err)
	}
	return nil
}
