// Package render draws grid worlds and the paths taken through them
package render

import (
	"fmt"
	"image"
	"image/color"

	"github.com/fogleman/gg"
	"github.com/samuelfneumann/goalnav/environment/gridworld"
	"github.com/samuelfneumann/goalnav/grid"
)

// Colours used when rendering
var (
	Background = color.RGBA{255, 255, 255, 255}
	GridLine   = color.RGBA{200, 200, 200, 255}
	Obstacle   = color.RGBA{40, 40, 40, 255}
	Goal       = color.RGBA{60, 180, 75, 255}
	Path       = color.RGBA{0, 130, 200, 255}
	Start      = color.RGBA{0, 0, 128, 255}
	End        = color.RGBA{230, 25, 75, 255}
)

// Trajectory draws the world with its goals and obstacles and the path
// through it. Each cell is cellSize pixels wide.
func Trajectory(world *gridworld.GridWorld, goals, path []grid.Cell,
	cellSize int) (image.Image, error) {
	if cellSize < 1 {
		return nil, fmt.Errorf("trajectory: cell size must be >= 1")
	}
	for i, cell := range path {
		if !world.InBounds(cell) {
			return nil, fmt.Errorf("trajectory: path[%d] = %v outside of grid",
				i, cell)
		}
	}

	r, c := world.Dims()
	size := float64(cellSize)
	dc := gg.NewContext(c*cellSize, r*cellSize)
	dc.SetColor(Background)
	dc.Clear()

	fill := func(cell grid.Cell, colour color.Color) {
		dc.DrawRectangle(float64(cell.Col)*size, float64(cell.Row)*size, size,
			size)
		dc.SetColor(colour)
		dc.Fill()
	}
	for _, cell := range world.Obstacles() {
		fill(cell, Obstacle)
	}
	for _, cell := range goals {
		if world.InBounds(cell) {
			fill(cell, Goal)
		}
	}

	dc.SetColor(GridLine)
	dc.SetLineWidth(1)
	for row := 0; row <= r; row++ {
		dc.DrawLine(0, float64(row)*size, float64(c)*size, float64(row)*size)
	}
	for col := 0; col <= c; col++ {
		dc.DrawLine(float64(col)*size, 0, float64(col)*size, float64(r)*size)
	}
	dc.Stroke()

	if len(path) == 0 {
		return dc.Image(), nil
	}

	centre := func(cell grid.Cell) (float64, float64) {
		return (float64(cell.Col) + 0.5) * size, (float64(cell.Row) + 0.5) * size
	}

	dc.SetColor(Path)
	dc.SetLineWidth(size / 8)
	for _, cell := range path {
		x, y := centre(cell)
		dc.LineTo(x, y)
	}
	dc.Stroke()

	x, y := centre(path[0])
	dc.DrawCircle(x, y, size/4)
	dc.SetColor(Start)
	dc.Fill()

	x, y = centre(path[len(path)-1])
	dc.DrawCircle(x, y, size/4)
	dc.SetColor(End)
	dc.Fill()

	return dc.Image(), nil
}

// SaveTrajectory renders the path through world to a PNG file
func SaveTrajectory(world *gridworld.GridWorld, goals, path []grid.Cell,
	filename string) error {
	img, err := Trajectory(world, goals, path, 32)
	if err != nil {
		return fmt.Errorf("saveTrajectory: %w", err)
	}
	if err := gg.SavePNG(filename, img); err != nil {
		return fmt.Errorf("saveTrajectory: %w", err)
	}
	return nil
}
