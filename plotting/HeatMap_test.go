package plotting

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/samuelfneumann/goalnav/environment/gridworld"
	"github.com/samuelfneumann/goalnav/grid"
	"github.com/samuelfneumann/goalnav/mdp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func states(t *testing.T) *mdp.StateSpace {
	t.Helper()
	world, err := gridworld.New("plot", 2, 3)
	require.NoError(t, err)
	world.AddObstacles(grid.Cell{Row: 1, Col: 1})
	return mdp.NewStateSpace(world)
}

func TestValueGrid(t *testing.T) {
	ss := states(t)
	values := mat.NewVecDense(5, []float64{1, 2, 3, 4, 5})

	g, err := NewValueGrid(values, ss)
	require.NoError(t, err)

	c, r := g.Dims()
	assert.Equal(t, 3, c)
	assert.Equal(t, 2, r)
	assert.Equal(t, 1.0, g.Min())
	assert.Equal(t, 5.0, g.Max())

	assert.Equal(t, 2.0, g.Z(1, 0))
	assert.Equal(t, 1.0, g.Z(1, 1), "obstacles take the minimum")
	assert.Equal(t, 5.0, g.Z(2, 1))

	assert.Equal(t, 1.0, g.Y(0), "row 0 is on top")
	assert.Equal(t, 0.0, g.Y(1))
	assert.Equal(t, 2.0, g.X(2))

	_, err = NewValueGrid(mat.NewVecDense(2, nil), ss)
	assert.Error(t, err)
}

func TestSaveValueHeatMap(t *testing.T) {
	ss := states(t)
	filename := filepath.Join(t.TempDir(), "values.png")

	values := mat.NewVecDense(5, []float64{1, 2, 3, 4, 5})
	require.NoError(t, SaveValueHeatMap(values, ss, "values", filename))

	info, err := os.Stat(filename)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))

	flat := mat.NewVecDense(5, []float64{2, 2, 2, 2, 2})
	assert.NoError(t, SaveValueHeatMap(flat, ss, "flat", filename))
}
