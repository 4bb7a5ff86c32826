package floatutils

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMaxSlice(t *testing.T) {
	max, indices := MaxSlice([]float64{5, 5, 1})
	assert.Equal(t, 5.0, max)
	assert.Equal(t, []int{0, 1}, indices)

	max, indices = MaxSlice([]float64{1, 3, 2, 3})
	assert.Equal(t, 3.0, max)
	assert.Equal(t, []int{1, 3}, indices)
}

func TestMaxSliceSkipsNaN(t *testing.T) {
	max, indices := MaxSlice([]float64{math.NaN(), 2, math.NaN()})
	assert.Equal(t, 2.0, max)
	assert.Equal(t, []int{1}, indices)

	max, indices = MaxSlice([]float64{math.NaN()})
	assert.True(t, math.IsNaN(max))
	assert.Empty(t, indices)

	_, indices = MaxSlice(nil)
	assert.Empty(t, indices)
}

func TestClip(t *testing.T) {
	assert.Equal(t, 700.0, Clip(1e6, math.Inf(-1), 700))
	assert.Equal(t, -1.0, Clip(-3, -1, 1))
	assert.Equal(t, 0.5, Clip(0.5, -1, 1))
}

func TestMinMax(t *testing.T) {
	assert.Equal(t, -2.0, Min(1, -2, 3))
	assert.Equal(t, 3.0, Max(1, -2, 3))
	assert.True(t, EqualWithin(1.0, 1.0+1e-12, 1e-9))
	assert.False(t, EqualWithin(1.0, 1.1, 1e-9))
}
