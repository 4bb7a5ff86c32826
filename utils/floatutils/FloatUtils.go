// Package floatutils provides utilities for working with floats
package floatutils

import (
	"math"
)

// Clip clips a floating point to within a minimum and maximum value.
// If the floating point exceeds max, then the function returns the max
// If min exceeds the floating point, then the function returns the min
func Clip(value, min, max float64) float64 {
	clipped := math.Min(value, max)
	return math.Max(clipped, min)
}

// MaxSlice gets the maximum value and indices of the maximum values in
// a slice of float64. NaN values are skipped. If values is empty or
// contains only NaN, then indices is empty and max is NaN.
func MaxSlice(values []float64) (max float64, indices []int) {
	max = math.NaN()

	for i, value := range values {
		if math.IsNaN(value) {
			continue
		}
		if len(indices) == 0 || value > max {
			max = value
			indices = []int{i}
		} else if value == max {
			indices = append(indices, i)
		}
	}
	return
}

// Min calculates and returns the minimum float64 in a list
func Min(floats ...float64) float64 {
	min := floats[0]
	for _, val := range floats {
		if val < min {
			min = val
		}
	}
	return min
}

// Max calculates and returns the maximum float64 in a list
func Max(floats ...float64) float64 {
	max := floats[0]
	for _, val := range floats {
		if val > max {
			max = val
		}
	}
	return max
}

// EqualWithin returns whether a and b differ by at most tol
func EqualWithin(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol
}
