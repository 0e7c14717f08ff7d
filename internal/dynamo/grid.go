package dynamo

import (
	"fmt"
	"math"
)

// UniformGrid returns n+1 evenly spaced points from start to end inclusive.
// The last point is exactly end.
func UniformGrid(start, end float64, n int) []float64 {
	if n <= 0 {
		return []float64{start}
	}
	grid := make([]float64, n+1)
	h := (end - start) / float64(n)
	for i := range grid {
		grid[i] = start + float64(i)*h
	}
	grid[n] = end
	return grid
}

// ValidateGrid checks that times is non-empty, non-negative, finite and strictly increasing.
func ValidateGrid(times []float64) error {
	if len(times) == 0 {
		return fmt.Errorf("%w: empty", ErrInvalidGrid)
	}
	for i, t := range times {
		if t < 0 || math.IsNaN(t) || math.IsInf(t, 0) {
			return fmt.Errorf("%w: point %d is %v", ErrInvalidGrid, i, t)
		}
		if i > 0 && t <= times[i-1] {
			return fmt.Errorf("%w: point %d (%v) does not follow %v", ErrInvalidGrid, i, t, times[i-1])
		}
	}
	return nil
}
