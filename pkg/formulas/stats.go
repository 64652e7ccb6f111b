package formulas

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Mean calculates the arithmetic mean of a slice of float64 values
func Mean(data []float64) float64 {
	if len(data) == 0 {
		return 0
	}
	return stat.Mean(data, nil)
}

// StdDev calculates the standard deviation of a slice of float64 values
func StdDev(data []float64) float64 {
	if len(data) == 0 {
		return 0
	}
	return stat.StdDev(data, nil)
}

// Variance calculates the population variance of a slice of float64 values.
// stat.Variance is the sample variance; trajectories are complete
// populations, not samples, so the result is rescaled.
func Variance(data []float64) float64 {
	if len(data) < 2 {
		return 0
	}
	n := float64(len(data))
	return stat.Variance(data, nil) * (n - 1) / n
}

// Norm calculates the Euclidean norm of a vector
func Norm(v []float64) float64 {
	return floats.Norm(v, 2)
}

// Distance calculates the Euclidean distance between two points.
// Mismatched dimensions return NaN.
func Distance(a, b []float64) float64 {
	if len(a) != len(b) {
		return math.NaN()
	}
	sum := 0.0
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return math.Sqrt(sum)
}

// PathLength sums the segment distances along an ordered sequence of points
func PathLength(points [][]float64) float64 {
	total := 0.0
	for i := 1; i < len(points); i++ {
		total += Distance(points[i-1], points[i])
	}
	return total
}

// PathLinearity measures how close a path is to a straight line
// (1.0 = perfectly linear). Paths with fewer than two points are linear.
func PathLinearity(points [][]float64) float64 {
	if len(points) < 2 {
		return 1.0
	}
	direct := Distance(points[0], points[len(points)-1])
	actual := PathLength(points)
	if actual <= 0 {
		return 1.0
	}
	return direct / actual
}
