package bench

import (
	"fmt"
	"math"
)

// hartmann6 constants. The function is defined on the unit hypercube with a
// global minimum of about -3.32237 at
// (0.20169, 0.150011, 0.476874, 0.275332, 0.311652, 0.6573).
var (
	hartmann6Alpha = [4]float64{1.0, 1.2, 3.0, 3.2}

	hartmann6A = [4][6]float64{
		{10, 3, 17, 3.5, 1.7, 8},
		{0.05, 10, 17, 0.1, 8, 14},
		{3, 3.5, 1.7, 10, 17, 8},
		{17, 8, 0.05, 10, 0.1, 14},
	}

	hartmann6P = [4][6]float64{
		{0.1312, 0.1696, 0.5569, 0.0124, 0.8283, 0.5886},
		{0.2329, 0.4135, 0.8307, 0.3736, 0.1004, 0.9991},
		{0.2348, 0.1451, 0.3522, 0.2883, 0.3047, 0.6650},
		{0.4047, 0.8828, 0.8732, 0.5743, 0.1091, 0.0381},
	}
)

// Hartmann6 evaluates the six-dimensional Hartmann landscape. Values on the
// unit hypercube are finite, negative or zero, and never below the global
// minimum of the family.
func Hartmann6(x []float64) (float64, error) {
	if len(x) != 6 {
		return 0, fmt.Errorf("hartmann6 expects 6 dimensions, got %d", len(x))
	}
	sum := 0.0
	for i := 0; i < 4; i++ {
		inner := 0.0
		for j := 0; j < 6; j++ {
			d := x[j] - hartmann6P[i][j]
			inner += hartmann6A[i][j] * d * d
		}
		sum += hartmann6Alpha[i] * math.Exp(-inner)
	}
	return -sum, nil
}

// Branin evaluates the two-dimensional Branin landscape, conventionally on
// x1 in [-5, 10] and x2 in [0, 15]. Its global minimum is about 0.397887.
func Branin(x []float64) (float64, error) {
	if len(x) != 2 {
		return 0, fmt.Errorf("branin expects 2 dimensions, got %d", len(x))
	}
	const (
		a = 1.0
		b = 5.1 / (4 * math.Pi * math.Pi)
		c = 5 / math.Pi
		r = 6.0
		s = 10.0
		t = 1 / (8 * math.Pi)
	)
	term := x[1] - b*x[0]*x[0] + c*x[0] - r
	return a*term*term + s*(1-t)*math.Cos(x[0]) + s, nil
}

// Sphere evaluates the sum of squares in any dimension. Minimum 0 at the
// origin.
func Sphere(x []float64) (float64, error) {
	if len(x) == 0 {
		return 0, fmt.Errorf("sphere expects at least 1 dimension")
	}
	sum := 0.0
	for _, v := range x {
		sum += v * v
	}
	return sum, nil
}

// L2Norm is the derived metric reported alongside every objective value.
func L2Norm(x []float64) float64 {
	sum := 0.0
	for _, v := range x {
		sum += v * v
	}
	return math.Sqrt(sum)
}
