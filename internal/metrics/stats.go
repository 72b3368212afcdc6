package metrics

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// StdDev is the population standard deviation of values.
func StdDev(values []float64) (float64, error) {
	if len(values) == 0 {
		return 0, ErrEmpty
	}
	_, sd := stat.PopMeanStdDev(values, nil)
	return sd, nil
}

// Consistency is the outcome of a uniform-field check.
type Consistency struct {
	StdDev    float64
	Tolerance float64
	Pass      bool
}

// CheckConsistency passes when the spread of values stays below tol.
func CheckConsistency(values []float64, tol float64) (Consistency, error) {
	sd, err := StdDev(values)
	if err != nil {
		return Consistency{Tolerance: tol}, err
	}
	return Consistency{StdDev: sd, Tolerance: tol, Pass: sd < tol}, nil
}

// RelativeError returns |numeric-theoretical|/|theoretical| in percent.
func RelativeError(numeric, theoretical float64) (float64, error) {
	if theoretical == 0 {
		return 0, ErrZeroReference
	}
	return math.Abs(numeric-theoretical) / math.Abs(theoretical) * 100, nil
}

// MaxAbs returns the index and value of the largest |v|.
func MaxAbs(values []float64) (int, float64, error) {
	if len(values) == 0 {
		return -1, 0, ErrEmpty
	}
	idx, best := 0, math.Abs(values[0])
	for i, v := range values[1:] {
		if a := math.Abs(v); a > best {
			idx, best = i+1, a
		}
	}
	return idx, best, nil
}

// Magnitude is the Euclidean norm of a displacement vector.
func Magnitude(ux, uy, uz float64) float64 {
	return math.Sqrt(ux*ux + uy*uy + uz*uz)
}
