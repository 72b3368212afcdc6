package metrics

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"
)

// Fit is a least-squares line through log(h), log(error):
//
//	log(error) = Rate·log(h) + Intercept,  error ≈ Constant·h^Rate
type Fit struct {
	Rate      float64 `json:"rate"`
	Intercept float64 `json:"intercept"`
	Constant  float64 `json:"constant"`
	R2        float64 `json:"r2"`
}

// Predict evaluates the fitted power law at h.
func (f Fit) Predict(h float64) float64 {
	return f.Constant * math.Pow(h, f.Rate)
}

// LinearRegression fits y = slope·x + intercept and returns R².
// R² is 1 when y has no variance and the fit is exact.
func LinearRegression(x, y []float64) (slope, intercept, r2 float64, err error) {
	if len(x) != len(y) {
		return 0, 0, 0, fmt.Errorf("%w: %d x values, %d y values", ErrLengthMismatch, len(x), len(y))
	}
	if len(x) < 2 {
		return 0, 0, 0, ErrTooFewPoints
	}
	// all x equal: no line is determined
	if _, sx := stat.PopMeanStdDev(x, nil); sx == 0 {
		return 0, 0, 0, ErrTooFewPoints
	}

	intercept, slope = stat.LinearRegression(x, y, nil, false)
	if _, sy := stat.PopMeanStdDev(y, nil); sy == 0 {
		return slope, intercept, 1, nil
	}
	return slope, intercept, stat.RSquared(x, y, nil, intercept, slope), nil
}

// FitConvergence fits error ∝ h^p on a log-log scale.
func FitConvergence(h, errs []float64) (Fit, error) {
	if len(h) != len(errs) {
		return Fit{}, fmt.Errorf("%w: %d mesh sizes, %d errors", ErrLengthMismatch, len(h), len(errs))
	}
	lx := make([]float64, len(h))
	ly := make([]float64, len(errs))
	for i := range h {
		if h[i] <= 0 || errs[i] <= 0 {
			return Fit{}, fmt.Errorf("%w: point %d (h=%g, error=%g)", ErrNonPositive, i, h[i], errs[i])
		}
		lx[i] = math.Log(h[i])
		ly[i] = math.Log(errs[i])
	}
	slope, intercept, r2, err := LinearRegression(lx, ly)
	if err != nil {
		return Fit{}, err
	}
	return Fit{Rate: slope, Intercept: intercept, Constant: math.Exp(intercept), R2: r2}, nil
}

// Study is a convergence study against one closed-form reference.
type Study struct {
	MeshSizes   []float64 `json:"mesh_sizes"`
	Numerical   []float64 `json:"numerical"`
	Theoretical float64   `json:"theoretical"`
	AbsErrors   []float64 `json:"abs_errors"`
	RelErrors   []float64 `json:"rel_errors"`
	Reductions  []float64 `json:"-"`
	Fit         Fit       `json:"fit"`
}

// ConvergenceStudy computes per-level errors against theoretical and fits the rate.
func ConvergenceStudy(h, numerical []float64, theoretical float64) (*Study, error) {
	if len(h) != len(numerical) {
		return nil, fmt.Errorf("%w: %d mesh sizes, %d results", ErrLengthMismatch, len(h), len(numerical))
	}
	s := &Study{
		MeshSizes:   h,
		Numerical:   numerical,
		Theoretical: theoretical,
		AbsErrors:   make([]float64, len(h)),
		RelErrors:   make([]float64, len(h)),
	}
	for i, v := range numerical {
		s.AbsErrors[i] = math.Abs(v - theoretical)
		rel, err := RelativeError(v, theoretical)
		if err != nil {
			return nil, err
		}
		s.RelErrors[i] = rel
	}
	for i := 1; i < len(s.AbsErrors); i++ {
		if s.AbsErrors[i] == 0 {
			s.Reductions = append(s.Reductions, math.Inf(1))
			continue
		}
		s.Reductions = append(s.Reductions, s.AbsErrors[i-1]/s.AbsErrors[i])
	}

	fit, err := FitConvergence(h, s.AbsErrors)
	if err != nil {
		return nil, err
	}
	s.Fit = fit
	return s, nil
}
