package metrics

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStdDevUniform(t *testing.T) {
	sxx := []float64{20000.0, 20000.0, 20000.0, 20000.0}

	sd, err := StdDev(sxx)
	require.NoError(t, err)
	assert.Equal(t, 0.0, sd)

	c, err := CheckConsistency(sxx, 1e-6)
	require.NoError(t, err)
	assert.True(t, c.Pass)
	assert.Equal(t, 1e-6, c.Tolerance)
}

func TestStdDevPopulation(t *testing.T) {
	sd, err := StdDev([]float64{2, 4, 4, 4, 5, 5, 7, 9})
	require.NoError(t, err)
	assert.InDelta(t, 2.0, sd, 1e-12)

	c, err := CheckConsistency([]float64{1, 2}, 0.1)
	require.NoError(t, err)
	assert.False(t, c.Pass)
}

func TestStdDevEmpty(t *testing.T) {
	_, err := StdDev(nil)
	assert.ErrorIs(t, err, ErrEmpty)

	_, err = CheckConsistency([]float64{}, 1e-6)
	assert.ErrorIs(t, err, ErrEmpty)

	_, _, err = MaxAbs(nil)
	assert.ErrorIs(t, err, ErrEmpty)
}

func TestRelativeError(t *testing.T) {
	e, err := RelativeError(9.52, 10.0)
	require.NoError(t, err)
	assert.InDelta(t, 4.8, e, 1e-6)

	e, err = RelativeError(-12, -10)
	require.NoError(t, err)
	assert.InDelta(t, 20.0, e, 1e-9)

	_, err = RelativeError(1.0, 0.0)
	assert.ErrorIs(t, err, ErrZeroReference)
}

func TestVonMises(t *testing.T) {
	tests := []struct {
		name          string
		sxx, syy, sxy float64
		expected      float64
	}{
		{"uniaxial", 10, 0, 0, 10},
		{"equibiaxial", 10, 10, 0, 10},
		{"pure shear", 0, 0, 1, math.Sqrt(3)},
		{"zero", 0, 0, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, VonMises(tt.sxx, tt.syy, tt.sxy), 1e-9)
		})
	}
}

func TestVonMisesNonNegative(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 10000; i++ {
		sxx := (rng.Float64() - 0.5) * 1e6
		syy := (rng.Float64() - 0.5) * 1e6
		sxy := (rng.Float64() - 0.5) * 1e6
		vm := VonMises(sxx, syy, sxy)
		if vm < 0 || math.IsNaN(vm) {
			t.Fatalf("von mises %g for (%g, %g, %g)", vm, sxx, syy, sxy)
		}
	}
}

func TestPrincipalStresses(t *testing.T) {
	s1, s2 := PrincipalStresses(0, 0, 5)
	assert.InDelta(t, 5.0, s1, 1e-12)
	assert.InDelta(t, -5.0, s2, 1e-12)
}

func TestMaxAbs(t *testing.T) {
	idx, v, err := MaxAbs([]float64{1, -7, 3})
	require.NoError(t, err)
	assert.Equal(t, 1, idx)
	assert.Equal(t, 7.0, v)
}

func TestLinearRegressionExact(t *testing.T) {
	x := []float64{0, 1, 2, 3}
	y := []float64{1, 3, 5, 7}

	slope, intercept, r2, err := LinearRegression(x, y)
	require.NoError(t, err)
	assert.InDelta(t, 2.0, slope, 1e-12)
	assert.InDelta(t, 1.0, intercept, 1e-12)
	assert.InDelta(t, 1.0, r2, 1e-12)
}

func TestLinearRegressionErrors(t *testing.T) {
	_, _, _, err := LinearRegression([]float64{1}, []float64{1})
	assert.ErrorIs(t, err, ErrTooFewPoints)

	_, _, _, err = LinearRegression([]float64{1, 1}, []float64{1, 2})
	assert.ErrorIs(t, err, ErrTooFewPoints)

	_, _, _, err = LinearRegression([]float64{1, 2}, []float64{1})
	assert.ErrorIs(t, err, ErrLengthMismatch)
}

func TestFitConvergenceQuadratic(t *testing.T) {
	h := []float64{1, 0.5, 0.25, 0.125}
	errs := make([]float64, len(h))
	for i, v := range h {
		errs[i] = 3 * v * v
	}

	fit, err := FitConvergence(h, errs)
	require.NoError(t, err)
	assert.InDelta(t, 2.0, fit.Rate, 1e-9)
	assert.InDelta(t, 3.0, fit.Constant, 1e-9)
	assert.InDelta(t, 1.0, fit.R2, 1e-9)
	assert.InDelta(t, 0.75, fit.Predict(0.5), 1e-9)
}

func TestFitConvergenceNonPositive(t *testing.T) {
	_, err := FitConvergence([]float64{1, 0.5}, []float64{0.1, 0})
	assert.ErrorIs(t, err, ErrNonPositive)
}

func TestConvergenceStudy(t *testing.T) {
	h := []float64{2.0, 1.0, 0.5}
	numerical := []float64{8.24, 16.51, 28.20}

	s, err := ConvergenceStudy(h, numerical, 32.0)
	require.NoError(t, err)

	assert.InDeltaSlice(t, []float64{23.76, 15.49, 3.80}, s.AbsErrors, 1e-9)
	assert.InDelta(t, 74.25, s.RelErrors[0], 1e-9)
	require.Len(t, s.Reductions, 2)
	assert.InDelta(t, 23.76/15.49, s.Reductions[0], 1e-9)

	assert.Greater(t, s.Fit.Rate, 0.0)
	assert.Greater(t, s.Fit.R2, 0.9)
	assert.InDelta(t, 1.3222, s.Fit.Rate, 1e-3)
}

func TestConvergenceStudyZeroReference(t *testing.T) {
	_, err := ConvergenceStudy([]float64{1, 0.5}, []float64{1, 2}, 0)
	assert.ErrorIs(t, err, ErrZeroReference)
}
