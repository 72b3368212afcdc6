package metrics

import "math"

// VonMises is the plane-stress equivalent stress
//
//	sqrt(sxx² + syy² - sxx·syy + 3·sxy²)
//
// The radicand equals (sxx - syy/2)² + 3/4·syy² + 3·sxy² and so is never
// negative; rounding below zero is clamped.
func VonMises(sxx, syy, sxy float64) float64 {
	r := sxx*sxx + syy*syy - sxx*syy + 3*sxy*sxy
	if r < 0 {
		return 0
	}
	return math.Sqrt(r)
}

// PrincipalStresses returns the in-plane principal stresses, s1 >= s2.
func PrincipalStresses(sxx, syy, sxy float64) (s1, s2 float64) {
	c := (sxx + syy) / 2
	r := math.Hypot((sxx-syy)/2, sxy)
	return c + r, c - r
}
