// Package analysis runs verification checks over parsed reports.
//
// The package covers the standard validation cases for triangular
// elements:
//
//   - [ConstantStrain]: patch test, every element reports the same stress
//   - [PureShear]: patch test under shear, normal stresses vanish
//   - [CantileverTip]: tip deflection against Euler-Bernoulli beam theory
//   - [CookMembrane]: peak displacement and the nodes that carry it
//
// # Empty input
//
// Every check returns [ErrNoData] instead of computing statistics over an
// empty table:
//
//	res, err := analysis.ConstantStrain(parsed, 1e-6)
//	if errors.Is(err, analysis.ErrNoData) {
//	    // no stress data in this report
//	}
package analysis
