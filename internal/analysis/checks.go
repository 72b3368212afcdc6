package analysis

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/san-kum/femreport/internal/metrics"
	"github.com/san-kum/femreport/internal/report"
)

var (
	// ErrNoData indicates the report carried no rows for the table a check needs.
	ErrNoData = errors.New("analysis: no valid data")

	// ErrInvalidBeam indicates beam parameters that give no finite reference deflection.
	ErrInvalidBeam = errors.New("analysis: invalid beam parameters")
)

// NoDataError names the missing table.
type NoDataError struct {
	Table string
}

func (e *NoDataError) Error() string {
	return fmt.Sprintf("no %s data", e.Table)
}

func (e *NoDataError) Unwrap() error { return ErrNoData }

// PatchResult is the outcome of the constant-strain patch test.
type PatchResult struct {
	Elements int
	SXX      metrics.Consistency
	SYY      metrics.Consistency
	SXY      metrics.Consistency
	Pass     bool
}

// ConstantStrain checks that all three stress components are uniform across elements.
func ConstantStrain(res *report.Result, tol float64) (*PatchResult, error) {
	if len(res.Elements) == 0 {
		return nil, &NoDataError{Table: "stress"}
	}
	out := &PatchResult{Elements: len(res.Elements)}
	var err error
	if out.SXX, err = metrics.CheckConsistency(res.StressComponent("sxx"), tol); err != nil {
		return nil, err
	}
	if out.SYY, err = metrics.CheckConsistency(res.StressComponent("syy"), tol); err != nil {
		return nil, err
	}
	if out.SXY, err = metrics.CheckConsistency(res.StressComponent("sxy"), tol); err != nil {
		return nil, err
	}
	out.Pass = out.SXX.Pass && out.SYY.Pass && out.SXY.Pass
	return out, nil
}

// ShearResult is the outcome of the pure-shear patch test.
type ShearResult struct {
	Elements        int
	MaxNormalStress float64
	Element         int
	Tolerance       float64
	Pass            bool
}

// PureShear checks that the largest normal stress stays below tol.
func PureShear(res *report.Result, tol float64) (*ShearResult, error) {
	ids := res.SortedElementIDs()
	if len(ids) == 0 {
		return nil, &NoDataError{Table: "stress"}
	}
	out := &ShearResult{Elements: len(ids), Tolerance: tol, Element: ids[0]}
	for _, id := range ids {
		e := res.Elements[id]
		if m := math.Max(math.Abs(e.SXX), math.Abs(e.SYY)); m > out.MaxNormalStress {
			out.MaxNormalStress = m
			out.Element = id
		}
	}
	out.Pass = out.MaxNormalStress < tol
	return out, nil
}

// Beam is a rectangular cantilever with a transverse end load.
type Beam struct {
	Length    float64 `yaml:"length" json:"length"`
	Height    float64 `yaml:"height" json:"height"`
	Thickness float64 `yaml:"thickness" json:"thickness"`
	Load      float64 `yaml:"load" json:"load"`
	Modulus   float64 `yaml:"modulus" json:"modulus"`
}

// Inertia is the second moment of area t·h³/12.
func (b Beam) Inertia() float64 {
	return b.Thickness * b.Height * b.Height * b.Height / 12
}

// TipDeflection is the Euler-Bernoulli tip deflection P·L³/(3·E·I).
func (b Beam) TipDeflection() (float64, error) {
	ei := b.Modulus * b.Inertia()
	if ei <= 0 || b.Length <= 0 {
		return 0, fmt.Errorf("%w: E·I=%g, L=%g", ErrInvalidBeam, ei, b.Length)
	}
	return b.Load * b.Length * b.Length * b.Length / (3 * ei), nil
}

// TipResult compares the cantilever tip deflection with beam theory.
type TipResult struct {
	Node          int
	Numerical     float64
	Theoretical   float64
	RelativeError float64
	Acceptable    float64
	Pass          bool
}

// displacementEpsilon separates loaded nodes from numerically fixed ones.
const displacementEpsilon = 1e-10

// CantileverTip takes the highest-numbered displaced node as the tip and
// compares |uy| there with the beam solution. acceptable is a percentage.
func CantileverTip(res *report.Result, beam Beam, acceptable float64) (*TipResult, error) {
	if len(res.Nodes) == 0 {
		return nil, &NoDataError{Table: "displacement"}
	}
	theory, err := beam.TipDeflection()
	if err != nil {
		return nil, err
	}

	tip := -1
	for id, n := range res.Nodes {
		if math.Abs(n.UX) > displacementEpsilon || math.Abs(n.UY) > displacementEpsilon {
			if id > tip {
				tip = id
			}
		}
	}
	if tip < 0 {
		return nil, &NoDataError{Table: "non-zero displacement"}
	}

	numeric := math.Abs(res.Nodes[tip].UY)
	rel, err := metrics.RelativeError(numeric, theory)
	if err != nil {
		return nil, err
	}
	return &TipResult{
		Node:          tip,
		Numerical:     numeric,
		Theoretical:   theory,
		RelativeError: rel,
		Acceptable:    acceptable,
		Pass:          rel < acceptable,
	}, nil
}

// CookResult summarizes the deformation of a Cook membrane.
type CookResult struct {
	MaxDisplacement float64
	MaxNode         int
	UpperNodes      []int
	Pass            bool
}

// CookMembrane finds the peak |ux|+|uy| and the nodes whose |uy| exceeds half of it.
func CookMembrane(res *report.Result) (*CookResult, error) {
	ids := res.SortedNodeIDs()
	if len(ids) == 0 {
		return nil, &NoDataError{Table: "displacement"}
	}
	out := &CookResult{MaxNode: ids[0]}
	for _, id := range ids {
		n := res.Nodes[id]
		if d := math.Abs(n.UX) + math.Abs(n.UY); d > out.MaxDisplacement {
			out.MaxDisplacement = d
			out.MaxNode = id
		}
	}
	for _, id := range ids {
		if math.Abs(res.Nodes[id].UY) > out.MaxDisplacement*0.5 {
			out.UpperNodes = append(out.UpperNodes, id)
		}
	}
	sort.Ints(out.UpperNodes)
	out.Pass = len(out.UpperNodes) > 0
	return out, nil
}

// Extremes reports the largest displacement magnitude and von Mises stress.
type Extremes struct {
	MaxDisplacement float64
	DisplacementAt  int
	MaxVonMises     float64
	VonMisesAt      int
}

// FindExtremes scans both tables. A missing table leaves its id at -1;
// only a report with neither table is an error.
func FindExtremes(res *report.Result) (*Extremes, error) {
	if res.Empty() {
		return nil, &NoDataError{Table: "displacement or stress"}
	}
	out := &Extremes{DisplacementAt: -1, VonMisesAt: -1}
	for _, id := range res.SortedNodeIDs() {
		n := res.Nodes[id]
		if m := metrics.Magnitude(n.UX, n.UY, n.UZ); out.DisplacementAt < 0 || m > out.MaxDisplacement {
			out.MaxDisplacement, out.DisplacementAt = m, id
		}
	}
	for _, id := range res.SortedElementIDs() {
		e := res.Elements[id]
		if vm := metrics.VonMises(e.SXX, e.SYY, e.SXY); out.VonMisesAt < 0 || vm > out.MaxVonMises {
			out.MaxVonMises, out.VonMisesAt = vm, id
		}
	}
	return out, nil
}
