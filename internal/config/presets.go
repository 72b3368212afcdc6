package config

import (
	"sort"

	"github.com/san-kum/femreport/internal/analysis"
)

var cantileverBeam = analysis.Beam{Length: 2.0, Height: 2.0, Thickness: 0.1, Load: 1000.0, Modulus: 2.1e5}

var Presets = map[string]*Config{
	"patch": {
		Case: "patch", LayoutName: DefaultLayout,
		Checks: CheckConfig{Tolerance: 1e-6, ShearTolerance: DefaultShearTolerance, AcceptableError: DefaultAcceptableError},
	},
	"shear": {
		Case: "shear", LayoutName: DefaultLayout,
		Checks: CheckConfig{Tolerance: DefaultTolerance, ShearTolerance: 1e-3, AcceptableError: DefaultAcceptableError},
	},
	"cantilever": {
		Case: "cantilever", LayoutName: DefaultLayout,
		Checks: CheckConfig{Tolerance: DefaultTolerance, ShearTolerance: DefaultShearTolerance, AcceptableError: 50.0},
		Beam:   cantileverBeam,
	},
	"cook": {
		Case: "cook", LayoutName: DefaultLayout,
		Checks: CheckConfig{Tolerance: DefaultTolerance, ShearTolerance: DefaultShearTolerance, AcceptableError: DefaultAcceptableError},
	},
	"t3-convergence": {
		Case: "convergence", LayoutName: DefaultLayout,
		Checks: CheckConfig{Tolerance: DefaultTolerance, ShearTolerance: DefaultShearTolerance, AcceptableError: DefaultAcceptableError},
		Beam:   cantileverBeam,
		Convergence: ConvergenceConfig{
			Levels:      []string{"coarse (2 elements)", "medium (8 elements)", "fine (32 elements)"},
			MeshSizes:   []float64{2.0, 1.0, 0.5},
			Numerical:   []float64{8.24, 16.51, 28.20},
			Theoretical: 32.0,
		},
	},
}

func GetPreset(name string) *Config {
	cfg, ok := Presets[name]
	if !ok {
		return nil
	}
	return cfg
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
