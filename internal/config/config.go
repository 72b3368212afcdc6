package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/femreport/internal/analysis"
	"github.com/san-kum/femreport/internal/report"
)

const (
	DefaultLayout          = "stappp"
	DefaultDataDir         = ".femreport"
	DefaultTolerance       = 1e-6
	DefaultShearTolerance  = 1e-3
	DefaultAcceptableError = 50.0
	DefaultExtension       = ".out"
)

type Config struct {
	Case        string            `yaml:"case"`
	LayoutName  string            `yaml:"layout"`
	Layout      *report.Layout    `yaml:"custom_layout,omitempty"`
	Checks      CheckConfig       `yaml:"checks"`
	Beam        analysis.Beam     `yaml:"beam"`
	Convergence ConvergenceConfig `yaml:"convergence"`
}

type CheckConfig struct {
	Tolerance       float64 `yaml:"tolerance"`
	ShearTolerance  float64 `yaml:"shear_tolerance"`
	AcceptableError float64 `yaml:"acceptable_error"`
}

type ConvergenceConfig struct {
	Levels      []string  `yaml:"levels,omitempty"`
	MeshSizes   []float64 `yaml:"mesh_sizes"`
	Numerical   []float64 `yaml:"numerical"`
	Theoretical float64   `yaml:"theoretical"`
}

func DefaultConfig() *Config {
	return &Config{
		Case:       "patch",
		LayoutName: DefaultLayout,
		Checks: CheckConfig{
			Tolerance:       DefaultTolerance,
			ShearTolerance:  DefaultShearTolerance,
			AcceptableError: DefaultAcceptableError,
		},
		Beam: analysis.Beam{
			Length:    2.0,
			Height:    2.0,
			Thickness: 0.1,
			Load:      1000.0,
			Modulus:   2.1e5,
		},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// ResolveLayout returns the inline layout when one is set, otherwise the
// built-in named by LayoutName.
func (c *Config) ResolveLayout() (report.Layout, error) {
	if c.Layout != nil {
		if err := c.Layout.Validate(); err != nil {
			return report.Layout{}, err
		}
		return *c.Layout, nil
	}
	name := c.LayoutName
	if name == "" {
		name = DefaultLayout
	}
	return GetLayout(name)
}

func (c *Config) Validate() error {
	if c.Checks.Tolerance <= 0 {
		return fmt.Errorf("tolerance must be positive, got %g", c.Checks.Tolerance)
	}
	if c.Checks.ShearTolerance <= 0 {
		return fmt.Errorf("shear tolerance must be positive, got %g", c.Checks.ShearTolerance)
	}
	if c.Checks.AcceptableError <= 0 {
		return fmt.Errorf("acceptable error must be positive, got %g", c.Checks.AcceptableError)
	}
	if n := len(c.Convergence.MeshSizes); n != len(c.Convergence.Numerical) {
		return fmt.Errorf("convergence: %d mesh sizes but %d numerical results", n, len(c.Convergence.Numerical))
	}
	return nil
}
