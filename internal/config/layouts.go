package config

import (
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/femreport/internal/report"
)

var stappp = report.Layout{
	Name:  "stappp",
	Title: "TITLE",
	Control: report.ControlMarkers{
		NumNodes:         "NUMBER OF NODAL POINTS",
		NumElementGroups: "NUMBER OF ELEMENT GROUPS",
		NumLoadCases:     "NUMBER OF LOAD CASES",
	},
	Displacements: report.Section{
		Header:    "D I S P L A C E M E N T S",
		Bounds:    report.Bounds{End: []string{"S T R E S S"}, StopAtBlank: true},
		Labels:    []string{"NODE"},
		MinFields: 4,
		Columns:   []int{1, 2, 3},
	},
	Stresses: report.Section{
		Header:    "S T R E S S  C A L C U L A T I O N S",
		Bounds:    report.Bounds{End: []string{"S O L U T I O N"}, StopAtBlank: true},
		Labels:    []string{"ELEMENT", "NUMBER"},
		MinFields: 4,
		Columns:   []int{1, 2, 3},
	},
	Coordinates: report.Section{
		Header:    "N O D A L   P O I N T   D A T A",
		Bounds:    report.Bounds{End: []string{"EQUATION NUMBERS"}},
		Labels:    []string{"NODE", "NUMBER"},
		MinFields: 7,
		Columns:   []int{1, 2, 3, 4, 5, 6},
	},
	Connectivity: report.Section{
		Header:    "SET NUMBER",
		Bounds:    report.Bounds{End: []string{"T O T A L   S Y S T E M   D A T A"}},
		Labels:    []string{"ELEMENT", "NUMBER"},
		MinFields: 5,
		Columns:   []int{1, 2, 3, 4},
	},
	Loads: report.Section{
		Header:    "L O A D   C A S E   D A T A",
		Bounds:    report.Bounds{End: []string{"E L E M E N T"}},
		Labels:    []string{"NODE", "NUMBER", "LOAD"},
		MinFields: 3,
		Columns:   []int{1, 2},
	},
}

// Layouts are the built-in report formats.
var Layouts = map[string]report.Layout{
	"stappp":    stappp,
	"stappp-2d": planar(stappp),
}

// planar derives a layout whose displacement rows carry only x and y.
func planar(base report.Layout) report.Layout {
	l := base
	l.Name = base.Name + "-2d"
	l.Displacements.MinFields = 3
	l.Displacements.Columns = []int{1, 2}
	return l
}

func GetLayout(name string) (report.Layout, error) {
	l, ok := Layouts[name]
	if !ok {
		return report.Layout{}, fmt.Errorf("unknown layout: %s (available: %v)", name, ListLayouts())
	}
	return l, nil
}

// MustLayout is GetLayout for built-in names known at compile time.
func MustLayout(name string) report.Layout {
	l, err := GetLayout(name)
	if err != nil {
		panic(err)
	}
	return l
}

func ListLayouts() []string {
	names := make([]string, 0, len(Layouts))
	for name := range Layouts {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func LoadLayout(path string) (report.Layout, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return report.Layout{}, err
	}
	var l report.Layout
	if err := yaml.Unmarshal(data, &l); err != nil {
		return report.Layout{}, err
	}
	if err := l.Validate(); err != nil {
		return report.Layout{}, err
	}
	return l, nil
}

func SaveLayout(path string, l report.Layout) error {
	data, err := yaml.Marshal(l)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
