package report

import (
	"fmt"
	"sort"
)

// Report is the full text of one result file.
type Report struct {
	Name string
	Text string
}

// NodeRecord holds the displacement of one node.
type NodeRecord struct {
	ID  int     `json:"id"`
	UX  float64 `json:"ux"`
	UY  float64 `json:"uy"`
	UZ  float64 `json:"uz"`
	Dim int     `json:"dim"`
}

// ElementRecord holds the plane-stress components of one element.
type ElementRecord struct {
	ID  int     `json:"id"`
	SXX float64 `json:"sxx"`
	SYY float64 `json:"syy"`
	SXY float64 `json:"sxy"`
}

// NodeGeometry is a row of the nodal point table.
type NodeGeometry struct {
	ID int     `json:"id"`
	BC [3]int  `json:"bc"`
	X  float64 `json:"x"`
	Y  float64 `json:"y"`
	Z  float64 `json:"z"`
}

// Connectivity is the ordered node triple of a triangular element.
type Connectivity struct {
	ID          int    `json:"id"`
	Nodes       [3]int `json:"nodes"`
	MaterialSet int    `json:"material_set"`
}

// ControlInfo carries the scalar counts printed in the report header.
type ControlInfo struct {
	NumNodes         int `json:"num_nodes"`
	NumElementGroups int `json:"num_element_groups"`
	NumLoadCases     int `json:"num_load_cases"`
}

type Reason string

const (
	ReasonTooFewFields Reason = "too few fields"
	ReasonBadID        Reason = "bad id"
	ReasonBadValue     Reason = "bad value"
	ReasonDuplicateID  Reason = "duplicate id"
)

// Diagnostic records a row that was skipped or overwritten.
// Line is 1-based within the section body.
type Diagnostic struct {
	Section string `json:"section"`
	Line    int    `json:"line"`
	Text    string `json:"text"`
	Reason  Reason `json:"reason"`
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("%s:%d: %s: %q", d.Section, d.Line, d.Reason, d.Text)
}

// Result is everything extracted from one report.
type Result struct {
	Source       string
	Title        string
	Control      ControlInfo
	Nodes        map[int]NodeRecord
	Elements     map[int]ElementRecord
	Coordinates  map[int]NodeGeometry
	Connectivity map[int]Connectivity
	Loads        map[int]map[int]float64
	Diagnostics  []Diagnostic
}

func newResult(source string) *Result {
	return &Result{
		Source:       source,
		Nodes:        make(map[int]NodeRecord),
		Elements:     make(map[int]ElementRecord),
		Coordinates:  make(map[int]NodeGeometry),
		Connectivity: make(map[int]Connectivity),
		Loads:        make(map[int]map[int]float64),
	}
}

// Empty reports whether neither displacements nor stresses were found.
func (r *Result) Empty() bool {
	return len(r.Nodes) == 0 && len(r.Elements) == 0
}

func (r *Result) SortedNodeIDs() []int {
	return sortedKeys(r.Nodes)
}

func (r *Result) SortedElementIDs() []int {
	return sortedKeys(r.Elements)
}

func (r *Result) SortedCoordinateIDs() []int {
	return sortedKeys(r.Coordinates)
}

func (r *Result) SortedConnectivityIDs() []int {
	return sortedKeys(r.Connectivity)
}

func (r *Result) SortedLoadNodeIDs() []int {
	return sortedKeys(r.Loads)
}

// StressComponent returns one stress component of every element in id order.
// Unknown component names yield nil.
func (r *Result) StressComponent(name string) []float64 {
	ids := r.SortedElementIDs()
	out := make([]float64, 0, len(ids))
	for _, id := range ids {
		e := r.Elements[id]
		switch name {
		case "sxx":
			out = append(out, e.SXX)
		case "syy":
			out = append(out, e.SYY)
		case "sxy":
			out = append(out, e.SXY)
		default:
			return nil
		}
	}
	return out
}

// DisplacementComponent returns one displacement component of every node in id order.
func (r *Result) DisplacementComponent(name string) []float64 {
	ids := r.SortedNodeIDs()
	out := make([]float64, 0, len(ids))
	for _, id := range ids {
		n := r.Nodes[id]
		switch name {
		case "ux":
			out = append(out, n.UX)
		case "uy":
			out = append(out, n.UY)
		case "uz":
			out = append(out, n.UZ)
		default:
			return nil
		}
	}
	return out
}

func sortedKeys[V any](m map[int]V) []int {
	keys := make([]int, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	return keys
}
