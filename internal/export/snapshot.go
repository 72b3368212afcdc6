package export

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"

	"github.com/san-kum/femreport/internal/metrics"
	"github.com/san-kum/femreport/internal/report"
)

// Stress is an element stress row with its von Mises and principal
// values attached.
type Stress struct {
	SXX      float64 `json:"sxx"`
	SYY      float64 `json:"syy"`
	SXY      float64 `json:"sxy"`
	VonMises float64 `json:"von_mises"`
	S1       float64 `json:"s1"`
	S2       float64 `json:"s2"`
}

type Displacement struct {
	UX        float64 `json:"ux"`
	UY        float64 `json:"uy"`
	UZ        float64 `json:"uz"`
	Dim       int     `json:"dim"`
	Magnitude float64 `json:"magnitude"`
}

type Node struct {
	BC [3]int  `json:"bc"`
	X  float64 `json:"x"`
	Y  float64 `json:"y"`
	Z  float64 `json:"z"`
}

type Element struct {
	Nodes       [3]int `json:"nodes"`
	MaterialSet int    `json:"material_set"`
}

type Diagnostic struct {
	Section string `json:"section"`
	Line    int    `json:"line"`
	Reason  string `json:"reason"`
	Text    string `json:"text"`
}

// Snapshot is the JSON form of a parsed report.
type Snapshot struct {
	Source        string                  `json:"source"`
	Title         string                  `json:"title"`
	ControlInfo   ControlInfo             `json:"control_info"`
	Nodes         map[int]Node            `json:"nodes"`
	Loads         map[int]map[int]float64 `json:"loads"`
	Elements      map[int]Element         `json:"elements"`
	Displacements map[int]Displacement    `json:"displacements"`
	Stresses      map[int]Stress          `json:"stresses"`
	Diagnostics   []Diagnostic            `json:"diagnostics"`
}

type ControlInfo struct {
	NumNodes         int `json:"num_nodes"`
	NumElementGroups int `json:"num_element_groups"`
	NumLoadCases     int `json:"num_load_cases"`
}

func NewSnapshot(res *report.Result) *Snapshot {
	s := &Snapshot{
		Source: res.Source,
		Title:  res.Title,
		ControlInfo: ControlInfo{
			NumNodes:         res.Control.NumNodes,
			NumElementGroups: res.Control.NumElementGroups,
			NumLoadCases:     res.Control.NumLoadCases,
		},
		Nodes:         make(map[int]Node, len(res.Coordinates)),
		Loads:         make(map[int]map[int]float64, len(res.Loads)),
		Elements:      make(map[int]Element, len(res.Connectivity)),
		Displacements: make(map[int]Displacement, len(res.Nodes)),
		Stresses:      make(map[int]Stress, len(res.Elements)),
		Diagnostics:   make([]Diagnostic, 0, len(res.Diagnostics)),
	}

	for id, n := range res.Coordinates {
		s.Nodes[id] = Node{BC: n.BC, X: n.X, Y: n.Y, Z: n.Z}
	}
	for id, dirs := range res.Loads {
		m := make(map[int]float64, len(dirs))
		for d, v := range dirs {
			m[d] = v
		}
		s.Loads[id] = m
	}
	for id, c := range res.Connectivity {
		s.Elements[id] = Element{Nodes: c.Nodes, MaterialSet: c.MaterialSet}
	}
	for id, n := range res.Nodes {
		s.Displacements[id] = Displacement{
			UX: n.UX, UY: n.UY, UZ: n.UZ, Dim: n.Dim,
			Magnitude: metrics.Magnitude(n.UX, n.UY, n.UZ),
		}
	}
	for id, e := range res.Elements {
		s1, s2 := metrics.PrincipalStresses(e.SXX, e.SYY, e.SXY)
		s.Stresses[id] = Stress{
			SXX: e.SXX, SYY: e.SYY, SXY: e.SXY,
			VonMises: metrics.VonMises(e.SXX, e.SYY, e.SXY),
			S1:       s1, S2: s2,
		}
	}
	for _, d := range res.Diagnostics {
		s.Diagnostics = append(s.Diagnostics, Diagnostic{Section: d.Section, Line: d.Line, Reason: string(d.Reason), Text: d.Text})
	}
	return s
}

// Result rebuilds the parse result the snapshot was taken from.
// Derived fields such as von Mises and magnitude are dropped.
func (s *Snapshot) Result() *report.Result {
	res := &report.Result{
		Source: s.Source,
		Title:  s.Title,
		Control: report.ControlInfo{
			NumNodes:         s.ControlInfo.NumNodes,
			NumElementGroups: s.ControlInfo.NumElementGroups,
			NumLoadCases:     s.ControlInfo.NumLoadCases,
		},
		Nodes:        make(map[int]report.NodeRecord, len(s.Displacements)),
		Elements:     make(map[int]report.ElementRecord, len(s.Stresses)),
		Coordinates:  make(map[int]report.NodeGeometry, len(s.Nodes)),
		Connectivity: make(map[int]report.Connectivity, len(s.Elements)),
		Loads:        make(map[int]map[int]float64, len(s.Loads)),
	}
	for id, d := range s.Displacements {
		res.Nodes[id] = report.NodeRecord{ID: id, UX: d.UX, UY: d.UY, UZ: d.UZ, Dim: d.Dim}
	}
	for id, st := range s.Stresses {
		res.Elements[id] = report.ElementRecord{ID: id, SXX: st.SXX, SYY: st.SYY, SXY: st.SXY}
	}
	for id, n := range s.Nodes {
		res.Coordinates[id] = report.NodeGeometry{ID: id, BC: n.BC, X: n.X, Y: n.Y, Z: n.Z}
	}
	for id, e := range s.Elements {
		res.Connectivity[id] = report.Connectivity{ID: id, Nodes: e.Nodes, MaterialSet: e.MaterialSet}
	}
	for id, dirs := range s.Loads {
		res.Loads[id] = dirs
	}
	for _, d := range s.Diagnostics {
		res.Diagnostics = append(res.Diagnostics, report.Diagnostic{
			Section: d.Section, Line: d.Line, Reason: report.Reason(d.Reason), Text: d.Text,
		})
	}
	return res
}

// WriteJSON writes an indented snapshot of res.
func WriteJSON(w io.Writer, res *report.Result) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(NewSnapshot(res)); err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	return nil
}

// ReadJSON decodes a snapshot previously written by WriteJSON.
func ReadJSON(r io.Reader) (*Snapshot, error) {
	var s Snapshot
	if err := json.NewDecoder(r).Decode(&s); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}
	return &s, nil
}

func sortedDirs(m map[int]float64) []int {
	dirs := make([]int, 0, len(m))
	for d := range m {
		dirs = append(dirs, d)
	}
	sort.Ints(dirs)
	return dirs
}
