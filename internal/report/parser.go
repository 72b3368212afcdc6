package report

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/rs/zerolog"
)

// Section configures how one table is found and decoded.
// Columns index into the whitespace-separated fields of a row; field 0 is the id.
type Section struct {
	Header    string   `yaml:"header"`
	Bounds    Bounds   `yaml:",inline"`
	Labels    []string `yaml:"labels,omitempty"`
	MinFields int      `yaml:"min_fields"`
	Columns   []int    `yaml:"columns"`
}

// ControlMarkers are literal prefixes of the header scalar lines.
type ControlMarkers struct {
	NumNodes         string `yaml:"num_nodes,omitempty"`
	NumElementGroups string `yaml:"num_element_groups,omitempty"`
	NumLoadCases     string `yaml:"num_load_cases,omitempty"`
}

// Layout is the full description of a report format.
//
// Column meaning per section:
//
//	displacements: ux, uy[, uz]
//	stresses:      sxx, syy, sxy
//	coordinates:   bc_x, bc_y, bc_z, x, y, z
//	connectivity:  node_i, node_j, node_k, material_set
//	loads:         direction, magnitude
type Layout struct {
	Name          string         `yaml:"name"`
	Title         string         `yaml:"title,omitempty"`
	Control       ControlMarkers `yaml:"control,omitempty"`
	Displacements Section        `yaml:"displacements"`
	Stresses      Section        `yaml:"stresses"`
	Coordinates   Section        `yaml:"coordinates,omitempty"`
	Connectivity  Section        `yaml:"connectivity,omitempty"`
	Loads         Section        `yaml:"loads,omitempty"`
}

// Validate checks that every configured section has the column count its decoder needs.
func (l Layout) Validate() error {
	if l.Displacements.Header == "" && l.Stresses.Header == "" {
		return fmt.Errorf("%w: %q has neither displacement nor stress header", ErrInvalidLayout, l.Name)
	}
	checks := []struct {
		name     string
		sec      Section
		min, max int
	}{
		{"displacements", l.Displacements, 2, 3},
		{"stresses", l.Stresses, 3, 3},
		{"coordinates", l.Coordinates, 6, 6},
		{"connectivity", l.Connectivity, 4, 4},
		{"loads", l.Loads, 2, 2},
	}
	for _, c := range checks {
		if c.sec.Header == "" {
			continue
		}
		if n := len(c.sec.Columns); n < c.min || n > c.max {
			return fmt.Errorf("%w: %s needs %d..%d columns, got %d", ErrInvalidLayout, c.name, c.min, c.max, n)
		}
		if c.sec.MinFields < 1 {
			return fmt.Errorf("%w: %s min_fields must be positive", ErrInvalidLayout, c.name)
		}
	}
	return nil
}

type Parser struct {
	layout Layout
	log    zerolog.Logger
}

type Option func(*Parser)

// WithLogger sends one debug event per diagnostic to l.
func WithLogger(l zerolog.Logger) Option {
	return func(p *Parser) { p.log = l }
}

func NewParser(layout Layout, opts ...Option) *Parser {
	p := &Parser{layout: layout, log: zerolog.Nop()}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *Parser) Layout() Layout { return p.layout }

// ReadFile loads a whole report into memory.
func ReadFile(path string) (Report, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Report{}, &FileError{Path: path, Wrapped: err}
	}
	return Report{Name: filepath.Base(path), Text: string(data)}, nil
}

func (p *Parser) ParseFile(path string) (*Result, error) {
	r, err := ReadFile(path)
	if err != nil {
		return nil, err
	}
	return p.Parse(r), nil
}

// Parse extracts every configured section from r. It never fails: absent
// sections leave their maps empty and bad rows end up in Diagnostics.
func (p *Parser) Parse(r Report) *Result {
	res := newResult(r.Name)
	text := r.Text
	l := p.layout

	if v, ok := ScalarAfter(text, l.Title); ok {
		res.Title = v
	}
	res.Control = ControlInfo{
		NumNodes:         scalarInt(text, l.Control.NumNodes),
		NumElementGroups: scalarInt(text, l.Control.NumElementGroups),
		NumLoadCases:     scalarInt(text, l.Control.NumLoadCases),
	}

	if body, spec, ok := p.locate(text, "displacements", l.Displacements); ok {
		var d []Diagnostic
		res.Nodes, d = ExtractRows(body, spec, p.decodeDisplacement)
		res.Diagnostics = append(res.Diagnostics, d...)
	}
	if body, spec, ok := p.locate(text, "stresses", l.Stresses); ok {
		var d []Diagnostic
		res.Elements, d = ExtractRows(body, spec, p.decodeStress)
		res.Diagnostics = append(res.Diagnostics, d...)
	}
	if body, spec, ok := p.locate(text, "coordinates", l.Coordinates); ok {
		var d []Diagnostic
		res.Coordinates, d = ExtractRows(body, spec, p.decodeGeometry)
		res.Diagnostics = append(res.Diagnostics, d...)
	}
	if body, spec, ok := p.locate(text, "connectivity", l.Connectivity); ok {
		var d []Diagnostic
		res.Connectivity, d = ExtractRows(body, spec, p.decodeConnectivity)
		res.Diagnostics = append(res.Diagnostics, d...)
	}
	if body, spec, ok := p.locate(text, "loads", l.Loads); ok {
		d := ScanRows(body, spec, func(row Row) error {
			dir, err := row.Ints(l.Loads.Columns[:1])
			if err != nil {
				return err
			}
			mag, err := row.Floats(l.Loads.Columns[1:2])
			if err != nil {
				return err
			}
			if res.Loads[row.ID] == nil {
				res.Loads[row.ID] = make(map[int]float64)
			}
			res.Loads[row.ID][dir[0]] = mag[0]
			return nil
		})
		res.Diagnostics = append(res.Diagnostics, d...)
	}

	for _, d := range res.Diagnostics {
		p.log.Debug().
			Str("report", r.Name).
			Str("section", d.Section).
			Int("line", d.Line).
			Str("reason", string(d.Reason)).
			Str("text", d.Text).
			Msg("row skipped")
	}
	return res
}

func (p *Parser) locate(text, name string, s Section) (string, RowSpec, bool) {
	body, ok := Locate(text, s.Header, s.Bounds)
	if !ok {
		if s.Header != "" {
			p.log.Debug().Str("section", name).Str("header", s.Header).Msg("section not found")
		}
		return "", RowSpec{}, false
	}
	return body, RowSpec{Section: name, Labels: s.Labels, MinFields: s.MinFields}, true
}

func (p *Parser) decodeDisplacement(row Row) (NodeRecord, error) {
	cols := p.layout.Displacements.Columns
	n := len(cols)
	if n == 3 && cols[2] >= len(row.Fields) {
		n = 2
	}
	v, err := row.Floats(cols[:n])
	if err != nil {
		return NodeRecord{}, err
	}
	rec := NodeRecord{ID: row.ID, UX: v[0], UY: v[1], Dim: n}
	if n == 3 {
		rec.UZ = v[2]
	}
	return rec, nil
}

func (p *Parser) decodeStress(row Row) (ElementRecord, error) {
	v, err := row.Floats(p.layout.Stresses.Columns)
	if err != nil {
		return ElementRecord{}, err
	}
	return ElementRecord{ID: row.ID, SXX: v[0], SYY: v[1], SXY: v[2]}, nil
}

func (p *Parser) decodeGeometry(row Row) (NodeGeometry, error) {
	cols := p.layout.Coordinates.Columns
	bc, err := row.Ints(cols[:3])
	if err != nil {
		return NodeGeometry{}, err
	}
	xyz, err := row.Floats(cols[3:6])
	if err != nil {
		return NodeGeometry{}, err
	}
	return NodeGeometry{
		ID: row.ID,
		BC: [3]int{bc[0], bc[1], bc[2]},
		X:  xyz[0], Y: xyz[1], Z: xyz[2],
	}, nil
}

func (p *Parser) decodeConnectivity(row Row) (Connectivity, error) {
	v, err := row.Ints(p.layout.Connectivity.Columns)
	if err != nil {
		return Connectivity{}, err
	}
	return Connectivity{ID: row.ID, Nodes: [3]int{v[0], v[1], v[2]}, MaterialSet: v[3]}, nil
}

func scalarInt(text, marker string) int {
	s, ok := ScalarAfter(text, marker)
	if !ok {
		return 0
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return n
}
