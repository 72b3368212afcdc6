package report

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// RowSpec controls how a section body is tokenized.
type RowSpec struct {
	Section   string
	Labels    []string
	MinFields int
}

// Row is one candidate data line. Fields includes the id at index 0.
type Row struct {
	Line   int
	Text   string
	ID     int
	Fields []string
}

func (r Row) diag(section string, reason Reason) Diagnostic {
	return Diagnostic{Section: section, Line: r.Line, Text: r.Text, Reason: reason}
}

// ScanRows walks every line of body and hands well-formed rows to fn.
// Blank lines and label lines are dropped silently. Short rows, rows
// whose id is not a positive unsigned integer and rows fn rejects are
// reported as diagnostics and skipped. Scanning always continues to the
// end of body.
func ScanRows(body string, spec RowSpec, fn func(Row) error) []Diagnostic {
	var diags []Diagnostic
	for i, line := range strings.Split(body, "\n") {
		fields := strings.Fields(line)
		if len(fields) == 0 || isLabel(fields[0], spec.Labels) {
			continue
		}

		row := Row{Line: i + 1, Text: strings.TrimSpace(line), Fields: fields}
		if len(fields) < spec.MinFields {
			diags = append(diags, row.diag(spec.Section, ReasonTooFewFields))
			continue
		}

		id, ok := parseID(fields[0])
		if !ok {
			diags = append(diags, row.diag(spec.Section, ReasonBadID))
			continue
		}
		row.ID = id

		if err := fn(row); err != nil {
			reason := ReasonBadValue
			if errors.Is(err, errShortRow) {
				reason = ReasonTooFewFields
			}
			diags = append(diags, row.diag(spec.Section, reason))
		}
	}
	return diags
}

// ExtractRows decodes every row of body into a map keyed by id. A repeated
// id overwrites the earlier record and is reported as ReasonDuplicateID.
func ExtractRows[T any](body string, spec RowSpec, decode func(Row) (T, error)) (map[int]T, []Diagnostic) {
	out := make(map[int]T)
	var dups []Diagnostic
	diags := ScanRows(body, spec, func(r Row) error {
		v, err := decode(r)
		if err != nil {
			return err
		}
		if _, seen := out[r.ID]; seen {
			dups = append(dups, r.diag(spec.Section, ReasonDuplicateID))
		}
		out[r.ID] = v
		return nil
	})
	if len(dups) > 0 {
		diags = append(diags, dups...)
		sort.SliceStable(diags, func(i, j int) bool { return diags[i].Line < diags[j].Line })
	}
	return out, diags
}

func isLabel(first string, labels []string) bool {
	for _, l := range labels {
		if l != "" && strings.HasPrefix(first, l) {
			return true
		}
	}
	return false
}

// Floats parses the fields at the given column indices.
func (r Row) Floats(cols []int) ([]float64, error) {
	vals := make([]float64, len(cols))
	for i, c := range cols {
		if c < 0 || c >= len(r.Fields) {
			return nil, fmt.Errorf("column %d: %w", c, errShortRow)
		}
		v, err := strconv.ParseFloat(r.Fields[c], 64)
		if err != nil {
			return nil, fmt.Errorf("column %d: %w", c, err)
		}
		vals[i] = v
	}
	return vals, nil
}

// Ints parses the fields at the given column indices as integers.
func (r Row) Ints(cols []int) ([]int, error) {
	vals := make([]int, len(cols))
	for i, c := range cols {
		if c < 0 || c >= len(r.Fields) {
			return nil, fmt.Errorf("column %d: %w", c, errShortRow)
		}
		v, err := strconv.Atoi(r.Fields[c])
		if err != nil {
			return nil, fmt.Errorf("column %d: %w", c, err)
		}
		vals[i] = v
	}
	return vals, nil
}

// parseID accepts unsigned decimal ids of at least 1.
func parseID(tok string) (int, bool) {
	if tok == "" || tok[0] == '+' || tok[0] == '-' {
		return 0, false
	}
	id, err := strconv.Atoi(tok)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
