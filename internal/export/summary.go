package export

import (
	"bufio"
	"fmt"
	"io"

	"github.com/san-kum/femreport/internal/metrics"
	"github.com/san-kum/femreport/internal/report"
)

// Options controls unit scaling in the summary.
type Options struct {
	DisplacementScale float64
	DisplacementUnit  string
	StressUnit        string
}

func DefaultOptions() Options {
	return Options{DisplacementScale: 1000, DisplacementUnit: "mm", StressUnit: "Pa"}
}

const (
	rule     = "======================================================================"
	thinRule = "----------------------------------------"
)

// WriteSummary renders res as a fixed-column text report.
func WriteSummary(w io.Writer, res *report.Result, opts Options) error {
	bw := bufio.NewWriter(w)
	p := func(format string, args ...any) { fmt.Fprintf(bw, format, args...) }

	title := res.Title
	if title == "" {
		title = "Unknown"
	}
	p("%s\nAnalysis Summary\n%s\n", rule, rule)
	p("Title: %s\n", title)
	if res.Source != "" {
		p("Source: %s\n", res.Source)
	}

	section(bw, "GEOMETRY INFORMATION")
	p("Number of Nodes: %d\n", nodeCount(res))
	p("Number of Elements: %d\n", max(len(res.Connectivity), len(res.Elements)))
	p("Number of Load Cases: %d\n", res.Control.NumLoadCases)

	section(bw, "NODE COORDINATES")
	if len(res.Coordinates) == 0 {
		p("no coordinate data\n")
	} else {
		p("%-6s %-10s %-10s %-10s %-8s\n", "Node", "X", "Y", "Z", "BC")
		for _, id := range res.SortedCoordinateIDs() {
			n := res.Coordinates[id]
			bc := fmt.Sprintf("%d%d%d", n.BC[0], n.BC[1], n.BC[2])
			p("%-6d %-10.3f %-10.3f %-10.3f %-8s\n", id, n.X, n.Y, n.Z, bc)
		}
	}

	section(bw, "LOAD CONFIGURATION")
	if len(res.Loads) == 0 {
		p("No loads applied\n")
	} else {
		p("%-6s %-4s %-12s\n", "Node", "Dir", "Magnitude")
		for _, id := range res.SortedLoadNodeIDs() {
			for _, dir := range sortedDirs(res.Loads[id]) {
				p("%-6d %-4d %-12.3f\n", id, dir, res.Loads[id][dir])
			}
		}
	}

	section(bw, "ELEMENT CONNECTIVITY")
	if len(res.Connectivity) == 0 {
		p("no connectivity data\n")
	} else {
		p("%-6s %-6s %-6s %-6s\n", "Elem", "Node_I", "Node_J", "Node_K")
		for _, id := range res.SortedConnectivityIDs() {
			c := res.Connectivity[id]
			p("%-6d %-6d %-6d %-6d\n", id, c.Nodes[0], c.Nodes[1], c.Nodes[2])
		}
	}

	section(bw, "DISPLACEMENT RESULTS")
	if len(res.Nodes) == 0 {
		p("no displacement data\n")
	} else {
		u := opts.DisplacementUnit
		p("%-6s %-12s %-12s %-12s %-12s\n", "Node", "UX("+u+")", "UY("+u+")", "UZ("+u+")", "Mag("+u+")")
		for _, id := range res.SortedNodeIDs() {
			n := res.Nodes[id]
			ux, uy, uz := n.UX*opts.DisplacementScale, n.UY*opts.DisplacementScale, n.UZ*opts.DisplacementScale
			p("%-6d %-12.3f %-12.3f %-12.3f %-12.3f\n", id, ux, uy, uz, metrics.Magnitude(ux, uy, uz))
		}
	}

	section(bw, "STRESS RESULTS")
	if len(res.Elements) == 0 {
		p("no stress data\n")
	} else {
		u := opts.StressUnit
		p("%-6s %-12s %-12s %-12s %-12s\n", "Elem", "SXX("+u+")", "SYY("+u+")", "SXY("+u+")", "Mises("+u+")")
		for _, id := range res.SortedElementIDs() {
			e := res.Elements[id]
			p("%-6d %-12.2f %-12.2f %-12.2f %-12.2f\n", id, e.SXX, e.SYY, e.SXY, metrics.VonMises(e.SXX, e.SYY, e.SXY))
		}
	}

	if len(res.Diagnostics) > 0 {
		section(bw, fmt.Sprintf("SKIPPED ROWS (%d)", len(res.Diagnostics)))
		for _, d := range res.Diagnostics {
			p("%s\n", d)
		}
	}

	return bw.Flush()
}

func section(w io.Writer, name string) {
	fmt.Fprintf(w, "\n%s:\n%s\n", name, thinRule)
}

func nodeCount(res *report.Result) int {
	switch {
	case res.Control.NumNodes > 0:
		return res.Control.NumNodes
	case len(res.Coordinates) > 0:
		return len(res.Coordinates)
	default:
		return len(res.Nodes)
	}
}
