package export

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/san-kum/femreport/internal/metrics"
	"github.com/san-kum/femreport/internal/report"
)

var nodeHeader = []string{"node", "x", "y", "z", "ux", "uy", "uz", "magnitude"}

var elementHeader = []string{"element", "n1", "n2", "n3", "sxx", "syy", "sxy", "von_mises"}

// WriteNodesCSV writes one row per displaced node in id order.
// Coordinates are left blank when the geometry table was not found.
func WriteNodesCSV(w io.Writer, res *report.Result) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(nodeHeader); err != nil {
		return err
	}
	for _, id := range res.SortedNodeIDs() {
		n := res.Nodes[id]
		row := []string{strconv.Itoa(id), "", "", ""}
		if g, ok := res.Coordinates[id]; ok {
			row[1], row[2], row[3] = ff(g.X), ff(g.Y), ff(g.Z)
		}
		row = append(row, ff(n.UX), ff(n.UY), ff(n.UZ), ff(metrics.Magnitude(n.UX, n.UY, n.UZ)))
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteElementsCSV writes one row per element with stresses.
func WriteElementsCSV(w io.Writer, res *report.Result) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(elementHeader); err != nil {
		return err
	}
	for _, id := range res.SortedElementIDs() {
		e := res.Elements[id]
		row := []string{strconv.Itoa(id), "", "", ""}
		if c, ok := res.Connectivity[id]; ok {
			for i, n := range c.Nodes {
				row[i+1] = strconv.Itoa(n)
			}
		}
		row = append(row, ff(e.SXX), ff(e.SYY), ff(e.SXY), ff(metrics.VonMises(e.SXX, e.SYY, e.SXY)))
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func ff(v float64) string { return strconv.FormatFloat(v, 'g', -1, 64) }
