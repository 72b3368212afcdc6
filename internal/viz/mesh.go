package viz

import (
	"strings"

	"github.com/san-kum/femreport/internal/report"
)

// MeshPlot draws element edges on a Braille canvas of width x height
// cells. With a non-zero scale the nodes are moved by scale times
// their in-plane displacement first.
func MeshPlot(res *report.Result, width, height int, scale float64) string {
	if len(res.Coordinates) == 0 || len(res.Connectivity) == 0 {
		return ""
	}

	ids := res.SortedCoordinateIDs()
	xs := make([]float64, len(ids))
	ys := make([]float64, len(ids))
	pos := make(map[int]int, len(ids))
	for i, id := range ids {
		n := res.Coordinates[id]
		d := res.Nodes[id]
		xs[i] = n.X + scale*d.UX
		ys[i] = n.Y + scale*d.UY
		pos[id] = i
	}

	canvas := NewCanvas(width, height)
	f := newFrame(xs, ys, 2*width, 4*height)
	for _, eid := range res.SortedConnectivityIDs() {
		nodes := res.Connectivity[eid].Nodes
		for k := range nodes {
			a, okA := pos[nodes[k]]
			b, okB := pos[nodes[(k+1)%len(nodes)]]
			if !okA || !okB {
				continue
			}
			x0, y0 := f.cell(xs[a], ys[a])
			x1, y1 := f.cell(xs[b], ys[b])
			canvas.DrawLine(x0, y0, x1, y1)
		}
	}
	return canvas.String()
}

// NodeMap is an ASCII scatter of the nodal coordinates with the axes
// drawn where they cross the view. Nodes with any fixed degree of
// freedom are drawn as '▲'.
func NodeMap(res *report.Result, width, height int) string {
	if len(res.Coordinates) == 0 {
		return ""
	}

	ids := res.SortedCoordinateIDs()
	xs := make([]float64, len(ids))
	ys := make([]float64, len(ids))
	for i, id := range ids {
		xs[i], ys[i] = res.Coordinates[id].X, res.Coordinates[id].Y
	}
	f := newFrame(xs, ys, width, height)

	grid := make([][]rune, height)
	for i := range grid {
		grid[i] = []rune(strings.Repeat(" ", width))
	}
	set := func(col, row int, r rune, overwrite bool) {
		if row < 0 || row >= height || col < 0 || col >= width {
			return
		}
		if overwrite || grid[row][col] == ' ' {
			grid[row][col] = r
		}
	}

	for i, id := range ids {
		col, row := f.cell(xs[i], ys[i])
		mark := '•'
		if fixed(res.Coordinates[id]) {
			mark = '▲'
		}
		set(col, row, mark, true)
	}

	if f.minX <= 0 && f.minX+f.rangeX >= 0 {
		col, _ := f.cell(0, 0)
		for row := 0; row < height; row++ {
			set(col, row, '│', false)
		}
	}
	if f.minY <= 0 && f.minY+f.rangeY >= 0 {
		_, row := f.cell(0, 0)
		for col := 0; col < width; col++ {
			set(col, row, '─', false)
		}
	}

	var sb strings.Builder
	for _, row := range grid {
		sb.WriteString(string(row))
		sb.WriteRune('\n')
	}
	return sb.String()
}

func fixed(n report.NodeGeometry) bool {
	// boundary code 1 marks a fixed degree of freedom
	return n.BC[0] == 1 || n.BC[1] == 1
}
