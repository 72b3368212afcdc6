package export

import (
	"fmt"
	"math"
	"strings"

	"github.com/san-kum/femreport/internal/report"
)

type point struct{ X, Y float64 }

// MeshSVG draws the element connectivity over the nodal coordinates.
// When scale is non-zero the deformed mesh (x + scale*ux, y + scale*uy)
// is drawn on top in a second colour. Returns "" when there is nothing
// to draw.
func MeshSVG(res *report.Result, width, height int, scale float64) string {
	if len(res.Coordinates) == 0 || len(res.Connectivity) == 0 {
		return ""
	}

	base := make(map[int]point, len(res.Coordinates))
	deformed := make(map[int]point, len(res.Coordinates))
	for id, n := range res.Coordinates {
		base[id] = point{n.X, n.Y}
		d := res.Nodes[id]
		deformed[id] = point{n.X + scale*d.UX, n.Y + scale*d.UY}
	}

	all := make([]point, 0, 2*len(base))
	for _, p := range base {
		all = append(all, p)
	}
	if scale != 0 {
		for _, p := range deformed {
			all = append(all, p)
		}
	}
	b := boundsOf(all)

	var sb strings.Builder
	fmt.Fprintf(&sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
`, width, height, width, height)

	writeElements(&sb, res, base, b, width, height, "#5f87af")
	if scale != 0 && len(res.Nodes) > 0 {
		writeElements(&sb, res, deformed, b, width, height, "#ff5f5f")
	}

	sb.WriteString("</svg>")
	return sb.String()
}

func writeElements(sb *strings.Builder, res *report.Result, pts map[int]point, b bounds, width, height int, stroke string) {
	fmt.Fprintf(sb, `<g fill="none" stroke="%s" stroke-width="1.5">
`, stroke)
	for _, id := range res.SortedConnectivityIDs() {
		c := res.Connectivity[id]
		var d strings.Builder
		ok := true
		for i, n := range c.Nodes {
			p, found := pts[n]
			if !found {
				ok = false
				break
			}
			x, y := b.project(p, width, height)
			if i == 0 {
				fmt.Fprintf(&d, "M%.1f,%.1f", x, y)
			} else {
				fmt.Fprintf(&d, " L%.1f,%.1f", x, y)
			}
		}
		if !ok {
			continue
		}
		fmt.Fprintf(sb, `<path id="e%d" d="%s Z"/>
`, id, d.String())
	}
	sb.WriteString("</g>\n")
}

type bounds struct{ minX, minY, rangeX, rangeY float64 }

// boundsOf pads the bounding box by 10% on each side.
func boundsOf(points []point) bounds {
	minX, maxX := math.Inf(1), math.Inf(-1)
	minY, maxY := math.Inf(1), math.Inf(-1)
	for _, p := range points {
		minX, maxX = math.Min(minX, p.X), math.Max(maxX, p.X)
		minY, maxY = math.Min(minY, p.Y), math.Max(maxY, p.Y)
	}

	rangeX := maxX - minX
	rangeY := maxY - minY
	if rangeX == 0 {
		rangeX = 1
	}
	if rangeY == 0 {
		rangeY = 1
	}
	minX -= rangeX * 0.1
	minY -= rangeY * 0.1
	return bounds{minX: minX, minY: minY, rangeX: rangeX * 1.2, rangeY: rangeY * 1.2}
}

func (b bounds) project(p point, width, height int) (float64, float64) {
	x := (p.X - b.minX) / b.rangeX * float64(width)
	y := float64(height) - (p.Y-b.minY)/b.rangeY*float64(height)
	return x, y
}
