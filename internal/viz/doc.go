// Package viz renders parse results in the terminal.
//
//   - [MeshPlot] and [NodeMap]: Braille and ASCII views of the mesh
//   - [DisplacementPlot], [StressPlot], [ConvergencePlot]: asciigraph charts
//   - [Browser]: a Bubble Tea table browser over nodes, elements and
//     skipped rows
//
// # Browser keys
//
//	tab / shift+tab - switch table
//	j/k, up/down    - move
//	g / G           - first / last row
//	q               - quit
package viz
