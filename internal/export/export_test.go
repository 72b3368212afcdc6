package export

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/san-kum/femreport/internal/config"
	"github.com/san-kum/femreport/internal/report"
)

func patchResult(t *testing.T) *report.Result {
	t.Helper()
	res, err := report.NewParser(config.MustLayout("stappp")).ParseFile("../report/testdata/patch.out")
	require.NoError(t, err)
	return res
}

func emptyResult() *report.Result {
	return report.NewParser(config.MustLayout("stappp")).Parse(report.Report{Name: "empty.out"})
}

func summary(t *testing.T, res *report.Result) string {
	t.Helper()
	var sb strings.Builder
	require.NoError(t, WriteSummary(&sb, res, DefaultOptions()))
	return sb.String()
}

func TestSummary(t *testing.T) {
	out := summary(t, patchResult(t))

	assert.Contains(t, out, "Title: T3 patch test - constant strain")
	assert.Contains(t, out, "Number of Nodes: 5")
	assert.Contains(t, out, "Number of Elements: 4")
	assert.Contains(t, out, "UX(mm)")
	assert.Contains(t, out, "Mises(Pa)")
	assert.NotContains(t, out, "SKIPPED ROWS")

	// node 2 moves 2.5e-2 m in x, printed in mm
	assert.Regexp(t, `(?m)^2\s+25\.000\s+0\.000\s+0\.000\s+25\.000\s*$`, out)
	// uniaxial 10 Pa gives a von Mises stress of 10
	assert.Regexp(t, `(?m)^1\s+10\.00\s+-?0\.00\s+-?0\.00\s+10\.00\s*$`, out)
}

func TestSummaryEmpty(t *testing.T) {
	out := summary(t, emptyResult())

	assert.Contains(t, out, "Title: Unknown")
	assert.Contains(t, out, "no displacement data")
	assert.Contains(t, out, "no stress data")
	assert.Contains(t, out, "No loads applied")
}

func TestSummaryListsSkippedRows(t *testing.T) {
	res := patchResult(t)
	res.Diagnostics = append(res.Diagnostics, report.Diagnostic{Section: "stresses", Line: 4, Text: "x", Reason: report.ReasonBadID})

	out := summary(t, res)
	assert.Contains(t, out, "SKIPPED ROWS (1)")
	assert.Contains(t, out, `stresses:4: bad id: "x"`)
}

func TestSnapshotRoundTrip(t *testing.T) {
	res := patchResult(t)

	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, res))
	assert.Contains(t, buf.String(), `"control_info"`)
	assert.Contains(t, buf.String(), `"von_mises"`)
	assert.Contains(t, buf.String(), `"s1"`)

	snap, err := ReadJSON(&buf)
	require.NoError(t, err)
	assert.InDelta(t, 10.0, snap.Stresses[1].VonMises, 1e-9)
	assert.InDelta(t, 0.025, snap.Displacements[2].Magnitude, 1e-12)

	back := snap.Result()
	assert.Equal(t, res.Nodes, back.Nodes)
	assert.Equal(t, res.Elements, back.Elements)
	assert.Equal(t, res.Coordinates, back.Coordinates)
	assert.Equal(t, res.Connectivity, back.Connectivity)
	assert.Equal(t, res.Loads, back.Loads)
	assert.Equal(t, res.Title, back.Title)
}

func TestReadJSONRejectsGarbage(t *testing.T) {
	_, err := ReadJSON(strings.NewReader("{not json"))
	assert.Error(t, err)
}

func TestWriteNodesCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteNodesCSV(&buf, patchResult(t)))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 6)
	assert.Equal(t, nodeHeader, records[0])
	assert.Equal(t, []string{"2", "2.5", "0", "0", "0.025", "0", "0", "0.025"}, records[2])
}

func TestWriteElementsCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteElementsCSV(&buf, patchResult(t)))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 5)
	assert.Equal(t, []string{"3", "3", "4", "5"}, records[3][:4])
}

func TestMeshSVG(t *testing.T) {
	res := patchResult(t)

	svg := MeshSVG(res, 400, 300, 0)
	assert.True(t, strings.HasPrefix(svg, "<?xml"))
	assert.Equal(t, 4, strings.Count(svg, "<path "))
	assert.NotContains(t, svg, "#ff5f5f")

	deformed := MeshSVG(res, 400, 300, 10)
	assert.Equal(t, 8, strings.Count(deformed, "<path "))
	assert.Contains(t, deformed, "#ff5f5f")

	assert.Empty(t, MeshSVG(emptyResult(), 400, 300, 1))
}

func TestSnapshotPrincipalStresses(t *testing.T) {
	snap := NewSnapshot(patchResult(t))

	// uniaxial 10 Pa in x: s1 carries it all, s2 vanishes
	for id, st := range snap.Stresses {
		assert.InDelta(t, 10.0, st.S1, 1e-9, "element %d", id)
		assert.InDelta(t, 0.0, st.S2, 1e-9, "element %d", id)
		assert.GreaterOrEqual(t, st.S1, st.S2)
	}

	res := &report.Result{Elements: map[int]report.ElementRecord{
		1: {ID: 1, SXX: 0, SYY: 0, SXY: 5},
	}}
	st := NewSnapshot(res).Stresses[1]
	assert.InDelta(t, 5.0, st.S1, 1e-12)
	assert.InDelta(t, -5.0, st.S2, 1e-12)
}
