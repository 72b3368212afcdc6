package viz

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/san-kum/femreport/internal/config"
	"github.com/san-kum/femreport/internal/metrics"
	"github.com/san-kum/femreport/internal/report"
)

func patchResult(t *testing.T) *report.Result {
	t.Helper()
	res, err := report.NewParser(config.MustLayout("stappp")).ParseFile("../report/testdata/patch.out")
	require.NoError(t, err)
	return res
}

func TestCanvasDrawLine(t *testing.T) {
	c := NewCanvas(4, 2)
	c.DrawLine(0, 0, 7, 0)
	assert.Equal(t, 8, c.Dots())

	c.Set(-1, 3)
	c.Set(100, 100)
	assert.Equal(t, 8, c.Dots())
	assert.Len(t, strings.Split(strings.TrimSuffix(c.String(), "\n"), "\n"), 2)
}

func TestMeshPlot(t *testing.T) {
	res := patchResult(t)

	out := MeshPlot(res, 40, 12, 0)
	require.NotEmpty(t, out)
	assert.Len(t, strings.Split(strings.TrimSuffix(out, "\n"), "\n"), 12)

	assert.Empty(t, MeshPlot(&report.Result{}, 40, 12, 0))
}

func TestNodeMap(t *testing.T) {
	res := patchResult(t)

	out := NodeMap(res, 30, 10)
	assert.Equal(t, 2, strings.Count(out, "▲"))
	assert.Equal(t, 3, strings.Count(out, "•"))
	assert.Contains(t, out, "│")
}

func TestStressPlot(t *testing.T) {
	res := patchResult(t)

	out, err := StressPlot(res, "mises", 20, 5)
	require.NoError(t, err)
	assert.Contains(t, out, "mises by element")

	_, err = StressPlot(res, "szz", 20, 5)
	assert.ErrorIs(t, err, ErrUnknownComponent)

	_, err = DisplacementPlot(res, "rx", 20, 5)
	assert.ErrorIs(t, err, ErrUnknownComponent)

	out, err = DisplacementPlot(res, "ux", 20, 5)
	require.NoError(t, err)
	assert.Contains(t, out, "ux by node")
}

func TestConvergencePlot(t *testing.T) {
	study, err := metrics.ConvergenceStudy([]float64{2, 1, 0.5}, []float64{8.24, 16.51, 28.20}, 32)
	require.NoError(t, err)

	out := ConvergencePlot(study, 30, 8)
	assert.Contains(t, out, "rate 1.322")
	assert.Empty(t, ConvergencePlot(nil, 30, 8))
}

func TestSparkline(t *testing.T) {
	assert.Equal(t, "▁▄█", Sparkline([]float64{0, 0.5, 1}, 10))
	assert.Equal(t, "▁▁", Sparkline([]float64{3, 3}, 10))
	assert.Empty(t, Sparkline(nil, 10))
}

func TestVerdict(t *testing.T) {
	assert.Contains(t, Verdict(true), "PASS")
	assert.Contains(t, Verdict(false), "FAIL")
	assert.Contains(t, KV("rate", 1.5), "1.5")
}

func key(s string) tea.KeyMsg {
	switch s {
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestBrowser(t *testing.T) {
	b := NewBrowser(patchResult(t))
	assert.Contains(t, b.View(), "nodes (5)")

	b.Update(key("down"))
	b.Update(key("j"))
	assert.Equal(t, 2, b.cursor[tabNodes])

	b.Update(key("G"))
	assert.Equal(t, 4, b.cursor[tabNodes])
	b.Update(key("j"))
	assert.Equal(t, 4, b.cursor[tabNodes])

	b.Update(key("tab"))
	assert.Equal(t, tabElements, b.tab)
	assert.Contains(t, b.View(), "MISES")

	b.Update(key("tab"))
	assert.Contains(t, b.View(), "(none)")

	b.Update(key("tab"))
	assert.Equal(t, tabNodes, b.tab)

	_, cmd := b.Update(key("q"))
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}
