package viz

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/san-kum/femreport/internal/metrics"
	"github.com/san-kum/femreport/internal/report"
)

type tab int

const (
	tabNodes tab = iota
	tabElements
	tabSkipped
	numTabs
)

func (t tab) String() string {
	return [...]string{"nodes", "elements", "skipped rows"}[t]
}

// Browser is a Bubble Tea model for paging through a parse result.
type Browser struct {
	res    *report.Result
	tab    tab
	cursor [numTabs]int
	rows   [numTabs][]string
	width  int
	height int
}

func NewBrowser(res *report.Result) *Browser {
	b := &Browser{res: res, width: 80, height: 24}

	for _, id := range res.SortedNodeIDs() {
		n := res.Nodes[id]
		b.rows[tabNodes] = append(b.rows[tabNodes], fmt.Sprintf("%-6d %13.5e %13.5e %13.5e %13.5e",
			id, n.UX, n.UY, n.UZ, metrics.Magnitude(n.UX, n.UY, n.UZ)))
	}
	for _, id := range res.SortedElementIDs() {
		e := res.Elements[id]
		b.rows[tabElements] = append(b.rows[tabElements], fmt.Sprintf("%-6d %13.5e %13.5e %13.5e %13.5e",
			id, e.SXX, e.SYY, e.SXY, metrics.VonMises(e.SXX, e.SYY, e.SXY)))
	}
	for _, d := range res.Diagnostics {
		b.rows[tabSkipped] = append(b.rows[tabSkipped], d.String())
	}
	return b
}

func (b *Browser) Init() tea.Cmd { return nil }

func (b *Browser) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		b.width, b.height = msg.Width, msg.Height
	case tea.KeyMsg:
		n := len(b.rows[b.tab])
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return b, tea.Quit
		case "tab", "right", "l":
			b.tab = (b.tab + 1) % numTabs
		case "shift+tab", "left", "h":
			b.tab = (b.tab + numTabs - 1) % numTabs
		case "down", "j":
			if b.cursor[b.tab] < n-1 {
				b.cursor[b.tab]++
			}
		case "up", "k":
			if b.cursor[b.tab] > 0 {
				b.cursor[b.tab]--
			}
		case "g", "home":
			b.cursor[b.tab] = 0
		case "G", "end":
			b.cursor[b.tab] = max(n-1, 0)
		}
	}
	return b, nil
}

func (b *Browser) View() string {
	var sb strings.Builder

	title := b.res.Title
	if title == "" {
		title = b.res.Source
	}
	sb.WriteString(Heading.Render(title))
	sb.WriteString("\n")

	for t := tab(0); t < numTabs; t++ {
		name := fmt.Sprintf(" %s (%d) ", t, len(b.rows[t]))
		if t == b.tab {
			sb.WriteString(Selected.Render("[" + name + "]"))
		} else {
			sb.WriteString(Subtle.Render(" " + name + " "))
		}
	}
	sb.WriteString("\n\n")

	switch b.tab {
	case tabNodes:
		sb.WriteString(Label.Render(fmt.Sprintf("%-6s %13s %13s %13s %13s", "NODE", "UX", "UY", "UZ", "|U|")))
	case tabElements:
		sb.WriteString(Label.Render(fmt.Sprintf("%-6s %13s %13s %13s %13s", "ELEM", "SXX", "SYY", "SXY", "MISES")))
	case tabSkipped:
		sb.WriteString(Label.Render("SECTION:LINE: REASON: TEXT"))
	}
	sb.WriteString("\n")

	rows := b.rows[b.tab]
	if len(rows) == 0 {
		sb.WriteString(Subtle.Render("(none)"))
		sb.WriteString("\n")
	}

	visible := max(b.height-8, 1)
	cur := b.cursor[b.tab]
	start := 0
	if cur >= visible {
		start = cur - visible + 1
	}
	for i := start; i < len(rows) && i < start+visible; i++ {
		if i == cur {
			sb.WriteString(Selected.Render("> " + rows[i]))
		} else {
			sb.WriteString("  " + rows[i])
		}
		sb.WriteString("\n")
	}

	sb.WriteString("\n")
	sb.WriteString(KeyHint.Render("tab switch · j/k move · g/G ends · q quit"))
	return sb.String()
}

// Run starts the browser on the terminal.
func (b *Browser) Run() error {
	_, err := tea.NewProgram(b, tea.WithAltScreen()).Run()
	return err
}
