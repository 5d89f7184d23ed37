package ui

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"licm/internal/licm"
	"licm/internal/loops"
)

var (
	headStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("7"))
	countStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
)

// Table renders rows as left-aligned columns separated by two spaces.
// Widths are measured in terminal cells so wide identifiers line up.
// When styled is false the output is plain text.
func Table(header []string, rows [][]string, styled bool) string {
	widths := make([]int, len(header))
	for i, h := range header {
		widths[i] = runewidth.StringWidth(h)
	}
	for _, row := range rows {
		for i := 0; i < len(row) && i < len(widths); i++ {
			widths[i] = max(widths[i], runewidth.StringWidth(row[i]))
		}
	}

	var b strings.Builder
	writeRow := func(cells []string, style *lipgloss.Style) {
		line := make([]string, len(widths))
		for i := range widths {
			cell := ""
			if i < len(cells) {
				cell = cells[i]
			}
			if i < len(widths)-1 {
				cell = runewidth.FillRight(cell, widths[i])
			}
			line[i] = cell
		}
		text := strings.TrimRight(strings.Join(line, "  "), " ")
		if styled && style != nil {
			text = style.Render(text)
		}
		b.WriteString(text)
		b.WriteString("\n")
	}
	writeRow(header, &headStyle)
	for _, row := range rows {
		writeRow(row, nil)
	}
	return b.String()
}

// RenderSummary lists per-function statistics followed by a total row.
func RenderSummary(results []licm.FuncResult, styled bool) string {
	header := []string{"func", "loops", "blocks", "candidates", "invariant", "unsafe", "hoisted"}
	rows := make([][]string, 0, len(results)+1)
	for _, r := range results {
		name := "?"
		if r.Func != nil {
			name = r.Func.Name
		}
		if r.Normalized {
			name += "*"
		}
		rows = append(rows, statsRow(name, r.Stats))
	}
	rows = append(rows, statsRow("total", licm.Total(results)))
	out := Table(header, rows, styled)
	if styled {
		total := licm.Total(results)
		out += countStyle.Render(strconv.Itoa(total.Hoisted)+" instruction(s) hoisted") + "\n"
	}
	return out
}

func statsRow(name string, s licm.Stats) []string {
	return []string{
		truncate(name, 40),
		strconv.Itoa(s.Loops),
		strconv.Itoa(s.Blocks),
		strconv.Itoa(s.Candidates),
		strconv.Itoa(s.Invariant),
		strconv.Itoa(s.Unsafe),
		strconv.Itoa(s.Hoisted),
	}
}

// RenderLoops lists the loops of a nest in header dominance order.
func RenderLoops(n *loops.Nest, styled bool) string {
	header := []string{"header", "depth", "blocks", "preheader", "exits"}
	rows := make([][]string, 0, len(n.Loops()))
	for _, l := range n.Loops() {
		pre := "-"
		if p := l.Preheader(); p != nil {
			pre = p.Label()
		}
		exits := make([]string, 0, len(l.ExitBlocks()))
		for _, e := range l.ExitBlocks() {
			exits = append(exits, e.Label())
		}
		rows = append(rows, []string{
			strings.Repeat("  ", l.Depth()-1) + l.Header().Label(),
			strconv.Itoa(l.Depth()),
			strconv.Itoa(len(l.Blocks())),
			pre,
			strings.Join(exits, ","),
		})
	}
	return Table(header, rows, styled)
}

func truncate(value string, width int) string {
	if width <= 0 {
		return value
	}
	if runewidth.StringWidth(value) <= width {
		return value
	}
	if width <= 3 {
		return runewidth.Truncate(value, width, "")
	}
	return runewidth.Truncate(value, width, "...")
}
