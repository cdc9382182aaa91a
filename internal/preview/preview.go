// Package preview draws a grid in the terminal: one coloured block per
// cell, odd rows shifted half a cell right, addons shown by their initial.
package preview

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/talgya/hexcrawl/internal/world"
)

const cellWidth = 4

var (
	ghostStyle  = lipgloss.NewStyle().Faint(true).Width(cellWidth).Align(lipgloss.Center)
	legendStyle = lipgloss.NewStyle().Bold(true)
)

type cell struct {
	col     int
	terrain world.Terrain
	mark    string
	ghost   bool
}

// Render returns the grid as text. Cells without a palette entry fall back
// to the default colours.
func Render(g *world.Grid, p world.Palette) string {
	if g == nil || len(g.Slots) == 0 {
		return ""
	}

	rows := make(map[int][]cell)
	minCol := g.Slots[0].Coord.Col
	for _, s := range g.Slots {
		mark := ""
		if s.Addon != "" {
			mark = string([]rune(s.Addon)[:1])
		}
		rows[s.Coord.Row] = append(rows[s.Coord.Row], cell{col: s.Coord.Col, terrain: s.Terrain, mark: mark})
		minCol = min(minCol, s.Coord.Col)
	}
	for _, gh := range g.Ghosts {
		rows[gh.Coord.Row] = append(rows[gh.Coord.Row], cell{col: gh.Coord.Col, terrain: gh.Terrain, mark: "·", ghost: true})
	}

	order := make([]int, 0, len(rows))
	for r := range rows {
		order = append(order, r)
	}
	sort.Ints(order)

	styles := make(map[world.Terrain]lipgloss.Style)
	style := func(t world.Terrain) lipgloss.Style {
		if st, ok := styles[t]; ok {
			return st
		}
		bg := p[t]
		if bg == "" {
			bg = world.DefaultColors[t]
		}
		st := lipgloss.NewStyle().
			Background(lipgloss.Color(bg)).
			Foreground(lipgloss.Color("#000000")).
			Width(cellWidth).
			Align(lipgloss.Center)
		styles[t] = st
		return st
	}

	var b strings.Builder
	for _, r := range order {
		cells := rows[r]
		sort.Slice(cells, func(i, j int) bool { return cells[i].col < cells[j].col })

		pos := 0
		if r&1 == 1 {
			pos = cellWidth / 2
		}
		b.WriteString(strings.Repeat(" ", pos))
		next := minCol
		for _, c := range cells {
			if c.col > next {
				b.WriteString(strings.Repeat(" ", (c.col-next)*cellWidth))
			}
			if c.ghost {
				b.WriteString(ghostStyle.Render(c.mark))
			} else {
				b.WriteString(style(c.terrain).Render(c.mark))
			}
			next = c.col + 1
		}
		b.WriteString("\n")
	}
	return b.String()
}

// Legend summarises terrain counts in name order.
func Legend(g *world.Grid) string {
	if g == nil {
		return ""
	}
	counts := world.TerrainCounts(g)
	parts := make([]string, 0, len(counts))
	for _, t := range world.SortedTerrains(counts) {
		parts = append(parts, fmt.Sprintf("%s %s", legendStyle.Render(string(t)), humanize.Comma(int64(counts[t]))))
	}
	return strings.Join(parts, "  ")
}
