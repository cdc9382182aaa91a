package preview

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"

	"github.com/talgya/hexcrawl/internal/world"
)

func testGrid() *world.Grid {
	return world.Restore(world.SmallTestConfig(), []world.CellRecord{
		{Row: 2, Col: 2, Terrain: world.TerrainSea, Addon: "Tower", Label: "Tower"},
	}, world.TerrainPlains)
}

func TestRenderRows(t *testing.T) {
	g := testGrid()
	out := Render(g, world.DefaultColors)
	lines := strings.Split(strings.TrimSuffix(out, "\n"), "\n")

	perRow := make(map[int]int)
	for _, s := range g.Slots {
		perRow[s.Coord.Row]++
	}
	for _, gh := range g.Ghosts {
		perRow[gh.Coord.Row]++
	}
	if len(lines) != len(perRow) {
		t.Fatalf("lines = %d, want %d rows", len(lines), len(perRow))
	}

	for row, line := range lines {
		want := perRow[row] * cellWidth
		if row&1 == 1 {
			want += cellWidth / 2
		}
		if got := lipgloss.Width(line); got != want {
			t.Errorf("row %d width = %d, want %d", row, got, want)
		}
	}

	if !strings.Contains(lines[2], "T") {
		t.Errorf("row 2 should show the Tower marker: %q", lines[2])
	}
	if !strings.Contains(lines[0], "·") {
		t.Errorf("row 0 should end with a ghost: %q", lines[0])
	}
}

func TestRenderEmpty(t *testing.T) {
	if Render(nil, nil) != "" {
		t.Fatal("nil grid should render nothing")
	}
}

func TestLegend(t *testing.T) {
	g := testGrid()
	legend := Legend(g)
	if !strings.Contains(legend, "sea") || !strings.Contains(legend, "plains") {
		t.Fatalf("legend = %q", legend)
	}
	if !strings.Contains(legend, " 1") {
		t.Fatalf("legend should count the single sea cell: %q", legend)
	}
}
