package world

import "fmt"

// Slot is one real, interactive cell of the grid.
type Slot struct {
	Coord   OffsetCoord `json:"coord"`
	X       float64     `json:"x"`
	Y       float64     `json:"y"`
	Terrain Terrain     `json:"terrain"` // empty while unassigned
	Addon   string      `json:"addon,omitempty"`
	Label   string      `json:"label,omitempty"`
}

// Key returns the slot's "row,col" key.
func (s *Slot) Key() string {
	return s.Coord.Key()
}

// Ghost is a non-interactive cell drawn past the end of a row so the page
// edge does not look cut off. Ghosts are never exported or captured.
type Ghost struct {
	Coord   OffsetCoord `json:"coord"`
	Parent  OffsetCoord `json:"parent"`
	X       float64     `json:"x"`
	Y       float64     `json:"y"`
	Terrain Terrain     `json:"terrain"`
}

// GridState is the authoritative terrain lookup for generation, cluster
// queries and edits. It is rebuilt wholesale on each generation.
type GridState struct {
	terrain map[OffsetCoord]Terrain
}

// NewGridState creates an empty state.
func NewGridState() *GridState {
	return &GridState{terrain: make(map[OffsetCoord]Terrain)}
}

// Get returns the terrain at c and whether c holds any terrain.
func (s *GridState) Get(c OffsetCoord) (Terrain, bool) {
	t, ok := s.terrain[c]
	return t, ok
}

// Set assigns a terrain.
func (s *GridState) Set(c OffsetCoord, t Terrain) {
	s.terrain[c] = t
}

// Len returns the number of assigned cells.
func (s *GridState) Len() int {
	return len(s.terrain)
}

// Grid is the assembled, renderable map: real slots plus per-row ghosts.
type Grid struct {
	Layout Layout
	Slots  []*Slot // discovery order (row-major)
	Ghosts []Ghost
	State  *GridState

	index map[OffsetCoord]*Slot
}

func newGrid(layout Layout, slots []*Slot) *Grid {
	g := &Grid{
		Layout: layout,
		Slots:  slots,
		State:  NewGridState(),
		index:  make(map[OffsetCoord]*Slot, len(slots)),
	}
	for _, s := range slots {
		g.index[s.Coord] = s
		if s.Terrain != "" {
			g.State.Set(s.Coord, s.Terrain)
		}
	}
	return g
}

// Get returns the slot at c, or nil if c is not part of the grid.
func (g *Grid) Get(c OffsetCoord) *Slot {
	return g.index[c]
}

// SetTerrain changes the terrain of a real cell and keeps any ghost that
// mirrors it in sync. Returns false if c is not part of the grid.
func (g *Grid) SetTerrain(c OffsetCoord, t Terrain) bool {
	s := g.index[c]
	if s == nil {
		return false
	}
	s.Terrain = t
	g.State.Set(c, t)
	for i := range g.Ghosts {
		if g.Ghosts[i].Parent == c {
			g.Ghosts[i].Terrain = t
		}
	}
	return true
}

// GhostsOf returns the ghosts that mirror the cell at c.
func (g *Grid) GhostsOf(c OffsetCoord) []Ghost {
	var out []Ghost
	for _, gh := range g.Ghosts {
		if gh.Parent == c {
			out = append(out, gh)
		}
	}
	return out
}

// Records returns the exportable per-cell records, ghosts excluded.
func (g *Grid) Records() []CellRecord {
	out := make([]CellRecord, 0, len(g.Slots))
	for _, s := range g.Slots {
		out = append(out, CellRecord{
			Row:     s.Coord.Row,
			Col:     s.Coord.Col,
			Terrain: s.Terrain,
			Addon:   s.Addon,
			Label:   s.Label,
		})
	}
	return out
}

// SlotCount returns the number of real cells.
func (g *Grid) SlotCount() int {
	return len(g.Slots)
}

// String returns a summary of the grid.
func (g *Grid) String() string {
	return fmt.Sprintf("Grid(radius=%.1f, slots=%d, ghosts=%d)", g.Layout.Radius, len(g.Slots), len(g.Ghosts))
}
