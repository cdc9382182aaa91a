package world

// AssembleFresh builds a grid from a growth result. Slots the growth pass
// could not reach get the fallback terrain.
func AssembleFresh(layout Layout, slots []*Slot, state *GridState, fallback Terrain) *Grid {
	for _, s := range slots {
		t, ok := state.Get(s.Coord)
		if !ok || t == "" {
			t = fallback
		}
		s.Terrain = t
		s.Addon = ""
		s.Label = ""
	}
	return finalize(layout, slots)
}

// AssembleRestore builds a grid from preserved per-cell records, matching on
// (row, col). Slots with no matching record (geometry changed) get the
// fallback terrain and no addon. Records that match no slot are ignored.
func AssembleRestore(layout Layout, slots []*Slot, records []CellRecord, fallback Terrain) *Grid {
	byCoord := make(map[OffsetCoord]CellRecord, len(records))
	for _, r := range records {
		byCoord[OffsetCoord{Row: r.Row, Col: r.Col}] = r
	}
	for _, s := range slots {
		r, ok := byCoord[s.Coord]
		if !ok || r.Terrain == "" {
			s.Terrain = fallback
			s.Addon = ""
			s.Label = ""
			continue
		}
		s.Terrain = r.Terrain
		s.Addon = r.Addon
		s.Label = r.Label
	}
	return finalize(layout, slots)
}

// finalize indexes the slots and appends one ghost past the last real cell
// of every row, carrying that row's terminal terrain.
func finalize(layout Layout, slots []*Slot) *Grid {
	g := newGrid(layout, slots)

	last := make(map[int]*Slot)
	var order []int
	for _, s := range slots {
		prev, seen := last[s.Coord.Row]
		if !seen {
			order = append(order, s.Coord.Row)
		}
		if !seen || s.Coord.Col > prev.Coord.Col {
			last[s.Coord.Row] = s
		}
	}

	g.Ghosts = make([]Ghost, 0, len(order))
	for _, row := range order {
		end := last[row]
		c := OffsetCoord{Row: row, Col: end.Coord.Col + 1}
		ctr := layout.Center(c)
		g.Ghosts = append(g.Ghosts, Ghost{
			Coord:   c,
			Parent:  end.Coord,
			X:       ctr.X,
			Y:       ctr.Y,
			Terrain: end.Terrain,
		})
	}
	return g
}
