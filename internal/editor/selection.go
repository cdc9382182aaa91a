package editor

import (
	"github.com/zyedidia/generic/mapset"

	"github.com/talgya/hexcrawl/internal/world"
)

// Select adds real cells to the selection in the order given.
func (s *Session) Select(cells ...world.OffsetCoord) int {
	if s.grid == nil {
		return 0
	}
	n := 0
	for _, c := range cells {
		if s.selected.Has(c) || s.grid.Get(c) == nil {
			continue
		}
		s.selected.Put(c)
		s.selection = append(s.selection, c)
		n++
	}
	return n
}

// SelectCluster replaces the selection with the same-terrain region
// around origin.
func (s *Session) SelectCluster(origin world.OffsetCoord) []*world.Slot {
	s.ClearSelection()
	cluster := s.Cluster(origin)
	for _, slot := range cluster {
		s.Select(slot.Coord)
	}
	return cluster
}

// Selection returns the selected cells in selection order.
func (s *Session) Selection() []world.OffsetCoord {
	return append([]world.OffsetCoord(nil), s.selection...)
}

// ClearSelection drops the transient selection.
func (s *Session) ClearSelection() {
	s.selection = nil
	s.selected = mapset.New[world.OffsetCoord]()
}
