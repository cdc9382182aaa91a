package editor

import (
	"fmt"
	"log/slog"
	"strconv"

	"github.com/google/uuid"

	"github.com/talgya/hexcrawl/internal/world"
)

// Paths returns copies of the current roads and rivers in drawing order.
func (s *Session) Paths() []world.Path {
	out := make([]world.Path, len(s.paths))
	for i, p := range s.paths {
		out[i] = p.Clone()
	}
	return out
}

// DrawPath adds a road or river through nodes. Consecutive repeats of the
// same cell collapse into one node. Every node must be a real cell.
func (s *Session) DrawPath(pt world.PathType, nodes []world.OffsetCoord) (world.Path, error) {
	if pt != world.PathRoad && pt != world.PathRiver {
		return world.Path{}, fmt.Errorf("draw path: %w: type %q", ErrInvalidPath, pt)
	}
	nodes = collapseRepeats(nodes)
	if len(nodes) == 0 || s.grid == nil {
		return world.Path{}, fmt.Errorf("draw path: %w", ErrInvalidPath)
	}
	for _, n := range nodes {
		if s.grid.Get(n) == nil {
			return world.Path{}, fmt.Errorf("draw path: %w: %v is off the map", ErrInvalidPath, n)
		}
	}

	p := world.Path{ID: uuid.NewString(), Type: pt, Nodes: nodes}
	s.paths = append(s.paths, p)
	s.drawPath(p)
	s.SaveHistory()
	return p.Clone(), nil
}

// DeletePath removes a path by id.
func (s *Session) DeletePath(id string) error {
	for i, p := range s.paths {
		if p.ID != id {
			continue
		}
		s.paths = append(s.paths[:i], s.paths[i+1:]...)
		s.render.RemovePath(id)
		s.SaveHistory()
		return nil
	}
	return fmt.Errorf("delete path: %w: %s", ErrUnknownPath, id)
}

// RestorePaths replaces every path with records, laid out for hexSize.
// Records that cannot be parsed are skipped; the count is returned. Nodes
// need not lie on the current grid, so paths survive a resize.
func (s *Session) RestorePaths(records []world.PathRecord, hexSize string) (int, error) {
	if hexSize != "" && hexSize != s.hexSize {
		if err := s.setHexSize(hexSize); err != nil {
			return 0, fmt.Errorf("restore paths: %w", err)
		}
	}
	paths := make([]world.Path, 0, len(records))
	skipped := 0
	for i, r := range records {
		pt, err := world.ParsePathType(r.Type)
		if err != nil {
			slog.Warn("skipping path record", "index", i, "error", err)
			skipped++
			continue
		}
		nodes, err := world.ParsePathNodes(r.Nodes)
		if err != nil {
			slog.Warn("skipping path record", "index", i, "error", err)
			skipped++
			continue
		}
		paths = append(paths, world.Path{
			ID:    uuid.NewString(),
			Type:  pt,
			Nodes: collapseRepeats(nodes),
		})
	}
	s.setPaths(paths)
	return skipped, nil
}

// setPaths swaps the whole path layer.
func (s *Session) setPaths(paths []world.Path) {
	for _, p := range s.paths {
		s.render.RemovePath(p.ID)
	}
	s.paths = make([]world.Path, len(paths))
	for i, p := range paths {
		p = p.Clone()
		if p.ID == "" {
			p.ID = strconv.Itoa(i)
		}
		s.paths[i] = p
		s.drawPath(p)
	}
}

func (s *Session) drawPath(p world.Path) {
	layout := s.gen.Layout()
	s.render.DrawPath(p.Clone(), world.SmoothPath(layout.PathPoints(p.Nodes)))
}

func collapseRepeats(nodes []world.OffsetCoord) []world.OffsetCoord {
	out := make([]world.OffsetCoord, 0, len(nodes))
	for i, n := range nodes {
		if i > 0 && n == nodes[i-1] {
			continue
		}
		out = append(out, n)
	}
	return out
}
