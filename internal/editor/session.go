// Package editor owns one map editing session: the grid, its paths and
// palette, the current selection and the undo history. Every user intent
// arrives here as a method call; the session mutates its state, projects
// the result onto a Renderer and records a history snapshot where the edit
// is undoable.
//
// A Session is not safe for concurrent use.
package editor

import (
	"fmt"
	"log/slog"
	"math"
	"math/rand"
	"strconv"
	"strings"

	"github.com/zyedidia/generic/mapset"

	"github.com/talgya/hexcrawl/internal/history"
	"github.com/talgya/hexcrawl/internal/world"
)

// Options configures a new session.
type Options struct {
	Gen          world.GenConfig
	Specs        []world.TerrainSpec // initial terrain weights
	Terrains     []world.Terrain     // accepted terrain names; AllTerrains when empty
	Addons       []string            // addon catalog; DefaultAddons when empty
	Palette      world.Palette
	HistoryLimit int
	AutoApply    bool // regenerate when the hex size changes
	Renderer     Renderer
	Rand         *rand.Rand
}

// Session is the editing state for one map.
type Session struct {
	gen       world.GenConfig
	hexSize   string
	specs     []world.TerrainSpec
	terrains  mapset.Set[world.Terrain]
	addons    []string
	palette   world.Palette
	autoApply bool

	grid  *world.Grid
	paths []world.Path
	stats world.GrowthStats

	selection []world.OffsetCoord
	selected  mapset.Set[world.OffsetCoord]

	history *history.Manager
	render  Renderer
	rng     *rand.Rand
}

// New creates a session. The grid is empty until Generate, GenerateGrid or
// Import is called.
func New(opts Options) *Session {
	s := &Session{
		gen:       opts.Gen,
		hexSize:   formatHexSize(opts.Gen.HexSize),
		specs:     append([]world.TerrainSpec(nil), opts.Specs...),
		terrains:  mapset.New[world.Terrain](),
		addons:    opts.Addons,
		palette:   opts.Palette.Clone(),
		autoApply: opts.AutoApply,
		selected:  mapset.New[world.OffsetCoord](),
		render:    opts.Renderer,
		rng:       opts.Rand,
	}
	terrains := opts.Terrains
	if len(terrains) == 0 {
		terrains = world.AllTerrains
	}
	for _, t := range terrains {
		s.terrains.Put(t)
	}
	if len(s.addons) == 0 {
		s.addons = DefaultAddons
	}
	if len(s.palette) == 0 {
		s.palette = world.DefaultColors.Clone()
	}
	if s.render == nil {
		s.render = NopRenderer{}
	}
	if s.rng == nil {
		s.rng = rand.New(rand.NewSource(1))
	}
	s.history = history.New(opts.HistoryLimit, s)
	return s
}

// Generate builds a fresh grid from specs. Weights are normalized to sum
// to 100 first. Existing paths are kept. Returns world.ErrNoTerrain, with
// nothing changed, when no spec has a positive weight.
func (s *Session) Generate(specs []world.TerrainSpec) (*world.Result, error) {
	var enabled []world.TerrainSpec
	for _, sp := range specs {
		if !s.terrains.Has(sp.Type) {
			return nil, fmt.Errorf("generate: %w: %q", ErrUnknownTerrain, sp.Type)
		}
		if sp.Weight > 0 {
			enabled = append(enabled, sp)
		}
	}
	if len(enabled) == 0 {
		return nil, world.ErrNoTerrain
	}
	enabled = world.NormalizeWeights(enabled)

	res, err := world.Generate(s.gen, enabled, s.rng)
	if err != nil {
		return nil, err
	}
	s.ClearSelection()
	s.specs = enabled
	s.grid = res.Grid
	s.stats = res.Stats
	s.redraw()

	counts := world.TerrainCounts(s.grid)
	for _, t := range world.SortedTerrains(counts) {
		slog.Debug("terrain", "type", t, "count", counts[t])
	}
	slog.Info("map generated",
		"hex_size", s.hexSize,
		"slots", s.grid.SlotCount(),
		"clusters", res.Stats.Clusters,
		"unfilled", res.Stats.Unfilled,
	)

	s.SaveHistory()
	return res, nil
}

// GenerateGrid rebuilds the grid from preserved cell records at the
// current hex size. Cells with no record get the fallback terrain. History
// is not touched; callers that want an undo step save it themselves.
func (s *Session) GenerateGrid(records []world.CellRecord) *world.Grid {
	s.ClearSelection()
	s.grid = world.Restore(s.gen, records, world.FallbackFor(s.specs, s.gen.Fallback))
	s.stats = world.GrowthStats{}
	s.redraw()
	return s.grid
}

// SetTerrain paints cells, or the selection when cells is empty.
func (s *Session) SetTerrain(cells []world.OffsetCoord, t world.Terrain) (int, error) {
	if !s.terrains.Has(t) {
		return 0, fmt.Errorf("set terrain: %w: %q", ErrUnknownTerrain, t)
	}
	targets, err := s.targets(cells)
	if err != nil {
		return 0, err
	}
	n := 0
	for _, slot := range targets {
		if !s.grid.SetTerrain(slot.Coord, t) {
			continue
		}
		s.render.DrawCell(slot)
		for _, g := range s.grid.GhostsOf(slot.Coord) {
			s.render.DrawGhost(g)
		}
		n++
	}
	s.SaveHistory()
	s.ClearSelection()
	return n, nil
}

// Cluster returns the same-terrain region around origin.
func (s *Session) Cluster(origin world.OffsetCoord) []*world.Slot {
	if s.grid == nil {
		return nil
	}
	return s.grid.Cluster(origin)
}

// SaveHistory records the current state as an undo step.
func (s *Session) SaveHistory() {
	s.history.Save()
}

// Undo steps back one snapshot. Returns false when there is nothing to undo.
func (s *Session) Undo() (bool, error) {
	s.ClearSelection()
	return s.history.Undo()
}

// Redo re-applies an undone snapshot. Returns false when there is nothing
// to redo.
func (s *Session) Redo() (bool, error) {
	s.ClearSelection()
	return s.history.Redo()
}

// CanUndo reports whether Undo would change anything.
func (s *Session) CanUndo() bool { return s.history.CanUndo() }

// CanRedo reports whether Redo would change anything.
func (s *Session) CanRedo() bool { return s.history.CanRedo() }

// History exposes the undo/redo stacks.
func (s *Session) History() *history.Manager { return s.history }

// Capture implements history.State.
func (s *Session) Capture() history.Snapshot {
	snap := history.Snapshot{
		HexSize: s.hexSize,
		Colors:  s.palette.Clone(),
		Paths:   make([]world.Path, len(s.paths)),
	}
	if s.grid != nil {
		snap.Hexes = s.grid.Records()
	}
	for i, p := range s.paths {
		snap.Paths[i] = p.Clone()
	}
	return snap
}

// Apply implements history.State: restore the palette and hex size, then
// rebuild the whole grid and every path from the snapshot.
func (s *Session) Apply(snap history.Snapshot) error {
	if len(snap.Colors) > 0 {
		for t, c := range snap.Colors {
			s.palette[t] = c
		}
	}
	if snap.HexSize != "" && snap.HexSize != s.hexSize {
		if err := s.setHexSize(snap.HexSize); err != nil {
			return fmt.Errorf("apply snapshot: %w", err)
		}
	}
	s.GenerateGrid(snap.Hexes)
	s.setPaths(snap.Paths)
	return nil
}

// SetHexSize changes the hex radius in inches. With auto-apply on, the map
// is regenerated at the new size.
// A refused regeneration leaves the previous size in place.
func (s *Session) SetHexSize(size string) (bool, error) {
	prevSize, prevValue := s.hexSize, s.gen.HexSize
	if err := s.setHexSize(size); err != nil {
		return false, err
	}
	if !s.autoApply {
		return false, nil
	}
	if _, err := s.Generate(s.specs); err != nil {
		s.hexSize, s.gen.HexSize = prevSize, prevValue
		return false, err
	}
	return true, nil
}

func (s *Session) setHexSize(size string) error {
	size = strings.TrimSpace(size)
	v, err := strconv.ParseFloat(size, 64)
	if err != nil || v <= 0 || math.IsInf(v, 0) || math.IsNaN(v) {
		return fmt.Errorf("%w: %q", ErrInvalidHexSize, size)
	}
	s.hexSize = formatHexSize(v)
	s.gen.HexSize = v
	return nil
}

// SetAutoApply toggles regeneration on hex size changes.
func (s *Session) SetAutoApply(on bool) { s.autoApply = on }

// SetClustering sets the clustering factor for the next generation,
// clamped to [0, 1].
func (s *Session) SetClustering(c float64) {
	s.gen.Clustering = math.Max(0, math.Min(1, c))
}

// SetSpecs replaces the terrain weights used by the next auto-apply.
func (s *Session) SetSpecs(specs []world.TerrainSpec) error {
	for _, sp := range specs {
		if !s.terrains.Has(sp.Type) {
			return fmt.Errorf("%w: %q", ErrUnknownTerrain, sp.Type)
		}
	}
	s.specs = append([]world.TerrainSpec(nil), specs...)
	return nil
}

// Grid returns the live grid, nil before the first generation.
func (s *Session) Grid() *world.Grid { return s.grid }

// HexSize returns the hex radius in inches, in plain decimal form.
func (s *Session) HexSize() string { return s.hexSize }

// GenConfig returns the generation parameters in effect.
func (s *Session) GenConfig() world.GenConfig { return s.gen }

// Specs returns the terrain weights of the last generation.
func (s *Session) Specs() []world.TerrainSpec {
	return append([]world.TerrainSpec(nil), s.specs...)
}

// Stats returns the growth diagnostics of the last fresh generation.
func (s *Session) Stats() world.GrowthStats { return s.stats }

// Export returns the exportable record set.
func (s *Session) Export() world.Document {
	doc := world.Document{HexSize: s.hexSize}
	if s.grid != nil {
		doc.Cells = s.grid.Records()
	}
	doc.Paths = make([]world.PathRecord, len(s.paths))
	for i, p := range s.paths {
		doc.Paths[i] = p.Record()
	}
	return doc
}

// Import replaces the map with doc and records an undo step. An empty hex
// size keeps the current one. Returns the number of path records that
// could not be parsed.
func (s *Session) Import(doc world.Document) (int, error) {
	size := s.hexSize
	if strings.TrimSpace(doc.HexSize) != "" {
		size = doc.HexSize
	}
	if err := s.setHexSize(size); err != nil {
		return 0, fmt.Errorf("import: %w", err)
	}
	s.GenerateGrid(doc.Cells)
	skipped, err := s.RestorePaths(doc.Paths, size)
	if err != nil {
		return 0, fmt.Errorf("import: %w", err)
	}
	s.SaveHistory()
	slog.Info("map imported", "cells", len(doc.Cells), "paths", len(s.paths), "skipped_paths", skipped)
	return skipped, nil
}

// redraw projects the whole grid onto the renderer.
func (s *Session) redraw() {
	s.render.Reset(s.grid.Layout)
	s.render.SetPalette(s.palette.Clone())
	for _, slot := range s.grid.Slots {
		s.render.DrawCell(slot)
	}
	for _, g := range s.grid.Ghosts {
		s.render.DrawGhost(g)
	}
	for _, slot := range s.grid.Slots {
		if slot.Addon != "" {
			s.render.SetAddon(slot)
		}
	}
}

// targets resolves cells to real slots, using the selection when cells is
// empty. Coordinates outside the grid are ignored.
func (s *Session) targets(cells []world.OffsetCoord) ([]*world.Slot, error) {
	if len(cells) == 0 {
		cells = s.selection
	}
	if s.grid == nil || len(cells) == 0 {
		return nil, ErrEmptySelection
	}
	out := make([]*world.Slot, 0, len(cells))
	seen := mapset.New[world.OffsetCoord]()
	for _, c := range cells {
		if seen.Has(c) {
			continue
		}
		seen.Put(c)
		if slot := s.grid.Get(c); slot != nil {
			out = append(out, slot)
		}
	}
	if len(out) == 0 {
		return nil, ErrEmptySelection
	}
	return out, nil
}

func formatHexSize(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
