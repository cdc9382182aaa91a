// Map generation: slot discovery, budget allocation, cluster growth and
// grid assembly, in that order.
package world

import (
	"fmt"
	"log/slog"
	"math/rand"
)

// GenConfig holds map generation parameters.
type GenConfig struct {
	HexSize         float64 // hex radius in inches
	PPI             float64 // pixels per inch
	Page            Page
	Clustering      float64 // 0 (scattered) to 1 (consolidated)
	MinClusterSizes map[Terrain]int
	Fallback        Terrain // painted where nothing else applies
}

// DefaultGenConfig returns an A4 page of half-inch hexes.
func DefaultGenConfig() GenConfig {
	return GenConfig{
		HexSize:         0.5,
		PPI:             96,
		Page:            A4Page,
		Clustering:      0.5,
		MinClusterSizes: DefaultMinClusterSizes,
		Fallback:        TerrainPlains,
	}
}

// SmallTestConfig returns a tiny page for rapid iteration.
func SmallTestConfig() GenConfig {
	cfg := DefaultGenConfig()
	cfg.Page = Page{Width: 400, Height: 300}
	return cfg
}

// Layout returns the pixel layout for the configured hex size.
func (cfg GenConfig) Layout() Layout {
	return NewLayout(cfg.HexSize, cfg.PPI)
}

// Result is a generated grid together with growth diagnostics.
type Result struct {
	Grid   *Grid
	Stats  GrowthStats
	Budget []Allocation
}

// Generate creates a fresh grid from the enabled terrain specs.
func Generate(cfg GenConfig, specs []TerrainSpec, rng *rand.Rand) (*Result, error) {
	enabled := 0
	for _, s := range specs {
		if s.Weight > 0 {
			enabled++
		}
	}
	if enabled == 0 {
		return nil, ErrNoTerrain
	}
	if cfg.HexSize <= 0 || cfg.PPI <= 0 {
		return nil, fmt.Errorf("generate: invalid hex size %.3f at %.0f ppi", cfg.HexSize, cfg.PPI)
	}

	layout := cfg.Layout()
	slots := DiscoverSlots(layout, cfg.Page)
	budget := Allocate(specs, len(slots), cfg.Fallback)

	state, stats := Grow(slots, budget, GrowthConfig{
		Clustering:      cfg.Clustering,
		MinClusterSizes: cfg.MinClusterSizes,
	}, rng)

	grid := AssembleFresh(layout, slots, state, FallbackFor(specs, cfg.Fallback))

	slog.Debug("grid generated",
		"slots", len(slots),
		"clusters", stats.Clusters,
		"panic_steps", stats.PanicSteps,
		"unfilled", stats.Unfilled,
	)
	return &Result{Grid: grid, Stats: stats, Budget: budget}, nil
}

// Restore rebuilds a grid from preserved records without touching the
// allocator or growth engine.
func Restore(cfg GenConfig, records []CellRecord, fallback Terrain) *Grid {
	layout := cfg.Layout()
	slots := DiscoverSlots(layout, cfg.Page)
	return AssembleRestore(layout, slots, records, fallback)
}

// FallbackFor picks the terrain for cells nothing else claims: the first
// enabled spec, or def when none is enabled.
func FallbackFor(specs []TerrainSpec, def Terrain) Terrain {
	for _, s := range specs {
		if s.Weight > 0 {
			return s.Type
		}
	}
	return def
}
