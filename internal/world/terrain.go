package world

import (
	"errors"
	"sort"
)

// Terrain names a terrain type. The name is what records and CSV files carry.
type Terrain string

// Built-in terrain types.
const (
	TerrainSea       Terrain = "sea"
	TerrainPlains    Terrain = "plains"
	TerrainSwamp     Terrain = "swamp"
	TerrainSnow      Terrain = "snow"
	TerrainDesert    Terrain = "desert"
	TerrainWasteland Terrain = "wasteland"
)

// AllTerrains lists the built-in terrains in menu order.
var AllTerrains = []Terrain{
	TerrainSea,
	TerrainPlains,
	TerrainSwamp,
	TerrainSnow,
	TerrainDesert,
	TerrainWasteland,
}

// DefaultMinClusterSizes is the smallest blob each terrain may form.
// Sea needs room to read as water; plains should dominate open ground.
var DefaultMinClusterSizes = map[Terrain]int{
	TerrainSea:       5,
	TerrainPlains:    10,
	TerrainSwamp:     3,
	TerrainSnow:      1,
	TerrainDesert:    3,
	TerrainWasteland: 3,
}

// DefaultColors is the starting palette.
var DefaultColors = Palette{
	TerrainSea:       "#4fc3f7",
	TerrainPlains:    "#c5e1a5",
	TerrainSwamp:     "#6d4c41",
	TerrainSnow:      "#f5f5f5",
	TerrainDesert:    "#fff59d",
	TerrainWasteland: "#78909c",
}

// ErrNoTerrain is returned when a fresh generation has nothing to paint with.
var ErrNoTerrain = errors.New("select at least one terrain type")

// TerrainSpec is one enabled terrain and its share of the map in percent.
type TerrainSpec struct {
	Type   Terrain `json:"type" yaml:"type"`
	Weight int     `json:"weight" yaml:"weight"`
}

// MinClusterSize returns the minimum blob size for t, defaulting to 1.
func MinClusterSize(sizes map[Terrain]int, t Terrain) int {
	if n, ok := sizes[t]; ok && n > 0 {
		return n
	}
	return 1
}

// Palette maps terrain to a CSS-style colour string.
type Palette map[Terrain]string

// Clone returns an independent copy.
func (p Palette) Clone() Palette {
	out := make(Palette, len(p))
	for t, c := range p {
		out[t] = c
	}
	return out
}

// TerrainCounts returns a summary of terrain distribution across the grid.
func TerrainCounts(g *Grid) map[Terrain]int {
	counts := make(map[Terrain]int)
	for _, s := range g.Slots {
		counts[s.Terrain]++
	}
	return counts
}

// SortedTerrains returns the keys of counts in a stable order for logging.
func SortedTerrains(counts map[Terrain]int) []Terrain {
	out := make([]Terrain, 0, len(counts))
	for t := range counts {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
