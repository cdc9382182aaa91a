package world

import (
	"math/rand"
	"testing"
)

func testSlots() []*Slot {
	return DiscoverSlots(NewLayout(0.25, 96), Page{Width: 600, Height: 500})
}

func TestSeedCount(t *testing.T) {
	tests := []struct {
		count, min int
		c          float64
		want       int
	}{
		{0, 1, 0.5, 0},
		{100, 1, 1, 1},
		{100, 5, 1, 1},
		{100, 1, 0, 100},
		{100, 5, 0, 20},
		{100, 10, 0, 10},
		{100, 1, 0.5, 50},
		{3, 5, 0, 1}, // smaller than one blob still gets a seed
		{1, 1, 0, 1},
	}
	for _, tt := range tests {
		if got := SeedCount(tt.count, tt.min, tt.c); got != tt.want {
			t.Errorf("SeedCount(%d, %d, %v) = %d, want %d", tt.count, tt.min, tt.c, got, tt.want)
		}
	}
}

func TestGrowSingleTerrainFillsEverything(t *testing.T) {
	slots := testSlots()
	allocs := Allocate([]TerrainSpec{{Type: TerrainSwamp, Weight: 100}}, len(slots), TerrainPlains)
	state, stats := Grow(slots, allocs, GrowthConfig{Clustering: 0.3, MinClusterSizes: DefaultMinClusterSizes}, rand.New(rand.NewSource(1)))

	if stats.Unfilled != 0 {
		t.Fatalf("unfilled = %d", stats.Unfilled)
	}
	for _, s := range slots {
		if got, _ := state.Get(s.Coord); got != TerrainSwamp {
			t.Fatalf("slot %v = %q, want swamp", s.Coord, got)
		}
	}
}

func TestGrowAccountsForEverySlot(t *testing.T) {
	slots := testSlots()
	specs := []TerrainSpec{
		{Type: TerrainSea, Weight: 40},
		{Type: TerrainPlains, Weight: 35},
		{Type: TerrainDesert, Weight: 15},
		{Type: TerrainSnow, Weight: 10},
	}
	for seed := int64(0); seed < 20; seed++ {
		for _, c := range []float64{0, 0.25, 0.5, 0.75, 1} {
			allocs := Allocate(specs, len(slots), TerrainPlains)
			state, stats := Grow(slots, allocs, GrowthConfig{Clustering: c, MinClusterSizes: DefaultMinClusterSizes}, rand.New(rand.NewSource(seed)))
			if state.Len()+stats.Unfilled != len(slots) {
				t.Fatalf("seed %d c=%v: assigned %d + unfilled %d != %d", seed, c, state.Len(), stats.Unfilled, len(slots))
			}
		}
	}
}

func TestGrowFullClusteringMakesOneBlobPerTerrain(t *testing.T) {
	slots := testSlots()
	specs := []TerrainSpec{
		{Type: TerrainSea, Weight: 50},
		{Type: TerrainDesert, Weight: 30},
		{Type: TerrainSnow, Weight: 20},
	}
	allocs := Allocate(specs, len(slots), TerrainPlains)

	for seed := int64(0); seed < 25; seed++ {
		state, stats := Grow(slots, allocs, GrowthConfig{Clustering: 1, MinClusterSizes: DefaultMinClusterSizes}, rand.New(rand.NewSource(seed)))
		for _, a := range allocs {
			if stats.Seeds[a.Type] != 1 {
				t.Fatalf("seed %d: %s has %d seeds, want 1", seed, a.Type, stats.Seeds[a.Type])
			}
		}

		// Each terrain was grown from a single seed, so its cells form one
		// connected region.
		members := make(map[Terrain][]OffsetCoord)
		for _, s := range slots {
			if tt, ok := state.Get(s.Coord); ok {
				members[tt] = append(members[tt], s.Coord)
			}
		}
		for tt, cells := range members {
			region := ClusterAt(state, cells[0])
			if len(region) != len(cells) {
				t.Fatalf("seed %d: %s split into pieces (%d connected of %d)", seed, tt, len(region), len(cells))
			}
		}
	}
}

func TestGrowNoClusteringScatters(t *testing.T) {
	slots := testSlots()
	allocs := []Allocation{{Type: TerrainSnow, Count: 40}, {Type: TerrainSea, Count: len(slots) - 40}}
	_, stats := Grow(slots, allocs, GrowthConfig{Clustering: 0, MinClusterSizes: DefaultMinClusterSizes}, rand.New(rand.NewSource(3)))

	if stats.Seeds[TerrainSnow] != 40 {
		t.Fatalf("snow seeds = %d, want 40", stats.Seeds[TerrainSnow])
	}
	if want := (len(slots) - 40) / 5; stats.Seeds[TerrainSea] != want {
		t.Fatalf("sea seeds = %d, want %d", stats.Seeds[TerrainSea], want)
	}
}

func TestGrowRespectsBudgetWithoutPanic(t *testing.T) {
	slots := testSlots()
	specs := []TerrainSpec{{Type: TerrainSea, Weight: 50}, {Type: TerrainPlains, Weight: 50}}
	allocs := Allocate(specs, len(slots), TerrainPlains)

	for seed := int64(0); seed < 20; seed++ {
		state, stats := Grow(slots, allocs, GrowthConfig{Clustering: 0.5, MinClusterSizes: DefaultMinClusterSizes}, rand.New(rand.NewSource(seed)))
		if stats.PanicSteps != 0 {
			continue
		}
		counts := make(map[Terrain]int)
		for _, s := range slots {
			if tt, ok := state.Get(s.Coord); ok {
				counts[tt]++
			}
		}
		for _, a := range allocs {
			if counts[a.Type] > a.Count {
				t.Fatalf("seed %d: %s got %d cells, budget %d", seed, a.Type, counts[a.Type], a.Count)
			}
		}
	}
}

func TestGrowBoxedInLeavesUnfilled(t *testing.T) {
	// Two disconnected islands; only one of them can be reached from the
	// single seed, so the other stays unassigned.
	slots := []*Slot{
		{Coord: OffsetCoord{Row: 0, Col: 0}},
		{Coord: OffsetCoord{Row: 0, Col: 1}},
		{Coord: OffsetCoord{Row: 10, Col: 10}},
	}
	allocs := []Allocation{{Type: TerrainSea, Count: 3}}
	state, stats := Grow(slots, allocs, GrowthConfig{Clustering: 1}, rand.New(rand.NewSource(2)))

	if state.Len()+stats.Unfilled != 3 {
		t.Fatalf("assigned %d + unfilled %d != 3", state.Len(), stats.Unfilled)
	}
	if stats.Unfilled == 0 {
		t.Fatal("expected at least one unreachable slot")
	}
}

func TestCoordPool(t *testing.T) {
	p := newCoordPool(4)
	a, b, c := OffsetCoord{Row: 0, Col: 0}, OffsetCoord{Row: 0, Col: 1}, OffsetCoord{Row: 1, Col: 0}
	p.add(a)
	p.add(b)
	p.add(c)
	p.add(a)
	if p.len() != 3 {
		t.Fatalf("len = %d", p.len())
	}
	p.remove(a)
	if p.has(a) || !p.has(b) || !p.has(c) {
		t.Fatal("remove broke membership")
	}
	p.remove(c)
	p.remove(c)
	if p.len() != 1 || p.items[0] != b {
		t.Fatalf("items = %v", p.items)
	}
	if got := p.pick(rand.New(rand.NewSource(1))); got != b {
		t.Fatalf("pick = %v", got)
	}
}
