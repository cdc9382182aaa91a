package world

import (
	"errors"
	"math/rand"
	"testing"
)

func TestAssembleFreshFallback(t *testing.T) {
	l := NewLayout(0.5, 96)
	slots := DiscoverSlots(l, Page{Width: 400, Height: 300})
	state := NewGridState()
	state.Set(slots[0].Coord, TerrainSea)

	g := AssembleFresh(l, slots, state, TerrainDesert)
	if g.Slots[0].Terrain != TerrainSea {
		t.Fatalf("first slot = %q", g.Slots[0].Terrain)
	}
	for _, s := range g.Slots[1:] {
		if s.Terrain != TerrainDesert {
			t.Fatalf("slot %v = %q, want fallback desert", s.Coord, s.Terrain)
		}
	}
	if g.State.Len() != len(slots) {
		t.Fatalf("state has %d cells, want %d", g.State.Len(), len(slots))
	}
}

func TestAssembleGhostPerRow(t *testing.T) {
	l := NewLayout(0.5, 96)
	slots := DiscoverSlots(l, Page{Width: 400, Height: 300})
	state := NewGridState()
	for _, s := range slots {
		state.Set(s.Coord, TerrainPlains)
	}
	// Mark the last cell of row 1 so the ghost visibly inherits it.
	state.Set(OffsetCoord{Row: 1, Col: 4}, TerrainSnow)

	g := AssembleFresh(l, slots, state, TerrainPlains)
	if len(g.Ghosts) != 5 {
		t.Fatalf("got %d ghosts, want 5", len(g.Ghosts))
	}
	for _, gh := range g.Ghosts {
		if gh.Coord.Row != gh.Parent.Row || gh.Coord.Col != gh.Parent.Col+1 {
			t.Fatalf("ghost %v has parent %v", gh.Coord, gh.Parent)
		}
		if g.Get(gh.Coord) != nil {
			t.Fatalf("ghost %v overlaps a real cell", gh.Coord)
		}
		if gh.Terrain != g.Get(gh.Parent).Terrain {
			t.Fatalf("ghost %v terrain %q != parent %q", gh.Coord, gh.Terrain, g.Get(gh.Parent).Terrain)
		}
	}
	if gs := g.GhostsOf(OffsetCoord{Row: 1, Col: 4}); len(gs) != 1 || gs[0].Terrain != TerrainSnow {
		t.Fatalf("row 1 ghost = %v", gs)
	}

	if len(g.Records()) != len(slots) {
		t.Fatalf("records include ghosts: %d vs %d slots", len(g.Records()), len(slots))
	}
}

func TestSetTerrainSyncsGhost(t *testing.T) {
	l := NewLayout(0.5, 96)
	g := AssembleFresh(l, DiscoverSlots(l, Page{Width: 400, Height: 300}), NewGridState(), TerrainPlains)

	end := OffsetCoord{Row: 0, Col: 5}
	if !g.SetTerrain(end, TerrainSea) {
		t.Fatal("SetTerrain on real cell failed")
	}
	if gs := g.GhostsOf(end); len(gs) != 1 || gs[0].Terrain != TerrainSea {
		t.Fatalf("ghost not synced: %v", gs)
	}
	if tt, _ := g.State.Get(end); tt != TerrainSea {
		t.Fatalf("state not updated: %q", tt)
	}
	if g.SetTerrain(OffsetCoord{Row: 0, Col: 6}, TerrainSea) {
		t.Fatal("SetTerrain on ghost coordinate should fail")
	}
}

func TestAssembleRestore(t *testing.T) {
	l := NewLayout(0.5, 96)
	slots := DiscoverSlots(l, Page{Width: 400, Height: 300})
	records := []CellRecord{
		{Row: 0, Col: 0, Terrain: TerrainSea, Addon: "Town", Label: "Harbor, East"},
		{Row: 2, Col: 3, Terrain: TerrainSwamp},
		{Row: 40, Col: 40, Terrain: TerrainSnow}, // off the page
	}
	g := AssembleRestore(l, slots, records, TerrainWasteland)

	s := g.Get(OffsetCoord{Row: 0, Col: 0})
	if s.Terrain != TerrainSea || s.Addon != "Town" || s.Label != "Harbor, East" {
		t.Fatalf("restored slot = %+v", s)
	}
	if g.Get(OffsetCoord{Row: 2, Col: 3}).Terrain != TerrainSwamp {
		t.Fatal("swamp not restored")
	}
	missing := g.Get(OffsetCoord{Row: 1, Col: 1})
	if missing.Terrain != TerrainWasteland || missing.Addon != "" {
		t.Fatalf("missing record fallback = %+v", missing)
	}
	if g.Get(OffsetCoord{Row: 40, Col: 40}) != nil {
		t.Fatal("off-page record created a slot")
	}
}

func TestGenerateNoTerrain(t *testing.T) {
	_, err := Generate(SmallTestConfig(), []TerrainSpec{{Type: TerrainSea, Weight: 0}}, rand.New(rand.NewSource(1)))
	if !errors.Is(err, ErrNoTerrain) {
		t.Fatalf("err = %v, want ErrNoTerrain", err)
	}
}

func TestGenerateAndRestoreRoundTrip(t *testing.T) {
	cfg := SmallTestConfig()
	res, err := Generate(cfg, []TerrainSpec{
		{Type: TerrainSea, Weight: 50},
		{Type: TerrainDesert, Weight: 50},
	}, rand.New(rand.NewSource(9)))
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	for _, s := range res.Grid.Slots {
		if s.Terrain == "" {
			t.Fatalf("slot %v left without terrain", s.Coord)
		}
	}

	again := Restore(cfg, res.Grid.Records(), TerrainPlains)
	if len(again.Slots) != len(res.Grid.Slots) {
		t.Fatalf("slot count changed: %d vs %d", len(again.Slots), len(res.Grid.Slots))
	}
	for i, s := range again.Slots {
		if s.Terrain != res.Grid.Slots[i].Terrain {
			t.Fatalf("slot %v: %q vs %q", s.Coord, s.Terrain, res.Grid.Slots[i].Terrain)
		}
	}
}
