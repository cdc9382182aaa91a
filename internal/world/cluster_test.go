package world

import (
	"math/rand"
	"testing"
)

func TestClusterAtSimple(t *testing.T) {
	s := NewGridState()
	// Row 0: sea sea plains ; row 1 (odd, shifted right): sea plains
	s.Set(OffsetCoord{Row: 0, Col: 0}, TerrainSea)
	s.Set(OffsetCoord{Row: 0, Col: 1}, TerrainSea)
	s.Set(OffsetCoord{Row: 0, Col: 2}, TerrainPlains)
	s.Set(OffsetCoord{Row: 1, Col: 0}, TerrainSea)
	s.Set(OffsetCoord{Row: 1, Col: 1}, TerrainPlains)

	got := ClusterAt(s, OffsetCoord{Row: 0, Col: 0})
	if len(got) != 3 {
		t.Fatalf("cluster = %v, want 3 sea cells", got)
	}
	if got[0] != (OffsetCoord{Row: 0, Col: 0}) {
		t.Fatalf("cluster should start at origin, got %v", got[0])
	}

	plains := ClusterAt(s, OffsetCoord{Row: 0, Col: 2})
	// (0,2) even row neighbours include (1,1).
	if len(plains) != 2 {
		t.Fatalf("plains cluster = %v", plains)
	}

	if ClusterAt(s, OffsetCoord{Row: 5, Col: 5}) != nil {
		t.Fatal("cluster of empty cell should be nil")
	}
}

func TestClusterClosedUnderAdjacency(t *testing.T) {
	res, err := Generate(SmallTestConfig(), []TerrainSpec{
		{Type: TerrainSea, Weight: 40},
		{Type: TerrainSnow, Weight: 30},
		{Type: TerrainDesert, Weight: 30},
	}, rand.New(rand.NewSource(5)))
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	g := res.Grid

	for _, origin := range g.Slots {
		region := g.Cluster(origin.Coord)
		in := make(map[OffsetCoord]bool, len(region))
		for _, s := range region {
			if s.Terrain != origin.Terrain {
				t.Fatalf("cluster of %v contains %v with terrain %q", origin.Coord, s.Coord, s.Terrain)
			}
			in[s.Coord] = true
		}
		for _, s := range region {
			for _, nb := range s.Coord.Neighbors() {
				ns := g.Get(nb)
				if ns != nil && ns.Terrain == origin.Terrain && !in[nb] {
					t.Fatalf("cluster of %v misses same-terrain neighbour %v", origin.Coord, nb)
				}
			}
		}
	}
}
