// Cluster growth: turns per-terrain cell budgets into organic blobs.
// Seeds are scattered at random and grown outward one cell at a time, with
// the cluster, frontier cell and neighbour all picked at random so blob
// edges come out ragged instead of round.
package world

import (
	"log/slog"
	"math"
	"math/rand"
)

// GrowthConfig holds cluster growth parameters.
type GrowthConfig struct {
	// Clustering runs from 0 (scattered, one seed per cell) to 1 (one blob
	// per terrain).
	Clustering      float64
	MinClusterSizes map[Terrain]int
}

// GrowthStats summarises one growth pass.
type GrowthStats struct {
	Clusters   int             `json:"clusters"`
	Seeds      map[Terrain]int `json:"seeds"`
	PanicSteps int             `json:"panic_steps"` // growth steps taken past a cluster's target
	Unfilled   int             `json:"unfilled"`    // slots left unassigned when every frontier died
}

// Cluster is one contiguous blob of a single terrain under construction.
type Cluster struct {
	Type    Terrain
	Target  int
	Current int

	frontier []OffsetCoord
}

// Active reports whether the cluster still wants cells and can reach some.
func (c *Cluster) Active() bool {
	return c.Current < c.Target && len(c.frontier) > 0
}

// SeedCount returns how many separate blobs a terrain with count cells
// starts from. Always at least 1 when count > 0.
func SeedCount(count, minSize int, clustering float64) int {
	if count <= 0 {
		return 0
	}
	if minSize < 1 {
		minSize = 1
	}
	c := math.Max(0, math.Min(1, clustering))
	seeds := int(math.Floor(1 + float64(count-1)*(1-c)))
	seeds = max(1, min(seeds, count))
	if limit := count / minSize; seeds > limit {
		seeds = limit
	}
	return max(seeds, 1)
}

// Grow assigns terrain to slots according to the allocations. Slots left
// unassigned (every frontier boxed in) are absent from the returned state.
func Grow(slots []*Slot, allocs []Allocation, cfg GrowthConfig, rng *rand.Rand) (*GridState, GrowthStats) {
	state := NewGridState()
	stats := GrowthStats{Seeds: make(map[Terrain]int)}

	pool := newCoordPool(len(slots))
	for _, s := range slots {
		pool.add(s.Coord)
	}

	var clusters []*Cluster
	for _, a := range allocs {
		if a.Count <= 0 {
			continue
		}
		minSize := MinClusterSize(cfg.MinClusterSizes, a.Type)
		n := SeedCount(a.Count, minSize, cfg.Clustering)

		group := make([]*Cluster, n)
		for i := range group {
			group[i] = &Cluster{Type: a.Type, Target: min(minSize, a.Count)}
		}
		leftover := a.Count - n*group[0].Target
		for ; leftover > 0; leftover-- {
			group[rng.Intn(n)].Target++
		}

		for _, cl := range group {
			if pool.len() == 0 {
				break
			}
			c := pool.pick(rng)
			pool.remove(c)
			state.Set(c, cl.Type)
			cl.frontier = append(cl.frontier, c)
			cl.Current = 1
		}
		stats.Seeds[a.Type] = n
		clusters = append(clusters, group...)
	}
	stats.Clusters = len(clusters)

	candidates := make([]*Cluster, 0, len(clusters))
	for pool.len() > 0 {
		candidates = candidates[:0]
		for _, cl := range clusters {
			if cl.Active() {
				candidates = append(candidates, cl)
			}
		}
		panicking := false
		if len(candidates) == 0 {
			for _, cl := range clusters {
				if len(cl.frontier) > 0 {
					candidates = append(candidates, cl)
				}
			}
			panicking = true
		}
		if len(candidates) == 0 {
			break
		}

		cl := candidates[rng.Intn(len(candidates))]
		if growCluster(cl, state, pool, rng) && panicking {
			stats.PanicSteps++
		}
	}

	stats.Unfilled = pool.len()
	if stats.Unfilled > 0 {
		slog.Debug("cluster growth exhausted frontiers", "unfilled", stats.Unfilled)
	}
	return state, stats
}

// growCluster extends cl by one cell from a random frontier slot. A frontier
// slot with no free neighbours is dropped. Returns true if a cell was added.
func growCluster(cl *Cluster, state *GridState, pool *coordPool, rng *rand.Rand) bool {
	i := rng.Intn(len(cl.frontier))
	from := cl.frontier[i]

	var free [6]OffsetCoord
	n := 0
	for _, nb := range from.Neighbors() {
		if pool.has(nb) {
			free[n] = nb
			n++
		}
	}
	if n == 0 {
		last := len(cl.frontier) - 1
		cl.frontier[i] = cl.frontier[last]
		cl.frontier = cl.frontier[:last]
		return false
	}

	c := free[rng.Intn(n)]
	pool.remove(c)
	state.Set(c, cl.Type)
	cl.frontier = append(cl.frontier, c)
	cl.Current++
	return true
}

// coordPool is the set of unassigned slots with O(1) random pick and removal.
type coordPool struct {
	items []OffsetCoord
	index map[OffsetCoord]int
}

func newCoordPool(capacity int) *coordPool {
	return &coordPool{
		items: make([]OffsetCoord, 0, capacity),
		index: make(map[OffsetCoord]int, capacity),
	}
}

func (p *coordPool) add(c OffsetCoord) {
	if _, ok := p.index[c]; ok {
		return
	}
	p.index[c] = len(p.items)
	p.items = append(p.items, c)
}

func (p *coordPool) has(c OffsetCoord) bool {
	_, ok := p.index[c]
	return ok
}

func (p *coordPool) remove(c OffsetCoord) {
	i, ok := p.index[c]
	if !ok {
		return
	}
	last := len(p.items) - 1
	moved := p.items[last]
	p.items[i] = moved
	p.index[moved] = i
	p.items = p.items[:last]
	delete(p.index, c)
}

func (p *coordPool) pick(rng *rand.Rand) OffsetCoord {
	return p.items[rng.Intn(len(p.items))]
}

func (p *coordPool) len() int {
	return len(p.items)
}
