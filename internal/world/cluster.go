package world

import "github.com/zyedidia/generic/mapset"

// ClusterAt returns every cell connected to origin through cells of the same
// terrain, in breadth-first order starting with origin. Returns nil if origin
// holds no terrain.
func ClusterAt(state *GridState, origin OffsetCoord) []OffsetCoord {
	want, ok := state.Get(origin)
	if !ok {
		return nil
	}

	visited := mapset.New[OffsetCoord]()
	visited.Put(origin)
	queue := []OffsetCoord{origin}

	var cluster []OffsetCoord
	for len(queue) > 0 {
		c := queue[0]
		queue = queue[1:]

		if t, ok := state.Get(c); !ok || t != want {
			continue
		}
		cluster = append(cluster, c)

		for _, nb := range c.Neighbors() {
			if visited.Has(nb) {
				continue
			}
			visited.Put(nb)
			queue = append(queue, nb)
		}
	}
	return cluster
}

// Cluster returns the slots of the same-terrain region containing origin.
func (g *Grid) Cluster(origin OffsetCoord) []*Slot {
	coords := ClusterAt(g.State, origin)
	out := make([]*Slot, 0, len(coords))
	for _, c := range coords {
		if s := g.index[c]; s != nil {
			out = append(out, s)
		}
	}
	return out
}
