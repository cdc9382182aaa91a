package world

import "math"

// Allocation is the exact number of cells a terrain receives.
type Allocation struct {
	Type  Terrain
	Count int
}

// Allocate turns percentage weights into cell counts summing to total.
// Specs with no weight are dropped; with nothing left, fallback gets
// everything. Every spec but the last is rounded independently and the last
// one absorbs the remainder, so the last-listed terrain carries the rounding
// slack. A rounded count never exceeds what is left of the total, so the
// counts always sum to total and none is negative.
func Allocate(specs []TerrainSpec, total int, fallback Terrain) []Allocation {
	var active []TerrainSpec
	for _, s := range specs {
		if s.Weight > 0 {
			active = append(active, s)
		}
	}
	if len(active) == 0 {
		active = []TerrainSpec{{Type: fallback, Weight: 100}}
	}

	out := make([]Allocation, len(active))
	assigned := 0
	for i, s := range active {
		if i == len(active)-1 {
			rest := total - assigned
			if rest < 0 {
				rest = 0
			}
			out[i] = Allocation{Type: s.Type, Count: rest}
			break
		}
		n := int(math.Round(float64(s.Weight) / 100 * float64(total)))
		n = min(n, total-assigned)
		out[i] = Allocation{Type: s.Type, Count: n}
		assigned += n
	}
	return out
}

// NormalizeWeights rescales weights so they sum to exactly 100. When every
// weight is zero they are split evenly with the remainder on the first spec.
// The last spec takes whatever the rounded others leave.
func NormalizeWeights(specs []TerrainSpec) []TerrainSpec {
	if len(specs) == 0 {
		return nil
	}
	out := make([]TerrainSpec, len(specs))
	copy(out, specs)

	sum := 0
	for _, s := range out {
		if s.Weight > 0 {
			sum += s.Weight
		}
	}
	if sum == 0 {
		even := 100 / len(out)
		for i := range out {
			out[i].Weight = even
		}
		out[0].Weight += 100 - even*len(out)
		return out
	}

	running := 0
	for i := range out {
		if i == len(out)-1 {
			out[i].Weight = max(100-running, 0)
			break
		}
		w := out[i].Weight
		if w < 0 {
			w = 0
		}
		n := int(math.Round(float64(w) / float64(sum) * 100))
		out[i].Weight = n
		running += n
	}
	return out
}
