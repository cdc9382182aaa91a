package world

// PathPoints returns the pixel centres of a path's nodes.
func (l Layout) PathPoints(nodes []OffsetCoord) []Point {
	pts := make([]Point, len(nodes))
	for i, n := range nodes {
		pts[i] = l.Center(n)
	}
	return pts
}

// Segment is one piece of a smoothed path. A straight segment has no
// control point; a curved one is a quadratic Bézier through Ctrl.
type Segment struct {
	From   Point  `json:"from"`
	Ctrl   *Point `json:"ctrl,omitempty"`
	To     Point  `json:"to"`
	Curved bool   `json:"curved"`
}

// SmoothPath turns node centres into a chain of quadratic curves: each
// interior point becomes the control point of a curve ending midway to the
// next point, and the path finishes with a straight line to the last point.
func SmoothPath(pts []Point) []Segment {
	switch len(pts) {
	case 0:
		return nil
	case 1:
		return []Segment{{From: pts[0], To: pts[0]}}
	case 2:
		return []Segment{{From: pts[0], To: pts[1]}}
	}

	segs := make([]Segment, 0, len(pts))
	cur := pts[0]
	for i := 1; i < len(pts)-1; i++ {
		p1 := pts[i]
		p2 := pts[i+1]
		mid := Point{X: (p1.X + p2.X) / 2, Y: (p1.Y + p2.Y) / 2}
		ctrl := p1
		segs = append(segs, Segment{From: cur, Ctrl: &ctrl, To: mid, Curved: true})
		cur = mid
	}
	segs = append(segs, Segment{From: cur, To: pts[len(pts)-1]})
	return segs
}

// Sample returns n+1 evenly spaced points along the segment.
func (s Segment) Sample(n int) []Point {
	if n < 1 {
		n = 1
	}
	out := make([]Point, 0, n+1)
	for i := 0; i <= n; i++ {
		t := float64(i) / float64(n)
		if s.Curved && s.Ctrl != nil {
			u := 1 - t
			out = append(out, Point{
				X: u*u*s.From.X + 2*u*t*s.Ctrl.X + t*t*s.To.X,
				Y: u*u*s.From.Y + 2*u*t*s.Ctrl.Y + t*t*s.To.Y,
			})
			continue
		}
		out = append(out, Point{
			X: s.From.X + (s.To.X-s.From.X)*t,
			Y: s.From.Y + (s.To.Y-s.From.Y)*t,
		})
	}
	return out
}
