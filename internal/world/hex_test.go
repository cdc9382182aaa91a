package world

import (
	"math"
	"testing"
)

func TestNeighborsSymmetric(t *testing.T) {
	for row := -3; row <= 3; row++ {
		for col := -3; col <= 3; col++ {
			a := OffsetCoord{Row: row, Col: col}
			nbs := a.Neighbors()
			if len(nbs) != 6 {
				t.Fatalf("%v: got %d neighbors", a, len(nbs))
			}
			seen := make(map[OffsetCoord]bool)
			for _, b := range nbs {
				if b == a {
					t.Fatalf("%v lists itself as a neighbor", a)
				}
				if seen[b] {
					t.Fatalf("%v lists %v twice", a, b)
				}
				seen[b] = true

				found := false
				for _, back := range b.Neighbors() {
					if back == a {
						found = true
						break
					}
				}
				if !found {
					t.Fatalf("%v is a neighbor of %v but not the reverse", b, a)
				}
			}
		}
	}
}

func TestNeighborsParity(t *testing.T) {
	even := OffsetCoord{Row: 2, Col: 5}.Neighbors()
	wantEven := [6]OffsetCoord{{Row: 2, Col: 4}, {Row: 2, Col: 6}, {Row: 1, Col: 4}, {Row: 1, Col: 5}, {Row: 3, Col: 4}, {Row: 3, Col: 5}}
	if even != wantEven {
		t.Fatalf("even row neighbors = %v, want %v", even, wantEven)
	}

	odd := OffsetCoord{Row: 3, Col: 5}.Neighbors()
	wantOdd := [6]OffsetCoord{{Row: 3, Col: 4}, {Row: 3, Col: 6}, {Row: 2, Col: 5}, {Row: 2, Col: 6}, {Row: 4, Col: 5}, {Row: 4, Col: 6}}
	if odd != wantOdd {
		t.Fatalf("odd row neighbors = %v, want %v", odd, wantOdd)
	}
}

func TestLayoutCenter(t *testing.T) {
	l := NewLayout(0.5, 96)
	if l.Radius != 48 {
		t.Fatalf("radius = %v, want 48", l.Radius)
	}
	w := math.Sqrt(3) * 48

	tests := []struct {
		c    OffsetCoord
		x, y float64
	}{
		{OffsetCoord{Row: 0, Col: 0}, 0, 0},
		{OffsetCoord{Row: 0, Col: 2}, 2 * w, 0},
		{OffsetCoord{Row: 1, Col: 0}, w / 2, 72},
		{OffsetCoord{Row: 3, Col: 1}, w + w/2, 216},
	}
	for _, tt := range tests {
		p := l.Center(tt.c)
		if math.Abs(p.X-tt.x) > 1e-9 || math.Abs(p.Y-tt.y) > 1e-9 {
			t.Errorf("Center(%v) = (%v,%v), want (%v,%v)", tt.c, p.X, p.Y, tt.x, tt.y)
		}
	}

	corners := l.Corners(OffsetCoord{Row: 0, Col: 0})
	if corners[0] != (Point{X: 0, Y: -48}) || corners[3] != (Point{X: 0, Y: 48}) {
		t.Fatalf("unexpected top/bottom corners %v / %v", corners[0], corners[3])
	}
}

func TestParseCoord(t *testing.T) {
	c, err := ParseCoord(" 12, -3 ")
	if err != nil {
		t.Fatalf("ParseCoord: %v", err)
	}
	if c != (OffsetCoord{Row: 12, Col: -3}) {
		t.Fatalf("got %v", c)
	}
	if c.Key() != "12,-3" {
		t.Fatalf("Key() = %q", c.Key())
	}

	for _, bad := range []string{"", "12", "a,1", "1,b"} {
		if _, err := ParseCoord(bad); err == nil {
			t.Errorf("ParseCoord(%q) succeeded", bad)
		}
	}
}

func TestNegativeRowParity(t *testing.T) {
	if !(OffsetCoord{Row: -1}).Odd() {
		t.Fatal("row -1 should be odd")
	}
	if (OffsetCoord{Row: -2}).Odd() {
		t.Fatal("row -2 should be even")
	}
}
