// Package world provides the hex grid, terrain, and map generation core.
// Uses offset coordinates (row, col) with odd rows shifted right by half a hex.
package world

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// OffsetCoord addresses a hex by row and column in the odd-row-right layout.
type OffsetCoord struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// Key returns the canonical "row,col" form used by records and paths.
func (c OffsetCoord) Key() string {
	return strconv.Itoa(c.Row) + "," + strconv.Itoa(c.Col)
}

func (c OffsetCoord) String() string {
	return c.Key()
}

// Odd reports whether the coordinate sits on a shifted row.
// Uses the low bit so negative rows keep alternating parity.
func (c OffsetCoord) Odd() bool {
	return c.Row&1 == 1
}

// ParseCoord parses a "row,col" key.
func ParseCoord(key string) (OffsetCoord, error) {
	rs, cs, ok := strings.Cut(strings.TrimSpace(key), ",")
	if !ok {
		return OffsetCoord{}, fmt.Errorf("coord %q: missing comma", key)
	}
	r, err := strconv.Atoi(strings.TrimSpace(rs))
	if err != nil {
		return OffsetCoord{}, fmt.Errorf("coord %q: row: %w", key, err)
	}
	c, err := strconv.Atoi(strings.TrimSpace(cs))
	if err != nil {
		return OffsetCoord{}, fmt.Errorf("coord %q: col: %w", key, err)
	}
	return OffsetCoord{Row: r, Col: c}, nil
}

// Neighbor offsets for even and odd rows, in the order
// west, east, north-west, north-east, south-west, south-east.
var (
	evenRowNeighbors = [6]OffsetCoord{
		{Row: 0, Col: -1}, {Row: 0, Col: 1},
		{Row: -1, Col: -1}, {Row: -1, Col: 0},
		{Row: 1, Col: -1}, {Row: 1, Col: 0},
	}
	oddRowNeighbors = [6]OffsetCoord{
		{Row: 0, Col: -1}, {Row: 0, Col: 1},
		{Row: -1, Col: 0}, {Row: -1, Col: 1},
		{Row: 1, Col: 0}, {Row: 1, Col: 1},
	}
)

// Neighbors returns the six adjacent coordinates. No bounds check is done;
// callers filter against the live grid.
func (c OffsetCoord) Neighbors() [6]OffsetCoord {
	dirs := &evenRowNeighbors
	if c.Odd() {
		dirs = &oddRowNeighbors
	}
	var result [6]OffsetCoord
	for i, d := range dirs {
		result[i] = OffsetCoord{Row: c.Row + d.Row, Col: c.Col + d.Col}
	}
	return result
}

// Point is a pixel position on the page.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Layout converts offset coordinates to pixel geometry for pointy-top hexes.
type Layout struct {
	Radius float64 `json:"radius"` // centre-to-corner distance in pixels
}

// NewLayout derives the pixel radius from a hex size in inches.
func NewLayout(sizeInches, ppi float64) Layout {
	return Layout{Radius: sizeInches * ppi}
}

// Width is the flat-to-flat width of one hex (also the column spacing).
func (l Layout) Width() float64 {
	return math.Sqrt(3) * l.Radius
}

// Height is the corner-to-corner height of one hex.
func (l Layout) Height() float64 {
	return 2 * l.Radius
}

// RowSpacing is the vertical distance between row centres.
func (l Layout) RowSpacing() float64 {
	return 1.5 * l.Radius
}

// Center returns the pixel centre of a hex.
func (l Layout) Center(c OffsetCoord) Point {
	x := float64(c.Col) * l.Width()
	if c.Odd() {
		x += l.Width() / 2
	}
	return Point{X: x, Y: float64(c.Row) * l.RowSpacing()}
}

// Corners returns the polygon vertices of a hex, clockwise from the top.
func (l Layout) Corners(c OffsetCoord) [6]Point {
	ctr := l.Center(c)
	w2 := l.Width() / 2
	r := l.Radius
	r2 := r / 2
	return [6]Point{
		{X: ctr.X, Y: ctr.Y - r},
		{X: ctr.X + w2, Y: ctr.Y - r2},
		{X: ctr.X + w2, Y: ctr.Y + r2},
		{X: ctr.X, Y: ctr.Y + r},
		{X: ctr.X - w2, Y: ctr.Y + r2},
		{X: ctr.X - w2, Y: ctr.Y - r2},
	}
}
