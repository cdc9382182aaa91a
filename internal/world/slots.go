package world

import "math"

// Page is the printable area the grid must cover, in pixels.
type Page struct {
	Width  float64 `yaml:"width" json:"width"`
	Height float64 `yaml:"height" json:"height"`
}

// A4Page is an A4 sheet at 96 DPI (210mm × 297mm).
var A4Page = Page{Width: 793.7, Height: 1122.5}

// minVisibleFraction is how much of a hex must overlap the page, in each
// axis, for the hex to be worth drawing.
const minVisibleFraction = 0.15

// scanMargin is how many extra rows/cols are scanned around the page.
const scanMargin = 2

// DiscoverSlots enumerates every cell sufficiently visible on the page, in
// row-major order. The result length is the slot total for budgeting.
func DiscoverSlots(layout Layout, page Page) []*Slot {
	if layout.Radius <= 0 || page.Width <= 0 || page.Height <= 0 {
		return nil
	}

	w := layout.Width()
	h := layout.Height()
	rows := int(math.Ceil(page.Height / layout.RowSpacing()))
	cols := int(math.Ceil(page.Width / w))

	var slots []*Slot
	for row := -scanMargin; row <= rows+scanMargin; row++ {
		for col := -scanMargin; col <= cols+scanMargin; col++ {
			c := OffsetCoord{Row: row, Col: col}
			ctr := layout.Center(c)
			if !visible(ctr, w, h, page) {
				continue
			}
			slots = append(slots, &Slot{Coord: c, X: ctr.X, Y: ctr.Y})
		}
	}
	return slots
}

// visible checks the bounding box overlap of a hex against the page.
func visible(ctr Point, w, h float64, page Page) bool {
	overlapX := math.Min(ctr.X+w/2, page.Width) - math.Max(ctr.X-w/2, 0)
	overlapY := math.Min(ctr.Y+h/2, page.Height) - math.Max(ctr.Y-h/2, 0)
	return overlapX >= w*minVisibleFraction && overlapY >= h*minVisibleFraction
}
