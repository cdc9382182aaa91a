package render

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"
)

// Fixed export colours.
var (
	PaperColor   = color.RGBA{0xff, 0xfd, 0xf5, 0xff}
	OutlineColor = color.RGBA{0xe0, 0xe0, 0xe0, 0xff}
	RoadColor    = color.RGBA{0x5d, 0x40, 0x37, 0xff}
	RiverColor   = color.RGBA{0x4f, 0xc3, 0xf7, 0xff}
	InkColor     = color.RGBA{0x00, 0x00, 0x00, 0xff}
	unknownFill  = color.RGBA{0xcc, 0xcc, 0xcc, 0xff}
)

// ParseColor parses "#rgb" or "#rrggbb".
func ParseColor(s string) (color.RGBA, error) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(s) == 3 {
		s = string([]byte{s[0], s[0], s[1], s[1], s[2], s[2]})
	}
	if len(s) != 6 {
		return color.RGBA{}, fmt.Errorf("bad colour %q", s)
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("bad colour %q: %w", s, err)
	}
	return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 0xff}, nil
}

func shade(c color.RGBA, f float64) color.RGBA {
	s := func(v uint8) uint8 {
		x := float64(v) * f
		if x > 255 {
			x = 255
		}
		if x < 0 {
			x = 0
		}
		return uint8(x + 0.5)
	}
	return color.RGBA{R: s(c.R), G: s(c.G), B: s(c.B), A: c.A}
}
