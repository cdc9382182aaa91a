// Package render rasterizes a map for PNG export: paper, hex cells and
// their ghosts, roads and rivers, then addon markers with labels.
package render

import (
	"fmt"
	"image"
	"image/color"
	"io"
	"log/slog"
	"math"
	"sync"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	opensimplex "github.com/ojrac/opensimplex-go"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/talgya/hexcrawl/internal/world"
)

// Scene is everything one export draws.
type Scene struct {
	Page    world.Page
	Grid    *world.Grid
	Paths   []world.Path
	Palette world.Palette
}

// Options tune the export.
type Options struct {
	Scale  float64 // output pixels per page pixel
	Grain  float64 // paper grain strength, 0 for flat paper
	Jitter float64 // hand-drawn wobble of paths, in page pixels
	Seed   int64   // noise seed for grain and wobble
}

// DefaultOptions renders at twice page resolution.
func DefaultOptions() Options {
	return Options{Scale: 2, Grain: 0.04, Jitter: 0.8, Seed: 1}
}

// pathStyle is the stroke of one path type, in page pixels.
type pathStyle struct {
	color color.RGBA
	width float64
	alpha float64
}

var pathStyles = map[world.PathType]pathStyle{
	world.PathRoad:  {color: RoadColor, width: 3, alpha: 1},
	world.PathRiver: {color: RiverColor, width: 4, alpha: 0.8},
}

// Addon marker geometry and type sizes in page pixels, relative to the
// cell centre.
const (
	markerRadius = 7.0
	markerLift   = 5.0
	labelDrop    = 23.0
	labelSize    = 10.0
	letterSize   = 9.0
	outlineWidth = 1.0
)

var fonts = sync.OnceValues(func() ([2]*truetype.Font, error) {
	regular, err := truetype.Parse(goregular.TTF)
	if err != nil {
		return [2]*truetype.Font{}, fmt.Errorf("parse label font: %w", err)
	}
	bold, err := truetype.Parse(gobold.TTF)
	if err != nil {
		return [2]*truetype.Font{}, fmt.Errorf("parse marker font: %w", err)
	}
	return [2]*truetype.Font{regular, bold}, nil
})

func face(f *truetype.Font, size float64) font.Face {
	return truetype.NewFace(f, &truetype.Options{Size: size, DPI: 72, Hinting: font.HintingFull})
}

// EncodePNG rasterizes sc and writes it as PNG.
func EncodePNG(w io.Writer, sc Scene, opts Options) error {
	img, err := Rasterize(sc, opts)
	if err != nil {
		return err
	}
	return gg.NewContextForRGBA(img).EncodePNG(w)
}

// Rasterize draws sc into a new image.
func Rasterize(sc Scene, opts Options) (*image.RGBA, error) {
	if opts.Scale <= 0 {
		opts.Scale = 1
	}
	w := int(math.Ceil(sc.Page.Width * opts.Scale))
	h := int(math.Ceil(sc.Page.Height * opts.Scale))
	img := image.NewRGBA(image.Rect(0, 0, max(w, 1), max(h, 1)))
	c := &canvas{
		img:   img,
		dc:    gg.NewContextForRGBA(img),
		scale: opts.Scale,
		noise: opensimplex.NewNormalized(opts.Seed),
	}

	c.paper(opts.Grain)
	if sc.Grid == nil {
		return img, nil
	}
	ff, err := fonts()
	if err != nil {
		return nil, err
	}
	c.label = face(ff[0], labelSize*opts.Scale)
	c.letter = face(ff[1], letterSize*opts.Scale)

	// Geometry is drawn in page pixels; text and line widths are in
	// output pixels.
	c.dc.Scale(opts.Scale, opts.Scale)
	c.dc.SetLineCapRound()
	c.dc.SetLineJoinRound()

	layout := sc.Grid.Layout
	for _, g := range sc.Grid.Ghosts {
		c.hex(layout.Corners(g.Coord))
		c.dc.SetColor(c.terrainColor(sc.Palette, g.Terrain))
		c.dc.Fill()
	}
	for _, s := range sc.Grid.Slots {
		c.hex(layout.Corners(s.Coord))
		c.dc.SetColor(c.terrainColor(sc.Palette, s.Terrain))
		c.dc.Fill()
	}
	c.dc.SetColor(OutlineColor)
	c.dc.SetLineWidth(outlineWidth * opts.Scale)
	for _, g := range sc.Grid.Ghosts {
		c.hex(layout.Corners(g.Coord))
		c.dc.Stroke()
	}
	for _, s := range sc.Grid.Slots {
		c.hex(layout.Corners(s.Coord))
		c.dc.Stroke()
	}

	for i, p := range sc.Paths {
		style, ok := pathStyles[p.Type]
		if !ok {
			continue
		}
		segs := world.SmoothPath(layout.PathPoints(p.Nodes))
		c.strokePath(segs, style, opts.Jitter, float64(i))
	}

	for _, s := range sc.Grid.Slots {
		if s.Addon != "" {
			c.addon(s)
		}
	}

	slog.Debug("map rasterized", "width", w, "height", h, "cells", len(sc.Grid.Slots), "paths", len(sc.Paths))
	return img, nil
}

type canvas struct {
	img    *image.RGBA
	dc     *gg.Context
	scale  float64
	noise  opensimplex.Noise
	label  font.Face
	letter font.Face
}

func (c *canvas) terrainColor(p world.Palette, t world.Terrain) color.RGBA {
	if col, err := ParseColor(p[t]); err == nil {
		return col
	}
	if col, err := ParseColor(world.DefaultColors[t]); err == nil {
		return col
	}
	return unknownFill
}

// paper fills the image with the paper colour, modulated by fractal noise.
func (c *canvas) paper(grain float64) {
	b := c.img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			col := PaperColor
			if grain > 0 {
				col = shade(col, 1+grainAt(c.noise, float64(x), float64(y))*grain)
			}
			c.img.SetRGBA(x, y, col)
		}
	}
}

func (c *canvas) hex(pts [6]world.Point) {
	c.dc.MoveTo(pts[0].X, pts[0].Y)
	for _, p := range pts[1:] {
		c.dc.LineTo(p.X, p.Y)
	}
	c.dc.ClosePath()
}

// strokePath draws smoothed segments as quadratic curves. Interior points
// are nudged by noise so the line looks hand drawn; both ends stay on
// their cell centres.
func (c *canvas) strokePath(segs []world.Segment, style pathStyle, jitter, salt float64) {
	if len(segs) == 0 {
		return
	}
	first, last := segs[0].From, segs[len(segs)-1].To
	nudge := func(p world.Point) world.Point {
		if jitter <= 0 || p == first || p == last {
			return p
		}
		dx, dy := wobble(c.noise, p.X, p.Y, salt)
		return world.Point{X: p.X + dx*jitter, Y: p.Y + dy*jitter}
	}

	c.dc.SetRGBA(float64(style.color.R)/255, float64(style.color.G)/255, float64(style.color.B)/255, style.alpha)
	if len(segs) == 1 && first == last {
		c.dc.DrawCircle(first.X, first.Y, style.width/2)
		c.dc.Fill()
		return
	}

	c.dc.MoveTo(first.X, first.Y)
	for _, s := range segs {
		to := nudge(s.To)
		if s.Curved && s.Ctrl != nil {
			ctrl := nudge(*s.Ctrl)
			c.dc.QuadraticTo(ctrl.X, ctrl.Y, to.X, to.Y)
			continue
		}
		c.dc.LineTo(to.X, to.Y)
	}
	c.dc.SetLineWidth(style.width * c.scale)
	c.dc.Stroke()
}

// addon draws a lettered marker above the cell centre with the label
// beneath it.
func (c *canvas) addon(s *world.Slot) {
	cx, cy := s.X, s.Y-markerLift
	c.dc.SetColor(InkColor)
	c.dc.DrawCircle(cx, cy, markerRadius)
	c.dc.Fill()

	// Text is placed in output pixels so glyphs are not resampled.
	c.dc.Push()
	c.dc.Identity()
	defer c.dc.Pop()

	c.dc.SetFontFace(c.letter)
	c.dc.SetColor(color.White)
	c.dc.DrawStringAnchored(string([]rune(s.Addon)[:1]), cx*c.scale, cy*c.scale, 0.5, 0.35)

	if s.Label == "" {
		return
	}
	lx, ly := s.X*c.scale, (s.Y+labelDrop)*c.scale
	c.dc.SetFontFace(c.label)
	for _, o := range [][2]float64{{-1, 0}, {1, 0}, {0, -1}, {0, 1}} {
		c.dc.DrawStringAnchored(s.Label, lx+o[0], ly+o[1], 0.5, 1)
	}
	c.dc.SetColor(InkColor)
	c.dc.DrawStringAnchored(s.Label, lx, ly, 0.5, 1)
}
