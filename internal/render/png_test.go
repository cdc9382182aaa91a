package render

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/talgya/hexcrawl/internal/world"
)

func testScene() Scene {
	cfg := world.SmallTestConfig()
	grid := world.Restore(cfg, []world.CellRecord{
		{Row: 2, Col: 2, Terrain: world.TerrainPlains, Addon: "Town", Label: "Oakridge"},
	}, world.TerrainPlains)
	return Scene{
		Page:    cfg.Page,
		Grid:    grid,
		Palette: world.DefaultColors.Clone(),
		Paths: []world.Path{
			{ID: "r1", Type: world.PathRoad, Nodes: []world.OffsetCoord{{Row: 2, Col: 1}, {Row: 2, Col: 2}}},
		},
	}
}

func flat() Options {
	return Options{Scale: 2, Seed: 1}
}

func rasterize(t *testing.T, sc Scene, opts Options) *image.RGBA {
	t.Helper()
	img, err := Rasterize(sc, opts)
	if err != nil {
		t.Fatalf("Rasterize: %v", err)
	}
	return img
}

func near(a, b uint8, tol int) bool {
	d := int(a) - int(b)
	return d <= tol && d >= -tol
}

func TestRasterizeSize(t *testing.T) {
	img := rasterize(t, testScene(), flat())
	b := img.Bounds()
	if b.Dx() != 800 || b.Dy() != 600 {
		t.Fatalf("image = %dx%d, want 800x600", b.Dx(), b.Dy())
	}
}

func TestPaperGrain(t *testing.T) {
	img := rasterize(t, Scene{Page: world.Page{Width: 40, Height: 30}}, Options{Scale: 1, Grain: 0.04, Seed: 3})
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c := img.RGBAAt(x, y)
			if !near(c.R, PaperColor.R, 12) || !near(c.G, PaperColor.G, 12) || !near(c.B, PaperColor.B, 12) {
				t.Fatalf("pixel %d,%d = %v, too far from paper", x, y, c)
			}
		}
	}
}

func TestCellFill(t *testing.T) {
	sc := testScene()
	img := rasterize(t, sc, flat())
	want, _ := ParseColor(world.DefaultColors[world.TerrainPlains])

	slot := sc.Grid.Get(world.OffsetCoord{Row: 1, Col: 1})
	if slot == nil {
		t.Fatal("slot 1,1 missing")
	}
	got := img.RGBAAt(int(slot.X*2), int(slot.Y*2))
	if got != want {
		t.Fatalf("centre of 1,1 = %v, want %v", got, want)
	}
}

func TestCustomPalette(t *testing.T) {
	sc := testScene()
	sc.Palette[world.TerrainPlains] = "#123456"
	img := rasterize(t, sc, flat())

	slot := sc.Grid.Get(world.OffsetCoord{Row: 1, Col: 1})
	got := img.RGBAAt(int(slot.X*2), int(slot.Y*2))
	if got != (color.RGBA{0x12, 0x34, 0x56, 0xff}) {
		t.Fatalf("centre of 1,1 = %v, want #123456", got)
	}
}

func TestRoadStroke(t *testing.T) {
	sc := testScene()
	img := rasterize(t, sc, flat())

	a := sc.Grid.Layout.Center(world.OffsetCoord{Row: 2, Col: 1})
	b := sc.Grid.Layout.Center(world.OffsetCoord{Row: 2, Col: 2})
	mx, my := (a.X+b.X)/2*2, (a.Y+b.Y)/2*2
	if got := img.RGBAAt(int(mx), int(my)); got != RoadColor {
		t.Fatalf("road midpoint = %v, want %v", got, RoadColor)
	}
}

func TestAddonLabelInk(t *testing.T) {
	sc := testScene()
	img := rasterize(t, sc, flat())

	slot := sc.Grid.Get(world.OffsetCoord{Row: 2, Col: 2})
	cx := int(slot.X * 2)
	top := int((slot.Y + labelDrop) * 2)
	ink := 0
	for y := top; y < top+40; y++ {
		for x := cx - 60; x < cx+60; x++ {
			if c := img.RGBAAt(x, y); c.R < 64 && c.G < 64 && c.B < 64 {
				ink++
			}
		}
	}
	if ink == 0 {
		t.Fatal("no label ink below the addon")
	}

	marker := img.RGBAAt(cx, int((slot.Y-markerLift)*2)+int(markerRadius*2)-2)
	if marker != InkColor {
		t.Fatalf("marker disc pixel = %v, want ink", marker)
	}
}

func TestRiverIsTranslucent(t *testing.T) {
	sc := testScene()
	sc.Paths = []world.Path{
		{ID: "w1", Type: world.PathRiver, Nodes: []world.OffsetCoord{{Row: 1, Col: 1}, {Row: 1, Col: 2}}},
	}
	img := rasterize(t, sc, flat())

	a := sc.Grid.Layout.Center(world.OffsetCoord{Row: 1, Col: 1})
	got := img.RGBAAt(int((a.X+10)*2), int(a.Y*2))
	if got == RiverColor {
		t.Fatal("river painted opaque")
	}
	if !near(got.B, RiverColor.B, 40) || near(got.R, RiverColor.R, 4) {
		t.Fatalf("river pixel = %v, want a blend of %v over plains", got, RiverColor)
	}
}

func TestWobbleKeepsEnds(t *testing.T) {
	sc := testScene()
	sc.Paths = []world.Path{{ID: "r1", Type: world.PathRoad, Nodes: []world.OffsetCoord{
		{Row: 1, Col: 1}, {Row: 2, Col: 1}, {Row: 2, Col: 2}, {Row: 3, Col: 2},
	}}}
	img := rasterize(t, sc, Options{Scale: 2, Jitter: 3, Seed: 7})

	for _, n := range []world.OffsetCoord{{Row: 1, Col: 1}, {Row: 3, Col: 2}} {
		p := sc.Grid.Layout.Center(n)
		if got := img.RGBAAt(int(p.X*2), int(p.Y*2)); got != RoadColor {
			t.Errorf("road end at %v = %v, want %v", n, got, RoadColor)
		}
	}
}

func TestEmptyScene(t *testing.T) {
	img := rasterize(t, Scene{Page: world.Page{Width: 10, Height: 10}}, Options{})
	if got := img.RGBAAt(5, 5); got != PaperColor {
		t.Fatalf("flat paper = %v, want %v", got, PaperColor)
	}
}

func TestEncodePNG(t *testing.T) {
	var buf bytes.Buffer
	if err := EncodePNG(&buf, testScene(), DefaultOptions()); err != nil {
		t.Fatalf("EncodePNG: %v", err)
	}
	img, err := png.Decode(&buf)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if img.Bounds().Dx() != 800 {
		t.Fatalf("width = %d", img.Bounds().Dx())
	}
}

func TestParseColor(t *testing.T) {
	tests := []struct {
		in   string
		want color.RGBA
		ok   bool
	}{
		{"#4fc3f7", color.RGBA{0x4f, 0xc3, 0xf7, 0xff}, true},
		{"#FFF", color.RGBA{0xff, 0xff, 0xff, 0xff}, true},
		{" #abc ", color.RGBA{0xaa, 0xbb, 0xcc, 0xff}, true},
		{"#12345", color.RGBA{}, false},
		{"#gggggg", color.RGBA{}, false},
		{"", color.RGBA{}, false},
	}
	for _, tt := range tests {
		got, err := ParseColor(tt.in)
		if (err == nil) != tt.ok {
			t.Errorf("ParseColor(%q) err = %v, want ok=%v", tt.in, err, tt.ok)
			continue
		}
		if tt.ok && got != tt.want {
			t.Errorf("ParseColor(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
