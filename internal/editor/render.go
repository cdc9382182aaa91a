package editor

import "github.com/talgya/hexcrawl/internal/world"

// Renderer is the drawing surface the session projects its state onto. The
// session never reads anything back from it.
type Renderer interface {
	// Reset clears every layer and sets the geometry for what follows.
	Reset(layout world.Layout)
	DrawCell(s *world.Slot)
	DrawGhost(g world.Ghost)
	// SetAddon draws the addon overlay of s, or removes it when s.Addon is
	// empty.
	SetAddon(s *world.Slot)
	DrawPath(p world.Path, segs []world.Segment)
	RemovePath(id string)
	SetPalette(p world.Palette)
}

// NopRenderer discards everything.
type NopRenderer struct{}

func (NopRenderer) Reset(world.Layout)                   {}
func (NopRenderer) DrawCell(*world.Slot)                 {}
func (NopRenderer) DrawGhost(world.Ghost)                {}
func (NopRenderer) SetAddon(*world.Slot)                 {}
func (NopRenderer) DrawPath(world.Path, []world.Segment) {}
func (NopRenderer) RemovePath(string)                    {}
func (NopRenderer) SetPalette(world.Palette)             {}
