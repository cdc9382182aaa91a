package editor

import (
	"fmt"
	"strings"

	"github.com/talgya/hexcrawl/internal/world"
)

// Palette returns a copy of the terrain colours.
func (s *Session) Palette() world.Palette {
	return s.palette.Clone()
}

// SetColor changes the colour of a terrain and records an undo step.
func (s *Session) SetColor(t world.Terrain, color string) error {
	if !s.terrains.Has(t) {
		return fmt.Errorf("set colour: %w: %q", ErrUnknownTerrain, t)
	}
	color = strings.ToLower(strings.TrimSpace(color))
	if !validColor(color) {
		return fmt.Errorf("set colour: %w: %q", ErrInvalidColor, color)
	}
	s.palette[t] = color
	s.render.SetPalette(s.palette.Clone())
	s.SaveHistory()
	return nil
}

func validColor(c string) bool {
	if len(c) != 4 && len(c) != 7 || c[0] != '#' {
		return false
	}
	for _, r := range c[1:] {
		if !strings.ContainsRune("0123456789abcdef", r) {
			return false
		}
	}
	return true
}
