package editor

import (
	"fmt"
	"strings"

	"github.com/talgya/hexcrawl/internal/world"
)

// DefaultAddons is the built-in addon catalog.
var DefaultAddons = []string{"Town", "City", "Dungeon", "Tower", "Mountain", "Encampment"}

// AddonNone removes an addon when placed.
const AddonNone = "None"

// Addons returns the addon catalog.
func (s *Session) Addons() []string {
	return append([]string(nil), s.addons...)
}

// canonicalAddon matches name against the catalog case-insensitively.
func (s *Session) canonicalAddon(name string) (string, bool) {
	for _, a := range s.addons {
		if strings.EqualFold(a, name) {
			return a, true
		}
	}
	return "", false
}

// PlaceAddon puts addon on cells, or the selection when cells is empty.
// A single cell is labelled with the addon's name; several cells get an
// empty label. "None" or "" removes the addon instead.
func (s *Session) PlaceAddon(cells []world.OffsetCoord, addon string) error {
	addon = strings.TrimSpace(addon)
	if addon == "" || strings.EqualFold(addon, AddonNone) {
		return s.RemoveAddon(cells)
	}
	name, ok := s.canonicalAddon(addon)
	if !ok {
		return fmt.Errorf("place addon: %w: %q", ErrUnknownAddon, addon)
	}
	targets, err := s.targets(cells)
	if err != nil {
		return err
	}

	label := name
	if len(targets) > 1 {
		label = ""
	}
	for _, slot := range targets {
		slot.Addon = name
		slot.Label = label
		s.render.SetAddon(slot)
	}
	s.SaveHistory()
	s.ClearSelection()
	return nil
}

// RemoveAddon clears the addon and label of cells, or of the selection
// when cells is empty.
func (s *Session) RemoveAddon(cells []world.OffsetCoord) error {
	targets, err := s.targets(cells)
	if err != nil {
		return err
	}
	for _, slot := range targets {
		slot.Addon = ""
		slot.Label = ""
		s.render.SetAddon(slot)
	}
	s.SaveHistory()
	s.ClearSelection()
	return nil
}

// SetLabel changes the label of every target cell that carries an addon.
// Returns how many labels changed; history is saved only if any did.
func (s *Session) SetLabel(cells []world.OffsetCoord, label string) (int, error) {
	targets, err := s.targets(cells)
	if err != nil {
		return 0, err
	}
	n := 0
	for _, slot := range targets {
		if slot.Addon == "" || slot.Label == label {
			continue
		}
		slot.Label = label
		s.render.SetAddon(slot)
		n++
	}
	if n > 0 {
		s.SaveHistory()
	}
	return n, nil
}
