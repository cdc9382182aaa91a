// Package history keeps a bounded undo/redo record of editor snapshots.
// Each snapshot is a full copy of the editable map, so undo and redo always
// rebuild from scratch rather than patching the live grid.
package history

import (
	"fmt"
	"log/slog"

	"github.com/talgya/hexcrawl/internal/world"
)

// DefaultLimit is the number of snapshots kept on the undo stack.
const DefaultLimit = 50

// Snapshot is an immutable copy of everything an undo step restores.
type Snapshot struct {
	HexSize string             `json:"hex_size"`
	Hexes   []world.CellRecord `json:"hexes"`
	Paths   []world.Path       `json:"paths"`
	Colors  world.Palette      `json:"colors"`
}

// Clone returns a deep copy of the snapshot.
func (s Snapshot) Clone() Snapshot {
	out := Snapshot{
		HexSize: s.HexSize,
		Hexes:   append([]world.CellRecord(nil), s.Hexes...),
		Colors:  s.Colors.Clone(),
	}
	if s.Paths != nil {
		out.Paths = make([]world.Path, len(s.Paths))
		for i, p := range s.Paths {
			out.Paths[i] = p.Clone()
		}
	}
	return out
}

// State is the editable document the manager snapshots and restores.
type State interface {
	Capture() Snapshot
	Apply(Snapshot) error
}

// Manager holds the undo and redo stacks.
type Manager struct {
	limit int
	state State
	undo  []Snapshot
	redo  []Snapshot
}

// New creates a manager over state. A limit below 1 uses DefaultLimit.
func New(limit int, state State) *Manager {
	if limit < 1 {
		limit = DefaultLimit
	}
	return &Manager{limit: limit, state: state}
}

// Save pushes the current state, clears the redo stack and drops the oldest
// snapshot once the stack exceeds the limit.
func (m *Manager) Save() {
	m.undo = append(m.undo, m.state.Capture().Clone())
	m.redo = m.redo[:0]
	if over := len(m.undo) - m.limit; over > 0 {
		m.undo = append(m.undo[:0], m.undo[over:]...)
	}
	slog.Debug("history saved", "undo", len(m.undo))
}

// Undo restores the previous snapshot. The first snapshot is the baseline
// and is never undone. Returns false when there is nothing to undo. The
// stacks only move once the state has accepted the snapshot.
func (m *Manager) Undo() (bool, error) {
	if len(m.undo) <= 1 {
		return false, nil
	}
	if err := m.state.Apply(m.undo[len(m.undo)-2].Clone()); err != nil {
		return false, fmt.Errorf("undo: %w", err)
	}
	top := m.undo[len(m.undo)-1]
	m.undo = m.undo[:len(m.undo)-1]
	m.redo = append(m.redo, top)
	return true, nil
}

// Redo re-applies the most recently undone snapshot. Returns false when
// there is nothing to redo.
func (m *Manager) Redo() (bool, error) {
	if len(m.redo) == 0 {
		return false, nil
	}
	next := m.redo[len(m.redo)-1]
	if err := m.state.Apply(next.Clone()); err != nil {
		return false, fmt.Errorf("redo: %w", err)
	}
	m.redo = m.redo[:len(m.redo)-1]
	m.undo = append(m.undo, next)
	return true, nil
}

// CanUndo reports whether Undo would change anything.
func (m *Manager) CanUndo() bool { return len(m.undo) > 1 }

// CanRedo reports whether Redo would change anything.
func (m *Manager) CanRedo() bool { return len(m.redo) > 0 }

// Len returns the undo stack depth.
func (m *Manager) Len() int { return len(m.undo) }

// RedoLen returns the redo stack depth.
func (m *Manager) RedoLen() int { return len(m.redo) }

// Top returns a copy of the current snapshot, if any.
func (m *Manager) Top() (Snapshot, bool) {
	if len(m.undo) == 0 {
		return Snapshot{}, false
	}
	return m.undo[len(m.undo)-1].Clone(), true
}

// Reset empties both stacks.
func (m *Manager) Reset() {
	m.undo = nil
	m.redo = nil
}
