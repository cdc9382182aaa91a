package api

import (
	"encoding/json"
	"log/slog"
	"sync"

	"github.com/talgya/hexcrawl/internal/editor"
	"github.com/talgya/hexcrawl/internal/world"
)

var _ editor.Renderer = (*Hub)(nil)

// Render event types sent to viewers.
const (
	EventState      = "state"
	EventReset      = "reset"
	EventCell       = "cell"
	EventGhost      = "ghost"
	EventAddon      = "addon"
	EventPath       = "path"
	EventRemovePath = "remove_path"
	EventPalette    = "palette"
)

// Event is one render instruction, encoded as a JSON text frame.
type Event struct {
	Type     string          `json:"type"`
	Layout   *world.Layout   `json:"layout,omitempty"`
	Slot     *world.Slot     `json:"slot,omitempty"`
	Ghost    *world.Ghost    `json:"ghost,omitempty"`
	Path     *world.Path     `json:"path,omitempty"`
	Segments []world.Segment `json:"segments,omitempty"`
	ID       string          `json:"id,omitempty"`
	Palette  world.Palette   `json:"palette,omitempty"`
	State    *StateView      `json:"state,omitempty"`
}

// clientBuffer is how many frames a viewer may fall behind before it is
// disconnected. A reconnecting viewer receives the full state again.
const clientBuffer = 4096

// Hub is the websocket rendering surface: it implements editor.Renderer by
// broadcasting every draw call to the connected viewers.
type Hub struct {
	mu      sync.Mutex
	clients map[uint64]chan []byte
	nextID  uint64
}

// NewHub creates a hub with no viewers.
func NewHub() *Hub {
	return &Hub{clients: make(map[uint64]chan []byte)}
}

// subscribe registers a viewer and returns its id and frame channel.
func (h *Hub) subscribe() (uint64, chan []byte) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.nextID++
	ch := make(chan []byte, clientBuffer)
	h.clients[h.nextID] = ch
	return h.nextID, ch
}

func (h *Hub) unsubscribe(id uint64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if ch, ok := h.clients[id]; ok {
		delete(h.clients, id)
		close(ch)
	}
}

// Clients returns the number of connected viewers.
func (h *Hub) Clients() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

func (h *Hub) broadcast(ev Event) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if len(h.clients) == 0 {
		return
	}
	b, err := json.Marshal(ev)
	if err != nil {
		slog.Error("encode render event", "type", ev.Type, "error", err)
		return
	}
	for id, ch := range h.clients {
		select {
		case ch <- b:
		default:
			slog.Warn("viewer too slow, disconnecting", "viewer", id)
			delete(h.clients, id)
			close(ch)
		}
	}
}

// Reset tells viewers to clear every layer.
func (h *Hub) Reset(l world.Layout) {
	h.broadcast(Event{Type: EventReset, Layout: &l})
}

// DrawCell draws or redraws one real cell.
func (h *Hub) DrawCell(s *world.Slot) {
	cp := *s
	h.broadcast(Event{Type: EventCell, Slot: &cp})
}

// DrawGhost draws one ghost cell.
func (h *Hub) DrawGhost(g world.Ghost) {
	h.broadcast(Event{Type: EventGhost, Ghost: &g})
}

// SetAddon draws the addon overlay of a cell; an empty addon removes it.
func (h *Hub) SetAddon(s *world.Slot) {
	cp := *s
	h.broadcast(Event{Type: EventAddon, Slot: &cp})
}

// DrawPath draws a path from its smoothed segments.
func (h *Hub) DrawPath(p world.Path, segs []world.Segment) {
	h.broadcast(Event{Type: EventPath, Path: &p, Segments: segs})
}

// RemovePath removes a drawn path.
func (h *Hub) RemovePath(id string) {
	h.broadcast(Event{Type: EventRemovePath, ID: id})
}

// SetPalette updates the terrain colours.
func (h *Hub) SetPalette(p world.Palette) {
	h.broadcast(Event{Type: EventPalette, Palette: p})
}
