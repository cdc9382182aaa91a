// Package api serves one editing session over HTTP. Every intent is a JSON
// request handled under a single lock; viewers follow the rendering surface
// over a websocket. Exports are rate limited per client.
package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/talgya/hexcrawl/internal/config"
	"github.com/talgya/hexcrawl/internal/editor"
	"github.com/talgya/hexcrawl/internal/mapio"
	"github.com/talgya/hexcrawl/internal/render"
	"github.com/talgya/hexcrawl/internal/world"
)

// maxUpload bounds import bodies.
const maxUpload = 32 << 20

// FormatPNG is the image export, served next to the map formats.
const FormatPNG = "png"

// Server serves one editing session over HTTP.
type Server struct {
	ID   string
	Addr string

	mu      sync.Mutex
	session *editor.Session

	hub         *Hub
	exports     *RateLimiter
	corsOrigins []string
	pngOptions  render.Options
	upgrader    websocket.Upgrader
}

// New wraps session. hub must be the session's renderer for viewers to
// receive edits.
func New(session *editor.Session, hub *Hub, cfg config.ServerConfig) *Server {
	return &Server{
		ID:          uuid.NewString(),
		Addr:        cfg.Addr,
		session:     session,
		hub:         hub,
		exports:     NewRateLimiter(cfg.ExportPerHour, time.Hour),
		corsOrigins: cfg.CORSOrigins,
		pngOptions:  render.DefaultOptions(),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4 * 1024,
			WriteBufferSize: 64 * 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

// Handler returns the routed HTTP handler.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(requestLogger)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "session": s.ID})
		})
		r.Get("/state", s.handleState)
		r.Get("/ws", s.handleWS)

		r.Post("/generate", s.handleGenerate)
		r.Post("/terrain", s.handleTerrain)
		r.Post("/addon", s.handleAddon)
		r.Post("/addon/remove", s.handleRemoveAddon)
		r.Post("/label", s.handleLabel)
		r.Post("/paths", s.handleDrawPath)
		r.Delete("/paths/{id}", s.handleDeletePath)
		r.Put("/palette/{terrain}", s.handleColor)
		r.Put("/hex-size", s.handleHexSize)
		r.Put("/clustering", s.handleClustering)

		r.Get("/cluster/{row}/{col}", s.handleCluster)
		r.Post("/selection", s.handleSelect)
		r.Post("/selection/cluster/{row}/{col}", s.handleSelectCluster)
		r.Delete("/selection", s.handleClearSelection)

		r.Post("/undo", s.handleUndo)
		r.Post("/redo", s.handleRedo)

		r.Get("/export/{format}", RateLimitMiddleware(s.exports, s.handleExport))
		r.Post("/import/{format}", s.handleImport)
	})

	return corsMiddleware(s.corsOrigins, r)
}

// Start begins serving in a goroutine and returns the server so the caller
// can shut it down.
func (s *Server) Start() *http.Server {
	srv := &http.Server{
		Addr:              s.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	slog.Info("HTTP API starting", "addr", s.Addr, "session", s.ID)

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("HTTP server error", "error", err)
		}
	}()
	return srv
}

// corsMiddleware adds CORS headers for allowed frontend origins.
// Localhost dev servers are always allowed.
func corsMiddleware(origins []string, next http.Handler) http.Handler {
	allowedOrigins := map[string]bool{
		"http://localhost:5173": true,
		"http://localhost:4173": true,
		"http://localhost:3000": true,
	}
	for _, origin := range origins {
		origin = strings.TrimSpace(origin)
		if origin != "" {
			allowedOrigins[origin] = true
		}
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if allowedOrigins[origin] {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		}
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		slog.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start),
		)
	})
}

// StateView is the full editor state as served to clients.
type StateView struct {
	Session    string              `json:"session"`
	HexSize    string              `json:"hex_size"`
	Layout     world.Layout        `json:"layout"`
	Page       world.Page          `json:"page"`
	Clustering float64             `json:"clustering"`
	Cells      []world.Slot        `json:"cells"`
	Ghosts     []world.Ghost       `json:"ghosts"`
	Paths      []world.Path        `json:"paths"`
	Palette    world.Palette       `json:"palette"`
	Specs      []world.TerrainSpec `json:"specs"`
	Addons     []string            `json:"addons"`
	Selection  []world.OffsetCoord `json:"selection"`
	CanUndo    bool                `json:"can_undo"`
	CanRedo    bool                `json:"can_redo"`
	Stats      world.GrowthStats   `json:"stats"`
}

// state copies the session. Callers hold mu.
func (s *Server) state() *StateView {
	gen := s.session.GenConfig()
	v := &StateView{
		Session:    s.ID,
		HexSize:    s.session.HexSize(),
		Layout:     gen.Layout(),
		Page:       gen.Page,
		Clustering: gen.Clustering,
		Cells:      []world.Slot{},
		Ghosts:     []world.Ghost{},
		Paths:      s.session.Paths(),
		Palette:    s.session.Palette(),
		Specs:      s.session.Specs(),
		Addons:     s.session.Addons(),
		Selection:  s.session.Selection(),
		CanUndo:    s.session.CanUndo(),
		CanRedo:    s.session.CanRedo(),
		Stats:      s.session.Stats(),
	}
	if g := s.session.Grid(); g != nil {
		v.Layout = g.Layout
		v.Cells = make([]world.Slot, len(g.Slots))
		for i, slot := range g.Slots {
			v.Cells[i] = *slot
		}
		v.Ghosts = append(v.Ghosts, g.Ghosts...)
	}
	return v
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	v := s.state()
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, v)
}

// handleWS streams render events. The first frame is the full state.
func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	s.mu.Lock()
	id, frames := s.hub.subscribe()
	first, err := json.Marshal(Event{Type: EventState, State: s.state()})
	s.mu.Unlock()
	defer s.hub.unsubscribe(id)
	if err != nil {
		slog.Error("encode state", "error", err)
		return
	}
	slog.Info("viewer connected", "viewer", id, "viewers", s.hub.Clients())

	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
		if err := conn.WriteMessage(websocket.TextMessage, first); err != nil {
			return
		}
		for b := range frames {
			_ = conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
			if err := conn.WriteMessage(websocket.TextMessage, b); err != nil {
				return
			}
		}
		_ = conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseTryAgainLater, "fell behind"),
			time.Now().Add(time.Second))
	}()

	// Viewers only listen; reading detects the close.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
	s.hub.unsubscribe(id)
	select {
	case <-done:
	case <-time.After(500 * time.Millisecond):
	}
	slog.Info("viewer disconnected", "viewer", id)
}

type cellsRequest struct {
	Cells []world.OffsetCoord `json:"cells"`
}

type generateRequest struct {
	Terrains   []world.TerrainSpec `json:"terrains"`
	Clustering *float64            `json:"clustering,omitempty"`
}

type terrainRequest struct {
	Cells   []world.OffsetCoord `json:"cells"`
	Terrain world.Terrain       `json:"terrain"`
}

type addonRequest struct {
	Cells []world.OffsetCoord `json:"cells"`
	Addon string              `json:"addon"`
}

type labelRequest struct {
	Cells []world.OffsetCoord `json:"cells"`
	Label string              `json:"label"`
}

type pathRequest struct {
	Type  string              `json:"type"`
	Nodes []world.OffsetCoord `json:"nodes"`
}

type colorRequest struct {
	Color string `json:"color"`
}

type hexSizeRequest struct {
	Size      string `json:"size"`
	AutoApply *bool  `json:"auto_apply,omitempty"`
}

type clusteringRequest struct {
	Clustering float64 `json:"clustering"`
}

// edit runs fn under the session lock and answers with the new state.
func (s *Server) edit(w http.ResponseWriter, fn func() error) {
	s.mu.Lock()
	err := fn()
	v := s.state()
	s.mu.Unlock()
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, v)
}

func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	var req generateRequest
	if !decode(w, r, &req) {
		return
	}
	s.edit(w, func() error {
		if req.Clustering != nil {
			s.session.SetClustering(*req.Clustering)
		}
		specs := req.Terrains
		if len(specs) == 0 {
			specs = s.session.Specs()
		}
		_, err := s.session.Generate(specs)
		return err
	})
}

func (s *Server) handleTerrain(w http.ResponseWriter, r *http.Request) {
	var req terrainRequest
	if !decode(w, r, &req) {
		return
	}
	s.edit(w, func() error {
		_, err := s.session.SetTerrain(req.Cells, req.Terrain)
		return err
	})
}

func (s *Server) handleAddon(w http.ResponseWriter, r *http.Request) {
	var req addonRequest
	if !decode(w, r, &req) {
		return
	}
	s.edit(w, func() error {
		return s.session.PlaceAddon(req.Cells, req.Addon)
	})
}

func (s *Server) handleRemoveAddon(w http.ResponseWriter, r *http.Request) {
	var req cellsRequest
	if !decode(w, r, &req) {
		return
	}
	s.edit(w, func() error {
		return s.session.RemoveAddon(req.Cells)
	})
}

func (s *Server) handleLabel(w http.ResponseWriter, r *http.Request) {
	var req labelRequest
	if !decode(w, r, &req) {
		return
	}
	s.edit(w, func() error {
		_, err := s.session.SetLabel(req.Cells, req.Label)
		return err
	})
}

func (s *Server) handleDrawPath(w http.ResponseWriter, r *http.Request) {
	var req pathRequest
	if !decode(w, r, &req) {
		return
	}
	pt, err := world.ParsePathType(req.Type)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	s.mu.Lock()
	p, err := s.session.DrawPath(pt, req.Nodes)
	s.mu.Unlock()
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, p)
}

func (s *Server) handleDeletePath(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	s.edit(w, func() error {
		return s.session.DeletePath(id)
	})
}

func (s *Server) handleColor(w http.ResponseWriter, r *http.Request) {
	var req colorRequest
	if !decode(w, r, &req) {
		return
	}
	t := world.Terrain(chi.URLParam(r, "terrain"))
	s.edit(w, func() error {
		return s.session.SetColor(t, req.Color)
	})
}

func (s *Server) handleHexSize(w http.ResponseWriter, r *http.Request) {
	var req hexSizeRequest
	if !decode(w, r, &req) {
		return
	}
	s.edit(w, func() error {
		if req.AutoApply != nil {
			s.session.SetAutoApply(*req.AutoApply)
		}
		_, err := s.session.SetHexSize(req.Size)
		return err
	})
}

func (s *Server) handleClustering(w http.ResponseWriter, r *http.Request) {
	var req clusteringRequest
	if !decode(w, r, &req) {
		return
	}
	s.edit(w, func() error {
		s.session.SetClustering(req.Clustering)
		return nil
	})
}

func (s *Server) handleCluster(w http.ResponseWriter, r *http.Request) {
	origin, ok := coordParam(w, r)
	if !ok {
		return
	}
	s.mu.Lock()
	slots := s.session.Cluster(origin)
	cells := make([]world.OffsetCoord, len(slots))
	for i, slot := range slots {
		cells[i] = slot.Coord
	}
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, cellsRequest{Cells: cells})
}

func (s *Server) handleSelect(w http.ResponseWriter, r *http.Request) {
	var req cellsRequest
	if !decode(w, r, &req) {
		return
	}
	s.edit(w, func() error {
		s.session.Select(req.Cells...)
		return nil
	})
}

func (s *Server) handleSelectCluster(w http.ResponseWriter, r *http.Request) {
	origin, ok := coordParam(w, r)
	if !ok {
		return
	}
	s.edit(w, func() error {
		s.session.SelectCluster(origin)
		return nil
	})
}

func (s *Server) handleClearSelection(w http.ResponseWriter, r *http.Request) {
	s.edit(w, func() error {
		s.session.ClearSelection()
		return nil
	})
}

func (s *Server) handleUndo(w http.ResponseWriter, r *http.Request) {
	s.edit(w, func() error {
		_, err := s.session.Undo()
		return err
	})
}

func (s *Server) handleRedo(w http.ResponseWriter, r *http.Request) {
	s.edit(w, func() error {
		_, err := s.session.Redo()
		return err
	})
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "format")

	var (
		buf         bytes.Buffer
		contentType string
		ext         string
	)
	if strings.EqualFold(name, FormatPNG) {
		s.mu.Lock()
		sc := render.Scene{
			Page:    s.session.GenConfig().Page,
			Grid:    s.session.Grid(),
			Paths:   s.session.Paths(),
			Palette: s.session.Palette(),
		}
		err := render.EncodePNG(&buf, sc, s.pngOptions)
		s.mu.Unlock()
		if err != nil {
			writeErr(w, err)
			return
		}
		contentType, ext = "image/png", FormatPNG
	} else {
		format, err := mapio.ParseFormat(name)
		if err != nil {
			writeErr(w, err)
			return
		}
		s.mu.Lock()
		doc := s.session.Export()
		s.mu.Unlock()
		if err := mapio.Encode(&buf, format, doc); err != nil {
			writeErr(w, err)
			return
		}
		contentType, ext = format.ContentType(), string(format)
		if format == mapio.FormatZstd {
			ext = "json.zst"
		}
	}

	slog.Info("map exported", "format", ext, "size", humanize.Bytes(uint64(buf.Len())))
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", "hex-map."+ext))
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}

func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	format, err := mapio.ParseFormat(chi.URLParam(r, "format"))
	if err != nil {
		writeErr(w, err)
		return
	}
	doc, stats, err := mapio.Decode(http.MaxBytesReader(w, r.Body, maxUpload), format)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	s.mu.Lock()
	skipped, err := s.session.Import(doc)
	v := s.state()
	s.mu.Unlock()
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"state":         v,
		"skipped_lines": stats.Skipped,
		"skipped_paths": skipped,
	})
}

func coordParam(w http.ResponseWriter, r *http.Request) (world.OffsetCoord, bool) {
	row, err := strconv.Atoi(chi.URLParam(r, "row"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid row")
		return world.OffsetCoord{}, false
	}
	col, err := strconv.Atoi(chi.URLParam(r, "col"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid col")
		return world.OffsetCoord{}, false
	}
	return world.OffsetCoord{Row: row, Col: col}, true
}

func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxUpload))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return false
	}
	if len(bytes.TrimSpace(body)) == 0 {
		return true
	}
	if err := json.Unmarshal(body, v); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return false
	}
	return true
}

// writeErr maps session errors onto status codes.
func writeErr(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, editor.ErrUnknownPath):
		status = http.StatusNotFound
	case errors.Is(err, world.ErrNoTerrain),
		errors.Is(err, editor.ErrUnknownTerrain),
		errors.Is(err, editor.ErrUnknownAddon),
		errors.Is(err, editor.ErrEmptySelection),
		errors.Is(err, editor.ErrInvalidPath),
		errors.Is(err, editor.ErrInvalidHexSize),
		errors.Is(err, editor.ErrInvalidColor),
		errors.Is(err, mapio.ErrUnknownFormat),
		errors.Is(err, mapio.ErrSchema):
		status = http.StatusBadRequest
	default:
		slog.Error("request failed", "error", err)
	}
	writeError(w, status, err.Error())
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.Encode(data)
}
