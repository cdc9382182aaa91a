package mapio

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/talgya/hexcrawl/internal/world"
)

// CSV framing markers.
const (
	metadataTag   = "metadata"
	hexSizeKey    = "hexSize"
	pathsSection  = "SECTION_PATHS"
	pathTag       = "path"
	cellHeaderRow = "row"
)

var cellHeader = []string{"row", "col", "terrain", "addon", "label"}

// WriteCSV writes doc in the editor's CSV layout: a metadata line, the cell
// table, then the path section.
func WriteCSV(w io.Writer, doc world.Document) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{metadataTag, hexSizeKey, doc.HexSize}); err != nil {
		return fmt.Errorf("write csv metadata: %w", err)
	}
	if err := cw.Write(cellHeader); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, c := range doc.Cells {
		rec := []string{
			strconv.Itoa(c.Row),
			strconv.Itoa(c.Col),
			string(c.Terrain),
			c.Addon,
			c.Label,
		}
		if err := cw.Write(rec); err != nil {
			return fmt.Errorf("write csv cell %d,%d: %w", c.Row, c.Col, err)
		}
	}
	if err := cw.Write([]string{pathsSection}); err != nil {
		return fmt.Errorf("write csv paths: %w", err)
	}
	for _, p := range doc.Paths {
		if err := cw.Write([]string{pathTag, p.Type, p.Nodes}); err != nil {
			return fmt.Errorf("write csv path: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// ReadCSV parses the editor's CSV layout. Malformed lines are skipped and
// counted; only an I/O failure is an error. A missing metadata line leaves
// HexSize empty.
func ReadCSV(r io.Reader) (world.Document, ReadStats, error) {
	var (
		doc      world.Document
		stats    ReadStats
		inPaths  bool
		lineNo   int
		sawFirst bool
	)

	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	cr.TrimLeadingSpace = true

	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		lineNo++
		if err != nil {
			var perr *csv.ParseError
			if errors.As(err, &perr) {
				slog.Debug("csv: skipping unparsable line", "line", perr.Line, "error", perr.Err)
				stats.Skipped++
				continue
			}
			return doc, stats, fmt.Errorf("read csv: %w", err)
		}
		for i := range rec {
			rec[i] = strings.TrimSpace(rec[i])
		}

		if !sawFirst {
			sawFirst = true
			if len(rec) >= 3 && rec[0] == metadataTag && rec[1] == hexSizeKey {
				doc.HexSize = rec[2]
				continue
			}
		}
		if len(rec) == 0 || (len(rec) == 1 && rec[0] == "") {
			continue
		}
		if rec[0] == cellHeaderRow && !inPaths {
			continue
		}
		if len(rec) == 1 && rec[0] == pathsSection {
			inPaths = true
			continue
		}

		if inPaths {
			if len(rec) < 3 || rec[0] != pathTag {
				stats.Skipped++
				continue
			}
			doc.Paths = append(doc.Paths, world.PathRecord{Type: rec[1], Nodes: rec[2]})
			stats.Paths++
			continue
		}

		// A path line before the section marker is ignored, not misread as
		// a cell.
		if rec[0] == pathTag {
			stats.Skipped++
			continue
		}
		cell, ok := parseCell(rec)
		if !ok {
			stats.Skipped++
			continue
		}
		doc.Cells = append(doc.Cells, cell)
		stats.Cells++
	}

	slog.Debug("csv read", "lines", lineNo, "cells", stats.Cells, "paths", stats.Paths, "skipped", stats.Skipped)
	return doc, stats, nil
}

func parseCell(rec []string) (world.CellRecord, bool) {
	if len(rec) < 3 {
		return world.CellRecord{}, false
	}
	row, err := strconv.Atoi(rec[0])
	if err != nil {
		return world.CellRecord{}, false
	}
	col, err := strconv.Atoi(rec[1])
	if err != nil {
		return world.CellRecord{}, false
	}
	c := world.CellRecord{Row: row, Col: col, Terrain: world.Terrain(rec[2])}
	if len(rec) > 3 {
		c.Addon = rec[3]
	}
	if len(rec) > 4 {
		c.Label = rec[4]
	}
	return c, true
}
