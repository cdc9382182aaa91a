// Package mapio reads and writes map documents: the editor's CSV layout,
// schema-checked JSON, zstd-compressed JSON and the SQLite map package.
package mapio

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/talgya/hexcrawl/internal/persistence"
	"github.com/talgya/hexcrawl/internal/world"
)

// ReadStats counts what a read accepted and skipped.
type ReadStats struct {
	Cells   int
	Paths   int
	Skipped int
}

// Format is an on-disk map encoding.
type Format string

const (
	FormatCSV   Format = "csv"
	FormatJSON  Format = "json"
	FormatZstd  Format = "zst"
	FormatHexDB Format = "hexdb"
)

// ErrUnknownFormat is returned for an unrecognised file extension.
var ErrUnknownFormat = errors.New("unknown map file format")

// FormatFor picks the format from a file name.
func FormatFor(path string) (Format, error) {
	name := strings.ToLower(filepath.Base(path))
	switch {
	case strings.HasSuffix(name, ".csv"):
		return FormatCSV, nil
	case strings.HasSuffix(name, ".json"):
		return FormatJSON, nil
	case strings.HasSuffix(name, ".zst"):
		return FormatZstd, nil
	case strings.HasSuffix(name, ".hexdb"):
		return FormatHexDB, nil
	}
	return "", fmt.Errorf("%w: %s", ErrUnknownFormat, path)
}

// ParseFormat accepts a bare format name such as "csv" or ".hexdb".
func ParseFormat(name string) (Format, error) {
	f := Format(strings.TrimPrefix(strings.ToLower(strings.TrimSpace(name)), "."))
	switch f {
	case FormatCSV, FormatJSON, FormatZstd, FormatHexDB:
		return f, nil
	}
	return "", fmt.Errorf("%w: %s", ErrUnknownFormat, name)
}

// ContentType returns the MIME type served for a format.
func (f Format) ContentType() string {
	switch f {
	case FormatCSV:
		return "text/csv"
	case FormatJSON:
		return "application/json"
	case FormatZstd:
		return "application/zstd"
	case FormatHexDB:
		return "application/vnd.sqlite3"
	}
	return "application/octet-stream"
}

// Encode writes doc to w. A map package is built in a temporary file first.
func Encode(w io.Writer, f Format, doc world.Document) error {
	switch f {
	case FormatCSV:
		return WriteCSV(w, doc)
	case FormatJSON:
		return WriteJSON(w, doc)
	case FormatZstd:
		return WriteZstd(w, doc)
	case FormatHexDB:
		dir, err := os.MkdirTemp("", "hexcrawl-export-")
		if err != nil {
			return err
		}
		defer os.RemoveAll(dir)
		path := filepath.Join(dir, "map.hexdb")
		if err := writePackage(path, doc); err != nil {
			return err
		}
		pkg, err := os.Open(path)
		if err != nil {
			return err
		}
		defer pkg.Close()
		_, err = io.Copy(w, pkg)
		return err
	}
	return fmt.Errorf("%w: %s", ErrUnknownFormat, f)
}

// Decode reads a document from r.
func Decode(r io.Reader, f Format) (world.Document, ReadStats, error) {
	var (
		doc world.Document
		err error
	)
	switch f {
	case FormatCSV:
		return ReadCSV(r)
	case FormatJSON:
		doc, err = ReadJSON(r)
	case FormatZstd:
		doc, err = ReadZstd(r)
	case FormatHexDB:
		doc, err = readPackageFrom(r)
	default:
		err = fmt.Errorf("%w: %s", ErrUnknownFormat, f)
	}
	if err != nil {
		return world.Document{}, ReadStats{}, err
	}
	return doc, statsOf(doc), nil
}

// WriteFile writes doc to path in the format its extension names and
// returns the size of the written file.
func WriteFile(path string, doc world.Document) (int64, error) {
	format, err := FormatFor(path)
	if err != nil {
		return 0, err
	}

	if format == FormatHexDB {
		if err := writePackage(path, doc); err != nil {
			return 0, err
		}
		return fileSize(path)
	}

	f, err := os.Create(path)
	if err != nil {
		return 0, fmt.Errorf("create %s: %w", path, err)
	}
	err = Encode(f, format, doc)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return 0, fmt.Errorf("write %s: %w", path, err)
	}
	return fileSize(path)
}

// ReadFile reads a document from path in the format its extension names.
func ReadFile(path string) (world.Document, ReadStats, error) {
	format, err := FormatFor(path)
	if err != nil {
		return world.Document{}, ReadStats{}, err
	}

	if format == FormatHexDB {
		if _, err := os.Stat(path); err != nil {
			return world.Document{}, ReadStats{}, fmt.Errorf("open %s: %w", path, err)
		}
		doc, err := readPackage(path)
		if err != nil {
			return world.Document{}, ReadStats{}, err
		}
		return doc, statsOf(doc), nil
	}

	f, err := os.Open(path)
	if err != nil {
		return world.Document{}, ReadStats{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	doc, stats, err := Decode(f, format)
	if err != nil {
		return world.Document{}, ReadStats{}, fmt.Errorf("read %s: %w", path, err)
	}
	return doc, stats, nil
}

// writePackage replaces any file at path with a fresh map package.
func writePackage(path string, doc world.Document) error {
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("replace %s: %w", path, err)
	}
	db, err := persistence.Open(path)
	if err != nil {
		return err
	}
	if err := db.SaveDocument(doc); err != nil {
		db.Close()
		return err
	}
	return db.Close()
}

func readPackage(path string) (world.Document, error) {
	db, err := persistence.Open(path)
	if err != nil {
		return world.Document{}, err
	}
	defer db.Close()
	return db.LoadDocument()
}

// readPackageFrom spools an uploaded map package to disk so SQLite can
// open it.
func readPackageFrom(r io.Reader) (world.Document, error) {
	dir, err := os.MkdirTemp("", "hexcrawl-import-")
	if err != nil {
		return world.Document{}, err
	}
	defer os.RemoveAll(dir)
	path := filepath.Join(dir, "map.hexdb")
	f, err := os.Create(path)
	if err != nil {
		return world.Document{}, err
	}
	_, err = io.Copy(f, r)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return world.Document{}, fmt.Errorf("spool map package: %w", err)
	}
	return readPackage(path)
}

func statsOf(doc world.Document) ReadStats {
	return ReadStats{Cells: len(doc.Cells), Paths: len(doc.Paths)}
}

func fileSize(path string) (int64, error) {
	fi, err := os.Stat(path)
	if err != nil {
		return 0, err
	}
	return fi.Size(), nil
}
