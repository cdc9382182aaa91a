// Package persistence stores a map document as a self-contained SQLite
// file, the ".hexdb" map package. A package is written and read only when
// the user exports or imports one.
package persistence

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/talgya/hexcrawl/internal/world"
)

// SchemaVersion is written to every package.
const SchemaVersion = 1

// Metadata keys.
const (
	MetaHexSize = "hex_size"
	MetaVersion = "schema_version"
	MetaSavedAt = "saved_at"
)

// ErrNotAMapPackage is returned when a database holds no saved map.
var ErrNotAMapPackage = errors.New("not a hexcrawl map package")

// DB wraps a SQLite connection to one map package.
type DB struct {
	conn *sqlx.DB
}

// Open opens or creates a map package at the given path.
func Open(path string) (*DB, error) {
	conn, err := sqlx.Open("sqlite", path+"?_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	db := &DB{conn: conn}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return db, nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

func (db *DB) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS cells (
		"row" INTEGER NOT NULL,
		"col" INTEGER NOT NULL,
		terrain TEXT NOT NULL,
		addon TEXT NOT NULL DEFAULT '',
		label TEXT NOT NULL DEFAULT '',
		PRIMARY KEY ("row", "col")
	);

	CREATE TABLE IF NOT EXISTS paths (
		seq INTEGER PRIMARY KEY,
		type TEXT NOT NULL,
		nodes TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS map_meta (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);
	`
	_, err := db.conn.Exec(schema)
	return err
}

// SaveCells writes all cells (full replace).
func (db *DB) SaveCells(cells []world.CellRecord) error {
	tx, err := db.conn.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM cells"); err != nil {
		return err
	}

	stmt, err := tx.Preparex(`INSERT OR REPLACE INTO cells
		("row", "col", terrain, addon, label)
		VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, c := range cells {
		if _, err := stmt.Exec(c.Row, c.Col, string(c.Terrain), c.Addon, c.Label); err != nil {
			return fmt.Errorf("insert cell %d,%d: %w", c.Row, c.Col, err)
		}
	}

	return tx.Commit()
}

// SavePaths writes all paths in drawing order (full replace).
func (db *DB) SavePaths(paths []world.PathRecord) error {
	tx, err := db.conn.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM paths"); err != nil {
		return err
	}

	for i, p := range paths {
		_, err := tx.Exec("INSERT INTO paths (seq, type, nodes) VALUES (?, ?, ?)", i, p.Type, p.Nodes)
		if err != nil {
			return fmt.Errorf("insert path %d: %w", i, err)
		}
	}

	return tx.Commit()
}

// SaveMeta stores a key-value pair in map metadata.
func (db *DB) SaveMeta(key, value string) error {
	_, err := db.conn.Exec(
		"INSERT OR REPLACE INTO map_meta (key, value) VALUES (?, ?)",
		key, value,
	)
	return err
}

// GetMeta retrieves a metadata value.
func (db *DB) GetMeta(key string) (string, error) {
	var value string
	err := db.conn.Get(&value, "SELECT value FROM map_meta WHERE key = ?", key)
	return value, err
}

// SaveDocument performs a full save of a map document.
func (db *DB) SaveDocument(doc world.Document) error {
	slog.Info("saving map package", "cells", len(doc.Cells), "paths", len(doc.Paths))

	if err := db.SaveCells(doc.Cells); err != nil {
		return fmt.Errorf("save cells: %w", err)
	}
	if err := db.SavePaths(doc.Paths); err != nil {
		return fmt.Errorf("save paths: %w", err)
	}
	if err := db.SaveMeta(MetaHexSize, doc.HexSize); err != nil {
		return fmt.Errorf("save meta: %w", err)
	}
	if err := db.SaveMeta(MetaVersion, strconv.Itoa(SchemaVersion)); err != nil {
		return fmt.Errorf("save meta: %w", err)
	}
	if err := db.SaveMeta(MetaSavedAt, time.Now().UTC().Format(time.RFC3339)); err != nil {
		return fmt.Errorf("save meta: %w", err)
	}
	return nil
}

// LoadDocument reads the whole map back. Cells come back in row-major order.
func (db *DB) LoadDocument() (world.Document, error) {
	var doc world.Document

	size, err := db.GetMeta(MetaHexSize)
	if errors.Is(err, sql.ErrNoRows) {
		return doc, ErrNotAMapPackage
	}
	if err != nil {
		return doc, fmt.Errorf("load meta: %w", err)
	}
	doc.HexSize = size

	if err := db.conn.Select(&doc.Cells,
		`SELECT "row", "col", terrain, addon, label FROM cells ORDER BY "row", "col"`,
	); err != nil {
		return doc, fmt.Errorf("load cells: %w", err)
	}
	if err := db.conn.Select(&doc.Paths,
		"SELECT type, nodes FROM paths ORDER BY seq",
	); err != nil {
		return doc, fmt.Errorf("load paths: %w", err)
	}
	return doc, nil
}
