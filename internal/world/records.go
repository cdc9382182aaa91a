package world

import (
	"errors"
	"fmt"
	"strings"
)

// CellRecord is the persisted form of one real cell.
type CellRecord struct {
	Row     int     `json:"row" db:"row"`
	Col     int     `json:"col" db:"col"`
	Terrain Terrain `json:"terrain" db:"terrain"`
	Addon   string  `json:"addon,omitempty" db:"addon"`
	Label   string  `json:"label,omitempty" db:"label"`
}

// PathType distinguishes roads from rivers.
type PathType string

const (
	PathRoad  PathType = "road"
	PathRiver PathType = "river"
)

// ParsePathType accepts "road"/"river" and the "path-road"/"path-river"
// class-name spelling older exports used.
func ParsePathType(s string) (PathType, error) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "path-")
	switch PathType(s) {
	case PathRoad, PathRiver:
		return PathType(s), nil
	}
	return "", fmt.Errorf("unknown path type %q", s)
}

// Path is a road or river drawn through a sequence of cells. Paths are tied
// to the grid only by shared coordinates.
type Path struct {
	ID    string        `json:"id"`
	Type  PathType      `json:"type"`
	Nodes []OffsetCoord `json:"nodes"`
}

// Record returns the export form of the path.
func (p Path) Record() PathRecord {
	return PathRecord{Type: string(p.Type), Nodes: JoinPathNodes(p.Nodes)}
}

// Clone returns a copy that shares no node storage with p.
func (p Path) Clone() Path {
	p.Nodes = append([]OffsetCoord(nil), p.Nodes...)
	return p
}

// PathRecord is the persisted form of a path: nodes are ";"-joined keys.
type PathRecord struct {
	Type  string `json:"type" db:"type"`
	Nodes string `json:"nodes" db:"nodes"`
}

// ErrEmptyPath is returned for a path with no nodes.
var ErrEmptyPath = errors.New("path has no nodes")

// JoinPathNodes renders nodes as "r,c;r,c;...".
func JoinPathNodes(nodes []OffsetCoord) string {
	keys := make([]string, len(nodes))
	for i, n := range nodes {
		keys[i] = n.Key()
	}
	return strings.Join(keys, ";")
}

// ParsePathNodes parses "r,c;r,c;...". Empty segments are ignored.
func ParsePathNodes(s string) ([]OffsetCoord, error) {
	var out []OffsetCoord
	for _, part := range strings.Split(s, ";") {
		if strings.TrimSpace(part) == "" {
			continue
		}
		c, err := ParseCoord(part)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	if len(out) == 0 {
		return nil, ErrEmptyPath
	}
	return out, nil
}

// Document is the full import/export record set: a leading hex size, the
// cells, and the paths.
type Document struct {
	HexSize string       `json:"hex_size"`
	Cells   []CellRecord `json:"cells"`
	Paths   []PathRecord `json:"paths"`
}
