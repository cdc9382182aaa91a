package editor

import "errors"

var (
	ErrUnknownTerrain = errors.New("unknown terrain")
	ErrUnknownAddon   = errors.New("unknown addon")
	ErrEmptySelection = errors.New("no cells selected")
	ErrUnknownPath    = errors.New("unknown path")
	ErrInvalidPath    = errors.New("path must cross at least one cell")
	ErrInvalidHexSize = errors.New("hex size must be a positive number of inches")
	ErrInvalidColor   = errors.New("colour must be #rgb or #rrggbb")
)
