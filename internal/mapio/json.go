package mapio

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/klauspost/compress/zstd"
	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/talgya/hexcrawl/internal/world"
)

//go:embed map.schema.json
var mapSchemaSource string

var mapSchema = jsonschema.MustCompileString("map.schema.json", mapSchemaSource)

// ErrSchema wraps every schema validation failure.
var ErrSchema = errors.New("map document does not match schema")

// WriteJSON writes doc as indented JSON.
func WriteJSON(w io.Writer, doc world.Document) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(doc)
}

// ReadJSON validates the input against the map schema before decoding it.
func ReadJSON(r io.Reader) (world.Document, error) {
	var doc world.Document
	data, err := io.ReadAll(r)
	if err != nil {
		return doc, err
	}

	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return doc, fmt.Errorf("decode map json: %w", err)
	}
	if err := mapSchema.Validate(raw); err != nil {
		return doc, fmt.Errorf("%w: %v", ErrSchema, err)
	}

	if err := json.NewDecoder(bytes.NewReader(data)).Decode(&doc); err != nil {
		return doc, fmt.Errorf("decode map json: %w", err)
	}
	return doc, nil
}

// WriteZstd writes doc as zstd-compressed JSON.
func WriteZstd(w io.Writer, doc world.Document) error {
	enc, err := zstd.NewWriter(w, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return err
	}
	if err := WriteJSON(enc, doc); err != nil {
		enc.Close()
		return err
	}
	return enc.Close()
}

// ReadZstd reads zstd-compressed JSON.
func ReadZstd(r io.Reader) (world.Document, error) {
	dec, err := zstd.NewReader(r)
	if err != nil {
		return world.Document{}, err
	}
	defer dec.Close()
	return ReadJSON(dec)
}
