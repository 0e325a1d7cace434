package io

import (
	"encoding/json"
	"fmt"
	"io"
)

// WriteJSON encodes v as indented JSON and writes it to w.
func WriteJSON(v any, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// ExportJSON writes v to a JSON file at path.
// This is a convenience wrapper around [WriteJSON] for file-based output.
func ExportJSON(v any, path string) error {
	return WriteFileAtomic(path, func(w io.Writer) error {
		return WriteJSON(v, w)
	})
}
