// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package sink serializes extracted study rows to a file. Every format
// writes all rows in input order with columns in types.Columns order, and
// replaces any existing file at the target path.
package sink

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/pdiddy/ctgov-export/pkg/types"
)

// Write serializes rows to path in the given format. An empty format
// selects CSV.
func Write(path string, format types.OutputFormat, rows []types.Row) error {
	if path == "" {
		return fmt.Errorf("output path is empty")
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating output directory: %w", err)
		}
	}

	switch format {
	case types.FormatCSV, "":
		return writeFile(path, rows, WriteCSV)
	case types.FormatJSON:
		return writeFile(path, rows, WriteJSON)
	case types.FormatYAML:
		return writeFile(path, rows, WriteYAML)
	case types.FormatSQLite:
		return WriteSQLite(path, rows)
	default:
		return fmt.Errorf("unsupported format %q: use csv, json, yaml, or sqlite", format)
	}
}

func writeFile(path string, rows []types.Row, enc func(io.Writer, []types.Row) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	if err := enc(f, rows); err != nil {
		f.Close()
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return f.Close()
}
