// Package export serializes title records to JSON or YAML files.
package export

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"moviedb/internal/title"
)

// Format selects an export serialization.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ParseFormat maps a user-supplied format name to a Format.
func ParseFormat(name string) (Format, error) {
	switch name {
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("unsupported export format %q (expected json or yaml)", name)
	}
}

// JSON writes the record as indented JSON.
func JSON(w io.Writer, rec *title.Record) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(rec); err != nil {
		return fmt.Errorf("encode json: %w", err)
	}
	return nil
}

// YAML writes the record as YAML.
func YAML(w io.Writer, rec *title.Record) error {
	encoder := yaml.NewEncoder(w)
	defer encoder.Close()
	if err := encoder.Encode(rec); err != nil {
		return fmt.Errorf("encode yaml: %w", err)
	}
	return nil
}

// ToFile writes the record into dir, naming the file after its IMDb
// identifier, and returns the resulting path.
func ToFile(dir string, rec *title.Record, format Format) (string, error) {
	if rec == nil {
		return "", fmt.Errorf("record is nil")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create export dir: %w", err)
	}

	path := filepath.Join(dir, fmt.Sprintf("%s.%s", rec.IMDbID, format))
	file, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create export file: %w", err)
	}
	defer file.Close()

	switch format {
	case FormatJSON:
		err = JSON(file, rec)
	case FormatYAML:
		err = YAML(file, rec)
	default:
		err = fmt.Errorf("unsupported export format %q", format)
	}
	if err != nil {
		return "", err
	}
	return path, nil
}
