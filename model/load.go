package model

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// Format selects the model file syntax.
type Format int

const (
	// FormatText is the line format, see the package documentation.
	FormatText Format = iota
	// FormatYAML is the YAML layout, see LoadYAML.
	FormatYAML
)

// String implements fmt.Stringer.
func (f Format) String() string {
	if f == FormatYAML {
		return "yaml"
	}

	return "text"
}

// FormatFor picks the format from the file extension: .yaml and .yml are
// YAML, everything else is the line format.
func FormatFor(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatText
	}
}

// Stem returns the file name of path without directory and extension.
func Stem(path string) string {
	base := filepath.Base(path)

	return strings.TrimSuffix(base, filepath.Ext(base))
}

// Load tests path, reads the model it names and runs the syntax and semantic
// control. Model.Name is the file stem unless a YAML document names itself.
func Load(path string) (*Model, error) {
	// 1. Path control.
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrModelNotFound, path)
		}
		return nil, fmt.Errorf("model: stat %s: %w", path, err)
	}
	if !info.Mode().IsRegular() {
		return nil, fmt.Errorf("%w: %s", ErrNotRegularFile, path)
	}

	// 2. Read and dispatch on the extension.
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("model: open %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	var m *Model
	switch FormatFor(path) {
	case FormatYAML:
		m, err = LoadYAML(f)
	default:
		m, err = ParseText(f)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	// 3. Name the model after the file.
	if m.Name == "" {
		m.Name = Stem(path)
	}

	return m, nil
}
