// Package output writes steady states as CSV: a header row with the species
// names, then one row per steady state.
package output

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
)

// DefaultSuffix names the result file of model "m" as "m_stable.csv".
const DefaultSuffix = "_stable.csv"

// ErrWidth is returned when a configuration does not match the header.
var ErrWidth = errors.New("output: configuration width does not match species count")

// Path returns the result file for a model loaded from modelPath. With an
// empty dir the file goes next to the model.
func Path(modelPath, modelName, dir, suffix string) string {
	if suffix == "" {
		suffix = DefaultSuffix
	}
	if dir == "" {
		dir = filepath.Dir(modelPath)
	}

	return filepath.Join(dir, modelName+suffix)
}

// CSVWriter streams configurations of one model.
type CSVWriter struct {
	w     *csv.Writer
	width int
	rows  int
	row   []string
}

// NewCSVWriter writes the header (species names in index order) to w.
func NewCSVWriter(w io.Writer, header []string) (*CSVWriter, error) {
	cw := &CSVWriter{
		w:     csv.NewWriter(w),
		width: len(header),
		row:   make([]string, len(header)),
	}
	if err := cw.w.Write(header); err != nil {
		return nil, fmt.Errorf("output: header: %w", err)
	}

	return cw, nil
}

// Write appends one configuration.
func (cw *CSVWriter) Write(cfg []int) error {
	if len(cfg) != cw.width {
		return fmt.Errorf("%w: got %d, want %d", ErrWidth, len(cfg), cw.width)
	}
	for i, v := range cfg {
		cw.row[i] = strconv.Itoa(v)
	}
	if err := cw.w.Write(cw.row); err != nil {
		return fmt.Errorf("output: row %d: %w", cw.rows+1, err)
	}
	cw.rows++

	return nil
}

// Rows returns the number of configurations written.
func (cw *CSVWriter) Rows() int { return cw.rows }

// Flush flushes buffered rows to the underlying writer.
func (cw *CSVWriter) Flush() error {
	cw.w.Flush()
	if err := cw.w.Error(); err != nil {
		return fmt.Errorf("output: flush: %w", err)
	}

	return nil
}

// File is a CSVWriter backed by a temporary file that replaces the target
// only on Commit, so readers never observe a partial result.
type File struct {
	*CSVWriter
	tmp    *os.File
	path   string
	closed bool
}

// Create opens a result file at path with the given header.
func Create(path string, header []string) (*File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("output: create directory: %w", err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), ".steadyspace-*.tmp")
	if err != nil {
		return nil, fmt.Errorf("output: create temp file: %w", err)
	}
	cw, err := NewCSVWriter(tmp, header)
	if err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return nil, err
	}

	return &File{CSVWriter: cw, tmp: tmp, path: path}, nil
}

// Path returns the final file path.
func (f *File) Path() string { return f.path }

// Commit flushes, syncs and renames the file into place.
func (f *File) Commit() error {
	if f.closed {
		return nil
	}
	f.closed = true

	success := false
	defer func() {
		if !success {
			os.Remove(f.tmp.Name())
		}
	}()

	if err := f.Flush(); err != nil {
		f.tmp.Close()
		return err
	}
	if err := f.tmp.Chmod(0o644); err != nil {
		f.tmp.Close()
		return fmt.Errorf("output: chmod: %w", err)
	}
	if err := f.tmp.Sync(); err != nil {
		f.tmp.Close()
		return fmt.Errorf("output: sync: %w", err)
	}
	if err := f.tmp.Close(); err != nil {
		return fmt.Errorf("output: close: %w", err)
	}
	if err := os.Rename(f.tmp.Name(), f.path); err != nil {
		return fmt.Errorf("output: rename: %w", err)
	}

	success = true
	return nil
}

// Abort discards the file. It is a no-op after Commit.
func (f *File) Abort() {
	if f.closed {
		return
	}
	f.closed = true
	f.tmp.Close()
	os.Remove(f.tmp.Name())
}
