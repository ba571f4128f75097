// Package dataset validates and summarises uploaded CSV training data.
package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"regexp"
	"strings"
)

var (
	ErrEmpty    = errors.New("empty CSV file")
	ErrTooSmall = errors.New("dataset too small")
)

var allowedExtensions = map[string]bool{"csv": true}

var unsafeChars = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// Summary describes a parsed CSV file. Rows excludes the header.
type Summary struct {
	Rows    int
	Columns []string
}

// Allowed reports whether filename carries an accepted extension.
func Allowed(filename string) bool {
	i := strings.LastIndex(filename, ".")
	if i < 0 {
		return false
	}
	return allowedExtensions[strings.ToLower(filename[i+1:])]
}

// SecureFilename strips directories and characters that are unsafe in a
// path so the name can be joined onto the upload directory.
func SecureFilename(name string) string {
	name = strings.ReplaceAll(name, "\\", "/")
	name = filepath.Base(name)
	name = strings.Join(strings.Fields(name), "_")
	name = unsafeChars.ReplaceAllString(name, "")
	name = strings.TrimLeft(name, "._")
	if len(name) > 128 {
		name = name[len(name)-128:]
	}
	if name == "" {
		return "dataset.csv"
	}
	return name
}

// Summarize reads a CSV document whose first row is the header. It fails
// with ErrEmpty when there are no data rows and ErrTooSmall when there are
// fewer than minRows.
func Summarize(r io.Reader, minRows int) (*Summary, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("no columns to parse from file: %w", ErrEmpty)
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	columns := make([]string, len(header))
	for i, h := range header {
		columns[i] = strings.TrimSpace(h)
	}

	rows := 0
	for {
		_, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row %d: %w", rows+1, err)
		}
		rows++
	}

	if rows == 0 {
		return nil, ErrEmpty
	}
	if rows < minRows {
		return nil, fmt.Errorf("%w: %d rows, minimum %d", ErrTooSmall, rows, minRows)
	}
	return &Summary{Rows: rows, Columns: columns}, nil
}
