// Package vendorcsv reads the fixed-schema CSV exports produced by the turbine
// vendor: a block of metadata lines, a header row whose first name carries a
// comment marker, then data rows.
package vendorcsv

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

var (
	// ErrEmptyTable is returned when a file ends before its header row.
	ErrEmptyTable = errors.New("vendorcsv: empty table")
	// ErrMissingColumn is returned when a required column is absent from the header.
	ErrMissingColumn = errors.New("vendorcsv: missing column")
)

// headerMarker holds the characters stripped from the front of the first column name.
const headerMarker = "\ufeff# "

// Table is a parsed export: header names and raw string rows.
type Table struct {
	Header []string
	Rows   [][]string
	index  map[string]int
}

// ReadFile opens path and parses it with Read.
func ReadFile(path string, skipRows int) (*Table, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return Read(file, skipRows)
}

// Read skips skipRows metadata lines, then parses the header and data rows.
// Rows may be ragged; missing trailing cells read as empty strings.
func Read(r io.Reader, skipRows int) (*Table, error) {
	br := bufio.NewReader(r)
	for i := 0; i < skipRows; i++ {
		if _, err := br.ReadString('\n'); err != nil {
			if errors.Is(err, io.EOF) {
				return nil, ErrEmptyTable
			}
			return nil, err
		}
	}

	reader := csv.NewReader(br)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, ErrEmptyTable
		}
		return nil, fmt.Errorf("vendorcsv: read header: %w", err)
	}
	if len(header) == 0 {
		return nil, ErrEmptyTable
	}
	header[0] = strings.TrimLeft(header[0], headerMarker)

	table := &Table{Header: header, index: make(map[string]int, len(header))}
	for i, name := range header {
		name = strings.TrimSpace(name)
		header[i] = name
		if _, dup := table.index[name]; !dup {
			table.index[name] = i
		}
	}

	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("vendorcsv: read row %d: %w", len(table.Rows)+1, err)
		}
		table.Rows = append(table.Rows, row)
	}
	return table, nil
}

// Column returns the index of the named column.
func (t *Table) Column(name string) (int, error) {
	idx, ok := t.index[name]
	if !ok {
		return -1, fmt.Errorf("%w: %q", ErrMissingColumn, name)
	}
	return idx, nil
}

// Columns resolves every name, failing on the first one that is absent.
func (t *Table) Columns(names ...string) ([]int, error) {
	out := make([]int, len(names))
	for i, name := range names {
		idx, err := t.Column(name)
		if err != nil {
			return nil, err
		}
		out[i] = idx
	}
	return out, nil
}

// Cell returns the trimmed value at column idx of row, or "" when the row is short.
func Cell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}
