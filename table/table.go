// Copyright © 2025 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package table implements an in-memory row table
// read from a delimiter-separated monitoring file.
package table

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/js-arias/odver/tsv"
	"golang.org/x/text/encoding/charmap"
)

// An ErrMalformed is the error produced
// when an input file lacks one or more required columns.
type ErrMalformed struct {
	// Name of the input file.
	Name string

	// The missing columns.
	Columns []string

	Err error
}

func (e *ErrMalformed) Error() string {
	return fmt.Sprintf("%v: input %q: expecting fields: %s", e.Err, e.Name, strings.Join(e.Columns, ", "))
}

func (e *ErrMalformed) Unwrap() error { return e.Err }

var errMalformed = errors.New("malformed input table")

// Options define how an input file is decoded.
type Options struct {
	// Name of the input,
	// used on error messages.
	Name string

	// Comma is the field delimiter,
	// tab if unset.
	Comma rune

	// Encoding is the character encoding of the input,
	// UTF-8 if unset.
	// Accepted values are "utf-8",
	// "windows-1252",
	// and "latin-1".
	Encoding string
}

// A Table is an in-memory row table.
// Column names are matched without case.
type Table struct {
	name   string
	header []string
	fields map[string]int
	data   [][]string
}

// Read reads a table from a delimiter-separated file.
// The first record is the table header.
func Read(r io.Reader, opt Options) (*Table, error) {
	name := opt.Name
	if name == "" {
		name = "stdin"
	}

	dr, err := decode(r, opt.Encoding)
	if err != nil {
		return nil, fmt.Errorf("table %q: %v", name, err)
	}

	tab := tsv.NewReader(dr)
	if opt.Comma != 0 {
		tab.Comma = opt.Comma
	}

	header, err := tab.Read()
	if err != nil {
		return nil, fmt.Errorf("when reading %q header: %v", name, err)
	}
	fields := make(map[string]int, len(header))
	for i, h := range header {
		fields[strings.ToLower(strings.TrimSpace(h))] = i
	}

	var data [][]string
	for {
		row, err := tab.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		ln, _ := tab.FieldPos(0)
		if err != nil {
			return nil, fmt.Errorf("table %q: row %d: %v", name, ln, err)
		}
		data = append(data, row)
	}

	return &Table{
		name:   name,
		header: header,
		fields: fields,
		data:   data,
	}, nil
}

func decode(r io.Reader, encoding string) (io.Reader, error) {
	switch strings.ToLower(encoding) {
	case "", "utf-8", "utf8":
		return r, nil
	case "windows-1252", "cp1252":
		return charmap.Windows1252.NewDecoder().Reader(r), nil
	case "latin-1", "latin1", "iso-8859-1":
		return charmap.ISO8859_1.NewDecoder().Reader(r), nil
	}
	return nil, fmt.Errorf("unknown encoding %q", encoding)
}

// Require returns an ErrMalformed error
// if any of the indicated columns is absent from the table.
func (t *Table) Require(cols ...string) error {
	var missing []string
	for _, c := range cols {
		if c == "" {
			continue
		}
		if _, ok := t.fields[strings.ToLower(c)]; !ok {
			missing = append(missing, c)
		}
	}
	if len(missing) == 0 {
		return nil
	}
	return &ErrMalformed{
		Name:    t.name,
		Columns: missing,
		Err:     errMalformed,
	}
}

// HasField reports if a column is present in the table.
func (t *Table) HasField(col string) bool {
	_, ok := t.fields[strings.ToLower(col)]
	return ok
}

// Field returns the value of a column at a given row.
// It returns an empty string
// if the column is not present in the table.
func (t *Table) Field(row int, col string) string {
	i, ok := t.fields[strings.ToLower(col)]
	if !ok {
		return ""
	}
	if row < 0 || row >= len(t.data) {
		return ""
	}
	if i >= len(t.data[row]) {
		return ""
	}
	return strings.TrimSpace(t.data[row][i])
}

// Header returns the column names of the table.
func (t *Table) Header() []string {
	h := make([]string, len(t.header))
	copy(h, t.header)
	return h
}

// Len returns the number of data rows in the table.
func (t *Table) Len() int {
	return len(t.data)
}

// Name returns the name of the input
// used to read the table.
func (t *Table) Name() string {
	return t.name
}
