// Copyright © 2025 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package codes implements the static reference tables
// used to tag monitoring data:
// codelist definitions
// and the mapping from unit strings
// to SeaDataNet P06 unit codes.
package codes

import (
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/js-arias/odver/tsv"
)

// A Codelist stores code definitions
// scoped by a sheet name.
type Codelist struct {
	sheets map[string]map[string]string
}

var codelistCols = []string{
	"sheet",
	"code",
	"description",
}

// ReadCodelist reads a codelist from a TSV-encoded file
// with the columns sheet,
// code,
// and description.
func ReadCodelist(r io.Reader) (*Codelist, error) {
	tab := tsv.NewReader(r)

	header, err := tab.Read()
	if err != nil {
		return nil, fmt.Errorf("when reading codelist header: %v", err)
	}
	fields := make(map[string]int)
	for i, h := range header {
		fields[strings.ToLower(h)] = i
	}
	for _, h := range codelistCols {
		if _, ok := fields[h]; !ok {
			return nil, fmt.Errorf("when reading codelist header: expecting %q field", h)
		}
	}

	cl := &Codelist{sheets: make(map[string]map[string]string)}
	for {
		row, err := tab.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		ln, _ := tab.FieldPos(0)
		if err != nil {
			return nil, fmt.Errorf("codelist: row %d: %v", ln, err)
		}

		sheet := strings.ToLower(strings.TrimSpace(row[fields["sheet"]]))
		code := strings.ToLower(strings.TrimSpace(row[fields["code"]]))
		if sheet == "" || code == "" {
			continue
		}
		sh, ok := cl.sheets[sheet]
		if !ok {
			sh = make(map[string]string)
			cl.sheets[sheet] = sh
		}
		if _, dup := sh[code]; dup {
			continue
		}
		sh[code] = strings.TrimSpace(row[fields["description"]])
	}
	return cl, nil
}

// Definition returns the definition of a code value
// in a given sheet.
func (cl *Codelist) Definition(value, sheet string) (string, bool) {
	sh, ok := cl.sheets[strings.ToLower(sheet)]
	if !ok {
		return "", false
	}
	d, ok := sh[strings.ToLower(strings.TrimSpace(value))]
	return d, ok
}

// Has reports if a code value is defined in a given sheet.
func (cl *Codelist) Has(value, sheet string) bool {
	_, ok := cl.Definition(value, sheet)
	return ok
}

// Sheets returns the sorted list of sheet names in the codelist.
func (cl *Codelist) Sheets() []string {
	s := make([]string, 0, len(cl.sheets))
	for sh := range cl.sheets {
		s = append(s, sh)
	}
	slices.Sort(s)
	return s
}
