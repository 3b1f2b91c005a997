// Copyright © 2025 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package odv

import (
	"bufio"
	"fmt"
	"io"
	"slices"
	"strings"
)

// A Semantic binds an output column
// to its parameter and unit vocabulary codes.
type Semantic struct {
	Column string
	P01    string
	P06    string
}

// The mandatory fixed columns of an ODV data line.
var fixedHeader = []string{
	"Cruise",
	"Station",
	"Type",
	"yyyy-mm-ddThh:mm:ss.sss",
	"Longitude [degrees_east]",
	"Latitude [degrees_north]",
	"LOCAL_CDI_ID",
	"EDMO_code",
	"Bot. Depth [m]",
}

// A Document is a transposed ODV table
// for one station:
// a semantic header block
// followed by one wide data line
// per sample group.
type Document struct {
	// LocalID is the local CDI identifier of the document.
	LocalID string

	// Station is the source station name.
	Station string

	// EDMO is the EDMO code of the data author.
	EDMO string

	// Position and date coverage of the data lines.
	Lat       float64
	Lon       float64
	StartDate string
	EndDate   string

	comments  map[string]bool
	columns   []string
	semantics []Semantic
	params    []string
	lines     [][]string
}

// AddComment adds a comment line to the document header.
// Comments are deduplicated
// and written in sorted order.
func (doc *Document) AddComment(c string) {
	c = strings.TrimSpace(c)
	if c == "" {
		return
	}
	doc.comments[c] = true
}

// Columns returns the discovered parameter column names
// in output order.
func (doc *Document) Columns() []string {
	c := make([]string, len(doc.columns))
	copy(c, doc.columns)
	return c
}

// Parameters returns the sorted distinct P02 codes
// of the document columns.
// The primary time axis is not included.
func (doc *Document) Parameters() []string {
	p := make([]string, len(doc.params))
	copy(p, doc.params)
	return p
}

// Len returns the number of data lines of the document.
func (doc *Document) Len() int {
	return len(doc.lines)
}

// Write serializes the document:
// sorted comment lines,
// the SDN parameter mapping block,
// a blank comment separator,
// the header line,
// and the tab-separated data lines.
// The output is byte-identical
// across runs with identical input.
func (doc *Document) Write(w io.Writer) error {
	bw := bufio.NewWriter(w)

	comments := make([]string, 0, len(doc.comments))
	for c := range doc.comments {
		comments = append(comments, c)
	}
	slices.Sort(comments)
	for _, c := range comments {
		fmt.Fprintf(bw, "//%s\n", c)
	}

	fmt.Fprintf(bw, "//SDN_parameter_mapping\n")
	for _, s := range doc.semantics {
		fmt.Fprintf(bw, "//<subject>SDN:LOCAL:%s</subject><object>SDN:P01::%s</object><units>SDN:P06::%s</units>\n", s.Column, s.P01, s.P06)
	}
	fmt.Fprintf(bw, "//\n")

	header := make([]string, 0, len(fixedHeader)+1+2*len(doc.columns))
	header = append(header, fixedHeader...)
	header = append(header, primaryColumn)
	for _, c := range doc.columns {
		header = append(header, c, "QV:SEADATANET")
	}
	fmt.Fprintf(bw, "%s\n", strings.Join(header, "\t"))

	for _, ln := range doc.lines {
		fmt.Fprintf(bw, "%s\n", strings.Join(ln, "\t"))
	}

	return bw.Flush()
}
