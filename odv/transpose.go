// Copyright © 2025 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package odv

import (
	"slices"
	"strconv"

	"github.com/js-arias/odver/profile"
	"github.com/js-arias/odver/rows"
)

// The primary variable of the documents,
// the time axis,
// always present
// and always first on the semantic header.
const (
	primaryColumn = "time_ISO8601"
	primaryP01    = "DTUT8601"
	primaryP06    = "TISO"
)

// A cell is the measured value
// and its quality flag
// for one parameter column
// of one sample group.
type cell struct {
	value string
	flag  string
}

// A group collects the rows
// of one station visit
// (or one station and sample),
// to become one output row.
type group struct {
	station string
	sample  string
	date    string
	lat     float64
	lon     float64
	cruise  string
	cells   map[string]cell
}

// A Report counts the outcome of a transposition.
type Report struct {
	// Groups is the number of output rows.
	Groups int

	// Columns is the number of discovered parameter columns.
	Columns int

	// Overwrites counts the cells
	// replaced by a later row
	// of the same group and column.
	// The last written value wins,
	// but overwrites hint at a defect
	// on the source composition.
	Overwrites int
}

// Transpose pivots mapped canonical rows
// into a wide ODV document.
// The rows must belong to a single source station.
// An empty row set produces a valid document
// with a header and no data lines.
func Transpose(rs []rows.Row, mode string, ds profile.Dataset, localID string) (*Document, *Report) {
	rep := &Report{}

	// stage 1: group by sample identity
	groups := make(map[string]*group)
	station := ""
	for i := range rs {
		r := &rs[i]
		if station == "" {
			station = r.Name
		}
		key := r.Station
		if mode == profile.Samples {
			key = r.Station + "\t" + r.Sample
		}
		g, ok := groups[key]
		if !ok {
			g = &group{
				station: r.Station,
				sample:  r.Sample,
				date:    r.Date,
				lat:     r.Lat,
				lon:     r.Lon,
				cruise:  r.Cruise,
				cells:   make(map[string]cell),
			}
			groups[key] = g
		}
		if _, dup := g.cells[r.Column]; dup {
			rep.Overwrites++
		}
		flag := r.Flag
		if flag == "" {
			flag = "0"
		}
		g.cells[r.Column] = cell{value: r.Value, flag: flag}
	}

	// stage 2: column discovery
	colSet := make(map[string]Semantic)
	for i := range rs {
		r := &rs[i]
		colSet[r.Column] = Semantic{
			Column: r.Column,
			P01:    r.P01,
			P06:    r.P06,
		}
	}
	columns := make([]string, 0, len(colSet))
	for c := range colSet {
		columns = append(columns, c)
	}
	slices.Sort(columns)

	// stage 3: semantic header assembly
	semantics := make([]Semantic, 0, len(columns)+1)
	semantics = append(semantics, Semantic{
		Column: primaryColumn,
		P01:    primaryP01,
		P06:    primaryP06,
	})
	for _, c := range columns {
		semantics = append(semantics, colSet[c])
	}

	p02Set := make(map[string]bool)
	for i := range rs {
		p02Set[rs[i].P02] = true
	}
	params := make([]string, 0, len(p02Set))
	for p := range p02Set {
		params = append(params, p)
	}
	slices.Sort(params)

	doc := &Document{
		LocalID:   localID,
		Station:   station,
		EDMO:      ds.EDMOAuthor,
		columns:   columns,
		semantics: semantics,
		params:    params,
		comments:  make(map[string]bool),
	}

	// stage 4: row assembly
	keys := make([]string, 0, len(groups))
	for k := range groups {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	for _, k := range keys {
		g := groups[k]
		line := make([]string, 0, len(fixedHeader)+1+2*len(columns))
		line = append(line,
			g.cruise,
			g.station,
			"*",
			g.date,
			signed(g.lon),
			signed(g.lat),
			localID,
			ds.EDMOAuthor,
			"",
			g.date,
		)
		for _, c := range columns {
			cl, ok := g.cells[c]
			if !ok {
				line = append(line, "", "")
				continue
			}
			line = append(line, cl.value, cl.flag)
		}
		doc.lines = append(doc.lines, line)
		rep.Groups++

		if doc.StartDate == "" || g.date < doc.StartDate {
			doc.StartDate = g.date
			doc.Lat = g.lat
			doc.Lon = g.lon
		}
		if g.date > doc.EndDate {
			doc.EndDate = g.date
		}
	}
	rep.Columns = len(columns)

	return doc, rep
}

// Signed renders a coordinate
// with an explicit sign prefix
// and full float precision.
func signed(v float64) string {
	s := strconv.FormatFloat(v, 'g', -1, 64)
	if v < 0 {
		return s
	}
	return "+" + s
}
