// Copyright © 2025 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package rows

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/js-arias/odver/codes"
	"github.com/js-arias/odver/profile"
	"github.com/js-arias/odver/stations"
	"github.com/js-arias/odver/table"
)

// A Report counts the raw rows
// dropped during normalization,
// for audit by the caller.
type Report struct {
	// Read is the number of raw rows read.
	Read int

	// Rows is the number of canonical rows produced.
	Rows int

	// NoStation counts rows without a station name.
	NoStation int

	// NoPosition counts rows whose station
	// is absent from the station index.
	NoPosition int

	// MissingStations lists the station names
	// without a position.
	MissingStations []string

	// BadDate counts rows without a valid date.
	BadDate int

	// NoValue counts rows without a measured value.
	NoValue int

	// BadValue counts rows with a categorical value
	// absent from its codelist sheet.
	BadValue int
}

// A Normalizer converts a raw monitoring table
// into canonical rows
// using a source profile,
// a station index,
// and an optional codelist
// for categorical value checks.
type Normalizer struct {
	p  *profile.Profile
	ix *stations.Index
	cl *codes.Codelist
}

// NewNormalizer creates a normalizer
// for a given source profile.
// The codelist may be nil
// only if the profile defines no checks.
func NewNormalizer(p *profile.Profile, ix *stations.Index, cl *codes.Codelist) (*Normalizer, error) {
	if cl == nil && len(p.Checks) > 0 {
		return nil, fmt.Errorf("profile %q: %d checks defined without a codelist", p.Name, len(p.Checks))
	}
	return &Normalizer{
		p:  p,
		ix: ix,
		cl: cl,
	}, nil
}

// Normalize produces the canonical rows of a raw table.
// Rows without a position,
// a date,
// a value,
// or a required categorical value
// are dropped and counted on the report.
// A table without the columns required by the profile
// is a fatal error for the whole file.
func (n *Normalizer) Normalize(t *table.Table) ([]Row, *Report, error) {
	if err := t.Require(n.p.Required()...); err != nil {
		return nil, nil, err
	}

	rep := &Report{}
	missing := make(map[string]bool)
	var rs []Row
	for i := 0; i < t.Len(); i++ {
		rep.Read++

		name := t.Field(i, n.p.Columns.Station)
		if name == "" {
			rep.NoStation++
			continue
		}

		lat, lon, ok, err := n.position(t, i, name)
		if err != nil {
			return nil, nil, fmt.Errorf("table %q: row %d: %v", t.Name(), i+1, err)
		}
		if !ok {
			rep.NoPosition++
			if !missing[name] {
				missing[name] = true
				rep.MissingStations = append(rep.MissingStations, name)
			}
			continue
		}

		date, ok := n.date(t, i)
		if !ok {
			rep.BadDate++
			continue
		}

		value := t.Field(i, n.p.Columns.Value)
		if value == "" {
			rep.NoValue++
			continue
		}

		r := Row{
			Cruise:    n.p.Dataset.Cruise,
			Lat:       lat,
			Lon:       lon,
			Name:      name,
			Sample:    t.Field(i, n.p.Columns.Sample),
			Date:      date,
			CAS:       t.Field(i, n.p.Columns.CAS),
			Substance: t.Field(i, n.p.Columns.Substance),
			Basis:     t.Field(i, n.p.Columns.Basis),
			Species:   t.Field(i, n.p.Columns.Species),
			Tissue:    t.Field(i, n.p.Columns.Tissue),
			Value:     value,
			Flag:      n.p.Flag(t.Field(i, n.p.Columns.Flag)),
			Unit:      t.Field(i, n.p.Columns.Unit),
		}

		if !n.check(&r) {
			rep.BadValue++
			continue
		}

		r.Station = n.stationKey(&r)
		rs = append(rs, r)
		rep.Rows++
	}
	return rs, rep, nil
}

// Position resolves the position of a raw row,
// from the raw position columns
// when the profile binds them,
// or from the station index.
func (n *Normalizer) position(t *table.Table, i int, name string) (lat, lon float64, ok bool, err error) {
	latCol := n.p.Columns.Latitude
	lonCol := n.p.Columns.Longitude
	if latCol != "" && lonCol != "" && t.Field(i, latCol) != "" {
		lat, err = strconv.ParseFloat(t.Field(i, latCol), 64)
		if err != nil {
			return 0, 0, false, fmt.Errorf("field %q: %v", latCol, err)
		}
		lon, err = strconv.ParseFloat(t.Field(i, lonCol), 64)
		if err != nil {
			return 0, 0, false, fmt.Errorf("field %q: %v", lonCol, err)
		}
		return lat, lon, true, nil
	}

	p, ok := n.ix.Position(name)
	if !ok {
		return 0, 0, false, nil
	}
	return p.Lat, p.Lon, true, nil
}

// Date returns the ISO date of a raw row.
func (n *Normalizer) date(t *table.Table, i int) (string, bool) {
	if c := n.p.Columns.Date; c != "" {
		v := t.Field(i, c)
		if len(v) > 10 {
			v = v[:10]
		}
		d, err := time.Parse("2006-01-02", v)
		if err != nil {
			return "", false
		}
		return d.Format("2006-01-02"), true
	}

	y, err := strconv.Atoi(t.Field(i, n.p.Columns.Year))
	if err != nil {
		return "", false
	}
	m, err := strconv.Atoi(t.Field(i, n.p.Columns.Month))
	if err != nil || m < 1 || m > 12 {
		return "", false
	}
	d, err := strconv.Atoi(t.Field(i, n.p.Columns.Day))
	if err != nil || d < 1 || d > 31 {
		return "", false
	}
	return fmt.Sprintf("%04d-%02d-%02d", y, m, d), true
}

func (n *Normalizer) check(r *Row) bool {
	if n.cl == nil {
		return true
	}
	for _, c := range n.p.Checks {
		if !n.cl.Has(r.Field(c.Field), c.Sheet) {
			return false
		}
	}
	return true
}

// StationKey derives the station key of a row
// from the profile-defined field composition.
func (n *Normalizer) stationKey(r *Row) string {
	if len(n.p.StationID) == 0 {
		return r.Name
	}
	parts := make([]string, 0, len(n.p.StationID))
	for _, f := range n.p.StationID {
		v := r.Field(f)
		if v == "" {
			continue
		}
		parts = append(parts, v)
	}
	return strings.Join(parts, "_")
}
