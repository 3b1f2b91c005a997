// Copyright © 2025 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package stations implements a station registry index
// to resolve monitoring station identifiers
// into geographic positions.
package stations

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/js-arias/odver/table"
)

// A Position is the geographic position of a station
// in signed decimal degrees,
// tagged with the registry file it was read from.
type Position struct {
	Lat float64
	Lon float64

	// Source is the registry the position came from.
	Source string
}

// An Index resolves station identifiers into positions.
// Station identifiers are matched without case.
type Index struct {
	pos map[string]Position
}

// NewIndex creates a new empty station index.
func NewIndex() *Index {
	return &Index{pos: make(map[string]Position)}
}

// Registry columns.
// Positions are accepted either in decimal degrees
// (Latitude and Longitude columns)
// or in degree and decimal-minute encoding
// (Latitude_min and Longitude_min columns).
const (
	stationCol = "nationalstationid"
	latCol     = "latitude"
	lonCol     = "longitude"
	latMinCol  = "latitude_min"
	lonMinCol  = "longitude_min"
)

// Read adds the stations of a registry table to the index.
// Stations already present in the index are kept,
// so registries should be loaded
// in decreasing order of authority.
func (ix *Index) Read(t *table.Table) error {
	if err := t.Require(stationCol); err != nil {
		return err
	}
	degrees := t.HasField(latCol) && t.HasField(lonCol)
	minutes := t.HasField(latMinCol) && t.HasField(lonMinCol)
	if !degrees && !minutes {
		if err := t.Require(latCol, lonCol); err != nil {
			return err
		}
	}

	for i := 0; i < t.Len(); i++ {
		id := strings.ToLower(t.Field(i, stationCol))
		if id == "" {
			continue
		}
		if _, ok := ix.pos[id]; ok {
			continue
		}

		var lat, lon float64
		var err error
		if degrees && t.Field(i, latCol) != "" {
			lat, err = strconv.ParseFloat(t.Field(i, latCol), 64)
			if err != nil {
				return fmt.Errorf("registry %q: row %d: field %q: %v", t.Name(), i+1, latCol, err)
			}
			lon, err = strconv.ParseFloat(t.Field(i, lonCol), 64)
			if err != nil {
				return fmt.Errorf("registry %q: row %d: field %q: %v", t.Name(), i+1, lonCol, err)
			}
		} else if minutes && t.Field(i, latMinCol) != "" {
			lat, err = DegMin(t.Field(i, latMinCol))
			if err != nil {
				return fmt.Errorf("registry %q: row %d: field %q: %v", t.Name(), i+1, latMinCol, err)
			}
			lon, err = DegMin(t.Field(i, lonMinCol))
			if err != nil {
				return fmt.Errorf("registry %q: row %d: field %q: %v", t.Name(), i+1, lonMinCol, err)
			}
		} else {
			continue
		}
		if lat < -90 || lat > 90 {
			return fmt.Errorf("registry %q: row %d: invalid latitude: %.6f", t.Name(), i+1, lat)
		}
		if lon < -180 || lon > 180 {
			return fmt.Errorf("registry %q: row %d: invalid longitude: %.6f", t.Name(), i+1, lon)
		}

		ix.pos[id] = Position{
			Lat:    lat,
			Lon:    lon,
			Source: t.Name(),
		}
	}
	return nil
}

// Position returns the position of a station.
// The second return value reports
// whether the station is present in the index,
// so callers decide explicitly
// between skipping and failing.
func (ix *Index) Position(id string) (Position, bool) {
	p, ok := ix.pos[strings.ToLower(strings.TrimSpace(id))]
	return p, ok
}

// IDs returns the sorted list of station identifiers
// in the index.
func (ix *Index) IDs() []string {
	ids := make([]string, 0, len(ix.pos))
	for id := range ix.pos {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// Len returns the number of stations in the index.
func (ix *Index) Len() int {
	return len(ix.pos)
}

// DegMin parses a coordinate
// in degree and decimal-minute encoding
// ("DDMM.mmm",
// with an optional leading sign)
// into signed decimal degrees.
func DegMin(s string) (float64, error) {
	s = strings.TrimSpace(s)
	neg := false
	if strings.HasPrefix(s, "-") {
		neg = true
		s = s[1:]
	} else if strings.HasPrefix(s, "+") {
		s = s[1:]
	}

	dot := strings.IndexRune(s, '.')
	if dot < 0 {
		dot = len(s)
	}
	if dot < 2 {
		return 0, fmt.Errorf("invalid degree-minute value %q", s)
	}

	deg, err := strconv.ParseFloat(s[:dot-2], 64)
	if err != nil {
		return 0, fmt.Errorf("invalid degree-minute value %q", s)
	}
	min, err := strconv.ParseFloat(s[dot-2:], 64)
	if err != nil || min >= 60 {
		return 0, fmt.Errorf("invalid degree-minute value %q", s)
	}

	v := deg + min/60
	if neg {
		v = -v
	}
	return v, nil
}
