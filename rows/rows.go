// Copyright © 2025 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package rows implements the canonical row schema
// of the monitoring data pipeline:
// one measured observation per row
// with a fixed set of semantic fields.
package rows

import (
	"strings"
)

// A Row is a normalized observation.
// Every row has a defined position
// and a derived station key;
// raw rows that cannot provide them
// are dropped during normalization.
type Row struct {
	Cruise string

	// Position in signed decimal degrees.
	Lat float64
	Lon float64

	// Name is the source station name.
	Name string

	// Station is the derived station key
	// that identifies the station visit.
	Station string

	// Sample identifies a sample within a station visit.
	Sample string

	// Date of the observation (YYYY-MM-DD).
	Date string

	// Qualifiers of the parameter identity.
	CAS       string
	Substance string
	Basis     string
	Species   string
	Tissue    string

	// Key is the composite search key
	// used for vocabulary lookup.
	Key string

	// Value is the measured concentration,
	// preserved as given by the source.
	Value string

	// Flag is the SeaDataNet quality flag of the value.
	Flag string

	// Unit string as given by the source.
	Unit string

	// Vocabulary identity,
	// assigned by the parameter mapper.
	P01    string
	P02    string
	P06    string
	Column string
}

// Field returns the value of a canonical field by name.
// It is used to compose derived keys
// from profile-defined field lists.
func (r *Row) Field(name string) string {
	switch strings.ToLower(name) {
	case "station":
		return r.Name
	case "date":
		return r.Date
	case "species":
		return r.Species
	case "tissue":
		return r.Tissue
	case "basis":
		return r.Basis
	case "sample":
		return r.Sample
	}
	return ""
}
