// Copyright © 2025 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package profile implements the per-source configuration
// that binds a raw monitoring table
// to the canonical row schema.
package profile

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"gopkg.in/yaml.v3"
)

// Grouping modes.
const (
	// One output row per derived station key.
	Timeseries = "timeseries"

	// One output row per station and sample.
	Samples = "samples"
)

// Columns bind the raw table columns
// to the canonical row fields.
// Empty bindings mean the field is absent from the source.
type Columns struct {
	Station   string `yaml:"station"`
	Year      string `yaml:"year"`
	Month     string `yaml:"month"`
	Day       string `yaml:"day"`
	Date      string `yaml:"date"`
	Sample    string `yaml:"sample"`
	CAS       string `yaml:"cas"`
	Substance string `yaml:"substance"`
	Basis     string `yaml:"basis"`
	Species   string `yaml:"species"`
	Tissue    string `yaml:"tissue"`
	Value     string `yaml:"value"`
	Flag      string `yaml:"flag"`
	Unit      string `yaml:"unit"`
	Latitude  string `yaml:"latitude"`
	Longitude string `yaml:"longitude"`
}

// A Check requires the value of a canonical field
// to be defined in a codelist sheet.
type Check struct {
	Field string `yaml:"field"`
	Sheet string `yaml:"sheet"`
}

// Dataset is the constant metadata
// of a source batch.
type Dataset struct {
	ID              string `yaml:"id"`
	Name            string `yaml:"name"`
	Cruise          string `yaml:"cruise"`
	EDMOAuthor      string `yaml:"edmo_author"`
	EDMOOriginator  string `yaml:"edmo_originator"`
	EDMOCustodian   string `yaml:"edmo_custodian"`
	EDMODistributor string `yaml:"edmo_distributor"`
	Abstract        string `yaml:"abstract"`
	Area            string `yaml:"area"`
	Instrument      string `yaml:"instrument"`
	Platform        string `yaml:"platform"`
	Website         string `yaml:"website"`
}

// A Profile describes an input source:
// how to decode its table,
// how its columns map to the canonical row schema,
// and the constant metadata of the dataset.
type Profile struct {
	Name     string `yaml:"name"`
	Mode     string `yaml:"mode"`
	Comma    string `yaml:"separator"`
	Encoding string `yaml:"encoding"`

	Columns Columns `yaml:"columns"`

	// StationID lists the canonical fields
	// joined to derive the station key.
	// If empty only the station name is used.
	StationID []string `yaml:"station_id"`

	// Flags map raw quality flags
	// to SeaDataNet quality flags.
	Flags map[string]string `yaml:"flags"`

	// Units are unit codes
	// added over the built-in unit mapping.
	Units map[string]string `yaml:"units"`

	Checks []Check `yaml:"checks"`

	Dataset Dataset `yaml:"dataset"`
}

// Read reads a profile from a YAML-encoded file.
func Read(r io.Reader) (*Profile, error) {
	d := yaml.NewDecoder(r)
	p := &Profile{}
	if err := d.Decode(p); err != nil {
		return nil, fmt.Errorf("when reading profile: %v", err)
	}
	if err := p.validate(); err != nil {
		return nil, fmt.Errorf("profile %q: %v", p.Name, err)
	}
	return p, nil
}

func (p *Profile) validate() error {
	if p.Name == "" {
		return fmt.Errorf("expecting %q field", "name")
	}
	switch p.Mode {
	case Timeseries, Samples:
	case "":
		p.Mode = Timeseries
	default:
		return fmt.Errorf("unknown mode %q", p.Mode)
	}
	if utf8.RuneCountInString(p.Comma) > 1 {
		return fmt.Errorf("invalid separator %q", p.Comma)
	}

	if p.Columns.Station == "" {
		return fmt.Errorf("expecting column binding %q", "station")
	}
	if p.Columns.Value == "" {
		return fmt.Errorf("expecting column binding %q", "value")
	}
	if p.Columns.Unit == "" {
		return fmt.Errorf("expecting column binding %q", "unit")
	}
	if p.Columns.Date == "" {
		if p.Columns.Year == "" || p.Columns.Month == "" || p.Columns.Day == "" {
			return fmt.Errorf("expecting column bindings %q or %q", "date", "year-month-day")
		}
	}
	if p.Mode == Samples && p.Columns.Sample == "" {
		return fmt.Errorf("mode %q: expecting column binding %q", Samples, "sample")
	}

	for _, id := range p.StationID {
		if !validStationField(id) {
			return fmt.Errorf("unknown station_id field %q", id)
		}
	}
	for _, c := range p.Checks {
		if c.Field == "" || c.Sheet == "" {
			return fmt.Errorf("checks: expecting %q and %q fields", "field", "sheet")
		}
	}
	if p.Dataset.ID == "" {
		return fmt.Errorf("expecting dataset field %q", "id")
	}
	if p.Dataset.EDMOAuthor == "" {
		return fmt.Errorf("expecting dataset field %q", "edmo_author")
	}
	return nil
}

// Canonical fields accepted on the station_id composition.
var stationFields = []string{
	"station",
	"date",
	"species",
	"tissue",
	"basis",
	"sample",
}

func validStationField(f string) bool {
	f = strings.ToLower(f)
	for _, v := range stationFields {
		if v == f {
			return true
		}
	}
	return false
}

// Separator returns the field delimiter of the source table,
// tab if unset.
func (p *Profile) Separator() rune {
	if p.Comma == "" {
		return '\t'
	}
	r, _ := utf8.DecodeRuneInString(p.Comma)
	return r
}

// Required returns the raw table columns
// that must be present on the source.
func (p *Profile) Required() []string {
	cols := []string{
		p.Columns.Station,
		p.Columns.Value,
		p.Columns.Unit,
	}
	if p.Columns.Date != "" {
		cols = append(cols, p.Columns.Date)
	} else {
		cols = append(cols, p.Columns.Year, p.Columns.Month, p.Columns.Day)
	}
	if p.Mode == Samples {
		cols = append(cols, p.Columns.Sample)
	}
	return cols
}

// Flag maps a raw quality flag
// to a SeaDataNet quality flag.
// An empty raw flag means a good value.
// Unmapped non-empty flags mean no quality control.
func (p *Profile) Flag(raw string) string {
	if f, ok := p.Flags[raw]; ok {
		return f
	}
	if raw == "" {
		return "1"
	}
	return "0"
}
