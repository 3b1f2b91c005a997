// Copyright © 2025 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package profile_test

import (
	"strings"
	"testing"

	"github.com/js-arias/odver/profile"
)

var hazBlob = `
name: eea-hazard-substances
mode: timeseries
separator: ","
encoding: windows-1252
columns:
  station: NationalStationID
  year: Year
  month: Month
  day: Day
  cas: CASNumber
  substance: Determinand_HazSubs
  basis: Basis
  species: Species
  tissue: Tissue
  value: Concentration
  flag: LOD_LOQ_Flag
  unit: Unit_HazSubs
station_id:
  - station
  - species
  - date
flags:
  "<": "6"
  ">": "3"
units:
  "ng/kg": "UNKG"
checks:
  - field: basis
    sheet: basis
dataset:
  id: eea-haz-2018
  name: Hazardous substances in biota
  cruise: EEA-HAZ
  edmo_author: "545"
  abstract: Hazardous substance monitoring data.
`

func TestRead(t *testing.T) {
	p, err := profile.Read(strings.NewReader(hazBlob))
	if err != nil {
		t.Fatalf("unexpected error: %q", err)
	}

	if p.Name != "eea-hazard-substances" {
		t.Errorf("name: got %q, want %q", p.Name, "eea-hazard-substances")
	}
	if p.Mode != profile.Timeseries {
		t.Errorf("mode: got %q, want %q", p.Mode, profile.Timeseries)
	}
	if p.Separator() != ',' {
		t.Errorf("separator: got %q, want %q", p.Separator(), ',')
	}
	if p.Columns.Station != "NationalStationID" {
		t.Errorf("station column: got %q, want %q", p.Columns.Station, "NationalStationID")
	}
	if p.Dataset.EDMOAuthor != "545" {
		t.Errorf("edmo_author: got %q, want %q", p.Dataset.EDMOAuthor, "545")
	}

	req := p.Required()
	for _, c := range []string{"NationalStationID", "Concentration", "Unit_HazSubs", "Year", "Month", "Day"} {
		found := false
		for _, r := range req {
			if r == c {
				found = true
			}
		}
		if !found {
			t.Errorf("required columns %v: expecting %q", req, c)
		}
	}
}

func TestFlag(t *testing.T) {
	p, err := profile.Read(strings.NewReader(hazBlob))
	if err != nil {
		t.Fatalf("unexpected error: %q", err)
	}

	tests := map[string]struct {
		raw  string
		want string
	}{
		"empty is good":   {raw: "", want: "1"},
		"below LOD":       {raw: "<", want: "6"},
		"above range":     {raw: ">", want: "3"},
		"unmapped number": {raw: "8", want: "0"},
		"unmapped word":   {raw: "LOQ", want: "0"},
	}
	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			if got := p.Flag(test.raw); got != test.want {
				t.Errorf("%s: flag %q: got %q, want %q", name, test.raw, got, test.want)
			}
		})
	}
}

func TestReadError(t *testing.T) {
	tests := map[string]string{
		"unknown mode": `
name: bad
mode: wide
columns:
  station: sid
  value: val
  unit: unit
  date: date
dataset:
  id: x
  edmo_author: "545"
`,
		"missing value column": `
name: bad
columns:
  station: sid
  unit: unit
  date: date
dataset:
  id: x
  edmo_author: "545"
`,
		"missing date columns": `
name: bad
columns:
  station: sid
  value: val
  unit: unit
  year: Year
dataset:
  id: x
  edmo_author: "545"
`,
		"missing edmo author": `
name: bad
columns:
  station: sid
  value: val
  unit: unit
  date: date
dataset:
  id: x
`,
		"bad station_id field": `
name: bad
columns:
  station: sid
  value: val
  unit: unit
  date: date
station_id:
  - cruise
dataset:
  id: x
  edmo_author: "545"
`,
	}

	for name, blob := range tests {
		t.Run(name, func(t *testing.T) {
			if _, err := profile.Read(strings.NewReader(blob)); err == nil {
				t.Errorf("%s: expecting error", name)
			}
		})
	}
}
