// Copyright © 2025 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package odv_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/js-arias/odver/odv"
	"github.com/js-arias/odver/profile"
	"github.com/js-arias/odver/rows"
)

func testDataset() profile.Dataset {
	return profile.Dataset{
		ID:         "eea-haz-2018",
		EDMOAuthor: "545",
	}
}

func mappedRow(cas, substance, value, date string) rows.Row {
	r := rows.Row{
		Cruise:    "EEA-HAZ",
		Lat:       58.5,
		Lon:       18.2,
		Name:      "BY15",
		Station:   "BY15_Clupea harengus_" + date,
		Date:      date,
		CAS:       cas,
		Substance: substance,
		Basis:     "dry weight",
		Species:   "Clupea harengus",
		Tissue:    "muscle",
		Value:     value,
		Flag:      "1",
		Unit:      "µg/kg",
		P01:       "P01-" + cas,
		P02:       "P02-" + cas,
		P06:       "UUKG",
	}
	r.Column = odv.ColumnName(&r)
	return r
}

func TestTranspose(t *testing.T) {
	rs := []rows.Row{
		mappedRow("107-06-2", "1.2-dichloroethane", "0.12", "2018-06-03"),
		mappedRow("50-32-8", "benzo[a]pyrene", "0.80", "2018-06-03"),
		mappedRow("107-06-2", "1.2-dichloroethane", "0.15", "2018-07-14"),
	}
	doc, rep := odv.Transpose(rs, profile.Timeseries, testDataset(), "BY15_eea-haz-2018")

	if rep.Groups != 2 {
		t.Errorf("groups: got %d, want %d", rep.Groups, 2)
	}
	if rep.Columns != 2 {
		t.Errorf("columns: got %d, want %d", rep.Columns, 2)
	}
	if doc.Len() != 2 {
		t.Errorf("data lines: got %d, want %d", doc.Len(), 2)
	}
	if doc.Station != "BY15" {
		t.Errorf("station: got %q, want %q", doc.Station, "BY15")
	}
	if doc.StartDate != "2018-06-03" || doc.EndDate != "2018-07-14" {
		t.Errorf("coverage: got %q-%q, want %q-%q", doc.StartDate, doc.EndDate, "2018-06-03", "2018-07-14")
	}

	params := doc.Parameters()
	want := []string{"P02-107-06-2", "P02-50-32-8"}
	if len(params) != len(want) {
		t.Fatalf("parameters: got %v, want %v", params, want)
	}
	for i, p := range want {
		if params[i] != p {
			t.Errorf("parameters: got %v, want %v", params, want)
		}
	}

	var buf bytes.Buffer
	if err := doc.Write(&buf); err != nil {
		t.Fatalf("unexpected error: %q", err)
	}
	lines := strings.Split(buf.String(), "\n")

	// the primary time axis semantic line is always first
	wantLn := "//<subject>SDN:LOCAL:time_ISO8601</subject><object>SDN:P01::DTUT8601</object><units>SDN:P06::TISO</units>"
	if lines[1] != wantLn {
		t.Errorf("semantic line: got %q, want %q", lines[1], wantLn)
	}
	if lines[0] != "//SDN_parameter_mapping" {
		t.Errorf("mapping marker: got %q, want %q", lines[0], "//SDN_parameter_mapping")
	}

	// data lines carry explicit sign prefixes
	// and the local CDI id
	data := lines[6]
	for _, f := range []string{"+18.2", "+58.5", "BY15_eea-haz-2018", "545", "*"} {
		if !strings.Contains(data, f) {
			t.Errorf("data line %q: expecting field %q", data, f)
		}
	}
}

func TestTransposeDeterminism(t *testing.T) {
	rs := []rows.Row{
		mappedRow("50-32-8", "benzo[a]pyrene", "0.80", "2018-06-03"),
		mappedRow("107-06-2", "1.2-dichloroethane", "0.12", "2018-06-03"),
		mappedRow("118-74-1", "hexachlorobenzene", "0.05", "2018-07-14"),
	}

	var first, second bytes.Buffer
	doc, _ := odv.Transpose(rs, profile.Timeseries, testDataset(), "BY15_eea-haz-2018")
	doc.AddComment("SDN_dataset_name: haz")
	doc.AddComment("SDN_dataset_name: haz")
	if err := doc.Write(&first); err != nil {
		t.Fatalf("unexpected error: %q", err)
	}
	doc, _ = odv.Transpose(rs, profile.Timeseries, testDataset(), "BY15_eea-haz-2018")
	doc.AddComment("SDN_dataset_name: haz")
	if err := doc.Write(&second); err != nil {
		t.Fatalf("unexpected error: %q", err)
	}

	if !bytes.Equal(first.Bytes(), second.Bytes()) {
		t.Errorf("serialization is not deterministic:\n%q\n%q", first.String(), second.String())
	}
}

func TestTransposeOverwrite(t *testing.T) {
	rs := []rows.Row{
		mappedRow("107-06-2", "1.2-dichloroethane", "0.12", "2018-06-03"),
		mappedRow("107-06-2", "1.2-dichloroethane", "0.33", "2018-06-03"),
	}
	doc, rep := odv.Transpose(rs, profile.Timeseries, testDataset(), "BY15_eea-haz-2018")

	if rep.Groups != 1 {
		t.Fatalf("groups: got %d, want %d", rep.Groups, 1)
	}
	if rep.Overwrites != 1 {
		t.Errorf("overwrites: got %d, want %d", rep.Overwrites, 1)
	}

	// the last written value wins
	var buf bytes.Buffer
	if err := doc.Write(&buf); err != nil {
		t.Fatalf("unexpected error: %q", err)
	}
	if !strings.Contains(buf.String(), "\t0.33\t") {
		t.Errorf("document %q: expecting value %q", buf.String(), "0.33")
	}
	if strings.Contains(buf.String(), "0.12") {
		t.Errorf("document %q: value %q must be overwritten", buf.String(), "0.12")
	}
}

func TestTransposeEmpty(t *testing.T) {
	doc, rep := odv.Transpose(nil, profile.Timeseries, testDataset(), "BY15_eea-haz-2018")

	if rep.Groups != 0 {
		t.Errorf("groups: got %d, want %d", rep.Groups, 0)
	}
	if doc.Len() != 0 {
		t.Errorf("data lines: got %d, want %d", doc.Len(), 0)
	}
	if len(doc.Parameters()) != 0 {
		t.Errorf("parameters: got %v, want an empty set", doc.Parameters())
	}

	var buf bytes.Buffer
	if err := doc.Write(&buf); err != nil {
		t.Fatalf("unexpected error: %q", err)
	}
	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	// mapping marker, primary semantic line,
	// blank separator, and the header line
	if len(lines) != 4 {
		t.Errorf("document lines: got %d, want %d:\n%q", len(lines), 4, buf.String())
	}
	if !strings.HasPrefix(lines[3], "Cruise\tStation\tType") {
		t.Errorf("header line: got %q", lines[3])
	}
}

func TestTransposeSamples(t *testing.T) {
	a := mappedRow("107-06-2", "1.2-dichloroethane", "0.12", "2018-06-03")
	a.Sample = "s1"
	b := mappedRow("107-06-2", "1.2-dichloroethane", "0.33", "2018-06-03")
	b.Sample = "s2"

	_, rep := odv.Transpose([]rows.Row{a, b}, profile.Samples, testDataset(), "BY15_eea-haz-2018")
	if rep.Groups != 2 {
		t.Errorf("groups: got %d, want %d", rep.Groups, 2)
	}
	if rep.Overwrites != 0 {
		t.Errorf("overwrites: got %d, want %d", rep.Overwrites, 0)
	}
}
