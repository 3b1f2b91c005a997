// Copyright © 2025 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package cdi_test

import (
	"bytes"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/js-arias/odver/cdi"
	"github.com/js-arias/odver/odv"
	"github.com/js-arias/odver/profile"
	"github.com/js-arias/odver/rows"
)

func testDataset() profile.Dataset {
	return profile.Dataset{
		ID:         "eea-haz-2018",
		Name:       "Hazardous substances in biota",
		EDMOAuthor: "545",
		Abstract:   "Hazardous substance monitoring data.",
		Website:    "https://example.org/data",
	}
}

func writeDocument(t testing.TB) (*odv.Document, string) {
	t.Helper()

	rs := []rows.Row{
		{
			Cruise: "EEA-HAZ", Lat: 58.5, Lon: 18.2,
			Name: "BY15", Station: "BY15_2018-06-03", Date: "2018-06-03",
			CAS: "107-06-2", Substance: "1.2-dichloroethane",
			Value: "0.12", Flag: "1", Unit: "µg/kg",
			P01: "HSED1206", P02: "HCBX", P06: "UUKG",
			Column: "1.2-dichloroethane [µg/kg]",
		},
		{
			Cruise: "EEA-HAZ", Lat: 58.5, Lon: 18.2,
			Name: "BY15", Station: "BY15_2018-06-03", Date: "2018-06-03",
			CAS: "50-32-8", Substance: "benzo[a]pyrene",
			Value: "0.80", Flag: "1", Unit: "µg/kg",
			P01: "BAPY", P02: "PAHX", P06: "UUKG",
			Column: "benzo[a]pyrene [µg/kg]",
		},
	}
	doc, _ := odv.Transpose(rs, profile.Timeseries, testDataset(), "BY15_eea-haz-2018")

	path := filepath.Join(t.TempDir(), "BY15_eea-haz-2018.txt")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("unexpected error: %q", err)
	}
	defer f.Close()
	if err := doc.Write(f); err != nil {
		t.Fatalf("unexpected error: %q", err)
	}
	return doc, path
}

func TestIndex(t *testing.T) {
	doc, path := writeDocument(t)

	ix := cdi.NewIndex("2025-03-10")
	if err := ix.Add(doc, testDataset(), path); err != nil {
		t.Fatalf("unexpected error: %q", err)
	}

	// one record per distinct parameter code
	if ix.Len() != 2 {
		t.Fatalf("records: got %d, want %d", ix.Len(), 2)
	}

	var buf bytes.Buffer
	if err := ix.Write(&buf); err != nil {
		t.Fatalf("unexpected error: %q", err)
	}
	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("catalog lines: got %d, want %d", len(lines), 3)
	}

	hd := strings.Split(lines[0], "\t")
	if len(hd) != 26 {
		t.Errorf("header columns: got %d, want %d", len(hd), 26)
	}
	if hd[0] != "LOCAL_CDI_ID" || hd[25] != "DISTRIBUTION_WEBSITE" {
		t.Errorf("header: got %q ... %q", hd[0], hd[25])
	}

	fi, err := os.Stat(path)
	if err != nil {
		t.Fatalf("unexpected error: %q", err)
	}
	for i, want := range []string{"HCBX", "PAHX"} {
		fs := strings.Split(lines[i+1], "\t")
		if len(fs) != 26 {
			t.Fatalf("record columns: got %d, want %d", len(fs), 26)
		}
		if fs[0] != "BY15_eea-haz-2018" {
			t.Errorf("local id: got %q, want %q", fs[0], "BY15_eea-haz-2018")
		}
		if fs[19] != want {
			t.Errorf("parameter: got %q, want %q", fs[19], want)
		}
		if fs[7] != "2025-03-10" {
			t.Errorf("revision date: got %q, want %q", fs[7], "2025-03-10")
		}
		if fs[24] != strconv.FormatInt(fi.Size(), 10) {
			t.Errorf("data size: got %q, want %q", fs[24], strconv.FormatInt(fi.Size(), 10))
		}
	}
}

func TestIndexEmptyDocument(t *testing.T) {
	ds := testDataset()
	doc, _ := odv.Transpose(nil, profile.Timeseries, ds, "BY15_eea-haz-2018")

	path := filepath.Join(t.TempDir(), "BY15_eea-haz-2018.txt")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("unexpected error: %q", err)
	}
	if err := doc.Write(f); err != nil {
		t.Fatalf("unexpected error: %q", err)
	}
	f.Close()

	ix := cdi.NewIndex("2025-03-10")
	if err := ix.Add(doc, ds, path); err != nil {
		t.Fatalf("unexpected error: %q", err)
	}
	if ix.Len() != 0 {
		t.Errorf("records: got %d, want %d", ix.Len(), 0)
	}
}
