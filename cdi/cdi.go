// Copyright © 2025 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package cdi implements the SeaDataNet
// Common Data Index catalog
// that describes the written ODV documents
// for discovery purposes.
package cdi

import (
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/js-arias/odver/odv"
	"github.com/js-arias/odver/profile"
	"github.com/js-arias/odver/tsv"
)

// The fixed catalog schema.
var header = []string{
	"LOCAL_CDI_ID",
	"EDMO_AUTHOR",
	"EDMO_ORIGINATOR",
	"EDMO_CUSTODIAN",
	"EDMO_DISTRIBUTOR",
	"DATASET_NAME",
	"DATASET_ID",
	"DATASET_REV_DATE",
	"ABSTRACT",
	"AREA_TYPE",
	"STATION_NAME",
	"LATITUDE",
	"LONGITUDE",
	"MIN_DEPTH",
	"MAX_DEPTH",
	"START_DATE",
	"END_DATE",
	"START_TIME",
	"END_TIME",
	"PARAMETER_CODE",
	"INSTRUMENT_TYPE",
	"PLATFORM_TYPE",
	"FORMAT",
	"FORMAT_VERSION",
	"DATA_SIZE",
	"DISTRIBUTION_WEBSITE",
}

// Catalog format constants.
const (
	format        = "ODV"
	formatVersion = "0.4"
)

// A Record is one row of the catalog:
// one dataset holding
// for a station and a parameter code.
type Record struct {
	LocalID         string
	EDMOAuthor      string
	EDMOOriginator  string
	EDMOCustodian   string
	EDMODistributor string
	DatasetName     string
	DatasetID       string
	RevisionDate    string
	Abstract        string
	Area            string
	Station         string
	Lat             float64
	Lon             float64
	MinDepth        string
	MaxDepth        string
	StartDate       string
	EndDate         string
	StartTime       string
	EndTime         string
	Parameter       string
	Instrument      string
	Platform        string
	Size            int64
	Website         string
}

func (rec *Record) fields() []string {
	return []string{
		rec.LocalID,
		rec.EDMOAuthor,
		rec.EDMOOriginator,
		rec.EDMOCustodian,
		rec.EDMODistributor,
		rec.DatasetName,
		rec.DatasetID,
		rec.RevisionDate,
		rec.Abstract,
		rec.Area,
		rec.Station,
		strconv.FormatFloat(rec.Lat, 'g', -1, 64),
		strconv.FormatFloat(rec.Lon, 'g', -1, 64),
		rec.MinDepth,
		rec.MaxDepth,
		rec.StartDate,
		rec.EndDate,
		rec.StartTime,
		rec.EndTime,
		rec.Parameter,
		rec.Instrument,
		rec.Platform,
		format,
		formatVersion,
		strconv.FormatInt(rec.Size, 10),
		rec.Website,
	}
}

// An Index accumulates the catalog records
// of a batch.
// The catalog is kept in memory
// and written once at the end of the batch,
// so a failed station
// leaves no partial catalog line behind.
type Index struct {
	// RevisionDate is the revision date stamp
	// of the generated records (YYYY-MM-DD).
	RevisionDate string

	recs []Record
}

// NewIndex creates an empty catalog index
// with the given revision date stamp.
func NewIndex(revisionDate string) *Index {
	return &Index{RevisionDate: revisionDate}
}

// Add appends the records of a written ODV document:
// one record per distinct parameter code of the document,
// excluding the always-present time axis.
// The file at path must be the just-written document,
// as its size is part of the record.
func (ix *Index) Add(doc *odv.Document, ds profile.Dataset, path string) error {
	fi, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("cdi: on document %q: %v", path, err)
	}

	for _, p := range doc.Parameters() {
		ix.recs = append(ix.recs, Record{
			LocalID:         doc.LocalID,
			EDMOAuthor:      ds.EDMOAuthor,
			EDMOOriginator:  ds.EDMOOriginator,
			EDMOCustodian:   ds.EDMOCustodian,
			EDMODistributor: ds.EDMODistributor,
			DatasetName:     ds.Name,
			DatasetID:       ds.ID,
			RevisionDate:    ix.RevisionDate,
			Abstract:        ds.Abstract,
			Area:            ds.Area,
			Station:         doc.Station,
			Lat:             doc.Lat,
			Lon:             doc.Lon,
			StartDate:       doc.StartDate,
			EndDate:         doc.EndDate,
			Parameter:       p,
			Instrument:      ds.Instrument,
			Platform:        ds.Platform,
			Size:            fi.Size(),
			Website:         ds.Website,
		})
	}
	return nil
}

// Len returns the number of records in the index.
func (ix *Index) Len() int {
	return len(ix.recs)
}

// Write writes the catalog:
// the fixed header row
// and one tab-separated line per record.
func (ix *Index) Write(w io.Writer) error {
	out := tsv.NewWriter(w)
	out.UseCRLF = false

	if err := out.Write(header); err != nil {
		return fmt.Errorf("when writing catalog: %v", err)
	}
	for i := range ix.recs {
		if err := out.Write(ix.recs[i].fields()); err != nil {
			return fmt.Errorf("when writing catalog: %v", err)
		}
	}
	out.Flush()
	if err := out.Error(); err != nil {
		return fmt.Errorf("when writing catalog: %v", err)
	}
	return nil
}
