// Copyright © 2025 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package convert implements a command to convert
// a monitoring data table
// into ODV files
// and a CDI catalog.
package convert

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/js-arias/command"
	"github.com/js-arias/odver/cdi"
	"github.com/js-arias/odver/codes"
	"github.com/js-arias/odver/nvs"
	"github.com/js-arias/odver/odv"
	"github.com/js-arias/odver/profile"
	"github.com/js-arias/odver/rows"
	"github.com/js-arias/odver/stations"
	"github.com/js-arias/odver/table"
	"github.com/js-arias/odver/vocab"
)

var Command = &command.Command{
	Usage: `convert --profile <file> --stations <file>[,<file>...]
	[--codes <file>] [--cache <dir>]
	[-i|--input <file>] [-o|--output <dir>]`,
	Short: "convert a monitoring table to ODV and CDI",
	Long: `
Command convert reads a row-oriented monitoring data table from the standard
input and writes one ODV file per station, plus a CDI catalog (cdi_info.txt),
under the output directory.

The flag --profile is required and indicates the source profile, a YAML file
that defines the table delimiter and encoding, the mapping from the raw
columns to the canonical row schema, and the dataset metadata.

The flag --stations is required and indicates one or more station registry
files, separated by commas. Registries are tab-delimited and loaded in
decreasing order of authority: a station found in an earlier registry is
never replaced.

If the flag --codes is defined, the indicated codelist file will be used to
validate the categorical values required by the profile.

Parameter identities are resolved against the SeaDataNet vocabularies using
a file cache stored under the directory given by --cache (the current
directory by default). Only identities absent from the cache are searched on
the vocabulary server, so this command may require an internet connection.

A unit without a P06 code aborts the whole conversion before any file is
written: extend the unit mapping on the profile and rerun. Rows without a
position or a resolvable parameter are skipped and counted; the counts are
printed at the end of the run.

By default, it will read the data from the standard input; use the flag
--input, or -i, to select a particular file.

By default, the results will be written under the "odv" directory; use the
flag --output, or -o, to define another directory.
	`,
	SetFlags: setFlags,
	Run:      run,
}

var profFile string
var stFiles string
var codeFile string
var cacheDir string
var input string
var output string

func setFlags(c *command.Command) {
	c.Flags().StringVar(&profFile, "profile", "", "")
	c.Flags().StringVar(&stFiles, "stations", "", "")
	c.Flags().StringVar(&codeFile, "codes", "", "")
	c.Flags().StringVar(&cacheDir, "cache", "", "")
	c.Flags().StringVar(&input, "input", "", "")
	c.Flags().StringVar(&input, "i", "", "")
	c.Flags().StringVar(&output, "output", "odv", "")
	c.Flags().StringVar(&output, "o", "odv", "")
}

func run(c *command.Command, args []string) error {
	if profFile == "" {
		return c.UsageError("expecting --profile flag")
	}
	if stFiles == "" {
		return c.UsageError("expecting --stations flag")
	}

	p, err := readProfile(profFile)
	if err != nil {
		return err
	}

	var cl *codes.Codelist
	if codeFile != "" {
		cl, err = readCodelist(codeFile)
		if err != nil {
			return err
		}
	}

	ix := stations.NewIndex()
	for _, name := range strings.Split(stFiles, ",") {
		if err := readStations(ix, name); err != nil {
			return err
		}
	}

	in := c.Stdin()
	if input != "" {
		f, err := os.Open(input)
		if err != nil {
			return err
		}
		defer f.Close()
		in = f
	} else {
		input = "stdin"
	}
	raw, err := table.Read(in, table.Options{
		Name:     input,
		Comma:    p.Separator(),
		Encoding: p.Encoding,
	})
	if err != nil {
		return err
	}

	norm, err := rows.NewNormalizer(p, ix, cl)
	if err != nil {
		return err
	}
	rs, nRep, err := norm.Normalize(raw)
	if err != nil {
		return err
	}

	units := codes.Units()
	units.Merge(p.Units)

	nvs.Open()
	params, err := vocab.NewResolver(filepath.Join(cacheDir, "p01-cache.tsv"), "LOCAL", "P01", nvs.Service{})
	if err != nil {
		return err
	}
	groups, err := vocab.NewResolver(filepath.Join(cacheDir, "p02-cache.tsv"), "P01", "P02", nvs.Service{})
	if err != nil {
		return err
	}

	mapped, mRep, err := odv.NewMapper(units, params, groups).Assign(rs)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(output, 0755); err != nil {
		return err
	}

	cat := cdi.NewIndex(time.Now().Format("2006-01-02"))
	for _, name := range stationNames(mapped) {
		if err := writeStation(mapped, name, p, cat); err != nil {
			return err
		}
	}

	cName := filepath.Join(output, "cdi_info.txt")
	cf, err := os.Create(cName)
	if err != nil {
		return err
	}
	if err := cat.Write(cf); err != nil {
		cf.Close()
		return fmt.Errorf("when writing on %q: %v", cName, err)
	}
	if err := cf.Close(); err != nil {
		return err
	}

	report(c, nRep, mRep, cat)
	return nil
}

func readProfile(name string) (*profile.Profile, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	p, err := profile.Read(f)
	if err != nil {
		return nil, fmt.Errorf("on file %q: %v", name, err)
	}
	return p, nil
}

func readCodelist(name string) (*codes.Codelist, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	cl, err := codes.ReadCodelist(f)
	if err != nil {
		return nil, fmt.Errorf("on file %q: %v", name, err)
	}
	return cl, nil
}

func readStations(ix *stations.Index, name string) error {
	f, err := os.Open(name)
	if err != nil {
		return err
	}
	defer f.Close()

	t, err := table.Read(f, table.Options{Name: name})
	if err != nil {
		return err
	}
	return ix.Read(t)
}

func stationNames(rs []rows.Row) []string {
	set := make(map[string]bool)
	for i := range rs {
		set[rs[i].Name] = true
	}
	names := make([]string, 0, len(set))
	for n := range set {
		names = append(names, n)
	}
	slices.Sort(names)
	return names
}

func writeStation(rs []rows.Row, name string, p *profile.Profile, cat *cdi.Index) (err error) {
	var st []rows.Row
	for i := range rs {
		if rs[i].Name == name {
			st = append(st, rs[i])
		}
	}

	doc, _ := odv.Transpose(st, p.Mode, p.Dataset, localID(name, p.Dataset.ID))
	doc.AddComment("SDN_dataset_id: " + p.Dataset.ID)
	if p.Dataset.Name != "" {
		doc.AddComment("SDN_dataset_name: " + p.Dataset.Name)
	}

	fName := filepath.Join(output, doc.LocalID+".txt")
	f, err := os.Create(fName)
	if err != nil {
		return err
	}
	defer func() {
		e := f.Close()
		if e != nil && err == nil {
			err = e
		}
	}()

	if err := doc.Write(f); err != nil {
		return fmt.Errorf("when writing on %q: %v", fName, err)
	}
	if err := f.Sync(); err != nil {
		return err
	}
	return cat.Add(doc, p.Dataset, fName)
}

// LocalID builds the local CDI identifier of a station,
// sanitized for file naming.
func localID(station, dataset string) string {
	id := station + "_" + dataset
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z':
			return r
		case r >= 'A' && r <= 'Z':
			return r
		case r >= '0' && r <= '9':
			return r
		case r == '-' || r == '_' || r == '.':
			return r
		}
		return '_'
	}, id)
}

func report(c *command.Command, nRep *rows.Report, mRep *odv.MapReport, cat *cdi.Index) {
	fmt.Fprintf(c.Stderr(), "%s: read %d rows, %d normalized, %d mapped, %d catalog records\n", input, nRep.Read, nRep.Rows, mRep.Assigned, cat.Len())
	if nRep.NoPosition > 0 {
		fmt.Fprintf(c.Stderr(), "%s: %d rows without a station position (stations: %s)\n", input, nRep.NoPosition, strings.Join(nRep.MissingStations, ", "))
	}
	if n := nRep.NoStation + nRep.BadDate + nRep.NoValue + nRep.BadValue; n > 0 {
		fmt.Fprintf(c.Stderr(), "%s: %d rows without a station, date, value, or valid categorical value\n", input, n)
	}
	if mRep.Dropped > 0 {
		fmt.Fprintf(c.Stderr(), "%s: %d rows without a vocabulary resolution:\n", input, mRep.Dropped)
		for _, k := range mRep.Unresolved {
			fmt.Fprintf(c.Stderr(), "\t%s\n", k)
		}
	}
}
