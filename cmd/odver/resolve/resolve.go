// Copyright © 2025 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package resolve implements a command to warm
// the vocabulary cache
// for a monitoring data table.
package resolve

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/js-arias/command"
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
	Usage: `resolve --profile <file> --stations <file>[,<file>...]
	[--codes <file>] [--cache <dir>] [-i|--input <file>]`,
	Short: "warm the vocabulary cache",
	Long: `
Command resolve reads a row-oriented monitoring data table from the standard
input and resolves every distinct parameter identity against the SeaDataNet
vocabularies, storing the resolutions on the file cache, without writing any
ODV output.

Vocabulary searches are slow, so this command lets the cache be filled ahead
of a convert run. Identities already present in the cache are not searched
again.

The flags --profile, --stations, and --codes are the same as in the convert
command. The cache is stored under the directory given by --cache (the
current directory by default).

This command requires an internet connection.

By default, it will read the data from the standard input; use the flag
--input, or -i, to select a particular file.
	`,
	SetFlags: setFlags,
	Run:      run,
}

var profFile string
var stFiles string
var codeFile string
var cacheDir string
var input string

func setFlags(c *command.Command) {
	c.Flags().StringVar(&profFile, "profile", "", "")
	c.Flags().StringVar(&stFiles, "stations", "", "")
	c.Flags().StringVar(&codeFile, "codes", "", "")
	c.Flags().StringVar(&cacheDir, "cache", "", "")
	c.Flags().StringVar(&input, "input", "", "")
	c.Flags().StringVar(&input, "i", "", "")
}

func run(c *command.Command, args []string) error {
	if profFile == "" {
		return c.UsageError("expecting --profile flag")
	}
	if stFiles == "" {
		return c.UsageError("expecting --stations flag")
	}

	pf, err := os.Open(profFile)
	if err != nil {
		return err
	}
	p, err := profile.Read(pf)
	pf.Close()
	if err != nil {
		return fmt.Errorf("on file %q: %v", profFile, err)
	}

	var cl *codes.Codelist
	if codeFile != "" {
		cf, err := os.Open(codeFile)
		if err != nil {
			return err
		}
		cl, err = codes.ReadCodelist(cf)
		cf.Close()
		if err != nil {
			return fmt.Errorf("on file %q: %v", codeFile, err)
		}
	}

	ix := stations.NewIndex()
	for _, name := range strings.Split(stFiles, ",") {
		f, err := os.Open(name)
		if err != nil {
			return err
		}
		t, err := table.Read(f, table.Options{Name: name})
		f.Close()
		if err != nil {
			return err
		}
		if err := ix.Read(t); err != nil {
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
	rs, _, err := norm.Normalize(raw)
	if err != nil {
		return err
	}

	keys := make([]string, 0, len(rs))
	for i := range rs {
		keys = append(keys, odv.SearchKey(&rs[i]))
	}

	nvs.Open()
	params, err := vocab.NewResolver(filepath.Join(cacheDir, "p01-cache.tsv"), "LOCAL", "P01", nvs.Service{})
	if err != nil {
		return err
	}
	p01s, err := params.ResolveAll(keys)
	if err != nil {
		return err
	}

	groups, err := vocab.NewResolver(filepath.Join(cacheDir, "p02-cache.tsv"), "P01", "P02", nvs.Service{})
	if err != nil {
		return err
	}
	codes01 := make([]string, 0, len(p01s))
	for _, c01 := range p01s {
		codes01 = append(codes01, c01)
	}
	p02s, err := groups.ResolveAll(codes01)
	if err != nil {
		return err
	}

	fmt.Fprintf(c.Stderr(), "%s: %d rows, %d parameter codes, %d parameter groups\n", input, len(rs), len(p01s), len(p02s))
	return nil
}
