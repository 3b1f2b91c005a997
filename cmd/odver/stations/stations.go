// Copyright © 2025 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package stations implements a command to inspect
// station registry files.
package stations

import (
	"fmt"
	"os"
	"strconv"

	"github.com/js-arias/command"
	"github.com/js-arias/odver/stations"
	"github.com/js-arias/odver/table"
	"github.com/js-arias/odver/tsv"
)

var Command = &command.Command{
	Usage: `stations [--find <station>]
	[-o|--output <file>] <file>...`,
	Short: "inspect station registries",
	Long: `
Command stations reads one or more station registry files and prints the
merged index in the standard output, one station per line, with its position
in signed decimal degrees and the registry the position came from.

Registries are loaded in the given order: a station found in an earlier
registry is never replaced by a later one. Positions given in degree and
decimal-minute encoding are converted to decimal degrees.

If the flag --find is defined, only the position of the indicated station
will be printed. The search is case-insensitive.

By default, the results will be printed in the standard output; use the flag
--output, or -o, to define an output file.
	`,
	SetFlags: setFlags,
	Run:      run,
}

var find string
var output string

func setFlags(c *command.Command) {
	c.Flags().StringVar(&find, "find", "", "")
	c.Flags().StringVar(&output, "output", "", "")
	c.Flags().StringVar(&output, "o", "", "")
}

func run(c *command.Command, args []string) (err error) {
	if len(args) == 0 {
		return c.UsageError("expecting registry file arguments")
	}

	ix := stations.NewIndex()
	for _, name := range args {
		if err := readRegistry(ix, name); err != nil {
			return err
		}
	}

	out := c.Stdout()
	if output != "" {
		var f *os.File
		f, err = os.Create(output)
		if err != nil {
			return err
		}
		defer func() {
			e := f.Close()
			if e != nil && err == nil {
				err = e
			}
		}()
		out = f
	} else {
		output = "stdout"
	}

	if find != "" {
		p, ok := ix.Position(find)
		if !ok {
			return fmt.Errorf("station %q: not found", find)
		}
		fmt.Fprintf(out, "%s\t%g\t%g\t%s\n", find, p.Lat, p.Lon, p.Source)
		return nil
	}

	w := tsv.NewWriter(out)
	w.UseCRLF = false
	for _, id := range ix.IDs() {
		p, _ := ix.Position(id)
		row := []string{
			id,
			strconv.FormatFloat(p.Lat, 'g', -1, 64),
			strconv.FormatFloat(p.Lon, 'g', -1, 64),
			p.Source,
		}
		if err := w.Write(row); err != nil {
			return fmt.Errorf("when writing on %q: %v", output, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("when writing on %q: %v", output, err)
	}
	return nil
}

func readRegistry(ix *stations.Index, name string) error {
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
