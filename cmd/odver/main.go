// Copyright © 2025 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// ODVer is a tool to convert monitoring data tables
// into ODV files and SeaDataNet CDI catalog records.
package main

import (
	"github.com/js-arias/command"
	"github.com/js-arias/odver/cmd/odver/convert"
	"github.com/js-arias/odver/cmd/odver/resolve"
	"github.com/js-arias/odver/cmd/odver/stations"
)

var app = &command.Command{
	Usage: "odver <command> [<argument>...]",
	Short: "a tool to convert monitoring data tables to ODV",
}

func init() {
	app.Add(convert.Command)
	app.Add(resolve.Command)
	app.Add(stations.Command)
}

func main() {
	app.Main()
}
