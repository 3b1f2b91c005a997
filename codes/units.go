// Copyright © 2025 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package codes

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

// An ErrUnmappedUnit is the error produced
// when a unit string has no defined P06 code.
// It aborts the whole batch:
// guessing a unit code would corrupt the data,
// so the mapping must be extended
// and the batch rerun.
type ErrUnmappedUnit struct {
	Unit string

	Err error
}

func (e *ErrUnmappedUnit) Error() string {
	return fmt.Sprintf("%v: unit %q", e.Err, e.Unit)
}

func (e *ErrUnmappedUnit) Unwrap() error { return e.Err }

var errUnmappedUnit = errors.New("unit without a P06 code")

// builtinUnits are the unit strings
// found in the supported monitoring sources.
var builtinUnits = map[string]string{
	"µg/kg":  "UUKG",
	"ug/kg":  "UUKG",
	"mg/kg":  "UMKG",
	"ng/g":   "UUKG",
	"µg/l":   "UGPL",
	"ug/l":   "UGPL",
	"mg/l":   "UMGL",
	"ng/l":   "UNGL",
	"ml/l":   "UMLL",
	"umol/l": "UPOX",
	"psu":    "UUUU",
	"degc":   "UPAA",
	"%":      "UPCT",
}

// A UnitMap maps unit strings to P06 unit codes.
type UnitMap struct {
	m map[string]string
}

// Units returns a unit map
// with the built-in unit codes.
func Units() *UnitMap {
	m := make(map[string]string, len(builtinUnits))
	for u, c := range builtinUnits {
		m[u] = c
	}
	return &UnitMap{m: m}
}

// Merge adds the given unit codes to the map,
// replacing any built-in definition.
func (u *UnitMap) Merge(units map[string]string) {
	for unit, code := range units {
		unit = strings.ToLower(strings.TrimSpace(unit))
		code = strings.TrimSpace(code)
		if unit == "" || code == "" {
			continue
		}
		u.m[unit] = code
	}
}

// Code returns the P06 code of a unit string.
// If the unit has no defined code
// it returns an ErrUnmappedUnit error.
func (u *UnitMap) Code(unit string) (string, error) {
	c, ok := u.m[strings.ToLower(strings.TrimSpace(unit))]
	if !ok {
		return "", &ErrUnmappedUnit{
			Unit: unit,
			Err:  errUnmappedUnit,
		}
	}
	return c, nil
}

// List returns the sorted list of unit strings in the map.
func (u *UnitMap) List() []string {
	s := make([]string, 0, len(u.m))
	for unit := range u.m {
		s = append(s, unit)
	}
	slices.Sort(s)
	return s
}
