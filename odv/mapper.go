// Copyright © 2025 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package odv implements the transposition
// of canonical monitoring rows
// into Ocean Data View documents:
// one wide row per station visit
// with one tagged column pair
// per distinct parameter.
package odv

import (
	"slices"
	"strings"

	"github.com/js-arias/odver/codes"
	"github.com/js-arias/odver/rows"
	"github.com/js-arias/odver/vocab"
)

// A Mapper assigns the vocabulary identity of each row:
// the P01 parameter code,
// its P02 group,
// the P06 unit code,
// and the output column name.
type Mapper struct {
	units  *codes.UnitMap
	params *vocab.Resolver
	groups *vocab.Resolver
}

// NewMapper creates a mapper
// from a unit map,
// a resolver for search keys into P01 codes,
// and a resolver for P01 into P02 codes.
func NewMapper(units *codes.UnitMap, params, groups *vocab.Resolver) *Mapper {
	return &Mapper{
		units:  units,
		params: params,
		groups: groups,
	}
}

// A MapReport counts the rows
// dropped during identity assignment,
// for audit by the caller.
type MapReport struct {
	// Assigned is the number of rows
	// with a full vocabulary identity.
	Assigned int

	// Dropped is the number of rows
	// without a resolvable parameter code.
	Dropped int

	// Unresolved lists the distinct search keys
	// without a resolution,
	// sorted.
	Unresolved []string
}

// SearchKey returns the composite vocabulary search key of a row.
// Rows with identical semantics
// produce byte-identical keys:
// the qualifying fields are joined
// in a fixed order
// with a literal "%" separator.
func SearchKey(r *rows.Row) string {
	return r.CAS + "%" + r.Basis + "%" + r.Species + "%" + r.Tissue
}

// ColumnName returns the output column name of a row.
// Two rows describing the same conceptual parameter
// always produce the same name.
func ColumnName(r *rows.Row) string {
	parts := make([]string, 0, 4)
	for _, v := range []string{r.Substance, r.Species, r.Tissue, r.Basis} {
		if v == "" {
			continue
		}
		parts = append(parts, v)
	}
	base := strings.Join(parts, " ")
	if base == "" {
		base = r.CAS
	}
	unit := strings.Join(strings.Fields(r.Unit), "")
	return base + " [" + unit + "]"
}

// Assign attaches the vocabulary identity
// to every canonical row.
// A unit without a P06 code is fatal for the whole batch
// (an ErrUnmappedUnit from the codes package);
// rows without a resolvable parameter code
// are dropped and reported,
// and the batch continues.
func (m *Mapper) Assign(rs []rows.Row) ([]rows.Row, *MapReport, error) {
	// units first:
	// an unmapped unit must abort the batch
	// before any row is dropped
	// or any lookup persisted.
	for i := range rs {
		p06, err := m.units.Code(rs[i].Unit)
		if err != nil {
			return nil, nil, err
		}
		rs[i].P06 = p06
		rs[i].Key = SearchKey(&rs[i])
	}

	keys := make([]string, 0, len(rs))
	for i := range rs {
		keys = append(keys, rs[i].Key)
	}
	p01s, err := m.params.ResolveAll(keys)
	if err != nil {
		return nil, nil, err
	}

	codes01 := make([]string, 0, len(p01s))
	for _, c := range p01s {
		codes01 = append(codes01, c)
	}
	p02s, err := m.groups.ResolveAll(codes01)
	if err != nil {
		return nil, nil, err
	}

	rep := &MapReport{}
	unresolved := make(map[string]bool)
	var out []rows.Row
	for i := range rs {
		p01, ok := p01s[rs[i].Key]
		if ok {
			if p02, ok := p02s[p01]; ok {
				rs[i].P01 = p01
				rs[i].P02 = p02
				rs[i].Column = ColumnName(&rs[i])
				out = append(out, rs[i])
				rep.Assigned++
				continue
			}
		}
		rep.Dropped++
		unresolved[rs[i].Key] = true
	}
	for k := range unresolved {
		rep.Unresolved = append(rep.Unresolved, k)
	}
	slices.Sort(rep.Unresolved)

	return out, rep, nil
}
