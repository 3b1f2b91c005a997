// Copyright © 2025 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package vocab implements the resolution
// of source parameter identities
// into SeaDataNet controlled vocabulary codes,
// backed by a persistent file cache
// and an external vocabulary lookup service.
package vocab

import (
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"

	"github.com/js-arias/odver/tsv"
)

// ErrNotFound is the error used by Lookup implementations
// to report a code without an equivalent
// in the target vocabulary.
var ErrNotFound = errors.New("code not found")

// A Lookup is an external vocabulary service
// able to return the equivalent of a code
// in a target vocabulary.
type Lookup interface {
	// Equivalent returns the code of the target vocabulary
	// that is equivalent to a code of the source vocabulary.
	// If there is no equivalent
	// the returned error wraps ErrNotFound.
	Equivalent(code, from, to string) (string, error)
}

// An ErrUnresolved is the error produced
// when a search key has no code
// neither in the cache
// nor in the external vocabulary service.
// The affected rows are excluded from the output
// but the batch continues.
type ErrUnresolved struct {
	// The search key.
	Key string

	// Source and target vocabularies.
	From string
	To   string

	Err error
}

func (e *ErrUnresolved) Error() string {
	return fmt.Sprintf("%v: key %q [%s->%s]", e.Err, e.Key, e.From, e.To)
}

func (e *ErrUnresolved) Unwrap() error { return e.Err }

var errUnresolved = errors.New("unresolved vocabulary key")

// A Resolver maps search keys
// of a source vocabulary
// to codes of a target vocabulary.
// Resolved keys are cached on a file
// so the external service is queried
// at most once per distinct key.
type Resolver struct {
	from string
	to   string
	path string
	lk   Lookup

	cache map[string]string
	dirty bool
}

// NewResolver creates a resolver
// for the from and to vocabularies,
// reading the cache stored at path.
// A missing cache file means an empty cache.
// If path is empty
// the cache is kept only in memory.
func NewResolver(path, from, to string, lk Lookup) (*Resolver, error) {
	rv := &Resolver{
		from:  from,
		to:    to,
		path:  path,
		lk:    lk,
		cache: make(map[string]string),
	}
	if path == "" {
		return rv, nil
	}

	f, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return rv, nil
	}
	if err != nil {
		return nil, err
	}
	defer f.Close()

	if err := rv.readCache(f); err != nil {
		return nil, fmt.Errorf("on cache file %q: %v", path, err)
	}
	return rv, nil
}

func (rv *Resolver) readCache(r io.Reader) error {
	tab := tsv.NewReader(r)
	for {
		row, err := tab.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		ln, _ := tab.FieldPos(0)
		if err != nil {
			return fmt.Errorf("row %d: %v", ln, err)
		}
		if len(row) < 2 {
			return fmt.Errorf("row %d: got %d fields, want 2", ln, len(row))
		}
		key := strings.TrimSpace(row[0])
		code := strings.TrimSpace(row[1])
		if key == "" || code == "" {
			continue
		}
		rv.cache[key] = code
	}
	return nil
}

// Resolve returns the target vocabulary code of a search key.
// On a cache miss
// the external service is queried
// and the cache updated in memory;
// the cache file is not touched
// until Flush is called.
func (rv *Resolver) Resolve(key string) (string, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return "", &ErrUnresolved{Key: key, From: rv.from, To: rv.to, Err: errUnresolved}
	}
	if code, ok := rv.cache[key]; ok {
		return code, nil
	}

	code, err := rv.lk.Equivalent(key, rv.from, rv.to)
	if err != nil {
		return "", &ErrUnresolved{
			Key:  key,
			From: rv.from,
			To:   rv.to,
			Err:  fmt.Errorf("%w: %v", errUnresolved, err),
		}
	}
	rv.cache[key] = code
	rv.dirty = true
	return code, nil
}

// ResolveAll resolves every distinct key of a working set,
// querying the external service
// only for keys absent from the cache,
// and then flushes the cache in a single write.
// Keys without a resolution are left out of the returned map;
// they are row-local failures,
// not batch failures.
func (rv *Resolver) ResolveAll(keys []string) (map[string]string, error) {
	distinct := make(map[string]bool, len(keys))
	for _, k := range keys {
		k = strings.TrimSpace(k)
		if k == "" {
			continue
		}
		distinct[k] = true
	}
	sorted := make([]string, 0, len(distinct))
	for k := range distinct {
		sorted = append(sorted, k)
	}
	slices.Sort(sorted)

	m := make(map[string]string, len(sorted))
	for _, k := range sorted {
		code, err := rv.Resolve(k)
		if err != nil {
			var uErr *ErrUnresolved
			if errors.As(err, &uErr) {
				continue
			}
			return nil, err
		}
		m[k] = code
	}

	if err := rv.Flush(); err != nil {
		return nil, err
	}
	return m, nil
}

// Flush writes the cache back to its file,
// fully rewritten with sorted keys.
// It is a no-op if the cache is unchanged
// or kept only in memory.
func (rv *Resolver) Flush() error {
	if !rv.dirty || rv.path == "" {
		return nil
	}

	f, err := os.Create(rv.path)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := rv.writeCache(f); err != nil {
		return fmt.Errorf("on cache file %q: %v", rv.path, err)
	}
	rv.dirty = false
	return nil
}

func (rv *Resolver) writeCache(w io.Writer) error {
	keys := make([]string, 0, len(rv.cache))
	for k := range rv.cache {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	out := tsv.NewWriter(w)
	out.UseCRLF = false
	for _, k := range keys {
		if err := out.Write([]string{k, rv.cache[k]}); err != nil {
			return err
		}
	}
	out.Flush()
	return out.Error()
}

// Cached returns the number of keys in the cache.
func (rv *Resolver) Cached() int {
	return len(rv.cache)
}
