// Copyright © 2025 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package vocab_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/js-arias/odver/vocab"
)

// A countLookup is a vocabulary service
// that serves a fixed code table
// and counts the received queries.
type countLookup struct {
	codes map[string]string
	calls map[string]int
}

func (c *countLookup) Equivalent(code, from, to string) (string, error) {
	c.calls[code]++
	if eq, ok := c.codes[code]; ok {
		return eq, nil
	}
	return "", vocab.ErrNotFound
}

func newCountLookup(codes map[string]string) *countLookup {
	return &countLookup{
		codes: codes,
		calls: make(map[string]int),
	}
}

func TestResolve(t *testing.T) {
	lk := newCountLookup(map[string]string{
		"107-06-2%dry weight%%": "SDN:P01::HSED1206",
	})
	rv, err := vocab.NewResolver("", "haz", "P01", lk)
	if err != nil {
		t.Fatalf("unexpected error: %q", err)
	}

	code, err := rv.Resolve("107-06-2%dry weight%%")
	if err != nil {
		t.Fatalf("unexpected error: %q", err)
	}
	if code != "SDN:P01::HSED1206" {
		t.Errorf("code: got %q, want %q", code, "SDN:P01::HSED1206")
	}

	// a second resolution must be served from the cache
	if _, err := rv.Resolve("107-06-2%dry weight%%"); err != nil {
		t.Fatalf("unexpected error: %q", err)
	}
	if got := lk.calls["107-06-2%dry weight%%"]; got != 1 {
		t.Errorf("lookup calls: got %d, want %d", got, 1)
	}
}

func TestResolveUnresolved(t *testing.T) {
	lk := newCountLookup(nil)
	rv, err := vocab.NewResolver("", "haz", "P01", lk)
	if err != nil {
		t.Fatalf("unexpected error: %q", err)
	}

	_, err = rv.Resolve("no-such-key")
	if err == nil {
		t.Fatalf("expecting an unresolved key error")
	}
	var uErr *vocab.ErrUnresolved
	if !errors.As(err, &uErr) {
		t.Fatalf("got error %q, want an %T error", err, uErr)
	}
	if uErr.Key != "no-such-key" {
		t.Errorf("key: got %q, want %q", uErr.Key, "no-such-key")
	}
}

func TestResolveAll(t *testing.T) {
	lk := newCountLookup(map[string]string{
		"a": "P01-A",
		"b": "P01-B",
	})
	rv, err := vocab.NewResolver("", "haz", "P01", lk)
	if err != nil {
		t.Fatalf("unexpected error: %q", err)
	}

	// row multiplicity must not multiply external calls
	got, err := rv.ResolveAll([]string{"a", "b", "a", "a", "c", "b"})
	if err != nil {
		t.Fatalf("unexpected error: %q", err)
	}
	want := map[string]string{"a": "P01-A", "b": "P01-B"}
	if len(got) != len(want) {
		t.Fatalf("resolved: got %v, want %v", got, want)
	}
	for k, c := range want {
		if got[k] != c {
			t.Errorf("resolved: got %v, want %v", got, want)
		}
	}
	for _, k := range []string{"a", "b", "c"} {
		if lk.calls[k] != 1 {
			t.Errorf("lookup calls for %q: got %d, want %d", k, lk.calls[k], 1)
		}
	}
}

func TestResolverPersistence(t *testing.T) {
	path := filepath.Join(t.TempDir(), "p01-cache.tsv")

	lk := newCountLookup(map[string]string{
		"b": "P01-B",
		"a": "P01-A",
	})
	rv, err := vocab.NewResolver(path, "haz", "P01", lk)
	if err != nil {
		t.Fatalf("unexpected error: %q", err)
	}
	if _, err := rv.ResolveAll([]string{"b", "a"}); err != nil {
		t.Fatalf("unexpected error: %q", err)
	}

	// the stored cache has sorted keys
	blob, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("unexpected error: %q", err)
	}
	want := "a\tP01-A\nb\tP01-B\n"
	if string(blob) != want {
		t.Errorf("cache file: got %q, want %q", blob, want)
	}

	// a fresh resolver on the same cache
	// must not query the external service
	rv, err = vocab.NewResolver(path, "haz", "P01", lk)
	if err != nil {
		t.Fatalf("unexpected error: %q", err)
	}
	if rv.Cached() != 2 {
		t.Fatalf("cached keys: got %d, want %d", rv.Cached(), 2)
	}
	if _, err := rv.ResolveAll([]string{"a", "b"}); err != nil {
		t.Fatalf("unexpected error: %q", err)
	}
	if lk.calls["a"] != 1 || lk.calls["b"] != 1 {
		t.Errorf("lookup calls: got %d %d, want 1 1", lk.calls["a"], lk.calls["b"])
	}
}
