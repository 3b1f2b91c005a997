// Copyright © 2025 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package nvs

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/js-arias/odver/vocab"
)

// EqAnswer is the answer for an equivalence request.
type eqAnswer struct {
	Results []struct {
		Code string `json:"code"`
	} `json:"results"`
}

// Equivalent returns the code of the to vocabulary
// that is equivalent to a code of the from vocabulary.
// If the code has no equivalent
// the returned error wraps vocab.ErrNotFound.
func Equivalent(code, from, to string) (string, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return "", errors.New("nvs: equivalent: search an empty code")
	}

	q := "equivalence?code=" + url.QueryEscape(code) +
		"&from=" + url.QueryEscape(from) +
		"&to=" + url.QueryEscape(to)

	var err error
	for r := 0; r < Retry; r++ {
		req := get(q)
		select {
		case err = <-req.err:
			continue
		case a := <-req.ans:
			d := json.NewDecoder(a.Body)
			ans := &eqAnswer{}
			err = d.Decode(ans)
			a.Body.Close()
			if err != nil {
				continue
			}
			if len(ans.Results) == 0 {
				return "", fmt.Errorf("nvs: equivalent: code %q [%s->%s]: %w", code, from, to, vocab.ErrNotFound)
			}
			return ans.Results[0].Code, nil
		}
	}
	if err == nil {
		return "", fmt.Errorf("nvs: equivalent: no answer after %d retries", Retry)
	}
	return "", fmt.Errorf("nvs: equivalent: %v", err)
}

// A Service is a vocab.Lookup
// backed by the NERC Vocabulary Server.
// It requires an internet connection;
// call Open before the first query.
type Service struct{}

// Equivalent implements the vocab.Lookup interface.
func (Service) Equivalent(code, from, to string) (string, error) {
	return Equivalent(code, from, to)
}
