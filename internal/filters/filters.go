// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package filters

import (
	"fmt"
	"strings"

	"github.com/tfctl/jailctl/internal/log"
	"github.com/tfctl/jailctl/internal/selector"
)

// Terms is a conjunction of filter terms. Every term must match for a
// resource to pass. The zero value matches everything.
type Terms []Term

// ParseTerms builds Terms from raw filter strings. A string is split on the
// first "="; without one it is a name selector. Blank strings are skipped.
func ParseTerms(raw ...string) (Terms, error) {
	// Don't prealloc, blank entries are dropped.
	//nolint:prealloc
	var terms Terms

	for _, spec := range raw {
		if strings.TrimSpace(spec) == "" {
			continue
		}

		key, value, found := strings.Cut(spec, "=")
		if !found {
			sel := selector.Parse(spec)
			if err := validateNamePattern(sel.Name); err != nil {
				return nil, err
			}
			terms = append(terms, NewTerm(NameKey, SelectorPattern(sel)))
			continue
		}

		key = strings.TrimSpace(key)
		if key == "" {
			return nil, fmt.Errorf("%w: empty key in %q", ErrMalformedFilter, spec)
		}

		term, err := ParseTerm(key, value)
		if err != nil {
			return nil, err
		}
		terms = append(terms, term)
	}

	log.Debugf("filter terms: %v", terms)
	return terms, nil
}

// MatchResource reports whether every term matches the resource.
func (ts Terms) MatchResource(r Resource) bool {
	for _, term := range ts {
		if !term.MatchesResource(r) {
			return false
		}
	}
	return true
}

// MatchKey reports whether value satisfies every term on key. Terms on
// other keys are ignored, so this can be checked before the rest of a
// resource is loaded.
func (ts Terms) MatchKey(key string, value any) bool {
	short := key == NameKey
	for _, term := range ts {
		if term.Key != key {
			continue
		}
		if !term.Matches(value, short) {
			return false
		}
	}
	return true
}

// MatchSource reports whether resources from the named source can pass the
// name filter. Only the first name term carrying a selector is consulted;
// without one every source passes.
func (ts Terms) MatchSource(source string) bool {
	for _, term := range ts {
		if term.Key != NameKey || len(term.Patterns) == 0 {
			continue
		}
		first := term.Patterns[0]
		if first.Kind != SelectorKind {
			continue
		}
		if !first.Selector.HasSource() {
			return true
		}
		return first.Selector.Source == source
	}
	return true
}

// String renders the terms as a space separated filter list.
func (ts Terms) String() string {
	parts := make([]string, 0, len(ts))
	for _, t := range ts {
		parts = append(parts, t.String())
	}
	return strings.Join(parts, " ")
}
