// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

// Package selector parses resource addressing strings of the form
// [source~]pattern.
package selector

import (
	"strings"
)

// Delimiter separates the optional source name from the name pattern.
const Delimiter = "~"

// Selector addresses resources by name pattern, optionally restricted to a
// single dataset source.
type Selector struct {
	// Source is empty when the selector applies to every source.
	Source string
	Name   string
}

// Parse splits a selector string on the first delimiter. "main~web*"
// selects web* in source main; "web*" selects it everywhere; a leading
// delimiter ("~web*") is the same as no source.
func Parse(s string) Selector {
	parts := strings.SplitN(s, Delimiter, 2)
	if len(parts) == 1 {
		return Selector{Name: parts[0]}
	}
	return Selector{Source: parts[0], Name: parts[1]}
}

// HasSource reports whether the selector is restricted to a source.
func (s Selector) HasSource() bool {
	return s.Source != ""
}

// String returns the selector in its parseable form.
func (s Selector) String() string {
	if s.Source == "" {
		return s.Name
	}
	return s.Source + Delimiter + s.Name
}
