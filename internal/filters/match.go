// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package filters

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/google/uuid"
)

// globCharacters are the only characters with a special meaning in a
// filter value.
const globCharacters = "*+"

// shortNameLength is the length of the short form of a UUID name.
const shortNameLength = 8

// globCache holds compiled patterns keyed by the raw glob.
var globCache sync.Map

// Match reports whether value matches the glob pattern. The pattern must
// match the whole value.
func Match(value string, pattern string) bool {
	re := compileGlob(pattern)
	return re.MatchString(value)
}

// compileGlob converts a glob into an anchored regular expression. Every
// character except the glob characters is quoted, so the result always
// compiles.
func compileGlob(pattern string) *regexp.Regexp {
	if re, ok := globCache.Load(pattern); ok {
		return re.(*regexp.Regexp)
	}

	var b strings.Builder
	b.WriteString(`(?s)^`)
	for _, r := range pattern {
		switch r {
		case '*':
			b.WriteString(".*")
		case '+':
			b.WriteString(".+")
		default:
			b.WriteString(regexp.QuoteMeta(string(r)))
		}
	}
	b.WriteString(`$`)

	re := regexp.MustCompile(b.String())
	globCache.Store(pattern, re)
	return re
}

// hasGlobs reports whether the pattern contains a wildcard.
func hasGlobs(pattern string) bool {
	return strings.ContainsAny(pattern, globCharacters)
}

// isShortCandidate reports whether a pattern may be compared against the
// short form of a value.
func isShortCandidate(pattern string) bool {
	return utf8.RuneCountInString(pattern) == shortNameLength && !hasGlobs(pattern)
}

// shortName returns the human readable form of a name: the first 8
// characters of a UUID, or the name itself.
func shortName(name string) string {
	// uuid.Parse also accepts the urn and braced forms; only the canonical
	// 36 character form is shortened.
	if len(name) != 36 {
		return name
	}
	if _, err := uuid.Parse(name); err != nil {
		return name
	}
	return name[:shortNameLength]
}

// ToString returns the canonical string form of a property value. Booleans
// render as yes/no, nil as "-", and string lists are comma joined.
func ToString(value any) string {
	switch v := value.(type) {
	case nil:
		return "-"
	case string:
		return v
	case bool:
		if v {
			return "yes"
		}
		return "no"
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case []string:
		return strings.Join(v, ",")
	case []any:
		parts := make([]string, 0, len(v))
		for _, item := range v {
			parts = append(parts, ToString(item))
		}
		return strings.Join(parts, ",")
	case fmt.Stringer:
		return v.String()
	default:
		return fmt.Sprintf("%v", v)
	}
}
