// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package filters

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/tfctl/jailctl/internal/log"
	"github.com/tfctl/jailctl/internal/selector"
)

// NameKey is the property holding a resource's name.
const NameKey = "name"

// ErrMalformedFilter is returned when a filter string cannot be parsed.
var ErrMalformedFilter = errors.New("malformed filter pattern")

// validNameRegex is the character set allowed in a jail name. Glob
// characters are stripped before validation.
var validNameRegex = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._-]*$`)

// Resource is anything that exposes named properties to the filters.
type Resource interface {
	// Get returns the property value and whether the property exists.
	Get(key string) (any, bool)
}

// PatternKind tags the variant held by a Pattern.
type PatternKind int

const (
	// LiteralKind is a plain glob string.
	LiteralKind PatternKind = iota
	// SelectorKind is a [source~]pattern resource selector.
	SelectorKind
	// ListKind is a group of globs, any of which may match.
	ListKind
)

// Pattern is one alternative of a Term.
type Pattern struct {
	Kind     PatternKind
	Literal  string
	Selector selector.Selector
	List     []string
}

// LiteralPattern returns a plain glob pattern.
func LiteralPattern(glob string) Pattern {
	return Pattern{Kind: LiteralKind, Literal: glob}
}

// SelectorPattern returns a source-scoped name pattern.
func SelectorPattern(sel selector.Selector) Pattern {
	return Pattern{Kind: SelectorKind, Selector: sel}
}

// ListPattern returns a pattern matching any of the given globs.
func ListPattern(globs ...string) Pattern {
	return Pattern{Kind: ListKind, List: globs}
}

// String renders the pattern the way a user would type it.
func (p Pattern) String() string {
	switch p.Kind {
	case SelectorKind:
		return p.Selector.String()
	case ListKind:
		return strings.Join(p.List, ",")
	default:
		return p.Literal
	}
}

func (p Pattern) matches(value string, short bool) bool {
	switch p.Kind {
	case SelectorKind:
		return matchFilter(value, p.Selector.Name, short)
	case ListKind:
		for _, glob := range p.List {
			if matchFilter(value, glob, short) {
				return true
			}
		}
		return false
	default:
		return matchFilter(value, p.Literal, short)
	}
}

// matchFilter matches a glob and, when short matching is allowed, the
// short form of the value.
func matchFilter(value string, glob string, short bool) bool {
	if Match(value, glob) {
		return true
	}
	if !short || !isShortCandidate(glob) {
		return false
	}
	return shortName(value) == glob
}

// Term is a single property constraint with one or more alternative
// patterns.
type Term struct {
	Key      string
	Patterns []Pattern
}

// NewTerm returns a Term from already built patterns.
func NewTerm(key string, patterns ...Pattern) Term {
	return Term{Key: key, Patterns: patterns}
}

// ParseTerm builds a Term from a raw, possibly comma separated, value. Name
// values are parsed as resource selectors and validated.
func ParseTerm(key string, value string) (Term, error) {
	term := Term{Key: key}
	for _, v := range splitValues(value) {
		if key != NameKey {
			term.Patterns = append(term.Patterns, LiteralPattern(v))
			continue
		}

		sel := selector.Parse(v)
		if err := validateNamePattern(sel.Name); err != nil {
			return Term{}, err
		}
		term.Patterns = append(term.Patterns, SelectorPattern(sel))
	}
	return term, nil
}

// Short reports whether short name matching applies to this term.
func (t Term) Short() bool {
	return t.Key == NameKey
}

// MatchesResource reports whether the resource's property matches. A
// resource without the property fails.
func (t Term) MatchesResource(r Resource) bool {
	value, ok := r.Get(t.Key)
	if !ok {
		log.Tracef("filter key not found: %s", t.Key)
		return false
	}
	return t.Matches(value, t.Short())
}

// Matches reports whether value matches any pattern of the term. List
// values match when any element matches; short applies to the elements as
// well.
func (t Term) Matches(value any, short bool) bool {
	if value != nil {
		rv := reflect.ValueOf(value)
		if rv.Kind() == reflect.Slice && rv.Type().Elem().Kind() != reflect.Uint8 {
			for i := 0; i < rv.Len(); i++ {
				if t.Matches(rv.Index(i).Interface(), short) {
					return true
				}
			}
			return false
		}
	}

	input := ToString(value)
	for _, p := range t.Patterns {
		if p.matches(input, short) {
			return true
		}
	}
	return false
}

// String renders the term as key=value.
func (t Term) String() string {
	values := make([]string, 0, len(t.Patterns))
	for _, p := range t.Patterns {
		values = append(values, strings.ReplaceAll(p.String(), ",", `\,`))
	}
	return t.Key + "=" + strings.Join(values, ",")
}

// splitValues splits user input on commas that are not escaped with a
// backslash. "a,b\,c" yields "a" and "b,c".
func splitValues(input string) []string {
	var values []string
	for i, block := range strings.Split(input, `\,`) {
		parts := strings.Split(block, ",")
		if i > 0 && len(values) > 0 {
			values[len(values)-1] += "," + parts[0]
		} else {
			values = append(values, parts[0])
		}
		values = append(values, parts[1:]...)
	}
	return values
}

// validateNamePattern checks a name glob. A lone wildcard is valid,
// anything else must be a valid name once the wildcards are removed.
func validateNamePattern(pattern string) error {
	if len(pattern) == 1 && hasGlobs(pattern) {
		return nil
	}

	stripped := strings.Map(func(r rune) rune {
		if strings.ContainsRune(globCharacters, r) {
			return -1
		}
		return r
	}, pattern)

	if !validNameRegex.MatchString(stripped) {
		return fmt.Errorf("%w: invalid name %q", ErrMalformedFilter, pattern)
	}
	return nil
}
