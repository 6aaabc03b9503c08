// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package filters provides the filter query language used to select jails.
//
// A filter is a list of raw strings. Each string becomes one Term and all
// Terms must match for a resource to pass (logical AND).
//
//   - "key=value"  : matches the named property against value
//   - "value"      : shorthand for name=value, parsed as a resource selector
//     of the form [source~]pattern
//
// Values are shell-like globs. Only two wildcards exist:
//
//   - * : zero or more characters
//   - + : one or more characters
//
// Everything else is literal and the whole value must match. A value may
// list alternatives separated by commas ("release=13.2*,14.0*"); a comma
// escaped with a backslash is part of the value.
//
// Name matching:
//
// Jails created with a UUID as their name can be addressed by the first 8
// characters of the UUID. For the name property, an 8 character pattern
// without wildcards therefore also matches a value whose short form equals
// the pattern.
//
// List values:
//
// When a property holds a list (ip4.addr of a jail with several addresses),
// the term matches if any element matches.
//
// Examples:
//
//   - "web*"                 : jails whose name starts with web
//   - "main~web*"            : the same, only in the dataset source main
//   - "running=yes"          : running jails
//   - "ip4.addr=10.0.0.+"    : jails with an address in 10.0.0.0/24
//   - "release=13.2-RELEASE,14.0-RELEASE" : jails on either release
package filters
