// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package output provides sorting, transforming, and emission utilities used
// by commands to present results as a table, JSON or YAML.
package output
