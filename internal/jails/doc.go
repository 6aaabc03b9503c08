// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package jails enumerates the jails stored below the jails dataset of
// every source.
//
// A Collection walks the sources lazily. Each pass refreshes the runtime
// state once, then for every child dataset builds a Jail, attaches its
// runtime state and yields it if it passes the filters. Names are checked
// before the jail configuration is read, so a name filter keeps a pass
// cheap.
//
// Collection.All returns an iter.Seq2; breaking out of the range loop stops
// the walk. Collection.List collects the same sequence into a slice.
package jails
