// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package state holds the runtime facts of running jails.
//
// The Registry takes a snapshot of every running jail in one bulk query.
// By default the snapshot comes from `jls --libxo=json -v`; jails started
// by jailctl carry the runtime name ioc-<name>, with "." in the jail name
// replaced by "*", and are keyed by <name>.
//
// Entries can be injected ahead of a query for jails that were just started
// and may not show up yet. A live entry for the same jail replaces the
// injected one.
package state
