// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package datasets

import "errors"

var (
	// ErrNotActivated is returned when no main source is configured and no
	// pool is marked active.
	ErrNotActivated = errors.New("no dataset source activated")

	// ErrResourceUnmanaged is returned when a dataset lies outside every
	// registered source.
	ErrResourceUnmanaged = errors.New("dataset is not managed by any source")

	// ErrActivationConflict is returned when pool activation is attempted
	// while sources are declared in rc.conf.
	ErrActivationConflict = errors.New("pool activation failed")

	// ErrPoolUnavailable is returned when the target pool is not healthy.
	ErrPoolUnavailable = errors.New("pool is unavailable")

	// ErrPoolInvalid is returned when the activation target is not a pool.
	ErrPoolInvalid = errors.New("invalid pool")

	// ErrMountpointConflict is returned when a new root would need the
	// preferred mountpoint but it is already in use.
	ErrMountpointConflict = errors.New("preferred mountpoint in use")

	// ErrNoMountpoint is returned when a source root has no mountpoint.
	ErrNoMountpoint = errors.New("source dataset has no mountpoint")
)

// ErrUnknownSource is returned when a named source is not registered.
var ErrUnknownSource = errors.New("unknown dataset source")
