// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package storage defines the narrow contract jailctl needs from a
// hierarchical, property-bearing storage pool (ZFS in production). Datasets
// are addressed by slash-separated paths whose first segment is the pool
// name. Handles returned by a Backend are snapshots; callers re-read a
// dataset after mutating it.
package storage
