// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package datasets manages the storage roots jails live under.
//
// A source is a named root dataset together with four conventional
// children:
//
//	<root>/releases  fetched releases
//	<root>/base      base images
//	<root>/jails     one child dataset per jail
//	<root>/pkg       package cache
//
// The children are created on first access.
//
// Datasets holds the ordered set of sources. The first source attached is
// the main source. Sources are discovered once, by the first of these that
// yields anything:
//
//  1. sources passed explicitly to New (WithSources)
//  2. ioc_dataset_<name>="<dataset>" declarations in rc.conf
//  3. the pool whose root dataset carries org.freebsd.ioc:active=yes,
//     attached as source "ioc" at <pool>/iocage
//
// When nothing is found the registry stays empty and operations needing
// the main source fail with ErrNotActivated.
//
// Activation marks a single pool active and clears the marker on every
// other pool. It is refused when sources come from rc.conf, since both
// mechanisms would then disagree about where jails live.
//
// FilteredDatasets is a read-only view restricted to a set of source names.
package datasets
