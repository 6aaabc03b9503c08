// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package datasets

import (
	"slices"

	"github.com/tfctl/jailctl/internal/log"
)

// FilteredDatasets is a read-only view of Datasets limited to a set of
// source names. Sources are attached through the wrapped Datasets; call
// SetSourceFilters to pick up changes.
type FilteredDatasets struct {
	registry

	datasets *Datasets
	filters  []string
}

// Filter returns a view of ds limited to sources. A nil sources slice
// applies no restriction.
func Filter(ds *Datasets, sources []string) *FilteredDatasets {
	f := &FilteredDatasets{
		registry: newRegistry(),
		datasets: ds,
	}
	f.SetSourceFilters(sources)
	return f
}

// Datasets returns the wrapped registry.
func (f *FilteredDatasets) Datasets() *Datasets {
	return f.datasets
}

// SourceFilters returns the allowed source names, or nil when unrestricted.
func (f *FilteredDatasets) SourceFilters() []string {
	return slices.Clone(f.filters)
}

// SetSourceFilters replaces the allowed source names and rebuilds the view.
func (f *FilteredDatasets) SetSourceFilters(sources []string) {
	f.reset()
	f.filters = slices.Clone(sources)

	f.mainName = f.datasets.mainName
	for _, name := range f.datasets.names {
		if !f.allowed(name) {
			continue
		}
		f.put(name, f.datasets.roots[name])
	}
	log.Tracef("filtered sources %v of %v", f.names, f.datasets.names)
}

func (f *FilteredDatasets) allowed(name string) bool {
	return f.filters == nil || slices.Contains(f.filters, name)
}
