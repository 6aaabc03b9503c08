// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package datasets

import (
	"fmt"
	"slices"
)

// Sources is the read side shared by Datasets and FilteredDatasets.
type Sources interface {
	// Names returns the source names in the order they were attached.
	Names() []string
	Get(name string) (*RootDatasets, bool)
	Main() (*RootDatasets, error)
	MainName() (string, error)
	FindRootName(dataset string) (string, error)
}

// registry is an ordered map of source names to roots with a main pointer
// set once, on the first insertion.
type registry struct {
	names    []string
	roots    map[string]*RootDatasets
	mainName string
}

func newRegistry() registry {
	return registry{roots: map[string]*RootDatasets{}}
}

// put inserts or replaces a root. A replaced root keeps its position.
func (r *registry) put(name string, root *RootDatasets) {
	if _, ok := r.roots[name]; !ok {
		r.names = append(r.names, name)
	}
	r.roots[name] = root
	if r.mainName == "" {
		r.mainName = name
	}
}

// remove drops a root. mainName is left untouched.
func (r *registry) remove(name string) {
	delete(r.roots, name)
	r.names = slices.DeleteFunc(r.names, func(n string) bool {
		return n == name
	})
}

func (r *registry) reset() {
	r.names = nil
	r.roots = map[string]*RootDatasets{}
	r.mainName = ""
}

// Names returns the registered source names in attach order.
func (r *registry) Names() []string {
	return slices.Clone(r.names)
}

// Len returns the number of registered sources.
func (r *registry) Len() int {
	return len(r.names)
}

// Get returns the root registered under name.
func (r *registry) Get(name string) (*RootDatasets, bool) {
	root, ok := r.roots[name]
	return root, ok
}

// MainName returns the name of the first attached source.
func (r *registry) MainName() (string, error) {
	if r.mainName == "" {
		return "", ErrNotActivated
	}
	if _, ok := r.roots[r.mainName]; !ok {
		return "", fmt.Errorf("main source %s is not visible: %w", r.mainName, ErrNotActivated)
	}
	return r.mainName, nil
}

// Main returns the root of the first attached source.
func (r *registry) Main() (*RootDatasets, error) {
	name, err := r.MainName()
	if err != nil {
		return nil, err
	}
	return r.roots[name], nil
}

// Root returns the named source, or the main source when name is empty.
func (r *registry) Root(name string) (*RootDatasets, error) {
	if name == "" {
		return r.Main()
	}
	root, ok := r.roots[name]
	if !ok {
		return nil, fmt.Errorf("%s: %w", name, ErrUnknownSource)
	}
	return root, nil
}

// FindRootName returns the name of the source whose root is dataset or one
// of its ancestors.
func (r *registry) FindRootName(dataset string) (string, error) {
	for _, name := range r.names {
		if r.roots[name].Contains(dataset) {
			return name, nil
		}
	}
	return "", fmt.Errorf("%s: %w", dataset, ErrResourceUnmanaged)
}

// FindRoot returns the root containing dataset.
func (r *registry) FindRoot(dataset string) (*RootDatasets, error) {
	name, err := r.FindRootName(dataset)
	if err != nil {
		return nil, err
	}
	return r.roots[name], nil
}
