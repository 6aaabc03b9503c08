// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package jails

import (
	"context"
	"fmt"
	"iter"

	"github.com/tfctl/jailctl/internal/datasets"
	"github.com/tfctl/jailctl/internal/filters"
	"github.com/tfctl/jailctl/internal/log"
	"github.com/tfctl/jailctl/internal/state"
	"github.com/tfctl/jailctl/internal/storage"
)

// Collection enumerates the jails of a set of sources.
type Collection struct {
	sources datasets.Sources
	states  *state.Registry
	filters filters.Terms
	loader  ConfigLoader
}

// Option configures a Collection.
type Option func(*Collection)

// WithFilters limits the collection to jails matching terms.
func WithFilters(terms filters.Terms) Option {
	return func(c *Collection) {
		c.filters = terms
	}
}

// WithConfigLoader replaces the config.json loader.
func WithConfigLoader(l ConfigLoader) Option {
	return func(c *Collection) {
		c.loader = l
	}
}

// NewCollection returns a collection over sources, joined with states.
func NewCollection(sources datasets.Sources, states *state.Registry, opts ...Option) *Collection {
	c := &Collection{
		sources: sources,
		states:  states,
		loader:  JSONConfigLoader{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// All returns a lazy sequence of matching jails. Each call re-reads the
// runtime state once and walks storage again. A source whose jails dataset
// cannot be listed is skipped with a warning. Errors building a jail are
// yielded and the walk continues if the consumer does.
func (c *Collection) All(ctx context.Context) iter.Seq2[*Jail, error] {
	return func(yield func(*Jail, error) bool) {
		if err := c.states.Query(ctx); err != nil {
			yield(nil, err)
			return
		}

		for _, source := range c.sources.Names() {
			if !c.filters.MatchSource(source) {
				log.Tracef("source %s filtered out", source)
				continue
			}
			root, ok := c.sources.Get(source)
			if !ok {
				continue
			}

			children, err := root.JailDatasets()
			if err != nil {
				log.Warnf("skipping source %s: %v", source, err)
				continue
			}

			for _, ds := range children {
				if err := ctx.Err(); err != nil {
					yield(nil, err)
					return
				}

				if !c.filters.MatchKey(filters.NameKey, ds.Leaf()) {
					continue
				}

				jail, err := c.newJail(source, ds)
				if err != nil {
					if !yield(nil, err) {
						return
					}
					continue
				}

				if !c.filters.MatchResource(jail) {
					continue
				}
				if !yield(jail, nil) {
					return
				}
			}
		}
	}
}

// List collects All into a slice. It stops at the first error.
func (c *Collection) List(ctx context.Context) ([]*Jail, error) {
	var jails []*Jail
	for jail, err := range c.All(ctx) {
		if err != nil {
			return nil, err
		}
		jails = append(jails, jail)
	}
	return jails, nil
}

func (c *Collection) newJail(source string, ds *storage.Dataset) (*Jail, error) {
	config, err := c.loader.Load(ds)
	if err != nil {
		return nil, fmt.Errorf("failed to load config of %s: %w", ds.Name, err)
	}

	name := ds.Leaf()
	jail := &Jail{
		Name:    name,
		Source:  source,
		Dataset: ds,
		Config:  config,
	}
	if s, ok := c.states.Lookup(name); ok {
		log.Tracef("attaching state of %s", name)
		jail.State = s
	} else {
		jail.State = state.Stopped(name)
	}
	return jail, nil
}
