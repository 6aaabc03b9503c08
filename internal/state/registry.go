// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package state

import (
	"context"
	"fmt"
	"sync"

	"github.com/tfctl/jailctl/internal/log"
)

// Lister returns the state of every running jail.
type Lister interface {
	List(ctx context.Context) ([]State, error)
}

// ListerFunc adapts a function to Lister.
type ListerFunc func(ctx context.Context) ([]State, error)

// List implements Lister.
func (f ListerFunc) List(ctx context.Context) ([]State, error) {
	return f(ctx)
}

// Registry is a snapshot of runtime state keyed by jail name.
type Registry struct {
	lister Lister

	mu       sync.RWMutex
	live     map[string]State
	injected map[string]State
}

// NewRegistry returns an empty Registry. A nil lister uses jls.
func NewRegistry(lister Lister) *Registry {
	if lister == nil {
		lister = NewJLS()
	}
	return &Registry{
		lister:   lister,
		live:     map[string]State{},
		injected: map[string]State{},
	}
}

// Query replaces the snapshot with the current runtime state.
func (r *Registry) Query(ctx context.Context) error {
	states, err := r.lister.List(ctx)
	if err != nil {
		return fmt.Errorf("failed to query jail state: %w", err)
	}

	live := make(map[string]State, len(states))
	for _, s := range states {
		live[s.Name] = s
	}
	log.Tracef("state query: %d running", len(live))

	r.mu.Lock()
	r.live = live
	r.mu.Unlock()
	return nil
}

// Inject adds a state that survives later queries until a live entry for
// the same name shows up.
func (r *Registry) Inject(name string, s State) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s.Name = name
	r.injected[name] = s
}

// Has reports whether the snapshot knows the jail.
func (r *Registry) Has(name string) bool {
	_, ok := r.Lookup(name)
	return ok
}

// Lookup returns the known state of a jail.
func (r *Registry) Lookup(name string) (State, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if s, ok := r.live[name]; ok {
		return s, true
	}
	s, ok := r.injected[name]
	return s, ok
}

// Get returns the state of a jail, or a stopped state when it is unknown.
func (r *Registry) Get(name string) State {
	if s, ok := r.Lookup(name); ok {
		return s
	}
	return Stopped(name)
}
