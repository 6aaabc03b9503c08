// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package jails

import (
	"strings"

	"github.com/tfctl/jailctl/internal/state"
	"github.com/tfctl/jailctl/internal/storage"
)

// Jail is one jail dataset with its configuration and runtime state.
type Jail struct {
	// Name is the leaf of the jail dataset.
	Name    string
	Source  string
	Dataset *storage.Dataset
	Config  map[string]any
	State   state.State
}

// Get resolves a property. Identity keys come from the dataset, runtime
// keys from the state, everything else from the configuration. Addresses
// of a stopped jail fall back to the configured ip4_addr and ip6_addr.
func (j *Jail) Get(key string) (any, bool) {
	switch key {
	case "name", "id":
		return j.Name, true
	case "source":
		return j.Source, true
	case "dataset":
		return j.Dataset.Name, true
	case "mountpoint":
		if j.Dataset.Mountpoint == "" {
			return nil, true
		}
		return j.Dataset.Mountpoint, true
	}

	if state.IsKey(key) {
		if v, ok := j.State.Get(key); ok {
			return v, true
		}
		if key == state.KeyIP4 || key == state.KeyIP6 {
			v, ok := j.Config[strings.ReplaceAll(key, ".", "_")]
			return v, ok
		}
		return nil, false
	}

	v, ok := j.Config[key]
	return v, ok
}

// Running reports whether the jail is running.
func (j *Jail) Running() bool {
	return j.State.Running
}
