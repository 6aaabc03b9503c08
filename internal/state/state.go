// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package state

import "slices"

// Property keys served from runtime state.
const (
	KeyRunning = "running"
	KeyJID     = "jid"
	KeyIP4     = "ip4.addr"
	KeyIP6     = "ip6.addr"
)

// Keys lists every property served from runtime state.
var Keys = []string{KeyRunning, KeyJID, KeyIP4, KeyIP6}

// State is the runtime state of one jail. The zero value is a stopped jail.
type State struct {
	Name     string
	JID      int
	Running  bool
	Hostname string
	Path     string
	IP4      []string
	IP6      []string
}

// Stopped returns the state of a jail that is not running.
func Stopped(name string) State {
	return State{Name: name}
}

// Get returns a runtime property. jid and the address lists are only
// present while the jail runs.
func (s State) Get(key string) (any, bool) {
	switch key {
	case KeyRunning:
		return s.Running, true
	case KeyJID:
		if !s.Running {
			return nil, false
		}
		return s.JID, true
	case KeyIP4:
		if !s.Running {
			return nil, false
		}
		return s.IP4, true
	case KeyIP6:
		if !s.Running {
			return nil, false
		}
		return s.IP6, true
	}
	return nil, false
}

// IsKey reports whether key is a runtime property.
func IsKey(key string) bool {
	return slices.Contains(Keys, key)
}
