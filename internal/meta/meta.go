// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package meta

import (
	"context"

	"github.com/tfctl/jailctl/internal/config"
	"github.com/tfctl/jailctl/internal/datasets"
	"github.com/tfctl/jailctl/internal/state"
	"github.com/tfctl/jailctl/internal/storage"
)

// Meta contains runtime metadata shared by commands. It carries CLI arguments,
// loaded configuration, context, and the host facilities the commands operate
// on.
type Meta struct {
	Args    []string
	Config  config.Type
	Context context.Context

	// Backend is the dataset store. Commands use ZFS when nil.
	Backend storage.Backend
	// Lister reports running jails. Commands use jls when nil.
	Lister state.Lister
	// Mounted checks the mount table when a root dataset must be created.
	Mounted datasets.MountChecker
}
