// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"sort"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/tfctl/jailctl/internal/config"
	"github.com/tfctl/jailctl/internal/meta"
)

// InitApp builds the jailctl command tree for args.
func InitApp(ctx context.Context, args []string) (*cli.Command, error) {

	// The arg[1] immediately following the binary (arg[0]) is usually the
	// jailctl subcommand and also represents the namespace key to be used when
	// retrieving config values. arg[1] could be a flag, so ignore it if it
	// appears to be one.
	var ns string
	if len(args) > 1 && !strings.HasPrefix(args[1], "-") {
		ns = args[1]
	}

	// A missing config file is fine.
	cfg, _ := config.Load()
	cfg.Namespace = ns
	config.Config.Namespace = ns

	return NewApp(meta.Meta{
		Args:    args,
		Config:  cfg,
		Context: ctx,
	}), nil
}

// NewApp returns the root command wired to the facilities in m.
func NewApp(m meta.Meta) *cli.Command {
	app := &cli.Command{
		Name:  "jailctl",
		Usage: "Jail Control",
		Flags: NewRootFlags(m.Config.Source),
		Metadata: map[string]any{
			"meta": m,
		},
	}

	app.Commands = append(app.Commands,
		listCommandBuilder(m),
		sourcesCommandBuilder(m),
		activateCommandBuilder(m),
		deactivateCommandBuilder(m),
		whichCommandBuilder(m),
		completionCommandBuilder(m),
	)

	// Make sure flags are sorted for the --help text.
	for _, cmd := range app.Commands {
		sort.Slice(cmd.Flags, func(i, j int) bool {
			return cmd.Flags[i].Names()[0] < cmd.Flags[j].Names()[0]
		})
	}

	return app
}
