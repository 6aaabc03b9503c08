// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/tfctl/jailctl/internal/datasets"
	"github.com/tfctl/jailctl/internal/filters"
	"github.com/tfctl/jailctl/internal/jails"
	"github.com/tfctl/jailctl/internal/meta"
)

// listDefaultAttrs specifies the default attributes displayed for jails in
// the "list" command output.
var listDefaultAttrs = []string{"jid,name,running,release,ip4.addr,source"}

// listCommandAction is the action handler for the "list" subcommand. It
// enumerates the jails of the selected sources matching the positional
// filters.
func listCommandAction(ctx context.Context, cmd *cli.Command) error {
	return NewQueryActionRunner(
		"list",
		listDefaultAttrs,
		fetchJails,
	).Run(ctx, cmd)
}

func fetchJails(ctx context.Context, cmd *cli.Command) ([]*jails.Jail, error) {
	terms, err := filters.ParseTerms(cmd.Args().Slice()...)
	if err != nil {
		return nil, err
	}

	ds, err := OpenDatasets(cmd)
	if err != nil {
		return nil, err
	}

	var sources datasets.Sources = ds
	if names := cmd.StringSlice("source"); len(names) > 0 {
		sources = datasets.Filter(ds, names)
	}

	collection := jails.NewCollection(sources, NewStateRegistry(cmd), jails.WithFilters(terms))
	return collection.List(ctx)
}

// listCommandBuilder constructs the cli.Command for "list", wiring metadata,
// flags, and action handlers.
func listCommandBuilder(meta meta.Meta) *cli.Command {
	return (&QueryCommandBuilder{
		Name:      "list",
		Usage:     "list jails",
		UsageText: "jailctl list [filter ...] [options]",
		Flags: []cli.Flag{
			&cli.StringSliceFlag{
				Name:    "source",
				Aliases: []string{"S"},
				Usage:   "limit to the named sources, repeatable",
			},
		},
		Action: listCommandAction,
		Meta:   meta,
	}).Build()
}
