// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/tfctl/jailctl/internal/datasets"
	"github.com/tfctl/jailctl/internal/meta"
)

var sourcesDefaultAttrs = []string{"name,dataset,mountpoint,used::h,main"}

// sourceRow is one registered source as a filterable resource.
type sourceRow struct {
	name string
	root *datasets.RootDatasets
	main bool
}

func (s sourceRow) Get(key string) (any, bool) {
	ds := s.root.Root()
	switch key {
	case "name":
		return s.name, true
	case "dataset":
		return ds.Name, true
	case "pool":
		return ds.Pool(), true
	case "mountpoint":
		return ds.Mountpoint, true
	case "used":
		return ds.Used, true
	case "main":
		return s.main, true
	}
	return nil, false
}

func sourcesCommandAction(ctx context.Context, cmd *cli.Command) error {
	return NewQueryActionRunner(
		"sources",
		sourcesDefaultAttrs,
		fetchSources,
	).Run(ctx, cmd)
}

func fetchSources(_ context.Context, cmd *cli.Command) ([]sourceRow, error) {
	ds, err := OpenDatasets(cmd)
	if err != nil {
		return nil, err
	}

	mainName, _ := ds.MainName()
	rows := make([]sourceRow, 0, ds.Len())
	for _, name := range ds.Names() {
		root, _ := ds.Get(name)
		rows = append(rows, sourceRow{name: name, root: root, main: name == mainName})
	}
	return rows, nil
}

func sourcesCommandBuilder(meta meta.Meta) *cli.Command {
	return (&QueryCommandBuilder{
		Name:      "sources",
		Usage:     "list dataset sources",
		UsageText: "jailctl sources [options]",
		Action:    sourcesCommandAction,
		Meta:      meta,
	}).Build()
}
