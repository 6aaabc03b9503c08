// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"errors"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/tfctl/jailctl/internal/datasets"
	"github.com/tfctl/jailctl/internal/log"
	"github.com/tfctl/jailctl/internal/meta"
	"github.com/tfctl/jailctl/internal/storage"
)

// activateCommandAction marks the named pool as the active pool.
func activateCommandAction(_ context.Context, cmd *cli.Command) error {
	name := cmd.Args().First()
	if name == "" {
		return errors.New("missing pool name")
	}

	ds, err := OpenDatasets(cmd)
	if err != nil {
		return err
	}

	pool := &storage.Pool{Name: name}
	pools, err := ds.Backend().Pools()
	if err != nil {
		return err
	}
	for i := range pools {
		if pools[i].Name == name {
			pool = &pools[i]
			break
		}
	}

	if err := ds.ActivatePool(pool, cmd.String("mountpoint")); err != nil {
		return err
	}
	log.Infof("pool %s activated", name)
	fmt.Fprintf(Writer(cmd), "ZFS pool '%s' successfully activated.\n", name)
	return nil
}

// deactivateCommandAction clears the active marker of the main source's pool.
func deactivateCommandAction(_ context.Context, cmd *cli.Command) error {
	ds, err := OpenDatasets(cmd)
	if err != nil {
		return err
	}

	main, err := ds.Main()
	if err != nil {
		return err
	}

	if err := ds.Deactivate(); err != nil {
		return err
	}
	fmt.Fprintf(Writer(cmd), "ZFS pool '%s' deactivated.\n", main.Root().Pool())
	return nil
}

// whichCommandAction prints the name of the source containing a dataset.
func whichCommandAction(_ context.Context, cmd *cli.Command) error {
	dataset := cmd.Args().First()
	if dataset == "" {
		return errors.New("missing dataset name")
	}

	ds, err := OpenDatasets(cmd)
	if err != nil {
		return err
	}

	name, err := ds.FindRootName(dataset)
	if err != nil {
		return err
	}
	fmt.Fprintln(Writer(cmd), name)
	return nil
}

func activateCommandBuilder(meta meta.Meta) *cli.Command {
	return &cli.Command{
		Name:      "activate",
		Usage:     "activate a pool for jail storage",
		UsageText: "jailctl activate <pool> [--mountpoint path]",
		Metadata: map[string]any{
			"meta": meta,
		},
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "mountpoint",
				Aliases: []string{"m"},
				Usage:   "mountpoint of the " + datasets.RootLeaf + " root dataset",
			},
		},
		Action: activateCommandAction,
	}
}

func deactivateCommandBuilder(meta meta.Meta) *cli.Command {
	return &cli.Command{
		Name:      "deactivate",
		Usage:     "deactivate the pool of the main source",
		UsageText: "jailctl deactivate",
		Metadata: map[string]any{
			"meta": meta,
		},
		Action: deactivateCommandAction,
	}
}

func whichCommandBuilder(meta meta.Meta) *cli.Command {
	return &cli.Command{
		Name:      "which",
		Usage:     "show the source a dataset belongs to",
		UsageText: "jailctl which <dataset>",
		Metadata: map[string]any{
			"meta": meta,
		},
		Action: whichCommandAction,
	}
}
