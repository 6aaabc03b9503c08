// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/tfctl/jailctl/internal/filters"
	"github.com/tfctl/jailctl/internal/log"
	"github.com/tfctl/jailctl/internal/output"
)

// QueryActionRunner[R] encapsulates the common query action pattern: build
// the attrs, fetch the resources with FetchFn and emit them.
type QueryActionRunner[R filters.Resource] struct {
	CommandName  string
	DefaultAttrs []string
	FetchFn      func(context.Context, *cli.Command) ([]R, error)
}

// Run executes the query action with the provided context and command.
func (qar *QueryActionRunner[R]) Run(
	ctx context.Context,
	cmd *cli.Command,
) error {
	log.Debugf("Executing %s for %v", qar.CommandName, cmd.Args().Slice())

	attrs, err := BuildAttrs(cmd, qar.DefaultAttrs...)
	if err != nil {
		return err
	}
	log.Debugf("attrs: %v", attrs)

	results, err := qar.FetchFn(ctx, cmd)
	if err != nil {
		return err
	}

	rows := output.Rows(results, attrs)
	return output.SliceDiceSpit(rows, attrs, OutputOptions(cmd), Writer(cmd))
}

// NewQueryActionRunner creates a QueryActionRunner with the provided
// configuration.
func NewQueryActionRunner[R filters.Resource](
	commandName string,
	defaultAttrs []string,
	fetchFn func(context.Context, *cli.Command) ([]R, error),
) *QueryActionRunner[R] {
	return &QueryActionRunner[R]{
		CommandName:  commandName,
		DefaultAttrs: defaultAttrs,
		FetchFn:      fetchFn,
	}
}
