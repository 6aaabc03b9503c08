// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"fmt"
	"io"

	"github.com/urfave/cli/v3"

	"github.com/tfctl/jailctl/internal/attrs"
	"github.com/tfctl/jailctl/internal/config"
	"github.com/tfctl/jailctl/internal/datasets"
	"github.com/tfctl/jailctl/internal/log"
	"github.com/tfctl/jailctl/internal/meta"
	"github.com/tfctl/jailctl/internal/output"
	"github.com/tfctl/jailctl/internal/rcconf"
	"github.com/tfctl/jailctl/internal/state"
	"github.com/tfctl/jailctl/internal/storage"
	"github.com/tfctl/jailctl/internal/storage/zfs"
)

// BuildAttrs constructs an AttrList with defaults, or the --attrs value when
// given, then applies the global transform spec.
func BuildAttrs(cmd *cli.Command, defaults ...string) (attrs.AttrList, error) {
	var al attrs.AttrList

	specs := defaults
	if extras := cmd.String("attrs"); extras != "" {
		specs = []string{extras}
	}
	for _, spec := range specs {
		if err := al.Set(spec); err != nil {
			return nil, err
		}
	}

	if err := al.SetGlobalTransformSpec(); err != nil {
		return nil, err
	}
	return al, nil
}

// GetMeta returns the meta.Meta stored in the command's Metadata. If missing
// or of an unexpected type, it returns the zero value.
func GetMeta(cmd *cli.Command) meta.Meta {
	if cmd == nil || cmd.Metadata == nil {
		return meta.Meta{}
	}
	if m, ok := cmd.Metadata["meta"].(meta.Meta); ok {
		return m
	}
	return meta.Meta{}
}

// OutputOptions collects the rendering flags of cmd.
func OutputOptions(cmd *cli.Command) output.Options {
	return output.Options{
		Output:  cmd.String("output"),
		Sort:    cmd.String("sort"),
		Titles:  cmd.Bool("titles"),
		Color:   cmd.Bool("color"),
		Padding: int(cmd.Int("padding")),
	}
}

// Writer returns where command output goes.
func Writer(cmd *cli.Command) io.Writer {
	if w := cmd.Root().Writer; w != nil {
		return w
	}
	return cmd.Writer
}

// OpenDatasets builds the source registry from --dataset, the config file's
// datasets list, --rc-conf, and finally the active pool.
func OpenDatasets(cmd *cli.Command) (*datasets.Datasets, error) {
	m := GetMeta(cmd)

	var opts []datasets.Option
	if m.Mounted != nil {
		opts = append(opts, datasets.WithMountChecker(m.Mounted))
	}

	specs := cmd.StringSlice("dataset")
	if len(specs) == 0 {
		specs, _ = config.GetStringSlice("datasets", nil)
	}
	if len(specs) > 0 {
		sources, err := ParseSources(specs)
		if err != nil {
			return nil, err
		}
		opts = append(opts, datasets.WithSources(sources...))
	}

	if path := cmd.String("rc-conf"); path != "" {
		conf, err := rcconf.Load(path)
		if err != nil {
			return nil, err
		}
		log.Debugf("rc.conf %s has %d entries", path, conf.Len())
		opts = append(opts, datasets.WithRCConf(conf))
	}

	ds, err := datasets.New(backend(cmd), opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load sources: %w", err)
	}
	return ds, nil
}

// NewStateRegistry returns the runtime state registry for cmd.
func NewStateRegistry(cmd *cli.Command) *state.Registry {
	return state.NewRegistry(GetMeta(cmd).Lister)
}

// backend returns the storage backend for cmd.
func backend(cmd *cli.Command) storage.Backend {
	if be := GetMeta(cmd).Backend; be != nil {
		return be
	}
	return zfs.New()
}
