// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	altsrc "github.com/urfave/cli-altsrc/v3"
	yaml "github.com/urfave/cli-altsrc/v3/yaml"
	"github.com/urfave/cli/v3"

	"github.com/tfctl/jailctl/internal/rcconf"
)

// NewRootFlags returns the flags that select where dataset sources come from.
// cfgPath is the config file used as a fallback value source.
func NewRootFlags(cfgPath string) []cli.Flag {
	rcConf := &cli.StringFlag{
		Name:  "rc-conf",
		Usage: "rc.conf file declaring ioc_dataset_<name> sources",
		Sources: cli.NewValueSourceChain(
			cli.EnvVar("JAILCTL_RC_CONF"),
		),
		Value: rcconf.DefaultPath,
	}
	if cfgPath != "" {
		rcConf.Sources.Chain = append(rcConf.Sources.Chain,
			yaml.YAML("rc_conf", altsrc.StringSourcer(cfgPath)))
	}

	return []cli.Flag{
		&cli.StringSliceFlag{
			Name:    "dataset",
			Aliases: []string{"d"},
			Usage:   "explicit source as name=pool/path, repeatable",
			Sources: cli.NewValueSourceChain(
				cli.EnvVar("JAILCTL_DATASETS"),
			),
		},
		rcConf,
		&cli.BoolFlag{
			Name:        "version",
			Aliases:     []string{"v"},
			Usage:       "jailctl version info",
			HideDefault: true,
		},
	}
}

// NewGlobalFlags returns the output flags shared by the query commands. When
// cfgPath is given, string flags also read ns.<flag> and <flag> from it.
func NewGlobalFlags(ns string, cfgPath string) (flags []cli.Flag) {
	var (
		attrs = &cli.StringFlag{
			Name:    "attrs",
			Aliases: []string{"a"},
			Usage:   "comma-separated list of attributes to include in results",
		}
		output = &cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "output format",
			Value:   "text",
			Validator: func(value string) error {
				return FlagValidators(value, OutputValidator)
			},
		}
		sort = &cli.StringFlag{
			Name:    "sort",
			Aliases: []string{"s"},
			Usage:   "comma-separated list of attributes to sort the results by",
		}
	)

	for _, flag := range []*cli.StringFlag{attrs, output, sort} {
		if cfgPath != "" {
			NameSpacedValueChainFlagFromConfigFile(ns, cfgPath, flag)
		}
	}

	flags = []cli.Flag{
		attrs,
		&cli.BoolFlag{
			Name:    "color",
			Aliases: []string{"c"},
			Usage:   "enable colored text output",
			Value:   false,
		},
		output,
		&cli.IntFlag{
			Name:    "padding",
			Aliases: []string{"p"},
			Usage:   "spaces between columns with text output",
			Value:   2,
		},
		sort,
		&cli.BoolFlag{
			Name:    "titles",
			Aliases: []string{"t"},
			Usage:   "show titles with text output",
			Value:   false,
		},
	}

	return
}

// NameSpacedValueChainFlagFromConfigFile adds namespaced and global config file
// sources to the given flag's Sources chain.
func NameSpacedValueChainFlagFromConfigFile(ns string, path string, flag *cli.StringFlag) *cli.StringFlag {
	src := yaml.YAML(ns+"."+flag.Name, altsrc.StringSourcer(path))
	flag.Sources.Chain = append(flag.Sources.Chain, src)

	src = yaml.YAML(flag.Name, altsrc.StringSourcer(path))
	flag.Sources.Chain = append(flag.Sources.Chain, src)

	return flag
}
