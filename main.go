// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/tfctl/jailctl/internal/command"
	"github.com/tfctl/jailctl/internal/config"
	"github.com/tfctl/jailctl/internal/log"
	"github.com/tfctl/jailctl/internal/version"
)

var ctx = context.Background()

func main() {
	os.Exit(realMain())
}

// handleVersion checks for --version/-v and returns whether it was handled.
func handleVersion(args []string) bool {
	for _, a := range args {
		if a == "--version" || a == "-v" {
			fmt.Println(version.Version)
			return true
		}
	}
	return false
}

// handleNakedCommand appends --help if no command is provided.
func handleNakedCommand(args []string) []string {
	if len(args) <= 1 {
		return append(args, "--help")
	}
	return args
}

// commandIndex returns the index of the subcommand in args, skipping the
// root flags and their values.
func commandIndex(args []string) int {
	for i := 1; i < len(args); i++ {
		a := args[i]
		switch {
		case a == "--dataset" || a == "-d" || a == "--rc-conf":
			i++
		case strings.HasPrefix(a, "-"):
		default:
			return i
		}
	}
	return -1
}

// processSetOnly expands an @set argument with the config entries found at
// <command>.<set>. Each entry is split on whitespace.
func processSetOnly(args []string) []string {
	cmdIdx := commandIndex(args)
	if cmdIdx < 0 {
		return args
	}

	removeIdx := slices.IndexFunc(args[cmdIdx+1:], func(a string) bool {
		return strings.HasPrefix(a, "@")
	})
	if removeIdx < 0 {
		return args
	}
	removeIdx += cmdIdx + 1

	set := args[removeIdx][1:]
	setArgs, _ := config.GetStringSlice(args[cmdIdx] + "." + set)
	log.Debugf("set %s expands to %v", set, setArgs)

	var expanded []string
	for _, arg := range setArgs {
		expanded = append(expanded, strings.Fields(arg)...)
	}

	out := slices.Clone(args[:removeIdx])
	out = append(out, expanded...)
	return append(out, args[removeIdx+1:]...)
}

// initAndRunApp initializes the app and runs it, returning the exit code.
func initAndRunApp(args []string) int {
	app, err := command.InitApp(ctx, args)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		log.Debugf("app init err: err=%v", err)
		return 1
	}

	if err := app.Run(ctx, args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		log.Debugf("app run err: err=%v", err)
		return 2
	}

	return 0
}

func realMain() int {
	log.InitLogger()

	args := os.Args
	log.Debugf("args captured: args=%v", args)

	if handleVersion(args) {
		return 0
	}

	args = handleNakedCommand(args)

	// If --help appears anywhere, skip set processing and let the CLI handle it.
	if !slices.Contains(args, "--help") && !slices.Contains(args, "-h") {
		args = processSetOnly(args)
		log.Debugf("args after set processing: args=%v", args)
	}

	return initAndRunApp(args)
}
