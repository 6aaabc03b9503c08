// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package config provides loading and typed accessors for jailctl's user
// configuration. The configuration is expected to be a YAML document named
// jailctl.yaml in the user's configuration directory, typically
// $XDG_CONFIG_HOME/jailctl.yaml or $HOME/.config/jailctl.yaml. The
// JAILCTL_CFG_FILE environment variable overrides the location.
//
// Actual resolution relies on os.UserConfigDir which follows platform
// conventions.
package config
