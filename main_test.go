// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tfctl/jailctl/internal/config"
)

func TestHandleNakedCommand(t *testing.T) {
	assert.Equal(t, []string{"jailctl", "--help"}, handleNakedCommand([]string{"jailctl"}))
	assert.Equal(t, []string{"jailctl", "list"}, handleNakedCommand([]string{"jailctl", "list"}))
}

func TestHandleVersion(t *testing.T) {
	assert.True(t, handleVersion([]string{"jailctl", "--version"}))
	assert.True(t, handleVersion([]string{"jailctl", "-v"}))
	assert.False(t, handleVersion([]string{"jailctl", "list"}))
}

func TestCommandIndex(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want int
	}{
		{name: "plain", args: []string{"jailctl", "list"}, want: 1},
		{name: "after root flags", args: []string{"jailctl", "--dataset", "a=b/c", "--rc-conf", "/x", "list"}, want: 5},
		{name: "after boolean flag", args: []string{"jailctl", "--debug", "sources"}, want: 2},
		{name: "none", args: []string{"jailctl", "-d", "a=b/c"}, want: -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, commandIndex(tt.args))
		})
	}
}

func TestProcessSetOnly(t *testing.T) {
	cfg := filepath.Join(t.TempDir(), "jailctl.yaml")
	require.NoError(t, os.WriteFile(cfg, []byte(`list:
  running:
    - running=yes
    - --output json
`), 0o600))
	t.Setenv(config.EnvFile, cfg)
	config.Config = config.Type{}
	t.Cleanup(func() { config.Config = config.Type{} })

	tests := []struct {
		name     string
		args     []string
		expected []string
	}{
		{
			name:     "no set",
			args:     []string{"jailctl", "list", "--titles"},
			expected: []string{"jailctl", "list", "--titles"},
		},
		{
			name:     "set expanded in place",
			args:     []string{"jailctl", "list", "--titles", "@running", "web*"},
			expected: []string{"jailctl", "list", "--titles", "running=yes", "--output", "json", "web*"},
		},
		{
			name:     "set after root flags",
			args:     []string{"jailctl", "-d", "A=zroot/iocage", "list", "@running"},
			expected: []string{"jailctl", "-d", "A=zroot/iocage", "list", "running=yes", "--output", "json"},
		},
		{
			name:     "unknown set removed",
			args:     []string{"jailctl", "list", "@nope"},
			expected: []string{"jailctl", "list"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, processSetOnly(tt.args))
		})
	}
}
