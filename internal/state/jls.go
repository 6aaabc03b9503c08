// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package state

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/tfctl/jailctl/internal/log"
)

// RuntimePrefix prefixes the runtime name of every managed jail.
const RuntimePrefix = "ioc-"

// JLS lists running jails with jls(8).
type JLS struct {
	Path string
	Args []string
}

// NewJLS returns a lister running `jls --libxo=json -v`.
func NewJLS() *JLS {
	return &JLS{
		Path: "jls",
		Args: []string{"--libxo=json", "-v"},
	}
}

// List implements Lister.
func (j *JLS) List(ctx context.Context) ([]State, error) {
	cmd := exec.CommandContext(ctx, j.Path, j.Args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	out, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("%s: %w: %s", j.Path, err, strings.TrimSpace(stderr.String()))
	}
	return ParseJLS(out)
}

// ParseJLS decodes jls libxo JSON. Jails not managed by jailctl are
// skipped.
func ParseJLS(data []byte) ([]State, error) {
	if !gjson.ValidBytes(data) {
		return nil, errors.New("invalid jls output")
	}

	var states []State
	gjson.GetBytes(data, "jail-information.jail").ForEach(func(_, jail gjson.Result) bool {
		runtimeName := jail.Get("name").String()
		name, ok := NameFromRuntime(runtimeName)
		if !ok {
			log.Tracef("skipping unmanaged jail %s", runtimeName)
			return true
		}

		states = append(states, State{
			Name:     name,
			JID:      int(jail.Get("jid").Int()),
			Running:  true,
			Hostname: jail.Get("hostname").String(),
			Path:     jail.Get("path").String(),
			IP4:      stringList(jail.Get("ipv4_addrs")),
			IP6:      stringList(jail.Get("ipv6_addrs")),
		})
		return true
	})
	return states, nil
}

// RuntimeName returns the jail(8) name for a jail name.
func RuntimeName(name string) string {
	return RuntimePrefix + strings.ReplaceAll(name, ".", "*")
}

// NameFromRuntime reverses RuntimeName.
func NameFromRuntime(runtimeName string) (string, bool) {
	name, ok := strings.CutPrefix(runtimeName, RuntimePrefix)
	if !ok || name == "" {
		return "", false
	}
	return strings.ReplaceAll(name, "*", "."), true
}

func stringList(r gjson.Result) []string {
	if !r.Exists() {
		return nil
	}
	var list []string
	for _, v := range r.Array() {
		if s := v.String(); s != "" {
			list = append(list, s)
		}
	}
	return list
}
