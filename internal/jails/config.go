// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package jails

import (
	"errors"
	"fmt"
	"io/fs"
	"math"
	"os"
	"path/filepath"

	"github.com/tidwall/gjson"

	"github.com/tfctl/jailctl/internal/log"
	"github.com/tfctl/jailctl/internal/storage"
)

// ConfigFileName is the jail configuration file below the jail mountpoint.
const ConfigFileName = "config.json"

// ConfigLoader reads the persisted configuration of a jail.
type ConfigLoader interface {
	Load(ds *storage.Dataset) (map[string]any, error)
}

// ConfigLoaderFunc adapts a function to ConfigLoader.
type ConfigLoaderFunc func(ds *storage.Dataset) (map[string]any, error)

// Load implements ConfigLoader.
func (f ConfigLoaderFunc) Load(ds *storage.Dataset) (map[string]any, error) {
	return f(ds)
}

// JSONConfigLoader reads config.json from the jail dataset mountpoint.
// Nested objects are flattened to dotted keys.
type JSONConfigLoader struct {
	FileName string
}

// Load implements ConfigLoader. A dataset without mountpoint or without a
// config file has an empty configuration.
func (l JSONConfigLoader) Load(ds *storage.Dataset) (map[string]any, error) {
	config := map[string]any{}
	if ds.Mountpoint == "" {
		return config, nil
	}

	name := l.FileName
	if name == "" {
		name = ConfigFileName
	}
	path := filepath.Join(ds.Mountpoint, name)

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		log.Tracef("no config at %s", path)
		return config, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("invalid JSON in %s", path)
	}

	flatten(config, "", gjson.ParseBytes(data))
	return config, nil
}

func flatten(out map[string]any, prefix string, r gjson.Result) {
	r.ForEach(func(key, value gjson.Result) bool {
		k := key.String()
		if prefix != "" {
			k = prefix + "." + k
		}
		if value.IsObject() {
			flatten(out, k, value)
			return true
		}
		out[k] = convert(value)
		return true
	})
}

func convert(r gjson.Result) any {
	switch r.Type {
	case gjson.Null:
		return nil
	case gjson.True:
		return true
	case gjson.False:
		return false
	case gjson.Number:
		if f := r.Float(); f == math.Trunc(f) && math.Abs(f) < 1<<53 {
			return r.Int()
		}
		return r.Float()
	case gjson.JSON:
		if r.IsArray() {
			list := []string{}
			for _, v := range r.Array() {
				list = append(list, v.String())
			}
			return list
		}
		return r.Raw
	default:
		return r.String()
	}
}
