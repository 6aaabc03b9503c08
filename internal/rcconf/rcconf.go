// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package rcconf

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/joho/godotenv"

	"github.com/tfctl/jailctl/internal/log"
)

// DefaultPath is the system rc.conf.
const DefaultPath = "/etc/rc.conf"

// Entry is a single variable assignment.
type Entry struct {
	Key   string
	Value string
}

// Conf is a parsed rc.conf file. Values keep the order in which they were
// declared; a variable assigned twice keeps its first position and its
// last value.
type Conf struct {
	order  []string
	values map[string]string
}

// Load reads and parses the rc.conf at path. A missing file yields an
// empty Conf.
func Load(path string) (*Conf, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		log.Debugf("rc.conf not found: %s", path)
		return Parse(nil)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	conf, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return conf, nil
}

// Parse parses rc.conf content.
func Parse(data []byte) (*Conf, error) {
	values, err := godotenv.Parse(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}

	conf := &Conf{values: values}
	seen := map[string]bool{}
	scanner := bufio.NewScanner(bytes.NewReader(data))
	for scanner.Scan() {
		key, ok := declaredKey(scanner.Text())
		if !ok || seen[key] {
			continue
		}
		if _, ok := values[key]; !ok {
			continue
		}
		seen[key] = true
		conf.order = append(conf.order, key)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return conf, nil
}

// declaredKey returns the variable assigned on a line, if any.
func declaredKey(line string) (string, bool) {
	line = strings.TrimSpace(line)
	if line == "" || strings.HasPrefix(line, "#") {
		return "", false
	}
	line = strings.TrimPrefix(line, "export ")
	key, _, found := strings.Cut(line, "=")
	if !found {
		return "", false
	}
	return strings.TrimSpace(key), true
}

// Get returns the value of key.
func (c *Conf) Get(key string) (string, bool) {
	v, ok := c.values[key]
	return v, ok
}

// Len returns the number of variables.
func (c *Conf) Len() int {
	return len(c.order)
}

// WithPrefix returns the variables whose name starts with prefix, in
// declaration order, with the prefix removed from the key.
func (c *Conf) WithPrefix(prefix string) []Entry {
	var entries []Entry
	for _, key := range c.order {
		if !strings.HasPrefix(key, prefix) {
			continue
		}
		name := strings.TrimPrefix(key, prefix)
		if name == "" {
			continue
		}
		entries = append(entries, Entry{Key: name, Value: c.values[key]})
	}
	return entries
}
