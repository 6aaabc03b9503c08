// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package command

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tfctl/jailctl/internal/config"
	"github.com/tfctl/jailctl/internal/datasets"
	"github.com/tfctl/jailctl/internal/meta"
	"github.com/tfctl/jailctl/internal/state"
	"github.com/tfctl/jailctl/internal/storage"
	"github.com/tfctl/jailctl/internal/storage/memstore"
)

type harness struct {
	store   *memstore.Store
	running []state.State
	rcConf  string
}

func newHarness(t *testing.T) *harness {
	t.Helper()

	t.Setenv(config.EnvFile, "")
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	config.Config = config.Type{}
	t.Cleanup(func() { config.Config = config.Type{} })

	h := &harness{
		store:  memstore.New(),
		rcConf: filepath.Join(t.TempDir(), "rc.conf"),
	}
	h.store.AddPool("zroot", storage.HealthOnline, "/zroot")
	h.store.AddPool("tank", storage.HealthOnline, "/tank")
	h.store.AddDataset("zroot/iocage/jails/web1", "", nil)
	h.store.AddDataset("zroot/iocage/jails/db1", "", nil)
	h.store.AddDataset("tank/iocage/jails/web2", "", nil)
	return h
}

// run executes jailctl with args after the global --rc-conf flag.
func (h *harness) run(t *testing.T, args ...string) (string, error) {
	t.Helper()

	app := NewApp(meta.Meta{
		Context: context.Background(),
		Backend: h.store,
		Lister: state.ListerFunc(func(context.Context) ([]state.State, error) {
			return h.running, nil
		}),
		Mounted: func(string) (bool, error) { return false, nil },
	})
	var out bytes.Buffer
	app.Writer = &out

	argv := append([]string{"jailctl", "--rc-conf", h.rcConf}, args...)
	err := app.Run(context.Background(), argv)
	return out.String(), err
}

func (h *harness) property(t *testing.T, dataset, key string) string {
	t.Helper()
	ds, err := h.store.Dataset(dataset)
	require.NoError(t, err)
	v, _, err := h.store.Property(ds, key)
	require.NoError(t, err)
	return v
}

func (h *harness) setProperty(t *testing.T, dataset, key, value string) {
	t.Helper()
	ds, err := h.store.Dataset(dataset)
	require.NoError(t, err)
	require.NoError(t, h.store.SetProperty(ds, key, value))
}

func decode(t *testing.T, out string) []map[string]any {
	t.Helper()
	var rows []map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &rows), out)
	return rows
}

func column(rows []map[string]any, key string) []any {
	out := make([]any, 0, len(rows))
	for _, r := range rows {
		out = append(out, r[key])
	}
	return out
}

var twoSources = []string{"--dataset", "A=zroot/iocage", "--dataset", "B=tank/iocage"}

func TestList(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want []any
	}{
		{
			name: "all",
			args: []string{"list", "-o", "json", "-s", "name"},
			want: []any{"db1", "web1", "web2"},
		},
		{
			name: "source flag",
			args: []string{"list", "-o", "json", "--source", "B"},
			want: []any{"web2"},
		},
		{
			name: "positional filters",
			args: []string{"list", "-o", "json", "web*", "running=yes"},
			want: []any{"web2"},
		},
		{
			name: "scoped filter",
			args: []string{"list", "-o", "json", "A~web*"},
			want: []any{"web1"},
		},
		{
			name: "no match",
			args: []string{"list", "-o", "json", "nothing"},
			want: []any{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t)
			h.running = []state.State{{Name: "web2", JID: 3, Running: true}}

			out, err := h.run(t, append(twoSources, tt.args...)...)
			require.NoError(t, err)
			assert.Equal(t, tt.want, column(decode(t, out), "name"))
		})
	}
}

func TestList_DefaultAttrs(t *testing.T) {
	h := newHarness(t)
	h.running = []state.State{{Name: "web2", JID: 3, Running: true, IP4: []string{"10.0.0.3"}}}

	out, err := h.run(t, append(twoSources, "list", "-o", "json", "web2")...)
	require.NoError(t, err)

	rows := decode(t, out)
	require.Len(t, rows, 1)
	assert.Equal(t, map[string]any{
		"jid":      float64(3),
		"name":     "web2",
		"running":  true,
		"release":  nil,
		"ip4.addr": []any{"10.0.0.3"},
		"source":   "B",
	}, rows[0])
}

func TestList_Text(t *testing.T) {
	h := newHarness(t)

	out, err := h.run(t, append(twoSources, "list", "--titles", "--attrs", "name,running", "--sort", "-name")...)
	require.NoError(t, err)
	assert.Contains(t, out, "name")
	assert.Contains(t, out, "web2")
	assert.Contains(t, out, "no")
}

func TestList_Errors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{name: "bad output", args: append(twoSources, "list", "-o", "xml")},
		{name: "bad filter", args: append(twoSources, "list", "=x")},
		{name: "bad dataset spec", args: []string{"--dataset", "zroot/iocage", "list"}},
		{name: "bad attrs", args: append(twoSources, "list", "--attrs", ":x")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t)
			_, err := h.run(t, tt.args...)
			assert.Error(t, err)
		})
	}
}

func TestList_DiscoversActivePool(t *testing.T) {
	h := newHarness(t)
	h.setProperty(t, "tank", datasets.PoolActiveProperty, "yes")

	out, err := h.run(t, "list", "-o", "json")
	require.NoError(t, err)

	rows := decode(t, out)
	assert.Equal(t, []any{"web2"}, column(rows, "name"))
	assert.Equal(t, []any{datasets.DiscoveredSourceName}, column(rows, "source"))
}

func TestList_RCConf(t *testing.T) {
	h := newHarness(t)
	require.NoError(t, os.WriteFile(h.rcConf, []byte(`ioc_dataset_first="tank/iocage"
ioc_dataset_second="zroot/iocage"
`), 0o600))

	out, err := h.run(t, "list", "-o", "json", "-s", "name")
	require.NoError(t, err)
	assert.Equal(t, []any{"second", "second", "first"}, column(decode(t, out), "source"))
}

func TestSources(t *testing.T) {
	h := newHarness(t)

	out, err := h.run(t, append(twoSources, "sources", "-o", "json")...)
	require.NoError(t, err)

	rows := decode(t, out)
	require.Len(t, rows, 2)
	assert.Equal(t, []any{"A", "B"}, column(rows, "name"))
	assert.Equal(t, []any{"zroot/iocage", "tank/iocage"}, column(rows, "dataset"))
	assert.Equal(t, []any{"/zroot/iocage", "/tank/iocage"}, column(rows, "mountpoint"))
	assert.Equal(t, []any{true, false}, column(rows, "main"))
	assert.Equal(t, "0 B", rows[0]["used"])
}

func TestActivate(t *testing.T) {
	h := newHarness(t)
	h.setProperty(t, "zroot", datasets.PoolActiveProperty, "yes")

	out, err := h.run(t, "activate", "tank", "--mountpoint", "/jails")
	require.NoError(t, err)
	assert.Contains(t, out, "ZFS pool 'tank' successfully activated.")

	assert.Equal(t, "yes", h.property(t, "tank", datasets.PoolActiveProperty))
	assert.Equal(t, "no", h.property(t, "zroot", datasets.PoolActiveProperty))

	// The discovered zroot source is still main and takes the mountpoint.
	ds, err := h.store.Dataset("zroot/iocage")
	require.NoError(t, err)
	assert.Equal(t, "/jails", ds.Mountpoint)

	ds, err = h.store.Dataset("tank/iocage")
	require.NoError(t, err)
	assert.Equal(t, "/tank/iocage", ds.Mountpoint)
}

func TestActivate_Errors(t *testing.T) {
	t.Run("missing pool argument", func(t *testing.T) {
		h := newHarness(t)
		_, err := h.run(t, "activate")
		assert.ErrorContains(t, err, "missing pool name")
	})

	t.Run("unknown pool", func(t *testing.T) {
		h := newHarness(t)
		_, err := h.run(t, "activate", "nope")
		assert.ErrorIs(t, err, datasets.ErrPoolInvalid)
	})

	t.Run("declared in rc.conf", func(t *testing.T) {
		h := newHarness(t)
		require.NoError(t, os.WriteFile(h.rcConf, []byte("ioc_dataset_a=tank/iocage\n"), 0o600))
		_, err := h.run(t, "activate", "zroot")
		assert.ErrorIs(t, err, datasets.ErrActivationConflict)
	})

	t.Run("unavailable pool", func(t *testing.T) {
		h := newHarness(t)
		h.store.SetPoolStatus("tank", storage.HealthFaulted)
		_, err := h.run(t, "activate", "tank")
		assert.ErrorIs(t, err, datasets.ErrPoolUnavailable)
	})
}

func TestDeactivate(t *testing.T) {
	h := newHarness(t)
	h.setProperty(t, "zroot", datasets.PoolActiveProperty, "yes")

	out, err := h.run(t, "deactivate")
	require.NoError(t, err)
	assert.Contains(t, out, "ZFS pool 'zroot' deactivated.")
	assert.Equal(t, "no", h.property(t, "zroot", datasets.PoolActiveProperty))

	_, err = h.run(t, "deactivate")
	assert.ErrorIs(t, err, datasets.ErrNotActivated)
}

func TestWhich(t *testing.T) {
	h := newHarness(t)

	out, err := h.run(t, append(twoSources, "which", "tank/iocage/jails/web2")...)
	require.NoError(t, err)
	assert.Equal(t, "B\n", out)

	_, err = h.run(t, append(twoSources, "which", "zroot/usr")...)
	assert.ErrorIs(t, err, datasets.ErrResourceUnmanaged)

	_, err = h.run(t, append(twoSources, "which")...)
	assert.Error(t, err)
}

func TestCompletion(t *testing.T) {
	h := newHarness(t)

	out, err := h.run(t, "completion", "bash")
	require.NoError(t, err)
	assert.Contains(t, out, "complete -F _jailctl jailctl")

	out, err = h.run(t, "completion", "zsh")
	require.NoError(t, err)
	assert.Contains(t, out, "#compdef jailctl")
}

func TestParseSources(t *testing.T) {
	tests := []struct {
		name    string
		specs   []string
		want    []datasets.Source
		wantErr bool
	}{
		{
			name:  "single",
			specs: []string{"A=zroot/iocage"},
			want:  []datasets.Source{{Name: "A", Dataset: "zroot/iocage"}},
		},
		{
			name:  "comma separated and trimmed",
			specs: []string{"A=zroot/iocage, B = tank/iocage", ""},
			want: []datasets.Source{
				{Name: "A", Dataset: "zroot/iocage"},
				{Name: "B", Dataset: "tank/iocage"},
			},
		},
		{name: "missing name", specs: []string{"=zroot/iocage"}, wantErr: true},
		{name: "missing dataset", specs: []string{"A="}, wantErr: true},
		{name: "no separator", specs: []string{"zroot/iocage"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseSources(tt.specs)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestOutputValidator(t *testing.T) {
	assert.NoError(t, OutputValidator("json"))
	assert.NoError(t, OutputValidator("yaml"))
	assert.NoError(t, OutputValidator("text"))
	assert.Error(t, OutputValidator("raw"))
	assert.Error(t, OutputValidator(3))
}
