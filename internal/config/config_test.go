// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package config

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// withConfig points JAILCTL_CFG_FILE at a testdata file, loads it and runs fn.
func withConfig(t *testing.T, testFile string, fn func(t *testing.T)) {
	t.Helper()

	absPath, err := filepath.Abs(filepath.Join("testdata", testFile))
	require.NoError(t, err)
	t.Setenv(EnvFile, absPath)

	Config = Type{}
	t.Cleanup(func() { Config = Type{} })

	_, _ = Load()
	fn(t)
}

func TestLoad(t *testing.T) {
	tests := []struct {
		name      string
		testFile  string
		wantErr   bool
		checkFunc func(*testing.T, Type)
	}{
		{
			name:     "simple values",
			testFile: "simple.yaml",
			checkFunc: func(t *testing.T, cfg Type) {
				assert.NotEmpty(t, cfg.Source)
				assert.Equal(t, "/etc/rc.conf", cfg.Data["rc_conf"])
				assert.Equal(t, 2, cfg.Data["padding"])
			},
		},
		{
			name:     "nested structure",
			testFile: "nested.yaml",
			checkFunc: func(t *testing.T, cfg Type) {
				colors, ok := cfg.Data["colors"].(map[string]interface{})
				require.True(t, ok, "colors should be a map")
				assert.Equal(t, "#ff0000", colors["title"])
			},
		},
		{
			name:     "invalid yaml",
			testFile: "invalid.yaml",
			wantErr:  true,
		},
		{
			name:     "missing file",
			testFile: "nope.yaml",
			wantErr:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			absPath, err := filepath.Abs(filepath.Join("testdata", tt.testFile))
			require.NoError(t, err)
			t.Setenv(EnvFile, absPath)
			Config = Type{}
			t.Cleanup(func() { Config = Type{} })

			cfg, err := Load()
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			tt.checkFunc(t, cfg)
		})
	}
}

func TestLoad_ExplicitPath(t *testing.T) {
	t.Setenv(EnvFile, "")
	t.Cleanup(func() { Config = Type{} })

	cfg, err := Load(filepath.Join("testdata", "simple.yaml"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("testdata", "simple.yaml"), cfg.Source)
}

func TestFile_IsDirectory(t *testing.T) {
	t.Setenv(EnvFile, t.TempDir())

	_, err := File()
	assert.ErrorContains(t, err, "points to a directory")
}

func TestGetters(t *testing.T) {
	withConfig(t, "types.yaml", func(t *testing.T) {
		s, err := GetString("string")
		require.NoError(t, err)
		assert.Equal(t, "value", s)

		_, err = GetString("int")
		assert.Error(t, err)

		s, err = GetString("missing", "fallback")
		require.NoError(t, err)
		assert.Equal(t, "fallback", s)

		i, err := GetInt("int")
		require.NoError(t, err)
		assert.Equal(t, 3, i)

		i, err = GetInt("float")
		require.NoError(t, err)
		assert.Equal(t, 2, i)

		_, err = GetInt("string")
		assert.Error(t, err)

		b, err := GetBool("bool")
		require.NoError(t, err)
		assert.True(t, b)

		b, err = GetBool("missing", true)
		require.NoError(t, err)
		assert.True(t, b)

		_, err = GetBool("string")
		assert.Error(t, err)

		l, err := GetStringSlice("list")
		require.NoError(t, err)
		assert.Equal(t, []string{"a", "b"}, l)

		_, err = GetStringSlice("mixed")
		assert.Error(t, err)

		_, err = GetStringSlice("string")
		assert.Error(t, err)
	})
}

func TestDatasets(t *testing.T) {
	withConfig(t, "nested.yaml", func(t *testing.T) {
		l, err := GetStringSlice("datasets")
		require.NoError(t, err)
		assert.Equal(t, []string{"ioc=zroot/iocage", "backup=tank/iocage"}, l)
	})
}

func TestNamespace(t *testing.T) {
	withConfig(t, "nested.yaml", func(t *testing.T) {
		Config.Namespace = "list"

		i, err := GetInt("padding")
		require.NoError(t, err)
		assert.Equal(t, 4, i, "namespaced key wins")

		b, err := GetBool("color")
		require.NoError(t, err)
		assert.False(t, b)

		s, err := GetString("colors.title")
		require.NoError(t, err)
		assert.Equal(t, "#ff0000", s, "falls back to unnamespaced key")

		l, err := GetStringSlice("attrs")
		require.NoError(t, err)
		assert.Equal(t, []string{"name", "running"}, l)
	})
}

func TestLazyLoad(t *testing.T) {
	absPath, err := filepath.Abs(filepath.Join("testdata", "simple.yaml"))
	require.NoError(t, err)
	t.Setenv(EnvFile, absPath)
	Config = Type{}
	t.Cleanup(func() { Config = Type{} })

	s, err := GetString("rc_conf")
	require.NoError(t, err)
	assert.Equal(t, "/etc/rc.conf", s)
}
