// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package datasets

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tfctl/jailctl/internal/storage"
	"github.com/tfctl/jailctl/internal/storage/memstore"
)

func TestFromNameExisting(t *testing.T) {
	s := newStore()
	root, err := FromName(s, "zroot/iocage", mounted)
	require.NoError(t, err)
	assert.Equal(t, "/zroot/iocage", root.Root().Mountpoint)
}

func TestFromNameCreate(t *testing.T) {
	tests := []struct {
		name           string
		poolMountpoint string
		checker        MountChecker
		wantMountpoint string
		wantErr        error
	}{
		{
			name:           "claims preferred mountpoint",
			poolMountpoint: "/zroot",
			checker:        notMounted,
			wantMountpoint: DefaultMountpoint,
		},
		{
			name:           "preferred in use inherits",
			poolMountpoint: "/zroot",
			checker:        mounted,
			wantMountpoint: "/zroot/iocage",
		},
		{
			name:           "preferred in use and pool unmounted",
			poolMountpoint: "none",
			checker:        mounted,
			wantErr:        ErrMountpointConflict,
		},
		{
			name:           "mount check error counts as free",
			poolMountpoint: "none",
			checker:        func(string) (bool, error) { return false, errors.New("boom") },
			wantMountpoint: DefaultMountpoint,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := memstore.New()
			s.AddPool("zroot", storage.HealthOnline, tt.poolMountpoint)

			root, err := FromName(s, "zroot/iocage", tt.checker)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.False(t, s.Has("zroot/iocage"), "nothing created")
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantMountpoint, root.Root().Mountpoint)
			assert.True(t, s.Has("zroot/iocage"))
		})
	}
}

func TestFromNameMissingPool(t *testing.T) {
	_, err := FromName(memstore.New(), "nopool/iocage", notMounted)
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestFromDatasetNoMountpoint(t *testing.T) {
	_, err := FromDataset(memstore.New(), &storage.Dataset{Name: "zroot/iocage"})
	assert.ErrorIs(t, err, ErrNoMountpoint)
}

func TestChildrenGetOrCreate(t *testing.T) {
	s := newStore()
	root, err := FromName(s, "zroot/iocage", notMounted)
	require.NoError(t, err)

	getters := map[string]func() (*storage.Dataset, error){
		ReleasesName: root.Releases,
		BaseName:     root.Base,
		JailsName:    root.Jails,
		PkgName:      root.Pkg,
	}
	for name, get := range getters {
		t.Run(name, func(t *testing.T) {
			assert.False(t, s.Has("zroot/iocage/"+name))
			ds, err := get()
			require.NoError(t, err)
			assert.Equal(t, "zroot/iocage/"+name, ds.Name)
			assert.Equal(t, "/zroot/iocage/"+name, ds.Mountpoint)
			assert.True(t, s.Has("zroot/iocage/"+name))

			again, err := get()
			require.NoError(t, err)
			assert.Same(t, ds, again, "cached")
		})
	}
}

func TestJailDatasets(t *testing.T) {
	s := newStore()
	s.AddDataset("zroot/iocage/jails/web1", "", nil)
	s.AddDataset("zroot/iocage/jails/db1", "", nil)
	s.AddDataset("zroot/iocage/jails/db1/root", "", nil)

	root, err := FromName(s, "zroot/iocage", notMounted)
	require.NoError(t, err)

	children, err := root.JailDatasets()
	require.NoError(t, err)
	names := make([]string, 0, len(children))
	for _, c := range children {
		names = append(names, c.Leaf())
	}
	assert.Equal(t, []string{"db1", "web1"}, names)
}

func TestContains(t *testing.T) {
	root, err := FromDataset(memstore.New(), &storage.Dataset{Name: "zroot/iocage", Mountpoint: "/iocage"})
	require.NoError(t, err)

	assert.True(t, root.Contains("zroot/iocage"))
	assert.True(t, root.Contains("zroot/iocage/jails/a"))
	assert.False(t, root.Contains("zroot/iocage2"))
	assert.False(t, root.Contains("zroot"))
}
