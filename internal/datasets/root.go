// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package datasets

import (
	"errors"
	"fmt"
	"strings"

	"github.com/tfctl/jailctl/internal/log"
	"github.com/tfctl/jailctl/internal/storage"
)

// DefaultMountpoint is claimed by a newly created root when nothing else is
// mounted there.
const DefaultMountpoint = "/iocage"

// Names of the conventional children of a root.
const (
	ReleasesName = "releases"
	BaseName     = "base"
	JailsName    = "jails"
	PkgName      = "pkg"
)

// MountChecker reports whether a path is a mount point.
type MountChecker func(path string) (bool, error)

// RootDatasets is one source root and its lazily created children.
type RootDatasets struct {
	backend  storage.Backend
	root     *storage.Dataset
	children map[string]*storage.Dataset
}

// FromDataset wraps an existing root dataset.
func FromDataset(be storage.Backend, root *storage.Dataset) (*RootDatasets, error) {
	if root.Mountpoint == "" {
		return nil, fmt.Errorf("%s: %w", root.Name, ErrNoMountpoint)
	}
	return &RootDatasets{
		backend:  be,
		root:     root,
		children: map[string]*storage.Dataset{},
	}, nil
}

// FromName looks up the root dataset by name, creating it when it does not
// exist. A new root claims DefaultMountpoint unless that is already in use.
func FromName(be storage.Backend, name string, mounted MountChecker) (*RootDatasets, error) {
	root, err := be.Dataset(name)
	if errors.Is(err, storage.ErrNotFound) {
		root, err = createRoot(be, name, mounted)
	}
	if err != nil {
		return nil, err
	}
	return FromDataset(be, root)
}

func createRoot(be storage.Backend, name string, mounted MountChecker) (*storage.Dataset, error) {
	pool, err := be.Dataset(storage.PoolName(name))
	if err != nil {
		return nil, fmt.Errorf("failed to get pool of %s: %w", name, err)
	}

	inUse := isMounted(mounted, DefaultMountpoint)
	if pool.Mountpoint == "" && inUse {
		return nil, fmt.Errorf("%s: %w: %s", name, ErrMountpointConflict, DefaultMountpoint)
	}

	props := map[string]string{}
	if !inUse {
		log.Tracef("claiming mountpoint %s", DefaultMountpoint)
		props["mountpoint"] = DefaultMountpoint
	}

	root, err := be.CreateDataset(name, props)
	if err != nil {
		return nil, fmt.Errorf("failed to create %s: %w", name, err)
	}
	return root, nil
}

func isMounted(mounted MountChecker, path string) bool {
	if mounted == nil {
		return false
	}
	ok, err := mounted(path)
	if err != nil {
		log.Tracef("mount check %s: %v", path, err)
		return false
	}
	return ok
}

// Root returns the root dataset.
func (r *RootDatasets) Root() *storage.Dataset {
	return r.root
}

// Name returns the root dataset name.
func (r *RootDatasets) Name() string {
	return r.root.Name
}

// Releases returns the releases dataset.
func (r *RootDatasets) Releases() (*storage.Dataset, error) {
	return r.child(ReleasesName)
}

// Base returns the base images dataset.
func (r *RootDatasets) Base() (*storage.Dataset, error) {
	return r.child(BaseName)
}

// Jails returns the dataset holding one child per jail.
func (r *RootDatasets) Jails() (*storage.Dataset, error) {
	return r.child(JailsName)
}

// Pkg returns the package cache dataset.
func (r *RootDatasets) Pkg() (*storage.Dataset, error) {
	return r.child(PkgName)
}

// JailDatasets lists the datasets below Jails.
func (r *RootDatasets) JailDatasets() ([]*storage.Dataset, error) {
	jails, err := r.Jails()
	if err != nil {
		return nil, err
	}
	return r.backend.Children(jails)
}

// Contains reports whether the dataset is the root or lies below it.
func (r *RootDatasets) Contains(name string) bool {
	return name == r.root.Name || strings.HasPrefix(name, r.root.Name+"/")
}

func (r *RootDatasets) child(asset string) (*storage.Dataset, error) {
	if ds, ok := r.children[asset]; ok {
		return ds, nil
	}

	ds, err := r.backend.GetOrCreateDataset(r.root.Name + "/" + asset)
	if err != nil {
		return nil, fmt.Errorf("failed to get %s dataset of %s: %w", asset, r.root.Name, err)
	}
	r.children[asset] = ds
	return ds, nil
}

// setMountpoint changes the mountpoint of the root dataset.
func (r *RootDatasets) setMountpoint(mountpoint string) error {
	if err := r.backend.SetProperty(r.root, "mountpoint", mountpoint); err != nil {
		return fmt.Errorf("failed to set mountpoint of %s: %w", r.root.Name, err)
	}
	r.root.Mountpoint = storage.NormalizeMountpoint(mountpoint)
	// Child mountpoints are inherited and now stale.
	clear(r.children)
	return nil
}
