// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

// Package zfs implements storage.Backend on top of the zfs(8) and zpool(8)
// tools through go-zfs.
package zfs

import (
	"errors"
	"fmt"
	"strings"

	gozfs "github.com/mistifyio/go-zfs/v3"

	"github.com/tfctl/jailctl/internal/log"
	"github.com/tfctl/jailctl/internal/storage"
)

// Backend talks to the host's ZFS. The zero value is ready to use.
type Backend struct{}

// New returns a ZFS backed storage.Backend.
func New() *Backend {
	return &Backend{}
}

// Dataset implements storage.Backend.
func (b *Backend) Dataset(name string) (*storage.Dataset, error) {
	ds, err := gozfs.GetDataset(name)
	if err != nil {
		return nil, wrapErr(name, err)
	}
	return toHandle(ds), nil
}

// CreateDataset implements storage.Backend.
func (b *Backend) CreateDataset(name string, properties map[string]string) (*storage.Dataset, error) {
	log.Debugf("creating dataset %s", name)
	ds, err := gozfs.CreateFilesystem(name, properties)
	if err != nil {
		return nil, wrapErr(name, err)
	}
	return toHandle(ds), nil
}

// GetOrCreateDataset implements storage.Backend.
func (b *Backend) GetOrCreateDataset(name string) (*storage.Dataset, error) {
	ds, err := b.Dataset(name)
	if err == nil {
		return ds, nil
	}
	if !errors.Is(err, storage.ErrNotFound) {
		return nil, err
	}
	return b.CreateDataset(name, nil)
}

// Children implements storage.Backend. Snapshots and volumes are skipped.
func (b *Backend) Children(ds *storage.Dataset) ([]*storage.Dataset, error) {
	parent, err := gozfs.GetDataset(ds.Name)
	if err != nil {
		return nil, wrapErr(ds.Name, err)
	}

	children, err := parent.Children(1)
	if err != nil {
		return nil, wrapErr(ds.Name, err)
	}

	result := make([]*storage.Dataset, 0, len(children))
	for _, child := range children {
		if child.Type != gozfs.DatasetFilesystem {
			continue
		}
		result = append(result, toHandle(child))
	}
	log.Tracef("children of %s: %d", ds.Name, len(result))
	return result, nil
}

// Property implements storage.Backend. ZFS reports unset user properties
// as "-".
func (b *Backend) Property(ds *storage.Dataset, key string) (string, bool, error) {
	z, err := gozfs.GetDataset(ds.Name)
	if err != nil {
		return "", false, wrapErr(ds.Name, err)
	}
	value, err := z.GetProperty(key)
	if err != nil {
		return "", false, wrapErr(ds.Name, err)
	}
	if value == "-" || value == "" {
		return "", false, nil
	}
	return value, true, nil
}

// SetProperty implements storage.Backend.
func (b *Backend) SetProperty(ds *storage.Dataset, key, value string) error {
	z, err := gozfs.GetDataset(ds.Name)
	if err != nil {
		return wrapErr(ds.Name, err)
	}
	if err := z.SetProperty(key, value); err != nil {
		return wrapErr(ds.Name, err)
	}
	return nil
}

// Pools implements storage.Backend.
func (b *Backend) Pools() ([]storage.Pool, error) {
	zpools, err := gozfs.ListZpools()
	if err != nil {
		return nil, fmt.Errorf("failed to list pools: %w", err)
	}

	pools := make([]storage.Pool, 0, len(zpools))
	for _, zp := range zpools {
		pools = append(pools, storage.Pool{Name: zp.Name, Status: zp.Health})
	}
	return pools, nil
}

func toHandle(ds *gozfs.Dataset) *storage.Dataset {
	return &storage.Dataset{
		Name:       ds.Name,
		Mountpoint: storage.NormalizeMountpoint(ds.Mountpoint),
		Used:       ds.Used,
	}
}

// wrapErr maps the "does not exist" family of zfs errors to
// storage.ErrNotFound.
func wrapErr(name string, err error) error {
	if isNotExist(err) {
		return fmt.Errorf("%s: %w", name, storage.ErrNotFound)
	}
	return fmt.Errorf("zfs %s: %w", name, err)
}

func isNotExist(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	var zerr *gozfs.Error
	if errors.As(err, &zerr) {
		msg = zerr.Stderr
	}
	return strings.Contains(msg, "does not exist") || strings.Contains(msg, "no such pool")
}
