// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package storage

import (
	"errors"
	"strings"
)

// ErrNotFound is returned by a Backend when a dataset does not exist.
var ErrNotFound = errors.New("dataset not found")

// Pool health states reported by the backend.
const (
	HealthOnline   = "ONLINE"
	HealthDegraded = "DEGRADED"
	HealthFaulted  = "FAULTED"
	HealthOffline  = "OFFLINE"
	HealthRemoved  = "REMOVED"
	HealthUnavail  = "UNAVAIL"
)

// Dataset is a handle to a single node of the dataset tree.
type Dataset struct {
	Name string
	// Mountpoint is empty when the dataset has no usable mount location
	// (none, legacy or unset).
	Mountpoint string
	Used       uint64
}

// Leaf returns the last path segment of the dataset name.
func (d *Dataset) Leaf() string {
	return Leaf(d.Name)
}

// Pool returns the name of the pool the dataset lives on.
func (d *Dataset) Pool() string {
	return PoolName(d.Name)
}

// Pool is a storage pool. Its root dataset carries the pool's name.
type Pool struct {
	Name   string
	Status string
}

// Usable reports whether the pool health allows property access.
func (p Pool) Usable() bool {
	return p.Status == HealthOnline || p.Status == HealthDegraded
}

// RootDataset returns the name of the pool's root dataset.
func (p Pool) RootDataset() string {
	return p.Name
}

// Backend is the storage contract consumed by the dataset registry and the
// jail collection.
type Backend interface {
	// Dataset returns the named dataset or an error wrapping ErrNotFound.
	Dataset(name string) (*Dataset, error)
	CreateDataset(name string, properties map[string]string) (*Dataset, error)
	GetOrCreateDataset(name string) (*Dataset, error)
	// Children lists the immediate child filesystems of ds.
	Children(ds *Dataset) ([]*Dataset, error)
	// Property returns the value of a property and whether it is set.
	Property(ds *Dataset, key string) (string, bool, error)
	SetProperty(ds *Dataset, key, value string) error
	Pools() ([]Pool, error)
}

// Leaf returns the last segment of a dataset path.
func Leaf(name string) string {
	if i := strings.LastIndex(name, "/"); i >= 0 {
		return name[i+1:]
	}
	return name
}

// PoolName returns the first segment of a dataset path.
func PoolName(name string) string {
	if i := strings.Index(name, "/"); i >= 0 {
		return name[:i]
	}
	return name
}

// NormalizeMountpoint maps the placeholder values a backend may report for
// an unmounted dataset to the empty string.
func NormalizeMountpoint(mountpoint string) string {
	switch strings.TrimSpace(mountpoint) {
	case "", "-", "none", "legacy":
		return ""
	}
	return strings.TrimSpace(mountpoint)
}
