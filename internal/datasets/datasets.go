// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package datasets

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/moby/sys/mountinfo"

	"github.com/tfctl/jailctl/internal/log"
	"github.com/tfctl/jailctl/internal/rcconf"
	"github.com/tfctl/jailctl/internal/storage"
)

const (
	// PoolActiveProperty marks the active pool on its root dataset.
	PoolActiveProperty = "org.freebsd.ioc:active"

	// RCConfPrefix prefixes source declarations in rc.conf.
	RCConfPrefix = "ioc_dataset_"

	// RootLeaf is the root dataset created on an activated pool.
	RootLeaf = "iocage"

	// DiscoveredSourceName names the source found on the active pool.
	DiscoveredSourceName = "ioc"

	// ActivatedSourceName names the source attached by ActivatePool.
	ActivatedSourceName = "iocage"
)

// Source is a named root dataset.
type Source struct {
	Name    string
	Dataset string
}

// Declarations supplies rc.conf style variables.
type Declarations interface {
	WithPrefix(prefix string) []rcconf.Entry
}

// Datasets is the registry of all dataset sources.
type Datasets struct {
	registry

	backend       storage.Backend
	mounted       MountChecker
	declarations  Declarations
	explicit      []Source
	explicitSet   bool
	rcConfEnabled bool
}

// Option configures Datasets.
type Option func(*Datasets)

// WithSources skips discovery and attaches the given sources, in order.
func WithSources(sources ...Source) Option {
	return func(d *Datasets) {
		d.explicit = sources
		d.explicitSet = true
	}
}

// WithRCConf sets where rc.conf declarations are read from.
func WithRCConf(decl Declarations) Option {
	return func(d *Datasets) {
		d.declarations = decl
	}
}

// WithMountChecker replaces the mount table lookup.
func WithMountChecker(m MountChecker) Option {
	return func(d *Datasets) {
		d.mounted = m
	}
}

// New returns a registry populated by the first discovery step that yields
// sources: explicit sources, rc.conf declarations, then the active pool.
// Finding nothing is not an error.
func New(be storage.Backend, opts ...Option) (*Datasets, error) {
	d := &Datasets{
		registry: newRegistry(),
		backend:  be,
		mounted:  mountinfo.Mounted,
	}
	for _, opt := range opts {
		opt(d)
	}

	if d.explicitSet {
		log.Debugf("using %d explicit sources", len(d.explicit))
		return d, d.AttachSources(d.explicit...)
	}

	ok, err := d.configureFromRCConf()
	if ok || err != nil {
		return d, err
	}

	err = d.configureFromPoolProperty()
	if errors.Is(err, ErrNotActivated) {
		log.Tracef("no root dataset configuration found")
		return d, nil
	}
	return d, err
}

func (d *Datasets) configureFromRCConf() (bool, error) {
	if d.declarations == nil {
		return false, nil
	}

	entries := d.declarations.WithPrefix(RCConfPrefix)
	if len(entries) == 0 {
		return false, nil
	}

	d.rcConfEnabled = true
	for _, e := range entries {
		log.Debugf("rc.conf source %s=%s", e.Key, e.Value)
		if err := d.AttachSource(e.Key, e.Value); err != nil {
			return true, err
		}
	}
	return true, nil
}

func (d *Datasets) configureFromPoolProperty() error {
	pool, err := d.ActivePool()
	if err != nil {
		return err
	}
	log.Debugf("found active pool %s", pool.Name)
	return d.AttachSource(DiscoveredSourceName, pool.Name+"/"+RootLeaf)
}

// RCConfEnabled reports whether the sources were declared in rc.conf.
func (d *Datasets) RCConfEnabled() bool {
	return d.rcConfEnabled
}

// Backend returns the storage backend the registry works on.
func (d *Datasets) Backend() storage.Backend {
	return d.backend
}

// AttachSource registers the named dataset as a source, creating the root
// if needed.
func (d *Datasets) AttachSource(name string, dataset string) error {
	root, err := FromName(d.backend, dataset, d.mounted)
	if err != nil {
		return fmt.Errorf("failed to attach source %s: %w", name, err)
	}
	d.AttachRoot(name, root)
	return nil
}

// AttachDataset registers an existing dataset as a source.
func (d *Datasets) AttachDataset(name string, ds *storage.Dataset) error {
	root, err := FromDataset(d.backend, ds)
	if err != nil {
		return fmt.Errorf("failed to attach source %s: %w", name, err)
	}
	d.AttachRoot(name, root)
	return nil
}

// AttachRoot registers a root. The first source attached becomes main.
func (d *Datasets) AttachRoot(name string, root *RootDatasets) {
	log.Tracef("attaching source %s at %s", name, root.Name())
	d.put(name, root)
}

// DetachSource removes the named source. Detaching the main source does not
// promote another one; Main reports ErrNotActivated afterwards.
func (d *Datasets) DetachSource(name string) error {
	if _, ok := d.roots[name]; !ok {
		return fmt.Errorf("%s: %w", name, ErrUnknownSource)
	}
	log.Tracef("detaching source %s", name)
	d.remove(name)
	return nil
}

// AttachSources attaches every source in order.
func (d *Datasets) AttachSources(sources ...Source) error {
	for _, s := range sources {
		if err := d.AttachSource(s.Name, s.Dataset); err != nil {
			return err
		}
	}
	return nil
}

// ActivePool returns the first pool marked active.
func (d *Datasets) ActivePool() (*storage.Pool, error) {
	pools, err := d.backend.Pools()
	if err != nil {
		return nil, err
	}
	for i := range pools {
		active, err := d.isPoolActive(pools[i])
		if err != nil {
			log.Warnf("cannot read %s of pool %s: %v", PoolActiveProperty, pools[i].Name, err)
			continue
		}
		if active {
			return &pools[i], nil
		}
	}
	return nil, ErrNotActivated
}

// IsPoolActive reports whether the pool carries the active marker. A nil
// pool means the pool of the main source. Unhealthy pools are inactive.
func (d *Datasets) IsPoolActive(pool *storage.Pool) (bool, error) {
	if pool == nil {
		p, err := d.mainPool()
		if err != nil {
			return false, err
		}
		pool = p
	}
	return d.isPoolActive(*pool)
}

func (d *Datasets) isPoolActive(pool storage.Pool) (bool, error) {
	value, ok, err := d.poolProperty(pool, PoolActiveProperty)
	if err != nil || !ok {
		return false, err
	}
	return isTruthy(value), nil
}

// poolProperty reads a property of the pool's root dataset. Pools that are
// not ONLINE or DEGRADED report the property as unset.
func (d *Datasets) poolProperty(pool storage.Pool, key string) (string, bool, error) {
	if !pool.Usable() {
		log.Infof("pool %s is %s and will be ignored", pool.Name, pool.Status)
		return "", false, nil
	}

	ds, err := d.backend.Dataset(pool.RootDataset())
	if err != nil {
		return "", false, err
	}
	return d.backend.Property(ds, key)
}

// Activate activates the pool of the main source.
func (d *Datasets) Activate(mountpoint string) error {
	pool, err := d.mainPool()
	if err != nil {
		return err
	}
	return d.ActivatePool(pool, mountpoint)
}

// ActivatePool marks pool as the only active pool and attaches its root as
// the "iocage" source. A non-empty mountpoint is applied to the root of the
// main source.
func (d *Datasets) ActivatePool(pool *storage.Pool, mountpoint string) error {
	if d.rcConfEnabled {
		return fmt.Errorf("%w: sources are managed in rc.conf", ErrActivationConflict)
	}
	if pool == nil {
		return fmt.Errorf("%w: cannot activate", ErrPoolInvalid)
	}

	pools, err := d.backend.Pools()
	if err != nil {
		return err
	}
	idx := indexPool(pools, pool.Name)
	if idx < 0 {
		return fmt.Errorf("%w: %s is not a pool", ErrPoolInvalid, pool.Name)
	}
	target := pools[idx]

	if active, err := d.isPoolActive(target); err == nil && active {
		log.Warnf("pool %s is already active", target.Name)
	}

	if !target.Usable() {
		return fmt.Errorf("%w: %s is %s", ErrPoolUnavailable, target.Name, target.Status)
	}

	// The root must resolve before any activation marker changes.
	root, err := FromName(d.backend, target.Name+"/"+RootLeaf, d.mounted)
	if err != nil {
		return fmt.Errorf("failed to attach source %s: %w", ActivatedSourceName, err)
	}

	for _, other := range pools {
		if other.Name == target.Name {
			continue
		}
		if err := d.setPoolActivation(other, false); err != nil {
			if other.Usable() {
				return err
			}
			log.Warnf("cannot deactivate pool %s: %v", other.Name, err)
		}
	}

	if err := d.setPoolActivation(target, true); err != nil {
		return err
	}

	d.AttachRoot(ActivatedSourceName, root)

	if mountpoint == "" {
		return nil
	}
	main, err := d.Main()
	if err != nil {
		return err
	}
	if main.Root().Mountpoint != mountpoint {
		return main.setMountpoint(mountpoint)
	}
	return nil
}

// Deactivate clears the active marker of the main source's pool.
func (d *Datasets) Deactivate() error {
	pool, err := d.mainPool()
	if err != nil {
		return err
	}
	return d.setPoolActivation(*pool, false)
}

func (d *Datasets) setPoolActivation(pool storage.Pool, active bool) error {
	value := "no"
	if active {
		value = "yes"
	}

	ds, err := d.backend.Dataset(pool.RootDataset())
	if err != nil {
		return err
	}

	current, ok, err := d.backend.Property(ds, PoolActiveProperty)
	if err != nil {
		return err
	}
	if ok && current == value {
		return nil
	}

	log.Debugf("set %s=%s on %s", PoolActiveProperty, value, ds.Name)
	return d.backend.SetProperty(ds, PoolActiveProperty, value)
}

// mainPool returns the pool the main source lives on.
func (d *Datasets) mainPool() (*storage.Pool, error) {
	main, err := d.Main()
	if err != nil {
		return nil, err
	}

	pools, err := d.backend.Pools()
	if err != nil {
		return nil, err
	}
	name := main.Root().Pool()
	idx := indexPool(pools, name)
	if idx < 0 {
		return nil, fmt.Errorf("%w: %s", ErrPoolInvalid, name)
	}
	return &pools[idx], nil
}

func indexPool(pools []storage.Pool, name string) int {
	return slices.IndexFunc(pools, func(p storage.Pool) bool {
		return p.Name == name
	})
}

// isTruthy parses a yes/no style user value.
func isTruthy(value string) bool {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "yes", "true", "on", "1":
		return true
	}
	return false
}
