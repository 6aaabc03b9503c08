// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

// Package memstore is an in-memory storage.Backend. It mimics the parts of
// ZFS behavior jailctl relies on (mountpoint inheritance, user properties,
// pool health) and backs the unit tests of the dataset and jail packages.
package memstore

import (
	"fmt"
	"path"
	"sort"
	"strings"
	"sync"

	"github.com/tfctl/jailctl/internal/storage"
)

type entry struct {
	mountpoint string
	used       uint64
	props      map[string]string
}

// Store holds datasets and pools in memory. It is safe for concurrent use.
type Store struct {
	mu        sync.Mutex
	datasets  map[string]*entry
	pools     map[string]*storage.Pool
	poolOrder []string

	// ChildrenCalls counts Children invocations so tests can observe how
	// far a lazy enumeration progressed.
	ChildrenCalls int
}

// New returns an empty Store.
func New() *Store {
	return &Store{
		datasets: map[string]*entry{},
		pools:    map[string]*storage.Pool{},
	}
}

// AddPool registers a pool and its root dataset.
func (s *Store) AddPool(name, status, mountpoint string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.pools[name]; !ok {
		s.poolOrder = append(s.poolOrder, name)
	}
	s.pools[name] = &storage.Pool{Name: name, Status: status}
	s.datasets[name] = &entry{
		mountpoint: storage.NormalizeMountpoint(mountpoint),
		props:      map[string]string{},
	}
}

// SetPoolStatus changes the health of an existing pool.
func (s *Store) SetPoolStatus(name, status string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p, ok := s.pools[name]; ok {
		p.Status = status
	}
}

// AddDataset creates a dataset and any missing parents. An empty
// mountpoint inherits from the parent.
func (s *Store) AddDataset(name, mountpoint string, props map[string]string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.ensureParents(name)
	e := s.newEntry(name, props)
	if mountpoint != "" {
		e.mountpoint = storage.NormalizeMountpoint(mountpoint)
	}
	s.datasets[name] = e
}

// Has reports whether a dataset exists.
func (s *Store) Has(name string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.datasets[name]
	return ok
}

// Dataset implements storage.Backend.
func (s *Store) Dataset(name string) (*storage.Dataset, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.handle(name)
}

// CreateDataset implements storage.Backend. The parent must exist.
func (s *Store) CreateDataset(name string, properties map[string]string) (*storage.Dataset, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.datasets[name]; ok {
		return nil, fmt.Errorf("cannot create '%s': dataset already exists", name)
	}
	parent := path.Dir(name)
	if parent == "." {
		return nil, fmt.Errorf("cannot create '%s': missing pool", name)
	}
	if _, ok := s.datasets[parent]; !ok {
		return nil, fmt.Errorf("cannot create '%s': parent %s: %w", name, parent, storage.ErrNotFound)
	}
	if err := s.checkPool(name); err != nil {
		return nil, err
	}

	s.datasets[name] = s.newEntry(name, properties)
	return s.handle(name)
}

// GetOrCreateDataset implements storage.Backend. Missing parents are created.
func (s *Store) GetOrCreateDataset(name string) (*storage.Dataset, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.datasets[name]; !ok {
		if _, ok := s.pools[storage.PoolName(name)]; !ok {
			return nil, fmt.Errorf("cannot create '%s': no such pool: %w", name, storage.ErrNotFound)
		}
		if err := s.checkPool(name); err != nil {
			return nil, err
		}
		s.ensureParents(name)
		s.datasets[name] = s.newEntry(name, nil)
	}
	return s.handle(name)
}

// Children implements storage.Backend.
func (s *Store) Children(ds *storage.Dataset) ([]*storage.Dataset, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.ChildrenCalls++
	if _, ok := s.datasets[ds.Name]; !ok {
		return nil, fmt.Errorf("%s: %w", ds.Name, storage.ErrNotFound)
	}
	if err := s.checkPool(ds.Name); err != nil {
		return nil, err
	}

	prefix := ds.Name + "/"
	var names []string
	for name := range s.datasets {
		if strings.HasPrefix(name, prefix) && !strings.Contains(name[len(prefix):], "/") {
			names = append(names, name)
		}
	}
	sort.Strings(names)

	children := make([]*storage.Dataset, 0, len(names))
	for _, name := range names {
		h, _ := s.handle(name)
		children = append(children, h)
	}
	return children, nil
}

// Property implements storage.Backend.
func (s *Store) Property(ds *storage.Dataset, key string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.datasets[ds.Name]
	if !ok {
		return "", false, fmt.Errorf("%s: %w", ds.Name, storage.ErrNotFound)
	}
	if err := s.checkPool(ds.Name); err != nil {
		return "", false, err
	}

	if key == "mountpoint" {
		return e.mountpoint, e.mountpoint != "", nil
	}
	v, ok := e.props[key]
	return v, ok, nil
}

// SetProperty implements storage.Backend.
func (s *Store) SetProperty(ds *storage.Dataset, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.datasets[ds.Name]
	if !ok {
		return fmt.Errorf("%s: %w", ds.Name, storage.ErrNotFound)
	}
	if err := s.checkPool(ds.Name); err != nil {
		return err
	}

	if key == "mountpoint" {
		e.mountpoint = storage.NormalizeMountpoint(value)
		return nil
	}
	e.props[key] = value
	return nil
}

// Pools implements storage.Backend.
func (s *Store) Pools() ([]storage.Pool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	pools := make([]storage.Pool, 0, len(s.poolOrder))
	for _, name := range s.poolOrder {
		pools = append(pools, *s.pools[name])
	}
	return pools, nil
}

func (s *Store) handle(name string) (*storage.Dataset, error) {
	e, ok := s.datasets[name]
	if !ok {
		return nil, fmt.Errorf("%s: %w", name, storage.ErrNotFound)
	}
	return &storage.Dataset{Name: name, Mountpoint: e.mountpoint, Used: e.used}, nil
}

func (s *Store) newEntry(name string, props map[string]string) *entry {
	e := &entry{props: map[string]string{}}
	for k, v := range props {
		if k == "mountpoint" {
			e.mountpoint = storage.NormalizeMountpoint(v)
			continue
		}
		e.props[k] = v
	}
	if e.mountpoint == "" {
		if parent, ok := s.datasets[path.Dir(name)]; ok && parent.mountpoint != "" {
			e.mountpoint = path.Join(parent.mountpoint, storage.Leaf(name))
		}
	}
	return e
}

func (s *Store) ensureParents(name string) {
	var missing []string
	for p := path.Dir(name); p != "." && p != "/"; p = path.Dir(p) {
		if _, ok := s.datasets[p]; ok {
			break
		}
		missing = append(missing, p)
	}
	for i := len(missing) - 1; i >= 0; i-- {
		s.datasets[missing[i]] = s.newEntry(missing[i], nil)
	}
}

func (s *Store) checkPool(name string) error {
	p, ok := s.pools[storage.PoolName(name)]
	if ok && !p.Usable() {
		return fmt.Errorf("pool %s is %s", p.Name, p.Status)
	}
	return nil
}
