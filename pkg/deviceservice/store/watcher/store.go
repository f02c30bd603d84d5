/*
Copyright 2026 The KubeEdge Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

   http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

// Package watcher holds the provision watchers of the device service, keyed by name.
package watcher

import (
	"context"
	"sort"
	"sync"

	"k8s.io/klog/v2"

	"github.com/kubeedge/profilecache/pkg/apis/componentconfig/profilecache/v1alpha1"
	"github.com/kubeedge/profilecache/pkg/deviceservice/metadata"
	"github.com/kubeedge/profilecache/pkg/deviceservice/types"
)

// WatcherStore is the name keyed collection of provision watchers
type WatcherStore interface {
	SetWatchers(watchers map[string]types.ProvisionWatcher)
	GetWatchers() map[string]types.ProvisionWatcher
	AddByID(ctx context.Context, id string) bool
	Add(w *types.ProvisionWatcher) bool
	RemoveByID(id string) bool
	Remove(w *types.ProvisionWatcher) bool
	UpdateByID(ctx context.Context, id string) bool
	Update(w *types.ProvisionWatcher) bool
	Initialize(ctx context.Context, serviceID string, cfg *v1alpha1.Watchers) error
	GetWatcherByProfileName(profile string) []types.ProvisionWatcher
}

// Store implements WatcherStore
type Store struct {
	client metadata.ProvisionWatcherClient
	// persister is nil when watchers are not persisted
	persister Persister

	mu       sync.RWMutex
	watchers map[string]types.ProvisionWatcher
}

var _ WatcherStore = &Store{}

// NewWatcherStore returns an empty store. persister may be nil.
func NewWatcherStore(client metadata.ProvisionWatcherClient, persister Persister) *Store {
	return &Store{
		client:    client,
		persister: persister,
		watchers:  make(map[string]types.ProvisionWatcher),
	}
}

// SetWatchers replaces the whole collection
func (s *Store) SetWatchers(watchers map[string]types.ProvisionWatcher) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.watchers = make(map[string]types.ProvisionWatcher, len(watchers))
	for name, w := range watchers {
		s.watchers[name] = w
	}
}

// GetWatchers returns a copy of the collection
func (s *Store) GetWatchers() map[string]types.ProvisionWatcher {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]types.ProvisionWatcher, len(s.watchers))
	for name, w := range s.watchers {
		out[name] = w
	}
	return out
}

// AddByID fetches the watcher from the metadata service and adds it
func (s *Store) AddByID(ctx context.Context, id string) bool {
	w, err := s.client.ProvisionWatcher(ctx, id)
	if err != nil {
		klog.Errorf("fetching provision watcher %s failed: %v", id, err)
		return false
	}
	return s.Add(w)
}

// Add stores w under its name, replacing any watcher of the same name
func (s *Store) Add(w *types.ProvisionWatcher) bool {
	if w == nil || w.Name == "" {
		klog.Warningf("provision watcher without name is ignored")
		return false
	}
	s.mu.Lock()
	s.watchers[w.Name] = *w
	s.mu.Unlock()

	s.save(w)
	klog.V(2).Infof("provision watcher %s added for profile %s", w.Name, w.ProfileName())
	return true
}

// RemoveByID removes the watcher with the given id
func (s *Store) RemoveByID(id string) bool {
	s.mu.RLock()
	var found *types.ProvisionWatcher
	for _, w := range s.watchers {
		if w.ID == id {
			w := w
			found = &w
			break
		}
	}
	s.mu.RUnlock()
	if found == nil {
		klog.V(4).Infof("no provision watcher with id %s", id)
		return false
	}
	return s.Remove(found)
}

// Remove removes the watcher called w.Name
func (s *Store) Remove(w *types.ProvisionWatcher) bool {
	if w == nil {
		return false
	}
	s.mu.Lock()
	_, ok := s.watchers[w.Name]
	delete(s.watchers, w.Name)
	s.mu.Unlock()
	if !ok {
		return false
	}

	if s.persister != nil {
		if err := s.persister.Delete(w.Name); err != nil {
			klog.Errorf("deleting persisted provision watcher %s failed: %v", w.Name, err)
		}
	}
	klog.V(2).Infof("provision watcher %s removed", w.Name)
	return true
}

// UpdateByID refetches the watcher with the given id
func (s *Store) UpdateByID(ctx context.Context, id string) bool {
	w, err := s.client.ProvisionWatcher(ctx, id)
	if err != nil {
		klog.Errorf("fetching provision watcher %s failed: %v", id, err)
		return false
	}
	return s.Update(w)
}

// Update replaces the watcher. A watcher renamed under the same id replaces its old entry.
func (s *Store) Update(w *types.ProvisionWatcher) bool {
	if w == nil || w.Name == "" {
		return false
	}
	if w.ID != "" {
		s.mu.RLock()
		var stale []string
		for name, existing := range s.watchers {
			if existing.ID == w.ID && name != w.Name {
				stale = append(stale, name)
			}
		}
		s.mu.RUnlock()
		for _, name := range stale {
			s.Remove(&types.ProvisionWatcher{Name: name})
		}
	}
	return s.Add(w)
}

// Initialize loads the watchers of the service. Persisted watchers are loaded
// first, then replaced by what the metadata service returns. When the
// metadata service knows none, the configured definitions are created.
func (s *Store) Initialize(ctx context.Context, serviceID string, cfg *v1alpha1.Watchers) error {
	if cfg != nil && !cfg.Enable {
		klog.Infof("provision watchers are disabled")
		return nil
	}

	if s.persister != nil {
		persisted, err := s.persister.List()
		if err != nil {
			klog.Errorf("loading persisted provision watchers failed: %v", err)
		} else {
			s.SetWatchers(byName(persisted))
			klog.Infof("loaded %d persisted provision watchers", len(persisted))
		}
	}

	remote, err := s.client.ProvisionWatchersForService(ctx, serviceID)
	if err != nil {
		klog.Errorf("fetching provision watchers of service %s failed: %v", serviceID, err)
		return err
	}
	if len(remote) > 0 {
		fresh := byName(remote)
		for name := range s.GetWatchers() {
			if _, ok := fresh[name]; !ok {
				s.Remove(&types.ProvisionWatcher{Name: name})
			}
		}
		s.SetWatchers(fresh)
		for i := range remote {
			s.save(&remote[i])
		}
		klog.Infof("loaded %d provision watchers of service %s", len(remote), serviceID)
		return nil
	}

	if cfg == nil {
		return nil
	}
	for _, def := range cfg.Definitions {
		w := types.ProvisionWatcher{
			Name:           def.Name,
			Identifiers:    def.Identifiers,
			Service:        serviceID,
			OperatingState: types.Enabled,
			Profile:        &types.DeviceProfile{Name: def.Profile},
		}
		id, err := s.client.AddProvisionWatcher(ctx, &w)
		if err != nil {
			// kept locally so discovery still works while metadata is down
			klog.Errorf("registering provision watcher %s failed: %v", w.Name, err)
		} else {
			w.ID = id
		}
		s.Add(&w)
	}
	return nil
}

// GetWatcherByProfileName returns the watchers referencing profile, sorted by name
func (s *Store) GetWatcherByProfileName(profile string) []types.ProvisionWatcher {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []types.ProvisionWatcher
	for _, w := range s.watchers {
		if w.ProfileName() == profile {
			out = append(out, w)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func (s *Store) save(w *types.ProvisionWatcher) {
	if s.persister == nil {
		return
	}
	if err := s.persister.Save(w); err != nil {
		klog.Errorf("persisting provision watcher %s failed: %v", w.Name, err)
	}
}

func byName(watchers []types.ProvisionWatcher) map[string]types.ProvisionWatcher {
	out := make(map[string]types.ProvisionWatcher, len(watchers))
	for _, w := range watchers {
		if w.Name == "" {
			continue
		}
		out[w.Name] = w
	}
	return out
}
