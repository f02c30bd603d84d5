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

// Package profile caches, per device, the runtime objects and commands
// derived from the device's profile, and keeps the process-wide registry of
// value descriptors those commands use.
package profile

import (
	"context"
	"fmt"
	"sync"
	"time"

	"k8s.io/apimachinery/pkg/util/wait"
	"k8s.io/klog/v2"

	"github.com/kubeedge/profilecache/pkg/deviceservice/metadata"
	"github.com/kubeedge/profilecache/pkg/deviceservice/serviceobject"
	"github.com/kubeedge/profilecache/pkg/deviceservice/types"
)

// Gateway is the part of the metadata service the profile store talks to.
type Gateway interface {
	metadata.DeviceProfileClient
	metadata.ValueDescriptorClient
}

// Listener is told about the result of every lifecycle operation.
// OnResult is called with the device lock held and must not call back into the store.
type Listener interface {
	OnResult(result Result)
}

// ListenerFunc adapts a function to Listener
type ListenerFunc func(result Result)

// OnResult calls f(result)
func (f ListenerFunc) OnResult(result Result) {
	f(result)
}

// Options of the profile store
type Options struct {
	// Context bounds remote descriptor registrations, default context.Background().
	// Registrations are shared between devices, so they never use a caller's context.
	Context             context.Context
	DescriptorRetention DescriptorRetention
	// CreateUnusedDescriptors creates descriptors for parameters no command references
	CreateUnusedDescriptors bool
	Listeners               []Listener
}

// Stats is a point in time view of the cache sizes
type Stats struct {
	Devices     int `json:"devices"`
	Descriptors int `json:"descriptors"`
}

// ProfileStore is the device keyed profile cache
type ProfileStore interface {
	AddDevice(ctx context.Context, device *types.Device) Result
	UpdateDevice(ctx context.Context, device *types.Device) Result
	RemoveDevice(device *types.Device) Result

	// GetObjects and GetCommands return snapshots keyed by device name.
	// The per-device maps are shared with the cache and must not be modified.
	GetObjects() map[string]DeviceObjects
	GetCommands() map[string]DeviceCommands
	GetDeviceObjects(name string) (DeviceObjects, bool)
	GetDeviceCommands(name string) (DeviceCommands, bool)

	GetValueDescriptors() []types.ValueDescriptor
	GetValueDescriptor(name string) (types.ValueDescriptor, bool)
	DescriptorExists(name string) bool

	Stats() Stats
	// Reconcile drops descriptors no cached device references, when the
	// retention policy allows it, and returns their names.
	Reconcile() []string
}

// Store implements ProfileStore
type Store struct {
	gateway  metadata.DeviceProfileClient
	factory  serviceobject.Factory
	registry *registry
	locks    deviceLocks

	createUnused bool
	listeners    []Listener

	// device name -> *deviceEntry, never modified once stored
	entries sync.Map
}

// deviceEntry publishes the objects and commands of one device together
type deviceEntry struct {
	objects  DeviceObjects
	commands DeviceCommands
}

var _ ProfileStore = &Store{}

// NewProfileStore returns an empty store.
func NewProfileStore(gateway Gateway, factory serviceobject.Factory, opts Options) *Store {
	return &Store{
		gateway:      gateway,
		factory:      factory,
		registry:     newRegistry(opts.Context, gateway, opts.DescriptorRetention),
		createUnused: opts.CreateUnusedDescriptors,
		listeners:    opts.Listeners,
	}
}

// AddDevice builds and publishes the objects and commands of device, then
// makes sure every parameter its operations use is described.
func (s *Store) AddDevice(ctx context.Context, device *types.Device) Result {
	if device == nil {
		return s.report(Result{Outcome: Skipped, Err: ErrProfileIncomplete})
	}
	s.locks.Lock(device.Name)
	defer s.locks.Unlock(device.Name)

	return s.report(s.addLocked(ctx, device))
}

// UpdateDevice fully rebuilds the entries of device. If the rebuild fails the
// device stays absent from the cache.
func (s *Store) UpdateDevice(ctx context.Context, device *types.Device) Result {
	if device == nil {
		return s.report(Result{Outcome: Skipped, Err: ErrProfileIncomplete})
	}
	s.locks.Lock(device.Name)
	defer s.locks.Unlock(device.Name)

	s.removeLocked(device.Name)
	result := s.addLocked(ctx, device)
	if result.Outcome != Cached {
		s.registry.release(device.Name)
		if result.Outcome == Skipped {
			// the old entries are gone, so nothing was left untouched
			result.Outcome = Failed
		}
	}
	return s.report(result)
}

// RemoveDevice drops the entries of device. Removing an absent device is a no-op.
func (s *Store) RemoveDevice(device *types.Device) Result {
	if device == nil {
		return Result{Outcome: Removed}
	}
	s.locks.Lock(device.Name)
	defer s.locks.Unlock(device.Name)

	s.removeLocked(device.Name)
	if dropped := s.registry.release(device.Name); len(dropped) > 0 {
		klog.V(2).Infof("device %s removed, dropped descriptors %v", device.Name, dropped)
	}
	return s.report(Result{Device: device.Name, Outcome: Removed})
}

func (s *Store) addLocked(ctx context.Context, device *types.Device) Result {
	result := Result{Device: device.Name}

	profile, err := s.completeProfile(ctx, device)
	if err != nil {
		klog.Errorf("device %s skipped: %v", device.Name, err)
		result.Outcome = Skipped
		result.Err = err
		return result
	}
	result.Profile = profile

	declared, declaredOps := buildDeclaredCommands(profile)
	objects, synthesized, synthesizedOps, err := buildObjects(s.factory, profile, declared)
	if err != nil {
		klog.Errorf("building objects of device %s failed: %v", device.Name, err)
		s.removeLocked(device.Name)
		if dropped := s.registry.release(device.Name); len(dropped) > 0 {
			klog.V(2).Infof("device %s failed, dropped descriptors %v", device.Name, dropped)
		}
		result.Outcome = Failed
		result.Err = err
		return result
	}
	commands := mergeCommands(declared, synthesized)
	ops := make([]types.ResourceOperation, 0, len(declaredOps)+len(synthesizedOps))
	ops = append(ops, declaredOps...)
	ops = append(ops, synthesizedOps...)

	s.entries.Store(device.Name, &deviceEntry{objects: objects, commands: commands})
	result.Objects = len(objects)
	result.Commands = len(commands)

	working, err := s.registry.client.ValueDescriptors(ctx)
	degraded := false
	if err != nil {
		klog.Warningf("listing value descriptors for device %s failed, resolving against an empty list: %v", device.Name, err)
		working = nil
		degraded = true
	}

	report, referenced := s.registry.resolve(ops, resolveOptions{
		device:        device.Name,
		used:          usedDescriptors(profile),
		createUnused:  s.createUnused,
		listDegraded:  degraded,
		working:       working,
		sourceProfile: profile,
	})
	if dropped := s.registry.retain(device.Name, referenced); len(dropped) > 0 {
		klog.V(2).Infof("device %s rebuilt, dropped descriptors %v", device.Name, dropped)
	}

	result.Outcome = Cached
	result.Descriptors = report
	klog.V(2).Infof("device %s cached with %d objects and %d commands", device.Name, result.Objects, result.Commands)
	return result
}

func (s *Store) removeLocked(name string) {
	s.entries.Delete(name)
}

func (s *Store) entry(name string) (*deviceEntry, bool) {
	v, ok := s.entries.Load(name)
	if !ok {
		return nil, false
	}
	return v.(*deviceEntry), true
}

// completeProfile returns the complete profile of device, fetching it when
// the device only carries the profile name. device is not modified.
func (s *Store) completeProfile(ctx context.Context, device *types.Device) (*types.DeviceProfile, error) {
	if device.Profile == nil {
		return nil, ErrProfileIncomplete
	}
	if device.Profile.Complete() {
		return device.Profile, nil
	}

	fetched, err := s.gateway.DeviceProfileForName(ctx, device.Profile.Name)
	if err != nil {
		return nil, fmt.Errorf("%w: %w %s: %w", ErrProfileIncomplete, ErrProfileFetch, device.Profile.Name, err)
	}
	if fetched == nil {
		return nil, fmt.Errorf("%w: profile %s not returned", ErrProfileIncomplete, device.Profile.Name)
	}
	if fetched.DeviceResources == nil {
		// a fetched profile is authoritative, even with no resources
		p := *fetched
		p.DeviceResources = []types.DeviceObject{}
		fetched = &p
	}
	return fetched, nil
}

func (s *Store) report(result Result) Result {
	for _, l := range s.listeners {
		l.OnResult(result)
	}
	return result
}

// GetObjects returns every device's objects
func (s *Store) GetObjects() map[string]DeviceObjects {
	out := make(map[string]DeviceObjects)
	s.entries.Range(func(key, value interface{}) bool {
		out[key.(string)] = value.(*deviceEntry).objects
		return true
	})
	return out
}

// GetCommands returns every device's commands
func (s *Store) GetCommands() map[string]DeviceCommands {
	out := make(map[string]DeviceCommands)
	s.entries.Range(func(key, value interface{}) bool {
		out[key.(string)] = value.(*deviceEntry).commands
		return true
	})
	return out
}

// GetDeviceObjects returns the objects of one device
func (s *Store) GetDeviceObjects(name string) (DeviceObjects, bool) {
	e, ok := s.entry(name)
	if !ok {
		return nil, false
	}
	return e.objects, true
}

// GetDeviceCommands returns the commands of one device
func (s *Store) GetDeviceCommands(name string) (DeviceCommands, bool) {
	e, ok := s.entry(name)
	if !ok {
		return nil, false
	}
	return e.commands, true
}

// GetValueDescriptors returns the registry in insertion order
func (s *Store) GetValueDescriptors() []types.ValueDescriptor {
	return s.registry.list()
}

// GetValueDescriptor returns the descriptor called name
func (s *Store) GetValueDescriptor(name string) (types.ValueDescriptor, bool) {
	return s.registry.get(name)
}

// DescriptorExists reports whether a descriptor called name is registered
func (s *Store) DescriptorExists(name string) bool {
	return s.registry.exists(name)
}

// Stats returns the cache sizes
func (s *Store) Stats() Stats {
	devices := 0
	s.entries.Range(func(_, _ interface{}) bool {
		devices++
		return true
	})
	return Stats{Devices: devices, Descriptors: s.registry.len()}
}

// Reconcile drops unreferenced descriptors under the reconcile policy
func (s *Store) Reconcile() []string {
	return s.registry.reconcile()
}

// RunReconcile calls Reconcile every period until ctx is done. It returns at
// once unless descriptors are reconciled and period is positive.
func (s *Store) RunReconcile(ctx context.Context, period time.Duration) {
	if s.registry.retention != ReconcileDescriptors || period <= 0 {
		return
	}
	wait.Until(func() {
		if dropped := s.Reconcile(); len(dropped) > 0 {
			klog.Infof("reconcile dropped %d value descriptors", len(dropped))
		}
	}, period, ctx.Done())
}
