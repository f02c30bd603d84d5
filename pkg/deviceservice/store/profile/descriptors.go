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

package profile

import (
	"context"
	"sync"

	"golang.org/x/sync/singleflight"
	"k8s.io/apimachinery/pkg/util/sets"
	"k8s.io/klog/v2"

	"github.com/kubeedge/profilecache/pkg/deviceservice/metadata"
	"github.com/kubeedge/profilecache/pkg/deviceservice/types"
)

// DescriptorRetention decides what happens to descriptors no cached device uses anymore.
type DescriptorRetention string

const (
	// RetainDescriptors keeps every descriptor for the lifetime of the process
	RetainDescriptors DescriptorRetention = "Retain"
	// ReconcileDescriptors drops descriptors once no cached device references them.
	// Descriptors are only dropped locally, never from the metadata service.
	ReconcileDescriptors DescriptorRetention = "Reconcile"
)

// registry is the deduplicated set of value descriptors known to the process.
type registry struct {
	// ctx bounds remote registrations, which outlive any single caller
	ctx       context.Context
	client    metadata.ValueDescriptorClient
	retention DescriptorRetention

	mu sync.RWMutex
	// descriptors by name, order keeps insertion order for listing
	descriptors map[string]types.ValueDescriptor
	order       []string
	// refs holds the descriptor names each device resolved
	refs map[string]sets.String

	creating singleflight.Group
}

func newRegistry(ctx context.Context, client metadata.ValueDescriptorClient, retention DescriptorRetention) *registry {
	if retention == "" {
		retention = RetainDescriptors
	}
	if ctx == nil {
		ctx = context.Background()
	}
	return &registry{
		ctx:         ctx,
		client:      client,
		retention:   retention,
		descriptors: make(map[string]types.ValueDescriptor),
		refs:        make(map[string]sets.String),
	}
}

func (r *registry) list() []types.ValueDescriptor {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]types.ValueDescriptor, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.descriptors[name])
	}
	return out
}

func (r *registry) get(name string) (types.ValueDescriptor, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	vd, ok := r.descriptors[name]
	return vd, ok
}

func (r *registry) exists(name string) bool {
	_, ok := r.get(name)
	return ok
}

func (r *registry) len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.order)
}

// add inserts vd unless a descriptor with the same name is present, and
// records that device uses it. The registered instance is returned.
func (r *registry) add(device string, vd types.ValueDescriptor) types.ValueDescriptor {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.referenceLocked(device, vd.Name)
	if existing, ok := r.descriptors[vd.Name]; ok {
		return existing
	}
	r.descriptors[vd.Name] = vd
	r.order = append(r.order, vd.Name)
	klog.V(2).Infof("value descriptor %s added to registry (id %q)", vd.Name, vd.ID)
	return vd
}

func (r *registry) referenceLocked(device, name string) {
	if device == "" {
		return
	}
	names, ok := r.refs[device]
	if !ok {
		names = sets.NewString()
		r.refs[device] = names
	}
	names.Insert(name)
}

// retain replaces the names device references. Under the reconcile policy
// descriptors left without any reference are dropped.
func (r *registry) retain(device string, names sets.String) []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	previous := r.refs[device]
	if names.Len() == 0 {
		delete(r.refs, device)
	} else {
		r.refs[device] = sets.NewString(names.UnsortedList()...)
	}
	return r.pruneLocked(previous)
}

// release forgets the references of a removed device.
func (r *registry) release(device string) []string {
	return r.retain(device, sets.NewString())
}

// reconcile drops every unreferenced descriptor under the reconcile policy.
func (r *registry) reconcile() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.pruneLocked(sets.NewString(r.order...))
}

func (r *registry) pruneLocked(candidates sets.String) []string {
	if r.retention != ReconcileDescriptors || candidates.Len() == 0 {
		return nil
	}
	referenced := sets.NewString()
	for _, names := range r.refs {
		referenced = referenced.Union(names)
	}
	dropped := candidates.Difference(referenced)
	if dropped.Len() == 0 {
		return nil
	}
	kept := r.order[:0]
	for _, name := range r.order {
		if dropped.Has(name) {
			delete(r.descriptors, name)
			continue
		}
		kept = append(kept, name)
	}
	r.order = kept
	klog.V(2).Infof("dropped unreferenced value descriptors %v", dropped.List())
	return dropped.List()
}

// resolveOptions tunes a resolution pass
type resolveOptions struct {
	device        string
	used          sets.String
	createUnused  bool
	listDegraded  bool
	working       []types.ValueDescriptor
	sourceProfile *types.DeviceProfile
}

// resolve makes sure every operation's parameter is described: found in the
// working list, reused from the registry, or created from the device object
// backing the operation. It returns the report and the referenced names.
func (r *registry) resolve(ops []types.ResourceOperation, opts resolveOptions) (ResolveReport, sets.String) {
	report := ResolveReport{DescriptorListDegraded: opts.listDegraded}
	referenced := sets.NewString()
	working := make(map[string]types.ValueDescriptor, len(opts.working))
	for i := len(opts.working) - 1; i >= 0; i-- {
		// first match wins
		working[opts.working[i].Name] = opts.working[i]
	}

	for _, op := range ops {
		param := op.Parameter
		if vd, ok := working[param]; ok {
			r.add(opts.device, vd)
			referenced.Insert(param)
			report.Found = append(report.Found, param)
			continue
		}

		if !opts.used.Has(param) && !opts.createUnused {
			klog.V(4).Infof("parameter %s of device %s is not used by any command, no descriptor created", param, opts.device)
			report.SkippedUnused = append(report.SkippedUnused, param)
			continue
		}

		obj := opts.sourceProfile.FindObject(op.Object)
		if obj == nil {
			klog.Warningf("no device object %s in profile %s to describe parameter %s", op.Object, opts.sourceProfile.Name, param)
			report.MissingObject = append(report.MissingObject, param)
			continue
		}

		vd, outcome := r.create(param, obj)
		r.add(opts.device, vd)
		working[param] = vd
		referenced.Insert(param)
		switch outcome {
		case createReused:
			report.Reused = append(report.Reused, param)
		case createRegistered:
			report.Registered = append(report.Registered, param)
		case createUnregistered:
			report.RegistrationFailed = append(report.RegistrationFailed, param)
		}
	}
	return report, referenced
}

type createOutcome int

const (
	createReused createOutcome = iota
	createRegistered
	createUnregistered
)

// flight is what one registration hands to every caller that joined it
type flight struct {
	vd         types.ValueDescriptor
	created    bool
	registered bool
}

// create builds and registers the descriptor called name. Concurrent callers
// for the same name share one remote registration, run on the registry
// context so no caller's cancellation leaks into the others. Only the caller
// that ran it sees createRegistered; a failed registration is
// createUnregistered for every caller that joined it.
func (r *registry) create(name string, obj *types.DeviceObject) (types.ValueDescriptor, createOutcome) {
	ran := false
	v, _, _ := r.creating.Do(name, func() (interface{}, error) {
		ran = true
		if vd, ok := r.get(name); ok {
			return flight{vd: vd}, nil
		}
		vd := types.NewValueDescriptor(name, obj)
		id, err := r.client.Add(r.ctx, &vd)
		if err != nil {
			klog.Errorf("Adding value descriptor %s failed with error %v", vd.Name, err)
		} else {
			vd.ID = id
			klog.Infof("value descriptor %s registered with id %s", vd.Name, id)
		}
		// publish before the flight ends so late callers find it
		return flight{vd: r.add("", vd), created: true, registered: err == nil}, nil
	})
	f := v.(flight)
	switch {
	case !f.created:
		return f.vd, createReused
	case !f.registered:
		return f.vd, createUnregistered
	case ran:
		return f.vd, createRegistered
	default:
		return f.vd, createReused
	}
}
