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

// Package metadata is the client side of the metadata authority that owns
// device profiles, value descriptors and provision watchers.
package metadata

import (
	"context"

	"github.com/kubeedge/profilecache/pkg/deviceservice/types"
)

// DeviceProfileClient fetches device profiles
type DeviceProfileClient interface {
	DeviceProfileForName(ctx context.Context, name string) (*types.DeviceProfile, error)
}

// ValueDescriptorClient lists and registers value descriptors
type ValueDescriptorClient interface {
	ValueDescriptors(ctx context.Context) ([]types.ValueDescriptor, error)
	// Add registers vd and returns the id assigned by the authority.
	Add(ctx context.Context, vd *types.ValueDescriptor) (string, error)
}

// ProvisionWatcherClient fetches provision watchers
type ProvisionWatcherClient interface {
	ProvisionWatcher(ctx context.Context, id string) (*types.ProvisionWatcher, error)
	ProvisionWatchersForService(ctx context.Context, serviceID string) ([]types.ProvisionWatcher, error)
	AddProvisionWatcher(ctx context.Context, w *types.ProvisionWatcher) (string, error)
}

// Client is the full metadata gateway
type Client interface {
	DeviceProfileClient
	ValueDescriptorClient
	ProvisionWatcherClient
}
