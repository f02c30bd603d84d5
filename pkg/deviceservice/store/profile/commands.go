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
	"strings"

	"k8s.io/apimachinery/pkg/util/sets"

	"github.com/kubeedge/profilecache/pkg/deviceservice/types"
)

// Operations maps an operation kind (get or set) to its ordered operations.
type Operations map[string][]types.ResourceOperation

// DeviceCommands maps a lower-cased resource name to its operations.
type DeviceCommands map[string]Operations

// resourceKey is the case-insensitive lookup key of a resource name.
func resourceKey(name string) string {
	return strings.ToLower(name)
}

// Lookup returns the operations of resource, ignoring case.
func (c DeviceCommands) Lookup(resource string) (Operations, bool) {
	ops, ok := c[resourceKey(resource)]
	return ops, ok
}

// copyOperations copies declared operations so the cache never aliases the
// profile, defaulting an empty parameter to the object name.
func copyOperations(ops []types.ResourceOperation) []types.ResourceOperation {
	if ops == nil {
		return nil
	}
	out := make([]types.ResourceOperation, len(ops))
	copy(out, ops)
	for i := range out {
		if out[i].Parameter == "" {
			out[i].Parameter = out[i].Object
		}
	}
	return out
}

// buildDeclaredCommands registers the operations of every resource declared
// in the profile. Both kinds are always present for a declared resource, an
// empty list meaning no operation of that kind. The returned operations are
// in resource order, gets before sets.
func buildDeclaredCommands(profile *types.DeviceProfile) (DeviceCommands, []types.ResourceOperation) {
	commands := make(DeviceCommands, len(profile.Resources))
	var ops []types.ResourceOperation
	for _, resource := range profile.Resources {
		get := copyOperations(resource.Get)
		set := copyOperations(resource.Set)
		commands[resourceKey(resource.Name)] = Operations{
			types.OperationGet: get,
			types.OperationSet: set,
		}
		ops = append(ops, get...)
		ops = append(ops, set...)
	}
	return commands, ops
}

// mergeCommands returns a new map holding declared and synthesized entries.
// Synthesized entries never shadow declared ones.
func mergeCommands(declared, synthesized DeviceCommands) DeviceCommands {
	merged := make(DeviceCommands, len(declared)+len(synthesized))
	for k, v := range synthesized {
		merged[k] = v
	}
	for k, v := range declared {
		merged[k] = v
	}
	return merged
}

// usedDescriptors collects the parameter names referenced by the profile's commands.
func usedDescriptors(profile *types.DeviceProfile) sets.String {
	used := sets.NewString()
	for i := range profile.Commands {
		used.Insert(profile.Commands[i].AssociatedValueDescriptors()...)
	}
	return used
}
