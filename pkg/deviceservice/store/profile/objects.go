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
	"fmt"
	"strings"

	"k8s.io/klog/v2"

	"github.com/kubeedge/profilecache/pkg/deviceservice/serviceobject"
	"github.com/kubeedge/profilecache/pkg/deviceservice/types"
)

// DeviceObjects maps a device object name to its service object.
type DeviceObjects map[string]serviceobject.ServiceObject

// buildObjects creates a service object for every device object of the
// profile, and synthesizes get/set operations from the read/write flag of
// objects the profile declares no resource for. declared is only read.
func buildObjects(factory serviceobject.Factory, profile *types.DeviceProfile, declared DeviceCommands) (DeviceObjects, DeviceCommands, []types.ResourceOperation, error) {
	objects := make(DeviceObjects, len(profile.DeviceResources))
	synthesized := make(DeviceCommands)
	var ops []types.ResourceOperation

	for _, obj := range profile.DeviceResources {
		so, err := factory.CreateServiceObject(obj)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("%w %s: %v", ErrServiceObject, obj.Name, err)
		}
		if so == nil {
			return nil, nil, nil, fmt.Errorf("%w %s: factory returned nothing", ErrServiceObject, obj.Name)
		}
		objects[obj.Name] = so

		key := resourceKey(obj.Name)
		// a declared resource is authoritative, even if it covers fewer kinds
		if _, ok := declared[key]; ok {
			continue
		}
		if _, ok := synthesized[key]; ok {
			continue
		}

		operations := synthesizeOperations(obj)
		if len(operations) == 0 {
			klog.V(4).Infof("device object %s of profile %s is neither readable nor writable", obj.Name, profile.Name)
			continue
		}
		ops = append(ops, operations[types.OperationGet]...)
		ops = append(ops, operations[types.OperationSet]...)
		synthesized[key] = operations
	}
	return objects, synthesized, ops, nil
}

// synthesizeOperations derives get/set operations from the read/write flag.
func synthesizeOperations(obj types.DeviceObject) Operations {
	rw := strings.ToLower(obj.Properties.Value.ReadWrite)
	operations := Operations{}
	if strings.Contains(rw, "r") {
		operations[types.OperationGet] = []types.ResourceOperation{types.NewResourceOperation(types.OperationGet, obj.Name)}
	}
	if strings.Contains(rw, "w") {
		operations[types.OperationSet] = []types.ResourceOperation{types.NewResourceOperation(types.OperationSet, obj.Name)}
	}
	return operations
}
