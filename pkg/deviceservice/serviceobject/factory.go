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

// Package serviceobject turns device objects of a profile into handles that
// protocol drivers can use.
package serviceobject

import (
	"fmt"
	"strings"

	"k8s.io/klog/v2"

	"github.com/kubeedge/profilecache/pkg/deviceservice/types"
)

// ServiceObject is the runtime handle of one device object.
type ServiceObject interface {
	Name() string
}

// Factory creates service objects
type Factory interface {
	CreateServiceObject(obj types.DeviceObject) (ServiceObject, error)
}

// Object is the ServiceObject built by the default factory.
type Object struct {
	types.DeviceObject
	Type     types.IoTType
	Readable bool
	Writable bool
	Visitor  Visitor
}

// Name of the underlying device object
func (o *Object) Name() string {
	return o.DeviceObject.Name
}

// Parse converts a raw reading into the object's value type.
func (o *Object) Parse(raw string) (interface{}, error) {
	return Convert(o.Type, raw)
}

type defaultFactory struct{}

// NewFactory returns the default factory.
func NewFactory() Factory {
	return defaultFactory{}
}

func (defaultFactory) CreateServiceObject(obj types.DeviceObject) (ServiceObject, error) {
	if obj.Name == "" {
		return nil, fmt.Errorf("device object without name")
	}
	visitor, err := parseVisitor(obj.Attributes)
	if err != nil {
		return nil, fmt.Errorf("device object %s: %w", obj.Name, err)
	}

	rw := strings.ToLower(obj.Properties.Value.ReadWrite)
	so := &Object{
		DeviceObject: obj,
		Type:         types.ParseIoTType(obj.Properties.Value.Type),
		Readable:     strings.Contains(rw, "r"),
		Writable:     strings.Contains(rw, "w"),
		Visitor:      visitor,
	}
	if so.Writable && visitor.Modbus != nil && !visitor.Modbus.Writable() {
		klog.Warningf("device object %s is writable but visits read-only register %s", obj.Name, visitor.Modbus.Register)
		so.Writable = false
	}
	klog.V(4).Infof("created service object %s visiting %s", obj.Name, visitor)
	return so, nil
}
