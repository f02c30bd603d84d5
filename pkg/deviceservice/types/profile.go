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

package types

const (
	// OperationGet reads a device resource
	OperationGet = "get"
	// OperationSet writes a device resource
	OperationSet = "set"
)

// ResourceOperation is a single get or set action against one device object.
type ResourceOperation struct {
	Index     string            `json:"index,omitempty"`
	Operation string            `json:"operation"`
	Object    string            `json:"object"`
	Parameter string            `json:"parameter,omitempty"`
	Resource  string            `json:"resource,omitempty"`
	Secondary []string          `json:"secondary,omitempty"`
	Mappings  map[string]string `json:"mappings,omitempty"`
}

// NewResourceOperation returns an operation whose parameter is the object name.
func NewResourceOperation(operation, object string) ResourceOperation {
	return ResourceOperation{
		Operation: operation,
		Object:    object,
		Parameter: object,
	}
}

// ProfileResource is an explicit, profile-declared grouping of get/set operations.
type ProfileResource struct {
	Name string              `json:"name"`
	Get  []ResourceOperation `json:"get,omitempty"`
	Set  []ResourceOperation `json:"set,omitempty"`
}

// PropertyValue is the value block of a device object's properties.
type PropertyValue struct {
	Type         string `json:"type,omitempty"`
	ReadWrite    string `json:"readWrite,omitempty"`
	Minimum      string `json:"minimum,omitempty"`
	Maximum      string `json:"maximum,omitempty"`
	DefaultValue string `json:"defaultValue,omitempty"`
	Size         string `json:"size,omitempty"`
	Precision    string `json:"precision,omitempty"`
	Word         string `json:"word,omitempty"`
	LSB          string `json:"lsb,omitempty"`
	Mask         string `json:"mask,omitempty"`
	Shift        string `json:"shift,omitempty"`
	Scale        string `json:"scale,omitempty"`
	Offset       string `json:"offset,omitempty"`
	Base         string `json:"base,omitempty"`
	Assertion    string `json:"assertion,omitempty"`
	Signed       bool   `json:"signed,omitempty"`
}

// Units is the units block of a device object's properties.
type Units struct {
	Type         string `json:"type,omitempty"`
	ReadWrite    string `json:"readWrite,omitempty"`
	DefaultValue string `json:"defaultValue,omitempty"`
}

// ProfileProperty groups the value and units blocks.
type ProfileProperty struct {
	Value PropertyValue `json:"value"`
	Units Units         `json:"units"`
}

// DeviceObject is one named, typed device resource of a profile.
type DeviceObject struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description,omitempty"`
	Tag         string                 `json:"tag,omitempty"`
	Properties  ProfileProperty        `json:"properties"`
	Attributes  map[string]interface{} `json:"attributes,omitempty"`
}

// Response is one expected response of a command's get action.
type Response struct {
	Code           string   `json:"code"`
	Description    string   `json:"description,omitempty"`
	ExpectedValues []string `json:"expectedValues,omitempty"`
}

// Action is the common part of a command's get and put definitions.
type Action struct {
	Path      string     `json:"path,omitempty"`
	Responses []Response `json:"responses,omitempty"`
}

// Get is the read side of a command.
type Get struct {
	Action `json:",inline"`
}

// Put is the write side of a command.
type Put struct {
	Action         `json:",inline"`
	ParameterNames []string `json:"parameterNames,omitempty"`
}

// Command is a profile-declared command exposed to northbound callers.
type Command struct {
	ID   string `json:"id,omitempty"`
	Name string `json:"name"`
	Get  *Get   `json:"get,omitempty"`
	Put  *Put   `json:"put,omitempty"`
}

// AssociatedValueDescriptors returns the value descriptor names used by the
// command, from the get responses' expected values and the put parameters.
func (c *Command) AssociatedValueDescriptors() []string {
	var names []string
	if c.Get != nil {
		for _, resp := range c.Get.Responses {
			names = append(names, resp.ExpectedValues...)
		}
	}
	if c.Put != nil {
		names = append(names, c.Put.ParameterNames...)
		for _, resp := range c.Put.Responses {
			names = append(names, resp.ExpectedValues...)
		}
	}
	return names
}

// DeviceProfile describes the addressable resources and commands of a device.
// A nil DeviceResources means the profile only carries its name and has to be
// completed from the metadata service.
type DeviceProfile struct {
	ID              string            `json:"id,omitempty"`
	Name            string            `json:"name"`
	Description     string            `json:"description,omitempty"`
	Manufacturer    string            `json:"manufacturer,omitempty"`
	Model           string            `json:"model,omitempty"`
	Labels          []string          `json:"labels,omitempty"`
	DeviceResources []DeviceObject    `json:"deviceResources"`
	Resources       []ProfileResource `json:"resources,omitempty"`
	Commands        []Command         `json:"commands,omitempty"`
}

// Complete reports whether the profile carries its device resource list.
func (p *DeviceProfile) Complete() bool {
	return p != nil && p.DeviceResources != nil
}

// FindObject returns the device object named name, or nil.
func (p *DeviceProfile) FindObject(name string) *DeviceObject {
	for i := range p.DeviceResources {
		if p.DeviceResources[i].Name == name {
			return &p.DeviceResources[i]
		}
	}
	return nil
}
