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

import "strings"

// IoTType is the primitive type of a value descriptor
type IoTType string

const (
	IoTTypeInteger IoTType = "I"
	IoTTypeFloat   IoTType = "F"
	IoTTypeString  IoTType = "S"
	IoTTypeBoolean IoTType = "B"
	IoTTypeJSON    IoTType = "J"
)

// DefaultFormatting is the display format given to descriptors built from a device object.
const DefaultFormatting = "%s"

// ParseIoTType maps a textual type tag such as "Integer" or "float" to an IoTType
// by its first character. Unknown or empty tags are treated as strings.
func ParseIoTType(tag string) IoTType {
	tag = strings.TrimSpace(tag)
	if tag == "" {
		return IoTTypeString
	}
	switch t := IoTType(strings.ToUpper(tag[:1])); t {
	case IoTTypeInteger, IoTTypeFloat, IoTTypeString, IoTTypeBoolean, IoTTypeJSON:
		return t
	default:
		return IoTTypeString
	}
}

// ValueDescriptor describes a measurable quantity shared across devices.
// Name is the identity; ID stays empty until the metadata authority assigns one.
type ValueDescriptor struct {
	ID           string   `json:"id,omitempty"`
	Name         string   `json:"name"`
	Min          string   `json:"min,omitempty"`
	Max          string   `json:"max,omitempty"`
	Type         IoTType  `json:"type,omitempty"`
	UomLabel     string   `json:"uomLabel,omitempty"`
	DefaultValue string   `json:"defaultValue,omitempty"`
	Formatting   string   `json:"formatting,omitempty"`
	Labels       []string `json:"labels,omitempty"`
	Description  string   `json:"description,omitempty"`
}

// NewValueDescriptor builds the descriptor for parameter name out of the
// property block of obj.
func NewValueDescriptor(name string, obj *DeviceObject) ValueDescriptor {
	value := obj.Properties.Value
	return ValueDescriptor{
		Name:         name,
		Min:          value.Minimum,
		Max:          value.Maximum,
		Type:         ParseIoTType(value.Type),
		UomLabel:     obj.Properties.Units.DefaultValue,
		DefaultValue: value.DefaultValue,
		Formatting:   DefaultFormatting,
		Description:  obj.Description,
	}
}

// Registered reports whether the authority has assigned an id.
func (vd *ValueDescriptor) Registered() bool {
	return vd.ID != ""
}
