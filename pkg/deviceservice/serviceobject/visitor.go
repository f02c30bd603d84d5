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

package serviceobject

import (
	"encoding/json"
	"fmt"
	"strings"
)

const (
	ProtocolModbus  = "modbus"
	ProtocolGeneric = "generic"
)

// Modbus register types
const (
	CoilRegister           = "CoilRegister"
	DiscreteInputRegister  = "DiscreteInputRegister"
	HoldingRegister        = "HoldingRegister"
	InputRegister          = "InputRegister"
	defaultModbusLimit     = 1
	modbusRegisterAttrName = "register"
)

// ModbusVisitorConfig is the modbus register configuration of a device object.
type ModbusVisitorConfig struct {
	Register       string `json:"register"`
	Offset         uint16 `json:"offset"`
	Limit          int    `json:"limit"`
	Scale          int    `json:"scale,omitempty"`
	IsSwap         bool   `json:"isSwap,omitempty"`
	IsRegisterSwap bool   `json:"isRegisterSwap,omitempty"`
}

// Visitor tells a protocol driver how to reach one device object.
type Visitor struct {
	ProtocolName string
	Modbus       *ModbusVisitorConfig
	// Attributes are kept verbatim for protocols without a typed config
	Attributes map[string]interface{}
}

// parseVisitor derives the visitor from a device object's attributes. Objects
// carrying a "register" attribute are modbus registers, everything else is generic.
func parseVisitor(attributes map[string]interface{}) (Visitor, error) {
	if _, ok := attributes[modbusRegisterAttrName]; !ok {
		return Visitor{ProtocolName: ProtocolGeneric, Attributes: attributes}, nil
	}

	// attributes come from JSON documents, a round trip gives typed access
	data, err := json.Marshal(attributes)
	if err != nil {
		return Visitor{}, err
	}
	config := &ModbusVisitorConfig{}
	if err := json.Unmarshal(data, config); err != nil {
		return Visitor{}, fmt.Errorf("invalid modbus attributes: %w", err)
	}
	switch config.Register {
	case CoilRegister, DiscreteInputRegister, HoldingRegister, InputRegister:
	default:
		return Visitor{}, fmt.Errorf("unsupported modbus register type %q", config.Register)
	}
	if config.Limit <= 0 {
		config.Limit = defaultModbusLimit
	}
	return Visitor{ProtocolName: ProtocolModbus, Modbus: config, Attributes: attributes}, nil
}

// Writable reports whether the register type accepts writes.
func (c *ModbusVisitorConfig) Writable() bool {
	return c.Register == CoilRegister || c.Register == HoldingRegister
}

func (v Visitor) String() string {
	if v.Modbus != nil {
		return fmt.Sprintf("%s(%s@%d/%d)", v.ProtocolName, v.Modbus.Register, v.Modbus.Offset, v.Modbus.Limit)
	}
	keys := make([]string, 0, len(v.Attributes))
	for k := range v.Attributes {
		keys = append(keys, k)
	}
	return fmt.Sprintf("%s(%s)", v.ProtocolName, strings.Join(keys, ","))
}
