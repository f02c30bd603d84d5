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

// AdminState of a device or watcher
type AdminState string

// OperatingState of a device or watcher
type OperatingState string

const (
	Locked   AdminState = "LOCKED"
	Unlocked AdminState = "UNLOCKED"

	Enabled  OperatingState = "ENABLED"
	Disabled OperatingState = "DISABLED"
)

// Addressable is the protocol address of a device.
type Addressable struct {
	Name     string `json:"name"`
	Protocol string `json:"protocol,omitempty"`
	Address  string `json:"address,omitempty"`
	Port     int    `json:"port,omitempty"`
	Path     string `json:"path,omitempty"`
}

// Device is a provisioned device associated with exactly one profile.
type Device struct {
	ID             string         `json:"id,omitempty"`
	Name           string         `json:"name"`
	Description    string         `json:"description,omitempty"`
	AdminState     AdminState     `json:"adminState,omitempty"`
	OperatingState OperatingState `json:"operatingState,omitempty"`
	Addressable    *Addressable   `json:"addressable,omitempty"`
	Labels         []string       `json:"labels,omitempty"`
	Service        string         `json:"service,omitempty"`
	Profile        *DeviceProfile `json:"profile,omitempty"`
}

// ProvisionWatcher describes devices to be provisioned automatically when a
// discovered device matches its identifiers.
type ProvisionWatcher struct {
	ID             string            `json:"id,omitempty"`
	Name           string            `json:"name"`
	Identifiers    map[string]string `json:"identifiers,omitempty"`
	Service        string            `json:"service,omitempty"`
	OperatingState OperatingState    `json:"operatingState,omitempty"`
	Profile        *DeviceProfile    `json:"profile,omitempty"`
}

// ProfileName returns the name of the referenced profile, or "".
func (w *ProvisionWatcher) ProfileName() string {
	if w == nil || w.Profile == nil {
		return ""
	}
	return w.Profile.Name
}
