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
	"errors"

	"github.com/kubeedge/profilecache/pkg/deviceservice/types"
)

var (
	// ErrProfileIncomplete means the device carries no usable profile.
	ErrProfileIncomplete = errors.New("device is not associated to a complete profile")
	// ErrProfileFetch wraps a failure to fetch the profile from the metadata service.
	ErrProfileFetch = errors.New("failed to fetch device profile")
	// ErrServiceObject wraps a factory failure for one of the device objects.
	ErrServiceObject = errors.New("failed to create service object")
)

// Outcome of a lifecycle operation on one device
type Outcome string

const (
	// Cached means the device's objects and commands were (re)built
	Cached Outcome = "Cached"
	// Removed means the device was dropped from the caches
	Removed Outcome = "Removed"
	// Skipped means the cache was left untouched, e.g. the profile is incomplete
	Skipped Outcome = "Skipped"
	// Failed means building the device's entries failed and the device is absent
	Failed Outcome = "Failed"
)

// ResolveReport records what happened to every parameter during descriptor
// resolution. Each list holds parameter names in resolution order.
type ResolveReport struct {
	// Found in the descriptor list fetched from the metadata service
	Found []string `json:"found,omitempty"`
	// Reused from the local registry without a remote call
	Reused []string `json:"reused,omitempty"`
	// Created locally and registered with the metadata service
	Registered []string `json:"registered,omitempty"`
	// Created locally but registration failed; kept without an id
	RegistrationFailed []string `json:"registrationFailed,omitempty"`
	// Not referenced by any command, so no descriptor was created
	SkippedUnused []string `json:"skippedUnused,omitempty"`
	// No device object backs the operation's object name
	MissingObject []string `json:"missingObject,omitempty"`
	// DescriptorListDegraded is set when the descriptor list could not be
	// fetched and resolution ran against an empty list.
	DescriptorListDegraded bool `json:"descriptorListDegraded,omitempty"`
}

// Created lists every descriptor created during resolution.
func (r *ResolveReport) Created() []string {
	created := make([]string, 0, len(r.Registered)+len(r.RegistrationFailed))
	created = append(created, r.Registered...)
	return append(created, r.RegistrationFailed...)
}

// Degraded reports whether resolution ran in a degraded mode.
func (r *ResolveReport) Degraded() bool {
	return r.DescriptorListDegraded || len(r.RegistrationFailed) > 0
}

// Result of AddDevice, UpdateDevice or RemoveDevice.
type Result struct {
	Device  string               `json:"device"`
	Outcome Outcome              `json:"outcome"`
	Err     error                `json:"-"`
	Profile *types.DeviceProfile `json:"-"`
	// Objects and Commands count the entries cached for the device
	Objects     int           `json:"objects,omitempty"`
	Commands    int           `json:"commands,omitempty"`
	Descriptors ResolveReport `json:"descriptors"`
}

// Error returns the error message, or "".
func (r *Result) Error() string {
	if r.Err == nil {
		return ""
	}
	return r.Err.Error()
}
