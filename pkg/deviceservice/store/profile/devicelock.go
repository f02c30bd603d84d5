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

import "sync"

// deviceLocks serializes lifecycle operations per device name.
// Mutexes are never dropped: a waiter must lock the same instance the holder unlocks.
type deviceLocks struct {
	mutexes sync.Map
}

func (l *deviceLocks) get(device string) *sync.Mutex {
	v, _ := l.mutexes.LoadOrStore(device, &sync.Mutex{})
	return v.(*sync.Mutex)
}

// Lock get the lock of the device
func (l *deviceLocks) Lock(device string) {
	l.get(device).Lock()
}

// Unlock remove the lock of the device
func (l *deviceLocks) Unlock(device string) {
	l.get(device).Unlock()
}
