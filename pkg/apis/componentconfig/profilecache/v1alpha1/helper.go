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

package v1alpha1

import (
	"os"

	"k8s.io/klog/v2"
	"sigs.k8s.io/yaml"
)

// Parse reads fname and unmarshals it over c, so fields missing from the
// file keep the value c already has.
func (c *ProfileCacheConfig) Parse(fname string) error {
	data, err := os.ReadFile(fname)
	if err != nil {
		klog.Errorf("ReadConfig file %s error %v", fname, err)
		return err
	}
	err = yaml.Unmarshal(data, c)
	if err != nil {
		klog.Errorf("Unmarshal file %s data error %v", fname, err)
		return err
	}
	return nil
}
