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
	"strconv"

	"github.com/kubeedge/profilecache/pkg/deviceservice/types"
)

// Convert parses the textual value into the Go type matching valueType.
func Convert(valueType types.IoTType, value string) (interface{}, error) {
	switch valueType {
	case types.IoTTypeInteger:
		return strconv.ParseInt(value, 10, 64)
	case types.IoTTypeFloat:
		return strconv.ParseFloat(value, 64)
	case types.IoTTypeBoolean:
		return strconv.ParseBool(value)
	case types.IoTTypeJSON:
		var v interface{}
		if err := json.Unmarshal([]byte(value), &v); err != nil {
			return nil, err
		}
		return v, nil
	case types.IoTTypeString:
		return value, nil
	default:
		return nil, fmt.Errorf("convert failed: unknown type %q", valueType)
	}
}
