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

package httpserver

import (
	"time"

	"github.com/kubeedge/profilecache/pkg/deviceservice/store/profile"
	"github.com/kubeedge/profilecache/pkg/deviceservice/types"
)

const (
	APIVersion = "v1"
	APIBase    = "/api/" + APIVersion

	CorrelationHeader = "X-Correlation-ID"
	ContentType       = "Content-Type"
	ContentTypeJSON   = "application/json"
)

// BaseResponse the base response struct of all response
type BaseResponse struct {
	APIVersion string `json:"apiVersion"`
	StatusCode int    `json:"statusCode"`
	TimeStamp  string `json:"timeStamp"`
}

// NewBaseResponse get BaseResponse by statusCode
func NewBaseResponse(statusCode int) *BaseResponse {
	return &BaseResponse{
		APIVersion: APIVersion,
		StatusCode: statusCode,
		TimeStamp:  time.Now().Format(time.RFC3339),
	}
}

type PingResponse struct {
	*BaseResponse
	Message string `json:"message"`
}

type ErrorResponse struct {
	*BaseResponse
	Message string `json:"message"`
}

// DeviceCallbackResponse carries the result of a device callback
type DeviceCallbackResponse struct {
	*BaseResponse
	Result profile.Result `json:"result"`
	Error  string         `json:"error,omitempty"`
}

type ObjectsResponse struct {
	*BaseResponse
	Objects map[string]profile.DeviceObjects `json:"objects"`
}

type DeviceObjectsResponse struct {
	*BaseResponse
	Device  string                `json:"device"`
	Objects profile.DeviceObjects `json:"objects"`
}

type CommandsResponse struct {
	*BaseResponse
	Commands map[string]profile.DeviceCommands `json:"commands"`
}

type DeviceCommandsResponse struct {
	*BaseResponse
	Device   string                 `json:"device"`
	Commands profile.DeviceCommands `json:"commands"`
}

type ValueDescriptorsResponse struct {
	*BaseResponse
	ValueDescriptors []types.ValueDescriptor `json:"valueDescriptors"`
}

type ValueDescriptorResponse struct {
	*BaseResponse
	ValueDescriptor types.ValueDescriptor `json:"valueDescriptor"`
}

type ProvisionWatchersResponse struct {
	*BaseResponse
	ProvisionWatchers []types.ProvisionWatcher `json:"provisionWatchers"`
}

type StatsResponse struct {
	*BaseResponse
	Stats profile.Stats `json:"stats"`
}
