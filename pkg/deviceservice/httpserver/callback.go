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
	"encoding/json"
	"fmt"
	"net/http"
	"sort"

	"github.com/gorilla/mux"

	"github.com/kubeedge/profilecache/pkg/deviceservice/store/profile"
	"github.com/kubeedge/profilecache/pkg/deviceservice/types"
)

const maxCallbackBody = 1 << 20

func (rs *RestServer) Ping(writer http.ResponseWriter, request *http.Request) {
	response := &PingResponse{
		BaseResponse: NewBaseResponse(http.StatusOK),
		Message:      fmt.Sprintf("This is %s API, the server is running normally.", APIVersion),
	}
	rs.sendResponse(writer, request, response, http.StatusOK)
}

// DeviceCallback adds (POST) or rebuilds (PUT) the device in the body
func (rs *RestServer) DeviceCallback(writer http.ResponseWriter, request *http.Request) {
	var device types.Device
	decoder := json.NewDecoder(http.MaxBytesReader(writer, request.Body, maxCallbackBody))
	if err := decoder.Decode(&device); err != nil {
		rs.sendError(writer, request, http.StatusBadRequest, fmt.Sprintf("decode device error: %v", err))
		return
	}
	if device.Name == "" {
		rs.sendError(writer, request, http.StatusBadRequest, "device name is required")
		return
	}

	var result profile.Result
	if request.Method == http.MethodPut {
		result = rs.store.UpdateDevice(rs.ctx, &device)
	} else {
		result = rs.store.AddDevice(rs.ctx, &device)
	}
	rs.sendResult(writer, request, result)
}

// DeviceDelete removes the named device from the cache
func (rs *RestServer) DeviceDelete(writer http.ResponseWriter, request *http.Request) {
	name := mux.Vars(request)["name"]
	result := rs.store.RemoveDevice(&types.Device{Name: name})
	rs.sendResult(writer, request, result)
}

func (rs *RestServer) sendResult(writer http.ResponseWriter, request *http.Request, result profile.Result) {
	statusCode := resultStatus(result.Outcome)
	rs.sendResponse(writer, request, &DeviceCallbackResponse{
		BaseResponse: NewBaseResponse(statusCode),
		Result:       result,
		Error:        result.Error(),
	}, statusCode)
}

func resultStatus(outcome profile.Outcome) int {
	switch outcome {
	case profile.Cached, profile.Removed:
		return http.StatusOK
	case profile.Skipped:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func (rs *RestServer) GetObjects(writer http.ResponseWriter, request *http.Request) {
	rs.sendResponse(writer, request, &ObjectsResponse{
		BaseResponse: NewBaseResponse(http.StatusOK),
		Objects:      rs.store.GetObjects(),
	}, http.StatusOK)
}

func (rs *RestServer) GetDeviceObjects(writer http.ResponseWriter, request *http.Request) {
	device := mux.Vars(request)["device"]
	objects, ok := rs.store.GetDeviceObjects(device)
	if !ok {
		rs.sendError(writer, request, http.StatusNotFound, fmt.Sprintf("device %s is not cached", device))
		return
	}
	rs.sendResponse(writer, request, &DeviceObjectsResponse{
		BaseResponse: NewBaseResponse(http.StatusOK),
		Device:       device,
		Objects:      objects,
	}, http.StatusOK)
}

func (rs *RestServer) GetCommands(writer http.ResponseWriter, request *http.Request) {
	rs.sendResponse(writer, request, &CommandsResponse{
		BaseResponse: NewBaseResponse(http.StatusOK),
		Commands:     rs.store.GetCommands(),
	}, http.StatusOK)
}

func (rs *RestServer) GetDeviceCommands(writer http.ResponseWriter, request *http.Request) {
	device := mux.Vars(request)["device"]
	commands, ok := rs.store.GetDeviceCommands(device)
	if !ok {
		rs.sendError(writer, request, http.StatusNotFound, fmt.Sprintf("device %s is not cached", device))
		return
	}
	rs.sendResponse(writer, request, &DeviceCommandsResponse{
		BaseResponse: NewBaseResponse(http.StatusOK),
		Device:       device,
		Commands:     commands,
	}, http.StatusOK)
}

func (rs *RestServer) GetValueDescriptors(writer http.ResponseWriter, request *http.Request) {
	rs.sendResponse(writer, request, &ValueDescriptorsResponse{
		BaseResponse:     NewBaseResponse(http.StatusOK),
		ValueDescriptors: rs.store.GetValueDescriptors(),
	}, http.StatusOK)
}

func (rs *RestServer) GetValueDescriptor(writer http.ResponseWriter, request *http.Request) {
	name := mux.Vars(request)["name"]
	vd, ok := rs.store.GetValueDescriptor(name)
	if !ok {
		rs.sendError(writer, request, http.StatusNotFound, fmt.Sprintf("value descriptor %s not found", name))
		return
	}
	rs.sendResponse(writer, request, &ValueDescriptorResponse{
		BaseResponse:    NewBaseResponse(http.StatusOK),
		ValueDescriptor: vd,
	}, http.StatusOK)
}

// GetProvisionWatchers lists every watcher, or those of the profile query parameter
func (rs *RestServer) GetProvisionWatchers(writer http.ResponseWriter, request *http.Request) {
	if rs.watchers == nil {
		rs.sendError(writer, request, http.StatusServiceUnavailable, "provision watchers are not enabled")
		return
	}
	var watchers []types.ProvisionWatcher
	if profileName := request.URL.Query().Get("profile"); profileName != "" {
		watchers = rs.watchers.GetWatcherByProfileName(profileName)
	} else {
		for _, w := range rs.watchers.GetWatchers() {
			watchers = append(watchers, w)
		}
		sort.Slice(watchers, func(i, j int) bool { return watchers[i].Name < watchers[j].Name })
	}
	if watchers == nil {
		watchers = []types.ProvisionWatcher{}
	}
	rs.sendResponse(writer, request, &ProvisionWatchersResponse{
		BaseResponse:      NewBaseResponse(http.StatusOK),
		ProvisionWatchers: watchers,
	}, http.StatusOK)
}

func (rs *RestServer) GetStats(writer http.ResponseWriter, request *http.Request) {
	rs.sendResponse(writer, request, &StatsResponse{
		BaseResponse: NewBaseResponse(http.StatusOK),
		Stats:        rs.store.Stats(),
	}, http.StatusOK)
}
