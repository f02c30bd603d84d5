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
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"

	"github.com/golang/mock/gomock"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/kubeedge/profilecache/pkg/deviceservice/mocks"
	"github.com/kubeedge/profilecache/pkg/deviceservice/serviceobject"
	"github.com/kubeedge/profilecache/pkg/deviceservice/store/profile"
	"github.com/kubeedge/profilecache/pkg/deviceservice/store/watcher"
	"github.com/kubeedge/profilecache/pkg/deviceservice/types"
)

func thermometer(name string) types.Device {
	return types.Device{
		Name: name,
		Profile: &types.DeviceProfile{
			Name: "thermometer",
			DeviceResources: []types.DeviceObject{{
				Name: "Temp",
				Properties: types.ProfileProperty{
					Value: types.PropertyValue{Type: "Float", ReadWrite: "R"},
				},
			}},
			Commands: []types.Command{{
				Name: "ReadTemp",
				Get: &types.Get{Action: types.Action{
					Responses: []types.Response{{Code: "200", ExpectedValues: []string{"Temp"}}},
				}},
			}},
		},
	}
}

var _ = Describe("RestServer", func() {
	var (
		client   *mocks.MockClient
		store    *profile.Store
		watchers *watcher.Store
		server   *RestServer
	)

	do := func(method, path string, body interface{}) *httptest.ResponseRecorder {
		var reader *bytes.Reader
		if body != nil {
			data, err := json.Marshal(body)
			Expect(err).NotTo(HaveOccurred())
			reader = bytes.NewReader(data)
		} else {
			reader = bytes.NewReader(nil)
		}
		req := httptest.NewRequest(method, path, reader)
		req.Header.Set(CorrelationHeader, "corr-1")
		rec := httptest.NewRecorder()
		server.Router.ServeHTTP(rec, req)
		return rec
	}

	decode := func(rec *httptest.ResponseRecorder, out interface{}) {
		Expect(json.Unmarshal(rec.Body.Bytes(), out)).To(Succeed())
	}

	BeforeEach(func() {
		client = mocks.NewMockClient(gomock.NewController(GinkgoT()))
		store = profile.NewProfileStore(client, serviceobject.NewFactory(), profile.Options{})
		watchers = watcher.NewWatcherStore(client, nil)
		server = NewRestServer(store, WithWatcherStore(watchers))
	})

	It("answers ping and echoes the correlation id", func() {
		rec := do(http.MethodGet, APIBase+"/ping", nil)
		Expect(rec.Code).To(Equal(http.StatusOK))
		Expect(rec.Header().Get(CorrelationHeader)).To(Equal("corr-1"))
		Expect(rec.Header().Get(ContentType)).To(Equal(ContentTypeJSON))

		var resp PingResponse
		decode(rec, &resp)
		Expect(resp.BaseResponse).NotTo(BeNil())
		Expect(resp.APIVersion).To(Equal(APIVersion))
		Expect(resp.StatusCode).To(Equal(http.StatusOK))
	})

	Context("device callbacks", func() {
		It("completes a device update after the client hangs up", func() {
			client.EXPECT().DeviceProfileForName(gomock.Any(), "thermometer").DoAndReturn(
				func(ctx context.Context, name string) (*types.DeviceProfile, error) {
					Expect(ctx.Err()).NotTo(HaveOccurred())
					full := thermometer("D1")
					return full.Profile, nil
				})
			client.EXPECT().ValueDescriptors(gomock.Any()).DoAndReturn(
				func(ctx context.Context) ([]types.ValueDescriptor, error) {
					Expect(ctx.Err()).NotTo(HaveOccurred())
					return []types.ValueDescriptor{{ID: "vd-1", Name: "Temp"}}, nil
				})

			data, err := json.Marshal(types.Device{Name: "D1", Profile: &types.DeviceProfile{Name: "thermometer"}})
			Expect(err).NotTo(HaveOccurred())
			ctx, cancel := context.WithCancel(context.Background())
			cancel()
			req := httptest.NewRequest(http.MethodPut, APIBase+"/callback/device", bytes.NewReader(data)).WithContext(ctx)
			rec := httptest.NewRecorder()
			server.Router.ServeHTTP(rec, req)

			Expect(rec.Code).To(Equal(http.StatusOK))
			var resp DeviceCallbackResponse
			decode(rec, &resp)
			Expect(resp.Result.Outcome).To(Equal(profile.Cached))
			Expect(store.GetObjects()).To(HaveKey("D1"))
		})

		It("caches a posted device and exposes its entries", func() {
			client.EXPECT().ValueDescriptors(gomock.Any()).Return(nil, nil)
			client.EXPECT().Add(gomock.Any(), gomock.Any()).Return("vd-1", nil)

			rec := do(http.MethodPost, APIBase+"/callback/device", thermometer("D1"))
			Expect(rec.Code).To(Equal(http.StatusOK))
			var resp DeviceCallbackResponse
			decode(rec, &resp)
			Expect(resp.Result.Outcome).To(Equal(profile.Cached))
			Expect(resp.Result.Descriptors.Registered).To(ConsistOf("Temp"))

			rec = do(http.MethodGet, APIBase+"/objects/D1", nil)
			Expect(rec.Code).To(Equal(http.StatusOK))
			var objects map[string]interface{}
			decode(rec, &objects)
			Expect(objects["objects"]).To(HaveKey("Temp"))

			rec = do(http.MethodGet, APIBase+"/commands/D1", nil)
			Expect(rec.Code).To(Equal(http.StatusOK))
			var commands DeviceCommandsResponse
			decode(rec, &commands)
			Expect(commands.Commands["temp"]["get"]).To(HaveLen(1))

			rec = do(http.MethodGet, APIBase+"/commands", nil)
			var all CommandsResponse
			decode(rec, &all)
			Expect(all.Commands).To(HaveKey("D1"))

			rec = do(http.MethodGet, APIBase+"/valuedescriptor/Temp", nil)
			Expect(rec.Code).To(Equal(http.StatusOK))
			var vd ValueDescriptorResponse
			decode(rec, &vd)
			Expect(vd.ValueDescriptor.ID).To(Equal("vd-1"))

			rec = do(http.MethodGet, APIBase+"/stats", nil)
			var stats StatsResponse
			decode(rec, &stats)
			Expect(stats.Stats).To(Equal(profile.Stats{Devices: 1, Descriptors: 1}))
		})

		It("rebuilds on PUT and removes on DELETE", func() {
			client.EXPECT().ValueDescriptors(gomock.Any()).Return([]types.ValueDescriptor{{ID: "1", Name: "Temp"}}, nil).Times(2)

			Expect(do(http.MethodPost, APIBase+"/callback/device", thermometer("D1")).Code).To(Equal(http.StatusOK))
			Expect(do(http.MethodPut, APIBase+"/callback/device", thermometer("D1")).Code).To(Equal(http.StatusOK))

			rec := do(http.MethodDelete, APIBase+"/callback/device/D1", nil)
			Expect(rec.Code).To(Equal(http.StatusOK))
			var resp DeviceCallbackResponse
			decode(rec, &resp)
			Expect(resp.Result.Outcome).To(Equal(profile.Removed))

			Expect(do(http.MethodGet, APIBase+"/objects/D1", nil).Code).To(Equal(http.StatusNotFound))
			Expect(do(http.MethodGet, APIBase+"/commands/D1", nil).Code).To(Equal(http.StatusNotFound))
			// deleting again is a no-op
			Expect(do(http.MethodDelete, APIBase+"/callback/device/D1", nil).Code).To(Equal(http.StatusOK))
		})

		It("reports a device whose profile cannot be fetched", func() {
			client.EXPECT().DeviceProfileForName(gomock.Any(), "thermometer").Return(nil, errors.New("down"))

			device := types.Device{Name: "D2", Profile: &types.DeviceProfile{Name: "thermometer"}}
			rec := do(http.MethodPost, APIBase+"/callback/device", device)
			Expect(rec.Code).To(Equal(http.StatusUnprocessableEntity))
			var resp DeviceCallbackResponse
			decode(rec, &resp)
			Expect(resp.Result.Outcome).To(Equal(profile.Skipped))
			Expect(resp.Error).To(ContainSubstring("down"))
		})

		It("rejects malformed bodies", func() {
			req := httptest.NewRequest(http.MethodPost, APIBase+"/callback/device", bytes.NewBufferString("{"))
			rec := httptest.NewRecorder()
			server.Router.ServeHTTP(rec, req)
			Expect(rec.Code).To(Equal(http.StatusBadRequest))

			Expect(do(http.MethodPost, APIBase+"/callback/device", types.Device{}).Code).To(Equal(http.StatusBadRequest))
		})
	})

	It("returns 404 for an unknown value descriptor", func() {
		rec := do(http.MethodGet, APIBase+"/valuedescriptor/Nope", nil)
		Expect(rec.Code).To(Equal(http.StatusNotFound))
		var resp ErrorResponse
		decode(rec, &resp)
		Expect(resp.StatusCode).To(Equal(http.StatusNotFound))
	})

	It("lists value descriptors", func() {
		rec := do(http.MethodGet, APIBase+"/valuedescriptor", nil)
		Expect(rec.Code).To(Equal(http.StatusOK))
		var resp ValueDescriptorsResponse
		decode(rec, &resp)
		Expect(resp.ValueDescriptors).To(BeEmpty())
	})

	Context("provision watchers", func() {
		BeforeEach(func() {
			watchers.Add(&types.ProvisionWatcher{Name: "b", Profile: &types.DeviceProfile{Name: "thermometer"}})
			watchers.Add(&types.ProvisionWatcher{Name: "a", Profile: &types.DeviceProfile{Name: "camera"}})
		})

		It("lists every watcher by name", func() {
			var resp ProvisionWatchersResponse
			decode(do(http.MethodGet, APIBase+"/provisionwatcher", nil), &resp)
			Expect(resp.ProvisionWatchers).To(HaveLen(2))
			Expect(resp.ProvisionWatchers[0].Name).To(Equal("a"))
		})

		It("filters by profile", func() {
			var resp ProvisionWatchersResponse
			decode(do(http.MethodGet, APIBase+"/provisionwatcher?profile=thermometer", nil), &resp)
			Expect(resp.ProvisionWatchers).To(HaveLen(1))
			Expect(resp.ProvisionWatchers[0].Name).To(Equal("b"))

			decode(do(http.MethodGet, APIBase+"/provisionwatcher?profile=none", nil), &resp)
			Expect(resp.ProvisionWatchers).To(BeEmpty())
		})

		It("is unavailable without a watcher store", func() {
			server = NewRestServer(store)
			Expect(do(http.MethodGet, APIBase+"/provisionwatcher", nil).Code).To(Equal(http.StatusServiceUnavailable))
		})
	})

	It("rejects unsupported methods", func() {
		Expect(do(http.MethodPatch, APIBase+"/callback/device", nil).Code).To(Equal(http.StatusMethodNotAllowed))
	})
})
