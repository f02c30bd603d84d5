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

// Package httpserver exposes the device callbacks and the cache contents over REST.
package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"k8s.io/klog/v2"

	"github.com/kubeedge/profilecache/pkg/deviceservice/store/profile"
	"github.com/kubeedge/profilecache/pkg/deviceservice/store/watcher"
)

type RestServer struct {
	IP           string
	Port         string
	WriteTimeout time.Duration
	ReadTimeout  time.Duration
	server       *http.Server
	Router       *mux.Router
	store        profile.ProfileStore
	watchers     watcher.WatcherStore
	// ctx is handed to the store instead of the request context: a client
	// hanging up must not cut a cache update short.
	ctx context.Context
}

type Option func(server *RestServer)

// NewRestServer returns a server over store. The router is ready to serve.
func NewRestServer(store profile.ProfileStore, options ...Option) *RestServer {
	rest := &RestServer{
		IP:           "0.0.0.0",
		Port:         "49990",
		Router:       mux.NewRouter(),
		WriteTimeout: 10 * time.Second,
		ReadTimeout:  10 * time.Second,
		store:        store,
		ctx:          context.Background(),
	}
	for _, option := range options {
		option(rest)
	}
	rest.InitRouter()
	return rest
}

// InitRouter registers every route
func (rs *RestServer) InitRouter() {
	rs.Router.HandleFunc(APIBase+"/ping", rs.Ping).Methods(http.MethodGet)

	rs.Router.HandleFunc(APIBase+"/callback/device", rs.DeviceCallback).Methods(http.MethodPost, http.MethodPut)
	rs.Router.HandleFunc(APIBase+"/callback/device/{name}", rs.DeviceDelete).Methods(http.MethodDelete)

	rs.Router.HandleFunc(APIBase+"/objects", rs.GetObjects).Methods(http.MethodGet)
	rs.Router.HandleFunc(APIBase+"/objects/{device}", rs.GetDeviceObjects).Methods(http.MethodGet)
	rs.Router.HandleFunc(APIBase+"/commands", rs.GetCommands).Methods(http.MethodGet)
	rs.Router.HandleFunc(APIBase+"/commands/{device}", rs.GetDeviceCommands).Methods(http.MethodGet)

	rs.Router.HandleFunc(APIBase+"/valuedescriptor", rs.GetValueDescriptors).Methods(http.MethodGet)
	rs.Router.HandleFunc(APIBase+"/valuedescriptor/{name}", rs.GetValueDescriptor).Methods(http.MethodGet)

	rs.Router.HandleFunc(APIBase+"/provisionwatcher", rs.GetProvisionWatchers).Methods(http.MethodGet)
	rs.Router.HandleFunc(APIBase+"/stats", rs.GetStats).Methods(http.MethodGet)
}

// StartServer serves until ctx is done
func (rs *RestServer) StartServer(ctx context.Context) error {
	rs.ctx = ctx
	rs.server = &http.Server{
		Addr:         net.JoinHostPort(rs.IP, rs.Port),
		WriteTimeout: rs.WriteTimeout,
		ReadTimeout:  rs.ReadTimeout,
		Handler:      rs.Router,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := rs.server.Shutdown(shutdownCtx); err != nil {
			klog.Errorf("rest server shutdown failed: %v", err)
		}
	}()

	klog.Infof("starting rest server on %s", rs.server.Addr)
	if err := rs.server.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		klog.Errorf("http server error: %v", err)
		return err
	}
	return nil
}

// sendResponse build response and put response's payload to writer
func (rs *RestServer) sendResponse(
	writer http.ResponseWriter,
	request *http.Request,
	response interface{},
	statusCode int) {
	correlationID := request.Header.Get(CorrelationHeader)
	if correlationID != "" {
		writer.Header().Set(CorrelationHeader, correlationID)
	}
	data, err := json.Marshal(response)
	if err != nil {
		klog.Errorf("marshal %s response error: %v", request.URL.Path, err)
		http.Error(writer, err.Error(), http.StatusInternalServerError)
		return
	}
	writer.Header().Set(ContentType, ContentTypeJSON)
	writer.WriteHeader(statusCode)
	if _, err = writer.Write(data); err != nil {
		klog.Errorf("write %s response error: %v", request.URL.Path, err)
	}
}

func (rs *RestServer) sendError(writer http.ResponseWriter, request *http.Request, statusCode int, message string) {
	rs.sendResponse(writer, request, &ErrorResponse{
		BaseResponse: NewBaseResponse(statusCode),
		Message:      message,
	}, statusCode)
}

func WithIP(ip string) Option {
	return func(server *RestServer) {
		server.IP = ip
	}
}

func WithPort(port int32) Option {
	return func(server *RestServer) {
		server.Port = strconv.Itoa(int(port))
	}
}

func WithWriteTimeout(timeout time.Duration) Option {
	return func(server *RestServer) {
		server.WriteTimeout = timeout
	}
}

func WithReadTimeout(timeout time.Duration) Option {
	return func(server *RestServer) {
		server.ReadTimeout = timeout
	}
}

func WithWatcherStore(watchers watcher.WatcherStore) Option {
	return func(server *RestServer) {
		server.watchers = watchers
	}
}
