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

package metadata

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/avast/retry-go"
	"github.com/google/uuid"
	"golang.org/x/time/rate"
	"k8s.io/klog/v2"

	"github.com/kubeedge/profilecache/pkg/deviceservice/types"
)

const (
	// CorrelationHeader carries the request id across services
	CorrelationHeader = "X-Correlation-ID"

	apiPrefix              = "/api/v1"
	deviceProfileByName    = apiPrefix + "/deviceprofile/name/"
	valueDescriptorPath    = apiPrefix + "/valuedescriptor"
	provisionWatcherPath   = apiPrefix + "/provisionwatcher"
	provisionWatcherByServ = provisionWatcherPath + "/service/"
)

// Options configures a RESTClient
type Options struct {
	// MetadataEndpoint serves profiles and provision watchers
	MetadataEndpoint string
	// DataEndpoint serves value descriptors
	DataEndpoint  string
	Timeout       time.Duration
	RetryAttempts uint
	RetryDelay    time.Duration
	QPS           float32
	Burst         int
}

// RESTClient talks to the metadata and data services over HTTP.
type RESTClient struct {
	metadataEndpoint string
	dataEndpoint     string
	httpClient       *http.Client
	limiter          *rate.Limiter
	attempts         uint
	delay            time.Duration
}

var _ Client = &RESTClient{}

// NewRESTClient creates a RESTClient from opts
func NewRESTClient(opts Options) *RESTClient {
	attempts := opts.RetryAttempts
	if attempts == 0 {
		attempts = 1
	}
	limiter := rate.NewLimiter(rate.Inf, 0)
	if opts.QPS > 0 {
		limiter = rate.NewLimiter(rate.Limit(opts.QPS), opts.Burst)
	}
	return &RESTClient{
		metadataEndpoint: strings.TrimSuffix(opts.MetadataEndpoint, "/"),
		dataEndpoint:     strings.TrimSuffix(opts.DataEndpoint, "/"),
		httpClient:       &http.Client{Timeout: opts.Timeout},
		limiter:          limiter,
		attempts:         attempts,
		delay:            opts.RetryDelay,
	}
}

// DeviceProfileForName fetches the full profile called name
func (c *RESTClient) DeviceProfileForName(ctx context.Context, name string) (*types.DeviceProfile, error) {
	profile := &types.DeviceProfile{}
	if err := c.get(ctx, c.metadataEndpoint+deviceProfileByName+url.PathEscape(name), profile); err != nil {
		return nil, err
	}
	return profile, nil
}

// ValueDescriptors lists all known value descriptors
func (c *RESTClient) ValueDescriptors(ctx context.Context) ([]types.ValueDescriptor, error) {
	var descriptors []types.ValueDescriptor
	if err := c.get(ctx, c.dataEndpoint+valueDescriptorPath, &descriptors); err != nil {
		return nil, err
	}
	return descriptors, nil
}

// Add registers vd and returns the new id
func (c *RESTClient) Add(ctx context.Context, vd *types.ValueDescriptor) (string, error) {
	return c.post(ctx, c.dataEndpoint+valueDescriptorPath, vd)
}

// ProvisionWatcher fetches a provision watcher by id
func (c *RESTClient) ProvisionWatcher(ctx context.Context, id string) (*types.ProvisionWatcher, error) {
	watcher := &types.ProvisionWatcher{}
	if err := c.get(ctx, c.metadataEndpoint+provisionWatcherPath+"/"+url.PathEscape(id), watcher); err != nil {
		return nil, err
	}
	return watcher, nil
}

// ProvisionWatchersForService lists the watchers owned by the device service serviceID
func (c *RESTClient) ProvisionWatchersForService(ctx context.Context, serviceID string) ([]types.ProvisionWatcher, error) {
	var watchers []types.ProvisionWatcher
	if err := c.get(ctx, c.metadataEndpoint+provisionWatcherByServ+url.PathEscape(serviceID), &watchers); err != nil {
		return nil, err
	}
	return watchers, nil
}

// AddProvisionWatcher creates w and returns its id
func (c *RESTClient) AddProvisionWatcher(ctx context.Context, w *types.ProvisionWatcher) (string, error) {
	return c.post(ctx, c.metadataEndpoint+provisionWatcherPath, w)
}

func (c *RESTClient) get(ctx context.Context, target string, into interface{}) error {
	body, err := c.do(ctx, http.MethodGet, target, nil)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, into); err != nil {
		return fmt.Errorf("failed to decode response of %s: %w", target, err)
	}
	return nil
}

func (c *RESTClient) post(ctx context.Context, target string, payload interface{}) (string, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}
	body, err := c.do(ctx, http.MethodPost, target, data)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(body)), nil
}

// do runs one request with retries. All attempts share the correlation id.
func (c *RESTClient) do(ctx context.Context, method, target string, payload []byte) ([]byte, error) {
	correlationID := uuid.New().String()
	var body []byte
	err := retry.Do(
		func() error {
			var err error
			body, err = c.once(ctx, method, target, payload, correlationID)
			return err
		},
		retry.Context(ctx),
		retry.Attempts(c.attempts),
		retry.Delay(c.delay),
		retry.DelayType(retry.FixedDelay),
		retry.RetryIf(retryable),
		retry.LastErrorOnly(true),
		retry.OnRetry(func(n uint, err error) {
			klog.V(3).Infof("retry %d of %s %s (%s): %v", n+1, method, target, correlationID, err)
		}),
	)
	return body, err
}

func (c *RESTClient) once(ctx context.Context, method, target string, payload []byte, correlationID string) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	var reader io.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return nil, err
	}
	req.Header.Set(CorrelationHeader, correlationID)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	klog.V(4).Infof("%s %s (%s)", method, target, correlationID)
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, ErrNotFound
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return nil, &StatusError{Method: method, URL: target, StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(body))}
	}
	return body, nil
}
