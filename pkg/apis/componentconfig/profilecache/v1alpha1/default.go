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
	"path"

	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"

	"github.com/kubeedge/profilecache/common/constants"
)

// NewDefaultProfileCacheConfig returns a full ProfileCacheConfig object
func NewDefaultProfileCacheConfig() *ProfileCacheConfig {
	return &ProfileCacheConfig{
		TypeMeta: metav1.TypeMeta{
			Kind:       Kind,
			APIVersion: path.Join(GroupName, APIVersion),
		},
		Service: &Service{
			Name: constants.DefaultServiceName,
		},
		Metadata: &Metadata{
			Endpoint:      constants.DefaultMetadataEndpoint,
			DataEndpoint:  constants.DefaultDataEndpoint,
			Timeout:       metav1.Duration{Duration: constants.DefaultMetadataTimeout},
			RetryAttempts: constants.DefaultMetadataRetryAttempts,
			RetryDelay:    metav1.Duration{Duration: constants.DefaultMetadataRetryDelay},
			QPS:           constants.DefaultMetadataQPS,
			Burst:         constants.DefaultMetadataBurst,
		},
		Cache: &Cache{
			DescriptorRetention:     constants.DefaultDescriptorRetention,
			CreateUnusedDescriptors: false,
			ReconcilePeriod:         metav1.Duration{Duration: constants.DefaultReconcilePeriod},
		},
		Watchers: &Watchers{
			Enable:  true,
			Persist: false,
		},
		DataBase: &DataBase{
			DriverName: constants.DefaultDriverName,
			AliasName:  constants.DefaultDBName,
			DataSource: constants.DefaultDataSource,
		},
		Notifier: &Notifier{
			Enable:      false,
			Broker:      constants.DefaultMQTTBroker,
			QOS:         constants.DefaultMQTTQOS,
			TopicPrefix: constants.DefaultMQTTTopicPrefix,
		},
		Server: &Server{
			Address:      constants.DefaultServerAddress,
			Port:         constants.DefaultServerPort,
			ReadTimeout:  metav1.Duration{Duration: constants.DefaultServerReadTimeout},
			WriteTimeout: metav1.Duration{Duration: constants.DefaultServerWriteTimeout},
		},
		Monitor: &Monitor{
			Enable:      false,
			BindAddress: constants.DefaultMonitorBindAddress,
		},
	}
}

// NewMinProfileCacheConfig returns a min ProfileCacheConfig object
func NewMinProfileCacheConfig() *ProfileCacheConfig {
	return &ProfileCacheConfig{
		TypeMeta: metav1.TypeMeta{
			Kind:       Kind,
			APIVersion: path.Join(GroupName, APIVersion),
		},
		Service: &Service{
			Name: constants.DefaultServiceName,
		},
		Metadata: &Metadata{
			Endpoint:      constants.DefaultMetadataEndpoint,
			DataEndpoint:  constants.DefaultDataEndpoint,
			RetryAttempts: constants.DefaultMetadataRetryAttempts,
		},
		Server: &Server{
			Address: constants.DefaultServerAddress,
			Port:    constants.DefaultServerPort,
		},
	}
}
