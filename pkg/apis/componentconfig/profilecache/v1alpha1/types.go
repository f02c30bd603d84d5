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
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
)

const (
	GroupName  = "profilecache.config.kubeedge.io"
	APIVersion = "v1alpha1"
	Kind       = "ProfileCache"
)

// ProfileCacheConfig indicates the config of the profile cache which get from the config file
type ProfileCacheConfig struct {
	metav1.TypeMeta
	// Service indicates the identity of the owning device service
	// +Required
	Service *Service `json:"service,omitempty"`
	// Metadata indicates how the metadata service is reached
	// +Required
	Metadata *Metadata `json:"metadata,omitempty"`
	// Cache indicates the profile cache behaviour
	Cache *Cache `json:"cache,omitempty"`
	// Watchers indicates the provision watcher store config
	Watchers *Watchers `json:"watchers,omitempty"`
	// DataBase indicates database info
	DataBase *DataBase `json:"database,omitempty"`
	// Notifier indicates the MQTT cache change notifier config
	Notifier *Notifier `json:"notifier,omitempty"`
	// Server indicates the callback and introspection REST server config
	Server *Server `json:"server,omitempty"`
	// Monitor indicates the metrics endpoint config
	Monitor *Monitor `json:"monitor,omitempty"`
}

// Service indicates the device service identity
type Service struct {
	// Name of the device service
	// default "device-profilecache"
	Name string `json:"name,omitempty"`
	// ID of the device service as registered with the metadata service
	ID string `json:"id,omitempty"`
}

// Metadata indicates the configuration for interacting with the metadata service
type Metadata struct {
	// Endpoint is the base url of core-metadata
	// default "http://127.0.0.1:48081"
	Endpoint string `json:"endpoint,omitempty"`
	// DataEndpoint is the base url of core-data, which owns value descriptors
	// default "http://127.0.0.1:48080"
	DataEndpoint string `json:"dataEndpoint,omitempty"`
	// Timeout of a single request
	// default 10s
	Timeout metav1.Duration `json:"timeout,omitempty"`
	// RetryAttempts is the number of attempts of a request, the first one included
	// default 3
	RetryAttempts uint `json:"retryAttempts,omitempty"`
	// RetryDelay between attempts
	// default 500ms
	RetryDelay metav1.Duration `json:"retryDelay,omitempty"`
	// QPS to use while talking with the metadata service, 0 means no limit
	// default 50
	QPS float32 `json:"qps,omitempty"`
	// Burst to use while talking with the metadata service
	// default 100
	Burst int `json:"burst,omitempty"`
}

// Cache indicates the profile cache config
type Cache struct {
	// DescriptorRetention is Retain or Reconcile
	// default "Retain"
	DescriptorRetention string `json:"descriptorRetention,omitempty"`
	// CreateUnusedDescriptors creates descriptors for parameters no command references
	// default false
	CreateUnusedDescriptors bool `json:"createUnusedDescriptors"`
	// ReconcilePeriod of the unreferenced descriptor sweep, only used with Reconcile
	// default 10m
	ReconcilePeriod metav1.Duration `json:"reconcilePeriod,omitempty"`
}

// Watchers indicates the provision watcher store config
type Watchers struct {
	// Enable indicates whether watchers are loaded at startup
	// default true
	Enable bool `json:"enable"`
	// Persist indicates whether watchers are kept in the local database
	// default false
	Persist bool `json:"persist"`
	// Definitions are the watchers created when the metadata service has none for this service
	Definitions []WatcherDefinition `json:"definitions,omitempty"`
}

// WatcherDefinition indicates one configured provision watcher
type WatcherDefinition struct {
	Name        string            `json:"name"`
	Profile     string            `json:"profile"`
	Identifiers map[string]string `json:"identifiers,omitempty"`
}

// DataBase indicates the database info
type DataBase struct {
	// DriverName indicates database driver name
	// default "sqlite3"
	DriverName string `json:"driverName,omitempty"`
	// AliasName indicates alias name
	// default "default"
	AliasName string `json:"aliasName,omitempty"`
	// DataSource indicates the data source path
	// default "/var/lib/kubeedge/profilecache.db"
	DataSource string `json:"dataSource,omitempty"`
}

// Notifier indicates the MQTT notifier config
type Notifier struct {
	// Enable indicates whether cache changes are published
	// default false
	Enable bool `json:"enable"`
	// Broker indicates the MQTT broker url
	// default "tcp://127.0.0.1:1883"
	Broker   string `json:"broker,omitempty"`
	Username string `json:"username,omitempty"`
	Password string `json:"password,omitempty"`
	// QOS of published messages, 0, 1 or 2
	// default 0
	QOS byte `json:"qos"`
	// TopicPrefix is prepended to every topic
	// default "$ke/deviceservice/profilecache"
	TopicPrefix string `json:"topicPrefix,omitempty"`
}

// Server indicates the REST server config
type Server struct {
	// Address indicates the listen address
	// default "0.0.0.0"
	Address string `json:"address,omitempty"`
	// Port indicates the listen port
	// default 49990
	Port int32 `json:"port,omitempty"`
	// default 30s
	ReadTimeout metav1.Duration `json:"readTimeout,omitempty"`
	// default 30s
	WriteTimeout metav1.Duration `json:"writeTimeout,omitempty"`
}

// Monitor indicates the metrics server config
type Monitor struct {
	// Enable indicates whether metrics are served
	// default false
	Enable bool `json:"enable"`
	// BindAddress indicates the metrics listen address
	// default "127.0.0.1:9091"
	BindAddress string `json:"bindAddress,omitempty"`
	// EnableProfiling installs the pprof handlers next to the metrics
	// default false
	EnableProfiling bool `json:"enableProfiling"`
}
