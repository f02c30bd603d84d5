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

package constants

import "time"

// Config
const (
	DefaultConfigDir              = "/etc/kubeedge/config/"
	DefaultProfileCacheConfigFile = DefaultConfigDir + "profilecache.yaml"

	DefaultServiceName = "device-profilecache"
)

// Metadata service
const (
	DefaultMetadataEndpoint      = "http://127.0.0.1:48081"
	DefaultDataEndpoint          = "http://127.0.0.1:48080"
	DefaultMetadataTimeout       = 10 * time.Second
	DefaultMetadataRetryAttempts = 3
	DefaultMetadataRetryDelay    = 500 * time.Millisecond
	DefaultMetadataQPS           = 50.0
	DefaultMetadataBurst         = 100
)

// Cache
const (
	DefaultDescriptorRetention = "Retain"
	DefaultReconcilePeriod     = 10 * time.Minute
)

// DataBase
const (
	DefaultDriverName = "sqlite3"
	DefaultDBName     = "default"
	DefaultDataSource = "/var/lib/kubeedge/profilecache.db"
)

// Notifier
const (
	DefaultMQTTBroker      = "tcp://127.0.0.1:1883"
	DefaultMQTTQOS         = 0
	DefaultMQTTTopicPrefix = "$ke/deviceservice/profilecache"
)

// Server
const (
	DefaultServerAddress      = "0.0.0.0"
	DefaultServerPort         = 49990
	DefaultServerReadTimeout  = 30 * time.Second
	DefaultServerWriteTimeout = 30 * time.Second

	DefaultMonitorBindAddress = "127.0.0.1:9091"
)
