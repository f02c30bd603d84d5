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

package validation

import (
	"fmt"
	"net"
	"net/url"

	"k8s.io/apimachinery/pkg/util/sets"
	utilvalidation "k8s.io/apimachinery/pkg/util/validation"
	"k8s.io/apimachinery/pkg/util/validation/field"

	"github.com/kubeedge/profilecache/pkg/apis/componentconfig/profilecache/v1alpha1"
)

var validRetentions = sets.NewString("Retain", "Reconcile")

// ValidateProfileCacheConfiguration validates `c` and returns an errorList if it is invalid
func ValidateProfileCacheConfiguration(c *v1alpha1.ProfileCacheConfig) field.ErrorList {
	allErrs := field.ErrorList{}
	if c.Service == nil || c.Metadata == nil {
		return append(allErrs, field.Required(field.NewPath("service"), "service and metadata sections are required"))
	}
	allErrs = append(allErrs, ValidateService(*c.Service)...)
	allErrs = append(allErrs, ValidateMetadata(*c.Metadata)...)
	if c.Cache != nil {
		allErrs = append(allErrs, ValidateCache(*c.Cache)...)
	}
	if c.Watchers != nil {
		allErrs = append(allErrs, ValidateWatchers(*c.Watchers, c.DataBase)...)
	}
	if c.Notifier != nil {
		allErrs = append(allErrs, ValidateNotifier(*c.Notifier)...)
	}
	if c.Server != nil {
		allErrs = append(allErrs, ValidateServer(*c.Server)...)
	}
	if c.Monitor != nil {
		allErrs = append(allErrs, ValidateMonitor(*c.Monitor)...)
	}
	return allErrs
}

// ValidateService validates `s` and returns an errorList if it is invalid
func ValidateService(s v1alpha1.Service) field.ErrorList {
	allErrs := field.ErrorList{}
	if s.Name == "" {
		allErrs = append(allErrs, field.Required(field.NewPath("service", "name"), "service name must be set"))
	}
	return allErrs
}

// ValidateMetadata validates `m` and returns an errorList if it is invalid
func ValidateMetadata(m v1alpha1.Metadata) field.ErrorList {
	allErrs := field.ErrorList{}
	allErrs = append(allErrs, validateURL(field.NewPath("metadata", "endpoint"), m.Endpoint)...)
	allErrs = append(allErrs, validateURL(field.NewPath("metadata", "dataEndpoint"), m.DataEndpoint)...)
	if m.RetryAttempts == 0 {
		allErrs = append(allErrs, field.Invalid(field.NewPath("metadata", "retryAttempts"), m.RetryAttempts, "retryAttempts need > 0"))
	}
	if m.QPS < 0 {
		allErrs = append(allErrs, field.Invalid(field.NewPath("metadata", "qps"), m.QPS, "qps must not be negative"))
	}
	if m.QPS > 0 && m.Burst <= 0 {
		allErrs = append(allErrs, field.Invalid(field.NewPath("metadata", "burst"), m.Burst, "burst need > 0 when qps is set"))
	}
	if m.Timeout.Duration < 0 || m.RetryDelay.Duration < 0 {
		allErrs = append(allErrs, field.Invalid(field.NewPath("metadata", "timeout"), m.Timeout.Duration.String(), "durations must not be negative"))
	}
	return allErrs
}

// ValidateCache validates `c` and returns an errorList if it is invalid
func ValidateCache(c v1alpha1.Cache) field.ErrorList {
	allErrs := field.ErrorList{}
	if !validRetentions.Has(c.DescriptorRetention) {
		allErrs = append(allErrs, field.NotSupported(field.NewPath("cache", "descriptorRetention"), c.DescriptorRetention, validRetentions.List()))
	}
	if c.ReconcilePeriod.Duration < 0 {
		allErrs = append(allErrs, field.Invalid(field.NewPath("cache", "reconcilePeriod"), c.ReconcilePeriod.Duration.String(), "reconcilePeriod must not be negative"))
	}
	return allErrs
}

// ValidateWatchers validates `w` and returns an errorList if it is invalid
func ValidateWatchers(w v1alpha1.Watchers, db *v1alpha1.DataBase) field.ErrorList {
	if !w.Enable {
		return field.ErrorList{}
	}
	allErrs := field.ErrorList{}
	if w.Persist && (db == nil || db.DataSource == "") {
		allErrs = append(allErrs, field.Required(field.NewPath("database", "dataSource"), "a database is required to persist watchers"))
	}
	// the orm refuses to start without an alias called default
	if w.Persist && db != nil && db.AliasName != "" && db.AliasName != "default" {
		allErrs = append(allErrs, field.Invalid(field.NewPath("database", "aliasName"), db.AliasName, "aliasName must be default"))
	}
	names := sets.NewString()
	for i, d := range w.Definitions {
		p := field.NewPath("watchers", "definitions").Index(i)
		if d.Name == "" {
			allErrs = append(allErrs, field.Required(p.Child("name"), "watcher name must be set"))
		} else if names.Has(d.Name) {
			allErrs = append(allErrs, field.Duplicate(p.Child("name"), d.Name))
		}
		names.Insert(d.Name)
		if d.Profile == "" {
			allErrs = append(allErrs, field.Required(p.Child("profile"), "watcher profile must be set"))
		}
	}
	return allErrs
}

// ValidateNotifier validates `n` and returns an errorList if it is invalid
func ValidateNotifier(n v1alpha1.Notifier) field.ErrorList {
	if !n.Enable {
		return field.ErrorList{}
	}
	allErrs := field.ErrorList{}
	allErrs = append(allErrs, validateURL(field.NewPath("notifier", "broker"), n.Broker)...)
	if n.QOS > 2 {
		allErrs = append(allErrs, field.Invalid(field.NewPath("notifier", "qos"), n.QOS, "qos must be 0, 1 or 2"))
	}
	if n.TopicPrefix == "" {
		allErrs = append(allErrs, field.Required(field.NewPath("notifier", "topicPrefix"), "topicPrefix must be set"))
	}
	return allErrs
}

// ValidateServer validates `s` and returns an errorList if it is invalid
func ValidateServer(s v1alpha1.Server) field.ErrorList {
	allErrs := field.ErrorList{}
	for _, m := range utilvalidation.IsValidPortNum(int(s.Port)) {
		allErrs = append(allErrs, field.Invalid(field.NewPath("server", "port"), s.Port, m))
	}
	for _, m := range utilvalidation.IsValidIP(s.Address) {
		allErrs = append(allErrs, field.Invalid(field.NewPath("server", "address"), s.Address, m))
	}
	return allErrs
}

// ValidateMonitor validates `m` and returns an errorList if it is invalid
func ValidateMonitor(m v1alpha1.Monitor) field.ErrorList {
	if !m.Enable {
		return field.ErrorList{}
	}
	allErrs := field.ErrorList{}
	if _, _, err := net.SplitHostPort(m.BindAddress); err != nil {
		allErrs = append(allErrs, field.Invalid(field.NewPath("monitor", "bindAddress"), m.BindAddress, err.Error()))
	}
	return allErrs
}

func validateURL(p *field.Path, raw string) field.ErrorList {
	u, err := url.Parse(raw)
	if err != nil {
		return field.ErrorList{field.Invalid(p, raw, err.Error())}
	}
	if u.Scheme == "" || u.Host == "" {
		return field.ErrorList{field.Invalid(p, raw, fmt.Sprintf("%s must be an absolute url", p.String()))}
	}
	return nil
}
