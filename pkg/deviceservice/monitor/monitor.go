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

package monitor

import (
	"context"
	"errors"
	"net/http"
	"net/http/pprof"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"k8s.io/klog/v2"

	config "github.com/kubeedge/profilecache/pkg/apis/componentconfig/profilecache/v1alpha1"
	"github.com/kubeedge/profilecache/pkg/deviceservice/store/profile"
)

const (
	metricNamespace = "KubeEdge"

	// ProfileCacheSubsystem - subsystem name used by the profile cache
	ProfileCacheSubsystem = "ProfileCache"
)

var (
	DeviceOperations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: metricNamespace,
			Subsystem: ProfileCacheSubsystem,
			Name:      "device_operations_total",
			Help:      "Number of device add, update and remove results by outcome",
		},
		[]string{"outcome"},
	)

	DescriptorResolutions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: metricNamespace,
			Subsystem: ProfileCacheSubsystem,
			Name:      "descriptor_resolutions_total",
			Help:      "Number of resolved operation parameters by how they were described",
		},
		[]string{"result"},
	)

	DescriptorListDegraded = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: metricNamespace,
			Subsystem: ProfileCacheSubsystem,
			Name:      "descriptor_list_degraded_total",
			Help:      "Number of resolutions that ran against an empty list because listing descriptors failed",
		},
	)
)

var registerOnce sync.Once

// registerMetrics register all metrics.
func registerMetrics(stats StatsSource) {
	registerOnce.Do(func() {
		prometheus.MustRegister(
			DeviceOperations,
			DescriptorResolutions,
			DescriptorListDegraded,
		)
		if stats != nil {
			prometheus.MustRegister(NewStatsCollector(stats))
		}
	})
}

// StatsSource reports the current cache sizes
type StatsSource interface {
	Stats() profile.Stats
}

// StatsCollector exports the cache sizes as gauges at scrape time
type StatsCollector struct {
	source      StatsSource
	devices     *prometheus.Desc
	descriptors *prometheus.Desc
}

// NewStatsCollector returns a collector reading source on every scrape
func NewStatsCollector(source StatsSource) *StatsCollector {
	return &StatsCollector{
		source: source,
		devices: prometheus.NewDesc(
			prometheus.BuildFQName(metricNamespace, ProfileCacheSubsystem, "cached_devices"),
			"Number of devices with cached objects and commands", nil, nil),
		descriptors: prometheus.NewDesc(
			prometheus.BuildFQName(metricNamespace, ProfileCacheSubsystem, "value_descriptors"),
			"Number of value descriptors in the registry", nil, nil),
	}
}

// Describe implements prometheus.Collector
func (c *StatsCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.devices
	ch <- c.descriptors
}

// Collect implements prometheus.Collector
func (c *StatsCollector) Collect(ch chan<- prometheus.Metric) {
	stats := c.source.Stats()
	ch <- prometheus.MustNewConstMetric(c.devices, prometheus.GaugeValue, float64(stats.Devices))
	ch <- prometheus.MustNewConstMetric(c.descriptors, prometheus.GaugeValue, float64(stats.Descriptors))
}

// Recorder is a profile.Listener counting results
type Recorder struct{}

var _ profile.Listener = Recorder{}

// OnResult implements profile.Listener
func (Recorder) OnResult(result profile.Result) {
	DeviceOperations.WithLabelValues(string(result.Outcome)).Inc()

	report := result.Descriptors
	for label, names := range map[string][]string{
		"found":               report.Found,
		"reused":              report.Reused,
		"registered":          report.Registered,
		"registration_failed": report.RegistrationFailed,
		"skipped_unused":      report.SkippedUnused,
		"missing_object":      report.MissingObject,
	} {
		if len(names) > 0 {
			DescriptorResolutions.WithLabelValues(label).Add(float64(len(names)))
		}
	}
	if report.DescriptorListDegraded {
		DescriptorListDegraded.Inc()
	}
}

// InstallHandlerForPProf installs the pprof handlers on mux
func InstallHandlerForPProf(mux *http.ServeMux) {
	mux.HandleFunc("/debug/pprof/", pprof.Index)
	mux.HandleFunc("/debug/pprof/cmdline", pprof.Cmdline)
	mux.HandleFunc("/debug/pprof/profile", pprof.Profile)
	mux.HandleFunc("/debug/pprof/symbol", pprof.Symbol)
	mux.HandleFunc("/debug/pprof/trace", pprof.Trace)
}

// ServeMonitor serves the metrics until ctx is done.
func ServeMonitor(ctx context.Context, config config.Monitor, stats StatsSource) error {
	registerMetrics(stats)

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	if config.EnableProfiling {
		InstallHandlerForPProf(mux)
	}

	s := http.Server{
		Addr:              config.BindAddress,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := s.Shutdown(ctx); err != nil {
			klog.Errorf("Server shutdown failed: %v", err)
		}
	}()

	klog.Infof("starting monitor server on addr: %s", config.BindAddress)
	if err := s.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
