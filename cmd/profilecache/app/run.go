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

package app

import (
	"context"

	"golang.org/x/sync/errgroup"
	"k8s.io/klog/v2"

	"github.com/kubeedge/profilecache/common/constants"
	"github.com/kubeedge/profilecache/pkg/apis/componentconfig/profilecache/v1alpha1"
	"github.com/kubeedge/profilecache/pkg/deviceservice/dbm"
	"github.com/kubeedge/profilecache/pkg/deviceservice/httpserver"
	"github.com/kubeedge/profilecache/pkg/deviceservice/metadata"
	"github.com/kubeedge/profilecache/pkg/deviceservice/monitor"
	"github.com/kubeedge/profilecache/pkg/deviceservice/notify"
	"github.com/kubeedge/profilecache/pkg/deviceservice/serviceobject"
	"github.com/kubeedge/profilecache/pkg/deviceservice/store/profile"
	"github.com/kubeedge/profilecache/pkg/deviceservice/store/watcher"
)

// Run starts every component of the profile cache and blocks until ctx is
// done or one of them fails.
func Run(ctx context.Context, config *v1alpha1.ProfileCacheConfig) error {
	g, ctx := errgroup.WithContext(ctx)

	client := metadata.NewRESTClient(metadataOptions(config.Metadata))

	listeners := []profile.Listener{monitor.Recorder{}}
	if n := config.Notifier; n != nil && n.Enable {
		mc := notify.NewMqttClient(n)
		if err := mc.Connect(); err != nil {
			return err
		}
		defer mc.Disconnect()

		notifier := notify.NewNotifier(mc, n.TopicPrefix)
		listeners = append(listeners, notifier)
		g.Go(func() error {
			notifier.Run(ctx)
			return nil
		})
	}

	storeOpts := profileStoreOptions(config.Cache)
	storeOpts.Listeners = listeners
	storeOpts.Context = ctx
	store := profile.NewProfileStore(client, serviceobject.NewFactory(), storeOpts)

	serverOpts := restServerOptions(config.Server)
	if w := config.Watchers; w != nil && w.Enable {
		watchers, err := newWatcherStore(ctx, config, client)
		if err != nil {
			return err
		}
		serverOpts = append(serverOpts, httpserver.WithWatcherStore(watchers))
	}

	if c := config.Cache; c != nil {
		g.Go(func() error {
			store.RunReconcile(ctx, c.ReconcilePeriod.Duration)
			return nil
		})
	}

	if m := config.Monitor; m != nil && m.Enable {
		g.Go(func() error {
			return monitor.ServeMonitor(ctx, *m, store)
		})
	}

	server := httpserver.NewRestServer(store, serverOpts...)
	g.Go(func() error {
		return server.StartServer(ctx)
	})

	klog.Infof("profilecache of service %s started", config.Service.Name)
	return g.Wait()
}

func metadataOptions(m *v1alpha1.Metadata) metadata.Options {
	return metadata.Options{
		MetadataEndpoint: m.Endpoint,
		DataEndpoint:     m.DataEndpoint,
		Timeout:          m.Timeout.Duration,
		RetryAttempts:    m.RetryAttempts,
		RetryDelay:       m.RetryDelay.Duration,
		QPS:              m.QPS,
		Burst:            m.Burst,
	}
}

func profileStoreOptions(c *v1alpha1.Cache) profile.Options {
	if c == nil {
		return profile.Options{}
	}
	return profile.Options{
		DescriptorRetention:     profile.DescriptorRetention(c.DescriptorRetention),
		CreateUnusedDescriptors: c.CreateUnusedDescriptors,
	}
}

func restServerOptions(s *v1alpha1.Server) []httpserver.Option {
	if s == nil {
		return []httpserver.Option{
			httpserver.WithIP(constants.DefaultServerAddress),
			httpserver.WithPort(constants.DefaultServerPort),
		}
	}
	return []httpserver.Option{
		httpserver.WithIP(s.Address),
		httpserver.WithPort(s.Port),
		httpserver.WithReadTimeout(s.ReadTimeout.Duration),
		httpserver.WithWriteTimeout(s.WriteTimeout.Duration),
	}
}

// newWatcherStore loads the provision watchers of the service. A metadata
// service that cannot be reached leaves the persisted watchers in place.
func newWatcherStore(ctx context.Context, config *v1alpha1.ProfileCacheConfig, client metadata.ProvisionWatcherClient) (*watcher.Store, error) {
	var persister watcher.Persister
	if config.Watchers.Persist {
		watcher.InitDBTable()
		if err := dbm.InitDBManager(config.DataBase); err != nil {
			return nil, err
		}
		persister = watcher.NewDBPersister()
	}

	watchers := watcher.NewWatcherStore(client, persister)
	if err := watchers.Initialize(ctx, config.Service.ID, config.Watchers); err != nil {
		klog.Warningf("loading provision watchers of service %s failed: %v", config.Service.ID, err)
	}
	klog.Infof("%d provision watchers loaded, persisted: %t", len(watchers.GetWatchers()), persister != nil)
	return watchers, nil
}
