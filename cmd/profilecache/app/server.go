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
	"fmt"
	"os"

	"github.com/spf13/cobra"
	utilerrors "k8s.io/apimachinery/pkg/util/errors"
	cliflag "k8s.io/component-base/cli/flag"
	"k8s.io/component-base/cli/globalflag"
	"k8s.io/component-base/term"
	"k8s.io/klog/v2"

	"github.com/kubeedge/profilecache/cmd/profilecache/app/flags"
	"github.com/kubeedge/profilecache/cmd/profilecache/app/options"
	"github.com/kubeedge/profilecache/pkg/apis/componentconfig/profilecache/v1alpha1/validation"
)

// NewProfileCacheCommand create profilecache cmd
func NewProfileCacheCommand(ctx context.Context) *cobra.Command {
	opts := options.NewProfileCacheOptions()
	cmd := &cobra.Command{
		Use: "profilecache",
		Long: `Profilecache is the profile cache of a device service. It receives device callbacks, 
builds the runtime objects and commands of every device from its profile, keeps the value 
descriptors those commands need registered with core-data, and serves the cached entries 
over REST. Provision watchers of the service are loaded at startup and can be persisted 
in a local database (SQLite). Cache changes can be published to an MQTT broker.`,
		Run: func(cmd *cobra.Command, args []string) {
			printed, err := flags.PrintConfigIfRequested(cmd.OutOrStdout())
			if err != nil {
				fmt.Fprintf(os.Stderr, "%v\n", err)
				os.Exit(1)
			}
			if printed {
				return
			}
			cliflag.PrintFlags(cmd.Flags())

			if errs := opts.Validate(); len(errs) > 0 {
				klog.Exit(utilerrors.NewAggregate(errs))
			}

			config, err := opts.Config()
			if err != nil {
				klog.Exit(err)
			}
			if errs := validation.ValidateProfileCacheConfiguration(config); len(errs) > 0 {
				klog.Exit(errs.ToAggregate())
			}

			if err := Run(ctx, config); err != nil {
				klog.Exit(err)
			}
		},
	}
	fs := cmd.Flags()
	namedFs := opts.Flags()
	flags.AddFlags(namedFs.FlagSet("global"))
	globalflag.AddGlobalFlags(namedFs.FlagSet("global"), cmd.Name())
	for _, f := range namedFs.FlagSets {
		fs.AddFlagSet(f)
	}

	usageFmt := "Usage:\n  %s\n"
	cols, _, _ := term.TerminalSize(cmd.OutOrStdout())
	cmd.SetUsageFunc(func(cmd *cobra.Command) error {
		fmt.Fprintf(cmd.OutOrStderr(), usageFmt, cmd.UseLine())
		cliflag.PrintSections(cmd.OutOrStderr(), namedFs, cols)
		return nil
	})
	cmd.SetHelpFunc(func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "%s\n\n"+usageFmt, cmd.Long, cmd.UseLine())
		cliflag.PrintSections(cmd.OutOrStdout(), namedFs, cols)
	})

	return cmd
}
