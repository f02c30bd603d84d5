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

package options

import (
	"fmt"
	"os"

	"k8s.io/apimachinery/pkg/util/validation/field"
	cliflag "k8s.io/component-base/cli/flag"

	"github.com/kubeedge/profilecache/common/constants"
	"github.com/kubeedge/profilecache/pkg/apis/componentconfig/profilecache/v1alpha1"
)

type ProfileCacheOptions struct {
	ConfigFile string
}

func NewProfileCacheOptions() *ProfileCacheOptions {
	return &ProfileCacheOptions{
		ConfigFile: constants.DefaultProfileCacheConfigFile,
	}
}

func (o *ProfileCacheOptions) Flags() (fss cliflag.NamedFlagSets) {
	fs := fss.FlagSet("global")
	fs.StringVar(&o.ConfigFile, "config", o.ConfigFile, "The path to the configuration file. Flags override values in this file.")
	return
}

func (o *ProfileCacheOptions) Validate() []error {
	var errs []error
	if _, err := os.Stat(o.ConfigFile); err != nil {
		errs = append(errs, field.Required(field.NewPath("config"),
			fmt.Sprintf("config file %v not exist. For the configuration file format, please refer to --minconfig and --defaultconfig command", o.ConfigFile)))
	}
	return errs
}

// Config reads the config file on top of the default config
func (o *ProfileCacheOptions) Config() (*v1alpha1.ProfileCacheConfig, error) {
	cfg := v1alpha1.NewDefaultProfileCacheConfig()
	if err := cfg.Parse(o.ConfigFile); err != nil {
		return nil, err
	}
	return cfg, nil
}
