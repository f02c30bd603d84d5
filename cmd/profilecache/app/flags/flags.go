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

package flags

import (
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/pflag"
	"sigs.k8s.io/yaml"

	"github.com/kubeedge/profilecache/pkg/apis/componentconfig/profilecache/v1alpha1"
)

const (
	minConfigFlagName     = "minconfig"
	defaultConfigFlagName = "defaultconfig"
)

// configValue is a bool flag, "--minconfig" is treated as "--minconfig=true"
type configValue struct {
	name string
	set  bool
}

func (v *configValue) IsBoolFlag() bool { return true }

func (v *configValue) Set(s string) error {
	b, err := strconv.ParseBool(s)
	v.set = b
	return err
}

func (v *configValue) String() string { return strconv.FormatBool(v.set) }

// Type is required by the pflag.Value interface
func (v *configValue) Type() string { return v.name }

var (
	minConfigFlag     = &configValue{name: minConfigFlagName}
	defaultConfigFlag = &configValue{name: defaultConfigFlagName}
)

// AddFlags registers --minconfig and --defaultconfig on fs
func AddFlags(fs *pflag.FlagSet) {
	fs.Var(minConfigFlag, minConfigFlagName, "Print min configuration for reference, users can refer to it to create their own configuration files, it is suitable for beginners.")
	fs.Lookup(minConfigFlagName).NoOptDefVal = "true"
	fs.Var(defaultConfigFlag, defaultConfigFlagName, "Print default configuration for reference, users can refer to it to create their own configuration files, it is suitable for advanced users.")
	fs.Lookup(defaultConfigFlagName).NoOptDefVal = "true"
}

// PrintConfigIfRequested prints the min or default config to w when the
// matching flag was passed, and reports whether it did.
func PrintConfigIfRequested(w io.Writer) (bool, error) {
	switch {
	case minConfigFlag.set:
		return true, printConfig(w, v1alpha1.NewMinProfileCacheConfig(),
			"# With --minconfig , you can easily used this configurations as reference.",
			"# This configuration is suitable for beginners.")
	case defaultConfigFlag.set:
		return true, printConfig(w, v1alpha1.NewDefaultProfileCacheConfig(),
			"# With --defaultconfig flag, users can easily get a default full config file as reference, with all fields included and default values set.",
			"# Because it is a full configuration, it is more suitable for advanced users.")
	}
	return false, nil
}

func printConfig(w io.Writer, config *v1alpha1.ProfileCacheConfig, header ...string) error {
	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("marshal profilecache config to yaml error: %v", err)
	}
	for _, line := range header {
		fmt.Fprintln(w, line)
	}
	fmt.Fprintf(w, "\n%v\n", string(data))
	return nil
}
