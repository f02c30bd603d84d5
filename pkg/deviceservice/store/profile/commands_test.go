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

package profile

import (
	"reflect"
	"testing"

	"github.com/kubeedge/profilecache/pkg/deviceservice/serviceobject"
	"github.com/kubeedge/profilecache/pkg/deviceservice/types"
)

func TestSynthesizeOperations(t *testing.T) {
	cases := []struct {
		name      string
		readWrite string
		wantGet   bool
		wantSet   bool
	}{
		{name: "read only", readWrite: "R", wantGet: true},
		{name: "write only", readWrite: "W", wantSet: true},
		{name: "read write", readWrite: "RW", wantGet: true, wantSet: true},
		{name: "lower case", readWrite: "rw", wantGet: true, wantSet: true},
		{name: "empty", readWrite: ""},
		{name: "unrelated", readWrite: "xyz"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			profile := &types.DeviceProfile{
				Name:            "p",
				DeviceResources: []types.DeviceObject{deviceObject("Level", tc.readWrite)},
			}
			objects, synthesized, ops, err := buildObjects(serviceobject.NewFactory(), profile, DeviceCommands{})
			if err != nil {
				t.Fatalf("buildObjects() error = %v", err)
			}
			if _, ok := objects["Level"]; !ok {
				t.Errorf("object Level missing")
			}

			entry, ok := synthesized["level"]
			if ok != (tc.wantGet || tc.wantSet) {
				t.Fatalf("synthesized entry present = %v", ok)
			}
			want := 0
			for kind, wanted := range map[string]bool{types.OperationGet: tc.wantGet, types.OperationSet: tc.wantSet} {
				got, present := entry[kind]
				if present != wanted {
					t.Errorf("%s present = %v, want %v", kind, present, wanted)
					continue
				}
				if !wanted {
					continue
				}
				want++
				expected := []types.ResourceOperation{{Operation: kind, Object: "Level", Parameter: "Level"}}
				if !reflect.DeepEqual(got, expected) {
					t.Errorf("%s = %+v, want %+v", kind, got, expected)
				}
			}
			if len(ops) != want {
				t.Errorf("got %d operations, want %d", len(ops), want)
			}
		})
	}
}

func TestBuildDeclaredCommands(t *testing.T) {
	profile := &types.DeviceProfile{
		Resources: []types.ProfileResource{
			{
				Name: "Switch",
				Get:  []types.ResourceOperation{{Operation: "get", Object: "SwitchState"}},
				Set:  []types.ResourceOperation{{Operation: "set", Object: "SwitchState", Parameter: "On"}},
			},
			{Name: "Reset"},
		},
	}
	commands, ops := buildDeclaredCommands(profile)

	if len(commands) != 2 {
		t.Fatalf("got %d commands, want 2", len(commands))
	}
	sw, ok := commands.Lookup("SWITCH")
	if !ok {
		t.Fatalf("switch not found")
	}
	if got := sw[types.OperationGet][0].Parameter; got != "SwitchState" {
		t.Errorf("empty parameter defaulted to %q", got)
	}
	// the profile itself is left alone
	if profile.Resources[0].Get[0].Parameter != "" {
		t.Errorf("profile operation was modified")
	}

	reset := commands["reset"]
	for _, kind := range []string{types.OperationGet, types.OperationSet} {
		if ops, present := reset[kind]; !present || len(ops) != 0 {
			t.Errorf("reset %s = %v, %v", kind, ops, present)
		}
	}

	wantParams := []string{"SwitchState", "On"}
	if len(ops) != len(wantParams) {
		t.Fatalf("got %d operations, want %d", len(ops), len(wantParams))
	}
	for i, p := range wantParams {
		if ops[i].Parameter != p {
			t.Errorf("ops[%d].Parameter = %s, want %s", i, ops[i].Parameter, p)
		}
	}
}

func TestMergeCommandsKeepsDeclared(t *testing.T) {
	declared := DeviceCommands{"temp": Operations{types.OperationGet: nil, types.OperationSet: nil}}
	synthesized := DeviceCommands{
		"temp":     Operations{types.OperationGet: []types.ResourceOperation{types.NewResourceOperation("get", "Temp")}},
		"humidity": Operations{types.OperationGet: []types.ResourceOperation{types.NewResourceOperation("get", "Humidity")}},
	}
	merged := mergeCommands(declared, synthesized)
	if len(merged) != 2 {
		t.Fatalf("got %d entries, want 2", len(merged))
	}
	if len(merged["temp"][types.OperationGet]) != 0 {
		t.Errorf("synthesized operations shadowed the declared resource")
	}
	if len(declared) != 1 || len(synthesized) != 2 {
		t.Errorf("inputs were modified")
	}
}

func TestUsedDescriptors(t *testing.T) {
	profile := &types.DeviceProfile{
		Commands: []types.Command{
			readCommand("a", "Temp", "Humidity"),
			{Name: "b", Put: &types.Put{ParameterNames: []string{"Setpoint"}}},
		},
	}
	used := usedDescriptors(profile)
	for _, name := range []string{"Temp", "Humidity", "Setpoint"} {
		if !used.Has(name) {
			t.Errorf("%s not used", name)
		}
	}
	if used.Len() != 3 {
		t.Errorf("used = %v", used.List())
	}
}
