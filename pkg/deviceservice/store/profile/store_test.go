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
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kubeedge/profilecache/pkg/deviceservice/mocks"
	"github.com/kubeedge/profilecache/pkg/deviceservice/serviceobject"
	"github.com/kubeedge/profilecache/pkg/deviceservice/types"
)

func deviceObject(name, rw string) types.DeviceObject {
	return types.DeviceObject{
		Name: name,
		Properties: types.ProfileProperty{
			Value: types.PropertyValue{Type: "Float", ReadWrite: rw},
		},
	}
}

func readCommand(name string, params ...string) types.Command {
	return types.Command{
		Name: name,
		Get: &types.Get{Action: types.Action{
			Responses: []types.Response{{Code: "200", ExpectedValues: params}},
		}},
	}
}

func newDevice(name string, profile *types.DeviceProfile) *types.Device {
	return &types.Device{Name: name, Profile: profile}
}

func newTestStore(t *testing.T, opts Options) (*Store, *mocks.MockClient) {
	ctrl := gomock.NewController(t)
	client := mocks.NewMockClient(ctrl)
	return NewProfileStore(client, serviceobject.NewFactory(), opts), client
}

func TestAddDeviceSingleReadableResource(t *testing.T) {
	store, client := newTestStore(t, Options{})
	client.EXPECT().ValueDescriptors(gomock.Any()).Return(nil, nil)
	client.EXPECT().Add(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, vd *types.ValueDescriptor) (string, error) {
			assert.Equal(t, "Temp", vd.Name)
			assert.Equal(t, types.IoTTypeFloat, vd.Type)
			assert.Equal(t, types.DefaultFormatting, vd.Formatting)
			return "vd-1", nil
		})

	profile := &types.DeviceProfile{
		Name:            "thermometer",
		DeviceResources: []types.DeviceObject{deviceObject("Temp", "R")},
		Commands:        []types.Command{readCommand("ReadTemp", "Temp")},
	}
	result := store.AddDevice(context.TODO(), newDevice("D1", profile))
	require.NoError(t, result.Err)
	assert.Equal(t, Cached, result.Outcome)
	assert.Equal(t, []string{"Temp"}, result.Descriptors.Registered)

	objects := store.GetObjects()
	require.Contains(t, objects, "D1")
	assert.Contains(t, objects["D1"], "Temp")

	commands := store.GetCommands()
	require.Contains(t, commands, "D1")
	ops := commands["D1"]["temp"]
	require.Len(t, ops[types.OperationGet], 1)
	assert.Equal(t, "Temp", ops[types.OperationGet][0].Object)
	assert.Equal(t, "Temp", ops[types.OperationGet][0].Parameter)
	assert.NotContains(t, ops, types.OperationSet)

	descriptors := store.GetValueDescriptors()
	require.Len(t, descriptors, 1)
	assert.Equal(t, "Temp", descriptors[0].Name)
	assert.Equal(t, "vd-1", descriptors[0].ID)
	assert.True(t, store.DescriptorExists("Temp"))
	assert.False(t, store.DescriptorExists("temp"))
}

func TestEveryDeviceObjectIsCached(t *testing.T) {
	store, client := newTestStore(t, Options{})
	client.EXPECT().ValueDescriptors(gomock.Any()).Return(nil, nil)

	profile := &types.DeviceProfile{
		Name: "multi",
		DeviceResources: []types.DeviceObject{
			deviceObject("A", "R"),
			deviceObject("B", "W"),
			deviceObject("C", ""),
		},
	}
	result := store.AddDevice(context.TODO(), newDevice("D1", profile))
	assert.Equal(t, Cached, result.Outcome)

	objects, ok := store.GetDeviceObjects("D1")
	require.True(t, ok)
	for _, name := range []string{"A", "B", "C"} {
		assert.Contains(t, objects, name)
	}
	commands, ok := store.GetDeviceCommands("D1")
	require.True(t, ok)
	assert.Len(t, commands, 2)
	assert.NotContains(t, commands, "c")
}

func TestDeclaredResourceTakesPrecedence(t *testing.T) {
	store, client := newTestStore(t, Options{})
	client.EXPECT().ValueDescriptors(gomock.Any()).Return(
		[]types.ValueDescriptor{{ID: "id-c", Name: "TempC"}}, nil)

	declaredGet := []types.ResourceOperation{
		{Index: "1", Operation: types.OperationGet, Object: "Temp", Parameter: "TempC"},
	}
	profile := &types.DeviceProfile{
		Name:            "declared",
		DeviceResources: []types.DeviceObject{deviceObject("Temp", "RW")},
		Resources:       []types.ProfileResource{{Name: "Temp", Get: declaredGet}},
		Commands:        []types.Command{readCommand("ReadTemp", "TempC")},
	}
	result := store.AddDevice(context.TODO(), newDevice("D1", profile))
	require.Equal(t, Cached, result.Outcome)
	assert.Equal(t, []string{"TempC"}, result.Descriptors.Found)

	commands, _ := store.GetDeviceCommands("D1")
	assert.Equal(t, Operations{
		types.OperationGet: declaredGet,
		types.OperationSet: nil,
	}, commands["temp"])

	ops, ok := commands.Lookup("TEMP")
	require.True(t, ok)
	assert.Empty(t, ops[types.OperationSet])
}

func TestConcurrentDevicesShareNewDescriptor(t *testing.T) {
	store, client := newTestStore(t, Options{})
	client.EXPECT().ValueDescriptors(gomock.Any()).Return(nil, nil).AnyTimes()
	client.EXPECT().Add(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, vd *types.ValueDescriptor) (string, error) {
			time.Sleep(20 * time.Millisecond)
			return "id-" + vd.Name, nil
		}).Times(1)

	profile := &types.DeviceProfile{
		Name:            "hygrometer",
		DeviceResources: []types.DeviceObject{deviceObject("Humidity", "R")},
		Commands:        []types.Command{readCommand("ReadHumidity", "Humidity")},
	}

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			result := store.AddDevice(context.TODO(), newDevice(fmt.Sprintf("D%d", i), profile))
			assert.Equal(t, Cached, result.Outcome)
		}(i)
	}
	wg.Wait()

	descriptors := store.GetValueDescriptors()
	require.Len(t, descriptors, 1)
	assert.Equal(t, "id-Humidity", descriptors[0].ID)
	assert.Equal(t, Stats{Devices: 16, Descriptors: 1}, store.Stats())
}

func TestSharedRegistrationOutlivesCallerContext(t *testing.T) {
	profile := &types.DeviceProfile{
		Name:            "hygrometer",
		DeviceResources: []types.DeviceObject{deviceObject("Hum", "R")},
		Commands:        []types.Command{readCommand("ReadHum", "Hum")},
	}

	cases := []struct {
		name       string
		addErr     error
		wantID     string
		wantLeader ResolveReport
		wantJoined ResolveReport
	}{
		{
			name:       "registered",
			wantID:     "id-Hum",
			wantLeader: ResolveReport{Registered: []string{"Hum"}},
			wantJoined: ResolveReport{Reused: []string{"Hum"}},
		},
		{
			name:       "registration failed",
			addErr:     errors.New("metadata unavailable"),
			wantLeader: ResolveReport{RegistrationFailed: []string{"Hum"}},
			wantJoined: ResolveReport{RegistrationFailed: []string{"Hum"}},
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			store, client := newTestStore(t, Options{Context: context.Background()})
			started := make(chan struct{})
			release := make(chan struct{})
			client.EXPECT().ValueDescriptors(gomock.Any()).Return(nil, nil).Times(2)
			client.EXPECT().Add(gomock.Any(), gomock.Any()).DoAndReturn(
				func(ctx context.Context, vd *types.ValueDescriptor) (string, error) {
					close(started)
					select {
					case <-release:
					case <-ctx.Done():
						return "", ctx.Err()
					}
					if tc.addErr != nil {
						return "", tc.addErr
					}
					return "id-" + vd.Name, nil
				}).Times(1)

			leaderCtx, cancel := context.WithCancel(context.Background())
			leader := make(chan Result, 1)
			go func() { leader <- store.AddDevice(leaderCtx, newDevice("A", profile)) }()
			<-started
			cancel()

			joined := make(chan Result, 1)
			go func() { joined <- store.AddDevice(context.Background(), newDevice("B", profile)) }()
			// let B join the registration in flight
			time.Sleep(50 * time.Millisecond)
			close(release)

			a, b := <-leader, <-joined
			assert.Equal(t, Cached, a.Outcome)
			assert.Equal(t, Cached, b.Outcome)
			assert.Equal(t, tc.wantLeader, a.Descriptors)
			assert.Equal(t, tc.wantJoined, b.Descriptors)

			vd, ok := store.GetValueDescriptor("Hum")
			require.True(t, ok)
			assert.Equal(t, tc.wantID, vd.ID)
		})
	}
}

func TestUnusedParameter(t *testing.T) {
	profile := &types.DeviceProfile{
		Name:            "raw",
		DeviceResources: []types.DeviceObject{deviceObject("Raw", "RW")},
	}

	t.Run("skipped by default", func(t *testing.T) {
		store, client := newTestStore(t, Options{})
		client.EXPECT().ValueDescriptors(gomock.Any()).Return(nil, nil)

		result := store.AddDevice(context.TODO(), newDevice("D1", profile))
		assert.Equal(t, Cached, result.Outcome)
		assert.Equal(t, []string{"Raw", "Raw"}, result.Descriptors.SkippedUnused)
		assert.False(t, store.DescriptorExists("Raw"))
		assert.Empty(t, store.GetValueDescriptors())
	})

	t.Run("created when enabled", func(t *testing.T) {
		store, client := newTestStore(t, Options{CreateUnusedDescriptors: true})
		client.EXPECT().ValueDescriptors(gomock.Any()).Return(nil, nil)
		client.EXPECT().Add(gomock.Any(), gomock.Any()).Return("id-raw", nil).Times(1)

		result := store.AddDevice(context.TODO(), newDevice("D1", profile))
		assert.Equal(t, Cached, result.Outcome)
		// the set operation finds what the get operation registered
		assert.Equal(t, []string{"Raw"}, result.Descriptors.Registered)
		assert.True(t, store.DescriptorExists("Raw"))
	})
}

func TestRemoveDevice(t *testing.T) {
	store, client := newTestStore(t, Options{})
	client.EXPECT().ValueDescriptors(gomock.Any()).Return(
		[]types.ValueDescriptor{{ID: "1", Name: "Temp"}}, nil)

	profile := &types.DeviceProfile{
		Name:            "thermometer",
		DeviceResources: []types.DeviceObject{deviceObject("Temp", "R")},
		Commands:        []types.Command{readCommand("ReadTemp", "Temp")},
	}
	device := newDevice("D1", profile)
	require.Equal(t, Cached, store.AddDevice(context.TODO(), device).Outcome)

	for i := 0; i < 2; i++ {
		result := store.RemoveDevice(device)
		assert.Equal(t, Removed, result.Outcome)
		assert.NoError(t, result.Err)
		assert.NotContains(t, store.GetObjects(), "D1")
		assert.NotContains(t, store.GetCommands(), "D1")
	}
	// descriptors are retained by default
	assert.True(t, store.DescriptorExists("Temp"))

	assert.Equal(t, Removed, store.RemoveDevice(newDevice("never-added", nil)).Outcome)
}

func TestUpdateDeviceReplacesEntries(t *testing.T) {
	store, client := newTestStore(t, Options{})
	client.EXPECT().ValueDescriptors(gomock.Any()).Return(nil, nil).Times(2)

	before := &types.DeviceProfile{
		Name:            "v1",
		DeviceResources: []types.DeviceObject{deviceObject("Temp", "R"), deviceObject("Old", "RW")},
	}
	after := &types.DeviceProfile{
		Name:            "v2",
		DeviceResources: []types.DeviceObject{deviceObject("Temp", "R")},
	}
	require.Equal(t, Cached, store.AddDevice(context.TODO(), newDevice("D1", before)).Outcome)
	result := store.UpdateDevice(context.TODO(), newDevice("D1", after))
	require.Equal(t, Cached, result.Outcome)

	objects, _ := store.GetDeviceObjects("D1")
	assert.Contains(t, objects, "Temp")
	assert.NotContains(t, objects, "Old")
	commands, _ := store.GetDeviceCommands("D1")
	assert.Contains(t, commands, "temp")
	assert.NotContains(t, commands, "old")
}

func TestUpdateDeviceFailureLeavesDeviceAbsent(t *testing.T) {
	store, client := newTestStore(t, Options{})
	client.EXPECT().ValueDescriptors(gomock.Any()).Return(nil, nil)
	client.EXPECT().DeviceProfileForName(gomock.Any(), "v2").Return(nil, errors.New("unreachable"))

	before := &types.DeviceProfile{
		Name:            "v1",
		DeviceResources: []types.DeviceObject{deviceObject("Temp", "R")},
	}
	require.Equal(t, Cached, store.AddDevice(context.TODO(), newDevice("D1", before)).Outcome)

	result := store.UpdateDevice(context.TODO(), newDevice("D1", &types.DeviceProfile{Name: "v2"}))
	assert.Equal(t, Failed, result.Outcome)
	assert.ErrorIs(t, result.Err, ErrProfileFetch)
	_, ok := store.GetDeviceObjects("D1")
	assert.False(t, ok)
}

func TestProfileCompletion(t *testing.T) {
	fetched := &types.DeviceProfile{
		Name:            "thermometer",
		DeviceResources: []types.DeviceObject{deviceObject("Temp", "R")},
	}
	fetchErr := errors.New("connection refused")

	cases := []struct {
		name        string
		profile     *types.DeviceProfile
		expect      func(client *mocks.MockClient)
		wantOutcome Outcome
		wantErrs    []error
	}{
		{
			name:        "no profile",
			profile:     nil,
			expect:      func(*mocks.MockClient) {},
			wantOutcome: Skipped,
			wantErrs:    []error{ErrProfileIncomplete},
		},
		{
			name:    "complete profile is used as is",
			profile: fetched,
			expect: func(client *mocks.MockClient) {
				client.EXPECT().ValueDescriptors(gomock.Any()).Return(nil, nil)
			},
			wantOutcome: Cached,
		},
		{
			name:    "name only profile is fetched",
			profile: &types.DeviceProfile{Name: "thermometer"},
			expect: func(client *mocks.MockClient) {
				client.EXPECT().DeviceProfileForName(gomock.Any(), "thermometer").Return(fetched, nil)
				client.EXPECT().ValueDescriptors(gomock.Any()).Return(nil, nil)
			},
			wantOutcome: Cached,
		},
		{
			name:    "fetch failure",
			profile: &types.DeviceProfile{Name: "thermometer"},
			expect: func(client *mocks.MockClient) {
				client.EXPECT().DeviceProfileForName(gomock.Any(), "thermometer").Return(nil, fetchErr)
			},
			wantOutcome: Skipped,
			wantErrs:    []error{ErrProfileIncomplete, ErrProfileFetch, fetchErr},
		},
		{
			name:    "fetched profile without resources",
			profile: &types.DeviceProfile{Name: "empty"},
			expect: func(client *mocks.MockClient) {
				client.EXPECT().DeviceProfileForName(gomock.Any(), "empty").Return(&types.DeviceProfile{Name: "empty"}, nil)
				client.EXPECT().ValueDescriptors(gomock.Any()).Return(nil, nil)
			},
			wantOutcome: Cached,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			store, client := newTestStore(t, Options{})
			tc.expect(client)
			device := newDevice("D1", tc.profile)

			result := store.AddDevice(context.TODO(), device)
			assert.Equal(t, tc.wantOutcome, result.Outcome)
			for _, want := range tc.wantErrs {
				assert.ErrorIs(t, result.Err, want)
			}
			_, cached := store.GetDeviceObjects("D1")
			assert.Equal(t, tc.wantOutcome == Cached, cached)
			// the caller's device keeps its original profile
			assert.Same(t, tc.profile, device.Profile)
		})
	}
}

func TestDescriptorListFailureDegrades(t *testing.T) {
	store, client := newTestStore(t, Options{})
	client.EXPECT().ValueDescriptors(gomock.Any()).Return(nil, errors.New("timeout"))
	client.EXPECT().Add(gomock.Any(), gomock.Any()).Return("id-temp", nil)

	profile := &types.DeviceProfile{
		Name:            "thermometer",
		DeviceResources: []types.DeviceObject{deviceObject("Temp", "R")},
		Commands:        []types.Command{readCommand("ReadTemp", "Temp")},
	}
	result := store.AddDevice(context.TODO(), newDevice("D1", profile))
	assert.Equal(t, Cached, result.Outcome)
	assert.True(t, result.Descriptors.DescriptorListDegraded)
	assert.True(t, result.Descriptors.Degraded())
	assert.Equal(t, []string{"Temp"}, result.Descriptors.Registered)
}

func TestRegistrationFailureKeepsLocalDescriptor(t *testing.T) {
	store, client := newTestStore(t, Options{})
	client.EXPECT().ValueDescriptors(gomock.Any()).Return(nil, nil)
	client.EXPECT().Add(gomock.Any(), gomock.Any()).Return("", errors.New("conflict"))

	profile := &types.DeviceProfile{
		Name:            "thermometer",
		DeviceResources: []types.DeviceObject{deviceObject("Temp", "R")},
		Commands:        []types.Command{readCommand("ReadTemp", "Temp")},
	}
	result := store.AddDevice(context.TODO(), newDevice("D1", profile))
	assert.Equal(t, Cached, result.Outcome)
	assert.NoError(t, result.Err)
	assert.Equal(t, []string{"Temp"}, result.Descriptors.RegistrationFailed)
	assert.Equal(t, []string{"Temp"}, result.Descriptors.Created())

	vd, ok := store.GetValueDescriptor("Temp")
	require.True(t, ok)
	assert.False(t, vd.Registered())
}

func TestMissingSourceObject(t *testing.T) {
	store, client := newTestStore(t, Options{})
	client.EXPECT().ValueDescriptors(gomock.Any()).Return(nil, nil)

	profile := &types.DeviceProfile{
		Name:            "broken",
		DeviceResources: []types.DeviceObject{deviceObject("Temp", "R")},
		Resources: []types.ProfileResource{{
			Name: "Ghost",
			Get:  []types.ResourceOperation{{Operation: types.OperationGet, Object: "Ghost"}},
		}},
		Commands: []types.Command{readCommand("ReadGhost", "Ghost")},
	}
	result := store.AddDevice(context.TODO(), newDevice("D1", profile))
	assert.Equal(t, Cached, result.Outcome)
	assert.Equal(t, []string{"Ghost"}, result.Descriptors.MissingObject)
	assert.False(t, store.DescriptorExists("Ghost"))
}

func TestFactoryFailureAbortsDevice(t *testing.T) {
	ctrl := gomock.NewController(t)
	client := mocks.NewMockClient(ctrl)
	factory := mocks.NewMockFactory(ctrl)
	factory.EXPECT().CreateServiceObject(gomock.Any()).Return(nil, errors.New("bad register"))

	store := NewProfileStore(client, factory, Options{})
	profile := &types.DeviceProfile{
		Name:            "modbus",
		DeviceResources: []types.DeviceObject{deviceObject("Temp", "R")},
	}
	result := store.AddDevice(context.TODO(), newDevice("D1", profile))
	assert.Equal(t, Failed, result.Outcome)
	assert.ErrorIs(t, result.Err, ErrServiceObject)
	assert.NotContains(t, store.GetObjects(), "D1")
	assert.NotContains(t, store.GetCommands(), "D1")
}

func TestFactoryFailureReleasesDescriptorsUnderReconcile(t *testing.T) {
	ctrl := gomock.NewController(t)
	client := mocks.NewMockClient(ctrl)
	factory := mocks.NewMockFactory(ctrl)
	gomock.InOrder(
		factory.EXPECT().CreateServiceObject(gomock.Any()).DoAndReturn(serviceobject.NewFactory().CreateServiceObject),
		factory.EXPECT().CreateServiceObject(gomock.Any()).Return(nil, errors.New("bad register")),
	)
	client.EXPECT().ValueDescriptors(gomock.Any()).Return(nil, nil)
	client.EXPECT().Add(gomock.Any(), gomock.Any()).Return("id-Temp", nil)

	store := NewProfileStore(client, factory, Options{DescriptorRetention: ReconcileDescriptors})
	profile := &types.DeviceProfile{
		Name:            "thermometer",
		DeviceResources: []types.DeviceObject{deviceObject("Temp", "R")},
		Commands:        []types.Command{readCommand("ReadTemp", "Temp")},
	}
	require.Equal(t, Cached, store.AddDevice(context.TODO(), newDevice("D1", profile)).Outcome)
	require.True(t, store.DescriptorExists("Temp"))

	result := store.AddDevice(context.TODO(), newDevice("D1", profile))
	assert.Equal(t, Failed, result.Outcome)
	assert.ErrorIs(t, result.Err, ErrServiceObject)
	assert.False(t, store.DescriptorExists("Temp"))
	assert.Empty(t, store.Reconcile())
	assert.Equal(t, Stats{}, store.Stats())
}

func TestDescriptorRetention(t *testing.T) {
	profile := &types.DeviceProfile{
		Name:            "thermometer",
		DeviceResources: []types.DeviceObject{deviceObject("Temp", "R")},
		Commands:        []types.Command{readCommand("ReadTemp", "Temp")},
	}

	cases := []struct {
		retention DescriptorRetention
		wantKept  bool
	}{
		{retention: "", wantKept: true},
		{retention: RetainDescriptors, wantKept: true},
		{retention: ReconcileDescriptors, wantKept: false},
	}
	for _, tc := range cases {
		t.Run(string(tc.retention), func(t *testing.T) {
			store, client := newTestStore(t, Options{DescriptorRetention: tc.retention})
			client.EXPECT().ValueDescriptors(gomock.Any()).Return(nil, nil).Times(2)
			client.EXPECT().Add(gomock.Any(), gomock.Any()).Return("id", nil).AnyTimes()

			require.Equal(t, Cached, store.AddDevice(context.TODO(), newDevice("D1", profile)).Outcome)
			require.Equal(t, Cached, store.AddDevice(context.TODO(), newDevice("D2", profile)).Outcome)

			store.RemoveDevice(newDevice("D1", nil))
			assert.True(t, store.DescriptorExists("Temp"), "still referenced by D2")

			store.RemoveDevice(newDevice("D2", nil))
			assert.Equal(t, tc.wantKept, store.DescriptorExists("Temp"))
		})
	}
}

func TestUpdateDropsUnreferencedDescriptorsUnderReconcile(t *testing.T) {
	store, client := newTestStore(t, Options{DescriptorRetention: ReconcileDescriptors})
	client.EXPECT().ValueDescriptors(gomock.Any()).Return(nil, nil).Times(2)
	client.EXPECT().Add(gomock.Any(), gomock.Any()).Return("id", nil).Times(2)

	before := &types.DeviceProfile{
		Name:            "v1",
		DeviceResources: []types.DeviceObject{deviceObject("Temp", "R")},
		Commands:        []types.Command{readCommand("ReadTemp", "Temp")},
	}
	after := &types.DeviceProfile{
		Name:            "v2",
		DeviceResources: []types.DeviceObject{deviceObject("Pressure", "R")},
		Commands:        []types.Command{readCommand("ReadPressure", "Pressure")},
	}
	require.Equal(t, Cached, store.AddDevice(context.TODO(), newDevice("D1", before)).Outcome)
	require.Equal(t, Cached, store.UpdateDevice(context.TODO(), newDevice("D1", after)).Outcome)

	assert.False(t, store.DescriptorExists("Temp"))
	assert.True(t, store.DescriptorExists("Pressure"))
	assert.Empty(t, store.Reconcile())
}

func TestListenersSeeEveryResult(t *testing.T) {
	var mu sync.Mutex
	var outcomes []Outcome
	listener := ListenerFunc(func(r Result) {
		mu.Lock()
		defer mu.Unlock()
		outcomes = append(outcomes, r.Outcome)
	})

	store, client := newTestStore(t, Options{Listeners: []Listener{listener}})
	client.EXPECT().ValueDescriptors(gomock.Any()).Return(nil, nil)

	profile := &types.DeviceProfile{Name: "p", DeviceResources: []types.DeviceObject{}}
	store.AddDevice(context.TODO(), newDevice("D1", profile))
	store.AddDevice(context.TODO(), newDevice("D2", nil))
	store.RemoveDevice(newDevice("D1", nil))

	assert.Equal(t, []Outcome{Cached, Skipped, Removed}, outcomes)
}

func TestRunReconcileReturnsUnderRetain(t *testing.T) {
	store, _ := newTestStore(t, Options{})
	done := make(chan struct{})
	go func() {
		store.RunReconcile(context.TODO(), time.Millisecond)
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("RunReconcile did not return")
	}
}

func TestOperationsOnOneDeviceSerialize(t *testing.T) {
	var mu sync.Mutex
	var last Result
	listener := ListenerFunc(func(r Result) {
		// runs while the device is still locked
		mu.Lock()
		defer mu.Unlock()
		last = r
	})
	store, client := newTestStore(t, Options{Listeners: []Listener{listener}})
	client.EXPECT().ValueDescriptors(gomock.Any()).Return(
		[]types.ValueDescriptor{{ID: "1", Name: "Temp"}, {ID: "2", Name: "Pressure"}}, nil).AnyTimes()

	profiles := []*types.DeviceProfile{
		{
			Name:            "thermometer",
			DeviceResources: []types.DeviceObject{deviceObject("Temp", "R")},
			Commands:        []types.Command{readCommand("ReadTemp", "Temp")},
		},
		{
			Name:            "barometer",
			DeviceResources: []types.DeviceObject{deviceObject("Pressure", "R")},
			Commands:        []types.Command{readCommand("ReadPressure", "Pressure")},
		},
	}

	// objects and commands of one device always come from the same profile
	consistent := func() {
		e, ok := store.entry("D1")
		if !ok {
			return
		}
		_, tempObject := e.objects["Temp"]
		_, tempCommand := e.commands["temp"]
		_, pressureObject := e.objects["Pressure"]
		_, pressureCommand := e.commands["pressure"]
		assert.Equal(t, tempObject, tempCommand)
		assert.Equal(t, pressureObject, pressureCommand)
		assert.NotEqual(t, tempObject, pressureObject)
	}

	stop := make(chan struct{})
	var readers sync.WaitGroup
	for i := 0; i < 4; i++ {
		readers.Add(1)
		go func() {
			defer readers.Done()
			for {
				select {
				case <-stop:
					return
				default:
					consistent()
				}
			}
		}()
	}

	var writers sync.WaitGroup
	for i := 0; i < 32; i++ {
		writers.Add(1)
		go func(i int) {
			defer writers.Done()
			device := newDevice("D1", profiles[i%2])
			if i%3 == 0 {
				store.RemoveDevice(device)
				return
			}
			assert.Equal(t, Cached, store.UpdateDevice(context.TODO(), device).Outcome)
		}(i)
	}
	writers.Wait()
	close(stop)
	readers.Wait()

	mu.Lock()
	defer mu.Unlock()
	e, ok := store.entry("D1")
	switch last.Outcome {
	case Removed:
		assert.False(t, ok)
		assert.Equal(t, Stats{Devices: 0, Descriptors: 2}, store.Stats())
	case Cached:
		require.True(t, ok)
		for _, obj := range last.Profile.DeviceResources {
			assert.Contains(t, e.objects, obj.Name)
		}
		assert.Len(t, e.objects, 1)
		assert.Len(t, e.commands, 1)
	default:
		t.Fatalf("unexpected last outcome %s", last.Outcome)
	}
}
