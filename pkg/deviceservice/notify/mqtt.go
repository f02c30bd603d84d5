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

package notify

import (
	"fmt"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/google/uuid"

	"github.com/kubeedge/profilecache/pkg/apis/componentconfig/profilecache/v1alpha1"
)

const connectTimeout = 10 * time.Second

// Publisher sends a payload to a topic
type Publisher interface {
	Publish(topic string, payload interface{}) error
}

// MqttClient is a Publisher over a paho client
type MqttClient struct {
	Qos      byte
	Retained bool
	Broker   string
	User     string
	Passwd   string
	Client   mqtt.Client
}

// NewMqttClient returns an unconnected client for cfg
func NewMqttClient(cfg *v1alpha1.Notifier) *MqttClient {
	return &MqttClient{
		Qos:    cfg.QOS,
		Broker: cfg.Broker,
		User:   cfg.Username,
		Passwd: cfg.Password,
	}
}

// Connect connects to the broker, reconnecting automatically afterwards.
func (mc *MqttClient) Connect() error {
	opts := mqtt.NewClientOptions().
		AddBroker(mc.Broker).
		SetClientID("profilecache-" + uuid.New().String()).
		SetCleanSession(true).
		SetAutoReconnect(true).
		SetUsername(mc.User).
		SetPassword(mc.Passwd)

	mc.Client = mqtt.NewClient(opts)
	// The token is used to indicate when actions have completed.
	tc := mc.Client.Connect()
	if !tc.WaitTimeout(connectTimeout) {
		return fmt.Errorf("connecting to %s timed out", mc.Broker)
	}
	return tc.Error()
}

// Publish sends payload to topic and waits for the broker
func (mc *MqttClient) Publish(topic string, payload interface{}) error {
	if tc := mc.Client.Publish(topic, mc.Qos, mc.Retained, payload); tc.Wait() && tc.Error() != nil {
		return tc.Error()
	}
	return nil
}

// Disconnect waits up to 250ms for in-flight work and closes the connection
func (mc *MqttClient) Disconnect() {
	if mc.Client != nil && mc.Client.IsConnected() {
		mc.Client.Disconnect(250)
	}
}
