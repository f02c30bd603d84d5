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

// Package notify publishes profile cache changes to an MQTT broker.
package notify

import (
	"context"
	"encoding/json"
	"path"
	"strings"

	"github.com/google/uuid"
	"k8s.io/klog/v2"
	"k8s.io/utils/clock"

	"github.com/kubeedge/profilecache/pkg/deviceservice/store/profile"
)

const defaultBuffer = 256

// BaseMessage the base struct of event message
type BaseMessage struct {
	EventID   string `json:"event_id"`
	Timestamp int64  `json:"timestamp"`
}

// DeviceEvent is published for every device lifecycle result
type DeviceEvent struct {
	BaseMessage
	Device      string                `json:"device"`
	Outcome     profile.Outcome       `json:"outcome"`
	Error       string                `json:"error,omitempty"`
	Objects     int                   `json:"objects,omitempty"`
	Commands    int                   `json:"commands,omitempty"`
	Descriptors profile.ResolveReport `json:"descriptors"`
}

// DescriptorEvent is published when descriptors were created for a device
type DescriptorEvent struct {
	BaseMessage
	Device  string   `json:"device"`
	Created []string `json:"created"`
}

type message struct {
	topic   string
	payload []byte
}

// Notifier is a profile.Listener publishing results asynchronously.
// Messages are dropped when the queue is full.
type Notifier struct {
	publisher Publisher
	prefix    string
	queue     chan message
	clock     clock.PassiveClock
}

var _ profile.Listener = &Notifier{}

// NewNotifier returns a notifier publishing under prefix
func NewNotifier(publisher Publisher, prefix string) *Notifier {
	return &Notifier{
		publisher: publisher,
		prefix:    strings.TrimSuffix(prefix, "/"),
		queue:     make(chan message, defaultBuffer),
		clock:     clock.RealClock{},
	}
}

// newBaseMessage stamps an event with a new id and the time in milliseconds
func (n *Notifier) newBaseMessage() BaseMessage {
	return BaseMessage{EventID: uuid.New().String(), Timestamp: n.clock.Now().UnixMilli()}
}

// DeviceTopic returns the topic of results for device
func (n *Notifier) DeviceTopic(device string, outcome profile.Outcome) string {
	return path.Join(n.prefix, "device", device, strings.ToLower(string(outcome)))
}

// DescriptorTopic returns the topic of created descriptors
func (n *Notifier) DescriptorTopic() string {
	return path.Join(n.prefix, "valuedescriptor", "created")
}

// OnResult queues the messages describing result
func (n *Notifier) OnResult(result profile.Result) {
	if result.Device == "" {
		return
	}
	event := DeviceEvent{
		BaseMessage: n.newBaseMessage(),
		Device:      result.Device,
		Outcome:     result.Outcome,
		Error:       result.Error(),
		Objects:     result.Objects,
		Commands:    result.Commands,
		Descriptors: result.Descriptors,
	}
	n.enqueue(n.DeviceTopic(result.Device, result.Outcome), event)

	if created := result.Descriptors.Created(); len(created) > 0 {
		n.enqueue(n.DescriptorTopic(), DescriptorEvent{
			BaseMessage: n.newBaseMessage(),
			Device:      result.Device,
			Created:     created,
		})
	}
}

func (n *Notifier) enqueue(topic string, event interface{}) {
	payload, err := json.Marshal(event)
	if err != nil {
		klog.Errorf("marshal event for %s failed: %v", topic, err)
		return
	}
	select {
	case n.queue <- message{topic: topic, payload: payload}:
	default:
		klog.Warningf("notification queue full, dropping message for %s", topic)
	}
}

// Run publishes queued messages until ctx is done
func (n *Notifier) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			klog.Infof("notifier stopped")
			return
		case msg := <-n.queue:
			if err := n.publisher.Publish(msg.topic, msg.payload); err != nil {
				klog.Errorf("publish to %s failed: %v", msg.topic, err)
				continue
			}
			klog.V(4).Infof("published to %s", msg.topic)
		}
	}
}
