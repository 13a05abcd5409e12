package mqtt

import (
	"sync"

	"github.com/sweeney/fluxcap/internal/logic"
)

// Sent is one message accepted by a FakePublisher, as it would go on the wire.
type Sent struct {
	Topic    string
	Payload  []byte
	QoS      byte
	Retained bool
}

// FakePublisher is an in-memory Publisher for tests. It formats every
// message exactly as the real publisher does and keeps it, in order, in Sent.
// Configure the exported fields before use; reads after use are safe once
// the code under test has returned.
type FakePublisher struct {
	mu sync.Mutex

	Sent         []Sent
	Events       []logic.Event
	SystemEvents []SystemEvent
	// Payloads holds the engine event payloads only.
	Payloads [][]byte

	// Injected failures. A failed publish records nothing.
	PublishError       error
	PublishSystemError error

	Connected bool
	Closed    bool
}

func NewFakePublisher() *FakePublisher {
	return &FakePublisher{}
}

func (f *FakePublisher) Publish(event logic.Event) error {
	if f.PublishError != nil {
		return f.PublishError
	}
	payload, err := FormatPayload(event)
	if err != nil {
		return err
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.Sent = append(f.Sent, Sent{Topic: TopicEvents, Payload: payload})
	f.Events = append(f.Events, event)
	f.Payloads = append(f.Payloads, payload)
	return nil
}

func (f *FakePublisher) PublishSystem(event SystemEvent) error {
	if f.PublishSystemError != nil {
		return f.PublishSystemError
	}
	payload, err := FormatSystemPayload(event)
	if err != nil {
		return err
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.Sent = append(f.Sent, Sent{Topic: TopicSystem, Payload: payload, QoS: 1, Retained: event.Retained})
	f.SystemEvents = append(f.SystemEvents, event)
	return nil
}

func (f *FakePublisher) Close() error {
	f.mu.Lock()
	f.Closed = true
	f.mu.Unlock()
	return nil
}

func (f *FakePublisher) IsConnected() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.Connected
}

// EventTypes lists the types of the engine events sent so far.
func (f *FakePublisher) EventTypes() []logic.EventType {
	f.mu.Lock()
	defer f.mu.Unlock()
	types := make([]logic.EventType, 0, len(f.Events))
	for _, e := range f.Events {
		types = append(types, e.Type)
	}
	return types
}

// Topics lists the topic of every message sent so far.
func (f *FakePublisher) Topics() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	topics := make([]string, 0, len(f.Sent))
	for _, s := range f.Sent {
		topics = append(topics, s.Topic)
	}
	return topics
}
