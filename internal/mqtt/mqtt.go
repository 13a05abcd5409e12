// Package mqtt provides MQTT publishing with abstraction for testing.
package mqtt

import (
	"encoding/json"
	"time"

	"github.com/sweeney/fluxcap/internal/logic"
)

// TopicEvents is the MQTT topic for engine state changes.
const TopicEvents = "fluxcap/events"

// TopicSystem is the MQTT topic for daemon lifecycle events.
const TopicSystem = "fluxcap/system"

// Publisher publishes events to MQTT.
type Publisher interface {
	// Publish sends an engine event to the broker.
	// It must not block the run loop; delivery failures are logged, not returned.
	Publish(event logic.Event) error

	// PublishSystem sends a daemon lifecycle event to the broker.
	// ErrQueued means it was kept for delivery on the next connection.
	PublishSystem(event SystemEvent) error

	// Close disconnects from the broker.
	Close() error
}

// ConnectionStatus reports whether the MQTT connection is active.
type ConnectionStatus interface {
	IsConnected() bool
}

// SystemEvent represents a lifecycle event (startup, shutdown, offline).
type SystemEvent struct {
	Timestamp time.Time
	Event     string // e.g. "STARTUP", "SHUTDOWN"
	Reason    string // e.g. "SIGTERM" (shutdown only)
	Lights    int
	Driver    string
	Retained  bool
}

// Payload is the MQTT message body for engine events.
type Payload struct {
	Flux FluxPayload `json:"flux"`
}

// FluxPayload contains the engine event details.
type FluxPayload struct {
	Timestamp string `json:"timestamp"`
	Event     string `json:"event"`
	State     string `json:"state"`
	Level     int    `json:"level"`
}

// FormatPayload creates the JSON payload for an engine event.
func FormatPayload(event logic.Event) ([]byte, error) {
	return json.Marshal(Payload{
		Flux: FluxPayload{
			Timestamp: event.Timestamp.UTC().Format(time.RFC3339),
			Event:     string(event.Type),
			State:     string(event.State),
			Level:     event.Level,
		},
	})
}

// SystemPayload is the MQTT message body for lifecycle events.
type SystemPayload struct {
	System SystemPayloadInner `json:"system"`
}

// SystemPayloadInner contains the lifecycle event details.
type SystemPayloadInner struct {
	Timestamp string `json:"timestamp"`
	Event     string `json:"event"`
	Reason    string `json:"reason,omitempty"`
	Lights    int    `json:"lights,omitempty"`
	Driver    string `json:"driver,omitempty"`
}

// FormatSystemPayload creates the JSON payload for a lifecycle event.
func FormatSystemPayload(event SystemEvent) ([]byte, error) {
	return json.Marshal(SystemPayload{
		System: SystemPayloadInner{
			Timestamp: event.Timestamp.UTC().Format(time.RFC3339),
			Event:     event.Event,
			Reason:    event.Reason,
			Lights:    event.Lights,
			Driver:    event.Driver,
		},
	})
}

// NopPublisher discards everything. Used when no broker is configured.
type NopPublisher struct{}

func (NopPublisher) Publish(logic.Event) error       { return nil }
func (NopPublisher) PublishSystem(SystemEvent) error { return nil }
func (NopPublisher) Close() error                    { return nil }
func (NopPublisher) IsConnected() bool               { return false }
