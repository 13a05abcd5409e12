package mqtt

import (
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"

	"github.com/sweeney/fluxcap/internal/logic"
)

const outboxSize = 256

// ErrQueued is returned by PublishSystem when the broker is unreachable and
// the event was kept for replay instead of being delivered.
var ErrQueued = errors.New("mqtt: not connected, message queued")

// client is the part of paho.Client the publisher uses.
type client interface {
	IsConnectionOpen() bool
	Publish(topic string, qos byte, retained bool, payload interface{}) paho.Token
	Disconnect(quiesce uint)
}

var _ client = paho.Client(nil)

// RealPublisher publishes to an actual MQTT broker. Connection happens in the
// background; messages published while disconnected are replayed on connect.
type RealPublisher struct {
	client client

	// mu orders live publishes after the replay of queued ones.
	mu     sync.Mutex
	online bool // set once the outbox has been replayed on the current connection
	outbox *outbox
}

// NewRealPublisher creates a publisher for broker and starts connecting.
// It does not wait for the connection.
func NewRealPublisher(broker, clientID string) *RealPublisher {
	p := &RealPublisher{outbox: newOutbox(outboxSize)}

	will, _ := FormatSystemPayload(SystemEvent{Timestamp: time.Now(), Event: "OFFLINE", Reason: "LWT"})

	opts := paho.NewClientOptions().
		AddBroker(broker).
		SetClientID(clientID).
		SetAutoReconnect(true).
		SetConnectRetry(true).
		SetConnectRetryInterval(5 * time.Second).
		SetWill(TopicSystem, string(will), 1, true).
		SetOnConnectHandler(func(paho.Client) { p.onConnect() }).
		SetConnectionLostHandler(func(_ paho.Client, err error) { p.onConnectionLost(err) })

	c := paho.NewClient(opts)
	p.client = c
	c.Connect()
	return p
}

func newPublisher(c client) *RealPublisher {
	return &RealPublisher{client: c, outbox: newOutbox(outboxSize)}
}

// Publish sends an engine event, QoS 0, not retained.
// Delivery is not awaited: the caller is the animation loop.
func (p *RealPublisher) Publish(event logic.Event) error {
	payload, err := FormatPayload(event)
	if err != nil {
		return fmt.Errorf("format payload: %w", err)
	}
	token := p.send(message{topic: TopicEvents, payload: payload})
	if token != nil {
		go func() {
			if token.WaitTimeout(5*time.Second) && token.Error() != nil {
				log.Printf("mqtt: publish error: %v", token.Error())
			}
		}()
	}
	return nil
}

// PublishSystem sends a lifecycle event with QoS 1 and waits briefly for it.
// While disconnected the event is queued and ErrQueued is returned.
func (p *RealPublisher) PublishSystem(event SystemEvent) error {
	payload, err := FormatSystemPayload(event)
	if err != nil {
		return fmt.Errorf("format system payload: %w", err)
	}

	token := p.send(message{topic: TopicSystem, payload: payload, qos: 1, retained: event.Retained})
	if token == nil {
		return ErrQueued
	}
	if !token.WaitTimeout(5 * time.Second) {
		return fmt.Errorf("publish system timeout")
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("publish system: %w", err)
	}
	return nil
}

// IsConnected reports whether the broker connection is open.
func (p *RealPublisher) IsConnected() bool {
	return p.client.IsConnectionOpen()
}

// Close disconnects from the broker. Anything still queued is lost.
func (p *RealPublisher) Close() error {
	p.mu.Lock()
	if n := p.outbox.len(); n > 0 {
		log.Printf("mqtt: closing with %d unsent messages", n)
	}
	p.online = false
	p.mu.Unlock()

	p.client.Disconnect(1000) // 1 second to flush
	return nil
}

// send publishes msg, or queues it and returns nil while offline.
func (p *RealPublisher) send(msg message) paho.Token {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.online || !p.client.IsConnectionOpen() {
		p.outbox.add(msg)
		return nil
	}
	return p.client.Publish(msg.topic, msg.qos, msg.retained, msg.payload)
}

func (p *RealPublisher) onConnect() {
	p.mu.Lock()
	defer p.mu.Unlock()

	msgs := p.outbox.drain()
	log.Printf("mqtt: connected, replaying %d buffered messages", len(msgs))
	for _, m := range msgs {
		p.client.Publish(m.topic, m.qos, m.retained, m.payload)
	}
	p.online = true
}

func (p *RealPublisher) onConnectionLost(err error) {
	log.Printf("mqtt: connection lost: %v", err)
	p.mu.Lock()
	p.online = false
	p.mu.Unlock()
}
