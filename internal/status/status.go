// Package status provides a thread-safe status tracker for the fluxcap daemon.
// The run loop writes it; HTTP handlers read it.
package status

import (
	"sync"
	"time"

	"github.com/sweeney/fluxcap/internal/logic"
)

// Config contains daemon configuration for display.
type Config struct {
	Driver   string
	Pins     []int
	PollMs   int64
	StepMs   int64
	HoldMs   int64
	RestMs   int64
	FlashMs  int64
	Broker   string
	HTTPAddr string
}

// EventCounts tallies published events by type.
type EventCounts struct {
	Started    int
	Stopped    int
	Level      int
	FlashStart int
	FlashEnd   int
}

func (c *EventCounts) add(e logic.Event) {
	switch e.Type {
	case logic.EventStarted:
		c.Started++
	case logic.EventStopped:
		c.Stopped++
	case logic.EventLevel:
		c.Level++
	case logic.EventFlashStart:
		c.FlashStart++
	case logic.EventFlashEnd:
		c.FlashEnd++
	}
}

// Snapshot is a point-in-time view of daemon state.
// It is a value type, safe to use after the lock is released.
type Snapshot struct {
	Engine        logic.Snapshot
	Phase         string
	Runs          int
	Counts        EventCounts
	StartTime     time.Time
	Now           time.Time
	MQTTConnected bool
	Config        Config
}

// Uptime returns the duration since the daemon started.
func (s Snapshot) Uptime() time.Duration {
	return s.Now.Sub(s.StartTime)
}

// Tracker holds mutable daemon state behind an RWMutex.
type Tracker struct {
	mu   sync.RWMutex
	snap Snapshot
	now  func() time.Time
}

// NewTracker creates a Tracker with the given start time and config.
func NewTracker(startTime time.Time, cfg Config) *Tracker {
	cfg.Pins = append([]int(nil), cfg.Pins...)
	return &Tracker{
		snap: Snapshot{
			Engine:    logic.Snapshot{State: logic.StateStopped},
			StartTime: startTime,
			Config:    cfg,
		},
		now: time.Now,
	}
}

// Update records the engine state, sequencer progress and new events.
// Called from runLoop on every tick.
func (t *Tracker) Update(engine logic.Snapshot, phase string, runs int, events []logic.Event) {
	t.mu.Lock()
	t.snap.Engine = engine
	t.snap.Phase = phase
	t.snap.Runs = runs
	for _, e := range events {
		t.snap.Counts.add(e)
	}
	t.mu.Unlock()
}

// SetMQTTConnected sets the MQTT connection status.
func (t *Tracker) SetMQTTConnected(connected bool) {
	t.mu.Lock()
	t.snap.MQTTConnected = connected
	t.mu.Unlock()
}

// Snapshot returns a point-in-time copy of the daemon state.
// The Now field is set to the current time at the moment of the call.
func (t *Tracker) Snapshot() Snapshot {
	t.mu.RLock()
	s := t.snap
	t.mu.RUnlock()
	s.Now = t.now()
	return s
}
