// Package logic contains the pure animation logic for the flux capacitor lights.
// This package has NO external dependencies (no GPIO, MQTT, OS, or time.Sleep).
// Time and randomness are always injected.
package logic

import "time"

// State is the engine's top-level mode.
type State string

const (
	StateStopped  State = "STOPPED"
	StateRunning  State = "RUNNING"
	StateFlashing State = "FLASHING"
)

// MaxLevel is the highest intensity level.
const MaxLevel = 8

// DefaultFlashDuration is used by Flash when no custom duration is pending.
const DefaultFlashDuration = 200 * time.Millisecond

// Light counts supported by the engine.
const (
	FourLights = 4
	FiveLights = 5
)

// Central is the output index of the central light.
const Central = 0

//	level:              0    1    2    3    4    5    6    7    8
var ringBrightness = [MaxLevel + 1]uint8{0, 5, 10, 10, 20, 50, 100, 220, 255}
var blinkMillis = [MaxLevel + 1]int{150, 150, 100, 90, 80, 70, 20, 20, 10}

// Brightness returns the ring light brightness for level.
func Brightness(level int) uint8 {
	return ringBrightness[clampLevel(level)]
}

// BlinkInterval returns the time between rotation ticks at level.
func BlinkInterval(level int) time.Duration {
	return time.Duration(blinkMillis[clampLevel(level)]) * time.Millisecond
}

func clampLevel(level int) int {
	if level < 0 {
		return 0
	}
	if level > MaxLevel {
		return MaxLevel
	}
	return level
}

// Output is a single light as seen by the engine.
// Values are 0 (off) to 255 (full brightness).
type Output interface {
	Init() error
	WriteAnalog(value uint8) error
	On() error
	Off() error
}

// Rand is a source of uniformly distributed integers in [0, n).
// *math/rand.Rand satisfies it.
type Rand interface {
	Intn(n int) int
}

// Snapshot is a point-in-time copy of engine state.
type Snapshot struct {
	State             State
	Level             int
	LightCount        int
	Rotation          int
	CentralBrightness int
	FlashDuration     time.Duration
	// Resume is the state a running flash returns to.
	Resume State
	// Ticks counts rotation ticks since construction.
	Ticks uint64
	// Flashes counts flash overrides begun since construction.
	Flashes uint64
}

// EventType is a change observed between two snapshots.
type EventType string

const (
	EventStarted    EventType = "STARTED"
	EventStopped    EventType = "STOPPED"
	EventLevel      EventType = "LEVEL"
	EventFlashStart EventType = "FLASH_START"
	EventFlashEnd   EventType = "FLASH_END"
)

// Event is a state change to be published.
type Event struct {
	Timestamp time.Time
	Type      EventType
	State     State
	Level     int
}
