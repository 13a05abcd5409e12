package status

import (
	"encoding/json"
	"time"
)

// StatusJSON is the top-level JSON envelope for status output.
type StatusJSON struct {
	Status StatusInner `json:"status"`
}

// StatusInner contains the status details.
type StatusInner struct {
	State         string     `json:"state"`
	Level         int        `json:"level"`
	Lights        int        `json:"lights"`
	Rotation      int        `json:"rotation"`
	Central       int        `json:"central_brightness"`
	Ticks         uint64     `json:"ticks"`
	Flashes       uint64     `json:"flashes"`
	Sequence      Sequence   `json:"sequence"`
	UptimeSeconds int64      `json:"uptime_seconds"`
	StartTime     string     `json:"start_time"`
	Timestamp     string     `json:"timestamp"`
	MQTT          MQTTStatus `json:"mqtt"`
	Counts        CountsJSON `json:"event_counts"`
	Config        ConfigJSON `json:"config"`
}

// Sequence reports the sequencer phase.
type Sequence struct {
	Phase string `json:"phase"`
	Runs  int    `json:"runs"`
}

// MQTTStatus reports MQTT connection state.
type MQTTStatus struct {
	Connected bool   `json:"connected"`
	Broker    string `json:"broker"`
}

// CountsJSON is the JSON representation of event counts.
type CountsJSON struct {
	Started    int `json:"started"`
	Stopped    int `json:"stopped"`
	Level      int `json:"level"`
	FlashStart int `json:"flash_start"`
	FlashEnd   int `json:"flash_end"`
}

// ConfigJSON is the JSON representation of daemon config.
type ConfigJSON struct {
	Driver   string `json:"driver"`
	Pins     []int  `json:"pins"`
	PollMs   int64  `json:"poll_ms"`
	StepMs   int64  `json:"step_ms"`
	HoldMs   int64  `json:"hold_ms"`
	RestMs   int64  `json:"rest_ms"`
	FlashMs  int64  `json:"flash_ms"`
	Broker   string `json:"broker"`
	HTTPAddr string `json:"http_addr"`
}

// Build converts a snapshot into its JSON shape.
func Build(snap Snapshot) StatusJSON {
	state := string(snap.Engine.State)
	if state == "" {
		state = "UNKNOWN"
	}
	phase := snap.Phase
	if phase == "" {
		phase = "idle"
	}
	pins := snap.Config.Pins
	if pins == nil {
		pins = []int{}
	}

	return StatusJSON{Status: StatusInner{
		State:         state,
		Level:         snap.Engine.Level,
		Lights:        snap.Engine.LightCount,
		Rotation:      snap.Engine.Rotation,
		Central:       snap.Engine.CentralBrightness,
		Ticks:         snap.Engine.Ticks,
		Flashes:       snap.Engine.Flashes,
		Sequence:      Sequence{Phase: phase, Runs: snap.Runs},
		UptimeSeconds: int64(snap.Uptime().Truncate(time.Second).Seconds()),
		StartTime:     snap.StartTime.UTC().Format(time.RFC3339),
		Timestamp:     snap.Now.UTC().Format(time.RFC3339),
		MQTT:          MQTTStatus{Connected: snap.MQTTConnected, Broker: snap.Config.Broker},
		Counts: CountsJSON{
			Started:    snap.Counts.Started,
			Stopped:    snap.Counts.Stopped,
			Level:      snap.Counts.Level,
			FlashStart: snap.Counts.FlashStart,
			FlashEnd:   snap.Counts.FlashEnd,
		},
		Config: ConfigJSON{
			Driver:   snap.Config.Driver,
			Pins:     pins,
			PollMs:   snap.Config.PollMs,
			StepMs:   snap.Config.StepMs,
			HoldMs:   snap.Config.HoldMs,
			RestMs:   snap.Config.RestMs,
			FlashMs:  snap.Config.FlashMs,
			Broker:   snap.Config.Broker,
			HTTPAddr: snap.Config.HTTPAddr,
		},
	}}
}

// FormatJSON returns the indented JSON status for the web endpoint.
func FormatJSON(snap Snapshot) []byte {
	data, _ := json.MarshalIndent(Build(snap), "", "  ")
	return data
}
