// Package metrics exports engine state as Prometheus metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/sweeney/fluxcap/internal/logic"
)

var states = []logic.State{logic.StateStopped, logic.StateRunning, logic.StateFlashing}

// Recorder turns engine snapshots and events into metrics.
// Observe is called from the run loop only; it is not safe for concurrent use.
// Scraping the registry is.
type Recorder struct {
	level        prometheus.Gauge
	state        *prometheus.GaugeVec
	ticks        prometheus.Counter
	flashes      prometheus.Counter
	events       *prometheus.CounterVec
	outputErrors prometheus.Counter

	last logic.Snapshot
}

// NewRecorder creates a Recorder and registers its metrics with reg.
func NewRecorder(reg prometheus.Registerer) *Recorder {
	r := &Recorder{
		level: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "fluxcap_level",
			Help: "Current intensity level (0-8)",
		}),
		state: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "fluxcap_state",
				Help: "1 for the current engine state, 0 otherwise",
			},
			[]string{"state"},
		),
		ticks: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "fluxcap_ticks_total",
			Help: "Rotation ticks processed",
		}),
		flashes: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "fluxcap_flashes_total",
			Help: "Flash overrides begun",
		}),
		events: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fluxcap_events_total",
				Help: "State change events by type",
			},
			[]string{"type"},
		),
		outputErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "fluxcap_output_errors_total",
			Help: "Engine calls that reported a light write failure",
		}),
	}

	reg.MustRegister(r.level, r.state, r.ticks, r.flashes, r.events, r.outputErrors)

	for _, s := range states {
		r.state.WithLabelValues(string(s)).Set(0)
	}
	r.state.WithLabelValues(string(logic.StateStopped)).Set(1)
	return r
}

// Observe records snap and the events derived from it.
// Counters advance by the difference from the previous snapshot.
func (r *Recorder) Observe(snap logic.Snapshot, events []logic.Event) {
	r.level.Set(float64(snap.Level))
	for _, s := range states {
		v := 0.0
		if s == snap.State {
			v = 1
		}
		r.state.WithLabelValues(string(s)).Set(v)
	}

	if snap.Ticks > r.last.Ticks {
		r.ticks.Add(float64(snap.Ticks - r.last.Ticks))
	}
	if snap.Flashes > r.last.Flashes {
		r.flashes.Add(float64(snap.Flashes - r.last.Flashes))
	}
	for _, e := range events {
		r.events.WithLabelValues(string(e.Type)).Inc()
	}

	r.last = snap
}

// OutputError counts a failed engine call.
func (r *Recorder) OutputError() {
	r.outputErrors.Inc()
}
