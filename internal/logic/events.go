package logic

import "time"

// Changes returns the events implied by moving from prev to next.
// Events are ordered: flash end, start/stop, level, flash start.
func Changes(prev, next Snapshot, at time.Time) []Event {
	var events []Event
	emit := func(t EventType) {
		events = append(events, Event{
			Timestamp: at,
			Type:      t,
			State:     next.State,
			Level:     next.Level,
		})
	}

	if prev.State == StateFlashing && next.State != StateFlashing {
		emit(EventFlashEnd)
	}

	from, to := settled(prev), settled(next)
	switch {
	case from != StateRunning && to == StateRunning:
		emit(EventStarted)
	case from == StateRunning && to != StateRunning:
		emit(EventStopped)
	case from == StateRunning && prev.Level != next.Level:
		emit(EventLevel)
	}

	if next.Flashes > prev.Flashes {
		emit(EventFlashStart)
	}

	return events
}

// settled is the state s represents once any running flash is over.
func settled(s Snapshot) State {
	if s.State == StateFlashing {
		return s.Resume
	}
	return s.State
}
