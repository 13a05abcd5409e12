package logic

import (
	"errors"
	"time"
)

// Controller is the part of Engine a Sequencer drives.
type Controller interface {
	Start() error
	Stop() error
	Flash() error
	AdvanceLevel()
	Level() int
	State() State
}

// SequenceConfig shapes the activation sequence.
type SequenceConfig struct {
	// Step is the time between level advances. Zero disables ramping.
	Step time.Duration
	// Hold is the time spent at MaxLevel before the final flash.
	Hold time.Duration
	// Rest is the dark time before the sequence restarts. Zero runs once.
	Rest time.Duration
}

// Phase is the sequencer's position in the activation sequence.
type Phase string

const (
	PhaseIdle Phase = "idle"
	PhaseRamp Phase = "ramp"
	PhaseHold Phase = "hold"
	PhaseRest Phase = "rest"
	PhaseDone Phase = "done"
)

// Sequencer ramps an engine from level 1 to MaxLevel, holds, then stops it with
// a final flash. Like Engine it is polled and never blocks.
type Sequencer struct {
	ctrl  Controller
	cfg   SequenceConfig
	phase Phase
	since time.Time
	runs  int
}

// NewSequencer creates an idle sequencer for ctrl.
func NewSequencer(ctrl Controller, cfg SequenceConfig) *Sequencer {
	return &Sequencer{
		ctrl:  ctrl,
		cfg:   cfg,
		phase: PhaseIdle,
	}
}

// Begin starts the engine and, if ramping is enabled, the ramp.
func (s *Sequencer) Begin(now time.Time) error {
	s.since = now
	s.runs++
	if s.cfg.Step > 0 {
		s.phase = PhaseRamp
	} else {
		s.phase = PhaseDone
	}
	return s.ctrl.Start()
}

// Step moves the sequence forward if its current phase has elapsed.
func (s *Sequencer) Step(now time.Time) error {
	elapsed := now.Sub(s.since)

	switch s.phase {
	case PhaseRamp:
		switch s.ctrl.State() {
		case StateStopped:
			// Stopped from outside the sequence.
			s.phase = PhaseDone
			return nil
		case StateFlashing:
			return nil
		}
		if s.ctrl.Level() >= MaxLevel {
			s.enter(PhaseHold, now)
			return nil
		}
		if elapsed < s.cfg.Step {
			return nil
		}
		s.since = now
		s.ctrl.AdvanceLevel()
		if s.ctrl.Level() >= MaxLevel {
			s.enter(PhaseHold, now)
		}

	case PhaseHold:
		if s.ctrl.State() == StateStopped {
			s.phase = PhaseDone
			return nil
		}
		if elapsed < s.cfg.Hold {
			return nil
		}
		if s.cfg.Rest > 0 {
			s.enter(PhaseRest, now)
		} else {
			s.enter(PhaseDone, now)
		}
		// Stop first so the flash resumes to dark.
		return errors.Join(s.ctrl.Stop(), s.ctrl.Flash())

	case PhaseRest:
		if s.ctrl.State() != StateStopped || elapsed < s.cfg.Rest {
			return nil
		}
		return s.Begin(now)
	}

	return nil
}

func (s *Sequencer) enter(p Phase, now time.Time) {
	s.phase = p
	s.since = now
}

// Phase returns the current phase.
func (s *Sequencer) Phase() Phase {
	return s.phase
}

// Runs returns how many times the sequence has begun.
func (s *Sequencer) Runs() int {
	return s.runs
}
