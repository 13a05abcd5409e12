package logic

import (
	"errors"
	"fmt"
	"math/rand"
	"time"
)

// Engine animates one set of lights. It never blocks: the host must call Poll
// frequently from a single goroutine.
type Engine struct {
	outputs []Output
	now     func() time.Time
	rng     Rand

	level             int
	state             State
	rotation          int
	centralBrightness int
	lastTick          time.Time
	flashDuration     time.Duration
	savedState        State

	ticks   uint64
	flashes uint64
}

// New creates a stopped engine driving outputs, where outputs[0] is the central
// light and the rest are ring lights in rotation order. It panics unless there
// are exactly 4 or 5 non-nil outputs.
// A nil now defaults to time.Now; a nil rng to a time-seeded math/rand source.
func New(outputs []Output, now func() time.Time, rng Rand) *Engine {
	if n := len(outputs); n != FourLights && n != FiveLights {
		panic(fmt.Sprintf("logic: engine needs %d or %d outputs, got %d", FourLights, FiveLights, n))
	}
	for i, o := range outputs {
		if o == nil {
			panic(fmt.Sprintf("logic: output %d is nil", i))
		}
	}
	if now == nil {
		now = time.Now
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	owned := make([]Output, len(outputs))
	copy(owned, outputs)

	return &Engine{
		outputs:    owned,
		now:        now,
		rng:        rng,
		state:      StateStopped,
		savedState: StateStopped,
	}
}

// NewFourLight creates an engine with a central light and three ring lights.
func NewFourLight(central, a, b, c Output, now func() time.Time, rng Rand) *Engine {
	return New([]Output{central, a, b, c}, now, rng)
}

// NewFiveLight creates an engine with a central light and four ring lights.
func NewFiveLight(central, a, b, c, d Output, now func() time.Time, rng Rand) *Engine {
	return New([]Output{central, a, b, c, d}, now, rng)
}

// Init initializes every output. It is safe to call more than once.
func (e *Engine) Init() error {
	var errs []error
	for i, o := range e.outputs {
		if err := o.Init(); err != nil {
			errs = append(errs, fmt.Errorf("init light %d: %w", i, err))
		}
	}
	return errors.Join(errs...)
}

// Start begins the sequence at level 1 and lights the last ring light at once.
func (e *Engine) Start() error {
	e.lastTick = e.now()
	e.state = StateRunning
	e.savedState = StateStopped
	e.level = 1
	e.rotation = len(e.outputs) - 1
	return e.set(e.rotation, Brightness(e.level))
}

// Stop turns every light off and returns to level 0.
// A flash in progress is cancelled and will not resume anything.
func (e *Engine) Stop() error {
	e.lastTick = e.now()
	e.state = StateStopped
	e.savedState = StateStopped
	e.level = 0
	e.rotation = 0
	e.centralBrightness = 0
	return e.allOff()
}

// Flash turns every light fully on until the pending flash duration elapses,
// then Poll resumes the state that was active before.
func (e *Engine) Flash() error {
	e.lastTick = e.now()
	if e.flashDuration <= 0 {
		e.flashDuration = DefaultFlashDuration
	}
	// Re-flashing restarts the timer but keeps the first resume target.
	if e.state != StateFlashing {
		e.savedState = e.state
	}
	e.state = StateFlashing
	e.flashes++

	var errs []error
	for i, o := range e.outputs {
		if err := o.On(); err != nil {
			errs = append(errs, fmt.Errorf("turn on light %d: %w", i, err))
		}
	}
	return errors.Join(errs...)
}

// FlashFor flashes for d. The duration stays pending for bare Flash calls until
// a flash completes, after which the default applies again.
func (e *Engine) FlashFor(d time.Duration) error {
	e.flashDuration = d
	return e.Flash()
}

// SetLevel sets the level, clamped to [0, MaxLevel].
func (e *Engine) SetLevel(level int) {
	e.level = clampLevel(level)
}

// AdvanceLevel moves to the next level. It does nothing at level 0.
func (e *Engine) AdvanceLevel() {
	if e.level == 0 {
		return
	}
	e.level++
	if e.level > MaxLevel {
		e.level = MaxLevel
	}
}

// Level returns the current level.
func (e *Engine) Level() int {
	return e.level
}

// LightCount returns the number of configured lights.
func (e *Engine) LightCount() int {
	return len(e.outputs)
}

// State returns the current state.
func (e *Engine) State() State {
	return e.state
}

// Snapshot returns a copy of the engine state.
func (e *Engine) Snapshot() Snapshot {
	return Snapshot{
		State:             e.state,
		Level:             e.level,
		LightCount:        len(e.outputs),
		Rotation:          e.rotation,
		CentralBrightness: e.centralBrightness,
		FlashDuration:     e.flashDuration,
		Resume:            e.savedState,
		Ticks:             e.ticks,
		Flashes:           e.flashes,
	}
}

// Poll advances the animation if an interval boundary has passed.
// At most one tick is processed per call. The returned error joins any
// output write failures; state changes are applied regardless.
func (e *Engine) Poll() error {
	now := e.now()

	switch e.state {
	case StateRunning:
		interval := BlinkInterval(e.level)
		if now.Before(e.lastTick.Add(interval)) {
			return nil
		}
		// Step by the interval, not to now, so irregular polling does not drift.
		e.lastTick = e.lastTick.Add(interval)
		return e.tick()

	case StateFlashing:
		if now.Before(e.lastTick.Add(e.flashDuration)) {
			return nil
		}
		e.lastTick = e.lastTick.Add(e.flashDuration)
		e.state = e.savedState
		e.savedState = StateStopped
		e.flashDuration = DefaultFlashDuration
		return e.render()
	}

	return nil
}

// tick advances the rotation by one ring light.
func (e *Engine) tick() error {
	e.ticks++

	e.rotation--
	if e.rotation <= Central {
		e.rotation = len(e.outputs) - 1
	}

	var errs []error
	for i := 1; i < len(e.outputs); i++ {
		if i == e.rotation {
			errs = append(errs, e.set(i, Brightness(e.level)))
		} else {
			errs = append(errs, e.off(i))
		}
	}

	// Once per full rotation.
	if e.rotation == 1 {
		errs = append(errs, e.flicker())
	}

	e.centralBrightness -= 5
	if e.centralBrightness < 0 {
		e.centralBrightness = 0
	}

	return errors.Join(errs...)
}

// flicker recomputes the central light for levels above 4.
func (e *Engine) flicker() error {
	if e.level > 4 && e.rng.Intn(e.level*2) > MaxLevel {
		e.centralBrightness += e.rng.Intn(35) + (e.level-5)*35
	}
	if e.centralBrightness > 255 {
		e.centralBrightness = 255
	}

	switch {
	case e.level > 4 && e.level < MaxLevel:
		return e.set(Central, uint8(e.centralBrightness))

	case e.level == MaxLevel:
		err := e.set(Central, uint8(235+e.rng.Intn(20)))
		e.centralBrightness = 255
		if e.rng.Intn(3) == 1 {
			err = errors.Join(err, e.set(Central, 10))
		}
		return err
	}

	return nil
}

// render redraws the current frame after a flash ends.
func (e *Engine) render() error {
	if e.state == StateStopped {
		return e.allOff()
	}

	var errs []error
	for i := 1; i < len(e.outputs); i++ {
		if i == e.rotation {
			errs = append(errs, e.set(i, Brightness(e.level)))
		} else {
			errs = append(errs, e.off(i))
		}
	}
	if e.level > 4 && e.centralBrightness > 0 {
		errs = append(errs, e.set(Central, uint8(e.centralBrightness)))
	} else {
		errs = append(errs, e.off(Central))
	}
	return errors.Join(errs...)
}

func (e *Engine) allOff() error {
	var errs []error
	for i := range e.outputs {
		errs = append(errs, e.off(i))
	}
	return errors.Join(errs...)
}

func (e *Engine) set(i int, value uint8) error {
	if err := e.outputs[i].WriteAnalog(value); err != nil {
		return fmt.Errorf("write light %d: %w", i, err)
	}
	return nil
}

func (e *Engine) off(i int) error {
	if err := e.outputs[i].Off(); err != nil {
		return fmt.Errorf("turn off light %d: %w", i, err)
	}
	return nil
}
