package logic

import (
	"errors"
	"testing"
	"time"
)

func TestNewEngine(t *testing.T) {
	e, _, _ := newTestEngine(t, FourLights, nil)
	if e.State() != StateStopped {
		t.Errorf("expected STOPPED, got %s", e.State())
	}
	if e.Level() != 0 {
		t.Errorf("expected level 0, got %d", e.Level())
	}
	if e.LightCount() != 4 {
		t.Errorf("expected 4 lights, got %d", e.LightCount())
	}
	if snap := e.Snapshot(); snap.Resume != StateStopped {
		t.Errorf("expected resume target STOPPED, got %s", snap.Resume)
	}
}

func TestNewPanicsOnBadLightCount(t *testing.T) {
	for _, n := range []int{0, 1, 3, 6} {
		func() {
			defer func() {
				if recover() == nil {
					t.Errorf("%d outputs: expected panic", n)
				}
			}()
			outs := make([]Output, n)
			for i := range outs {
				outs[i] = &testOutput{}
			}
			New(outs, nil, nil)
		}()
	}
}

func TestNewPanicsOnNilOutput(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic for nil output")
		}
	}()
	New([]Output{&testOutput{}, nil, &testOutput{}, &testOutput{}}, nil, nil)
}

func TestNewCopiesOutputs(t *testing.T) {
	outs := []Output{&testOutput{}, &testOutput{}, &testOutput{}, &testOutput{}}
	e := New(outs, nil, nil)

	replaced := &testOutput{}
	outs[3] = replaced

	if err := e.Start(); err != nil {
		t.Fatalf("start: %v", err)
	}
	if len(replaced.writes) != 0 {
		t.Error("engine should not see changes to the caller's slice")
	}
}

func TestFixedSizeConstructors(t *testing.T) {
	clock := newTestClock()
	four := NewFourLight(&testOutput{}, &testOutput{}, &testOutput{}, &testOutput{}, clock.Now, nil)
	if four.LightCount() != 4 {
		t.Errorf("NewFourLight: expected 4 lights, got %d", four.LightCount())
	}

	last := &testOutput{}
	five := NewFiveLight(&testOutput{}, &testOutput{}, &testOutput{}, &testOutput{}, last, clock.Now, nil)
	if five.LightCount() != 5 {
		t.Errorf("NewFiveLight: expected 5 lights, got %d", five.LightCount())
	}
	if err := five.Start(); err != nil {
		t.Fatalf("start: %v", err)
	}
	if last.level != Brightness(1) {
		t.Errorf("expected last ring light at %d, got %d", Brightness(1), last.level)
	}
}

func TestInitCallsEveryOutput(t *testing.T) {
	e, outs, _ := newTestEngine(t, FiveLights, nil)

	if err := e.Init(); err != nil {
		t.Fatalf("init: %v", err)
	}
	if err := e.Init(); err != nil {
		t.Fatalf("second init: %v", err)
	}
	for i, o := range outs {
		if o.inits != 2 {
			t.Errorf("light %d: expected 2 inits, got %d", i, o.inits)
		}
	}
}

func TestInitReportsEveryFailure(t *testing.T) {
	errBoom := errors.New("boom")
	e, outs, _ := newTestEngine(t, FourLights, nil)
	outs[1].err = errBoom

	err := e.Init()
	if !errors.Is(err, errBoom) {
		t.Fatalf("expected boom, got %v", err)
	}
	for i, o := range outs {
		if o.inits != 1 {
			t.Errorf("light %d: expected init attempted once, got %d", i, o.inits)
		}
	}
}

func TestStartFourLightScenario(t *testing.T) {
	e, outs, clock := newTestEngine(t, FourLights, nil)

	if err := e.Start(); err != nil {
		t.Fatalf("start: %v", err)
	}
	if e.State() != StateRunning || e.Level() != 1 {
		t.Fatalf("expected RUNNING level 1, got %s level %d", e.State(), e.Level())
	}
	if len(outs[0].writes) != 0 {
		t.Errorf("central light should be untouched, got %v", outs[0].writes)
	}
	if outs[3].level != 5 {
		t.Errorf("light 3: expected 5, got %d", outs[3].level)
	}
	if e.Snapshot().Rotation != 3 {
		t.Errorf("expected rotation 3, got %d", e.Snapshot().Rotation)
	}

	// Not yet due.
	clock.Advance(149 * time.Millisecond)
	if err := e.Poll(); err != nil {
		t.Fatalf("poll: %v", err)
	}
	if e.Snapshot().Ticks != 0 {
		t.Fatal("tick before interval elapsed")
	}

	clock.Advance(time.Millisecond)
	if err := e.Poll(); err != nil {
		t.Fatalf("poll: %v", err)
	}
	if e.Snapshot().Rotation != 2 {
		t.Errorf("expected rotation 2, got %d", e.Snapshot().Rotation)
	}
	if outs[3].level != 0 {
		t.Errorf("light 3: expected off, got %d", outs[3].level)
	}
	if outs[2].level != 5 {
		t.Errorf("light 2: expected 5, got %d", outs[2].level)
	}
	if outs[1].level != 0 {
		t.Errorf("light 1: expected off, got %d", outs[1].level)
	}
	if len(outs[0].writes) != 0 {
		t.Errorf("central light should be untouched at level 1, got %v", outs[0].writes)
	}
}

func TestRotationStaysOnRing(t *testing.T) {
	for _, n := range []int{FourLights, FiveLights} {
		e, outs, clock := newTestEngine(t, n, nil)
		if err := e.Start(); err != nil {
			t.Fatalf("start: %v", err)
		}
		for i := 0; i < 200; i++ {
			e.SetLevel(1 + i%MaxLevel)
			tickOnce(t, e, clock)

			rot := e.Snapshot().Rotation
			if rot < 1 || rot > n-1 {
				t.Fatalf("%d lights, tick %d: rotation %d out of [1,%d]", n, i, rot, n-1)
			}
			// Exactly the rotation target is lit on the ring.
			for j := 1; j < n; j++ {
				lit := outs[j].level != 0
				if lit != (j == rot) {
					t.Fatalf("%d lights, tick %d: light %d lit=%v with rotation %d", n, i, j, lit, rot)
				}
			}
		}
	}
}

func TestRotationOrder(t *testing.T) {
	e, _, clock := newTestEngine(t, FiveLights, nil)
	if err := e.Start(); err != nil {
		t.Fatalf("start: %v", err)
	}

	want := []int{3, 2, 1, 4, 3, 2, 1, 4}
	for i, w := range want {
		tickOnce(t, e, clock)
		if got := e.Snapshot().Rotation; got != w {
			t.Errorf("tick %d: expected rotation %d, got %d", i, w, got)
		}
	}
}

func TestAdvanceLevelClampsAtMax(t *testing.T) {
	e, _, _ := newTestEngine(t, FourLights, nil)
	if err := e.Start(); err != nil {
		t.Fatalf("start: %v", err)
	}

	for i := 0; i < 20; i++ {
		e.AdvanceLevel()
		if e.Level() > MaxLevel {
			t.Fatalf("advance %d: level %d exceeds max", i, e.Level())
		}
	}
	if e.Level() != MaxLevel {
		t.Errorf("expected level %d, got %d", MaxLevel, e.Level())
	}
}

func TestAdvanceLevelNoopWhenIdle(t *testing.T) {
	e, _, _ := newTestEngine(t, FourLights, nil)
	e.AdvanceLevel()
	if e.Level() != 0 {
		t.Errorf("expected level 0, got %d", e.Level())
	}
}

func TestSetLevelClamps(t *testing.T) {
	tests := []struct {
		in, want int
	}{
		{-3, 0},
		{0, 0},
		{4, 4},
		{MaxLevel, MaxLevel},
		{MaxLevel + 1, MaxLevel},
		{100, MaxLevel},
	}
	e, _, _ := newTestEngine(t, FourLights, nil)
	for _, tt := range tests {
		e.SetLevel(tt.in)
		if e.Level() != tt.want {
			t.Errorf("SetLevel(%d): expected %d, got %d", tt.in, tt.want, e.Level())
		}
	}
}

func TestSetLevelDoesNotStart(t *testing.T) {
	e, _, clock := newTestEngine(t, FourLights, nil)
	e.SetLevel(5)
	clock.Advance(time.Second)
	if err := e.Poll(); err != nil {
		t.Fatalf("poll: %v", err)
	}
	if e.State() != StateStopped || e.Snapshot().Ticks != 0 {
		t.Errorf("expected stopped engine with no ticks, got %s with %d", e.State(), e.Snapshot().Ticks)
	}
}

func TestStopTurnsEverythingOff(t *testing.T) {
	tests := []struct {
		name  string
		setup func(e *Engine, clock *testClock)
	}{
		{"stopped", func(e *Engine, clock *testClock) {}},
		{"running", func(e *Engine, clock *testClock) {
			e.Start()
			e.SetLevel(7)
			for i := 0; i < 9; i++ {
				clock.Advance(BlinkInterval(7))
				e.Poll()
			}
		}},
		{"flashing", func(e *Engine, clock *testClock) {
			e.Start()
			e.Flash()
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, outs, clock := newTestEngine(t, FiveLights, &scriptedRand{vals: []int{13, 30}})
			tt.setup(e, clock)

			if err := e.Stop(); err != nil {
				t.Fatalf("stop: %v", err)
			}

			snap := e.Snapshot()
			if snap.State != StateStopped || snap.Level != 0 || snap.Rotation != 0 {
				t.Errorf("unexpected snapshot %+v", snap)
			}
			if snap.CentralBrightness != 0 {
				t.Errorf("expected central brightness 0, got %d", snap.CentralBrightness)
			}
			for i, o := range outs {
				if o.level != 0 {
					t.Errorf("light %d: expected off, got %d", i, o.level)
				}
			}
		})
	}
}

func TestStopIsIdempotent(t *testing.T) {
	e, outs, clock := newTestEngine(t, FourLights, nil)
	e.Start()
	tickOnce(t, e, clock)

	if err := e.Stop(); err != nil {
		t.Fatalf("stop: %v", err)
	}
	first := e.Snapshot()

	if err := e.Stop(); err != nil {
		t.Fatalf("second stop: %v", err)
	}
	if second := e.Snapshot(); second != first {
		t.Errorf("second stop changed state: %+v -> %+v", first, second)
	}
	for i, o := range outs {
		if o.level != 0 {
			t.Errorf("light %d: expected off, got %d", i, o.level)
		}
	}
}

func TestFlashWhileRunningResumes(t *testing.T) {
	e, outs, clock := newTestEngine(t, FourLights, nil)
	e.Start()
	e.SetLevel(3)
	tickOnce(t, e, clock)
	tickOnce(t, e, clock)
	rotation := e.Snapshot().Rotation

	if err := e.Flash(); err != nil {
		t.Fatalf("flash: %v", err)
	}
	if e.State() != StateFlashing {
		t.Fatalf("expected FLASHING, got %s", e.State())
	}
	for i, o := range outs {
		if o.level != 255 {
			t.Errorf("light %d: expected full on during flash, got %d", i, o.level)
		}
	}

	clock.Advance(DefaultFlashDuration - time.Millisecond)
	e.Poll()
	if e.State() != StateFlashing {
		t.Fatalf("flash ended early")
	}

	clock.Advance(time.Millisecond)
	if err := e.Poll(); err != nil {
		t.Fatalf("poll: %v", err)
	}
	if e.State() != StateRunning {
		t.Fatalf("expected RUNNING after flash, got %s", e.State())
	}
	if e.Level() != 3 {
		t.Errorf("expected level 3, got %d", e.Level())
	}
	if got := e.Snapshot().Rotation; got != rotation {
		t.Errorf("expected rotation %d, got %d", rotation, got)
	}
	for i := 1; i < len(outs); i++ {
		want := uint8(0)
		if i == rotation {
			want = Brightness(3)
		}
		if outs[i].level != want {
			t.Errorf("light %d: expected %d after flash, got %d", i, want, outs[i].level)
		}
	}
	if outs[0].level != 0 {
		t.Errorf("central: expected off at level 3, got %d", outs[0].level)
	}

	// The rotation carries on from where it was.
	tickOnce(t, e, clock)
	if got := e.Snapshot().Rotation; got != 3 {
		t.Errorf("expected rotation to wrap to 3, got %d", got)
	}
}

func TestFlashWhileStoppedResumesStopped(t *testing.T) {
	e, outs, clock := newTestEngine(t, FiveLights, nil)

	if err := e.Flash(); err != nil {
		t.Fatalf("flash: %v", err)
	}
	clock.Advance(DefaultFlashDuration)
	if err := e.Poll(); err != nil {
		t.Fatalf("poll: %v", err)
	}

	if e.State() != StateStopped {
		t.Fatalf("expected STOPPED, got %s", e.State())
	}
	for i, o := range outs {
		if o.level != 0 {
			t.Errorf("light %d: expected off, got %d", i, o.level)
		}
	}
}

func TestFlashForDurationIsConsumed(t *testing.T) {
	e, _, clock := newTestEngine(t, FourLights, nil)

	if err := e.FlashFor(500 * time.Millisecond); err != nil {
		t.Fatalf("flash: %v", err)
	}
	clock.Advance(300 * time.Millisecond)
	e.Poll()
	if e.State() != StateFlashing {
		t.Fatal("custom flash ended at the default duration")
	}
	clock.Advance(200 * time.Millisecond)
	e.Poll()
	if e.State() != StateStopped {
		t.Fatalf("expected STOPPED after custom flash, got %s", e.State())
	}
	if d := e.Snapshot().FlashDuration; d != DefaultFlashDuration {
		t.Errorf("expected duration reset to default, got %v", d)
	}

	// A bare flash afterwards uses the default again.
	e.Flash()
	clock.Advance(DefaultFlashDuration)
	e.Poll()
	if e.State() != StateStopped {
		t.Errorf("expected default-length flash, still %s", e.State())
	}
}

func TestFlashForNonPositiveUsesDefault(t *testing.T) {
	e, _, clock := newTestEngine(t, FourLights, nil)
	e.FlashFor(0)
	if d := e.Snapshot().FlashDuration; d != DefaultFlashDuration {
		t.Errorf("expected default duration, got %v", d)
	}
	clock.Advance(DefaultFlashDuration)
	e.Poll()
	if e.State() != StateStopped {
		t.Errorf("expected STOPPED, got %s", e.State())
	}
}

func TestReflashKeepsResumeTarget(t *testing.T) {
	e, _, clock := newTestEngine(t, FourLights, nil)
	e.Start()
	e.FlashFor(400 * time.Millisecond)

	clock.Advance(100 * time.Millisecond)
	e.Flash()
	if e.Snapshot().Resume != StateRunning {
		t.Fatalf("expected resume target RUNNING, got %s", e.Snapshot().Resume)
	}
	if e.Snapshot().Flashes != 2 {
		t.Errorf("expected 2 flashes, got %d", e.Snapshot().Flashes)
	}

	// The pending custom duration applies to the restarted flash.
	clock.Advance(399 * time.Millisecond)
	e.Poll()
	if e.State() != StateFlashing {
		t.Fatal("restarted flash ended early")
	}
	clock.Advance(time.Millisecond)
	e.Poll()
	if e.State() != StateRunning {
		t.Errorf("expected RUNNING, got %s", e.State())
	}
}

func TestStopDuringFlashCancelsResume(t *testing.T) {
	e, outs, clock := newTestEngine(t, FourLights, nil)
	e.Start()
	e.Flash()
	e.Stop()

	clock.Advance(time.Second)
	e.Poll()
	if e.State() != StateStopped {
		t.Fatalf("expected STOPPED, got %s", e.State())
	}
	for i, o := range outs {
		if o.level != 0 {
			t.Errorf("light %d: expected off, got %d", i, o.level)
		}
	}
}

func TestPollProcessesOneTickPerCall(t *testing.T) {
	e, _, clock := newTestEngine(t, FourLights, nil)
	e.Start()

	clock.Advance(10 * BlinkInterval(1))
	for i := 1; i <= 10; i++ {
		e.Poll()
		if got := e.Snapshot().Ticks; got != uint64(i) {
			t.Fatalf("poll %d: expected %d ticks, got %d", i, i, got)
		}
	}

	// Caught up with the clock.
	e.Poll()
	if got := e.Snapshot().Ticks; got != 10 {
		t.Errorf("expected no extra tick, got %d", got)
	}
}

func TestPollDoesNotDrift(t *testing.T) {
	e, _, clock := newTestEngine(t, FourLights, nil)
	e.Start()

	// 215 polls 7ms apart cover 1505ms: exactly ten 150ms boundaries.
	for i := 0; i < 215; i++ {
		clock.Advance(7 * time.Millisecond)
		e.Poll()
	}
	if got := e.Snapshot().Ticks; got != 10 {
		t.Errorf("expected 10 ticks, got %d", got)
	}
}

func TestCentralUntouchedUpToLevelFour(t *testing.T) {
	e, outs, clock := newTestEngine(t, FourLights, nil)
	e.Start()
	for level := 1; level <= 4; level++ {
		e.SetLevel(level)
		for i := 0; i < 9; i++ {
			tickOnce(t, e, clock)
		}
	}
	if len(outs[0].writes) != 0 {
		t.Errorf("central light written at low levels: %v", outs[0].writes)
	}
}

func TestMaxLevelCentralFlicker(t *testing.T) {
	e, outs, clock := newTestEngine(t, FourLights, nil)
	e.Start()
	e.SetLevel(MaxLevel)

	tickOnce(t, e, clock) // rotation 2
	if len(outs[0].writes) != 0 {
		t.Fatalf("central written away from rotation 1: %v", outs[0].writes)
	}

	tickOnce(t, e, clock) // rotation 1
	writes := outs[0].writes
	if len(writes) == 0 {
		t.Fatal("expected central write at rotation 1")
	}
	if v := writes[0].value; v < 235 || v >= 255 {
		t.Errorf("expected central value in [235,255), got %d", v)
	}
	for _, w := range writes[1:] {
		if w.value != 10 {
			t.Errorf("expected only a dim blip after the flicker, got %d", w.value)
		}
	}
	// Forced to 255 in the tick, then decayed once.
	if got := e.Snapshot().CentralBrightness; got != 250 {
		t.Errorf("expected central brightness 250, got %d", got)
	}
}

func TestMaxLevelDimBlip(t *testing.T) {
	tests := []struct {
		name string
		vals []int
		want []uint8
	}{
		{"blip", []int{0, 5, 1}, []uint8{240, 10}},
		{"no blip", []int{0, 5, 2}, []uint8{240}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, outs, clock := newTestEngine(t, FourLights, &scriptedRand{vals: tt.vals})
			e.Start()
			e.SetLevel(MaxLevel)
			tickOnce(t, e, clock)
			tickOnce(t, e, clock)

			writes := outs[0].writes
			if len(writes) != len(tt.want) {
				t.Fatalf("expected %d central writes, got %v", len(tt.want), writes)
			}
			for i, w := range tt.want {
				if writes[i].value != w {
					t.Errorf("write %d: expected %d, got %d", i, w, writes[i].value)
				}
			}
		})
	}
}

func TestFlickerAccumulates(t *testing.T) {
	// Intn(12) -> 11 passes the > MaxLevel gate; Intn(35) -> 20 adds 20+35.
	e, outs, clock := newTestEngine(t, FourLights, &scriptedRand{vals: []int{11, 20}})
	e.Start()
	e.SetLevel(6)

	tickOnce(t, e, clock) // rotation 2
	tickOnce(t, e, clock) // rotation 1
	if got := outs[0].level; got != 55 {
		t.Errorf("expected central 55, got %d", got)
	}
	if got := e.Snapshot().CentralBrightness; got != 50 {
		t.Errorf("expected accumulator 50, got %d", got)
	}

	tickOnce(t, e, clock) // rotation 3
	tickOnce(t, e, clock) // rotation 2
	tickOnce(t, e, clock) // rotation 1
	if got := outs[0].level; got != 95 {
		t.Errorf("expected central 95, got %d", got)
	}
	if got := e.Snapshot().CentralBrightness; got != 90 {
		t.Errorf("expected accumulator 90, got %d", got)
	}
}

func TestFlickerGateRejects(t *testing.T) {
	// Intn(10) -> 8 is not above MaxLevel, so nothing accumulates.
	e, outs, clock := newTestEngine(t, FourLights, &scriptedRand{vals: []int{8}})
	e.Start()
	e.SetLevel(5)
	tickOnce(t, e, clock)
	tickOnce(t, e, clock)

	if got := outs[0].level; got != 0 {
		t.Errorf("expected central 0, got %d", got)
	}
	if len(outs[0].writes) != 1 {
		t.Errorf("expected one central write, got %v", outs[0].writes)
	}
}

func TestFlickerClampsAt255(t *testing.T) {
	// Each cycle adds 34 + 70 at level 7.
	e, outs, clock := newTestEngine(t, FourLights, &scriptedRand{vals: []int{13, 34}})
	e.Start()
	e.SetLevel(7)

	saw255 := false
	for i := 0; i < 30; i++ {
		tickOnce(t, e, clock)
		if cb := e.Snapshot().CentralBrightness; cb < 0 || cb > 255 {
			t.Fatalf("tick %d: accumulator %d out of range", i, cb)
		}
		if outs[0].level == 255 {
			saw255 = true
		}
	}
	if !saw255 {
		t.Error("expected central light to reach 255")
	}
}

func TestCentralDecaysEveryTick(t *testing.T) {
	e, outs, clock := newTestEngine(t, FourLights, &scriptedRand{vals: []int{0}})
	e.Start()
	e.SetLevel(5)
	e.centralBrightness = 100

	tickOnce(t, e, clock) // rotation 2, no flicker
	if got := e.Snapshot().CentralBrightness; got != 95 {
		t.Errorf("expected 95, got %d", got)
	}
	tickOnce(t, e, clock) // rotation 1
	if got := outs[0].level; got != 95 {
		t.Errorf("expected central written at 95, got %d", got)
	}
	if got := e.Snapshot().CentralBrightness; got != 90 {
		t.Errorf("expected 90, got %d", got)
	}
}

func TestCentralDecayFloorsAtZero(t *testing.T) {
	e, _, clock := newTestEngine(t, FourLights, &scriptedRand{vals: []int{0}})
	e.Start()
	e.SetLevel(5)
	e.centralBrightness = 3

	tickOnce(t, e, clock)
	if got := e.Snapshot().CentralBrightness; got != 0 {
		t.Errorf("expected 0, got %d", got)
	}
}

func TestWriteErrorsAreReturned(t *testing.T) {
	errBoom := errors.New("boom")
	e, outs, clock := newTestEngine(t, FourLights, nil)
	outs[2].err = errBoom

	if err := e.Start(); err != nil {
		t.Fatalf("start touches light 3 only, got %v", err)
	}
	clock.Advance(BlinkInterval(1))
	err := e.Poll()
	if !errors.Is(err, errBoom) {
		t.Fatalf("expected boom from poll, got %v", err)
	}
	// The tick still happened.
	if e.Snapshot().Rotation != 2 {
		t.Errorf("expected rotation 2, got %d", e.Snapshot().Rotation)
	}

	if err := e.Stop(); !errors.Is(err, errBoom) {
		t.Errorf("expected boom from stop, got %v", err)
	}
	if e.State() != StateStopped {
		t.Errorf("expected STOPPED despite write error, got %s", e.State())
	}
}

func TestEnginesAreIndependent(t *testing.T) {
	a, aOuts, aClock := newTestEngine(t, FourLights, nil)
	b, bOuts, _ := newTestEngine(t, FourLights, nil)

	a.Start()
	a.SetLevel(6)
	for i := 0; i < 12; i++ {
		tickOnce(t, a, aClock)
	}

	if b.State() != StateStopped || b.Snapshot().CentralBrightness != 0 {
		t.Errorf("engine b affected by engine a: %+v", b.Snapshot())
	}
	for i := range bOuts {
		if len(bOuts[i].writes) != 0 {
			t.Errorf("engine b light %d written", i)
		}
	}
	if len(aOuts[1].writes) == 0 {
		t.Error("engine a did not write")
	}
}

func TestLevelTables(t *testing.T) {
	if Brightness(1) != 5 || Brightness(MaxLevel) != 255 {
		t.Errorf("unexpected brightness table ends: %d, %d", Brightness(1), Brightness(MaxLevel))
	}
	if BlinkInterval(1) != 150*time.Millisecond || BlinkInterval(MaxLevel) != 10*time.Millisecond {
		t.Errorf("unexpected interval table ends: %v, %v", BlinkInterval(1), BlinkInterval(MaxLevel))
	}
	for level := 1; level <= MaxLevel; level++ {
		if BlinkInterval(level) > BlinkInterval(level-1) {
			t.Errorf("level %d blinks slower than level %d", level, level-1)
		}
		if Brightness(level) < Brightness(level-1) {
			t.Errorf("level %d dimmer than level %d", level, level-1)
		}
	}
}
