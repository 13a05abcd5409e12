package logic

import (
	"math/rand"
	"testing"
	"time"
)

type write struct {
	op    string
	value uint8
}

// testOutput records every call made to it.
type testOutput struct {
	inits  int
	level  uint8
	writes []write
	err    error
}

func (o *testOutput) Init() error {
	o.inits++
	return o.err
}

func (o *testOutput) WriteAnalog(v uint8) error {
	o.writes = append(o.writes, write{"analog", v})
	o.level = v
	return o.err
}

func (o *testOutput) On() error {
	o.writes = append(o.writes, write{"on", 255})
	o.level = 255
	return o.err
}

func (o *testOutput) Off() error {
	o.writes = append(o.writes, write{"off", 0})
	o.level = 0
	return o.err
}

func (o *testOutput) reset() {
	o.writes = nil
}

type testClock struct {
	t time.Time
}

func newTestClock() *testClock {
	return &testClock{t: time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *testClock) Now() time.Time { return c.t }

func (c *testClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

// scriptedRand returns vals in order (cycling), reduced modulo n.
type scriptedRand struct {
	vals []int
	i    int
}

func (r *scriptedRand) Intn(n int) int {
	v := r.vals[r.i%len(r.vals)]
	r.i++
	return v % n
}

func newTestEngine(t *testing.T, lights int, rng Rand) (*Engine, []*testOutput, *testClock) {
	t.Helper()
	if rng == nil {
		rng = rand.New(rand.NewSource(1))
	}
	outs := make([]*testOutput, lights)
	ifaces := make([]Output, lights)
	for i := range outs {
		outs[i] = &testOutput{}
		ifaces[i] = outs[i]
	}
	clock := newTestClock()
	return New(ifaces, clock.Now, rng), outs, clock
}

// tickOnce advances the clock by one interval at the current level and polls.
func tickOnce(t *testing.T, e *Engine, clock *testClock) {
	t.Helper()
	before := e.Snapshot().Ticks
	clock.Advance(BlinkInterval(e.Level()))
	if err := e.Poll(); err != nil {
		t.Fatalf("poll: %v", err)
	}
	if e.Snapshot().Ticks != before+1 {
		t.Fatalf("expected exactly one tick, got %d", e.Snapshot().Ticks-before)
	}
}

func resetAll(outs []*testOutput) {
	for _, o := range outs {
		o.reset()
	}
}
