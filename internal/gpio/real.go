//go:build linux

package gpio

import (
	"errors"
	"fmt"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"github.com/warthog618/go-gpiocdev"
)

// RealPin drives a light from a Linux GPIO character device line.
// Intermediate brightness is produced by software PWM in a goroutine owned by
// the pin; writes only publish the new value and never block.
type RealPin struct {
	chip   string
	offset int
	period time.Duration

	mu   sync.Mutex
	line *gpiocdev.Line
	wake chan struct{}
	done chan struct{}
	wg   sync.WaitGroup

	value atomic.Uint32
}

// NewRealPin creates a pin for line offset on chip. The line is requested by Init.
func NewRealPin(chip string, offset int, freqHz int) *RealPin {
	return &RealPin{
		chip:   chip,
		offset: offset,
		period: periodFor(freqHz),
	}
}

// Init requests the line as an output, initially low, and starts the PWM loop.
func (p *RealPin) Init() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.line != nil {
		return nil
	}

	line, err := gpiocdev.RequestLine(p.chip, p.offset, gpiocdev.AsOutput(0))
	if err != nil {
		return fmt.Errorf("request pin %d: %w", p.offset, err)
	}

	p.line = line
	p.wake = make(chan struct{}, 1)
	p.done = make(chan struct{})
	p.wg.Add(1)
	go p.run(line, p.wake, p.done)
	return nil
}

// WriteAnalog sets the PWM duty for the light.
func (p *RealPin) WriteAnalog(value uint8) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.line == nil {
		return ErrNotInitialized
	}
	p.value.Store(uint32(value))
	select {
	case p.wake <- struct{}{}:
	default:
	}
	return nil
}

// On drives the line high permanently.
func (p *RealPin) On() error {
	return p.WriteAnalog(255)
}

// Off drives the line low permanently.
func (p *RealPin) Off() error {
	return p.WriteAnalog(0)
}

func (p *RealPin) run(line *gpiocdev.Line, wake, done <-chan struct{}) {
	defer p.wg.Done()

	failed := false
	set := func(v int) {
		if err := line.SetValue(v); err != nil && !failed {
			// Logged once; the engine keeps running without this light.
			log.Printf("gpio: pin %d write error: %v", p.offset, err)
			failed = true
		}
	}
	sleep := func(d time.Duration) bool {
		if d <= 0 {
			return true
		}
		t := time.NewTimer(d)
		defer t.Stop()
		select {
		case <-t.C:
			return true
		case <-done:
			return false
		}
	}

	for {
		v := uint8(p.value.Load())
		switch v {
		case 0, 255:
			if v == 255 {
				set(1)
			} else {
				set(0)
			}
			select {
			case <-wake:
			case <-done:
				return
			}
		default:
			on := onTime(p.period, v)
			set(1)
			if !sleep(on) {
				return
			}
			set(0)
			if !sleep(p.period - on) {
				return
			}
		}
	}
}

// Close stops the PWM loop, drives the line low and releases it.
// The line is left as an input with pull-down, matching the Pi boot defaults.
func (p *RealPin) Close() error {
	p.mu.Lock()
	line := p.line
	p.line = nil
	p.mu.Unlock()

	if line == nil {
		return nil
	}
	close(p.done)
	p.wg.Wait()

	var errs []error
	if err := line.SetValue(0); err != nil {
		errs = append(errs, fmt.Errorf("clear pin %d: %w", p.offset, err))
	}
	if err := line.Reconfigure(gpiocdev.AsInput, gpiocdev.WithPullDown); err != nil {
		errs = append(errs, fmt.Errorf("reconfigure pin %d: %w", p.offset, err))
	}
	if err := line.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close pin %d: %w", p.offset, err))
	}
	return errors.Join(errs...)
}
