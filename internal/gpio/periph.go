package gpio

import (
	"fmt"
	"sync"

	pgpio "periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/host/v3"
)

var hostInit = sync.OnceValue(func() error {
	_, err := host.Init()
	return err
})

// PeriphPin drives a light through periph.io, using the SoC's hardware PWM
// for intermediate brightness.
type PeriphPin struct {
	name string
	freq physic.Frequency
	pin  pgpio.PinIO
}

// NewPeriphPin creates a pin for the periph.io pin name (e.g. "GPIO18").
func NewPeriphPin(name string, freqHz int) *PeriphPin {
	if freqHz <= 0 {
		freqHz = DefaultPWMFrequency
	}
	return &PeriphPin{
		name: name,
		freq: physic.Frequency(freqHz) * physic.Hertz,
	}
}

// Init loads the host drivers once and drives the pin low.
func (p *PeriphPin) Init() error {
	if p.pin != nil {
		return nil
	}
	if err := hostInit(); err != nil {
		return fmt.Errorf("periph host init: %w", err)
	}
	pin := gpioreg.ByName(p.name)
	if pin == nil {
		return fmt.Errorf("no pin named %q", p.name)
	}
	if err := pin.Out(pgpio.Low); err != nil {
		return fmt.Errorf("set %s low: %w", p.name, err)
	}
	p.pin = pin
	return nil
}

// WriteAnalog sets the PWM duty, or a plain level at either end of the range.
func (p *PeriphPin) WriteAnalog(value uint8) error {
	if p.pin == nil {
		return ErrNotInitialized
	}
	switch value {
	case 0:
		return p.pin.Out(pgpio.Low)
	case 255:
		return p.pin.Out(pgpio.High)
	}
	if err := p.pin.PWM(dutyFor(value), p.freq); err != nil {
		return fmt.Errorf("pwm %s: %w", p.name, err)
	}
	return nil
}

// On drives the pin high.
func (p *PeriphPin) On() error {
	return p.WriteAnalog(255)
}

// Off drives the pin low.
func (p *PeriphPin) Off() error {
	return p.WriteAnalog(0)
}

// Close drives the pin low and halts any PWM.
func (p *PeriphPin) Close() error {
	if p.pin == nil {
		return nil
	}
	pin := p.pin
	p.pin = nil
	if err := pin.Out(pgpio.Low); err != nil {
		return fmt.Errorf("set %s low: %w", p.name, err)
	}
	return pin.Halt()
}

func dutyFor(value uint8) pgpio.Duty {
	return pgpio.Duty(int64(pgpio.DutyMax) * int64(value) / 255)
}
