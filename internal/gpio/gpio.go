// Package gpio provides light outputs with hardware abstraction.
// The real implementations use the Linux GPIO character device (software PWM)
// or periph.io (hardware PWM). The fake implementation allows testing without hardware.
package gpio

import (
	"errors"
	"fmt"
	"time"
)

// Pin drives a single light. Values are 0 (off) to 255 (full brightness).
type Pin interface {
	// Init claims the underlying line. Calling it again is a no-op.
	Init() error
	WriteAnalog(value uint8) error
	On() error
	Off() error

	// Close turns the light off and releases GPIO resources.
	Close() error
}

// Drivers accepted by NewPins.
const (
	DriverGPIOCDev = "gpiocdev"
	DriverPeriph   = "periph"
	DriverLog      = "log"
)

// Defaults (BCM numbering): central light first, then ring lights in rotation order.
const (
	DefaultChip         = "gpiochip0"
	DefaultPWMFrequency = 200 // Hz
)

// DefaultPins returns the default four-light wiring.
func DefaultPins() []int {
	return []int{17, 27, 22, 23}
}

// ErrNotInitialized is returned by writes to a pin before Init.
var ErrNotInitialized = errors.New("gpio: pin not initialized")

// NewPins creates one unopened pin per offset using the named driver.
func NewPins(driver, chip string, offsets []int, freqHz int) ([]Pin, error) {
	pins := make([]Pin, 0, len(offsets))
	for _, offset := range offsets {
		switch driver {
		case DriverGPIOCDev:
			pins = append(pins, NewRealPin(chip, offset, freqHz))
		case DriverPeriph:
			pins = append(pins, NewPeriphPin(pinName(offset), freqHz))
		case DriverLog:
			pins = append(pins, NewLogPin(pinName(offset)))
		default:
			return nil, fmt.Errorf("unknown gpio driver %q", driver)
		}
	}
	return pins, nil
}

// CloseAll closes every pin and joins the errors.
func CloseAll(pins []Pin) error {
	var errs []error
	for _, p := range pins {
		if err := p.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func pinName(offset int) string {
	return fmt.Sprintf("GPIO%d", offset)
}

// onTime is the high portion of one software PWM period at value.
func onTime(period time.Duration, value uint8) time.Duration {
	return period * time.Duration(value) / 255
}

// periodFor returns the PWM period for freqHz, falling back to the default.
func periodFor(freqHz int) time.Duration {
	if freqHz <= 0 {
		freqHz = DefaultPWMFrequency
	}
	return time.Second / time.Duration(freqHz)
}
