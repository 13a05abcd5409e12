package gpio

import "log"

// LogPin logs brightness changes instead of driving hardware.
// Useful for dry runs on a development machine.
type LogPin struct {
	name        string
	initialized bool
	value       int
}

// NewLogPin creates a LogPin labelled name.
func NewLogPin(name string) *LogPin {
	return &LogPin{name: name, value: -1}
}

// Init marks the pin ready. Calling it again is a no-op.
func (p *LogPin) Init() error {
	if !p.initialized {
		log.Printf("gpio: %s ready", p.name)
		p.initialized = true
	}
	return nil
}

// WriteAnalog logs value if it differs from the last one written.
func (p *LogPin) WriteAnalog(value uint8) error {
	if !p.initialized {
		return ErrNotInitialized
	}
	if int(value) != p.value {
		log.Printf("gpio: %s = %d", p.name, value)
		p.value = int(value)
	}
	return nil
}

// On logs full brightness.
func (p *LogPin) On() error { return p.WriteAnalog(255) }

// Off logs zero brightness.
func (p *LogPin) Off() error { return p.WriteAnalog(0) }

// Close forgets the last value and requires Init again.
func (p *LogPin) Close() error {
	p.initialized = false
	p.value = -1
	return nil
}
