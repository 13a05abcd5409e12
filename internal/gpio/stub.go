//go:build !linux

package gpio

import "errors"

var errUnsupported = errors.New("gpio: not supported on this platform (requires Linux)")

// RealPin is not available on non-Linux platforms.
type RealPin struct{}

// NewRealPin returns a pin whose Init always fails on non-Linux platforms.
func NewRealPin(chip string, offset int, freqHz int) *RealPin {
	return &RealPin{}
}

// Init is not implemented on non-Linux platforms.
func (p *RealPin) Init() error {
	return errUnsupported
}

// WriteAnalog is not implemented on non-Linux platforms.
func (p *RealPin) WriteAnalog(value uint8) error {
	return errUnsupported
}

// On is not implemented on non-Linux platforms.
func (p *RealPin) On() error {
	return errUnsupported
}

// Off is not implemented on non-Linux platforms.
func (p *RealPin) Off() error {
	return errUnsupported
}

// Close is not implemented on non-Linux platforms.
func (p *RealPin) Close() error {
	return nil
}
