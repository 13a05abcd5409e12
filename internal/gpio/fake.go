package gpio

// Op identifies a recorded pin operation.
type Op string

const (
	OpAnalog Op = "analog"
	OpOn     Op = "on"
	OpOff    Op = "off"
)

// Write is a single recorded output operation.
type Write struct {
	Op    Op
	Value uint8
}

// FakePin is a test double that records everything written to it.
type FakePin struct {
	// Inits counts calls to Init.
	Inits int

	// Writes contains every output operation in order.
	Writes []Write

	// Level is the brightness after the last write.
	Level uint8

	// Closed tracks if Close was called
	Closed bool

	// InitError, if set, will be returned by Init().
	InitError error

	// WriteError, if set, will be returned by every write.
	WriteError error
}

// NewFakePin creates an uninitialized FakePin.
func NewFakePin() *FakePin {
	return &FakePin{}
}

// NewFakePins creates n FakePins, returned both concretely and as Pins.
func NewFakePins(n int) ([]*FakePin, []Pin) {
	fakes := make([]*FakePin, n)
	pins := make([]Pin, n)
	for i := range fakes {
		fakes[i] = NewFakePin()
		pins[i] = fakes[i]
	}
	return fakes, pins
}

// Init records the call.
func (f *FakePin) Init() error {
	f.Inits++
	return f.InitError
}

// WriteAnalog records the value.
func (f *FakePin) WriteAnalog(value uint8) error {
	return f.record(OpAnalog, value)
}

// On records a full-brightness write.
func (f *FakePin) On() error {
	return f.record(OpOn, 255)
}

// Off records an off write.
func (f *FakePin) Off() error {
	return f.record(OpOff, 0)
}

func (f *FakePin) record(op Op, value uint8) error {
	if f.Inits == 0 {
		return ErrNotInitialized
	}
	if f.WriteError != nil {
		return f.WriteError
	}
	f.Writes = append(f.Writes, Write{Op: op, Value: value})
	f.Level = value
	return nil
}

// Close marks the pin as closed and turns it off.
func (f *FakePin) Close() error {
	f.Closed = true
	f.Level = 0
	return nil
}

// Reset clears recorded writes, keeping initialization.
func (f *FakePin) Reset() {
	f.Writes = nil
	f.Closed = false
}
