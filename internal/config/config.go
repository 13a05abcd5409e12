// Package config loads daemon settings from flags and an optional TOML file.
// Precedence: command-line flags > config file > defaults.
package config

import (
	"bytes"
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/sweeney/fluxcap/internal/gpio"
)

// Config contains every daemon setting.
type Config struct {
	Driver string  `toml:"driver"`
	Chip   string  `toml:"chip"`
	Pins   PinList `toml:"pins"`
	PWMHz  int     `toml:"pwm_hz"`

	Poll  Duration `toml:"poll"`
	Step  Duration `toml:"step"`
	Hold  Duration `toml:"hold"`
	Rest  Duration `toml:"rest"`
	Flash Duration `toml:"flash"`
	Seed  int64    `toml:"seed"`

	Broker string `toml:"broker"`
	HTTP   string `toml:"http"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Driver: gpio.DriverGPIOCDev,
		Chip:   gpio.DefaultChip,
		Pins:   gpio.DefaultPins(),
		PWMHz:  gpio.DefaultPWMFrequency,
		Poll:   Duration(time.Millisecond),
		Step:   Duration(5 * time.Second),
		Hold:   Duration(3 * time.Second),
		HTTP:   ":8080",
	}
}

// Load parses args on top of the defaults and the file named by -config, if any.
func Load(name string, args []string) (Config, error) {
	cfg := Default()
	var path string
	if err := newFlagSet(name, &cfg, &path).Parse(args); err != nil {
		return Config{}, err
	}

	if path != "" {
		cfg = Default()
		if err := cfg.loadFile(path); err != nil {
			return Config{}, err
		}
		// Re-apply flags so they win over the file.
		if err := newFlagSet(name, &cfg, &path).Parse(args); err != nil {
			return Config{}, err
		}
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func newFlagSet(name string, c *Config, path *string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.StringVar(path, "config", *path, "TOML config file (flags override it)")
	fs.StringVar(&c.Driver, "driver", c.Driver, `Output driver: "gpiocdev", "periph" or "log"`)
	fs.StringVar(&c.Chip, "chip", c.Chip, "GPIO chip for the gpiocdev driver")
	fs.Var(&c.Pins, "pins", "Comma-separated BCM pins, central light first (4 or 5)")
	fs.IntVar(&c.PWMHz, "pwm-hz", c.PWMHz, "PWM frequency in Hz")
	fs.Var(&c.Poll, "poll", "Engine polling interval")
	fs.Var(&c.Step, "step", "Time between level advances (0 to disable the sequence)")
	fs.Var(&c.Hold, "hold", "Time at max level before the final flash")
	fs.Var(&c.Rest, "rest", "Dark time before the sequence repeats (0 to run once)")
	fs.Var(&c.Flash, "flash", "Flash duration (0 for the engine default)")
	fs.Int64Var(&c.Seed, "seed", c.Seed, "Flicker random seed (0 for time-based)")
	fs.StringVar(&c.Broker, "broker", c.Broker, "MQTT broker address (empty to disable)")
	fs.StringVar(&c.HTTP, "http", c.HTTP, "HTTP status address (empty to disable)")
	return fs
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}
	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(c); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

// Validate reports the first invalid setting.
func (c Config) Validate() error {
	switch c.Driver {
	case gpio.DriverGPIOCDev, gpio.DriverPeriph, gpio.DriverLog:
	default:
		return fmt.Errorf("driver: unknown %q", c.Driver)
	}

	if n := len(c.Pins); n != 4 && n != 5 {
		return fmt.Errorf("pins: need 4 or 5 (central first), got %d", n)
	}
	seen := make(map[int]bool, len(c.Pins))
	for _, p := range c.Pins {
		if p < 0 {
			return fmt.Errorf("pins: negative pin %d", p)
		}
		if seen[p] {
			return fmt.Errorf("pins: pin %d listed twice", p)
		}
		seen[p] = true
	}

	if c.PWMHz <= 0 {
		return errors.New("pwm-hz: must be positive")
	}
	if c.Poll <= 0 {
		return errors.New("poll: must be positive")
	}
	for name, d := range map[string]Duration{"step": c.Step, "hold": c.Hold, "rest": c.Rest, "flash": c.Flash} {
		if d < 0 {
			return fmt.Errorf("%s: must not be negative", name)
		}
	}
	return nil
}

// Duration is a time.Duration that reads Go duration strings from flags and TOML.
type Duration time.Duration

// Std returns d as a time.Duration.
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

func (d Duration) String() string {
	return time.Duration(d).String()
}

// Set implements flag.Value.
func (d *Duration) Set(s string) error {
	v, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	*d = Duration(v)
	return nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(b []byte) error {
	return d.Set(string(b))
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// PinList is a list of pin numbers, written as "17,27,22,23" on the command line.
type PinList []int

func (p PinList) String() string {
	parts := make([]string, len(p))
	for i, v := range p {
		parts[i] = strconv.Itoa(v)
	}
	return strings.Join(parts, ",")
}

// Set implements flag.Value. It replaces the whole list.
func (p *PinList) Set(s string) error {
	var pins PinList
	for _, part := range strings.Split(s, ",") {
		v, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return fmt.Errorf("bad pin %q", part)
		}
		pins = append(pins, v)
	}
	*p = pins
	return nil
}
