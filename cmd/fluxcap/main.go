// Command fluxcap drives the flux capacitor lights and publishes state changes to MQTT.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/coreos/go-systemd/v22/daemon"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/sweeney/fluxcap/internal/config"
	"github.com/sweeney/fluxcap/internal/gpio"
	"github.com/sweeney/fluxcap/internal/logic"
	"github.com/sweeney/fluxcap/internal/metrics"
	"github.com/sweeney/fluxcap/internal/mqtt"
	"github.com/sweeney/fluxcap/internal/status"
	"github.com/sweeney/fluxcap/internal/web"
)

func main() {
	cfg, err := config.Load(os.Args[0], os.Args[1:])
	if errors.Is(err, flag.ErrHelp) {
		return
	}
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	if err := run(cfg); err != nil {
		log.Fatalf("fatal: %v", err)
	}
}

func run(cfg config.Config) error {
	// Initialize lights
	pins, err := gpio.NewPins(cfg.Driver, cfg.Chip, cfg.Pins, cfg.PWMHz)
	if err != nil {
		return fmt.Errorf("init gpio: %w", err)
	}
	defer func() {
		if err := gpio.CloseAll(pins); err != nil {
			log.Printf("gpio close: %v", err)
		}
	}()

	outputs := make([]logic.Output, len(pins))
	for i, p := range pins {
		outputs[i] = p
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	engine := logic.New(outputs, time.Now, rand.New(rand.NewSource(seed)))
	if err := engine.Init(); err != nil {
		return fmt.Errorf("init lights: %w", err)
	}

	// Initialize MQTT
	var publisher mqtt.Publisher = mqtt.NopPublisher{}
	var mqttStatus mqtt.ConnectionStatus = mqtt.NopPublisher{}
	if cfg.Broker != "" {
		rp := mqtt.NewRealPublisher(cfg.Broker, clientID())
		publisher, mqttStatus = rp, rp
	}
	defer publisher.Close()

	// Metrics
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	recorder := metrics.NewRecorder(registry)

	tracker := status.NewTracker(time.Now(), status.Config{
		Driver:   cfg.Driver,
		Pins:     cfg.Pins,
		PollMs:   cfg.Poll.Std().Milliseconds(),
		StepMs:   cfg.Step.Std().Milliseconds(),
		HoldMs:   cfg.Hold.Std().Milliseconds(),
		RestMs:   cfg.Rest.Std().Milliseconds(),
		FlashMs:  cfg.Flash.Std().Milliseconds(),
		Broker:   cfg.Broker,
		HTTPAddr: cfg.HTTP,
	})

	startupEvent := mqtt.SystemEvent{
		Timestamp: time.Now(),
		Event:     "STARTUP",
		Lights:    engine.LightCount(),
		Driver:    cfg.Driver,
		Retained:  true,
	}
	publishSystem(publisher, startupEvent)

	// Start HTTP status server
	if cfg.HTTP != "" {
		srv := web.New(cfg.HTTP, tracker, promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
		go func() {
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Printf("http server error: %v", err)
			}
		}()
		defer srv.Shutdown(context.Background())
		log.Printf("http status server listening on %s", cfg.HTTP)
	}

	seq := logic.NewSequencer(flashController{engine, cfg.Flash.Std()}, logic.SequenceConfig{
		Step: cfg.Step.Std(),
		Hold: cfg.Hold.Std(),
		Rest: cfg.Rest.Std(),
	})

	log.Printf("started: lights=%d driver=%s pins=%s poll=%v step=%v hold=%v rest=%v broker=%q",
		engine.LightCount(), cfg.Driver, cfg.Pins, cfg.Poll, cfg.Step, cfg.Hold, cfg.Rest, cfg.Broker)

	if ok, err := daemon.SdNotify(false, daemon.SdNotifyReady); err != nil {
		log.Printf("sd_notify: %v", err)
	} else if ok {
		log.Printf("notified systemd: ready")
	}

	ticker := time.NewTicker(cfg.Poll.Std())
	defer ticker.Stop()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM, syscall.SIGUSR1, syscall.SIGUSR2)

	l := &loop{
		engine:     engine,
		seq:        seq,
		publisher:  publisher,
		mqttStatus: mqttStatus,
		tracker:    tracker,
		recorder:   recorder,
		flash:      cfg.Flash.Std(),
		now:        time.Now,
	}
	err = runLoop(l, ticker.C, sigCh)
	daemon.SdNotify(false, daemon.SdNotifyStopping)
	return err
}

func clientID() string {
	host, err := os.Hostname()
	if err != nil {
		return fmt.Sprintf("fluxcap-%d", os.Getpid())
	}
	return "fluxcap-" + host
}

// flashController makes the sequencer's final flash use the configured duration.
type flashController struct {
	*logic.Engine
	d time.Duration
}

func (c flashController) Flash() error {
	if c.d > 0 {
		return c.Engine.FlashFor(c.d)
	}
	return c.Engine.Flash()
}

// loop holds everything runLoop touches. Only runLoop's goroutine uses it.
type loop struct {
	engine     *logic.Engine
	seq        *logic.Sequencer
	publisher  mqtt.Publisher
	mqttStatus mqtt.ConnectionStatus
	tracker    *status.Tracker
	recorder   *metrics.Recorder
	flash      time.Duration
	now        func() time.Time

	prev logic.Snapshot
}

func runLoop(l *loop, tick <-chan time.Time, sig <-chan os.Signal) error {
	l.prev = l.engine.Snapshot()
	t := l.now()
	l.check("begin sequence", l.seq.Begin(t))
	l.observe(t)

	for {
		select {
		case s := <-sig:
			t := l.now()
			switch s {
			case syscall.SIGUSR1:
				log.Printf("received %v, flashing", s)
				if l.flash > 0 {
					l.check("flash", l.engine.FlashFor(l.flash))
				} else {
					l.check("flash", l.engine.Flash())
				}
				l.observe(t)
				continue
			case syscall.SIGUSR2:
				log.Printf("received %v, advancing level", s)
				l.engine.AdvanceLevel()
				l.observe(t)
				continue
			}

			log.Printf("received %v, shutting down", s)
			l.check("stop", l.engine.Stop())
			l.observe(t)

			event := mqtt.SystemEvent{
				Timestamp: t,
				Event:     "SHUTDOWN",
				Reason:    signalName(s),
				Retained:  true,
			}
			publishSystem(l.publisher, event)
			return nil

		case <-tick:
			t := l.now()
			l.check("sequence", l.seq.Step(t))
			l.check("poll", l.engine.Poll())
			l.observe(t)
		}
	}
}

// check logs a failed engine call. Light write errors never stop the loop.
func (l *loop) check(op string, err error) {
	if err == nil {
		return
	}
	log.Printf("%s: %v", op, err)
	if l.recorder != nil {
		l.recorder.OutputError()
	}
}

// observe publishes the changes since the last call and refreshes status.
func (l *loop) observe(t time.Time) {
	snap := l.engine.Snapshot()
	events := logic.Changes(l.prev, snap, t)
	l.prev = snap

	for _, event := range events {
		log.Printf("event: %s (state=%s level=%d)", event.Type, event.State, event.Level)
		if err := l.publisher.Publish(event); err != nil {
			log.Printf("publish error: %v", err)
		}
	}

	if l.recorder != nil {
		l.recorder.Observe(snap, events)
	}
	if l.tracker != nil {
		l.tracker.Update(snap, string(l.seq.Phase()), l.seq.Runs(), events)
		if l.mqttStatus != nil {
			l.tracker.SetMQTTConnected(l.mqttStatus.IsConnected())
		}
	}
}

// publishSystem sends a lifecycle event and logs what became of it.
func publishSystem(p mqtt.Publisher, event mqtt.SystemEvent) {
	name := strings.ToLower(event.Event)
	err := p.PublishSystem(event)
	switch {
	case errors.Is(err, mqtt.ErrQueued):
		log.Printf("%s event queued: broker not connected", name)
	case err != nil:
		log.Printf("failed to publish %s event: %v", name, err)
	default:
		log.Printf("published %s event", name)
	}
}

func signalName(s os.Signal) string {
	switch s {
	case syscall.SIGINT:
		return "SIGINT"
	case syscall.SIGTERM:
		return "SIGTERM"
	}
	return "UNKNOWN"
}
