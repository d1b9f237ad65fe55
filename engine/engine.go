// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package engine ties the word clock together.
//
// An Engine owns the frame buffer, the word layout, the translator and the
// brightness controller; nothing is global. Its tasks are bound to a
// scheduler.Scheduler and run from a single cooperative loop: sampling light,
// polling motion, rendering the time, recomputing the brightness and stepping
// the fade.
package engine

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/jonboulle/clockwork"
	"periph.io/x/conn/v3/display"

	"github.com/GermanBionicSystems/wordclock/brightness"
	"github.com/GermanBionicSystems/wordclock/grid"
	"github.com/GermanBionicSystems/wordclock/monotonic"
	"github.com/GermanBionicSystems/wordclock/scheduler"
	"github.com/GermanBionicSystems/wordclock/sensors"
	"github.com/GermanBionicSystems/wordclock/timewords"
	"github.com/GermanBionicSystems/wordclock/wordlayout"
)

// Task intervals.
const (
	MotionInterval     = 100 * time.Millisecond
	LightInterval      = 250 * time.Millisecond
	TimeInterval       = time.Second
	BrightnessInterval = time.Second
)

var (
	ErrNoSink = errors.New("engine: sink is nil")
	ErrNoTime = errors.New("engine: time source is nil")
)

// Sink renders a frame on the LEDs at the given brightness.
type Sink interface {
	Show(buf *grid.Buffer, level display.Intensity) error
}

// TimeSource supplies the wall-clock time. Synchronization is its business.
type TimeSource interface {
	Clock() (hour, minute int)
}

// SystemTime reads the host clock in Location. A nil Location means local
// time and a nil Base the real clock.
type SystemTime struct {
	Location *time.Location
	Base     clockwork.Clock
}

// Clock implements TimeSource.
func (s SystemTime) Clock() (hour, minute int) {
	var now time.Time
	if s.Base != nil {
		now = s.Base.Now()
	} else {
		now = time.Now()
	}
	if s.Location != nil {
		now = now.In(s.Location)
	}
	hour, minute, _ = now.Clock()
	return hour, minute
}

// Opts represents the options of an Engine.
type Opts struct {
	// Layout of the face. nil selects wordlayout.Default(false).
	Layout     *wordlayout.Layout
	Translate  timewords.Opts
	Brightness brightness.Opts
	// Logger receives diagnostics. nil selects log.Default(). It is also
	// used by the translator and the controller unless they set their own.
	Logger *log.Logger
}

// DefaultOpts is the recommended default options.
var DefaultOpts = Opts{
	Translate:  timewords.DefaultOpts,
	Brightness: brightness.DefaultOpts,
}

// Engine is the word clock core.
type Engine struct {
	layout *wordlayout.Layout
	tr     *timewords.Translator
	buf    *grid.Buffer
	ctrl   *brightness.Controller
	sink   Sink
	clock  monotonic.Clock
	log    *log.Logger
	hour   int
}

// New returns an Engine flushing to sink and timing itself with c. opts may
// be nil to use DefaultOpts.
func New(sink Sink, c monotonic.Clock, opts *Opts) (*Engine, error) {
	if sink == nil {
		return nil, ErrNoSink
	}
	o := DefaultOpts
	if opts != nil {
		o = *opts
	}
	if o.Layout == nil {
		o.Layout = wordlayout.Default(false)
	}
	if o.Translate.NoonMidnight {
		for _, t := range []wordlayout.Token{wordlayout.Noon, wordlayout.Midnight} {
			if _, ok := o.Layout.Word(t); !ok {
				return nil, fmt.Errorf("%w %s", wordlayout.ErrMissingWord, t)
			}
		}
	}
	if o.Logger == nil {
		o.Logger = log.Default()
	}
	if o.Translate.Logger == nil {
		o.Translate.Logger = o.Logger
	}
	if o.Brightness.Logger == nil {
		o.Brightness.Logger = o.Logger
	}
	buf, err := grid.NewBuffer(o.Layout.Grid())
	if err != nil {
		return nil, wrap(err)
	}
	ctrl, err := brightness.New(&o.Brightness, c.Now())
	if err != nil {
		return nil, wrap(err)
	}
	return &Engine{
		layout: o.Layout,
		tr:     timewords.New(&o.Translate),
		buf:    buf,
		ctrl:   ctrl,
		sink:   sink,
		clock:  c,
		log:    o.Logger,
	}, nil
}

func wrap(err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("engine: %w", err)
}

// Render draws hour:minute into a fresh frame and flushes it.
func (e *Engine) Render(hour, minute int) error {
	tokens, err := e.tr.Translate(hour, minute)
	if err != nil {
		return wrap(err)
	}
	e.hour = hour
	e.buf.Clear()
	for _, t := range tokens {
		w, ok := e.layout.Word(t)
		if !ok {
			continue
		}
		e.buf.Activate(w)
	}
	return e.Refresh()
}

// Refresh flushes the current frame again, typically after the brightness
// changed.
func (e *Engine) Refresh() error {
	return wrap(e.sink.Show(e.buf, e.ctrl.Level()))
}

// Buffer returns the current frame.
func (e *Engine) Buffer() *grid.Buffer {
	return e.buf
}

// Layout returns the face layout.
func (e *Engine) Layout() *wordlayout.Layout {
	return e.layout
}

// Controller returns the brightness controller, for overrides and sensors.
func (e *Engine) Controller() *brightness.Controller {
	return e.ctrl
}

// Inputs are the collaborators the tasks read from. Light and Motion may be
// nil.
type Inputs struct {
	Time   TimeSource
	Light  sensors.LightReader
	Motion *sensors.MotionPoller
}

// Register adds the engine's tasks to s in priority order: motion poll, light
// sample, show time, brightness control and fade step.
func (e *Engine) Register(s *scheduler.Scheduler, in Inputs) error {
	if in.Time == nil {
		return ErrNoTime
	}
	if in.Motion != nil {
		if err := s.Add("motion", MotionInterval, scheduler.TaskFunc(func(now monotonic.Millis) {
			in.Motion.Poll(now)
		})); err != nil {
			return wrap(err)
		}
	}
	if in.Light != nil {
		if err := s.Add("light", LightInterval, scheduler.TaskFunc(func(monotonic.Millis) {
			v, err := in.Light.ReadLight()
			if err != nil {
				e.log.Printf("[ERROR] %v", err)
				return
			}
			e.ctrl.Sample(v)
		})); err != nil {
			return wrap(err)
		}
	}
	tasks := []struct {
		name     string
		interval time.Duration
		fn       scheduler.TaskFunc
	}{
		{"time", TimeInterval, func(monotonic.Millis) { e.showTime(in.Time) }},
		{"brightness", BrightnessInterval, func(now monotonic.Millis) { e.ctrl.Update(now, e.hour) }},
		{"fade", 0, e.fadeStep},
	}
	for _, t := range tasks {
		if err := s.Add(t.name, t.interval, t.fn); err != nil {
			return wrap(err)
		}
	}
	return nil
}

func (e *Engine) showTime(src TimeSource) {
	hour, minute := src.Clock()
	e.log.Printf("[DEBUG] %d:%02d", hour, minute)
	if err := e.Render(hour, minute); err != nil {
		e.log.Printf("[ERROR] %v", err)
	}
}

func (e *Engine) fadeStep(now monotonic.Millis) {
	if !e.ctrl.Step(now) {
		return
	}
	if err := e.Refresh(); err != nil {
		e.log.Printf("[ERROR] %v", err)
	}
}

// Simulate renders every minute of a 12 hour span in order, waiting step
// between frames on the engine's clock. Sink errors are logged and the sweep
// continues.
func (e *Engine) Simulate(ctx context.Context, step time.Duration) error {
	base := e.clock.Base()
	for i := range 12 * 60 {
		if err := e.Render(i/60, i%60); err != nil {
			e.log.Printf("[ERROR] %v", err)
		}
		if step <= 0 {
			if err := ctx.Err(); err != nil {
				return err
			}
			continue
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-base.After(step):
		}
	}
	return nil
}
