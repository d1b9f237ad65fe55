// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package sensors reads the ambient light and presence inputs of a word
// clock.
//
// The light sensor is an LDR on any ADC exposed as an analog.PinADC. The
// presence sensor is a PIR module on a GPIO. It can either be watched for
// edges from a dedicated goroutine, whose only job is to store a timestamp,
// or polled from the control loop.
package sensors

import (
	"context"
	"errors"
	"fmt"
	"time"

	"periph.io/x/conn/v3/analog"
	"periph.io/x/conn/v3/gpio"

	"github.com/GermanBionicSystems/wordclock/brightness"
	"github.com/GermanBionicSystems/wordclock/monotonic"
)

var ErrNoPin = errors.New("sensors: pin is nil")

// LightReader returns one raw ambient light reading.
type LightReader interface {
	ReadLight() (int, error)
}

// Light reads an LDR through an ADC pin.
type Light struct {
	pin analog.PinADC
}

// NewLight returns a Light reading from p.
func NewLight(p analog.PinADC) (*Light, error) {
	if p == nil {
		return nil, ErrNoPin
	}
	return &Light{pin: p}, nil
}

// ReadLight implements LightReader. The raw ADC count is returned; negative
// counts read as 0.
func (l *Light) ReadLight() (int, error) {
	s, err := l.pin.Read()
	if err != nil {
		return 0, fmt.Errorf("sensors: %s: %w", l.pin, err)
	}
	if s.Raw < 0 {
		return 0, nil
	}
	return int(s.Raw), nil
}

func (l *Light) String() string {
	return "Light{" + l.pin.String() + "}"
}

// Fixed is a LightReader returning a constant, for hosts without an ADC.
type Fixed int

// ReadLight implements LightReader.
func (f Fixed) ReadLight() (int, error) {
	return int(f), nil
}

// MotionWatcher forwards rising edges of a PIR output to a brightness.Motion.
type MotionWatcher struct {
	pin    gpio.PinIn
	motion *brightness.Motion
	clock  monotonic.Clock
	poll   time.Duration
}

// NewMotionWatcher configures p for rising edge detection.
func NewMotionWatcher(p gpio.PinIn, m *brightness.Motion, c monotonic.Clock) (*MotionWatcher, error) {
	if p == nil {
		return nil, ErrNoPin
	}
	if err := p.In(gpio.PullDown, gpio.RisingEdge); err != nil {
		return nil, fmt.Errorf("sensors: %s: %w", p, err)
	}
	return &MotionWatcher{pin: p, motion: m, clock: c, poll: 100 * time.Millisecond}, nil
}

// Run blocks until ctx is done, recording a detection for every edge.
func (w *MotionWatcher) Run(ctx context.Context) {
	for ctx.Err() == nil {
		if w.pin.WaitForEdge(w.poll) {
			w.motion.Notify(w.clock.Now())
		}
	}
}

// MotionPoller reads the PIR level from the control loop. Only transitions
// count as detections.
type MotionPoller struct {
	pin    gpio.PinIn
	motion *brightness.Motion
}

// NewMotionPoller configures p as an input without edge detection.
func NewMotionPoller(p gpio.PinIn, m *brightness.Motion) (*MotionPoller, error) {
	if p == nil {
		return nil, ErrNoPin
	}
	if err := p.In(gpio.PullDown, gpio.NoEdge); err != nil {
		return nil, fmt.Errorf("sensors: %s: %w", p, err)
	}
	return &MotionPoller{pin: p, motion: m}, nil
}

// Poll samples the pin once. It reports whether a transition was seen.
func (p *MotionPoller) Poll(now monotonic.Millis) bool {
	return p.motion.Observe(p.pin.Read() == gpio.High, now)
}

var _ LightReader = &Light{}
var _ LightReader = Fixed(0)
