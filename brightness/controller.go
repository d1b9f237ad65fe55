// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package brightness

import (
	"errors"
	"fmt"
	"log"

	"periph.io/x/conn/v3/display"

	"github.com/GermanBionicSystems/wordclock/common"
	"github.com/GermanBionicSystems/wordclock/monotonic"
)

const (
	// Off is the level of a sleeping display.
	Off = 0
	// Full is the highest level the LED drivers accept.
	Full = 255
)

var (
	ErrOverrideRange = errors.New("brightness: override must be between 0 and 255")
	ErrInvalidOpts   = errors.New("brightness: invalid options")
)

// Opts represents the options of a Controller.
type Opts struct {
	// MinBrightness and MaxBrightness bound the level derived from light.
	MinBrightness, MaxBrightness int
	// LightCeiling is the raw reading mapped to MaxBrightness.
	LightCeiling int
	// Samples is the size of the light averaging ring, prefilled with
	// NeutralLight.
	Samples      int
	NeutralLight int
	// FadeSteps is the number of steps of a one second fade.
	FadeSteps int
	// MotionGate enables sleeping when no motion is seen.
	MotionGate bool
	Thresholds Thresholds
	// Logger receives diagnostic lines. nil selects log.Default().
	Logger *log.Logger
}

// DefaultOpts is the recommended default options for a 12 bit ADC.
var DefaultOpts = Opts{
	MinBrightness: 8,
	MaxBrightness: Full,
	LightCeiling:  4095,
	Samples:       8,
	NeutralLight:  2048,
	FadeSteps:     DefaultFadeSteps,
	MotionGate:    true,
	Thresholds:    DefaultThresholds,
}

// Controller computes the brightness of the face. It owns the light ring, the
// motion gate, the fader and the manual override.
type Controller struct {
	opts     Opts
	log      *log.Logger
	ring     *Ring
	motion   *Motion
	fader    *Fader
	override int
	asleep   bool
}

// New returns a Controller. opts may be nil to use DefaultOpts. The display
// starts at the level derived from NeutralLight.
func New(opts *Opts, now monotonic.Millis) (*Controller, error) {
	o := DefaultOpts
	if opts != nil {
		o = *opts
	}
	if o.MinBrightness < Off || o.MaxBrightness > Full || o.MinBrightness > o.MaxBrightness {
		return nil, fmt.Errorf("%w: brightness range [%d, %d]", ErrInvalidOpts, o.MinBrightness, o.MaxBrightness)
	}
	if o.LightCeiling <= 0 {
		return nil, fmt.Errorf("%w: light ceiling %d", ErrInvalidOpts, o.LightCeiling)
	}
	l := o.Logger
	if l == nil {
		l = log.Default()
	}
	c := &Controller{
		opts:     o,
		log:      l,
		ring:     NewRing(o.Samples, o.NeutralLight),
		motion:   NewMotion(o.Thresholds, now),
		override: -1,
	}
	c.fader = NewFader(Off, Full, o.FadeSteps, c.lightTarget())
	return c, nil
}

// Sample adds a raw LDR reading. Negative readings count as 0.
func (c *Controller) Sample(raw int) {
	if raw < 0 {
		raw = 0
	}
	c.ring.Add(raw)
}

// AverageLight returns the mean of the light ring.
func (c *Controller) AverageLight() int {
	return c.ring.Average()
}

// Motion returns the motion gate, for sensors to notify.
func (c *Controller) Motion() *Motion {
	return c.motion
}

func (c *Controller) lightTarget() int {
	t := common.LinearMap(c.ring.Average(), 0, c.opts.LightCeiling, c.opts.MinBrightness, c.opts.MaxBrightness)
	return common.Clamp(t, c.opts.MinBrightness, c.opts.MaxBrightness)
}

// Target returns the level the display should have at now, during hour.
func (c *Controller) Target(now monotonic.Millis, hour int) int {
	if c.override >= 0 {
		return c.override
	}
	if c.opts.MotionGate && c.motion.Asleep(now, hour) {
		return Off
	}
	return c.lightTarget()
}

// Update is the control tick. It recomputes the target and starts a fade if
// it changed.
func (c *Controller) Update(now monotonic.Millis, hour int) {
	asleep := c.opts.MotionGate && c.motion.Asleep(now, hour)
	if asleep != c.asleep {
		if asleep {
			c.log.Printf("[INFO] no motion for %s, display sleeping", c.motion.Idle(now))
		} else {
			c.log.Printf("[INFO] motion detected, display waking up")
		}
		c.asleep = asleep
	}
	target := c.Target(now, hour)
	c.log.Printf("[DEBUG] average light %d, brightness %d -> %d", c.ring.Average(), c.fader.Current(), target)
	c.fader.Start(target, now)
}

// Step advances a running fade. It reports whether the level changed.
func (c *Controller) Step(now monotonic.Millis) bool {
	return c.fader.Advance(now)
}

// Fading reports whether a fade is in progress.
func (c *Controller) Fading() bool {
	return c.fader.Fading()
}

// SetOverride replaces the computed target by v until cleared. Values outside
// [0, 255] are rejected and the prior override is kept.
func (c *Controller) SetOverride(v int) error {
	if v < Off || v > Full {
		c.log.Printf("[ERROR] brightness override %d rejected, keeping %d", v, c.override)
		return fmt.Errorf("%w: %d", ErrOverrideRange, v)
	}
	c.override = v
	c.log.Printf("[INFO] brightness override set to %d", v)
	return nil
}

// ClearOverride returns to the computed target.
func (c *Controller) ClearOverride() {
	c.override = -1
}

// Override returns the manual override, if any.
func (c *Controller) Override() (int, bool) {
	return c.override, c.override >= 0
}

// Level returns the brightness driven to the LEDs.
func (c *Controller) Level() display.Intensity {
	return display.Intensity(c.fader.Current())
}
