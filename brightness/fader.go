// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package brightness

import (
	"time"

	"github.com/GermanBionicSystems/wordclock/common"
	"github.com/GermanBionicSystems/wordclock/monotonic"
)

// DefaultFadeSteps is the number of steps of a fade. A fade takes one second.
const DefaultFadeSteps = 16

// Fader eases the current level toward a target. It is an explicit state
// machine advanced by the caller, never sleeping itself.
type Fader struct {
	min, max int
	steps    int
	period   monotonic.Millis

	current, target int
	fading          bool
	stepsRemaining  int
	step            int
	nextStepAt      monotonic.Millis
}

// NewFader returns a Fader over [lo, hi] starting at the level initial. A
// fade has steps steps spread over one second; steps < 1 selects
// DefaultFadeSteps.
func NewFader(lo, hi, steps, initial int) *Fader {
	if lo > hi {
		lo, hi = hi, lo
	}
	if steps < 1 {
		steps = DefaultFadeSteps
	}
	period := monotonic.FromDuration(time.Second / time.Duration(steps))
	if period == 0 {
		period = 1
	}
	c := common.Clamp(initial, lo, hi)
	return &Fader{min: lo, max: hi, steps: steps, period: period, current: c, target: c}
}

// Start begins a fade to target. The first step is taken by the first Advance
// at or after now. Starting a fade to the current target is a no-op so that
// repeated control ticks don't restart a running fade.
func (f *Fader) Start(target int, now monotonic.Millis) {
	target = common.Clamp(target, f.min, f.max)
	if target == f.target && (f.fading || f.current == target) {
		return
	}
	f.target = target
	if f.current == target {
		f.fading = false
		return
	}
	f.step = (target - f.current) / f.steps
	if f.step == 0 {
		f.step = common.Sign(target - f.current)
	}
	f.stepsRemaining = f.steps
	f.nextStepAt = now
	f.fading = true
}

// Advance takes at most one step if the step deadline has been reached. It
// reports whether the current level changed.
func (f *Fader) Advance(now monotonic.Millis) bool {
	if !f.fading || !monotonic.Reached(now, f.nextStepAt) {
		return false
	}
	prev := f.current
	next := f.current + f.step
	// Never overshoot, and land on the target with the last step.
	if f.step > 0 && next > f.target || f.step < 0 && next < f.target || f.stepsRemaining <= 1 {
		next = f.target
	}
	f.current = common.Clamp(next, f.min, f.max)
	f.stepsRemaining--
	f.nextStepAt = now + f.period
	if f.current == f.target || f.current == f.min || f.current == f.max {
		f.fading = false
	}
	return f.current != prev
}

// Current returns the level driven to the LEDs.
func (f *Fader) Current() int { return f.current }

// Target returns the level being faded to.
func (f *Fader) Target() int { return f.target }

// Fading reports whether a fade is in progress.
func (f *Fader) Fading() bool { return f.fading }

// Period returns the delay between two steps.
func (f *Fader) Period() time.Duration { return f.period.Duration() }
