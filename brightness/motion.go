// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package brightness

import (
	"sync/atomic"
	"time"

	"github.com/GermanBionicSystems/wordclock/monotonic"
)

// Thresholds selects how long the face stays lit without motion, depending on
// the hour of the day.
type Thresholds struct {
	// Day and Night are the inactivity periods before the display sleeps.
	Day, Night time.Duration
	// NightFrom and NightUntil delimit the night, in hours [0, 23]. The night
	// may wrap around midnight.
	NightFrom, NightUntil int
}

// DefaultThresholds sleeps after 30 minutes during the day and after 10
// minutes between 22:00 and 07:00.
var DefaultThresholds = Thresholds{
	Day:        30 * time.Minute,
	Night:      10 * time.Minute,
	NightFrom:  22,
	NightUntil: 7,
}

// IsNight reports whether hour falls in the night window.
func (t Thresholds) IsNight(hour int) bool {
	if t.NightFrom == t.NightUntil {
		return false
	}
	if t.NightFrom < t.NightUntil {
		return hour >= t.NightFrom && hour < t.NightUntil
	}
	return hour >= t.NightFrom || hour < t.NightUntil
}

// For returns the inactivity threshold in effect at hour.
func (t Thresholds) For(hour int) time.Duration {
	if t.IsNight(hour) {
		return t.Night
	}
	return t.Day
}

// Motion tracks the last time presence was detected.
//
// Notify is a single atomic store and may be called from an edge-detection
// goroutine; everything else runs in the control loop.
//
// Idle is measured on the wrapping millisecond counter. After about 49.7
// days without any detection it wraps back to a small value and the display
// wakes up until the threshold elapses again.
type Motion struct {
	last       atomic.Uint32
	level      bool
	thresholds Thresholds
}

// NewMotion returns a Motion that considers now as the last detection.
func NewMotion(t Thresholds, now monotonic.Millis) *Motion {
	m := &Motion{thresholds: t}
	m.last.Store(uint32(now))
	return m
}

// Notify records a detection at now.
func (m *Motion) Notify(now monotonic.Millis) {
	m.last.Store(uint32(now))
}

// Observe feeds a polled sensor level. Only transitions count as detections.
// It reports whether level differs from the previous observation.
func (m *Motion) Observe(level bool, now monotonic.Millis) bool {
	if level == m.level {
		return false
	}
	m.level = level
	m.Notify(now)
	return true
}

// LastDetected returns the timestamp of the last detection.
func (m *Motion) LastDetected() monotonic.Millis {
	return monotonic.Millis(m.last.Load())
}

// Idle returns the time since the last detection.
func (m *Motion) Idle(now monotonic.Millis) time.Duration {
	return monotonic.Since(now, m.LastDetected()).Duration()
}

// Asleep reports whether nobody has been seen for longer than the threshold
// in effect at hour.
func (m *Motion) Asleep(now monotonic.Millis, hour int) bool {
	return m.Idle(now) > m.thresholds.For(hour)
}
