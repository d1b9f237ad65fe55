// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package monotonic provides a wrapping millisecond counter in the style of a
// microcontroller's millis() register.
//
// The counter is 32 bits wide and overflows after about 49.7 days. All
// comparisons go through Since and Reached, which use modular subtraction and
// therefore keep working across the overflow.
package monotonic

import (
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
)

// Millis is a wrapping millisecond timestamp.
type Millis uint32

// FromDuration converts d to a Millis interval, truncating sub-millisecond
// precision. Negative durations convert to 0.
func FromDuration(d time.Duration) Millis {
	if d <= 0 {
		return 0
	}
	return Millis(d / time.Millisecond)
}

// Duration converts an interval back to a time.Duration.
func (m Millis) Duration() time.Duration {
	return time.Duration(m) * time.Millisecond
}

// Since returns the time elapsed from then to now, tolerating one overflow of
// the counter in between.
func Since(now, then Millis) Millis {
	return now - then
}

// Reached reports whether now is at or after deadline. It is valid as long as
// the two timestamps are less than half the counter range apart.
func Reached(now, deadline Millis) bool {
	return int32(now-deadline) >= 0
}

// Clock is a source of monotonic timestamps. Base is the clock the
// timestamps derive from, for waiting on timers.
type Clock interface {
	Now() Millis
	Base() clockwork.Clock
}

// System is a Clock backed by the runtime's monotonic clock.
type System struct {
	base  clockwork.Clock
	start time.Time
}

// NewSystem returns a System clock whose origin is the current instant.
func NewSystem() *System {
	c := clockwork.NewRealClock()
	return &System{base: c, start: c.Now()}
}

// Now implements Clock.
func (s *System) Now() Millis {
	return Millis(s.base.Since(s.start) / time.Millisecond)
}

// Base implements Clock.
func (s *System) Base() clockwork.Clock {
	return s.base
}

// Manual is a Clock that only moves when told to. It is used by tests and by
// the time simulation. Timers obtained from Base fire as it advances.
type Manual struct {
	fake  *clockwork.FakeClock
	start time.Time

	mu     sync.Mutex
	offset Millis
}

// NewManual returns a Manual clock reading start.
func NewManual(start Millis) *Manual {
	f := clockwork.NewFakeClock()
	return &Manual{fake: f, start: f.Now(), offset: start}
}

// Now implements Clock.
func (m *Manual) Now() Millis {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.now()
}

func (m *Manual) now() Millis {
	return m.offset + Millis(m.fake.Since(m.start)/time.Millisecond)
}

// Base implements Clock.
func (m *Manual) Base() clockwork.Clock {
	return m.fake
}

// Set moves the reading to t without firing timers. t may be in the past.
func (m *Manual) Set(t Millis) {
	m.mu.Lock()
	m.offset += t - m.now()
	m.mu.Unlock()
}

// Advance moves the clock forward by d, firing the timers that expire, and
// returns the new reading.
func (m *Manual) Advance(d time.Duration) Millis {
	m.fake.Advance(d)
	return m.Now()
}

// BlockUntil waits until n timers are pending on the clock.
func (m *Manual) BlockUntil(n int) {
	m.fake.BlockUntil(n)
}

var _ Clock = &System{}
var _ Clock = &Manual{}
