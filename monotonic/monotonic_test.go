// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package monotonic

import (
	"math"
	"testing"
	"time"
)

func TestSinceWraps(t *testing.T) {
	then := Millis(math.MaxUint32 - 9)
	now := then + 25
	if now != 15 {
		t.Fatalf("expected wrapped reading 15, got %d", now)
	}
	if got := Since(now, then); got != 25 {
		t.Errorf("Since across overflow=%d expected 25", got)
	}
}

func TestReached(t *testing.T) {
	tests := []struct {
		now, deadline Millis
		want          bool
	}{
		{100, 100, true},
		{101, 100, true},
		{99, 100, false},
		{5, math.MaxUint32 - 5, true},
		{math.MaxUint32 - 5, 5, false},
	}
	for _, tc := range tests {
		if got := Reached(tc.now, tc.deadline); got != tc.want {
			t.Errorf("Reached(%d, %d)=%t expected %t", tc.now, tc.deadline, got, tc.want)
		}
	}
}

func TestConversions(t *testing.T) {
	if FromDuration(1500*time.Microsecond) != 1 {
		t.Error("sub-millisecond precision should be truncated")
	}
	if FromDuration(-time.Second) != 0 {
		t.Error("negative durations should convert to 0")
	}
	if Millis(250).Duration() != 250*time.Millisecond {
		t.Error("Duration round trip failed")
	}
}

func TestManual(t *testing.T) {
	c := NewManual(10)
	if c.Now() != 10 {
		t.Errorf("Now()=%d expected 10", c.Now())
	}
	if got := c.Advance(time.Second); got != 1010 {
		t.Errorf("Advance returned %d expected 1010", got)
	}
	c.Set(3)
	if c.Now() != 3 {
		t.Errorf("Now()=%d expected 3", c.Now())
	}
}

func TestSystem(t *testing.T) {
	c := NewSystem()
	a := c.Now()
	time.Sleep(2 * time.Millisecond)
	if b := c.Now(); Since(b, a) == 0 {
		t.Error("system clock did not advance")
	}
}

func TestManualSetBackwards(t *testing.T) {
	c := NewManual(math.MaxUint32 - 4)
	if got := c.Advance(10 * time.Millisecond); got != 5 {
		t.Errorf("Advance across overflow=%d expected 5", got)
	}
	c.Set(2)
	if got := c.Advance(3 * time.Millisecond); got != 5 {
		t.Errorf("Advance after Set=%d expected 5", got)
	}
}

func TestManualTimers(t *testing.T) {
	c := NewManual(0)
	ch := c.Base().After(50 * time.Millisecond)
	c.BlockUntil(1)
	c.Advance(49 * time.Millisecond)
	select {
	case <-ch:
		t.Fatal("timer fired early")
	default:
	}
	c.Advance(time.Millisecond)
	select {
	case <-ch:
	case <-time.After(time.Second):
		t.Fatal("timer did not fire")
	}
	if c.Now() != 50 {
		t.Errorf("Now()=%d expected 50", c.Now())
	}
}
