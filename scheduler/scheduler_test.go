// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package scheduler

import (
	"context"
	"errors"
	"math"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/GermanBionicSystems/wordclock/monotonic"
)

type recorder struct {
	runs []string
}

func (r *recorder) task(name string) Task {
	return TaskFunc(func(now monotonic.Millis) {
		r.runs = append(r.runs, name)
	})
}

func TestRunOnceIntervals(t *testing.T) {
	clock := monotonic.NewManual(0)
	s := New(clock, 0)
	r := &recorder{}
	_ = s.Add("fast", 100*time.Millisecond, r.task("fast"))
	_ = s.Add("slow", time.Second, r.task("slow"))

	// Elapsed time must strictly exceed the interval.
	clock.Set(100)
	if n := s.RunOnce(); n != 0 {
		t.Errorf("%d tasks ran at exactly the interval", n)
	}
	for now := monotonic.Millis(101); now <= 1010; now += 101 {
		clock.Set(now)
		s.RunOnce()
	}
	want := []string{"fast", "fast", "fast", "fast", "fast", "fast", "fast", "fast", "fast", "fast", "slow"}
	if diff := cmp.Diff(r.runs, want); diff != "" {
		t.Errorf("(-got +want):\n%s", diff)
	}
}

// The same tick runs tasks in the order they were added.
func TestRunOnceOrder(t *testing.T) {
	clock := monotonic.NewManual(0)
	s := New(clock, 0)
	r := &recorder{}
	for _, name := range []string{"motion", "light", "time", "brightness"} {
		_ = s.Add(name, 10*time.Millisecond, r.task(name))
	}
	clock.Set(11)
	if n := s.RunOnce(); n != 4 {
		t.Errorf("%d tasks ran", n)
	}
	if diff := cmp.Diff(r.runs, s.Tasks()); diff != "" {
		t.Errorf("(-got +want):\n%s", diff)
	}
}

// The last run is marked with the tick time, so lateness is not caught up.
func TestRunOnceDrift(t *testing.T) {
	clock := monotonic.NewManual(0)
	s := New(clock, 0)
	var at []monotonic.Millis
	_ = s.Add("t", 100*time.Millisecond, TaskFunc(func(now monotonic.Millis) { at = append(at, now) }))
	for _, now := range []monotonic.Millis{150, 240, 251, 300, 352} {
		clock.Set(now)
		s.RunOnce()
	}
	if diff := cmp.Diff(at, []monotonic.Millis{150, 251, 352}); diff != "" {
		t.Errorf("(-got +want):\n%s", diff)
	}
}

func TestRunOnceClockOverflow(t *testing.T) {
	start := monotonic.Millis(math.MaxUint32 - 50)
	clock := monotonic.NewManual(start)
	s := New(clock, 0)
	runs := 0
	_ = s.Add("t", 100*time.Millisecond, TaskFunc(func(monotonic.Millis) { runs++ }))
	s.RunOnce()
	if runs != 1 {
		t.Fatalf("runs=%d expected the first run", runs)
	}
	clock.Set(start + 60)
	s.RunOnce()
	clock.Set(start + 101)
	s.RunOnce()
	if runs != 2 {
		t.Errorf("runs=%d expected a run after the counter wrapped", runs)
	}
}

func TestRunOnceZeroInterval(t *testing.T) {
	clock := monotonic.NewManual(0)
	s := New(clock, 0)
	runs := 0
	_ = s.Add("step", 0, TaskFunc(func(monotonic.Millis) { runs++ }))
	for i := 1; i <= 5; i++ {
		clock.Set(monotonic.Millis(i))
		s.RunOnce()
	}
	if runs != 5 {
		t.Errorf("runs=%d expected one per tick", runs)
	}
}

func TestAddNil(t *testing.T) {
	s := New(monotonic.NewManual(0), 0)
	if err := s.Add("nil", time.Second, nil); !errors.Is(err, ErrNilTask) {
		t.Errorf("Add(nil)=%v", err)
	}
}

func TestRun(t *testing.T) {
	clock := monotonic.NewManual(0)
	s := New(clock, 10*time.Millisecond)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	var runs atomic.Int32
	_ = s.Add("t", 0, TaskFunc(func(monotonic.Millis) { runs.Add(1) }))
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()

	// Nothing runs until the idle delay elapses on the clock.
	for range 3 {
		clock.BlockUntil(1)
		clock.Advance(10 * time.Millisecond)
	}
	clock.BlockUntil(1)
	if got := runs.Load(); got != 3 {
		t.Errorf("runs=%d expected 3", got)
	}
	cancel()
	if err := <-done; !errors.Is(err, context.Canceled) {
		t.Errorf("Run()=%v", err)
	}
}

func TestRunSystemClock(t *testing.T) {
	s := New(monotonic.NewSystem(), time.Millisecond)
	ctx, cancel := context.WithCancel(context.Background())
	runs := 0
	_ = s.Add("t", 0, TaskFunc(func(monotonic.Millis) {
		runs++
		if runs == 3 {
			cancel()
		}
	}))
	if err := s.Run(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("Run()=%v", err)
	}
}
