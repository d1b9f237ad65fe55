// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package scheduler runs a small fixed set of periodic tasks from a single
// cooperative loop.
//
// Every tick reads the clock once and runs, in the order they were added, the
// tasks whose interval has strictly elapsed since their last run. A task that
// runs is marked with the tick's timestamp, not with its previous deadline, so
// lateness accumulates instead of being caught up. Tasks never run
// concurrently and a slow task delays the ones after it.
package scheduler

import (
	"context"
	"errors"
	"time"

	"github.com/GermanBionicSystems/wordclock/monotonic"
)

// DefaultIdle is the delay between two ticks of Run.
const DefaultIdle = 10 * time.Millisecond

var ErrNilTask = errors.New("scheduler: task is nil")

// Task is one unit of periodic work.
type Task interface {
	Tick(now monotonic.Millis)
}

// TaskFunc adapts a function to Task.
type TaskFunc func(now monotonic.Millis)

// Tick implements Task.
func (f TaskFunc) Tick(now monotonic.Millis) { f(now) }

type entry struct {
	name     string
	interval monotonic.Millis
	last     monotonic.Millis
	task     Task
}

// Scheduler is a fixed-interval dispatcher. It is not safe for concurrent use;
// Add every task before calling Run.
type Scheduler struct {
	clock   monotonic.Clock
	idle    time.Duration
	entries []*entry
}

// New returns a Scheduler reading c. idle <= 0 selects DefaultIdle.
func New(c monotonic.Clock, idle time.Duration) *Scheduler {
	if idle <= 0 {
		idle = DefaultIdle
	}
	return &Scheduler{clock: c, idle: idle}
}

// Add appends a task. Tasks run in the order they are added. The first run
// happens once interval has elapsed from the clock's origin.
func (s *Scheduler) Add(name string, interval time.Duration, t Task) error {
	if t == nil {
		return ErrNilTask
	}
	s.entries = append(s.entries, &entry{name: name, interval: monotonic.FromDuration(interval), task: t})
	return nil
}

// Tasks returns the task names in run order.
func (s *Scheduler) Tasks() []string {
	names := make([]string, len(s.entries))
	for i, e := range s.entries {
		names[i] = e.name
	}
	return names
}

// RunOnce performs one tick and returns the number of tasks that ran.
func (s *Scheduler) RunOnce() int {
	now := s.clock.Now()
	ran := 0
	for _, e := range s.entries {
		if monotonic.Since(now, e.last) > e.interval {
			e.last = now
			e.task.Tick(now)
			ran++
		}
	}
	return ran
}

// Run ticks until ctx is done, idling between ticks on the clock's timers. A
// tick in progress is always completed.
func (s *Scheduler) Run(ctx context.Context) error {
	base := s.clock.Base()
	for {
		s.RunOnce()
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-base.After(s.idle):
		}
	}
}
