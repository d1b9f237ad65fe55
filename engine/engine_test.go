// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package engine

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log"
	"maps"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/jonboulle/clockwork"
	"periph.io/x/conn/v3/display"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpiotest"

	"github.com/GermanBionicSystems/wordclock/brightness"
	"github.com/GermanBionicSystems/wordclock/grid"
	"github.com/GermanBionicSystems/wordclock/monotonic"
	"github.com/GermanBionicSystems/wordclock/scheduler"
	"github.com/GermanBionicSystems/wordclock/sensors"
	"github.com/GermanBionicSystems/wordclock/wordlayout"
)

type frame struct {
	cells []bool
	level display.Intensity
}

type recordSink struct {
	frames []frame
	err    error
}

func (r *recordSink) Show(buf *grid.Buffer, level display.Intensity) error {
	r.frames = append(r.frames, frame{cells: buf.Cells(), level: level})
	return r.err
}

func (r *recordSink) last() frame {
	return r.frames[len(r.frames)-1]
}

type fixedTime struct{ hour, minute int }

func (f *fixedTime) Clock() (int, int) { return f.hour, f.minute }

func newTestEngine(t *testing.T, sink Sink, c monotonic.Clock, w io.Writer) *Engine {
	t.Helper()
	o := DefaultOpts
	o.Logger = log.New(w, "", 0)
	e, err := New(sink, c, &o)
	if err != nil {
		t.Fatal(err)
	}
	return e
}

// litText returns the lit letters of a frame, row by row.
func litText(l *wordlayout.Layout, cells []bool) string {
	g := l.Grid()
	var b strings.Builder
	for ix, on := range cells {
		if !on {
			continue
		}
		row, col, ok := g.Coord(ix)
		if !ok {
			continue
		}
		b.WriteRune(l.Letter(row, col))
	}
	return b.String()
}

func TestRender(t *testing.T) {
	sink := &recordSink{}
	e := newTestEngine(t, sink, monotonic.NewManual(0), io.Discard)
	if err := e.Render(6, 47); err != nil {
		t.Fatal(err)
	}
	f := sink.last()
	// IT IS QUARTER TO SEVEN and two ticks, in frame order.
	if diff := cmp.Diff(litText(e.Layout(), f.cells), "ITISQUARTERTOSEVEN**"); diff != "" {
		t.Errorf("(-got +want):\n%s", diff)
	}
	if f.level != e.Controller().Level() {
		t.Errorf("flushed level %d, controller at %d", f.level, e.Controller().Level())
	}

	// The next frame starts from a cleared buffer.
	if err := e.Render(3, 0); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(litText(e.Layout(), sink.last().cells), "ITISTHREEOCLOCK"); diff != "" {
		t.Errorf("(-got +want):\n%s", diff)
	}
}

func TestRenderSnake(t *testing.T) {
	sink := &recordSink{}
	o := DefaultOpts
	o.Layout = wordlayout.Default(true)
	o.Logger = log.New(io.Discard, "", 0)
	e, err := New(sink, monotonic.NewManual(0), &o)
	if err != nil {
		t.Fatal(err)
	}
	if err := e.Render(6, 15); err != nil {
		t.Fatal(err)
	}
	// QUARTER sits on row 1, which runs backwards on a snake.
	cells := sink.last().cells
	for col := 3; col < 10; col++ {
		if !cells[11+10-col] {
			t.Errorf("QUARTER letter %d not lit at its mirrored index", col)
		}
	}
	if !e.Buffer().Lit(1, 3) {
		t.Error("Lit(1, 3) should see through the wiring")
	}
}

func TestRenderNoon(t *testing.T) {
	o := DefaultOpts
	o.Logger = log.New(io.Discard, "", 0)
	o.Translate.NoonMidnight = true
	if _, err := New(&recordSink{}, monotonic.NewManual(0), &o); !errors.Is(err, wordlayout.ErrMissingWord) {
		t.Fatalf("New()=%v expected ErrMissingWord on a face without NOON", err)
	}

	words := maps.Clone(wordlayout.DefaultWords)
	// "TENSE" on the last row stands in for the two words.
	words[wordlayout.Noon] = grid.Word{Row: 9, Col: 3, Len: 2}
	words[wordlayout.Midnight] = grid.Word{Row: 9, Col: 0, Len: 3}
	layout, err := wordlayout.New(wordlayout.DefaultGrid, words, wordlayout.DefaultLetters)
	if err != nil {
		t.Fatal(err)
	}
	o.Layout = layout
	sink := &recordSink{}
	e, err := New(sink, monotonic.NewManual(0), &o)
	if err != nil {
		t.Fatal(err)
	}
	if err := e.Render(11, 50); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(litText(layout, sink.last().cells), "ITISTENTOSE"); diff != "" {
		t.Errorf("(-got +want):\n%s", diff)
	}
	if err := e.Render(0, 0); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(litText(layout, sink.last().cells), "ITISTEN"); diff != "" {
		t.Errorf("(-got +want):\n%s", diff)
	}
}

func TestRenderErrors(t *testing.T) {
	sink := &recordSink{}
	e := newTestEngine(t, sink, monotonic.NewManual(0), io.Discard)
	if err := e.Render(24, 0); err == nil {
		t.Error("expected an error for hour 24")
	}
	if len(sink.frames) != 0 {
		t.Error("an invalid time should not flush")
	}
	boom := errors.New("boom")
	sink.err = boom
	if err := e.Render(1, 0); !errors.Is(err, boom) {
		t.Errorf("Render()=%v expected the sink error", err)
	}
	if _, err := New(nil, monotonic.NewManual(0), nil); !errors.Is(err, ErrNoSink) {
		t.Errorf("New(nil)=%v", err)
	}
}

func TestRegisterAndRun(t *testing.T) {
	var logged bytes.Buffer
	clock := monotonic.NewManual(0)
	sink := &recordSink{}
	e := newTestEngine(t, sink, clock, &logged)

	pin := &gpiotest.Pin{N: "GPIO27"}
	poller, err := sensors.NewMotionPoller(pin, e.Controller().Motion())
	if err != nil {
		t.Fatal(err)
	}
	s := scheduler.New(clock, 0)
	in := Inputs{Time: &fixedTime{9, 30}, Light: sensors.Fixed(4095), Motion: poller}
	if err := e.Register(s, in); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(s.Tasks(), []string{"motion", "light", "time", "brightness", "fade"}); diff != "" {
		t.Errorf("(-got +want):\n%s", diff)
	}

	pin.L = gpio.High
	for range 600 {
		clock.Advance(10 * time.Millisecond)
		s.RunOnce()
	}
	if e.Controller().AverageLight() != 4095 {
		t.Errorf("AverageLight()=%d expected the samples to fill the ring", e.Controller().AverageLight())
	}
	if e.Controller().Motion().LastDetected() == 0 {
		t.Error("motion poll did not record the transition")
	}
	if len(sink.frames) < 4 {
		t.Fatalf("only %d frames flushed", len(sink.frames))
	}
	if got := sink.last().level; got != brightness.Full {
		t.Errorf("level=%d expected the fade to reach full brightness", got)
	}
	if diff := cmp.Diff(litText(e.Layout(), sink.last().cells), "ITISHALFPASTNINE"); diff != "" {
		t.Errorf("(-got +want):\n%s", diff)
	}
	if !strings.Contains(logged.String(), "[DEBUG] 9:30") {
		t.Errorf("time not logged: %q", logged.String())
	}
}

func TestRegisterNeedsTime(t *testing.T) {
	e := newTestEngine(t, &recordSink{}, monotonic.NewManual(0), io.Discard)
	if err := e.Register(scheduler.New(monotonic.NewManual(0), 0), Inputs{}); !errors.Is(err, ErrNoTime) {
		t.Errorf("Register()=%v expected ErrNoTime", err)
	}
}

func TestSimulate(t *testing.T) {
	var logged bytes.Buffer
	sink := &recordSink{}
	e := newTestEngine(t, sink, monotonic.NewManual(0), &logged)
	if err := e.Simulate(context.Background(), 0); err != nil {
		t.Fatal(err)
	}
	if len(sink.frames) != 720 {
		t.Errorf("%d frames, expected 720", len(sink.frames))
	}
	for i, f := range sink.frames {
		n := 0
		for _, on := range f.cells {
			if on {
				n++
			}
		}
		if n == 0 {
			t.Errorf("frame %d is empty", i)
		}
	}
	if strings.Contains(logged.String(), "WARNING") {
		t.Errorf("simulation logged warnings: %s", logged.String())
	}
}

func TestSimulateCancel(t *testing.T) {
	sink := &recordSink{}
	e := newTestEngine(t, sink, monotonic.NewManual(0), io.Discard)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := e.Simulate(ctx, time.Hour); !errors.Is(err, context.Canceled) {
		t.Errorf("Simulate()=%v", err)
	}
	if len(sink.frames) != 1 {
		t.Errorf("%d frames rendered before cancellation", len(sink.frames))
	}
}

func TestSimulateStep(t *testing.T) {
	clock := monotonic.NewManual(0)
	sink := &recordSink{}
	e := newTestEngine(t, sink, clock, io.Discard)
	done := make(chan error, 1)
	go func() { done <- e.Simulate(context.Background(), time.Minute) }()
	for range 12 * 60 {
		clock.BlockUntil(1)
		clock.Advance(time.Minute)
	}
	if err := <-done; err != nil {
		t.Fatal(err)
	}
	if len(sink.frames) != 720 {
		t.Errorf("%d frames, expected 720", len(sink.frames))
	}
	if diff := cmp.Diff(litText(e.Layout(), sink.last().cells), "ITISFIVETOTWELVE****"); diff != "" {
		t.Errorf("(-got +want):\n%s", diff)
	}
}

func TestSystemTime(t *testing.T) {
	la, err := time.LoadLocation("America/Los_Angeles")
	if err != nil {
		t.Skip(err)
	}
	base := clockwork.NewFakeClockAt(time.Date(2024, 7, 1, 16, 25, 0, 0, time.UTC))
	h, m := SystemTime{Location: la, Base: base}.Clock()
	if h != 9 || m != 25 {
		t.Errorf("Clock()=%d:%02d expected 9:25", h, m)
	}
	h, m = SystemTime{Location: time.UTC}.Clock()
	if h < 0 || h > 23 || m < 0 || m > 59 {
		t.Errorf("Clock()=%d:%d", h, m)
	}
}
