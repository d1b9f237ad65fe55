// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// wordclock shows the time as words on an LED matrix.
//
// It runs the clock on a single cooperative loop until interrupted. With
// -simulate it sweeps every minute of a 12 hour span instead, which is handy
// to check a new face.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"periph.io/x/conn/v3/display"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/conn/v3/spi"
	"periph.io/x/conn/v3/spi/spireg"
	"periph.io/x/host/v3"

	"github.com/GermanBionicSystems/wordclock/brightness"
	"github.com/GermanBionicSystems/wordclock/engine"
	"github.com/GermanBionicSystems/wordclock/faceimage"
	"github.com/GermanBionicSystems/wordclock/grid"
	"github.com/GermanBionicSystems/wordclock/max7219"
	"github.com/GermanBionicSystems/wordclock/monotonic"
	"github.com/GermanBionicSystems/wordclock/scheduler"
	"github.com/GermanBionicSystems/wordclock/screen"
	"github.com/GermanBionicSystems/wordclock/sensors"
	"github.com/GermanBionicSystems/wordclock/sk9822"
	"github.com/GermanBionicSystems/wordclock/wordlayout"
)

// device is a sink that can be turned off on exit.
type device interface {
	engine.Sink
	Halt() error
}

// pngSink writes every frame to a file.
type pngSink struct {
	*faceimage.Dev
	path string
}

func (p *pngSink) Show(buf *grid.Buffer, level display.Intensity) error {
	if err := p.Dev.Show(buf, level); err != nil {
		return err
	}
	return p.SavePNG(p.path)
}

func openSink(name string, layout *wordlayout.Layout, port spi.Port, unitsX, unitsY int, png string) (device, error) {
	switch name {
	case "screen":
		return screen.New(layout, nil), nil
	case "max7219":
		return max7219.NewSPI(port, layout.Grid(), &max7219.Opts{UnitsX: unitsX, UnitsY: unitsY})
	case "sk9822":
		return sk9822.NewSPI(port, nil)
	case "png":
		d, err := faceimage.New(nil, layout, &faceimage.Opts{Cell: 32})
		if err != nil {
			return nil, err
		}
		return &pngSink{Dev: d, path: png}, nil
	}
	return nil, fmt.Errorf("unknown sink %q", name)
}

func needsSPI(sink string) bool {
	return sink == "max7219" || sink == "sk9822"
}

func mainImpl() error {
	sinkName := flag.String("sink", "screen", "output: screen, max7219, sk9822 or png")
	spiID := flag.String("spi", "", "SPI port to use")
	unitsX := flag.Int("units-x", max7219.DefaultOpts.UnitsX, "MAX7219 units per row")
	unitsY := flag.Int("units-y", max7219.DefaultOpts.UnitsY, "MAX7219 units per column")
	snake := flag.Bool("snake", false, "odd rows of the strip are wired right to left")
	offset := flag.Int("offset", 0, "LEDs on the strip before the first cell")
	pir := flag.String("pir", "", "GPIO of the PIR sensor; motion gating is disabled if empty")
	light := flag.Int("light", brightness.DefaultOpts.NeutralLight, "fixed ambient light reading, 0 to 4095")
	tz := flag.String("tz", "America/Los_Angeles", "time zone of the face")
	level := flag.Int("brightness", -1, "fixed brightness 0 to 255, -1 to follow the ambient light")
	simulate := flag.Bool("simulate", false, "sweep every minute of 12 hours and exit")
	step := flag.Duration("step", 100*time.Millisecond, "delay between frames with -simulate")
	noItIs := flag.Bool("no-itis", false, "don't light IT IS")
	png := flag.String("png", "wordclock.png", "file written by the png sink")
	verbose := flag.Bool("v", false, "verbose mode")
	flag.Parse()
	if flag.NArg() != 0 {
		return errors.New("unexpected argument, try -help")
	}

	logger := log.New(os.Stderr, "", log.LstdFlags)
	if !*verbose {
		logger = log.New(&levelFilter{w: os.Stderr}, "", log.LstdFlags)
	}

	loc, err := time.LoadLocation(*tz)
	if err != nil {
		return err
	}
	if _, err := host.Init(); err != nil {
		return err
	}

	g := wordlayout.DefaultGrid
	g.Snake = *snake
	g.StartOffset = *offset
	layout, err := wordlayout.New(g, wordlayout.DefaultWords, wordlayout.DefaultLetters)
	if err != nil {
		return err
	}

	var port spi.PortCloser
	if needsSPI(*sinkName) {
		if port, err = spireg.Open(*spiID); err != nil {
			return err
		}
		defer port.Close()
	}
	sink, err := openSink(*sinkName, layout, port, *unitsX, *unitsY, *png)
	if err != nil {
		return err
	}
	defer func() {
		if err := sink.Halt(); err != nil {
			logger.Printf("[ERROR] %v", err)
		}
	}()

	opts := engine.DefaultOpts
	opts.Layout = layout
	opts.Logger = logger
	opts.Translate.LeadPhrase = !*noItIs
	opts.Brightness.MotionGate = *pir != ""
	clock := monotonic.NewSystem()
	e, err := engine.New(sink, clock, &opts)
	if err != nil {
		return err
	}
	if *level >= 0 {
		if err := e.Controller().SetOverride(*level); err != nil {
			return err
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		s := <-sig
		logger.Printf("[INFO] %s, shutting down", s)
		cancel()
	}()

	if *simulate {
		if err := e.Simulate(ctx, *step); err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		return nil
	}

	in := engine.Inputs{
		Time:  engine.SystemTime{Location: loc},
		Light: sensors.Fixed(*light),
	}
	if *pir != "" {
		p := gpioreg.ByName(*pir)
		if p == nil {
			return fmt.Errorf("unknown GPIO %q", *pir)
		}
		motion := e.Controller().Motion()
		if w, err := sensors.NewMotionWatcher(p, motion, clock); err == nil {
			go w.Run(ctx)
		} else {
			logger.Printf("[WARNING] %v, polling the PIR instead", err)
			if in.Motion, err = sensors.NewMotionPoller(p, motion); err != nil {
				return err
			}
		}
	}

	s := scheduler.New(clock, scheduler.DefaultIdle)
	if err := e.Register(s, in); err != nil {
		return err
	}
	logger.Printf("[INFO] %s on %s, tasks %v", layout.Grid(), sink, s.Tasks())
	if err := s.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

func main() {
	if err := mainImpl(); err != nil {
		fmt.Fprintf(os.Stderr, "wordclock: %s.\n", err)
		os.Exit(1)
	}
}
