// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package sk9822 drives a word clock face wired as a single strip of SK9822
// or APA102 LEDs.
//
// Every frame buffer cell maps to one LED in chain order, so a snake wired
// face is handled by the grid geometry alone. The overall level is applied to
// the colour channels and the 5 bit global current stays fixed.
//
// # Datasheet
//
// https://cdn-shop.adafruit.com/product-files/3484/3484_Datasheet.pdf
package sk9822

import (
	"errors"
	"fmt"
	"image/color"

	"periph.io/x/conn/v3/display"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"

	"github.com/GermanBionicSystems/wordclock/grid"
)

// MaxGlobal is the highest value of the per LED current setting.
const MaxGlobal = 0x1f

// Opts represents the options of the strip.
type Opts struct {
	// Color of a lit cell at full level.
	Color color.NRGBA
	// Global is the per LED current, 0 to MaxGlobal.
	Global uint8
	// Frequency of the SPI clock.
	Frequency physic.Frequency
}

// DefaultOpts is white at full current, clocked at 4MHz.
var DefaultOpts = Opts{
	Color:     color.NRGBA{R: 255, G: 255, B: 255, A: 255},
	Global:    MaxGlobal,
	Frequency: 4 * physic.MegaHertz,
}

// Dev is a SK9822 strip.
type Dev struct {
	conn  spi.Conn
	opts  Opts
	frame []byte
	// n is the number of LEDs encoded in frame.
	n int
}

func wrap(err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("sk9822: %w", err)
}

// NewSPI returns a strip connected on p.
func NewSPI(p spi.Port, opts *Opts) (*Dev, error) {
	o := DefaultOpts
	if opts != nil {
		o = *opts
	}
	if o.Global > MaxGlobal {
		return nil, errors.New("sk9822: global current must be between 0 and 31")
	}
	if o.Frequency == 0 {
		o.Frequency = DefaultOpts.Frequency
	}
	c, err := p.Connect(o.Frequency, spi.Mode3, 8)
	if err != nil {
		return nil, wrap(err)
	}
	return &Dev{conn: c, opts: o}, nil
}

// frameSize returns the size of a frame for n LEDs: start frame, 4 bytes per
// LED, and one end frame byte per 16 LEDs.
func frameSize(n int) int {
	return 4 + 4*n + (n+15)/16
}

func (d *Dev) resize(n int) {
	if n == d.n && d.frame != nil {
		return
	}
	d.n = n
	// The start and end frames are all zeros.
	d.frame = make([]byte, frameSize(n))
}

func scale(c uint8, level display.Intensity) byte {
	return byte(int(c) * int(level) / 255)
}

// Show renders buf at level.
func (d *Dev) Show(buf *grid.Buffer, level display.Intensity) error {
	d.resize(buf.Len())
	r := scale(d.opts.Color.R, level)
	g := scale(d.opts.Color.G, level)
	b := scale(d.opts.Color.B, level)
	for ix := range d.n {
		p := d.frame[4+4*ix:]
		p[0] = 0xe0 | d.opts.Global
		if buf.At(ix) {
			p[1], p[2], p[3] = b, g, r
		} else {
			p[1], p[2], p[3] = 0, 0, 0
		}
	}
	return wrap(d.conn.Tx(d.frame, nil))
}

// Halt implements conn.Resource. It turns off every LED of the last frame.
func (d *Dev) Halt() error {
	if d.frame == nil {
		return nil
	}
	for ix := range d.n {
		p := d.frame[4+4*ix:]
		p[1], p[2], p[3] = 0, 0, 0
	}
	return wrap(d.conn.Tx(d.frame, nil))
}

func (d *Dev) String() string {
	return fmt.Sprintf("SK9822{%d}", d.n)
}
