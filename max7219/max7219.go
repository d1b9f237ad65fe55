// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package max7219 drives a word clock face built from cascaded 8x8 LED
// matrices, each controlled by a Maxim MAX7219/MAX7221.
//
// The units are tiled UnitsX wide and UnitsY high and daisy-chained in reading
// order, so that unit 0 is top left. The fine-minute LEDs are expected on the
// line just below the letter matrix.
//
// # Datasheet
//
// https://www.analog.com/media/en/technical-documentation/data-sheets/MAX7219-MAX7221.pdf
package max7219

import (
	"errors"
	"fmt"

	"periph.io/x/conn/v3/display"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"

	"github.com/GermanBionicSystems/wordclock/grid"
)

const (
	_REGISTER_NOOP         byte = 0x0
	_REGISTER_DIGIT0       byte = 0x1
	_REGISTER_DECODE_MODE  byte = 0x9
	_REGISTER_INTENSITY    byte = 0xa
	_REGISTER_SCAN_LIMIT   byte = 0xb
	_REGISTER_SHUTDOWN     byte = 0xc
	_REGISTER_DISPLAY_TEST byte = 0xf

	// Each unit is an 8x8 matrix.
	unitSize = 8
)

// Opts represents the tiling of the units.
type Opts struct {
	UnitsX, UnitsY int
}

// DefaultOpts is a 2x2 tile, enough for an 11x10 face and its fine-minute
// LEDs.
var DefaultOpts = Opts{UnitsX: 2, UnitsY: 2}

// Dev is a tiled MAX7219 face.
type Dev struct {
	conn  spi.Conn
	g     grid.Grid
	opts  Opts
	units int
	// raster holds one byte per unit and digit register, MSB on the left.
	raster [][unitSize]byte
	// intensity last written, -1 when shut down.
	intensity int
}

func wrap(err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("max7219: %w", err)
}

// NewSPI connects to the chain on p and initializes every unit. g is the face
// that will be shown; it must fit in the tiles.
func NewSPI(p spi.Port, g grid.Grid, opts *Opts) (*Dev, error) {
	o := DefaultOpts
	if opts != nil {
		o = *opts
	}
	if o.UnitsX <= 0 || o.UnitsY <= 0 {
		return nil, errors.New("max7219: invalid value for number of cascaded units")
	}
	if err := g.Validate(); err != nil {
		return nil, wrap(err)
	}
	rows := g.Rows
	if g.AuxCells > 0 {
		rows++
	}
	if g.Columns > o.UnitsX*unitSize || g.AuxCells > o.UnitsX*unitSize || rows > o.UnitsY*unitSize {
		return nil, fmt.Errorf("max7219: %s doesn't fit in %dx%d units", g, o.UnitsX, o.UnitsY)
	}
	// It works in Mode0, Mode2 and Mode3.
	c, err := p.Connect(10*physic.MegaHertz, spi.Mode0, 8)
	if err != nil {
		return nil, wrap(err)
	}
	d := &Dev{
		conn:      c,
		g:         g,
		opts:      o,
		units:     o.UnitsX * o.UnitsY,
		raster:    make([][unitSize]byte, o.UnitsX*o.UnitsY),
		intensity: -1,
	}
	return d, d.init()
}

// init puts every unit in raw matrix mode, shut down and blank.
func (d *Dev) init() error {
	initCommands := [][]byte{
		{_REGISTER_DISPLAY_TEST, 0x0},
		{_REGISTER_SHUTDOWN, 0x00},
		{_REGISTER_INTENSITY, 0x00},
		{_REGISTER_SCAN_LIMIT, unitSize - 1},
		{_REGISTER_DECODE_MODE, 0x00},
	}
	for _, cmd := range initCommands {
		if err := d.sendCommand(cmd[0], cmd[1]); err != nil {
			return err
		}
	}
	return d.flush()
}

// sendCommand writes the same register of every unit in one transaction.
func (d *Dev) sendCommand(register, data byte) error {
	w := make([]byte, d.units*2)
	for ix := range d.units {
		w[ix*2] = register
		w[ix*2+1] = data
	}
	return wrap(d.conn.Tx(w, nil))
}

// flush writes the rasters, one transaction per digit register. The data for
// the last unit of the chain is shifted out first.
func (d *Dev) flush() error {
	for line := range unitSize {
		w := make([]byte, 0, d.units*2)
		for unit := d.units - 1; unit >= 0; unit-- {
			w = append(w, _REGISTER_DIGIT0+byte(line), d.raster[unit][line])
		}
		if err := d.conn.Tx(w, nil); err != nil {
			return wrap(err)
		}
	}
	return nil
}

// place returns the unit, digit line and bit of a face cell.
func (d *Dev) place(row, col int) (unit, line int, bit byte) {
	ux, uy := col/unitSize, row/unitSize
	return uy*d.opts.UnitsX + ux, row % unitSize, 0x80 >> (col % unitSize)
}

// setIntensity maps a 0-255 level to the 16 steps of the chip. Level 0 shuts
// the units down.
func (d *Dev) setIntensity(level display.Intensity) error {
	want := -1
	if level > 0 {
		want = int(level) >> 4
		if want > 0x0f {
			want = 0x0f
		}
	}
	if want == d.intensity {
		return nil
	}
	if want < 0 {
		if err := d.sendCommand(_REGISTER_SHUTDOWN, 0x00); err != nil {
			return err
		}
	} else {
		if err := d.sendCommand(_REGISTER_INTENSITY, byte(want)); err != nil {
			return err
		}
		if d.intensity < 0 {
			if err := d.sendCommand(_REGISTER_SHUTDOWN, 0x01); err != nil {
				return err
			}
		}
	}
	d.intensity = want
	return nil
}

// Show renders buf at level.
func (d *Dev) Show(buf *grid.Buffer, level display.Intensity) error {
	for ix := range d.raster {
		d.raster[ix] = [unitSize]byte{}
	}
	for ix := range buf.Len() {
		if !buf.At(ix) {
			continue
		}
		row, col, ok := d.g.Coord(ix)
		if !ok {
			continue
		}
		unit, line, bit := d.place(row, col)
		d.raster[unit][line] |= bit
	}
	if err := d.flush(); err != nil {
		return err
	}
	return d.setIntensity(level)
}

// TestDisplay turns on every LED at maximum intensity. With many units, keep
// an eye on the current draw.
func (d *Dev) TestDisplay(on bool) error {
	if on {
		return d.sendCommand(_REGISTER_DISPLAY_TEST, 1)
	}
	return d.sendCommand(_REGISTER_DISPLAY_TEST, 0)
}

// Clear blanks every unit.
func (d *Dev) Clear() error {
	for ix := range d.raster {
		d.raster[ix] = [unitSize]byte{}
	}
	return d.flush()
}

// Halt implements conn.Resource. It blanks and shuts every unit down.
func (d *Dev) Halt() error {
	if err := d.Clear(); err != nil {
		return err
	}
	d.intensity = -1
	return d.sendCommand(_REGISTER_SHUTDOWN, 0x00)
}

func (d *Dev) String() string {
	return fmt.Sprintf("MAX7219{%dx%d}", d.opts.UnitsX, d.opts.UnitsY)
}
