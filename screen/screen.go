// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package screen previews a word clock face on the terminal using ANSI color
// codes.
//
// Each row of the face is printed as its letters, lit ones upper-cased and the
// others lower-cased, followed by a strip of colored blocks. Useful while the
// LED matrix is still on the bench.
package screen

import (
	"bytes"
	"fmt"
	"image/color"
	"io"
	"unicode"

	"github.com/maruel/ansi256"
	"github.com/mattn/go-colorable"
	"periph.io/x/conn/v3/display"

	"github.com/GermanBionicSystems/wordclock/grid"
	"github.com/GermanBionicSystems/wordclock/wordlayout"
)

// Opts represents the options available for this display.
type Opts struct {
	// W defaults to stdout.
	W       io.Writer
	Palette *ansi256.Palette
	// Color of a lit cell at full level. Defaults to white.
	Color color.NRGBA

	_ struct{}
}

// Dev is a word clock emulator that outputs to the console.
type Dev struct {
	w       io.Writer
	layout  *wordlayout.Layout
	palette ansi256.Palette
	color   color.NRGBA

	buf bytes.Buffer
}

// New returns a Dev that displays layout at the console.
func New(layout *wordlayout.Layout, opts *Opts) *Dev {
	var o Opts
	if opts != nil {
		o = *opts
	}
	p := o.Palette
	if p == nil {
		p = ansi256.Default
	}
	w := o.W
	if w == nil {
		w = colorable.NewColorableStdout()
	}
	c := o.Color
	if c == (color.NRGBA{}) {
		c = color.NRGBA{R: 255, G: 255, B: 255, A: 255}
	}
	return &Dev{w: w, layout: layout, palette: *p, color: c}
}

func (d *Dev) String() string {
	return "Screen"
}

// Halt implements conn.Resource.
//
// It resets the terminal colors.
func (d *Dev) Halt() error {
	_, err := d.w.Write([]byte("\n\033[0m"))
	return err
}

// Lit returns the color of a lit cell at level.
func (d *Dev) Lit(level display.Intensity) color.NRGBA {
	s := func(v uint8) uint8 { return uint8(int(v) * int(level) / 255) }
	return color.NRGBA{R: s(d.color.R), G: s(d.color.G), B: s(d.color.B), A: 255}
}

// Show renders buf at level.
func (d *Dev) Show(buf *grid.Buffer, level display.Intensity) error {
	g := buf.Grid()
	lit := d.palette.Block(d.Lit(level))
	dark := d.palette.Block(color.NRGBA{A: 255})
	// This code is designed to minimize the amount of memory allocated per call.
	d.buf.Reset()
	_, _ = d.buf.WriteString("\033[H\033[2J")
	for row := range g.Rows + 1 {
		width := g.RowWidth(row)
		if width == 0 {
			continue
		}
		for col := range width {
			r := d.layout.Letter(row, col)
			if buf.Lit(row, col) {
				r = unicode.ToUpper(r)
			} else {
				r = unicode.ToLower(r)
			}
			_, _ = d.buf.WriteRune(r)
		}
		_, _ = d.buf.WriteString("  ")
		for col := range width {
			if buf.Lit(row, col) {
				_, _ = d.buf.WriteString(lit)
			} else {
				_, _ = d.buf.WriteString(dark)
			}
		}
		_, _ = d.buf.WriteString("\033[0m\n")
	}
	_, err := d.buf.WriteTo(d.w)
	return err
}

var _ fmt.Stringer = &Dev{}
