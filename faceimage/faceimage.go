// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package faceimage draws a word clock face as an image and forwards it to any
// display.Drawer, such as an e-paper or OLED panel.
package faceimage

import (
	"errors"
	"fmt"
	"image"
	"image/color"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"periph.io/x/conn/v3/display"

	"github.com/GermanBionicSystems/wordclock/grid"
	"github.com/GermanBionicSystems/wordclock/wordlayout"
)

// Opts represents the options of the renderer.
type Opts struct {
	// Cell is the side of a cell in pixels. 0 fits the face in the bounds of
	// the Drawer.
	Cell int
	// Color of a lit cell at full level. Defaults to white.
	Color color.NRGBA
	// Dim is the color of the letters of unlit cells.
	Dim color.NRGBA
}

// DefaultOpts is white on black, fitted to the Drawer.
var DefaultOpts = Opts{
	Color: color.NRGBA{R: 255, G: 255, B: 255, A: 255},
	Dim:   color.NRGBA{R: 48, G: 48, B: 48, A: 255},
}

// Dev renders layout onto a display.Drawer.
type Dev struct {
	dst    display.Drawer
	layout *wordlayout.Layout
	opts   Opts
	rows   int
	face   font.Face
	img    image.Image
}

func wrap(err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("faceimage: %w", err)
}

// New returns a renderer of layout onto dst. dst may be nil to only render
// images, in which case Opts.Cell must be set.
func New(dst display.Drawer, layout *wordlayout.Layout, opts *Opts) (*Dev, error) {
	o := DefaultOpts
	if opts != nil {
		o = *opts
		if o.Color == (color.NRGBA{}) {
			o.Color = DefaultOpts.Color
		}
		if o.Dim == (color.NRGBA{}) {
			o.Dim = DefaultOpts.Dim
		}
	}
	g := layout.Grid()
	rows := g.Rows
	if g.AuxCells > 0 {
		rows++
	}
	if o.Cell == 0 && dst != nil {
		b := dst.Bounds()
		o.Cell = min(b.Dx()/max(g.Columns, g.AuxCells), b.Dy()/rows)
	}
	if o.Cell <= 0 {
		return nil, errors.New("faceimage: drawer is too small for the face")
	}
	f, err := truetype.Parse(goregular.TTF)
	if err != nil {
		return nil, wrap(err)
	}
	face := truetype.NewFace(f, &truetype.Options{Size: float64(o.Cell) * 0.6})
	return &Dev{dst: dst, layout: layout, opts: o, rows: rows, face: face}, nil
}

// Bounds returns the size of the rendered face.
func (d *Dev) Bounds() image.Rectangle {
	g := d.layout.Grid()
	return image.Rect(0, 0, max(g.Columns, g.AuxCells)*d.opts.Cell, d.rows*d.opts.Cell)
}

// Image returns the last rendered frame, nil before the first Show.
func (d *Dev) Image() image.Image {
	return d.img
}

func scale(c color.NRGBA, level display.Intensity) color.NRGBA {
	s := func(v uint8) uint8 { return uint8(int(v) * int(level) / 255) }
	return color.NRGBA{R: s(c.R), G: s(c.G), B: s(c.B), A: 255}
}

// Show renders buf at level and draws it.
func (d *Dev) Show(buf *grid.Buffer, level display.Intensity) error {
	g := buf.Grid()
	b := d.Bounds()
	cell := float64(d.opts.Cell)
	dc := gg.NewContext(b.Dx(), b.Dy())
	dc.SetRGB(0, 0, 0)
	dc.Clear()
	lit := scale(d.opts.Color, level)
	dc.SetColor(lit)
	for row := range g.Rows + 1 {
		for col := range g.RowWidth(row) {
			if buf.Lit(row, col) {
				dc.DrawRectangle(float64(col)*cell, float64(row)*cell, cell, cell)
			}
		}
	}
	dc.Fill()
	dc.SetFontFace(d.face)
	for row := range g.Rows {
		for col := range g.Columns {
			if buf.Lit(row, col) {
				dc.SetRGB(0, 0, 0)
			} else {
				dc.SetColor(d.opts.Dim)
			}
			x := (float64(col) + 0.5) * cell
			y := (float64(row) + 0.5) * cell
			dc.DrawStringAnchored(string(d.layout.Letter(row, col)), x, y, 0.5, 0.5)
		}
	}
	d.img = dc.Image()
	if d.dst == nil {
		return nil
	}
	return wrap(d.dst.Draw(d.dst.Bounds(), d.img, image.Point{}))
}

// SavePNG writes the last rendered frame to path.
func (d *Dev) SavePNG(path string) error {
	if d.img == nil {
		return errors.New("faceimage: nothing rendered yet")
	}
	return wrap(gg.SavePNG(path, d.img))
}

// Halt implements conn.Resource. It halts the underlying Drawer.
func (d *Dev) Halt() error {
	if d.dst == nil {
		return nil
	}
	return d.dst.Halt()
}

func (d *Dev) String() string {
	if d.dst == nil {
		return "FaceImage"
	}
	return fmt.Sprintf("FaceImage{%s}", d.dst)
}
