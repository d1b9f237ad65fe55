// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package grid

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidGrid = errors.New("grid: columns and rows must be positive")
	ErrNegative    = errors.New("grid: aux cells and start offset can't be negative")
)

// Grid describes the geometry and wiring of a face.
type Grid struct {
	// Columns and Rows of the letter matrix.
	Columns, Rows int
	// AuxCells is the number of extra LEDs wired after the matrix.
	AuxCells int
	// Snake reverses the column order of every odd row.
	Snake bool
	// StartOffset is the number of LEDs on the chain before the first cell.
	StartOffset int
}

// Word is the position of a run of cells on one row. A word on the virtual
// row Rows addresses auxiliary cells.
type Word struct {
	Row, Col, Len int
}

// Validate checks that the geometry is usable.
func (g Grid) Validate() error {
	if g.Columns <= 0 || g.Rows <= 0 {
		return ErrInvalidGrid
	}
	if g.AuxCells < 0 || g.StartOffset < 0 {
		return ErrNegative
	}
	return nil
}

// TotalCells returns the number of addressable cells, matrix and auxiliary.
func (g Grid) TotalCells() int {
	return g.Columns*g.Rows + g.AuxCells
}

// Len returns the length of a frame buffer for this grid, including the
// leading StartOffset cells.
func (g Grid) Len() int {
	return g.StartOffset + g.TotalCells()
}

// AuxRow returns the virtual row number of the auxiliary cells.
func (g Grid) AuxRow() int {
	return g.Rows
}

// RowWidth returns the number of cells on row, or 0 for rows that don't exist.
func (g Grid) RowWidth(row int) int {
	switch {
	case row >= 0 && row < g.Rows:
		return g.Columns
	case row == g.Rows:
		return g.AuxCells
	}
	return 0
}

// Contains reports whether w lies entirely within the grid.
func (g Grid) Contains(w Word) bool {
	width := g.RowWidth(w.Row)
	return w.Len > 0 && w.Col >= 0 && w.Col+w.Len <= width
}

// Index converts a cell to its position in the frame buffer.
//
// It panics if the cell is outside the grid.
func (g Grid) Index(row, col int) int {
	if col < 0 || col >= g.RowWidth(row) {
		panic(fmt.Sprintf("grid: cell (%d, %d) outside %dx%d+%d", row, col, g.Rows, g.Columns, g.AuxCells))
	}
	if row == g.Rows {
		return g.Rows*g.Columns + col + g.StartOffset
	}
	if g.Snake && row%2 == 1 {
		col = g.Columns - 1 - col
	}
	return row*g.Columns + col + g.StartOffset
}

// Coord is the inverse of Index. ok is false for indices that don't address a
// cell, such as those before StartOffset.
func (g Grid) Coord(index int) (row, col int, ok bool) {
	i := index - g.StartOffset
	if i < 0 || i >= g.TotalCells() {
		return 0, 0, false
	}
	matrix := g.Rows * g.Columns
	if i >= matrix {
		return g.Rows, i - matrix, true
	}
	row, col = i/g.Columns, i%g.Columns
	if g.Snake && row%2 == 1 {
		col = g.Columns - 1 - col
	}
	return row, col, true
}

func (g Grid) String() string {
	return fmt.Sprintf("Grid{%dx%d+%d snake=%t offset=%d}", g.Rows, g.Columns, g.AuxCells, g.Snake, g.StartOffset)
}
