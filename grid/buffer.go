// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package grid

// Buffer is one frame of lit and unlit cells, indexed in physical output
// order. It is cleared at the start of every render cycle.
type Buffer struct {
	g     Grid
	cells []bool
}

// NewBuffer returns an empty frame for g.
func NewBuffer(g Grid) (*Buffer, error) {
	if err := g.Validate(); err != nil {
		return nil, err
	}
	return &Buffer{g: g, cells: make([]bool, g.Len())}, nil
}

// Grid returns the geometry of the buffer.
func (b *Buffer) Grid() Grid {
	return b.g
}

// Activate lights every cell of w. Activating a word twice has no further
// effect.
//
// It panics if w doesn't fit in the grid.
func (b *Buffer) Activate(w Word) {
	for i := range w.Len {
		b.cells[b.g.Index(w.Row, w.Col+i)] = true
	}
}

// Clear turns every cell off.
func (b *Buffer) Clear() {
	clear(b.cells)
}

// Lit reports whether the cell at (row, col) is on.
func (b *Buffer) Lit(row, col int) bool {
	return b.cells[b.g.Index(row, col)]
}

// At reports whether the cell at buffer index i is on. Indices outside the
// buffer read as off.
func (b *Buffer) At(i int) bool {
	if i < 0 || i >= len(b.cells) {
		return false
	}
	return b.cells[i]
}

// Len returns the number of entries in the buffer.
func (b *Buffer) Len() int {
	return len(b.cells)
}

// Count returns the number of lit cells.
func (b *Buffer) Count() int {
	n := 0
	for _, on := range b.cells {
		if on {
			n++
		}
	}
	return n
}

// Cells returns a copy of the frame in physical order.
func (b *Buffer) Cells() []bool {
	c := make([]bool, len(b.cells))
	copy(c, b.cells)
	return c
}
