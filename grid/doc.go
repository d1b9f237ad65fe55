// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package grid addresses the cells of a word clock face and holds the frame
// that is flushed to the LEDs.
//
// A face is a rectangular matrix of letters plus an optional strip of
// auxiliary LEDs (the fine-minute ticks) wired after the matrix. Cheap LED
// strips are usually daisy-chained row by row in alternating direction; set
// Grid.Snake to mirror the column of every odd row so that buffer indices match
// the physical order of the chain.
//
// # Addressing
//
// Matrix cells are (row, col) with 0 <= row < Rows and 0 <= col < Columns.
// Auxiliary cells use the virtual row Rows and 0 <= col < AuxCells. Addressing
// outside those ranges is a programming error and panics; layouts built with
// package wordlayout are validated up front so the panic cannot be reached
// from a validated layout.
package grid
