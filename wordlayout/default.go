// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package wordlayout

import "github.com/GermanBionicSystems/wordclock/grid"

// DefaultGrid is the 11x10 letter matrix with four fine-minute LEDs of the
// SK9822 build.
var DefaultGrid = grid.Grid{Columns: 11, Rows: 10, AuxCells: FineTicks}

// DefaultLetters is the printed face for DefaultGrid.
var DefaultLetters = []string{
	"ITLISASTIME",
	"ACXQUARTERS",
	"TWENTYXFIVE",
	"TENSHALFTOB",
	"EPASTRUNINE",
	"ONESIXTHREE",
	"FOURFIVETWO",
	"EIGHTELEVEN",
	"SEVENTWELVE",
	"TENSEOCLOCK",
}

// DefaultWords are the word positions of DefaultLetters.
var DefaultWords = map[Token]grid.Word{
	It:         {Row: 0, Col: 0, Len: 2},
	Is:         {Row: 0, Col: 3, Len: 2},
	Quarter:    {Row: 1, Col: 3, Len: 7},
	Twenty:     {Row: 2, Col: 0, Len: 6},
	Five:       {Row: 2, Col: 7, Len: 4},
	Ten:        {Row: 3, Col: 0, Len: 3},
	Half:       {Row: 3, Col: 4, Len: 4},
	To:         {Row: 3, Col: 8, Len: 2},
	Past:       {Row: 4, Col: 1, Len: 4},
	HourNine:   {Row: 4, Col: 7, Len: 4},
	HourOne:    {Row: 5, Col: 0, Len: 3},
	HourSix:    {Row: 5, Col: 3, Len: 3},
	HourThree:  {Row: 5, Col: 6, Len: 5},
	HourFour:   {Row: 6, Col: 0, Len: 4},
	HourFive:   {Row: 6, Col: 4, Len: 4},
	HourTwo:    {Row: 6, Col: 8, Len: 3},
	HourEight:  {Row: 7, Col: 0, Len: 5},
	HourEleven: {Row: 7, Col: 5, Len: 6},
	HourSeven:  {Row: 8, Col: 0, Len: 5},
	HourTwelve: {Row: 8, Col: 5, Len: 6},
	HourTen:    {Row: 9, Col: 0, Len: 3},
	OClock:     {Row: 9, Col: 5, Len: 6},
	Fine1:      {Row: 10, Col: 0, Len: 1},
	Fine2:      {Row: 10, Col: 1, Len: 1},
	Fine3:      {Row: 10, Col: 2, Len: 1},
	Fine4:      {Row: 10, Col: 3, Len: 1},
}

// Default returns the layout of the SK9822 build. snake selects alternating
// row wiring.
func Default(snake bool) *Layout {
	g := DefaultGrid
	g.Snake = snake
	l, err := New(g, DefaultWords, DefaultLetters)
	if err != nil {
		panic(err)
	}
	return l
}
