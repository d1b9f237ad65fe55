// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package wordlayout maps the words of a word clock face to their position on
// the LED grid.
//
// A Layout is immutable once built. New checks every word against the grid so
// that activating a word of a validated layout can never address a cell
// outside the face.
package wordlayout

import (
	"errors"
	"fmt"
	"strings"

	"github.com/GermanBionicSystems/wordclock/grid"
)

// Token identifies one word (or fine-minute tick) of the face.
type Token uint8

const (
	It Token = iota
	Is
	// Minute phrases.
	Five
	Ten
	Quarter
	Twenty
	Half
	// Relations.
	To
	Past
	OClock
	// Hour names.
	HourOne
	HourTwo
	HourThree
	HourFour
	HourFive
	HourSix
	HourSeven
	HourEight
	HourNine
	HourTen
	HourEleven
	HourTwelve
	// Fine-minute ticks, each lighting a single auxiliary LED.
	Fine1
	Fine2
	Fine3
	Fine4
	// Optional words replacing the hour name at 12:00 and 0:00.
	Noon
	Midnight

	tokenCount
)

// FineTicks is the number of fine-minute tick tokens.
const FineTicks = 4

var tokenNames = [tokenCount]string{
	"IT", "IS",
	"FIVE", "TEN", "QUARTER", "TWENTY", "HALF",
	"TO", "PAST", "O'CLOCK",
	"ONE", "TWO", "THREE", "FOUR", "FIVE", "SIX",
	"SEVEN", "EIGHT", "NINE", "TEN", "ELEVEN", "TWELVE",
	"FINE1", "FINE2", "FINE3", "FINE4",
	"NOON", "MIDNIGHT",
}

// Optional reports whether a face may leave out t.
func (t Token) Optional() bool {
	return t == Noon || t == Midnight
}

func (t Token) String() string {
	if t >= tokenCount {
		return fmt.Sprintf("Token(%d)", uint8(t))
	}
	return tokenNames[t]
}

// Tokens returns every token in declaration order.
func Tokens() []Token {
	t := make([]Token, tokenCount)
	for i := range t {
		t[i] = Token(i)
	}
	return t
}

// HourToken returns the name of hour h, 1 <= h <= 12.
func HourToken(h int) (Token, bool) {
	if h < 1 || h > 12 {
		return 0, false
	}
	return HourOne + Token(h-1), true
}

// FineToken returns the n-th fine-minute tick, 1 <= n <= FineTicks.
func FineToken(n int) (Token, bool) {
	if n < 1 || n > FineTicks {
		return 0, false
	}
	return Fine1 + Token(n-1), true
}

var (
	ErrMissingWord = errors.New("wordlayout: missing word")
	ErrOutOfGrid   = errors.New("wordlayout: word outside the grid")
	ErrFace        = errors.New("wordlayout: letter face doesn't match the grid")
)

// Layout is a validated table of word positions on a grid.
type Layout struct {
	g       grid.Grid
	words   [tokenCount]grid.Word
	has     [tokenCount]bool
	letters []string
}

// New validates words against g and returns the layout. Every Token that isn't
// Optional must be present. letters is the printed face, one string per matrix row; it may be
// nil, otherwise each row must have exactly g.Columns letters.
func New(g grid.Grid, words map[Token]grid.Word, letters []string) (*Layout, error) {
	if err := g.Validate(); err != nil {
		return nil, err
	}
	l := &Layout{g: g}
	for _, t := range Tokens() {
		w, ok := words[t]
		if !ok {
			if t.Optional() {
				continue
			}
			return nil, fmt.Errorf("%w %s", ErrMissingWord, t)
		}
		if !g.Contains(w) {
			return nil, fmt.Errorf("%w: %s at %+v in %s", ErrOutOfGrid, t, w, g)
		}
		l.words[t] = w
		l.has[t] = true
	}
	if letters != nil {
		if len(letters) != g.Rows {
			return nil, fmt.Errorf("%w: %d rows, expected %d", ErrFace, len(letters), g.Rows)
		}
		for i, row := range letters {
			if len([]rune(row)) != g.Columns {
				return nil, fmt.Errorf("%w: row %d has %d letters, expected %d", ErrFace, i, len([]rune(row)), g.Columns)
			}
		}
		l.letters = append([]string(nil), letters...)
	}
	return l, nil
}

// Grid returns the grid the layout was validated against.
func (l *Layout) Grid() grid.Grid {
	return l.g
}

// Word returns the position of t. ok is false for optional words the face
// doesn't have.
func (l *Layout) Word(t Token) (grid.Word, bool) {
	if t >= tokenCount || !l.has[t] {
		return grid.Word{}, false
	}
	return l.words[t], true
}

// Letter returns the printed letter of a cell. Auxiliary cells and faces
// without letters read as '*'.
func (l *Layout) Letter(row, col int) rune {
	if row < 0 || row >= len(l.letters) {
		return '*'
	}
	r := []rune(l.letters[row])
	if col < 0 || col >= len(r) {
		return '*'
	}
	return r[col]
}

// Spell returns the letters covered by t, as printed on the face.
func (l *Layout) Spell(t Token) string {
	w, ok := l.Word(t)
	if !ok {
		return ""
	}
	var b strings.Builder
	for i := range w.Len {
		b.WriteRune(l.Letter(w.Row, w.Col+i))
	}
	return b.String()
}
