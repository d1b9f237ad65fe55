// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package timewords translates a time of day into the words a word clock
// lights.
//
// The minute is shown in five-minute buckets ("TWENTY FIVE PAST SIX") and the
// remaining minutes of the bucket as one to four fine-minute ticks. Output is
// a pure function of the hour, the minute and the Opts.
//
// Minutes 0 to 4 read "O'CLOCK". Minutes 5 to PastCutoff read PAST the
// current hour, so 30 to 34 is "HALF PAST". Later minutes read TO the next
// hour.
//
// With Opts.NoonMidnight, the hours 12 and 0 are named "NOON" and "MIDNIGHT"
// instead of "TWELVE", without "O'CLOCK".
package timewords

import (
	"errors"
	"fmt"
	"log"

	"github.com/GermanBionicSystems/wordclock/wordlayout"
)

// PastCutoff is the last minute of the hour that reads PAST.
const PastCutoff = 34

var ErrTimeRange = errors.New("timewords: time out of range")

// phrases maps each non-zero five-minute bucket to its words.
var phrases = map[int][]wordlayout.Token{
	5:  {wordlayout.Five},
	10: {wordlayout.Ten},
	15: {wordlayout.Quarter},
	20: {wordlayout.Twenty},
	25: {wordlayout.Twenty, wordlayout.Five},
	30: {wordlayout.Half},
	35: {wordlayout.Twenty, wordlayout.Five},
	40: {wordlayout.Twenty},
	45: {wordlayout.Quarter},
	50: {wordlayout.Ten},
	55: {wordlayout.Five},
}

// Opts represents the options of a Translator.
type Opts struct {
	// LeadPhrase lights "IT IS" in front of every time.
	LeadPhrase bool
	// NoonMidnight names the hours 12 and 0 NOON and MIDNIGHT. The face needs
	// both words.
	NoonMidnight bool
	// Logger receives internal-consistency warnings. nil selects log.Default().
	Logger *log.Logger
}

// DefaultOpts is the recommended default options.
var DefaultOpts = Opts{LeadPhrase: true}

// Translator converts times to tokens.
type Translator struct {
	opts     Opts
	log      *log.Logger
	warnings int
}

// New returns a Translator. opts may be nil to use DefaultOpts.
func New(opts *Opts) *Translator {
	o := DefaultOpts
	if opts != nil {
		o = *opts
	}
	l := o.Logger
	if l == nil {
		l = log.Default()
	}
	return &Translator{opts: o, log: l}
}

// Bucket returns the start of the five-minute bucket containing minute.
func Bucket(minute int) int {
	return minute / 5 * 5
}

// DisplayHour returns the hour shown on a 12 hour face, in [1, 12]. Minutes
// past PastCutoff show the next hour.
func DisplayHour(hour, minute int) int {
	if minute > PastCutoff {
		hour++
	}
	hour %= 12
	if hour == 0 {
		return 12
	}
	return hour
}

// Translate returns the tokens to light for hour:minute, in reading order
// followed by the fine-minute ticks.
func (t *Translator) Translate(hour, minute int) ([]wordlayout.Token, error) {
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return nil, fmt.Errorf("%w: %02d:%02d", ErrTimeRange, hour, minute)
	}
	out := make([]wordlayout.Token, 0, 8)
	if t.opts.LeadPhrase {
		out = append(out, wordlayout.It, wordlayout.Is)
	}

	named, isNamed := t.namedHour(hour, minute)
	bucket := Bucket(minute)
	if bucket == 0 {
		if !isNamed {
			out = append(out, wordlayout.OClock)
		}
	} else {
		if p, ok := phrases[bucket]; ok {
			out = append(out, p...)
		} else {
			t.warnings++
			t.log.Printf("[WARNING] timewords: invalid five-minute bucket %d for %02d:%02d", bucket, hour, minute)
		}
		if minute <= PastCutoff {
			out = append(out, wordlayout.Past)
		} else {
			out = append(out, wordlayout.To)
		}
	}

	if isNamed {
		out = append(out, named)
	} else {
		h, _ := wordlayout.HourToken(DisplayHour(hour, minute))
		out = append(out, h)
	}

	for n := 1; n <= minute%5; n++ {
		f, _ := wordlayout.FineToken(n)
		out = append(out, f)
	}
	return out, nil
}

// namedHour returns NOON or MIDNIGHT when the hour being read, the next one
// for minutes past PastCutoff, has a name.
func (t *Translator) namedHour(hour, minute int) (wordlayout.Token, bool) {
	if !t.opts.NoonMidnight {
		return 0, false
	}
	if minute > PastCutoff {
		hour = (hour + 1) % 24
	}
	switch hour {
	case 0:
		return wordlayout.Midnight, true
	case 12:
		return wordlayout.Noon, true
	}
	return 0, false
}

// Warnings returns the number of internal-consistency warnings logged so far.
func (t *Translator) Warnings() int {
	return t.warnings
}
