// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package wordclock is a container for the word clock packages.
//
// The time is translated into words by timewords, placed on the face by
// wordlayout and grid, dimmed by brightness and shown on one of the LED
// outputs: max7219, sk9822, screen or faceimage. engine ties them together
// and cmd/wordclock runs it on a host supported by periph.io.
package wordclock
