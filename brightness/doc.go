// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package brightness adapts the LED brightness of a word clock to ambient
// light and to the presence of people in the room.
//
// Light samples from an LDR go into a small Ring and are averaged. The average
// is rescaled to a target level between MinBrightness and MaxBrightness. A
// Motion gate forces the target to zero once nobody has been seen for a while;
// the inactivity threshold is shorter at night. A manual override replaces the
// computed target until it is cleared.
//
// The current level never jumps to the target. A Fader moves it there in a
// fixed number of steps, one step per scheduler tick once its deadline is
// reached, so fading never blocks the control loop.
//
// Saturated or zero LDR readings are not treated specially; the rolling average
// and the clamp absorb them.
package brightness
