// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package common contains integer helpers shared by the word clock packages.
// For example, clamping a brightness level or rescaling a sensor reading.
package common

import "golang.org/x/exp/constraints"

// Clamp limits v to [lo, hi]. If lo > hi, the bounds are swapped.
func Clamp[T constraints.Ordered](v, lo, hi T) T {
	if hi < lo {
		lo, hi = hi, lo
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Abs returns the absolute value of a signed integer.
func Abs[T constraints.Signed](x T) T {
	if x < 0 {
		return -x
	}
	return x
}

// Sign returns -1, 0 or 1.
func Sign[T constraints.Signed](x T) T {
	switch {
	case x < 0:
		return -1
	case x > 0:
		return 1
	}
	return 0
}

// LinearMap rescales x from [inMin, inMax] to [outMin, outMax] using integer
// arithmetic. The result is not clamped; pass it through Clamp when x may lie
// outside the input range. A degenerate input range maps everything to outMin.
func LinearMap[T constraints.Signed](x, inMin, inMax, outMin, outMax T) T {
	if inMax == inMin {
		return outMin
	}
	return (x-inMin)*(outMax-outMin)/(inMax-inMin) + outMin
}
