// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package brightness

// Ring is a fixed-capacity circular buffer of light samples. It is prefilled
// so that the average is defined from boot.
type Ring struct {
	samples []int
	next    int
	sum     int
}

// NewRing returns a ring of size slots, all set to fill. size is forced to at
// least 1.
func NewRing(size, fill int) *Ring {
	if size < 1 {
		size = 1
	}
	r := &Ring{samples: make([]int, size)}
	for i := range r.samples {
		r.samples[i] = fill
	}
	r.sum = size * fill
	return r
}

// Add overwrites the oldest sample with v.
func (r *Ring) Add(v int) {
	r.sum += v - r.samples[r.next]
	r.samples[r.next] = v
	r.next = (r.next + 1) % len(r.samples)
}

// Average returns the integer mean of all slots.
func (r *Ring) Average() int {
	return r.sum / len(r.samples)
}

// Len returns the capacity of the ring.
func (r *Ring) Len() int {
	return len(r.samples)
}
