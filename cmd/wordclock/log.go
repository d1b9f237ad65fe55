// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package main

import (
	"bytes"
	"io"
)

// levelFilter drops the [DEBUG] lines. log.Logger issues one Write per line.
type levelFilter struct {
	w io.Writer
}

func (l *levelFilter) Write(p []byte) (int, error) {
	if bytes.Contains(p, []byte("[DEBUG] ")) {
		return len(p), nil
	}
	return l.w.Write(p)
}
