// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package qp

import "errors"

var (
	// ErrDimension indicates a matrix or vector argument whose shape is
	// inconsistent with the problem dimensions. Detected before any
	// numeric work starts; inputs are never reshaped or truncated.
	ErrDimension = errors.New("qp: dimension mismatch")
	// ErrBadWeight indicates a task weight that is not strictly positive.
	ErrBadWeight = errors.New("qp: task weight must be positive")
	// ErrNotConverged indicates the active-set loop exceeded its
	// iteration limit. The accompanying Result still carries the best
	// iterate and the iteration count.
	ErrNotConverged = errors.New("qp: active set exceeded iteration limit")
)
