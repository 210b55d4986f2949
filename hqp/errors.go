// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package hqp

import "errors"

var (
	// ErrBadDimension indicates a solver dimension that is not positive
	// or level data whose shape disagrees with the solver dimension.
	ErrBadDimension = errors.New("hqp: dimension mismatch")
	// ErrBadLevelOrder indicates level priorities that are not strictly
	// increasing in processing order.
	ErrBadLevelOrder = errors.New("hqp: level priorities must be strictly increasing")
	// ErrInfeasibleLevel indicates equality constraints that cannot be
	// met inside the null space left by higher-priority levels. Distinct
	// from a zero-dimensional null space, which is not an error.
	ErrInfeasibleLevel = errors.New("hqp: level equalities infeasible within remaining nullspace")
)
