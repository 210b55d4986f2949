// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package hqp

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// A two-level stack over ℝ²: the top priority pins the first
// coordinate, the lower priority drives the second toward 10 but is
// clamped by its own bound x₂ ≤ 3.
func ExampleSolver_Solve() {
	solver, err := NewSolver(2, nil)
	if err != nil {
		panic(err)
	}

	high := NewLevel(0)
	_ = high.AddTask(mat.NewDense(1, 2, []float64{1, 0}), mat.NewVecDense(1, []float64{1}))

	low := NewLevel(1)
	_ = low.AddTask(mat.NewDense(1, 2, []float64{0, 1}), mat.NewVecDense(1, []float64{10}))
	_ = low.AddInequality(mat.NewDense(1, 2, []float64{0, 1}), mat.NewVecDense(1, []float64{3}))

	sol, err := solver.Solve([]Level{*high, *low})
	if err != nil {
		panic(err)
	}

	fmt.Printf("x = [%.1f %.1f]\n", sol.X.AtVec(0), sol.X.AtVec(1))
	fmt.Printf("active bounds at level 1: %v\n", sol.Levels[1].Active)
	// Output:
	// x = [1.0 3.0]
	// active bounds at level 1: [0]
}
