// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package qp

import (
	"fmt"
	"slices"

	"gonum.org/v1/gonum/mat"
)

// Options control the active-set iteration.
type Options struct {
	// MaxIter caps the number of equality subproblems solved.
	MaxIter int
	// Tol governs the violation and multiplier sign checks.
	Tol float64
	// ActiveTol governs active-set reconstruction from a warm-start
	// point: rows within ActiveTol of equality are seeded active.
	ActiveTol float64
}

// DefaultOptions returns the iteration limits and tolerances used when
// SolveActiveSet is given a nil Options.
func DefaultOptions() Options {
	return Options{MaxIter: 50, Tol: 1e-7, ActiveTol: 1e-6}
}

// WarmStart carries a previous solution and active set into a new
// solve. Active0 takes precedence over X0 when both are set.
type WarmStart struct {
	X0      *mat.VecDense
	Active0 []int
}

// Result is the outcome of an active-set solve.
type Result struct {
	// X is the primal solution.
	X *mat.VecDense
	// LambdaEq holds the equality multipliers, nil when p = 0.
	LambdaEq *mat.VecDense
	// LambdaIneq holds one multiplier per entry of Active, in the same
	// order; nil when the final active set is empty.
	LambdaIneq *mat.VecDense
	// Active lists the inequality rows treated as equalities at X.
	Active []int
	// Iterations counts the equality subproblems solved.
	Iterations int
}

// SolveActiveSet solves the inequality-constrained quadratic program
//
//	𝚖𝚒𝚗 ½𝐱ᵀ𝐇𝐱 + 𝐠ᵀ𝐱 subject to 𝐀𝐱 = 𝐛 and 𝐂𝐱 ≤ 𝐝
//
// with a primal active-set method. Each iteration solves the equality
// subproblem on 𝐀 stacked with the active rows of 𝐂, then restores the
// KKT conditions one step at a time: the single most-violated inactive
// row (largest 𝐂ᵢ𝐱 - 𝐝ᵢ above Tol) is added, or every active row whose
// multiplier falls below -Tol is released at once. The loop terminates
// when no row is violated and all active multipliers are non-negative.
//
// 𝐀/𝐛 and 𝐂/𝐝 may be nil; with no inequalities the call reduces to a
// single equality solve.
//
// When MaxIter is exceeded the best iterate found is still returned
// inside Result, together with ErrNotConverged.
func SolveActiveSet(h mat.Symmetric, g mat.Vector, a mat.Matrix, b mat.Vector, c mat.Matrix, d mat.Vector, warm *WarmStart, opts *Options) (*Result, error) {

	o := DefaultOptions()
	if opts != nil {
		o = *opts
	}

	n := h.SymmetricDim()
	if n <= 0 || g.Len() != n {
		return nil, fmt.Errorf("%w: gradient has %d entries, want %d", ErrDimension, g.Len(), n)
	}
	p, q := 0, 0
	if a != nil {
		var ca int
		p, ca = a.Dims()
		if ca != n || b == nil || b.Len() != p {
			return nil, fmt.Errorf("%w: equality block is not %d×%d", ErrDimension, p, n)
		}
	}
	if c != nil {
		var cc int
		q, cc = c.Dims()
		if cc != n || d == nil || d.Len() != q {
			return nil, fmt.Errorf("%w: inequality block is not %d×%d", ErrDimension, q, n)
		}
	}

	active, err := seedActiveSet(c, d, q, warm, o.ActiveTol)
	if err != nil {
		return nil, err
	}

	row := make([]float64, n)
	res := &Result{}
	for iter := 1; ; iter++ {
		if iter > o.MaxIter {
			res.Iterations = o.MaxIter
			return res, fmt.Errorf("%w: after %d iterations", ErrNotConverged, o.MaxIter)
		}

		// Equality subproblem on 𝐀 stacked with the active rows of 𝐂.
		var (
			as mat.Matrix
			bs mat.Vector
		)
		if k := p + len(active); k > 0 {
			sa := mat.NewDense(k, n, nil)
			sb := mat.NewVecDense(k, nil)
			for i := 0; i < p; i++ {
				sa.SetRow(i, mat.Row(row, i, a))
				sb.SetVec(i, b.AtVec(i))
			}
			for j, i := range active {
				sa.SetRow(p+j, mat.Row(row, i, c))
				sb.SetVec(p+j, d.AtVec(i))
			}
			as, bs = sa, sb
		}
		x, lam, err := SolveEquality(h, g, as, bs)
		if err != nil {
			return nil, err
		}

		res.X = x
		res.Iterations = iter
		res.Active = slices.Clone(active)
		res.LambdaEq, res.LambdaIneq = nil, nil
		if p > 0 {
			res.LambdaEq = mat.NewVecDense(p, nil)
			res.LambdaEq.CopyVec(lam.SliceVec(0, p))
		}
		if len(active) > 0 {
			res.LambdaIneq = mat.NewVecDense(len(active), nil)
			res.LambdaIneq.CopyVec(lam.SliceVec(p, p+len(active)))
		}

		// Add the single most-violated inactive row, if any.
		worst, worstV := -1, o.Tol
		for i := 0; i < q; i++ {
			if slices.Contains(active, i) {
				continue
			}
			if v := rowDot(c, i, x) - d.AtVec(i); v > worstV {
				worst, worstV = i, v
			}
		}
		if worst >= 0 {
			active = append(active, worst)
			continue
		}

		// No violation: release every active row whose multiplier signals
		// it is not needed for optimality.
		if len(active) > 0 {
			keep := active[:0]
			for j, i := range active {
				if res.LambdaIneq.AtVec(j) >= -o.Tol {
					keep = append(keep, i)
				}
			}
			if len(keep) < len(active) {
				active = keep
				continue
			}
		}

		// KKT conditions hold.
		return res, nil
	}
}

// rowDot computes the inner product of row i of m with x.
func rowDot(m mat.Matrix, i int, x mat.Vector) float64 {
	_, n := m.Dims()
	var s float64
	for j := 0; j < n; j++ {
		s += m.At(i, j) * x.AtVec(j)
	}
	return s
}

// seedActiveSet builds the initial active set from warm-start inputs:
// explicit indices win, else rows touching equality at X0, else empty.
func seedActiveSet(c mat.Matrix, d mat.Vector, q int, warm *WarmStart, activeTol float64) ([]int, error) {
	var active []int
	switch {
	case warm == nil || q == 0:
	case warm.Active0 != nil:
		for _, i := range warm.Active0 {
			if i < 0 || i >= q {
				return nil, fmt.Errorf("%w: warm-start active row %d out of range", ErrDimension, i)
			}
		}
		active = slices.Clone(warm.Active0)
	case warm.X0 != nil:
		for i := 0; i < q; i++ {
			r := rowDot(c, i, warm.X0) - d.AtVec(i)
			if r >= -activeTol && r <= activeTol {
				active = append(active, i)
			}
		}
	}
	return active, nil
}
