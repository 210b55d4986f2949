// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package qp

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// SolveEquality solves the equality-constrained quadratic program
//
//	𝚖𝚒𝚗 ½𝐱ᵀ𝐇𝐱 + 𝐠ᵀ𝐱 subject to 𝐀𝐱 = 𝐛
//
// where 𝐇 is n × n symmetric positive semi-definite and 𝐀 is p × n.
// Passing a nil 𝐀 (with nil 𝐛) solves the unconstrained problem.
//
// When 𝐇 admits a Cholesky factorization the KKT system is reduced by
// its Schur complement: the multiplier solves 𝐒𝛌 = -𝐛 - 𝐀𝐇⁻¹𝐠 with
// 𝐒 = 𝐀𝐇⁻¹𝐀ᵀ, then 𝐱 = 𝐇⁻¹(-𝐠 - 𝐀ᵀ𝛌). All products against 𝐇⁻¹ are
// back-substitutions on the factorization; the inverse is never formed.
//
// When 𝐇 is singular (semi-definite only) the full saddle-point system
//
//	⎡ 𝐇  𝐀ᵀ ⎤⎡ 𝐱 ⎤ = ⎡ -𝐠 ⎤
//	⎣ 𝐀  O  ⎦⎣ 𝛌 ⎦   ⎣  𝐛 ⎦
//
// is solved in the minimum-norm least-squares sense, so among all
// optima the returned 𝐱 is the one of smallest Euclidean norm.
// Hierarchical callers rely on this tie-break.
//
// The returned 𝛌 satisfies 𝐇𝐱 + 𝐀ᵀ𝛌 + 𝐠 = 0 and is nil when p = 0.
func SolveEquality(h mat.Symmetric, g mat.Vector, a mat.Matrix, b mat.Vector) (x, lambda *mat.VecDense, err error) {

	n := h.SymmetricDim()
	if n <= 0 || g.Len() != n {
		return nil, nil, fmt.Errorf("%w: gradient has %d entries, want %d", ErrDimension, g.Len(), n)
	}
	p := 0
	if a != nil {
		var ca int
		p, ca = a.Dims()
		if ca != n {
			return nil, nil, fmt.Errorf("%w: constraint has %d columns, want %d", ErrDimension, ca, n)
		}
		if b == nil || b.Len() != p {
			return nil, nil, fmt.Errorf("%w: constraint has %d rows but right side disagrees", ErrDimension, p)
		}
	}

	var chol mat.Cholesky
	if !chol.Factorize(h) {
		// 𝐇 is semi-definite: recover with a minimum-norm KKT solve.
		return solveKKT(h, g, a, b, n, p)
	}

	if p == 0 {
		// Unconstrained: 𝐇𝐱 = -𝐠
		neg := mat.NewVecDense(n, nil)
		neg.ScaleVec(-1, g)
		x = mat.NewVecDense(n, nil)
		if err = chol.SolveVecTo(x, neg); err != nil {
			return nil, nil, err
		}
		return x, nil, nil
	}

	// 𝐒 = 𝐀𝐇⁻¹𝐀ᵀ
	var hia mat.Dense
	if err = chol.SolveTo(&hia, a.T()); err != nil {
		return nil, nil, err
	}
	var s mat.Dense
	s.Mul(a, &hia)

	// 𝐒𝛌 = -𝐛 - 𝐀𝐇⁻¹𝐠
	var hg mat.VecDense
	if err = chol.SolveVecTo(&hg, g); err != nil {
		return nil, nil, err
	}
	rhs := mat.NewVecDense(p, nil)
	rhs.MulVec(a, &hg)
	rhs.AddVec(rhs, b)
	rhs.ScaleVec(-1, rhs)

	lambda = mat.NewVecDense(p, nil)
	var lu mat.LU
	lu.Factorize(&s)
	if err = lu.SolveVecTo(lambda, false, rhs); err != nil {
		// 𝐒 loses rank when constraint rows are dependent: take the
		// minimum-norm multiplier instead.
		if lambda, _, err = MinNormLstsq(&s, rhs); err != nil {
			return nil, nil, err
		}
	}

	// 𝐱 = 𝐇⁻¹(-𝐠 - 𝐀ᵀ𝛌)
	tmp := mat.NewVecDense(n, nil)
	tmp.MulVec(a.T(), lambda)
	tmp.AddVec(tmp, g)
	tmp.ScaleVec(-1, tmp)
	x = mat.NewVecDense(n, nil)
	if err = chol.SolveVecTo(x, tmp); err != nil {
		return nil, nil, err
	}
	return x, lambda, nil
}

// solveKKT assembles the dense (n+p) × (n+p) saddle-point system and
// solves it in the minimum-norm least-squares sense.
func solveKKT(h mat.Symmetric, g mat.Vector, a mat.Matrix, b mat.Vector, n, p int) (x, lambda *mat.VecDense, err error) {
	kkt := mat.NewDense(n+p, n+p, nil)
	for i := 0; i < n; i++ {
		for j := i; j < n; j++ {
			v := h.At(i, j)
			kkt.Set(i, j, v)
			kkt.Set(j, i, v)
		}
	}
	rhs := mat.NewVecDense(n+p, nil)
	for i := 0; i < n; i++ {
		rhs.SetVec(i, -g.AtVec(i))
	}
	for i := 0; i < p; i++ {
		for j := 0; j < n; j++ {
			v := a.At(i, j)
			kkt.Set(n+i, j, v)
			kkt.Set(j, n+i, v)
		}
		rhs.SetVec(n+i, b.AtVec(i))
	}

	sol, _, err := MinNormLstsq(kkt, rhs)
	if err != nil {
		return nil, nil, err
	}
	x = mat.NewVecDense(n, nil)
	x.CopyVec(sol.SliceVec(0, n))
	if p > 0 {
		lambda = mat.NewVecDense(p, nil)
		lambda.CopyVec(sol.SliceVec(n, n+p))
	}
	return x, lambda, nil
}

// KKTResidual reports the stationarity norm ‖𝐇𝐱 + 𝐀ᵀ𝛌 + 𝐠‖₂ and the
// primal feasibility norm ‖𝐀𝐱 - 𝐛‖₂ of a candidate optimum. A nil 𝐀
// (with nil 𝛌) drops the constraint terms. Useful for control-loop
// telemetry; both norms stay below 1e-7 for well-posed solves.
func KKTResidual(h mat.Symmetric, g mat.Vector, a mat.Matrix, b mat.Vector, x, lambda mat.Vector) (stationarity, feasibility float64) {
	n := h.SymmetricDim()
	stat := mat.NewVecDense(n, nil)
	stat.MulVec(h, x)
	stat.AddVec(stat, g)
	if a != nil && lambda != nil {
		var atl mat.VecDense
		atl.MulVec(a.T(), lambda)
		stat.AddVec(stat, &atl)
	}
	stationarity = mat.Norm(stat, 2)
	if a != nil {
		p, _ := a.Dims()
		feas := mat.NewVecDense(p, nil)
		feas.MulVec(a, x)
		feas.AddScaledVec(feas, -1, b)
		feasibility = mat.Norm(feas, 2)
	}
	return stationarity, feasibility
}
