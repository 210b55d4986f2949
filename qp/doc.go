// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package qp solves small dense quadratic programs
//
//	𝚖𝚒𝚗 ½𝐱ᵀ𝐇𝐱 + 𝐠ᵀ𝐱 subject to 𝐀𝐱 = 𝐛 and 𝐂𝐱 ≤ 𝐝
//
// with a primal active-set method built on an equality-constrained
// QP primitive.
//
// The equality primitive reduces the KKT saddle-point system by a
// Schur complement against a Cholesky factorization of 𝐇. When 𝐇 is
// only positive semi-definite (a rank-deficient task Jacobian is the
// typical source) the primitive falls back to a minimum-norm
// least-squares solve of the full KKT system, so among all optima the
// returned 𝐱 is the one of smallest Euclidean norm. Callers stacking
// solves hierarchically rely on that tie-break.
//
// Objectives enter as linear least-squares tasks ‖𝐉𝐱 - 𝐯‖₂ and are
// combined through their Gauss normal form 𝐇 = ∑𝐉ᵀ𝐉, 𝐠 = -∑𝐉ᵀ𝐯.
//
// All solvers are stateless: every call allocates its own working
// matrices and returns owned results, so independent calls are safe
// from concurrent goroutines.
package qp
