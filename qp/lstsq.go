// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package qp

import (
	"errors"

	"gonum.org/v1/gonum/mat"
)

const eps = float64(7)/3 - float64(4)/3 - 1. // machine precision

var errFactorize = errors.New("qp: SVD factorization failed")

// MinNormLstsq solves the least-squares problem 𝚖𝚒𝚗 ‖ 𝐚𝐱 - 𝐛 ‖₂ and,
// among all minimizers, returns the one of smallest Euclidean norm
//
//	𝐱 = ∑ᵢ (𝐮ᵢᵀ𝐛 / σᵢ) 𝐯ᵢ  over σᵢ > τ
//
// where 𝐚 = 𝐔𝚺𝐕ᵀ and the pseudorank cutoff is τ = 𝚖𝚊𝚡(r,c)·ε·σ₁.
// The numerical rank of 𝐚 is returned alongside the solution.
func MinNormLstsq(a mat.Matrix, b mat.Vector) (*mat.VecDense, int, error) {
	r, c := a.Dims()
	if b.Len() != r {
		return nil, 0, ErrDimension
	}
	var svd mat.SVD
	if ok := svd.Factorize(a, mat.SVDThin); !ok {
		return nil, 0, errFactorize
	}
	sv := svd.Values(nil)
	var u, v mat.Dense
	svd.UTo(&u)
	svd.VTo(&v)

	tol := float64(max(r, c)) * eps * sv[0]
	x := mat.NewVecDense(c, nil)
	rank := 0
	for i, s := range sv {
		if s <= tol {
			break // singular values are ordered descending
		}
		rank++
		x.AddScaledVec(x, mat.Dot(u.ColView(i), b)/s, v.ColView(i))
	}
	return x, rank, nil
}
