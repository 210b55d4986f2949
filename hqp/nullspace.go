// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package hqp

import (
	"errors"

	"gonum.org/v1/gonum/mat"
)

const eps = float64(7)/3 - float64(4)/3 - 1. // machine precision

var errFactorize = errors.New("hqp: SVD factorization failed")

// nullspaceBasis returns an orthonormal basis for the null space of
// the r × n matrix a: the right-singular vectors whose singular value
// falls at or below the pseudorank cutoff τ = 𝚖𝚊𝚡(r,n)·ε·σ₁. A nil or
// zero-row a yields the full n × n identity; a full-rank square or
// tall a yields a nil basis (zero-dimensional null space).
func nullspaceBasis(a *mat.Dense, n int) (*mat.Dense, error) {
	if a == nil {
		return identity(n), nil
	}
	r, _ := a.Dims()
	if r == 0 {
		return identity(n), nil
	}

	var svd mat.SVD
	if ok := svd.Factorize(a, mat.SVDFull); !ok {
		return nil, errFactorize
	}
	sv := svd.Values(nil)
	tol := float64(max(r, n)) * eps * sv[0]
	rank := 0
	for _, s := range sv {
		if s > tol {
			rank++
		}
	}
	if rank >= n {
		return nil, nil
	}

	var v mat.Dense
	svd.VTo(&v)
	basis := mat.NewDense(n, n-rank, nil)
	basis.Copy(v.Slice(0, n, rank, n))
	return basis, nil
}

func identity(n int) *mat.Dense {
	m := mat.NewDense(n, n, nil)
	for i := 0; i < n; i++ {
		m.Set(i, i, 1)
	}
	return m
}
