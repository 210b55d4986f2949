// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package hqp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

const tol = 1e-7

func TestNullspaceBasisEmptyBlock(t *testing.T) {
	basis, err := nullspaceBasis(nil, 3)
	require.NoError(t, err)
	r, c := basis.Dims()
	assert.Equal(t, 3, r)
	assert.Equal(t, 3, c)
	assert.True(t, mat.EqualApprox(basis, identity(3), tol))
}

func TestNullspaceBasisFullRank(t *testing.T) {
	basis, err := nullspaceBasis(identity(2), 2)
	require.NoError(t, err)
	assert.Nil(t, basis, "full-rank block leaves no freedom")
}

func TestNullspaceBasisSingleRow(t *testing.T) {
	a := mat.NewDense(1, 2, []float64{1, 0})
	basis, err := nullspaceBasis(a, 2)
	require.NoError(t, err)
	r, c := basis.Dims()
	require.Equal(t, 2, r)
	require.Equal(t, 1, c)
	// The basis spans ±e₂; check by invariants, not by sign.
	assertNullspace(t, a, basis)
}

func TestNullspaceBasisWideBlock(t *testing.T) {
	a := mat.NewDense(2, 4, []float64{
		1, 1, 0, 0,
		0, 0, 1, -1,
	})
	basis, err := nullspaceBasis(a, 4)
	require.NoError(t, err)
	r, c := basis.Dims()
	require.Equal(t, 4, r)
	require.Equal(t, 2, c)
	assertNullspace(t, a, basis)
}

func TestNullspaceBasisDependentRows(t *testing.T) {
	// Duplicated rows must not shrink the null space twice.
	a := mat.NewDense(2, 3, []float64{
		1, 0, 0,
		1, 0, 0,
	})
	basis, err := nullspaceBasis(a, 3)
	require.NoError(t, err)
	_, c := basis.Dims()
	require.Equal(t, 2, c)
	assertNullspace(t, a, basis)
}

// assertNullspace checks 𝐀𝐍 ≈ O and 𝐍ᵀ𝐍 = 𝐈.
func assertNullspace(t *testing.T, a, basis *mat.Dense) {
	t.Helper()
	var an mat.Dense
	an.Mul(a, basis)
	assert.Less(t, mat.Norm(&an, 2), tol, "basis must annihilate the block")
	_, c := basis.Dims()
	var gram mat.Dense
	gram.Mul(basis.T(), basis)
	assert.True(t, mat.EqualApprox(&gram, identity(c), tol), "basis must be orthonormal")
}
