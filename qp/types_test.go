// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package qp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func TestGaussNormal(t *testing.T) {
	// Identity task: 𝐇 = 𝐉ᵀ𝐉 = 𝐈, 𝐠 = -𝐉ᵀ𝐯 = -𝐯.
	task, err := NewQuadraticTask(
		mat.NewDense(2, 2, []float64{1, 0, 0, 1}),
		mat.NewVecDense(2, []float64{1, 2}))
	require.NoError(t, err)

	h, g, err := GaussNormal([]QuadraticTask{task}, 2)
	require.NoError(t, err)
	assert.InDelta(t, 1, h.At(0, 0), tol)
	assert.InDelta(t, 0, h.At(0, 1), tol)
	assert.InDelta(t, 1, h.At(1, 1), tol)
	assert.InDelta(t, -1, g.AtVec(0), tol)
	assert.InDelta(t, -2, g.AtVec(1), tol)
}

func TestGaussNormalSumsTasks(t *testing.T) {
	// Two stacked row tasks are equivalent to one two-row task.
	t1, err := NewQuadraticTask(mat.NewDense(1, 2, []float64{1, 0}), mat.NewVecDense(1, []float64{3}))
	require.NoError(t, err)
	t2, err := NewQuadraticTask(mat.NewDense(1, 2, []float64{0, 2}), mat.NewVecDense(1, []float64{4}))
	require.NoError(t, err)

	h, g, err := GaussNormal([]QuadraticTask{t1, t2}, 2)
	require.NoError(t, err)
	assert.InDelta(t, 1, h.At(0, 0), tol)
	assert.InDelta(t, 4, h.At(1, 1), tol)
	assert.InDelta(t, 0, h.At(0, 1), tol)
	assert.InDelta(t, -3, g.AtVec(0), tol)
	assert.InDelta(t, -8, g.AtVec(1), tol)
}

func TestGaussNormalWeight(t *testing.T) {
	task, err := NewQuadraticTask(
		mat.NewDense(1, 1, []float64{1}),
		mat.NewVecDense(1, []float64{2}))
	require.NoError(t, err)
	task.Weight = 3

	h, g, err := GaussNormal([]QuadraticTask{task}, 1)
	require.NoError(t, err)
	assert.InDelta(t, 3, h.At(0, 0), tol)
	assert.InDelta(t, -6, g.AtVec(0), tol)

	task.Weight = 0
	_, _, err = GaussNormal([]QuadraticTask{task}, 1)
	require.ErrorIs(t, err, ErrBadWeight)
}

func TestConstructorDimensions(t *testing.T) {
	_, err := NewQuadraticTask(mat.NewDense(2, 2, nil), mat.NewVecDense(3, nil))
	require.ErrorIs(t, err, ErrDimension)

	_, err = NewEqualityConstraint(mat.NewDense(1, 2, nil), mat.NewVecDense(2, nil))
	require.ErrorIs(t, err, ErrDimension)

	_, err = NewInequalityConstraint(mat.NewDense(3, 2, nil), mat.NewVecDense(1, nil))
	require.ErrorIs(t, err, ErrDimension)

	// Column count is checked against the ambient dimension.
	task, err := NewQuadraticTask(mat.NewDense(1, 3, nil), mat.NewVecDense(1, nil))
	require.NoError(t, err)
	_, _, err = GaussNormal([]QuadraticTask{task}, 2)
	require.ErrorIs(t, err, ErrDimension)
}
