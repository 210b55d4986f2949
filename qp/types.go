// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package qp

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// QuadraticTask is a soft linear least-squares objective ‖𝐉𝐱 - 𝐯‖₂
// over the full variable vector. Weight scales the task's contribution
// to the combined objective and must be strictly positive.
type QuadraticTask struct {
	J      *mat.Dense
	V      *mat.VecDense
	Weight float64
}

// EqualityConstraint is a hard linear relation 𝐀𝐱 = 𝐛.
type EqualityConstraint struct {
	A *mat.Dense
	B *mat.VecDense
}

// InequalityConstraint is a hard linear relation 𝐂𝐱 ≤ 𝐝.
type InequalityConstraint struct {
	C *mat.Dense
	D *mat.VecDense
}

// NewQuadraticTask builds a unit-weight task and checks that 𝐉 and 𝐯
// agree on the number of rows.
func NewQuadraticTask(j *mat.Dense, v *mat.VecDense) (QuadraticTask, error) {
	t := QuadraticTask{J: j, V: v, Weight: 1}
	if r, _ := j.Dims(); r != v.Len() {
		return t, fmt.Errorf("%w: task has %d rows but %d targets", ErrDimension, r, v.Len())
	}
	return t, nil
}

// NewEqualityConstraint checks that 𝐀 and 𝐛 agree on the number of rows.
func NewEqualityConstraint(a *mat.Dense, b *mat.VecDense) (EqualityConstraint, error) {
	c := EqualityConstraint{A: a, B: b}
	if r, _ := a.Dims(); r != b.Len() {
		return c, fmt.Errorf("%w: equality has %d rows but %d targets", ErrDimension, r, b.Len())
	}
	return c, nil
}

// NewInequalityConstraint checks that 𝐂 and 𝐝 agree on the number of rows.
func NewInequalityConstraint(c *mat.Dense, d *mat.VecDense) (InequalityConstraint, error) {
	ic := InequalityConstraint{C: c, D: d}
	if r, _ := c.Dims(); r != d.Len() {
		return ic, fmt.Errorf("%w: inequality has %d rows but %d targets", ErrDimension, r, d.Len())
	}
	return ic, nil
}

func (t QuadraticTask) check(n int) error {
	r, c := t.J.Dims()
	if c != n {
		return fmt.Errorf("%w: task has %d columns, want %d", ErrDimension, c, n)
	}
	if r != t.V.Len() {
		return fmt.Errorf("%w: task has %d rows but %d targets", ErrDimension, r, t.V.Len())
	}
	if !(t.Weight > 0) {
		return fmt.Errorf("%w: got %v", ErrBadWeight, t.Weight)
	}
	return nil
}

func (e EqualityConstraint) check(n int) error {
	r, c := e.A.Dims()
	if c != n {
		return fmt.Errorf("%w: equality has %d columns, want %d", ErrDimension, c, n)
	}
	if r != e.B.Len() {
		return fmt.Errorf("%w: equality has %d rows but %d targets", ErrDimension, r, e.B.Len())
	}
	return nil
}

func (i InequalityConstraint) check(n int) error {
	r, c := i.C.Dims()
	if c != n {
		return fmt.Errorf("%w: inequality has %d columns, want %d", ErrDimension, c, n)
	}
	if r != i.D.Len() {
		return fmt.Errorf("%w: inequality has %d rows but %d targets", ErrDimension, r, i.D.Len())
	}
	return nil
}

// GaussNormal combines tasks into the Gauss normal form of the summed
// objective: 𝐇 = ∑𝑤𝐉ᵀ𝐉 and 𝐠 = -∑𝑤𝐉ᵀ𝐯, equivalent to stacking the
// weighted 𝐉/𝐯 rows of every task.
func GaussNormal(tasks []QuadraticTask, n int) (*mat.SymDense, *mat.VecDense, error) {
	h := mat.NewSymDense(n, nil)
	g := mat.NewVecDense(n, nil)
	var (
		jj mat.SymDense
		jv mat.VecDense
	)
	for _, t := range tasks {
		if err := t.check(n); err != nil {
			return nil, nil, err
		}
		jj.Reset()
		jj.SymOuterK(t.Weight, t.J.T()) // 𝑤𝐉ᵀ𝐉
		h.AddSym(h, &jj)
		jv.Reset()
		jv.MulVec(t.J.T(), t.V) // 𝐉ᵀ𝐯
		g.AddScaledVec(g, -t.Weight, &jv)
	}
	return h, g, nil
}
