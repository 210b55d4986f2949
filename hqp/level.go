// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package hqp

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/curioloop/hierqp/qp"
)

// Level is one priority tier of the stack: tasks combined additively
// into a single objective, plus the tier's own hard constraints.
// Lower Priority values are solved first and are inviolable for every
// later level.
type Level struct {
	Priority     int
	Tasks        []qp.QuadraticTask
	Equalities   []qp.EqualityConstraint
	Inequalities []qp.InequalityConstraint
}

// NewLevel returns an empty level with the given priority.
func NewLevel(priority int) *Level {
	return &Level{Priority: priority}
}

// AddTask appends the objective ‖𝐉𝐱 - 𝐯‖₂ with unit weight.
func (l *Level) AddTask(j *mat.Dense, v *mat.VecDense) error {
	t, err := qp.NewQuadraticTask(j, v)
	if err != nil {
		return err
	}
	l.Tasks = append(l.Tasks, t)
	return nil
}

// AddWeightedTask appends the objective 𝑤‖𝐉𝐱 - 𝐯‖₂.
func (l *Level) AddWeightedTask(j *mat.Dense, v *mat.VecDense, w float64) error {
	t, err := qp.NewQuadraticTask(j, v)
	if err != nil {
		return err
	}
	t.Weight = w
	l.Tasks = append(l.Tasks, t)
	return nil
}

// AddEquality appends the hard constraint 𝐀𝐱 = 𝐛.
func (l *Level) AddEquality(a *mat.Dense, b *mat.VecDense) error {
	c, err := qp.NewEqualityConstraint(a, b)
	if err != nil {
		return err
	}
	l.Equalities = append(l.Equalities, c)
	return nil
}

// AddInequality appends the hard constraint 𝐂𝐱 ≤ 𝐝.
func (l *Level) AddInequality(c *mat.Dense, d *mat.VecDense) error {
	ic, err := qp.NewInequalityConstraint(c, d)
	if err != nil {
		return err
	}
	l.Inequalities = append(l.Inequalities, ic)
	return nil
}

// check rejects constraint blocks whose shape disagrees with the
// ambient dimension before any numeric work starts. Task shapes are
// checked by qp.GaussNormal.
func (l *Level) check(n int) error {
	for _, e := range l.Equalities {
		r, c := e.A.Dims()
		if c != n || r != e.B.Len() {
			return fmt.Errorf("%w: level %d equality is %d×%d with %d targets, want %d columns",
				ErrBadDimension, l.Priority, r, c, e.B.Len(), n)
		}
	}
	for _, ic := range l.Inequalities {
		r, c := ic.C.Dims()
		if c != n || r != ic.D.Len() {
			return fmt.Errorf("%w: level %d inequality is %d×%d with %d targets, want %d columns",
				ErrBadDimension, l.Priority, r, c, ic.D.Len(), n)
		}
	}
	return nil
}

// stackEqualities concatenates the level's equality rows, or returns
// nils when the level has none.
func (l *Level) stackEqualities(n int) (*mat.Dense, *mat.VecDense) {
	return stackRows(n, len(l.Equalities), func(i int) (*mat.Dense, *mat.VecDense) {
		return l.Equalities[i].A, l.Equalities[i].B
	})
}

// stackInequalities concatenates the level's inequality rows, or
// returns nils when the level has none.
func (l *Level) stackInequalities(n int) (*mat.Dense, *mat.VecDense) {
	return stackRows(n, len(l.Inequalities), func(i int) (*mat.Dense, *mat.VecDense) {
		return l.Inequalities[i].C, l.Inequalities[i].D
	})
}

func stackRows(n, blocks int, block func(i int) (*mat.Dense, *mat.VecDense)) (*mat.Dense, *mat.VecDense) {
	rows := 0
	for i := 0; i < blocks; i++ {
		m, _ := block(i)
		r, _ := m.Dims()
		rows += r
	}
	if rows == 0 {
		return nil, nil
	}
	sm := mat.NewDense(rows, n, nil)
	sv := mat.NewVecDense(rows, nil)
	buf := make([]float64, n)
	at := 0
	for i := 0; i < blocks; i++ {
		m, v := block(i)
		r, _ := m.Dims()
		for k := 0; k < r; k++ {
			sm.SetRow(at, mat.Row(buf, k, m))
			sv.SetVec(at, v.AtVec(k))
			at++
		}
	}
	return sm, sv
}
